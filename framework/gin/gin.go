// Package jwtclaimsgin adapts the claim middleware to gin.
//
//	claims, err := jwtclaimsgin.New(
//	    jwtclaimsgin.WithMiddlewareOptions(jwtclaims.WithLogger(logger)),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	router.GET("/whoami", claims.Bind(jwtclaims.String("sub")), func(c *gin.Context) {
//	    sub, _ := jwtclaimsgin.GetClaim[string](c, "sub")
//	    c.JSON(http.StatusOK, gin.H{"sub": sub})
//	})
package jwtclaimsgin

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	jwtclaims "github.com/microservicios/go-jwt-claims"
	"github.com/microservicios/go-jwt-claims/core"
)

// DefaultContextKey is the gin context key holding the resolved core.Values.
const DefaultContextKey = "jwtclaims"

var (
	ErrErrorHandlerNil = errors.New("errorHandler cannot be nil")
	ErrContextKeyEmpty = errors.New("context key cannot be empty")
)

// ErrorHandler renders a resolution failure. It should abort the context.
type ErrorHandler func(c *gin.Context, err error)

// Option configures the gin Middleware.
type Option func(*Middleware) error

// WithErrorHandler sets the handler called when claim resolution aborts a request.
//
// Default: DefaultErrorHandler
func WithErrorHandler(h ErrorHandler) Option {
	return func(m *Middleware) error {
		if h == nil {
			return ErrErrorHandlerNil
		}
		m.errorHandler = h
		return nil
	}
}

// WithContextKey sets the gin context key the resolved values are stored under.
//
// Default: DefaultContextKey
func WithContextKey(key string) Option {
	return func(m *Middleware) error {
		if key == "" {
			return ErrContextKeyEmpty
		}
		m.contextKey = key
		return nil
	}
}

// WithMiddlewareOptions passes options to the underlying jwtclaims.ClaimMiddleware,
// for example the logger, metrics, tracer or header extractor.
// An error handler given here is replaced by the gin one.
func WithMiddlewareOptions(opts ...jwtclaims.Option) Option {
	return func(m *Middleware) error {
		m.middlewareOpts = append(m.middlewareOpts, opts...)
		return nil
	}
}

type ginContextKey struct{}

// ginRequest carries the gin context through the net/http middleware.
type ginRequest struct {
	c       *gin.Context
	reached bool
}

// Middleware resolves claims for gin routes.
type Middleware struct {
	claims         *jwtclaims.ClaimMiddleware
	errorHandler   ErrorHandler
	contextKey     string
	middlewareOpts []jwtclaims.Option
}

// New creates a gin Middleware with the supplied options.
func New(opts ...Option) (*Middleware, error) {
	m := &Middleware{
		errorHandler: DefaultErrorHandler,
		contextKey:   DefaultContextKey,
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	middlewareOpts := append(m.middlewareOpts, jwtclaims.WithErrorHandler(m.handleError))
	claims, err := jwtclaims.New(middlewareOpts...)
	if err != nil {
		return nil, err
	}
	m.claims = claims

	return m, nil
}

// Resolver returns the resolver behind the middleware, for handlers that
// resolve additional claims on demand.
func (m *Middleware) Resolver() *core.Resolver {
	return m.claims.Resolver()
}

// Bind returns a gin.HandlerFunc that resolves the given claims. The resolved
// values are stored in the request context and in the gin context under the
// configured key.
func (m *Middleware) Bind(bindings ...core.Binding) gin.HandlerFunc {
	handler := m.claims.Bind(bindings...)(http.HandlerFunc(m.next))

	return func(c *gin.Context) {
		req := &ginRequest{c: c}
		r := c.Request.WithContext(context.WithValue(c.Request.Context(), ginContextKey{}, req))
		handler.ServeHTTP(c.Writer, r)

		if !req.reached {
			c.Abort()
		}
	}
}

func (m *Middleware) next(_ http.ResponseWriter, r *http.Request) {
	req := r.Context().Value(ginContextKey{}).(*ginRequest)
	req.reached = true

	c := req.c
	c.Request = r

	if values, ok := core.ValuesFrom(r.Context()); ok {
		c.Set(m.contextKey, values)
	}

	c.Next()
}

func (m *Middleware) handleError(w http.ResponseWriter, r *http.Request, err error) {
	req, ok := r.Context().Value(ginContextKey{}).(*ginRequest)
	if !ok {
		jwtclaims.DefaultErrorHandler(w, r, err)
		return
	}
	m.errorHandler(req.c, err)
}

// DefaultErrorHandler aborts with the status and JSON body of
// jwtclaims.ErrorResponse.
func DefaultErrorHandler(c *gin.Context, err error) {
	status, body := jwtclaims.ErrorResponse(err)
	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", `Bearer realm="api"`)
	}
	c.AbortWithStatusJSON(status, body)
}

// Values returns the claims resolved for this request.
func Values(c *gin.Context) (core.Values, bool) {
	return core.ValuesFrom(c.Request.Context())
}

// GetClaim retrieves a resolved claim with type safety using generics.
//
// Example:
//
//	sub, err := jwtclaimsgin.GetClaim[string](c, "sub")
//	if err != nil {
//	    c.AbortWithStatus(http.StatusInternalServerError)
//	    return
//	}
func GetClaim[T any](c *gin.Context, name string) (T, error) {
	return core.Get[T](c.Request.Context(), name)
}

// LookupClaim retrieves a resolved claim. The boolean is false for optional
// claims that were absent from the token.
func LookupClaim[T any](c *gin.Context, name string) (T, bool) {
	return core.Lookup[T](c.Request.Context(), name)
}
