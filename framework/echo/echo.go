// Package jwtclaimsecho adapts the claim middleware to echo.
package jwtclaimsecho

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	jwtclaims "github.com/microservicios/go-jwt-claims"
	"github.com/microservicios/go-jwt-claims/core"
)

// DefaultContextKey is the echo context key holding the resolved core.Values.
const DefaultContextKey = "jwtclaims"

var (
	ErrErrorHandlerNil = errors.New("errorHandler cannot be nil")
	ErrContextKeyEmpty = errors.New("context key cannot be empty")
)

// ErrorHandler renders a resolution failure. The returned error is passed on
// to echo's HTTP error handler.
type ErrorHandler func(c echo.Context, err error) error

// Option configures the echo Middleware.
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

// WithContextKey sets the echo context key the resolved values are stored under.
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

// WithMiddlewareOptions passes options to the underlying jwtclaims.ClaimMiddleware.
// An error handler given here is replaced by the echo one.
func WithMiddlewareOptions(opts ...jwtclaims.Option) Option {
	return func(m *Middleware) error {
		m.middlewareOpts = append(m.middlewareOpts, opts...)
		return nil
	}
}

type echoContextKey struct{}

// echoRequest carries the echo context and the next handler through the
// net/http middleware, and collects the error either of them returns.
type echoRequest struct {
	c    echo.Context
	next echo.HandlerFunc
	err  error
}

// Middleware resolves claims for echo routes.
type Middleware struct {
	claims         *jwtclaims.ClaimMiddleware
	errorHandler   ErrorHandler
	contextKey     string
	middlewareOpts []jwtclaims.Option
}

// New creates an echo Middleware with the supplied options.
//
//	claims, err := jwtclaimsecho.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	e.GET("/whoami", whoami, claims.Bind(jwtclaims.String("sub")))
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

// Bind returns an echo.MiddlewareFunc that resolves the given claims before
// calling the next handler.
func (m *Middleware) Bind(bindings ...core.Binding) echo.MiddlewareFunc {
	handler := m.claims.Bind(bindings...)(http.HandlerFunc(m.next))

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := &echoRequest{c: c, next: next}
			r := c.Request().WithContext(context.WithValue(c.Request().Context(), echoContextKey{}, req))
			handler.ServeHTTP(c.Response(), r)
			return req.err
		}
	}
}

func (m *Middleware) next(_ http.ResponseWriter, r *http.Request) {
	req := r.Context().Value(echoContextKey{}).(*echoRequest)

	req.c.SetRequest(r)
	if values, ok := core.ValuesFrom(r.Context()); ok {
		req.c.Set(m.contextKey, values)
	}

	req.err = req.next(req.c)
}

func (m *Middleware) handleError(w http.ResponseWriter, r *http.Request, err error) {
	req, ok := r.Context().Value(echoContextKey{}).(*echoRequest)
	if !ok {
		jwtclaims.DefaultErrorHandler(w, r, err)
		return
	}
	req.err = m.errorHandler(req.c, err)
}

// DefaultErrorHandler writes the status and JSON body of jwtclaims.ErrorResponse.
func DefaultErrorHandler(c echo.Context, err error) error {
	status, body := jwtclaims.ErrorResponse(err)
	if status == http.StatusUnauthorized {
		c.Response().Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	}
	return c.JSON(status, body)
}

// GetClaim retrieves a resolved claim with type safety using generics.
func GetClaim[T any](c echo.Context, name string) (T, error) {
	return core.Get[T](c.Request().Context(), name)
}

// LookupClaim retrieves a resolved claim. The boolean is false for optional
// claims that were absent from the token.
func LookupClaim[T any](c echo.Context, name string) (T, bool) {
	return core.Lookup[T](c.Request().Context(), name)
}
