package jwtclaims

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/microservicios/go-jwt-claims/core"
)

// ClaimMiddleware resolves declared claims from the request's bearer token and
// stores them in the request context before calling the next handler.
type ClaimMiddleware struct {
	resolver            *core.Resolver
	errorHandler        ErrorHandler
	headerExtractor     HeaderExtractor
	resolveOnOptions    bool
	exclusionURLHandler ExclusionURLHandler
	logger              Logger
	metrics             Metrics
	tracer              Tracer
}

// ExclusionURLHandler is a function that takes in a http.Request and returns
// true if the request should be excluded from claim resolution.
type ExclusionURLHandler func(r *http.Request) bool

// New constructs a new ClaimMiddleware instance with the supplied options.
//
// Example:
//
//	middleware, err := jwtclaims.New(
//	    jwtclaims.WithLogger(slog.Default()),
//	    jwtclaims.WithExclusionUrls([]string{"/healthz"}),
//	)
//	if err != nil {
//	    log.Fatalf("failed to create middleware: %v", err)
//	}
//
//	http.Handle("/orders", middleware.Bind(
//	    jwtclaims.String("sub"),
//	    jwtclaims.Int64("tenant_id", jwtclaims.Optional()),
//	)(ordersHandler))
func New(opts ...Option) (*ClaimMiddleware, error) {
	m := &ClaimMiddleware{
		resolveOnOptions: true,
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	m.applyDefaults()

	if err := m.createResolver(); err != nil {
		return nil, fmt.Errorf("failed to create resolver: %w", err)
	}

	return m, nil
}

// applyDefaults sets default values for optional fields
func (m *ClaimMiddleware) applyDefaults() {
	if m.errorHandler == nil {
		m.errorHandler = DefaultErrorHandler
	}
	if m.headerExtractor == nil {
		m.headerExtractor = AuthorizationHeaderExtractor
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.metrics == nil {
		m.metrics = &NoopMetrics{}
	}
	if m.tracer == nil {
		m.tracer = &NoopTracer{}
	}
}

func (m *ClaimMiddleware) createResolver() error {
	resolver, err := core.New(
		core.WithLogger(m.logger),
		core.WithObserver(NewMetricsObserver(m.metrics)),
	)
	if err != nil {
		return err
	}
	m.resolver = resolver
	return nil
}

// Resolver returns the resolver used by the middleware, for handlers that
// resolve additional claims on demand.
func (m *ClaimMiddleware) Resolver() *core.Resolver {
	return m.resolver
}

// Bind returns a middleware that resolves the given claims for every request.
// Present claims are stored in the request context, where GetClaim and
// LookupClaim read them. A missing bearer token or a missing required claim
// aborts the request through the error handler.
func (m *ClaimMiddleware) Bind(bindings ...core.Binding) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return m.Handler(next, bindings...)
	}
}

// Handler wraps next so that it only runs after the given claims are resolved.
func (m *ClaimMiddleware) Handler(next http.Handler, bindings ...core.Binding) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// If there's an exclusion handler and the URL matches, skip resolution
		if m.exclusionURLHandler != nil && m.exclusionURLHandler(r) {
			m.logger.Debug("skipping claim resolution for excluded URL",
				"method", r.Method,
				"path", r.URL.Path)
			next.ServeHTTP(w, r)
			return
		}

		if !m.resolveOnOptions && r.Method == http.MethodOptions {
			m.logger.Debug("skipping claim resolution for OPTIONS request")
			next.ServeHTTP(w, r)
			return
		}

		ctx, span := m.tracer.StartSpan(r.Context(), "jwtclaims.resolve")
		span.SetTag("jwtclaims.claims", len(bindings))

		start := time.Now()
		values, err := m.resolver.ResolveAll(ctx, m.headerExtractor(r), bindings...)
		m.metrics.ObserveHistogram(metricResolutionDuration, time.Since(start).Seconds(), map[string]string{
			"outcome": OutcomeLabel(err),
		})

		if err != nil {
			span.SetError(err)
			span.Finish()
			m.logger.Warn("claim resolution failed",
				"error", err,
				"method", r.Method,
				"path", r.URL.Path)
			m.errorHandler(w, r, err)
			return
		}
		span.Finish()

		m.logger.Debug("claims resolved, setting values in context",
			"count", len(values))
		r = r.WithContext(core.WithValues(ctx, values))
		next.ServeHTTP(w, r)
	})
}

// OutcomeLabel is the outcome label recorded for a resolution that ended with err.
func OutcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	if code := core.ErrorCode(err); code != "" {
		return code
	}
	return "error"
}
