package jwtclaims

import (
	"errors"
	"net/http"
)

// Option configures the ClaimMiddleware.
// Returns error for validation failures.
type Option func(*ClaimMiddleware) error

// WithResolveOnOptions sets whether OPTIONS requests should have their claims resolved.
//
// Default: true (OPTIONS requests are resolved)
func WithResolveOnOptions(value bool) Option {
	return func(m *ClaimMiddleware) error {
		m.resolveOnOptions = value
		return nil
	}
}

// WithErrorHandler sets the handler called when claim resolution aborts a request.
// See the ErrorHandler type for more information.
//
// Default: DefaultErrorHandler
func WithErrorHandler(h ErrorHandler) Option {
	return func(m *ClaimMiddleware) error {
		if h == nil {
			return ErrErrorHandlerNil
		}
		m.errorHandler = h
		return nil
	}
}

// WithHeaderExtractor sets the function that reads the credential header from the request.
//
// Default: AuthorizationHeaderExtractor
func WithHeaderExtractor(e HeaderExtractor) Option {
	return func(m *ClaimMiddleware) error {
		if e == nil {
			return ErrHeaderExtractorNil
		}
		m.headerExtractor = e
		return nil
	}
}

// WithExclusionUrls configures URL patterns to exclude from claim resolution.
// URLs can be full URLs or just paths.
func WithExclusionUrls(exclusions []string) Option {
	return func(m *ClaimMiddleware) error {
		if len(exclusions) == 0 {
			return ErrExclusionUrlsEmpty
		}
		m.exclusionURLHandler = func(r *http.Request) bool {
			requestFullURL := r.URL.String()
			requestPath := r.URL.Path

			for _, exclusion := range exclusions {
				if requestFullURL == exclusion || requestPath == exclusion {
					return true
				}
			}
			return false
		}
		return nil
	}
}

// WithLogger sets the logger for the middleware and the underlying resolver.
//
// The logger interface is compatible with log/slog.Logger; adapters for
// logrus, zap and zerolog are provided in this package.
//
// Example:
//
//	middleware, err := jwtclaims.New(
//	    jwtclaims.WithLogger(slog.Default()),
//	)
func WithLogger(logger Logger) Option {
	return func(m *ClaimMiddleware) error {
		if logger == nil {
			return ErrLoggerNil
		}
		m.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics sink used to count resolutions per claim and
// result and to time each request's resolution.
//
// Default: NoopMetrics
func WithMetrics(metrics Metrics) Option {
	return func(m *ClaimMiddleware) error {
		if metrics == nil {
			return ErrMetricsNil
		}
		m.metrics = metrics
		return nil
	}
}

// WithTracer sets the tracer used to wrap each request's resolution in a span.
//
// Default: NoopTracer
func WithTracer(tracer Tracer) Option {
	return func(m *ClaimMiddleware) error {
		if tracer == nil {
			return ErrTracerNil
		}
		m.tracer = tracer
		return nil
	}
}

// Sentinel errors for configuration validation
var (
	ErrErrorHandlerNil    = errors.New("errorHandler cannot be nil")
	ErrHeaderExtractorNil = errors.New("headerExtractor cannot be nil")
	ErrExclusionUrlsEmpty = errors.New("exclusion URLs list cannot be empty")
	ErrLoggerNil          = errors.New("logger cannot be nil")
	ErrMetricsNil         = errors.New("metrics cannot be nil")
	ErrTracerNil          = errors.New("tracer cannot be nil")
)
