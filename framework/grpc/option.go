package jwtclaimsgrpc

import (
	"errors"

	jwtclaims "github.com/microservicios/go-jwt-claims"
	"github.com/microservicios/go-jwt-claims/core"
)

// Option configures the claim interceptor.
type Option func(*Interceptor) error

// Logger defines an optional logging interface compatible with log/slog.
// This is the same interface used by core for consistent logging across the stack.
type Logger = core.Logger

// WithBindings sets the claims resolved for every method that has no bindings
// of its own.
//
// Example:
//
//	interceptor, _ := jwtclaimsgrpc.New(
//	    jwtclaimsgrpc.WithBindings(jwtclaims.String("sub")),
//	)
func WithBindings(bindings ...core.Binding) Option {
	return func(i *Interceptor) error {
		i.bindings = append(i.bindings, bindings...)
		return nil
	}
}

// WithMethodBindings sets the claims resolved for one method, in the format
// "/package.Service/Method". They replace the default bindings for that method.
func WithMethodBindings(method string, bindings ...core.Binding) Option {
	return func(i *Interceptor) error {
		if method == "" {
			return errors.New("method cannot be empty")
		}
		i.methodBindings[method] = append(i.methodBindings[method], bindings...)
		return nil
	}
}

// WithLogger sets an optional logger for the interceptor.
// The logger will be used throughout the resolution flow in both interceptor and core.
//
// Example:
//
//	interceptor, _ := jwtclaimsgrpc.New(
//	    jwtclaimsgrpc.WithLogger(slog.Default()),
//	)
func WithLogger(logger Logger) Option {
	return func(i *Interceptor) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		i.logger = logger
		return nil
	}
}

// WithHeaderExtractor sets a custom function that reads the credential from
// the incoming context. Default is MetadataHeaderExtractor.
func WithHeaderExtractor(extractor HeaderExtractor) Option {
	return func(i *Interceptor) error {
		if extractor == nil {
			return errors.New("header extractor cannot be nil")
		}
		i.headerExtractor = extractor
		return nil
	}
}

// WithErrorHandler sets a custom error handler function.
// Default is DefaultErrorHandler which maps errors to gRPC status codes.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(i *Interceptor) error {
		if handler == nil {
			return errors.New("error handler cannot be nil")
		}
		i.errorHandler = handler
		return nil
	}
}

// WithExcludedMethods excludes specific gRPC methods from claim resolution.
// Methods should be provided in the format: "/package.Service/Method"
// Example: "/grpc.health.v1.Health/Check"
func WithExcludedMethods(methods ...string) Option {
	return func(i *Interceptor) error {
		for _, method := range methods {
			i.excludedMethods[method] = true
		}
		return nil
	}
}

// WithMetrics sets the metrics sink. The interceptor reports the same series
// as the HTTP middleware.
func WithMetrics(metrics jwtclaims.Metrics) Option {
	return func(i *Interceptor) error {
		if metrics == nil {
			return jwtclaims.ErrMetricsNil
		}
		i.metrics = metrics
		return nil
	}
}

// WithTracer sets the tracer used to wrap each call's resolution in a span.
func WithTracer(tracer jwtclaims.Tracer) Option {
	return func(i *Interceptor) error {
		if tracer == nil {
			return jwtclaims.ErrTracerNil
		}
		i.tracer = tracer
		return nil
	}
}
