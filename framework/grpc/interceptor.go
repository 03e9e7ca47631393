package jwtclaimsgrpc

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"

	jwtclaims "github.com/microservicios/go-jwt-claims"
	"github.com/microservicios/go-jwt-claims/core"
)

const spanResolve = "jwtclaims.grpc.resolve"

// Interceptor resolves claims for gRPC servers.
type Interceptor struct {
	resolver        *core.Resolver
	headerExtractor HeaderExtractor
	errorHandler    ErrorHandler
	bindings        []core.Binding
	methodBindings  map[string][]core.Binding
	excludedMethods map[string]bool
	logger          Logger
	metrics         jwtclaims.Metrics
	tracer          jwtclaims.Tracer
}

// New creates a new gRPC claim interceptor with the provided options.
//
// Example:
//
//	interceptor, err := jwtclaimsgrpc.New(
//	    jwtclaimsgrpc.WithBindings(jwtclaims.String("sub")),
//	    jwtclaimsgrpc.WithExcludedMethods("/grpc.health.v1.Health/Check"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	server := grpc.NewServer(
//	    grpc.UnaryInterceptor(interceptor.UnaryServerInterceptor()),
//	    grpc.StreamInterceptor(interceptor.StreamServerInterceptor()),
//	)
func New(opts ...Option) (*Interceptor, error) {
	interceptor := &Interceptor{
		headerExtractor: MetadataHeaderExtractor,
		errorHandler:    DefaultErrorHandler,
		methodBindings:  make(map[string][]core.Binding),
		excludedMethods: make(map[string]bool),
		logger:          slog.Default(),
		metrics:         &jwtclaims.NoopMetrics{},
		tracer:          &jwtclaims.NoopTracer{},
	}

	for _, opt := range opts {
		if err := opt(interceptor); err != nil {
			return nil, err
		}
	}

	resolver, err := core.New(
		core.WithLogger(interceptor.logger),
		core.WithObserver(jwtclaims.NewMetricsObserver(interceptor.metrics)),
	)
	if err != nil {
		return nil, err
	}
	interceptor.resolver = resolver

	return interceptor, nil
}

// UnaryServerInterceptor returns a grpc.UnaryServerInterceptor that resolves
// the claims bound to the called method and makes them available in the
// request context.
func (i *Interceptor) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if i.excludedMethods[info.FullMethod] {
			i.logger.Debug("skipping claim resolution for excluded method",
				"method", info.FullMethod)
			return handler(ctx, req)
		}

		resolvedCtx, err := i.resolveRequest(ctx, info.FullMethod)
		if err != nil {
			return nil, err
		}

		return handler(resolvedCtx, req)
	}
}

// StreamServerInterceptor returns a grpc.StreamServerInterceptor that resolves
// the claims bound to the called method and makes them available in the
// stream context.
func (i *Interceptor) StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(
		srv any,
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		if i.excludedMethods[info.FullMethod] {
			i.logger.Debug("skipping claim resolution for excluded method",
				"method", info.FullMethod)
			return handler(srv, ss)
		}

		resolvedCtx, err := i.resolveRequest(ss.Context(), info.FullMethod)
		if err != nil {
			return err
		}

		return handler(srv, &wrappedServerStream{
			ServerStream: ss,
			ctx:          resolvedCtx,
		})
	}
}

// bindingsFor returns the claims bound to method.
func (i *Interceptor) bindingsFor(method string) []core.Binding {
	if bindings, ok := i.methodBindings[method]; ok {
		return bindings
	}
	return i.bindings
}

// resolveRequest reads the credential from the context and resolves the
// method's claims against it.
func (i *Interceptor) resolveRequest(ctx context.Context, method string) (context.Context, error) {
	header, err := i.headerExtractor(ctx)
	if err != nil {
		i.logger.Error("failed to extract credential from gRPC metadata",
			"error", err,
			"method", method)
		return ctx, i.errorHandler(err)
	}

	bindings := i.bindingsFor(method)

	ctx, span := i.tracer.StartSpan(ctx, spanResolve)
	defer span.Finish()
	span.SetTag("rpc.method", method)
	span.SetTag("jwtclaims.claims", len(bindings))

	start := time.Now()
	values, err := i.resolver.ResolveAll(ctx, header, bindings...)
	i.metrics.ObserveHistogram(jwtclaims.MetricResolutionDuration, time.Since(start).Seconds(), map[string]string{
		"outcome": jwtclaims.OutcomeLabel(err),
	})
	if err != nil {
		span.SetError(err)
		i.logger.Warn("claim resolution failed",
			"error", err,
			"method", method)
		return ctx, i.errorHandler(err)
	}

	i.logger.Debug("claims resolved, setting values in context",
		"method", method,
		"count", len(values))

	return core.WithValues(ctx, values), nil
}

// wrappedServerStream wraps grpc.ServerStream with a custom context.
type wrappedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

// Context returns the wrapped context with the resolved claims.
func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}
