package server

import (
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	jwtclaims "github.com/microservicios/go-jwt-claims"
	jwtclaimsgin "github.com/microservicios/go-jwt-claims/framework/gin"
	"github.com/microservicios/go-jwt-claims/internal/config"
)

const serviceName = "claimsd"

// headerExtractor builds the credential source described by the claims config.
func headerExtractor(cfg *config.Config) jwtclaims.HeaderExtractor {
	extractor := jwtclaims.NamedHeaderExtractor(cfg.Claims.Header)
	if cfg.Claims.BareToken {
		extractor = jwtclaims.BearerSchemeExtractor(extractor)
	}
	return extractor
}

// NewRouter wires the claim middleware and the service routes. Metrics are
// registered on registry; a nil registry disables GET /metrics.
func NewRouter(cfg *config.Config, logger *slog.Logger, registry *prometheus.Registry) (*gin.Engine, error) {
	switch cfg.Server.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	extractor := headerExtractor(cfg)
	middlewareOpts := []jwtclaims.Option{
		jwtclaims.WithLogger(logger),
		jwtclaims.WithHeaderExtractor(extractor),
	}
	if len(cfg.Claims.ExcludedPaths) > 0 {
		middlewareOpts = append(middlewareOpts, jwtclaims.WithExclusionUrls(cfg.Claims.ExcludedPaths))
	}
	if registry != nil {
		middlewareOpts = append(middlewareOpts, jwtclaims.WithMetrics(jwtclaims.NewPrometheusMetrics(registry)))
	}
	if cfg.Observability.TraceEnabled {
		middlewareOpts = append(middlewareOpts,
			jwtclaims.WithTracer(jwtclaims.NewOpenTelemetryTracer(otel.Tracer(serviceName))))
	}

	claims, err := jwtclaimsgin.New(jwtclaimsgin.WithMiddlewareOptions(middlewareOpts...))
	if err != nil {
		return nil, fmt.Errorf("failed to create claim middleware: %w", err)
	}

	handler := NewHandler(claims.Resolver(), extractor)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(logger))

	router.GET("/healthz", handler.Healthz)
	if registry != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	router.GET("/whoami", claims.Bind(whoamiClaims...), handler.Whoami)
	router.POST("/inspect", handler.Inspect)

	return router, nil
}
