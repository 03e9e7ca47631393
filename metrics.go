package jwtclaims

import (
	"context"
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/microservicios/go-jwt-claims/core"
)

const (
	metricResolutions        = "jwtclaims_resolutions_total"
	metricResolutionDuration = "jwtclaims_resolution_duration_seconds"

	// MetricResolutionDuration times the resolution of all claims bound to a
	// request, labelled by outcome.
	MetricResolutionDuration = metricResolutionDuration
)

// Metrics is a generic metrics interface for the middleware.
type Metrics interface {
	IncCounter(name string, tags map[string]string)
	ObserveHistogram(name string, value float64, tags map[string]string)
}

// NoopMetrics is a default metrics implementation that does nothing.
type NoopMetrics struct{}

func (m *NoopMetrics) IncCounter(name string, tags map[string]string)                      {}
func (m *NoopMetrics) ObserveHistogram(name string, value float64, tags map[string]string) {}

// metricsObserver feeds per-claim resolution results into Metrics.
type metricsObserver struct {
	metrics Metrics
}

// NewMetricsObserver returns a core.Observer that counts every claim
// resolution in metrics. Adapters that drive a core.Resolver directly use it to
// report the same series as the HTTP middleware.
func NewMetricsObserver(metrics Metrics) core.Observer {
	return &metricsObserver{metrics: metrics}
}

func (o *metricsObserver) ObserveClaim(_ context.Context, claim, result string) {
	o.metrics.IncCounter(metricResolutions, map[string]string{
		"claim":  claim,
		"result": result,
	})
}

// PrometheusMetrics implements the Metrics interface using Prometheus.
// Collectors are created and registered on first use of each metric name; the
// label names of the first call are kept for that metric.
type PrometheusMetrics struct {
	registerer prometheus.Registerer

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
}

// NewPrometheusMetrics returns a Metrics implementation backed by Prometheus.
// A nil registerer uses prometheus.DefaultRegisterer.
func NewPrometheusMetrics(registerer prometheus.Registerer) *PrometheusMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	return &PrometheusMetrics{
		registerer: registerer,
		counters:   make(map[string]*prometheus.CounterVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}
}

func (m *PrometheusMetrics) IncCounter(name string, tags map[string]string) {
	m.mu.Lock()
	vec, ok := m.counters[name]
	if !ok {
		vec = prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: name + " counter"}, keys(tags))
		m.registerer.MustRegister(vec)
		m.counters[name] = vec
	}
	m.mu.Unlock()

	vec.With(tags).Inc()
}

func (m *PrometheusMetrics) ObserveHistogram(name string, value float64, tags map[string]string) {
	m.mu.Lock()
	vec, ok := m.histograms[name]
	if !ok {
		vec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    name,
			Help:    name + " histogram",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		}, keys(tags))
		m.registerer.MustRegister(vec)
		m.histograms[name] = vec
	}
	m.mu.Unlock()

	vec.With(tags).Observe(value)
}

func keys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
