package jwtclaims

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	// Test that NoopMetrics methods don't panic
	metrics := &NoopMetrics{}

	metrics.IncCounter("test_counter", map[string]string{"tag": "value"})
	metrics.ObserveHistogram("test_histogram", 1.5, map[string]string{"tag": "value"})
}

func TestPrometheusMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewPrometheusMetrics(registry)

	t.Run("IncCounter", func(t *testing.T) {
		tags := map[string]string{"claim": "sub", "result": "present"}

		metrics.IncCounter(metricResolutions, tags)
		metrics.IncCounter(metricResolutions, tags)
		metrics.IncCounter(metricResolutions, map[string]string{"claim": "role", "result": "absent"})

		counter, ok := metrics.counters[metricResolutions]
		require.True(t, ok, "Counter should be registered")
		assert.Equal(t, float64(2), testutil.ToFloat64(counter.With(tags)))
		assert.Equal(t, 2, testutil.CollectAndCount(counter))
	})

	t.Run("ObserveHistogram", func(t *testing.T) {
		tags := map[string]string{"outcome": "ok"}

		metrics.ObserveHistogram(metricResolutionDuration, 0.002, tags)

		hist, ok := metrics.histograms[metricResolutionDuration]
		require.True(t, ok, "Histogram should be registered")

		metric := &dto.Metric{}
		err := hist.With(tags).(prometheus.Metric).Write(metric)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), metric.GetHistogram().GetSampleCount())
		assert.InDelta(t, 0.002, metric.GetHistogram().GetSampleSum(), 1e-9)
	})

	t.Run("registers collectors once", func(t *testing.T) {
		families, err := registry.Gather()
		require.NoError(t, err)

		names := make([]string, 0, len(families))
		for _, f := range families {
			names = append(names, f.GetName())
		}
		assert.ElementsMatch(t, []string{metricResolutions, metricResolutionDuration}, names)
	})
}

func TestNewPrometheusMetrics_DefaultRegisterer(t *testing.T) {
	metrics := NewPrometheusMetrics(nil)
	assert.Equal(t, prometheus.DefaultRegisterer, metrics.registerer)
}

func TestMetricsObserver(t *testing.T) {
	metrics := &mockMetrics{}
	observer := &metricsObserver{metrics: metrics}

	observer.ObserveClaim(context.Background(), "sub", "missing_claim")

	assert.Equal(t, []counterCall{
		{name: metricResolutions, tags: map[string]string{"claim": "sub", "result": "missing_claim"}},
	}, metrics.counters)
}

func TestOutcomeLabel(t *testing.T) {
	assert.Equal(t, "ok", OutcomeLabel(nil))
	assert.Equal(t, "missing_credential", OutcomeLabel(ErrMissingCredential))
	assert.Equal(t, "error", OutcomeLabel(context.Canceled))
}
