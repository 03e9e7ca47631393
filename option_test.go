package jwtclaims

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_New_OptionsValidation(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		wantErr bool
		errMsg  string
	}{
		{
			name:    "no options",
			opts:    []Option{},
			wantErr: false,
		},
		{
			name: "nil error handler",
			opts: []Option{
				WithErrorHandler(nil),
			},
			wantErr: true,
			errMsg:  "errorHandler cannot be nil",
		},
		{
			name: "nil header extractor",
			opts: []Option{
				WithHeaderExtractor(nil),
			},
			wantErr: true,
			errMsg:  "headerExtractor cannot be nil",
		},
		{
			name: "empty exclusion urls",
			opts: []Option{
				WithExclusionUrls([]string{}),
			},
			wantErr: true,
			errMsg:  "exclusion URLs list cannot be empty",
		},
		{
			name: "nil logger",
			opts: []Option{
				WithLogger(nil),
			},
			wantErr: true,
			errMsg:  "logger cannot be nil",
		},
		{
			name: "nil metrics",
			opts: []Option{
				WithMetrics(nil),
			},
			wantErr: true,
			errMsg:  "metrics cannot be nil",
		},
		{
			name: "nil tracer",
			opts: []Option{
				WithTracer(nil),
			},
			wantErr: true,
			errMsg:  "tracer cannot be nil",
		},
		{
			name: "full configuration",
			opts: []Option{
				WithLogger(&mockLogger{}),
				WithResolveOnOptions(false),
				WithErrorHandler(DefaultErrorHandler),
				WithHeaderExtractor(AuthorizationHeaderExtractor),
				WithExclusionUrls([]string{"/healthz"}),
				WithMetrics(&NoopMetrics{}),
				WithTracer(&NoopTracer{}),
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(tt.opts...)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid option")
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Nil(t, m)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, m)
		})
	}
}

func Test_New_Defaults(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	assert.True(t, m.resolveOnOptions)
	assert.NotNil(t, m.errorHandler)
	assert.NotNil(t, m.headerExtractor)
	assert.NotNil(t, m.logger)
	assert.IsType(t, &NoopMetrics{}, m.metrics)
	assert.IsType(t, &NoopTracer{}, m.tracer)
	assert.Nil(t, m.exclusionURLHandler)
	assert.NotNil(t, m.resolver)
}

func Test_WithExclusionUrls(t *testing.T) {
	m, err := New(WithExclusionUrls([]string{"/public", "http://example.com/status"}))
	require.NoError(t, err)

	tests := []struct {
		url  string
		want bool
	}{
		{url: "/public", want: true},
		{url: "http://example.com/public", want: true},
		{url: "http://example.com/status", want: true},
		{url: "/status", want: false},
		{url: "/public/nested", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.url, nil)
			assert.Equal(t, tt.want, m.exclusionURLHandler(r))
		})
	}
}

// mockLogger is a test implementation of the Logger interface
type mockLogger struct {
	debugCalls [][]any
	infoCalls  [][]any
	warnCalls  [][]any
	errorCalls [][]any
}

func (m *mockLogger) Debug(msg string, args ...any) {
	m.debugCalls = append(m.debugCalls, append([]any{msg}, args...))
}

func (m *mockLogger) Info(msg string, args ...any) {
	m.infoCalls = append(m.infoCalls, append([]any{msg}, args...))
}

func (m *mockLogger) Warn(msg string, args ...any) {
	m.warnCalls = append(m.warnCalls, append([]any{msg}, args...))
}

func (m *mockLogger) Error(msg string, args ...any) {
	m.errorCalls = append(m.errorCalls, append([]any{msg}, args...))
}

type counterCall struct {
	name string
	tags map[string]string
}

type histogramCall struct {
	name  string
	value float64
	tags  map[string]string
}

// mockMetrics records every call made to the Metrics interface.
type mockMetrics struct {
	counters   []counterCall
	histograms []histogramCall
}

func (m *mockMetrics) IncCounter(name string, tags map[string]string) {
	m.counters = append(m.counters, counterCall{name: name, tags: tags})
}

func (m *mockMetrics) ObserveHistogram(name string, value float64, tags map[string]string) {
	m.histograms = append(m.histograms, histogramCall{name: name, value: value, tags: tags})
}
