package jwtclaims

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/microservicios/go-jwt-claims/claimstest"
	"github.com/microservicios/go-jwt-claims/core"
)

func Test_Bind(t *testing.T) {
	validHeader := claimstest.Header(t, map[string]any{"sub": "u1", "role": "admin", "n": 5})

	bindings := []core.Binding{
		String("sub"),
		String("role", Optional()),
		Int64("n", Optional()),
		Bool("admin", Optional()),
	}

	testCases := []struct {
		name           string
		options        []Option
		method         string
		path           string
		header         string
		wantStatusCode int
		wantBody       string
		wantValues     core.Values
	}{
		{
			name:           "it resolves claims into the context",
			method:         http.MethodGet,
			header:         validHeader,
			wantStatusCode: http.StatusOK,
			wantBody:       `{"message":"Resolved."}`,
			wantValues:     core.Values{"sub": "u1", "role": "admin", "n": int64(5)},
		},
		{
			name:           "it resolves on options by default",
			method:         http.MethodOptions,
			header:         validHeader,
			wantStatusCode: http.StatusOK,
			wantBody:       `{"message":"Resolved."}`,
			wantValues:     core.Values{"sub": "u1", "role": "admin", "n": int64(5)},
		},
		{
			name:           "it fails when the header is missing",
			method:         http.MethodGet,
			wantStatusCode: http.StatusUnauthorized,
			wantBody:       `{"error":"missing_credential","message":"Bearer credential is missing."}`,
		},
		{
			name:           "it fails when the scheme is wrong",
			method:         http.MethodGet,
			header:         "bearer xyz",
			wantStatusCode: http.StatusUnauthorized,
			wantBody:       `{"error":"missing_credential","message":"Bearer credential is missing."}`,
		},
		{
			name:           "it fails when a required claim is missing",
			method:         http.MethodGet,
			header:         claimstest.Header(t, map[string]any{"role": "admin"}),
			wantStatusCode: http.StatusBadRequest,
			wantBody:       `{"error":"missing_claim","message":"required claim \"sub\" is missing","claim":"sub"}`,
		},
		{
			name:           "it treats a malformed payload as missing claims",
			method:         http.MethodGet,
			header:         claimstest.RawHeader("not json"),
			wantStatusCode: http.StatusBadRequest,
			wantBody:       `{"error":"missing_claim","message":"required claim \"sub\" is missing","claim":"sub"}`,
		},
		{
			name: "it skips resolution on OPTIONS if resolveOnOptions is set to false",
			options: []Option{
				WithResolveOnOptions(false),
			},
			method:         http.MethodOptions,
			wantStatusCode: http.StatusOK,
			wantBody:       `{"message":"Resolved."}`,
		},
		{
			name: "it skips resolution for excluded urls",
			options: []Option{
				WithExclusionUrls([]string{"/public"}),
			},
			method:         http.MethodGet,
			path:           "/public",
			wantStatusCode: http.StatusOK,
			wantBody:       `{"message":"Resolved."}`,
		},
		{
			name: "it reads the header configured by the extractor",
			options: []Option{
				WithHeaderExtractor(BearerSchemeExtractor(NamedHeaderExtractor("X-JWT-Assertion"))),
			},
			method:         http.MethodGet,
			header:         validHeader,
			wantStatusCode: http.StatusUnauthorized,
			wantBody:       `{"error":"missing_credential","message":"Bearer credential is missing."}`,
		},
		{
			name: "it uses the custom error handler",
			options: []Option{
				WithErrorHandler(func(w http.ResponseWriter, _ *http.Request, err error) {
					w.WriteHeader(http.StatusTeapot)
					_, _ = w.Write([]byte(core.ErrorCode(err)))
				}),
			},
			method:         http.MethodGet,
			wantStatusCode: http.StatusTeapot,
			wantBody:       "missing_credential",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			middleware, err := New(append([]Option{WithLogger(&mockLogger{})}, testCase.options...)...)
			require.NoError(t, err)

			var gotValues core.Values
			handler := middleware.Bind(bindings...)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotValues, _ = core.ValuesFrom(r.Context())
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`{"message":"Resolved."}`))
			}))

			testServer := httptest.NewServer(handler)
			defer testServer.Close()

			request, err := http.NewRequest(testCase.method, testServer.URL+testCase.path, nil)
			require.NoError(t, err)
			if testCase.header != "" {
				request.Header.Add("Authorization", testCase.header)
			}

			response, err := testServer.Client().Do(request)
			require.NoError(t, err)
			body, err := io.ReadAll(response.Body)
			require.NoError(t, err)
			defer response.Body.Close()

			assert.Equal(t, testCase.wantStatusCode, response.StatusCode)
			assert.Equal(t, testCase.wantBody, string(body))
			assert.Equal(t, testCase.wantValues, gotValues)
		})
	}
}

func Test_Bind_HandlerReadsClaims(t *testing.T) {
	middleware, err := New(WithLogger(&mockLogger{}))
	require.NoError(t, err)

	handler := middleware.Bind(String("sub"), Int64("tenant_id", Optional()))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sub := MustGetClaim[string](r.Context(), "sub")
		_, hasTenant := LookupClaim[int64](r.Context(), "tenant_id")
		assert.Equal(t, "u1", sub)
		assert.False(t, hasTenant)
		assert.True(t, HasClaim(r.Context(), "sub"))

		_, err := GetClaim[int32](r.Context(), "sub")
		assert.Error(t, err)
		w.WriteHeader(http.StatusNoContent)
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", claimstest.Header(t, map[string]any{"sub": "u1"}))
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

func Test_Bind_RecordsMetrics(t *testing.T) {
	metrics := &mockMetrics{}
	middleware, err := New(WithLogger(&mockLogger{}), WithMetrics(metrics))
	require.NoError(t, err)

	handler := middleware.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), String("sub"), String("email", Optional()))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", claimstest.Header(t, map[string]any{"sub": "u1"}))
	handler.ServeHTTP(httptest.NewRecorder(), request)

	assert.Equal(t, []counterCall{
		{metricResolutions, map[string]string{"claim": "sub", "result": core.ResultPresent}},
		{metricResolutions, map[string]string{"claim": "email", "result": core.ResultAbsent}},
	}, metrics.counters)
	require.Len(t, metrics.histograms, 1)
	assert.Equal(t, metricResolutionDuration, metrics.histograms[0].name)
	assert.Equal(t, map[string]string{"outcome": "ok"}, metrics.histograms[0].tags)
}

func Test_Bind_LogsFailures(t *testing.T) {
	logger := &mockLogger{}
	middleware, err := New(WithLogger(logger))
	require.NoError(t, err)

	handler := middleware.Bind(String("sub"))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("handler must not run when resolution fails")
	}))

	request := httptest.NewRequest(http.MethodGet, "/orders", nil)
	handler.ServeHTTP(httptest.NewRecorder(), request)

	require.Len(t, logger.warnCalls, 1)
	assert.Equal(t, "claim resolution failed", logger.warnCalls[0][0])
}

func Test_Resolver(t *testing.T) {
	middleware, err := New(WithLogger(&mockLogger{}))
	require.NoError(t, err)
	assert.NotNil(t, middleware.Resolver())
}
