package server

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/microservicios/go-jwt-claims/claimstest"
	"github.com/microservicios/go-jwt-claims/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)
	cfg.Server.Mode = gin.TestMode
	return cfg
}

func newTestRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	router, err := NewRouter(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), prometheus.NewRegistry())
	require.NoError(t, err)
	return router
}

func serve(router http.Handler, method, target, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestWhoami(t *testing.T) {
	router := newTestRouter(t, testConfig(t))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "all claims",
			header:     claimstest.Header(t, map[string]any{"sub": "u1", "role": "admin", "n": 5}),
			wantStatus: http.StatusOK,
			wantBody:   `{"sub":"u1","role":"admin","n":5}`,
		},
		{
			name:       "optional claims absent",
			header:     claimstest.Header(t, map[string]any{"sub": "u1"}),
			wantStatus: http.StatusOK,
			wantBody:   `{"sub":"u1"}`,
		},
		{
			name:       "no credential",
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"missing_credential","message":"Bearer credential is missing."}`,
		},
		{
			name:       "subject missing",
			header:     claimstest.Header(t, map[string]any{"role": "admin"}),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"missing_claim","message":"required claim \"sub\" is missing","claim":"sub"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, http.MethodGet, "/whoami", tt.header)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestWhoami_BareTokenHeader(t *testing.T) {
	cfg := testConfig(t)
	cfg.Claims.Header = "X-JWT-Assertion"
	cfg.Claims.BareToken = true
	router := newTestRouter(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-JWT-Assertion", claimstest.Token(t, map[string]any{"sub": "u1"}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"sub":"u1"}`, rec.Body.String())
}

func TestInspect(t *testing.T) {
	router := newTestRouter(t, testConfig(t))

	t.Run("reports outcomes", func(t *testing.T) {
		header := claimstest.Header(t, map[string]any{"sub": "u1", "n": 5})
		rec := serve(router, http.MethodPost, "/inspect?claim=sub&claim=role", header)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Document map[string]any `json:"document"`
			Claims   map[string]struct {
				Status string `json:"status"`
				Value  any    `json:"value"`
			} `json:"claims"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

		assert.Equal(t, "u1", resp.Document["sub"])
		assert.Equal(t, "present", resp.Claims["sub"].Status)
		assert.Equal(t, "u1", resp.Claims["sub"].Value)
		assert.Equal(t, "absent", resp.Claims["role"].Status)
	})

	t.Run("reports payload decode failures", func(t *testing.T) {
		rec := serve(router, http.MethodPost, "/inspect?claim=sub", claimstest.RawHeader("not json"))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"failed"`)
		assert.Contains(t, rec.Body.String(), `"document":null`)
	})

	t.Run("decodes the token once", func(t *testing.T) {
		var buf bytes.Buffer
		router, err := NewRouter(testConfig(t), slog.New(slog.NewTextHandler(&buf, nil)), prometheus.NewRegistry())
		require.NoError(t, err)

		rec := serve(router, http.MethodPost, "/inspect?claim=sub&claim=role", claimstest.RawHeader("not json"))
		require.Equal(t, http.StatusOK, rec.Code)

		assert.Equal(t, 2, strings.Count(buf.String(), "failed to decode token payload"))
		assert.Contains(t, buf.String(), "claim=sub")
		assert.Contains(t, buf.String(), "claim=role")
	})

	t.Run("requires a credential", func(t *testing.T) {
		rec := serve(router, http.MethodPost, "/inspect?claim=sub", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects empty claim names", func(t *testing.T) {
		rec := serve(router, http.MethodPost, "/inspect?claim=", claimstest.Header(t, map[string]any{"sub": "u1"}))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHealthzAndMetrics(t *testing.T) {
	router := newTestRouter(t, testConfig(t))

	rec := serve(router, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	serve(router, http.MethodGet, "/whoami", claimstest.Header(t, map[string]any{"sub": "u1"}))

	rec = serve(router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `jwtclaims_resolutions_total{claim="sub",result="present"} 1`)
	assert.Contains(t, rec.Body.String(), "jwtclaims_resolution_duration_seconds")
}

func TestRequestID(t *testing.T) {
	router := newTestRouter(t, testConfig(t))

	rec := serve(router, http.MethodGet, "/healthz", "")
	_, err := uuid.Parse(rec.Header().Get(headerRequestID))
	assert.NoError(t, err)

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(headerRequestID, id)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Header().Get(headerRequestID))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn", "json")

	logger.Info("hidden")
	logger.Warn("shown", "claim", "sub")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"claim":"sub"`)
}
