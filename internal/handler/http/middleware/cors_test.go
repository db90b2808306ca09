package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestNewCORSConfig_DisabledWithoutOrigins(t *testing.T) {
	assert.Nil(t, NewCORSConfig(nil, nil))
	assert.Nil(t, NewCORSConfig([]string{"", "  "}, nil))
}

func TestNewCORSConfig_Defaults(t *testing.T) {
	cfg := NewCORSConfig([]string{"http://localhost:3000"}, nil)
	require.NotNil(t, cfg)
	assert.True(t, cfg.AllowCredentials)
	assert.Equal(t, defaultMaxAge, cfg.MaxAge)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Validator.GetAllowedOrigins())
}

func TestCORS_NoOriginPassesThrough(t *testing.T) {
	cfg := NewCORSConfig([]string{"http://localhost:3000"}, nil)
	called := false

	rec := httptest.NewRecorder()
	CORS(*cfg)(okHandler(&called)).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/summarize", nil))

	assert.True(t, called)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Vary"))
}

func TestCORS_AllowedOrigin(t *testing.T) {
	cfg := NewCORSConfig([]string{"http://localhost:3000"}, nil)
	called := false

	req := httptest.NewRequest(http.MethodPost, "/summarize", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	CORS(*cfg)(okHandler(&called)).ServeHTTP(rec, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, rec.Header().Values("Vary"), "Origin")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestCORS_DisallowedOriginIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	cfg := NewCORSConfig([]string{"https://app.example.com"}, logger)
	called := false

	req := httptest.NewRequest(http.MethodPost, "/summarize", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	CORS(*cfg)(okHandler(&called)).ServeHTTP(rec, req)

	assert.True(t, called, "disallowed origins still reach the handler")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, buf.String(), "CORS: origin not allowed")
	assert.Contains(t, buf.String(), "https://evil.example.com")
}

func TestCORS_PreflightEchoesRequest(t *testing.T) {
	cfg := NewCORSConfig([]string{"http://localhost:3000"}, nil)
	called := false

	req := httptest.NewRequest(http.MethodOptions, "/summarize", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "content-type, x-request-id")
	rec := httptest.NewRecorder()
	CORS(*cfg)(okHandler(&called)).ServeHTTP(rec, req)

	assert.False(t, called, "preflight must not reach the handler")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "POST", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "content-type, x-request-id", rec.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_PlainOptionsIsNotPreflight(t *testing.T) {
	cfg := NewCORSConfig([]string{"http://localhost:3000"}, nil)
	called := false

	req := httptest.NewRequest(http.MethodOptions, "/summarize", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	CORS(*cfg)(okHandler(&called)).ServeHTTP(rec, req)

	assert.True(t, called)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestCORS_WildcardEchoesOrigin(t *testing.T) {
	cfg := NewCORSConfig([]string{"*"}, nil)
	called := false

	req := httptest.NewRequest(http.MethodPost, "/summarize", nil)
	req.Header.Set("Origin", "https://anything.example.org")
	rec := httptest.NewRecorder()
	CORS(*cfg)(okHandler(&called)).ServeHTTP(rec, req)

	assert.Equal(t, "https://anything.example.org", rec.Header().Get("Access-Control-Allow-Origin"))
}
