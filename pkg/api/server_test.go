package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	walletcommon "github.com/cryptohub-labs/walletalert/internal/common"
	"github.com/cryptohub-labs/walletalert/internal/logger"
	"github.com/cryptohub-labs/walletalert/pkg/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.ServerConfig{
		ListenAddress: "127.0.0.1:0",
		ReadTimeout:   walletcommon.NewDuration(time.Second),
		WriteTimeout:  walletcommon.NewDuration(time.Second),
		IdleTimeout:   walletcommon.NewDuration(time.Second),
		CORS: config.CORSConfig{
			Enabled:        true,
			AllowedOrigins: []string{"*"},
		},
	}

	env := newTestEnv(t)
	return NewServer(cfg, env.handler, logger.NewNopLogger())
}

func (s *Server) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(w, req)
	return w
}

func TestServer_Routes(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	tests := []struct {
		name       string
		method     string
		target     string
		wantStatus int
	}{
		{"health", http.MethodGet, "/health", http.StatusOK},
		{"alert status requires wallet", http.MethodGet, "/api/v1/alerts/status", http.StatusBadRequest},
		{"portfolio requires wallet", http.MethodGet, "/api/v1/portfolio", http.StatusBadRequest},
		{"unknown route", http.MethodGet, "/api/v1/nope", http.StatusNotFound},
		{"subscribe rejects GET", http.MethodGet, "/api/v1/subscribe", http.StatusMethodNotAllowed},
		{"webhook rejects GET", http.MethodGet, "/api/v1/webhook", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := srv.serve(httptest.NewRequest(tt.method, tt.target, nil))
			require.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestServer_CORSHeadersApplied(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/subscribe", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")

	w := srv.serve(req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "https://dashboard.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_RequestIDHeader(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	w := srv.serve(httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, w.Header().Get("X-Request-Id"))
}
