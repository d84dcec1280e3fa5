package routes

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"altesse/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, withAuth bool) (*gin.Engine, *services.AuthService) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := services.NewWebSocketHub(log)
	go hub.Run(ctx)

	fs := afero.NewMemMapFs()
	opts := Options{
		Stats: services.NewStatsService(services.NewFileStatsStore(fs, "/stats.json"), hub, log),
		Files: services.NewFileService(fs, "/tmp/dropped", 1, log),
		Hub:   hub,
		Log:   log,
	}

	var auth *services.AuthService
	if withAuth {
		var err error
		auth, err = services.NewAuthService("a-very-long-secret-key-for-hmac-sha256", time.Hour, log)
		require.NoError(t, err)
		opts.Auth = auth
	}
	return NewRouter(opts), auth
}

func get(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthIsPublic(t *testing.T) {
	r, _ := newTestRouter(t, true)

	w := get(r, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","clients":0}`, w.Body.String())
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestAuthGuardsAPI(t *testing.T) {
	r, auth := newTestRouter(t, true)

	assert.Equal(t, http.StatusUnauthorized, get(r, "/stats/widget", "").Code)

	token, err := auth.GenerateToken("desktop")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, get(r, "/stats/widget", token).Code)
}

func TestAuthDisabled(t *testing.T) {
	r, _ := newTestRouter(t, false)

	assert.Equal(t, http.StatusOK, get(r, "/stats/widget", "").Code)
	assert.Equal(t, http.StatusNotFound, get(r, "/metrics", "").Code)
}
