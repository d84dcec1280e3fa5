package client

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"altesse/internal/models"
	"altesse/internal/routes"
	"altesse/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type testServer struct {
	*httptest.Server
	fs   afero.Fs
	hub  *services.WebSocketHub
	auth *services.AuthService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	fs := afero.NewMemMapFs()
	hub := services.NewWebSocketHub(discard)
	go hub.Run(ctx)

	auth, err := services.NewAuthService("a-very-long-secret-key-for-hmac-sha256", time.Hour, discard)
	require.NoError(t, err)

	r := routes.NewRouter(routes.Options{
		Stats: services.NewStatsService(services.NewFileStatsStore(fs, "/docs/stats.json"), hub, discard),
		Files: services.NewFileService(fs, "/tmp/dropped", 2, discard),
		Hub:   hub,
		Auth:  auth,
		Log:   discard,
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, fs: fs, hub: hub, auth: auth}
}

func (s *testServer) client(t *testing.T) *Client {
	t.Helper()
	token, err := s.auth.GenerateToken("desktop")
	require.NoError(t, err)
	return New(s.URL, token, s.Client(), discard)
}

func TestStatsRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	c := srv.client(t)
	ctx := context.Background()

	widget, err := c.WidgetStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, widget.TotalConverted)
	assert.Empty(t, widget.Formats)

	widget, err = c.RegisterConversion(ctx, &models.ConversionRecord{Format: "avif", OriginalSize: 4096, FinalSize: 1024})
	require.NoError(t, err)

	want := &models.WidgetStats{
		TotalConverted:      1,
		Formats:             map[string]*models.FormatStats{"avif": {Count: 1, OriginalSize: 4096, FinalSize: 1024}},
		TotalOriginalSize:   4096,
		TotalCompressedSize: 1024,
	}
	if diff := cmp.Diff(want, widget); diff != "" {
		t.Errorf("RegisterConversion() mismatch (-want +got):\n%s", diff)
	}
}

func TestFiles(t *testing.T) {
	srv := newTestServer(t)
	c := srv.client(t)
	ctx := context.Background()

	paths, err := c.SaveDroppedFiles(ctx, []*models.FileData{
		{Name: "one.png", Content: []byte("same")},
		{Name: "two.png", Content: []byte("same")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/tmp/dropped/one.png", "/tmp/dropped/two.png"}, paths)

	groups, err := c.FindDuplicates(ctx, "/tmp/dropped")
	require.NoError(t, err)
	require.Len(t, groups, 1)

	deleted, err := c.DeleteDuplicates(ctx, groups)
	require.NoError(t, err)
	assert.Equal(t, []string{"/tmp/dropped/two.png"}, deleted)

	require.NoError(t, c.Rename(ctx, &models.RenameRequest{
		Paths:   []string{"/tmp/dropped/one.png"},
		Options: &models.OptionRename{NewName: "kept"},
	}))
	exists, err := afero.Exists(srv.fs, "/tmp/dropped/kept.png")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, c.CleanupTempFiles(ctx))
}

func TestStatusErrors(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	_, err := New(srv.URL, "", srv.Client(), discard).WidgetStats(ctx)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Equal(t, "missing token", statusErr.Message)

	_, err = srv.client(t).FindDuplicates(ctx, "")
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Equal(t, "root is required", statusErr.Message)
}

func TestSubscribe(t *testing.T) {
	srv := newTestServer(t)
	c := srv.client(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events := make(chan Event, 4)
	done := make(chan error, 1)
	go func() {
		done <- c.Subscribe(ctx, func(e Event) { events <- e })
	}()

	require.Eventually(t, func() bool { return srv.hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, c.ReportProgress(ctx, &models.ConversionProgress{Current: 1, Total: 3, Path: "/in/a.png"}))
	_, err := c.RegisterConversion(ctx, &models.ConversionRecord{Format: "webp", OriginalSize: 10, FinalSize: 5})
	require.NoError(t, err)

	progress := <-events
	assert.Equal(t, EventConversionProgress, progress.Type)
	require.NotNil(t, progress.Progress)
	assert.Equal(t, 3, progress.Progress.Total)
	assert.Equal(t, "/in/a.png", progress.Progress.Path)
	assert.False(t, progress.Timestamp.IsZero())

	update := <-events
	assert.Equal(t, EventStatsUpdate, update.Type)
	require.NotNil(t, update.Stats)
	assert.Equal(t, 1, update.Stats.TotalConverted)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestParseEvent(t *testing.T) {
	event, err := parseEvent([]byte(`{"type":"pong","timestamp":"2026-01-02T03:04:05Z"}`))
	require.NoError(t, err)
	assert.Equal(t, EventPong, event.Type)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), event.Timestamp)
	assert.Nil(t, event.Stats)

	event, err = parseEvent([]byte(`{"type":"stats:update","data":{"total_converted":1,"formats":{"png":{"count":1}}}}`))
	require.NoError(t, err)
	require.NotNil(t, event.Stats)
	formats := event.Data.(map[string]any)["formats"].(map[string]any)
	assert.Same(t, event.Stats.Formats["png"], formats["png"])

	_, err = parseEvent([]byte(`{"data":{}}`))
	assert.Error(t, err)

	_, err = parseEvent([]byte(`{`))
	assert.Error(t, err)
}

func TestWSURL(t *testing.T) {
	assert.Equal(t, "ws://localhost:8080", wsURL("http://localhost:8080"))
	assert.Equal(t, "wss://example.com", wsURL("https://example.com"))
}
