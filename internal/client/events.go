package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"altesse/internal/hydrate"
	"altesse/internal/models"

	"github.com/gorilla/websocket"
)

const (
	EventStatsUpdate        = "stats:update"
	EventConversionProgress = "conversion-progress"
	EventPong               = "pong"
)

// Event is one message pushed by the server. Exactly one of the typed
// payloads is set for known event types. Data is the decoded payload; for
// known types its nested records are the same hydrated values the typed
// payload holds.
type Event struct {
	Type      string
	Timestamp time.Time
	Error     string
	Data      any

	Stats    *models.WidgetStats
	Progress *models.ConversionProgress
}

type envelope struct {
	Type      string
	Timestamp string
	Error     string
	Data      any
}

func (e *envelope) HydrateFields(src hydrate.Source) {
	e.Type = hydrate.String(src.Get("type"))
	e.Timestamp = hydrate.String(src.Get("timestamp"))
	e.Error = hydrate.String(src.Get("error"))
	e.Data = src.Get("data")
}

// Subscribe streams server events to fn until ctx is cancelled or the
// connection drops. It returns ctx.Err() on cancellation.
func (c *Client) Subscribe(ctx context.Context, fn func(Event)) error {
	header := http.Header{}
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL(c.baseURL)+"/ws", header)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("failed to dial events: %w (status %d)", err, resp.StatusCode)
		}
		return fmt.Errorf("failed to dial events: %w", err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		conn.Close()
	})
	defer stop()

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return fmt.Errorf("failed to read event: %w", err)
		}

		event, err := parseEvent(frame)
		if err != nil {
			c.log.Warn("Skipping malformed event", slog.Any("error", err))
			continue
		}
		fn(event)
	}
}

func parseEvent(frame []byte) (Event, error) {
	env, err := hydrate.Hydrate[envelope](frame)
	if err != nil {
		return Event{}, err
	}
	if env.Type == "" {
		return Event{}, errors.New("event without type")
	}

	event := Event{
		Type:  env.Type,
		Error: env.Error,
		Data:  env.Data,
	}
	if ts, err := time.Parse(time.RFC3339Nano, env.Timestamp); err == nil {
		event.Timestamp = ts
	}

	switch env.Type {
	case EventStatsUpdate:
		event.Stats, err = models.NewWidgetStatsFrom(env.Data)
	case EventConversionProgress:
		event.Progress, err = models.NewConversionProgressFrom(env.Data)
	}
	return event, err
}

func wsURL(base string) string {
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base
}
