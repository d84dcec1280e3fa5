package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"altesse/internal/common"
	"altesse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*WebSocketHub, context.CancelFunc) {
	t.Helper()
	hub := NewWebSocketHub(discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub, cancel
}

func receive(t *testing.T, client *ClientConnection) WebSocketMessage {
	t.Helper()
	select {
	case msg, ok := <-client.Send:
		require.True(t, ok, "send channel closed")
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}
	return WebSocketMessage{}
}

func TestHubBroadcastsToRegisteredClients(t *testing.T) {
	hub, _ := startHub(t)

	a := NewClientConnection("a", nil)
	b := NewClientConnection("b", nil)
	hub.Register(a)
	hub.Register(b)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	progress := &models.ConversionProgress{Current: 1, Total: 2, Path: "/a.png"}
	require.NoError(t, hub.Publish(EventConversionProgress, progress))

	for _, client := range []*ClientConnection{a, b} {
		msg := receive(t, client)
		assert.Equal(t, EventConversionProgress, msg.Type)

		got, err := models.NewConversionProgressFrom(msg.Data)
		require.NoError(t, err)
		assert.Equal(t, progress, got)
	}
}

func TestHubSendToAndUnregister(t *testing.T) {
	hub, _ := startHub(t)

	a := NewClientConnection("a", nil)
	hub.Register(a)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.SendTo("a", WebSocketMessage{Type: EventPong})
	hub.SendTo("ghost", WebSocketMessage{Type: EventPong})
	assert.Equal(t, EventPong, receive(t, a).Type)

	hub.Unregister("a")
	_, ok := <-a.Send
	assert.False(t, ok)
	assert.Zero(t, hub.ClientCount())
}

func TestHubShutdownClosesClients(t *testing.T) {
	hub, cancel := startHub(t)

	a := NewClientConnection("a", nil)
	hub.Register(a)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	_, ok := <-a.Send
	assert.False(t, ok)

	<-hub.done
	assert.ErrorIs(t, hub.Publish(EventStatsUpdate, nil), common.ErrHubNotRunning)

	late := NewClientConnection("late", nil)
	hub.Register(late)
	_, ok = <-late.Send
	assert.False(t, ok)
	hub.Unregister("late")
}

func TestNewMessage(t *testing.T) {
	msg, err := newMessage(EventStatsUpdate, map[string]int{"total_converted": 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total_converted":3}`, string(msg.Data))

	empty, err := newMessage(EventPong, nil)
	require.NoError(t, err)
	assert.Nil(t, empty.Data)

	_, err = newMessage(EventError, make(chan int))
	var typeErr *json.UnsupportedTypeError
	assert.ErrorAs(t, err, &typeErr)
}
