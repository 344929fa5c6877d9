package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"team-builder/internal/common/logger"
	"team-builder/internal/teambuilder"
)

func createTestHub(t *testing.T) *ProgressHub {
	return NewProgressHub(logger.NewZapAdapter(zaptest.NewLogger(t)))
}

func TestProgressHub_PublishToSubscriber(t *testing.T) {
	hub := createTestHub(t)

	ch := hub.Subscribe("session-1")
	defer hub.Unsubscribe("session-1", ch)

	hub.Publish(teambuilder.ProgressEvent{
		SessionID: "session-1",
		Stage:     teambuilder.StageInvokingAgent,
		At:        time.Now().UTC(),
	})

	select {
	case payload := <-ch:
		var event teambuilder.ProgressEvent
		require.NoError(t, json.Unmarshal(payload, &event))
		assert.Equal(t, teambuilder.StageInvokingAgent, event.Stage)
	case <-time.After(time.Second):
		t.Fatal("expected a progress event")
	}
}

func TestProgressHub_SessionIsolation(t *testing.T) {
	hub := createTestHub(t)

	ch := hub.Subscribe("session-1")
	defer hub.Unsubscribe("session-1", ch)

	hub.Publish(teambuilder.ProgressEvent{SessionID: "session-2", Stage: teambuilder.StageDone})

	select {
	case <-ch:
		t.Fatal("event leaked across sessions")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestProgressHub_Unsubscribe(t *testing.T) {
	hub := createTestHub(t)

	ch := hub.Subscribe("session-1")
	assert.Equal(t, 1, hub.SubscriberCount("session-1"))

	hub.Unsubscribe("session-1", ch)
	assert.Equal(t, 0, hub.SubscriberCount("session-1"))

	// Channel is closed
	_, open := <-ch
	assert.False(t, open)

	// Second unsubscribe is a no-op
	hub.Unsubscribe("session-1", ch)
}

func TestProgressHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	hub := createTestHub(t)

	ch := hub.Subscribe("session-1")
	defer hub.Unsubscribe("session-1", ch)

	// Overflow the buffer; Publish must not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < sendBufferSize*2; i++ {
			hub.Publish(teambuilder.ProgressEvent{SessionID: "session-1", Stage: teambuilder.StageDone})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}

func TestProgressHub_WebSocketDelivery(t *testing.T) {
	hub := createTestHub(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		hub.ServeConn(conn, "session-1")
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Wait for the server side to register the subscriber.
	require.Eventually(t, func() bool {
		return hub.SubscriberCount("session-1") == 1
	}, time.Second, 10*time.Millisecond)

	hub.Publish(teambuilder.ProgressEvent{
		SessionID: "session-1",
		Stage:     teambuilder.StageFetchingRoster,
		At:        time.Now().UTC(),
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var event teambuilder.ProgressEvent
	require.NoError(t, json.Unmarshal(payload, &event))
	assert.Equal(t, teambuilder.StageFetchingRoster, event.Stage)
	assert.Equal(t, "session-1", event.SessionID)
}
