package websocket_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	hub "github.com/IANDYI/health-tracker/internal/adapters/websocket"
	"github.com/IANDYI/health-tracker/internal/core/ports"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startHub serves a stream for the user named in ?user= and returns its ws:// URL
func startHub(t *testing.T) (*hub.Hub, string) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	h := hub.NewHub()
	go h.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := hub.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		h.Attach(conn, r.URL.Query().Get("user"))
	}))

	t.Cleanup(func() {
		cancel()
		server.Close()
	})

	return h, "ws" + strings.TrimPrefix(server.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_DeliversToOwner(t *testing.T) {
	h, url := startHub(t)
	sam := dial(t, url+"?user=sam")
	alex := dial(t, url+"?user=alex")

	require.Eventually(t, func() bool {
		return h.ClientCount("sam") == 1 && h.ClientCount("alex") == 1
	}, 2*time.Second, 10*time.Millisecond)

	event := ports.HealthEvent{
		EventType: ports.EventWaterGoalReached,
		Username:  "sam",
		Value:     8,
		Detail:    "8 / 8 cups",
		Timestamp: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, h.Publish(context.Background(), event))

	sam.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := sam.ReadMessage()
	require.NoError(t, err)

	var received ports.HealthEvent
	require.NoError(t, json.Unmarshal(payload, &received))
	assert.Equal(t, event, received)

	// alex has no event waiting
	alex.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err = alex.ReadMessage()
	assert.Error(t, err)
}

func TestHub_UnregistersClosedStreams(t *testing.T) {
	h, url := startHub(t)
	conn := dial(t, url+"?user=sam")

	require.Eventually(t, func() bool { return h.ClientCount("sam") == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.Close()

	assert.Eventually(t, func() bool { return h.ClientCount("sam") == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_PublishWithoutUsername(t *testing.T) {
	h := hub.NewHub()
	// Nothing is queued, so this returns without a running hub
	assert.NoError(t, h.Publish(context.Background(), ports.HealthEvent{EventType: ports.EventBMIOutOfRange}))
}

func TestHub_PublishAfterShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := hub.NewHub()
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	// Fill the queue; publishing past it must not block once the hub is gone
	for i := 0; i < 300; i++ {
		require.NoError(t, h.Publish(context.Background(), ports.HealthEvent{Username: "sam"}))
	}
}
