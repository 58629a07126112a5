package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/IANDYI/health-tracker/internal/adapters/handler"
	"github.com/IANDYI/health-tracker/internal/adapters/middleware"
	hub "github.com/IANDYI/health-tracker/internal/adapters/websocket"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTokens struct {
	users map[string]string
}

func (s stubTokens) Authenticate(token string) (string, error) {
	if username, ok := s.users[token]; ok {
		return username, nil
	}
	return "", errors.New("invalid token")
}

type stubSessions struct {
	loggedIn bool
	err      error
}

func (s stubSessions) IsLoggedIn(context.Context, string) (bool, error) {
	return s.loggedIn, s.err
}

func TestEventsHandler_Rejects(t *testing.T) {
	tokens := stubTokens{users: map[string]string{"good": "sam"}}

	tests := []struct {
		name     string
		sessions stubSessions
		target   string
		header   string
		status   int
	}{
		{name: "missing token", sessions: stubSessions{loggedIn: true}, target: "/events/stream", status: http.StatusUnauthorized},
		{name: "invalid token", sessions: stubSessions{loggedIn: true}, target: "/events/stream?token=bad", status: http.StatusUnauthorized},
		{name: "logged out", sessions: stubSessions{loggedIn: false}, target: "/events/stream", header: "Bearer good", status: http.StatusUnauthorized},
		{name: "session lookup fails", sessions: stubSessions{err: errors.New("down")}, target: "/events/stream?token=good", status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewEventsHandler(hub.NewHub(), tokens, tt.sessions)

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			h.Stream(w, req)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestEventsHandler_OpensStream(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := hub.NewHub()
	go events.Run(ctx)

	h := handler.NewEventsHandler(events, stubTokens{users: map[string]string{"good": "sam"}}, stubSessions{loggedIn: true})
	server := httptest.NewServer(http.HandlerFunc(h.Stream))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "?token=good"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.Eventually(t, func() bool { return events.ClientCount("sam") == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestEventsHandler_OpensStreamBehindRouter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := hub.NewHub()
	go events.Run(ctx)

	h := handler.NewEventsHandler(events, stubTokens{users: map[string]string{"good": "sam"}}, stubSessions{loggedIn: true})
	mux := http.NewServeMux()
	mux.HandleFunc("GET /events/stream", h.Stream)

	server := httptest.NewServer(middleware.MetricsMiddleware(mux))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/events/stream?token=good"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	assert.Eventually(t, func() bool { return events.ClientCount("sam") == 1 }, 2*time.Second, 10*time.Millisecond)
}
