package handler

import (
	"log"
	"net/http"
	"strings"

	"github.com/IANDYI/health-tracker/internal/adapters/middleware"
	"github.com/IANDYI/health-tracker/internal/adapters/websocket"
)

// TokenAuthenticator resolves a session token to its username
type TokenAuthenticator interface {
	Authenticate(token string) (string, error)
}

// EventsHandler streams a user's health events over a WebSocket
type EventsHandler struct {
	hub      *websocket.Hub
	tokens   TokenAuthenticator
	sessions middleware.SessionChecker
}

// NewEventsHandler creates a new events stream handler
func NewEventsHandler(hub *websocket.Hub, tokens TokenAuthenticator, sessions middleware.SessionChecker) *EventsHandler {
	return &EventsHandler{
		hub:      hub,
		tokens:   tokens,
		sessions: sessions,
	}
}

// streamToken reads the bearer token, falling back to the ?token= query
// parameter because browsers cannot set headers on WebSocket requests
func streamToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Fields(authHeader)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}
	return r.URL.Query().Get("token")
}

// Stream handles GET /events/stream
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	tokenString := streamToken(r)
	if tokenString == "" {
		log.Printf("Event stream rejected: missing token")
		http.Error(w, "unauthorized: missing token", http.StatusUnauthorized)
		return
	}

	username, err := h.tokens.Authenticate(tokenString)
	if err != nil {
		log.Printf("Event stream rejected: %v", err)
		http.Error(w, "unauthorized: invalid token", http.StatusUnauthorized)
		return
	}

	loggedIn, err := h.sessions.IsLoggedIn(r.Context(), username)
	if err != nil {
		log.Printf("Session check failed for %s: %v", username, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if !loggedIn {
		http.Error(w, "session ended", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	h.hub.Attach(conn, username)
	EventStreamConnectionsTotal.Inc()
}
