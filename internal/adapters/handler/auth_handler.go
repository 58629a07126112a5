package handler

import (
	"net/http"
	"time"

	"github.com/IANDYI/health-tracker/internal/core/domain"
	"github.com/IANDYI/health-tracker/internal/core/ports"
)

// AuthHandler handles registration, login and logout
type AuthHandler struct {
	auth ports.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth ports.AuthService) *AuthHandler {
	return &AuthHandler{
		auth: auth,
	}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()
	status := http.StatusCreated
	var username string
	defer func() {
		logStructured(requestID, username, r.Method, "/auth/register", status, time.Since(startTime))
	}()

	var creds domain.Credentials
	if err := decodeJSON(r, &creds); err != nil {
		status = badRequest(w, requestID, "invalid request body", err)
		return
	}

	session, err := h.auth.Register(r.Context(), creds)
	if err != nil {
		status = writeError(w, requestID, err)
		return
	}

	username = session.Username
	writeJSON(w, status, session)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()
	status := http.StatusOK
	var username string
	defer func() {
		logStructured(requestID, username, r.Method, "/auth/login", status, time.Since(startTime))
	}()

	var creds domain.Credentials
	if err := decodeJSON(r, &creds); err != nil {
		status = badRequest(w, requestID, "invalid request body", err)
		return
	}

	session, err := h.auth.Login(r.Context(), creds)
	if err != nil {
		status = writeError(w, requestID, err)
		return
	}

	username = session.Username
	writeJSON(w, status, session)
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()
	status := http.StatusNoContent

	username, ok := requireUsername(w, r, requestID)
	if !ok {
		return
	}
	defer func() {
		logStructured(requestID, username, r.Method, "/auth/logout", status, time.Since(startTime))
	}()

	if err := h.auth.Logout(r.Context(), username); err != nil {
		status = writeError(w, requestID, err)
		return
	}

	w.WriteHeader(status)
}
