package handler

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/IANDYI/health-tracker/internal/adapters/middleware"
	"github.com/IANDYI/health-tracker/internal/core/domain"
	"github.com/IANDYI/health-tracker/internal/core/services"
)

// ErrorResponse is the JSON body of every error reply
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// generateRequestID generates a unique request ID for tracing
func generateRequestID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		// Fallback to timestamp-based ID if random generation fails
		return hex.EncodeToString([]byte(time.Now().Format(time.RFC3339Nano)))
	}
	return hex.EncodeToString(b)
}

// logStructured logs structured JSON with request metadata
// Includes: request_id, username, method, endpoint, status_code, duration
func logStructured(requestID, username, method, endpoint string, statusCode int, duration time.Duration) {
	logEntry := map[string]interface{}{
		"request_id":  requestID,
		"method":      method,
		"endpoint":    endpoint,
		"status_code": statusCode,
		"duration_ms": duration.Milliseconds(),
	}
	if username != "" {
		logEntry["username"] = username
	}

	jsonBytes, err := json.Marshal(logEntry)
	if err != nil {
		log.Printf("[%s] Failed to marshal log entry: %v", requestID, err)
		return
	}

	log.Printf("%s", string(jsonBytes))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func decodeJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// badRequestErrors are user-facing input errors whose message is shown as-is
var badRequestErrors = []error{
	domain.ErrInvalidActivity,
	domain.ErrInvalidSleepHours,
	domain.ErrInvalidCalorieGoal,
	domain.ErrInvalidIntake,
	domain.ErrUsernameRequired,
	domain.ErrPasswordRequired,
	domain.ErrPasswordTooShort,
	domain.ErrPasswordMismatch,
}

// statusForError maps service errors to an HTTP status and response body
func statusForError(err error) (int, ErrorResponse) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, ErrorResponse{Error: "validation failed", Fields: validationErr.Fields}
	}

	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest, ErrorResponse{Error: target.Error()}
		}
	}

	switch {
	case errors.Is(err, domain.ErrUsernameTaken):
		return http.StatusConflict, ErrorResponse{Error: domain.ErrUsernameTaken.Error()}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, ErrorResponse{Error: domain.ErrInvalidCredentials.Error()}
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"}
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Error: "not found"}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: "internal server error"}
	}
}

// writeError logs the failure and writes the mapped error response. Returns the status written.
func writeError(w http.ResponseWriter, requestID string, err error) int {
	status, body := statusForError(err)
	if status == http.StatusBadRequest && body.Fields != nil {
		for field := range body.Fields {
			ValidationFailuresTotal.WithLabelValues(field).Inc()
		}
	}
	log.Printf("[%s] Request failed: status=%d, error=%v", requestID, status, err)
	writeJSON(w, status, body)
	return status
}

// badRequest writes a 400 with a fixed message, used for undecodable bodies and bad path params
func badRequest(w http.ResponseWriter, requestID, message string, err error) int {
	log.Printf("[%s] %s: %v", requestID, message, err)
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: message})
	return http.StatusBadRequest
}

// requireUsername reads the authenticated username; the auth middleware always sets it
func requireUsername(w http.ResponseWriter, r *http.Request, requestID string) (string, bool) {
	username, ok := middleware.GetUsername(r.Context())
	if !ok {
		log.Printf("[%s] Failed to get username from context", requestID)
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return "", false
	}
	return username, true
}
