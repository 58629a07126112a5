package handler

import (
	"net/http"
	"time"

	"github.com/IANDYI/health-tracker/internal/core/domain"
	"github.com/IANDYI/health-tracker/internal/core/ports"
)

// ProfileHandler handles profile, calorie goal and greeting requests
type ProfileHandler struct {
	profiles ports.ProfileService
	now      func() time.Time
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		now:      time.Now,
	}
}

// GoalRequest is the body of PUT /goal
type GoalRequest struct {
	Goal int `json:"goal"`
}

// GoalResponse reports the saved calorie goal
type GoalResponse struct {
	Goal int `json:"goal"`
}

// GetProfile handles GET /profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()
	status := http.StatusOK

	username, ok := requireUsername(w, r, requestID)
	if !ok {
		return
	}
	defer func() {
		logStructured(requestID, username, r.Method, "/profile", status, time.Since(startTime))
	}()

	profile, err := h.profiles.GetProfile(r.Context(), username)
	if err != nil {
		status = writeError(w, requestID, err)
		return
	}

	writeJSON(w, status, profile)
}

// SaveProfile handles PUT /profile
func (h *ProfileHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()
	status := http.StatusOK

	username, ok := requireUsername(w, r, requestID)
	if !ok {
		return
	}
	defer func() {
		logStructured(requestID, username, r.Method, "/profile", status, time.Since(startTime))
	}()

	var profile domain.Profile
	if err := decodeJSON(r, &profile); err != nil {
		status = badRequest(w, requestID, "invalid request body", err)
		return
	}

	saved, err := h.profiles.SaveProfile(r.Context(), username, profile)
	if err != nil {
		status = writeError(w, requestID, err)
		return
	}

	writeJSON(w, status, saved)
}

// GetGoal handles GET /goal
func (h *ProfileHandler) GetGoal(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()
	status := http.StatusOK

	username, ok := requireUsername(w, r, requestID)
	if !ok {
		return
	}
	defer func() {
		logStructured(requestID, username, r.Method, "/goal", status, time.Since(startTime))
	}()

	goal, err := h.profiles.GetCalorieGoal(r.Context(), username)
	if err != nil {
		status = writeError(w, requestID, err)
		return
	}

	writeJSON(w, status, GoalResponse{Goal: goal})
}

// SetGoal handles PUT /goal
func (h *ProfileHandler) SetGoal(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()
	status := http.StatusOK

	username, ok := requireUsername(w, r, requestID)
	if !ok {
		return
	}
	defer func() {
		logStructured(requestID, username, r.Method, "/goal", status, time.Since(startTime))
	}()

	var req GoalRequest
	if err := decodeJSON(r, &req); err != nil {
		status = badRequest(w, requestID, "invalid request body", err)
		return
	}

	goal, err := h.profiles.SetCalorieGoal(r.Context(), username, req.Goal)
	if err != nil {
		status = writeError(w, requestID, err)
		return
	}

	writeJSON(w, status, GoalResponse{Goal: goal})
}

// Greeting handles GET /greeting
func (h *ProfileHandler) Greeting(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := generateRequestID()
	status := http.StatusOK

	username, ok := requireUsername(w, r, requestID)
	if !ok {
		return
	}
	defer func() {
		logStructured(requestID, username, r.Method, "/greeting", status, time.Since(startTime))
	}()

	greeting, err := h.profiles.Greeting(r.Context(), username, h.now())
	if err != nil {
		status = writeError(w, requestID, err)
		return
	}

	writeJSON(w, status, greeting)
}
