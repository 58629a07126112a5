package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/IANDYI/health-tracker/internal/core/ports"
	"github.com/google/uuid"
)

// TrackerHandler handles the daily intake, water, activity and sleep trackers.
// "Today" is the server's current UTC date.
type TrackerHandler struct {
	tracker ports.TrackerService
	now     func() time.Time
}

// NewTrackerHandler creates a new tracker handler
func NewTrackerHandler(tracker ports.TrackerService) *TrackerHandler {
	return &TrackerHandler{
		tracker: tracker,
		now:     time.Now,
	}
}

// IntakeRequest is the body of POST /intake
type IntakeRequest struct {
	Calories int `json:"calories"`
}

// SleepRequest is the body of POST /sleep
type SleepRequest struct {
	Hours float64 `json:"hours"`
}

// trackerCall runs one authenticated tracker operation and writes its result.
// op returns the response value, or nil for a 204.
func (h *TrackerHandler) trackerCall(w http.ResponseWriter, r *http.Request, endpoint string, okStatus int,
	op func(ctx context.Context, username string) (interface{}, error)) {
	startTime := time.Now()
	requestID := generateRequestID()
	status := okStatus

	username, ok := requireUsername(w, r, requestID)
	if !ok {
		return
	}
	defer func() {
		logStructured(requestID, username, r.Method, endpoint, status, time.Since(startTime))
	}()

	result, err := op(r.Context(), username)
	if err != nil {
		status = writeError(w, requestID, err)
		return
	}

	if result == nil {
		status = http.StatusNoContent
		w.WriteHeader(status)
		return
	}
	writeJSON(w, status, result)
}

// decodeOrReject decodes the body, writing a 400 on failure
func decodeOrReject(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := decodeJSON(r, dst); err != nil {
		badRequest(w, generateRequestID(), "invalid request body", err)
		return false
	}
	return true
}

// Intake

// GetIntake handles GET /intake
func (h *TrackerHandler) GetIntake(w http.ResponseWriter, r *http.Request) {
	h.trackerCall(w, r, "/intake", http.StatusOK, func(ctx context.Context, username string) (interface{}, error) {
		return h.tracker.GetIntakeProgress(ctx, username, h.now())
	})
}

// LogIntake handles POST /intake
func (h *TrackerHandler) LogIntake(w http.ResponseWriter, r *http.Request) {
	var req IntakeRequest
	if !decodeOrReject(w, r, &req) {
		return
	}
	h.trackerCall(w, r, "/intake", http.StatusOK, func(ctx context.Context, username string) (interface{}, error) {
		return h.tracker.LogIntake(ctx, username, h.now(), req.Calories)
	})
}

// ResetIntake handles DELETE /intake
func (h *TrackerHandler) ResetIntake(w http.ResponseWriter, r *http.Request) {
	h.trackerCall(w, r, "/intake", http.StatusOK, func(ctx context.Context, username string) (interface{}, error) {
		return h.tracker.ResetIntake(ctx, username, h.now())
	})
}

// Water

// GetWater handles GET /water
func (h *TrackerHandler) GetWater(w http.ResponseWriter, r *http.Request) {
	h.trackerCall(w, r, "/water", http.StatusOK, func(ctx context.Context, username string) (interface{}, error) {
		return h.tracker.GetWater(ctx, username, h.now())
	})
}

// AddWaterCup handles POST /water/cups
func (h *TrackerHandler) AddWaterCup(w http.ResponseWriter, r *http.Request) {
	h.trackerCall(w, r, "/water/cups", http.StatusOK, func(ctx context.Context, username string) (interface{}, error) {
		return h.tracker.AddWaterCup(ctx, username, h.now())
	})
}

// RemoveWaterCup handles DELETE /water/cups
func (h *TrackerHandler) RemoveWaterCup(w http.ResponseWriter, r *http.Request) {
	h.trackerCall(w, r, "/water/cups", http.StatusOK, func(ctx context.Context, username string) (interface{}, error) {
		return h.tracker.RemoveWaterCup(ctx, username, h.now())
	})
}

// ResetWater handles DELETE /water
func (h *TrackerHandler) ResetWater(w http.ResponseWriter, r *http.Request) {
	h.trackerCall(w, r, "/water", http.StatusOK, func(ctx context.Context, username string) (interface{}, error) {
		return h.tracker.ResetWater(ctx, username, h.now())
	})
}

// Activities

// ListActivities handles GET /activities
func (h *TrackerHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	h.trackerCall(w, r, "/activities", http.StatusOK, func(ctx context.Context, username string) (interface{}, error) {
		return h.tracker.ListActivities(ctx, username)
	})
}

// AddActivity handles POST /activities
func (h *TrackerHandler) AddActivity(w http.ResponseWriter, r *http.Request) {
	var req ports.AddActivityRequest
	if !decodeOrReject(w, r, &req) {
		return
	}
	h.trackerCall(w, r, "/activities", http.StatusCreated, func(ctx context.Context, username string) (interface{}, error) {
		return h.tracker.AddActivity(ctx, username, req)
	})
}

// DeleteActivity handles DELETE /activities/{activity_id}
func (h *TrackerHandler) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	activityID, err := uuid.Parse(r.PathValue("activity_id"))
	if err != nil {
		badRequest(w, generateRequestID(), "invalid activity ID", err)
		return
	}
	h.trackerCall(w, r, "/activities/{activity_id}", http.StatusNoContent, func(ctx context.Context, username string) (interface{}, error) {
		return nil, h.tracker.DeleteActivity(ctx, username, activityID)
	})
}

// Sleep

// ListSleep handles GET /sleep
func (h *TrackerHandler) ListSleep(w http.ResponseWriter, r *http.Request) {
	h.trackerCall(w, r, "/sleep", http.StatusOK, func(ctx context.Context, username string) (interface{}, error) {
		return h.tracker.ListSleep(ctx, username)
	})
}

// LogSleep handles POST /sleep
func (h *TrackerHandler) LogSleep(w http.ResponseWriter, r *http.Request) {
	var req SleepRequest
	if !decodeOrReject(w, r, &req) {
		return
	}
	h.trackerCall(w, r, "/sleep", http.StatusCreated, func(ctx context.Context, username string) (interface{}, error) {
		return h.tracker.LogSleep(ctx, username, req.Hours)
	})
}

// ClearSleep handles DELETE /sleep
func (h *TrackerHandler) ClearSleep(w http.ResponseWriter, r *http.Request) {
	h.trackerCall(w, r, "/sleep", http.StatusNoContent, func(ctx context.Context, username string) (interface{}, error) {
		return nil, h.tracker.ClearSleep(ctx, username)
	})
}
