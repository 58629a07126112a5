package ports

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned by a KeyValueStore when a key has no value
var ErrKeyNotFound = errors.New("key not found")

// KeyValueStore defines string key-value persistence.
// Values are opaque strings; structured values are stored as JSON.
type KeyValueStore interface {
	// Get returns the value stored under key, or ErrKeyNotFound
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Ping checks that the backend is reachable (used by the readiness probe)
	Ping(ctx context.Context) error
}

// Health event types
const (
	EventBMIOutOfRange      = "bmi_out_of_range"
	EventCalorieGoalReached = "calorie_goal_reached"
	EventWaterGoalReached   = "water_goal_reached"
)

// HealthEvent is published when a tracked value crosses a notable threshold
type HealthEvent struct {
	EventType string    `json:"event_type"`
	Username  string    `json:"username,omitempty"`
	Value     float64   `json:"value"`
	Detail    string    `json:"detail"`
	Timestamp time.Time `json:"timestamp"`
}

// EventPublisher defines the interface for publishing health events to RabbitMQ
type EventPublisher interface {
	// Publish sends a health event. Callers treat failures as non-fatal.
	Publish(ctx context.Context, event HealthEvent) error
}
