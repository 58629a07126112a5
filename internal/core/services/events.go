package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/IANDYI/health-tracker/internal/core/ports"
)

// publishAsync sends an event in the background so a slow broker never delays a response
func publishAsync(publisher ports.EventPublisher, event ports.HealthEvent) {
	if publisher == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	go func() {
		// Use background context so request cancellation does not drop the event
		if err := publisher.Publish(context.Background(), event); err != nil {
			log.Printf("Failed to publish %s event: %v", event.EventType, err)
			return
		}
		logEvent(event, "event_published")
	}()
}

// logEvent logs structured JSON for service events
func logEvent(e ports.HealthEvent, action string) {
	logEntry := map[string]interface{}{
		"event":      action,
		"event_type": e.EventType,
		"value":      e.Value,
		"timestamp":  e.Timestamp.Format(time.RFC3339),
	}
	if e.Username != "" {
		logEntry["username"] = e.Username
	}
	if e.Detail != "" {
		logEntry["detail"] = e.Detail
	}

	jsonBytes, err := json.Marshal(logEntry)
	if err != nil {
		log.Printf("Failed to marshal event log entry: %v", err)
		return
	}

	log.Printf("%s", string(jsonBytes))
}
