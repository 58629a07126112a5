package repository

import (
	"context"

	"github.com/IANDYI/health-tracker/internal/core/ports"
)

// NoopPublisher drops every event. Used when EVENTS_ENABLED=false.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, ports.HealthEvent) error {
	return nil
}

var _ ports.EventPublisher = NoopPublisher{}
