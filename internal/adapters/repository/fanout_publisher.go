package repository

import (
	"context"
	"errors"

	"github.com/IANDYI/health-tracker/internal/core/ports"
)

// FanoutPublisher sends each event to every wrapped publisher.
// All publishers are tried; their errors are joined.
type FanoutPublisher struct {
	publishers []ports.EventPublisher
}

// NewFanoutPublisher combines publishers, e.g. RabbitMQ and the live event hub
func NewFanoutPublisher(publishers ...ports.EventPublisher) *FanoutPublisher {
	return &FanoutPublisher{publishers: publishers}
}

func (p *FanoutPublisher) Publish(ctx context.Context, event ports.HealthEvent) error {
	var errs []error
	for _, publisher := range p.publishers {
		if err := publisher.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ ports.EventPublisher = (*FanoutPublisher)(nil)
