package handler

import (
	"context"

	"github.com/IANDYI/health-tracker/internal/core/ports"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	BMICalculationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bmi_calculations_total",
			Help: "Total number of BMI calculations by category",
		},
		[]string{"category"},
	)

	CalorieCalculationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calorie_calculations_total",
			Help: "Total number of daily calorie calculations by activity level",
		},
		[]string{"activity_level"},
	)

	ValidationFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "validation_failures_total",
			Help: "Total number of rejected form fields",
		},
		[]string{"field"},
	)

	EventsPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "health_events_published_total",
			Help: "Total number of health events published",
		},
		[]string{"event_type", "status"},
	)

	EventStreamConnectionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "event_stream_connections_total",
			Help: "Total number of WebSocket event streams opened",
		},
	)
)

// RegisterHealthMetrics registers the domain metrics
func RegisterHealthMetrics() {
	prometheus.MustRegister(BMICalculationsTotal)
	prometheus.MustRegister(CalorieCalculationsTotal)
	prometheus.MustRegister(ValidationFailuresTotal)
	prometheus.MustRegister(EventsPublishedTotal)
	prometheus.MustRegister(EventStreamConnectionsTotal)
}

// InstrumentedPublisher counts published events by type and outcome
type InstrumentedPublisher struct {
	next ports.EventPublisher
}

// NewInstrumentedPublisher wraps a publisher with event counters
func NewInstrumentedPublisher(next ports.EventPublisher) *InstrumentedPublisher {
	return &InstrumentedPublisher{next: next}
}

func (p *InstrumentedPublisher) Publish(ctx context.Context, event ports.HealthEvent) error {
	err := p.next.Publish(ctx, event)
	status := "success"
	if err != nil {
		status = "failed"
	}
	EventsPublishedTotal.WithLabelValues(event.EventType, status).Inc()
	return err
}

var _ ports.EventPublisher = (*InstrumentedPublisher)(nil)
