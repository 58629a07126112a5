package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/IANDYI/health-tracker/internal/core/ports"
	"github.com/sony/gobreaker"
)

// BreakerSettings configures the circuit breaker wrapped around every backend call
type BreakerSettings struct {
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
}

// DefaultBreakerSettings are used when no configuration is supplied
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
	}
}

func newCircuitBreaker(name string, s BreakerSettings) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		// A missing key is an answer, not a backend failure
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ports.ErrKeyNotFound)
		},
	})
}

// retrier re-runs transient failures a fixed number of times
type retrier struct {
	maxRetries int
	retryDelay time.Duration
}

func defaultRetrier() retrier {
	return retrier{maxRetries: 3, retryDelay: 1 * time.Second}
}

// executeWithRetry executes a backend operation with retry logic
func (r retrier) executeWithRetry(ctx context.Context, operation func() error) error {
	var lastErr error
	for i := 0; i < r.maxRetries; i++ {
		err := operation()
		if err == nil {
			return nil
		}
		lastErr = err
		// Don't retry on a missing key - it's not a transient error
		if errors.Is(err, ports.ErrKeyNotFound) {
			return err
		}
		if i < r.maxRetries-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.retryDelay):
			}
		}
	}
	return fmt.Errorf("operation failed after %d retries: %w", r.maxRetries, lastErr)
}
