package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/IANDYI/health-tracker/internal/adapters/repository"
	"github.com/IANDYI/health-tracker/internal/core/ports"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStore is a mock implementation of KeyValueStore
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockStore) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// recordingPublisher forwards every event to a channel so tests can wait for async publishes
type recordingPublisher struct {
	events chan ports.HealthEvent
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{events: make(chan ports.HealthEvent, 16)}
}

func (p *recordingPublisher) Publish(_ context.Context, event ports.HealthEvent) error {
	p.events <- event
	return nil
}

func (p *recordingPublisher) expectEvent(t *testing.T) ports.HealthEvent {
	t.Helper()
	select {
	case e := <-p.events:
		return e
	case <-time.After(2 * time.Second):
		require.FailNow(t, "expected a published event")
		return ports.HealthEvent{}
	}
}

func (p *recordingPublisher) expectNoEvent(t *testing.T) {
	t.Helper()
	select {
	case e := <-p.events:
		require.FailNowf(t, "unexpected event", "%s", e.EventType)
	case <-time.After(100 * time.Millisecond):
	}
}

func newMemoryStore() ports.KeyValueStore {
	return repository.NewMemoryRepository()
}
