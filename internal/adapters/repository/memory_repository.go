package repository

import (
	"context"
	"sync"

	"github.com/IANDYI/health-tracker/internal/core/ports"
)

// MemoryRepository implements KeyValueStore in process memory.
// Used for local runs and tests; data is lost on restart.
type MemoryRepository struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryRepository creates an empty in-memory store
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		data: make(map[string]string),
	}
}

func (r *MemoryRepository) Get(_ context.Context, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.data[key]
	if !ok {
		return "", ports.ErrKeyNotFound
	}
	return value, nil
}

func (r *MemoryRepository) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data[key] = value
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.data, key)
	return nil
}

func (r *MemoryRepository) Ping(_ context.Context) error {
	return nil
}

// Ensure MemoryRepository implements the interface
var _ ports.KeyValueStore = (*MemoryRepository)(nil)
