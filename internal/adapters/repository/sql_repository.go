package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/IANDYI/health-tracker/internal/core/ports"
	"github.com/sony/gobreaker"
)

// SQLRepository implements KeyValueStore on a PostgreSQL kv_store table
// Includes retry logic and circuit breaker for resilience
type SQLRepository struct {
	db *sql.DB
	cb *gobreaker.CircuitBreaker
	retrier
}

// NewSQLRepository creates a new PostgreSQL repository with a circuit breaker
func NewSQLRepository(db *sql.DB, settings BreakerSettings) *SQLRepository {
	return &SQLRepository{
		db:      db,
		cb:      newCircuitBreaker("database", settings),
		retrier: defaultRetrier(),
	}
}

func (r *SQLRepository) Get(ctx context.Context, key string) (string, error) {
	result, err := r.cb.Execute(func() (interface{}, error) {
		var value string
		err := r.executeWithRetry(ctx, func() error {
			query := `SELECT value FROM kv_store WHERE key = $1`
			err := r.db.QueryRowContext(ctx, query, key).Scan(&value)
			if errors.Is(err, sql.ErrNoRows) {
				return ports.ErrKeyNotFound
			}
			return err
		})
		if err != nil {
			return nil, err
		}
		return value, nil
	})

	if err != nil {
		return "", err
	}

	return result.(string), nil
}

func (r *SQLRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.cb.Execute(func() (interface{}, error) {
		return nil, r.executeWithRetry(ctx, func() error {
			query := `INSERT INTO kv_store (key, value, updated_at) VALUES ($1, $2, now())
				ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
			_, err := r.db.ExecContext(ctx, query, key, value)
			return err
		})
	})
	return err
}

func (r *SQLRepository) Delete(ctx context.Context, key string) error {
	_, err := r.cb.Execute(func() (interface{}, error) {
		return nil, r.executeWithRetry(ctx, func() error {
			_, err := r.db.ExecContext(ctx, `DELETE FROM kv_store WHERE key = $1`, key)
			return err
		})
	})
	return err
}

// Ping checks the database connection for readiness probes
func (r *SQLRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Ensure SQLRepository implements the interface
var _ ports.KeyValueStore = (*SQLRepository)(nil)
