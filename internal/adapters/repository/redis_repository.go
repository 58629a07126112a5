package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/IANDYI/health-tracker/internal/core/ports"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
)

// RedisOptions configures the Redis client
type RedisOptions struct {
	Address  string
	Password string
	DB       int
	PoolSize int
}

// NewRedisClient creates a new Redis client from the options
func NewRedisClient(opts RedisOptions) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     opts.Address,
		Password: opts.Password,
		DB:       opts.DB,
		PoolSize: opts.PoolSize,
	})
}

// RedisRepository implements KeyValueStore on plain Redis strings
type RedisRepository struct {
	client *redis.Client
	cb     *gobreaker.CircuitBreaker
	retrier
}

// NewRedisRepository creates a new Redis repository with a circuit breaker
func NewRedisRepository(client *redis.Client, settings BreakerSettings) *RedisRepository {
	return &RedisRepository{
		client:  client,
		cb:      newCircuitBreaker("redis", settings),
		retrier: defaultRetrier(),
	}
}

func (r *RedisRepository) Get(ctx context.Context, key string) (string, error) {
	result, err := r.cb.Execute(func() (interface{}, error) {
		var value string
		err := r.executeWithRetry(ctx, func() error {
			var getErr error
			value, getErr = r.client.Get(ctx, key).Result()
			if errors.Is(getErr, redis.Nil) {
				return ports.ErrKeyNotFound
			}
			return getErr
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

func (r *RedisRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.cb.Execute(func() (interface{}, error) {
		return nil, r.executeWithRetry(ctx, func() error {
			return r.client.Set(ctx, key, value, 0).Err()
		})
	})
	return err
}

func (r *RedisRepository) Delete(ctx context.Context, key string) error {
	_, err := r.cb.Execute(func() (interface{}, error) {
		return nil, r.executeWithRetry(ctx, func() error {
			return r.client.Del(ctx, key).Err()
		})
	})
	return err
}

// Ping checks the Redis connection for readiness probes
func (r *RedisRepository) Ping(ctx context.Context) error {
	if _, err := r.client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (r *RedisRepository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// Ensure RedisRepository implements the interface
var _ ports.KeyValueStore = (*RedisRepository)(nil)
