package kv

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"
	"github.com/launchline/go-waitlist-kit/pkg/circuitbreaker"
	"github.com/launchline/go-waitlist-kit/pkg/retry"
)

type ResilientConfig struct {
	Retry   retry.RetryPolicy
	Breaker circuitbreaker.CircuitBreaker
}

// ResilientStore decorates another Store with retries for transient
// medium errors and a circuit breaker that fails fast once the medium is
// clearly down. ErrNotFound passes straight through: a missing slot is a
// valid answer, not a failure to count against the breaker.
type ResilientStore struct {
	inner   Store
	retry   retry.RetryPolicy
	breaker circuitbreaker.CircuitBreaker
}

func NewResilientStore(inner Store, config *ResilientConfig) *ResilientStore {
	if config == nil {
		config = &ResilientConfig{}
	}

	policy := config.Retry
	if policy == nil {
		policy = retry.NewExponentialBackoff(retry.DefaultConfig())
	}

	breaker := config.Breaker
	if breaker == nil {
		breaker = circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig())
	}

	return &ResilientStore{inner: inner, retry: policy, breaker: breaker}
}

func (r *ResilientStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	var missing bool

	err := r.breaker.Call(func() error {
		return r.retry.Execute(func() error {
			got, err := r.inner.Get(ctx, key)
			if errors.Is(err, ErrNotFound) {
				missing = true
				return nil
			}
			if err != nil {
				return err
			}
			missing = false
			value = got
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if missing {
		return nil, ErrNotFound
	}
	return value, nil
}

func (r *ResilientStore) Set(ctx context.Context, key string, value []byte) error {
	return r.breaker.Call(func() error {
		return r.retry.Execute(func() error {
			return r.inner.Set(ctx, key, value)
		})
	})
}

func (r *ResilientStore) Delete(ctx context.Context, key string) error {
	return r.breaker.Call(func() error {
		return r.retry.Execute(func() error {
			return r.inner.Delete(ctx, key)
		})
	})
}

// Ping bypasses the breaker so health checks keep observing the real
// medium while the breaker is open.
func (r *ResilientStore) Ping(ctx context.Context) error {
	return r.inner.Ping(ctx)
}

func (r *ResilientStore) Close() error {
	return r.inner.Close()
}

// BreakerState reports the current breaker position for diagnostics.
func (r *ResilientStore) BreakerState() circuitbreaker.CircuitState {
	return r.breaker.State()
}

// GetClient exposes the inner store's Redis client when it has one, so
// wrapping a RedisStore stays transparent to consumers that share the
// connection. Returns nil for non-Redis media.
func (r *ResilientStore) GetClient() *redis.Client {
	if provider, ok := r.inner.(interface{ GetClient() *redis.Client }); ok {
		return provider.GetClient()
	}
	return nil
}
