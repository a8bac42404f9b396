package factory

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/launchline/go-waitlist-kit/pkg/ratelimit"
)

// Medium is the slice of the durable medium the factories need to see.
// Any kv.Store satisfies it.
type Medium interface {
	Ping(ctx context.Context) error
}

// RedisClientProvider is implemented by Redis-backed media (directly or
// through the resilience wrapper). The throttle reuses the client so
// limits hold across processes sharing the medium.
type RedisClientProvider interface {
	GetClient() *redis.Client
}

type ThrottleConfig struct {
	Requests int
	Window   time.Duration
	Logger   ratelimit.Logger
}

type RateLimiterFactory interface {
	CreateRateLimiter() ratelimit.RateLimiter
}

type DefaultRateLimiterFactory struct {
	config *ratelimit.RateLimitConfig
}

func NewDefaultRateLimiterFactory(requests int, window time.Duration, medium Medium, logger ratelimit.Logger) *DefaultRateLimiterFactory {

	var redisClient *redis.Client
	if medium != nil {
		if provider, ok := medium.(RedisClientProvider); ok {
			redisClient = provider.GetClient()
		}
	}

	return &DefaultRateLimiterFactory{
		config: &ratelimit.RateLimitConfig{
			Requests: requests,
			Window:   window,
			Redis:    redisClient,
			Logger:   logger,
		},
	}
}

func (f *DefaultRateLimiterFactory) CreateRateLimiter() ratelimit.RateLimiter {
	return ratelimit.NewRateLimiter(f.config)
}

type FactoryContainer struct {
	RateLimiterFactory RateLimiterFactory
}

func NewFactoryContainer(medium Medium, throttle *ThrottleConfig) *FactoryContainer {
	rateLimiterFactory := NewDefaultRateLimiterFactory(throttle.Requests, throttle.Window, medium, throttle.Logger)

	return &FactoryContainer{
		RateLimiterFactory: rateLimiterFactory,
	}
}
