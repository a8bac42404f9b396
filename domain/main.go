package domain

import (
	"context"

	"github.com/launchline/go-waitlist-kit/config"
	"github.com/launchline/go-waitlist-kit/domain/waitlist"
	"github.com/launchline/go-waitlist-kit/internal/log"
	"github.com/launchline/go-waitlist-kit/pkg/factory"
)

// CoreDomain holds the wired waitlist components. Embedders keep one per
// application; the store carries the in-memory signup collection.
type CoreDomain struct {
	WaitlistStore   waitlist.WaitlistStore
	WaitlistService waitlist.WaitlistService
	Metrics         *waitlist.Metrics
}

func SetupCoreDomain(ctx context.Context, appConfig *config.ApplicationConfig) (*CoreDomain, error) {
	logger := appConfig.Logger
	ctx = log.NewSessionContext(ctx, logger)

	var metrics *waitlist.Metrics
	if appConfig.MetricsRegistry != nil {
		metrics = waitlist.NewMetrics(appConfig.MetricsRegistry)
	}

	serviceFactory := waitlist.NewWaitlistServiceFactory(appConfig.Storage, logger, metrics)

	store, err := serviceFactory.CreateStore()
	if err != nil {
		return nil, err
	}

	// Hydrate before taking signups so duplicate checks cover earlier
	// sessions over the same medium.
	store.Load(ctx)

	factories := factory.NewFactoryContainer(appConfig.Storage, &factory.ThrottleConfig{
		Requests: appConfig.Config.JoinThrottleRequests,
		Window:   appConfig.Config.JoinThrottleWindow,
		Logger:   logger,
	})

	service := waitlist.NewWaitlistServiceWithConfig(&waitlist.ServiceConfig{
		Store:    store,
		Logger:   logger,
		Metrics:  metrics,
		Throttle: factories.RateLimiterFactory.CreateRateLimiter(),
	})

	return &CoreDomain{
		WaitlistStore:   store,
		WaitlistService: service,
		Metrics:         metrics,
	}, nil
}
