package waitlist

import (
	"github.com/launchline/go-waitlist-kit/internal/log"
	"github.com/launchline/go-waitlist-kit/pkg/kv"
)

type WaitlistServiceFactory interface {
	CreateStore() (WaitlistStore, error)
	CreateService() (WaitlistService, error)
}

type DefaultWaitlistServiceFactory struct {
	storage kv.Store
	logger  *log.Logger
	metrics *Metrics
}

func NewWaitlistServiceFactory(storage kv.Store, logger *log.Logger, metrics *Metrics) WaitlistServiceFactory {
	return &DefaultWaitlistServiceFactory{
		storage: storage,
		logger:  logger,
		metrics: metrics,
	}
}

func (f *DefaultWaitlistServiceFactory) CreateStore() (WaitlistStore, error) {
	return NewWaitlistStore(&StoreConfig{
		Storage: f.storage,
		Logger:  f.logger,
		Metrics: f.metrics,
	})
}

// CreateService builds a service over a fresh store. Applications call
// this once and share the result; separate services would each hold
// their own in-memory collection.
func (f *DefaultWaitlistServiceFactory) CreateService() (WaitlistService, error) {
	store, err := f.CreateStore()
	if err != nil {
		return nil, err
	}

	return NewWaitlistServiceWithConfig(&ServiceConfig{
		Store:   store,
		Logger:  f.logger,
		Metrics: f.metrics,
	}), nil
}
