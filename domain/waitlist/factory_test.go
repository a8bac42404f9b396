package waitlist

import (
	"context"
	"testing"

	"github.com/launchline/go-waitlist-kit/internal/log"
	"github.com/launchline/go-waitlist-kit/pkg/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitlistServiceFactory_CreateService(t *testing.T) {
	storage := kv.NewMemoryStore()
	logger := log.NewLoggerWithJSONOutput()
	serviceFactory := NewWaitlistServiceFactory(storage, logger, nil)

	service, err := serviceFactory.CreateService()
	require.NoError(t, err)
	require.NotNil(t, service)

	result, err := service.Join(context.Background(), &JoinWaitlistRequest{
		Name:  "Asha Raman",
		Email: "asha@example.com",
	})
	require.NoError(t, err)
	assert.False(t, result.AlreadyRegistered)
	assert.Equal(t, 1, result.TotalSignups)

	// The signup reached the shared medium, not just the service's cache.
	payload, err := storage.Get(context.Background(), StorageKey)
	require.NoError(t, err)
	assert.Contains(t, string(payload), "asha@example.com")
}

func TestWaitlistServiceFactory_EachServiceHoldsItsOwnCollection(t *testing.T) {
	storage := kv.NewMemoryStore()
	logger := log.NewLoggerWithJSONOutput()
	serviceFactory := NewWaitlistServiceFactory(storage, logger, nil)

	first, err := serviceFactory.CreateService()
	require.NoError(t, err)

	_, err = first.Join(context.Background(), &JoinWaitlistRequest{
		Name:  "Asha Raman",
		Email: "asha@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Count(context.Background()))

	// A second service starts empty until its store hydrates.
	second, err := serviceFactory.CreateService()
	require.NoError(t, err)
	assert.Equal(t, 0, second.Count(context.Background()))
}

func TestWaitlistServiceFactory_RequiresStorage(t *testing.T) {
	serviceFactory := NewWaitlistServiceFactory(nil, log.NewLoggerWithJSONOutput(), nil)

	store, err := serviceFactory.CreateStore()
	assert.Error(t, err)
	assert.Nil(t, store)

	service, err := serviceFactory.CreateService()
	assert.Error(t, err)
	assert.Nil(t, service)
}
