package waitlist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/launchline/go-waitlist-kit/internal/log"
	"github.com/launchline/go-waitlist-kit/internal/models"
	apperrors "github.com/launchline/go-waitlist-kit/pkg/errors"
	"github.com/launchline/go-waitlist-kit/pkg/ratelimit"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestWaitlistService_Join(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := NewMockWaitlistStore(ctrl)
	logger := log.NewLoggerWithJSONOutput()
	service := NewWaitlistService(logger, mockStore)

	createdAt := time.Date(2026, 8, 20, 10, 30, 0, 0, time.UTC)

	t.Run("successful signup", func(t *testing.T) {
		req := &JoinWaitlistRequest{
			Name:    "  Asha Raman ",
			Email:   " asha@example.com ",
			Company: "Launchline",
		}

		storedEntry := models.WaitlistEntry{
			ID:        "8b0a4f2e-7a1d-4c1b-9f3e-2d5a6b7c8d9e",
			Name:      "Asha Raman",
			Email:     "asha@example.com",
			Company:   "Launchline",
			CreatedAt: createdAt,
		}

		mockStore.EXPECT().
			AddIfAbsent(gomock.Any(), SignupFields{
				Name:    "Asha Raman",
				Email:   "asha@example.com",
				Company: "Launchline",
			}).
			Return(storedEntry, true, nil)
		mockStore.EXPECT().Count().Return(1)

		result, err := service.Join(context.Background(), req)

		assert.NoError(t, err)
		assert.NotNil(t, result)
		assert.False(t, result.AlreadyRegistered)
		assert.Equal(t, 1, result.TotalSignups)
		assert.Equal(t, storedEntry.ID, result.Entry.ID)
		assert.Equal(t, "asha@example.com", result.Entry.Email)
		assert.Equal(t, "2026-08-20T10:30:00Z", result.Entry.CreatedAt)
	})

	t.Run("repeated email is a successful no-op", func(t *testing.T) {
		req := &JoinWaitlistRequest{
			Name:  "A. Raman",
			Email: "ASHA@Example.com",
		}

		existingEntry := models.WaitlistEntry{
			ID:        "8b0a4f2e-7a1d-4c1b-9f3e-2d5a6b7c8d9e",
			Name:      "Asha Raman",
			Email:     "asha@example.com",
			CreatedAt: createdAt,
		}

		mockStore.EXPECT().
			AddIfAbsent(gomock.Any(), gomock.Any()).
			Return(existingEntry, false, nil)
		mockStore.EXPECT().Count().Return(1)

		result, err := service.Join(context.Background(), req)

		assert.NoError(t, err)
		assert.NotNil(t, result)
		assert.True(t, result.AlreadyRegistered)
		assert.Equal(t, "Asha Raman", result.Entry.Name, "the original entry is returned")
	})

	t.Run("storage failure surfaces as an error", func(t *testing.T) {
		req := &JoinWaitlistRequest{
			Name:  "Asha Raman",
			Email: "asha@example.com",
		}

		mockStore.EXPECT().
			AddIfAbsent(gomock.Any(), gomock.Any()).
			Return(models.WaitlistEntry{}, false, apperrors.NewStorageWriteError("unable to persist waitlist signup", errors.New("disk full")))

		result, err := service.Join(context.Background(), req)

		assert.Error(t, err)
		assert.Nil(t, result)
		assert.True(t, apperrors.IsStorageWriteError(err))
	})

	t.Run("nil request", func(t *testing.T) {
		result, err := service.Join(context.Background(), nil)

		assert.Error(t, err)
		assert.Nil(t, result)
		assert.True(t, apperrors.IsValidationError(err))
	})
}

func TestWaitlistService_Join_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No store expectations: invalid signups must never reach it.
	mockStore := NewMockWaitlistStore(ctrl)
	service := NewWaitlistService(log.NewLoggerWithJSONOutput(), mockStore)

	cases := []struct {
		name string
		req  *JoinWaitlistRequest
	}{
		{
			name: "missing name",
			req:  &JoinWaitlistRequest{Email: "asha@example.com"},
		},
		{
			name: "missing email",
			req:  &JoinWaitlistRequest{Name: "Asha Raman"},
		},
		{
			name: "whitespace-only email",
			req:  &JoinWaitlistRequest{Name: "Asha Raman", Email: "   "},
		},
		{
			name: "not an address",
			req:  &JoinWaitlistRequest{Name: "Asha Raman", Email: "not-an-email"},
		},
		{
			name: "dotless domain",
			req:  &JoinWaitlistRequest{Name: "Asha Raman", Email: "asha@localhost"},
		},
		{
			name: "trailing dot domain",
			req:  &JoinWaitlistRequest{Name: "Asha Raman", Email: "asha@example."},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := service.Join(context.Background(), tc.req)

			assert.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, apperrors.IsValidationError(err), "got %v", err)
		})
	}
}

func TestWaitlistService_Join_Throttled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := NewMockWaitlistStore(ctrl)
	service := NewWaitlistServiceWithConfig(&ServiceConfig{
		Store:    mockStore,
		Logger:   log.NewLoggerWithJSONOutput(),
		Throttle: ratelimit.NewInMemoryRateLimiter(1, time.Minute),
	})

	entry := models.WaitlistEntry{ID: "id-1", Name: "Asha Raman", Email: "asha@example.com"}
	mockStore.EXPECT().
		AddIfAbsent(gomock.Any(), gomock.Any()).
		Return(entry, true, nil).
		Times(1)
	mockStore.EXPECT().Count().Return(1).Times(1)

	req := &JoinWaitlistRequest{Name: "Asha Raman", Email: "asha@example.com"}

	_, err := service.Join(context.Background(), req)
	assert.NoError(t, err)

	// The second immediate attempt for the same address is throttled
	// before the store is consulted.
	result, err := service.Join(context.Background(), req)
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, apperrors.IsTooManyRequestsError(err))
}

func TestWaitlistService_Delegations(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := NewMockWaitlistStore(ctrl)
	service := NewWaitlistService(log.NewLoggerWithJSONOutput(), mockStore)

	createdAt := time.Date(2026, 8, 20, 10, 30, 0, 0, time.UTC)

	mockStore.EXPECT().Exists("asha@example.com").Return(true)
	assert.True(t, service.Exists(context.Background(), "asha@example.com"))

	mockStore.EXPECT().Count().Return(3)
	assert.Equal(t, 3, service.Count(context.Background()))

	mockStore.EXPECT().Entries().Return([]models.WaitlistEntry{
		{ID: "id-2", Name: "Noor Haddad", Email: "noor@example.com", CreatedAt: createdAt},
		{ID: "id-1", Name: "Asha Raman", Email: "asha@example.com", CreatedAt: createdAt.Add(-time.Hour)},
	})

	entries := service.Entries(context.Background())
	assert.Len(t, entries, 2)
	assert.Equal(t, "noor@example.com", entries[0].Email)
	assert.Equal(t, "2026-08-20T10:30:00Z", entries[0].CreatedAt)
}
