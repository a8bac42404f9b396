package waitlist

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/launchline/go-waitlist-kit/internal/log"
	"github.com/launchline/go-waitlist-kit/internal/models"
	apperrors "github.com/launchline/go-waitlist-kit/pkg/errors"
	"github.com/launchline/go-waitlist-kit/pkg/kv"
)

// SignupFields carries the caller-supplied values of a signup. The store
// assigns the ID and timestamp itself.
type SignupFields struct {
	Name    string
	Email   string
	Company string
	Role    string
}

type WaitlistStore interface {
	// Load hydrates the in-memory collection from the storage medium and
	// returns it newest first. An unreadable or corrupt slot degrades to
	// an empty collection instead of failing: the outcome is reported
	// through the logger and metrics, never as an error.
	Load(ctx context.Context) []models.WaitlistEntry

	// Count reports how many signups are held in memory.
	Count() int

	// Exists reports whether a signup with this email is present. The
	// comparison uses the normalized form of both sides.
	Exists(email string) bool

	// Entries returns a copy of the collection, newest signup first.
	Entries() []models.WaitlistEntry

	// AddIfAbsent records a signup unless the email is already present.
	// The membership check, the insert and the write to the medium happen
	// under one lock, so two concurrent signups with the same email
	// cannot both pass the check. When the email is present the existing
	// entry comes back with inserted=false and no error. When the medium
	// rejects the write the insert is rolled back, keeping memory and
	// medium consistent.
	AddIfAbsent(ctx context.Context, fields SignupFields) (entry models.WaitlistEntry, inserted bool, err error)

	// Add records a signup, treating an already registered email as
	// success and returning its existing entry.
	Add(ctx context.Context, fields SignupFields) (models.WaitlistEntry, error)
}

type StoreConfig struct {
	// Storage is the durable medium. Required.
	Storage kv.Store
	Logger  *log.Logger
	Metrics *Metrics
	// Key overrides the storage slot, mainly for tests that share a
	// medium. Defaults to StorageKey.
	Key string
	// Now overrides the timestamp source. Defaults to time.Now in UTC.
	Now func() time.Time
	// NewID overrides signup ID generation. Defaults to random UUIDs.
	NewID func() string
}

type waitlistStore struct {
	storage kv.Store
	logger  *log.Logger
	metrics *Metrics
	key     string
	now     func() time.Time
	newID   func() string

	mu sync.RWMutex
	// entries is ordered newest first, matching the durable payload.
	entries []models.WaitlistEntry
	// present indexes normalized emails for the duplicate check.
	present map[string]struct{}
}

func NewWaitlistStore(config *StoreConfig) (WaitlistStore, error) {
	if config == nil || config.Storage == nil {
		return nil, apperrors.NewInternalError("waitlist store requires a storage medium", nil)
	}

	logger := config.Logger
	if logger == nil {
		logger = log.NewLoggerWithJSONOutput()
	}

	key := config.Key
	if key == "" {
		key = StorageKey
	}

	now := config.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	newID := config.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	return &waitlistStore{
		storage: config.Storage,
		logger:  logger,
		metrics: config.Metrics,
		key:     key,
		now:     now,
		newID:   newID,
		entries: []models.WaitlistEntry{},
		present: make(map[string]struct{}),
	}, nil
}

func (s *waitlistStore) Load(ctx context.Context) []models.WaitlistEntry {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := s.storage.Get(ctx, s.key)
	if errors.Is(err, kv.ErrNotFound) {
		logger.Info("No stored waitlist found; starting with an empty collection", "key", s.key)
		s.installLocked(nil)
		return s.copyEntriesLocked()
	}
	if err != nil {
		readErr := apperrors.NewStorageReadError("unable to read waitlist from storage", err)
		logger.Error("Waitlist slot unreadable; continuing with an empty collection", "key", s.key, "error", readErr.Error())
		s.metrics.RecordLoadDegradation()
		s.installLocked(nil)
		return s.copyEntriesLocked()
	}

	entries, err := decodeEntries(payload)
	if err != nil {
		logger.Error("Waitlist payload malformed; continuing with an empty collection", "key", s.key, "error", err.Error())
		s.metrics.RecordLoadDegradation()
		s.installLocked(nil)
		return s.copyEntriesLocked()
	}

	s.installLocked(entries)
	logger.Info("Waitlist loaded from storage", "key", s.key, "count", len(entries))
	return s.copyEntriesLocked()
}

func (s *waitlistStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

func (s *waitlistStore) Exists(email string) bool {
	normalized := NormalizeEmail(email)
	if normalized == "" {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.present[normalized]
	return ok
}

func (s *waitlistStore) Entries() []models.WaitlistEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.copyEntriesLocked()
}

func (s *waitlistStore) AddIfAbsent(ctx context.Context, fields SignupFields) (models.WaitlistEntry, bool, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	normalized := NormalizeEmail(fields.Email)
	if normalized == "" {
		return models.WaitlistEntry{}, false, apperrors.NewValidationError("email is required", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.present[normalized]; ok {
		return s.findByNormalizedEmailLocked(normalized), false, nil
	}

	entry := models.WaitlistEntry{
		ID:        s.newID(),
		Name:      fields.Name,
		Email:     fields.Email,
		Company:   fields.Company,
		Role:      fields.Role,
		CreatedAt: s.now(),
	}

	// Newest first, mirroring the durable payload order.
	s.entries = append(s.entries, models.WaitlistEntry{})
	copy(s.entries[1:], s.entries)
	s.entries[0] = entry
	s.present[normalized] = struct{}{}

	if err := s.persistLocked(ctx); err != nil {
		// Roll the insert back so memory never claims a signup the
		// medium does not hold.
		s.entries = s.entries[1:]
		delete(s.present, normalized)

		s.metrics.RecordPersistFailure()
		logger.Error("Failed to persist waitlist signup", "key", s.key, "error", err.Error())
		return models.WaitlistEntry{}, false, apperrors.NewStorageWriteError("unable to persist waitlist signup", err)
	}

	s.metrics.SetEntriesCount(len(s.entries))
	return entry, true, nil
}

func (s *waitlistStore) Add(ctx context.Context, fields SignupFields) (models.WaitlistEntry, error) {
	entry, _, err := s.AddIfAbsent(ctx, fields)
	return entry, err
}

// installLocked replaces the in-memory state. Callers hold the write lock.
func (s *waitlistStore) installLocked(entries []models.WaitlistEntry) {
	if entries == nil {
		entries = []models.WaitlistEntry{}
	}

	present := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if normalized := NormalizeEmail(entry.Email); normalized != "" {
			present[normalized] = struct{}{}
		}
	}

	s.entries = entries
	s.present = present
	s.metrics.SetEntriesCount(len(entries))
}

func (s *waitlistStore) persistLocked(ctx context.Context) error {
	payload, err := encodeEntries(s.entries)
	if err != nil {
		return err
	}
	return s.storage.Set(ctx, s.key, payload)
}

func (s *waitlistStore) copyEntriesLocked() []models.WaitlistEntry {
	out := make([]models.WaitlistEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *waitlistStore) findByNormalizedEmailLocked(normalized string) models.WaitlistEntry {
	for _, entry := range s.entries {
		if NormalizeEmail(entry.Email) == normalized {
			return entry
		}
	}
	return models.WaitlistEntry{}
}
