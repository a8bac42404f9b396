package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Slot is the row shape behind GormStore, one row per key. Payloads are
// stored as text so the same schema serves SQLite and PostgreSQL; the
// waitlist keeps JSON in them.
type Slot struct {
	Key       string    `gorm:"column:slot_key;primaryKey;size:255" json:"slot_key"`
	Value     string    `gorm:"column:value;type:text;not null" json:"value"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (Slot) TableName() string {
	return "kv_slots"
}

// GormStore persists slots in a relational database through GORM, so the
// same code serves SQLite for single-host setups and PostgreSQL when the
// embedder already runs one.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if db == nil {
		return nil, fmt.Errorf("kv: gorm store requires a database handle")
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Get(ctx context.Context, key string) ([]byte, error) {
	var slot Slot
	if err := s.db.WithContext(ctx).First(&slot, "slot_key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("kv: fetch slot %q: %w", key, err)
	}
	return []byte(slot.Value), nil
}

func (s *GormStore) Set(ctx context.Context, key string, value []byte) error {
	slot := Slot{Key: key, Value: string(value), UpdatedAt: time.Now().UTC()}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slot_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&slot).Error
	if err != nil {
		return fmt.Errorf("kv: upsert slot %q: %w", key, err)
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Delete(&Slot{}, "slot_key = ?", key).Error; err != nil {
		return fmt.Errorf("kv: delete slot %q: %w", key, err)
	}
	return nil
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("kv: access underlying connection: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("kv: access underlying connection: %w", err)
	}
	return sqlDB.Close()
}
