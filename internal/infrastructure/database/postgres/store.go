package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/your-org/kbeauty-storefront/internal/pkg/storage"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry is one persisted key
type Entry struct {
	Key       string     `gorm:"column:storage_key;primaryKey;size:255"`
	Value     string     `gorm:"type:text;not null"`
	ExpiresAt *time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (Entry) TableName() string { return "storefront_entries" }

// Store persists visitor state in a single key/value table
type Store struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// NewStore creates a storage driver on db. A zero ttl keeps rows forever.
func NewStore(db *gorm.DB, ttl time.Duration) *Store {
	return &Store{db: db, ttl: ttl, now: time.Now}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var e Entry
	err := s.db.WithContext(ctx).Where("storage_key = ?", key).Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read entry: %w", err)
	}
	if e.ExpiresAt != nil && !s.now().Before(*e.ExpiresAt) {
		return "", storage.ErrNotFound
	}
	return e.Value, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	e := Entry{Key: key, Value: value, UpdatedAt: s.now()}
	if s.ttl > 0 {
		exp := s.now().Add(s.ttl)
		e.ExpiresAt = &exp
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(&e).Error
	if err != nil {
		return fmt.Errorf("failed to write entry: %w", err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("storage_key = ?", key).Delete(&Entry{}).Error; err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}

// Purge deletes rows whose expiry has passed
func (s *Store) Purge(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at IS NOT NULL AND expires_at <= ?", s.now()).Delete(&Entry{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to purge entries: %w", res.Error)
	}
	return res.RowsAffected, nil
}
