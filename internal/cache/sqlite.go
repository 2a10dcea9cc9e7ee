package cache

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/codyseavey/cardledger/backend/internal/models"
)

// SQLiteStore is the durable single-node tier.
type SQLiteStore struct {
	db *gorm.DB
}

// NewSQLiteStore uses a database already migrated by database.Open.
func NewSQLiteStore(db *gorm.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Name() string { return "sqlite" }

func (s *SQLiteStore) Get(ctx context.Context, key string) (models.CacheEntry, error) {
	var entry models.CacheEntry
	err := s.db.WithContext(ctx).Where("query_hash = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.CacheEntry{}, ErrMiss
	}
	if err != nil {
		return models.CacheEntry{}, errors.Wrap(err, "sqlite get")
	}
	return entry, nil
}

// Set replaces any row with the same query hash.
func (s *SQLiteStore) Set(ctx context.Context, entry models.CacheEntry) error {
	entry.ID = 0
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "query_hash"}},
		DoUpdates: clause.AssignmentColumns([]string{"normalized_query", "results", "created_at", "expires_at"}),
	}).Create(&entry).Error
	if err != nil {
		return errors.Wrap(err, "sqlite set")
	}
	return nil
}

// PurgeExpired deletes rows that expired at or before now.
func (s *SQLiteStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&models.CacheEntry{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "sqlite purge")
	}
	return result.RowsAffected, nil
}
