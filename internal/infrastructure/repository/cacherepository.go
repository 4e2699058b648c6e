package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"watchfleet/internal/infrastructure/persistence/models"
	"watchfleet/internal/shared/logger"
)

// ErrCacheMiss is returned when no entry exists for the key.
var ErrCacheMiss = errors.New("cache entry not found")

// CacheRepository is a generic key/value store backed by the caches table.
// The vendor token store uses it to persist access tokens across restarts.
type CacheRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewCacheRepository creates a new CacheRepository
func NewCacheRepository(db *gorm.DB, logger logger.Interface) *CacheRepository {
	return &CacheRepository{
		db:     db,
		logger: logger,
	}
}

// Get returns the value and last-updated timestamp for the key.
func (r *CacheRepository) Get(ctx context.Context, key string) (string, time.Time, error) {
	var model models.CacheEntryModel

	err := r.db.WithContext(ctx).
		Where("`key` = ?", key).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", time.Time{}, ErrCacheMiss
		}
		r.logger.Error("failed to get cache entry", "key", key, "error", err)
		return "", time.Time{}, fmt.Errorf("failed to get cache entry: %w", err)
	}

	return model.Value, model.LastUpdated, nil
}

// Put upserts the entry, superseding any previous value.
func (r *CacheRepository) Put(ctx context.Context, key, value string, updatedAt time.Time) error {
	model := &models.CacheEntryModel{
		Key:         key,
		Value:       value,
		LastUpdated: updatedAt,
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "last_updated"}),
	}).Create(model).Error
	if err != nil {
		r.logger.Error("failed to put cache entry", "key", key, "error", err)
		return fmt.Errorf("failed to put cache entry: %w", err)
	}

	return nil
}
