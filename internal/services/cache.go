package services

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/SumantMunagala/civiclens/internal/database"
	"github.com/SumantMunagala/civiclens/internal/logger"
	"github.com/SumantMunagala/civiclens/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CacheStore is the cache surface the fetch pipeline depends on.
type CacheStore interface {
	GetFresh(key string, maxAge time.Duration) (json.RawMessage, bool)
	GetAny(key string) (json.RawMessage, bool)
	Set(key string, data json.RawMessage) error
}

// CacheService is a best-effort key-value cache over the api_cache table.
// Storage errors never reach a request path: reads degrade to a miss and
// the diagnostic goes to the log.
type CacheService struct {
	db *database.DB
}

func NewCacheService(db *database.DB) *CacheService {
	return &CacheService{db: db}
}

// Get returns the entry for key, or a miss if no row exists or the lookup
// fails.
func (s *CacheService) Get(key string) (*models.APICache, bool) {
	log := logger.GetLogger("cache")

	var entry models.APICache
	if err := s.db.Where("cache_key = ?", key).First(&entry).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warnf("cache read failed for key %s: %v", key, err)
		}
		return nil, false
	}
	return &entry, true
}

// GetFresh returns the payload for key only when the entry is younger than
// maxAge. Fresh means strictly younger: an entry exactly at the threshold
// is stale.
func (s *CacheService) GetFresh(key string, maxAge time.Duration) (json.RawMessage, bool) {
	entry, ok := s.Get(key)
	if !ok || !entry.IsFresh(time.Now(), maxAge) {
		return nil, false
	}
	return entry.CacheData, true
}

// GetAny returns the payload for key regardless of age (the stale-fallback
// read).
func (s *CacheService) GetAny(key string) (json.RawMessage, bool) {
	entry, ok := s.Get(key)
	if !ok {
		return nil, false
	}
	return entry.CacheData, true
}

// Set upserts the payload for key, stamping the current time. Repeated
// writes for the same key leave exactly one row.
func (s *CacheService) Set(key string, data json.RawMessage) error {
	entry := models.APICache{
		CacheKey:  key,
		CacheData: data,
		FetchedAt: time.Now(),
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cache_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"cache_data", "fetched_at"}),
	}).Create(&entry).Error
	if err != nil {
		logger.GetLogger("cache").Warnf("cache write failed for key %s: %v", key, err)
	}
	return err
}

// Delete removes the entry for key. The bool reports whether a row existed.
func (s *CacheService) Delete(key string) (bool, error) {
	result := s.db.Where("cache_key = ?", key).Delete(&models.APICache{})
	if result.Error != nil {
		logger.GetLogger("cache").Errorf("cache delete failed for key %s: %v", key, result.Error)
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteAll removes every cache entry.
func (s *CacheService) DeleteAll() error {
	err := s.db.Where("1 = 1").Delete(&models.APICache{}).Error
	if err != nil {
		logger.GetLogger("cache").Errorf("cache clear failed: %v", err)
	}
	return err
}
