package models

import (
	"encoding/json"
	"time"
)

// APICache holds the last successfully normalized payload for one dataset.
// At most one row per cache_key (upsert semantics).
type APICache struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	CacheKey  string          `gorm:"column:cache_key;size:100;not null;uniqueIndex" json:"cache_key"`
	CacheData json.RawMessage `gorm:"column:cache_data;type:jsonb;not null" json:"cache_data" swaggertype:"object"`
	FetchedAt time.Time       `gorm:"column:fetched_at;not null" json:"fetched_at"`
}

func (APICache) TableName() string {
	return "api_cache"
}

// Age returns how old the entry is at the given instant.
func (c *APICache) Age(now time.Time) time.Duration {
	return now.Sub(c.FetchedAt)
}

// IsFresh reports whether the entry is younger than maxAge.
// An entry exactly at the threshold counts as stale.
func (c *APICache) IsFresh(now time.Time, maxAge time.Duration) bool {
	return c.Age(now) < maxAge
}
