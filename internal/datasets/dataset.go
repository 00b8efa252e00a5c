// Package datasets defines the upstream civic datasets served by the API and
// the normalization of their raw records into canonical map-ready shapes.
package datasets

import (
	"encoding/json"
	"errors"
	"time"
)

// ErrNotArray is returned when an upstream body is not a JSON array.
var ErrNotArray = errors.New("expected JSON array response")

// Dataset describes one upstream source: where to fetch it, how long the
// cached payload stays fresh, and how raw items map to normalized records.
// Mirrors the per-platform scraper pattern: decode and normalize are
// dataset-specific, the fetch/cache pipeline is shared.
type Dataset interface {
	// Key is the cache key, e.g. "crime_data"
	Key() string
	// URL is the upstream endpoint
	URL() string
	// MaxAge is the cache TTL. Zero means the dataset is never cached.
	MaxAge() time.Duration
	// Decode extracts the raw item list from a response body
	Decode(body []byte) ([]map[string]any, error)
	// Normalize maps raw items to a slice of typed records, dropping any
	// item without valid coordinates. Returns the slice (always non-nil)
	// and the number of records kept.
	Normalize(items []map[string]any) (any, int)
}

// decodeArray is the Decode implementation shared by the open-data sets,
// whose bodies are bare JSON arrays.
func decodeArray(body []byte) ([]map[string]any, error) {
	var items []map[string]any
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, ErrNotArray
	}
	return items, nil
}

// nowISO is the timestamp fallback for records missing a datetime field.
func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
