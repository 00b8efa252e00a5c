package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/SumantMunagala/civiclens/internal/datasets"
	"github.com/SumantMunagala/civiclens/internal/logger"
)

const userAgent = "CivicLens/1.0"

// DatasetService serves normalized dataset payloads with cache-first
// semantics: fresh cache entries short-circuit the upstream call, upstream
// failures fall back to a stale entry of any age, and cache writes are
// detached from the response path.
//
// Two concurrent requests for the same expired key may both fetch upstream;
// that is accepted, since the write is an idempotent upsert per key.
type DatasetService struct {
	cache  CacheStore
	client *http.Client
}

func NewDatasetService(cache CacheStore) *DatasetService {
	return &DatasetService{
		cache: cache,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Fetch returns the normalized record array for ds as raw JSON.
func (s *DatasetService) Fetch(ctx context.Context, ds datasets.Dataset) (json.RawMessage, error) {
	log := logger.GetLogger("dataset")
	key := ds.Key()

	cacheable := ds.MaxAge() > 0
	if cacheable {
		if data, ok := s.cache.GetFresh(key, ds.MaxAge()); ok {
			datasetCacheHits.WithLabelValues(key).Inc()
			return data, nil
		}
		datasetCacheMisses.WithLabelValues(key).Inc()
	}

	payload, err := s.refresh(ctx, ds)
	if err == nil {
		return payload, nil
	}

	log.Warnf("refresh failed for dataset %s: %v", key, err)

	if cacheable {
		if stale, ok := s.cache.GetAny(key); ok {
			datasetStaleFallbacks.WithLabelValues(key).Inc()
			log.Infof("serving stale cache for dataset %s", key)
			return stale, nil
		}
	}

	return nil, err
}

// refresh fetches ds from upstream, normalizes the records, and spawns a
// best-effort cache write. The response is returned without waiting for
// the write; a write failure is only logged.
func (s *DatasetService) refresh(ctx context.Context, ds datasets.Dataset) (json.RawMessage, error) {
	log := logger.GetLogger("dataset")
	key := ds.Key()

	start := time.Now()
	body, err := s.fetchUpstream(ctx, ds.URL())
	status := "success"
	if err != nil {
		status = "error"
	}
	upstreamFetchDuration.WithLabelValues(key, status).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	items, err := ds.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	records, count := ds.Normalize(items)
	payload, err := json.Marshal(records)
	if err != nil {
		return nil, err
	}

	if count == 0 {
		// An empty but structurally valid result is not a failure, and is
		// not worth displacing a previous good payload in the cache.
		log.Warnf("no valid records in upstream response for dataset %s", key)
		return payload, nil
	}

	if ds.MaxAge() > 0 {
		go func() {
			if err := s.cache.Set(key, payload); err != nil {
				log.Warnf("cache write failed for dataset %s: %v", key, err)
			}
		}()
	}

	log.Infof("dataset %s refreshed: %d records from %d raw items", key, count, len(items))
	return payload, nil
}

func (s *DatasetService) fetchUpstream(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return body, nil
}
