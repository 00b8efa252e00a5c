package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	datasetCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "civiclens_dataset_cache_hits_total",
			Help: "Dataset requests served from a fresh cache entry",
		},
		[]string{"dataset"},
	)

	datasetCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "civiclens_dataset_cache_misses_total",
			Help: "Dataset requests that needed an upstream fetch",
		},
		[]string{"dataset"},
	)

	datasetStaleFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "civiclens_dataset_stale_fallbacks_total",
			Help: "Dataset requests served from an expired cache entry after an upstream failure",
		},
		[]string{"dataset"},
	)

	upstreamFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "civiclens_upstream_fetch_duration_seconds",
			Help:    "Upstream API fetch latency in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"dataset", "status"},
	)
)
