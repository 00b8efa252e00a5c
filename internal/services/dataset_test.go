package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/SumantMunagala/civiclens/internal/datasets"
)

// fakeStore is an in-memory CacheStore for pipeline tests.
type fakeStore struct {
	mu      sync.Mutex
	entries map[string]fakeEntry
	setErr  error
}

type fakeEntry struct {
	data      json.RawMessage
	fetchedAt time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: map[string]fakeEntry{}}
}

func (s *fakeStore) GetFresh(key string, maxAge time.Duration) (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok || time.Since(e.fetchedAt) >= maxAge {
		return nil, false
	}
	return e.data, true
}

func (s *fakeStore) GetAny(key string) (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	return e.data, true
}

func (s *fakeStore) Set(key string, data json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.entries[key] = fakeEntry{data: data, fetchedAt: time.Now()}
	return nil
}

func (s *fakeStore) put(key string, data string, age time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = fakeEntry{data: json.RawMessage(data), fetchedAt: time.Now().Add(-age)}
}

func (s *fakeStore) get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	return string(e.data), ok
}

const crimeBody = `[
	{"incident_id":"1","incident_category":"Larceny Theft","latitude":"37.77","longitude":"-122.41"},
	{"incident_id":"2","incident_category":"Assault","latitude":"0","longitude":"0"}
]`

func TestFetchFreshCacheSkipsUpstream(t *testing.T) {
	var calls int
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(crimeBody))
	}))
	defer upstream.Close()

	store := newFakeStore()
	store.put("crime_data", `[{"id":"cached"}]`, time.Minute)

	svc := NewDatasetService(store)
	ds := datasets.NewCrime(upstream.URL)

	payload, err := svc.Fetch(context.Background(), ds)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(payload) != `[{"id":"cached"}]` {
		t.Errorf("expected cached payload, got %s", payload)
	}
	if calls != 0 {
		t.Errorf("fresh cache hit should not trigger an upstream call, got %d", calls)
	}
}

func TestFetchMissPopulatesCache(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(crimeBody))
	}))
	defer upstream.Close()

	store := newFakeStore()
	svc := NewDatasetService(store)
	ds := datasets.NewCrime(upstream.URL)

	payload, err := svc.Fetch(context.Background(), ds)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	var records []datasets.CrimeRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		t.Fatalf("payload is not a record array: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 valid record (origin placeholder dropped), got %d", len(records))
	}
	if records[0].Latitude == 0 || records[0].Longitude == 0 {
		t.Error("no record may carry a zero coordinate")
	}

	// The cache write is detached from the response path
	deadline := time.Now().Add(2 * time.Second)
	for {
		if cached, ok := store.get("crime_data"); ok {
			if cached != string(payload) {
				t.Errorf("cached payload differs from response payload")
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("cache write never landed")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestFetchStaleFallbackOnUpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	store := newFakeStore()
	// Entry far past the 10 minute TTL still serves as a fallback
	store.put("crime_data", `[{"id":"stale"}]`, 3*time.Hour)

	svc := NewDatasetService(store)
	ds := datasets.NewCrime(upstream.URL)

	payload, err := svc.Fetch(context.Background(), ds)
	if err != nil {
		t.Fatalf("expected stale fallback, got error: %v", err)
	}
	if string(payload) != `[{"id":"stale"}]` {
		t.Errorf("expected stale payload, got %s", payload)
	}
}

func TestFetchFailureWithoutCache(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer upstream.Close()

	svc := NewDatasetService(newFakeStore())
	ds := datasets.NewCrime(upstream.URL)

	_, err := svc.Fetch(context.Background(), ds)
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Errorf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestFetchMalformedBody(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"an array"}`))
	}))
	defer upstream.Close()

	svc := NewDatasetService(newFakeStore())
	ds := datasets.NewCrime(upstream.URL)

	_, err := svc.Fetch(context.Background(), ds)
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestFetchMalformedBodyFallsBackToStale(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`"surprise"`))
	}))
	defer upstream.Close()

	store := newFakeStore()
	store.put("crime_data", `[{"id":"older"}]`, time.Hour)

	svc := NewDatasetService(store)
	ds := datasets.NewCrime(upstream.URL)

	payload, err := svc.Fetch(context.Background(), ds)
	if err != nil {
		t.Fatalf("expected stale fallback after shape violation, got %v", err)
	}
	if string(payload) != `[{"id":"older"}]` {
		t.Errorf("expected stale payload, got %s", payload)
	}
}

func TestFetchEmptyResultIsSuccess(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Structurally valid, but every record is dropped by validation
		w.Write([]byte(`[{"incident_id":"1","latitude":"0","longitude":"0"}]`))
	}))
	defer upstream.Close()

	store := newFakeStore()
	svc := NewDatasetService(store)
	ds := datasets.NewCrime(upstream.URL)

	payload, err := svc.Fetch(context.Background(), ds)
	if err != nil {
		t.Fatalf("empty normalized result must not be an error: %v", err)
	}
	if string(payload) != `[]` {
		t.Errorf("expected empty array, got %s", payload)
	}

	// An empty batch does not displace a previous payload
	time.Sleep(50 * time.Millisecond)
	if _, ok := store.get("crime_data"); ok {
		t.Error("empty result should not be written to the cache")
	}
}

func TestFetchCacheWriteFailureDoesNotAffectResponse(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(crimeBody))
	}))
	defer upstream.Close()

	store := newFakeStore()
	store.setErr = errors.New("connection refused")

	svc := NewDatasetService(store)
	ds := datasets.NewCrime(upstream.URL)

	payload, err := svc.Fetch(context.Background(), ds)
	if err != nil {
		t.Fatalf("cache write failure must not surface: %v", err)
	}
	if len(payload) == 0 {
		t.Error("expected a payload despite the failed cache write")
	}
}
