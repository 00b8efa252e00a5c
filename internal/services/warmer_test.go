package services

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SumantMunagala/civiclens/internal/datasets"
)

func TestWarmerRejectsBadSchedule(t *testing.T) {
	svc := NewDatasetService(newFakeStore())
	if _, err := NewWarmer(svc, nil, "whenever"); err == nil {
		t.Error("invalid cron expression should be rejected")
	}
	if _, err := NewWarmer(svc, nil, "@every 8m"); err != nil {
		t.Errorf("valid schedule rejected: %v", err)
	}
}

func TestWarmerSkipsUncachedDatasets(t *testing.T) {
	var crimeCalls, transitCalls atomic.Int32

	crimeUpstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		crimeCalls.Add(1)
		w.Write([]byte(crimeBody))
	}))
	defer crimeUpstream.Close()

	transitUpstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		transitCalls.Add(1)
		w.Write([]byte(`{"vehicle":[]}`))
	}))
	defer transitUpstream.Close()

	store := newFakeStore()
	svc := NewDatasetService(store)
	w, err := NewWarmer(svc, []datasets.Dataset{
		datasets.NewCrime(crimeUpstream.URL),
		datasets.NewTransit(transitUpstream.URL),
	}, "@every 1h")
	if err != nil {
		t.Fatalf("NewWarmer failed: %v", err)
	}

	w.run()

	if got := crimeCalls.Load(); got != 1 {
		t.Errorf("crime upstream calls = %d, want 1", got)
	}
	if got := transitCalls.Load(); got != 0 {
		t.Errorf("live-only dataset should never be prewarmed, got %d calls", got)
	}
	if _, ok := store.get("crime_data"); !ok {
		// The write is asynchronous, give it a moment
		waitForKey(t, store, "crime_data")
	}
}

func waitForKey(t *testing.T, store *fakeStore, key string) {
	t.Helper()
	for i := 0; i < 200; i++ {
		if _, ok := store.get(key); ok {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("cache entry %s never appeared", key)
}
