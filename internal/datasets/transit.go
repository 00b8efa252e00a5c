package datasets

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// San Francisco service-area bounds. NextBus occasionally reports vehicles
// parked at the yard with garbage positions, so anything outside the box is
// dropped.
const (
	transitMinLat = 37.7
	transitMaxLat = 37.8
	transitMinLng = -122.6
	transitMaxLng = -122.3
)

// TransitVehicle is the canonical shape of one live Muni vehicle position.
type TransitVehicle struct {
	ID        string  `json:"id"`
	Route     string  `json:"route"`
	Direction *string `json:"direction"`
	Heading   *string `json:"heading"`
	Speed     *string `json:"speed"`
	Timestamp string  `json:"timestamp"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Transit serves live Muni vehicle positions from the NextBus feed.
// Positions go stale in seconds, so the dataset is never cached.
type Transit struct {
	url string
}

func NewTransit(url string) *Transit {
	return &Transit{url: url}
}

func (d *Transit) Key() string           { return "transit_data" }
func (d *Transit) URL() string           { return d.url }
func (d *Transit) MaxAge() time.Duration { return 0 }

// Decode unwraps the NextBus envelope: {"vehicle": [...]}. A single vehicle
// arrives as a bare object instead of a one-element array.
func (d *Transit) Decode(body []byte) ([]map[string]any, error) {
	var envelope struct {
		Vehicle json.RawMessage `json:"vehicle"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, ErrNotArray
	}
	if len(envelope.Vehicle) == 0 {
		return []map[string]any{}, nil
	}

	var items []map[string]any
	if err := json.Unmarshal(envelope.Vehicle, &items); err == nil {
		return items, nil
	}

	var single map[string]any
	if err := json.Unmarshal(envelope.Vehicle, &single); err == nil {
		return []map[string]any{single}, nil
	}

	return nil, ErrNotArray
}

func (d *Transit) Normalize(items []map[string]any) (any, int) {
	// NextBus omits a report timestamp, so all vehicles share the fetch time
	fetched := nowISO()

	records := make([]TransitVehicle, 0, len(items))
	for _, item := range items {
		lat, lng, ok := extractCoords(item)
		if !ok || !validCoords(lat, lng) {
			continue
		}
		if lat < transitMinLat || lat > transitMaxLat || lng < transitMinLng || lng > transitMaxLng {
			continue
		}
		records = append(records, TransitVehicle{
			ID:        stringOr(item, uuid.NewString(), "id", "vehicleId"),
			Route:     stringOr(item, "Unknown", "routeTag", "route"),
			Direction: stringPtr(item, "dirTag", "direction"),
			Heading:   floatPtrString(item, "heading"),
			Speed:     floatPtrString(item, "speedKmHr"),
			Timestamp: fetched,
			Latitude:  lat,
			Longitude: lng,
		})
	}
	return records, len(records)
}
