package datasets

import (
	"time"

	"github.com/google/uuid"
)

// FireIncident is the canonical shape of one fire/emergency response.
type FireIncident struct {
	ID               string  `json:"id"`
	Category         string  `json:"category"`
	Description      *string `json:"description"`
	Timestamp        string  `json:"timestamp"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	Address          *string `json:"address"`
	Neighborhood     *string `json:"neighborhood"`
	IncidentNumber   *string `json:"incidentNumber"`
	PrimarySituation *string `json:"primarySituation"`
	AlarmTime        *string `json:"alarmTime"`
	ArrivalTime      *string `json:"arrivalTime"`
	CloseTime        *string `json:"closeTime"`
	Battalion        *string `json:"battalion"`
	StationArea      *string `json:"stationArea"`
}

// Fire serves fire department incident responses.
type Fire struct {
	url string
}

func NewFire(url string) *Fire {
	return &Fire{url: url}
}

func (d *Fire) Key() string           { return "fire_data" }
func (d *Fire) URL() string           { return d.url }
func (d *Fire) MaxAge() time.Duration { return 12 * time.Minute }

func (d *Fire) Decode(body []byte) ([]map[string]any, error) {
	return decodeArray(body)
}

func (d *Fire) Normalize(items []map[string]any) (any, int) {
	records := make([]FireIncident, 0, len(items))
	for _, item := range items {
		lat, lng, ok := extractCoords(item)
		if !ok || !validCoords(lat, lng) {
			continue
		}
		records = append(records, FireIncident{
			ID:               stringOr(item, fallbackID("fire", uuid.NewString()), "incident_number"),
			Category:         stringOr(item, "Emergency Response", "primary_situation"),
			Description:      stringPtr(item, "primary_situation", "incident_type"),
			Timestamp:        stringOr(item, nowISO(), "alarm_dttm", "arrival_dttm", "close_dttm"),
			Latitude:         lat,
			Longitude:        lng,
			Address:          stringPtr(item, "address", "location"),
			Neighborhood:     stringPtr(item, "neighborhood_district", "neighborhood"),
			IncidentNumber:   stringPtr(item, "incident_number"),
			PrimarySituation: stringPtr(item, "primary_situation"),
			AlarmTime:        stringPtr(item, "alarm_dttm"),
			ArrivalTime:      stringPtr(item, "arrival_dttm"),
			CloseTime:        stringPtr(item, "close_dttm"),
			Battalion:        stringPtr(item, "battalion"),
			StationArea:      stringPtr(item, "station_area", "station"),
		})
	}
	return records, len(records)
}
