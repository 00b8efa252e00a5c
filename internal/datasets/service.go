package datasets

import (
	"time"

	"github.com/google/uuid"
)

// ServiceRequest is the canonical shape of one 311 service request.
type ServiceRequest struct {
	ID           string  `json:"id"`
	Category     string  `json:"category"`
	Description  *string `json:"description"`
	Timestamp    string  `json:"timestamp"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Address      *string `json:"address"`
	Status       *string `json:"status"`
	Neighborhood *string `json:"neighborhood"`
	Agency       *string `json:"agency"`
}

// Service serves 311 service requests.
type Service struct {
	url string
}

func NewService(url string) *Service {
	return &Service{url: url}
}

func (d *Service) Key() string           { return "service_data" }
func (d *Service) URL() string           { return d.url }
func (d *Service) MaxAge() time.Duration { return 15 * time.Minute }

func (d *Service) Decode(body []byte) ([]map[string]any, error) {
	return decodeArray(body)
}

func (d *Service) Normalize(items []map[string]any) (any, int) {
	records := make([]ServiceRequest, 0, len(items))
	for _, item := range items {
		lat, lng, ok := extractCoords(item)
		if !ok || !validCoords(lat, lng) {
			continue
		}
		records = append(records, ServiceRequest{
			ID:           stringOr(item, uuid.NewString(), "service_request_id"),
			Category:     stringOr(item, "Unknown", "request_type", "service_name"),
			Description:  stringPtr(item, "service_details", "description"),
			Timestamp:    stringOr(item, nowISO(), "requested_datetime", "opened"),
			Latitude:     lat,
			Longitude:    lng,
			Address:      stringPtr(item, "address", "incident_address"),
			Status:       stringPtr(item, "status", "status_notes"),
			Neighborhood: stringPtr(item, "neighborhood", "supervisor_district"),
			Agency:       stringPtr(item, "agency_responsible"),
		})
	}
	return records, len(records)
}
