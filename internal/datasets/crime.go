package datasets

import (
	"time"

	"github.com/google/uuid"
)

// CrimeRecord is the canonical shape of one police incident.
type CrimeRecord struct {
	ID             string  `json:"id"`
	Category       string  `json:"category"`
	Description    *string `json:"description"`
	Timestamp      string  `json:"timestamp"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	Address        *string `json:"address"`
	PoliceDistrict *string `json:"policeDistrict"`
	Resolution     *string `json:"resolution"`
	DayOfWeek      *string `json:"dayOfWeek"`
}

// Crime serves SFPD incident reports.
type Crime struct {
	url string
}

func NewCrime(url string) *Crime {
	return &Crime{url: url}
}

func (d *Crime) Key() string           { return "crime_data" }
func (d *Crime) URL() string           { return d.url }
func (d *Crime) MaxAge() time.Duration { return 10 * time.Minute }

func (d *Crime) Decode(body []byte) ([]map[string]any, error) {
	return decodeArray(body)
}

func (d *Crime) Normalize(items []map[string]any) (any, int) {
	records := make([]CrimeRecord, 0, len(items))
	for _, item := range items {
		lat, lng, ok := extractCoords(item)
		if !ok || !validCoords(lat, lng) {
			continue
		}
		records = append(records, CrimeRecord{
			ID:             stringOr(item, uuid.NewString(), "incident_id", "row_id"),
			Category:       stringOr(item, "Unknown", "incident_category"),
			Description:    stringPtr(item, "incident_description", "incident_subcategory"),
			Timestamp:      stringOr(item, nowISO(), "incident_datetime", "incident_date"),
			Latitude:       lat,
			Longitude:      lng,
			Address:        stringPtr(item, "incident_address", "address"),
			PoliceDistrict: stringPtr(item, "police_district", "district"),
			Resolution:     stringPtr(item, "resolution"),
			DayOfWeek:      stringPtr(item, "day_of_week"),
		})
	}
	return records, len(records)
}
