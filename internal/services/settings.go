package services

import (
	"errors"
	"time"

	"github.com/SumantMunagala/civiclens/internal/database"
	"github.com/SumantMunagala/civiclens/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingsService struct {
	db *database.DB
}

func NewSettingsService(db *database.DB) *SettingsService {
	return &SettingsService{db: db}
}

// GetOrCreate returns the user's settings row, inserting the defaults on a
// first-time read.
func (s *SettingsService) GetOrCreate(userID uint) (*models.UserSettings, error) {
	var settings models.UserSettings
	err := s.db.Where("user_id = ?", userID).First(&settings).Error
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	settings = models.DefaultSettings(userID)
	if err := s.db.Create(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

// CoerceSettings builds a full settings row from an untyped request body.
// Each field is validated independently: a missing or mistyped field falls
// back to its default rather than failing the whole request.
func CoerceSettings(userID uint, body map[string]any) models.UserSettings {
	out := models.DefaultSettings(userID)

	if pd, ok := body["preferred_datasets"].(map[string]any); ok {
		if b, ok := pd["crime"].(bool); ok {
			out.PreferredDatasets.Crime = b
		}
		if b, ok := pd["service"].(bool); ok {
			out.PreferredDatasets.Service = b
		}
		if b, ok := pd["fire"].(bool); ok {
			out.PreferredDatasets.Fire = b
		}
	}

	if window, ok := body["preferred_time_window"].(float64); ok {
		out.PreferredTimeWindow = int(window)
	}

	if style, ok := body["map_style"].(string); ok {
		if style == models.MapStyleLight || style == models.MapStyleDark {
			out.MapStyle = style
		}
	}

	if home, ok := body["home_location"].(map[string]any); ok {
		lat, okLat := home["lat"].(float64)
		lng, okLng := home["lng"].(float64)
		zoom, okZoom := home["zoom"].(float64)
		if okLat && okLng && okZoom {
			out.HomeLocation = &models.HomeLocation{Lat: lat, Lng: lng, Zoom: zoom}
		}
	}

	return out
}

// Update coerces the request body and upserts the full row keyed by user id.
func (s *SettingsService) Update(userID uint, body map[string]any) (*models.UserSettings, error) {
	settings := CoerceSettings(userID, body)
	settings.UpdatedAt = time.Now()

	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"preferred_datasets", "preferred_time_window", "map_style", "home_location", "updated_at",
		}),
	}).Create(&settings).Error
	if err != nil {
		return nil, err
	}

	// Re-read so the caller sees the stored row (id, timestamps)
	var stored models.UserSettings
	if err := s.db.Where("user_id = ?", userID).First(&stored).Error; err != nil {
		return &settings, nil
	}
	return &stored, nil
}
