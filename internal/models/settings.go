package models

import (
	"time"
)

// Settings defaults
const (
	TimeWindowAll   = 999999 // sentinel: no time filter
	MapStyleLight   = "light"
	MapStyleDark    = "dark"
	DefaultMapStyle = MapStyleLight
)

// PreferredDatasets toggles map layers per user
type PreferredDatasets struct {
	Crime   bool `json:"crime"`
	Service bool `json:"service"`
	Fire    bool `json:"fire"`
}

// HomeLocation is an optional saved map viewport
type HomeLocation struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Zoom float64 `json:"zoom"`
}

// UserSettings represents the user_settings table - one row per user
type UserSettings struct {
	ID                  uint              `gorm:"primaryKey" json:"id"`
	UserID              uint              `gorm:"column:user_id;not null;uniqueIndex" json:"user_id"`
	PreferredDatasets   PreferredDatasets `gorm:"column:preferred_datasets;type:jsonb;serializer:json;not null" json:"preferred_datasets"`
	PreferredTimeWindow int               `gorm:"column:preferred_time_window;not null" json:"preferred_time_window"`
	MapStyle            string            `gorm:"column:map_style;size:10;not null" json:"map_style"`
	HomeLocation        *HomeLocation     `gorm:"column:home_location;type:jsonb;serializer:json" json:"home_location,omitempty"`
	CreatedAt           time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (UserSettings) TableName() string {
	return "user_settings"
}

// DefaultSettings returns the row created on a user's first read
func DefaultSettings(userID uint) UserSettings {
	return UserSettings{
		UserID: userID,
		PreferredDatasets: PreferredDatasets{
			Crime:   true,
			Service: true,
			Fire:    true,
		},
		PreferredTimeWindow: TimeWindowAll,
		MapStyle:            DefaultMapStyle,
	}
}
