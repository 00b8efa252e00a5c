package services

import (
	"encoding/json"
	"testing"

	"github.com/SumantMunagala/civiclens/internal/models"
)

func coerceJSON(t *testing.T, body string) models.UserSettings {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(body), &m); err != nil {
		t.Fatalf("bad test body: %v", err)
	}
	return CoerceSettings(7, m)
}

func TestCoerceSettingsDefaults(t *testing.T) {
	out := coerceJSON(t, `{}`)
	if out.UserID != 7 {
		t.Errorf("UserID = %d, want 7", out.UserID)
	}
	if !out.PreferredDatasets.Crime || !out.PreferredDatasets.Service || !out.PreferredDatasets.Fire {
		t.Errorf("default datasets should all be enabled, got %+v", out.PreferredDatasets)
	}
	if out.PreferredTimeWindow != models.TimeWindowAll {
		t.Errorf("PreferredTimeWindow = %d, want %d", out.PreferredTimeWindow, models.TimeWindowAll)
	}
	if out.MapStyle != models.MapStyleLight {
		t.Errorf("MapStyle = %q, want %q", out.MapStyle, models.MapStyleLight)
	}
	if out.HomeLocation != nil {
		t.Errorf("HomeLocation should default to nil, got %+v", out.HomeLocation)
	}
}

func TestCoerceSettingsValidBody(t *testing.T) {
	out := coerceJSON(t, `{
		"preferred_datasets": {"crime": false, "service": true, "fire": false},
		"preferred_time_window": 48,
		"map_style": "dark",
		"home_location": {"lat": 37.76, "lng": -122.45, "zoom": 14}
	}`)

	if out.PreferredDatasets.Crime || !out.PreferredDatasets.Service || out.PreferredDatasets.Fire {
		t.Errorf("datasets = %+v", out.PreferredDatasets)
	}
	if out.PreferredTimeWindow != 48 {
		t.Errorf("PreferredTimeWindow = %d, want 48", out.PreferredTimeWindow)
	}
	if out.MapStyle != models.MapStyleDark {
		t.Errorf("MapStyle = %q, want dark", out.MapStyle)
	}
	if out.HomeLocation == nil {
		t.Fatal("HomeLocation not set")
	}
	if out.HomeLocation.Lat != 37.76 || out.HomeLocation.Lng != -122.45 || out.HomeLocation.Zoom != 14 {
		t.Errorf("HomeLocation = %+v", out.HomeLocation)
	}
}

// Mistyped fields fall back per field, never failing the request.
func TestCoerceSettingsFieldIsolation(t *testing.T) {
	out := coerceJSON(t, `{
		"preferred_datasets": "everything",
		"preferred_time_window": "soon",
		"map_style": 3,
		"home_location": {"lat": "north", "lng": -122.45, "zoom": 14}
	}`)

	if !out.PreferredDatasets.Crime || !out.PreferredDatasets.Service || !out.PreferredDatasets.Fire {
		t.Errorf("mistyped datasets should keep defaults, got %+v", out.PreferredDatasets)
	}
	if out.PreferredTimeWindow != models.TimeWindowAll {
		t.Errorf("mistyped window should keep default, got %d", out.PreferredTimeWindow)
	}
	if out.MapStyle != models.MapStyleLight {
		t.Errorf("mistyped style should keep default, got %q", out.MapStyle)
	}
	if out.HomeLocation != nil {
		t.Errorf("incomplete home location should stay nil, got %+v", out.HomeLocation)
	}
}

func TestCoerceSettingsUnknownStyleRejected(t *testing.T) {
	out := coerceJSON(t, `{"map_style": "satellite"}`)
	if out.MapStyle != models.MapStyleLight {
		t.Errorf("unknown style should keep default, got %q", out.MapStyle)
	}
}

func TestCoerceSettingsPartialDatasets(t *testing.T) {
	out := coerceJSON(t, `{"preferred_datasets": {"crime": false}}`)
	if out.PreferredDatasets.Crime {
		t.Error("crime should be disabled")
	}
	if !out.PreferredDatasets.Service || !out.PreferredDatasets.Fire {
		t.Errorf("unmentioned datasets should keep defaults, got %+v", out.PreferredDatasets)
	}
}
