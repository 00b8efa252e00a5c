package datasets

import (
	"testing"
)

func TestCrimeNormalize(t *testing.T) {
	d := NewCrime("http://example.test/crime")

	items := []map[string]any{
		{
			"incident_id":          "1234567",
			"incident_category":    "Larceny Theft",
			"incident_description": "Theft from vehicle",
			"incident_datetime":    "2025-05-30T14:00:00",
			"latitude":             "37.7749",
			"longitude":            "-122.4194",
			"incident_address":     "800 Market St",
			"police_district":      "Southern",
		},
		{
			// no coordinates at all - dropped
			"incident_id":       "1234568",
			"incident_category": "Assault",
		},
		{
			// placeholder origin - dropped
			"incident_id":       "1234569",
			"incident_category": "Vandalism",
			"latitude":          "0",
			"longitude":         "0",
		},
	}

	out, n := d.Normalize(items)
	records := out.([]CrimeRecord)

	if n != 1 || len(records) != 1 {
		t.Fatalf("expected 1 valid record, got %d", len(records))
	}

	r := records[0]
	if r.ID != "1234567" {
		t.Errorf("unexpected id: %s", r.ID)
	}
	if r.Category != "Larceny Theft" {
		t.Errorf("unexpected category: %s", r.Category)
	}
	if r.Latitude != 37.7749 || r.Longitude != -122.4194 {
		t.Errorf("unexpected coordinates: %v, %v", r.Latitude, r.Longitude)
	}
	if r.PoliceDistrict == nil || *r.PoliceDistrict != "Southern" {
		t.Errorf("unexpected district: %v", r.PoliceDistrict)
	}
	if r.Resolution != nil {
		t.Errorf("resolution should be nil when upstream omits it")
	}
}

func TestCrimeNormalizeIDFallback(t *testing.T) {
	d := NewCrime("http://example.test/crime")

	out, n := d.Normalize([]map[string]any{
		{"incident_category": "Robbery", "latitude": 37.75, "longitude": -122.42},
	})
	records := out.([]CrimeRecord)

	if n != 1 {
		t.Fatalf("expected 1 record, got %d", n)
	}
	if records[0].ID == "" {
		t.Error("a record without an upstream id should get a generated one")
	}
	if records[0].Category != "Robbery" {
		t.Errorf("unexpected category: %s", records[0].Category)
	}
}

func TestServiceNormalizeAliases(t *testing.T) {
	d := NewService("http://example.test/311")

	out, n := d.Normalize([]map[string]any{
		{
			"service_request_id": "9001",
			"service_name":       "Street Cleaning", // request_type absent
			"status_notes":       "Open",            // status absent
			"opened":             "2025-05-29T08:00:00",
			"lat":                "37.76",
			"long":               "-122.45",
			"supervisor_district": "5",
		},
	})
	records := out.([]ServiceRequest)

	if n != 1 {
		t.Fatalf("expected 1 record, got %d", n)
	}
	r := records[0]
	if r.Category != "Street Cleaning" {
		t.Errorf("category alias chain failed: %s", r.Category)
	}
	if r.Status == nil || *r.Status != "Open" {
		t.Errorf("status alias chain failed: %v", r.Status)
	}
	if r.Timestamp != "2025-05-29T08:00:00" {
		t.Errorf("timestamp alias chain failed: %s", r.Timestamp)
	}
	if r.Neighborhood == nil || *r.Neighborhood != "5" {
		t.Errorf("neighborhood alias chain failed: %v", r.Neighborhood)
	}
}

func TestFireNormalizePointShape(t *testing.T) {
	d := NewFire("http://example.test/fire")

	out, n := d.Normalize([]map[string]any{
		{
			"incident_number":   "F-2210",
			"primary_situation": "111 Building fire",
			"alarm_dttm":        "2025-05-30T02:11:00",
			"battalion":         "B02",
			"point": map[string]any{
				"type":        "Point",
				"coordinates": []any{-122.43, 37.78},
			},
		},
		{
			// out of range latitude - dropped
			"incident_number": "F-2211",
			"latitude":        95.0,
			"longitude":       -122.4,
		},
	})
	records := out.([]FireIncident)

	if n != 1 {
		t.Fatalf("expected 1 record, got %d", n)
	}
	r := records[0]
	if r.Latitude != 37.78 || r.Longitude != -122.43 {
		t.Errorf("point pair should decode as lng,lat: got %v, %v", r.Latitude, r.Longitude)
	}
	if r.Category != "111 Building fire" {
		t.Errorf("unexpected category: %s", r.Category)
	}
	if r.AlarmTime == nil || *r.AlarmTime != "2025-05-30T02:11:00" {
		t.Errorf("unexpected alarm time: %v", r.AlarmTime)
	}
}

func TestTransitDecodeEnvelope(t *testing.T) {
	d := NewTransit("http://example.test/transit")

	items, err := d.Decode([]byte(`{"vehicle":[{"id":"5501","routeTag":"N","lat":"37.76","lon":"-122.45"}]}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}

	// A lone vehicle arrives as a bare object
	items, err = d.Decode([]byte(`{"vehicle":{"id":"5502","routeTag":"J","lat":"37.75","lon":"-122.42"}}`))
	if err != nil {
		t.Fatalf("Decode failed on single object: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item from single object, got %d", len(items))
	}

	items, err = d.Decode([]byte(`{"Error":{"content":"agency unavailable"}}`))
	if err != nil {
		t.Fatalf("Decode should tolerate a missing vehicle list: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no items, got %d", len(items))
	}

	if _, err := d.Decode([]byte(`not json`)); err == nil {
		t.Error("Decode should fail on a non-JSON body")
	}
}

func TestTransitNormalizeBounds(t *testing.T) {
	d := NewTransit("http://example.test/transit")

	out, n := d.Normalize([]map[string]any{
		{"id": "5501", "routeTag": "N", "lat": "37.76", "lon": "-122.45", "heading": "87", "speedKmHr": "23"},
		// valid coordinates but outside the service area - dropped
		{"id": "5502", "routeTag": "J", "lat": "36.0", "lon": "-122.45"},
		{"id": "5503", "routeTag": "L", "lat": "37.76", "lon": "-121.0"},
	})
	records := out.([]TransitVehicle)

	if n != 1 {
		t.Fatalf("expected 1 vehicle inside the bounding box, got %d", n)
	}
	v := records[0]
	if v.ID != "5501" || v.Route != "N" {
		t.Errorf("unexpected vehicle: %+v", v)
	}
	if v.Heading == nil || *v.Heading != "87" {
		t.Errorf("unexpected heading: %v", v.Heading)
	}
	if v.Timestamp == "" {
		t.Error("vehicles should carry the fetch timestamp")
	}
}
