package datasets

import (
	"fmt"
	"math"
	"strconv"
)

// Field-alias resolution: each logical attribute is read from an explicit
// ordered list of candidate field names, first usable match wins. Upstream
// feeds rename fields between dataset revisions, so the chains are kept
// auditable per dataset rather than buried in ad hoc fallbacks.

// pickString returns the first non-empty string value among the candidates.
func pickString(item map[string]any, candidates ...string) (string, bool) {
	for _, key := range candidates {
		v, ok := item[key]
		if !ok || v == nil {
			continue
		}
		switch s := v.(type) {
		case string:
			if s != "" {
				return s, true
			}
		case float64:
			return strconv.FormatFloat(s, 'f', -1, 64), true
		case bool:
			return strconv.FormatBool(s), true
		}
	}
	return "", false
}

// stringOr resolves the candidates with a default for required attributes.
func stringOr(item map[string]any, def string, candidates ...string) string {
	if s, ok := pickString(item, candidates...); ok {
		return s
	}
	return def
}

// stringPtr resolves the candidates to a nullable attribute.
func stringPtr(item map[string]any, candidates ...string) *string {
	if s, ok := pickString(item, candidates...); ok {
		return &s
	}
	return nil
}

// toFloat converts a raw JSON value to float64. Socrata feeds deliver
// coordinates both as numbers and as numeric strings.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// pickFloat returns the first numeric-like value among the candidates.
func pickFloat(item map[string]any, candidates ...string) (float64, bool) {
	for _, key := range candidates {
		v, ok := item[key]
		if !ok || v == nil {
			continue
		}
		if f, ok := toFloat(v); ok {
			return f, true
		}
	}
	return 0, false
}

// floatPtrString formats a numeric-like value as a nullable string, for
// feeds that report numbers where the canonical shape keeps text (e.g.
// NextBus heading and speed).
func floatPtrString(item map[string]any, candidates ...string) *string {
	for _, key := range candidates {
		v, ok := item[key]
		if !ok || v == nil {
			continue
		}
		switch n := v.(type) {
		case string:
			if n != "" {
				return &n
			}
		case float64:
			s := strconv.FormatFloat(n, 'f', -1, 64)
			return &s
		}
	}
	return nil
}

// extractCoords pulls a coordinate pair out of a raw item. Three source
// shapes are handled: a nested GeoJSON-style point object holding a
// [lng, lat] pair, separate latitude/longitude fields, and the shorter
// lat/lon (or lat/long) variants.
func extractCoords(item map[string]any) (lat, lng float64, ok bool) {
	if point, isMap := item["point"].(map[string]any); isMap {
		if coords, isList := point["coordinates"].([]any); isList && len(coords) >= 2 {
			// GeoJSON order: [lng, lat]
			lngV, okLng := toFloat(coords[0])
			latV, okLat := toFloat(coords[1])
			if okLng && okLat {
				return latV, lngV, true
			}
		}
	}

	latV, okLat := pickFloat(item, "latitude", "lat")
	lngV, okLng := pickFloat(item, "longitude", "lng", "long", "lon")
	if okLat && okLng {
		return latV, lngV, true
	}

	return 0, 0, false
}

// validCoords reports whether a coordinate pair is plottable. A pair with
// either axis exactly zero is rejected: upstream feeds use (0,0) as an
// unset-geodata placeholder, so the true origin point is sacrificed to keep
// phantom markers off the map.
func validCoords(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return false
	}
	if lat == 0 || lng == 0 {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// fallbackID builds a unique id when the upstream record has none.
func fallbackID(prefix, id string) string {
	if prefix == "" {
		return id
	}
	return fmt.Sprintf("%s-%s", prefix, id)
}
