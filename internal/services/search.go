package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/SumantMunagala/civiclens/internal/logger"
)

// Search geography: results are steered to San Francisco
const (
	searchProximity = "-122.4194,37.7749"
	searchBBox      = "-122.6,37.7,-122.3,37.8"
	searchLimit     = "8"
	searchTypes     = "address,poi,neighborhood,locality,place"
)

const mapboxGeocodeURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"

// SearchFeature is one ranked place candidate.
type SearchFeature struct {
	ID        string           `json:"id"`
	PlaceName string           `json:"place_name"`
	Center    []float64        `json:"center"`
	Text      string           `json:"text"`
	Context   []map[string]any `json:"context"`
}

// SearchResponse mirrors the trimmed geocoder payload returned to clients.
type SearchResponse struct {
	Features []SearchFeature `json:"features"`
	Query    []any           `json:"query"`
}

// SearchService proxies free-text place search to the Mapbox geocoder.
// Always live - no caching, no retries.
type SearchService struct {
	token   string
	baseURL string
	client  *http.Client
}

func NewSearchService(token string) *SearchService {
	return &SearchService{
		token:   token,
		baseURL: mapboxGeocodeURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Search resolves a free-text query to up to 8 place candidates inside the
// service area.
func (s *SearchService) Search(ctx context.Context, query string) (*SearchResponse, error) {
	log := logger.GetLogger("search")

	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < 2 {
		return nil, ErrQueryTooShort
	}

	if s.token == "" {
		log.Error("mapbox access token not configured")
		return nil, ErrNotConfigured
	}

	endpoint := fmt.Sprintf("%s/%s.json", s.baseURL, url.PathEscape(query))
	params := url.Values{}
	params.Set("access_token", s.token)
	params.Set("proximity", searchProximity)
	params.Set("bbox", searchBBox)
	params.Set("limit", searchLimit)
	params.Set("types", searchTypes)
	params.Set("country", "us")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		log.Errorf("geocoder request failed: %v", err)
		return nil, &ProviderError{Status: http.StatusServiceUnavailable}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Errorf("geocoder returned status %d for query %q", resp.StatusCode, query)
		return nil, &ProviderError{Status: resp.StatusCode}
	}

	var raw struct {
		Features []struct {
			ID        string           `json:"id"`
			PlaceName string           `json:"place_name"`
			Center    []float64        `json:"center"`
			Text      string           `json:"text"`
			Context   []map[string]any `json:"context"`
		} `json:"features"`
		Query []any `json:"query"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		log.Errorf("geocoder response decode failed: %v", err)
		return nil, &ProviderError{Status: http.StatusBadGateway}
	}

	out := &SearchResponse{
		Features: make([]SearchFeature, 0, len(raw.Features)),
		Query:    raw.Query,
	}
	for i, f := range raw.Features {
		id := f.ID
		if id == "" {
			id = fmt.Sprintf("search-result-%d", i)
		}
		center := f.Center
		if len(center) != 2 {
			center = []float64{0, 0}
		}
		ctxList := f.Context
		if ctxList == nil {
			ctxList = []map[string]any{}
		}
		out.Features = append(out.Features, SearchFeature{
			ID:        id,
			PlaceName: f.PlaceName,
			Center:    center,
			Text:      f.Text,
			Context:   ctxList,
		})
	}
	if out.Query == nil {
		out.Query = []any{}
	}

	return out, nil
}
