package location

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"storescout/internal/logging"
)

// Candidate is one ranked place returned by the geocoding service.
type Candidate struct {
	Label string
	Lat   float64
	Lng   float64
}

// geocodeResult mirrors the geocoding service's wire format. The
// coordinates arrive as strings and must be parsed.
type geocodeResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocoder resolves free-text queries against a Nominatim-style
// endpoint, restricted to a country and capped at a fixed number of
// candidates.
type Geocoder struct {
	endpoint     string
	countryCodes string
	limit        int
	userAgent    string
	httpClient   *http.Client
}

// NewGeocoder creates a geocoder for the given endpoint.
func NewGeocoder(endpoint, countryCodes string, limit int, userAgent string) *Geocoder {
	return &Geocoder{
		endpoint:     endpoint,
		countryCodes: countryCodes,
		limit:        limit,
		userAgent:    userAgent,
		httpClient:   &http.Client{},
	}
}

// Search resolves a query to ranked candidates. Entries with
// unparseable coordinates are skipped rather than failing the batch.
func (g *Geocoder) Search(ctx context.Context, query string) ([]Candidate, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("q", query)
	q.Set("countrycodes", g.countryCodes)
	q.Set("limit", strconv.Itoa(g.limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)

	logging.Geocode("query %q", query)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("geocode read failed: %w", err)
	}

	var results []geocodeResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("geocode parse failed: %w", err)
	}

	candidates := make([]Candidate, 0, len(results))
	for _, r := range results {
		lat, latErr := strconv.ParseFloat(r.Lat, 64)
		lng, lngErr := strconv.ParseFloat(r.Lon, 64)
		if latErr != nil || lngErr != nil {
			logging.Get(logging.CategoryGeocode).Warn("skipping candidate with bad coordinates: %q/%q", r.Lat, r.Lon)
			continue
		}
		candidates = append(candidates, Candidate{Label: r.DisplayName, Lat: lat, Lng: lng})
	}
	return candidates, nil
}
