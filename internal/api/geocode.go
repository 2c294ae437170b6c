package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"sociogram/internal/domain"
)

// DefaultGeocoderURL points at the public OpenStreetMap Nominatim
// instance. Deployments with their own tile stack override it.
const DefaultGeocoderURL = "https://nominatim.openstreetmap.org/search"

// NominatimGeocoder resolves free-form addresses to coordinates. It is
// used only for fire-and-forget profile enrichment after an address
// edit; an unresolvable address yields (nil, nil).
type NominatimGeocoder struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

// NewGeocoder creates a geocoder against the given search endpoint.
// An empty baseURL uses the public Nominatim instance.
func NewGeocoder(baseURL string) *NominatimGeocoder {
	if baseURL == "" {
		baseURL = DefaultGeocoderURL
	}
	return &NominatimGeocoder{
		baseURL:   baseURL,
		userAgent: "sociogram/1.0",
		http:      &http.Client{Timeout: defaultTimeout},
	}
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode resolves an address to a point, or (nil, nil) when the
// service has no match.
func (g *NominatimGeocoder) Geocode(ctx context.Context, address string) (*domain.GeoPoint, error) {
	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	// Nominatim's usage policy requires an identifying agent
	req.Header.Set("User-Agent", g.userAgent)

	res, err := g.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode %q: %w", address, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, &StatusError{StatusCode: res.StatusCode, Body: string(body)}
	}

	var results []nominatimResult
	if err := json.NewDecoder(res.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode geocode response: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parse latitude %q: %w", results[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parse longitude %q: %w", results[0].Lon, err)
	}
	return &domain.GeoPoint{Lat: lat, Lng: lng}, nil
}
