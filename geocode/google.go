package geocode

import (
	"context"
	"fmt"
	"strings"
	"time"

	"googlemaps.github.io/maps"

	"go-monsoon/config"
	"go-monsoon/metrics"
	"go-monsoon/types"
)

// Google resolves places through the Google Maps geocoding API.
type Google struct {
	client *maps.Client

	// The maps client carries no timeout of its own, so every lookup is
	// bounded here.
	timeout time.Duration
}

// NewGoogle builds the Maps-backed geocoder. The API key is required.
func NewGoogle(apiKey string) (*Google, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("MAPS_CREDENTIALS environment variable not set")
	}
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating maps client: %w", err)
	}
	return &Google{client: client, timeout: config.GeocodeTimeout}, nil
}

// Forward geocode: get latitude and longitude for the given place text.
func (g *Google) Forward(ctx context.Context, place string) (ForwardResult, bool, error) {
	if strings.TrimSpace(place) == "" {
		return ForwardResult{}, false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: place})
	if err != nil {
		metrics.ObserveGeocode("google", "forward", "error")
		return ForwardResult{}, false, err
	}
	if len(results) == 0 {
		metrics.ObserveGeocode("google", "forward", "miss")
		return ForwardResult{}, false, nil
	}

	loc := results[0].Geometry.Location
	coord := types.Coordinate{Lat: loc.Lat, Lon: loc.Lng}
	if !coord.Valid() {
		metrics.ObserveGeocode("google", "forward", "error")
		return ForwardResult{}, false, fmt.Errorf("out of range coordinates for %q", place)
	}

	metrics.ObserveGeocode("google", "forward", "hit")
	return ForwardResult{Coordinate: coord, Label: results[0].FormattedAddress}, true, nil
}

// Reverse resolves coordinates to the first formatted address.
func (g *Google) Reverse(ctx context.Context, coord types.Coordinate) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	results, err := g.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: coord.Lat, Lng: coord.Lon},
	})
	if err != nil {
		metrics.ObserveGeocode("google", "reverse", "error")
		return "", false, err
	}
	if len(results) == 0 {
		metrics.ObserveGeocode("google", "reverse", "miss")
		return "", false, nil
	}

	metrics.ObserveGeocode("google", "reverse", "hit")
	return results[0].FormattedAddress, true, nil
}
