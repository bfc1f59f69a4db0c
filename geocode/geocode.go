package geocode

import (
	"context"

	"go-monsoon/config"
	"go-monsoon/types"
)

// ForwardResult is a successful place-name lookup.
type ForwardResult struct {
	Coordinate types.Coordinate
	Label      string
}

// Geocoder resolves free-text place names to coordinates and coordinates to
// display labels.
//
// Both methods share one shape: ok=false with a nil error is a clean "no
// match", a non-nil error means the backend was unreachable or answered
// garbage. Callers treat the two very differently, so they are never folded
// together.
type Geocoder interface {
	Forward(ctx context.Context, place string) (ForwardResult, bool, error)
	Reverse(ctx context.Context, coord types.Coordinate) (string, bool, error)
}

// New builds the configured backend wrapped in the lookup cache.
func New(cfg *config.Config) (Geocoder, error) {
	var backend Geocoder
	switch cfg.Geocoder {
	case "google":
		g, err := NewGoogle(cfg.MapsAPIKey)
		if err != nil {
			return nil, err
		}
		backend = g
	default:
		backend = NewNominatim(cfg.NominatimBaseURL, cfg.NominatimUserAgent)
	}
	return WithCache(backend), nil
}
