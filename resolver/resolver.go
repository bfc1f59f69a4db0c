// Package resolver decides where a report happened.
package resolver

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"go-monsoon/exifgps"
	"go-monsoon/geocode"
	"go-monsoon/metrics"
	"go-monsoon/types"
)

// Input carries everything a report form can say about where the user is.
type Input struct {
	Browser   *types.BrowserFix
	Camera    []byte
	Upload    []byte
	PlaceText string
}

// Resolver applies the location precedence order: a device fix beats photo
// EXIF, which beats the typed place text.
type Resolver struct {
	geo geocode.Geocoder
}

func New(geo geocode.Geocoder) *Resolver {
	return &Resolver{geo: geo}
}

// Resolve returns the best location the inputs support. When nothing
// resolves, the result is empty: no coordinate, no place label.
func (r *Resolver) Resolve(ctx context.Context, in Input) types.LocationResult {
	out := r.resolve(ctx, in)

	source := out.Source
	if source == "" {
		source = "unresolved"
	}
	metrics.ObserveResolve(source)
	return out
}

func (r *Resolver) resolve(ctx context.Context, in Input) types.LocationResult {
	if in.Browser != nil && in.Browser.OK() {
		coord := *in.Browser.Coordinate
		if coord.Valid() {
			return r.labeled(ctx, coord, types.SourceBrowser)
		}
		log.Warnf("Discarding out of range browser fix: lat=%f lon=%f", coord.Lat, coord.Lon)
	}

	// Camera shots outrank uploads: the camera photo was taken here and
	// now, an uploaded file could be from anywhere.
	for _, photo := range [][]byte{in.Camera, in.Upload} {
		if len(photo) == 0 {
			continue
		}
		if coord, ok := exifgps.ExtractGPS(photo); ok {
			return r.labeled(ctx, coord, types.SourceExif)
		}
	}

	place := strings.TrimSpace(in.PlaceText)
	if place != "" {
		res, ok, err := r.geo.Forward(ctx, place)
		if err != nil {
			log.Warnf("Forward geocode for %q failed: %v", place, err)
		} else if ok {
			return types.LocationResult{
				Coordinate: &res.Coordinate,
				Place:      res.Label,
				Source:     types.SourceGeocode,
			}
		}
	}

	return types.LocationResult{}
}

// labeled attaches a reverse-geocoded display label to a known coordinate.
// A failed label lookup never costs us the coordinate.
func (r *Resolver) labeled(ctx context.Context, coord types.Coordinate, source string) types.LocationResult {
	out := types.LocationResult{Coordinate: &coord, Source: source}

	label, ok, err := r.geo.Reverse(ctx, coord)
	if err != nil {
		log.Warnf("Reverse geocode for %.5f,%.5f failed: %v", coord.Lat, coord.Lon, err)
		return out
	}
	if ok {
		out.Place = label
	}
	return out
}
