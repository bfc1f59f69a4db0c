package types

import "time"

// Location sources, recorded so the UI can tell the user where a
// coordinate came from.
const (
	SourceBrowser = "browser"
	SourceExif    = "exif"
	SourceGeocode = "geocode"
)

// Coordinate is a WGS84 decimal-degree pair.
type Coordinate struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// Valid reports whether the pair is inside the usable range.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// LocationResult is the outcome of location resolution for one report
// attempt. Place is only ever set alongside a coordinate; an unresolved
// location is empty, and that is a normal, sendable state.
type LocationResult struct {
	Coordinate *Coordinate `json:"coordinate,omitempty"`
	Place      string      `json:"place,omitempty"`
	Source     string      `json:"source,omitempty"`
}

// Resolved reports whether any source produced a coordinate.
func (l LocationResult) Resolved() bool { return l.Coordinate != nil }

// FixReason classifies a failed browser geolocation attempt.
type FixReason string

const (
	FixNoSupport        FixReason = "no-support"
	FixPermissionDenied FixReason = "permission-denied"
	FixTimeout          FixReason = "timeout"
	FixUnknown          FixReason = "unknown"
)

// BrowserFix is the tagged outcome of one browser geolocation request:
// either a coordinate (plus accuracy) or a reason why there is none.
type BrowserFix struct {
	Coordinate *Coordinate `json:"coordinate,omitempty"`
	AccuracyM  float64     `json:"accuracy_m,omitempty"`
	ObtainedAt time.Time   `json:"obtained_at"`
	Reason     FixReason   `json:"reason,omitempty"`
}

// OK reports whether the fix carries a usable coordinate.
func (f BrowserFix) OK() bool { return f.Coordinate != nil }
