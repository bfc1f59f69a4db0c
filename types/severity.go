package types

import "strings"

// Severity is the alert color attached to a report. Auto means "let the
// classifier decide" and never appears on an assembled report.
type Severity string

const (
	Auto   Severity = "auto"
	Green  Severity = "green"
	Yellow Severity = "yellow"
	Red    Severity = "red"
)

// ParseSeverity maps a form value to a Severity. Anything unrecognized is
// treated as Auto so a stale or hand-edited form can't block a report.
func ParseSeverity(s string) Severity {
	switch Severity(strings.ToLower(strings.TrimSpace(s))) {
	case Green:
		return Green
	case Yellow:
		return Yellow
	case Red:
		return Red
	default:
		return Auto
	}
}

// MarkerColor returns the map marker color for the severity. Yellow draws
// as orange so the marker stays readable on the tile layer.
func (s Severity) MarkerColor() string {
	switch s {
	case Red:
		return "red"
	case Yellow:
		return "orange"
	default:
		return "green"
	}
}
