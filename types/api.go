package types

// Request/response bodies for the JSON API consumed by the form page.

// CredentialsRequest is the body for both register and login. It binds
// from JSON and from a plain form post.
type CredentialsRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// BrowserFixRequest carries the browser geolocation bridge's answer back to
// the server: either a coordinate or an error tag, never both.
type BrowserFixRequest struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	AccuracyM float64  `json:"accuracy_m,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// PreviewResponse is what the map preview endpoint returns.
type PreviewResponse struct {
	Resolved  bool     `json:"resolved"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Place     string   `json:"place,omitempty"`
	Source    string   `json:"source,omitempty"`
}

// SubmitResponse mirrors a dispatch outcome for the UI. Severity and
// Marker report what the classifier settled on when the user left the
// choice on auto.
type SubmitResponse struct {
	Status     string `json:"status"` // "sent", "warning" or "error"
	StatusCode int    `json:"status_code,omitempty"`
	Message    string `json:"message,omitempty"`
	ReportID   string `json:"report_id,omitempty"`
	Severity   string `json:"severity,omitempty"`
	Marker     string `json:"marker,omitempty"`
}

// NewPreviewResponse flattens a LocationResult for the wire.
func NewPreviewResponse(loc LocationResult) PreviewResponse {
	resp := PreviewResponse{Resolved: loc.Resolved(), Source: loc.Source, Place: loc.Place}
	if loc.Coordinate != nil {
		lat, lon := loc.Coordinate.Lat, loc.Coordinate.Lon
		resp.Latitude, resp.Longitude = &lat, &lon
	}
	return resp
}
