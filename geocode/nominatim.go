package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go-monsoon/config"
	"go-monsoon/metrics"
	"go-monsoon/types"
)

// nominatimResult is one element of a /search response. Only the fields we
// read are declared.
type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// nominatimReverse is the /reverse response object. Nominatim reports an
// unresolvable position as 200 with an "error" field, not a status code.
type nominatimReverse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

// Nominatim talks to a Nominatim instance over its JSON API.
type Nominatim struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewNominatim builds a client for the given instance. The user agent is
// mandatory under the public instance's usage policy.
func NewNominatim(baseURL, userAgent string) *Nominatim {
	return &Nominatim{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		client:    &http.Client{Timeout: config.GeocodeTimeout},
	}
}

// Forward resolves a typed place name to coordinates plus a display label.
func (n *Nominatim) Forward(ctx context.Context, place string) (ForwardResult, bool, error) {
	if strings.TrimSpace(place) == "" {
		return ForwardResult{}, false, nil
	}

	params := url.Values{}
	params.Set("q", place)
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	params.Set("limit", "1")
	params.Set("accept-language", "en")

	var results []nominatimResult
	if err := n.getJSON(ctx, "/search", params, &results); err != nil {
		metrics.ObserveGeocode("nominatim", "forward", "error")
		return ForwardResult{}, false, err
	}
	if len(results) == 0 {
		metrics.ObserveGeocode("nominatim", "forward", "miss")
		return ForwardResult{}, false, nil
	}

	first := results[0]
	lat, errLat := strconv.ParseFloat(first.Lat, 64)
	lon, errLon := strconv.ParseFloat(first.Lon, 64)
	if errLat != nil || errLon != nil {
		metrics.ObserveGeocode("nominatim", "forward", "error")
		return ForwardResult{}, false, fmt.Errorf("unparseable coordinates %q,%q for %q", first.Lat, first.Lon, place)
	}
	coord := types.Coordinate{Lat: lat, Lon: lon}
	if !coord.Valid() {
		metrics.ObserveGeocode("nominatim", "forward", "error")
		return ForwardResult{}, false, fmt.Errorf("out of range coordinates for %q", place)
	}

	metrics.ObserveGeocode("nominatim", "forward", "hit")
	return ForwardResult{Coordinate: coord, Label: first.DisplayName}, true, nil
}

// Reverse resolves coordinates to a human-readable label.
func (n *Nominatim) Reverse(ctx context.Context, coord types.Coordinate) (string, bool, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(coord.Lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(coord.Lon, 'f', -1, 64))
	params.Set("format", "json")
	params.Set("accept-language", "en")

	var result nominatimReverse
	if err := n.getJSON(ctx, "/reverse", params, &result); err != nil {
		metrics.ObserveGeocode("nominatim", "reverse", "error")
		return "", false, err
	}
	if result.Error != "" || result.DisplayName == "" {
		metrics.ObserveGeocode("nominatim", "reverse", "miss")
		return "", false, nil
	}

	metrics.ObserveGeocode("nominatim", "reverse", "hit")
	return result.DisplayName, true, nil
}

func (n *Nominatim) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	u := fmt.Sprintf("%s%s?%s", n.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", n.userAgent)

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("nominatim returned %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
