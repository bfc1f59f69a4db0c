package resolver

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-monsoon/geocode"
	"go-monsoon/types"
)

// stubGeocoder answers forward lookups from a small map and labels every
// reverse lookup with a fixed string.
type stubGeocoder struct {
	forward      map[string]geocode.ForwardResult
	reverseLabel string
	forwardErr   error
	reverseErr   error
}

func (s *stubGeocoder) Forward(ctx context.Context, place string) (geocode.ForwardResult, bool, error) {
	if s.forwardErr != nil {
		return geocode.ForwardResult{}, false, s.forwardErr
	}
	res, ok := s.forward[place]
	return res, ok, nil
}

func (s *stubGeocoder) Reverse(ctx context.Context, coord types.Coordinate) (string, bool, error) {
	if s.reverseErr != nil {
		return "", false, s.reverseErr
	}
	if s.reverseLabel == "" {
		return "", false, nil
	}
	return s.reverseLabel, true, nil
}

// gpsPhoto renders a little-endian TIFF carrying the given position in its
// GPS directory, hemisphere refs included.
func gpsPhoto(lat, lon float64) []byte {
	latRef, lonRef := "N", "E"
	if lat < 0 {
		latRef, lat = "S", -lat
	}
	if lon < 0 {
		lonRef, lon = "W", -lon
	}

	le := binary.LittleEndian
	buf := new(bytes.Buffer)
	write := func(v interface{}) { _ = binary.Write(buf, le, v) }

	buf.WriteString("II")
	write(uint16(42))
	write(uint32(8))

	const gpsIFD = 26
	write(uint16(1))
	write(uint16(0x8825))
	write(uint16(4))
	write(uint32(1))
	write(uint32(gpsIFD))
	write(uint32(0))

	const dataAt = uint32(gpsIFD + 2 + 4*12 + 4)
	writeASCII := func(tag uint16, s string) {
		write(tag)
		write(uint16(2))
		write(uint32(2))
		var val [4]byte
		copy(val[:], s+"\x00")
		buf.Write(val[:])
	}
	writeRats := func(tag uint16, at uint32) {
		write(tag)
		write(uint16(5))
		write(uint32(3))
		write(at)
	}

	write(uint16(4))
	writeASCII(0x0001, latRef)
	writeRats(0x0002, dataAt)
	writeASCII(0x0003, lonRef)
	writeRats(0x0004, dataAt+24)
	write(uint32(0))

	// Whole degrees to a millionth, as degrees + seconds.
	for _, deg := range []float64{lat, lon} {
		whole := uint32(deg)
		frac := deg - float64(whole)
		write(whole)
		write(uint32(1))
		write(uint32(0))
		write(uint32(1))
		write(uint32(frac * 3600 * 1e6))
		write(uint32(1e6))
	}
	return buf.Bytes()
}

func TestBrowserFixWinsOverExif(t *testing.T) {
	stub := &stubGeocoder{reverseLabel: "Rajpur Road, Dehradun"}
	r := New(stub)

	loc := r.Resolve(context.Background(), Input{
		Browser: &types.BrowserFix{Coordinate: &types.Coordinate{Lat: 30.3165, Lon: 78.0322}},
		Camera:  gpsPhoto(29.0, 77.0),
	})

	require.True(t, loc.Resolved())
	assert.Equal(t, types.SourceBrowser, loc.Source)
	assert.InDelta(t, 30.3165, loc.Coordinate.Lat, 1e-9)
	assert.InDelta(t, 78.0322, loc.Coordinate.Lon, 1e-9)
	assert.Equal(t, "Rajpur Road, Dehradun", loc.Place)
}

func TestFailedBrowserFixFallsThroughToExif(t *testing.T) {
	stub := &stubGeocoder{reverseLabel: "Haridwar"}
	r := New(stub)

	loc := r.Resolve(context.Background(), Input{
		Browser: &types.BrowserFix{Reason: types.FixPermissionDenied},
		Camera:  gpsPhoto(29.9457, 78.1642),
	})

	require.True(t, loc.Resolved())
	assert.Equal(t, types.SourceExif, loc.Source)
	assert.InDelta(t, 29.9457, loc.Coordinate.Lat, 1e-4)
	assert.InDelta(t, 78.1642, loc.Coordinate.Lon, 1e-4)
}

func TestCameraPhotoBeatsUpload(t *testing.T) {
	stub := &stubGeocoder{reverseLabel: "somewhere"}
	r := New(stub)

	loc := r.Resolve(context.Background(), Input{
		Camera: gpsPhoto(30.0, 78.0),
		Upload: gpsPhoto(-12.5, -45.25),
	})

	require.True(t, loc.Resolved())
	assert.InDelta(t, 30.0, loc.Coordinate.Lat, 1e-4)
}

func TestUploadExifUsedWhenCameraHasNone(t *testing.T) {
	stub := &stubGeocoder{reverseLabel: "somewhere south"}
	r := New(stub)

	loc := r.Resolve(context.Background(), Input{
		Camera: []byte("no exif here"),
		Upload: gpsPhoto(-12.5, -45.25),
	})

	require.True(t, loc.Resolved())
	assert.Equal(t, types.SourceExif, loc.Source)
	assert.InDelta(t, -12.5, loc.Coordinate.Lat, 1e-4)
	assert.InDelta(t, -45.25, loc.Coordinate.Lon, 1e-4)
}

func TestPlaceTextForwardGeocode(t *testing.T) {
	stub := &stubGeocoder{
		forward: map[string]geocode.ForwardResult{
			"Dehradun": {
				Coordinate: types.Coordinate{Lat: 30.3164945, Lon: 78.0321918},
				Label:      "Dehradun, Uttarakhand, India",
			},
		},
	}
	r := New(stub)

	loc := r.Resolve(context.Background(), Input{PlaceText: " Dehradun "})

	require.True(t, loc.Resolved())
	assert.Equal(t, types.SourceGeocode, loc.Source)
	assert.InDelta(t, 30.3164945, loc.Coordinate.Lat, 1e-9)
	assert.Equal(t, "Dehradun, Uttarakhand, India", loc.Place)
}

func TestUnmatchedPlaceTextIsUnresolved(t *testing.T) {
	stub := &stubGeocoder{forward: map[string]geocode.ForwardResult{}}
	r := New(stub)

	loc := r.Resolve(context.Background(), Input{PlaceText: "  somewhere obscure  "})

	assert.False(t, loc.Resolved())
	assert.Nil(t, loc.Coordinate)
	assert.Empty(t, loc.Place, "a place label needs a coordinate behind it")
	assert.Empty(t, loc.Source)
}

func TestGeocoderOutageLeavesUnresolved(t *testing.T) {
	stub := &stubGeocoder{forwardErr: errors.New("nominatim down")}
	r := New(stub)

	loc := r.Resolve(context.Background(), Input{PlaceText: "Dehradun"})

	assert.False(t, loc.Resolved())
	assert.Empty(t, loc.Place)
}

func TestReverseOutageKeepsCoordinate(t *testing.T) {
	stub := &stubGeocoder{reverseErr: errors.New("nominatim down")}
	r := New(stub)

	loc := r.Resolve(context.Background(), Input{
		Browser: &types.BrowserFix{Coordinate: &types.Coordinate{Lat: 30.3165, Lon: 78.0322}},
	})

	require.True(t, loc.Resolved())
	assert.Empty(t, loc.Place)
	assert.Equal(t, types.SourceBrowser, loc.Source)
}

func TestEmptyInputIsUnresolved(t *testing.T) {
	r := New(&stubGeocoder{})
	loc := r.Resolve(context.Background(), Input{})
	assert.False(t, loc.Resolved())
	assert.Empty(t, loc.Place)
}
