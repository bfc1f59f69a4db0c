package exifgps

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDmsToDecimal(t *testing.T) {
	cases := []struct {
		name          string
		deg, min, sec float64
		ref           string
		want          float64
	}{
		{"dehradun lat", 30, 18, 59.4, "N", 30.3165},
		{"dehradun lon", 78, 1, 55.92, "E", 78.0322},
		{"half degree", 30, 30, 0, "N", 30.5},
		{"southern hemisphere", 30, 30, 0, "S", -30.5},
		{"western hemisphere", 45, 15, 30, "W", -45.258333333},
		{"lowercase ref", 10, 0, 0, "s", -10},
		{"ref with nul padding", 10, 30, 0, "W\x00", -10.5},
		{"equator", 0, 0, 0, "N", 0},
		{"unknown ref stays positive", 20, 0, 0, "?", 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := dmsToDecimal(tc.deg, tc.min, tc.sec, tc.ref)
			assert.InDelta(t, tc.want, got, 1e-6)
		})
	}
}

type rationals [3][2]uint32

// buildGPSTiff assembles a minimal little-endian TIFF whose first directory
// points at a GPS sub-directory. Pass a nil lon to omit the longitude tags.
func buildGPSTiff(latRef string, lat rationals, lonRef string, lon *rationals) []byte {
	le := binary.LittleEndian
	buf := new(bytes.Buffer)
	write := func(v interface{}) { _ = binary.Write(buf, le, v) }

	// Header, first directory at offset 8.
	buf.WriteString("II")
	write(uint16(42))
	write(uint32(8))

	// IFD0 holds a single pointer to the GPS directory.
	const gpsIFD = 26
	write(uint16(1))
	write(uint16(0x8825)) // GPSInfo pointer
	write(uint16(4))      // LONG
	write(uint32(1))
	write(uint32(gpsIFD))
	write(uint32(0))

	entries := uint16(2)
	if lon != nil {
		entries = 4
	}
	dataAt := uint32(gpsIFD + 2 + int(entries)*12 + 4)

	writeASCII := func(tag uint16, s string) {
		write(tag)
		write(uint16(2)) // ASCII
		write(uint32(2))
		var val [4]byte
		copy(val[:], s)
		buf.Write(val[:])
	}
	writeRats := func(tag uint16, at uint32) {
		write(tag)
		write(uint16(5)) // RATIONAL
		write(uint32(3))
		write(at)
	}

	write(entries)
	writeASCII(0x0001, latRef+"\x00")
	writeRats(0x0002, dataAt)
	if lon != nil {
		writeASCII(0x0003, lonRef+"\x00")
		writeRats(0x0004, dataAt+24)
	}
	write(uint32(0))

	for _, r := range lat {
		write(r[0])
		write(r[1])
	}
	if lon != nil {
		for _, r := range *lon {
			write(r[0])
			write(r[1])
		}
	}
	return buf.Bytes()
}

func TestExtractGPSFromTaggedImage(t *testing.T) {
	lon := rationals{{78, 1}, {1, 1}, {5592, 100}}
	img := buildGPSTiff("N", rationals{{30, 1}, {18, 1}, {594, 10}}, "E", &lon)

	coord, ok := ExtractGPS(img)
	require.True(t, ok)
	assert.InDelta(t, 30.3165, coord.Lat, 1e-6)
	assert.InDelta(t, 78.0322, coord.Lon, 1e-6)
}

func TestExtractGPSSouthWestSigns(t *testing.T) {
	lon := rationals{{45, 1}, {15, 1}, {30, 1}}
	img := buildGPSTiff("S", rationals{{12, 1}, {30, 1}, {0, 1}}, "W", &lon)

	coord, ok := ExtractGPS(img)
	require.True(t, ok)
	assert.InDelta(t, -12.5, coord.Lat, 1e-6)
	assert.InDelta(t, -45.258333333, coord.Lon, 1e-6)
}

func TestExtractGPSAbsentCases(t *testing.T) {
	lonOutOfRange := rationals{{200, 1}, {0, 1}, {0, 1}}
	lonOK := rationals{{78, 1}, {0, 1}, {0, 1}}

	cases := []struct {
		name string
		data []byte
	}{
		{"not an image", []byte("definitely not a photo")},
		{"empty input", nil},
		{"no gps directory", buildBareTiff()},
		{"missing longitude", buildGPSTiff("N", rationals{{30, 1}, {0, 1}, {0, 1}}, "E", nil)},
		{"zero denominator", buildGPSTiff("N", rationals{{30, 0}, {0, 1}, {0, 1}}, "E", &lonOK)},
		{"out of range", buildGPSTiff("N", rationals{{30, 1}, {0, 1}, {0, 1}}, "E", &lonOutOfRange)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := ExtractGPS(tc.data)
			assert.False(t, ok)
		})
	}
}

// buildBareTiff returns a valid TIFF with an empty first directory and no
// GPS data at all.
func buildBareTiff() []byte {
	le := binary.LittleEndian
	buf := new(bytes.Buffer)
	buf.WriteString("II")
	_ = binary.Write(buf, le, uint16(42))
	_ = binary.Write(buf, le, uint32(8))
	_ = binary.Write(buf, le, uint16(0))
	_ = binary.Write(buf, le, uint32(0))
	return buf.Bytes()
}
