// Package exifgps pulls GPS positions out of photo metadata.
//
// Every failure mode collapses to "no position": decode errors, missing
// tags, malformed rationals and out-of-range values all come back as
// ok=false. A photo without a usable position is normal input here.
package exifgps

import (
	"bytes"
	"errors"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
	log "github.com/sirupsen/logrus"

	"go-monsoon/metrics"
	"go-monsoon/types"
)

var errZeroDenominator = errors.New("zero denominator in GPS rational")

// ExtractGPS reads the GPS directory of an image and returns its position
// in decimal degrees.
func ExtractGPS(data []byte) (types.Coordinate, bool) {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		log.Debugf("EXIF decode failed: %v", err)
		metrics.ObserveExif("no_exif")
		return types.Coordinate{}, false
	}

	lat, ok := axisValue(x, exif.GPSLatitude, exif.GPSLatitudeRef)
	if !ok {
		metrics.ObserveExif("no_gps")
		return types.Coordinate{}, false
	}
	lon, ok := axisValue(x, exif.GPSLongitude, exif.GPSLongitudeRef)
	if !ok {
		metrics.ObserveExif("no_gps")
		return types.Coordinate{}, false
	}

	coord := types.Coordinate{Lat: lat, Lon: lon}
	if !coord.Valid() {
		log.Debugf("EXIF position out of range: lat=%f lon=%f", lat, lon)
		metrics.ObserveExif("out_of_range")
		return types.Coordinate{}, false
	}
	metrics.ObserveExif("found")
	return coord, true
}

// axisValue reads one axis (three rationals plus its hemisphere ref) and
// converts it to signed decimal degrees.
func axisValue(x *exif.Exif, valName, refName exif.FieldName) (float64, bool) {
	tag, err := x.Get(valName)
	if err != nil {
		return 0, false
	}
	refTag, err := x.Get(refName)
	if err != nil {
		return 0, false
	}
	ref, err := refTag.StringVal()
	if err != nil {
		return 0, false
	}

	deg, err1 := ratFloat(tag, 0)
	min, err2 := ratFloat(tag, 1)
	sec, err3 := ratFloat(tag, 2)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, false
	}
	return dmsToDecimal(deg, min, sec, ref), true
}

func ratFloat(t *tiff.Tag, i int) (float64, error) {
	num, den, err := t.Rat2(i)
	if err != nil {
		return 0, err
	}
	if den == 0 {
		return 0, errZeroDenominator
	}
	return float64(num) / float64(den), nil
}

// dmsToDecimal converts degrees/minutes/seconds to decimal degrees, signed
// by the hemisphere reference. Southern and western refs negate.
func dmsToDecimal(deg, min, sec float64, ref string) float64 {
	dec := deg + min/60 + sec/3600
	switch strings.TrimSpace(strings.Trim(strings.ToUpper(ref), "\x00")) {
	case "S", "W":
		return -dec
	}
	return dec
}
