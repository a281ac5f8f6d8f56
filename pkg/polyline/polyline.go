// Package polyline implements the encoded polyline algorithm format.
// See https://developers.google.com/maps/documentation/utilities/polylinealgorithm
package polyline

import "math"

// DefaultPrecision is the number of decimal places used by Encode.
const DefaultPrecision = 5

// Coordinate represents a geographic point with latitude and longitude.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Encode encodes coords with precision 5.
func Encode(coords []Coordinate) string {
	return EncodePrecision(coords, DefaultPrecision)
}

// EncodePrecision encodes coords using the given number of decimal places.
func EncodePrecision(coords []Coordinate, precision int) string {
	if len(coords) == 0 {
		return ""
	}

	factor := math.Pow10(precision)
	buf := make([]byte, 0, len(coords)*8)
	var prevLat, prevLon int64

	for _, c := range coords {
		lat := int64(math.Round(c.Lat * factor))
		lon := int64(math.Round(c.Lon * factor))
		buf = appendValue(buf, lat-prevLat)
		buf = appendValue(buf, lon-prevLon)
		prevLat, prevLon = lat, lon
	}
	return string(buf)
}

func appendValue(buf []byte, v int64) []byte {
	u := uint64(v) << 1
	if v < 0 {
		u = ^u
	}
	for u >= 0x20 {
		buf = append(buf, byte(0x20|(u&0x1f))+63)
		u >>= 5
	}
	return append(buf, byte(u)+63)
}
