// Package polyline provides encoding and decoding utilities for the compressed polyline algorithm.
// The algorithm is documented at: https://developers.google.com/maps/documentation/utilities/polylinealgorithm
//
// Valhalla encodes route shapes with six decimal digits of precision (polyline6), while the
// reference algorithm uses five. Both are supported through the precision argument.
package polyline

import (
	"errors"
	"fmt"
	"math"
)

// Precision is the divisor applied to the integer deltas of an encoded polyline.
type Precision float64

// Supported precisions.
const (
	// Precision5 is the reference precision (5 decimal places).
	Precision5 Precision = 1e5

	// Precision6 is the precision Valhalla uses for route and elevation shapes.
	Precision6 Precision = 1e6
)

// ErrMalformed is returned when an encoded string ends inside a value or
// contains characters outside the encoding alphabet.
var ErrMalformed = errors.New("malformed polyline")

// maxShift bounds a single varint so corrupt input cannot overflow an int.
const maxShift = 60

// Point represents a geographic point with latitude and longitude in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Decode decodes a polyline-encoded string into a slice of points.
// An empty string decodes to an empty slice.
func Decode(encoded string, precision Precision) ([]Point, error) {
	points := make([]Point, 0, len(encoded)/4)
	index := 0
	lat := 0
	lon := 0

	for index < len(encoded) {
		latDelta, newIndex, err := decodeValue(encoded, index)
		if err != nil {
			return nil, err
		}
		index = newIndex
		lat += latDelta

		lonDelta, newIndex, err := decodeValue(encoded, index)
		if err != nil {
			return nil, err
		}
		index = newIndex
		lon += lonDelta

		points = append(points, Point{
			Lat: float64(lat) / float64(precision),
			Lon: float64(lon) / float64(precision),
		})
	}

	return points, nil
}

// decodeValue decodes a single value from the polyline at the given index.
// Returns the decoded delta value and the new index position.
func decodeValue(encoded string, index int) (int, int, error) {
	start := index
	shift := 0
	result := 0

	for {
		if index >= len(encoded) {
			return 0, index, fmt.Errorf("%w: value at offset %d is truncated", ErrMalformed, start)
		}
		b := int(encoded[index]) - 63
		if b < 0 || b > 0x3f {
			return 0, index, fmt.Errorf("%w: invalid character %q at offset %d", ErrMalformed, encoded[index], index)
		}
		index++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
		if shift > maxShift {
			return 0, index, fmt.Errorf("%w: value at offset %d overflows", ErrMalformed, start)
		}
	}

	// Apply two's complement for negative values
	if result&1 != 0 {
		return ^(result >> 1), index, nil
	}
	return result >> 1, index, nil
}

// Encode encodes a slice of points into a polyline-encoded string.
func Encode(points []Point, precision Precision) string {
	if len(points) == 0 {
		return ""
	}

	encoded := make([]byte, 0, len(points)*6)
	prevLat := 0
	prevLon := 0

	for _, p := range points {
		lat := int(math.Round(p.Lat * float64(precision)))
		lon := int(math.Round(p.Lon * float64(precision)))

		encoded = encodeValue(encoded, lat-prevLat)
		encoded = encodeValue(encoded, lon-prevLon)

		prevLat = lat
		prevLon = lon
	}

	return string(encoded)
}

// encodeValue encodes a single integer value using the polyline algorithm.
func encodeValue(buf []byte, value int) []byte {
	if value < 0 {
		value = ^(value << 1)
	} else {
		value <<= 1
	}

	for value >= 0x20 {
		buf = append(buf, byte((value&0x1f)|0x20)+63)
		value >>= 5
	}
	buf = append(buf, byte(value)+63)

	return buf
}

// Length calculates the total length of a polyline in meters using the haversine formula.
func Length(points []Point) float64 {
	if len(points) < 2 {
		return 0
	}

	var total float64
	for i := 1; i < len(points); i++ {
		total += haversineDistance(points[i-1], points[i])
	}
	return total
}

// Sample returns points spaced approximately intervalMeters apart along the polyline.
// The first and last points are always included. It is used to thin a route shape
// before requesting its elevation profile.
func Sample(points []Point, intervalMeters float64) []Point {
	if len(points) == 0 {
		return nil
	}
	if intervalMeters <= 0 {
		return points
	}

	sampled := []Point{points[0]}
	accumulated := 0.0

	for i := 1; i < len(points); i++ {
		segmentDist := haversineDistance(points[i-1], points[i])
		consumed := 0.0

		for accumulated+segmentDist-consumed >= intervalMeters {
			consumed += intervalMeters - accumulated
			fraction := consumed / segmentDist

			sampled = append(sampled, Point{
				Lat: points[i-1].Lat + fraction*(points[i].Lat-points[i-1].Lat),
				Lon: points[i-1].Lon + fraction*(points[i].Lon-points[i-1].Lon),
			})
			accumulated = 0
		}

		accumulated += segmentDist - consumed
	}

	last := points[len(points)-1]
	if sampled[len(sampled)-1] != last {
		sampled = append(sampled, last)
	}

	return sampled
}

const earthRadiusMeters = 6371000

// haversineDistance calculates the distance between two points in meters.
func haversineDistance(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	sinDLat := math.Sin(dLat / 2)
	sinDLon := math.Sin(dLon / 2)

	h := sinDLat*sinDLat + math.Cos(lat1)*math.Cos(lat2)*sinDLon*sinDLon
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}
