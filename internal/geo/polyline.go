// Package geo holds the path geometry codec shared by the optimizer's
// consumers and the map view.
package geo

import (
	"github.com/twpayne/go-polyline"

	"github.com/kinnovative-other-websites/transport-field-check/internal/domain"
)

// EncodePath encodes an ordered coordinate sequence into the standard encoded
// polyline format at 1e-5 degree precision. The encoding is lossy beyond five
// decimal digits; that precision loss is intentional and matches what the
// routing engine itself emits. An empty path encodes to an empty string.
func EncodePath(points []domain.Coordinates) string {
	if len(points) == 0 {
		return ""
	}

	coords := make([][]float64, 0, len(points))
	for _, p := range points {
		coords = append(coords, p.CoordsToList())
	}

	return string(polyline.EncodeCoords(coords))
}

// DecodePath reverses EncodePath, accurate to 1e-5 degrees per coordinate.
// Malformed or truncated input decodes to an empty path rather than an error,
// so that a rendering consumer degrades to showing raw stops instead of
// failing the whole view.
func DecodePath(encoded string) []domain.Coordinates {
	if encoded == "" {
		return []domain.Coordinates{}
	}

	coords, rest, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil || len(rest) > 0 {
		return []domain.Coordinates{}
	}

	points := make([]domain.Coordinates, 0, len(coords))
	for _, c := range coords {
		points = append(points, domain.Coordinates{Lat: c[0], Lng: c[1]})
	}

	return points
}
