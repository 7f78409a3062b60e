package geo

import (
	"math"
	"testing"

	"github.com/kinnovative-other-websites/transport-field-check/internal/domain"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		name   string
		points []domain.Coordinates
	}{
		{name: "empty", points: []domain.Coordinates{}},
		{name: "single", points: []domain.Coordinates{{Lat: 17.3850, Lng: 78.4867}}},
		{
			name: "branch round trip",
			points: []domain.Coordinates{
				{Lat: 17.3850, Lng: 78.4867},
				{Lat: 17.4000, Lng: 78.4000},
				{Lat: 17.4100, Lng: 78.4200},
				{Lat: 17.3900, Lng: 78.4100},
				{Lat: 17.3850, Lng: 78.4867},
			},
		},
		{
			name: "negative hemisphere",
			points: []domain.Coordinates{
				{Lat: -33.86882, Lng: 151.20929},
				{Lat: -33.87000, Lng: 151.21000},
			},
		},
		{
			name: "crosses zero",
			points: []domain.Coordinates{
				{Lat: 0.00001, Lng: -0.00001},
				{Lat: -0.00002, Lng: 0.00003},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			encoded := EncodePath(tc.points)
			if len(tc.points) == 0 && encoded != "" {
				t.Fatalf("empty path encoded to %q, want empty string", encoded)
			}

			decoded := DecodePath(encoded)
			if len(decoded) != len(tc.points) {
				t.Fatalf("decoded %d points, want %d", len(decoded), len(tc.points))
			}

			for i, p := range tc.points {
				if math.Abs(decoded[i].Lat-p.Lat) > 1e-5 {
					t.Errorf("point %d lat = %v, want %v within 1e-5", i, decoded[i].Lat, p.Lat)
				}
				if math.Abs(decoded[i].Lng-p.Lng) > 1e-5 {
					t.Errorf("point %d lng = %v, want %v within 1e-5", i, decoded[i].Lng, p.Lng)
				}
			}
		})
	}
}

func TestDecodePathMalformed(t *testing.T) {
	// Truncated and corrupted payloads must degrade to an empty path so map
	// rendering still shows raw stops.
	cases := []struct {
		name    string
		encoded string
	}{
		{name: "unterminated sequence", encoded: "}"},
		{name: "latitude only", encoded: "_p~iF"},
		{name: "invalid byte", encoded: "_p~iF~ps|U\x01"},
		{name: "truncated tail", encoded: EncodePath([]domain.Coordinates{{Lat: 17.4, Lng: 78.4}, {Lat: 17.5, Lng: 78.5}})[:3]},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DecodePath(tc.encoded)
			if len(got) != 0 {
				t.Fatalf("DecodePath(%q) = %d points, want empty", tc.encoded, len(got))
			}
		})
	}
}

func TestDecodePathEmpty(t *testing.T) {
	got := DecodePath("")
	if got == nil || len(got) != 0 {
		t.Fatalf("DecodePath(\"\") = %v, want empty non-nil path", got)
	}
}
