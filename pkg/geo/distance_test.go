package geo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalculateHaversineDistance(t *testing.T) {
	testCases := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		wantKm                 float64
		tolerance              float64
	}{
		{
			name: "tugu jogja to malioboro",
			lat1: -7.782793, lon1: 110.367015,
			lat2: -7.792637, lon2: 110.365753,
			wantKm:    1.1,
			tolerance: 0.05,
		},
		{
			name: "same point",
			lat1: -7.7956, lon1: 110.3695,
			lat2: -7.7956, lon2: 110.3695,
			wantKm:    0,
			tolerance: 1e-9,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateHaversineDistance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			require.InDelta(t, tt.wantKm, got, tt.tolerance)
		})
	}
}

func TestGetDestinationPointRoundTrip(t *testing.T) {
	lat, lon := -7.7956, 110.3695

	destLat, destLon := GetDestinationPoint(lat, lon, 45, 1.0)
	dist := CalculateHaversineDistance(lat, lon, destLat, destLon)
	require.InDelta(t, 1.0, dist, 1e-6)

	bearing := BearingTo(lat, lon, destLat, destLon)
	require.InDelta(t, 45.0, bearing, 0.5)
}

func TestProjectPointToLineCoord(t *testing.T) {
	a := NewCoordinate(-7.7956, 110.3695)
	b := NewCoordinate(-7.7956, 110.3705)
	snap := NewCoordinate(-7.7950, 110.3700)

	projection := ProjectPointToLineCoord(a, b, snap)
	require.InDelta(t, -7.7956, projection.GetLat(), 1e-4)
	require.InDelta(t, 110.3700, projection.GetLon(), 1e-4)

	dist := PointLinePerpendicularDistance(a, b, snap)
	require.InDelta(t, 66, dist, 5)
}

func TestPolylineRoundTrip(t *testing.T) {
	coords := []Coordinate{
		NewCoordinate(-7.7956, 110.3695),
		NewCoordinate(-7.79561, 110.37),
		NewCoordinate(-7.7957, 110.3705),
	}

	encoded := PolylineFromCoords(coords)
	require.NotContains(t, encoded, " ")

	decoded, err := CoordsFromPolyline(encoded)
	require.NoError(t, err)
	require.Len(t, decoded, len(coords))
	for i := range coords {
		require.InDelta(t, coords[i].GetLat(), decoded[i].GetLat(), 1e-4)
		require.InDelta(t, coords[i].GetLon(), decoded[i].GetLon(), 1e-4)
	}
}
