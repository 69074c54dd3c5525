package geo

import (
	"github.com/twpayne/go-polyline"
)

// PolylineFromCoords encode path coordinates into a google maps encoded polyline.
func PolylineFromCoords(coords []Coordinate) string {
	buf := make([][]float64, 0, len(coords))
	for _, c := range coords {
		buf = append(buf, []float64{c.Lat, c.Lon})
	}
	return string(polyline.EncodeCoords(buf))
}

// CoordsFromPolyline decode a google maps encoded polyline into path coordinates.
func CoordsFromPolyline(s string) ([]Coordinate, error) {
	decoded, _, err := polyline.DecodeCoords([]byte(s))
	if err != nil {
		return nil, err
	}
	coords := make([]Coordinate, 0, len(decoded))
	for _, c := range decoded {
		coords = append(coords, NewCoordinate(c[0], c[1]))
	}
	return coords, nil
}
