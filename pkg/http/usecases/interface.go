package usecases

import (
	"github.com/lintang-b-s/waymatch/pkg/datastructure"
)

type SpatialIndex interface {
	SearchNearestEdge(graph *datastructure.Graph, qLat, qLon, radius float64) datastructure.Index
}

type MapMatcherEngine interface {
	MapMatch(gps []datastructure.GPSPoint) ([]datastructure.MatchedPoint, error)
}
