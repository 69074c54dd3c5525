package spatialindex

import (
	"math"

	"github.com/lintang-b-s/waymatch/pkg/datastructure"
	"github.com/lintang-b-s/waymatch/pkg/geo"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

type Rtree struct {
	tr *rtree.RTreeG[datastructure.Index]
}

func NewRtree() *Rtree {
	var tr rtree.RTreeG[datastructure.Index]
	return &Rtree{
		tr: &tr,
	}
}

// Build. build r-tree over the edge geometries, with each leaf having bounding
// box padded by boundingBoxRadius (in km)
func (rt *Rtree) Build(graph *datastructure.Graph, boundingBoxRadius float64, log *zap.Logger) {
	log.Info("Building R-tree spatial index...")
	graph.ForEdges(func(e *datastructure.Edge, percentage float64) {
		if math.Mod(percentage, 10) < 0.0001 {
			log.Info("Building R-tree spatial index...", zap.Float64("progress", percentage))
		}

		minLat, minLon := math.Inf(1), math.Inf(1)
		maxLat, maxLon := math.Inf(-1), math.Inf(-1)
		for _, c := range graph.GetEdgeGeometry(e.GetEdgeID()) {
			lowerLat, lowerLon := geo.GetDestinationPoint(c.GetLat(), c.GetLon(), 225, boundingBoxRadius)
			upperLat, upperLon := geo.GetDestinationPoint(c.GetLat(), c.GetLon(), 45, boundingBoxRadius)

			minLat = math.Min(minLat, lowerLat)
			minLon = math.Min(minLon, lowerLon)
			maxLat = math.Max(maxLat, upperLat)
			maxLon = math.Max(maxLon, upperLon)
		}

		rt.tr.Insert([2]float64{minLon, minLat}, [2]float64{maxLon, maxLat},
			e.GetEdgeID())
	})

	log.Info("R-tree spatial index built.")
}

// SearchWithinRadius search for all edges within radius (in km) from the query point (qLat, qLon)
func (rt *Rtree) SearchWithinRadius(qLat, qLon, radius float64) []datastructure.Index {
	lowerLat, lowerLon := geo.GetDestinationPoint(qLat, qLon, 225, radius)
	upperLat, upperLon := geo.GetDestinationPoint(qLat, qLon, 45, radius)

	results := make([]datastructure.Index, 0, 10)
	rt.tr.Search([2]float64{lowerLon, lowerLat}, [2]float64{upperLon, upperLat},
		func(min, max [2]float64, data datastructure.Index) bool {
			results = append(results, data)
			return true
		})
	return results
}

// SearchNearestEdge nearest edge by perpendicular distance to its geometry.
// returns NO_EDGE when nothing lies within radius km.
func (rt *Rtree) SearchNearestEdge(graph *datastructure.Graph, qLat, qLon, radius float64) datastructure.Index {
	best := datastructure.NO_EDGE
	bestDist := math.Inf(1)
	query := geo.NewCoordinate(qLat, qLon)

	for _, edgeId := range rt.SearchWithinRadius(qLat, qLon, radius) {
		coords := graph.GetEdgeGeometry(edgeId)
		for i := 0; i+1 < len(coords); i++ {
			dist := geo.PointLinePerpendicularDistance(coords[i], coords[i+1], query)
			if dist < bestDist {
				bestDist = dist
				best = edgeId
			}
		}
	}
	return best
}
