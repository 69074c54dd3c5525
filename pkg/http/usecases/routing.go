package usecases

import (
	"errors"

	"github.com/lintang-b-s/waymatch/pkg/datastructure"
	"github.com/lintang-b-s/waymatch/pkg/engine/routing"
	"github.com/lintang-b-s/waymatch/pkg/geo"
	"github.com/lintang-b-s/waymatch/pkg/util"
	"go.uber.org/zap"
)

var ErrNoNearbyRoad = errors.New("no road found near the requested coordinate")

type RoutingService struct {
	log          *zap.Logger
	graph        *datastructure.Graph
	spatialIndex SpatialIndex
	costFn       routing.CostFunction
	mode         routing.TraversalMode
	searchRadius float64
}

func NewRoutingService(log *zap.Logger, graph *datastructure.Graph, spatialIndex SpatialIndex,
	costFn routing.CostFunction, mode routing.TraversalMode, searchRadius float64) *RoutingService {
	return &RoutingService{
		log:          log,
		graph:        graph,
		spatialIndex: spatialIndex,
		costFn:       costFn,
		mode:         mode,
		searchRadius: searchRadius,
	}
}

// ShortestPath runs a bidirectional dijkstra between the road positions
// nearest to the requested coordinates. returns travel time in minutes,
// distance in meter and the route as an encoded polyline.
func (rs *RoutingService) ShortestPath(origLat, origLon, dstLat, dstLon float64) (float64, float64, string, error) {
	source, target, err := rs.snapOrigDestToNearbyEdges(origLat, origLon, dstLat, dstLon)
	if err != nil {
		return 0, 0, "", err
	}

	query := routing.NewBidirectionalDijkstra(rs.graph, rs.costFn, rs.mode)
	path, err := query.FindPath(source, target)
	if err != nil {
		if errors.Is(err, routing.ErrPathNotFound) {
			return 0, 0, "", util.WrapErrorf(err, util.ErrNotFound,
				"no path found from %f,%f to %f,%f", origLat, origLon, dstLat, dstLon)
		}
		return 0, 0, "", err
	}

	pathPolyline := geo.PolylineFromCoords(path.Coordinates(rs.graph))
	travelTime := util.SecondsToMinutes(path.GetWeight())
	return travelTime, path.GetDist(), pathPolyline, nil
}

func (rs *RoutingService) snapOrigDestToNearbyEdges(origLat, origLon, dstLat, dstLon float64) (datastructure.Index,
	datastructure.Index, error) {
	origEdge := rs.spatialIndex.SearchNearestEdge(rs.graph, origLat, origLon, rs.searchRadius)
	if origEdge == datastructure.NO_EDGE {
		return 0, 0, util.WrapErrorf(ErrNoNearbyRoad, util.ErrNotFound,
			"no road near origin %f,%f", origLat, origLon)
	}

	dstEdge := rs.spatialIndex.SearchNearestEdge(rs.graph, dstLat, dstLon, rs.searchRadius)
	if dstEdge == datastructure.NO_EDGE {
		return 0, 0, util.WrapErrorf(ErrNoNearbyRoad, util.ErrNotFound,
			"no road near destination %f,%f", dstLat, dstLon)
	}

	source := rs.closerEndpoint(origEdge, origLat, origLon)
	target := rs.closerEndpoint(dstEdge, dstLat, dstLon)
	return source, target, nil
}

// closerEndpoint picks the edge endpoint nearer to the query coordinate.
func (rs *RoutingService) closerEndpoint(edgeId datastructure.Index, qLat, qLon float64) datastructure.Index {
	edge := rs.graph.GetEdge(edgeId)

	tailLat, tailLon := rs.graph.GetVertexCoordinates(edge.GetTail())
	headLat, headLon := rs.graph.GetVertexCoordinates(edge.GetHead())

	tailDist := geo.CalculateHaversineDistance(qLat, qLon, tailLat, tailLon)
	headDist := geo.CalculateHaversineDistance(qLat, qLon, headLat, headLon)

	if tailDist <= headDist {
		return edge.GetTail()
	}
	return edge.GetHead()
}
