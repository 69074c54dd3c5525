package usecases

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lintang-b-s/waymatch/pkg"
	"github.com/lintang-b-s/waymatch/pkg/costfunction"
	"github.com/lintang-b-s/waymatch/pkg/datastructure"
	"github.com/lintang-b-s/waymatch/pkg/engine/routing"
	"github.com/lintang-b-s/waymatch/pkg/geo"
	"github.com/lintang-b-s/waymatch/pkg/spatialindex"
	"github.com/lintang-b-s/waymatch/pkg/util"
)

const (
	testLat     = -7.7956
	testBaseLon = 110.3695
	lonStep     = 0.001
)

// straight two-way street running east, one vertex per 110 m block.
func buildRoutingFixture(t *testing.T) *RoutingService {
	numVertices := 5
	vertices := make([]datastructure.Vertex, numVertices)
	for i := 0; i < numVertices; i++ {
		vertices[i] = datastructure.NewVertex(testLat, testBaseLon+float64(i)*lonStep,
			datastructure.Index(i), int64(i))
	}

	edges := make([]datastructure.Edge, 0, 2*(numVertices-1))
	edgeId := datastructure.Index(0)
	for i := 0; i < numVertices-1; i++ {
		edges = append(edges, datastructure.NewEdge(edgeId,
			datastructure.Index(i), datastructure.Index(i+1), 10, 110,
			int64(100+i), pkg.RESIDENTIAL))
		edgeId++
		edges = append(edges, datastructure.NewEdge(edgeId,
			datastructure.Index(i+1), datastructure.Index(i), 10, 110,
			int64(100+i), pkg.RESIDENTIAL))
		edgeId++
	}

	graph := datastructure.NewGraph(vertices, edges, nil)

	index := spatialindex.NewRtree()
	index.Build(graph, 0.05, zap.NewNop())

	return NewRoutingService(zap.NewNop(), graph, index,
		costfunction.NewFastestCostFunction(), routing.NodeBased, 0.2)
}

func TestShortestPathSnapsAndRoutes(t *testing.T) {
	rs := buildRoutingFixture(t)

	// near vertex 0 to near vertex 4, a few meters off the centerline
	eta, dist, polyline, err := rs.ShortestPath(
		testLat+0.00002, testBaseLon,
		testLat+0.00002, testBaseLon+4*lonStep)
	require.NoError(t, err)

	// 4 edges of 10 s / 110 m each
	require.InDelta(t, util.SecondsToMinutes(40), eta, 1e-9)
	require.InDelta(t, 440.0, dist, 1e-9)

	coords, err := geo.CoordsFromPolyline(polyline)
	require.NoError(t, err)
	require.Len(t, coords, 5)
	require.InDelta(t, testBaseLon, coords[0].GetLon(), 1e-4)
	require.InDelta(t, testBaseLon+4*lonStep, coords[len(coords)-1].GetLon(), 1e-4)
}

func TestShortestPathNoNearbyRoad(t *testing.T) {
	rs := buildRoutingFixture(t)

	_, _, _, err := rs.ShortestPath(testLat+1.0, testBaseLon, testLat, testBaseLon)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrNoNearbyRoad)
}

func TestShortestPathSameSnapPoint(t *testing.T) {
	rs := buildRoutingFixture(t)

	eta, dist, _, err := rs.ShortestPath(
		testLat, testBaseLon,
		testLat+0.00001, testBaseLon)
	require.NoError(t, err)
	require.Zero(t, eta)
	require.Zero(t, dist)
}
