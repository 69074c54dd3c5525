package routing

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lintang-b-s/waymatch/pkg"
	"github.com/lintang-b-s/waymatch/pkg/costfunction"
	"github.com/lintang-b-s/waymatch/pkg/datastructure"
)

// buildTestGraph vertices on a small grid around jogja, one directed edge per
// entry in arcs. weight doubles as length so fastest and shortest agree.
func buildTestGraph(numVertices int, arcs [][3]float64) *datastructure.Graph {
	vertices := make([]datastructure.Vertex, numVertices)
	for i := 0; i < numVertices; i++ {
		lat := -7.7956 + float64(i/10)*0.001
		lon := 110.3695 + float64(i%10)*0.001
		vertices[i] = datastructure.NewVertex(lat, lon, datastructure.Index(i), int64(i))
	}

	edges := make([]datastructure.Edge, 0, len(arcs))
	for i, a := range arcs {
		edges = append(edges, datastructure.NewEdge(datastructure.Index(i),
			datastructure.Index(a[0]), datastructure.Index(a[1]), a[2], a[2]*10,
			int64(i), pkg.RESIDENTIAL))
	}

	return datastructure.NewGraph(vertices, edges, nil)
}

func TestBidirectionalDijkstraDiamond(t *testing.T) {
	// 0 ->(1) 1 ->(1) 3 is shorter than 0 ->(4) 2 ->(1) 3
	g := buildTestGraph(4, [][3]float64{
		{0, 1, 1},
		{0, 2, 4},
		{1, 3, 1},
		{2, 3, 1},
	})

	router := NewBidirectionalDijkstra(g, costfunction.NewFastestCostFunction(), NodeBased)
	path, err := router.FindPath(0, 3)
	require.NoError(t, err)
	require.Equal(t, []datastructure.Index{0, 2}, path.GetEdges())
	require.InDelta(t, 2.0, path.GetWeight(), 1e-9)
	require.InDelta(t, 20.0, path.GetDist(), 1e-9)
}

func TestBidirectionalDijkstraSourceEqualsTarget(t *testing.T) {
	g := buildTestGraph(2, [][3]float64{{0, 1, 1}})

	router := NewBidirectionalDijkstra(g, costfunction.NewFastestCostFunction(), NodeBased)
	path, err := router.FindPath(1, 1)
	require.NoError(t, err)
	require.Empty(t, path.GetEdges())
	require.Equal(t, 0.0, path.GetWeight())
}

func TestBidirectionalDijkstraNoPath(t *testing.T) {
	// only edge goes 1 -> 0, so 0 cannot reach 1
	g := buildTestGraph(2, [][3]float64{{1, 0, 1}})

	router := NewBidirectionalDijkstra(g, costfunction.NewFastestCostFunction(), NodeBased)
	_, err := router.FindPath(0, 1)
	require.ErrorIs(t, err, ErrPathNotFound)
	require.Contains(t, err.Error(), "no path from vertex 0 to vertex 1")
}

func TestBidirectionalDijkstraDisconnectedTerminates(t *testing.T) {
	// two components, both frontiers must exhaust without hanging
	g := buildTestGraph(6, [][3]float64{
		{0, 1, 1},
		{1, 2, 1},
		{2, 0, 1},
		{3, 4, 1},
		{4, 5, 1},
		{5, 3, 1},
	})

	router := NewBidirectionalDijkstra(g, costfunction.NewFastestCostFunction(), NodeBased)
	_, err := router.FindPath(0, 5)
	require.ErrorIs(t, err, ErrPathNotFound)
}

func TestBidirectionalDijkstraSingleUse(t *testing.T) {
	g := buildTestGraph(2, [][3]float64{{0, 1, 1}})

	router := NewBidirectionalDijkstra(g, costfunction.NewFastestCostFunction(), NodeBased)
	_, err := router.FindPath(0, 1)
	require.NoError(t, err)

	_, err = router.FindPath(0, 1)
	require.Error(t, err)
}

// two fresh searches over an unmodified graph must agree, in both modes.
func TestBidirectionalDijkstraRepeatedQueriesAgree(t *testing.T) {
	g := buildTestGraph(6, [][3]float64{
		{0, 1, 1},
		{1, 2, 2},
		{0, 3, 2},
		{3, 2, 2},
		{2, 4, 1},
		{4, 5, 3},
	})
	costFn := costfunction.NewFastestCostFunction()

	for _, mode := range []TraversalMode{NodeBased, EdgeBasedDirectionSensitive} {
		first, err := NewBidirectionalDijkstra(g, costFn, mode).FindPath(0, 5)
		require.NoError(t, err)

		second, err := NewBidirectionalDijkstra(g, costFn, mode).FindPath(0, 5)
		require.NoError(t, err)

		require.Equal(t, first.GetWeight(), second.GetWeight())
		require.Equal(t, first.GetEdges(), second.GetEdges())
	}
}

// meeting vertex lies in the middle of the optimal path, the edge there must
// not be reported twice by the extractor.
func TestBidirectionalDijkstraSeamNoDuplicateEdge(t *testing.T) {
	g := buildTestGraph(5, [][3]float64{
		{0, 1, 1},
		{1, 2, 1},
		{2, 3, 1},
		{3, 4, 1},
	})

	for _, mode := range []TraversalMode{NodeBased, EdgeBasedDirectionSensitive} {
		t.Run(mode.String(), func(t *testing.T) {
			router := NewBidirectionalDijkstra(g, costfunction.NewFastestCostFunction(), mode)
			path, err := router.FindPath(0, 4)
			require.NoError(t, err)
			require.Equal(t, []datastructure.Index{0, 1, 2, 3}, path.GetEdges())

			seen := make(map[datastructure.Index]struct{})
			for _, e := range path.GetEdges() {
				_, dup := seen[e]
				require.False(t, dup, "edge %d appears twice", e)
				seen[e] = struct{}{}
			}
			require.InDelta(t, 4.0, path.GetWeight(), 1e-9)
		})
	}
}

func TestBidirectionalDijkstraEdgeBasedTurnRestriction(t *testing.T) {
	// grid detour: 0 -> 1 -> 3 forbidden at vertex 1, forcing 0 -> 1 -> 2 -> 3.
	arcs := [][3]float64{
		{0, 1, 1}, // edge 0
		{1, 3, 1}, // edge 1, restricted after edge 0
		{1, 2, 1}, // edge 2
		{2, 3, 1}, // edge 3
	}
	g := buildTestGraph(4, arcs)

	costFn := costfunction.NewTurnCostFunction(g)
	costFn.AddRestriction(0, 1)

	router := NewBidirectionalDijkstra(g, costFn, EdgeBasedDirectionSensitive)
	path, err := router.FindPath(0, 3)
	require.NoError(t, err)
	require.Equal(t, []datastructure.Index{0, 2, 3}, path.GetEdges())

	// node based search has no turn context, it would take the direct arcs
	nodeRouter := NewBidirectionalDijkstra(g, costfunction.NewFastestCostFunction(), NodeBased)
	nodePath, err := nodeRouter.FindPath(0, 3)
	require.NoError(t, err)
	require.Equal(t, []datastructure.Index{0, 1}, nodePath.GetEdges())
}

func TestBidirectionalDijkstraEdgeBasedAllTurnsRestricted(t *testing.T) {
	arcs := [][3]float64{
		{0, 1, 1},
		{1, 2, 1},
	}
	g := buildTestGraph(3, arcs)

	costFn := costfunction.NewTurnCostFunction(g)
	costFn.AddRestriction(0, 1)

	router := NewBidirectionalDijkstra(g, costFn, EdgeBasedDirectionSensitive)
	_, err := router.FindPath(0, 2)
	require.ErrorIs(t, err, ErrPathNotFound)
}

func TestBidirectionalDijkstraUTurnForbidden(t *testing.T) {
	// direct turn at vertex 1 is restricted. the only remaining route needs a
	// u-turn on the 1<->2 pair, which is forbidden too, so no path exists.
	arcs := [][3]float64{
		{0, 1, 1}, // edge 0
		{1, 2, 1}, // edge 1
		{2, 1, 1}, // edge 2, reverse pair of edge 1
		{1, 3, 1}, // edge 3
	}
	g := buildTestGraph(4, arcs)

	costFn := costfunction.NewTurnCostFunction(g)
	costFn.AddRestriction(0, 3)

	router := NewBidirectionalDijkstra(g, costFn, EdgeBasedDirectionSensitive)
	_, err := router.FindPath(0, 3)
	require.ErrorIs(t, err, ErrPathNotFound)
}

// random graphs, bidirectional result must match plain dijkstra.
func TestBidirectionalDijkstraAgainstDijkstra(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 20; trial++ {
		numVertices := 30 + rng.Intn(30)
		numArcs := numVertices * 3
		arcs := make([][3]float64, 0, numArcs)
		for i := 0; i < numArcs; i++ {
			tail := rng.Intn(numVertices)
			head := rng.Intn(numVertices)
			if tail == head {
				continue
			}
			w := 1 + rng.Float64()*9
			arcs = append(arcs, [3]float64{float64(tail), float64(head), w})
		}
		g := buildTestGraph(numVertices, arcs)

		for q := 0; q < 10; q++ {
			source := datastructure.Index(rng.Intn(numVertices))
			target := datastructure.Index(rng.Intn(numVertices))

			bidir := NewBidirectionalDijkstra(g, costfunction.NewFastestCostFunction(), NodeBased)
			uni := NewDijkstra(g, costfunction.NewFastestCostFunction())

			bidirPath, bidirErr := bidir.FindPath(source, target)
			uniPath, uniErr := uni.FindPath(source, target)

			if uniErr != nil {
				require.Error(t, bidirErr, "query %d->%d", source, target)
				continue
			}
			require.NoError(t, bidirErr, "query %d->%d", source, target)
			require.InDelta(t, uniPath.GetWeight(), bidirPath.GetWeight(), 1e-6,
				"query %d->%d", source, target)
		}
	}
}

func TestPathCoordinates(t *testing.T) {
	g := buildTestGraph(3, [][3]float64{
		{0, 1, 1},
		{1, 2, 1},
	})

	router := NewBidirectionalDijkstra(g, costfunction.NewFastestCostFunction(), NodeBased)
	path, err := router.FindPath(0, 2)
	require.NoError(t, err)

	coords := path.Coordinates(g)
	require.Len(t, coords, 3)
	lat, lon := g.GetVertexCoordinates(0)
	require.InDelta(t, lat, coords[0].GetLat(), 1e-9)
	require.InDelta(t, lon, coords[0].GetLon(), 1e-9)
}
