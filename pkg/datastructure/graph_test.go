package datastructure

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lintang-b-s/waymatch/pkg"
)

func buildSmallGraph() *Graph {
	vertices := []Vertex{
		NewVertex(-7.7956, 110.3695, 0, 100),
		NewVertex(-7.7956, 110.3705, 1, 101),
		NewVertex(-7.7946, 110.3705, 2, 102),
	}
	edges := []Edge{
		NewEdge(0, 0, 1, 10, 110, 1000, pkg.RESIDENTIAL),
		NewEdge(1, 1, 2, 10, 110, 1001, pkg.TERTIARY),
		NewEdge(2, 2, 0, 15, 160, 1002, pkg.RESIDENTIAL),
		NewEdge(3, 1, 0, 10, 110, 1000, pkg.RESIDENTIAL),
	}
	return NewGraph(vertices, edges, nil)
}

func TestGraphAdjacency(t *testing.T) {
	g := buildSmallGraph()

	require.Equal(t, 3, g.NumberOfVertices())
	require.Equal(t, 4, g.NumberOfEdges())

	leaving := make(map[Index][]Index)
	for v := Index(0); v < 3; v++ {
		g.ForEdgesLeaving(v, func(e *Edge) {
			require.Equal(t, v, e.GetTail())
			leaving[v] = append(leaving[v], e.GetEdgeID())
		})
	}
	require.ElementsMatch(t, []Index{0}, leaving[0])
	require.ElementsMatch(t, []Index{1, 3}, leaving[1])
	require.ElementsMatch(t, []Index{2}, leaving[2])

	entering := make(map[Index][]Index)
	for v := Index(0); v < 3; v++ {
		g.ForEdgesEntering(v, func(e *Edge) {
			require.Equal(t, v, e.GetHead())
			entering[v] = append(entering[v], e.GetEdgeID())
		})
	}
	require.ElementsMatch(t, []Index{2, 3}, entering[0])
	require.ElementsMatch(t, []Index{0}, entering[1])
	require.ElementsMatch(t, []Index{1}, entering[2])
}

func TestGraphGeometryFallback(t *testing.T) {
	g := buildSmallGraph()

	coords := g.GetEdgeGeometry(0)
	require.Len(t, coords, 2)

	tailLat, tailLon := g.GetVertexCoordinates(0)
	require.Equal(t, tailLat, coords[0].GetLat())
	require.Equal(t, tailLon, coords[0].GetLon())
}
