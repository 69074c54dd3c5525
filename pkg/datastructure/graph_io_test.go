package datastructure

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lintang-b-s/waymatch/pkg/geo"
)

func TestGraphWriteRead(t *testing.T) {
	geometries := [][]geo.Coordinate{
		{geo.NewCoordinate(-7.7956, 110.3695), geo.NewCoordinate(-7.7955, 110.3700),
			geo.NewCoordinate(-7.7956, 110.3705)},
		nil,
		nil,
		nil,
	}
	vertices := []Vertex{
		NewVertex(-7.7956, 110.3695, 0, 100),
		NewVertex(-7.7956, 110.3705, 1, 101),
		NewVertex(-7.7946, 110.3705, 2, 102),
	}
	edges := []Edge{
		NewEdge(0, 0, 1, 10, 110, 1000, 5),
		NewEdge(1, 1, 2, 10, 110, 1001, 4),
		NewEdge(2, 2, 0, 15, 160, 1002, 5),
		NewEdge(3, 1, 0, 10, 110, 1000, 5),
	}
	g := NewGraph(vertices, edges, geometries)

	path := filepath.Join(t.TempDir(), "test.graph")
	require.NoError(t, g.WriteGraph(path))

	got, err := ReadGraph(path)
	require.NoError(t, err)

	require.Equal(t, g.NumberOfVertices(), got.NumberOfVertices())
	require.Equal(t, g.NumberOfEdges(), got.NumberOfEdges())

	for i := 0; i < g.NumberOfEdges(); i++ {
		want := g.GetEdge(Index(i))
		have := got.GetEdge(Index(i))
		require.Equal(t, want.GetTail(), have.GetTail())
		require.Equal(t, want.GetHead(), have.GetHead())
		require.InDelta(t, want.GetWeight(), have.GetWeight(), 1e-9)
		require.InDelta(t, want.GetDist(), have.GetDist(), 1e-9)
		require.Equal(t, want.GetWayID(), have.GetWayID())
		require.Equal(t, want.GetHighwayType(), have.GetHighwayType())
	}

	// polyline codec stores 5 decimal places
	coords := got.GetEdgeGeometry(0)
	require.Len(t, coords, 3)
	require.InDelta(t, -7.7955, coords[1].GetLat(), 1e-4)
	require.InDelta(t, 110.3700, coords[1].GetLon(), 1e-4)

	for i := 0; i < g.NumberOfVertices(); i++ {
		wantLat, wantLon := g.GetVertexCoordinates(Index(i))
		haveLat, haveLon := got.GetVertexCoordinates(Index(i))
		require.InDelta(t, wantLat, haveLat, 1e-6)
		require.InDelta(t, wantLon, haveLon, 1e-6)
		require.Equal(t, g.GetVertex(Index(i)).GetOsmID(), got.GetVertex(Index(i)).GetOsmID())
	}
}
