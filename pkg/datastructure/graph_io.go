package datastructure

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"github.com/dsnet/compress/bzip2"
	"github.com/lintang-b-s/waymatch/pkg"
	"github.com/lintang-b-s/waymatch/pkg/geo"
)

// WriteGraph serialize the graph to a bzip2 compressed text file. edge geometry
// stored as an encoded polyline (never contains whitespace, safe as the last field).
func (g *Graph) WriteGraph(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	bz, err := bzip2.NewWriter(f, &bzip2.WriterConfig{})
	if err != nil {
		return err
	}
	defer bz.Close()

	w := bufio.NewWriter(bz)

	fmt.Fprintf(w, "%d %d\n", len(g.vertices), len(g.edges))

	for vId := 0; vId < len(g.vertices); vId++ {
		v := g.vertices[vId]
		latF := strconv.FormatFloat(v.lat, 'f', -1, 64)
		lonF := strconv.FormatFloat(v.lon, 'f', -1, 64)

		fmt.Fprintf(w, "%d %s %s %d\n", v.id, latF, lonF, v.osmId)
	}

	for i := range g.edges {
		e := &g.edges[i]
		weightF := strconv.FormatFloat(e.weight, 'f', -1, 64)
		distF := strconv.FormatFloat(e.dist, 'f', -1, 64)

		poly := geo.PolylineFromCoords(g.GetEdgeGeometry(e.edgeId))
		fmt.Fprintf(w, "%d %d %d %s %s %d %d %s\n",
			e.edgeId, e.tail, e.head, weightF, distF, e.wayId, e.hwType, poly)
	}

	return w.Flush()
}

// ReadGraph load a graph previously written by WriteGraph.
func ReadGraph(filename string) (*Graph, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bz, err := bzip2.NewReader(f, &bzip2.ReaderConfig{})
	if err != nil {
		return nil, err
	}
	defer bz.Close()

	r := bufio.NewReader(bz)

	var numVertices, numEdges int
	if _, err := fmt.Fscanf(r, "%d %d\n", &numVertices, &numEdges); err != nil {
		return nil, fmt.Errorf("invalid graph file header: %w", err)
	}

	vertices := make([]Vertex, 0, numVertices)
	for i := 0; i < numVertices; i++ {
		var (
			id       Index
			lat, lon float64
			osmId    int64
		)
		if _, err := fmt.Fscanf(r, "%d %f %f %d\n", &id, &lat, &lon, &osmId); err != nil {
			return nil, fmt.Errorf("invalid vertex line %d: %w", i, err)
		}
		vertices = append(vertices, NewVertex(lat, lon, id, osmId))
	}

	edges := make([]Edge, 0, numEdges)
	geometries := make([][]geo.Coordinate, numEdges)
	for i := 0; i < numEdges; i++ {
		var (
			edgeId, tail, head Index
			weight, dist       float64
			wayId              int64
			hwType             uint8
			poly               string
		)
		if _, err := fmt.Fscanf(r, "%d %d %d %f %f %d %d %s\n",
			&edgeId, &tail, &head, &weight, &dist, &wayId, &hwType, &poly); err != nil {
			return nil, fmt.Errorf("invalid edge line %d: %w", i, err)
		}
		edges = append(edges, NewEdge(edgeId, tail, head, weight, dist, wayId,
			pkg.OsmHighwayType(hwType)))

		coords, err := geo.CoordsFromPolyline(poly)
		if err != nil {
			return nil, fmt.Errorf("invalid edge geometry at line %d: %w", i, err)
		}
		geometries[edgeId] = coords
	}

	return NewGraph(vertices, edges, geometries), nil
}
