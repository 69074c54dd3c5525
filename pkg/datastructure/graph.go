package datastructure

import (
	"sort"

	"github.com/lintang-b-s/waymatch/pkg"
	"github.com/lintang-b-s/waymatch/pkg/geo"
)

type Index int32

// NO_EDGE sentinel edge id for the root search label (no edge was traversed to reach it).
const NO_EDGE Index = -1

type Vertex struct {
	lat      float64
	lon      float64
	firstOut Index // index of the first outEdge of this vertex in the flattened graph.outEdges array
	firstIn  Index // index of the first inEdge of this vertex in the flattened graph.inEdges array
	id       Index
	osmId    int64
}

func NewVertex(lat, lon float64, id Index, osmId int64) Vertex {
	return Vertex{
		lat:   lat,
		lon:   lon,
		id:    id,
		osmId: osmId,
	}
}

func (v *Vertex) GetID() Index {
	return v.id
}

func (v *Vertex) GetLat() float64 {
	return v.lat
}

func (v *Vertex) GetLon() float64 {
	return v.lon
}

func (v *Vertex) GetOsmID() int64 {
	return v.osmId
}

func (v *Vertex) SetFirstOut(firstOut Index) {
	v.firstOut = firstOut
}

func (v *Vertex) SetFirstIn(firstIn Index) {
	v.firstIn = firstIn
}

// Edge one directed road segment. every directed edge has a unique edgeId shared
// between its outEdges entry (indexed by tail) and its inEdges entry (indexed by head).
type Edge struct {
	edgeId Index
	tail   Index
	head   Index
	weight float64 // travel time, seconds
	dist   float64 // meter
	wayId  int64   // openstreetmap way id of this segment
	hwType pkg.OsmHighwayType
}

func NewEdge(edgeId, tail, head Index, weight, dist float64, wayId int64,
	hwType pkg.OsmHighwayType) Edge {
	return Edge{
		edgeId: edgeId,
		tail:   tail,
		head:   head,
		weight: weight,
		dist:   dist,
		wayId:  wayId,
		hwType: hwType,
	}
}

func (e *Edge) GetEdgeID() Index {
	return e.edgeId
}

func (e *Edge) GetTail() Index {
	return e.tail
}

func (e *Edge) GetHead() Index {
	return e.head
}

func (e *Edge) GetWeight() float64 {
	return e.weight
}

func (e *Edge) GetDist() float64 {
	return e.dist
}

func (e *Edge) GetWayID() int64 {
	return e.wayId
}

func (e *Edge) GetHighwayType() pkg.OsmHighwayType {
	return e.hwType
}

// Graph static road network. adjacency stored compressed-sparse-row style:
// outEdges sorted by tail, inEdges sorted by head, vertices keep the offset of
// their first out/in edge.
type Graph struct {
	vertices   []Vertex
	edges      []Edge  // indexed by edgeId
	outEdges   []Index // edge ids sorted by tail
	inEdges    []Index // edge ids sorted by head
	geometries [][]geo.Coordinate
}

func NewGraph(vertices []Vertex, edges []Edge, geometries [][]geo.Coordinate) *Graph {
	g := &Graph{
		vertices:   vertices,
		edges:      edges,
		geometries: geometries,
	}
	g.buildAdjacency()
	return g
}

func (g *Graph) buildAdjacency() {
	sort.Slice(g.edges, func(i, j int) bool {
		return g.edges[i].edgeId < g.edges[j].edgeId
	})

	g.outEdges = make([]Index, len(g.edges))
	g.inEdges = make([]Index, len(g.edges))
	for i := range g.edges {
		g.outEdges[i] = g.edges[i].edgeId
		g.inEdges[i] = g.edges[i].edgeId
	}

	sort.Slice(g.outEdges, func(i, j int) bool {
		return g.edges[g.outEdges[i]].tail < g.edges[g.outEdges[j]].tail
	})
	sort.Slice(g.inEdges, func(i, j int) bool {
		return g.edges[g.inEdges[i]].head < g.edges[g.inEdges[j]].head
	})

	// scan once to fill firstOut/firstIn offsets of every vertex
	pos := 0
	for v := range g.vertices {
		g.vertices[v].SetFirstOut(Index(pos))
		for pos < len(g.outEdges) && g.edges[g.outEdges[pos]].tail == Index(v) {
			pos++
		}
	}
	pos = 0
	for v := range g.vertices {
		g.vertices[v].SetFirstIn(Index(pos))
		for pos < len(g.inEdges) && g.edges[g.inEdges[pos]].head == Index(v) {
			pos++
		}
	}
}

func (g *Graph) NumberOfVertices() int {
	return len(g.vertices)
}

func (g *Graph) NumberOfEdges() int {
	return len(g.edges)
}

func (g *Graph) GetVertex(v Index) *Vertex {
	return &g.vertices[v]
}

func (g *Graph) GetVertexCoordinates(v Index) (float64, float64) {
	return g.vertices[v].lat, g.vertices[v].lon
}

func (g *Graph) GetEdge(edgeId Index) *Edge {
	return &g.edges[edgeId]
}

// GetEdgeGeometry. edge shape points from tail to head, endpoints included.
func (g *Graph) GetEdgeGeometry(edgeId Index) []geo.Coordinate {
	if int(edgeId) < len(g.geometries) && len(g.geometries[edgeId]) >= 2 {
		return g.geometries[edgeId]
	}
	e := &g.edges[edgeId]
	tailLat, tailLon := g.GetVertexCoordinates(e.tail)
	headLat, headLon := g.GetVertexCoordinates(e.head)
	return []geo.Coordinate{geo.NewCoordinate(tailLat, tailLon), geo.NewCoordinate(headLat, headLon)}
}

func (g *Graph) outEdgeRange(v Index) (Index, Index) {
	lo := g.vertices[v].firstOut
	hi := Index(len(g.outEdges))
	if int(v)+1 < len(g.vertices) {
		hi = g.vertices[v+1].firstOut
	}
	return lo, hi
}

func (g *Graph) inEdgeRange(v Index) (Index, Index) {
	lo := g.vertices[v].firstIn
	hi := Index(len(g.inEdges))
	if int(v)+1 < len(g.vertices) {
		hi = g.vertices[v+1].firstIn
	}
	return lo, hi
}

// ForEdgesLeaving iterate all outgoing edges of v. restartable, no allocation.
func (g *Graph) ForEdgesLeaving(v Index, fn func(e *Edge)) {
	lo, hi := g.outEdgeRange(v)
	for i := lo; i < hi; i++ {
		fn(&g.edges[g.outEdges[i]])
	}
}

// ForEdgesEntering iterate all incoming edges of v. restartable, no allocation.
func (g *Graph) ForEdgesEntering(v Index, fn func(e *Edge)) {
	lo, hi := g.inEdgeRange(v)
	for i := lo; i < hi; i++ {
		fn(&g.edges[g.inEdges[i]])
	}
}

// ForEdges iterate every directed edge with its progress percentage, for index builds.
func (g *Graph) ForEdges(fn func(e *Edge, percentage float64)) {
	for i := range g.edges {
		fn(&g.edges[i], float64(i)/float64(len(g.edges))*100.0)
	}
}
