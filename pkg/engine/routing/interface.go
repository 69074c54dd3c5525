package routing

import (
	"github.com/lintang-b-s/waymatch/pkg/datastructure"
	"github.com/lintang-b-s/waymatch/pkg/geo"
)

// Graph read-only view of the road network consumed by the search. iteration is
// restartable and must be safe for concurrent readers.
type Graph interface {
	NumberOfVertices() int
	GetEdge(edgeId datastructure.Index) *datastructure.Edge
	GetEdgeGeometry(edgeId datastructure.Index) []geo.Coordinate
	ForEdgesLeaving(v datastructure.Index, fn func(e *datastructure.Edge))
	ForEdgesEntering(v datastructure.Index, fn func(e *datastructure.Edge))
}

// CostFunction opaque cost oracle. returns the non-negative cost of traversing
// edge. reverse is true when the backward frontier scans the edge. enteringEdgeId
// is the edge used to reach this traversal (datastructure.NO_EDGE at a search root);
// turn-aware implementations derive turn costs from it, and forbidden turns are
// reported as a cost >= pkg.INF_WEIGHT. negative results are a contract violation.
type CostFunction interface {
	GetWeight(edge *datastructure.Edge, reverse bool, enteringEdgeId datastructure.Index) float64
}

// Router point to point shortest path query.
type Router interface {
	FindPath(source, target datastructure.Index) (Path, error)
}
