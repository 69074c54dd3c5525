package routing

import (
	"github.com/lintang-b-s/waymatch/pkg/datastructure"
	"github.com/lintang-b-s/waymatch/pkg/geo"
	"github.com/lintang-b-s/waymatch/pkg/util"
)

// Path ordered directed edge sequence from source to target.
type Path struct {
	edges  []datastructure.Index
	weight float64 // seconds
	dist   float64 // meter
}

func newPath(edges []datastructure.Index, weight, dist float64) Path {
	return Path{
		edges:  edges,
		weight: weight,
		dist:   dist,
	}
}

func (p Path) GetEdges() []datastructure.Index {
	return p.edges
}

func (p Path) GetWeight() float64 {
	return p.weight
}

func (p Path) GetDist() float64 {
	return p.dist
}

// Coordinates concatenated edge geometry of the path, source to target.
func (p Path) Coordinates(graph Graph) []geo.Coordinate {
	coords := make([]geo.Coordinate, 0, len(p.edges)*2)
	for i, edgeId := range p.edges {
		edgeCoords := graph.GetEdgeGeometry(edgeId)
		if i > 0 && len(edgeCoords) > 0 {
			// drop the shared endpoint between consecutive edges
			edgeCoords = edgeCoords[1:]
		}
		coords = append(coords, edgeCoords...)
	}
	return coords
}

/*
extractPath walk the forward chain from the meeting label back to the source
root (reverse of travel order, flipped afterwards), then the backward chain
from its meeting label back to the target root (already in travel order since
the backward frontier walked edges against their direction), and concatenate.
the edge-based seam correction already happened inside updateBestPath, so the
two chains never share an edge here. pure over the captured label chains.
*/
func (b *BidirectionalDijkstra) extractPath() Path {
	edges := make([]datastructure.Index, 0, 16)

	for h := b.meetFrom; h != invalidLabel; h = b.from.arena[h].parent {
		if b.from.arena[h].edge != datastructure.NO_EDGE {
			edges = append(edges, b.from.arena[h].edge)
		}
	}
	edges = util.ReverseG(edges)

	for h := b.meetTo; h != invalidLabel; h = b.to.arena[h].parent {
		if b.to.arena[h].edge != datastructure.NO_EDGE {
			edges = append(edges, b.to.arena[h].edge)
		}
	}

	dist := 0.0
	for _, edgeId := range edges {
		dist += b.graph.GetEdge(edgeId).GetDist()
	}

	return newPath(edges, b.mu, dist)
}
