package routing

import (
	"github.com/lintang-b-s/waymatch/pkg"
	"github.com/lintang-b-s/waymatch/pkg/datastructure"
	"github.com/lintang-b-s/waymatch/pkg/util"
)

// Dijkstra plain single-direction dijkstra over the same graph and cost oracle.
// kept as the reference the bidirectional search is cross-checked against.
type Dijkstra struct {
	graph  Graph
	costFn CostFunction
}

func NewDijkstra(graph Graph, costFn CostFunction) *Dijkstra {
	return &Dijkstra{
		graph:  graph,
		costFn: costFn,
	}
}

type cameFromPair struct {
	edge datastructure.Index
	node datastructure.Index
}

func (d *Dijkstra) FindPath(source, target datastructure.Index) (Path, error) {
	if source == target {
		return newPath([]datastructure.Index{}, 0, 0), nil
	}

	dist := make(map[datastructure.Index]float64)
	cameFrom := make(map[datastructure.Index]cameFromPair)
	settled := make(map[datastructure.Index]struct{})

	pq := datastructure.NewBinaryHeap[datastructure.Index]()
	pqNodes := make(map[datastructure.Index]*datastructure.PriorityQueueNode[datastructure.Index])

	dist[source] = 0
	cameFrom[source] = cameFromPair{edge: datastructure.NO_EDGE, node: -1}
	sourceNode := datastructure.NewPriorityQueueNode(0, source)
	pqNodes[source] = sourceNode
	pq.Insert(sourceNode)

	for !pq.IsEmpty() {
		minNode, _ := pq.ExtractMin()
		u := minNode.GetItem()
		if _, ok := settled[u]; ok {
			continue
		}
		settled[u] = struct{}{}

		if u == target {
			break
		}

		enteringEdge := cameFrom[u].edge

		d.graph.ForEdgesLeaving(u, func(e *datastructure.Edge) {
			cost := d.costFn.GetWeight(e, false, enteringEdge)
			newDist := dist[u] + cost
			if newDist >= pkg.INF_WEIGHT {
				return
			}

			v := e.GetHead()
			old, visited := dist[v]
			if !visited {
				dist[v] = newDist
				cameFrom[v] = cameFromPair{edge: e.GetEdgeID(), node: u}
				vNode := datastructure.NewPriorityQueueNode(newDist, v)
				pqNodes[v] = vNode
				pq.Insert(vNode)
			} else if newDist < old {
				dist[v] = newDist
				cameFrom[v] = cameFromPair{edge: e.GetEdgeID(), node: u}
				pq.DecreaseKey(pqNodes[v], newDist)
			}
		})
	}

	if _, ok := settled[target]; !ok {
		return Path{}, util.WrapErrorf(ErrPathNotFound, util.ErrNotFound,
			"no path from vertex %d to vertex %d", source, target)
	}

	edges := make([]datastructure.Index, 0, 16)
	totalDist := 0.0
	for at := target; ; {
		prev := cameFrom[at]
		if prev.edge == datastructure.NO_EDGE {
			break
		}
		edges = append(edges, prev.edge)
		totalDist += d.graph.GetEdge(prev.edge).GetDist()
		at = prev.node
	}
	edges = util.ReverseG(edges)

	return newPath(edges, dist[target], totalDist), nil
}
