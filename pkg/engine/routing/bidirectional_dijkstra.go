package routing

import (
	"github.com/lintang-b-s/waymatch/pkg"
	"github.com/lintang-b-s/waymatch/pkg/datastructure"
	"github.com/lintang-b-s/waymatch/pkg/util"
)

type searchState uint8

const (
	notStarted searchState = iota
	running
	finished
)

/*
BidirectionalDijkstra plain bidirectional dijkstra, one frontier expanding from
the source over outgoing edges and one from the target over incoming edges.

every relaxation probes the opposite frontier's best-weight index; when the
relaxed traversal key exists on the other side the combined weight is a
candidate for the best complete path weight mu. the search stops once either
frontier exhausts its open set or the sum of both frontiers' current minimum
weights reaches mu: with non-negative edge costs no unexplored state can then
improve on the best path found (see the stopping criterion in
http://www.cs.princeton.edu/courses/archive/spr06/cos423/Handouts/EPP%20shortest%20path%20algorithms.pdf).

a search instance is single-use and single-threaded; run one instance per
query. the graph and cost oracle are only read, so many instances may share
them across goroutines.
*/
type BidirectionalDijkstra struct {
	graph  Graph
	costFn CostFunction
	mode   TraversalMode

	from *frontier
	to   *frontier

	state searchState

	// mu best complete path weight found so far, +inf until the frontiers meet.
	// monotonically non-increasing.
	mu       float64
	meetFrom labelHandle
	meetTo   labelHandle

	finishedFrom bool
	finishedTo   bool
}

func NewBidirectionalDijkstra(graph Graph, costFn CostFunction,
	mode TraversalMode) *BidirectionalDijkstra {
	return &BidirectionalDijkstra{
		graph:    graph,
		costFn:   costFn,
		mode:     mode,
		from:     newFrontier(mode, false),
		to:       newFrontier(mode, true),
		state:    notStarted,
		mu:       pkg.INF_WEIGHT,
		meetFrom: invalidLabel,
		meetTo:   invalidLabel,
	}
}

// FindPath shortest path from source to target. returns ErrPathNotFound when
// source and target live in different components (wrapped with query context).
func (b *BidirectionalDijkstra) FindPath(source, target datastructure.Index) (Path, error) {
	if b.state != notStarted {
		return Path{}, util.WrapErrorf(nil, util.ErrConflict,
			"bidirectional search instance is single-use")
	}
	b.state = running

	if source == target {
		b.state = finished
		return newPath([]datastructure.Index{}, 0, 0), nil
	}

	b.from.init(source, 0)
	b.to.init(target, 0)

	for !b.finished() {
		if !b.finishedFrom {
			ok, err := b.from.expandOne(b.graph, b.costFn, func(h labelHandle, key int64) {
				b.updateBestPath(false, h, key)
			})
			if err != nil {
				return Path{}, err
			}
			b.finishedFrom = !ok
		}
		if !b.finishedTo {
			ok, err := b.to.expandOne(b.graph, b.costFn, func(h labelHandle, key int64) {
				b.updateBestPath(true, h, key)
			})
			if err != nil {
				return Path{}, err
			}
			b.finishedTo = !ok
		}
	}
	b.state = finished

	if b.mu >= pkg.INF_WEIGHT || b.meetFrom == invalidLabel || b.meetTo == invalidLabel {
		return Path{}, util.WrapErrorf(ErrPathNotFound, util.ErrNotFound,
			"no path from vertex %d to vertex %d", source, target)
	}

	return b.extractPath(), nil
}

// finished termination predicate. a meeting key is probed on every relaxation,
// so once currFrom.weight + currTo.weight >= mu no unexplored label pair can
// beat the recorded best path (non-negative weights).
func (b *BidirectionalDijkstra) finished() bool {
	if b.finishedFrom || b.finishedTo {
		return true
	}

	return b.from.currWeight+b.to.currWeight >= b.mu
}

/*
updateBestPath meeting-point reconciliation. the expanding frontier just created
or improved label h under key; if the opposite frontier also holds key, the two
label chains form a complete candidate path.

in edge-based traversal both labels may have been reached via the very same
directed edge; summing their weights would count that edge twice (once
approached from each side). the forward-side label is therefore replaced by its
own parent before summing, which hands the shared edge to the backward chain.
search roots never trigger this: their edge is NO_EDGE, which is excluded from
the edge-based index by construction.
*/
func (b *BidirectionalDijkstra) updateBestPath(reverse bool, h labelHandle, key int64) {
	own, other := b.from, b.to
	if reverse {
		own, other = b.to, b.from
	}

	otherH, ok := other.lookup(key)
	if !ok {
		return
	}

	fromH, toH := h, otherH
	if reverse {
		fromH, toH = otherH, h
	}

	if b.mode == EdgeBasedDirectionSensitive &&
		own.arena[h].edge == other.arena[otherH].edge {
		// prevents the path to contain the edge at the meeting point twice
		fromH = b.from.arena[fromH].parent
		if fromH == invalidLabel {
			return
		}
	}

	newWeight := b.from.arena[fromH].weight + b.to.arena[toH].weight
	if newWeight < b.mu {
		b.mu = newWeight
		b.meetFrom = fromH
		b.meetTo = toH
	}
}

// VisitedNodeCountForward number of labels settled by the forward frontier.
// diagnostic only.
func (b *BidirectionalDijkstra) VisitedNodeCountForward() int {
	return b.from.visitedCount
}

// VisitedNodeCountBackward number of labels settled by the backward frontier.
func (b *BidirectionalDijkstra) VisitedNodeCountBackward() int {
	return b.to.visitedCount
}
