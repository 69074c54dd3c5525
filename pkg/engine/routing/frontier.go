package routing

import (
	"math"

	"github.com/lintang-b-s/waymatch/pkg"
	"github.com/lintang-b-s/waymatch/pkg/datastructure"
	"github.com/lintang-b-s/waymatch/pkg/util"
)

// labelHandle dense index into a frontier's label arena. labels reference their
// parent by handle, never by pointer, so a finished search drops the whole
// arena in one go.
type labelHandle = int32

const invalidLabel labelHandle = -1

// label search-state record: the edge used to reach node, the accumulated
// weight from this frontier's origin, and the handle of the label it was
// relaxed from. edge/weight/parent are overwritten in place on decrease-key.
type label struct {
	edge   datastructure.Index
	node   datastructure.Index
	weight float64
	parent labelHandle
	pqNode *datastructure.PriorityQueueNode[labelHandle]
}

// frontier one directional half of the bidirectional search: an open set
// ordered by accumulated weight plus a best-known-weight index keyed by
// traversal key. owned and mutated only by its own expansion step.
type frontier struct {
	arena   []label
	best    map[int64]labelHandle
	queue   *datastructure.MinHeap[labelHandle]
	mode    TraversalMode
	reverse bool // true for the backward frontier, scans incoming edges

	// weight of the most recently popped label, drives the termination bound
	currWeight   float64
	visitedCount int
}

func newFrontier(mode TraversalMode, reverse bool) *frontier {
	return &frontier{
		arena:   make([]label, 0, 256),
		best:    make(map[int64]labelHandle),
		queue:   newBinaryHeapQueue(),
		mode:    mode,
		reverse: reverse,
	}
}

func newBinaryHeapQueue() *datastructure.MinHeap[labelHandle] {
	return datastructure.NewBinaryHeap[labelHandle]()
}

func (f *frontier) newLabel(edge, node datastructure.Index, weight float64,
	parent labelHandle) labelHandle {
	h := labelHandle(len(f.arena))
	f.arena = append(f.arena, label{
		edge:   edge,
		node:   node,
		weight: weight,
		parent: parent,
		pqNode: datastructure.NewPriorityQueueNode(weight, h),
	})
	return h
}

// init create the root label for origin with the given start weight and make
// the frontier non-empty.
func (f *frontier) init(origin datastructure.Index, startWeight float64) {
	root := f.newLabel(datastructure.NO_EDGE, origin, startWeight, invalidLabel)
	f.queue.Insert(f.arena[root].pqNode)
	if f.mode.keyedAtInit() {
		f.best[f.mode.traversalKey(datastructure.NO_EDGE, origin)] = root
	}
	f.currWeight = startWeight
}

// expandOne pop the minimum-weight label and relax all its neighbors. meet is
// invoked for every created or improved label so the controller can probe the
// opposite frontier. returns false when the open set is exhausted.
func (f *frontier) expandOne(graph Graph, costFn CostFunction,
	meet func(h labelHandle, key int64)) (bool, error) {
	if f.queue.IsEmpty() {
		return false, nil
	}

	popped, _ := f.queue.ExtractMin()
	curr := popped.GetItem()
	currEdge := f.arena[curr].edge
	currNode := f.arena[curr].node
	currWeight := f.arena[curr].weight

	f.currWeight = currWeight
	f.visitedCount++

	var relaxErr error
	relax := func(e *datastructure.Edge) {
		if relaxErr != nil {
			return
		}

		cost := costFn.GetWeight(e, f.reverse, currEdge)
		if cost < 0 || math.IsNaN(cost) {
			relaxErr = util.WrapErrorf(ErrInvalidCost, util.ErrInternalServerError,
				"cost oracle returned %f for edge %d", cost, e.GetEdgeID())
			return
		}
		tentative := cost + currWeight
		if tentative >= pkg.INF_WEIGHT {
			// forbidden turn or impassable edge
			return
		}

		adjNode := e.GetHead()
		if f.reverse {
			adjNode = e.GetTail()
		}

		key := f.mode.traversalKey(e.GetEdgeID(), adjNode)
		h, seen := f.best[key]
		if !seen {
			h = f.newLabel(e.GetEdgeID(), adjNode, tentative, curr)
			f.best[key] = h
			f.queue.Insert(f.arena[h].pqNode)
		} else if f.arena[h].weight > tentative {
			lb := &f.arena[h]
			lb.edge = e.GetEdgeID()
			lb.weight = tentative
			lb.parent = curr
			f.queue.DecreaseKey(lb.pqNode, tentative)
		} else {
			// existing label is at least as good, drop the relaxed state
			return
		}

		meet(h, key)
	}

	if f.reverse {
		graph.ForEdgesEntering(currNode, relax)
	} else {
		graph.ForEdgesLeaving(currNode, relax)
	}

	if relaxErr != nil {
		return false, relaxErr
	}
	return true, nil
}

func (f *frontier) lookup(key int64) (labelHandle, bool) {
	h, ok := f.best[key]
	return h, ok
}
