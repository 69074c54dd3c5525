package routing

import (
	"github.com/lintang-b-s/waymatch/pkg/datastructure"
)

// TraversalMode how search states are deduplicated in the best-weight index.
type TraversalMode uint8

const (
	// NodeBased classical dijkstra: at most one best label per node, turn context ignored.
	NodeBased TraversalMode = iota
	// EdgeBasedDirectionSensitive state identity is the directed edge used to
	// arrive, so two different approach edges into the same node stay separate
	// labels and turn restrictions can be priced per approach.
	EdgeBasedDirectionSensitive
)

func (m TraversalMode) String() string {
	if m == NodeBased {
		return "node_based"
	}
	return "edge_based_direction_sensitive"
}

// traversalKey identity of a relaxed state in the best-weight index. every
// edge of this graph is directed and owns a unique id, so the directed-edge
// key is the arrival edge id itself.
func (m TraversalMode) traversalKey(edgeId, node datastructure.Index) int64 {
	if m == NodeBased {
		return int64(node)
	}
	return int64(edgeId)
}

// keyedAtInit node-based roots are indexed under their node id right away;
// edge-based roots have no arrival edge and live only in the open set.
func (m TraversalMode) keyedAtInit() bool {
	return m == NodeBased
}
