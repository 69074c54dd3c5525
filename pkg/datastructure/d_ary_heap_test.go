package datastructure

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMinHeapOrdering(t *testing.T) {
	for _, d := range []int{2, 4} {
		h := NewdAryHeap[int](d)

		rng := rand.New(rand.NewSource(7))
		ranks := make([]float64, 0, 200)
		for i := 0; i < 200; i++ {
			rank := rng.Float64() * 1000
			ranks = append(ranks, rank)
			h.Insert(NewPriorityQueueNode(rank, i))
		}
		sort.Float64s(ranks)

		for i := 0; i < len(ranks); i++ {
			node, err := h.ExtractMin()
			require.NoError(t, err)
			require.InDelta(t, ranks[i], node.GetRank(), 1e-12)
		}
		require.True(t, h.IsEmpty())
	}
}

func TestMinHeapDecreaseKey(t *testing.T) {
	h := NewBinaryHeap[string]()

	a := NewPriorityQueueNode(10.0, "a")
	b := NewPriorityQueueNode(20.0, "b")
	c := NewPriorityQueueNode(30.0, "c")
	h.Insert(a)
	h.Insert(b)
	h.Insert(c)

	err := h.DecreaseKey(c, 5.0)
	require.NoError(t, err)

	node, err := h.ExtractMin()
	require.NoError(t, err)
	require.Equal(t, "c", node.GetItem())

	node, err = h.ExtractMin()
	require.NoError(t, err)
	require.Equal(t, "a", node.GetItem())
}

func TestMinHeapEmpty(t *testing.T) {
	h := NewBinaryHeap[int]()
	_, err := h.ExtractMin()
	require.Error(t, err)
	require.Greater(t, h.GetMinrank(), 1e15)
}
