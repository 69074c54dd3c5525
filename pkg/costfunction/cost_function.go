package costfunction

import (
	"github.com/lintang-b-s/waymatch/pkg/datastructure"
)

// FastestCostFunction weights every edge by its travel time in seconds.
// turn context is ignored, so it is usable in node based searches.
type FastestCostFunction struct {
}

func NewFastestCostFunction() *FastestCostFunction {
	return &FastestCostFunction{}
}

func (f *FastestCostFunction) GetWeight(edge *datastructure.Edge, reverse bool,
	enteringEdgeId datastructure.Index) float64 {
	return edge.GetWeight()
}

// ShortestCostFunction weights every edge by its length in meters.
type ShortestCostFunction struct {
}

func NewShortestCostFunction() *ShortestCostFunction {
	return &ShortestCostFunction{}
}

func (f *ShortestCostFunction) GetWeight(edge *datastructure.Edge, reverse bool,
	enteringEdgeId datastructure.Index) float64 {
	return edge.GetDist()
}
