package costfunction

import (
	"github.com/lintang-b-s/waymatch/pkg"
	"github.com/lintang-b-s/waymatch/pkg/datastructure"
	"github.com/lintang-b-s/waymatch/pkg/geo"
)

type turnGraph interface {
	GetEdge(edgeId datastructure.Index) *datastructure.Edge
	GetEdgeGeometry(edgeId datastructure.Index) []geo.Coordinate
}

type turnPair struct {
	from datastructure.Index
	to   datastructure.Index
}

// TurnCostFunction is the edge based cost oracle. on top of the travel time it
// charges GetTurnCost for the maneuver between the entering and the leaving
// edge. restricted turns and u-turns get an infinite weight, so the search
// routes around them instead of failing.
type TurnCostFunction struct {
	graph      turnGraph
	base       *FastestCostFunction
	restricted map[turnPair]struct{}
	turnCosts  map[pkg.TurnType]float64
}

func NewTurnCostFunction(graph turnGraph) *TurnCostFunction {
	return &TurnCostFunction{
		graph:      graph,
		base:       NewFastestCostFunction(),
		restricted: make(map[turnPair]struct{}),
		turnCosts: map[pkg.TurnType]float64{
			pkg.LEFT_TURN:  6.0,
			pkg.RIGHT_TURN: 3.0,
		},
	}
}

// AddRestriction forbids traveling edge toEdgeId directly after edge fromEdgeId.
func (t *TurnCostFunction) AddRestriction(fromEdgeId, toEdgeId datastructure.Index) {
	t.restricted[turnPair{from: fromEdgeId, to: toEdgeId}] = struct{}{}
}

func (t *TurnCostFunction) SetTurnCost(turnType pkg.TurnType, cost float64) {
	t.turnCosts[turnType] = cost
}

func (t *TurnCostFunction) GetTurnCost(turnType pkg.TurnType) float64 {
	switch turnType {
	case pkg.U_TURN:
		return pkg.INF_WEIGHT
	case pkg.NO_ENTRY:
		return pkg.INF_WEIGHT
	default:
		return t.turnCosts[turnType]
	}
}

func (t *TurnCostFunction) GetWeight(edge *datastructure.Edge, reverse bool,
	enteringEdgeId datastructure.Index) float64 {
	weight := t.base.GetWeight(edge, reverse, enteringEdgeId)
	if enteringEdgeId == datastructure.NO_EDGE {
		return weight
	}

	entering := t.graph.GetEdge(enteringEdgeId)

	// in the backward search the entering edge is traversed after edge, so
	// the travel order pair is swapped.
	var from, to *datastructure.Edge
	if reverse {
		from, to = edge, entering
	} else {
		from, to = entering, edge
	}

	return weight + t.GetTurnCost(t.turnType(from, to))
}

func (t *TurnCostFunction) turnType(from, to *datastructure.Edge) pkg.TurnType {
	if _, ok := t.restricted[turnPair{from: from.GetEdgeID(), to: to.GetEdgeID()}]; ok {
		return pkg.NO_ENTRY
	}
	if from.GetTail() == to.GetHead() && from.GetHead() == to.GetTail() {
		return pkg.U_TURN
	}
	if from.GetWayID() == to.GetWayID() {
		return pkg.NONE
	}

	inBearing := arrivalBearing(t.graph.GetEdgeGeometry(from.GetEdgeID()))
	outBearing := departureBearing(t.graph.GetEdgeGeometry(to.GetEdgeID()))
	delta := outBearing - inBearing
	for delta > 180 {
		delta -= 360
	}
	for delta < -180 {
		delta += 360
	}

	switch {
	case delta > 45:
		return pkg.RIGHT_TURN
	case delta < -45:
		return pkg.LEFT_TURN
	default:
		return pkg.NONE
	}
}

func arrivalBearing(coords []geo.Coordinate) float64 {
	n := len(coords)
	if n < 2 {
		return 0
	}
	return geo.BearingTo(coords[n-2].GetLat(), coords[n-2].GetLon(),
		coords[n-1].GetLat(), coords[n-1].GetLon())
}

func departureBearing(coords []geo.Coordinate) float64 {
	if len(coords) < 2 {
		return 0
	}
	return geo.BearingTo(coords[0].GetLat(), coords[0].GetLon(),
		coords[1].GetLat(), coords[1].GetLon())
}
