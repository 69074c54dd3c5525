package osmparser

import "github.com/lintang-b-s/waymatch/pkg/datastructure"

type NodeType uint8

const (
	END_NODE      NodeType = 0
	BETWEEN_NODE  NodeType = 1
	JUNCTION_NODE NodeType = 2
)

type NodeCoord struct {
	lat float64
	lon float64
}

func NewNodeCoord(lat, lon float64) NodeCoord {
	return NodeCoord{lat, lon}
}

type TurnRestriction uint8

const (
	NO_RESTRICTION    TurnRestriction = 0
	NO_LEFT_TURN      TurnRestriction = 1
	NO_RIGHT_TURN     TurnRestriction = 2
	NO_STRAIGHT_ON    TurnRestriction = 3
	NO_U_TURN         TurnRestriction = 4
	ONLY_LEFT_TURN    TurnRestriction = 5
	ONLY_RIGHT_TURN   TurnRestriction = 6
	ONLY_STRAIGHT_ON  TurnRestriction = 7
	NO_ENTRY_RESTRICT TurnRestriction = 8
)

// https://wiki.openstreetmap.org/wiki/Relation:restriction
func parseTurnRestriction(tagVal string) TurnRestriction {
	switch tagVal {
	case "no_left_turn":
		return NO_LEFT_TURN
	case "no_right_turn":
		return NO_RIGHT_TURN
	case "no_straight_on":
		return NO_STRAIGHT_ON
	case "no_u_turn":
		return NO_U_TURN
	case "only_left_turn":
		return ONLY_LEFT_TURN
	case "only_right_turn":
		return ONLY_RIGHT_TURN
	case "only_straight_on":
		return ONLY_STRAIGHT_ON
	case "no_entry":
		return NO_ENTRY_RESTRICT
	default:
		return NO_RESTRICTION
	}
}

func (tr TurnRestriction) isOnly() bool {
	return tr == ONLY_LEFT_TURN || tr == ONLY_RIGHT_TURN || tr == ONLY_STRAIGHT_ON
}

// EdgeRestriction a resolved turn restriction: traveling toEdge directly after
// fromEdge is forbidden.
type EdgeRestriction struct {
	fromEdge datastructure.Index
	toEdge   datastructure.Index
}

func (er EdgeRestriction) GetFromEdge() datastructure.Index {
	return er.fromEdge
}

func (er EdgeRestriction) GetToEdge() datastructure.Index {
	return er.toEdge
}

var acceptedHighway = map[string]struct{}{
	"motorway":         {},
	"motorway_link":    {},
	"trunk":            {},
	"trunk_link":       {},
	"primary":          {},
	"primary_link":     {},
	"secondary":        {},
	"secondary_link":   {},
	"residential":      {},
	"residential_link": {},
	"service":          {},
	"tertiary":         {},
	"tertiary_link":    {},
	"road":             {},
	"track":            {},
	"unclassified":     {},
	"living_street":    {},
	"motorroad":        {},
}

// https://wiki.openstreetmap.org/wiki/Key:barrier
// a barrier node with access=no splits the street into 2 disconnected edges
var acceptedBarrierType = map[string]struct{}{
	"bollard":        {},
	"swing_gate":     {},
	"jersey_barrier": {},
	"lift_gate":      {},
	"block":          {},
	"gate":           {},
}
