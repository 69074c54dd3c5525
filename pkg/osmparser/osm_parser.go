package osmparser

import (
	"context"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lintang-b-s/waymatch/pkg"
	"github.com/lintang-b-s/waymatch/pkg/datastructure"
	"github.com/lintang-b-s/waymatch/pkg/geo"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"go.uber.org/zap"
)

type node struct {
	id    int64
	coord NodeCoord
}

type rawRestriction struct {
	from            int64
	via             int64
	to              int64
	turnRestriction TurnRestriction
}

type osmWay struct {
	id      int64
	nodes   []int64
	oneWay  bool
	forward bool
	speed   float64 // km/h
	hwType  pkg.OsmHighwayType
}

type OsmParser struct {
	wayNodeMap      map[int64]NodeType
	acceptedNodeMap map[int64]NodeCoord
	barrierNodes    map[int64]bool
	nodeIDMap       map[int64]datastructure.Index
	maxNodeID       int64
	restrictions    []rawRestriction

	vertices     []datastructure.Vertex
	edges        []datastructure.Edge
	geometries   [][]geo.Coordinate
	wayFirstEdge map[int64][]datastructure.Index
}

func NewOsmParser() *OsmParser {
	return &OsmParser{
		wayNodeMap:      make(map[int64]NodeType),
		acceptedNodeMap: make(map[int64]NodeCoord),
		barrierNodes:    make(map[int64]bool),
		nodeIDMap:       make(map[int64]datastructure.Index),
		wayFirstEdge:    make(map[int64][]datastructure.Index),
	}
}

/*
Parse build the road graph from an openstreetmap .osm.pbf extract.

two sequential scans over the file: the first classifies every way node as
end, between, or junction node and collects turn restriction relations, the
second stores coordinates and way data. ways are then split into edges at
junction nodes, so every edge runs between two decision points and keeps the
intermediate geometry.
*/
func (p *OsmParser) Parse(mapFile string, logger *zap.Logger, useMaxSpeed bool) (*datastructure.Graph, error) {
	f, err := os.Open(mapFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := osmpbf.New(context.Background(), f, 0)
	// must not be parallel, ways need stable node classification
	countWays := 0
	for scanner.Scan() {
		o := scanner.Object()

		switch o.ObjectID().Type() {
		case osm.TypeWay:
			way := o.(*osm.Way)
			if len(way.Nodes) < 2 || !acceptOsmWay(way) {
				continue
			}
			if (countWays+1)%50000 == 0 {
				logger.Sugar().Infof("scanning openstreetmap ways: %d...", countWays+1)
			}
			countWays++

			for i, wayNode := range way.Nodes {
				if _, ok := p.wayNodeMap[int64(wayNode.ID)]; !ok {
					if i == 0 || i == len(way.Nodes)-1 {
						p.wayNodeMap[int64(wayNode.ID)] = END_NODE
					} else {
						p.wayNodeMap[int64(wayNode.ID)] = BETWEEN_NODE
					}
				} else {
					p.wayNodeMap[int64(wayNode.ID)] = JUNCTION_NODE
				}
			}
		case osm.TypeRelation:
			relation := o.(*osm.Relation)
			tagVal := relation.Tags.Find("restriction")
			if tagVal == "" {
				continue
			}
			// https://www.openstreetmap.org/api/0.6/relation/5710500
			rest := rawRestriction{turnRestriction: parseTurnRestriction(tagVal)}
			for _, member := range relation.Members {
				switch member.Role {
				case "from":
					rest.from = member.Ref
				case "to":
					rest.to = member.Ref
				case "via":
					rest.via = member.Ref
				}
			}
			if rest.from != 0 && rest.to != 0 && rest.turnRestriction != NO_RESTRICTION {
				p.restrictions = append(p.restrictions, rest)
			}
		}
	}
	scanner.Close()

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	scanner = osmpbf.New(context.Background(), f, 0)
	defer scanner.Close()

	ways := make([]osmWay, 0, countWays)
	countNodes := 0
	for scanner.Scan() {
		o := scanner.Object()

		switch o.ObjectID().Type() {
		case osm.TypeNode:
			if (countNodes+1)%500000 == 0 {
				logger.Sugar().Infof("processing openstreetmap nodes: %d...", countNodes+1)
			}
			countNodes++
			osmNode := o.(*osm.Node)

			if p.maxNodeID < int64(osmNode.ID) {
				p.maxNodeID = int64(osmNode.ID)
			}

			if _, ok := p.wayNodeMap[int64(osmNode.ID)]; ok {
				p.acceptedNodeMap[int64(osmNode.ID)] = NewNodeCoord(osmNode.Lat, osmNode.Lon)
			}

			accessType := osmNode.Tags.Find("access")
			barrierType := osmNode.Tags.Find("barrier")
			if _, ok := acceptedBarrierType[barrierType]; ok && accessType == "no" {
				p.barrierNodes[int64(osmNode.ID)] = true
			}
		case osm.TypeWay:
			way := o.(*osm.Way)
			if len(way.Nodes) < 2 || !acceptOsmWay(way) {
				continue
			}
			ways = append(ways, p.processWay(way, useMaxSpeed))
		}
	}

	for _, way := range ways {
		p.splitWayIntoEdges(way)
	}

	logger.Sugar().Infof("number of vertices: %v", len(p.vertices))
	logger.Sugar().Infof("number of edges: %v", len(p.edges))

	return datastructure.NewGraph(p.vertices, p.edges, p.geometries), nil
}

func (p *OsmParser) processWay(way *osm.Way, useMaxSpeed bool) osmWay {
	maxSpeed := 0.0
	highwayTypeSpeed := 0.0
	hwType := pkg.UNKNOWN

	for _, tag := range way.Tags {
		switch tag.Key {
		case "highway":
			hwType = pkg.GetHighwayType(tag.Value)
			if useMaxSpeed {
				highwayTypeSpeed = pkg.RoadTypeMaxSpeed(tag.Value) * pkg.NERF_MAXSPEED_OSM
			} else {
				highwayTypeSpeed = pkg.RoadTypeMaxSpeed(tag.Value)
			}
		case "maxspeed":
			if useMaxSpeed {
				maxSpeed = parseMaxSpeed(tag.Value)
			}
		}
	}

	if maxSpeed == 0 {
		maxSpeed = highwayTypeSpeed
	}
	if maxSpeed == 0 {
		maxSpeed = 30
	}

	oneWay, forward := wayDirection(way)

	wayNodes := make([]int64, 0, len(way.Nodes))
	for _, wayNode := range way.Nodes {
		wayNodes = append(wayNodes, int64(wayNode.ID))
	}

	return osmWay{
		id:      int64(way.ID),
		nodes:   wayNodes,
		oneWay:  oneWay,
		forward: forward,
		speed:   maxSpeed,
		hwType:  hwType,
	}
}

// parseMaxSpeed osm maxspeed tag value to km/h. unitless values are km/h per
// the osm wiki, unparseable values yield 0 so the highway type speed wins.
func parseMaxSpeed(value string) float64 {
	switch {
	case strings.Contains(value, "mph"):
		speed, err := strconv.ParseFloat(strings.TrimSpace(strings.Replace(value, "mph", "", -1)), 64)
		if err != nil {
			return 0
		}
		return speed * 1.60934
	case strings.Contains(value, "km/h"):
		speed, err := strconv.ParseFloat(strings.TrimSpace(strings.Replace(value, "km/h", "", -1)), 64)
		if err != nil {
			return 0
		}
		return speed
	case strings.Contains(value, "knots"):
		speed, err := strconv.ParseFloat(strings.TrimSpace(strings.Replace(value, "knots", "", -1)), 64)
		if err != nil {
			return 0
		}
		return speed * 1.852
	default:
		speed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0
		}
		return speed
	}
}

func isRestrictedAccess(value string) bool {
	return value == "no" || value == "restricted"
}

func wayDirection(way *osm.Way) (oneWay, forward bool) {
	onewayTag := way.Tags.Find("oneway")
	vehicleForward := isRestrictedAccess(way.Tags.Find("vehicle:forward"))
	motorVehicleForward := isRestrictedAccess(way.Tags.Find("motor_vehicle:forward"))
	vehicleBackward := isRestrictedAccess(way.Tags.Find("vehicle:backward"))
	motorVehicleBackward := isRestrictedAccess(way.Tags.Find("motor_vehicle:backward"))

	oneWay = onewayTag == "yes" || onewayTag == "-1" ||
		vehicleForward || motorVehicleForward || vehicleBackward || motorVehicleBackward
	forward = !(onewayTag == "-1" || vehicleForward || motorVehicleForward)

	if way.Tags.Find("junction") == "roundabout" || way.Tags.Find("junction") == "circular" {
		oneWay = true
		forward = true
	}
	return oneWay, forward
}

func (p *OsmParser) isJunctionNode(nodeID int64) bool {
	return p.wayNodeMap[nodeID] == JUNCTION_NODE
}

// splitWayIntoEdges cut the way at junction and barrier nodes, every cut
// becomes one edge (or two when the way is bidirectional).
func (p *OsmParser) splitWayIntoEdges(way osmWay) {
	segment := make([]node, 0, len(way.nodes))

	for _, nodeID := range way.nodes {
		coord, ok := p.acceptedNodeMap[nodeID]
		if !ok {
			continue
		}
		nodeData := node{id: nodeID, coord: coord}

		if p.barrierNodes[nodeID] {
			if len(segment) > 0 {
				segment = append(segment, nodeData)
				p.addEdges(segment, way)
			}
			// restart behind the barrier with a copied node, so the two sides
			// stay disconnected
			nodeData = p.copyNode(nodeData)
			segment = segment[:0]
			segment = append(segment, nodeData)
			continue
		}

		segment = append(segment, nodeData)
		if p.isJunctionNode(nodeID) && len(segment) > 1 {
			p.addEdges(segment, way)
			segment = segment[:0]
			segment = append(segment, nodeData)
		}
	}

	if len(segment) > 1 {
		p.addEdges(segment, way)
	}
}

func (p *OsmParser) copyNode(nodeData node) node {
	p.maxNodeID++
	p.acceptedNodeMap[p.maxNodeID] = nodeData.coord
	return node{id: p.maxNodeID, coord: nodeData.coord}
}

func (p *OsmParser) vertexFor(nodeData node) datastructure.Index {
	if id, ok := p.nodeIDMap[nodeData.id]; ok {
		return id
	}
	id := datastructure.Index(len(p.vertices))
	p.nodeIDMap[nodeData.id] = id
	p.vertices = append(p.vertices, datastructure.NewVertex(nodeData.coord.lat,
		nodeData.coord.lon, id, nodeData.id))
	return id
}

func (p *OsmParser) addEdges(segment []node, way osmWay) {
	if len(segment) < 2 || segment[0].id == segment[len(segment)-1].id {
		return
	}

	coords := make([]geo.Coordinate, 0, len(segment))
	distance := 0.0
	for i, nodeData := range segment {
		coords = append(coords, geo.NewCoordinate(nodeData.coord.lat, nodeData.coord.lon))
		if i > 0 {
			distance += geo.CalculateHaversineDistance(
				segment[i-1].coord.lat, segment[i-1].coord.lon,
				nodeData.coord.lat, nodeData.coord.lon)
		}
	}

	distanceInMeter := distance * 1000
	travelTimeSeconds := distanceInMeter / (way.speed / 3.6)

	tail := p.vertexFor(segment[0])
	head := p.vertexFor(segment[len(segment)-1])

	if !way.oneWay || way.forward {
		p.appendEdge(tail, head, travelTimeSeconds, distanceInMeter, way, coords)
	}
	if !way.oneWay || !way.forward {
		reversed := make([]geo.Coordinate, len(coords))
		for i, c := range coords {
			reversed[len(coords)-1-i] = c
		}
		p.appendEdge(head, tail, travelTimeSeconds, distanceInMeter, way, reversed)
	}
}

func (p *OsmParser) appendEdge(tail, head datastructure.Index, weight, dist float64,
	way osmWay, coords []geo.Coordinate) {
	edgeId := datastructure.Index(len(p.edges))
	p.edges = append(p.edges, datastructure.NewEdge(edgeId, tail, head, weight,
		dist, way.id, way.hwType))
	p.geometries = append(p.geometries, coords)
	p.wayFirstEdge[way.id] = append(p.wayFirstEdge[way.id], edgeId)
}

func acceptOsmWay(way *osm.Way) bool {
	highway := way.Tags.Find("highway")
	if highway != "" {
		_, ok := acceptedHighway[highway]
		return ok
	}
	return way.Tags.Find("junction") != ""
}

// EdgeRestrictions resolve the collected relation restrictions to directed edge
// pairs: the from-way edge ending at the via node and the to-way edge leaving
// it. only-restrictions are expanded to forbid every other leaving edge.
func (p *OsmParser) EdgeRestrictions(graph *datastructure.Graph) []EdgeRestriction {
	result := make([]EdgeRestriction, 0, len(p.restrictions))

	for _, rest := range p.restrictions {
		via, ok := p.nodeIDMap[rest.via]
		if !ok {
			continue
		}

		var fromEdge datastructure.Index = datastructure.NO_EDGE
		for _, edgeId := range p.wayFirstEdge[rest.from] {
			if graph.GetEdge(edgeId).GetHead() == via {
				fromEdge = edgeId
				break
			}
		}
		if fromEdge == datastructure.NO_EDGE {
			continue
		}

		var toEdge datastructure.Index = datastructure.NO_EDGE
		for _, edgeId := range p.wayFirstEdge[rest.to] {
			if graph.GetEdge(edgeId).GetTail() == via {
				toEdge = edgeId
				break
			}
		}
		if toEdge == datastructure.NO_EDGE {
			continue
		}

		if rest.turnRestriction.isOnly() {
			graph.ForEdgesLeaving(via, func(e *datastructure.Edge) {
				if e.GetEdgeID() != toEdge {
					result = append(result, EdgeRestriction{fromEdge: fromEdge, toEdge: e.GetEdgeID()})
				}
			})
		} else {
			result = append(result, EdgeRestriction{fromEdge: fromEdge, toEdge: toEdge})
		}
	}

	return result
}
