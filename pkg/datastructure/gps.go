package datastructure

import (
	"time"

	"github.com/lintang-b-s/waymatch/pkg/geo"
)

// GPSPoint one raw gps fix of a trip.
type GPSPoint struct {
	id        int
	coord     geo.Coordinate
	timestamp time.Time
}

func NewGPSPoint(id int, lat, lon float64, timestamp time.Time) GPSPoint {
	return GPSPoint{
		id:        id,
		coord:     geo.NewCoordinate(lat, lon),
		timestamp: timestamp,
	}
}

func (p GPSPoint) GetID() int {
	return p.id
}

func (p GPSPoint) GetLat() float64 {
	return p.coord.Lat
}

func (p GPSPoint) GetLon() float64 {
	return p.coord.Lon
}

func (p GPSPoint) GetCoordinate() geo.Coordinate {
	return p.coord
}

func (p GPSPoint) GetTimestamp() time.Time {
	return p.timestamp
}

// MatchedPoint result of map matching one gps fix: the matched edge and the
// projection of the fix onto that edge.
type MatchedPoint struct {
	observationId int
	edgeId        Index
	wayId         int64
	projection    geo.Coordinate
}

func NewMatchedPoint(observationId int, edgeId Index, wayId int64,
	projection geo.Coordinate) MatchedPoint {
	return MatchedPoint{
		observationId: observationId,
		edgeId:        edgeId,
		wayId:         wayId,
		projection:    projection,
	}
}

func (m MatchedPoint) GetObservationID() int {
	return m.observationId
}

func (m MatchedPoint) GetEdgeID() Index {
	return m.edgeId
}

func (m MatchedPoint) GetWayID() int64 {
	return m.wayId
}

func (m MatchedPoint) GetProjection() geo.Coordinate {
	return m.projection
}
