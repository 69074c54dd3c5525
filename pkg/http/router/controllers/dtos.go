package controllers

import (
	"time"

	"github.com/lintang-b-s/waymatch/pkg/datastructure"
)

type shortestPathRequest struct {
	OriginLat      float64 `json:"origin_lat" validate:"required,min=-90,max=90"`
	OriginLon      float64 `json:"origin_lon" validate:"required,min=-180,max=180"`
	DestinationLat float64 `json:"destination_lat" validate:"required,min=-90,max=90"`
	DestinationLon float64 `json:"destination_lon" validate:"required,min=-180,max=180"`
}

type shortestPathResponse struct {
	Eta  float64 `json:"eta"`
	Path string  `json:"path"`
	Dist float64 `json:"distance"`
}

func NewShortestPathResponse(eta, dist float64, path string) shortestPathResponse {
	return shortestPathResponse{
		Eta:  eta,
		Path: path,
		Dist: dist,
	}
}

type gpsPointRequest struct {
	ID        int     `json:"id"`
	Lat       float64 `json:"lat" validate:"required,min=-90,max=90"`
	Lon       float64 `json:"lon" validate:"required,min=-180,max=180"`
	Timestamp int64   `json:"timestamp"`
}

func (g gpsPointRequest) ToDataGPS() datastructure.GPSPoint {
	return datastructure.NewGPSPoint(g.ID, g.Lat, g.Lon, time.Unix(g.Timestamp, 0))
}

type mapMatchBatchRequest struct {
	Gps []gpsPointRequest `json:"gps" validate:"required,min=2,dive"`
}

type onlineMapMatchRequest struct {
	Gps gpsPointRequest `json:"gps" validate:"required"`
}

type matchedPointResponse struct {
	ObservationID int     `json:"observation_id"`
	EdgeID        int32   `json:"edge_id"`
	OsmWayID      int64   `json:"osm_way_id"`
	Lat           float64 `json:"lat"`
	Lon           float64 `json:"lon"`
}

func NewMatchedPointResponse(m datastructure.MatchedPoint) matchedPointResponse {
	return matchedPointResponse{
		ObservationID: m.GetObservationID(),
		EdgeID:        int32(m.GetEdgeID()),
		OsmWayID:      m.GetWayID(),
		Lat:           m.GetProjection().GetLat(),
		Lon:           m.GetProjection().GetLon(),
	}
}

type mapMatchResponse struct {
	MatchedPoints []matchedPointResponse `json:"matched_points"`
	Path          string                 `json:"path"`
}

func NewMapMatchResponse(matched []datastructure.MatchedPoint, path string) mapMatchResponse {
	points := make([]matchedPointResponse, 0, len(matched))
	for _, m := range matched {
		points = append(points, NewMatchedPointResponse(m))
	}
	return mapMatchResponse{
		MatchedPoints: points,
		Path:          path,
	}
}
