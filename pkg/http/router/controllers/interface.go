package controllers

import (
	"github.com/lintang-b-s/waymatch/pkg/datastructure"
)

type RoutingService interface {
	ShortestPath(origLat, origLon, dstLat, dstLon float64) (float64, float64, string, error)
}

// OnlineSession per websocket client incremental matching state.
type OnlineSession interface {
	Update(obs datastructure.GPSPoint) (datastructure.MatchedPoint, error)
}

type MapMatcherService interface {
	MapMatch(gps []datastructure.GPSPoint) ([]datastructure.MatchedPoint, string, error)
	NewOnlineSession() OnlineSession
}
