package usecases

import (
	"github.com/lintang-b-s/waymatch/pkg/datastructure"
	"github.com/lintang-b-s/waymatch/pkg/engine/matching"
	"github.com/lintang-b-s/waymatch/pkg/geo"
	"github.com/lintang-b-s/waymatch/pkg/http/router/controllers"
	"go.uber.org/zap"
)

type MapMatcherService struct {
	log    *zap.Logger
	engine MapMatcherEngine
	hmm    *matching.HMMMapMatching
}

func NewMapMatcherService(log *zap.Logger, hmm *matching.HMMMapMatching) *MapMatcherService {
	return &MapMatcherService{
		log:    log,
		engine: hmm,
		hmm:    hmm,
	}
}

// MapMatch matches a full gps trace and encodes the matched road
// positions as a polyline.
func (ms *MapMatcherService) MapMatch(gps []datastructure.GPSPoint) ([]datastructure.MatchedPoint, string, error) {
	matched, err := ms.engine.MapMatch(gps)
	if err != nil {
		return nil, "", err
	}

	coords := make([]geo.Coordinate, 0, len(matched))
	for _, m := range matched {
		coords = append(coords, m.GetProjection())
	}

	return matched, geo.PolylineFromCoords(coords), nil
}

// NewOnlineSession builds an incremental matcher for one websocket client.
func (ms *MapMatcherService) NewOnlineSession() controllers.OnlineSession {
	return matching.NewOnlineMatcher(ms.hmm)
}
