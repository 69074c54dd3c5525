package matching

import (
	"math"
	"sync"

	"github.com/lintang-b-s/waymatch/pkg/datastructure"
	"github.com/lintang-b-s/waymatch/pkg/geo"
	"github.com/lintang-b-s/waymatch/pkg/util"
)

/*
OnlineMatcher streaming variant of the hmm matcher. observations arrive one at
a time, each Update advances the viterbi chain by one step and reports the
currently most likely road position of the vehicle. one instance per client
session, safe for a single writer.
*/
type OnlineMatcher struct {
	mu sync.Mutex

	hmm     *HMMMapMatching
	viterbi *Viterbi

	nextStateId     int
	stateDataMap    map[int]*candidate
	prevCandidates  []*candidate
	prevObservation datastructure.GPSPoint
	started         bool
}

func NewOnlineMatcher(hmm *HMMMapMatching) *OnlineMatcher {
	return &OnlineMatcher{
		hmm:          hmm,
		viterbi:      NewViterbi(),
		stateDataMap: make(map[int]*candidate),
	}
}

// Update feed one gps fix. returns the most likely matched position so far.
func (om *OnlineMatcher) Update(obs datastructure.GPSPoint) (datastructure.MatchedPoint, error) {
	om.mu.Lock()
	defer om.mu.Unlock()

	if om.started {
		dist := geo.CalculateHaversineDistance(
			om.prevObservation.GetLat(), om.prevObservation.GetLon(),
			obs.GetLat(), obs.GetLon()) * 1000
		if dist < observationFilterDistance {
			return om.currentBest()
		}
	}

	candidates := om.hmm.findCandidates(obs, &om.nextStateId)
	if len(candidates) == 0 {
		return datastructure.MatchedPoint{}, util.WrapErrorf(ErrNoCandidates, util.ErrNotFound,
			"no road segment within %.0f m of observation %d",
			candidateSearchRadius*1000, obs.GetID())
	}

	states := make([]int, 0, len(candidates))
	emissionProbMatrix := make(map[int]float64, len(candidates))
	for _, c := range candidates {
		states = append(states, c.stateId)
		emissionProbMatrix[c.stateId] = computeEmissionLogProb(c.distance)
		om.stateDataMap[c.stateId] = c
	}

	if !om.started {
		if err := om.viterbi.StartWithInitialObservation(obs.GetID(), states, emissionProbMatrix); err != nil {
			return datastructure.MatchedPoint{}, err
		}
		om.started = true
	} else {
		linearDistance := geo.CalculateHaversineDistance(
			om.prevObservation.GetLat(), om.prevObservation.GetLon(),
			obs.GetLat(), obs.GetLon()) * 1000

		transitionProbMatrix := om.hmm.transitionMatrix(om.prevCandidates, candidates, linearDistance)

		if err := om.viterbi.NextStep(obs.GetID(), states, emissionProbMatrix, transitionProbMatrix); err != nil {
			// restart the chain at this observation, the session keeps going
			om.viterbi.Reset()
			if err := om.viterbi.StartWithInitialObservation(obs.GetID(), states, emissionProbMatrix); err != nil {
				return datastructure.MatchedPoint{}, err
			}
		}
	}

	om.prevCandidates = candidates
	om.prevObservation = obs
	return om.currentBest()
}

func (om *OnlineMatcher) currentBest() (datastructure.MatchedPoint, error) {
	bestProb := math.Inf(-1)
	var best *candidate
	for _, c := range om.prevCandidates {
		if prob, ok := om.viterbi.message[c.stateId]; ok && prob > bestProb {
			bestProb = prob
			best = c
		}
	}
	if best == nil {
		return datastructure.MatchedPoint{}, util.WrapErrorf(ErrNoCandidates, util.ErrNotFound,
			"no matched position yet")
	}

	edge := om.hmm.graph.GetEdge(best.edgeId)
	return datastructure.NewMatchedPoint(best.observationId, best.edgeId,
		edge.GetWayID(), best.projection), nil
}
