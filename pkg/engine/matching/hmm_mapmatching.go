package matching

import (
	"math"

	"go.uber.org/zap"

	"github.com/lintang-b-s/waymatch/pkg/concurrent"
	"github.com/lintang-b-s/waymatch/pkg/datastructure"
	"github.com/lintang-b-s/waymatch/pkg/engine/routing"
	"github.com/lintang-b-s/waymatch/pkg/geo"
	"github.com/lintang-b-s/waymatch/pkg/spatialindex"
	"github.com/lintang-b-s/waymatch/pkg/util"
)

/*
HMMMapMatching hidden markov model map matching after newson & krumm. candidate
road positions are the hidden states, gps fixes the observations. emission
probability falls with the snap distance, transition probability falls with the
difference between the on-road route length and the great circle distance of
two adjacent fixes. routes between candidates are computed with the
bidirectional dijkstra.

	https://www.microsoft.com/en-us/research/publication/hidden-markov-map-matching-noise-sparseness/
*/
type HMMMapMatching struct {
	graph  *datastructure.Graph
	index  *spatialindex.Rtree
	costFn routing.CostFunction
	log    *zap.Logger
}

func NewHMMMapMatching(graph *datastructure.Graph, index *spatialindex.Rtree,
	costFn routing.CostFunction, log *zap.Logger) *HMMMapMatching {
	return &HMMMapMatching{
		graph:  graph,
		index:  index,
		costFn: costFn,
		log:    log,
	}
}

func computeEmissionLogProb(obsStateDist float64) float64 {
	return math.Log(1.0/(math.Sqrt(2*math.Pi)*sigmaZ)) + (-0.5 * math.Pow(obsStateDist/sigmaZ, 2))
}

func computeTransitionLogProb(routeLength, greatCircleDistance float64) float64 {
	obsStateDiff := math.Abs(greatCircleDistance - routeLength)
	return math.Log(1.0/beta) - (obsStateDiff / beta)
}

type transitionJob struct {
	prevState      *candidate
	currState      *candidate
	linearDistance float64
}

type transitionWithProb struct {
	transition     Transition
	transitionProb float64
}

// routeDistance on-road distance between two candidates in meter, or -inf when
// the target candidate is unreachable.
func (hmm *HMMMapMatching) routeDistance(prev, curr *candidate) float64 {
	if prev.edgeId == curr.edgeId && curr.offsetFromTail >= prev.offsetFromTail {
		return curr.offsetFromTail - prev.offsetFromTail
	}

	prevEdge := hmm.graph.GetEdge(prev.edgeId)
	currEdge := hmm.graph.GetEdge(curr.edgeId)

	// leave the previous edge at its head, enter the current edge at its tail
	router := routing.NewBidirectionalDijkstra(hmm.graph, hmm.costFn, routing.NodeBased)
	path, err := router.FindPath(prevEdge.GetHead(), currEdge.GetTail())
	if err != nil {
		return math.Inf(-1)
	}

	return prev.offsetToHead + path.GetDist() + curr.offsetFromTail
}

func (hmm *HMMMapMatching) calculateTransitionProb(job transitionJob) transitionWithProb {
	routeDist := hmm.routeDistance(job.prevState, job.currState)

	if !math.IsInf(routeDist, -1) &&
		math.Abs(routeDist-job.linearDistance) < maximumTransitionDistance {
		return transitionWithProb{
			transition:     NewTransition(job.prevState.stateId, job.currState.stateId),
			transitionProb: computeTransitionLogProb(routeDist, job.linearDistance),
		}
	}

	return transitionWithProb{
		transition:     NewTransition(job.prevState.stateId, job.currState.stateId),
		transitionProb: math.Inf(-1),
	}
}

// filterObservations drop successive fixes closer than observationFilterDistance,
// they carry no information beyond gps noise.
func filterObservations(gps []datastructure.GPSPoint) []datastructure.GPSPoint {
	if len(gps) == 0 {
		return gps
	}

	filtered := make([]datastructure.GPSPoint, 0, len(gps))
	filtered = append(filtered, gps[0])
	for _, p := range gps[1:] {
		last := filtered[len(filtered)-1]
		dist := geo.CalculateHaversineDistance(last.GetLat(), last.GetLon(),
			p.GetLat(), p.GetLon()) * 1000
		if dist >= observationFilterDistance {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// MapMatch match a gps trace onto the road network. returns one MatchedPoint
// per surviving observation. on an hmm break the chain restarts at the breaking
// observation, so a single noisy fix does not ruin the whole trace.
func (hmm *HMMMapMatching) MapMatch(gps []datastructure.GPSPoint) ([]datastructure.MatchedPoint, error) {
	gps = filterObservations(gps)
	if len(gps) < 2 {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput,
			"need at least two distinct gps observations, got %d", len(gps))
	}

	nextStateId := 0
	stateDataMap := make(map[int]*candidate)

	viterbi := NewViterbi()
	resetCount := 0
	matched := make([]datastructure.MatchedPoint, 0, len(gps))

	var prevCandidates []*candidate
	var prevObservation datastructure.GPSPoint

	for i := 0; i < len(gps); i++ {
		candidates := hmm.findCandidates(gps[i], &nextStateId)
		if len(candidates) == 0 {
			hmm.log.Warn("observation has no nearby road segment, skipping",
				zap.Int("observation", gps[i].GetID()))
			continue
		}

		states := make([]int, 0, len(candidates))
		emissionProbMatrix := make(map[int]float64, len(candidates))
		for _, c := range candidates {
			states = append(states, c.stateId)
			emissionProbMatrix[c.stateId] = computeEmissionLogProb(c.distance)
			stateDataMap[c.stateId] = c
		}

		if prevCandidates == nil {
			if err := viterbi.StartWithInitialObservation(gps[i].GetID(), states, emissionProbMatrix); err != nil {
				return nil, err
			}
			prevCandidates = candidates
			prevObservation = gps[i]
			continue
		}

		linearDistance := geo.CalculateHaversineDistance(
			prevObservation.GetLat(), prevObservation.GetLon(),
			gps[i].GetLat(), gps[i].GetLon()) * 1000

		transitionProbMatrix := hmm.transitionMatrix(prevCandidates, candidates, linearDistance)

		err := viterbi.NextStep(gps[i].GetID(), states, emissionProbMatrix, transitionProbMatrix)
		if err != nil {
			// chain broke: flush what we have and restart at this observation
			resetCount++
			matched = append(matched, hmm.collectMatches(viterbi, stateDataMap)...)
			viterbi.Reset()
			if err := viterbi.StartWithInitialObservation(gps[i].GetID(), states, emissionProbMatrix); err != nil {
				return nil, err
			}
		}

		prevCandidates = candidates
		prevObservation = gps[i]
	}

	matched = append(matched, hmm.collectMatches(viterbi, stateDataMap)...)

	hmm.log.Info("map matching done",
		zap.Int("observations", len(gps)),
		zap.Int("matched", len(matched)),
		zap.Int("viterbiResets", resetCount))

	if len(matched) == 0 {
		return nil, util.WrapErrorf(ErrNoCandidates, util.ErrNotFound,
			"none of the %d observations could be matched", len(gps))
	}
	return matched, nil
}

func (hmm *HMMMapMatching) transitionMatrix(prevCandidates, candidates []*candidate,
	linearDistance float64) map[Transition]float64 {

	workers := concurrent.NewWorkerPool[transitionJob, transitionWithProb](
		transitionWorkers, len(prevCandidates)*len(candidates))

	for _, prev := range prevCandidates {
		for _, curr := range candidates {
			workers.AddJob(transitionJob{
				prevState:      prev,
				currState:      curr,
				linearDistance: linearDistance,
			})
		}
	}

	workers.Close()
	workers.Start(hmm.calculateTransitionProb)
	workers.Wait()

	transitionProbMatrix := make(map[Transition]float64)
	for item := range workers.CollectResults() {
		if math.IsInf(item.transitionProb, -1) {
			continue
		}
		transitionProbMatrix[item.transition] = item.transitionProb
	}
	return transitionProbMatrix
}

func (hmm *HMMMapMatching) collectMatches(viterbi *Viterbi,
	stateDataMap map[int]*candidate) []datastructure.MatchedPoint {

	sequence := viterbi.ComputeMostLikelySequence()
	matched := make([]datastructure.MatchedPoint, 0, len(sequence))
	for _, s := range sequence {
		c := stateDataMap[s.State]
		edge := hmm.graph.GetEdge(c.edgeId)
		matched = append(matched, datastructure.NewMatchedPoint(
			c.observationId, c.edgeId, edge.GetWayID(), c.projection))
	}
	return matched
}
