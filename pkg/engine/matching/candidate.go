package matching

import (
	"math"
	"sort"

	"github.com/lintang-b-s/waymatch/pkg/datastructure"
	"github.com/lintang-b-s/waymatch/pkg/geo"
)

// candidate one hidden state of the hmm: an observation snapped onto a directed
// edge. offsetFromTail/offsetToHead locate the projection along the edge
// geometry, in meter.
type candidate struct {
	stateId        int
	observationId  int
	edgeId         datastructure.Index
	projection     geo.Coordinate
	distance       float64 // observation to projection, meter
	offsetFromTail float64
	offsetToHead   float64
}

// snapToEdge project obs onto the closest segment of the edge geometry.
func snapToEdge(coords []geo.Coordinate, obs geo.Coordinate) (geo.Coordinate, float64, float64) {
	bestDist := math.Inf(1)
	bestProjection := coords[0]
	offsetFromTail := 0.0

	walked := 0.0
	for i := 0; i+1 < len(coords); i++ {
		projection := geo.ProjectPointToLineCoord(coords[i], coords[i+1], obs)
		dist := geo.CalculateHaversineDistance(obs.GetLat(), obs.GetLon(),
			projection.GetLat(), projection.GetLon()) * 1000
		if dist < bestDist {
			bestDist = dist
			bestProjection = projection
			offsetFromTail = walked + geo.CalculateHaversineDistance(coords[i].GetLat(), coords[i].GetLon(),
				projection.GetLat(), projection.GetLon())*1000
		}
		walked += geo.CalculateHaversineDistance(coords[i].GetLat(), coords[i].GetLon(),
			coords[i+1].GetLat(), coords[i+1].GetLon()) * 1000
	}

	return bestProjection, bestDist, offsetFromTail
}

func geometryLength(coords []geo.Coordinate) float64 {
	length := 0.0
	for i := 0; i+1 < len(coords); i++ {
		length += geo.CalculateHaversineDistance(coords[i].GetLat(), coords[i].GetLon(),
			coords[i+1].GetLat(), coords[i+1].GetLon()) * 1000
	}
	return length
}

// findCandidates nearby edges sorted by snap distance, capped at
// maxCandidatesPerObservation.
func (hmm *HMMMapMatching) findCandidates(obs datastructure.GPSPoint, nextStateId *int) []*candidate {
	nearby := hmm.index.SearchWithinRadius(obs.GetLat(), obs.GetLon(), candidateSearchRadius)

	candidates := make([]*candidate, 0, len(nearby))
	for _, edgeId := range nearby {
		coords := hmm.graph.GetEdgeGeometry(edgeId)
		if len(coords) < 2 {
			continue
		}

		projection, dist, offsetFromTail := snapToEdge(coords, obs.GetCoordinate())

		candidates = append(candidates, &candidate{
			stateId:        *nextStateId,
			observationId:  int(obs.GetID()),
			edgeId:         edgeId,
			projection:     projection,
			distance:       dist,
			offsetFromTail: offsetFromTail,
			offsetToHead:   geometryLength(coords) - offsetFromTail,
		})
		*nextStateId++
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})
	if len(candidates) > maxCandidatesPerObservation {
		candidates = candidates[:maxCandidatesPerObservation]
	}
	return candidates
}
