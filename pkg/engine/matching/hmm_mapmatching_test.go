package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lintang-b-s/waymatch/pkg"
	"github.com/lintang-b-s/waymatch/pkg/costfunction"
	"github.com/lintang-b-s/waymatch/pkg/datastructure"
	"github.com/lintang-b-s/waymatch/pkg/spatialindex"
)

const (
	testLat     = -7.7956
	testBaseLon = 110.3695
	lonStep     = 0.001 // roughly 110 m at this latitude
)

// straight one-way street running east, one edge per 110 m block.
func buildMatchingFixture(t *testing.T) *HMMMapMatching {
	numVertices := 5
	vertices := make([]datastructure.Vertex, numVertices)
	for i := 0; i < numVertices; i++ {
		vertices[i] = datastructure.NewVertex(testLat, testBaseLon+float64(i)*lonStep,
			datastructure.Index(i), int64(i))
	}

	edges := make([]datastructure.Edge, 0, numVertices-1)
	for i := 0; i < numVertices-1; i++ {
		edges = append(edges, datastructure.NewEdge(datastructure.Index(i),
			datastructure.Index(i), datastructure.Index(i+1), 10, 110,
			int64(100+i), pkg.RESIDENTIAL))
	}

	graph := datastructure.NewGraph(vertices, edges, nil)

	index := spatialindex.NewRtree()
	index.Build(graph, 0.05, zap.NewNop())

	return NewHMMMapMatching(graph, index, costfunction.NewFastestCostFunction(), zap.NewNop())
}

func traceAlongStreet(offsets []float64) []datastructure.GPSPoint {
	start := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	gps := make([]datastructure.GPSPoint, 0, len(offsets))
	for i, lonOffset := range offsets {
		// 0.00002 deg north of the street centerline, about 2 m of gps noise
		gps = append(gps, datastructure.NewGPSPoint(i, testLat+0.00002,
			testBaseLon+lonOffset, start.Add(time.Duration(i)*10*time.Second)))
	}
	return gps
}

func TestMapMatchStraightStreet(t *testing.T) {
	hmm := buildMatchingFixture(t)

	// fixes near the middle of edge 0, 1, 2, 3
	gps := traceAlongStreet([]float64{0.0005, 0.0015, 0.0025, 0.0035})

	matched, err := hmm.MapMatch(gps)
	require.NoError(t, err)
	require.Len(t, matched, 4)

	for i, m := range matched {
		require.Equal(t, i, m.GetObservationID())
		require.Equal(t, datastructure.Index(i), m.GetEdgeID())
		require.Equal(t, int64(100+i), m.GetWayID())
		require.InDelta(t, testLat, m.GetProjection().GetLat(), 0.0001,
			"projection must sit on the street centerline")
	}
}

func TestMapMatchFiltersJitter(t *testing.T) {
	hmm := buildMatchingFixture(t)

	// second fix is less than 2*sigmaZ from the first and must be dropped
	gps := traceAlongStreet([]float64{0.0005, 0.00052, 0.0015, 0.0025})

	matched, err := hmm.MapMatch(gps)
	require.NoError(t, err)
	require.Len(t, matched, 3)
	require.Equal(t, 0, matched[0].GetObservationID())
	require.Equal(t, 2, matched[1].GetObservationID())
	require.Equal(t, 3, matched[2].GetObservationID())
}

func TestMapMatchTooFewObservations(t *testing.T) {
	hmm := buildMatchingFixture(t)

	gps := traceAlongStreet([]float64{0.0005})
	_, err := hmm.MapMatch(gps)
	require.Error(t, err)
}

func TestMapMatchFarFromNetwork(t *testing.T) {
	hmm := buildMatchingFixture(t)

	start := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	gps := []datastructure.GPSPoint{
		datastructure.NewGPSPoint(0, testLat+1.0, testBaseLon, start),
		datastructure.NewGPSPoint(1, testLat+1.0, testBaseLon+0.01, start.Add(10*time.Second)),
	}

	_, err := hmm.MapMatch(gps)
	require.Error(t, err)
}

func TestOnlineMatcherFollowsVehicle(t *testing.T) {
	hmm := buildMatchingFixture(t)
	om := NewOnlineMatcher(hmm)

	gps := traceAlongStreet([]float64{0.0005, 0.0015, 0.0025})

	for i, obs := range gps {
		m, err := om.Update(obs)
		require.NoError(t, err)
		require.Equal(t, datastructure.Index(i), m.GetEdgeID())
	}
}
