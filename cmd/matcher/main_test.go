package main

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lintang-b-s/waymatch/pkg/datastructure"
	"github.com/lintang-b-s/waymatch/pkg/geo"
)

func matchedAlong(lons []float64) []datastructure.MatchedPoint {
	matched := make([]datastructure.MatchedPoint, 0, len(lons))
	for i, lon := range lons {
		matched = append(matched, datastructure.NewMatchedPoint(i,
			datastructure.Index(i), int64(100+i), geo.NewCoordinate(-7.7956, lon)))
	}
	return matched
}

func tripEvents(t *testing.T, matched []datastructure.MatchedPoint) []string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	require.NoError(t, writeTripLegs(w, "trip-1", matched))
	w.Flush()

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	events := make([]string, 0, len(rows))
	for _, row := range rows {
		require.Len(t, row, 8)
		require.Equal(t, "trip-1", row[0])
		events = append(events, row[6])
	}
	return events
}

func TestWriteTripLegsEvents(t *testing.T) {
	events := tripEvents(t, matchedAlong([]float64{110.3695, 110.3705, 110.3715, 110.3725}))
	require.Equal(t, []string{"start", "route", "end"}, events)
}

func TestWriteTripLegsTwoPointsEndsTrip(t *testing.T) {
	events := tripEvents(t, matchedAlong([]float64{110.3695, 110.3705}))
	require.Equal(t, []string{"end"}, events)
}

func TestWriteTripLegsSinglePointNoLegs(t *testing.T) {
	events := tripEvents(t, matchedAlong([]float64{110.3695}))
	require.Empty(t, events)
}
