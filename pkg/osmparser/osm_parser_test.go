package osmparser

import (
	"testing"

	"github.com/paulmach/osm"
	"github.com/stretchr/testify/require"
)

func TestParseMaxSpeed(t *testing.T) {
	testCases := []struct {
		name  string
		value string
		want  float64
	}{
		{name: "km/h with unit", value: "40 km/h", want: 40},
		{name: "unitless is km/h", value: "50", want: 50},
		{name: "mph", value: "30 mph", want: 48.2802},
		{name: "knots", value: "10 knots", want: 18.52},
		{name: "garbage", value: "walk", want: 0},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require.InDelta(t, tt.want, parseMaxSpeed(tt.value), 1e-3)
		})
	}
}

func TestWayDirection(t *testing.T) {
	testCases := []struct {
		name        string
		tags        osm.Tags
		wantOneWay  bool
		wantForward bool
	}{
		{
			name:        "two way street",
			tags:        osm.Tags{{Key: "highway", Value: "residential"}},
			wantOneWay:  false,
			wantForward: true,
		},
		{
			name: "oneway yes",
			tags: osm.Tags{{Key: "highway", Value: "primary"},
				{Key: "oneway", Value: "yes"}},
			wantOneWay:  true,
			wantForward: true,
		},
		{
			name: "oneway reversed",
			tags: osm.Tags{{Key: "highway", Value: "primary"},
				{Key: "oneway", Value: "-1"}},
			wantOneWay:  true,
			wantForward: false,
		},
		{
			name: "roundabout implies oneway",
			tags: osm.Tags{{Key: "highway", Value: "primary"},
				{Key: "junction", Value: "roundabout"}},
			wantOneWay:  true,
			wantForward: true,
		},
		{
			name: "vehicle forward restricted",
			tags: osm.Tags{{Key: "highway", Value: "residential"},
				{Key: "vehicle:forward", Value: "no"}},
			wantOneWay:  true,
			wantForward: false,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			way := &osm.Way{Tags: tt.tags}
			oneWay, forward := wayDirection(way)
			require.Equal(t, tt.wantOneWay, oneWay)
			require.Equal(t, tt.wantForward, forward)
		})
	}
}

func TestParseTurnRestriction(t *testing.T) {
	require.Equal(t, NO_LEFT_TURN, parseTurnRestriction("no_left_turn"))
	require.Equal(t, ONLY_STRAIGHT_ON, parseTurnRestriction("only_straight_on"))
	require.Equal(t, NO_RESTRICTION, parseTurnRestriction("give_way"))
	require.True(t, ONLY_RIGHT_TURN.isOnly())
	require.False(t, NO_U_TURN.isOnly())
}
