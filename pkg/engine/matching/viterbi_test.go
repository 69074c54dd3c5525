package matching

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// classic two-state chain: state 1 explains all observations better once the
// transition to it becomes possible.
func TestViterbiMostLikelySequence(t *testing.T) {
	v := NewViterbi()

	err := v.StartWithInitialObservation(0, []int{1, 2},
		map[int]float64{1: math.Log(0.6), 2: math.Log(0.4)})
	require.NoError(t, err)

	transitions := map[Transition]float64{
		NewTransition(1, 1): math.Log(0.7),
		NewTransition(1, 2): math.Log(0.3),
		NewTransition(2, 1): math.Log(0.4),
		NewTransition(2, 2): math.Log(0.6),
	}

	err = v.NextStep(1, []int{1, 2},
		map[int]float64{1: math.Log(0.9), 2: math.Log(0.1)}, transitions)
	require.NoError(t, err)

	err = v.NextStep(2, []int{1, 2},
		map[int]float64{1: math.Log(0.8), 2: math.Log(0.2)}, transitions)
	require.NoError(t, err)

	sequence := v.ComputeMostLikelySequence()
	require.Len(t, sequence, 3)
	for i, s := range sequence {
		require.Equal(t, i, s.Observation)
		require.Equal(t, 1, s.State)
	}
}

func TestViterbiBreakOnUnreachableCandidates(t *testing.T) {
	v := NewViterbi()

	err := v.StartWithInitialObservation(0, []int{1},
		map[int]float64{1: math.Log(0.9)})
	require.NoError(t, err)

	// no transition from 1 to 2, every new candidate unreachable
	err = v.NextStep(1, []int{2},
		map[int]float64{2: math.Log(0.9)}, map[Transition]float64{})
	require.ErrorIs(t, err, ErrHMMBreak)
	require.True(t, v.IsBroken())

	v.Reset()
	err = v.StartWithInitialObservation(1, []int{2},
		map[int]float64{2: math.Log(0.9)})
	require.NoError(t, err)
}

func TestViterbiRequiresInitialization(t *testing.T) {
	v := NewViterbi()
	err := v.NextStep(0, []int{1}, map[int]float64{1: 0}, nil)
	require.Error(t, err)
}
