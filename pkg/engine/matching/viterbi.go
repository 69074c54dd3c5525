package matching

import (
	"math"

	"github.com/lintang-b-s/waymatch/pkg/util"
)

type Transition struct {
	From int
	To   int
}

func NewTransition(from, to int) Transition {
	return Transition{From: from, To: to}
}

type SequenceState struct {
	State       int
	Observation int
}

// extendedState. back pointer chain for sequence retrieval
type extendedState struct {
	state       int
	backPointer *extendedState
	observation int
}

type forwardStepResult struct {
	newMessage        map[int]float64
	newExtendedStates map[int]*extendedState
}

/*
Viterbi incremental viterbi over candidate road positions. for each state s_t of
the current time step t, message[s_t] holds the log probability of the most
likely sequence ending in s_t. observations are fed one at a time, so the same
instance serves batch and streaming matching.
*/
type Viterbi struct {
	lastExtendedStates map[int]*extendedState
	prevCandidates     []int
	message            map[int]float64
	isBroken           bool
}

func NewViterbi() *Viterbi {
	return &Viterbi{}
}

// StartWithInitialObservation seed the chain with the emission probabilities of
// the first observation's candidates.
func (v *Viterbi) StartWithInitialObservation(observation int, candidates []int,
	emissionLogProbabilities map[int]float64) error {

	if v.message != nil {
		return util.WrapErrorf(nil, util.ErrConflict, "initial probabilities have already been set")
	}

	initialMessage := make(map[int]float64, len(candidates))
	for _, candidate := range candidates {
		logProbability, ok := emissionLogProbabilities[candidate]
		if !ok {
			return util.WrapErrorf(nil, util.ErrBadParamInput, "no initial probability for state %d", candidate)
		}
		initialMessage[candidate] = logProbability
	}

	v.isBroken = v.hmmBreak(initialMessage)
	if v.isBroken {
		return ErrHMMBreak
	}

	v.message = initialMessage
	v.lastExtendedStates = make(map[int]*extendedState, len(candidates))
	for _, candidate := range candidates {
		v.lastExtendedStates[candidate] = &extendedState{
			state:       candidate,
			observation: observation,
		}
	}

	v.prevCandidates = append([]int(nil), candidates...)
	return nil
}

// NextStep advance the chain by one observation. returns ErrHMMBreak when every
// candidate ends up with zero probability, the caller decides how to recover.
func (v *Viterbi) NextStep(observation int, candidates []int,
	emissionLogProbabilities map[int]float64,
	transitionLogProbabilities map[Transition]float64) error {

	if v.message == nil {
		return util.WrapErrorf(nil, util.ErrConflict, "StartWithInitialObservation must be called first")
	}
	if v.isBroken {
		return util.WrapErrorf(nil, util.ErrConflict, "NextStep must not be called after an hmm break")
	}

	result, err := v.forwardStep(observation, candidates,
		emissionLogProbabilities, transitionLogProbabilities)
	if err != nil {
		return err
	}

	v.isBroken = v.hmmBreak(result.newMessage)
	if v.isBroken {
		return ErrHMMBreak
	}

	v.message = result.newMessage
	v.lastExtendedStates = result.newExtendedStates
	v.prevCandidates = append([]int(nil), candidates...)
	return nil
}

// ComputeMostLikelySequence most likely state sequence over all steps fed so far.
func (v *Viterbi) ComputeMostLikelySequence() []SequenceState {
	if v.message == nil {
		return []SequenceState{}
	}

	lastState := v.mostLikelyState()
	result := make([]SequenceState, 0)
	for es := v.lastExtendedStates[lastState]; es != nil; es = es.backPointer {
		result = append(result, SequenceState{State: es.state, Observation: es.observation})
	}
	return util.ReverseG(result)
}

func (v *Viterbi) IsBroken() bool {
	return v.isBroken
}

// Reset clears the chain so the matcher can restart after a break.
func (v *Viterbi) Reset() {
	v.lastExtendedStates = nil
	v.prevCandidates = nil
	v.message = nil
	v.isBroken = false
}

// hmmBreak message is empty or every candidate has zero probability (-inf log)
func (v *Viterbi) hmmBreak(message map[int]float64) bool {
	for _, logProbability := range message {
		if logProbability != math.Inf(-1) {
			return false
		}
	}
	return true
}

func (v *Viterbi) forwardStep(observation int, curCandidates []int,
	emissionLogProbabilities map[int]float64,
	transitionLogProbabilities map[Transition]float64) (*forwardStepResult, error) {

	if len(v.prevCandidates) == 0 {
		return nil, util.WrapErrorf(nil, util.ErrConflict, "prevCandidates must not be empty")
	}

	result := &forwardStepResult{
		newMessage:        make(map[int]float64, len(curCandidates)),
		newExtendedStates: make(map[int]*extendedState, len(curCandidates)),
	}

	for _, curState := range curCandidates {
		maxLogProbability := math.Inf(-1)
		maxPrevState := -1

		for _, prevState := range v.prevCandidates {
			logProbability := v.message[prevState] +
				v.transitionLogProbability(prevState, curState, transitionLogProbabilities)
			if logProbability > maxLogProbability {
				maxLogProbability = logProbability
				maxPrevState = prevState
			}
		}

		emissionProb, ok := emissionLogProbabilities[curState]
		if !ok {
			return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "no emission probability for state %d", curState)
		}

		result.newMessage[curState] = maxLogProbability + emissionProb

		// maxPrevState stays -1 when no transition has non -inf probability
		if maxPrevState != -1 {
			result.newExtendedStates[curState] = &extendedState{
				state:       curState,
				backPointer: v.lastExtendedStates[maxPrevState],
				observation: observation,
			}
		}
	}

	return result, nil
}

func (v *Viterbi) transitionLogProbability(prevState, curState int,
	transitionLogProbabilities map[Transition]float64) float64 {

	logProb, ok := transitionLogProbabilities[NewTransition(prevState, curState)]
	if !ok {
		return math.Inf(-1)
	}
	return logProb
}

func (v *Viterbi) mostLikelyState() int {
	var result int
	maxLogProbability := math.Inf(-1)
	for state, logProb := range v.message {
		if logProb > maxLogProbability {
			result = state
			maxLogProbability = logProb
		}
	}
	return result
}
