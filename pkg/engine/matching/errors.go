package matching

import "errors"

// ErrHMMBreak every candidate of the current observation ended up with zero
// probability. the matcher restarts the chain at the breaking observation.
var ErrHMMBreak = errors.New("hmm break: no candidate state is reachable")

// ErrNoCandidates no road segment lies within the search radius of an observation.
var ErrNoCandidates = errors.New("no candidate road segment near observation")
