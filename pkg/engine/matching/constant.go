package matching

const (
	// newson & krumm parameters, sigmaZ in meter
	sigmaZ = 4.07
	beta   = 2.0

	// transitions whose detour exceeds this are pruned, in meter
	maximumTransitionDistance = 2000.0

	// candidate search radius around an observation, in km
	candidateSearchRadius = 0.2

	maxCandidatesPerObservation = 16

	// successive observations closer than this carry no information, in meter
	observationFilterDistance = 2 * sigmaZ

	transitionWorkers = 16
)
