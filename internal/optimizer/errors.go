package optimizer

import "errors"

// ErrNoFeasibleSolution is returned when the candidate space is empty or
// every candidate is excluded by the volume limits.
var ErrNoFeasibleSolution = errors.New("no feasible propellant assignment")
