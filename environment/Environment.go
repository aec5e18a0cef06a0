// Package environment outlines the interfaces and structs needed to
// implement concrete environments
package environment

import (
	"github.com/LondonNode/Pearl/timestep"
	"gonum.org/v1/gonum/mat"
)

// Environment implements a simulated environment that agents interact
// with one timestep at a time.
type Environment interface {
	// Reset starts a new episode and returns its first timestep
	Reset() (timestep.TimeStep, error)

	// Step takes an action in the environment and returns the next
	// timestep as well as whether the episode has ended
	Step(action *mat.VecDense) (timestep.TimeStep, bool, error)

	// LastTimeStep returns the last timestep generated by the
	// environment
	LastTimeStep() timestep.TimeStep

	ObservationSpec() Spec
	ActionSpec() Spec
}

// NumActions returns the number of actions of an environment with
// discrete, 1-dimensional actions enumerated from 0.
func NumActions(e Environment) int {
	return int(e.ActionSpec().UpperBound.AtVec(0)) + 1
}
