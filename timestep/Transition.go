package timestep

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Transition is a single (s, a, r, s', done) tuple of interaction
// with an environment.
type Transition struct {
	State     mat.Vector
	Action    mat.Vector
	Reward    float64
	NextState mat.Vector
	Done      bool
}

// NewTransition creates the Transition generated by taking action in
// the observation of step and arriving at next. The transition is done
// if next is the last step of an episode.
func NewTransition(step TimeStep, action mat.Vector,
	next TimeStep) Transition {
	return Transition{
		State:     step.Observation,
		Action:    action,
		Reward:    next.Reward,
		NextState: next.Observation,
		Done:      next.Last(),
	}
}

// DoneFloat returns the done flag as a terminal mask value, 1 if the
// transition ended an episode and 0 otherwise.
func (t Transition) DoneFloat() float64 {
	if t.Done {
		return 1.0
	}
	return 0.0
}

func (t Transition) String() string {
	return fmt.Sprintf("Transition | S: %v  |  A: %v  |  R: %.2f  |  "+
		"S': %v  |  Done: %v", mat.Formatted(t.State.T()),
		mat.Formatted(t.Action.T()), t.Reward, mat.Formatted(t.NextState.T()),
		t.Done)
}
