// Package timestep implements the steps an environment emits and the
// transitions between them
package timestep

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// StepType marks where in an episode a TimeStep falls
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	}
	return "Mid"
}

// TimeStep is what an environment returns after a reset or an action.
// Reward is the reward for the action that led to the step; it is 0 on
// First steps. Number is 0 after a reset and counts actions taken in
// the episode. A Last step ends the episode, whether the goal was
// reached or a step limit was hit.
type TimeStep struct {
	StepType
	Reward      float64
	Discount    float64
	Observation mat.Vector
	Number      int
}

// New returns a TimeStep of type t with reward r, discount d,
// observation o and step number n
func New(t StepType, r, d float64, o mat.Vector, n int) TimeStep {
	return TimeStep{
		StepType:    t,
		Reward:      r,
		Discount:    d,
		Observation: o,
		Number:      n,
	}
}

func (t TimeStep) First() bool { return t.StepType == First }
func (t TimeStep) Mid() bool   { return t.StepType == Mid }
func (t TimeStep) Last() bool  { return t.StepType == Last }

func (t TimeStep) String() string {
	return fmt.Sprintf("TimeStep | %v #%d | reward %.2f | discount %.2f",
		t.StepType, t.Number, t.Reward, t.Discount)
}
