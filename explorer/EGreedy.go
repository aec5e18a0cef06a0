// Package explorer implements action selection strategies that trade
// off exploration and exploitation over learned action values
package explorer

import (
	"fmt"

	"github.com/LondonNode/Pearl/utils/floatutils"
	"golang.org/x/exp/rand"
)

// EGreedy implements epsilon greedy action selection. For the first
// StartSteps selections, actions are chosen uniformly randomly. After
// that, a uniformly random action is chosen with probability epsilon
// and a greedy action is chosen otherwise. Ties between greedy actions
// are broken randomly.
type EGreedy struct {
	epsilon    float64
	startSteps int
	steps      int
	numActions int

	rng *rand.Rand
}

// NewEGreedy returns a new EGreedy explorer over numActions actions
func NewEGreedy(epsilon float64, startSteps, numActions int,
	seed uint64) (*EGreedy, error) {
	if epsilon < 0 || epsilon > 1 {
		return nil, fmt.Errorf("newegreedy: epsilon must be in [0, 1]"+
			"\n\thave(%v)", epsilon)
	}
	if startSteps < 0 {
		return nil, fmt.Errorf("newegreedy: start steps must be "+
			"non-negative\n\thave(%v)", startSteps)
	}
	if numActions <= 0 {
		return nil, fmt.Errorf("newegreedy: number of actions must be "+
			"positive\n\thave(%v)", numActions)
	}

	return &EGreedy{
		epsilon:    epsilon,
		startSteps: startSteps,
		numActions: numActions,
		rng:        rand.New(rand.NewSource(seed)),
	}, nil
}

// SetEpsilon sets the value for epsilon
func (e *EGreedy) SetEpsilon(ε float64) {
	e.epsilon = ε
}

// Epsilon gets the value of epsilon
func (e *EGreedy) Epsilon() float64 {
	return e.epsilon
}

// Steps returns the number of actions selected with Select
func (e *EGreedy) Steps() int {
	return e.steps
}

// Select selects an action given the action values in the current
// state.
func (e *EGreedy) Select(actionValues []float64) (int, error) {
	if len(actionValues) != e.numActions {
		return 0, fmt.Errorf("select: invalid number of action values"+
			"\n\twant(%v)\n\thave(%v)", e.numActions, len(actionValues))
	}

	e.steps++
	if e.steps <= e.startSteps || e.rng.Float64() < e.epsilon {
		return e.rng.Intn(e.numActions), nil
	}
	return e.greedy(actionValues), nil
}

// Greedy selects a greedy action without counting towards the start
// steps.
func (e *EGreedy) Greedy(actionValues []float64) (int, error) {
	if len(actionValues) != e.numActions {
		return 0, fmt.Errorf("greedy: invalid number of action values"+
			"\n\twant(%v)\n\thave(%v)", e.numActions, len(actionValues))
	}
	return e.greedy(actionValues), nil
}

func (e *EGreedy) greedy(actionValues []float64) int {
	_, maxIndices := floatutils.MaxSlice(actionValues)

	// If multiple actions have max value, return a random max-valued action
	if len(maxIndices) == 1 {
		return maxIndices[0]
	}
	return maxIndices[e.rng.Intn(len(maxIndices))]
}
