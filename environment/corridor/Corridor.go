// Package corridor implements a one-dimensional gridworld in which the
// agent must walk from the leftmost cell to the rightmost cell.
package corridor

import (
	"fmt"

	"github.com/LondonNode/Pearl/environment"
	"github.com/LondonNode/Pearl/timestep"
	"gonum.org/v1/gonum/mat"
)

const (
	Left  = 0
	Right = 1

	// StepReward is the reward for every action that does not reach
	// the goal
	StepReward = -1.0

	// GoalReward is the reward for entering the goal cell
	GoalReward = 0.0
)

// Corridor is an environment with cells 0, 1, ..., N-1. Episodes start
// in cell 0 and end when the agent enters cell N-1 or when the step
// limit is reached. Observations are one-hot encodings of the current
// cell.
type Corridor struct {
	cells     int
	position  int
	discount  float64
	stepLimit int // <= 0 for no limit

	currentStep timestep.TimeStep
}

// New creates a new Corridor with the given number of cells and returns
// it along with the first timestep of the first episode.
func New(cells int, discount float64, stepLimit int) (*Corridor,
	timestep.TimeStep, error) {
	if cells < 2 {
		return nil, timestep.TimeStep{}, fmt.Errorf("new: corridor must "+
			"have at least 2 cells\n\twant(>=2)\n\thave(%v)", cells)
	}

	c := &Corridor{
		cells:     cells,
		discount:  discount,
		stepLimit: stepLimit,
	}
	step, err := c.Reset()
	return c, step, err
}

// Reset resets the environment to the starting cell
func (c *Corridor) Reset() (timestep.TimeStep, error) {
	c.position = 0
	c.currentStep = timestep.New(timestep.First, 0, c.discount,
		c.observation(), 0)
	return c.currentStep, nil
}

// Step moves the agent one cell in the direction of action
func (c *Corridor) Step(action *mat.VecDense) (timestep.TimeStep, bool,
	error) {
	if action.Len() != 1 {
		return timestep.TimeStep{}, false, fmt.Errorf("step: actions "+
			"must be 1-dimensional\n\twant(1)\n\thave(%v)", action.Len())
	}
	if c.currentStep.Last() {
		return timestep.TimeStep{}, true, fmt.Errorf("step: episode " +
			"ended, environment must be reset")
	}

	switch int(action.AtVec(0)) {
	case Left:
		if c.position > 0 {
			c.position--
		}
	case Right:
		c.position++
	default:
		return timestep.TimeStep{}, false, fmt.Errorf("step: illegal "+
			"action %v", action.AtVec(0))
	}

	number := c.currentStep.Number + 1
	reward := StepReward
	stepType := timestep.Mid
	if c.AtGoal() {
		reward = GoalReward
		stepType = timestep.Last
	} else if c.stepLimit > 0 && number >= c.stepLimit {
		stepType = timestep.Last
	}

	c.currentStep = timestep.New(stepType, reward, c.discount,
		c.observation(), number)
	return c.currentStep, c.currentStep.Last(), nil
}

// AtGoal returns whether the agent is in the rightmost cell
func (c *Corridor) AtGoal() bool {
	return c.position == c.cells-1
}

// Position returns the cell the agent is currently in
func (c *Corridor) Position() int {
	return c.position
}

// LastTimeStep returns the last timestep generated by the environment
func (c *Corridor) LastTimeStep() timestep.TimeStep {
	return c.currentStep
}

// ObservationSpec returns the observation specification of the
// environment
func (c *Corridor) ObservationSpec() environment.Spec {
	shape := mat.NewVecDense(c.cells, nil)
	lower := mat.NewVecDense(c.cells, nil)
	upper := mat.NewVecDense(c.cells, nil)
	for i := 0; i < c.cells; i++ {
		upper.SetVec(i, 1.0)
	}
	return environment.NewSpec(shape, environment.Observation, lower, upper,
		environment.Discrete)
}

// ActionSpec returns the action specification of the environment
func (c *Corridor) ActionSpec() environment.Spec {
	shape := mat.NewVecDense(1, nil)
	lower := mat.NewVecDense(1, []float64{Left})
	upper := mat.NewVecDense(1, []float64{Right})
	return environment.NewSpec(shape, environment.Action, lower, upper,
		environment.Discrete)
}

// observation returns the one-hot encoding of the current cell
func (c *Corridor) observation() *mat.VecDense {
	obs := mat.NewVecDense(c.cells, nil)
	obs.SetVec(c.position, 1.0)
	return obs
}

func (c *Corridor) String() string {
	cells := make([]byte, c.cells)
	for i := range cells {
		cells[i] = '_'
	}
	cells[c.cells-1] = 'G'
	cells[c.position] = 'A'
	return fmt.Sprintf("Corridor | %s", cells)
}
