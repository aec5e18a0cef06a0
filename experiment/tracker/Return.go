package tracker

import (
	ts "github.com/LondonNode/Pearl/timestep"
	"github.com/aunum/log"
	"github.com/gammazero/deque"
	"gonum.org/v1/gonum/floats"
)

// Return tracks and saves the episodic return in an experiment. When
// an environment returns a TimeStep, this Tracker will extract the
// reward and accumulate the return for each episode in the experiment.
// The returns of the most recent episodes are kept in a moving window.
//
// Note: An episode must finish for this Tracker to save its data.
// If the last episode in an experiment does not finish, that episode's
// return will not be saved.
type Return struct {
	lastTimeStep   int
	currentReturn  float64
	episodeReturns []float64
	filename       string

	window     *deque.Deque[float64]
	windowSize int
}

// NewReturn creates and returns a new *Return Tracker with a moving
// window of windowSize episodes. The data is saved to filename.
func NewReturn(filename string, windowSize int) *Return {
	if windowSize < 1 {
		windowSize = 1
	}
	return &Return{
		lastTimeStep: -1,
		filename:     filename,
		window:       deque.New[float64](windowSize),
		windowSize:   windowSize,
	}
}

// Track tracks the rewards seen on a timestep. By calling this method
// on every timestep, the Tracker accumulates the rewards of each
// episode as its episodic return. A timestep with Number 0 starts a
// new episode.
func (r *Return) Track(step ts.TimeStep) {
	if step.Number == 0 {
		// The first timestep of an episode carries no reward
		if r.lastTimeStep != -1 {
			log.Warningf("return: episode ended without a last timestep "+
				"after %v steps", r.lastTimeStep)
		}
		r.currentReturn = 0
		r.lastTimeStep = 0
		return
	}

	if r.lastTimeStep+1 != step.Number {
		log.Warningf("return: last two timesteps tracked are not "+
			"sequential: timestep %v --> timestep %v were tracked",
			r.lastTimeStep, step.Number)
	}

	r.currentReturn += step.Reward
	r.lastTimeStep = step.Number

	if step.Last() {
		r.episodeReturns = append(r.episodeReturns, r.currentReturn)

		r.window.PushBack(r.currentReturn)
		if r.window.Len() > r.windowSize {
			r.window.PopFront()
		}

		r.currentReturn = 0.0
		r.lastTimeStep = -1
	}
}

// Episodes returns the number of finished episodes
func (r *Return) Episodes() int {
	return len(r.episodeReturns)
}

// LastReturn returns the return of the most recently finished episode
func (r *Return) LastReturn() float64 {
	if len(r.episodeReturns) == 0 {
		return 0
	}
	return r.episodeReturns[len(r.episodeReturns)-1]
}

// MovingAverage returns the average return over the moving window
func (r *Return) MovingAverage() float64 {
	if r.window.Len() == 0 {
		return 0
	}
	returns := make([]float64, r.window.Len())
	for i := range returns {
		returns[i] = r.window.At(i)
	}
	return floats.Sum(returns) / float64(len(returns))
}

// Data returns the returns of all finished episodes
func (r *Return) Data() []float64 {
	return r.episodeReturns
}

// Save saves the data tracked by the Return Tracker to disk.
func (r *Return) Save() error {
	return save(r.filename, r.episodeReturns)
}
