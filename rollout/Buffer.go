// Package rollout implements an on-policy buffer that stores complete
// trajectories and computes generalized advantage estimates for them
package rollout

import (
	"fmt"

	"github.com/LondonNode/Pearl/signal"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Buffer implements a forward view generalized advantage estimate,
// GAE(λ), buffer following https://arxiv.org/abs/1506.02438. The buffer
// has a fixed size and must be filled before its data can be retrieved.
type Buffer struct {
	obsSize    int // Size of state observations
	actionSize int // Number of action dimensions
	maxSize    int

	currentPos   int
	pathStartIdx int // Position where the current trajectory starts

	lambda float64 // λ for GAE(λ) calculation
	gamma  float64 // Discount factor ℽ; overwrites env discount factor

	obsBuffer []float64
	actBuffer []float64
	advBuffer []float64
	rewBuffer []float64
	retBuffer []float64
	valBuffer []float64
}

// New creates and returns a new GAE(λ) buffer
func New(obsDim, actDim, size int, lambda, gamma float64) (*Buffer, error) {
	if obsDim <= 0 || actDim <= 0 || size <= 0 {
		return nil, fmt.Errorf("new: observation size (%v), action size "+
			"(%v) and buffer size (%v) must be positive", obsDim, actDim, size)
	}
	if lambda < 0 || lambda > 1 || gamma < 0 || gamma > 1 {
		return nil, fmt.Errorf("new: lambda (%v) and gamma (%v) must be in "+
			"[0, 1]", lambda, gamma)
	}

	return &Buffer{
		obsSize:    obsDim,
		actionSize: actDim,
		maxSize:    size,
		lambda:     lambda,
		gamma:      gamma,
		obsBuffer:  make([]float64, size*obsDim),
		actBuffer:  make([]float64, size*actDim),
		advBuffer:  make([]float64, size),
		rewBuffer:  make([]float64, size),
		retBuffer:  make([]float64, size),
		valBuffer:  make([]float64, size),
	}, nil
}

// Store stores a single timestep state, action, reward, and value to
// the Buffer.
func (b *Buffer) Store(obs, act []float64, rew, val float64) error {
	if b.currentPos >= b.maxSize {
		return fmt.Errorf("store: cannot add new transition, buffer at " +
			"maximum capacity")
	}
	if len(obs) != b.obsSize {
		return fmt.Errorf("store: illegal obs length \n\twant(%v)\n\thave(%v)",
			b.obsSize, len(obs))
	}
	if len(act) != b.actionSize {
		return fmt.Errorf("store: illegal act length \n\twant(%v)\n\thave(%v)",
			b.actionSize, len(act))
	}

	copy(b.obsBuffer[b.currentPos*b.obsSize:], obs)
	copy(b.actBuffer[b.currentPos*b.actionSize:], act)

	b.rewBuffer[b.currentPos] = rew
	b.valBuffer[b.currentPos] = val
	b.currentPos++
	return nil
}

// FinishPath computes advantage estimates using GAE(λ) and
// rewards-to-go for each state of the current trajectory. This should
// be called at the end of a trajectory or when one gets cut off by an
// epoch ending.
//
// The lastVal argument should be 0 if the trajectory ended because
// the agent reached a terminal state, and otherwise it should be
// v(s), the value estimate of the current state, so that both
// estimates bootstrap beyond the cutoff.
func (b *Buffer) FinishPath(lastVal float64) error {
	start, stop := b.pathStartIdx, b.currentPos
	if start == stop {
		return nil
	}

	rews := b.rewBuffer[start:stop]
	vals := b.valBuffer[start:stop]

	nextVals := make([]float64, len(vals))
	copy(nextVals, vals[1:])
	nextVals[len(nextVals)-1] = lastVal

	// The bootstrap value carries termination, so no transition is
	// masked
	dones := make([]float64, len(vals))
	adv, _, err := signal.GAE(rews, vals, nextVals, dones, b.gamma, b.lambda)
	if err != nil {
		return fmt.Errorf("finishpath: %v", err)
	}
	copy(b.advBuffer[start:stop], adv)

	rewsToGo := signal.DiscountCumSum(append(append([]float64(nil),
		rews...), lastVal), b.gamma)
	copy(b.retBuffer[start:stop], rewsToGo[:len(rews)])

	b.pathStartIdx = b.currentPos
	return nil
}

// Get returns the observations, actions, advantages, and returns stored
// in the buffer and empties the buffer. Advantages are first
// standardized to mean 0 and standard deviation 1.
func (b *Buffer) Get() (obs, act, adv, ret []float64, err error) {
	if b.currentPos != b.maxSize {
		err := fmt.Errorf("get: buffer must be full before sampling"+
			"\n\twant(%v)\n\thave(%v)", b.maxSize, b.currentPos)
		return nil, nil, nil, nil, err
	}
	if b.pathStartIdx != b.currentPos {
		return nil, nil, nil, nil, fmt.Errorf("get: FinishPath() must be " +
			"called before Get()")
	}

	b.currentPos = 0
	b.pathStartIdx = 0

	// Advantage normalization
	adv = append([]float64(nil), b.advBuffer...)
	mean, std := stat.MeanStdDev(adv, nil)
	if b.maxSize == 1 {
		std = 0
	}
	floats.AddConst(-mean, adv)
	floats.Scale(1/(std+1e-8), adv)

	return b.obsBuffer, b.actBuffer, adv, b.retBuffer, nil
}

// Len returns the number of timesteps stored
func (b *Buffer) Len() int {
	return b.currentPos
}
