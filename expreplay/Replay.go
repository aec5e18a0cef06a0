package expreplay

import (
	"fmt"

	"github.com/LondonNode/Pearl/timestep"
)

// ring implements a concrete ExperienceReplayer as a fixed capacity
// circular buffer. Data is overwritten in FiFo order once the buffer
// is full.
//
// The next observation of a transition is not stored separately.
// Instead, it is written as the observation of the following slot, so
// that the next observation of the transition at slot i is the
// observation at slot (i+1) mod capacity. Valid transitions occupy
// [0, pos) until the buffer wraps, and afterwards every slot except
// the write cursor pos, whose observation has already been replaced
// by the next observation of the most recent transition.
type ring struct {
	observations []float64
	actions      []float64
	rewards      []float64
	dones        []float64

	pos  int // Write cursor
	full bool

	sampler Selector

	minCapacity int
	maxCapacity int
	featureSize int
	actionSize  int
}

// New creates and returns a new ExperienceReplayer. The sampler
// determines how indices are drawn from the buffer. The featureSize
// and actionSize parameters define the size of the observation and
// action vectors. The buffer cannot be sampled until it holds at least
// minCapacity transitions, and holds at most maxCapacity transitions.
//
// Pixel observations should be flattened before adding to the buffer.
func New(sampler Selector, minCapacity, maxCapacity, featureSize,
	actionSize int) (ExperienceReplayer, error) {
	if maxCapacity < 2 {
		return nil, fmt.Errorf("new: maxCapacity must be >= 2\n\twant(>=2)"+
			"\n\thave(%v)", maxCapacity)
	}
	if minCapacity <= 0 {
		return nil, fmt.Errorf("new: minCapacity must be > 0")
	}
	if minCapacity > maxCapacity {
		return nil, fmt.Errorf("new: minCapacity (%v) > maxCapacity (%v)",
			minCapacity, maxCapacity)
	}
	if featureSize <= 0 || actionSize <= 0 {
		return nil, fmt.Errorf("new: feature size (%v) and action size "+
			"(%v) must be positive", featureSize, actionSize)
	}
	if sampler == nil {
		return nil, fmt.Errorf("new: nil sampler")
	}

	checkSystemMemory(requiredBytes(maxCapacity, featureSize, actionSize))

	return &ring{
		observations: make([]float64, maxCapacity*featureSize),
		actions:      make([]float64, maxCapacity*actionSize),
		rewards:      make([]float64, maxCapacity),
		dones:        make([]float64, maxCapacity),

		sampler: sampler,

		minCapacity: minCapacity,
		maxCapacity: maxCapacity,
		featureSize: featureSize,
		actionSize:  actionSize,
	}, nil
}

// Add adds a transition to the buffer at the write cursor
func (r *ring) Add(t timestep.Transition) error {
	if t.State.Len() != r.featureSize {
		return fmt.Errorf("add: invalid feature size \n\twant(%v)\n\thave(%v)",
			r.featureSize, t.State.Len())
	}
	if t.NextState.Len() != r.featureSize {
		return fmt.Errorf("add: invalid next state feature size \n\twant(%v)"+
			"\n\thave(%v)", r.featureSize, t.NextState.Len())
	}
	if t.Action.Len() != r.actionSize {
		return fmt.Errorf("add: invalid action size \n\twant(%v)\n\thave(%v)",
			r.actionSize, t.Action.Len())
	}

	next := (r.pos + 1) % r.maxCapacity
	for i := 0; i < r.featureSize; i++ {
		r.observations[r.pos*r.featureSize+i] = t.State.AtVec(i)
		r.observations[next*r.featureSize+i] = t.NextState.AtVec(i)
	}
	for i := 0; i < r.actionSize; i++ {
		r.actions[r.pos*r.actionSize+i] = t.Action.AtVec(i)
	}
	r.rewards[r.pos] = t.Reward
	r.dones[r.pos] = t.DoneFloat()

	r.pos++
	if r.pos == r.maxCapacity {
		r.full = true
		r.pos = 0
	}
	return nil
}

// Sample samples and returns a batch of transitions from the replay
// buffer
func (r *ring) Sample(batchSize int) (Batch, error) {
	if batchSize <= 0 {
		return Batch{}, fmt.Errorf("sample: batch size must be positive"+
			"\n\twant(>0)\n\thave(%v)", batchSize)
	}
	if r.Len() == 0 {
		return Batch{}, &ExpReplayError{Op: "sample", Err: errEmptyCache}
	}
	if r.Len() < r.MinCapacity() {
		return Batch{}, &ExpReplayError{Op: "sample", Err: errInsufficientSamples}
	}

	indices := r.sampler.choose(r, batchSize)
	return r.gather(indices), nil
}

// gather copies the transitions at indices into a new Batch
func (r *ring) gather(indices []int) Batch {
	n := len(indices)
	batch := Batch{
		Indices:          indices,
		Observations:     make([]float64, n*r.featureSize),
		Actions:          make([]float64, n*r.actionSize),
		Rewards:          make([]float64, n),
		NextObservations: make([]float64, n*r.featureSize),
		Dones:            make([]float64, n),
	}

	for i, index := range indices {
		next := (index + 1) % r.maxCapacity

		copy(batch.Observations[i*r.featureSize:(i+1)*r.featureSize],
			r.observations[index*r.featureSize:(index+1)*r.featureSize])
		copy(batch.NextObservations[i*r.featureSize:(i+1)*r.featureSize],
			r.observations[next*r.featureSize:(next+1)*r.featureSize])
		copy(batch.Actions[i*r.actionSize:(i+1)*r.actionSize],
			r.actions[index*r.actionSize:(index+1)*r.actionSize])

		batch.Rewards[i] = r.rewards[index]
		batch.Dones[i] = r.dones[index]
	}
	return batch
}

// Len returns the number of transitions written to the buffer, which
// is the capacity once the buffer has wrapped.
func (r *ring) Len() int {
	if r.full {
		return r.maxCapacity
	}
	return r.pos
}

// sampleable returns the number of slots that can be sampled. Once the
// buffer is full, the slot at the write cursor is excluded.
func (r *ring) sampleable() int {
	if r.full {
		return r.maxCapacity - 1
	}
	return r.pos
}

// Pos returns the write cursor
func (r *ring) Pos() int {
	return r.pos
}

// Full returns whether the buffer has wrapped at least once
func (r *ring) Full() bool {
	return r.full
}

// MaxCapacity returns the maximum number of transitions that are
// allowed in the buffer
func (r *ring) MaxCapacity() int {
	return r.maxCapacity
}

// MinCapacity returns the minimum number of transitions required in
// the buffer before sampling is allowed
func (r *ring) MinCapacity() int {
	return r.minCapacity
}

// FeatureSize returns the length of the stored observation vectors
func (r *ring) FeatureSize() int {
	return r.featureSize
}

// ActionSize returns the length of the stored action vectors
func (r *ring) ActionSize() int {
	return r.actionSize
}

// String returns the string representation of the buffer
func (r *ring) String() string {
	baseStr := "Pos: %v \nFull: %v \nObservations: %v \nActions: %v" +
		" \nRewards: %v \nDones: %v"
	return fmt.Sprintf(baseStr, r.pos, r.full, r.observations, r.actions,
		r.rewards, r.dones)
}
