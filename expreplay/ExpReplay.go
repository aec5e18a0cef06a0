// Package expreplay implements experience replay buffers for
// off-policy learning
package expreplay

import (
	"fmt"

	"github.com/LondonNode/Pearl/timestep"
)

// Config implements a specific configuration of an ExperienceReplayer
type Config struct {
	SampleMethod      SelectorType
	MaxReplayCapacity int
	MinReplayCapacity int
}

// Create creates and returns the ExperienceReplayer with the specified
// Config.
func (c Config) Create(featureSize, actionSize int,
	seed uint64) (ExperienceReplayer, error) {
	sampler, err := CreateSelector(c.SampleMethod, seed)
	if err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}

	return New(sampler, c.MinReplayCapacity, c.MaxReplayCapacity,
		featureSize, actionSize)
}

// Validate checks that a Config describes a buffer that can be
// constructed
func (c Config) Validate() error {
	if c.MaxReplayCapacity < 2 {
		return fmt.Errorf("validate: max capacity must be >= 2"+
			"\n\twant(>=2)\n\thave(%v)", c.MaxReplayCapacity)
	}
	if c.MinReplayCapacity < 1 || c.MinReplayCapacity > c.MaxReplayCapacity {
		return fmt.Errorf("validate: min capacity must be in [1, %v]"+
			"\n\thave(%v)", c.MaxReplayCapacity, c.MinReplayCapacity)
	}
	if !c.SampleMethod.valid() {
		return fmt.Errorf("validate: no such selector type %q",
			c.SampleMethod)
	}
	return nil
}

// ExperienceReplayer implements an experience replay buffer
type ExperienceReplayer interface {
	// Add adds a transition to the buffer
	Add(t timestep.Transition) error

	// Sample samples a batch of batchSize transitions from the buffer
	Sample(batchSize int) (Batch, error)

	// Len returns the current number of transitions in the buffer
	Len() int

	// MaxCapacity returns the maximum allowable samples in the buffer
	MaxCapacity() int

	// MinCapacity returns the number of samples required to be in
	// the buffer before the buffer can be sampled
	MinCapacity() int

	FeatureSize() int
	ActionSize() int
}

// Batch is a batch of transitions sampled from a replay buffer. All
// vector data is stored in row major order so that row i of each field
// belongs to the transition stored at Indices[i].
type Batch struct {
	Indices          []int
	Observations     []float64
	Actions          []float64
	Rewards          []float64
	NextObservations []float64
	Dones            []float64
}

// Size returns the number of transitions in the batch
func (b Batch) Size() int {
	return len(b.Indices)
}
