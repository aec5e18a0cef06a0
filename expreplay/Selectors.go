package expreplay

import (
	"fmt"

	"golang.org/x/exp/rand"
)

// SelectorType determines which Selector a Config creates
type SelectorType string

const (
	// Uniform selects transitions uniformly randomly with replacement
	Uniform SelectorType = "Uniform"

	// Recent selects the most recently added transitions
	Recent SelectorType = "Recent"
)

func (s SelectorType) valid() bool {
	return s == Uniform || s == Recent
}

// CreateSelector returns the Selector of the given type
func CreateSelector(t SelectorType, seed uint64) (Selector, error) {
	switch t {
	case Uniform:
		return NewUniformSelector(seed), nil
	case Recent:
		return NewRecentSelector(), nil
	}
	return nil, fmt.Errorf("createselector: no such selector type %q", t)
}

// Selector implements functionality for choosing which slots of an
// experience replay buffer are sampled.
type Selector interface {
	// choose selects n slots of the buffer to sample
	choose(r *ring, n int) []int
}

// uniformSelector is a Selector which selects data from an experience
// replay buffer uniformly randomly
type uniformSelector struct {
	rng *rand.Rand
}

// NewUniformSelector returns a new Selector which selects data uniformly
// randomly from an experience replay buffer
func NewUniformSelector(seed uint64) Selector {
	return &uniformSelector{rng: rand.New(rand.NewSource(seed))}
}

// choose selects n indices uniformly with replacement. Before the
// buffer wraps, indices are drawn from [0, pos). After it wraps,
// offsets are drawn from [1, capacity) and shifted by the write cursor
// so that the cursor slot, whose next observation is stale, is never
// drawn.
func (u *uniformSelector) choose(r *ring, n int) []int {
	selected := make([]int, n)

	if !r.full {
		for i := range selected {
			selected[i] = u.rng.Intn(r.pos)
		}
		return selected
	}

	for i := range selected {
		offset := u.rng.Intn(r.maxCapacity-1) + 1
		selected[i] = (offset + r.pos) % r.maxCapacity
	}
	return selected
}

// recentSelector is a Selector which selects the most recently added
// data first.
type recentSelector struct{}

// NewRecentSelector returns a new Selector which draws the most recent
// transitions from an experience replay buffer, newest first. If more
// transitions are requested than can be sampled, selection cycles back
// to the newest transition.
func NewRecentSelector() Selector {
	return recentSelector{}
}

// choose selects the n most recent indices
func (recentSelector) choose(r *ring, n int) []int {
	selected := make([]int, n)
	available := r.sampleable()

	for i := range selected {
		back := i%available + 1
		selected[i] = (r.pos - back + r.maxCapacity) % r.maxCapacity
	}
	return selected
}
