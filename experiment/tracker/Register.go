package tracker

import (
	"github.com/LondonNode/Pearl/environment"
	"github.com/LondonNode/Pearl/timestep"
)

// registeredTracker registers an Environment with some Tracker so
// that the Tracker tracks data from the registered Environment only.
// registeredTracker itself is a Tracker.
//
// The argument to registeredTracker.Track() is ignored, and the
// embedded Tracker instead tracks the most recent TimeStep of the
// registered Environment. This may be useful if an experiment runs on
// a wrapper Environment but the data of the wrapped Environment is
// needed.
type registeredTracker struct {
	Tracker
	env environment.Environment
}

// Register registers a new Tracker with an Environment, to track data
// from the registered Environment only.
func Register(t Tracker, env environment.Environment) Tracker {
	return &registeredTracker{t, env}
}

// Track calls Track() on the embedded Tracker using the most recent
// TimeStep from the registered Environment.
func (r *registeredTracker) Track(timestep.TimeStep) {
	r.Tracker.Track(r.env.LastTimeStep())
}
