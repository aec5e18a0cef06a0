// Package experiment implements functionality for running an experiment
package experiment

import (
	"fmt"

	"github.com/LondonNode/Pearl/agent"
	"github.com/LondonNode/Pearl/environment/envconfig"
	"github.com/LondonNode/Pearl/experiment/tracker"
)

// Interface Experiment outlines structs that can run experiments.
// Experiments send each TimeStep to their Trackers, which cache the
// data to be saved to disk with Save(), usually after the experiment
// has been run. Run() runs all episodes until the maximum timestep
// limit is reached, and RunEpisode() runs a single episode.
type Experiment interface {
	Run() error
	RunEpisode() (bool, error) // Returns whether the step limit was reached

	// Save all tracked data to disk
	Save() error

	// Adds a new tracker.Tracker to the (possibly already running)
	// experiment. Useful if you want to track data only after a
	// specified event.
	Register(t tracker.Tracker)
}

type Type string

const (
	OnlineExp Type = "OnlineExperiment"
)

// Config represents a configuration of an experiment.
type Config struct {
	Type
	MaxSteps  uint
	EnvConf   envconfig.Config
	AgentConf agent.TypedConfig
}

// Validate returns an error if the Config cannot create an Experiment
func (c Config) Validate() error {
	if c.Type != OnlineExp {
		return fmt.Errorf("validate: no such experiment type %q", c.Type)
	}
	if c.MaxSteps == 0 {
		return fmt.Errorf("validate: experiment must run for at least " +
			"one step")
	}
	if err := c.EnvConf.Validate(); err != nil {
		return fmt.Errorf("validate: %v", err)
	}
	if c.AgentConf.Config == nil {
		return fmt.Errorf("validate: no agent configuration")
	}
	if err := c.AgentConf.Validate(); err != nil {
		return fmt.Errorf("validate: %v", err)
	}
	return nil
}

// CreateExp creates the Experiment described by the Config
func (c Config) CreateExp(seed uint64, t ...tracker.Tracker) (Experiment,
	error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("createexp: %v", err)
	}

	env, _, err := c.EnvConf.Create()
	if err != nil {
		return nil, fmt.Errorf("createexp: could not create "+
			"environment: %v", err)
	}
	a, err := c.AgentConf.CreateAgent(env, seed)
	if err != nil {
		return nil, fmt.Errorf("createexp: could not create agent: %v", err)
	}

	return NewOnline(env, a, c.MaxSteps, t...), nil
}
