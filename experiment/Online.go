package experiment

import (
	"fmt"

	"github.com/LondonNode/Pearl/agent"
	env "github.com/LondonNode/Pearl/environment"
	"github.com/LondonNode/Pearl/experiment/tracker"
	ts "github.com/LondonNode/Pearl/timestep"
	"github.com/aunum/log"
)

// logWindow is the number of episodes averaged in progress logs
const logWindow = 100

// Online is an Experiment that runs an agent online only. No offline
// evaluation is performed.
type Online struct {
	env.Environment
	agent.Agent
	maxSteps     uint
	currentSteps uint
	trackers     []tracker.Tracker

	episodes int
	returns  *tracker.Return // Progress logging only
}

// NewOnline creates and returns a new online experiment on a given
// environment with a given agent. The steps parameter determines how
// many timesteps the experiment is run for, and t determines what
// data is saved.
func NewOnline(e env.Environment, a agent.Agent, steps uint,
	t ...tracker.Tracker) *Online {
	return &Online{
		Environment: e,
		Agent:       a,
		maxSteps:    steps,
		trackers:    t,
		returns:     tracker.NewReturn("", logWindow),
	}
}

// Register registers a tracker.Tracker with an Experiment so that data
// generated during the experiment can be tracked and saved
func (o *Online) Register(t tracker.Tracker) {
	o.trackers = append(o.trackers, t)
}

// RunEpisode runs a single episode of the experiment
func (o *Online) RunEpisode() (bool, error) {
	step, err := o.Environment.Reset()
	if err != nil {
		return false, fmt.Errorf("runepisode: %v", err)
	}
	if err := o.Agent.ObserveFirst(step); err != nil {
		return false, fmt.Errorf("runepisode: %v", err)
	}
	o.track(step)

	for !step.Last() && o.currentSteps < o.maxSteps {
		o.currentSteps++

		action, err := o.Agent.SelectAction(step)
		if err != nil {
			return false, fmt.Errorf("runepisode: %v", err)
		}
		step, _, err = o.Environment.Step(action)
		if err != nil {
			return false, fmt.Errorf("runepisode: %v", err)
		}
		o.track(step)

		if err := o.Agent.Observe(action, step); err != nil {
			return false, fmt.Errorf("runepisode: %v", err)
		}
		if err := o.Agent.Step(); err != nil {
			return false, fmt.Errorf("runepisode: %v", err)
		}
	}
	o.Agent.EndEpisode()

	if step.Last() {
		o.episodes++
		o.logEpisode(step)
	}

	// Return whether or not the max timestep limit has been reached
	return o.currentSteps >= o.maxSteps, nil
}

// logEpisode logs the progress of the experiment after an episode
func (o *Online) logEpisode(step ts.TimeStep) {
	var loss float64
	if logger, ok := o.Agent.(agent.Logger); ok {
		loss = logger.LastLog().CriticLoss
	}
	log.Infof("episode %v (step %v/%v): return %.2f, length %v, "+
		"average return %.2f, critic loss %.4f", o.episodes, o.currentSteps,
		o.maxSteps, o.returns.LastReturn(), step.Number,
		o.returns.MovingAverage(), loss)
}

// Run runs the entire experiment for all timesteps
func (o *Online) Run() error {
	for {
		ended, err := o.RunEpisode()
		if err != nil {
			return fmt.Errorf("run: %v", err)
		}
		if ended {
			return nil
		}
	}
}

// Save saves all the data cached by the Trackers to disk
func (o *Online) Save() error {
	for _, t := range o.trackers {
		if err := t.Save(); err != nil {
			return fmt.Errorf("save: %v", err)
		}
	}
	return nil
}

// Steps returns the number of timesteps run so far
func (o *Online) Steps() uint {
	return o.currentSteps
}

// Episodes returns the number of episodes finished so far
func (o *Online) Episodes() int {
	return o.episodes
}

// track tracks the current timestep by caching its data in each Tracker
func (o *Online) track(t ts.TimeStep) {
	o.returns.Track(t)
	for _, tr := range o.trackers {
		tr.Track(t)
	}
}
