package dqn

import (
	"fmt"

	"github.com/LondonNode/Pearl/agent"
	env "github.com/LondonNode/Pearl/environment"
	"github.com/LondonNode/Pearl/expreplay"
	"github.com/LondonNode/Pearl/initwfn"
	"github.com/LondonNode/Pearl/network"
	"github.com/LondonNode/Pearl/solver"
)

func init() {
	// Register Config type so that it can be typed using
	// agent.TypedConfig to help with serialization/deserialization.
	agent.Register(agent.EGreedyDQN, Config{})
}

// Config implements a configuration for a DQN agent
type Config struct {
	PolicyLayers []int                 // Layer sizes in neural net
	Biases       []bool                // Whether each layer should have a bias
	Activations  []*network.Activation // Activation of each layer
	Solver       *solver.Solver        // Solver for learning weights

	// Initialization algorithm for weights
	InitWFn *initwfn.InitWFn

	Epsilon    float64 // Behaviour policy epsilon
	StartSteps int     // Uniform random actions before acting greedily

	// Experience replay parameters
	ExpReplay    expreplay.Config
	BatchSize    int
	CriticEpochs int // Gradient steps per call to Step

	Gamma   float64
	MaxGrad float64 // Global gradient norm clip, <= 0 for no clipping

	// Target net updates
	Tau                  float64 // Polyak averaging constant
	TargetUpdateInterval int     // Number of gradient steps between updates
}

// DefaultConfig returns a Config with the default hyperparameters
func DefaultConfig() Config {
	adam, err := solver.NewDefaultAdam(1e-3, 1)
	if err != nil {
		panic(fmt.Sprintf("defaultconfig: %v", err))
	}
	initW, err := initwfn.NewGlorotU(1.0)
	if err != nil {
		panic(fmt.Sprintf("defaultconfig: %v", err))
	}

	return Config{
		PolicyLayers: []int{64, 64},
		Biases:       []bool{true, true},
		Activations: []*network.Activation{network.ReLU(),
			network.ReLU()},
		Solver:     adam,
		InitWFn:    initW,
		Epsilon:    0.1,
		StartSteps: 0,
		ExpReplay: expreplay.Config{
			SampleMethod:      expreplay.Uniform,
			MaxReplayCapacity: 100_000,
			MinReplayCapacity: 32,
		},
		BatchSize:            32,
		CriticEpochs:         1,
		Gamma:                1.0,
		MaxGrad:              0.5,
		Tau:                  1.0,
		TargetUpdateInterval: 1,
	}
}

// Type returns the type of the configuration
func (c Config) Type() agent.Type {
	return agent.EGreedyDQN
}

// Validate checks a Config to ensure it is a valid configuration of a
// DQN agent.
func (c Config) Validate() error {
	if len(c.PolicyLayers) != len(c.Biases) {
		return fmt.Errorf("validate: invalid number of biases\n\twant(%v)"+
			"\n\thave(%v)", len(c.PolicyLayers), len(c.Biases))
	}

	if len(c.PolicyLayers) != len(c.Activations) {
		return fmt.Errorf("validate: invalid number of activations"+
			"\n\twant(%v)\n\thave(%v)", len(c.PolicyLayers),
			len(c.Activations))
	}

	if c.Solver == nil || c.InitWFn == nil {
		return fmt.Errorf("validate: solver and weight initializer " +
			"must be set")
	}

	if c.Epsilon < 0 || c.Epsilon > 1 {
		return fmt.Errorf("validate: epsilon must be in [0, 1]\n\thave(%v)",
			c.Epsilon)
	}

	if c.StartSteps < 0 {
		return fmt.Errorf("validate: start steps must be non-negative"+
			"\n\thave(%v)", c.StartSteps)
	}

	if err := c.ExpReplay.Validate(); err != nil {
		return fmt.Errorf("validate: %v", err)
	}

	if c.BatchSize < 1 || c.CriticEpochs < 1 {
		return fmt.Errorf("validate: batch size (%v) and critic epochs "+
			"(%v) must be positive", c.BatchSize, c.CriticEpochs)
	}

	if c.Gamma < 0 || c.Gamma > 1 {
		return fmt.Errorf("validate: gamma must be in [0, 1]\n\thave(%v)",
			c.Gamma)
	}

	if c.Tau <= 0 || c.Tau > 1 {
		return fmt.Errorf("validate: tau must be in (0, 1]\n\thave(%v)",
			c.Tau)
	}

	if c.TargetUpdateInterval < 1 {
		return fmt.Errorf("validate: target networks must be updated at "+
			"positive timestep intervals \n\twant(>0) \n\thave(%v)",
			c.TargetUpdateInterval)
	}

	return nil
}

// ValidAgent returns whether the agent is valid for the configuration.
// That is, whether Agent a can be constructed with Config c.
func (c Config) ValidAgent(a agent.Agent) bool {
	_, ok := a.(*DQN)
	return ok
}

// CreateAgent creates a new DQN agent based on the configuration
func (c Config) CreateAgent(e env.Environment, s uint64) (agent.Agent,
	error) {
	return New(e, c, s)
}
