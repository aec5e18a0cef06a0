// Package dqn implements the deep Q-network algorithm with experience
// replay and target networks
package dqn

import (
	"fmt"

	"github.com/LondonNode/Pearl/agent"
	"github.com/LondonNode/Pearl/environment"
	"github.com/LondonNode/Pearl/explorer"
	"github.com/LondonNode/Pearl/expreplay"
	"github.com/LondonNode/Pearl/network"
	"github.com/LondonNode/Pearl/signal"
	ts "github.com/LondonNode/Pearl/timestep"
	"github.com/LondonNode/Pearl/updater"
	"github.com/aunum/log"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	G "gorgonia.org/gorgonia"
)

// DQN implements the deep Q-network algorithm. Transitions are stored
// in an experience replay buffer, and the update target for a sampled
// transition is computed with a target network:
//
//	target = r + γ * (1 - done) * max_a' Q_target(s', a')
type DQN struct {
	// Network for selecting actions, takes a single observation
	behaviourNet network.NeuralNet
	behaviourVM  G.VM
	explorer     *explorer.EGreedy

	// Network whose weights are adapted, takes batches of inputs
	trainNet network.NeuralNet
	updater  *updater.QRegression

	// Network that provides the update target for a batch of inputs
	targetNet network.NeuralNet
	targetVM  G.VM

	// Variables to track target network updates
	tau                  float64 // Polyak averaging constant
	targetUpdateInterval int     // Gradient steps between target updates
	gradientSteps        int

	replay       expreplay.ExperienceReplayer
	batchSize    int
	criticEpochs int
	gamma        float64
	numActions   int

	// Keep track of the previous step to add transitions to the buffer
	prevStep ts.TimeStep
	started  bool

	lastLog agent.Log
	eval    bool // Whether or not in evaluation mode
}

// New creates and returns a new DQN agent
func New(env environment.Environment, config Config,
	seed uint64) (*DQN, error) {
	// Ensure environment has discrete actions
	if env.ActionSpec().Cardinality != environment.Discrete {
		return nil, fmt.Errorf("new: cannot use non-discrete actions")
	}

	// Ensure actions are one-dimensional
	if env.ActionSpec().LowerBound.Len() > 1 {
		return nil, fmt.Errorf("new: actions must be 1-dimensional")
	}

	// Ensure actions are enumerated from 0
	if env.ActionSpec().LowerBound.AtVec(0) != 0.0 {
		return nil, fmt.Errorf("new: actions must be enumerated " +
			"starting from 0")
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	numActions := environment.NumActions(env)
	features := env.ObservationSpec().Shape.Len()

	trainNet, err := network.NewMultiHeadMLP(
		features,
		config.BatchSize,
		numActions,
		G.NewGraph(),
		config.PolicyLayers,
		config.Biases,
		config.InitWFn.InitWFn(),
		config.Activations,
	)
	if err != nil {
		return nil, fmt.Errorf("new: could not create learning network: %v",
			err)
	}

	// The behaviour network only needs to select a single action
	behaviourNet, err := trainNet.CloneWithBatch(1)
	if err != nil {
		return nil, fmt.Errorf("new: could not create behaviour network: %v",
			err)
	}

	targetNet, err := trainNet.Clone()
	if err != nil {
		return nil, fmt.Errorf("new: could not create target network: %v",
			err)
	}

	critic, err := updater.NewQRegression(trainNet, config.Solver,
		config.MaxGrad)
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	replaySeed, explorerSeed := splitSeed(seed)

	// Actions are stored as their index
	replay, err := config.ExpReplay.Create(features, 1, replaySeed)
	if err != nil {
		return nil, fmt.Errorf("new: could not create experience replay "+
			"buffer: %v", err)
	}

	explore, err := explorer.NewEGreedy(config.Epsilon, config.StartSteps,
		numActions, explorerSeed)
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	return &DQN{
		behaviourNet:         behaviourNet,
		behaviourVM:          G.NewTapeMachine(behaviourNet.Graph()),
		explorer:             explore,
		trainNet:             trainNet,
		updater:              critic,
		targetNet:            targetNet,
		targetVM:             G.NewTapeMachine(targetNet.Graph()),
		tau:                  config.Tau,
		targetUpdateInterval: config.TargetUpdateInterval,
		replay:               replay,
		batchSize:            config.BatchSize,
		criticEpochs:         config.CriticEpochs,
		gamma:                config.Gamma,
		numActions:           numActions,
	}, nil
}

// splitSeed derives the seeds of the replay sampler and the explorer so
// that they draw from different random streams
func splitSeed(seed uint64) (replaySeed, explorerSeed uint64) {
	rng := rand.New(rand.NewSource(seed))
	return rng.Uint64(), rng.Uint64()
}

// ObserveFirst observes and records the first episodic timestep
func (d *DQN) ObserveFirst(t ts.TimeStep) error {
	if !t.First() {
		log.Warningf("ObserveFirst() should only be called on the first "+
			"timestep (current timestep = %d)", t.Number)
	}
	d.prevStep = t
	d.started = true
	return nil
}

// Observe observes and records any timestep other than the first timestep
func (d *DQN) Observe(action mat.Vector, nextStep ts.TimeStep) error {
	if !d.started {
		return fmt.Errorf("observe: ObserveFirst() must be called before " +
			"Observe()")
	}
	if action.Len() != 1 {
		return fmt.Errorf("observe: value-based methods cannot have "+
			"multi-dimensional actions\n\twant(1)\n\thave(%d)", action.Len())
	}

	transition := ts.NewTransition(d.prevStep, action, nextStep)
	if err := d.replay.Add(transition); err != nil {
		return fmt.Errorf("observe: %v", err)
	}

	d.prevStep = nextStep
	return nil
}

// Step updates the weights of the Agent's networks. No update is
// performed while the replay buffer holds too few transitions to be
// sampled.
func (d *DQN) Step() error {
	losses := make([]float64, 0, d.criticEpochs)

	for i := 0; i < d.criticEpochs; i++ {
		batch, err := d.replay.Sample(d.batchSize)
		if expreplay.IsEmptyBuffer(err) || expreplay.IsInsufficientSamples(err) {
			return nil
		} else if err != nil {
			return fmt.Errorf("step: %v", err)
		}

		nextValues, err := d.maxTargetValues(batch.NextObservations)
		if err != nil {
			return fmt.Errorf("step: %v", err)
		}

		targets, err := signal.TDZero(batch.Rewards, nextValues, batch.Dones,
			d.gamma)
		if err != nil {
			return fmt.Errorf("step: %v", err)
		}

		actions := make([]int, batch.Size())
		for j := range actions {
			actions[j] = int(batch.Actions[j])
		}

		l, err := d.updater.Step(batch.Observations, actions, targets)
		if err != nil {
			return fmt.Errorf("step: %v", err)
		}
		losses = append(losses, l.Loss)
		d.gradientSteps++

		if d.gradientSteps%d.targetUpdateInterval == 0 {
			if err := d.syncTarget(); err != nil {
				return fmt.Errorf("step: %v", err)
			}
		}
	}

	if err := d.behaviourNet.Set(d.trainNet); err != nil {
		return fmt.Errorf("step: could not update behaviour network: %v", err)
	}

	d.lastLog = agent.Log{
		CriticLoss:    stat.Mean(losses, nil),
		GradientSteps: d.gradientSteps,
	}
	return nil
}

// syncTarget updates the target network toward the learning network
func (d *DQN) syncTarget() error {
	if d.tau == 1.0 {
		return d.targetNet.Set(d.trainNet)
	}
	return d.targetNet.Polyak(d.trainNet, d.tau)
}

// maxTargetValues returns the maximum action value predicted by the
// target network for each observation in a batch
func (d *DQN) maxTargetValues(observations []float64) ([]float64, error) {
	if err := d.targetNet.SetInput(observations); err != nil {
		return nil, err
	}
	defer d.targetVM.Reset()
	if err := d.targetVM.RunAll(); err != nil {
		return nil, err
	}

	actionValues := d.targetNet.Output().Data().([]float64)
	maxValues := make([]float64, d.batchSize)
	for i := range maxValues {
		maxValues[i] = floats.Max(
			actionValues[i*d.numActions : (i+1)*d.numActions],
		)
	}
	return maxValues, nil
}

// SelectAction runs the behaviour network and then returns an action
// selected epsilon greedily, or greedily if in evaluation mode.
func (d *DQN) SelectAction(t ts.TimeStep) (*mat.VecDense, error) {
	obs := mat.Col(nil, 0, t.Observation)
	if err := d.behaviourNet.SetInput(obs); err != nil {
		return nil, fmt.Errorf("selectaction: %v", err)
	}

	defer d.behaviourVM.Reset()
	if err := d.behaviourVM.RunAll(); err != nil {
		return nil, fmt.Errorf("selectaction: %v", err)
	}
	actionValues := d.behaviourNet.Output().Data().([]float64)

	var action int
	var err error
	if d.eval {
		action, err = d.explorer.Greedy(actionValues)
	} else {
		action, err = d.explorer.Select(actionValues)
	}
	if err != nil {
		return nil, fmt.Errorf("selectaction: %v", err)
	}

	return mat.NewVecDense(1, []float64{float64(action)}), nil
}

// LastLog returns the log of the most recent call to Step that updated
// the weights
func (d *DQN) LastLog() agent.Log {
	return d.lastLog
}

// Eval sets the agent into evaluation mode
func (d *DQN) Eval() {
	d.eval = true
}

// Train sets the agent into training mode
func (d *DQN) Train() {
	d.eval = false
}

// IsEval returns whether the agent is in evaluation mode
func (d *DQN) IsEval() bool {
	return d.eval
}

// EndEpisode performs cleanup at the end of an episode
func (d *DQN) EndEpisode() {}

// Close closes the VMs of the agent
func (d *DQN) Close() error {
	if err := d.behaviourVM.Close(); err != nil {
		return err
	}
	if err := d.targetVM.Close(); err != nil {
		return err
	}
	return d.updater.Close()
}
