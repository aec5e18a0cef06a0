package dqn

import (
	"encoding/json"
	"testing"

	"github.com/LondonNode/Pearl/agent"
	"github.com/LondonNode/Pearl/environment/corridor"
	"github.com/LondonNode/Pearl/expreplay"
	"github.com/LondonNode/Pearl/network"
	"github.com/LondonNode/Pearl/solver"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	adam, err := solver.NewDefaultAdam(1e-2, 1)
	require.NoError(t, err)

	c := DefaultConfig()
	c.PolicyLayers = []int{16}
	c.Biases = []bool{true}
	c.Activations = []*network.Activation{network.ReLU()}
	c.Solver = adam
	c.ExpReplay = expreplay.Config{
		SampleMethod:      expreplay.Uniform,
		MaxReplayCapacity: 1000,
		MinReplayCapacity: 8,
	}
	c.BatchSize = 8
	return c
}

func newAgent(t *testing.T, c Config) (*DQN, *corridor.Corridor) {
	t.Helper()
	env, _, err := corridor.New(5, 1.0, 50)
	require.NoError(t, err)

	d, err := New(env, c, 1)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d, env
}

// run runs the agent for steps timesteps
func run(t *testing.T, d *DQN, env *corridor.Corridor, steps int) {
	t.Helper()
	step, err := env.Reset()
	require.NoError(t, err)
	require.NoError(t, d.ObserveFirst(step))

	for i := 0; i < steps; i++ {
		action, err := d.SelectAction(step)
		require.NoError(t, err)

		var last bool
		step, last, err = env.Step(action)
		require.NoError(t, err)
		require.NoError(t, d.Observe(action, step))
		require.NoError(t, d.Step())

		if last {
			step, err = env.Reset()
			require.NoError(t, err)
			require.NoError(t, d.ObserveFirst(step))
		}
	}
}

func weights(net network.NeuralNet) [][]float64 {
	w := make([][]float64, 0, len(net.Learnables()))
	for _, node := range net.Learnables() {
		data := node.Value().Data().([]float64)
		w = append(w, append([]float64(nil), data...))
	}
	return w
}

func TestStepWithoutSamples(t *testing.T) {
	d, _ := newAgent(t, testConfig(t))

	require.NoError(t, d.Step())
	require.Equal(t, 0, d.LastLog().GradientSteps)
}

func TestObserveBeforeObserveFirst(t *testing.T) {
	d, env := newAgent(t, testConfig(t))

	step, _, err := env.Step(mat.NewVecDense(1, []float64{1}))
	require.NoError(t, err)
	require.Error(t, d.Observe(mat.NewVecDense(1, []float64{1}), step))
}

func TestRunsOnCorridor(t *testing.T) {
	d, env := newAgent(t, testConfig(t))
	run(t, d, env, 300)

	log := d.LastLog()
	require.Greater(t, log.GradientSteps, 0)
	require.Equal(t, 300-7, log.GradientSteps)
}

func TestHardTargetSync(t *testing.T) {
	d, env := newAgent(t, testConfig(t))
	run(t, d, env, 20)
	require.Greater(t, d.LastLog().GradientSteps, 0)

	// After every gradient step the target network is a copy of the
	// learning network, and so is the behaviour network
	require.Equal(t, weights(d.trainNet), weights(d.targetNet))
	require.Equal(t, weights(d.trainNet), weights(d.behaviourNet))
}

func TestPolyakTargetSync(t *testing.T) {
	c := testConfig(t)
	c.Tau = 0.5
	c.ExpReplay.MinReplayCapacity = 1
	d, env := newAgent(t, c)

	before := weights(d.targetNet)
	step, err := env.Reset()
	require.NoError(t, err)
	require.NoError(t, d.ObserveFirst(step))
	action := mat.NewVecDense(1, []float64{corridor.Right})
	next, _, err := env.Step(action)
	require.NoError(t, err)
	require.NoError(t, d.Observe(action, next))
	require.NoError(t, d.Step())
	require.Equal(t, 1, d.LastLog().GradientSteps)

	train := weights(d.trainNet)
	target := weights(d.targetNet)
	for i := range target {
		for j := range target[i] {
			want := 0.5*before[i][j] + 0.5*train[i][j]
			require.InDelta(t, want, target[i][j], 1e-12)
		}
	}
}

func TestEvalIsGreedy(t *testing.T) {
	c := testConfig(t)
	c.Epsilon = 1
	d, env := newAgent(t, c)
	d.Eval()
	require.True(t, d.IsEval())

	step := env.LastTimeStep()
	first, err := d.SelectAction(step)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		action, err := d.SelectAction(step)
		require.NoError(t, err)
		require.Equal(t, first.AtVec(0), action.AtVec(0))
	}

	d.Train()
	require.False(t, d.IsEval())
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	require.Equal(t, 1.0, DefaultConfig().Gamma)

	c := testConfig(t)
	c.Biases = nil
	require.Error(t, c.Validate())

	c = testConfig(t)
	c.Gamma = 1.5
	require.Error(t, c.Validate())

	c = testConfig(t)
	c.Tau = 0
	require.Error(t, c.Validate())

	c = testConfig(t)
	c.TargetUpdateInterval = 0
	require.Error(t, c.Validate())

	c = testConfig(t)
	c.Solver = nil
	require.Error(t, c.Validate())
}

func TestTypedConfigJSON(t *testing.T) {
	c := testConfig(t)
	data, err := json.Marshal(agent.NewTypedConfig(c))
	require.NoError(t, err)

	var typed agent.TypedConfig
	require.NoError(t, json.Unmarshal(data, &typed))
	require.Equal(t, agent.EGreedyDQN, typed.Type)

	got, ok := typed.Config.(Config)
	require.True(t, ok)
	require.Equal(t, c.PolicyLayers, got.PolicyLayers)
	require.Equal(t, c.Biases, got.Biases)
	require.Equal(t, c.ExpReplay, got.ExpReplay)
	require.Equal(t, c.Gamma, got.Gamma)
	require.Equal(t, c.Solver.Config, got.Solver.Config)
	require.Equal(t, c.InitWFn.String(), got.InitWFn.String())
	require.Equal(t, c.Activations[0].String(), got.Activations[0].String())
	require.NoError(t, got.Validate())
}

func TestTerminalTargetIsReward(t *testing.T) {
	c := testConfig(t)
	c.ExpReplay.MinReplayCapacity = 1

	// A step limit of 1 ends every episode after one action
	env, step, err := corridor.New(3, 1.0, 1)
	require.NoError(t, err)
	d, err := New(env, c, 1)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })

	// Q(s, Right) before the update, the behaviour network is a copy of
	// the learning network
	require.NoError(t, d.behaviourNet.SetInput(
		mat.Col(nil, 0, step.Observation)))
	require.NoError(t, d.behaviourVM.RunAll())
	q := d.behaviourNet.Output().Data().([]float64)[corridor.Right]
	d.behaviourVM.Reset()

	require.NoError(t, d.ObserveFirst(step))
	action := mat.NewVecDense(1, []float64{corridor.Right})
	next, last, err := env.Step(action)
	require.NoError(t, err)
	require.True(t, last)
	require.NoError(t, d.Observe(action, next))
	require.NoError(t, d.Step())

	// The batch repeats the single terminal transition, whose target
	// does not bootstrap
	want := (q - corridor.StepReward) * (q - corridor.StepReward)
	require.Equal(t, 1, d.LastLog().GradientSteps)
	require.InDelta(t, want, d.LastLog().CriticLoss, 1e-9)
}

func TestSplitSeed(t *testing.T) {
	for seed := uint64(0); seed < 10; seed++ {
		replaySeed, explorerSeed := splitSeed(seed)
		require.NotEqual(t, replaySeed, explorerSeed)

		again, _ := splitSeed(seed)
		require.Equal(t, replaySeed, again)
	}
}

func TestSelectActionAfterError(t *testing.T) {
	d, env := newAgent(t, testConfig(t))
	d.Eval()

	step := env.LastTimeStep()
	want, err := d.SelectAction(step)
	require.NoError(t, err)

	bad := step
	bad.Observation = mat.NewVecDense(2, nil)
	_, err = d.SelectAction(bad)
	require.Error(t, err)

	got, err := d.SelectAction(step)
	require.NoError(t, err)
	require.Equal(t, want.AtVec(0), got.AtVec(0))
}
