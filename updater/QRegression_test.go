package updater

import (
	"math"
	"testing"

	"github.com/LondonNode/Pearl/network"
	"github.com/stretchr/testify/require"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

func newUpdater(t *testing.T, maxGrad float64) *QRegression {
	t.Helper()
	net, err := network.NewMultiHeadMLP(2, 4, 3, G.NewGraph(), []int{8},
		[]bool{true}, G.GlorotU(1.0), []*network.Activation{network.TanH()})
	require.NoError(t, err)

	q, err := NewQRegression(net, G.NewVanillaSolver(G.WithLearnRate(0.05)),
		maxGrad)
	require.NoError(t, err)
	t.Cleanup(func() { q.Close() })
	return q
}

func TestLossDecreases(t *testing.T) {
	q := newUpdater(t, 0)

	obs := []float64{1, 0, 0, 1, 1, 1, -1, 0.5}
	actions := []int{0, 2, 1, 2}
	targets := []float64{1, -1, 0.5, 2}

	first, err := q.Step(obs, actions, targets)
	require.NoError(t, err)
	require.Greater(t, first.GradNorm, 0.0)

	var last Log
	for i := 0; i < 200; i++ {
		last, err = q.Step(obs, actions, targets)
		require.NoError(t, err)
	}
	require.Less(t, last.Loss, first.Loss)
}

func TestStepInvalidInputs(t *testing.T) {
	q := newUpdater(t, 0)

	obs := make([]float64, 8)
	_, err := q.Step(obs, []int{0, 0, 0}, []float64{0, 0, 0, 0})
	require.Error(t, err)

	_, err = q.Step(obs, []int{0, 0, 0, 3}, []float64{0, 0, 0, 0})
	require.Error(t, err)

	_, err = q.Step(obs[:6], []int{0, 0, 0, 0}, []float64{0, 0, 0, 0})
	require.Error(t, err)
}

func TestNaNTargetPropagates(t *testing.T) {
	q := newUpdater(t, 0)

	obs := []float64{1, 0, 0, 1, 1, 1, -1, 0.5}
	log, err := q.Step(obs, []int{0, 1, 2, 0},
		[]float64{math.NaN(), 0, 0, 0})
	require.NoError(t, err)
	require.True(t, math.IsNaN(log.Loss))
}

func TestClippedStepBoundsUpdate(t *testing.T) {
	const (
		lr      = 0.05
		maxGrad = 1e-3
	)
	q := newUpdater(t, maxGrad)

	before := make([][]float64, 0)
	for _, node := range q.Network().Learnables() {
		data := node.Value().Data().([]float64)
		before = append(before, append([]float64(nil), data...))
	}

	obs := []float64{1, 0, 0, 1, 1, 1, -1, 0.5}
	log, err := q.Step(obs, []int{0, 1, 2, 0}, []float64{100, 100, 100, 100})
	require.NoError(t, err)
	require.Greater(t, log.GradNorm, maxGrad)

	// A vanilla step moves the weights by lr * grad, so the clipped
	// gradient bounds the size of the update
	var sqNorm float64
	for i, node := range q.Network().Learnables() {
		after := node.Value().Data().([]float64)
		for j := range after {
			diff := after[j] - before[i][j]
			sqNorm += diff * diff
		}
	}
	update := math.Sqrt(sqNorm)
	require.Greater(t, update, 0.0)
	require.LessOrEqual(t, update, lr*maxGrad+1e-12)
}

type valueGrad struct {
	*tensor.Dense
	grad *tensor.Dense
}

func (v valueGrad) Value() G.Value {
	return v.Dense
}

func (v valueGrad) Grad() (G.Value, error) {
	return v.grad, nil
}

func newValueGrad(grad ...float64) valueGrad {
	return valueGrad{
		Dense: tensor.New(tensor.WithShape(len(grad)),
			tensor.WithBacking(make([]float64, len(grad)))),
		grad: tensor.New(tensor.WithShape(len(grad)),
			tensor.WithBacking(grad)),
	}
}

func TestClipGradNorm(t *testing.T) {
	a := newValueGrad(3, 0)
	b := newValueGrad(4)
	model := []G.ValueGrad{a, b}

	norm, err := clipGradNorm(model, 1)
	require.NoError(t, err)
	require.InDelta(t, 5.0, norm, 1e-12)

	require.InDeltaSlice(t, []float64{0.6, 0}, a.grad.Data(), 1e-5)
	require.InDeltaSlice(t, []float64{0.8}, b.grad.Data(), 1e-5)

	// The clipped gradient is within the bound
	norm, err = clipGradNorm(model, 1)
	require.NoError(t, err)
	require.LessOrEqual(t, norm, 1.0)
}

func TestClipGradNormDisabled(t *testing.T) {
	a := newValueGrad(3, 4)
	norm, err := clipGradNorm([]G.ValueGrad{a}, 0)
	require.NoError(t, err)
	require.InDelta(t, 5.0, norm, 1e-12)
	require.Equal(t, []float64{3, 4}, a.grad.Data())

	// Below the bound, nothing changes
	norm, err = clipGradNorm([]G.ValueGrad{a}, 10)
	require.NoError(t, err)
	require.InDelta(t, 5.0, norm, 1e-12)
	require.Equal(t, []float64{3, 4}, a.grad.Data())
}
