package network

import (
	"testing"

	"github.com/stretchr/testify/require"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

func newTestNet(t *testing.T, batch int) NeuralNet {
	t.Helper()
	net, err := NewMultiHeadMLP(3, batch, 2, G.NewGraph(), []int{4, 4},
		[]bool{true, true}, G.GlorotU(1.0), []*Activation{ReLU(), TanH()})
	require.NoError(t, err)
	return net
}

// forward runs a single forward pass of net on input
func forward(t *testing.T, net NeuralNet, input []float64) []float64 {
	t.Helper()
	require.NoError(t, net.SetInput(input))
	vm := G.NewTapeMachine(net.Graph())
	defer vm.Close()
	require.NoError(t, vm.RunAll())

	out := net.Output().(*tensor.Dense).Data().([]float64)
	cp := make([]float64, len(out))
	copy(cp, out)
	return cp
}

func TestNewMultiHeadMLPInvalid(t *testing.T) {
	_, err := NewMultiHeadMLP(3, 1, 2, G.NewGraph(), []int{4},
		[]bool{true, false}, G.GlorotU(1.0), []*Activation{ReLU()})
	require.Error(t, err)

	_, err = NewMultiHeadMLP(3, 1, 2, G.NewGraph(), []int{4},
		[]bool{true}, G.GlorotU(1.0), nil)
	require.Error(t, err)

	_, err = NewMultiHeadMLP(0, 1, 2, G.NewGraph(), nil, nil,
		G.GlorotU(1.0), nil)
	require.Error(t, err)
}

func TestLearnables(t *testing.T) {
	net := newTestNet(t, 1)

	// Two hidden layers and the output layer, each with a bias
	require.Len(t, net.Learnables(), 6)
	require.Len(t, net.Model(), 6)
	require.Equal(t, 2, net.Outputs())
	require.Equal(t, 3, net.Features())
	require.Equal(t, 1, net.BatchSize())
}

func TestSetCopiesWeightsExactly(t *testing.T) {
	source := newTestNet(t, 4)
	dest := newTestNet(t, 4)

	require.NoError(t, dest.Set(source))

	for i, node := range dest.Learnables() {
		want := source.Learnables()[i].Value().Data().([]float64)
		have := node.Value().Data().([]float64)
		require.Equal(t, want, have)

		// Weights are copied, not shared
		have[0] += 1
		require.NotEqual(t, want[0], have[0])
	}
}

func TestSetArchitectureMismatch(t *testing.T) {
	source := newTestNet(t, 1)
	dest, err := NewMultiHeadMLP(3, 1, 2, G.NewGraph(), []int{4},
		[]bool{true}, G.GlorotU(1.0), []*Activation{ReLU()})
	require.NoError(t, err)

	require.Error(t, dest.Set(source))
}

func TestPolyak(t *testing.T) {
	source := newTestNet(t, 1)
	dest := newTestNet(t, 1)

	before := make([][]float64, len(dest.Learnables()))
	for i, node := range dest.Learnables() {
		data := node.Value().Data().([]float64)
		before[i] = append([]float64(nil), data...)
	}

	tau := 0.25
	require.NoError(t, dest.Polyak(source, tau))
	for i, node := range dest.Learnables() {
		src := source.Learnables()[i].Value().Data().([]float64)
		have := node.Value().Data().([]float64)
		for j := range have {
			require.InDelta(t, (1-tau)*before[i][j]+tau*src[j], have[j], 1e-12)
		}
	}

	require.Error(t, dest.Polyak(source, 1.5))
}

func TestCloneWithBatchSameOutput(t *testing.T) {
	net := newTestNet(t, 1)
	clone, err := net.CloneWithBatch(2)
	require.NoError(t, err)
	require.Equal(t, 2, clone.BatchSize())

	input := []float64{0.5, -1, 2}
	want := forward(t, net, input)
	have := forward(t, clone, append(append([]float64{}, input...), input...))

	require.Len(t, have, 4)
	require.InDeltaSlice(t, want, have[:2], 1e-12)
	require.InDeltaSlice(t, want, have[2:], 1e-12)
}

func TestSetInputInvalidLength(t *testing.T) {
	net := newTestNet(t, 2)
	require.Error(t, net.SetInput([]float64{1, 2, 3}))
	require.NoError(t, net.SetInput(make([]float64, 6)))
}

func TestActivationJSON(t *testing.T) {
	for _, a := range []*Activation{ReLU(), TanH(), Sigmoid(), Identity(),
		Nil()} {
		data, err := a.MarshalJSON()
		require.NoError(t, err)

		got := &Activation{}
		require.NoError(t, got.UnmarshalJSON(data))
		require.Equal(t, a.String(), got.String())
	}
}
