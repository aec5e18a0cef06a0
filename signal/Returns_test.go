package signal

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestTDZero(t *testing.T) {
	rewards := []float64{1, 1, 1}
	nextValues := []float64{1, 1, 1}
	dones := []float64{0, 0, 0}

	targets, err := TDZero(rewards, nextValues, dones, 1)
	require.NoError(t, err)
	require.Equal(t, []float64{2, 2, 2}, targets)
}

func TestTDZeroTerminalMask(t *testing.T) {
	rewards := []float64{1, 3, -2}
	nextValues := []float64{5, 5, 5}
	dones := []float64{0, 1, 1}

	targets, err := TDZero(rewards, nextValues, dones, 0.5)
	require.NoError(t, err)
	require.Equal(t, []float64{3.5, 3, -2}, targets)
}

func TestTDZeroLengthMismatch(t *testing.T) {
	_, err := TDZero([]float64{1}, []float64{1, 2}, []float64{0}, 1)
	require.Error(t, err)
}

func TestBootstrappedReturns(t *testing.T) {
	rewards := mat.NewDense(2, 3, []float64{1, 1, 1, 1, 1, 1})

	returns, err := BootstrappedReturns(rewards, []float64{1, 1},
		[]float64{0, 0}, 1)
	require.NoError(t, err)
	require.Equal(t, []float64{4, 4}, returns)

	returns, err = BootstrappedReturns(rewards, []float64{1, 1},
		[]float64{0, 1}, 0.5)
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{1.875, 1.75}, returns, 1e-12)

	_, err = BootstrappedReturns(rewards, []float64{1}, []float64{0}, 1)
	require.Error(t, err)
}

func TestGAE(t *testing.T) {
	ones := []float64{1, 1, 1}
	dones := []float64{0, 0, 0}

	advantages, returns, err := GAE(ones, ones, ones, dones, 1, 1)
	require.NoError(t, err)
	require.Equal(t, []float64{3, 2, 1}, advantages)
	require.Equal(t, []float64{4, 3, 2}, returns)
}

func TestGAEEpisodeBoundary(t *testing.T) {
	rewards := []float64{1, 1, 1}
	values := []float64{0, 0, 0}
	dones := []float64{0, 1, 0}

	advantages, _, err := GAE(rewards, values, values, dones, 1, 1)
	require.NoError(t, err)
	require.Equal(t, []float64{2, 1, 1}, advantages)
}

func TestSoftQTarget(t *testing.T) {
	rewards := []float64{1, 1, 1}
	dones := []float64{0, 0, 0}
	qValues := []float64{1, 1, 1}
	logProbs := []float64{-1, -1, -1}

	targets, err := SoftQTarget(rewards, dones, qValues, logProbs, 1, 1)
	require.NoError(t, err)
	require.Equal(t, []float64{3, 3, 3}, targets)
}

func TestDiscountCumSum(t *testing.T) {
	require.Equal(t, []float64{3, 2, 1}, DiscountCumSum([]float64{1, 1, 1}, 1))
	require.Equal(t, []float64{1.75, 1.5, 1},
		DiscountCumSum([]float64{1, 1, 1}, 0.5))
	require.Empty(t, DiscountCumSum(nil, 0.9))
}
