package rollout

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

func TestFinishPath(t *testing.T) {
	b, err := New(1, 1, 3, 1, 1)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, b.Store([]float64{float64(i)}, []float64{0}, 1, 0))
	}
	require.NoError(t, b.FinishPath(0))

	// With zero values, the advantages equal the returns
	require.Equal(t, []float64{3, 2, 1}, b.advBuffer)
	require.Equal(t, []float64{3, 2, 1}, b.retBuffer)
}

func TestFinishPathBootstraps(t *testing.T) {
	b, err := New(1, 1, 2, 0.5, 0.5)
	require.NoError(t, err)

	require.NoError(t, b.Store([]float64{0}, []float64{0}, 1, 2))
	require.NoError(t, b.Store([]float64{1}, []float64{0}, 1, 4))
	require.NoError(t, b.FinishPath(8))

	// Returns: [1 + 0.5 + 0.25*8, 1 + 0.5*8]
	require.InDeltaSlice(t, []float64{3.5, 5}, b.retBuffer, 1e-12)

	// Deltas: [1 + 0.5*4 - 2, 1 + 0.5*8 - 4] = [1, 1]
	require.InDeltaSlice(t, []float64{1.25, 1}, b.advBuffer, 1e-12)
}

func TestGetStandardizes(t *testing.T) {
	b, err := New(1, 1, 4, 0.95, 0.99)
	require.NoError(t, err)

	_, _, _, _, err = b.Get()
	require.Error(t, err)

	rewards := []float64{1, -1, 2, 0}
	for i, r := range rewards {
		require.NoError(t, b.Store([]float64{float64(i)}, []float64{1}, r, 0))
	}
	_, _, _, _, err = b.Get()
	require.Error(t, err, "path not finished")
	require.NoError(t, b.FinishPath(0))

	obs, act, adv, ret, err := b.Get()
	require.NoError(t, err)
	require.Equal(t, []float64{0, 1, 2, 3}, obs)
	require.Equal(t, []float64{1, 1, 1, 1}, act)
	require.Len(t, ret, 4)

	mean, std := stat.MeanStdDev(adv, nil)
	require.InDelta(t, 0, mean, 1e-9)
	require.InDelta(t, 1, std, 1e-6)
	require.Equal(t, 0, b.Len())
}

func TestStoreInvalid(t *testing.T) {
	b, err := New(2, 1, 1, 0.9, 0.9)
	require.NoError(t, err)

	require.Error(t, b.Store([]float64{1}, []float64{0}, 0, 0))
	require.Error(t, b.Store([]float64{1, 2}, []float64{}, 0, 0))
	require.NoError(t, b.Store([]float64{1, 2}, []float64{0}, 0, 0))
	require.Error(t, b.Store([]float64{1, 2}, []float64{0}, 0, 0))

	_, err = New(0, 1, 1, 0.9, 0.9)
	require.Error(t, err)
}
