package explorer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGreedyWhenEpsilonZero(t *testing.T) {
	e, err := NewEGreedy(0, 0, 3, 1)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		a, err := e.Select([]float64{0, 2, 1})
		require.NoError(t, err)
		require.Equal(t, 1, a)
	}
	require.Equal(t, 100, e.Steps())
}

func TestStartStepsAreRandom(t *testing.T) {
	e, err := NewEGreedy(0, 300, 3, 2)
	require.NoError(t, err)

	counts := make([]int, 3)
	for i := 0; i < 300; i++ {
		a, err := e.Select([]float64{0, 2, 1})
		require.NoError(t, err)
		counts[a]++
	}
	for _, c := range counts {
		require.Greater(t, c, 50)
	}

	// After the start steps, selection is greedy
	a, err := e.Select([]float64{0, 2, 1})
	require.NoError(t, err)
	require.Equal(t, 1, a)
}

func TestRandomTieBreak(t *testing.T) {
	e, err := NewEGreedy(0, 0, 4, 3)
	require.NoError(t, err)

	seen := map[int]bool{}
	for i := 0; i < 200; i++ {
		a, err := e.Greedy([]float64{1, 5, 5, 0})
		require.NoError(t, err)
		seen[a] = true
	}
	require.Equal(t, map[int]bool{1: true, 2: true}, seen)
	require.Equal(t, 0, e.Steps())
}

func TestEpsilonOneIsUniform(t *testing.T) {
	e, err := NewEGreedy(1, 0, 2, 4)
	require.NoError(t, err)

	counts := make([]int, 2)
	for i := 0; i < 1000; i++ {
		a, err := e.Select([]float64{10, 0})
		require.NoError(t, err)
		counts[a]++
	}
	require.InDelta(t, 500, counts[1], 100)
}

func TestInvalid(t *testing.T) {
	_, err := NewEGreedy(1.5, 0, 2, 1)
	require.Error(t, err)
	_, err = NewEGreedy(0.1, -1, 2, 1)
	require.Error(t, err)
	_, err = NewEGreedy(0.1, 0, 0, 1)
	require.Error(t, err)

	e, err := NewEGreedy(0.1, 0, 2, 1)
	require.NoError(t, err)
	_, err = e.Select([]float64{1})
	require.Error(t, err)
}
