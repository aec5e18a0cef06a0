package environment

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNewSpec(t *testing.T) {
	shape := mat.NewVecDense(2, nil)
	lower := mat.NewVecDense(2, []float64{0, 0})
	upper := mat.NewVecDense(2, []float64{1, 3})

	spec := NewSpec(shape, Action, lower, upper, Discrete)
	require.Equal(t, Action, spec.Type)
	require.Equal(t, Discrete, spec.Cardinality)
	require.Equal(t, 3.0, spec.UpperBound.AtVec(1))
	require.Equal(t, "Action", spec.Type.String())
	require.Equal(t, "Observation", Observation.String())

	require.Panics(t, func() {
		NewSpec(shape, Observation, mat.NewVecDense(1, nil), upper,
			Continuous)
	})
	require.Panics(t, func() {
		NewSpec(shape, Observation, lower, mat.NewVecDense(3, nil),
			Continuous)
	})
}
