package timestep

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestNewTransition(t *testing.T) {
	obs := mat.NewVecDense(2, []float64{1, 2})
	nextObs := mat.NewVecDense(2, []float64{3, 4})
	action := mat.NewVecDense(1, []float64{1})

	first := New(First, 0, 0.99, obs, 0)
	mid := New(Mid, -1, 0.99, nextObs, 1)
	last := New(Last, 5, 0.99, nextObs, 1)

	tr := NewTransition(first, action, mid)
	if tr.Done || tr.DoneFloat() != 0 {
		t.Errorf("mid step should not end the transition")
	}
	if tr.Reward != -1 {
		t.Errorf("reward\n\twant(%v)\n\thave(%v)", -1, tr.Reward)
	}
	if !mat.Equal(tr.State, obs) || !mat.Equal(tr.NextState, nextObs) {
		t.Errorf("transition states not taken from the timesteps")
	}

	tr = NewTransition(first, action, last)
	if !tr.Done || tr.DoneFloat() != 1 {
		t.Errorf("last step should end the transition")
	}
}

func TestStepTypes(t *testing.T) {
	obs := mat.NewVecDense(1, nil)
	for _, st := range []StepType{First, Mid, Last} {
		step := New(st, 1, 1, obs, 3)
		if step.First() != (st == First) || step.Mid() != (st == Mid) ||
			step.Last() != (st == Last) {
			t.Errorf("%v step reports the wrong type", st)
		}
	}

	want := "TimeStep | Last #3 | reward 1.00 | discount 1.00"
	if s := New(Last, 1, 1, obs, 3).String(); s != want {
		t.Errorf("string\n\twant(%v)\n\thave(%v)", want, s)
	}
}
