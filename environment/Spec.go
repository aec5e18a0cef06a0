package environment

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// SpecType says whether a Spec describes actions or observations
type SpecType int

const (
	Action SpecType = iota
	Observation
)

func (s SpecType) String() string {
	if s == Action {
		return "Action"
	}
	return "Observation"
}

// Cardinality is either Continuous or Discrete
type Cardinality string

const (
	Continuous Cardinality = "Continuous"
	Discrete   Cardinality = "Discrete"
)

// Spec describes the actions or observations of an environment. Shape,
// LowerBound and UpperBound have one entry per dimension. Discrete
// values are the integers in [LowerBound, UpperBound].
type Spec struct {
	Shape      mat.Vector
	Type       SpecType
	LowerBound mat.Vector
	UpperBound mat.Vector
	Cardinality
}

// NewSpec returns a new Spec. It panics if the bounds do not have one
// entry per dimension of shape.
func NewSpec(shape mat.Vector, t SpecType, lowerBound,
	upperBound mat.Vector, cardinality Cardinality) Spec {
	if lowerBound.Len() != shape.Len() || upperBound.Len() != shape.Len() {
		panic(fmt.Sprintf("newspec: %v bounds must have %v dimensions"+
			"\n\thave(lower: %v, upper: %v)", t, shape.Len(),
			lowerBound.Len(), upperBound.Len()))
	}

	return Spec{
		Shape:       shape,
		Type:        t,
		LowerBound:  lowerBound,
		UpperBound:  upperBound,
		Cardinality: cardinality,
	}
}
