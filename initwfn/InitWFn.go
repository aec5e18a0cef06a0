// Package initwfn implements functionality to wrap Gorgonia InitWFn
// so that they can be JSON serialized into configuration files.
package initwfn

import (
	"encoding/json"
	"fmt"

	G "gorgonia.org/gorgonia"
)

// Type describes different types of InitWFn that are available.
type Type string

// Available InitWFn types
const (
	GlorotU  Type = "GlorotU"
	GlorotN  Type = "GlorotN"
	HeU      Type = "HeU"
	HeN      Type = "HeN"
	Zeroes   Type = "Zeroes"
	Ones     Type = "Ones"
	Constant Type = "Constant"
	Gaussian Type = "Gaussian"
	Uniform  Type = "Uniform"
)

// InitWFn wraps Gorgonia InitWFn so that they can be JSON marshalled and
// unmarshalled. Only the parameters used by Type are read:
//
//	GlorotU, GlorotN, HeU, HeN: Gain
//	Constant:                   Value
//	Gaussian:                   Mean, StdDev
//	Uniform:                    Low, High
type InitWFn struct {
	Type Type

	Gain   float64 `json:",omitempty"`
	Value  float64 `json:",omitempty"`
	Mean   float64 `json:",omitempty"`
	StdDev float64 `json:",omitempty"`
	Low    float64 `json:",omitempty"`
	High   float64 `json:",omitempty"`

	initWFn G.InitWFn
}

// NewGlorotU returns a new Glorot Uniform weight initializer
func NewGlorotU(gain float64) (*InitWFn, error) {
	return newInitWFn(InitWFn{Type: GlorotU, Gain: gain})
}

// NewGlorotN returns a new Glorot Normal weight initializer
func NewGlorotN(gain float64) (*InitWFn, error) {
	return newInitWFn(InitWFn{Type: GlorotN, Gain: gain})
}

// NewHeU returns a new He Uniform weight initializer
func NewHeU(gain float64) (*InitWFn, error) {
	return newInitWFn(InitWFn{Type: HeU, Gain: gain})
}

// NewHeN returns a new He Normal weight initializer
func NewHeN(gain float64) (*InitWFn, error) {
	return newInitWFn(InitWFn{Type: HeN, Gain: gain})
}

func NewZeroes() (*InitWFn, error) {
	return newInitWFn(InitWFn{Type: Zeroes})
}

func NewOnes() (*InitWFn, error) {
	return newInitWFn(InitWFn{Type: Ones})
}

// NewConstant returns a weight initializer that sets every weight to
// value
func NewConstant(value float64) (*InitWFn, error) {
	return newInitWFn(InitWFn{Type: Constant, Value: value})
}

// NewGaussian returns a new gaussian weight initializer
func NewGaussian(mean, stddev float64) (*InitWFn, error) {
	return newInitWFn(InitWFn{Type: Gaussian, Mean: mean, StdDev: stddev})
}

// NewUniform returns a new uniform weight initializer
func NewUniform(low, high float64) (*InitWFn, error) {
	return newInitWFn(InitWFn{Type: Uniform, Low: low, High: high})
}

// newInitWFn validates i and creates its Gorgonia InitWFn
func newInitWFn(i InitWFn) (*InitWFn, error) {
	if err := i.Validate(); err != nil {
		return nil, err
	}
	i.initWFn = i.create()
	return &i, nil
}

// Validate checks that the parameters are valid for the Type
func (i *InitWFn) Validate() error {
	switch i.Type {
	case GlorotU, GlorotN, HeU, HeN:
		if i.Gain <= 0 {
			return fmt.Errorf("validate: %v gain must be positive"+
				"\n\twant(>0)\n\thave(%v)", i.Type, i.Gain)
		}
	case Gaussian:
		if i.StdDev <= 0 {
			return fmt.Errorf("validate: gaussian standard deviation must "+
				"be positive\n\twant(>0)\n\thave(%v)", i.StdDev)
		}
	case Uniform:
		if i.Low >= i.High {
			return fmt.Errorf("validate: uniform bounds must satisfy "+
				"low < high\n\thave(%v, %v)", i.Low, i.High)
		}
	case Zeroes, Ones, Constant:
	default:
		return fmt.Errorf("validate: no such initializer type %q", i.Type)
	}
	return nil
}

// create returns the Gorgonia InitWFn described by i
func (i *InitWFn) create() G.InitWFn {
	switch i.Type {
	case GlorotU:
		return G.GlorotU(i.Gain)
	case GlorotN:
		return G.GlorotN(i.Gain)
	case HeU:
		return G.HeU(i.Gain)
	case HeN:
		return G.HeN(i.Gain)
	case Ones:
		return G.Ones()
	case Constant:
		return G.ValuesOf(i.Value)
	case Gaussian:
		return G.Gaussian(i.Mean, i.StdDev)
	case Uniform:
		return G.Uniform(i.Low, i.High)
	}
	return G.Zeroes()
}

// InitWFn returns the wrapped Gorgonia InitWFn
func (i *InitWFn) InitWFn() G.InitWFn {
	if i.initWFn == nil {
		i.initWFn = i.create()
	}
	return i.initWFn
}

// String implements the fmt.Stringer interface
func (i *InitWFn) String() string {
	switch i.Type {
	case GlorotU, GlorotN, HeU, HeN:
		return fmt.Sprintf("{%v Gain: %v}", i.Type, i.Gain)
	case Constant:
		return fmt.Sprintf("{%v Value: %v}", i.Type, i.Value)
	case Gaussian:
		return fmt.Sprintf("{%v Mean: %v StdDev: %v}", i.Type, i.Mean,
			i.StdDev)
	case Uniform:
		return fmt.Sprintf("{%v Low: %v High: %v}", i.Type, i.Low, i.High)
	}
	return fmt.Sprintf("{%v}", i.Type)
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (i *InitWFn) UnmarshalJSON(data []byte) error {
	// Alias drops the methods of InitWFn so that decoding does not
	// recurse
	type alias InitWFn
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	init, err := newInitWFn(InitWFn(a))
	if err != nil {
		return fmt.Errorf("unmarshaljson: %v", err)
	}
	*i = *init
	return nil
}
