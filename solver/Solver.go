// Package solver implements functionality to wrap Gorgonia Solvers
// so that they can be JSON serialized into configuration files.
package solver

import (
	"encoding/json"
	"fmt"

	G "gorgonia.org/gorgonia"
)

// Type describes different types of solvers that are available
type Type string

// Available solver types
const (
	Adam    Type = "Adam"
	RMSProp Type = "RMSProp"
	Vanilla Type = "Vanilla"
)

// Solver wraps Gorgonia Solvers so that they can be JSON marshalled and
// unmarshalled.
type Solver struct {
	G.Solver `json:"-"`
	Type
	Config
}

// newSolver returns a new solver with the given configuration.
func newSolver(c Config) (*Solver, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("newsolver: %v", err)
	}
	solver := Solver{Type: c.Type(), Config: c}
	solver.Solver = solver.Config.Create()

	return &solver, nil
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (s *Solver) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type   Type
		Config json.RawMessage
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var config Config
	switch raw.Type {
	case Adam:
		c := AdamConfig{}
		err := json.Unmarshal(raw.Config, &c)
		config = c
		if err != nil {
			return err
		}
	case RMSProp:
		c := RMSPropConfig{}
		err := json.Unmarshal(raw.Config, &c)
		config = c
		if err != nil {
			return err
		}
	case Vanilla:
		c := VanillaConfig{}
		err := json.Unmarshal(raw.Config, &c)
		config = c
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unmarshaljson: no such solver type %q", raw.Type)
	}

	solver, err := newSolver(config)
	if err != nil {
		return fmt.Errorf("unmarshaljson: %v", err)
	}
	*s = *solver
	return nil
}

// Config implements a Gorgonia Solver configuration and can be used to
// create Gorgonia Solvers they describe.
type Config interface {
	Create() G.Solver
	Type() Type

	// Validate returns an error if the hyperparameters cannot create
	// a solver
	Validate() error
}

// validStepSize checks that a step size and batch size are usable
func validStepSize(stepSize float64, batch int) error {
	if stepSize <= 0 {
		return fmt.Errorf("step size must be positive\n\twant(>0)"+
			"\n\thave(%v)", stepSize)
	}
	if batch <= 0 {
		return fmt.Errorf("batch size must be positive\n\twant(>0)"+
			"\n\thave(%v)", batch)
	}
	return nil
}
