// Package envconfig provides configuration structs for configuring
// environments. Environment configurations in this package are JSON
// serializable.
package envconfig

import (
	"fmt"

	env "github.com/LondonNode/Pearl/environment"
	"github.com/LondonNode/Pearl/environment/corridor"
	ts "github.com/LondonNode/Pearl/timestep"
)

// EnvName stores the name of environments that can be configured with
// this package
type EnvName string

// Environments available for configuration
const (
	Corridor EnvName = "Corridor"
)

// Config implements a specific configuration of an environment
type Config struct {
	Environment   EnvName
	Cells         int
	EpisodeCutoff int // <= 0 for no cutoff
	Discount      float64
}

// Validate returns an error if the Config cannot create an environment
func (c Config) Validate() error {
	switch c.Environment {
	case Corridor:
		if c.Cells < 2 {
			return fmt.Errorf("validate: corridor must have at least 2 "+
				"cells\n\twant(>=2)\n\thave(%v)", c.Cells)
		}
	default:
		return fmt.Errorf("validate: no such environment %q", c.Environment)
	}

	if c.Discount < 0 || c.Discount > 1 {
		return fmt.Errorf("validate: discount must be in [0, 1]\n\thave(%v)",
			c.Discount)
	}
	return nil
}

// Create returns the environment described by the Config as well as
// the first timestep of the environment.
func (c Config) Create() (env.Environment, ts.TimeStep, error) {
	if err := c.Validate(); err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %v", err)
	}

	switch c.Environment {
	case Corridor:
		e, step, err := corridor.New(c.Cells, c.Discount, c.EpisodeCutoff)
		if err != nil {
			return nil, ts.TimeStep{}, fmt.Errorf("create: %v", err)
		}
		return e, step, nil
	}
	panic(fmt.Sprintf("create: no such environment %v", c.Environment))
}
