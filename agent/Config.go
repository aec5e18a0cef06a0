package agent

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/LondonNode/Pearl/environment"
	"github.com/aunum/log"
)

// Config represents a configuration for creating an agent
type Config interface {
	// CreateAgent creates the agent that the config describes
	CreateAgent(env environment.Environment, seed uint64) (Agent, error)

	// ValidAgent returns whether the argument agent is valid for the
	// Config
	ValidAgent(Agent) bool

	// Validate returns an error describing whether or not the
	// configuration is valid or not.
	Validate() error

	// Type returns the type of agent the Config creates
	Type() Type
}

// Type represents a specific type of an agent Config.
// Config's with this type can create Agents of the corresponding type.
type Type string

const (
	EGreedyDQN Type = "EGreedyDQN-MLP"
)

// Registered types with the package. Once a Type has been registered
// with this map, a TypedConfig with that type can be deserialized.
//
// Each separate package is in charge of registering its Type with
// the package to avoid circular imports.
var registeredTypes = make(map[Type]reflect.Type)

// Register registers an agent's Type with a concrete Config type so
// that a TypedConfig of type agentType is deserialized into the
// concrete type of config.
func Register(agentType Type, config Config) {
	log.Debugf("registering agent type %v", agentType)
	registeredTypes[agentType] = reflect.TypeOf(config)
}

// TypedConfig stores a Config along with its Type so that it can be
// deserialized into its concrete type without knowing the type
// beforehand.
type TypedConfig struct {
	Type
	Config
}

// NewTypedConfig types the argument Config
func NewTypedConfig(c Config) TypedConfig {
	return TypedConfig{Type: c.Type(), Config: c}
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (t *TypedConfig) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type   Type
		Config json.RawMessage
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	ty, found := registeredTypes[raw.Type]
	if !found {
		return fmt.Errorf("unmarshaljson: agent type %q is not registered",
			raw.Type)
	}

	value := reflect.New(ty)
	if err := json.Unmarshal(raw.Config, value.Interface()); err != nil {
		return fmt.Errorf("unmarshaljson: %v", err)
	}

	t.Type = raw.Type
	t.Config = value.Elem().Interface().(Config)
	return nil
}
