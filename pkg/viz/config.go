package viz

import (
	"github.com/matzehuels/forcegraph/pkg/force"
	"github.com/matzehuels/forcegraph/pkg/interact"
	"github.com/matzehuels/forcegraph/pkg/render"
)

// Config groups the parameters of the three subsystems.
type Config struct {
	Simulation  force.Config
	Interaction interact.Config
	Render      render.Config
}

// DefaultConfig returns the default parameters of every subsystem.
func DefaultConfig() Config {
	return Config{
		Simulation:  force.DefaultConfig(),
		Interaction: interact.DefaultConfig(),
		Render:      render.DefaultConfig(),
	}
}

// Validate checks the simulation and interaction parameters.
func (c Config) Validate() error {
	if err := c.Simulation.Validate(); err != nil {
		return err
	}
	return c.Interaction.Validate()
}
