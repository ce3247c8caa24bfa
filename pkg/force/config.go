package force

import (
	"math"

	errs "github.com/matzehuels/forcegraph/pkg/errors"
)

// Default simulation parameters.
const (
	DefaultLinkDistance      = 100.0
	DefaultRepulsion         = -300.0
	DefaultTheta             = 0.9
	DefaultDistanceMin       = 1.0
	DefaultCollisionRadius   = 30.0
	DefaultCollisionStrength = 1.0
	DefaultCenterStrength    = 1.0
	DefaultAlphaMin          = 0.001
	DefaultVelocityDecay     = 0.4
	DefaultResizeAlpha       = 0.1
	DefaultSeed              = 42
)

// DefaultAlphaDecay cools alpha from 1 to DefaultAlphaMin in 300 steps.
var DefaultAlphaDecay = 1 - math.Pow(DefaultAlphaMin, 1.0/300)

// Config holds the simulation parameters.
type Config struct {
	LinkDistance   float64 // Target link length
	LinkIterations int     // Link constraint passes per step

	Repulsion   float64 // Many-body strength; negative repels
	Theta       float64 // Barnes-Hut accuracy; 0 forces exact pairwise
	DistanceMin float64 // Repulsion is clamped below this distance
	DistanceMax float64 // Repulsion is ignored beyond this distance; 0 = unbounded

	CollisionRadius   float64 // Per-node collision radius
	CollisionStrength float64 // Fraction of overlap resolved per step

	CenterStrength float64

	AlphaMin      float64 // Below this the simulation is settled
	AlphaDecay    float64 // Fraction of (target - alpha) applied per step
	VelocityDecay float64 // Fraction of velocity lost per step
	ResizeAlpha   float64 // Alpha floor applied on Resize

	Strict bool   // Fail on dangling links instead of dropping them
	Seed   uint64 // Seed for jiggle of coincident nodes
}

// DefaultConfig returns the default simulation parameters.
func DefaultConfig() Config {
	return Config{
		LinkDistance:      DefaultLinkDistance,
		LinkIterations:    1,
		Repulsion:         DefaultRepulsion,
		Theta:             DefaultTheta,
		DistanceMin:       DefaultDistanceMin,
		CollisionRadius:   DefaultCollisionRadius,
		CollisionStrength: DefaultCollisionStrength,
		CenterStrength:    DefaultCenterStrength,
		AlphaMin:          DefaultAlphaMin,
		AlphaDecay:        DefaultAlphaDecay,
		VelocityDecay:     DefaultVelocityDecay,
		ResizeAlpha:       DefaultResizeAlpha,
		Seed:              DefaultSeed,
	}
}

// Validate checks that the parameters describe a stable simulation.
func (c Config) Validate() error {
	switch {
	case c.LinkDistance < 0:
		return errs.New(errs.ErrCodeInvalidConfig, "link distance must not be negative (got %v)", c.LinkDistance)
	case c.LinkIterations < 1:
		return errs.New(errs.ErrCodeInvalidConfig, "link iterations must be at least 1 (got %d)", c.LinkIterations)
	case c.Theta < 0:
		return errs.New(errs.ErrCodeInvalidConfig, "theta must not be negative (got %v)", c.Theta)
	case c.DistanceMin <= 0:
		return errs.New(errs.ErrCodeInvalidConfig, "minimum distance must be positive (got %v)", c.DistanceMin)
	case c.DistanceMax < 0:
		return errs.New(errs.ErrCodeInvalidConfig, "maximum distance must not be negative (got %v)", c.DistanceMax)
	case c.CollisionRadius < 0:
		return errs.New(errs.ErrCodeInvalidConfig, "collision radius must not be negative (got %v)", c.CollisionRadius)
	case c.CollisionStrength < 0 || c.CollisionStrength > 1:
		return errs.New(errs.ErrCodeInvalidConfig, "collision strength must be in [0, 1] (got %v)", c.CollisionStrength)
	case c.CenterStrength < 0 || c.CenterStrength > 1:
		return errs.New(errs.ErrCodeInvalidConfig, "center strength must be in [0, 1] (got %v)", c.CenterStrength)
	case c.AlphaMin <= 0 || c.AlphaMin >= 1:
		return errs.New(errs.ErrCodeInvalidConfig, "alpha min must be in (0, 1) (got %v)", c.AlphaMin)
	case c.AlphaDecay <= 0 || c.AlphaDecay >= 1:
		return errs.New(errs.ErrCodeInvalidConfig, "alpha decay must be in (0, 1) (got %v)", c.AlphaDecay)
	case c.VelocityDecay < 0 || c.VelocityDecay > 1:
		return errs.New(errs.ErrCodeInvalidConfig, "velocity decay must be in [0, 1] (got %v)", c.VelocityDecay)
	case c.ResizeAlpha < 0 || c.ResizeAlpha > 1:
		return errs.New(errs.ErrCodeInvalidConfig, "resize alpha must be in [0, 1] (got %v)", c.ResizeAlpha)
	}
	return nil
}

// Viewport is the size of the drawing area in simulation units.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the midpoint of the viewport.
func (v Viewport) Center() (x, y float64) { return v.Width / 2, v.Height / 2 }

// Validate rejects negative or non-finite dimensions.
func (v Viewport) Validate() error { return errs.ValidateViewport(v.Width, v.Height) }
