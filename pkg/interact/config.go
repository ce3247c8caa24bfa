package interact

import (
	errs "github.com/matzehuels/forcegraph/pkg/errors"
)

// Default interaction parameters.
const (
	DefaultScaleMin        = 0.1
	DefaultScaleMax        = 4.0
	DefaultDragAlphaTarget = 0.3
	DefaultWheelFactor     = 0.002
	DefaultHitRadius       = 20.0
)

// Config holds interaction parameters.
type Config struct {
	ScaleMin        float64 // Minimum zoom
	ScaleMax        float64 // Maximum zoom
	DragAlphaTarget float64 // Alpha target while a node is dragged
	WheelFactor     float64 // Wheel delta to log2 zoom
	HitRadius       float64 // Pick radius around node centers, simulation units
}

// DefaultConfig returns the default interaction parameters.
func DefaultConfig() Config {
	return Config{
		ScaleMin:        DefaultScaleMin,
		ScaleMax:        DefaultScaleMax,
		DragAlphaTarget: DefaultDragAlphaTarget,
		WheelFactor:     DefaultWheelFactor,
		HitRadius:       DefaultHitRadius,
	}
}

// Validate checks the zoom range and drag target.
func (c Config) Validate() error {
	switch {
	case c.ScaleMin <= 0:
		return errs.New(errs.ErrCodeInvalidConfig, "scale min must be positive (got %v)", c.ScaleMin)
	case c.ScaleMax < c.ScaleMin:
		return errs.New(errs.ErrCodeInvalidConfig, "scale max %v is below scale min %v", c.ScaleMax, c.ScaleMin)
	case c.DragAlphaTarget < 0 || c.DragAlphaTarget > 1:
		return errs.New(errs.ErrCodeInvalidConfig, "drag alpha target must be in [0, 1] (got %v)", c.DragAlphaTarget)
	case c.HitRadius < 0:
		return errs.New(errs.ErrCodeInvalidConfig, "hit radius must not be negative (got %v)", c.HitRadius)
	}
	return nil
}
