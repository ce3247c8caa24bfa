package interact

import "math"

// Transform maps simulation coordinates to screen coordinates:
//
//	screen = sim*K + (X, Y)
type Transform struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	K float64 `json:"k"`
}

// Identity is the transform that leaves coordinates unchanged.
var Identity = Transform{K: 1}

// Apply maps a simulation point to the screen.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return x*t.K + t.X, y*t.K + t.Y
}

// Invert maps a screen point back into simulation space.
func (t Transform) Invert(x, y float64) (float64, float64) {
	return (x - t.X) / t.K, (y - t.Y) / t.K
}

// Translate returns t shifted by (dx, dy) screen units.
func (t Transform) Translate(dx, dy float64) Transform {
	t.X += dx
	t.Y += dy
	return t
}

// ScaleAt returns t scaled by factor about the screen point (px, py), with
// the resulting scale clamped to [lo, hi]. The simulation point under
// (px, py) stays under it.
func (t Transform) ScaleAt(factor, px, py, lo, hi float64) Transform {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return t
	}
	k := min(max(t.K*factor, lo), hi)
	sx, sy := t.Invert(px, py)
	return Transform{X: px - sx*k, Y: py - sy*k, K: k}
}
