package interact

import (
	"math"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestTransformApplyInvert(t *testing.T) {
	tr := Transform{X: 30, Y: -10, K: 2}
	sx, sy := tr.Apply(5, 7)
	if sx != 40 || sy != 4 {
		t.Errorf("Apply(5, 7) = (%v, %v), want (40, 4)", sx, sy)
	}
	x, y := tr.Invert(sx, sy)
	if !near(x, 5) || !near(y, 7) {
		t.Errorf("Invert(Apply(5, 7)) = (%v, %v)", x, y)
	}
}

func TestTransformScaleAtKeepsAnchor(t *testing.T) {
	tr := Transform{X: 12, Y: 34, K: 1.5}
	before := [2]float64{}
	before[0], before[1] = tr.Invert(200, 150)

	got := tr.ScaleAt(2, 200, 150, 0.1, 4)
	if got.K != 3 {
		t.Errorf("K = %v, want 3", got.K)
	}
	x, y := got.Invert(200, 150)
	if !near(x, before[0]) || !near(y, before[1]) {
		t.Errorf("anchor moved: (%v, %v) -> (%v, %v)", before[0], before[1], x, y)
	}
}

func TestTransformScaleAtClamps(t *testing.T) {
	tests := []struct {
		name   string
		factor float64
		want   float64
	}{
		{"zoom in past max", 100, 4},
		{"zoom out past min", 0.001, 0.1},
		{"within range", 2, 2},
		{"invalid factor", -1, 1},
		{"nan factor", math.NaN(), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Identity.ScaleAt(tt.factor, 0, 0, 0.1, 4)
			if got.K != tt.want {
				t.Errorf("K = %v, want %v", got.K, tt.want)
			}
		})
	}
}

func TestTransformTranslate(t *testing.T) {
	got := Identity.Translate(5, -3).Translate(1, 1)
	if got.X != 6 || got.Y != -2 || got.K != 1 {
		t.Errorf("Translate = %+v, want {6 -2 1}", got)
	}
}
