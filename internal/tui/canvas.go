package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// cell is one terminal character and its foreground color. An empty color
// selects the terminal default.
type cell struct {
	r     rune
	color string
}

// canvas is a fixed-size grid of cells, drawn bottom-up: links first, then
// labels, then node glyphs on top.
type canvas struct {
	w, h  int
	cells [][]cell
}

func newCanvas(w, h int) *canvas {
	w, h = max(w, 0), max(h, 0)
	c := &canvas{w: w, h: h, cells: make([][]cell, h)}
	for y := range c.cells {
		c.cells[y] = make([]cell, w)
		for x := range c.cells[y] {
			c.cells[y][x] = cell{r: ' '}
		}
	}
	return c
}

func (c *canvas) set(x, y int, r rune, color string) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y][x] = cell{r: r, color: color}
}

func (c *canvas) at(x, y int) rune {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return 0
	}
	return c.cells[y][x].r
}

// line draws a Bresenham segment from (x1, y1) to (x2, y2), clipped to the
// canvas first so only visible cells are walked.
func (c *canvas) line(x1, y1, x2, y2 int, r rune, color string) {
	x1, y1, x2, y2, ok := c.clip(x1, y1, x2, y2)
	if !ok {
		return
	}
	dx, dy := intAbs(x2-x1), intAbs(y2-y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	for {
		c.set(x1, y1, r, color)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// clip cuts a segment to the canvas bounds (Liang-Barsky). It reports false
// when the segment misses the canvas entirely.
func (c *canvas) clip(x1, y1, x2, y2 int) (int, int, int, int, bool) {
	if c.w == 0 || c.h == 0 {
		return 0, 0, 0, 0, false
	}
	xmax, ymax := c.w-1, c.h-1
	if x1 >= 0 && x1 <= xmax && y1 >= 0 && y1 <= ymax &&
		x2 >= 0 && x2 <= xmax && y2 >= 0 && y2 <= ymax {
		return x1, y1, x2, y2, true
	}

	fx, fy := float64(x1), float64(y1)
	dx, dy := float64(x2-x1), float64(y2-y1)
	t0, t1 := 0.0, 1.0
	for _, e := range [4][2]float64{
		{-dx, fx},
		{dx, float64(xmax) - fx},
		{-dy, fy},
		{dy, float64(ymax) - fy},
	} {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = max(t0, t)
		} else {
			if t < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = min(t1, t)
		}
	}

	cx := func(v float64) int { return min(max(int(math.Round(v)), 0), xmax) }
	cy := func(v float64) int { return min(max(int(math.Round(v)), 0), ymax) }
	return cx(fx + t0*dx), cy(fy + t0*dy), cx(fx + t1*dx), cy(fy + t1*dy), true
}

// text writes s starting at (x, y), clipped to the canvas.
func (c *canvas) text(x, y int, s string, color string) {
	for _, r := range s {
		c.set(x, y, r, color)
		x++
	}
}

// String renders the canvas with runs of equally colored cells grouped into
// one styled segment.
func (c *canvas) String() string {
	var b strings.Builder
	for y, row := range c.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		var run strings.Builder
		color := ""
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if color == "" {
				b.WriteString(run.String())
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(run.String()))
			}
			run.Reset()
		}
		for _, cl := range row {
			if cl.color != color {
				flush()
				color = cl.color
			}
			run.WriteRune(cl.r)
		}
		flush()
	}
	return b.String()
}

// plain returns the canvas without color codes.
func (c *canvas) plain() string {
	var b strings.Builder
	for y, row := range c.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		for _, cl := range row {
			b.WriteRune(cl.r)
		}
	}
	return b.String()
}

func intAbs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
