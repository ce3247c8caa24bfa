package render

import "sync"

// Category10 is the D3 ten-color categorical scheme.
var Category10 = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// Palette is an ordinal group→color scale. The first group seen gets the
// first color, the second group the second, and so on, wrapping around when
// the scheme is exhausted. Once assigned, a group's color never changes.
//
// A Palette is safe for concurrent use.
type Palette struct {
	mu       sync.Mutex
	colors   []string
	assigned map[string]string
	order    []string
}

// NewPalette returns a palette over colors, or [Category10] if none are
// given.
func NewPalette(colors ...string) *Palette {
	if len(colors) == 0 {
		colors = Category10
	}
	return &Palette{
		colors:   append([]string(nil), colors...),
		assigned: make(map[string]string),
	}
}

// Color returns the color for group, assigning the next one on first use.
func (p *Palette) Color(group string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.assigned[group]; ok {
		return c
	}
	c := p.colors[len(p.order)%len(p.colors)]
	p.assigned[group] = c
	p.order = append(p.order, group)
	return c
}

// Groups returns the groups seen so far, in assignment order.
func (p *Palette) Groups() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.order...)
}

// Len returns the number of groups assigned.
func (p *Palette) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.order)
}
