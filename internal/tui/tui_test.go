package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/forcegraph/pkg/force"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/interact"
	"github.com/matzehuels/forcegraph/pkg/viz"
)

func newModel(t *testing.T) Model {
	t.Helper()
	v, err := viz.NewView(force.Viewport{Width: 480, Height: 264}, viz.DefaultConfig())
	if err != nil {
		t.Fatalf("NewView: %v", err)
	}
	if _, err := v.SetSnapshot(graph.Snapshot{
		Nodes: []graph.Node{{ID: "alpha", Group: "a"}, {ID: "beta", Group: "b"}},
		Links: []graph.Link{{Source: "alpha", Target: "beta", Relationship: "knows"}},
	}); err != nil {
		t.Fatalf("SetSnapshot: %v", err)
	}
	t.Cleanup(v.Teardown)
	return New(v, WithTitle("test"))
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestCanvasLine(t *testing.T) {
	c := newCanvas(5, 3)
	c.line(0, 0, 4, 2, '*', "")
	want := "**   \n  ** \n    *"
	if got := c.plain(); got != want {
		t.Errorf("line =\n%s\nwant\n%s", got, want)
	}

	// Clipped, never panics.
	c.line(-10, -10, 20, 20, '#', "")
	c.text(3, 1, "long text", "")
	if c.at(4, 1) != 'o' {
		t.Errorf("text not clipped at edge: %q", c.at(4, 1))
	}
}

func TestCanvasLineClipsFarEndpoints(t *testing.T) {
	c := newCanvas(10, 5)
	c.line(-100000, 2, 100000, 2, '-', "")
	if got, want := c.plain(), "          \n          \n----------\n          \n          "; got != want {
		t.Errorf("horizontal line =\n%s\nwant\n%s", got, want)
	}

	c = newCanvas(10, 5)
	c.line(-50000, -50000, 50000, 50000, '\\', "")
	for i := range 5 {
		if c.at(i, i) != '\\' {
			t.Errorf("diagonal missing at (%d, %d):\n%s", i, i, c.plain())
		}
	}

	c = newCanvas(10, 5)
	c.line(-100000, -3, 100000, -3, '-', "")
	if strings.ContainsRune(c.plain(), '-') {
		t.Errorf("line above the canvas was drawn:\n%s", c.plain())
	}
}

func TestWindowSizeResizesView(t *testing.T) {
	m := newModel(t)
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 42})

	vp := m.view.Viewport()
	if vp.Width != 100*cellWidth || vp.Height != 40*cellHeight {
		t.Errorf("viewport = %+v, want %vx%v", vp, 100*cellWidth, 40*cellHeight)
	}
	if m.err != nil {
		t.Errorf("err = %v", m.err)
	}
}

func TestTickAdvancesUnlessPaused(t *testing.T) {
	m := newModel(t)
	m = update(t, m, tickMsg{})
	steps := m.view.Stats().Steps
	if steps != 1 {
		t.Fatalf("Steps = %d after one tick, want 1", steps)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	if !m.paused {
		t.Fatal("p did not pause")
	}
	m = update(t, m, tickMsg{})
	if got := m.view.Stats().Steps; got != steps {
		t.Errorf("Steps = %d while paused, want %d", got, steps)
	}
}

func TestMouseDragPans(t *testing.T) {
	m := newModel(t)
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	// The top-left cell is far from both nodes.
	m = update(t, m, tea.MouseMsg{X: 0, Y: 0, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if m.view.Mode() != interact.ModePan {
		t.Fatalf("Mode = %v, want pan", m.view.Mode())
	}
	m = update(t, m, tea.MouseMsg{X: 2, Y: 1, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion})
	m = update(t, m, tea.MouseMsg{X: 2, Y: 1, Action: tea.MouseActionRelease})

	tr := m.view.Transform()
	if tr.X != 2*cellWidth || tr.Y != cellHeight {
		t.Errorf("Transform = %+v, want x=%v y=%v", tr, 2*cellWidth, cellHeight)
	}
	if m.view.Mode() != interact.ModeIdle {
		t.Errorf("Mode = %v after release, want idle", m.view.Mode())
	}
}

func TestWheelZooms(t *testing.T) {
	m := newModel(t)
	m = update(t, m, tea.MouseMsg{X: 10, Y: 5, Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	if k := m.view.Transform().K; k <= 1 {
		t.Errorf("K = %v after wheel up, want > 1", k)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'0'}})
	if m.view.Transform() != interact.Identity {
		t.Errorf("Transform = %+v after reset, want identity", m.view.Transform())
	}
}

func TestQuitTearsDown(t *testing.T) {
	m := newModel(t)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
	if !next.(Model).view.Closed() {
		t.Error("view not torn down on quit")
	}
	if _, cmd := next.Update(tickMsg{}); cmd != nil {
		t.Error("tick after quit scheduled another tick")
	}
}

func TestViewDrawsNodes(t *testing.T) {
	m := newModel(t)
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	for range 50 {
		m = update(t, m, tickMsg{})
	}

	c := m.draw(80, 22)
	out := c.plain()
	if strings.Count(out, "●") != 2 {
		t.Errorf("canvas has %d node glyphs, want 2:\n%s", strings.Count(out, "●"), out)
	}
	if !strings.Contains(out, "alpha") || !strings.Contains(out, "beta") {
		t.Errorf("canvas missing labels:\n%s", out)
	}
	if view := m.View(); !strings.Contains(view, "2 nodes") {
		t.Errorf("status line missing counts: %q", view)
	}
}
