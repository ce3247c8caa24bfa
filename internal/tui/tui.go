// Package tui hosts a live layout in the terminal.
//
// The model drives a [viz.View] from bubbletea's update loop: a tick message
// advances the simulation about sixty times a second, mouse drags pin and
// move nodes or pan the canvas, the wheel zooms about the pointer, and
// terminal resizes resize the viewport. Each terminal cell covers a fixed
// patch of screen units, so the layout keeps its proportions.
package tui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/forcegraph/pkg/force"
	"github.com/matzehuels/forcegraph/pkg/interact"
	"github.com/matzehuels/forcegraph/pkg/viz"
)

// Screen units covered by one terminal cell. Cells are about twice as tall
// as they are wide.
const (
	cellWidth  = 6.0
	cellHeight = 12.0
)

const (
	chromeRows = 2     // status and help lines below the canvas
	wheelDelta = 100.0 // screen units per wheel notch, as browsers report
	panStep    = 8     // cells per arrow key press
	zoomStep   = 1.25
)

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	pausedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

const labelColor = "250"

type tickMsg time.Time

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// =============================================================================
// Model
// =============================================================================

// Model is the bubbletea model of an interactive layout.
type Model struct {
	view     *viz.View
	title    string
	interval time.Duration

	width, height int
	paused        bool
	linkLabels    bool
	err           error
}

// Option configures a Model.
type Option func(*Model)

// WithTitle sets the text shown in the status line.
func WithTitle(title string) Option {
	return func(m *Model) { m.title = title }
}

// WithFrameInterval sets the tick cadence.
func WithFrameInterval(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.interval = d
		}
	}
}

// New returns a model for view. The terminal size is picked up from the
// first window size message.
func New(view *viz.View, opts ...Option) Model {
	m := Model{
		view:       view,
		title:      "forcegraph",
		interval:   viz.DefaultFrameInterval,
		linkLabels: view.Config().Render.LinkLabels,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tick(m.interval)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.err = m.view.Resize(m.viewport())
	case tea.MouseMsg:
		m.err = m.mouse(msg)
	case tea.KeyMsg:
		return m.key(msg)
	case tickMsg:
		if m.view.Closed() {
			return m, nil
		}
		if !m.paused {
			m.view.Frame()
		}
		return m, tick(m.interval)
	}
	return m, nil
}

func (m Model) key(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t := m.view.Transform()
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.view.Teardown()
		return m, tea.Quit
	case " ", "p":
		m.paused = !m.paused
	case "t":
		m.linkLabels = !m.linkLabels
	case "r":
		if sim := m.view.Simulation(); sim != nil {
			sim.Reheat(1)
		}
	case "0":
		m.view.SetTransform(interact.Identity)
	case "+", "=":
		cx, cy := m.view.Viewport().Center()
		m.err = m.view.Pinch(cx, cy, zoomStep)
	case "-":
		cx, cy := m.view.Viewport().Center()
		m.err = m.view.Pinch(cx, cy, 1/zoomStep)
	case "left", "h":
		m.view.SetTransform(t.Translate(panStep*cellWidth, 0))
	case "right", "l":
		m.view.SetTransform(t.Translate(-panStep*cellWidth, 0))
	case "up", "k":
		m.view.SetTransform(t.Translate(0, panStep*cellHeight))
	case "down", "j":
		m.view.SetTransform(t.Translate(0, -panStep*cellHeight))
	}
	return m, nil
}

// mouse forwards a mouse event at a terminal cell to the view, using the
// cell's center as the screen point.
func (m Model) mouse(msg tea.MouseMsg) error {
	x := float64(msg.X)*cellWidth + cellWidth/2
	y := float64(msg.Y)*cellHeight + cellHeight/2

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return m.view.Wheel(x, y, -wheelDelta)
	case tea.MouseButtonWheelDown:
		return m.view.Wheel(x, y, wheelDelta)
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			return m.view.PointerDown(x, y)
		}
	case tea.MouseActionMotion:
		if m.view.Mode() != interact.ModeIdle {
			return m.view.PointerMove(x, y)
		}
	case tea.MouseActionRelease:
		return m.view.PointerUp(x, y)
	}
	return nil
}

// viewport is the canvas size in screen units.
func (m Model) viewport() force.Viewport {
	cols := max(m.width, 1)
	rows := max(m.height-chromeRows, 1)
	return force.Viewport{Width: float64(cols) * cellWidth, Height: float64(rows) * cellHeight}
}

// =============================================================================
// Drawing
// =============================================================================

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "starting..."
	}
	c := m.draw(m.width, max(m.height-chromeRows, 1))

	var b strings.Builder
	b.WriteString(c.String())
	b.WriteByte('\n')
	b.WriteString(m.status())
	b.WriteByte('\n')
	if m.err != nil {
		b.WriteString(errStyle.Render(m.err.Error()))
	} else {
		b.WriteString(dimStyle.Render("drag: move node/pan  wheel/+/-: zoom  arrows: pan  0: reset  r: reheat  t: labels  space: pause  q: quit"))
	}
	return b.String()
}

// draw renders the current scene onto a w by h canvas.
func (m Model) draw(w, h int) *canvas {
	c := newCanvas(w, h)
	scene := m.view.Scene()
	t := scene.Transform

	toCell := func(x, y float64) (int, int) {
		sx, sy := t.Apply(x, y)
		return int(math.Floor(sx / cellWidth)), int(math.Floor(sy / cellHeight))
	}

	for _, l := range scene.Links {
		x1, y1 := toCell(l.X1, l.Y1)
		x2, y2 := toCell(l.X2, l.Y2)
		c.line(x1, y1, x2, y2, '·', scene.Style.LinkColor)
	}
	if m.linkLabels {
		for _, l := range scene.LinkLabels {
			x, y := toCell(l.X, l.Y)
			c.text(x-len([]rune(l.Text))/2, y, l.Text, "242")
		}
	}
	// Labels sit two cells right of their node; label offsets in screen
	// units are smaller than a cell.
	for _, n := range scene.Nodes {
		x, y := toCell(n.X, n.Y)
		c.text(x+2, y, n.ID, labelColor)
	}
	for _, n := range scene.Nodes {
		x, y := toCell(n.X, n.Y)
		c.set(x, y, '●', n.Color)
	}
	return c
}

func (m Model) status() string {
	st := m.view.Stats()
	parts := []string{
		statusStyle.Render(m.title),
		fmt.Sprintf("%d nodes", st.Nodes),
		fmt.Sprintf("%d links", st.Links),
	}
	if st.Dropped > 0 {
		parts = append(parts, fmt.Sprintf("%d dropped", st.Dropped))
	}
	state := fmt.Sprintf("alpha %.3f", st.Alpha)
	if st.Settled {
		state = "settled"
	}
	parts = append(parts, state,
		fmt.Sprintf("zoom %.2fx", m.view.Transform().K),
		m.view.Mode().String())
	line := dimStyle.Render(strings.Join(parts[1:], " · "))
	if m.paused {
		line += " " + pausedStyle.Render("paused")
	}
	return parts[0] + " " + line
}

// =============================================================================
// Program
// =============================================================================

// Run shows view full-screen until the user quits or ctx is cancelled. The
// view is torn down on return.
func Run(ctx context.Context, view *viz.View, opts ...Option) error {
	defer view.Teardown()

	p := tea.NewProgram(New(view, opts...),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
