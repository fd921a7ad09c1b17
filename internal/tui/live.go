package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/tcvsim/internal/config"
	"github.com/san-kum/tcvsim/internal/metrics"
	"github.com/san-kum/tcvsim/internal/sim"
	"github.com/san-kum/tcvsim/internal/vec"
)

const (
	canvasWidth     = 60
	canvasHeight    = 20
	trailLength     = 40
	historyCapacity = 120
	maxSpeed        = 64
)

var (
	canvasStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#444466"))
	statsStyle  = lipgloss.NewStyle().Padding(0, 2).Width(44)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))

	statusRunning = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	statusPaused  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00"))
	statusDone    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#666688"))
)

type TickMsg time.Time

// Model steps a scenario in real time and draws it on a braille canvas.
type Model struct {
	scenario *config.Scenario
	sim      *sim.Simulator
	clock    *sim.Clock
	frame    sim.Frame

	canvas    *Canvas
	view      Viewport
	fixedView bool
	trails    [][]vec.Vector2
	showTrail bool

	energyHistory []float64
	running       bool
	done          bool
	speed         int
	lastErr       string
	err           error
}

func NewModel(sc *config.Scenario) (Model, error) {
	m := Model{
		scenario:  sc,
		canvas:    NewCanvas(canvasWidth, canvasHeight),
		showTrail: true,
		running:   true,
		speed:     1,
	}
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m *Model) reset() error {
	world, err := m.scenario.Build()
	if err != nil {
		return err
	}

	m.sim = sim.New(world)
	if m.clock == nil {
		m.clock = sim.NewClock(m.scenario.SimConfig())
	} else {
		m.clock.Reset()
	}
	m.frame = world.Snapshot(0, 0, m.scenario.Dt, 1)
	m.trails = make([][]vec.Vector2, world.Len())
	m.energyHistory = make([]float64, 0, historyCapacity)
	m.done, m.lastErr, m.err = false, "", nil

	if b, ok := world.Bounds(); ok {
		m.view = Viewport{Min: vec.New(b.Left, b.Top), Max: vec.New(b.Right, b.Bottom)}
		m.fixedView = true
	} else {
		points := make([]vec.Vector2, 0, world.Len()+len(world.Sources))
		for _, s := range m.frame.Particles {
			points = append(points, s.Position)
		}
		for _, src := range world.Sources {
			points = append(points, src.Position)
		}
		m.view = Fit(points)
		m.fixedView = false
	}
	return nil
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			if err := m.reset(); err != nil {
				m.err = err
			}
		case "+", "=":
			m.speed = min(m.speed*2, maxSpeed)
		case "-", "_":
			m.speed = max(m.speed/2, 1)
		case "t":
			m.showTrail = !m.showTrail
		}
		return m, nil

	case TickMsg:
		if m.running && !m.done {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

// advance runs speed ticks of the clock.
func (m *Model) advance() {
	for i := 0; i < m.speed; i++ {
		if m.clock.Done() {
			m.done = true
			return
		}

		frame, err := m.sim.Step(m.clock)
		if errors.Is(err, sim.ErrInvalidState) {
			m.err = err
			m.done = true
			return
		}
		if err != nil {
			m.lastErr = err.Error()
		}
		m.observe(frame)
	}
}

func (m *Model) observe(f sim.Frame) {
	m.frame = f
	for _, s := range f.Particles {
		if s.ID >= len(m.trails) {
			continue
		}
		m.trails[s.ID] = append(m.trails[s.ID], s.Position)
		if len(m.trails[s.ID]) > trailLength {
			m.trails[s.ID] = m.trails[s.ID][1:]
		}
		if !m.fixedView {
			m.view.Include(s.Position)
		}
	}

	m.energyHistory = append(m.energyHistory, metrics.FrameEnergy(f))
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
}

func (m Model) draw() {
	c := m.canvas
	c.Clear()

	if m.fixedView {
		x0, y0, _ := m.view.Project(c, m.view.Min)
		x1, y1, _ := m.view.Project(c, m.view.Max)
		c.DrawLine(x0, y0, x1, y0)
		c.DrawLine(x1, y0, x1, y1)
		c.DrawLine(x1, y1, x0, y1)
		c.DrawLine(x0, y1, x0, y0)
	}

	for _, src := range m.sim.World().Sources {
		if x, y, ok := m.view.Project(c, src.Position); ok {
			c.DrawLine(x-2, y, x+2, y)
			c.DrawLine(x, y-2, x, y+2)
		}
	}

	if m.showTrail {
		for _, trail := range m.trails {
			for _, p := range trail {
				if x, y, ok := m.view.Project(c, p); ok {
					c.Set(x, y)
				}
			}
		}
	}

	for _, s := range m.frame.Particles {
		if x, y, ok := m.view.Project(c, s.Position); ok {
			c.Blob(x, y)
		}
	}
}

func (m Model) status() string {
	switch {
	case m.done:
		return statusDone.Render("DONE")
	case !m.running:
		return statusPaused.Render("PAUSED")
	default:
		return statusRunning.Render("RUNNING")
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(strings.TrimSuffix(m.canvas.String(), "\n"))

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.scenario.Name)) + "\n")
	s.WriteString(m.status() + "\n\n")

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs / %.2fs", m.frame.Time, m.scenario.Duration))
	row("Step", fmt.Sprintf("%d", m.frame.Step))
	row("dt", fmt.Sprintf("%.5f", m.frame.Dt))
	row("Correction", fmt.Sprintf("%.4f", m.frame.Correction))
	row("Particles", fmt.Sprintf("%d", len(m.frame.Particles)))
	if b, ok := m.sim.World().Bounds(); ok {
		row("Bounds", fmt.Sprintf("%g x %g", b.Width(), b.Height()))
	}
	row("Speed", fmt.Sprintf("%dx", m.speed))

	energy := 0.0
	if n := len(m.energyHistory); n > 0 {
		energy = m.energyHistory[n-1]
	}
	row("Energy", fmt.Sprintf("%.3f", energy))

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	if m.err != nil {
		s.WriteString(errStyle.Render(m.err.Error()) + "\n")
	} else if m.lastErr != "" {
		s.WriteString(errStyle.Render(m.lastErr) + "\n")
	}

	s.WriteString(helpStyle.Render("space pause  r reset  +/- speed  t trails  q quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}

// Run opens the live viewer on the alternate screen and blocks until quit.
func Run(sc *config.Scenario) error {
	m, err := NewModel(sc)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
