package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/tcvsim/internal/particle"
	"github.com/san-kum/tcvsim/internal/sim"
	"github.com/san-kum/tcvsim/internal/vec"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

var ErrInvalidScenario = errors.New("config: invalid scenario")

// Scenario describes a world of independent particles and how to step it.
type Scenario struct {
	Name       string  `yaml:"name"`
	Dt         float64 `yaml:"dt"`
	Duration   float64 `yaml:"duration"`
	Correction float64 `yaml:"correction"`
	Jitter     float64 `yaml:"jitter"`
	Seed       int64   `yaml:"seed"`
	// RecordEvery keeps one frame in N. Zero records every step.
	RecordEvery int              `yaml:"record_every"`
	Gravity     vec.Vector2      `yaml:"gravity"`
	Bounds      *particle.Rect   `yaml:"bounds,omitempty"`
	Sources     []sim.Source     `yaml:"sources,omitempty"`
	Particles   []ParticleConfig `yaml:"particles"`
}

// ParticleConfig places one particle. VX and VY are an initial velocity
// per unit time, turned into an implicit displacement of one dt.
type ParticleConfig struct {
	X          float64 `yaml:"x"`
	Y          float64 `yaml:"y"`
	Mass       float64 `yaml:"mass,omitempty"`
	VX         float64 `yaml:"vx,omitempty"`
	VY         float64 `yaml:"vy,omitempty"`
	Elasticity float64 `yaml:"elasticity,omitempty"`
	Drag       float64 `yaml:"drag,omitempty"`
}

// Default returns the embedded default scenario.
func Default() (*Scenario, error) {
	s := &Scenario{}
	if err := yaml.Unmarshal(defaultsYAML, s); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	return s, nil
}

// Load reads a scenario file on top of the embedded defaults. Keys absent
// from the file keep their default value.
func Load(path string) (*Scenario, error) {
	s, err := Default()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	return s, nil
}

func Save(path string, s *Scenario) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling scenario: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing scenario %s: %w", path, err)
	}
	return nil
}

func (s *Scenario) Validate() error {
	switch {
	case s.Dt <= 0:
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidScenario, s.Dt)
	case s.Duration <= 0:
		return fmt.Errorf("%w: duration must be positive, got %g", ErrInvalidScenario, s.Duration)
	case s.Jitter < 0 || s.Jitter >= 1:
		return fmt.Errorf("%w: jitter must be in [0,1), got %g", ErrInvalidScenario, s.Jitter)
	case s.RecordEvery < 0:
		return fmt.Errorf("%w: record_every must not be negative", ErrInvalidScenario)
	case len(s.Particles) == 0:
		return fmt.Errorf("%w: no particles", ErrInvalidScenario)
	}
	return nil
}

// Clone returns a deep copy, so presets can be edited by callers.
func (s *Scenario) Clone() *Scenario {
	c := *s
	if s.Bounds != nil {
		b := *s.Bounds
		c.Bounds = &b
	}
	c.Sources = append([]sim.Source(nil), s.Sources...)
	c.Particles = append([]ParticleConfig(nil), s.Particles...)
	return &c
}

// Build validates the scenario and constructs its world.
func (s *Scenario) Build() (*sim.World, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	w := sim.NewWorld()
	w.Gravity = s.Gravity
	w.Sources = append([]sim.Source(nil), s.Sources...)
	w.SetBounds(s.Bounds)

	for _, pc := range s.Particles {
		dx, dy := pc.VX*s.Dt, pc.VY*s.Dt
		p := particle.New(pc.X, pc.Y, pc.Mass).
			PlaceAt(pc.X-dx, pc.Y-dy).
			MoveBy(dx, dy)
		if pc.Elasticity != 0 {
			p.SetElasticity(pc.Elasticity)
		}
		if pc.Drag != 0 {
			p.SetDrag(pc.Drag)
		}
		w.Add(p)
	}
	return w, nil
}

// ForceFree reports whether nothing accelerates the particles, so their
// kinetic energy should stay constant between wall contacts.
func (s *Scenario) ForceFree() bool {
	return s.Gravity.IsZero() && len(s.Sources) == 0
}

func (s *Scenario) SimConfig() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.Dt = s.Dt
	cfg.Duration = s.Duration
	cfg.Correction = s.Correction
	cfg.Jitter = s.Jitter
	cfg.Seed = s.Seed
	if s.RecordEvery > 0 {
		cfg.RecordEvery = s.RecordEvery
	}
	return cfg
}
