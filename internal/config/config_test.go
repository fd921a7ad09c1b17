package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/tcvsim/internal/sim"
	"github.com/san-kum/tcvsim/internal/vec"
)

func TestDefault(t *testing.T) {
	s, err := Default()
	if err != nil {
		t.Fatalf("default: %v", err)
	}

	if s.Name != "default" {
		t.Errorf("expected name default, got %s", s.Name)
	}
	if s.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if s.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if err := s.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadMergesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	data := []byte("name: custom\ndt: 0.02\nparticles:\n  - x: 1\n    y: 2\n  - x: 3\n    y: 4\n    vx: 5\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if s.Name != "custom" || s.Dt != 0.02 {
		t.Errorf("file values not applied: %+v", s)
	}
	if s.Duration != 5.0 {
		t.Errorf("expected default duration 5, got %f", s.Duration)
	}
	if len(s.Particles) != 2 {
		t.Fatalf("expected 2 particles, got %d", len(s.Particles))
	}
	if s.Particles[1].VX != 5 {
		t.Errorf("expected vx 5, got %f", s.Particles[1].VX)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSaveLoadPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "box.yaml")
	if err := Save(path, GetPreset("box")); err != nil {
		t.Fatalf("save: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Bounds == nil || s.Bounds.Right != 100 {
		t.Errorf("bounds not preserved: %+v", s.Bounds)
	}
	if len(s.Particles) != 4 {
		t.Errorf("expected 4 particles, got %d", len(s.Particles))
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Scenario)
	}{
		{"zero dt", func(s *Scenario) { s.Dt = 0 }},
		{"negative duration", func(s *Scenario) { s.Duration = -1 }},
		{"jitter one", func(s *Scenario) { s.Jitter = 1 }},
		{"negative jitter", func(s *Scenario) { s.Jitter = -0.1 }},
		{"negative record", func(s *Scenario) { s.RecordEvery = -1 }},
		{"no particles", func(s *Scenario) { s.Particles = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := GetPreset("freefall")
			tt.mutate(s)
			if err := s.Validate(); !errors.Is(err, ErrInvalidScenario) {
				t.Errorf("expected ErrInvalidScenario, got %v", err)
			}
		})
	}
}

func TestBuildInitialVelocity(t *testing.T) {
	s := GetPreset("freefall")
	s.Particles = []ParticleConfig{{X: 1, Y: 2, VX: 10, VY: -5}}

	w, err := s.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	p := w.Particles()[0]

	if math.Abs(p.Position().X-1) > 1e-12 || math.Abs(p.Position().Y-2) > 1e-12 {
		t.Errorf("expected position (1,2), got %+v", p.Position())
	}
	v := p.Velocity()
	if math.Abs(v.X-10*s.Dt) > 1e-12 || math.Abs(v.Y+5*s.Dt) > 1e-12 {
		t.Errorf("expected implicit velocity (%f,%f), got %+v", 10*s.Dt, -5*s.Dt, v)
	}
	if p.Mass() != 1 {
		t.Errorf("expected default mass 1, got %f", p.Mass())
	}
}

func TestBuildBounds(t *testing.T) {
	w, err := GetPreset("box").Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for i, p := range w.Particles() {
		if _, ok := p.Bounds(); !ok {
			t.Errorf("particle %d has no bounds", i)
		}
	}
}

func TestSimConfig(t *testing.T) {
	s := GetPreset("jitter")
	cfg := s.SimConfig()
	if cfg.Dt != s.Dt || cfg.Jitter != 0.3 || cfg.Seed != 42 {
		t.Errorf("unexpected sim config %+v", cfg)
	}
	if cfg.RecordEvery != 1 {
		t.Errorf("expected record every 1, got %d", cfg.RecordEvery)
	}
}

func TestGetPreset(t *testing.T) {
	s := GetPreset("box")
	if s == nil {
		t.Fatal("expected preset, got nil")
	}
	s.Bounds.Right = 1
	s.Particles[0].X = -1

	fresh := GetPreset("box")
	if fresh.Bounds.Right != 100 || fresh.Particles[0].X != 10 {
		t.Error("editing a preset copy changed the preset")
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	want := []string{"box", "freefall", "jitter", "scatter"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("expected %v, got %v", want, names)
			break
		}
	}
	for _, n := range names {
		if err := GetPreset(n).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", n, err)
		}
	}
}

func TestForceFree(t *testing.T) {
	s := GetPreset("freefall")
	if s.ForceFree() {
		t.Error("freefall has gravity")
	}

	s.Gravity = vec.Zero
	if !s.ForceFree() {
		t.Error("expected force-free without gravity or sources")
	}

	s.Sources = []sim.Source{{Position: vec.New(1, 1), Mass: 2}}
	if s.ForceFree() {
		t.Error("a source accelerates the particles")
	}
}
