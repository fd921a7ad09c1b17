package config

import (
	"sort"

	"github.com/san-kum/tcvsim/internal/particle"
	"github.com/san-kum/tcvsim/internal/sim"
	"github.com/san-kum/tcvsim/internal/vec"
)

var Presets = map[string]*Scenario{
	"freefall": {
		Name: "freefall", Dt: 0.01, Duration: 3.0, Seed: 1,
		Gravity:   vec.New(0, 9.81),
		Particles: []ParticleConfig{{X: 0, Y: 0, Mass: 1}},
	},
	"box": {
		Name: "box", Dt: 0.016, Duration: 10.0, Seed: 1,
		Gravity: vec.New(0, 9.81),
		Bounds:  &particle.Rect{Left: 0, Right: 100, Top: 0, Bottom: 60},
		Particles: []ParticleConfig{
			{X: 10, Y: 10, Mass: 1, VX: 20, VY: -5},
			{X: 50, Y: 5, Mass: 2, VX: -15, VY: 0},
			{X: 80, Y: 30, Mass: 0.5, VX: 5, VY: -30},
			{X: 30, Y: 45, Mass: 1, VX: 40, VY: -10},
		},
	},
	"jitter": {
		Name: "jitter", Dt: 0.01, Duration: 3.0, Jitter: 0.3, Seed: 42,
		Gravity:   vec.New(0, 9.81),
		Particles: []ParticleConfig{{X: 0, Y: 0, Mass: 1, VX: 2}},
	},
	"scatter": {
		Name: "scatter", Dt: 0.005, Duration: 8.0, Seed: 1,
		Bounds:  &particle.Rect{Left: -50, Right: 50, Top: -30, Bottom: 30},
		Sources: []sim.Source{{Position: vec.New(0, 0), Mass: 400}},
		Particles: []ParticleConfig{
			{X: -40, Y: -2, Mass: 1, VX: 15},
			{X: -40, Y: 4, Mass: 1, VX: 15},
			{X: -40, Y: 10, Mass: 1, VX: 15},
			{X: 40, Y: -6, Mass: 1, VX: -15},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Scenario {
	s, ok := Presets[name]
	if !ok {
		return nil
	}
	return s.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
