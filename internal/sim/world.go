package sim

import (
	"github.com/san-kum/tcvsim/internal/particle"
	"github.com/san-kum/tcvsim/internal/vec"
)

// parallelThreshold is the particle count above which Step fans out.
const parallelThreshold = 256

// Source is a fixed point mass fed to Particle.Gravitate every step.
type Source struct {
	Position vec.Vector2 `json:"position" yaml:"position"`
	Mass     float64     `json:"mass" yaml:"mass"`
}

// World owns a set of independent particles and the fields acting on them.
// Particles never interact with each other.
type World struct {
	particles []*particle.Particle
	// Gravity is a uniform acceleration, applied as a force scaled by
	// each particle's mass.
	Gravity vec.Vector2
	Sources []Source
	bounds  *particle.Rect
}

func NewWorld() *World {
	return &World{particles: make([]*particle.Particle, 0)}
}

// Add registers p and returns its id. World bounds, if any, are applied.
func (w *World) Add(p *particle.Particle) int {
	if w.bounds != nil {
		p.SetBounds(w.bounds)
	}
	w.particles = append(w.particles, p)
	return len(w.particles) - 1
}

func (w *World) Particles() []*particle.Particle { return w.particles }
func (w *World) Len() int                        { return len(w.particles) }

// SetBounds sets or clears (nil) the bounds of the world and every particle.
func (w *World) SetBounds(r *particle.Rect) {
	if r != nil {
		c := *r
		r = &c
	}
	w.bounds = r
	for _, p := range w.particles {
		p.SetBounds(r)
	}
}

func (w *World) Bounds() (particle.Rect, bool) {
	if w.bounds == nil {
		return particle.Rect{}, false
	}
	return *w.bounds, true
}

// Step accumulates forces, integrates and contains every particle once.
// Degenerate gravitation is reported per particle and skipped; the step
// still completes.
func (w *World) Step(dt, correction float64) []error {
	errs := make([]error, len(w.particles))

	stepRange := func(start, end int) {
		for i := start; i < end; i++ {
			errs[i] = w.stepParticle(i, dt, correction)
		}
	}

	if len(w.particles) >= parallelThreshold {
		ParallelFor(len(w.particles), parallelThreshold/4, stepRange)
	} else {
		stepRange(0, len(w.particles))
	}

	var out []error
	for _, err := range errs {
		if err != nil {
			out = append(out, err)
		}
	}
	return out
}

func (w *World) stepParticle(i int, dt, correction float64) error {
	p := w.particles[i]
	var stepErr error

	if !w.Gravity.IsZero() {
		m := p.Mass()
		p.Force(w.Gravity.X*m, w.Gravity.Y*m)
	}
	for _, src := range w.Sources {
		if err := p.Gravitate(src.Position.X, src.Position.Y, src.Mass); err != nil && stepErr == nil {
			stepErr = &StepError{Particle: i, Wrapped: err}
		}
	}

	p.Integrate(dt, correction)

	if w.bounds != nil {
		if err := p.Contain(dt, correction); err != nil && stepErr == nil {
			stepErr = &StepError{Particle: i, Wrapped: err}
		}
	}
	return stepErr
}

// Snapshot captures every particle as a frame.
func (w *World) Snapshot(step int, t, dt, correction float64) Frame {
	f := Frame{
		Step:       step,
		Time:       t,
		Dt:         dt,
		Correction: correction,
		Particles:  make([]Sample, len(w.particles)),
	}
	inv := 0.0
	if dt > 0 {
		inv = 1 / dt
	}
	for i, p := range w.particles {
		f.Particles[i] = Sample{
			ID:       i,
			Mass:     p.Mass(),
			Position: p.Position(),
			Velocity: p.Velocity().Scale(inv),
		}
	}
	return f
}

// Valid reports whether every particle position is finite, and the first
// offending id otherwise.
func (w *World) Valid() (bool, int) {
	for i, p := range w.particles {
		if !p.Position().IsValid() {
			return false, i
		}
	}
	return true, -1
}
