// Package particle implements a 2D point-mass advanced by Time-Corrected
// Verlet (TCV) integration.
//
// A [Particle] stores its current and previous position; velocity is never
// stored, it is implied by the difference of the two. Force contributions
// accumulate between steps and are consumed by [Particle.Integrate]:
//
//	p := particle.New(0, 0, 1)
//	p.Force(0, 9.81)
//	if err := p.Gravitate(10, 0, 50); err != nil {
//	    // coincident with the source
//	}
//	p.Integrate(dt, dt/prevDt)
//
// # Time correction
//
// The correction factor scales the implicit velocity term. For a constant
// step it is 1; for variable steps it is the ratio of the current step to
// the previous one. No clamp is applied.
//
// # Thread Safety
//
// Particle is NOT safe for concurrent use. Accumulation and integration for
// one particle must happen on a single goroutine per step.
package particle
