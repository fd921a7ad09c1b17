package particle

import (
	"math"

	"github.com/san-kum/tcvsim/internal/vec"
)

const (
	DefaultMass       = 1.0
	DefaultElasticity = 0.5
	DefaultDrag       = 0.9999
)

// Particle is a point-mass with implicit velocity.
//
// Elasticity and Drag are carried for callers that implement collision
// response or damping; Integrate does not read them.
type Particle struct {
	position     vec.Vector2
	lastPosition vec.Vector2
	acceleration vec.Vector2
	mass         float64
	elasticity   float64
	drag         float64
	bounds       Rect
	hasBounds    bool
}

// New creates a particle at rest at (x, y). A mass that is not positive
// (including NaN) is replaced by DefaultMass.
func New(x, y, mass float64) *Particle {
	pos := vec.New(x, y)
	return &Particle{
		position:     pos,
		lastPosition: pos,
		mass:         effectiveMass(mass, DefaultMass),
		elasticity:   DefaultElasticity,
		drag:         DefaultDrag,
	}
}

func effectiveMass(m, fallback float64) float64 {
	if math.IsNaN(m) || m <= 0 {
		return fallback
	}
	return m
}

func (p *Particle) Position() vec.Vector2     { return p.position }
func (p *Particle) LastPosition() vec.Vector2 { return p.lastPosition }
func (p *Particle) Acceleration() vec.Vector2 { return p.acceleration }
func (p *Particle) Mass() float64             { return p.mass }
func (p *Particle) Elasticity() float64       { return p.elasticity }
func (p *Particle) Drag() float64             { return p.drag }

func (p *Particle) SetElasticity(e float64) { p.elasticity = e }
func (p *Particle) SetDrag(d float64)       { p.drag = d }

// Velocity returns the implicit per-step displacement, position minus last
// position. Divide by the step length for a per-time velocity.
func (p *Particle) Velocity() vec.Vector2 {
	return p.position.Sub(p.lastPosition)
}

// Integrate advances the particle by one TCV step and clears the
// accumulated acceleration. Inputs are not validated.
func (p *Particle) Integrate(time, correction float64) {
	velocity := p.position.Sub(p.lastPosition).Scale(correction)
	accel := p.acceleration.Scale(time * time)

	p.lastPosition = p.position
	p.position = p.position.Add(velocity).Add(accel)

	p.acceleration = vec.Zero
}

// PlaceAt teleports the particle and zeroes its implicit velocity.
func (p *Particle) PlaceAt(x, y float64) *Particle {
	p.position = vec.New(x, y)
	p.lastPosition = p.position
	return p
}

// MoveBy displaces the particle from its current position. The displacement
// becomes the implicit velocity seen by the next Integrate.
func (p *Particle) MoveBy(dx, dy float64) *Particle {
	p.lastPosition = p.position
	p.position = p.position.AddXY(dx, dy)
	return p
}

// SetBounds stores a copy of r, or clears the bounds when r is nil.
func (p *Particle) SetBounds(r *Rect) {
	if r == nil {
		p.bounds, p.hasBounds = Rect{}, false
		return
	}
	p.bounds, p.hasBounds = *r, true
}

// Bounds returns the stored bounds and whether any are set.
func (p *Particle) Bounds() (Rect, bool) {
	return p.bounds, p.hasBounds
}

// Contain clamps the position to the stored bounds. The time and
// correction arguments are accepted for call-site symmetry with Integrate
// and are not used.
func (p *Particle) Contain(time, correction float64) error {
	if !p.hasBounds {
		return ErrNoBounds
	}
	p.ContainIn(p.bounds)
	return nil
}

// ContainIn clamps the position to r. The last position is left alone, so
// the clamped distance shows up as velocity on the next step.
func (p *Particle) ContainIn(r Rect) {
	p.position = r.Clamp(p.position)
}

// Force accumulates (x, y) divided by the particle's own mass.
func (p *Particle) Force(x, y float64) {
	p.ForceWithMass(x, y, p.mass)
}

// ForceWithMass accumulates (x/mass, y/mass). A zero or NaN mass falls back
// to the particle's own mass.
func (p *Particle) ForceWithMass(x, y, mass float64) {
	if mass == 0 || math.IsNaN(mass) {
		mass = p.mass
	}
	p.acceleration = p.acceleration.AddXY(x/mass, y/mass)
}

// Gravitate accumulates the attraction term for a point source of mass m at
// (x, y), weighted by m/(m+mass). The contribution is directed along
// position-(x, y). It returns ErrCoincidentPositions, leaving the
// accumulator untouched, when the source sits on the particle.
func (p *Particle) Gravitate(x, y, m float64) error {
	delta := p.position.Sub(vec.New(x, y))
	r := delta.Length()
	if r == 0 {
		return ErrCoincidentPositions
	}

	f := (m * p.mass) / (r * r)
	ratio := m / (m + p.mass)

	p.acceleration = p.acceleration.AddXY(
		f*(delta.X/r)*ratio,
		f*(delta.Y/r)*ratio,
	)
	return nil
}
