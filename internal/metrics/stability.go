package metrics

import (
	"github.com/san-kum/tcvsim/internal/particle"
	"github.com/san-kum/tcvsim/internal/sim"
)

// Containment is the fraction of frames in which every particle lies
// inside the rect.
type Containment struct {
	name       string
	bounds     particle.Rect
	violations int
	samples    int
}

func NewContainment(bounds particle.Rect) *Containment {
	return &Containment{
		name:   "containment",
		bounds: bounds,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(f sim.Frame) {
	c.samples++
	for _, s := range f.Particles {
		if !c.bounds.Contains(s.Position) {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
