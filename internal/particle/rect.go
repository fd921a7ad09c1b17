package particle

import (
	"math"

	"github.com/san-kum/tcvsim/internal/vec"
)

// Rect is an axis-aligned bound in screen orientation: Top is the minimum Y.
// Field ordering is not validated.
type Rect struct {
	Left   float64 `json:"left" yaml:"left"`
	Right  float64 `json:"right" yaml:"right"`
	Top    float64 `json:"top" yaml:"top"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
}

// Clamp limits each axis of v to the rect independently.
func (r Rect) Clamp(v vec.Vector2) vec.Vector2 {
	if v.X > r.Right {
		v.X = r.Right
	} else if v.X < r.Left {
		v.X = r.Left
	}
	if v.Y > r.Bottom {
		v.Y = r.Bottom
	} else if v.Y < r.Top {
		v.Y = r.Top
	}
	return v
}

func (r Rect) Contains(v vec.Vector2) bool {
	return v.X >= r.Left && v.X <= r.Right && v.Y >= r.Top && v.Y <= r.Bottom
}

func (r Rect) Width() float64  { return math.Abs(r.Right - r.Left) }
func (r Rect) Height() float64 { return math.Abs(r.Bottom - r.Top) }
