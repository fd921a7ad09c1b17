// Package vec provides the 2D vector value type used by particles.
package vec

import "math"

// Vector2 is a 2D point or displacement. All operations return new values.
type Vector2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

var Zero = Vector2{}

func New(x, y float64) Vector2 {
	return Vector2{X: x, Y: y}
}

func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{X: v.X + o.X, Y: v.Y + o.Y}
}

// AddXY adds raw components without constructing an operand.
func (v Vector2) AddXY(dx, dy float64) Vector2 {
	return Vector2{X: v.X + dx, Y: v.Y + dy}
}

func (v Vector2) Sub(o Vector2) Vector2 {
	return Vector2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vector2) Scale(factor float64) Vector2 {
	return Vector2{X: v.X * factor, Y: v.Y * factor}
}

// ScaleXY scales each axis independently.
func (v Vector2) ScaleXY(fx, fy float64) Vector2 {
	return Vector2{X: v.X * fx, Y: v.Y * fy}
}

// Clone returns an independent copy. Vector2 is a value type, so this is
// an explicit spelling of assignment for call sites that snapshot state.
func (v Vector2) Clone() Vector2 {
	return v
}

func (v Vector2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

func (v Vector2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// IsValid reports whether both components are finite.
func (v Vector2) IsValid() bool {
	for _, c := range [2]float64{v.X, v.Y} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
