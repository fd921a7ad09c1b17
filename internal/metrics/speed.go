package metrics

import (
	"math"

	"github.com/san-kum/tcvsim/internal/sim"
	"gonum.org/v1/gonum/stat"
)

type MaxSpeed struct {
	name string
	max  float64
}

func NewMaxSpeed() *MaxSpeed {
	return &MaxSpeed{name: "max_speed"}
}

func (m *MaxSpeed) Name() string { return m.name }

func (m *MaxSpeed) Observe(f sim.Frame) {
	for _, s := range f.Particles {
		m.max = math.Max(m.max, s.Speed())
	}
}

func (m *MaxSpeed) Value() float64 { return m.max }
func (m *MaxSpeed) Reset()         { m.max = 0 }

// SpeedSpread is the standard deviation of every observed particle speed.
type SpeedSpread struct {
	name   string
	speeds []float64
}

func NewSpeedSpread() *SpeedSpread {
	return &SpeedSpread{name: "speed_stddev"}
}

func (s *SpeedSpread) Name() string { return s.name }

func (s *SpeedSpread) Observe(f sim.Frame) {
	for _, p := range f.Particles {
		s.speeds = append(s.speeds, p.Speed())
	}
}

func (s *SpeedSpread) Value() float64 {
	if len(s.speeds) < 2 {
		return 0
	}
	return stat.StdDev(s.speeds, nil)
}

func (s *SpeedSpread) Reset() { s.speeds = s.speeds[:0] }
