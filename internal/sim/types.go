package sim

import (
	"math"

	"github.com/san-kum/tcvsim/internal/vec"
)

// Sample is one particle's state at the end of a step. Velocity is the
// implicit displacement divided by the step length.
type Sample struct {
	ID       int         `json:"id"`
	Mass     float64     `json:"mass"`
	Position vec.Vector2 `json:"position"`
	Velocity vec.Vector2 `json:"velocity"`
}

func (s Sample) Speed() float64 { return s.Velocity.Length() }

type Frame struct {
	Step       int      `json:"step"`
	Time       float64  `json:"time"`
	Dt         float64  `json:"dt"`
	Correction float64  `json:"correction"`
	Particles  []Sample `json:"particles"`
}

type Observer interface {
	OnStep(f Frame)
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Config struct {
	Dt       float64
	Duration float64
	// Correction is the fixed TCV correction factor. Zero means derive it
	// from the step ratio dt/prevDt.
	Correction float64
	// Jitter perturbs every step to dt*(1±Jitter), drawn from Seed.
	Jitter        float64
	Seed          int64
	RecordEvery   int
	ValidateState bool
}

// Steps is the number of ticks a run takes: Duration/Dt, with a small
// tolerance so 0.3/0.1 counts as 3. Jitter never changes the count.
func (c Config) Steps() int {
	if c.Dt <= 0 || c.Duration <= 0 {
		return 0
	}
	return int(math.Floor(c.Duration/c.Dt + 1e-9))
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Duration:      10.0,
		RecordEvery:   1,
		ValidateState: true,
	}
}

type Result struct {
	Frames     []Frame
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

// Final returns the last recorded frame.
func (r *Result) Final() (Frame, bool) {
	if r == nil || len(r.Frames) == 0 {
		return Frame{}, false
	}
	return r.Frames[len(r.Frames)-1], true
}
