package analysis

import (
	"sort"

	"github.com/san-kum/tcvsim/internal/sim"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
}

// Summarize computes descriptive statistics. An empty series yields the
// zero Summary.
func Summarize(data []float64) Summary {
	if len(data) == 0 {
		return Summary{}
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	s := Summary{
		Count:  len(data),
		Mean:   stat.Mean(data, nil),
		Min:    floats.Min(data),
		Max:    floats.Max(data),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
	}
	if len(data) > 1 {
		s.StdDev = stat.StdDev(data, nil)
	}
	return s
}

// Speeds returns the speed of particle id in every frame that contains it.
func Speeds(frames []sim.Frame, id int) []float64 {
	out := make([]float64, 0, len(frames))
	for _, f := range frames {
		if s, ok := sample(f, id); ok {
			out = append(out, s.Speed())
		}
	}
	return out
}

// Displacements returns the distance of particle id from its first
// recorded position.
func Displacements(frames []sim.Frame, id int) []float64 {
	out := make([]float64, 0, len(frames))
	started := false
	var origin sim.Sample
	for _, f := range frames {
		s, ok := sample(f, id)
		if !ok {
			continue
		}
		if !started {
			origin, started = s, true
		}
		out = append(out, s.Position.Sub(origin.Position).Length())
	}
	return out
}

// Corrections returns the TCV correction factor applied at every step,
// skipping the initial frame.
func Corrections(frames []sim.Frame) []float64 {
	out := make([]float64, 0, len(frames))
	for _, f := range frames {
		if f.Step == 0 {
			continue
		}
		out = append(out, f.Correction)
	}
	return out
}

func sample(f sim.Frame, id int) (sim.Sample, bool) {
	if id >= 0 && id < len(f.Particles) && f.Particles[id].ID == id {
		return f.Particles[id], true
	}
	for _, s := range f.Particles {
		if s.ID == id {
			return s, true
		}
	}
	return sim.Sample{}, false
}
