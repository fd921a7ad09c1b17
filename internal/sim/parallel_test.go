package sim

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/san-kum/tcvsim/internal/particle"
	"github.com/san-kum/tcvsim/internal/vec"
)

func TestParallelForCoversRange(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		minChunk int
	}{
		{"empty", 0, 4},
		{"below chunk", 3, 8},
		{"exact chunks", 64, 16},
		{"ragged", 301, 64},
		{"zero chunk", 17, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := make([]int32, tt.n)
			ParallelFor(tt.n, tt.minChunk, func(start, end int) {
				for i := start; i < end; i++ {
					atomic.AddInt32(&hits[i], 1)
				}
			})
			for i, h := range hits {
				if h != 1 {
					t.Errorf("index %d visited %d times", i, h)
				}
			}
		})
	}
}

func gridParticle(i int) *particle.Particle {
	return particle.New(float64(i%20)+1, float64(i/20)+1, 0.5+float64(i%7)).MoveBy(0.01*float64(i%5), 0)
}

func TestWorldParallelStepMatchesSerial(t *testing.T) {
	// above parallelThreshold so Step fans out
	const n = 300

	gravity := vec.New(0, 9.81)
	sources := []Source{{Position: vec.New(-5, -5), Mass: 50}}
	bounds := &particle.Rect{Left: -10, Right: 30, Top: -10, Bottom: 25}

	big := NewWorld()
	big.Gravity = gravity
	big.Sources = sources
	big.SetBounds(bounds)
	singles := make([]*World, n)
	for i := 0; i < n; i++ {
		big.Add(gridParticle(i))

		w := NewWorld()
		w.Gravity = gravity
		w.Sources = sources
		w.SetBounds(bounds)
		w.Add(gridParticle(i))
		singles[i] = w
	}

	clock := NewClock(Config{Dt: 0.01, Duration: 1, Jitter: 0.2, Seed: 3})
	for step := 0; step < 50; step++ {
		dt, correction := clock.Next()
		if errs := big.Step(dt, correction); len(errs) != 0 {
			t.Fatalf("step %d: unexpected errors %v", step, errs)
		}
		for _, w := range singles {
			w.Step(dt, correction)
		}
	}

	for i, p := range big.Particles() {
		want := singles[i].Particles()[0].Position()
		if got := p.Position(); got != want {
			t.Errorf("particle %d: parallel %+v, alone %+v", i, got, want)
		}
	}
}

func TestWorldParallelStepReportsParticle(t *testing.T) {
	w := NewWorld()
	w.Sources = []Source{{Position: vec.New(0, 0), Mass: 1}}
	for i := 0; i < parallelThreshold+10; i++ {
		w.Add(particle.New(float64(i+1), 0, 1))
	}
	w.Particles()[200].PlaceAt(0, 0)

	errs := w.Step(0.01, 1)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
	var se *StepError
	if !errors.As(errs[0], &se) || se.Particle != 200 {
		t.Errorf("expected error for particle 200, got %v", errs[0])
	}
}

func jitterWorld() (*World, error) {
	w := NewWorld()
	w.Gravity = vec.New(0, 10)
	w.Add(particle.New(0, 0, 1))
	return w, nil
}

func TestEnsembleConsecutiveSeeds(t *testing.T) {
	const seedStart = 10
	cfg := Config{Dt: 0.05, Duration: 1, Jitter: 0.3}

	results, err := NewEnsemble(jitterWorld, func() []Metric { return []Metric{&countMetric{}} }, 3, seedStart).
		Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	finals := make([]float64, len(results))
	for i, r := range results {
		w, _ := jitterWorld()
		solo := cfg
		solo.Seed = seedStart + int64(i)
		want, err := New(w).Run(context.Background(), solo)
		if err != nil {
			t.Fatalf("solo run %d failed: %v", i, err)
		}

		got, _ := r.Final()
		exp, _ := want.Final()
		if got.Particles[0].Position != exp.Particles[0].Position || got.Time != exp.Time {
			t.Errorf("run %d does not match seed %d: %+v vs %+v", i, solo.Seed, got.Particles[0], exp.Particles[0])
		}
		if r.Metrics["count"] != float64(cfg.Steps()) {
			t.Errorf("run %d: expected its own metric with %d observations, got %v", i, cfg.Steps(), r.Metrics["count"])
		}
		finals[i] = got.Particles[0].Position.Y
	}

	if finals[0] == finals[1] || finals[1] == finals[2] || finals[0] == finals[2] {
		t.Errorf("jittered seeds should diverge, final y %v", finals)
	}
}

func TestEnsembleBuildError(t *testing.T) {
	errBuild := errors.New("no particles")
	calls := int32(0)
	build := func() (*World, error) {
		if atomic.AddInt32(&calls, 1) == 2 {
			return nil, errBuild
		}
		return jitterWorld()
	}

	results, err := NewEnsemble(build, nil, 4, 1).Run(context.Background(), Config{Dt: 0.1, Duration: 1})
	if !errors.Is(err, errBuild) {
		t.Errorf("expected build error, got %v", err)
	}
	if results != nil {
		t.Errorf("expected no results on error, got %d", len(results))
	}
}
