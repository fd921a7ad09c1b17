package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

type Simulator struct {
	world     *World
	metrics   []Metric
	observers []Observer
	logger    *slog.Logger
}

func New(world *World) *Simulator {
	return &Simulator{
		world:     world,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    slog.Default(),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) World() *World          { return s.world }

func (s *Simulator) WithLogger(l *slog.Logger) *Simulator {
	if l != nil {
		s.logger = l
	}
	return s
}

// Run steps the world cfg.Steps() times. A NaN/Inf position ends the run
// early when cfg.ValidateState is set; the partial result is returned with
// the error recorded in Result.Errors.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	every := cfg.RecordEvery
	if every < 1 {
		every = 1
	}

	steps := cfg.Steps()
	result := &Result{
		Frames:  make([]Frame, 0, steps/every+2),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	clock := NewClock(cfg)
	var last Frame
	result.Frames = append(result.Frames, s.world.Snapshot(0, 0, cfg.Dt, 1))

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		frame, errs, valid := s.advance(clock, cfg)
		result.Errors = append(result.Errors, errs...)
		if !valid {
			break
		}

		result.StepsTaken++
		last = frame
		if clock.Step()%every == 0 {
			result.Frames = append(result.Frames, frame)
		}
	}

	if result.StepsTaken > 0 && last.Step%every != 0 {
		result.Frames = append(result.Frames, last)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.logger.Debug("run complete",
		"particles", s.world.Len(),
		"steps", result.StepsTaken,
		"time", clock.Time(),
		"errors", len(result.Errors),
	)

	return result, nil
}

// Step performs a single tick on clock outside of Run. Per-particle errors
// are joined; a diverged world wraps ErrInvalidState.
func (s *Simulator) Step(clock *Clock) (Frame, error) {
	frame, errs, _ := s.advance(clock, clock.cfg)
	return frame, errors.Join(errs...)
}

// advance performs one tick and notifies metrics and observers.
func (s *Simulator) advance(clock *Clock, cfg Config) (Frame, []error, bool) {
	dt, correction := clock.Next()
	step, t := clock.Step(), clock.Time()

	errs := s.world.Step(dt, correction)
	for _, err := range errs {
		if se, ok := err.(*StepError); ok {
			se.Step, se.Time = step, t
		}
	}

	if cfg.ValidateState {
		if ok, id := s.world.Valid(); !ok {
			errs = append(errs, &StepError{Step: step, Time: t, Particle: id, Wrapped: ErrInvalidState})
			s.logger.Warn("state diverged", "step", step, "particle", id)
			return Frame{}, errs, false
		}
	}

	frame := s.world.Snapshot(step, t, dt, correction)
	for _, m := range s.metrics {
		m.Observe(frame)
	}
	for _, obs := range s.observers {
		obs.OnStep(frame)
	}
	return frame, errs, true
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, cfg.Duration)
	}
	if cfg.Jitter < 0 || cfg.Jitter >= 1 {
		return fmt.Errorf("%w: jitter must be in [0, 1), got %f", ErrInvalidConfig, cfg.Jitter)
	}
	return nil
}

// RunWithCallback takes the same cfg.Steps() ticks as Run, stopping early
// when callback returns false.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(Frame) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	clock := NewClock(cfg)
	for !clock.Done() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		frame, errs, valid := s.advance(clock, cfg)
		if !valid {
			return errs[len(errs)-1]
		}
		if !callback(frame) {
			return nil
		}
	}

	return nil
}
