package sim

import "math/rand"

// Clock produces the step length and TCV correction factor for each tick.
type Clock struct {
	cfg    Config
	rng    *rand.Rand
	prevDt float64
	time   float64
	step   int
}

func NewClock(cfg Config) *Clock {
	return &Clock{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Next advances the clock by one tick.
func (c *Clock) Next() (dt, correction float64) {
	dt = c.cfg.Dt
	if c.cfg.Jitter > 0 {
		dt *= 1 + c.cfg.Jitter*(2*c.rng.Float64()-1)
	}

	switch {
	case c.cfg.Correction != 0:
		correction = c.cfg.Correction
	case c.prevDt > 0:
		correction = dt / c.prevDt
	default:
		correction = 1
	}

	c.prevDt = dt
	c.time += dt
	c.step++
	return dt, correction
}

func (c *Clock) Time() float64 { return c.time }
func (c *Clock) Step() int      { return c.step }

// Done reports whether the clock has taken every tick of its run.
func (c *Clock) Done() bool { return c.step >= c.cfg.Steps() }

// Reset rewinds the clock to step zero and reseeds the jitter source, so a
// reset run draws the same step lengths again.
func (c *Clock) Reset() {
	c.rng = rand.New(rand.NewSource(c.cfg.Seed))
	c.prevDt, c.time, c.step = 0, 0, 0
}
