package world

import "time"

// MaxTickSeconds bounds a single regeneration step.
const MaxTickSeconds = 3600

type ClockConfig struct {
	MaxStep time.Duration
}

// Clock converts wall time between ticks into a simulation step.
type Clock struct {
	cfg ClockConfig
}

func NewClock(cfg ClockConfig) Clock {
	if cfg.MaxStep <= 0 {
		cfg.MaxStep = MaxTickSeconds * time.Second
	}
	return Clock{cfg: cfg}
}

func DefaultClock() Clock {
	return NewClock(ClockConfig{})
}

// MaxStepSeconds is the longest step the clock hands out, in seconds.
func (c Clock) MaxStepSeconds() float64 {
	return c.cfg.MaxStep.Seconds()
}

// StepSeconds returns the seconds elapsed from last to now, capped at the
// configured max step. A zero last or a clock running backwards yields 0.
func (c Clock) StepSeconds(last, now time.Time) float64 {
	if last.IsZero() {
		return 0
	}
	elapsed := now.Sub(last)
	if elapsed <= 0 {
		return 0
	}
	if elapsed > c.cfg.MaxStep {
		elapsed = c.cfg.MaxStep
	}
	return elapsed.Seconds()
}
