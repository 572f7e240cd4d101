// Package wiper runs the servo sweep actuator.
//
// The main loop publishes the classified wiper setting into a State; an
// Actuator goroutine reads it at the start of every outer cycle and drives
// the PWM duty through monotonic ramps between DutyMin (rest) and
// DutyCenter (full sweep).
package wiper

import (
	"errors"
	"fmt"
	"time"

	"github.com/sweeney/ignition-interlock/internal/logic"
	"golang.org/x/exp/constraints"
)

// Config holds the sweep profile.
type Config struct {
	DutyMin    uint32 `yaml:"duty_min"`
	DutyCenter uint32 `yaml:"duty_center"`

	LowRamp  time.Duration `yaml:"low_ramp"`
	LowStep  uint32        `yaml:"low_step"`
	HighRamp time.Duration `yaml:"high_ramp"`
	HighStep uint32        `yaml:"high_step"`

	ShortDwell  time.Duration `yaml:"short_dwell"`
	MediumDwell time.Duration `yaml:"medium_dwell"`
	LongDwell   time.Duration `yaml:"long_dwell"`

	// CyclePause separates outer cycles so the task never busy-spins.
	CyclePause time.Duration `yaml:"cycle_pause"`
}

// DefaultConfig is tuned for a standard hobby servo at 50 Hz, 13-bit duty:
// 210 = 0.5 ms pulse (rest), 614 = 1.5 ms pulse (center).
var DefaultConfig = Config{
	DutyMin:     210,
	DutyCenter:  614,
	LowRamp:     1500 * time.Millisecond,
	LowStep:     5,
	HighRamp:    600 * time.Millisecond,
	HighStep:    10,
	ShortDwell:  1 * time.Second,
	MediumDwell: 3 * time.Second,
	LongDwell:   5 * time.Second,
	CyclePause:  10 * time.Millisecond,
}

// Validate reports configuration errors.
func (c Config) Validate() error {
	var errs []error
	if c.DutyCenter <= c.DutyMin {
		errs = append(errs, fmt.Errorf("duty_center (%d) must exceed duty_min (%d)", c.DutyCenter, c.DutyMin))
	}
	if c.LowStep == 0 || c.HighStep == 0 {
		errs = append(errs, errors.New("duty steps must be positive"))
	}
	if c.LowRamp <= 0 || c.HighRamp <= 0 {
		errs = append(errs, errors.New("ramp durations must be positive"))
	}
	if c.ShortDwell < 0 || c.MediumDwell < 0 || c.LongDwell < 0 {
		errs = append(errs, errors.New("dwell durations must not be negative"))
	}
	if c.CyclePause <= 0 {
		errs = append(errs, errors.New("cycle_pause must be positive"))
	}
	return errors.Join(errs...)
}

// Ramp is one direction of a sweep.
type Ramp struct {
	Steps int
	Delay time.Duration
}

// RampFor splits a one-way ramp into steps of at most step duty units, with
// Delay chosen so Steps*Delay matches duration regardless of the duty range.
func (c Config) RampFor(duration time.Duration, step uint32) Ramp {
	span := c.DutyCenter - c.DutyMin
	steps := int((span + step - 1) / step)
	if steps == 0 {
		steps = 1
	}
	return Ramp{Steps: steps, Delay: duration / time.Duration(steps)}
}

// UpDuty is the duty after step i (1-based) of the rising ramp.
func (c Config) UpDuty(i int, step uint32) uint32 {
	return uint32(clamp(int64(c.DutyMin)+int64(i)*int64(step), int64(c.DutyMin), int64(c.DutyCenter)))
}

// DownDuty is the duty after step i (1-based) of the falling ramp.
func (c Config) DownDuty(i int, step uint32) uint32 {
	return uint32(clamp(int64(c.DutyCenter)-int64(i)*int64(step), int64(c.DutyMin), int64(c.DutyCenter)))
}

// Dwell returns the pause after an intermittent sweep.
func (c Config) Dwell(p logic.IntermittentPeriod) time.Duration {
	switch p {
	case logic.PeriodShort:
		return c.ShortDwell
	case logic.PeriodMedium:
		return c.MediumDwell
	case logic.PeriodLong:
		return c.LongDwell
	}
	panic(fmt.Sprintf("wiper: unknown intermittent period %q", p))
}

func clamp[T constraints.Integer](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
