package wiper

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sweeney/ignition-interlock/internal/logic"
	"github.com/sweeney/ignition-interlock/internal/pwm"
)

// SleepFunc waits for d and reports whether to continue (false => cancelled).
type SleepFunc func(ctx context.Context, d time.Duration) bool

// Sleep waits on a timer or ctx, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// Actuator sweeps the servo according to the shared State.
// At most one sweep goroutine runs at a time; Start spawns it and Stop
// cancels and joins it.
type Actuator struct {
	cfg   Config
	ch    pwm.Channel
	state *State
	sleep SleepFunc

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	// Written by the sweep goroutine, or by Park while stopped.
	duty    atomic.Uint32
	dutySet atomic.Bool
}

// NewActuator creates a stopped actuator. A nil sleep defaults to Sleep.
func NewActuator(cfg Config, ch pwm.Channel, state *State, sleep SleepFunc) *Actuator {
	if sleep == nil {
		sleep = Sleep
	}
	return &Actuator{cfg: cfg, ch: ch, state: state, sleep: sleep}
}

// Park moves the servo to rest. Call only while stopped.
func (a *Actuator) Park() error {
	return a.set(a.cfg.DutyMin)
}

// Start spawns the sweep goroutine. It returns false if one is already running.
func (a *Actuator) Start(ctx context.Context) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.done != nil {
		return false
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	a.cancel = cancel
	a.done = done

	go func() {
		defer close(done)
		a.Run(ctx)
	}()
	return true
}

// Stop cancels the sweep goroutine and waits for it to return the servo to
// rest and exit. After Stop returns no further duty changes are made. It
// returns false if the actuator was not running.
func (a *Actuator) Stop() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.done == nil {
		return false
	}

	a.cancel()
	<-a.done
	a.cancel = nil
	a.done = nil
	return true
}

// Running reports whether a sweep goroutine is active.
func (a *Actuator) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.done != nil
}

// Duty returns the last duty written and whether any was written.
func (a *Actuator) Duty() (uint32, bool) {
	return a.duty.Load(), a.dutySet.Load()
}

// Run executes outer cycles until ctx is cancelled, then ramps the servo
// back to rest. The wiper setting is read once at the start of each cycle,
// so a change takes effect after the current sweep (and dwell) completes.
func (a *Actuator) Run(ctx context.Context) {
	defer a.home()
	for ctx.Err() == nil {
		w := a.state.Load()

		var ok bool
		switch w.Class {
		case logic.WiperOff:
			ok = a.rest(ctx)
		case logic.WiperLow:
			ok = a.sweep(ctx, a.cfg.LowRamp, a.cfg.LowStep)
		case logic.WiperHigh:
			ok = a.sweep(ctx, a.cfg.HighRamp, a.cfg.HighStep)
		case logic.WiperIntermittent:
			ok = a.sweep(ctx, a.cfg.LowRamp, a.cfg.LowStep) && a.sleep(ctx, a.cfg.Dwell(w.Period))
		default:
			panic(fmt.Sprintf("wiper: unknown class %q", w.Class))
		}

		if !ok || !a.sleep(ctx, a.cfg.CyclePause) {
			return
		}
	}
}

func (a *Actuator) rest(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	a.move(a.cfg.DutyMin)
	return true
}

// sweep ramps from rest to center and back, each direction taking duration.
func (a *Actuator) sweep(ctx context.Context, duration time.Duration, step uint32) bool {
	r := a.cfg.RampFor(duration, step)
	for i := 1; i <= r.Steps; i++ {
		if ctx.Err() != nil {
			return false
		}
		a.move(a.cfg.UpDuty(i, step))
		if !a.sleep(ctx, r.Delay) {
			return false
		}
	}
	for i := 1; i <= r.Steps; i++ {
		if ctx.Err() != nil {
			return false
		}
		a.move(a.cfg.DownDuty(i, step))
		if !a.sleep(ctx, r.Delay) {
			return false
		}
	}
	return true
}

// home ramps down from the current duty to rest at the low-speed rate.
// It ignores cancellation; the duty only decreases.
func (a *Actuator) home() {
	d, ok := a.Duty()
	if !ok {
		return
	}
	r := a.cfg.RampFor(a.cfg.LowRamp, a.cfg.LowStep)
	for d > a.cfg.DutyMin {
		d = uint32(clamp(int64(d)-int64(a.cfg.LowStep), int64(a.cfg.DutyMin), int64(a.cfg.DutyCenter)))
		a.move(d)
		if d > a.cfg.DutyMin {
			a.sleep(context.Background(), r.Delay)
		}
	}
}

// move writes duty unless the servo is already there. Write errors are
// logged; the sweep carries on.
func (a *Actuator) move(duty uint32) {
	if a.dutySet.Load() && a.duty.Load() == duty {
		return
	}
	if err := a.set(duty); err != nil {
		log.Printf("wiper: %v", err)
	}
}

func (a *Actuator) set(duty uint32) error {
	if err := a.ch.SetDuty(duty); err != nil {
		return err
	}
	a.duty.Store(duty)
	a.dutySet.Store(true)
	return nil
}
