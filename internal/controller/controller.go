// Package controller runs one sampling iteration: it samples the inputs,
// feeds the interlock machine and carries out the resulting effects on the
// indicators, display, console and wiper actuator.
package controller

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/sweeney/ignition-interlock/internal/display"
	"github.com/sweeney/ignition-interlock/internal/gpio"
	"github.com/sweeney/ignition-interlock/internal/logic"
	"github.com/sweeney/ignition-interlock/internal/wiper"
)

// Sampler reads every input once.
type Sampler interface {
	Sample() (logic.DigitalSnapshot, logic.AnalogSnapshot, error)
}

// Sweeper is the wiper actuator lifecycle.
type Sweeper interface {
	Start(ctx context.Context) bool
	Stop() bool
}

// Controller wires the machine to its collaborators.
type Controller struct {
	sampler  Sampler
	machine  *logic.Machine
	outputs  gpio.Writer
	display  display.Display
	console  io.Writer
	state    *wiper.State
	actuator Sweeper

	indicators logic.Indicators
}

// Config lists the collaborators.
type Config struct {
	Sampler  Sampler
	Machine  *logic.Machine
	Outputs  gpio.Writer
	Display  display.Display
	Console  io.Writer
	State    *wiper.State
	Actuator Sweeper
}

// New creates a Controller.
func New(cfg Config) *Controller {
	return &Controller{
		sampler:  cfg.Sampler,
		machine:  cfg.Machine,
		outputs:  cfg.Outputs,
		display:  cfg.Display,
		console:  cfg.Console,
		state:    cfg.State,
		actuator: cfg.Actuator,
	}
}

// Step samples the inputs and applies one machine transition. A sampling
// error skips the iteration; effect errors are logged and do not stop it.
// ctx bounds the lifetime of any actuator started by this step.
func (c *Controller) Step(ctx context.Context, now time.Time) ([]logic.Event, error) {
	d, a, err := c.sampler.Sample()
	if err != nil {
		return nil, err
	}

	step := c.machine.Process(logic.Input{Digital: d, Analog: a, Time: now})
	for _, e := range step.Effects {
		c.apply(ctx, e)
	}
	return step.Events, nil
}

func (c *Controller) apply(ctx context.Context, e logic.Effect) {
	switch e.Kind {
	case logic.EffectPrint:
		fmt.Fprintln(c.console, e.Text)
	case logic.EffectIndicator:
		c.indicators.Set(e.Output, e.On)
		if err := c.outputs.Set(e.Output, e.On); err != nil {
			log.Printf("gpio: %v", err)
		}
	case logic.EffectDisplayWrite:
		if err := c.display.WriteAt(e.Col, e.Row, e.Text); err != nil {
			log.Printf("display: %v", err)
		}
	case logic.EffectDisplayClear:
		if err := c.display.Clear(); err != nil {
			log.Printf("display: %v", err)
		}
	case logic.EffectSetWiper:
		c.state.Store(e.Wiper)
	case logic.EffectStartSweep:
		if !c.actuator.Start(ctx) {
			log.Printf("wiper: actuator already running")
		}
	case logic.EffectStopSweep:
		c.actuator.Stop()
	default:
		panic(fmt.Sprintf("controller: unknown effect %q", e.Kind))
	}
}

// Machine returns the interlock machine for status and heartbeat queries.
func (c *Controller) Machine() *logic.Machine {
	return c.machine
}

// Indicators returns the last commanded indicator states.
func (c *Controller) Indicators() logic.Indicators {
	return c.indicators
}

// Close stops the actuator if it is running.
func (c *Controller) Close() {
	c.actuator.Stop()
}
