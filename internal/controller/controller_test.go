package controller

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sweeney/ignition-interlock/internal/adc"
	"github.com/sweeney/ignition-interlock/internal/display"
	"github.com/sweeney/ignition-interlock/internal/gpio"
	"github.com/sweeney/ignition-interlock/internal/logic"
	"github.com/sweeney/ignition-interlock/internal/sensor"
	"github.com/sweeney/ignition-interlock/internal/wiper"
)

type fakeSweeper struct {
	starts, stops int
	running       bool
}

func (f *fakeSweeper) Start(context.Context) bool {
	if f.running {
		return false
	}
	f.running = true
	f.starts++
	return true
}

func (f *fakeSweeper) Stop() bool {
	if !f.running {
		return false
	}
	f.running = false
	f.stops++
	return true
}

type harness struct {
	ctrl    *Controller
	digital *gpio.FakeReader
	analog  *adc.FakeReader
	outputs *gpio.FakeWriter
	lcd     *display.Buffer
	console *bytes.Buffer
	state   *wiper.State
	sweeper *fakeSweeper
}

func newHarness(digital []logic.DigitalSnapshot, analog []logic.AnalogSnapshot) *harness {
	h := &harness{
		digital: gpio.NewFakeReader(digital),
		analog:  adc.NewFakeReader(analog),
		outputs: gpio.NewFakeWriter(),
		lcd:     display.NewBuffer(display.Cols, display.Rows),
		console: &bytes.Buffer{},
		state:   &wiper.State{},
		sweeper: &fakeSweeper{},
	}
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	h.ctrl = New(Config{
		Sampler:  sensor.NewSampler(h.digital, h.analog),
		Machine:  logic.NewMachine(logic.DefaultThresholds, start),
		Outputs:  h.outputs,
		Display:  h.lcd,
		Console:  h.console,
		State:    h.state,
		Actuator: h.sweeper,
	})
	return h
}

func (h *harness) run(t *testing.T, n int) []logic.Event {
	t.Helper()
	var events []logic.Event
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		ev, err := h.ctrl.Step(context.Background(), now.Add(time.Duration(i)*10*time.Millisecond))
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		events = append(events, ev...)
	}
	return events
}

func all(ignition bool) logic.DigitalSnapshot {
	return logic.DigitalSnapshot{DriverSeat: true, PassengerSeat: true, DriverBelt: true, PassengerBelt: true, IgnitionButton: ignition}
}

func TestControllerStartAndStop(t *testing.T) {
	h := newHarness([]logic.DigitalSnapshot{
		{DriverSeat: true},
		all(false),
		all(true),
	}, []logic.AnalogSnapshot{{WiperMv: 2000}})

	h.run(t, 2)
	if !h.outputs.On(logic.OutputReady) {
		t.Error("ready indicator should be on")
	}

	h.run(t, 1)
	if !h.outputs.On(logic.OutputSuccess) {
		t.Error("success indicator should be on")
	}
	if h.outputs.On(logic.OutputReady) {
		t.Error("ready indicator should be off after start")
	}
	if h.sweeper.starts != 1 {
		t.Errorf("expected 1 actuator start, got %d", h.sweeper.starts)
	}
	if got := h.ctrl.Indicators(); got != (logic.Indicators{Success: true}) {
		t.Errorf("indicators: got %+v", got)
	}
	if got := h.state.Load(); got != (logic.Wiper{Class: logic.WiperLow}) {
		t.Errorf("wiper state: got %+v, want LOW", got)
	}
	lines := h.lcd.Lines()
	if lines[0] != "Wipers: LOW     " {
		t.Errorf("display line 0: got %q", lines[0])
	}

	wantConsole := "Welcome to enhanced alarm system model 218-W25\nEngine started!\n"
	if got := h.console.String(); got != wantConsole {
		t.Errorf("console:\n got %q\nwant %q", got, wantConsole)
	}

	// Release, then press again to shut down.
	h.digital.Samples = []logic.DigitalSnapshot{all(false), all(true)}
	h.digital.Reset()
	h.run(t, 2)

	if h.outputs.On(logic.OutputSuccess) {
		t.Error("success indicator should be off after shutdown")
	}
	if h.sweeper.stops != 1 || h.sweeper.running {
		t.Errorf("expected actuator stopped once, got stops=%d running=%v", h.sweeper.stops, h.sweeper.running)
	}
	for i, l := range h.lcd.Lines() {
		if l != "                " {
			t.Errorf("display line %d not cleared: %q", i, l)
		}
	}
	if h.ctrl.Machine().Phase() != logic.PhaseIdle {
		t.Errorf("expected IDLE, got %s", h.ctrl.Machine().Phase())
	}
}

func TestControllerInhibit(t *testing.T) {
	h := newHarness([]logic.DigitalSnapshot{
		{DriverSeat: true, DriverBelt: true, IgnitionButton: true},
		{DriverSeat: true, DriverBelt: true, IgnitionButton: true},
		{DriverSeat: true, DriverBelt: true},
	}, []logic.AnalogSnapshot{{}})

	events := h.run(t, 3)

	want := "Welcome to enhanced alarm system model 218-W25\n" +
		"Ignition inhibited.\n" +
		"Passenger seat not occupied.\n" +
		"Passenger seatbelt not fastened.\n"
	if got := h.console.String(); got != want {
		t.Errorf("console:\n got %q\nwant %q", got, want)
	}
	if !h.outputs.On(logic.OutputAlarm) {
		t.Error("alarm should stay latched after release")
	}
	if h.sweeper.starts != 0 {
		t.Error("actuator must not start")
	}

	var types []logic.EventType
	for _, e := range events {
		types = append(types, e.Type)
	}
	if len(types) != 3 || types[1] != logic.EventIgnitionInhibited || types[2] != logic.EventAlarmReleased {
		t.Errorf("events: got %v", types)
	}
}

func TestControllerSampleError(t *testing.T) {
	h := newHarness([]logic.DigitalSnapshot{{DriverSeat: true}}, []logic.AnalogSnapshot{{}})
	h.digital.ReadError = errors.New("gpio fault")

	if _, err := h.ctrl.Step(context.Background(), time.Now()); err == nil {
		t.Fatal("expected error")
	}
	if h.console.Len() != 0 {
		t.Errorf("no effects expected on sample error, got %q", h.console.String())
	}
	if h.ctrl.Machine().Phase() != logic.PhaseIdle {
		t.Errorf("machine must not advance, got %s", h.ctrl.Machine().Phase())
	}
}

func TestControllerOutputErrorsDoNotStopLoop(t *testing.T) {
	h := newHarness([]logic.DigitalSnapshot{{DriverSeat: true}, all(false), all(true)}, []logic.AnalogSnapshot{{WiperMv: 3000}})
	h.outputs.SetError = errors.New("line busy")

	h.run(t, 3)
	if h.ctrl.Machine().Phase() != logic.PhaseRunning {
		t.Errorf("expected RUNNING despite output errors, got %s", h.ctrl.Machine().Phase())
	}
	if h.sweeper.starts != 1 {
		t.Errorf("expected actuator start, got %d", h.sweeper.starts)
	}
}

func TestControllerClose(t *testing.T) {
	h := newHarness([]logic.DigitalSnapshot{{DriverSeat: true}, all(true)}, []logic.AnalogSnapshot{{}})
	h.run(t, 2)
	if !h.sweeper.running {
		t.Fatal("setup: actuator should be running")
	}
	h.ctrl.Close()
	if h.sweeper.running {
		t.Error("Close should stop the actuator")
	}
}
