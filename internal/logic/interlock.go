package logic

import (
	"fmt"
	"time"
)

// Machine is the ignition interlock state machine.
// It owns the phase and the classified wiper setting; callers carry out the
// returned effects.
type Machine struct {
	thresholds    Thresholds
	phase         Phase
	wiper         Wiper
	wiperShown    bool // display reflects wiper
	awaitRelease  bool // ignition must be released before a new cycle
	startTime     time.Time
	eventCounts   EventCounts
	lastHeartbeat time.Time
}

// NewMachine creates an interlock in PhaseIdle.
// The startTime is used for calculating uptime in heartbeat events.
func NewMachine(thresholds Thresholds, startTime time.Time) *Machine {
	return &Machine{
		thresholds:    thresholds,
		phase:         PhaseIdle,
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
}

// stepBuilder accumulates the effects and events of one Process call.
type stepBuilder struct {
	now        time.Time
	step       Step
	startSweep bool
}

func (b *stepBuilder) effect(e Effect) {
	b.step.Effects = append(b.step.Effects, e)
}

func (b *stepBuilder) print(text string) {
	b.effect(Effect{Kind: EffectPrint, Text: text})
}

func (b *stepBuilder) indicator(o Output, on bool) {
	b.effect(Effect{Kind: EffectIndicator, Output: o, On: on})
}

func (b *stepBuilder) write(col, row int, text string) {
	b.effect(Effect{Kind: EffectDisplayWrite, Col: col, Row: row, Text: text})
}

// Process evaluates one sample and returns the side effects to execute, in order.
// One-shot effects fire on phase entry only, so holding an input steady
// produces no further effects.
func (m *Machine) Process(in Input) Step {
	b := &stepBuilder{now: in.Time}
	d := in.Digital

	switch m.phase {
	case PhaseIdle:
		m.idle(b, d)
	case PhaseAwaitingConditions, PhaseReady:
		m.awaiting(b, d)
	case PhaseAlarmPending:
		// The alarm output stays latched; only an engine start clears it.
		if !d.IgnitionButton {
			m.phase = PhaseAwaitingConditions
			m.emit(b, EventAlarmReleased, nil)
		}
	case PhaseRunning:
		if !d.IgnitionButton {
			m.phase = PhaseRunningReleased
			m.emit(b, EventIgnitionReleased, nil)
		}
	case PhaseRunningReleased:
		if d.IgnitionButton {
			m.shutdown(b)
		}
	default:
		panic(fmt.Sprintf("logic: unknown phase %q", m.phase))
	}

	if m.phase.EngineRunning() {
		m.classify(b, in.Analog)
	}
	// The wiper setting is published before the actuator starts so its
	// first cycle already sees the selected class.
	if b.startSweep {
		b.effect(Effect{Kind: EffectStartSweep})
	}

	return b.step
}

func (m *Machine) idle(b *stepBuilder, d DigitalSnapshot) {
	if m.awaitRelease {
		if d.IgnitionButton {
			return
		}
		m.awaitRelease = false
	}

	if d.DriverSeat {
		b.print(MsgWelcome)
		m.phase = PhaseAwaitingConditions
		m.emit(b, EventWelcome, nil)
		m.awaiting(b, d)
		return
	}

	if d.IgnitionButton {
		m.inhibit(b, d)
	}
}

func (m *Machine) awaiting(b *stepBuilder, d DigitalSnapshot) {
	if d.ConditionsMet() {
		if m.phase == PhaseAwaitingConditions {
			b.indicator(OutputReady, true)
			m.phase = PhaseReady
			m.emit(b, EventReady, nil)
		}
		if d.IgnitionButton {
			m.start(b)
		}
		return
	}

	if m.phase == PhaseReady {
		b.indicator(OutputReady, false)
		m.phase = PhaseAwaitingConditions
		m.emit(b, EventNotReady, nil)
	}
	if d.IgnitionButton {
		m.inhibit(b, d)
	}
}

func (m *Machine) start(b *stepBuilder) {
	b.indicator(OutputSuccess, true)
	b.indicator(OutputReady, false)
	b.indicator(OutputAlarm, false)
	b.print(MsgEngineStarted)
	b.write(0, DisplaySpeedRow, DisplayHeader)
	b.startSweep = true

	m.phase = PhaseRunning
	m.wiperShown = false
	m.eventCounts.Starts++
	m.emit(b, EventEngineStarted, nil)
}

func (m *Machine) inhibit(b *stepBuilder, d DigitalSnapshot) {
	unmet := unmetConditions(d)

	b.indicator(OutputAlarm, true)
	b.print(MsgIgnitionInhibited)
	for _, c := range unmet {
		b.print(c.Message())
	}

	m.phase = PhaseAlarmPending
	m.eventCounts.Inhibits++
	m.emit(b, EventIgnitionInhibited, unmet)
}

func (m *Machine) shutdown(b *stepBuilder) {
	b.indicator(OutputSuccess, false)
	b.effect(Effect{Kind: EffectDisplayClear})
	b.effect(Effect{Kind: EffectStopSweep})

	m.phase = PhaseIdle
	m.wiper = Wiper{}
	m.wiperShown = false
	m.awaitRelease = true
	m.eventCounts.Stops++
	m.emit(b, EventEngineStopped, nil)
}

// classify updates the wiper setting and the display when it changes.
func (m *Machine) classify(b *stepBuilder, a AnalogSnapshot) {
	w := m.thresholds.Classify(a.WiperMv, a.IntermittentMv)
	if m.wiperShown && w == m.wiper {
		return
	}

	prev, shown := m.wiper, m.wiperShown
	m.wiper = w
	m.wiperShown = true

	if !shown || prev.Class != w.Class {
		b.write(DisplayLabelCol, DisplaySpeedRow, speedLabel(w.Class))
	}
	if !shown || periodLabel(prev) != periodLabel(w) {
		b.write(0, DisplayPeriodRow, periodLabel(w))
	}
	b.effect(Effect{Kind: EffectSetWiper, Wiper: w})
	m.emit(b, EventWiperChanged, nil)
}

func (m *Machine) emit(b *stepBuilder, t EventType, unmet []Condition) {
	b.step.Events = append(b.step.Events, Event{
		Timestamp: b.now,
		Type:      t,
		Phase:     m.phase,
		Wiper:     m.wiper,
		Unmet:     unmet,
	})
}

// Phase returns the current interlock phase.
func (m *Machine) Phase() Phase {
	return m.phase
}

// Wiper returns the current wiper setting. Zero unless the engine is running.
func (m *Machine) Wiper() Wiper {
	return m.wiper
}

// EventCountsSnapshot returns a copy of the event counters.
func (m *Machine) EventCountsSnapshot() EventCounts {
	return m.eventCounts
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since the
// last heartbeat (or startup). Returns nil if the interval has not elapsed,
// or if interval is <= 0 (disabled).
func (m *Machine) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}

	if now.Sub(m.lastHeartbeat) < interval {
		return nil
	}

	m.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(m.startTime),
		Phase:     m.phase,
		Counts:    m.eventCounts,
	}
}
