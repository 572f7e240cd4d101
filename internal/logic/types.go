// Package logic contains the pure decision logic for the ignition interlock
// and the wiper mode classifier.
// This package has NO external dependencies (no GPIO, ADC, PWM, MQTT or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// DigitalSnapshot is one sample of the five switches, already in logical form
// (true = seat occupied / belt fastened / button pressed).
type DigitalSnapshot struct {
	DriverSeat     bool
	PassengerSeat  bool
	DriverBelt     bool
	PassengerBelt  bool
	IgnitionButton bool
}

// ConditionsMet reports whether both seats are occupied and both belts fastened.
func (d DigitalSnapshot) ConditionsMet() bool {
	return d.DriverSeat && d.PassengerSeat && d.DriverBelt && d.PassengerBelt
}

// AnalogSnapshot is one sample of the two wiper controls in millivolts.
type AnalogSnapshot struct {
	WiperMv        int
	IntermittentMv int
}

// Input represents a single iteration's samples.
type Input struct {
	Digital DigitalSnapshot
	Analog  AnalogSnapshot
	Time    time.Time
}

// Phase is the interlock's lifecycle state.
type Phase string

const (
	PhaseIdle               Phase = "IDLE"
	PhaseAwaitingConditions Phase = "AWAITING_CONDITIONS"
	PhaseReady              Phase = "READY"
	PhaseRunning            Phase = "RUNNING"
	PhaseRunningReleased    Phase = "RUNNING_RELEASED"
	PhaseAlarmPending       Phase = "ALARM_PENDING"
)

// EngineRunning reports whether the engine is on (wipers are live).
func (p Phase) EngineRunning() bool {
	return p == PhaseRunning || p == PhaseRunningReleased
}

// WiperClass is the selected wiper speed.
type WiperClass string

const (
	WiperOff          WiperClass = "OFF"
	WiperIntermittent WiperClass = "INT"
	WiperLow          WiperClass = "LOW"
	WiperHigh         WiperClass = "HIGH"
)

// IntermittentPeriod is the dwell between intermittent sweeps.
// The zero value means "not intermittent".
type IntermittentPeriod string

const (
	PeriodNone   IntermittentPeriod = ""
	PeriodShort  IntermittentPeriod = "SHORT"
	PeriodMedium IntermittentPeriod = "MEDIUM"
	PeriodLong   IntermittentPeriod = "LONG"
)

// Wiper is a classified wiper setting.
type Wiper struct {
	Class  WiperClass
	Period IntermittentPeriod
}

// Output names a digital indicator.
type Output string

const (
	OutputReady   Output = "READY"
	OutputSuccess Output = "SUCCESS"
	OutputAlarm   Output = "ALARM"
)

// Indicators is the last commanded state of each output.
type Indicators struct {
	Ready   bool
	Success bool
	Alarm   bool
}

// Set records the state of one output. Unknown outputs panic.
func (i *Indicators) Set(out Output, on bool) {
	switch out {
	case OutputReady:
		i.Ready = on
	case OutputSuccess:
		i.Success = on
	case OutputAlarm:
		i.Alarm = on
	default:
		panic("logic: unknown output " + string(out))
	}
}

// Condition is one of the four ignition preconditions.
type Condition string

const (
	CondPassengerSeat Condition = "PASSENGER_SEAT"
	CondDriverSeat    Condition = "DRIVER_SEAT"
	CondPassengerBelt Condition = "PASSENGER_BELT"
	CondDriverBelt    Condition = "DRIVER_BELT"
)

// EffectKind identifies a side effect the controller must carry out.
type EffectKind string

const (
	EffectPrint        EffectKind = "PRINT"
	EffectIndicator    EffectKind = "INDICATOR"
	EffectDisplayWrite EffectKind = "DISPLAY_WRITE"
	EffectDisplayClear EffectKind = "DISPLAY_CLEAR"
	EffectSetWiper     EffectKind = "SET_WIPER"
	EffectStartSweep   EffectKind = "START_SWEEP"
	EffectStopSweep    EffectKind = "STOP_SWEEP"
)

// Effect is a single side effect. Only the fields relevant to Kind are set.
type Effect struct {
	Kind EffectKind

	Text string // PRINT, DISPLAY_WRITE

	Output Output // INDICATOR
	On     bool   // INDICATOR

	Col, Row int // DISPLAY_WRITE

	Wiper Wiper // SET_WIPER
}

// EventType represents a reportable interlock transition.
type EventType string

const (
	EventWelcome           EventType = "WELCOME"
	EventReady             EventType = "READY"
	EventNotReady          EventType = "NOT_READY"
	EventEngineStarted     EventType = "ENGINE_STARTED"
	EventIgnitionInhibited EventType = "IGNITION_INHIBITED"
	EventAlarmReleased     EventType = "ALARM_RELEASED"
	EventIgnitionReleased  EventType = "IGNITION_RELEASED"
	EventEngineStopped     EventType = "ENGINE_STOPPED"
	EventWiperChanged      EventType = "WIPER_CHANGED"
)

// Event represents a transition to be logged and published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Phase     Phase
	Wiper     Wiper
	Unmet     []Condition // IGNITION_INHIBITED only
}

// Step is the result of processing one Input.
type Step struct {
	Effects []Effect
	Events  []Event
}

// EventCounts tracks the number of notable events since startup.
type EventCounts struct {
	Starts   int
	Inhibits int
	Stops    int
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Phase     Phase
	Counts    EventCounts
}
