package logic

import "fmt"

// Thresholds are the millivolt boundaries for wiper classification.
// Each boundary is the inclusive lower bound of the next class.
type Thresholds struct {
	IntermittentMv int `yaml:"intermittent_mv"` // wiper control: below is OFF
	LowMv          int `yaml:"low_mv"`          // wiper control: at or above is LOW
	HighMv         int `yaml:"high_mv"`         // wiper control: at or above is HIGH
	MediumMv       int `yaml:"medium_mv"`       // intermittent control: below is SHORT
	LongMv         int `yaml:"long_mv"`         // intermittent control: at or above is LONG
}

// DefaultThresholds match the potentiometer wiring of the reference vehicle.
var DefaultThresholds = Thresholds{
	IntermittentMv: 500,
	LowMv:          1570,
	HighMv:         2650,
	MediumMv:       910,
	LongMv:         1960,
}

// Classify maps the two control voltages to a wiper setting.
// Period is only set when Class is WiperIntermittent.
func (t Thresholds) Classify(wiperMv, intermittentMv int) Wiper {
	switch {
	case wiperMv < t.IntermittentMv:
		return Wiper{Class: WiperOff}
	case wiperMv < t.LowMv:
		return Wiper{Class: WiperIntermittent, Period: t.ClassifyIntermittent(intermittentMv)}
	case wiperMv < t.HighMv:
		return Wiper{Class: WiperLow}
	default:
		return Wiper{Class: WiperHigh}
	}
}

// ClassifyIntermittent maps the intermittent control voltage to a dwell period.
func (t Thresholds) ClassifyIntermittent(mv int) IntermittentPeriod {
	switch {
	case mv < t.MediumMv:
		return PeriodShort
	case mv < t.LongMv:
		return PeriodMedium
	default:
		return PeriodLong
	}
}

// Classify uses DefaultThresholds.
func Classify(wiperMv, intermittentMv int) Wiper {
	return DefaultThresholds.Classify(wiperMv, intermittentMv)
}

// ClassifyIntermittent uses DefaultThresholds.
func ClassifyIntermittent(mv int) IntermittentPeriod {
	return DefaultThresholds.ClassifyIntermittent(mv)
}

// Validate reports whether the boundaries are positive and increasing.
func (t Thresholds) Validate() error {
	if t.IntermittentMv <= 0 || t.IntermittentMv >= t.LowMv || t.LowMv >= t.HighMv {
		return fmt.Errorf("wiper thresholds must satisfy 0 < %d < %d < %d", t.IntermittentMv, t.LowMv, t.HighMv)
	}
	if t.MediumMv <= 0 || t.MediumMv >= t.LongMv {
		return fmt.Errorf("intermittent thresholds must satisfy 0 < %d < %d", t.MediumMv, t.LongMv)
	}
	return nil
}
