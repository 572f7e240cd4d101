// Package adc reads the two wiper control potentiometers as calibrated millivolts.
// The real implementation uses an ADS1115 converter on I2C through periph.io.
package adc

import (
	"fmt"

	"github.com/sweeney/ignition-interlock/internal/logic"
	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/physic"
)

// Reader reads both analog controls.
type Reader interface {
	// Read returns the wiper and intermittent control voltages in millivolts.
	// No range validation is done; out-of-range values are passed through.
	Read() (logic.AnalogSnapshot, error)

	// Close releases ADC resources.
	Close() error
}

// Channel is a single analog input.
type Channel interface {
	Read() (analog.Sample, error)
}

// Calibration converts a raw sample to millivolts.
type Calibration func(analog.Sample) int

// Millivolts trusts the converter's own voltage reading.
func Millivolts(s analog.Sample) int {
	return int(s.V / physic.MilliVolt)
}

// Linear maps raw codes 0..2^bits-1 onto 0..fullScaleMv.
func Linear(fullScaleMv, bits int) Calibration {
	top := int64(1)<<bits - 1
	return func(s analog.Sample) int {
		return int(int64(s.Raw) * int64(fullScaleMv) / top)
	}
}

// ChannelReader combines two channels and a calibration into a Reader.
type ChannelReader struct {
	wiper        Channel
	intermittent Channel
	calibrate    Calibration
	closer       func() error
}

// NewChannelReader creates a Reader from two channels.
// A nil calibration defaults to Millivolts.
func NewChannelReader(wiper, intermittent Channel, cal Calibration) *ChannelReader {
	if cal == nil {
		cal = Millivolts
	}
	return &ChannelReader{wiper: wiper, intermittent: intermittent, calibrate: cal}
}

// Read samples the wiper control, then the intermittent control.
func (r *ChannelReader) Read() (logic.AnalogSnapshot, error) {
	w, err := r.wiper.Read()
	if err != nil {
		return logic.AnalogSnapshot{}, fmt.Errorf("read wiper control: %w", err)
	}
	i, err := r.intermittent.Read()
	if err != nil {
		return logic.AnalogSnapshot{}, fmt.Errorf("read intermittent control: %w", err)
	}
	return logic.AnalogSnapshot{
		WiperMv:        r.calibrate(w),
		IntermittentMv: r.calibrate(i),
	}, nil
}

// Close releases the underlying device, if any.
func (r *ChannelReader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer()
}
