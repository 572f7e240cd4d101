package adc

import (
	"errors"

	"github.com/sweeney/ignition-interlock/internal/logic"
	"periph.io/x/conn/v3/analog"
)

// FakeReader is a test double that returns scripted analog snapshots.
type FakeReader struct {
	// Samples contains scripted snapshots to return.
	// Each call to Read() consumes the next sample.
	Samples []logic.AnalogSnapshot

	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples []logic.AnalogSnapshot) *FakeReader {
	return &FakeReader{Samples: samples}
}

// Read returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeReader) Read() (logic.AnalogSnapshot, error) {
	if f.ReadError != nil {
		return logic.AnalogSnapshot{}, f.ReadError
	}
	if len(f.Samples) == 0 {
		return logic.AnalogSnapshot{}, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	return sample, nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}

// FakeChannel returns a fixed sample.
type FakeChannel struct {
	Sample analog.Sample
	Err    error
}

// Read returns the configured sample or error.
func (c *FakeChannel) Read() (analog.Sample, error) {
	return c.Sample, c.Err
}
