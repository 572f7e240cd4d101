package gpio

import (
	"errors"
	"sync"

	"github.com/sweeney/ignition-interlock/internal/logic"
)

// FakeReader is a test double that returns scripted switch snapshots.
type FakeReader struct {
	// Samples contains scripted snapshots to return.
	// Each call to Read() consumes the next sample.
	Samples []logic.DigitalSnapshot

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples []logic.DigitalSnapshot) *FakeReader {
	return &FakeReader{Samples: samples}
}

// Read returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeReader) Read() (logic.DigitalSnapshot, error) {
	if f.ReadError != nil {
		return logic.DigitalSnapshot{}, f.ReadError
	}

	if len(f.Samples) == 0 {
		return logic.DigitalSnapshot{}, errors.New("no samples configured")
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

// Reset resets the reader to the beginning of samples.
func (f *FakeReader) Reset() {
	f.index = 0
	f.Closed = false
}

// OutputSet records one Set call.
type OutputSet struct {
	Output logic.Output
	On     bool
}

// FakeWriter records indicator writes. Safe for concurrent use.
type FakeWriter struct {
	mu     sync.Mutex
	sets   []OutputSet
	state  map[logic.Output]bool
	closed bool

	// SetError, if set, will be returned by Set.
	SetError error
}

// NewFakeWriter creates a FakeWriter with every output off.
func NewFakeWriter() *FakeWriter {
	return &FakeWriter{state: make(map[logic.Output]bool)}
}

// Set records the write and updates the output state.
func (f *FakeWriter) Set(out logic.Output, on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SetError != nil {
		return f.SetError
	}
	f.sets = append(f.sets, OutputSet{Output: out, On: on})
	f.state[out] = on
	return nil
}

// Close turns every output off.
func (f *FakeWriter) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for out := range f.state {
		f.state[out] = false
	}
	f.closed = true
	return nil
}

// On reports the current state of an output.
func (f *FakeWriter) On(out logic.Output) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state[out]
}

// Sets returns a copy of every recorded write.
func (f *FakeWriter) Sets() []OutputSet {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]OutputSet(nil), f.sets...)
}

// Closed reports whether Close was called.
func (f *FakeWriter) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
