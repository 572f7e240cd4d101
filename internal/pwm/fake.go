package pwm

import "sync"

// FakeChannel records every duty written. Safe for concurrent use.
type FakeChannel struct {
	mu     sync.Mutex
	duties []uint32
	closed bool

	// OnSet, if set, is called after each recorded write.
	OnSet func(duty uint32)
}

// NewFakeChannel creates an empty FakeChannel.
func NewFakeChannel() *FakeChannel {
	return &FakeChannel{}
}

// SetDuty records the duty.
func (f *FakeChannel) SetDuty(duty uint32) error {
	f.mu.Lock()
	f.duties = append(f.duties, duty)
	hook := f.OnSet
	f.mu.Unlock()
	if hook != nil {
		hook(duty)
	}
	return nil
}

// Close marks the channel closed.
func (f *FakeChannel) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

// Duties returns a copy of every duty written so far.
func (f *FakeChannel) Duties() []uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uint32(nil), f.duties...)
}

// Last returns the most recent duty and whether any was written.
func (f *FakeChannel) Last() (uint32, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.duties) == 0 {
		return 0, false
	}
	return f.duties[len(f.duties)-1], true
}

// Closed reports whether Close was called.
func (f *FakeChannel) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
