package gpio

import (
	"errors"
	"testing"

	"github.com/sweeney/ignition-interlock/internal/logic"
)

func TestFakeReaderRead(t *testing.T) {
	samples := []logic.DigitalSnapshot{
		{DriverSeat: true},
		{DriverSeat: true, PassengerSeat: true},
		{IgnitionButton: true},
	}

	f := NewFakeReader(samples)

	for i, want := range samples {
		got, err := f.Read()
		if err != nil {
			t.Fatalf("sample %d: unexpected error: %v", i, err)
		}
		if got != want {
			t.Errorf("sample %d: expected %+v, got %+v", i, want, got)
		}
	}

	// Fourth read should repeat last sample
	got, err := f.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != samples[2] {
		t.Errorf("repeat: expected %+v, got %+v", samples[2], got)
	}
}

func TestFakeReaderNoSamples(t *testing.T) {
	f := NewFakeReader(nil)

	if _, err := f.Read(); err == nil {
		t.Error("expected error with no samples")
	}
}

func TestFakeReaderError(t *testing.T) {
	f := NewFakeReader([]logic.DigitalSnapshot{{DriverSeat: true}})
	f.ReadError = errors.New("simulated error")

	_, err := f.Read()
	if err == nil {
		t.Fatal("expected error to be returned")
	}
	if err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFakeReaderCloseAndReset(t *testing.T) {
	f := NewFakeReader([]logic.DigitalSnapshot{{DriverSeat: true}, {}})

	f.Read()
	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}

	f.Reset()
	if f.Closed {
		t.Error("Reset should clear Closed")
	}
	got, _ := f.Read()
	if !got.DriverSeat {
		t.Errorf("after reset: expected first sample, got %+v", got)
	}
}

func TestFromRawInvertsActiveLow(t *testing.T) {
	got := fromRaw([]int{0, 1, 0, 1, 0})
	want := logic.DigitalSnapshot{
		DriverSeat:     true,
		PassengerSeat:  false,
		DriverBelt:     true,
		PassengerBelt:  false,
		IgnitionButton: true,
	}
	if got != want {
		t.Errorf("fromRaw: expected %+v, got %+v", want, got)
	}

	if got := fromRaw([]int{1, 1, 1, 1, 1}); got != (logic.DigitalSnapshot{}) {
		t.Errorf("all released: expected zero snapshot, got %+v", got)
	}
}

func TestPinsInputOrder(t *testing.T) {
	got := DefaultPins.inputs()
	want := []int{5, 7, 6, 15, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("inputs[%d]: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestFakeWriter(t *testing.T) {
	w := NewFakeWriter()

	w.Set(logic.OutputReady, true)
	w.Set(logic.OutputAlarm, true)
	w.Set(logic.OutputReady, false)

	if w.On(logic.OutputReady) {
		t.Error("ready should be off")
	}
	if !w.On(logic.OutputAlarm) {
		t.Error("alarm should be on")
	}
	if n := len(w.Sets()); n != 3 {
		t.Errorf("expected 3 writes, got %d", n)
	}

	w.Close()
	if !w.Closed() {
		t.Error("should be closed")
	}
	if w.On(logic.OutputAlarm) {
		t.Error("Close should turn outputs off")
	}
}

func TestFakeWriterError(t *testing.T) {
	w := NewFakeWriter()
	w.SetError = errors.New("line busy")

	if err := w.Set(logic.OutputSuccess, true); err == nil {
		t.Error("expected error")
	}
	if w.On(logic.OutputSuccess) {
		t.Error("failed write must not change state")
	}
}
