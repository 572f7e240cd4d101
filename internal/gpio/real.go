//go:build linux

package gpio

import (
	"fmt"

	"github.com/sweeney/ignition-interlock/internal/logic"
	"github.com/warthog618/go-gpiocdev"
)

const consumer = "ignition-interlock"

// RealReader reads the switches from actual hardware using Linux GPIO character device.
type RealReader struct {
	chip  *gpiocdev.Chip
	lines *gpiocdev.Lines
	raw   []int
}

// NewRealReader requests the five switch lines as inputs with pull-ups.
func NewRealReader(chipName string, pins Pins) (*RealReader, error) {
	chip, err := gpiocdev.NewChip(chipName, gpiocdev.WithConsumer(consumer))
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	offsets := pins.inputs()
	lines, err := chip.RequestLines(offsets, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request input pins %v: %w", offsets, err)
	}

	return &RealReader{
		chip:  chip,
		lines: lines,
		raw:   make([]int, len(offsets)),
	}, nil
}

// Read returns the logical switch states.
// Inverts raw GPIO: raw inactive (0) = logical true, raw active (1) = logical false.
func (r *RealReader) Read() (logic.DigitalSnapshot, error) {
	if err := r.lines.Values(r.raw); err != nil {
		return logic.DigitalSnapshot{}, fmt.Errorf("read input pins: %w", err)
	}
	return fromRaw(r.raw), nil
}

// Close releases GPIO resources.
func (r *RealReader) Close() error {
	var errs []error
	if r.lines != nil {
		if err := r.lines.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close input pins: %w", err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// RealWriter drives the indicator outputs on actual hardware.
type RealWriter struct {
	chip  *gpiocdev.Chip
	lines map[logic.Output]*gpiocdev.Line
}

// NewRealWriter requests the three indicator lines as outputs, initially off.
func NewRealWriter(chipName string, pins Pins) (*RealWriter, error) {
	chip, err := gpiocdev.NewChip(chipName, gpiocdev.WithConsumer(consumer))
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	w := &RealWriter{chip: chip, lines: make(map[logic.Output]*gpiocdev.Line)}
	for out, offset := range map[logic.Output]int{
		logic.OutputReady:   pins.Ready,
		logic.OutputSuccess: pins.Success,
		logic.OutputAlarm:   pins.Alarm,
	} {
		line, err := chip.RequestLine(offset, gpiocdev.AsOutput(0))
		if err != nil {
			w.Close()
			return nil, fmt.Errorf("request %s pin %d: %w", out, offset, err)
		}
		w.lines[out] = line
	}
	return w, nil
}

// Set switches an indicator on or off.
func (w *RealWriter) Set(out logic.Output, on bool) error {
	line, ok := w.lines[out]
	if !ok {
		return fmt.Errorf("unknown output %q", out)
	}
	v := 0
	if on {
		v = 1
	}
	if err := line.SetValue(v); err != nil {
		return fmt.Errorf("set %s pin: %w", out, err)
	}
	return nil
}

// Close drives every output low before releasing it so no indicator or
// buzzer is left on after the daemon exits.
func (w *RealWriter) Close() error {
	var errs []error
	for out, line := range w.lines {
		if err := line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("clear %s pin: %w", out, err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s pin: %w", out, err))
		}
	}
	if w.chip != nil {
		if err := w.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
