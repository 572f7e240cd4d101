// Package gpio provides the interlock's digital inputs and outputs with
// hardware abstraction.
// The real implementation uses Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

import "github.com/sweeney/ignition-interlock/internal/logic"

// Reader reads the five occupancy/ignition switches.
type Reader interface {
	// Read returns the logical switch states.
	// The switches are wired active-low with pull-ups, so the raw GPIO
	// values are inverted: raw 0 = logical true.
	Read() (logic.DigitalSnapshot, error)

	// Close releases GPIO resources.
	Close() error
}

// Writer drives the indicator outputs.
type Writer interface {
	// Set switches an indicator on or off.
	Set(out logic.Output, on bool) error

	// Close turns every output off and releases GPIO resources.
	Close() error
}

// Pins holds line offsets on the GPIO chip.
type Pins struct {
	DriverSeat    int `yaml:"driver_seat"`
	PassengerSeat int `yaml:"passenger_seat"`
	DriverBelt    int `yaml:"driver_belt"`
	PassengerBelt int `yaml:"passenger_belt"`
	Ignition      int `yaml:"ignition"`
	Ready         int `yaml:"ready"`
	Success       int `yaml:"success"`
	Alarm         int `yaml:"alarm"`
}

// DefaultPins matches the reference wiring harness.
var DefaultPins = Pins{
	DriverSeat:    5,
	PassengerSeat: 7,
	DriverBelt:    6,
	PassengerBelt: 15,
	Ignition:      4,
	Ready:         20,
	Success:       19,
	Alarm:         18,
}

// DefaultChip is the GPIO character device name.
const DefaultChip = "gpiochip0"

// inputs returns the input offsets in snapshot order.
func (p Pins) inputs() []int {
	return []int{p.DriverSeat, p.PassengerSeat, p.DriverBelt, p.PassengerBelt, p.Ignition}
}

// fromRaw converts raw line levels (in inputs() order) to a logical snapshot.
func fromRaw(raw []int) logic.DigitalSnapshot {
	return logic.DigitalSnapshot{
		DriverSeat:     raw[0] == 0,
		PassengerSeat:  raw[1] == 0,
		DriverBelt:     raw[2] == 0,
		PassengerBelt:  raw[3] == 0,
		IgnitionButton: raw[4] == 0,
	}
}
