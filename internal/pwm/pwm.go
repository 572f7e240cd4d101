// Package pwm drives the wiper servo through a single PWM channel.
// Duty values are expressed in the channel's resolution units
// (13 bits by default: 0..8191 of a 20 ms period at 50 Hz).
package pwm

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// Channel sets the servo duty cycle.
type Channel interface {
	SetDuty(duty uint32) error
	Close() error
}

// Config describes the servo PWM output.
type Config struct {
	Pin    string `yaml:"pin"`
	FreqHz int    `yaml:"frequency_hz"`
	Bits   uint   `yaml:"resolution_bits"`
}

// DefaultConfig is a 50 Hz servo carrier at 13-bit resolution on GPIO16.
var DefaultConfig = Config{
	Pin:    "GPIO16",
	FreqHz: 50,
	Bits:   13,
}

// ToDuty converts a duty in 2^bits units to periph's fixed-point duty.
func ToDuty(duty uint32, bits uint) gpio.Duty {
	return gpio.Duty(int64(duty) * int64(gpio.DutyMax) >> bits)
}

// RealChannel drives a hardware PWM pin through periph.io.
type RealChannel struct {
	pin  gpio.PinIO
	freq physic.Frequency
	bits uint
}

// NewRealChannel initializes periph and claims the PWM pin.
func NewRealChannel(cfg Config) (*RealChannel, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}
	pin := gpioreg.ByName(cfg.Pin)
	if pin == nil {
		return nil, fmt.Errorf("pwm pin %q not found", cfg.Pin)
	}
	return &RealChannel{
		pin:  pin,
		freq: physic.Frequency(cfg.FreqHz) * physic.Hertz,
		bits: cfg.Bits,
	}, nil
}

// SetDuty applies the new duty cycle immediately.
func (c *RealChannel) SetDuty(duty uint32) error {
	if err := c.pin.PWM(ToDuty(duty, c.bits), c.freq); err != nil {
		return fmt.Errorf("set pwm duty %d: %w", duty, err)
	}
	return nil
}

// Close stops the PWM output.
func (c *RealChannel) Close() error {
	return c.pin.Halt()
}
