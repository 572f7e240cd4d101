// Package sensor samples every interlock input once per loop iteration.
package sensor

import (
	"fmt"

	"github.com/sweeney/ignition-interlock/internal/adc"
	"github.com/sweeney/ignition-interlock/internal/gpio"
	"github.com/sweeney/ignition-interlock/internal/logic"
)

// Sampler reads the switches and both analog controls.
type Sampler struct {
	digital gpio.Reader
	analog  adc.Reader
}

// NewSampler creates a Sampler over the given readers.
func NewSampler(digital gpio.Reader, analog adc.Reader) *Sampler {
	return &Sampler{digital: digital, analog: analog}
}

// Sample reads the analog controls first, then the switches.
func (s *Sampler) Sample() (logic.DigitalSnapshot, logic.AnalogSnapshot, error) {
	a, err := s.analog.Read()
	if err != nil {
		return logic.DigitalSnapshot{}, logic.AnalogSnapshot{}, fmt.Errorf("sample analog: %w", err)
	}
	d, err := s.digital.Read()
	if err != nil {
		return logic.DigitalSnapshot{}, logic.AnalogSnapshot{}, fmt.Errorf("sample digital: %w", err)
	}
	return d, a, nil
}
