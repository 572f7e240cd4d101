package display

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/devices/v3/hd44780"
	"periph.io/x/host/v3"
)

// Pins names the HD44780 lines in 4-bit mode.
type Pins struct {
	RS   string    `yaml:"rs"`
	E    string    `yaml:"e"`
	Data [4]string `yaml:"data"` // D4..D7
}

// DefaultPins is the reference LCD wiring.
var DefaultPins = Pins{
	RS:   "GPIO21",
	E:    "GPIO22",
	Data: [4]string{"GPIO23", "GPIO24", "GPIO25", "GPIO26"},
}

// LCD is an HD44780 character display.
type LCD struct {
	dev *hd44780.Dev
}

// NewLCD initializes periph, claims the pins and resets the controller.
func NewLCD(pins Pins) (*LCD, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}

	lookup := func(name string) (gpio.PinOut, error) {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("lcd pin %q not found", name)
		}
		return p, nil
	}

	rs, err := lookup(pins.RS)
	if err != nil {
		return nil, err
	}
	e, err := lookup(pins.E)
	if err != nil {
		return nil, err
	}
	data := make([]gpio.PinOut, 0, len(pins.Data))
	for _, name := range pins.Data {
		p, err := lookup(name)
		if err != nil {
			return nil, err
		}
		data = append(data, p)
	}

	dev, err := hd44780.New(data, rs, e)
	if err != nil {
		return nil, fmt.Errorf("init hd44780: %w", err)
	}
	if err := dev.Reset(); err != nil {
		return nil, fmt.Errorf("reset hd44780: %w", err)
	}
	return &LCD{dev: dev}, nil
}

// WriteAt moves the cursor and prints text.
func (l *LCD) WriteAt(col, row int, text string) error {
	if err := l.dev.SetCursor(uint8(row), uint8(col)); err != nil {
		return fmt.Errorf("lcd cursor (%d,%d): %w", col, row, err)
	}
	if err := l.dev.Print(text); err != nil {
		return fmt.Errorf("lcd print: %w", err)
	}
	return nil
}

// Clear blanks the display. The driver's Halt issues the clear-display
// instruction.
func (l *LCD) Clear() error {
	if err := l.dev.Halt(); err != nil {
		return fmt.Errorf("lcd clear: %w", err)
	}
	return nil
}

// Close blanks the display.
func (l *LCD) Close() error {
	return l.Clear()
}
