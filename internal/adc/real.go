package adc

import (
	"fmt"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
	"periph.io/x/host/v3"
)

// Config selects the converter and its channels.
type Config struct {
	Bus          string `yaml:"bus"` // empty = first available I2C bus
	Address      uint16 `yaml:"address"`
	WiperChannel int    `yaml:"wiper_channel"`
	IntChannel   int    `yaml:"intermittent_channel"`
}

// DefaultConfig is an ADS1115 at its default address with the wiper
// control on AIN0 and the intermittent control on AIN1.
var DefaultConfig = Config{
	Address:      0x48,
	WiperChannel: 0,
	IntChannel:   1,
}

// fullScale covers the 0-3.3 V potentiometer supply.
const fullScale = 3300 * physic.MilliVolt

// sampleRate is the ADS1115 data rate.
const sampleRate = 475 * physic.Hertz

// NewRealReader opens the I2C bus and configures both channels single-ended.
func NewRealReader(cfg Config) (*ChannelReader, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}

	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", cfg.Bus, err)
	}

	dev, err := ads1x15.NewADS1115(bus, &ads1x15.Opts{I2cAddress: cfg.Address})
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("open ads1115 at %#x: %w", cfg.Address, err)
	}

	wiper, err := dev.PinForChannel(ads1x15.Channel(cfg.WiperChannel), fullScale, sampleRate, ads1x15.BestQuality)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("wiper channel %d: %w", cfg.WiperChannel, err)
	}
	intermittent, err := dev.PinForChannel(ads1x15.Channel(cfg.IntChannel), fullScale, sampleRate, ads1x15.BestQuality)
	if err != nil {
		wiper.Halt()
		bus.Close()
		return nil, fmt.Errorf("intermittent channel %d: %w", cfg.IntChannel, err)
	}

	r := NewChannelReader(wiper, intermittent, Millivolts)
	r.closer = func() error {
		wiper.Halt()
		intermittent.Halt()
		if err := dev.Halt(); err != nil {
			bus.Close()
			return fmt.Errorf("halt ads1115: %w", err)
		}
		return bus.Close()
	}
	return r, nil
}
