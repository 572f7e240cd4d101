package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sweeney/ignition-interlock/internal/adc"
	"github.com/sweeney/ignition-interlock/internal/display"
	"github.com/sweeney/ignition-interlock/internal/gpio"
	"github.com/sweeney/ignition-interlock/internal/logic"
	"github.com/sweeney/ignition-interlock/internal/pwm"
	"github.com/sweeney/ignition-interlock/internal/wiper"
	"gopkg.in/yaml.v3"
)

// Config is the daemon configuration. Every field can be set from a YAML
// file; the common ones also have flags.
type Config struct {
	Poll      time.Duration `yaml:"poll"`
	Heartbeat time.Duration `yaml:"heartbeat"` // 0 disables
	Broker    string        `yaml:"broker"`    // empty disables MQTT
	ClientID  string        `yaml:"client_id"`
	HTTPAddr  string        `yaml:"http"` // empty disables the status server

	Chip       string           `yaml:"gpio_chip"`
	Pins       gpio.Pins        `yaml:"gpio"`
	ADC        adc.Config       `yaml:"adc"`
	PWM        pwm.Config       `yaml:"pwm"`
	Display    display.Pins     `yaml:"display"`
	Wiper      wiper.Config     `yaml:"wiper"`
	Thresholds logic.Thresholds `yaml:"thresholds"`
}

func defaultConfig() Config {
	return Config{
		Poll:       10 * time.Millisecond,
		Heartbeat:  15 * time.Minute,
		ClientID:   "ignition-interlock",
		HTTPAddr:   ":80",
		Chip:       gpio.DefaultChip,
		Pins:       gpio.DefaultPins,
		ADC:        adc.DefaultConfig,
		PWM:        pwm.DefaultConfig,
		Display:    display.DefaultPins,
		Wiper:      wiper.DefaultConfig,
		Thresholds: logic.DefaultThresholds,
	}
}

// loadFile overlays a YAML file on base. Keys missing from the file keep
// their base value.
func loadFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills fields a file may have zeroed that have no valid zero value.
func (c *Config) applyDefaults() {
	if c.Poll <= 0 {
		c.Poll = 10 * time.Millisecond
	}
	if c.ClientID == "" {
		c.ClientID = "ignition-interlock"
	}
	if c.Chip == "" {
		c.Chip = gpio.DefaultChip
	}
	if c.PWM.FreqHz <= 0 {
		c.PWM.FreqHz = pwm.DefaultConfig.FreqHz
	}
	if c.PWM.Bits == 0 {
		c.PWM.Bits = pwm.DefaultConfig.Bits
	}
}

func (c Config) validate() error {
	var errs []error
	if c.Heartbeat < 0 {
		errs = append(errs, errors.New("heartbeat must not be negative"))
	}
	if err := c.Thresholds.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Wiper.Validate(); err != nil {
		errs = append(errs, err)
	}
	if limit := uint32(1)<<c.PWM.Bits - 1; c.Wiper.DutyCenter > limit {
		errs = append(errs, fmt.Errorf("duty_center %d exceeds %d-bit resolution", c.Wiper.DutyCenter, c.PWM.Bits))
	}
	return errors.Join(errs...)
}
