package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sweeney/ignition-interlock/internal/gpio"
	"github.com/sweeney/ignition-interlock/internal/wiper"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "interlock.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Poll != 10*time.Millisecond {
		t.Errorf("Poll: got %v, want 10ms", cfg.Poll)
	}
	if cfg.Broker != "" {
		t.Errorf("MQTT should be disabled by default, got %q", cfg.Broker)
	}
}

func TestLoadFileOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
poll: 20ms
broker: tcp://10.0.0.2:1883
gpio:
  ignition: 17
wiper:
  low_ramp: 2s
  long_dwell: 8s
thresholds:
  intermittent_mv: 450
`)

	cfg, err := loadFile(path, defaultConfig())
	if err != nil {
		t.Fatalf("loadFile: %v", err)
	}

	if cfg.Poll != 20*time.Millisecond {
		t.Errorf("Poll: got %v, want 20ms", cfg.Poll)
	}
	if cfg.Broker != "tcp://10.0.0.2:1883" {
		t.Errorf("Broker: got %q", cfg.Broker)
	}
	if cfg.Pins.Ignition != 17 {
		t.Errorf("Pins.Ignition: got %d, want 17", cfg.Pins.Ignition)
	}
	if cfg.Pins.DriverSeat != gpio.DefaultPins.DriverSeat {
		t.Errorf("Pins.DriverSeat should keep default, got %d", cfg.Pins.DriverSeat)
	}
	if cfg.Wiper.LowRamp != 2*time.Second || cfg.Wiper.LongDwell != 8*time.Second {
		t.Errorf("Wiper: got low_ramp=%v long_dwell=%v", cfg.Wiper.LowRamp, cfg.Wiper.LongDwell)
	}
	if cfg.Wiper.DutyMin != wiper.DefaultConfig.DutyMin {
		t.Errorf("Wiper.DutyMin should keep default, got %d", cfg.Wiper.DutyMin)
	}
	if cfg.Thresholds.IntermittentMv != 450 || cfg.Thresholds.LowMv != 1570 {
		t.Errorf("Thresholds: got %+v", cfg.Thresholds)
	}
	if err := cfg.validate(); err != nil {
		t.Errorf("overlaid config invalid: %v", err)
	}
}

func TestLoadFileAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
poll: 0s
client_id: ""
pwm:
  resolution_bits: 0
`)

	cfg, err := loadFile(path, defaultConfig())
	if err != nil {
		t.Fatalf("loadFile: %v", err)
	}
	if cfg.Poll != 10*time.Millisecond {
		t.Errorf("Poll: got %v, want default", cfg.Poll)
	}
	if cfg.ClientID != "ignition-interlock" {
		t.Errorf("ClientID: got %q, want default", cfg.ClientID)
	}
	if cfg.PWM.Bits != 13 {
		t.Errorf("PWM.Bits: got %d, want 13", cfg.PWM.Bits)
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := loadFile(filepath.Join(t.TempDir(), "missing.yaml"), defaultConfig()); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := loadFile(writeConfig(t, "poll: [not a duration"), defaultConfig()); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"negative heartbeat", func(c *Config) { c.Heartbeat = -time.Second }},
		{"unordered thresholds", func(c *Config) { c.Thresholds.HighMv = 1000 }},
		{"center below min", func(c *Config) { c.Wiper.DutyCenter = 100 }},
		{"center beyond resolution", func(c *Config) { c.PWM.Bits = 8 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.modify(&cfg)
			if err := cfg.validate(); err == nil {
				t.Error("expected error")
			}
		})
	}
}
