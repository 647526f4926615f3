// Copyright 2025 The PmodAQS Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package config holds the aqsmon daemon configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/IbeVdV/PmodAQS/ccs811"
)

type Config struct {
	// Bus is the I²C bus name, as understood by i2creg. Empty selects the
	// first available bus.
	Bus string `yaml:"bus"`
	// IntPin is the gpio pin name wired to the sensor's nINT line.
	IntPin string `yaml:"int_pin"`
	// DriveMode is the measurement cadence: "1s", "10s" or "60s".
	DriveMode string `yaml:"drive_mode"`

	Thresholds ThresholdsConfig `yaml:"thresholds"`
	Indicator  IndicatorConfig  `yaml:"indicator"`
	Boot       BootConfig       `yaml:"boot"`

	// ListenAddress is where the Prometheus metrics endpoint is served.
	ListenAddress string `yaml:"listen_address"`
}

// ThresholdsConfig optionally programs the sensor's own eCO₂ interrupt
// thresholds. The software classifier is independent of these.
type ThresholdsConfig struct {
	Enable bool   `yaml:"enable"`
	Low    uint16 `yaml:"low"`
	High   uint16 `yaml:"high"`
}

// IndicatorConfig selects the output sink.
type IndicatorConfig struct {
	// Type is "screen" or "leds".
	Type string `yaml:"type"`
	// WarnPin and AlertPin are the gpio names of the two LEDs, for the
	// "leds" type.
	WarnPin  string `yaml:"warn_pin"`
	AlertPin string `yaml:"alert_pin"`
}

// BootConfig controls retrying of the sensor boot handshake. The driver
// itself never retries; the daemon reruns the whole sequence.
type BootConfig struct {
	Retries   int `yaml:"retries"`
	BackoffMs int `yaml:"backoff_ms"`
}

var driveModes = map[string]ccs811.DriveMode{
	"1s":  ccs811.Drive1Sec,
	"10s": ccs811.Drive10Sec,
	"60s": ccs811.Drive60Sec,
}

// Mode returns the MEAS_MODE value to program during boot. The data-ready
// interrupt is always enabled; the monitor depends on it.
func (c *Config) Mode() ccs811.MeasureMode {
	return ccs811.NewMeasureMode(driveModes[c.DriveMode], true, c.Thresholds.Enable)
}

// Load reads, normalizes and validates the configuration at path. A
// missing path yields the defaults.
func Load(path string) (*Config, error) {
	c := &Config{}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if err := yaml.Unmarshal(raw, c); err != nil {
			return nil, fmt.Errorf("config: %s: %w", path, err)
		}
	}
	c.Normalize()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
