// Copyright 2025 The PmodAQS Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package config

import "fmt"

// Validate rejects configurations the daemon cannot run with. It assumes
// Normalize has been applied.
func (c *Config) Validate() error {
	if c.IntPin == "" {
		return fmt.Errorf("config: int_pin is required")
	}
	if _, ok := driveModes[c.DriveMode]; !ok {
		return fmt.Errorf("config: invalid drive_mode %q, expected 1s, 10s or 60s", c.DriveMode)
	}
	if c.Thresholds.Enable && c.Thresholds.Low >= c.Thresholds.High {
		return fmt.Errorf("config: thresholds low (%d) must be below high (%d)", c.Thresholds.Low, c.Thresholds.High)
	}
	switch c.Indicator.Type {
	case "screen":
	case "leds":
		if c.Indicator.WarnPin == "" || c.Indicator.AlertPin == "" {
			return fmt.Errorf("config: leds indicator requires warn_pin and alert_pin")
		}
	default:
		return fmt.Errorf("config: invalid indicator type %q, expected screen or leds", c.Indicator.Type)
	}
	if c.Boot.Retries < 1 {
		return fmt.Errorf("config: boot retries must be at least 1")
	}
	if c.Boot.BackoffMs < 0 {
		return fmt.Errorf("config: boot backoff_ms must not be negative")
	}
	return nil
}
