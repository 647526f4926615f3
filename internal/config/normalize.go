// Copyright 2025 The PmodAQS Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package config

import "github.com/IbeVdV/PmodAQS/airquality"

// Normalize fills in defaults for everything left unset.
func (c *Config) Normalize() {
	if c.DriveMode == "" {
		c.DriveMode = "1s"
	}
	if c.Thresholds.Low == 0 {
		c.Thresholds.Low = airquality.WarningThreshold
	}
	if c.Thresholds.High == 0 {
		c.Thresholds.High = airquality.AlertThreshold
	}
	if c.Indicator.Type == "" {
		c.Indicator.Type = "screen"
	}
	if c.Boot.Retries == 0 {
		c.Boot.Retries = 5
	}
	if c.Boot.BackoffMs == 0 {
		c.Boot.BackoffMs = 2000
	}
	if c.ListenAddress == "" {
		c.ListenAddress = ":8080"
	}
}
