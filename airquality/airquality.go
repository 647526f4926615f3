// Copyright 2025 The PmodAQS Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package airquality classifies CCS811 eCO₂ readings into a three level
// air quality scale and drives the event-driven read loop that reacts to
// the sensor's data-ready interrupt.
package airquality

// Level is a tri-level air quality classification.
type Level int

const (
	Good Level = iota
	Warning
	Alert
)

func (l Level) String() string {
	switch l {
	case Good:
		return "good"
	case Warning:
		return "warning"
	case Alert:
		return "alert"
	}
	return "invalid"
}

// Classification thresholds in ppm eCO₂.
const (
	WarningThreshold uint16 = 900
	AlertThreshold   uint16 = 1200
)

// Classify maps an eCO₂ concentration in ppm to a Level. It is pure and
// total over the uint16 domain.
func Classify(ppm uint16) Level {
	switch {
	case ppm > AlertThreshold:
		return Alert
	case ppm > WarningThreshold:
		return Warning
	default:
		return Good
	}
}
