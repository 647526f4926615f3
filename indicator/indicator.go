// Copyright 2025 The PmodAQS Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package indicator provides output sinks for air quality levels: a pair
// of warning/alert LEDs, and a colored terminal line for running without
// hardware.
package indicator

import (
	"periph.io/x/conn/v3/gpio"

	"github.com/IbeVdV/PmodAQS/airquality"
)

// Indicator displays an air quality level. Implementations never read
// anything back; it is a pure sink.
type Indicator interface {
	SetLevel(airquality.Level) error
	// Halt turns the indicator off.
	Halt() error
}

// Func adapts a function to the Indicator interface.
type Func func(airquality.Level) error

// SetLevel implements Indicator.
func (f Func) SetLevel(l airquality.Level) error { return f(l) }

// Halt implements Indicator.
func (f Func) Halt() error { return nil }

// LEDs drives two output pins: both off for good, Warn on for warning,
// both on for alert.
type LEDs struct {
	Warn  gpio.PinOut
	Alert gpio.PinOut
}

// SetLevel implements Indicator.
func (l *LEDs) SetLevel(lvl airquality.Level) error {
	if err := l.Warn.Out(gpio.Level(lvl >= airquality.Warning)); err != nil {
		return err
	}
	return l.Alert.Out(gpio.Level(lvl >= airquality.Alert))
}

// Halt implements Indicator.
func (l *LEDs) Halt() error {
	if err := l.Warn.Out(gpio.Low); err != nil {
		return err
	}
	return l.Alert.Out(gpio.Low)
}

var _ Indicator = Func(nil)
var _ Indicator = &LEDs{}
