// Copyright 2025 The PmodAQS Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package indicator

import (
	"bytes"
	"strings"
	"testing"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"

	"github.com/IbeVdV/PmodAQS/airquality"
)

func TestLEDs(t *testing.T) {
	warn := &gpiotest.Pin{N: "LED0"}
	alert := &gpiotest.Pin{N: "LED1"}
	leds := &LEDs{Warn: warn, Alert: alert}

	tests := []struct {
		level      airquality.Level
		warnLevel  gpio.Level
		alertLevel gpio.Level
	}{
		{airquality.Good, gpio.Low, gpio.Low},
		{airquality.Warning, gpio.High, gpio.Low},
		{airquality.Alert, gpio.High, gpio.High},
	}
	for _, test := range tests {
		if err := leds.SetLevel(test.level); err != nil {
			t.Fatal(err)
		}
		if warn.L != test.warnLevel || alert.L != test.alertLevel {
			t.Errorf("%s: pins = (%s, %s), expected (%s, %s)", test.level, warn.L, alert.L, test.warnLevel, test.alertLevel)
		}
	}

	if err := leds.Halt(); err != nil {
		t.Fatal(err)
	}
	if warn.L != gpio.Low || alert.L != gpio.Low {
		t.Error("Halt() did not turn the LEDs off")
	}
}

func TestScreen(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewScreen(&ScreenOpts{W: buf})

	if err := s.SetLevel(airquality.Alert); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "\r\033[0m") {
		t.Errorf("line does not rewind and reset: %q", out)
	}
	if !strings.Contains(out, "alert") {
		t.Errorf("level label missing: %q", out)
	}

	buf.Reset()
	if err := s.Halt(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\033[0m") {
		t.Errorf("Halt() did not reset the terminal: %q", buf.String())
	}
}
