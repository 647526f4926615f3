// Copyright 2025 The PmodAQS Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package airquality

import (
	"context"
	"sync"
)

// ResultReader reads the current eCO₂ concentration in ppm. Implemented
// by ccs811.Dev.
type ResultReader interface {
	ReadAlgorithmResult() (uint16, error)
}

// LevelSink receives the classification produced by each serviced
// reading. Implemented by the indicator package.
type LevelSink interface {
	SetLevel(Level) error
}

// Opts holds the optional hooks of a Monitor.
type Opts struct {
	// Sink is driven with the Level of every successful reading.
	Sink LevelSink
	// Logf receives diagnostics, printf style. Nil drops them.
	Logf func(format string, args ...interface{})
	// OnReading is called after each successful reading, after Sink.
	OnReading func(ppm uint16, level Level)
	// OnReadError is called when a read transaction fails and the cycle
	// is skipped.
	OnReadError func(err error)
}

// Monitor is the event-driven read loop. It alternates between two
// states: armed, parked on the signal's wake channel with the interrupt
// source enabled, and servicing, with the source masked while it reads
// and classifies one result. All bus I/O happens on the goroutine running
// Run; the interrupt source never touches the bus.
type Monitor struct {
	dev  ResultReader
	src  IntSource
	sig  *Signal
	opts Opts

	mu         sync.Mutex
	lastPPM    uint16
	lastLevel  Level
	hasReading bool
}

// NewMonitor returns a monitor reading dev on every event sig receives
// from src. The Opts can be nil.
func NewMonitor(dev ResultReader, src IntSource, sig *Signal, opts *Opts) *Monitor {
	if opts == nil {
		opts = &Opts{}
	}
	return &Monitor{dev: dev, src: src, sig: sig, opts: *opts}
}

// Run services data-ready events until ctx is cancelled. Every iteration
// masks the source before inspecting the flag and unmasks it after
// acting, whether or not an event was pending; this is what makes the
// check-and-clear window race free. A failed read skips classification
// for that cycle and leaves the previous output level unchanged.
func (m *Monitor) Run(ctx context.Context) error {
	if err := m.src.Enable(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			_ = m.src.Disable()
			return ctx.Err()
		case <-m.sig.Wake():
			// Possibly spurious; the flag decides below.
		}
		if err := m.src.Disable(); err != nil {
			return err
		}
		if m.sig.IsSet() {
			m.service()
		}
		m.src.ClearPending()
		if err := m.src.Enable(); err != nil {
			return err
		}
	}
}

// Last returns the most recent reading and its classification. ok is
// false until the first successful reading.
func (m *Monitor) Last() (ppm uint16, level Level, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastPPM, m.lastLevel, m.hasReading
}

func (m *Monitor) service() {
	ppm, err := m.dev.ReadAlgorithmResult()
	// The flag is consumed here, after the read attempt was issued, and
	// nowhere else.
	m.sig.Clear()
	if err != nil {
		m.logf("airquality: read failed, keeping previous level: %v", err)
		if m.opts.OnReadError != nil {
			m.opts.OnReadError(err)
		}
		return
	}
	level := Classify(ppm)
	m.mu.Lock()
	m.lastPPM = ppm
	m.lastLevel = level
	m.hasReading = true
	m.mu.Unlock()

	if m.opts.Sink != nil {
		if err := m.opts.Sink.SetLevel(level); err != nil {
			m.logf("airquality: indicator: %v", err)
		}
	}
	if m.opts.OnReading != nil {
		m.opts.OnReading(ppm, level)
	}
}

func (m *Monitor) logf(format string, args ...interface{}) {
	if m.opts.Logf != nil {
		m.opts.Logf(format, args...)
	}
}
