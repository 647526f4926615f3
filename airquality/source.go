// Copyright 2025 The PmodAQS Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package airquality

import (
	"sync"
	"sync/atomic"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// IntSource is the interrupt controller contract for the data-ready line.
// The monitor masks the source before inspecting the shared flag and
// unmasks it after acting, every iteration. While masked, at most one
// event is latched as pending; ClearPending discards it, so events that
// arrive during servicing coalesce with the cycle in flight.
type IntSource interface {
	// Enable unmasks the source. A latched pending event is delivered.
	Enable() error
	// Disable masks the source. Events latch as pending instead of being
	// delivered.
	Disable() error
	// ClearPending discards a latched event.
	ClearPending()
}

// edgeTimeout bounds each WaitForEdge call so the watcher notices Halt.
const edgeTimeout = time.Second

// PinSource delivers data-ready events from the sensor's nINT pin into a
// Signal. The CCS811 drives the line low when a result is ready, so the
// pin is watched for falling edges.
type PinSource struct {
	pin gpio.PinIn
	sig *Signal

	masked  atomic.Bool
	pending atomic.Bool

	mu      sync.Mutex
	stop    chan struct{}
	wg      sync.WaitGroup
	started bool
}

// NewPinSource returns a source watching pin. The watcher goroutine is
// started on the first Enable and runs until Halt.
func NewPinSource(pin gpio.PinIn, sig *Signal) *PinSource {
	return &PinSource{pin: pin, sig: sig}
}

// Enable implements IntSource.
func (s *PinSource) Enable() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		if err := s.pin.In(gpio.PullUp, gpio.FallingEdge); err != nil {
			return err
		}
		s.stop = make(chan struct{})
		s.wg.Add(1)
		go s.watch()
		s.started = true
	}
	s.masked.Store(false)
	if s.pending.Swap(false) {
		s.sig.Notify()
	}
	return nil
}

// Disable implements IntSource.
func (s *PinSource) Disable() error {
	s.masked.Store(true)
	return nil
}

// ClearPending implements IntSource.
func (s *PinSource) ClearPending() {
	s.pending.Store(false)
}

// Halt stops the watcher goroutine.
func (s *PinSource) Halt() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil
	}
	close(s.stop)
	s.wg.Wait()
	s.started = false
	return nil
}

func (s *PinSource) watch() {
	defer s.wg.Done()
	for {
		select {
		case <-s.stop:
			return
		default:
		}
		if !s.pin.WaitForEdge(edgeTimeout) {
			continue
		}
		if s.masked.Load() {
			s.pending.Store(true)
		} else {
			s.sig.Notify()
		}
	}
}

var _ IntSource = &PinSource{}
