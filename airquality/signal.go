// Copyright 2025 The PmodAQS Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package airquality

import "sync/atomic"

// Signal is the data-ready handoff cell between the interrupt source and
// the monitor loop: a level-triggered flag fed by edge events. The source
// only ever sets it via Notify; the monitor is the sole consumer and the
// only caller of Clear. Bursts of events coalesce into a single pending
// flag, so at most one reading is triggered per loop iteration.
type Signal struct {
	ready atomic.Bool
	wake  chan struct{}
}

// NewSignal returns an empty signal.
func NewSignal() *Signal {
	return &Signal{wake: make(chan struct{}, 1)}
}

// Notify records a data-ready event and wakes the monitor if it is
// parked. It never blocks and is safe to call from any goroutine.
func (s *Signal) Notify() {
	s.ready.Store(true)
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// IsSet reports whether an event is pending. It does not consume it.
func (s *Signal) IsSet() bool {
	return s.ready.Load()
}

// Clear consumes the pending event. Only the monitor loop calls this,
// after it has issued its read.
func (s *Signal) Clear() {
	s.ready.Store(false)
}

// Wake returns the channel the monitor parks on between iterations. A
// receive may be spurious; the flag must be re-checked after waking.
func (s *Signal) Wake() <-chan struct{} {
	return s.wake
}
