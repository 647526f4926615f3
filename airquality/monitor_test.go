// Copyright 2025 The PmodAQS Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package airquality

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"periph.io/x/conn/v3/i2c/i2ctest"

	"github.com/IbeVdV/PmodAQS/ccs811"
)

// fakeSource records the mask/unmask discipline; event delivery is done
// directly through the signal in the tests.
type fakeSource struct {
	enables  atomic.Int32
	disables atomic.Int32
	clears   atomic.Int32
}

func (s *fakeSource) Enable() error  { s.enables.Add(1); return nil }
func (s *fakeSource) Disable() error { s.disables.Add(1); return nil }
func (s *fakeSource) ClearPending()  { s.clears.Add(1) }

// sinkFunc adapts a function to the LevelSink interface.
type sinkFunc func(Level) error

func (f sinkFunc) SetLevel(l Level) error { return f(l) }

var bootOps = []i2ctest.IO{
	{Addr: ccs811.SensorAddress, W: []byte{0x20}, R: []byte{0x81}},
	{Addr: ccs811.SensorAddress, W: []byte{0x00}, R: []byte{0x10}},
	{Addr: ccs811.SensorAddress, W: []byte{0xF3}},
	{Addr: ccs811.SensorAddress, W: []byte{0xF4}},
	{Addr: ccs811.SensorAddress, W: []byte{0x01, 0x18}},
	{Addr: ccs811.SensorAddress, W: []byte{0xE0}, R: []byte{0x00}},
	{Addr: ccs811.SensorAddress, W: []byte{0x01}, R: []byte{0x18}},
}

// End to end over a simulated bus: boot, then one event per reading.
// 0x0384 (900ppm) classifies good, 0x05DC (1500ppm) classifies alert.
func TestMonitorClassifiesReadings(t *testing.T) {
	ops := append(append([]i2ctest.IO{}, bootOps...),
		i2ctest.IO{Addr: ccs811.SensorAddress, W: []byte{0x02}, R: []byte{0x03, 0x84}},
		i2ctest.IO{Addr: ccs811.SensorAddress, W: []byte{0x02}, R: []byte{0x05, 0xDC}},
	)
	pb := &i2ctest.Playback{Ops: ops, DontPanic: true}
	dev, err := ccs811.NewI2C(pb, nil)
	if err != nil {
		t.Fatal(err)
	}

	levels := make(chan Level, 4)
	sig := NewSignal()
	src := &fakeSource{}
	m := NewMonitor(dev, src, sig, &Opts{
		Sink: sinkFunc(func(l Level) error { levels <- l; return nil }),
		Logf: t.Logf,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	sig.Notify()
	expectLevel(t, levels, Good)
	sig.Notify()
	expectLevel(t, levels, Alert)

	ppm, level, ok := m.Last()
	if !ok || ppm != 1500 || level != Alert {
		t.Errorf("Last() = (%d, %s, %t), expected (1500, alert, true)", ppm, level, ok)
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run returned %v", err)
	}
	// Masked before every inspection, unmasked after every cycle.
	if src.enables.Load() < 2 || src.disables.Load() < 2 {
		t.Errorf("mask discipline not followed: %d enables, %d disables", src.enables.Load(), src.disables.Load())
	}
}

// A failed read transaction skips classification and leaves the previous
// output level unchanged.
func TestMonitorKeepsLevelOnReadFailure(t *testing.T) {
	ops := append(append([]i2ctest.IO{}, bootOps...),
		i2ctest.IO{Addr: ccs811.SensorAddress, W: []byte{0x02}, R: []byte{0x03, 0x84}},
		// No more ops: the next read fails on the simulated bus.
	)
	pb := &i2ctest.Playback{Ops: ops, DontPanic: true}
	dev, err := ccs811.NewI2C(pb, nil)
	if err != nil {
		t.Fatal(err)
	}

	levels := make(chan Level, 4)
	readErrs := make(chan error, 4)
	sig := NewSignal()
	m := NewMonitor(dev, &fakeSource{}, sig, &Opts{
		Sink:        sinkFunc(func(l Level) error { levels <- l; return nil }),
		OnReadError: func(err error) { readErrs <- err },
		Logf:        t.Logf,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = m.Run(ctx) }()

	sig.Notify()
	expectLevel(t, levels, Good)

	sig.Notify()
	select {
	case err := <-readErrs:
		t.Logf("read failed as intended: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("failing cycle never completed")
	}
	select {
	case l := <-levels:
		t.Fatalf("failed cycle emitted level %s", l)
	default:
	}
	if ppm, level, ok := m.Last(); !ok || ppm != 900 || level != Good {
		t.Errorf("Last() = (%d, %s, %t) after failed read, expected (900, good, true)", ppm, level, ok)
	}
}

// blockingReader lets the test hold the monitor inside a read so an event
// can be fired in the middle of the check-and-clear window.
type blockingReader struct {
	entered chan struct{}
	release chan struct{}
	values  []uint16
	next    int
}

func (r *blockingReader) ReadAlgorithmResult() (uint16, error) {
	r.entered <- struct{}{}
	<-r.release
	v := r.values[r.next]
	r.next++
	return v, nil
}

// An event fired while the loop is mid-service coalesces with the cycle
// in flight; it must not wedge the loop, and a later event must still be
// serviced. No event is silently lost across two consecutive cycles.
func TestMonitorEventDuringServiceNotLost(t *testing.T) {
	reader := &blockingReader{
		entered: make(chan struct{}),
		release: make(chan struct{}),
		values:  []uint16{500, 1000},
	}
	levels := make(chan Level, 4)
	sig := NewSignal()
	m := NewMonitor(reader, &fakeSource{}, sig, &Opts{
		Sink: sinkFunc(func(l Level) error { levels <- l; return nil }),
		Logf: t.Logf,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = m.Run(ctx) }()

	sig.Notify()
	<-reader.entered
	// Mid-check event: the read for this cycle has been issued but the
	// flag has not been cleared yet.
	sig.Notify()
	reader.release <- struct{}{}
	expectLevel(t, levels, Good)

	// The coalesced event triggers no second read, but the loop is still
	// armed: the next event is serviced normally.
	select {
	case <-reader.entered:
		t.Fatal("coalesced event triggered a second read")
	case <-time.After(100 * time.Millisecond):
	}

	sig.Notify()
	<-reader.entered
	reader.release <- struct{}{}
	expectLevel(t, levels, Warning)
}

func expectLevel(t *testing.T, levels <-chan Level, expected Level) {
	t.Helper()
	select {
	case l := <-levels:
		if l != expected {
			t.Fatalf("level = %s, expected %s", l, expected)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no level emitted, expected %s", expected)
	}
}
