// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package timerwheel

import (
	"sync"
	"time"

	"github.com/intuitivelabs/timestamp"
)

// DefaultPeriod matches the wheel's own tick width, to avoid batching
// multiple ticks into a single Tick() call.
const DefaultPeriod = 10 * time.Millisecond

// Driver calls wheel.Tick() on a fixed period in its own goroutine.
// It takes no lock of its own: every Wheel method is serialized by the
// Wheel's mutex, so Register/Poll/Drop/NextDeadline may be called from
// other goroutines while the Driver is running.
type Driver struct {
	wheel  *Wheel
	period time.Duration

	cancel chan struct{}
	wg     sync.WaitGroup

	lastSeen timestamp.TS
	badTime  uint32
}

// NewDriver builds a driver for wheel ticking every period (DefaultPeriod
// if period <= 0).
func NewDriver(wheel *Wheel, period time.Duration) *Driver {
	if period <= 0 {
		period = DefaultPeriod
	}
	return &Driver{wheel: wheel, period: period}
}

// Start begins the ticking goroutine. Calling Start twice without an
// intervening Stop is a programmer error.
func (d *Driver) Start() {
	d.cancel = make(chan struct{})
	d.lastSeen = timestamp.Now()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ticker := time.NewTicker(d.period)
		defer ticker.Stop()
		for {
			select {
			case <-d.cancel:
				return
			case <-ticker.C:
				d.fire()
			}
		}
	}()
}

// fire is one driver-side tick: it watches for the clock running
// backwards (a condition the wheel's own elapsed-time arithmetic
// cannot distinguish from "no time passed") before forwarding to
// wheel.Tick(), mirroring wtimer_ticker.go's badTime bookkeeping.
func (d *Driver) fire() {
	now := timestamp.Now()
	if now.Before(d.lastSeen) {
		d.badTime++
		if d.badTime > 10 {
			warn("driver: clock observed going backwards %d times in a row, resyncing", d.badTime)
			d.badTime = 0
		}
		d.lastSeen = now
		return
	}
	d.badTime = 0
	d.lastSeen = now
	dbg("driver: tick at %v", now)
	d.wheel.Tick()
}

// Stop signals the ticking goroutine to exit, waits for it, and runs
// one final Tick() so any whole ticks elapsed since the last periodic
// fire are still drained before the driver is considered stopped.
func (d *Driver) Stop() {
	if d.cancel != nil {
		close(d.cancel)
	}
	d.wg.Wait()
	d.wheel.Tick()
}
