// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package timerwheel

import (
	"sync"
	"time"
)

// Wheel is the façade coordinating timer storage and the bucket
// hierarchy: it translates durations into level+bucket placements on
// Register, advances cursors and cascades on Tick, and answers
// NextDeadline by scanning occupancy bitsets. It requires exclusive
// access per call; the sync.Mutex below guards that single critical
// section, since there is no run-queue or handler-execution machinery
// to serialize here.
type Wheel struct {
	mu sync.Mutex

	storage  storage
	levels   levels
	clock    Clock
	lastTick time.Time
}

// NewWheel creates an empty wheel using the system clock.
func NewWheel() *Wheel {
	return NewWheelWithClock(systemClock{})
}

// NewWheelWithClock creates an empty wheel reading time through c,
// letting tests drive Tick() deterministically.
func NewWheelWithClock(c Clock) *Wheel {
	return &Wheel{clock: c, lastTick: c.Now()}
}

// Register allocates a timer that will fire no earlier than d from
// now, notifying waker. It rejects d >= 24h with ErrDurationTooLong
// without allocating a slot.
func (wh *Wheel) Register(d time.Duration, waker Waker) (TimerID, error) {
	wh.mu.Lock()
	defer wh.mu.Unlock()

	millis := d.Milliseconds()
	if millis < 0 {
		millis = 0
	}
	if uint64(millis) >= maxDurationMillis {
		return 0, ErrDurationTooLong
	}

	id := wh.storage.create(waker)
	wh.levels.place(id, uint64(millis))
	return id, nil
}

// Tick drives the hierarchy forward by as many whole 10ms steps as
// have elapsed since the last processed step, firing every timer whose
// bucket drains along the way. The sub-10ms remainder is carried over
// to the next call, so calling Tick more often than every 10ms still
// advances the wheel. It is a no-op when less than one whole step has
// accumulated, and safe to call with no timers registered. If the clock
// is observed running backwards, the reference point is reset to now.
func (wh *Wheel) Tick() {
	wh.mu.Lock()
	defer wh.mu.Unlock()

	now := wh.clock.Now()
	elapsed := now.Sub(wh.lastTick)
	if elapsed < 0 {
		wh.lastTick = now
		return
	}
	steps := int(elapsed / (tickMillis * time.Millisecond))

	for i := 0; i < steps; i++ {
		wh.levels.step(wh.storage.wake)
	}
	wh.lastTick = wh.lastTick.Add(time.Duration(steps) * tickMillis * time.Millisecond)
}

// Poll reports whether the timer has fired or been cancelled (Ready,
// reclaiming the slot) or is still pending (installing waker as the
// continuation to notify next).
func (wh *Wheel) Poll(id TimerID, waker Waker) (ready bool, err error) {
	wh.mu.Lock()
	defer wh.mu.Unlock()

	return wh.storage.poll(id, waker)
}

// Drop abandons a timer. Non-blocking and idempotent; this is the only
// cancellation/timeout primitive the wheel exposes.
func (wh *Wheel) Drop(id TimerID) error {
	wh.mu.Lock()
	defer wh.mu.Unlock()

	return wh.storage.drop(id)
}

// NextDeadline returns a conservative lower bound on the time until the
// next timer could fire, or false if no bucket is occupied at any
// level. Because occupancy bits may remain set after a bucket drains,
// the returned duration is never later than the true soonest fire, but
// may under-estimate; a driver that parks for at most this long
// remains correct.
func (wh *Wheel) NextDeadline() (time.Duration, bool) {
	wh.mu.Lock()
	defer wh.mu.Unlock()

	return wh.levels.nextDeadline()
}
