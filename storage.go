// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package timerwheel

// TimerID identifies a timer's storage slot. It is stable from
// Register until the slot is reclaimed, and is never reused while still
// observable to a user task.
type TimerID int

// timerState is the tri-state tag a storage slot carries. Using a
// tagged variant instead of an "optional waker" field is required to
// distinguish "driver drained the bucket and fired" from "user
// cancelled before the bucket was drained": only the former must leave
// the slot allocated so a later Poll can still report Ready.
type timerState uint8

const (
	timerWaiting timerState = iota
	timerDone
	timerCancelled
)

type slot struct {
	occupied bool
	state    timerState
	waker    Waker
}

// storage is a dense slab of timer slots with a free list, grounded on
// the three-state sketch in the original Rust slab.rs. It owns every
// Waker the wheel is holding on behalf of a task.
type storage struct {
	slots []slot
	free  []int
}

// create allocates a fresh slot initialized to Waiting(waker) and
// returns its id. Free slots are reused (lowest-numbered first) before
// the slab grows, so the id space stays dense among concurrently-live ids.
func (s *storage) create(w Waker) TimerID {
	if n := len(s.free); n > 0 {
		lowest := 0
		for i := 1; i < n; i++ {
			if s.free[i] < s.free[lowest] {
				lowest = i
			}
		}
		idx := s.free[lowest]
		s.free[lowest] = s.free[n-1]
		s.free = s.free[:n-1]
		s.slots[idx] = slot{occupied: true, state: timerWaiting, waker: w}
		return TimerID(idx)
	}
	s.slots = append(s.slots, slot{occupied: true, state: timerWaiting, waker: w})
	return TimerID(len(s.slots) - 1)
}

func (s *storage) at(id TimerID) (*slot, error) {
	if id < 0 || int(id) >= len(s.slots) || !s.slots[id].occupied {
		return nil, ErrUnknownTimer
	}
	return &s.slots[id], nil
}

func (s *storage) reclaim(id TimerID) {
	s.slots[id] = slot{}
	s.free = append(s.free, int(id))
}

// poll reports Ready (and reclaims the slot) once the timer has fired
// or been cancelled, and otherwise installs waker as the continuation
// to notify, replacing any previously stored one. Returns Pending via
// (false, nil).
func (s *storage) poll(id TimerID, waker Waker) (ready bool, err error) {
	sl, err := s.at(id)
	if err != nil {
		return false, err
	}
	switch sl.state {
	case timerWaiting:
		if sl.waker == nil || !sl.waker.Equal(waker) {
			sl.waker = waker
		}
		return false, nil
	default: // timerDone, timerCancelled
		s.reclaim(id)
		return true, nil
	}
}

// drop abandons a timer. A Waiting timer is marked Cancelled and kept
// allocated so the driver's firing path can reclaim it later without
// racing a freed slot; a Done timer is reclaimed immediately; a
// Cancelled timer is left untouched (idempotent).
func (s *storage) drop(id TimerID) error {
	sl, err := s.at(id)
	if err != nil {
		return err
	}
	switch sl.state {
	case timerWaiting:
		sl.state = timerCancelled
		sl.waker = nil
	case timerDone:
		s.reclaim(id)
	case timerCancelled:
		// no-op: repeated drop must not fault.
	}
	return nil
}

// wake is the driver-facing notification path: it must only ever be
// called with an id the cascade/tick code just drained from a bucket,
// which always refers to a live slot that has not already fired (a
// Done slot must never reach this call).
func (s *storage) wake(id TimerID) {
	sl, err := s.at(id)
	if err != nil {
		bug("wake called on unknown timer %d", id)
		return
	}
	switch sl.state {
	case timerWaiting:
		sl.waker.Wake()
		sl.state = timerDone
	case timerCancelled:
		s.reclaim(id)
	case timerDone:
		bug("wake called on already-fired timer %d", id)
	}
}
