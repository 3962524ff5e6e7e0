// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package timerwheel

import "time"

// Level sizes and spans, fixed at compile time (no dynamic reconfiguration).
const (
	tickBuckets     = 10
	tickMillis      = 10                 // width of one tick bucket, in ms
	tickLevelSpan   = tickBuckets * tickMillis // 100ms
	coarseBuckets   = 60
	coarseMillis    = 1000               // 1s
	coarseLevelSpan = coarseBuckets * coarseMillis // 60s
	coarsestBuckets = 24
	coarsestMillis  = 3_600_000          // 1h
	coarsestSpan    = coarsestBuckets * coarsestMillis // 24h

	// maxDurationMillis is the Register rejection threshold.
	maxDurationMillis = 24 * 3_600_000
)

// tickLevel is the 10-bucket, 10ms-wide finest-resolution wheel.
type tickLevel struct {
	buckets  [tickBuckets]Bucket
	occupied bitset16
	cursor   int
}

// coarseLevel is the 60-bucket, 1s-wide middle wheel.
type coarseLevel struct {
	buckets  [coarseBuckets]Bucket
	occupied bitset64
	cursor   int
}

// coarsestLevel is the 24-bucket, 1h-wide outermost wheel.
type coarsestLevel struct {
	buckets  [coarsestBuckets]Bucket
	occupied bitset32
	cursor   int
}

// place inserts id into the bucket at cursor+offset (mod size), clamping
// offset to the highest valid index (cannot actually saturate given the
// level dispatch in place(), but the clamp is kept as a defensive upper
// bound).
func (l *tickLevel) place(id TimerID, offsetMillis uint64) {
	offset := int(offsetMillis / tickMillis)
	if offset > tickBuckets-1 {
		offset = tickBuckets - 1
	}
	idx := (l.cursor + offset) % tickBuckets
	l.occupied.set(idx)
	l.buckets[idx] = append(l.buckets[idx], id)
}

func (l *coarseLevel) place(id TimerID, offsetMillis uint64) {
	offset := int(offsetMillis / coarseMillis)
	if offset > coarseBuckets-1 {
		offset = coarseBuckets - 1
	}
	idx := (l.cursor + offset) % coarseBuckets
	l.occupied.set(idx)
	l.buckets[idx] = append(l.buckets[idx], id)
}

func (l *coarsestLevel) place(id TimerID, offsetMillis uint64) {
	offset := int(offsetMillis / coarsestMillis)
	if offset > coarsestBuckets-1 {
		offset = coarsestBuckets - 1
	}
	idx := (l.cursor + offset) % coarsestBuckets
	l.occupied.set(idx)
	l.buckets[idx] = append(l.buckets[idx], id)
}

// levels bundles the three resolutions plus the cascade logic that
// moves entries from a higher level down to the current bucket of the
// level below it, one tick step at a time.
type levels struct {
	tick     tickLevel
	coarse   coarseLevel
	coarsest coarsestLevel
}

// place dispatches a duration (already validated < 24h) to the right
// level by a three-way split on span width.
func (lv *levels) place(id TimerID, totalMillis uint64) {
	switch {
	case totalMillis < tickLevelSpan:
		lv.tick.place(id, totalMillis)
	case totalMillis < coarseLevelSpan:
		lv.coarse.place(id, totalMillis)
	default:
		lv.coarsest.place(id, totalMillis)
	}
}

// step performs exactly one 10ms tick: drain the current tick bucket
// (notifying wakers through wake), advance the tick cursor, and cascade
// from coarse/coarsest on wrap-around.
func (lv *levels) step(wake func(TimerID)) {
	if lv.tick.occupied.isSet(lv.tick.cursor) {
		lv.tick.occupied.clear(lv.tick.cursor)
		for _, id := range lv.tick.buckets[lv.tick.cursor].drain() {
			wake(id)
		}
	}

	lv.tick.cursor = (lv.tick.cursor + 1) % tickBuckets
	if lv.tick.cursor != 0 {
		return
	}

	lv.cascadeCoarse()
	lv.coarse.cursor = (lv.coarse.cursor + 1) % coarseBuckets
	if lv.coarse.cursor != 0 {
		return
	}

	lv.cascadeCoarsest()
	lv.coarsest.cursor = (lv.coarsest.cursor + 1) % coarsestBuckets
}

// cascadeCoarse moves the coarse bucket at the current coarse cursor
// into the tick-level bucket at tick cursor 0 (the frame about to
// start), since those deadlines now lie within the next 100ms.
func (lv *levels) cascadeCoarse() {
	idx := lv.coarse.cursor
	if !lv.coarse.occupied.isSet(idx) {
		return
	}
	lv.coarse.occupied.clear(idx)

	entries := lv.coarse.buckets[idx].drain()
	lv.tick.occupied.set(lv.tick.cursor)
	lv.tick.buckets[lv.tick.cursor] = append(lv.tick.buckets[lv.tick.cursor], entries...)
}

// cascadeCoarsest moves the coarsest bucket at the current coarsest
// cursor into the coarse-level bucket at the current coarse cursor.
func (lv *levels) cascadeCoarsest() {
	idx := lv.coarsest.cursor
	if !lv.coarsest.occupied.isSet(idx) {
		return
	}
	lv.coarsest.occupied.clear(idx)

	entries := lv.coarsest.buckets[idx].drain()
	lv.coarse.occupied.set(lv.coarse.cursor)
	lv.coarse.buckets[lv.coarse.cursor] = append(lv.coarse.buckets[lv.coarse.cursor], entries...)
}

// nextDeadline scans occupancy bitsets outward from the current
// cursors and returns a conservative lower bound on the time until the
// next timer could fire, or false if nothing is occupied at any level.
// The current tick bucket (offset 0) is deliberately skipped: it is
// about to be drained by the next step() anyway, so reporting it here
// would promise a deadline that the caller could race past.
func (lv *levels) nextDeadline() (time.Duration, bool) {
	for i := 0; i < tickBuckets; i++ {
		idx := (lv.tick.cursor + i) % tickBuckets
		if !lv.tick.occupied.isSet(idx) {
			continue
		}
		if i == 0 {
			continue // drained by the next step(), not reported here.
		}
		return time.Duration(i*tickMillis) * time.Millisecond, true
	}

	for i := 0; i < coarseBuckets; i++ {
		idx := (lv.coarse.cursor + i) % coarseBuckets
		if !lv.coarse.occupied.isSet(idx) {
			continue
		}
		msRemaining := (tickBuckets - lv.tick.cursor) * tickMillis
		sRemaining := i * coarseMillis
		return time.Duration(msRemaining+sRemaining) * time.Millisecond, true
	}

	for i := 0; i < coarsestBuckets; i++ {
		idx := (lv.coarsest.cursor + i) % coarsestBuckets
		if !lv.coarsest.occupied.isSet(idx) {
			continue
		}
		msRemaining := (tickBuckets - lv.tick.cursor) * tickMillis
		sRemaining := (coarseBuckets - lv.coarse.cursor - 1) * coarseMillis
		hRemaining := i * coarsestMillis
		return time.Duration(msRemaining+sRemaining+hRemaining) * time.Millisecond, true
	}

	return 0, false
}
