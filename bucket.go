// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package timerwheel

// Bucket holds the ids scheduled to fire at the tick associated with a
// given (level, position). Entry order is immaterial; growth beyond the
// common case (≤8 entries) is allowed and just reallocates the slice,
// the same trade-off the original's SmallVec<[TimerId; 8]> makes.
type Bucket []TimerID

// drain returns the bucket's contents and empties it in place, reusing
// the backing array for the next cycle through this (level, position).
func (b *Bucket) drain() []TimerID {
	out := *b
	*b = (*b)[:0]
	return out
}

// bitset16 is the tick-level occupancy set (10 of its 16 bits used).
type bitset16 uint16

func (b *bitset16) set(idx int)          { *b |= 1 << uint(idx) }
func (b *bitset16) clear(idx int)        { *b &^= 1 << uint(idx) }
func (b bitset16) isSet(idx int) bool    { return b&(1<<uint(idx)) != 0 }

// bitset64 is the coarse-level occupancy set (60 of its 64 bits used).
type bitset64 uint64

func (b *bitset64) set(idx int)       { *b |= 1 << uint(idx) }
func (b *bitset64) clear(idx int)     { *b &^= 1 << uint(idx) }
func (b bitset64) isSet(idx int) bool { return b&(1<<uint(idx)) != 0 }

// bitset32 is the coarsest-level occupancy set (24 of its 32 bits used).
type bitset32 uint32

func (b *bitset32) set(idx int)       { *b |= 1 << uint(idx) }
func (b *bitset32) clear(idx int)     { *b &^= 1 << uint(idx) }
func (b bitset32) isSet(idx int) bool { return b&(1<<uint(idx)) != 0 }
