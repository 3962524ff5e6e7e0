// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package timerwheel

// Waker is the continuation handle a task hands to Register or Poll.
// Wake is invoked by the driver's firing path (by reference, never
// consumed) when the timer's deadline arrives. Equal is the cheap
// identity check storage.poll uses to avoid replacing the stored waker
// with a clone of itself (the Go analogue of Rust's Waker::will_wake).
type Waker interface {
	Wake()
	Equal(other Waker) bool
}

// funcWaker adapts a plain function to the Waker interface. Two
// funcWaker values are Equal only if they share the same underlying id,
// since function values themselves are not comparable in Go.
type funcWaker struct {
	id int
	f  func()
}

// NewFuncWaker builds a Waker that calls f on Wake. id distinguishes
// this waker from others built from distinct calls for the purpose of
// Equal; callers that re-poll with "the same" continuation should reuse
// the same id.
func NewFuncWaker(id int, f func()) Waker {
	return &funcWaker{id: id, f: f}
}

func (w *funcWaker) Wake() {
	w.f()
}

func (w *funcWaker) Equal(other Waker) bool {
	o, ok := other.(*funcWaker)
	return ok && o.id == w.id
}
