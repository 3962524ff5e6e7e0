// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package timerwheel

import (
	"context"
	"sync"
	"time"
)

// chanWaker bridges the wheel's Wake() notification to a Go select
// statement: Wake closes ch exactly once, however many times it's
// called (the wheel only fires a given timer once, but Sleep doesn't
// need to trust that to stay safe).
type chanWaker struct {
	ch   chan struct{}
	once sync.Once
}

func newChanWaker() *chanWaker {
	return &chanWaker{ch: make(chan struct{})}
}

func (w *chanWaker) Wake() {
	w.once.Do(func() { close(w.ch) })
}

func (w *chanWaker) Equal(other Waker) bool {
	o, ok := other.(*chanWaker)
	return ok && o == w
}

// Sleep registers a timer for d on wheel and blocks until it fires or
// ctx is done, whichever comes first. On cancellation it drops the
// timer before returning ctx.Err(). It wraps Register+Poll+Drop into a
// single awaitable call; here the "runtime" is a bare select, since Go
// has no stdlib task/waker machinery of its own to plug into.
func Sleep(ctx context.Context, wheel *Wheel, d time.Duration) error {
	w := newChanWaker()
	id, err := wheel.Register(d, w)
	if err != nil {
		return err
	}

	select {
	case <-w.ch:
		if _, err := wheel.Poll(id, w); err != nil {
			return err
		}
		return nil
	case <-ctx.Done():
		_ = wheel.Drop(id)
		return ctx.Err()
	}
}
