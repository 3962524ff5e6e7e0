package timerwheel

import (
	"sync/atomic"
	"time"
)

// countingWaker is a Waker that counts how many times it has been
// woken, so tests can assert at-most-once firing and that a cancelled
// timer never fires.
type countingWaker struct {
	id    int
	count int32
}

func newCountingWaker(id int) *countingWaker {
	return &countingWaker{id: id}
}

func (w *countingWaker) Wake() {
	atomic.AddInt32(&w.count, 1)
}

func (w *countingWaker) Equal(other Waker) bool {
	o, ok := other.(*countingWaker)
	return ok && o.id == w.id
}

func (w *countingWaker) Count() int {
	return int(atomic.LoadInt32(&w.count))
}

// fakeClock is a manually-advanced Clock, so tests can assert exact
// tick counts instead of racing real sleeps.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(0, 0)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}
