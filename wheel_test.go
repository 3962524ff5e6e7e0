package timerwheel

import (
	"testing"
	"time"
)

func TestWheelFiresAtTickLevel(t *testing.T) {
	clk := newFakeClock()
	wh := NewWheelWithClock(clk)
	w := newCountingWaker(0)

	if _, err := wh.Register(20*time.Millisecond, w); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clk.advance(35 * time.Millisecond)
	wh.Tick()

	if w.Count() != 1 {
		t.Fatalf("expected waker notified once, got %d", w.Count())
	}
}

func TestWheelCancelledTimerNeverFires(t *testing.T) {
	clk := newFakeClock()
	wh := NewWheelWithClock(clk)
	w := newCountingWaker(0)

	id, err := wh.Register(50*time.Millisecond, w)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := wh.Drop(id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clk.advance(60 * time.Millisecond)
	wh.Tick()

	if w.Count() != 0 {
		t.Fatalf("cancelled timer fired %d times", w.Count())
	}

	ready, err := wh.Poll(id, w)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ready {
		t.Fatalf("expected Ready after the driver drains a cancelled timer")
	}
}

func TestWheelZeroDurationFiresOnNextTick(t *testing.T) {
	clk := newFakeClock()
	wh := NewWheelWithClock(clk)
	w := newCountingWaker(0)

	id, err := wh.Register(0, w)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := wh.NextDeadline(); ok {
		t.Fatalf("expected no deadline for a timer in the current bucket before tick")
	}

	clk.advance(15 * time.Millisecond)
	wh.Tick()

	if w.Count() != 1 {
		t.Fatalf("expected waker notified once, got %d", w.Count())
	}
	ready, err := wh.Poll(id, w)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ready {
		t.Fatalf("expected Ready")
	}
}

func TestWheelCoarseCascadeToTick(t *testing.T) {
	clk := newFakeClock()
	wh := NewWheelWithClock(clk)
	w := newCountingWaker(0)

	if _, err := wh.Register(150*time.Millisecond, w); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d, ok := wh.NextDeadline()
	if !ok || d < 100*time.Millisecond {
		t.Fatalf("expected next deadline >= 100ms, got %s (ok=%v)", d, ok)
	}

	clk.advance(200 * time.Millisecond)
	wh.Tick()

	if w.Count() != 1 {
		t.Fatalf("expected waker notified once via coarse->tick cascade, got %d", w.Count())
	}
}

func TestWheelCoarsestLevelPlacement(t *testing.T) {
	clk := newFakeClock()
	wh := NewWheelWithClock(clk)
	w := newCountingWaker(0)

	if _, err := wh.Register(7200*time.Second, w); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d, ok := wh.NextDeadline()
	if !ok || d < 60*time.Second {
		t.Fatalf("expected next deadline >= 60s, got %s (ok=%v)", d, ok)
	}
}

func TestWheelManyTimersAllFireExactlyOnce(t *testing.T) {
	clk := newFakeClock()
	wh := NewWheelWithClock(clk)

	const n = 20
	wakers := make([]*countingWaker, n)
	ids := make([]TimerID, n)
	for i := 0; i < n; i++ {
		wakers[i] = newCountingWaker(i)
		id, err := wh.Register(20*time.Millisecond, wakers[i])
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ids[i] = id
	}

	clk.advance(35 * time.Millisecond)
	wh.Tick()

	for i := 0; i < n; i++ {
		if wakers[i].Count() != 1 {
			t.Fatalf("timer %d notified %d times, want 1", i, wakers[i].Count())
		}
		ready, err := wh.Poll(ids[i], wakers[i])
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ready {
			t.Fatalf("timer %d expected Ready", i)
		}
	}
}

func TestWheelRejectsDurationTooLong(t *testing.T) {
	wh := NewWheel()
	w := newCountingWaker(0)

	if _, err := wh.Register(24*time.Hour, w); err != ErrDurationTooLong {
		t.Fatalf("expected ErrDurationTooLong, got %v", err)
	}
	if _, err := wh.Register(25*time.Hour, w); err != ErrDurationTooLong {
		t.Fatalf("expected ErrDurationTooLong, got %v", err)
	}
}

func TestWheelAcceptsDurationAtLimit(t *testing.T) {
	wh := NewWheel()
	w := newCountingWaker(0)

	if _, err := wh.Register(23*time.Hour, w); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWheelNextDeadlineEmpty(t *testing.T) {
	wh := NewWheel()
	if _, ok := wh.NextDeadline(); ok {
		t.Fatalf("expected no deadline for an empty wheel")
	}
}

func TestWheelPollDistinctWakerReplacesStored(t *testing.T) {
	clk := newFakeClock()
	wh := NewWheelWithClock(clk)
	w1 := newCountingWaker(1)
	w2 := newCountingWaker(2)

	id, err := wh.Register(20*time.Millisecond, w1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := wh.Poll(id, w2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clk.advance(35 * time.Millisecond)
	wh.Tick()

	if w1.Count() != 0 {
		t.Fatalf("stale waker notified %d times after Poll replaced it", w1.Count())
	}
	if w2.Count() != 1 {
		t.Fatalf("current waker notified %d times, want 1", w2.Count())
	}
}

func TestWheelTimerNotFiredTooEarly(t *testing.T) {
	clk := newFakeClock()
	wh := NewWheelWithClock(clk)
	w := newCountingWaker(0)

	if _, err := wh.Register(100*time.Millisecond, w); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clk.advance(30 * time.Millisecond)
	wh.Tick()

	if w.Count() != 0 {
		t.Fatalf("expected no notification yet, got %d", w.Count())
	}
}
