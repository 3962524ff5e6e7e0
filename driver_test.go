package timerwheel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDriverFiresRegisteredTimer(t *testing.T) {
	wh := NewWheel()
	w := newCountingWaker(0)

	_, err := wh.Register(20*time.Millisecond, w)
	require.NoError(t, err)

	d := NewDriver(wh, 5*time.Millisecond)
	d.Start()
	defer d.Stop()

	require.Eventually(t, func() bool {
		return w.Count() == 1
	}, time.Second, time.Millisecond)
}

func TestDriverStopDrainsPendingTicks(t *testing.T) {
	wh := NewWheel()
	w := newCountingWaker(0)

	_, err := wh.Register(5*time.Millisecond, w)
	require.NoError(t, err)

	d := NewDriver(wh, 5*time.Millisecond)
	d.Start()
	time.Sleep(20 * time.Millisecond)
	d.Stop()

	require.Equal(t, 1, w.Count())
}

func TestDriverDefaultPeriod(t *testing.T) {
	d := NewDriver(NewWheel(), 0)
	require.Equal(t, DefaultPeriod, d.period)
}
