package playback

import (
	"context"
	"sync"
	"time"
)

// Clock paces a run. Sleep returns early with ctx.Err() when ctx is done.
// Implementations must be safe for concurrent use.
type Clock interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// RealClock sleeps on wall-clock time.
type RealClock struct{}

func (RealClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RecordingClock never blocks; it records every requested delay. OnSleep,
// when set, is called after each recorded sleep, which lets tests act at a
// precise point in a run.
type RecordingClock struct {
	mu      sync.Mutex
	delays  []time.Duration
	OnSleep func(n int, d time.Duration)
}

func (c *RecordingClock) Sleep(ctx context.Context, d time.Duration) error {
	c.mu.Lock()
	c.delays = append(c.delays, d)
	n := len(c.delays)
	hook := c.OnSleep
	c.mu.Unlock()

	if hook != nil {
		hook(n, d)
	}
	return ctx.Err()
}

// Delays returns a copy of the recorded delays.
func (c *RecordingClock) Delays() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.delays...)
}

// Total sums the recorded delays.
func (c *RecordingClock) Total() time.Duration {
	var sum time.Duration
	for _, d := range c.Delays() {
		sum += d
	}
	return sum
}
