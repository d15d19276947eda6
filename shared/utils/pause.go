package utils

import (
	"context"
	"runtime"
	"time"
)

// Pause blocks the calling goroutine for d, simulating network latency.
// A zero or negative d still yields to the scheduler before returning, so a
// pause never resolves without letting other goroutines run.
func Pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		runtime.Gosched()
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
