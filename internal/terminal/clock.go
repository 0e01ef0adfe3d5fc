package terminal

import (
	"context"
	"time"
)

// Clock caps a loop to a number of iterations per second by sleeping away
// whatever is left of the frame budget.
type Clock struct {
	last time.Time
}

// Tick waits until 1/fps has passed since the previous Tick. A non-positive
// fps never waits. It returns early with ctx's error if ctx is done.
func (c *Clock) Tick(ctx context.Context, fps int) error {
	now := time.Now()
	if fps <= 0 || c.last.IsZero() {
		c.last = now
		return ctx.Err()
	}

	budget := time.Second / time.Duration(fps)
	wait := budget - now.Sub(c.last)
	if wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	c.last = time.Now()
	return nil
}
