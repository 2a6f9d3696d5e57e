package globe

import "time"

// AnimationClock is a monotonic elapsed-time source. It starts when created
// and never pauses or resets.
type AnimationClock struct {
	start time.Time
	now   func() time.Time
}

// NewAnimationClock starts a clock reading time.Now.
func NewAnimationClock() *AnimationClock {
	return newClockWith(time.Now)
}

func newClockWith(now func() time.Time) *AnimationClock {
	return &AnimationClock{start: now(), now: now}
}

// Elapsed returns the seconds since the clock was created.
func (c *AnimationClock) Elapsed() float64 {
	d := c.now().Sub(c.start)
	if d < 0 {
		return 0
	}
	return d.Seconds()
}

// RotationAt returns the globe spin for an elapsed time: rate * t. The spin
// is recomputed from the clock every frame rather than accumulated.
func RotationAt(rate, elapsed float64) float64 {
	return rate * elapsed
}
