package engine

import "time"

// Clock is the time source of the tick scheduler
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock reads the monotonic system clock and sleeps for real
type SystemClock struct{}

// NewSystemClock creates a clock backed by the time package
func NewSystemClock() *SystemClock {
	return &SystemClock{}
}

// Now returns the current time with monotonic clock reading
func (c *SystemClock) Now() time.Time {
	return time.Now()
}

// Sleep blocks the calling goroutine for d
func (c *SystemClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
