package timer

import "time"

// Clock abstracts wall-clock access so engines can be tested against a
// controlled time source. Production code uses RealClock.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// NewTicker creates a ticker firing at intervals of duration d.
	NewTicker(d time.Duration) Ticker

	// AfterFunc runs f in its own goroutine after duration d and returns
	// a handle that can stop the pending call.
	AfterFunc(d time.Duration, f func()) TimerHandle
}

// Ticker is a repeating time source.
type Ticker interface {
	// C returns the ticker's time channel.
	C() <-chan time.Time

	// Stop turns off the ticker.
	Stop()
}

// TimerHandle is a pending one-shot call.
type TimerHandle interface {
	// Stop prevents the call from firing. Returns false if it already
	// fired or was stopped.
	Stop() bool
}

// RealClock returns a Clock backed by the standard time package.
func RealClock() Clock {
	return realClock{}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) NewTicker(d time.Duration) Ticker {
	return &realTicker{ticker: time.NewTicker(d)}
}

func (realClock) AfterFunc(d time.Duration, f func()) TimerHandle {
	return time.AfterFunc(d, f)
}

type realTicker struct {
	ticker *time.Ticker
}

func (t *realTicker) C() <-chan time.Time {
	return t.ticker.C
}

func (t *realTicker) Stop() {
	t.ticker.Stop()
}

// Compile-time interface satisfaction checks.
var (
	_ Clock       = realClock{}
	_ TimerHandle = (*time.Timer)(nil)
)
