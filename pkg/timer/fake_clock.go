package timer

import (
	"sync"
	"time"
)

// FakeClock is a Clock for tests, advanced manually with Advance. It is
// safe for concurrent use with goroutines that read the clock.
type FakeClock struct {
	mu      sync.Mutex
	cond    *sync.Cond
	now     time.Time
	timers  []*fakeTimer
	tickers []*fakeTicker
}

// NewFakeClock creates a FakeClock frozen at start.
func NewFakeClock(start time.Time) *FakeClock {
	c := &FakeClock{now: start}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Now returns the fake current time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// NewTicker creates a ticker that fires only when Advance crosses its
// interval boundaries.
func (c *FakeClock) NewTicker(d time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()

	tk := &fakeTicker{
		clock:    c,
		interval: d,
		nextTick: c.now.Add(d),
		ch:       make(chan time.Time, 100),
	}
	c.tickers = append(c.tickers, tk)
	c.cond.Broadcast()
	return tk
}

// AfterFunc registers f to run once Advance crosses the deadline. Unlike
// time.AfterFunc, f runs synchronously inside the Advance call, after the
// clock has moved, so tests observe its effects deterministically.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) TimerHandle {
	c.mu.Lock()
	defer c.mu.Unlock()

	ft := &fakeTimer{
		clock:    c,
		deadline: c.now.Add(d),
		fn:       f,
	}
	c.timers = append(c.timers, ft)
	c.cond.Broadcast()
	return ft
}

// Advance moves the clock forward by d, firing every ticker tick and every
// pending AfterFunc whose deadline falls inside the window, in deadline
// order.
func (c *FakeClock) Advance(d time.Duration) {
	var due []func()

	c.mu.Lock()
	target := c.now.Add(d)
	for {
		next := target
		for _, ft := range c.timers {
			if !ft.stopped && ft.deadline.After(c.now) && ft.deadline.Before(next) {
				next = ft.deadline
			}
		}
		for _, tk := range c.tickers {
			if !tk.stopped && tk.nextTick.After(c.now) && tk.nextTick.Before(next) {
				next = tk.nextTick
			}
		}
		c.now = next

		for _, ft := range c.timers {
			if !ft.stopped && !ft.deadline.After(c.now) {
				ft.stopped = true
				due = append(due, ft.fn)
			}
		}
		for _, tk := range c.tickers {
			for !tk.stopped && !tk.nextTick.After(c.now) {
				select {
				case tk.ch <- c.now:
				default:
				}
				tk.nextTick = tk.nextTick.Add(tk.interval)
			}
		}

		if next.Equal(target) {
			break
		}
	}
	c.mu.Unlock()

	for _, f := range due {
		f()
	}
}

// BlockUntil blocks until at least n timers and tickers are live on the
// clock. Tests use it to wait for a goroutine to register its time source
// before advancing.
func (c *FakeClock) BlockUntil(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.liveLocked() < n {
		c.cond.Wait()
	}
}

func (c *FakeClock) liveLocked() int {
	live := 0
	for _, ft := range c.timers {
		if !ft.stopped {
			live++
		}
	}
	for _, tk := range c.tickers {
		if !tk.stopped {
			live++
		}
	}
	return live
}

// fakeTimer is a pending AfterFunc call.
type fakeTimer struct {
	clock    *FakeClock
	deadline time.Time
	fn       func()
	stopped  bool
}

func (ft *fakeTimer) Stop() bool {
	ft.clock.mu.Lock()
	defer ft.clock.mu.Unlock()

	if ft.stopped {
		return false
	}
	ft.stopped = true
	return true
}

// fakeTicker fires into a buffered channel during Advance.
type fakeTicker struct {
	clock    *FakeClock
	interval time.Duration
	nextTick time.Time
	ch       chan time.Time
	stopped  bool
}

func (tk *fakeTicker) C() <-chan time.Time {
	return tk.ch
}

func (tk *fakeTicker) Stop() {
	tk.clock.mu.Lock()
	defer tk.clock.mu.Unlock()
	tk.stopped = true
}

// Compile-time interface satisfaction checks.
var (
	_ Clock       = (*FakeClock)(nil)
	_ Ticker      = (*fakeTicker)(nil)
	_ TimerHandle = (*fakeTimer)(nil)
)
