package timer

import (
	"testing"
	"time"
)

func fakeStart() time.Time {
	return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
}

func TestFakeClockNow(t *testing.T) {
	clock := NewFakeClock(fakeStart())

	if got := clock.Now(); !got.Equal(fakeStart()) {
		t.Errorf("Now() = %v, want %v", got, fakeStart())
	}

	clock.Advance(90 * time.Second)
	want := fakeStart().Add(90 * time.Second)
	if got := clock.Now(); !got.Equal(want) {
		t.Errorf("Now() after advance = %v, want %v", got, want)
	}
}

func TestFakeClockAfterFunc(t *testing.T) {
	tests := []struct {
		name       string
		delay      time.Duration
		advance    time.Duration
		shouldFire bool
	}{
		{"fires when advance reaches the deadline", 5 * time.Second, 5 * time.Second, true},
		{"fires when advance passes the deadline", 5 * time.Second, 10 * time.Second, true},
		{"holds before the deadline", 5 * time.Second, 3 * time.Second, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := NewFakeClock(fakeStart())

			fired := 0
			clock.AfterFunc(tt.delay, func() { fired++ })
			clock.Advance(tt.advance)

			want := 0
			if tt.shouldFire {
				want = 1
			}
			if fired != want {
				t.Errorf("fired %d times, want %d", fired, want)
			}
		})
	}
}

func TestFakeClockAfterFuncFiresOnce(t *testing.T) {
	clock := NewFakeClock(fakeStart())

	fired := 0
	clock.AfterFunc(time.Second, func() { fired++ })
	clock.Advance(time.Second)
	clock.Advance(time.Hour)

	if fired != 1 {
		t.Errorf("fired %d times, want 1", fired)
	}
}

func TestFakeClockAfterFuncStop(t *testing.T) {
	clock := NewFakeClock(fakeStart())

	fired := 0
	h := clock.AfterFunc(5*time.Second, func() { fired++ })

	if !h.Stop() {
		t.Error("first Stop() = false, want true")
	}
	if h.Stop() {
		t.Error("second Stop() = true, want false")
	}

	clock.Advance(10 * time.Second)
	if fired != 0 {
		t.Errorf("stopped call fired %d times, want 0", fired)
	}
}

func TestFakeClockTicker(t *testing.T) {
	tests := []struct {
		name     string
		interval time.Duration
		advance  time.Duration
		ticks    int
	}{
		{"one tick per interval", 5 * time.Second, 5 * time.Second, 1},
		{"multiple intervals", 5 * time.Second, 15 * time.Second, 3},
		{"none before the first interval", 5 * time.Second, 3 * time.Second, 0},
		{"partial trailing interval", 5 * time.Second, 12 * time.Second, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := NewFakeClock(fakeStart())
			tk := clock.NewTicker(tt.interval)
			defer tk.Stop()

			clock.Advance(tt.advance)

			got := 0
			for {
				select {
				case <-tk.C():
					got++
					continue
				default:
				}
				break
			}
			if got != tt.ticks {
				t.Errorf("received %d ticks, want %d", got, tt.ticks)
			}
		})
	}
}

func TestFakeClockStoppedTickerDoesNotFire(t *testing.T) {
	clock := NewFakeClock(fakeStart())
	tk := clock.NewTicker(5 * time.Second)
	tk.Stop()

	clock.Advance(time.Minute)

	select {
	case <-tk.C():
		t.Error("stopped ticker fired")
	default:
	}
}

func TestFakeClockTickCarriesAdvancedTime(t *testing.T) {
	clock := NewFakeClock(fakeStart())
	tk := clock.NewTicker(5 * time.Second)
	defer tk.Stop()

	clock.Advance(5 * time.Second)

	want := fakeStart().Add(5 * time.Second)
	select {
	case got := <-tk.C():
		if !got.Equal(want) {
			t.Errorf("tick time = %v, want %v", got, want)
		}
	default:
		t.Fatal("ticker did not fire")
	}
}

func TestFakeClockDeadlineOrder(t *testing.T) {
	clock := NewFakeClock(fakeStart())

	var order []string
	clock.AfterFunc(5*time.Second, func() { order = append(order, "b") })
	clock.AfterFunc(3*time.Second, func() { order = append(order, "a") })
	clock.AfterFunc(7*time.Second, func() { order = append(order, "c") })

	clock.Advance(10 * time.Second)

	if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Errorf("firing order = %v, want [a b c]", order)
	}
}

func TestFakeClockBlockUntil(t *testing.T) {
	clock := NewFakeClock(fakeStart())

	registered := make(chan struct{})
	go func() {
		clock.NewTicker(time.Second)
		close(registered)
	}()

	clock.BlockUntil(1)
	select {
	case <-registered:
	case <-time.After(time.Second):
		t.Fatal("BlockUntil returned before the ticker was registered")
	}
}
