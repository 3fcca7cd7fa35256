package timevalue

import (
	"errors"
	"fmt"
	"time"
)

// Time value errors.
var (
	// ErrInvalidDuration indicates a non-positive total or a negative
	// remaining duration. This is a contract violation by the caller.
	ErrInvalidDuration = errors.New("invalid duration")
)

// Value is an immutable (total, remaining) duration pair.
// The zero Value is not valid; construct with New.
type Value struct {
	total     time.Duration
	remaining time.Duration
}

// New creates a Value with the given total duration and a full remaining
// duration. Returns ErrInvalidDuration if total is not strictly positive.
func New(total time.Duration) (Value, error) {
	if total <= 0 {
		return Value{}, fmt.Errorf("total %v: %w", total, ErrInvalidDuration)
	}
	return Value{total: total, remaining: total}, nil
}

// Total returns the fixed total duration.
func (v Value) Total() time.Duration {
	return v.total
}

// Remaining returns the remaining duration.
func (v Value) Remaining() time.Duration {
	return v.remaining
}

// WithRemaining returns a copy of v with the remaining duration set to d,
// capped at the total. Returns ErrInvalidDuration if d is negative; callers
// must clamp elapsed-time arithmetic to zero before calling.
func (v Value) WithRemaining(d time.Duration) (Value, error) {
	if d < 0 {
		return Value{}, fmt.Errorf("remaining %v: %w", d, ErrInvalidDuration)
	}
	if d > v.total {
		d = v.total
	}
	return Value{total: v.total, remaining: d}, nil
}

// TurnBack returns a copy of v with the remaining duration restored to the
// full total.
func (v Value) TurnBack() Value {
	return Value{total: v.total, remaining: v.total}
}

// Expire returns a copy of v with zero remaining duration.
func (v Value) Expire() Value {
	return Value{total: v.total}
}

// IsExpired returns true if no duration remains.
func (v Value) IsExpired() bool {
	return v.remaining <= 0
}

// Progress returns the elapsed fraction in [0, 1].
// A freshly constructed Value reports 0; an expired one reports 1.
func (v Value) Progress() float64 {
	if v.total <= 0 {
		return 0
	}
	return float64(v.total-v.remaining) / float64(v.total)
}

// String formats the remaining duration as MM:SS, or H:MM:SS for values of
// an hour or more. Sub-second remainders round up so the display reaches
// 00:00 only at actual expiry.
func (v Value) String() string {
	secs := int64((v.remaining + time.Second - 1) / time.Second)
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
