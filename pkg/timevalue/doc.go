// Package timevalue implements the immutable time value of a countdown timer.
//
// A Value pairs a fixed total duration with the remaining duration. Values
// are immutable: every transform returns a new Value, so a Value can be
// shared between the engine and any number of subscribers without locking.
//
// # Transforms
//
//   - WithRemaining adjusts the remaining duration (clamped by callers).
//   - TurnBack restores remaining to the full total (used by reset).
//   - Expire forces remaining to zero (used by stop and natural expiry).
//
// # Invariants
//
// The total duration is strictly positive and never changes except through
// construction. The remaining duration stays within [0, total]; while a
// timer is running it only ever decreases.
package timevalue
