// Package engine implements the countdown timer engine.
//
// One Engine owns one timer record and drives every state transition:
// start, pause, stop, reset, update, and the background tick that advances
// a running countdown toward zero. The engine persists each transition
// through the Store port and keeps at most one pending alarm per timer
// through the Alarms port.
//
// # Ticking
//
// While running, a background tick source recomputes the remaining time
// from the absolute expiry instant on every tick. Remaining time is never
// derived by decrementing a counter, so scheduling jitter or a suspended
// process cannot accumulate drift: after an arbitrary gap the next tick
// lands on the correct value. When the countdown reaches zero the engine
// performs the finished transition exactly once and the tick source
// terminates itself.
//
// The tick source is an explicit three-state handle: absent, active, or
// suspended. Pausing suspends it without tearing it down; stopping resumes
// a suspended source first and then cancels it. Cancelling a suspended
// source is rejected with ErrTickSuspended.
//
// # Reconciliation
//
// Constructing an engine for an identity that already has a persisted
// snapshot adopts the snapshot instead of starting fresh. A running
// snapshot's remaining time is recomputed from its stored expiry against
// the current wall clock, finishing immediately when the expiry has
// already passed. This is what lets a timer keep counting down, or
// discover it expired, across process suspension and restarts.
//
// # Ordering
//
// Commands and ticks are serialized on the engine's lock, and stream
// publishes happen under that lock, so subscribers observe updates in
// exactly the order the engine produced them.
package engine
