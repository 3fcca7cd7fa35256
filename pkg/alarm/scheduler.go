package alarm

import (
	"sync"
	"time"

	"github.com/hourglass-app/hourglass-go/pkg/timer"
)

// Alarm is one pending notification.
type Alarm struct {
	// ID identifies the alarm; derived from the timer identity.
	ID string

	// FireAt is the absolute instant the alarm fires.
	FireAt time.Time

	// Payload is the timer's display name, carried into the
	// notification.
	Payload string

	// handle is the pending one-shot call.
	handle timer.TimerHandle
}

// Scheduler schedules one-shot alarms keyed by identifier.
// Safe for concurrent use; shared by all engines.
type Scheduler struct {
	mu       sync.Mutex
	clock    timer.Clock
	pending  map[string]*Alarm
	notifier Notifier
}

// NewScheduler creates a scheduler delivering fired alarms to notifier.
// A nil notifier discards firings. A nil clock selects the real clock.
func NewScheduler(notifier Notifier, clock timer.Clock) *Scheduler {
	if clock == nil {
		clock = timer.RealClock()
	}
	if notifier == nil {
		notifier = NotifierFunc(func(string, string) {})
	}
	return &Scheduler{
		clock:    clock,
		pending:  make(map[string]*Alarm),
		notifier: notifier,
	}
}

// Schedule arranges a one-shot alarm at fireAt, replacing any pending
// alarm with the same identifier. A fire time at or before the current
// instant is a no-op: past-due alarms are never scheduled.
func (s *Scheduler) Schedule(id string, fireAt time.Time, payload string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.pending[id]; ok {
		existing.handle.Stop()
		delete(s.pending, id)
	}

	delay := fireAt.Sub(s.clock.Now())
	if delay <= 0 {
		return nil
	}

	a := &Alarm{ID: id, FireAt: fireAt, Payload: payload}
	a.handle = s.clock.AfterFunc(delay, func() {
		s.fire(id)
	})
	s.pending[id] = a
	return nil
}

// Cancel removes the pending alarm for id without firing it. Cancelling an
// absent alarm is not an error.
func (s *Scheduler) Cancel(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.pending[id]
	if !ok {
		return nil
	}
	a.handle.Stop()
	delete(s.pending, id)
	return nil
}

// Pending returns the pending alarm for id, or nil.
func (s *Scheduler) Pending(id string) *Alarm {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.pending[id]
	if !ok {
		return nil
	}
	return &Alarm{ID: a.ID, FireAt: a.FireAt, Payload: a.Payload}
}

// Count returns the number of pending alarms.
func (s *Scheduler) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Close cancels every pending alarm.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, a := range s.pending {
		a.handle.Stop()
		delete(s.pending, id)
	}
}

// fire delivers an alarm that reached its fire time.
func (s *Scheduler) fire(id string) {
	s.mu.Lock()

	a, ok := s.pending[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	delete(s.pending, id)
	notifier := s.notifier

	s.mu.Unlock()

	// Deliver outside the lock.
	notifier.Notify(a.ID, a.Payload)
}
