package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hourglass-app/hourglass-go/pkg/journal"
	"github.com/hourglass-app/hourglass-go/pkg/timer"
	"github.com/hourglass-app/hourglass-go/pkg/timevalue"
)

// Engine errors.
var (
	// ErrPersistenceUnavailable wraps a failed persistence call. The
	// engine keeps its prior state; retrying is the caller's choice.
	ErrPersistenceUnavailable = errors.New("persistence unavailable")

	// ErrAlarmScheduling wraps a failed alarm call. Non-fatal: the
	// countdown continues, only the notification is lost.
	ErrAlarmScheduling = errors.New("alarm scheduling failed")

	// ErrClosed indicates a command against a closed engine.
	ErrClosed = errors.New("engine closed")

	// ErrTickSuspended indicates an attempt to cancel a suspended tick
	// source. The source must be resumed before cancellation.
	ErrTickSuspended = errors.New("cannot cancel a suspended tick source")
)

// DefaultTickInterval is the tick polling interval used when the
// configuration leaves it unset.
const DefaultTickInterval = 100 * time.Millisecond

// Config holds engine configuration. The zero value selects the real
// clock, the default tick interval, and no journal.
type Config struct {
	// TickInterval is the polling interval of the tick loop.
	TickInterval time.Duration

	// Clock is the time source. Defaults to timer.RealClock().
	Clock timer.Clock

	// Journal receives engine events. Defaults to journal.NoopJournal.
	Journal journal.Journal
}

func (c Config) withDefaults() Config {
	if c.TickInterval <= 0 {
		c.TickInterval = DefaultTickInterval
	}
	if c.Clock == nil {
		c.Clock = timer.RealClock()
	}
	if c.Journal == nil {
		c.Journal = journal.NoopJournal{}
	}
	return c
}

// Engine owns one timer record and drives all of its state transitions.
// All methods are safe for concurrent use; commands are serialized with
// respect to ticks on the engine's lock.
type Engine struct {
	mu sync.Mutex

	rec timer.Record

	// expiry is the absolute instant the countdown reaches zero.
	// Valid only while the record is running.
	expiry time.Time

	// tick is the background tick source. Nil when absent.
	tick *tickHandle

	closed bool

	store    Store
	alarms   Alarms
	clock    timer.Clock
	interval time.Duration
	journal  journal.Journal

	values *Stream[timevalue.Value]
	states *Stream[timer.State]
}

// New creates an engine for rec.
//
// If the store already holds a snapshot for rec's identity, the snapshot
// wins: the engine adopts it and, for a running snapshot, recomputes the
// remaining time from the stored expiry (finishing immediately when the
// expiry has passed). Without a snapshot the record is persisted as-is and
// the engine starts fresh; rec must then carry a valid time value.
func New(rec timer.Record, store Store, alarms Alarms, cfg Config) (*Engine, error) {
	if store == nil {
		return nil, errors.New("engine: store is required")
	}
	if alarms == nil {
		return nil, errors.New("engine: alarms port is required")
	}

	cfg = cfg.withDefaults()
	e := &Engine{
		rec:      rec,
		store:    store,
		alarms:   alarms,
		clock:    cfg.Clock,
		interval: cfg.TickInterval,
		journal:  cfg.Journal,
		values:   newStream[timevalue.Value](),
		states:   newStream[timer.State](),
	}

	snap, err := store.Find(rec.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistenceUnavailable, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if snap == nil {
		if rec.Time.Total() <= 0 {
			return nil, fmt.Errorf("engine: record %s: %w", rec.ID, timevalue.ErrInvalidDuration)
		}
		if err := e.store.Save(e.snapshotLocked()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrPersistenceUnavailable, err)
		}
	} else if err := e.adoptLocked(*snap); err != nil {
		return nil, err
	}

	e.publishLocked()
	return e, nil
}

// adoptLocked reconciles the engine with a persisted snapshot.
func (e *Engine) adoptLocked(snap timer.Snapshot) error {
	tv, err := timevalue.New(snap.Total)
	if err != nil {
		return fmt.Errorf("engine: snapshot for %s: %w", snap.ID, err)
	}

	e.rec = timer.Record{
		ID:    snap.ID,
		Name:  snap.Name,
		Tag:   snap.Tag,
		Time:  tv,
		State: snap.State,
	}

	if snap.State != timer.StateRunning {
		remaining := snap.Remaining
		if remaining < 0 {
			remaining = 0
		}
		e.rec.Time, _ = tv.WithRemaining(remaining)
		return nil
	}

	remaining := snap.Expiry.Sub(e.clock.Now())
	if remaining <= 0 {
		// Expired while no process was alive.
		e.rec.State = timer.StateRunning
		e.finishLocked()
		return nil
	}

	e.rec.Time, _ = tv.WithRemaining(remaining)
	e.rec.State = timer.StateRunning
	e.expiry = snap.Expiry
	// The previous process's pending alarm did not survive it.
	e.scheduleAlarmLocked(snap.Expiry)
	e.spawnTickLocked()
	return nil
}

// Record returns a copy of the current timer record.
func (e *Engine) Record() timer.Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rec
}

// State returns the current lifecycle state.
func (e *Engine) State() timer.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rec.State
}

// Time returns the current time value.
func (e *Engine) Time() timevalue.Value {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rec.Time
}

// Values is the replay-latest stream of time values. Every tick and every
// transition publishes the current value.
func (e *Engine) Values() *Stream[timevalue.Value] {
	return e.values
}

// States is the replay-latest stream of lifecycle states.
func (e *Engine) States() *Stream[timer.State] {
	return e.states
}

// Start begins or resumes the countdown. Valid from the ready and paused
// states; a no-op otherwise. The expiry instant is computed from the
// current remaining time, persisted, and only then is the alarm scheduled.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}
	if e.rec.State != timer.StateReady && e.rec.State != timer.StatePaused {
		return nil
	}

	remaining := e.rec.Time.Remaining()
	expiry := e.clock.Now().Add(remaining)

	old := e.rec.State
	e.rec.State = timer.StateRunning
	e.expiry = expiry
	if err := e.store.Save(e.snapshotLocked()); err != nil {
		e.rec.State = old
		e.expiry = time.Time{}
		e.recordStoreErrorLocked(err)
		return fmt.Errorf("%w: %w", ErrPersistenceUnavailable, err)
	}

	if e.tick == nil {
		e.spawnTickLocked()
	} else {
		e.tick.resume()
	}

	e.journalTransitionLocked(old)
	e.publishLocked()

	return e.scheduleAlarmLocked(expiry)
}

// Pause freezes a running countdown at its current remaining time. The
// tick source is suspended, not destroyed. A no-op unless running.
func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}
	if e.rec.State != timer.StateRunning {
		return nil
	}

	remaining := e.expiry.Sub(e.clock.Now())
	if remaining < 0 {
		remaining = 0
	}
	tv, err := e.rec.Time.WithRemaining(remaining)
	if err != nil {
		return err
	}

	old := e.rec.State
	oldTime := e.rec.Time
	oldExpiry := e.expiry
	e.rec.Time = tv
	e.rec.State = timer.StatePaused
	e.expiry = time.Time{}
	if err := e.store.Save(e.snapshotLocked()); err != nil {
		e.rec.State = old
		e.rec.Time = oldTime
		e.expiry = oldExpiry
		e.recordStoreErrorLocked(err)
		return fmt.Errorf("%w: %w", ErrPersistenceUnavailable, err)
	}

	e.tick.suspend()
	e.cancelAlarmLocked()
	e.journalTransitionLocked(old)
	e.publishLocked()
	return nil
}

// Stop terminates the countdown, forcing the remaining time to zero. Valid
// from the running and paused states; a no-op otherwise, so stopping an
// already finished timer causes no duplicate persistence or alarm calls.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}
	if e.rec.State != timer.StateRunning && e.rec.State != timer.StatePaused {
		return nil
	}

	old := e.rec.State
	oldTime := e.rec.Time
	e.rec.Time = e.rec.Time.Expire()
	e.rec.State = timer.StateFinished
	e.expiry = time.Time{}
	if err := e.store.Save(e.snapshotLocked()); err != nil {
		e.rec.State = old
		e.rec.Time = oldTime
		e.recordStoreErrorLocked(err)
		return fmt.Errorf("%w: %w", ErrPersistenceUnavailable, err)
	}

	e.teardownTickLocked()
	e.cancelAlarmLocked()
	e.journalTransitionLocked(old)
	e.publishLocked()
	return nil
}

// Reset returns the timer to the ready state with the full duration,
// regardless of its prior state.
func (e *Engine) Reset() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}
	return e.resetLocked()
}

// Update replaces the record's metadata and, when a total duration is
// given, its time value. The new snapshot is persisted first; on success
// the reset effect is applied, so an edited timer always ends up ready.
func (e *Engine) Update(u timer.RecordUpdate) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}

	name := e.rec.Name
	if u.Name != nil {
		name = *u.Name
	}
	tag := e.rec.Tag
	if u.Tag != nil {
		tag = *u.Tag
	}
	total := e.rec.Time.Total()
	if u.Total != nil {
		total = *u.Total
	}

	tv, err := timevalue.New(total)
	if err != nil {
		return err
	}

	snap := timer.Snapshot{
		ID:        e.rec.ID,
		Name:      name,
		Tag:       tag,
		State:     timer.StateReady,
		Total:     total,
		Remaining: total,
	}
	if err := e.store.Save(snap); err != nil {
		e.recordStoreErrorLocked(err)
		return fmt.Errorf("%w: %w", ErrPersistenceUnavailable, err)
	}

	old := e.rec.State
	e.rec.Name = name
	e.rec.Tag = tag
	e.rec.Time = tv
	e.rec.State = timer.StateReady
	e.expiry = time.Time{}

	e.teardownTickLocked()
	e.cancelAlarmLocked()
	e.journalTransitionLocked(old)
	e.publishLocked()
	return nil
}

// Close destroys the engine: the tick source is torn down and any pending
// alarm is cancelled, so nothing fires against a dead engine. The persisted
// snapshot is left in place for the next process. Safe to call twice.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	h := e.tick
	e.teardownTickLocked()
	e.cancelAlarmLocked()
	e.mu.Unlock()

	if h != nil {
		<-h.done
	}
}

// resetLocked applies the reset effect: remaining back to total, tick
// source gone, alarm cancelled, ready state persisted.
func (e *Engine) resetLocked() error {
	if e.rec.State == timer.StateReady && e.rec.Time.Remaining() == e.rec.Time.Total() {
		return nil
	}

	old := e.rec.State
	oldTime := e.rec.Time
	e.rec.Time = e.rec.Time.TurnBack()
	e.rec.State = timer.StateReady
	e.expiry = time.Time{}
	if err := e.store.Save(e.snapshotLocked()); err != nil {
		e.rec.State = old
		e.rec.Time = oldTime
		e.recordStoreErrorLocked(err)
		return fmt.Errorf("%w: %w", ErrPersistenceUnavailable, err)
	}

	e.teardownTickLocked()
	e.cancelAlarmLocked()
	e.journalTransitionLocked(old)
	e.publishLocked()
	return nil
}

// spawnTickLocked starts the background tick goroutine.
func (e *Engine) spawnTickLocked() {
	h := newTickHandle()
	e.tick = h
	go e.tickLoop(h)
}

// teardownTickLocked terminates the tick source if one exists. A suspended
// source is resumed first: cancelling from the suspended state is invalid.
func (e *Engine) teardownTickLocked() {
	h := e.tick
	if h == nil {
		return
	}
	h.resume()
	if err := h.cancel(); err != nil {
		// Unreachable after resume; kept as a hard failure because a
		// leaked tick goroutine would outlive its record.
		panic(err)
	}
	e.tick = nil
}

// tickLoop runs the background tick source. It owns its ticker; control
// arrives on the handle's channel.
func (e *Engine) tickLoop(h *tickHandle) {
	defer close(h.done)

	tk := e.clock.NewTicker(e.interval)
	suspended := false

	for {
		if suspended {
			cmd, ok := <-h.ctrl
			if !ok {
				return
			}
			switch cmd {
			case tickCmdResume:
				tk = e.clock.NewTicker(e.interval)
				suspended = false
			case tickCmdCancel:
				return
			}
			continue
		}

		select {
		case cmd := <-h.ctrl:
			switch cmd {
			case tickCmdSuspend:
				tk.Stop()
				suspended = true
			case tickCmdCancel:
				tk.Stop()
				return
			}
		case <-tk.C():
			if e.handleTick(h) {
				tk.Stop()
				return
			}
		}
	}
}

// handleTick recomputes the remaining time from the absolute expiry and
// publishes it. Returns true when the countdown finished and the loop
// should terminate. A tick that lost the race against a command observes a
// non-running state and is dropped.
func (e *Engine) handleTick(h *tickHandle) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || e.tick != h || h.state != tickActive || e.rec.State != timer.StateRunning {
		return false
	}

	// Wall-clock delta against the captured expiry. Correct across
	// process suspension; a system clock change shifts the countdown
	// accordingly (known limitation, deliberately not guarded).
	remaining := e.expiry.Sub(e.clock.Now())
	if remaining > 0 {
		tv, err := e.rec.Time.WithRemaining(remaining)
		if err != nil {
			return false
		}
		e.rec.Time = tv
		e.values.publish(tv)
		return false
	}

	e.finishLocked()
	e.tick = nil
	return true
}

// finishLocked performs the finished transition from the running state.
// The alarm fires on its own at expiry, so it is not cancelled here. A
// failed save is journaled but does not undo the transition: the timer
// factually expired.
func (e *Engine) finishLocked() {
	old := e.rec.State
	e.rec.Time = e.rec.Time.Expire()
	e.rec.State = timer.StateFinished
	e.rec.AlarmID = ""
	e.expiry = time.Time{}

	if err := e.store.Save(e.snapshotLocked()); err != nil {
		e.recordStoreErrorLocked(err)
	}
	e.journalTransitionLocked(old)
	e.publishLocked()
}

// snapshotLocked builds the durable form of the current record. A running
// record stores its absolute expiry; every other state stores the
// remaining/total pair.
func (e *Engine) snapshotLocked() timer.Snapshot {
	snap := timer.Snapshot{
		ID:    e.rec.ID,
		Name:  e.rec.Name,
		Tag:   e.rec.Tag,
		State: e.rec.State,
		Total: e.rec.Time.Total(),
	}
	if e.rec.State == timer.StateRunning {
		snap.Expiry = e.expiry
	} else {
		snap.Remaining = e.rec.Time.Remaining()
	}
	return snap
}

// scheduleAlarmLocked replaces the pending alarm with one at fireAt.
// Failures degrade to a missing notification and never block the
// transition that requested them.
func (e *Engine) scheduleAlarmLocked(fireAt time.Time) error {
	id := string(e.rec.ID)
	if err := e.alarms.Cancel(id); err != nil {
		e.recordAlarmErrorLocked(err)
	}
	if err := e.alarms.Schedule(id, fireAt, e.rec.Name); err != nil {
		e.rec.AlarmID = ""
		e.recordAlarmErrorLocked(err)
		return fmt.Errorf("%w: %w", ErrAlarmScheduling, err)
	}
	e.rec.AlarmID = id
	e.journal.Record(journal.Event{
		Timestamp: e.clock.Now(),
		TimerID:   string(e.rec.ID),
		Kind:      journal.KindAlarmScheduled,
		FireAt:    fireAt,
	})
	return nil
}

// cancelAlarmLocked cancels the pending alarm, if any.
func (e *Engine) cancelAlarmLocked() {
	if e.rec.AlarmID == "" {
		return
	}
	if err := e.alarms.Cancel(e.rec.AlarmID); err != nil {
		e.recordAlarmErrorLocked(err)
	} else {
		e.journal.Record(journal.Event{
			Timestamp: e.clock.Now(),
			TimerID:   string(e.rec.ID),
			Kind:      journal.KindAlarmCancelled,
		})
	}
	e.rec.AlarmID = ""
}

// publishLocked republishes the current time value and state.
func (e *Engine) publishLocked() {
	e.values.publish(e.rec.Time)
	e.states.publish(e.rec.State)
}

func (e *Engine) journalTransitionLocked(old timer.State) {
	e.journal.Record(journal.Event{
		Timestamp: e.clock.Now(),
		TimerID:   string(e.rec.ID),
		Kind:      journal.KindTransition,
		OldState:  old.String(),
		NewState:  e.rec.State.String(),
		Remaining: e.rec.Time.Remaining(),
		Total:     e.rec.Time.Total(),
	})
}

func (e *Engine) recordStoreErrorLocked(err error) {
	e.journal.Record(journal.Event{
		Timestamp: e.clock.Now(),
		TimerID:   string(e.rec.ID),
		Kind:      journal.KindStoreError,
		Message:   err.Error(),
	})
}

func (e *Engine) recordAlarmErrorLocked(err error) {
	e.journal.Record(journal.Event{
		Timestamp: e.clock.Now(),
		TimerID:   string(e.rec.ID),
		Kind:      journal.KindAlarmError,
		Message:   err.Error(),
	})
}
