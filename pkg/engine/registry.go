package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hourglass-app/hourglass-go/pkg/timer"
)

// Registry errors.
var (
	// ErrTimerNotFound indicates an identity with no engine and no
	// persisted snapshot.
	ErrTimerNotFound = errors.New("timer not found")
)

// Registry holds one engine per active timer identity. The presentation
// layer goes through the registry to reach an engine's command surface and
// its value/state streams. The store and alarm ports are shared across all
// engines; every call is keyed by timer identity.
type Registry struct {
	mu      sync.Mutex
	cfg     Config
	store   Store
	alarms  Alarms
	engines map[timer.ID]*Engine
	closed  bool
}

// NewRegistry creates a registry over the shared store and alarm ports.
func NewRegistry(store Store, alarms Alarms, cfg Config) *Registry {
	return &Registry{
		cfg:     cfg,
		store:   store,
		alarms:  alarms,
		engines: make(map[timer.ID]*Engine),
	}
}

// Create defines a new timer and returns its engine. The record is
// persisted in the ready state with the full duration.
func (r *Registry) Create(name, tag string, total time.Duration) (*Engine, error) {
	rec, err := timer.NewRecord(name, tag, total)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrClosed
	}

	e, err := New(rec, r.store, r.alarms, r.cfg)
	if err != nil {
		return nil, err
	}
	r.engines[rec.ID] = e
	return e, nil
}

// Engine returns the engine for id, constructing one from the persisted
// snapshot if none is live yet. Construction runs the usual
// reconciliation, so a timer that expired while no process was alive comes
// back finished. Returns ErrTimerNotFound for an unknown identity.
func (r *Registry) Engine(id timer.ID) (*Engine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrClosed
	}
	if e, ok := r.engines[id]; ok {
		return e, nil
	}

	snap, err := r.store.Find(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistenceUnavailable, err)
	}
	if snap == nil {
		return nil, fmt.Errorf("%w: %s", ErrTimerNotFound, id)
	}

	e, err := New(timer.Record{ID: id}, r.store, r.alarms, r.cfg)
	if err != nil {
		return nil, err
	}
	r.engines[id] = e
	return e, nil
}

// ResumeAll constructs an engine for every persisted snapshot. Running
// timers resume their countdown; expired ones finish. Returns the live
// engines.
func (r *Registry) ResumeAll() ([]*Engine, error) {
	snaps, err := r.store.List()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistenceUnavailable, err)
	}

	engines := make([]*Engine, 0, len(snaps))
	for _, snap := range snaps {
		e, err := r.Engine(snap.ID)
		if err != nil {
			return engines, err
		}
		engines = append(engines, e)
	}
	return engines, nil
}

// Remove deletes a timer: its engine is closed, the pending alarm is
// cancelled, and the persisted snapshot is removed. A dangling alarm or an
// orphaned snapshot would be a defect, so both teardown steps run even
// when no engine is live.
func (r *Registry) Remove(id timer.ID) error {
	r.mu.Lock()
	e, ok := r.engines[id]
	delete(r.engines, id)
	r.mu.Unlock()

	if ok {
		// Close cancels the tick source and the pending alarm.
		e.Close()
	} else if err := r.alarms.Cancel(string(id)); err != nil {
		return fmt.Errorf("%w: %w", ErrAlarmScheduling, err)
	}

	if err := r.store.Delete(id); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistenceUnavailable, err)
	}
	return nil
}

// Snapshots lists every persisted snapshot.
func (r *Registry) Snapshots() ([]timer.Snapshot, error) {
	return r.store.List()
}

// Engines returns all live engines.
func (r *Registry) Engines() []*Engine {
	r.mu.Lock()
	defer r.mu.Unlock()

	engines := make([]*Engine, 0, len(r.engines))
	for _, e := range r.engines {
		engines = append(engines, e)
	}
	return engines
}

// Close shuts every engine down. Snapshots stay in place for the next
// process; pending alarms are cancelled with their engines.
func (r *Registry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	engines := make([]*Engine, 0, len(r.engines))
	for _, e := range r.engines {
		engines = append(engines, e)
	}
	r.engines = nil
	r.mu.Unlock()

	for _, e := range engines {
		e.Close()
	}
}
