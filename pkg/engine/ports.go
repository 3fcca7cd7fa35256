package engine

import (
	"time"

	"github.com/hourglass-app/hourglass-go/pkg/timer"
)

// Store is the persistence port. One store is shared by all engines; calls
// are keyed by timer identity so engines never touch each other's records.
//
// Implementations must acknowledge a write by returning: a nil error means
// the snapshot is durable. The engine does not schedule an alarm for a
// transition until the corresponding save has been acknowledged, keeping
// durable state and scheduled alarms consistent with each other.
// Implementations must not call back into the engine.
type Store interface {
	// Find returns the snapshot for id, or nil with a nil error when no
	// snapshot exists.
	Find(id timer.ID) (*timer.Snapshot, error)

	// Save writes the snapshot, replacing any previous one for the same
	// identity.
	Save(snap timer.Snapshot) error

	// Delete removes the snapshot for id. Deleting an absent snapshot is
	// not an error.
	Delete(id timer.ID) error

	// List returns all stored snapshots.
	List() ([]timer.Snapshot, error)
}

// Alarms is the alarm port: a one-shot notification scheduler shared by all
// engines, keyed by identifier.
//
// Scheduling replaces any pending alarm with the same identifier, and
// scheduling a fire time that is not in the future is a no-op, so at most
// one pending alarm exists per timer at any time.
type Alarms interface {
	// Schedule arranges a one-shot notification at fireAt. The payload is
	// the timer's display name, carried into the notification.
	Schedule(id string, fireAt time.Time, payload string) error

	// Cancel removes the pending alarm for id, if any. Cancelling an
	// absent alarm is not an error.
	Cancel(id string) error
}
