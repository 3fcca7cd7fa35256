package timer

import (
	"time"

	"github.com/google/uuid"

	"github.com/hourglass-app/hourglass-go/pkg/timevalue"
)

// ID uniquely identifies one countdown timer.
// Assigned at creation, never reassigned.
type ID string

// NewID returns a fresh timer identity.
func NewID() ID {
	return ID(uuid.NewString())
}

// State is the lifecycle state of a timer.
type State uint8

const (
	// StateReady indicates a timer that has not started, or was reset.
	StateReady State = iota

	// StateRunning indicates a timer counting down toward its expiry.
	StateRunning

	// StatePaused indicates a timer frozen at its current remaining time.
	StatePaused

	// StateFinished indicates a timer that reached zero or was stopped.
	StateFinished
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateReady:
		return "READY"
	case StateRunning:
		return "RUNNING"
	case StatePaused:
		return "PAUSED"
	case StateFinished:
		return "FINISHED"
	default:
		return "UNKNOWN"
	}
}

// Record is the live representation of one countdown timer.
type Record struct {
	// ID is the stable unique identity.
	ID ID

	// Name is the display name, shown in the expiry notification.
	Name string

	// Tag is free-form display metadata.
	Tag string

	// Time is the current time value.
	Time timevalue.Value

	// State is the current lifecycle state.
	State State

	// AlarmID identifies the pending alarm for this record.
	// Empty while no alarm is scheduled.
	AlarmID string
}

// NewRecord creates a ready Record with a fresh identity and a full duration.
func NewRecord(name, tag string, total time.Duration) (Record, error) {
	tv, err := timevalue.New(total)
	if err != nil {
		return Record{}, err
	}
	return Record{
		ID:    NewID(),
		Name:  name,
		Tag:   tag,
		Time:  tv,
		State: StateReady,
	}, nil
}

// Snapshot is the durable form of a Record.
type Snapshot struct {
	// ID is the timer identity the snapshot belongs to.
	ID ID `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// Tag is free-form display metadata.
	Tag string `json:"tag,omitempty"`

	// State is the lifecycle state at save time.
	State State `json:"state"`

	// Total is the fixed total duration.
	Total time.Duration `json:"total"`

	// Remaining is the remaining duration.
	// Meaningful for every state except StateRunning.
	Remaining time.Duration `json:"remaining"`

	// Expiry is the absolute instant the countdown reaches zero.
	// Meaningful only while State is StateRunning.
	Expiry time.Time `json:"expiry,omitempty"`
}

// RecordUpdate carries the mutable metadata of an update command.
// Nil fields leave the corresponding record field unchanged.
type RecordUpdate struct {
	Name  *string
	Tag   *string
	Total *time.Duration
}
