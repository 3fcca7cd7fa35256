package journal

import (
	"time"
)

// Kind classifies a journal event.
type Kind uint8

const (
	// KindTransition is a lifecycle state change.
	KindTransition Kind = 0

	// KindAlarmScheduled is a successfully scheduled alarm.
	KindAlarmScheduled Kind = 1

	// KindAlarmCancelled is a cancelled alarm.
	KindAlarmCancelled Kind = 2

	// KindAlarmFired is an alarm delivered to the notifier.
	KindAlarmFired Kind = 3

	// KindStoreError is a failed persistence call.
	KindStoreError Kind = 4

	// KindAlarmError is a failed alarm scheduling call.
	KindAlarmError Kind = 5
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindTransition:
		return "TRANSITION"
	case KindAlarmScheduled:
		return "ALARM_SCHEDULED"
	case KindAlarmCancelled:
		return "ALARM_CANCELLED"
	case KindAlarmFired:
		return "ALARM_FIRED"
	case KindStoreError:
		return "STORE_ERROR"
	case KindAlarmError:
		return "ALARM_ERROR"
	default:
		return "UNKNOWN"
	}
}

// Event is one journal entry. CBOR encoding uses integer keys for
// compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// TimerID is the identity of the timer the event belongs to.
	TimerID string `cbor:"2,keyasint"`

	// Kind classifies the event.
	Kind Kind `cbor:"3,keyasint"`

	// OldState and NewState name the lifecycle states around a
	// transition. Empty for non-transition events.
	OldState string `cbor:"4,keyasint,omitempty"`
	NewState string `cbor:"5,keyasint,omitempty"`

	// Remaining and Total capture the time value at the event.
	Remaining time.Duration `cbor:"6,keyasint,omitempty"`
	Total     time.Duration `cbor:"7,keyasint,omitempty"`

	// FireAt is the scheduled alarm instant for alarm events.
	FireAt time.Time `cbor:"8,keyasint,omitempty"`

	// Message carries the error text for failure events.
	Message string `cbor:"9,keyasint,omitempty"`
}
