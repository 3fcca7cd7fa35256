package journal

// Journal is the interface sinks implement to receive engine events.
type Journal interface {
	// Record stores one event. Implementations must be safe for
	// concurrent use and should not block the caller.
	Record(event Event)
}

// NoopJournal discards all events. Usable as a zero value.
type NoopJournal struct{}

// Record discards the event.
func (NoopJournal) Record(Event) {}

// MultiJournal sends events to multiple journals, for example a FileJournal
// together with an SlogAdapter.
type MultiJournal struct {
	journals []Journal
}

// NewMultiJournal creates a MultiJournal fanning out to all given journals.
func NewMultiJournal(journals ...Journal) *MultiJournal {
	return &MultiJournal{journals: journals}
}

// Record sends the event to every configured journal.
func (m *MultiJournal) Record(event Event) {
	for _, j := range m.journals {
		j.Record(event)
	}
}

// Compile-time interface satisfaction checks.
var (
	_ Journal = NoopJournal{}
	_ Journal = (*MultiJournal)(nil)
)
