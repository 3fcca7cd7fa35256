package journal

import (
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// FileJournal appends events to a file in CBOR format.
// It is safe for concurrent use from multiple goroutines.
type FileJournal struct {
	file    *os.File
	encoder *cbor.Encoder
	mu      sync.Mutex
	closed  bool
}

// NewFileJournal creates a FileJournal writing to the given path. If the
// file exists, new events are appended. The file is created with
// permissions 0644 if it doesn't exist.
func NewFileJournal(path string) (*FileJournal, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &FileJournal{
		file:    f,
		encoder: NewEncoder(f),
	}, nil
}

// Record appends an event to the journal file.
// Encoding errors are ignored; journaling must not disrupt the engine.
func (j *FileJournal) Record(event Event) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return
	}

	_ = j.encoder.Encode(event)
}

// Close closes the journal file. Safe to call multiple times; Record calls
// after Close are silently ignored.
func (j *FileJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return nil
	}

	j.closed = true
	return j.file.Close()
}

// Compile-time interface satisfaction check.
var _ Journal = (*FileJournal)(nil)
