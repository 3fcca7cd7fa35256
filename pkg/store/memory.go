package store

import (
	"sync"

	"github.com/hourglass-app/hourglass-go/pkg/timer"
)

// Memory is an in-memory snapshot store for tests and ephemeral runs.
// Safe for concurrent use.
type Memory struct {
	mu    sync.Mutex
	snaps map[timer.ID]timer.Snapshot
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{snaps: make(map[timer.ID]timer.Snapshot)}
}

// Find returns the snapshot for id, or nil, nil if none exists.
func (m *Memory) Find(id timer.ID) (*timer.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap, ok := m.snaps[id]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

// Save stores the snapshot, replacing any previous one.
func (m *Memory) Save(snap timer.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps[snap.ID] = snap
	return nil
}

// Delete removes the snapshot for id.
func (m *Memory) Delete(id timer.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snaps, id)
	return nil
}

// List returns all stored snapshots.
func (m *Memory) List() ([]timer.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snaps := make([]timer.Snapshot, 0, len(m.snaps))
	for _, snap := range m.snaps {
		snaps = append(snaps, snap)
	}
	return snaps, nil
}
