package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hourglass-app/hourglass-go/pkg/timer"
)

// SnapshotVersion is the current version of the snapshot file format.
const SnapshotVersion = 1

// snapshotFile is the on-disk envelope around a snapshot.
type snapshotFile struct {
	// Version is the snapshot file format version.
	Version int `json:"version"`

	// SavedAt is when the snapshot was last saved.
	SavedAt time.Time `json:"saved_at"`

	// Snapshot is the timer state.
	Snapshot timer.Snapshot `json:"snapshot"`
}

// FileStore persists snapshots as one JSON file per timer identity in a
// directory. Safe for concurrent use.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore creates a file store rooted at dir. The directory is
// created on the first save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// path returns the snapshot file for an identity. Identities are UUIDs;
// anything else is rejected by pathFor to keep file names well-formed.
func (s *FileStore) pathFor(id timer.ID) (string, error) {
	name := string(id)
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid timer identity %q", name)
	}
	return filepath.Join(s.dir, name+".json"), nil
}

// Find returns the snapshot for id, or nil, nil if none exists.
func (s *FileStore) Find(id timer.ID) (*timer.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.pathFor(id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var file snapshotFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", id, err)
	}
	snap := file.Snapshot
	return &snap, nil
}

// Save persists the snapshot, replacing any previous one.
func (s *FileStore) Save(snap timer.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.pathFor(snap.ID)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}

	file := snapshotFile{
		Version:  SnapshotVersion,
		SavedAt:  time.Now(),
		Snapshot: snap,
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Delete removes the snapshot for id. Removing an absent snapshot is not
// an error.
func (s *FileStore) Delete(id timer.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.pathFor(id)
	if err != nil {
		return err
	}

	err = os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// List returns all stored snapshots. A missing state directory yields an
// empty list.
func (s *FileStore) List() ([]timer.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snaps []timer.Snapshot
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		var file snapshotFile
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("snapshot file %s: %w", entry.Name(), err)
		}
		snaps = append(snaps, file.Snapshot)
	}
	return snaps, nil
}
