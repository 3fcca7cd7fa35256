package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hourglass-app/hourglass-go/pkg/timer"
)

func TestFileStoreRoundTrip(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "state"))

	snap := timer.Snapshot{
		ID:        timer.NewID(),
		Name:      "tea",
		Tag:       "kitchen",
		State:     timer.StatePaused,
		Total:     3 * time.Minute,
		Remaining: 90 * time.Second,
	}
	require.NoError(t, s.Save(snap))

	got, err := s.Find(snap.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, snap.ID, got.ID)
	assert.Equal(t, snap.Name, got.Name)
	assert.Equal(t, snap.Tag, got.Tag)
	assert.Equal(t, snap.State, got.State)
	assert.Equal(t, snap.Total, got.Total)
	assert.Equal(t, snap.Remaining, got.Remaining)
}

func TestFileStoreFindAbsent(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "state"))

	got, err := s.Find(timer.NewID())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFileStoreSaveReplaces(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "state"))

	id := timer.NewID()
	first := timer.Snapshot{ID: id, Name: "tea", State: timer.StateReady, Total: time.Minute, Remaining: time.Minute}
	require.NoError(t, s.Save(first))

	second := first
	second.State = timer.StateRunning
	second.Remaining = 0
	second.Expiry = time.Now().Add(30 * time.Second).UTC()
	require.NoError(t, s.Save(second))

	got, err := s.Find(id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, timer.StateRunning, got.State)
	assert.True(t, got.Expiry.Equal(second.Expiry))
}

func TestFileStoreExpiryRoundTrip(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "state"))

	expiry := time.Now().Add(45 * time.Second)
	snap := timer.Snapshot{
		ID:     timer.NewID(),
		Name:   "laundry",
		State:  timer.StateRunning,
		Total:  time.Minute,
		Expiry: expiry,
	}
	require.NoError(t, s.Save(snap))

	got, err := s.Find(snap.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Expiry.Equal(expiry), "expiry %v, want %v", got.Expiry, expiry)
}

func TestFileStoreDelete(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "state"))

	snap := timer.Snapshot{ID: timer.NewID(), Name: "x", State: timer.StateReady, Total: time.Second, Remaining: time.Second}
	require.NoError(t, s.Save(snap))
	require.NoError(t, s.Delete(snap.ID))

	got, err := s.Find(snap.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Deleting an absent snapshot is not an error.
	assert.NoError(t, s.Delete(snap.ID))
}

func TestFileStoreList(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "state"))

	// Missing directory yields an empty list.
	snaps, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, snaps)

	for i := 0; i < 3; i++ {
		snap := timer.Snapshot{ID: timer.NewID(), Name: "n", State: timer.StateReady, Total: time.Minute, Remaining: time.Minute}
		require.NoError(t, s.Save(snap))
	}

	snaps, err = s.List()
	require.NoError(t, err)
	assert.Len(t, snaps, 3)
}

func TestFileStoreRejectsBadIdentity(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "state"))

	for _, id := range []timer.ID{"", "../escape", `a\b`} {
		err := s.Save(timer.Snapshot{ID: id, Total: time.Second})
		assert.Error(t, err, "Save(%q)", id)
		_, err = s.Find(id)
		assert.Error(t, err, "Find(%q)", id)
	}
}

func TestMemoryStore(t *testing.T) {
	m := NewMemory()

	snap := timer.Snapshot{ID: timer.NewID(), Name: "tea", State: timer.StateReady, Total: time.Minute, Remaining: time.Minute}
	require.NoError(t, m.Save(snap))

	got, err := m.Find(snap.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, snap, *got)

	// The returned pointer is a copy; mutating it doesn't leak back.
	got.Name = "coffee"
	again, err := m.Find(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, "tea", again.Name)

	snaps, err := m.List()
	require.NoError(t, err)
	assert.Len(t, snaps, 1)

	require.NoError(t, m.Delete(snap.ID))
	gone, err := m.Find(snap.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}
