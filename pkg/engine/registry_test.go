package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hourglass-app/hourglass-go/pkg/alarm"
	"github.com/hourglass-app/hourglass-go/pkg/store"
	"github.com/hourglass-app/hourglass-go/pkg/timer"
)

func newTestRegistry(t *testing.T) (*Registry, *store.Memory, *fakeAlarms) {
	t.Helper()
	st := store.NewMemory()
	al := newFakeAlarms()
	r := NewRegistry(st, al, testConfig())
	t.Cleanup(r.Close)
	return r, st, al
}

func TestRegistryCreate(t *testing.T) {
	r, st, _ := newTestRegistry(t)

	e, err := r.Create("tea", "kitchen", time.Minute)
	require.NoError(t, err)

	snap, err := st.Find(e.Record().ID)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, timer.StateReady, snap.State)

	// The same engine instance is handed out for the identity.
	again, err := r.Engine(e.Record().ID)
	require.NoError(t, err)
	assert.Same(t, e, again)
}

func TestRegistryCreateInvalid(t *testing.T) {
	r, _, _ := newTestRegistry(t)

	_, err := r.Create("bad", "", 0)
	assert.Error(t, err)
}

func TestRegistryEngineUnknown(t *testing.T) {
	r, _, _ := newTestRegistry(t)

	_, err := r.Engine(timer.NewID())
	assert.ErrorIs(t, err, ErrTimerNotFound)
}

func TestRegistryEngineFromSnapshot(t *testing.T) {
	r, st, _ := newTestRegistry(t)

	id := timer.NewID()
	require.NoError(t, st.Save(timer.Snapshot{
		ID:        id,
		Name:      "tea",
		State:     timer.StatePaused,
		Total:     time.Minute,
		Remaining: 30 * time.Second,
	}))

	e, err := r.Engine(id)
	require.NoError(t, err)
	assert.Equal(t, timer.StatePaused, e.State())
	assert.Equal(t, 30*time.Second, e.Time().Remaining())
}

func TestRegistryRemove(t *testing.T) {
	r, st, al := newTestRegistry(t)

	e, err := r.Create("tea", "", time.Minute)
	require.NoError(t, err)
	id := e.Record().ID
	require.NoError(t, e.Start())

	require.NoError(t, r.Remove(id))

	// No orphaned snapshot, no dangling alarm.
	snap, err := st.Find(id)
	require.NoError(t, err)
	assert.Nil(t, snap)
	if _, ok := al.pendingAt(string(id)); ok {
		t.Error("alarm still pending after remove")
	}

	_, err = r.Engine(id)
	assert.ErrorIs(t, err, ErrTimerNotFound)
}

func TestRegistryRemoveWithoutLiveEngine(t *testing.T) {
	r, st, _ := newTestRegistry(t)

	id := timer.NewID()
	require.NoError(t, st.Save(timer.Snapshot{
		ID: id, Name: "tea", State: timer.StateReady,
		Total: time.Minute, Remaining: time.Minute,
	}))

	require.NoError(t, r.Remove(id))
	snap, err := st.Find(id)
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestRegistryResumeAll(t *testing.T) {
	st := store.NewMemory()
	al := newFakeAlarms()

	require.NoError(t, st.Save(timer.Snapshot{
		ID: timer.NewID(), Name: "paused", State: timer.StatePaused,
		Total: time.Minute, Remaining: 10 * time.Second,
	}))
	require.NoError(t, st.Save(timer.Snapshot{
		ID: timer.NewID(), Name: "running", State: timer.StateRunning,
		Total: time.Minute, Expiry: time.Now().Add(30 * time.Second),
	}))
	require.NoError(t, st.Save(timer.Snapshot{
		ID: timer.NewID(), Name: "expired", State: timer.StateRunning,
		Total: time.Minute, Expiry: time.Now().Add(-time.Second),
	}))

	r := NewRegistry(st, al, testConfig())
	defer r.Close()

	engines, err := r.ResumeAll()
	require.NoError(t, err)
	require.Len(t, engines, 3)

	states := make(map[string]timer.State)
	for _, e := range engines {
		states[e.Record().Name] = e.State()
	}
	assert.Equal(t, timer.StatePaused, states["paused"])
	assert.Equal(t, timer.StateRunning, states["running"])
	assert.Equal(t, timer.StateFinished, states["expired"])
}

func TestRegistryClose(t *testing.T) {
	r, st, _ := newTestRegistry(t)

	e, err := r.Create("tea", "", time.Minute)
	require.NoError(t, err)
	id := e.Record().ID
	require.NoError(t, e.Start())

	r.Close()

	assert.ErrorIs(t, e.Start(), ErrClosed)
	_, err = r.Engine(id)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = r.Create("more", "", time.Minute)
	assert.ErrorIs(t, err, ErrClosed)

	// Snapshots survive shutdown for the next process.
	snap, err := st.Find(id)
	require.NoError(t, err)
	assert.NotNil(t, snap)
}

// TestExpiryNotificationEndToEnd wires the real alarm scheduler to a
// registry and checks the full expiry flow: the notification fires exactly
// once, at the rescheduled expiry, carrying the timer's name.
func TestExpiryNotificationEndToEnd(t *testing.T) {
	var mu sync.Mutex
	var fired []string

	sched := alarm.NewScheduler(alarm.NotifierFunc(func(id, payload string) {
		mu.Lock()
		fired = append(fired, payload)
		mu.Unlock()
	}), nil)
	defer sched.Close()

	r := NewRegistry(store.NewMemory(), sched, testConfig())
	defer r.Close()

	e, err := r.Create("soup", "", 80*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, e.Start())

	require.Eventually(t, func() bool {
		return e.State() == timer.StateFinished
	}, 2*time.Second, 10*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, fired, 1, "notification must fire exactly once")
	assert.Equal(t, "soup", fired[0])
}
