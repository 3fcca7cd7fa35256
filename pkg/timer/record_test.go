package timer

import (
	"testing"
	"time"
)

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateReady, "READY"},
		{StateRunning, "RUNNING"},
		{StatePaused, "PAUSED"},
		{StateFinished, "FINISHED"},
		{State(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestNewRecord(t *testing.T) {
	rec, err := NewRecord("tea", "kitchen", 3*time.Minute)
	if err != nil {
		t.Fatalf("NewRecord() error = %v", err)
	}

	if rec.ID == "" {
		t.Error("ID is empty")
	}
	if rec.State != StateReady {
		t.Errorf("State = %v, want StateReady", rec.State)
	}
	if rec.Time.Total() != 3*time.Minute {
		t.Errorf("Time.Total() = %v, want 3m", rec.Time.Total())
	}
	if rec.Time.Remaining() != 3*time.Minute {
		t.Errorf("Time.Remaining() = %v, want 3m", rec.Time.Remaining())
	}
	if rec.AlarmID != "" {
		t.Errorf("AlarmID = %q, want empty", rec.AlarmID)
	}

	other, err := NewRecord("tea", "kitchen", 3*time.Minute)
	if err != nil {
		t.Fatalf("NewRecord() error = %v", err)
	}
	if other.ID == rec.ID {
		t.Error("two records share the same identity")
	}
}

func TestNewRecordInvalidDuration(t *testing.T) {
	if _, err := NewRecord("bad", "", 0); err == nil {
		t.Error("NewRecord(total=0) error = nil, want error")
	}
	if _, err := NewRecord("bad", "", -time.Second); err == nil {
		t.Error("NewRecord(total<0) error = nil, want error")
	}
}

func TestRealClock(t *testing.T) {
	clock := RealClock()

	before := time.Now()
	now := clock.Now()
	if now.Before(before) {
		t.Errorf("Now() = %v, before %v", now, before)
	}

	tk := clock.NewTicker(time.Millisecond)
	defer tk.Stop()
	select {
	case <-tk.C():
	case <-time.After(time.Second):
		t.Fatal("ticker did not fire")
	}

	fired := make(chan struct{})
	h := clock.AfterFunc(time.Millisecond, func() { close(fired) })
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("AfterFunc did not fire")
	}
	if h.Stop() {
		t.Error("Stop() after firing = true, want false")
	}
}
