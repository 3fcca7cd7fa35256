package engine

import (
	"errors"
	"testing"
	"time"
)

func TestTickHandleStates(t *testing.T) {
	h := newTickHandle()

	if h.state != tickActive {
		t.Fatalf("initial state = %v, want ACTIVE", h.state)
	}

	h.suspend()
	if h.state != tickSuspended {
		t.Errorf("state after suspend = %v, want SUSPENDED", h.state)
	}

	// Suspending twice queues no second command.
	h.suspend()
	if len(h.ctrl) != 1 {
		t.Errorf("ctrl queue length = %d, want 1", len(h.ctrl))
	}

	h.resume()
	if h.state != tickActive {
		t.Errorf("state after resume = %v, want ACTIVE", h.state)
	}
	h.resume()
	if len(h.ctrl) != 2 {
		t.Errorf("ctrl queue length = %d, want 2", len(h.ctrl))
	}
}

func TestTickHandleCancelRequiresActive(t *testing.T) {
	h := newTickHandle()
	h.suspend()

	// Cancelling a suspended source is invalid; it must pass through
	// the active state first.
	if err := h.cancel(); !errors.Is(err, ErrTickSuspended) {
		t.Fatalf("cancel() on suspended = %v, want ErrTickSuspended", err)
	}

	h.resume()
	if err := h.cancel(); err != nil {
		t.Fatalf("cancel() on active = %v, want nil", err)
	}
}

func TestTickHandleControlSendsNeverBlock(t *testing.T) {
	h := newTickHandle()

	// With nothing draining the queue, a long suspend/resume burst must
	// shed stale commands rather than block; the handle's owner holds the
	// engine lock while sending, so a blocked send would deadlock against
	// the tick goroutine.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			h.suspend()
			h.resume()
		}
		if err := h.cancel(); err != nil {
			t.Errorf("cancel() = %v, want nil", err)
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("control send blocked with no consumer")
	}

	// Shedding keeps the newest command: the final queued one is the
	// cancel.
	var last tickCommand
	for {
		select {
		case last = <-h.ctrl:
			continue
		default:
		}
		break
	}
	if last != tickCmdCancel {
		t.Errorf("final queued command = %d, want cancel", last)
	}
}

func TestTickStateString(t *testing.T) {
	tests := []struct {
		state tickState
		want  string
	}{
		{tickActive, "ACTIVE"},
		{tickSuspended, "SUSPENDED"},
		{tickState(7), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("tickState(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
