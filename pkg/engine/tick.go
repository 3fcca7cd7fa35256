package engine

// tickState is the execution state of a tick source.
type tickState uint8

const (
	// tickActive indicates the source is firing ticks.
	tickActive tickState = iota

	// tickSuspended indicates the source is alive but not firing.
	tickSuspended
)

// String returns the tick state name.
func (s tickState) String() string {
	switch s {
	case tickActive:
		return "ACTIVE"
	case tickSuspended:
		return "SUSPENDED"
	default:
		return "UNKNOWN"
	}
}

// tickCommand is a control message for the tick goroutine.
type tickCommand uint8

const (
	tickCmdSuspend tickCommand = iota
	tickCmdResume
	tickCmdCancel
)

// tickHandle controls one background tick goroutine.
//
// The handle records the goroutine's execution state as an explicit tag so
// the suspend/resume discipline is checkable: a source may only be
// cancelled while active. All methods must be called with the engine lock
// held; the lock is the single-writer discipline for the state tag.
type tickHandle struct {
	state tickState
	ctrl  chan tickCommand
	done  chan struct{}
}

func newTickHandle() *tickHandle {
	return &tickHandle{
		// Buffered so control sends never block against a tick currently
		// waiting on the engine lock. Sends shed the oldest queued command
		// when the buffer is full, so the capacity is not a correctness
		// bound; see send.
		ctrl: make(chan tickCommand, 4),
		done: make(chan struct{}),
	}
}

// send queues cmd without ever blocking. When the buffer is full the oldest
// queued command is shed to make room. Each command sets the loop's mode
// absolutely, so only the newest one matters: shed suspend/resume commands
// cost at most a redundant ticker restart, and stale ticks are dropped
// against the state tag in any case. Cancel is always the final command on
// a handle and therefore never shed.
func (h *tickHandle) send(cmd tickCommand) {
	for {
		select {
		case h.ctrl <- cmd:
			return
		default:
		}
		select {
		case <-h.ctrl:
		default:
		}
	}
}

// suspend stops tick delivery without tearing the source down.
// No-op if already suspended.
func (h *tickHandle) suspend() {
	if h.state != tickActive {
		return
	}
	h.state = tickSuspended
	h.send(tickCmdSuspend)
}

// resume restarts tick delivery. No-op if already active.
func (h *tickHandle) resume() {
	if h.state != tickSuspended {
		return
	}
	h.state = tickActive
	h.send(tickCmdResume)
}

// cancel terminates the tick goroutine. The source must be in the active
// state; cancelling a suspended source returns ErrTickSuspended. Callers
// tearing down a suspended source must resume it first.
func (h *tickHandle) cancel() error {
	if h.state == tickSuspended {
		return ErrTickSuspended
	}
	h.send(tickCmdCancel)
	return nil
}
