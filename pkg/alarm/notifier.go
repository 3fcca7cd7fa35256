package alarm

import (
	"log/slog"
	"os/exec"
)

// Notifier receives fired alarms. Implementations must be safe for
// concurrent use; Notify is called from the scheduler's timer goroutines.
type Notifier interface {
	// Notify delivers one fired alarm. The payload is the expired
	// timer's display name.
	Notify(id, payload string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(id, payload string)

// Notify calls f.
func (f NotifierFunc) Notify(id, payload string) {
	f(id, payload)
}

// SlogNotifier logs fired alarms to an slog.Logger.
type SlogNotifier struct {
	logger *slog.Logger
}

// NewSlogNotifier creates a notifier logging to the given logger.
func NewSlogNotifier(logger *slog.Logger) *SlogNotifier {
	return &SlogNotifier{logger: logger}
}

// Notify logs the fired alarm at Info level.
func (n *SlogNotifier) Notify(id, payload string) {
	n.logger.Info("timer expired", slog.String("timer_id", id), slog.String("name", payload))
}

// CommandNotifier runs an external command for each fired alarm, for
// example a desktop notification tool. The timer's display name is passed
// as the final argument.
type CommandNotifier struct {
	command string
	args    []string
	logger  *slog.Logger
}

// NewCommandNotifier creates a notifier running command with the given
// arguments plus the alarm payload.
func NewCommandNotifier(logger *slog.Logger, command string, args ...string) *CommandNotifier {
	return &CommandNotifier{command: command, args: args, logger: logger}
}

// Notify runs the command. Failures are logged, never propagated; a broken
// notifier must not affect the timers themselves.
func (n *CommandNotifier) Notify(id, payload string) {
	args := append(append([]string(nil), n.args...), payload)
	if err := exec.Command(n.command, args...).Run(); err != nil {
		n.logger.Warn("notify command failed",
			slog.String("timer_id", id),
			slog.String("command", n.command),
			slog.Any("error", err),
		)
	}
}

// MultiNotifier delivers each fired alarm to several notifiers.
type MultiNotifier struct {
	notifiers []Notifier
}

// NewMultiNotifier creates a notifier fanning out to all given notifiers.
func NewMultiNotifier(notifiers ...Notifier) *MultiNotifier {
	return &MultiNotifier{notifiers: notifiers}
}

// Notify delivers the alarm to every configured notifier.
func (m *MultiNotifier) Notify(id, payload string) {
	for _, n := range m.notifiers {
		n.Notify(id, payload)
	}
}

// Compile-time interface satisfaction checks.
var (
	_ Notifier = NotifierFunc(nil)
	_ Notifier = (*SlogNotifier)(nil)
	_ Notifier = (*CommandNotifier)(nil)
	_ Notifier = (*MultiNotifier)(nil)
)
