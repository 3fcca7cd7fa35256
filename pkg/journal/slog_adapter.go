package journal

import (
	"context"
	"log/slog"
)

// SlogAdapter mirrors journal events to an slog.Logger.
// Useful for development when you want engine events in the console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a SlogAdapter writing to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Record writes the event to the slog logger. Failure events log at Warn
// level, everything else at Debug.
func (a *SlogAdapter) Record(event Event) {
	attrs := []slog.Attr{
		slog.String("timer_id", event.TimerID),
		slog.String("kind", event.Kind.String()),
	}

	if event.OldState != "" {
		attrs = append(attrs,
			slog.String("old_state", event.OldState),
			slog.String("new_state", event.NewState),
		)
	}
	if event.Total > 0 {
		attrs = append(attrs,
			slog.Duration("remaining", event.Remaining),
			slog.Duration("total", event.Total),
		)
	}
	if !event.FireAt.IsZero() {
		attrs = append(attrs, slog.Time("fire_at", event.FireAt))
	}
	if event.Message != "" {
		attrs = append(attrs, slog.String("message", event.Message))
	}

	level := slog.LevelDebug
	if event.Kind == KindStoreError || event.Kind == KindAlarmError {
		level = slog.LevelWarn
	}

	a.logger.LogAttrs(context.Background(), level, "timer event", attrs...)
}

// Compile-time interface satisfaction check.
var _ Journal = (*SlogAdapter)(nil)
