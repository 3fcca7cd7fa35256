// Command hourglass manages countdown timers from the command line.
//
// Timers are durable: their state lives as one snapshot file per timer
// under the configured state directory, so a countdown started in one
// invocation keeps counting in wall-clock time and is picked up again by
// the next invocation. Long-lived modes (watch, interactive) run the tick
// loops and fire expiry notifications in-process.
//
// Usage:
//
//	hourglass create <name> <duration> [--tag tag]
//	hourglass list
//	hourglass start|pause|stop|reset <timer>
//	hourglass update <timer> [--name n] [--tag t] [--duration d]
//	hourglass rm <timer>
//	hourglass watch <timer>
//	hourglass interactive
//	hourglass journal [--timer id]
//
// <timer> is a timer ID or a timer name.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hourglass-app/hourglass-go/pkg/alarm"
	"github.com/hourglass-app/hourglass-go/pkg/config"
	"github.com/hourglass-app/hourglass-go/pkg/engine"
	"github.com/hourglass-app/hourglass-go/pkg/journal"
	"github.com/hourglass-app/hourglass-go/pkg/store"
	"github.com/hourglass-app/hourglass-go/pkg/timer"
)

var configPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "hourglass",
		Short:         "Durable countdown timers",
		Long:          "hourglass tracks countdown timers that survive process restarts and fire a notification at expiry.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "configuration file")

	rootCmd.AddCommand(newCreateCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newStartCmd())
	rootCmd.AddCommand(newPauseCmd())
	rootCmd.AddCommand(newStopCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newUpdateCmd())
	rootCmd.AddCommand(newRemoveCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newInteractiveCmd())
	rootCmd.AddCommand(newJournalCmd())

	return rootCmd
}

func defaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "hourglass.yaml"
	}
	return base + "/hourglass/config.yaml"
}

// app wires the shared collaborators: config, logging, journal, snapshot
// store, alarm scheduler, and the engine registry.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	journal  journal.Journal
	fileJrnl *journal.FileJournal
	store    *store.FileStore
	sched    *alarm.Scheduler
	registry *engine.Registry
}

func newApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg.LogLevel)

	a := &app{cfg: cfg, logger: logger}

	a.journal = journal.NoopJournal{}
	if cfg.JournalPath != "" {
		fj, err := journal.NewFileJournal(cfg.JournalPath)
		if err != nil {
			return nil, fmt.Errorf("open journal: %w", err)
		}
		a.fileJrnl = fj
		a.journal = fj
	}

	var notifier alarm.Notifier = alarm.NewSlogNotifier(logger)
	if cfg.NotifyCommand != "" {
		notifier = alarm.NewMultiNotifier(
			notifier,
			alarm.NewCommandNotifier(logger, cfg.NotifyCommand, cfg.NotifyArgs...),
		)
	}
	notifier = alarm.NewMultiNotifier(notifier, alarm.NotifierFunc(func(id, payload string) {
		a.journal.Record(journal.Event{
			Timestamp: time.Now(),
			TimerID:   id,
			Kind:      journal.KindAlarmFired,
			Message:   payload,
		})
	}))

	a.store = store.NewFileStore(cfg.StateDir)
	a.sched = alarm.NewScheduler(notifier, nil)
	a.registry = engine.NewRegistry(a.store, a.sched, engine.Config{
		TickInterval: cfg.TickInterval.Std(),
		Journal:      a.journal,
	})
	return a, nil
}

func (a *app) Close() {
	a.registry.Close()
	a.sched.Close()
	if a.fileJrnl != nil {
		a.fileJrnl.Close()
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// resolve maps a timer ID or name to an identity.
func (a *app) resolve(arg string) (timer.ID, error) {
	snaps, err := a.store.List()
	if err != nil {
		return "", err
	}

	var byName []timer.ID
	for _, snap := range snaps {
		if string(snap.ID) == arg {
			return snap.ID, nil
		}
		if snap.Name == arg {
			byName = append(byName, snap.ID)
		}
	}

	switch len(byName) {
	case 0:
		return "", fmt.Errorf("no timer matches %q", arg)
	case 1:
		return byName[0], nil
	default:
		return "", fmt.Errorf("%d timers are named %q, use the ID", len(byName), arg)
	}
}
