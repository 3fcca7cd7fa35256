package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hourglass-app/hourglass-go/pkg/timer"
	"github.com/hourglass-app/hourglass-go/pkg/timevalue"
)

var createTag string

func newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <name> <duration>",
		Short: "Create a new timer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			total, err := time.ParseDuration(args[1])
			if err != nil {
				return fmt.Errorf("parse duration: %w", err)
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			eng, err := a.registry.Create(args[0], createTag, total)
			if err != nil {
				return err
			}
			rec := eng.Record()
			fmt.Printf("Created %s (%s) %s\n", rec.Name, rec.ID, rec.Time)
			return nil
		},
	}
	cmd.Flags().StringVar(&createTag, "tag", "", "free-form tag, e.g. a category")
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all timers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			snaps, err := a.registry.Snapshots()
			if err != nil {
				return err
			}
			if len(snaps) == 0 {
				fmt.Println("No timers.")
				return nil
			}

			sort.Slice(snaps, func(i, j int) bool { return snaps[i].Name < snaps[j].Name })

			w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTAG\tSTATE\tREMAINING\tTOTAL")
			now := time.Now()
			for _, snap := range snaps {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					snap.ID, snap.Name, snap.Tag, snap.State,
					formatRemaining(snap, now), formatDuration(snap.Total))
			}
			return w.Flush()
		},
	}
}

// formatRemaining renders the live remaining time for a snapshot. Running
// snapshots carry a deadline, everything else carries the remaining value.
func formatRemaining(snap timer.Snapshot, now time.Time) string {
	remaining := snap.Remaining
	if snap.State == timer.StateRunning {
		remaining = snap.Expiry.Sub(now)
		if remaining < 0 {
			remaining = 0
		}
	}
	return formatDuration(remaining)
}

func formatDuration(d time.Duration) string {
	v, err := timevalue.New(d)
	if err != nil {
		return "00:00"
	}
	return v.String()
}

func newStartCmd() *cobra.Command {
	return newTransitionCmd("start", "Start or resume a timer", func(a *app, id timer.ID) error {
		eng, err := a.registry.Engine(id)
		if err != nil {
			return err
		}
		return eng.Start()
	})
}

func newPauseCmd() *cobra.Command {
	return newTransitionCmd("pause", "Pause a running timer", func(a *app, id timer.ID) error {
		eng, err := a.registry.Engine(id)
		if err != nil {
			return err
		}
		return eng.Pause()
	})
}

func newStopCmd() *cobra.Command {
	return newTransitionCmd("stop", "Stop a timer, marking it finished", func(a *app, id timer.ID) error {
		eng, err := a.registry.Engine(id)
		if err != nil {
			return err
		}
		return eng.Stop()
	})
}

func newResetCmd() *cobra.Command {
	return newTransitionCmd("reset", "Reset a timer back to its full duration", func(a *app, id timer.ID) error {
		eng, err := a.registry.Engine(id)
		if err != nil {
			return err
		}
		return eng.Reset()
	})
}

// newTransitionCmd builds a subcommand that resolves a timer argument and
// applies one lifecycle operation, then prints the resulting state.
func newTransitionCmd(verb, short string, op func(*app, timer.ID) error) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <timer>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			id, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			if err := op(a, id); err != nil {
				return err
			}

			eng, err := a.registry.Engine(id)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %s, %s remaining\n", eng.Record().Name, eng.State(), eng.Time())
			return nil
		},
	}
}

var (
	updateName     string
	updateTag      string
	updateDuration time.Duration
)

func newUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <timer>",
		Short: "Change a timer's name, tag, or duration",
		Long:  "Any edit resets the timer back to ready with its full duration, whether the name, tag, or duration changed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			id, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			eng, err := a.registry.Engine(id)
			if err != nil {
				return err
			}

			var u timer.RecordUpdate
			if cmd.Flags().Changed("name") {
				u.Name = &updateName
			}
			if cmd.Flags().Changed("tag") {
				u.Tag = &updateTag
			}
			if cmd.Flags().Changed("duration") {
				u.Total = &updateDuration
			}
			if err := eng.Update(u); err != nil {
				return err
			}

			rec := eng.Record()
			fmt.Printf("%s: %s, %s\n", rec.Name, eng.State(), rec.Time)
			return nil
		},
	}
	cmd.Flags().StringVar(&updateName, "name", "", "new timer name")
	cmd.Flags().StringVar(&updateTag, "tag", "", "new timer tag")
	cmd.Flags().DurationVar(&updateDuration, "duration", 0, "new total duration")
	return cmd
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <timer>",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a timer and its saved state",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			id, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			if err := a.registry.Remove(id); err != nil {
				return err
			}
			fmt.Println("Removed", id)
			return nil
		},
	}
}
