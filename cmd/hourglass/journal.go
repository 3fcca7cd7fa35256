package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hourglass-app/hourglass-go/pkg/config"
	"github.com/hourglass-app/hourglass-go/pkg/journal"
)

var (
	journalTimerID string
	journalSince   time.Duration
)

func newJournalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Print recorded timer events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cfg.JournalPath == "" {
				return fmt.Errorf("no journal configured, set journal in %s", configPath)
			}

			filter := journal.Filter{TimerID: journalTimerID}
			if journalSince > 0 {
				start := time.Now().Add(-journalSince)
				filter.TimeStart = &start
			}

			r, err := journal.NewFilteredReader(cfg.JournalPath, filter)
			if err != nil {
				return err
			}
			defer r.Close()

			events, err := r.All()
			if err != nil {
				return fmt.Errorf("read journal: %w", err)
			}
			if len(events) == 0 {
				fmt.Println("No events.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tTIMER\tKIND\tDETAIL")
			for _, ev := range events {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					ev.Timestamp.Format(time.RFC3339), ev.TimerID, ev.Kind, eventDetail(ev))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&journalTimerID, "timer", "", "only events for this timer ID")
	cmd.Flags().DurationVar(&journalSince, "since", 0, "only events from the last duration, e.g. 24h")
	return cmd
}

func eventDetail(ev journal.Event) string {
	switch ev.Kind {
	case journal.KindTransition:
		return fmt.Sprintf("%s -> %s (remaining %s)", ev.OldState, ev.NewState, ev.Remaining)
	case journal.KindAlarmScheduled:
		return "fires " + ev.FireAt.Format(time.RFC3339)
	case journal.KindStoreError, journal.KindAlarmError:
		return ev.Message
	default:
		return ""
	}
}
