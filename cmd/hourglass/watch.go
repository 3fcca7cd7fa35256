package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hourglass-app/hourglass-go/pkg/timer"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <timer>",
		Short: "Follow a timer's countdown until it finishes",
		Long:  "Watch keeps the timer's tick loop alive, so the expiry notification fires from this process. Interrupt with Ctrl-C; the timer keeps its deadline.",
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

			values, cancelValues := eng.Values().Subscribe()
			defer cancelValues()
			states, cancelStates := eng.States().Subscribe()
			defer cancelStates()

			interrupt := make(chan os.Signal, 1)
			signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(interrupt)

			name := eng.Record().Name
			for {
				select {
				case v := <-values:
					fmt.Printf("\r%s  %s  ", name, v)
				case s := <-states:
					fmt.Printf("\n%s is %s\n", name, s)
					if s == timer.StateFinished {
						return nil
					}
				case <-interrupt:
					fmt.Println()
					return nil
				}
			}
		},
	}
}
