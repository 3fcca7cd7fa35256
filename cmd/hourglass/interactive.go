package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/hourglass-app/hourglass-go/pkg/engine"
	"github.com/hourglass-app/hourglass-go/pkg/timer"
)

func newInteractiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"repl"},
		Short:   "Interactive timer shell",
		Long:    "An interactive shell that keeps all timers ticking. State changes are announced as they happen and expiry notifications fire from this process.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			sh, err := newShell(a)
			if err != nil {
				return err
			}
			return sh.Run()
		},
	}
}

// shell is the interactive command loop. It resumes every persisted timer
// so running countdowns keep ticking while the shell is open.
type shell struct {
	app *app
	rl  *readline.Instance

	// cancel funcs for state stream subscriptions, keyed by timer ID
	watchers map[timer.ID]func()
}

func newShell(a *app) (*shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "hourglass> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &shell{
		app:      a,
		rl:       rl,
		watchers: make(map[timer.ID]func()),
	}, nil
}

// Run starts the interactive command loop.
func (s *shell) Run() error {
	defer s.rl.Close()
	defer s.unwatchAll()

	engines, err := s.app.registry.ResumeAll()
	if err != nil {
		return err
	}
	for _, eng := range engines {
		s.watch(eng)
	}

	s.printHelp()

	for {
		line, err := s.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			return nil
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			s.printHelp()

		case "list", "ls", "l":
			s.cmdList()

		case "create", "new", "c":
			s.cmdCreate(args)

		case "start", "s":
			s.cmdTransition(args, "start", (*engine.Engine).Start)

		case "pause", "p":
			s.cmdTransition(args, "pause", (*engine.Engine).Pause)

		case "stop":
			s.cmdTransition(args, "stop", (*engine.Engine).Stop)

		case "reset":
			s.cmdTransition(args, "reset", (*engine.Engine).Reset)

		case "rm", "remove", "delete":
			s.cmdRemove(args)

		case "show":
			s.cmdShow(args)

		case "quit", "exit", "q":
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			return nil

		default:
			fmt.Fprintf(s.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (s *shell) printHelp() {
	fmt.Fprintln(s.rl.Stdout(), `
Hourglass Commands:
  Timers:
    list                      - List all timers
    create <name> <duration>  - Create a timer, e.g. create tea 3m
    start <timer>             - Start or resume a timer
    pause <timer>             - Pause a running timer
    stop <timer>              - Stop a timer, marking it finished
    reset <timer>             - Reset a timer to its full duration
    show <timer>              - Show one timer in detail
    rm <timer>                - Delete a timer

  General:
    help                      - Show this help
    quit                      - Exit

  <timer> is a timer name or ID. Transitions are announced as they
  happen, and expiry notifications fire while the shell is open.`)
}

func (s *shell) cmdList() {
	snaps, err := s.app.registry.Snapshots()
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}
	if len(snaps) == 0 {
		fmt.Fprintln(s.rl.Stdout(), "No timers")
		return
	}

	sort.Slice(snaps, func(i, j int) bool { return snaps[i].Name < snaps[j].Name })

	w := tabwriter.NewWriter(s.rl.Stdout(), 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTAG\tSTATE\tREMAINING\tTOTAL\tID")
	now := time.Now()
	for _, snap := range snaps {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			snap.Name, snap.Tag, snap.State,
			formatRemaining(snap, now), formatDuration(snap.Total), snap.ID)
	}
	w.Flush()
}

func (s *shell) cmdCreate(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: create <name> <duration> [tag]")
		fmt.Fprintln(s.rl.Stdout(), "  Example: create tea 3m kitchen")
		return
	}

	total, err := time.ParseDuration(args[1])
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Invalid duration: %v\n", err)
		return
	}
	var tag string
	if len(args) >= 3 {
		tag = args[2]
	}

	eng, err := s.app.registry.Create(args[0], tag, total)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}
	s.watch(eng)

	rec := eng.Record()
	fmt.Fprintf(s.rl.Stdout(), "Created %s (%s) %s\n", rec.Name, rec.ID, rec.Time)
}

func (s *shell) cmdTransition(args []string, verb string, op func(*engine.Engine) error) {
	if len(args) < 1 {
		fmt.Fprintf(s.rl.Stdout(), "Usage: %s <timer>\n", verb)
		return
	}

	eng := s.lookup(args[0])
	if eng == nil {
		return
	}
	if err := op(eng); err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "%s: %s, %s remaining\n", eng.Record().Name, eng.State(), eng.Time())
}

func (s *shell) cmdRemove(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: rm <timer>")
		return
	}

	id, err := s.app.resolve(args[0])
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}
	s.unwatch(id)
	if err := s.app.registry.Remove(id); err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}
	fmt.Fprintln(s.rl.Stdout(), "Removed", id)
}

func (s *shell) cmdShow(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: show <timer>")
		return
	}

	eng := s.lookup(args[0])
	if eng == nil {
		return
	}

	rec := eng.Record()
	fmt.Fprintln(s.rl.Stdout())
	fmt.Fprintf(s.rl.Stdout(), "  Name:      %s\n", rec.Name)
	if rec.Tag != "" {
		fmt.Fprintf(s.rl.Stdout(), "  Tag:       %s\n", rec.Tag)
	}
	fmt.Fprintf(s.rl.Stdout(), "  ID:        %s\n", rec.ID)
	fmt.Fprintf(s.rl.Stdout(), "  State:     %s\n", eng.State())
	fmt.Fprintf(s.rl.Stdout(), "  Remaining: %s\n", eng.Time())
	fmt.Fprintf(s.rl.Stdout(), "  Total:     %s\n", formatDuration(rec.Time.Total()))
	fmt.Fprintln(s.rl.Stdout())
}

// lookup resolves an argument to a live engine, printing errors itself.
func (s *shell) lookup(arg string) *engine.Engine {
	id, err := s.app.resolve(arg)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return nil
	}
	eng, err := s.app.registry.Engine(id)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return nil
	}
	s.watch(eng)
	return eng
}

// watch announces the engine's state transitions above the prompt.
func (s *shell) watch(eng *engine.Engine) {
	rec := eng.Record()
	if _, ok := s.watchers[rec.ID]; ok {
		return
	}

	states, cancel := eng.States().Subscribe()
	s.watchers[rec.ID] = cancel

	// Drop the replayed current state so only real transitions print.
	last := <-states

	go func() {
		for st := range states {
			if st == last {
				continue
			}
			last = st
			fmt.Fprintf(s.rl.Stdout(), "\n[%s] %s is %s\n",
				time.Now().Format("15:04:05"), rec.Name, st)
			s.rl.Refresh()
		}
	}()
}

func (s *shell) unwatch(id timer.ID) {
	if cancel, ok := s.watchers[id]; ok {
		cancel()
		delete(s.watchers, id)
	}
}

func (s *shell) unwatchAll() {
	for id, cancel := range s.watchers {
		cancel()
		delete(s.watchers, id)
	}
}
