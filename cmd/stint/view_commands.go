package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"stint/internal/schedule"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show tracking state and available actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd.Context(), func(runCtx context.Context, s *session) error {
				state, err := s.controller.ViewState(runCtx)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if state.Tracking {
					fmt.Fprintf(out, "Tracking session #%d since %s\n",
						state.Current.ID, state.Current.StartTime.Local().Format(s.cfg.Display.TimeFormat))
				} else {
					fmt.Fprintln(out, "Not tracking.")
				}

				actions := availableActions(state.StartVisible, state.StopVisible, state.ClearVisible)
				fmt.Fprintf(out, "Sessions recorded: %d\n", state.SessionCount)
				fmt.Fprintf(out, "Available actions: %s\n", actions)
				return nil
			})
		},
	}
}

func availableActions(start, stop, clear bool) string {
	actions := ""
	appendAction := func(name string) {
		if actions != "" {
			actions += ", "
		}
		actions += name
	}
	if start {
		appendAction("start")
	}
	if stop {
		appendAction("stop")
	}
	if clear {
		appendAction("clear")
	}
	if actions == "" {
		actions = "none"
	}
	return actions
}

func newLogCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "log",
		Short: "Show the recorded session history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd.Context(), func(runCtx context.Context, s *session) error {
				state, err := s.controller.ViewState(runCtx)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), state.DisplayText)
				return nil
			})
		},
	}
}

// newWatchCommand runs an interactive tracking session: keystroke commands
// drive the controller while store snapshots drive re-rendering, so the
// display always reflects committed state rather than command side effects.
func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Interactive session: track and re-render on every change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd.Context(), func(runCtx context.Context, s *session) error {
				watchCtx, cancel := signal.NotifyContext(runCtx, syscall.SIGINT, syscall.SIGTERM)
				defer cancel()

				snapshot, updates, unsubscribe, err := s.store.Subscribe(watchCtx, 8)
				if err != nil {
					return err
				}
				defer unsubscribe()

				out := cmd.OutOrStdout()
				renderWatch(out, s, snapshot)

				lines := make(chan string)
				scanner := bufio.NewScanner(cmd.InOrStdin())
				go func() {
					defer close(lines)
					for scanner.Scan() {
						select {
						case lines <- strings.TrimSpace(scanner.Text()):
						case <-watchCtx.Done():
							return
						}
					}
				}()

				for {
					select {
					case <-watchCtx.Done():
						return nil
					case snapshot, ok := <-updates:
						if !ok {
							return nil
						}
						renderWatch(out, s, snapshot)
					case line, ok := <-lines:
						if !ok {
							return nil
						}
						if quit, err := dispatchWatch(watchCtx, out, s, line); err != nil {
							fmt.Fprintf(out, "error: %v\n", err)
						} else if quit {
							return nil
						}
					}
				}
			})
		},
	}
}

func renderWatch(out io.Writer, s *session, snapshot schedule.Snapshot) {
	fmt.Fprintln(out, s.formatter.History(snapshot))
	fmt.Fprintln(out, "commands: [s]tart  [x] stop  [c]lear  [q]uit")
}

func dispatchWatch(ctx context.Context, out io.Writer, s *session, line string) (bool, error) {
	switch line {
	case "s", "start":
		_, err := s.controller.StartTracking(ctx)
		return false, err
	case "x", "stop":
		item, err := s.controller.StopTracking(ctx)
		if err != nil {
			return false, err
		}
		if item == nil {
			fmt.Fprintln(out, "No session in progress.")
			return false, nil
		}
		if pending := s.controller.RateNext(); pending != nil {
			fmt.Fprintf(out, "Rate session #%d later with: stint rate %d <1-5>\n", pending.ID, pending.ID)
			s.controller.AcknowledgeRateNext()
		}
		return false, nil
	case "c", "clear":
		removed, err := s.controller.Clear(ctx)
		if err != nil {
			return false, err
		}
		if s.controller.HistoryCleared() {
			fmt.Fprintf(out, "Cleared %d recorded sessions.\n", removed)
			s.controller.AcknowledgeHistoryCleared()
		}
		return false, nil
	case "q", "quit", "exit":
		return true, nil
	case "":
		return false, nil
	default:
		fmt.Fprintf(out, "unknown command %q\n", line)
		return false, nil
	}
}
