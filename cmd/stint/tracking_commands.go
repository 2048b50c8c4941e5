package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newStartCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start tracking a new session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd.Context(), func(runCtx context.Context, s *session) error {
				state, err := s.controller.ViewState(runCtx)
				if err != nil {
					return err
				}
				if state.Tracking {
					return fmt.Errorf("session #%d is already in progress; stop it first", state.Current.ID)
				}

				item, err := s.controller.StartTracking(runCtx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Started session #%d at %s\n",
					item.ID, item.StartTime.Local().Format(s.cfg.Display.TimeFormat))
				return nil
			})
		},
	}
}

func newStopCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the session in progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd.Context(), func(runCtx context.Context, s *session) error {
				item, err := s.controller.StopTracking(runCtx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if item == nil {
					fmt.Fprintln(out, "No session in progress.")
					return nil
				}
				fmt.Fprintf(out, "Stopped session #%d after %s\n", item.ID, s.formatter.Duration(item.Duration()))
				if pending := s.controller.RateNext(); pending != nil {
					fmt.Fprintf(out, "Rate it with: stint rate %d <1-5>\n", pending.ID)
					s.controller.AcknowledgeRateNext()
				}
				return nil
			})
		},
	}
}

func newClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd.Context(), func(runCtx context.Context, s *session) error {
				removed, err := s.controller.Clear(runCtx)
				if err != nil {
					return err
				}
				if s.controller.HistoryCleared() {
					fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d recorded sessions.\n", removed)
					s.controller.AcknowledgeHistoryCleared()
				}
				return nil
			})
		},
	}
}

func newRateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rate <session-id> <rating>",
		Short: "Record a 1-5 quality rating for a session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid session id %q", args[0])
			}
			rating, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid rating %q", args[1])
			}

			return ctx.withSession(cmd.Context(), func(runCtx context.Context, s *session) error {
				item, err := s.controller.RateSession(runCtx, id, rating)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Rated session #%d: %d/5\n", item.ID, *item.QualityRating)
				return nil
			})
		},
	}
}
