package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forgo/habitquest/internal/ui"
)

func newToggleCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:     "toggle <habit-id>",
		Aliases: []string{"do"},
		Short:   "Complete a habit for today, or undo the completion",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			out, err := s.controller.Toggle(ctx, args[0], date)
			if err != nil {
				return err
			}
			if !out.Applied {
				return errHabitNotFound
			}

			w := cmd.OutOrStdout()
			if out.Completed {
				fmt.Fprintf(w, "%s %s\n", ui.IconCheck, out.Habit.Name)
			} else {
				fmt.Fprintf(w, "%s %s %s\n", ui.IconEmpty, out.Habit.Name, ui.Muted.Render("(undone)"))
			}
			printNotices(cmd, out.Notices)
			fmt.Fprintln(w, ui.LabelValue("Streak", fmt.Sprintf("%s %d (x%.1f)", ui.IconFire, out.Stats.CurrentStreak, out.Multiplier)))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date as YYYY-MM-DD (default today)")
	return cmd
}
