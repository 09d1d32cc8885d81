package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forgo/habitquest/internal/model"
	"github.com/forgo/habitquest/internal/ui"
)

var errHabitNotFound = errors.New("habit not found")

func newHabitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "habit",
		Short: "Manage habits",
	}
	cmd.AddCommand(
		newHabitAddCmd(),
		newHabitListCmd(),
		newHabitEditCmd(),
		newHabitStatusCmd(),
		newHabitRemoveCmd(),
	)
	return cmd
}

func newHabitAddCmd() *cobra.Command {
	var category, difficulty string
	var xp int

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an active habit",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("name is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			habit, err := s.controller.AddHabit(ctx, &model.CreateHabitRequest{
				Name:       args[0],
				Category:   model.Category(category),
				Difficulty: model.Difficulty(difficulty),
				XPValue:    xp,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.Good.Render("Added"), habit.Name, ui.Muted.Render(habit.ID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "k", string(model.CategoryHealth), "Category (Health|Mind|Work|Social|Creative)")
	cmd.Flags().StringVarP(&difficulty, "difficulty", "d", string(model.DifficultyEasy), "Difficulty (Easy|Medium|Hard|Epic)")
	cmd.Flags().IntVarP(&xp, "xp", "x", 10, "Base XP per completion (1-1000)")
	return cmd
}

func newHabitListCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List habits and today's completions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			today := s.controller.Today()
			done := make(map[string]bool)
			for _, id := range s.controller.State().DailyLogs[today].HabitIDs {
				done[id] = true
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "Habits for "+today))
			shown := 0
			for _, h := range s.controller.Habits() {
				if !all && h.Status != model.HabitStatusActive {
					continue
				}
				shown++
				mark := ui.IconEmpty
				if done[h.ID] {
					mark = ui.IconCheck
				}
				if h.Status == model.HabitStatusPaused {
					mark = ui.IconPause
				}
				fmt.Fprintf(out, "%s %s %s %s %s\n",
					mark,
					h.Name,
					ui.Muted.Render(fmt.Sprintf("[%s/%s %d XP]", h.Category, h.Difficulty, h.XPValue)),
					ui.Gold.Render(fmt.Sprintf("%s%d", ui.IconFire, h.StreakCount)),
					ui.Muted.Render(h.ID),
				)
				if all {
					fmt.Fprintf(out, "   %s\n", ui.HabitStatus(string(h.Status)))
				}
			}
			if shown == 0 {
				fmt.Fprintln(out, ui.Muted.Render("No habits yet. Add one with: habitquest habit add <name>"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include paused and archived habits")
	return cmd
}

func newHabitEditCmd() *cobra.Command {
	var name, category, difficulty string
	var xp int

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a habit's name, category, difficulty or XP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &model.UpdateHabitRequest{}
			flags := cmd.Flags()
			if flags.Changed("name") {
				req.Name = &name
			}
			if flags.Changed("category") {
				c := model.Category(category)
				req.Category = &c
			}
			if flags.Changed("difficulty") {
				d := model.Difficulty(difficulty)
				req.Difficulty = &d
			}
			if flags.Changed("xp") {
				req.XPValue = &xp
			}

			ctx := context.Background()
			s, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			habit, found, err := s.controller.UpdateHabit(ctx, args[0], req)
			if err != nil {
				return err
			}
			if !found {
				return errHabitNotFound
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Good.Render("Updated"), habit.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "New name")
	cmd.Flags().StringVarP(&category, "category", "k", "", "New category")
	cmd.Flags().StringVarP(&difficulty, "difficulty", "d", "", "New difficulty")
	cmd.Flags().IntVarP(&xp, "xp", "x", 0, "New base XP")
	return cmd
}

func newHabitStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <Active|Paused|Archived>",
		Short: "Pause, archive or reactivate a habit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			habit, found, err := s.controller.SetHabitStatus(ctx, args[0], model.HabitStatus(args[1]))
			if err != nil {
				return err
			}
			if !found {
				return errHabitNotFound
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", habit.Name, ui.HabitStatus(string(habit.Status)))
			return nil
		},
	}
}

func newHabitRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Delete a habit (its past completions stay in the daily logs)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			found, err := s.controller.RemoveHabit(ctx, args[0])
			if err != nil {
				return err
			}
			if !found {
				return errHabitNotFound
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render("Removed"))
			return nil
		},
	}
}
