package root

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forgo/habitquest/internal/ui"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show level, streak and today's progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			sum := s.controller.Summary()
			w := cmd.OutOrStdout()

			mode := ui.IconCloud + " synced"
			if sum.LocalOnly {
				mode = ui.IconLocal + " local-only"
			}
			fmt.Fprintln(w, ui.Heading(ui.IconSparkle, "Player "+s.controller.OwnerID())+" "+ui.Muted.Render(mode))

			lvl := sum.Level
			var b strings.Builder
			fmt.Fprintln(&b, ui.LabelValue("Level", fmt.Sprintf("%d %s", lvl.Level, ui.Gold.Render(lvl.Name))))
			fmt.Fprintln(&b, ui.LabelValue("XP", fmt.Sprintf("%.0f total, %.0f to next", lvl.TotalXP, lvl.XPToNextLevel)))
			fmt.Fprintln(&b, ui.Bar(lvl.ProgressPct, 30), ui.Muted.Render(fmt.Sprintf("%.0f%%", lvl.ProgressPct)))

			st := sum.Streak
			fmt.Fprintln(&b, ui.LabelValue("Streak", fmt.Sprintf("%s %d (best %d)", ui.IconFire, st.CurrentStreak, st.BestStreak)))
			fmt.Fprintln(&b, ui.LabelValue("Multiplier", fmt.Sprintf("x%.1f (+%d%%)", st.Multiplier, st.BonusPercent)))

			day := sum.Today
			today := fmt.Sprintf("%d/%d habits, %.0f XP", day.Completed, day.Total, day.XPEarned)
			if day.PerfectDay {
				today += " " + ui.Gold.Render("PERFECT DAY")
			}
			fmt.Fprint(&b, ui.LabelValue("Today", today))

			fmt.Fprintln(w, ui.Panel.Render(b.String()))
			fmt.Fprintln(w, ui.LabelValue("Achievements", len(sum.Achievements)))
			return nil
		},
	}
}

func newAchievementsCmd() *cobra.Command {
	var unlockedOnly bool

	cmd := &cobra.Command{
		Use:   "achievements",
		Short: "List achievements and which are unlocked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, ui.Heading(ui.IconTrophy, "Achievements"))
			for _, a := range s.controller.Achievements() {
				if unlockedOnly && !a.Unlocked {
					continue
				}
				name := ui.Muted.Render(a.Name)
				if a.Unlocked {
					name = ui.Good.Render(a.Name)
				}
				fmt.Fprintf(w, "%s %s %s %s\n", a.Icon, name, ui.Muted.Render("- "+a.Description), ui.Gold.Render(fmt.Sprintf("+%d XP", a.XP)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&unlockedOnly, "unlocked", "u", false, "Only show unlocked achievements")
	return cmd
}
