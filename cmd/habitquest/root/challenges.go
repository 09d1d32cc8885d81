package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forgo/habitquest/internal/ui"
)

func newChallengesCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "challenges",
		Short: "Show this week's challenges and the leaderboard (hosted store only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			svc := s.app.Challenges
			week := svc.CurrentWeek()
			challenges, err := svc.ActiveChallenges(ctx)
			if err != nil {
				return err
			}
			progress, err := svc.RefreshProgress(ctx, s.controller.OwnerID())
			if err != nil {
				return err
			}
			byID := make(map[string]int, len(progress))
			for _, p := range progress {
				byID[p.ChallengeID] = p.Progress
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, ui.Heading(ui.IconTrophy, fmt.Sprintf("Week %s to %s", week.Start, week.End)))
			if len(challenges) == 0 {
				fmt.Fprintln(w, ui.Muted.Render("No challenges this week."))
			}
			for _, c := range challenges {
				done := byID[c.ID]
				pct := 0.0
				if c.TargetCount > 0 {
					pct = float64(done) / float64(c.TargetCount) * 100
				}
				fmt.Fprintf(w, "%s %s %s\n", ui.H2.Render(c.Title), ui.Muted.Render(fmt.Sprintf("%d/%d", done, c.TargetCount)), ui.Gold.Render(fmt.Sprintf("+%d XP", c.RewardXP)))
				fmt.Fprintln(w, "  "+ui.Bar(pct, 20))
			}

			board, err := svc.Leaderboard(ctx, limit)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, "")
			fmt.Fprintln(w, ui.H2.Render("Leaderboard"))
			for i, e := range board {
				line := fmt.Sprintf("%2d. %s %.0f XP", i+1, e.OwnerID, e.TotalXP)
				if e.OwnerID == s.controller.OwnerID() {
					line = ui.Gold.Render(line)
				}
				fmt.Fprintln(w, line)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 10, "Leaderboard entries")
	return cmd
}
