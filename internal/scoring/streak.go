package scoring

import (
	"time"

	"github.com/forgo/habitquest/internal/model"
)

// DefaultStreakLookback bounds how far back DeriveCurrentStreak walks
const DefaultStreakLookback = 400

// DeriveCurrentStreak counts consecutive dates, starting at today and
// walking backward, whose log has at least one completion. A date with no
// completions ends the walk, so an empty today yields 0.
func DeriveCurrentStreak(logsByDate map[string]model.DailyLog, today time.Time, maxLookback int) int {
	streak := 0
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	for i := 0; i < maxLookback; i++ {
		log, ok := logsByDate[model.FormatDate(day.AddDate(0, 0, -i))]
		if !ok || len(log.HabitIDs) == 0 {
			break
		}
		streak++
	}
	return streak
}
