package scoring

import "github.com/forgo/habitquest/internal/model"

// PerfectDayBonus is granted once per date when every active habit is done
const PerfectDayBonus = 50

// ToggleResult is the outcome of one completion toggle. Habit and Log are
// new values; the inputs are never modified.
type ToggleResult struct {
	Habit      model.Habit
	Log        model.DailyLog
	Delta      float64
	Completed  bool
	Multiplier float64
	PerfectDay bool
}

// ToggleCompletion flips habitID in or out of the day's completed set.
//
// Un-completing takes back base * Multiplier(streak before decrement) and
// floors the counters at zero. Completing awards base * Multiplier(streak
// after increment). The day's TotalXP is then re-derived from every habit
// in the set. The perfect-day bonus is granted at most once per log and is
// never revoked.
//
// The second return value is false when habitID is not among habits; the
// caller treats that as a no-op.
func ToggleCompletion(habits []model.Habit, habitID string, log model.DailyLog, date string) (ToggleResult, bool) {
	idx := -1
	for i := range habits {
		if habits[i].ID == habitID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ToggleResult{}, false
	}

	habit := habits[idx].Clone()
	next := log.Clone()
	if next.Date == "" {
		next.Date = date
	}
	if next.OwnerID == "" {
		next.OwnerID = habit.OwnerID
	}

	var res ToggleResult
	if next.Contains(habitID) {
		next.HabitIDs = without(next.HabitIDs, habitID)
		res.Multiplier = Multiplier(habit.StreakCount)
		res.Delta = -AwardXP(habit.XPValue, habit.StreakCount)
		habit.StreakCount = max(0, habit.StreakCount-1)
		habit.TotalCompletions = max(0, habit.TotalCompletions-1)
	} else {
		next.HabitIDs = append(next.HabitIDs, habitID)
		habit.StreakCount++
		res.Multiplier = Multiplier(habit.StreakCount)
		res.Delta = AwardXP(habit.XPValue, habit.StreakCount)
		habit.BestStreak = max(habit.BestStreak, habit.StreakCount)
		habit.TotalCompletions++
		last := date
		habit.LastCompleted = &last
		res.Completed = true
	}

	current := make([]model.Habit, len(habits))
	copy(current, habits)
	current[idx] = habit

	active := 0
	for i := range current {
		if current[i].IsActive() {
			active++
		}
	}
	if active > 0 && len(next.HabitIDs) == active && !next.PerfectBonusApplied {
		next.PerfectBonusApplied = true
		res.Delta += PerfectDayBonus
		res.PerfectDay = true
	}
	next.TotalXP = DayTotal(current, next)

	res.Delta = roundXP(res.Delta)
	res.Habit = habit
	res.Log = next
	return res, true
}

// DayTotal re-derives a log's XP from the habits' current streaks, so a
// habit just toggled counts at its post-toggle streak. The perfect-day
// bonus stays in the total for as long as PerfectBonusApplied is set, not
// only on the toggle that granted it. Ids that no longer resolve to a habit
// contribute nothing.
func DayTotal(habits []model.Habit, log model.DailyLog) float64 {
	byID := make(map[string]*model.Habit, len(habits))
	for i := range habits {
		byID[habits[i].ID] = &habits[i]
	}

	total := 0.0
	for _, id := range log.HabitIDs {
		if h, ok := byID[id]; ok {
			total += AwardXP(h.XPValue, h.StreakCount)
		}
	}
	if log.PerfectBonusApplied {
		total += PerfectDayBonus
	}
	return roundXP(total)
}

// DayStats summarises a date against the current active habit count
func DayStats(habits []model.Habit, log model.DailyLog) model.DayStats {
	active := 0
	for i := range habits {
		if habits[i].IsActive() {
			active++
		}
	}
	stats := model.DayStats{
		Date:       log.Date,
		Completed:  len(log.HabitIDs),
		Total:      active,
		XPEarned:   log.TotalXP,
		PerfectDay: log.PerfectBonusApplied,
	}
	if active > 0 {
		stats.CompletionRate = roundXP(float64(stats.Completed) / float64(active) * 100)
	}
	return stats
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
