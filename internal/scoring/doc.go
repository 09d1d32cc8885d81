// Package scoring is the pure XP, streak and achievement engine.
//
// Nothing here performs I/O or holds state. The controller in
// internal/service feeds it snapshots and applies what it returns.
//
// # Level Table
//
//	band := scoring.LevelFor(stats.TotalXP)
//	next := scoring.XPToNextLevel(stats.TotalXP)
//	pct := scoring.LevelProgress(stats.TotalXP)
//
// # Streak Multiplier
//
// Multiplier is a step function of a habit's streak: 1.0, then 1.2 from 8,
// 1.5 from 15, 2.0 from 31, 2.5 from 61 and 3.0 from 101.
//
// # Completion Toggle
//
//	res, ok := scoring.ToggleCompletion(habits, habitID, log, date)
//	if !ok {
//	    return // unknown habit, nothing to do
//	}
//	stats.TotalXP += res.Delta
//
// # Achievements
//
//	defs := scoring.NewEvaluator(nil).Evaluate(stats, len(log.HabitIDs), unlocked)
//	stats.TotalXP += float64(scoring.TotalReward(defs))
package scoring
