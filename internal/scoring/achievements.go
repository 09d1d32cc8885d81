package scoring

import "github.com/forgo/habitquest/internal/model"

func streakAt(n float64) model.Trigger { return model.Trigger{Kind: model.TriggerStreak, Threshold: n} }
func xpAt(n float64) model.Trigger     { return model.Trigger{Kind: model.TriggerTotalXP, Threshold: n} }
func dailyAt(n float64) model.Trigger  { return model.Trigger{Kind: model.TriggerDailyCount, Threshold: n} }

var reserved = model.Trigger{Kind: model.TriggerReserved}

// Catalog is every achievement a player can earn.
//
// perfect_week and comeback_kid are listed for display but have no trigger
// yet; they never unlock.
var Catalog = []model.AchievementDefinition{
	{ID: "first_step", Name: "First Step", Description: "1 day streak", Icon: "👟", Category: model.AchievementCategoryStreak, Trigger: streakAt(1), XP: 10, Rarity: model.RarityCommon},
	{ID: "week_warrior", Name: "Week Warrior", Description: "7 day streak", Icon: "⚔️", Category: model.AchievementCategoryStreak, Trigger: streakAt(7), XP: 50, Rarity: model.RarityRare},
	{ID: "month_master", Name: "Month Master", Description: "30 day streak", Icon: "🏆", Category: model.AchievementCategoryStreak, Trigger: streakAt(30), XP: 200, Rarity: model.RarityEpic},
	{ID: "quarter_conqueror", Name: "Quarter Conqueror", Description: "90 day streak", Icon: "👑", Category: model.AchievementCategoryStreak, Trigger: streakAt(90), XP: 500, Rarity: model.RarityLegendary},
	{ID: "century_club", Name: "Century Club", Description: "Earn 100 XP", Icon: "💯", Category: model.AchievementCategoryXP, Trigger: xpAt(100), XP: 25, Rarity: model.RarityCommon},
	{ID: "thousand_thunder", Name: "Thousand Thunder", Description: "Earn 1000 XP", Icon: "⚡", Category: model.AchievementCategoryXP, Trigger: xpAt(1000), XP: 100, Rarity: model.RarityRare},
	{ID: "ten_k_titan", Name: "Ten K Titan", Description: "Earn 10,000 XP", Icon: "🏰", Category: model.AchievementCategoryXP, Trigger: xpAt(10000), XP: 500, Rarity: model.RarityEpic},
	{ID: "habit_stacker", Name: "Habit Stacker", Description: "Complete 5+ habits in one day", Icon: "📚", Category: model.AchievementCategorySpecial, Trigger: dailyAt(5), XP: 30, Rarity: model.RarityRare},
	{ID: "perfect_week", Name: "Perfect Week", Description: "Complete all habits for 7 days", Icon: "🌟", Category: model.AchievementCategorySpecial, Trigger: reserved, XP: 100, Rarity: model.RarityEpic},
	{ID: "comeback_kid", Name: "Comeback Kid", Description: "Restart after a break", Icon: "🔥", Category: model.AchievementCategorySpecial, Trigger: reserved, XP: 50, Rarity: model.RarityRare},
	{ID: "streak_15", Name: "Hot Streak", Description: "15 day streak", Icon: "🔥", Category: model.AchievementCategoryStreak, Trigger: streakAt(15), XP: 120, Rarity: model.RarityRare},
	{ID: "streak_60", Name: "Blazing Trail", Description: "60 day streak", Icon: "🌋", Category: model.AchievementCategoryStreak, Trigger: streakAt(60), XP: 300, Rarity: model.RarityEpic},
	{ID: "xp_5k", Name: "Five-K Club", Description: "Earn 5,000 XP", Icon: "🥇", Category: model.AchievementCategoryXP, Trigger: xpAt(5000), XP: 250, Rarity: model.RarityRare},
	{ID: "xp_25k", Name: "Quarter Legend", Description: "Earn 25,000 XP", Icon: "🏅", Category: model.AchievementCategoryXP, Trigger: xpAt(25000), XP: 800, Rarity: model.RarityLegendary},
	{ID: "daily_10", Name: "Daily Dominator", Description: "Complete 10 quests in a day", Icon: "🎯", Category: model.AchievementCategorySpecial, Trigger: dailyAt(10), XP: 120, Rarity: model.RarityEpic},
}

// Evaluator tests achievement definitions against player stats
type Evaluator struct {
	defs []model.AchievementDefinition
	byID map[string]model.AchievementDefinition
}

// NewEvaluator creates an evaluator over defs; nil means Catalog
func NewEvaluator(defs []model.AchievementDefinition) *Evaluator {
	if defs == nil {
		defs = Catalog
	}
	e := &Evaluator{defs: defs, byID: make(map[string]model.AchievementDefinition, len(defs))}
	for _, d := range defs {
		e.byID[d.ID] = d
	}
	return e
}

// Definitions returns the evaluator's definitions in catalog order
func (e *Evaluator) Definitions() []model.AchievementDefinition {
	out := make([]model.AchievementDefinition, len(e.defs))
	copy(out, e.defs)
	return out
}

// Lookup finds a definition by id
func (e *Evaluator) Lookup(id string) (model.AchievementDefinition, bool) {
	d, ok := e.byID[id]
	return d, ok
}

// Evaluate returns every definition not in alreadyUnlocked whose trigger
// holds for stats and the day's completion count. Several may fire at once.
func (e *Evaluator) Evaluate(stats model.PlayerStats, dailyCompletionCount int, alreadyUnlocked map[string]bool) []model.AchievementDefinition {
	var unlocked []model.AchievementDefinition
	for _, d := range e.defs {
		if alreadyUnlocked[d.ID] {
			continue
		}
		if triggered(d.Trigger, stats, dailyCompletionCount) {
			unlocked = append(unlocked, d)
		}
	}
	return unlocked
}

func triggered(t model.Trigger, stats model.PlayerStats, daily int) bool {
	switch t.Kind {
	case model.TriggerStreak:
		return float64(stats.CurrentStreak) >= t.Threshold
	case model.TriggerTotalXP:
		return stats.TotalXP >= t.Threshold
	case model.TriggerDailyCount:
		return float64(daily) >= t.Threshold
	}
	return false
}

// TotalReward sums the XP rewards of defs
func TotalReward(defs []model.AchievementDefinition) int {
	total := 0
	for _, d := range defs {
		total += d.XP
	}
	return total
}
