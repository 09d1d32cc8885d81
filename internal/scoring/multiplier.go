package scoring

import "math"

// multiplierSteps is evaluated highest threshold first
var multiplierSteps = []struct {
	minStreak  int
	multiplier float64
}{
	{101, 3.0},
	{61, 2.5},
	{31, 2.0},
	{15, 1.5},
	{8, 1.2},
}

// Multiplier maps a habit's streak to its XP multiplier
func Multiplier(streak int) float64 {
	for _, step := range multiplierSteps {
		if streak >= step.minStreak {
			return step.multiplier
		}
	}
	return 1.0
}

// BonusPercent is the multiplier expressed as extra percent, e.g. 1.2 -> 20
func BonusPercent(streak int) int {
	return int(math.Round((Multiplier(streak) - 1) * 100))
}

// AwardXP is the XP one completion is worth at the given streak
func AwardXP(baseXP, streak int) float64 {
	return roundXP(float64(baseXP) * Multiplier(streak))
}

// roundXP keeps XP at two decimals so 3 * 1.2 is 3.6, not 3.5999999999999996
func roundXP(xp float64) float64 {
	return math.Round(xp*100) / 100
}
