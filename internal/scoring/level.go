package scoring

import "math"

// Band is one row of the level table. The terminal band has MaxXP = +Inf.
type Band struct {
	Level int     `json:"level"`
	Name  string  `json:"name"`
	MinXP float64 `json:"min_xp"`
	MaxXP float64 `json:"max_xp"`
}

// IsTerminal reports whether b is the open-ended top band
func (b Band) IsTerminal() bool {
	return math.IsInf(b.MaxXP, 1)
}

// Levels is ordered by MinXP and covers [0, +Inf).
var Levels = []Band{
	{Level: 1, Name: "Novice", MinXP: 0, MaxXP: 100},
	{Level: 2, Name: "Apprentice", MinXP: 101, MaxXP: 250},
	{Level: 3, Name: "Adept", MinXP: 251, MaxXP: 500},
	{Level: 4, Name: "Expert", MinXP: 501, MaxXP: 1000},
	{Level: 5, Name: "Master", MinXP: 1001, MaxXP: 2000},
	{Level: 6, Name: "Grandmaster", MinXP: 2001, MaxXP: 4000},
	{Level: 7, Name: "Legend", MinXP: 4001, MaxXP: 8000},
	{Level: 8, Name: "Mythic", MinXP: 8001, MaxXP: 15000},
	{Level: 9, Name: "Godlike", MinXP: 15001, MaxXP: 30000},
	{Level: 10, Name: "Infinite", MinXP: 30001, MaxXP: math.Inf(1)},
}

// LevelFor returns the first band whose MaxXP is not exceeded. XP is
// fractional, so a value between one band's MaxXP and the next band's
// MinXP (e.g. 100.5) belongs to the higher band. Negative XP belongs to the
// first band.
func LevelFor(totalXP float64) Band {
	for _, b := range Levels {
		if totalXP <= b.MaxXP {
			return b
		}
	}
	return Levels[len(Levels)-1]
}

// XPToNextLevel is 0 at the terminal band
func XPToNextLevel(totalXP float64) float64 {
	b := LevelFor(totalXP)
	if b.IsTerminal() {
		return 0
	}
	return roundXP(b.MaxXP - totalXP + 1)
}

// LevelProgress returns the percentage through the current band in [0,100]
func LevelProgress(totalXP float64) float64 {
	b := LevelFor(totalXP)
	if b.IsTerminal() {
		return 100
	}
	width := b.MaxXP - b.MinXP + 1
	if width <= 0 {
		return 0
	}
	pct := (totalXP - b.MinXP) / width * 100
	return math.Max(0, math.Min(100, pct))
}
