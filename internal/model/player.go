package model

import "time"

// PlayerStats is the derived aggregate shown to the player. It is a cache
// over daily logs and habit state, never a source of truth.
type PlayerStats struct {
	Level         int     `json:"level"`
	CurrentXP     float64 `json:"current_xp"`
	TotalXP       float64 `json:"total_xp"`
	CurrentStreak int     `json:"current_streak"`
	BestStreak    int     `json:"best_streak"`
}

// NewPlayerStats returns the stats of a brand-new player
func NewPlayerStats() PlayerStats {
	return PlayerStats{Level: 1}
}

// Profile is the persisted subset of PlayerStats
type Profile struct {
	OwnerID    string    `json:"owner_id"`
	Level      int       `json:"level"`
	TotalXP    float64   `json:"total_xp"`
	BestStreak int       `json:"best_streak"`
	UpdatedOn  time.Time `json:"updated_on"`
}

// Validate checks the stored shape of a profile
func (p *Profile) Validate() []FieldError {
	var errors []FieldError
	if p.OwnerID == "" {
		errors = append(errors, FieldError{Field: "owner_id", Message: "owner_id is required"})
	}
	if p.Level < 1 {
		errors = append(errors, FieldError{Field: "level", Message: "level must be at least 1"})
	}
	if p.BestStreak < 0 {
		errors = append(errors, FieldError{Field: "best_streak", Message: "best_streak cannot be negative"})
	}
	return errors
}

// ProfileFromStats builds the persisted profile for an owner
func ProfileFromStats(ownerID string, stats PlayerStats) *Profile {
	return &Profile{
		OwnerID:    ownerID,
		Level:      stats.Level,
		TotalXP:    stats.TotalXP,
		BestStreak: stats.BestStreak,
	}
}

// LevelView is the presentation form of a player's level
type LevelView struct {
	Level         int     `json:"level"`
	Name          string  `json:"name"`
	TotalXP       float64 `json:"total_xp"`
	CurrentXP     float64 `json:"current_xp"`
	XPToNextLevel float64 `json:"xp_to_next_level"`
	ProgressPct   float64 `json:"progress_pct"`
}

// StreakView is the presentation form of a player's streak
type StreakView struct {
	CurrentStreak int     `json:"current_streak"`
	BestStreak    int     `json:"best_streak"`
	Multiplier    float64 `json:"multiplier"`
	BonusPercent  int     `json:"bonus_percent"`
}

// DayStats summarises one date for the player
type DayStats struct {
	Date           string  `json:"date"`
	Completed      int     `json:"completed"`
	Total          int     `json:"total"`
	CompletionRate float64 `json:"completion_rate"`
	XPEarned       float64 `json:"xp_earned"`
	PerfectDay     bool    `json:"perfect_day"`
}

// PlayerSummary bundles everything the dashboard shows at once
type PlayerSummary struct {
	Level        LevelView             `json:"level"`
	Streak       StreakView            `json:"streak"`
	Today        DayStats              `json:"today"`
	Achievements []UnlockedAchievement `json:"achievements"`
	LocalOnly    bool                  `json:"local_only"`
}
