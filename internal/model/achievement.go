package model

import "time"

// AchievementCategory groups achievement definitions
type AchievementCategory string

const (
	AchievementCategoryStreak  AchievementCategory = "streak"
	AchievementCategoryXP      AchievementCategory = "xp"
	AchievementCategorySpecial AchievementCategory = "special"
)

// Rarity is a cosmetic tier for achievements
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// TriggerKind selects how an achievement is unlocked
type TriggerKind string

const (
	// TriggerStreak unlocks when PlayerStats.CurrentStreak >= Threshold
	TriggerStreak TriggerKind = "streak"
	// TriggerTotalXP unlocks when PlayerStats.TotalXP >= Threshold
	TriggerTotalXP TriggerKind = "total_xp"
	// TriggerDailyCount unlocks when one day's completion count >= Threshold
	TriggerDailyCount TriggerKind = "daily_count"
	// TriggerReserved has no predicate and never unlocks on its own
	TriggerReserved TriggerKind = "reserved"
)

// Trigger is the unlock rule of an achievement
type Trigger struct {
	Kind      TriggerKind `json:"kind"`
	Threshold float64     `json:"threshold,omitempty"`
}

// AchievementDefinition is a static, one-time unlockable reward
type AchievementDefinition struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Icon        string              `json:"icon"`
	Category    AchievementCategory `json:"category"`
	Trigger     Trigger             `json:"trigger"`
	XP          int                 `json:"xp"`
	Rarity      Rarity              `json:"rarity"`
}

// UnlockedAchievement records that an owner unlocked a definition
type UnlockedAchievement struct {
	OwnerID       string    `json:"owner_id"`
	AchievementID string    `json:"achievement_id"`
	Name          string    `json:"name"`
	XP            int       `json:"xp"`
	UnlockedAt    time.Time `json:"unlocked_at"`
}

// Validate checks the stored shape of an unlock record
func (a *UnlockedAchievement) Validate() []FieldError {
	var errors []FieldError
	if a.AchievementID == "" {
		errors = append(errors, FieldError{Field: "achievement_id", Message: "achievement_id is required"})
	}
	if a.XP < 0 {
		errors = append(errors, FieldError{Field: "xp", Message: "xp cannot be negative"})
	}
	return errors
}

// AchievementView pairs a definition with its unlock state for display
type AchievementView struct {
	AchievementDefinition
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}
