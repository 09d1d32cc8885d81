package model

import (
	"strings"
	"time"
)

// Category groups habits for display and filtering
type Category string

const (
	CategoryHealth   Category = "Health"
	CategoryMind     Category = "Mind"
	CategoryWork     Category = "Work"
	CategorySocial   Category = "Social"
	CategoryCreative Category = "Creative"
)

// Categories lists every valid category in display order
var Categories = []Category{CategoryHealth, CategoryMind, CategoryWork, CategorySocial, CategoryCreative}

// IsValid reports whether c is a known category
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Difficulty is a label the player picks alongside the base XP value
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
	DifficultyEpic   Difficulty = "Epic"
)

// IsValid reports whether d is a known difficulty
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyEpic:
		return true
	}
	return false
}

// HabitStatus is the lifecycle state of a habit. Only Active habits count
// toward a perfect day.
type HabitStatus string

const (
	HabitStatusActive   HabitStatus = "Active"
	HabitStatusPaused   HabitStatus = "Paused"
	HabitStatusArchived HabitStatus = "Archived"
)

// IsValid reports whether s is a known status
func (s HabitStatus) IsValid() bool {
	switch s {
	case HabitStatusActive, HabitStatusPaused, HabitStatusArchived:
		return true
	}
	return false
}

// Habit constraints
const (
	MaxHabitNameLength = 120
	MaxHabitXPValue    = 1000
)

// Habit is a recurring quest owned by a single player
type Habit struct {
	ID               string      `json:"id"`
	OwnerID          string      `json:"owner_id"`
	Name             string      `json:"name"`
	Category         Category    `json:"category"`
	Difficulty       Difficulty  `json:"difficulty"`
	XPValue          int         `json:"xp_value"`
	StreakCount      int         `json:"streak_count"`
	BestStreak       int         `json:"best_streak"`
	TotalCompletions int         `json:"total_completions"`
	LastCompleted    *string     `json:"last_completed,omitempty"`
	Status           HabitStatus `json:"status"`
	CreatedOn        time.Time   `json:"created_on"`
	UpdatedOn        time.Time   `json:"updated_on"`
}

// IsActive reports whether the habit counts toward a perfect day
func (h *Habit) IsActive() bool {
	return h.Status == HabitStatusActive
}

// Clone returns a copy that shares no pointers with h
func (h Habit) Clone() Habit {
	if h.LastCompleted != nil {
		last := *h.LastCompleted
		h.LastCompleted = &last
	}
	return h
}

// Validate checks the stored shape of a habit. It is applied to records
// arriving from the store or the change feed as well as to local edits.
func (h *Habit) Validate() []FieldError {
	var errors []FieldError

	if h.ID == "" {
		errors = append(errors, FieldError{Field: "id", Message: "id is required"})
	}
	errors = append(errors, validateHabitFields(h.Name, h.Category, h.Difficulty, h.XPValue)...)
	if !h.Status.IsValid() {
		errors = append(errors, FieldError{Field: "status", Message: "status must be Active, Paused or Archived"})
	}
	if h.StreakCount < 0 {
		errors = append(errors, FieldError{Field: "streak_count", Message: "streak_count cannot be negative"})
	}
	if h.BestStreak < h.StreakCount {
		errors = append(errors, FieldError{Field: "best_streak", Message: "best_streak cannot be below streak_count"})
	}
	if h.TotalCompletions < 0 {
		errors = append(errors, FieldError{Field: "total_completions", Message: "total_completions cannot be negative"})
	}
	if h.LastCompleted != nil && !IsISODate(*h.LastCompleted) {
		errors = append(errors, FieldError{Field: "last_completed", Message: "last_completed must be YYYY-MM-DD"})
	}

	return errors
}

func validateHabitFields(name string, category Category, difficulty Difficulty, xp int) []FieldError {
	var errors []FieldError

	name = strings.TrimSpace(name)
	if name == "" {
		errors = append(errors, FieldError{Field: "name", Message: "name is required"})
	} else if len(name) > MaxHabitNameLength {
		errors = append(errors, FieldError{Field: "name", Message: "name must be 120 characters or less"})
	}
	if !category.IsValid() {
		errors = append(errors, FieldError{Field: "category", Message: "category must be Health, Mind, Work, Social or Creative"})
	}
	if !difficulty.IsValid() {
		errors = append(errors, FieldError{Field: "difficulty", Message: "difficulty must be Easy, Medium, Hard or Epic"})
	}
	if xp <= 0 || xp > MaxHabitXPValue {
		errors = append(errors, FieldError{Field: "xp_value", Message: "xp_value must be between 1 and 1000"})
	}

	return errors
}

// CreateHabitRequest is the payload for adding a habit
type CreateHabitRequest struct {
	Name       string     `json:"name"`
	Category   Category   `json:"category"`
	Difficulty Difficulty `json:"difficulty"`
	XPValue    int        `json:"xp_value"`
}

// Validate validates the create request
func (r *CreateHabitRequest) Validate() []FieldError {
	return validateHabitFields(r.Name, r.Category, r.Difficulty, r.XPValue)
}

// UpdateHabitRequest is a partial edit of a habit. Progress counters are
// not editable here.
type UpdateHabitRequest struct {
	Name       *string      `json:"name,omitempty"`
	Category   *Category    `json:"category,omitempty"`
	Difficulty *Difficulty  `json:"difficulty,omitempty"`
	XPValue    *int         `json:"xp_value,omitempty"`
	Status     *HabitStatus `json:"status,omitempty"`
}

// Validate validates the update request
func (r *UpdateHabitRequest) Validate() []FieldError {
	var errors []FieldError
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if name == "" || len(name) > MaxHabitNameLength {
			errors = append(errors, FieldError{Field: "name", Message: "name must be 1-120 characters"})
		}
	}
	if r.Category != nil && !r.Category.IsValid() {
		errors = append(errors, FieldError{Field: "category", Message: "category must be Health, Mind, Work, Social or Creative"})
	}
	if r.Difficulty != nil && !r.Difficulty.IsValid() {
		errors = append(errors, FieldError{Field: "difficulty", Message: "difficulty must be Easy, Medium, Hard or Epic"})
	}
	if r.XPValue != nil && (*r.XPValue <= 0 || *r.XPValue > MaxHabitXPValue) {
		errors = append(errors, FieldError{Field: "xp_value", Message: "xp_value must be between 1 and 1000"})
	}
	if r.Status != nil && !r.Status.IsValid() {
		errors = append(errors, FieldError{Field: "status", Message: "status must be Active, Paused or Archived"})
	}
	return errors
}

// Apply copies the set fields of r onto h
func (r *UpdateHabitRequest) Apply(h *Habit) {
	if r.Name != nil {
		h.Name = strings.TrimSpace(*r.Name)
	}
	if r.Category != nil {
		h.Category = *r.Category
	}
	if r.Difficulty != nil {
		h.Difficulty = *r.Difficulty
	}
	if r.XPValue != nil {
		h.XPValue = *r.XPValue
	}
	if r.Status != nil {
		h.Status = *r.Status
	}
}

// ToggleRequest is the payload for toggling a completion. An empty date
// means today in the server's configured timezone.
type ToggleRequest struct {
	Date string `json:"date,omitempty"`
}

// Validate validates the toggle request
func (r *ToggleRequest) Validate() []FieldError {
	if r.Date != "" && !IsISODate(r.Date) {
		return []FieldError{{Field: "date", Message: "date must be YYYY-MM-DD"}}
	}
	return nil
}
