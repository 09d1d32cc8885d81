package model

import "time"

// Challenge is a shared weekly goal, e.g. "complete 20 quests this week"
type Challenge struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	TargetCount int    `json:"target_count"`
	RewardXP    int    `json:"reward_xp"`
}

// Validate validates a challenge definition
func (c *Challenge) Validate() []FieldError {
	var errors []FieldError
	if c.Title == "" {
		errors = append(errors, FieldError{Field: "title", Message: "title is required"})
	}
	if !IsISODate(c.StartDate) {
		errors = append(errors, FieldError{Field: "start_date", Message: "start_date must be YYYY-MM-DD"})
	}
	if !IsISODate(c.EndDate) {
		errors = append(errors, FieldError{Field: "end_date", Message: "end_date must be YYYY-MM-DD"})
	}
	if len(errors) == 0 && c.EndDate < c.StartDate {
		errors = append(errors, FieldError{Field: "end_date", Message: "end_date must not precede start_date"})
	}
	if c.TargetCount <= 0 {
		errors = append(errors, FieldError{Field: "target_count", Message: "target_count must be positive"})
	}
	return errors
}

// ChallengeProgress tracks one owner's progress on a challenge
type ChallengeProgress struct {
	OwnerID     string    `json:"owner_id"`
	ChallengeID string    `json:"challenge_id"`
	Progress    int       `json:"progress"`
	Completed   bool      `json:"completed"`
	UpdatedOn   time.Time `json:"updated_on"`
}

// LeaderboardEntry is one row of the weekly leaderboard
type LeaderboardEntry struct {
	OwnerID string  `json:"owner_id"`
	TotalXP float64 `json:"total_xp"`
}

// Week is an inclusive Monday..Sunday date range
type Week struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// WeekOf returns the Monday..Sunday week containing t
func WeekOf(t time.Time) Week {
	offset := (int(t.Weekday()) + 6) % 7
	start := t.AddDate(0, 0, -offset)
	return Week{Start: FormatDate(start), End: FormatDate(start.AddDate(0, 0, 6))}
}

// Contains reports whether date falls inside the week
func (w Week) Contains(date string) bool {
	return date >= w.Start && date <= w.End
}
