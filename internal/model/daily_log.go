package model

// DailyLog records what a player completed on one calendar date.
// HabitIDs is a set; order is insertion order and carries no meaning.
type DailyLog struct {
	OwnerID             string   `json:"owner_id"`
	Date                string   `json:"date"`
	HabitIDs            []string `json:"habit_ids"`
	TotalXP             float64  `json:"total_xp"`
	PerfectBonusApplied bool     `json:"perfect_bonus_applied"`
}

// NewDailyLog returns the empty log for a date
func NewDailyLog(ownerID, date string) DailyLog {
	return DailyLog{OwnerID: ownerID, Date: date, HabitIDs: []string{}}
}

// Contains reports whether habitID was completed on this date
func (l DailyLog) Contains(habitID string) bool {
	for _, id := range l.HabitIDs {
		if id == habitID {
			return true
		}
	}
	return false
}

// Clone returns a copy with its own HabitIDs backing array
func (l DailyLog) Clone() DailyLog {
	ids := make([]string, len(l.HabitIDs))
	copy(ids, l.HabitIDs)
	l.HabitIDs = ids
	return l
}

// Validate checks the stored shape of a log
func (l *DailyLog) Validate() []FieldError {
	var errors []FieldError
	if !IsISODate(l.Date) {
		errors = append(errors, FieldError{Field: "date", Message: "date must be YYYY-MM-DD"})
	}
	seen := make(map[string]struct{}, len(l.HabitIDs))
	for _, id := range l.HabitIDs {
		if id == "" {
			errors = append(errors, FieldError{Field: "habit_ids", Message: "habit id cannot be empty"})
			break
		}
		if _, dup := seen[id]; dup {
			errors = append(errors, FieldError{Field: "habit_ids", Message: "habit ids must be unique"})
			break
		}
		seen[id] = struct{}{}
	}
	if l.TotalXP < 0 {
		errors = append(errors, FieldError{Field: "total_xp", Message: "total_xp cannot be negative"})
	}
	return errors
}
