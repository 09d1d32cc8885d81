package model

import "time"

// Snapshot is the whole state of one player. It is persisted to the local
// cache as a unit and restored as a unit on rollback.
type Snapshot struct {
	OwnerID      string                `json:"owner_id"`
	Habits       []Habit               `json:"habits"`
	DailyLogs    map[string]DailyLog   `json:"daily_logs"`
	Stats        PlayerStats           `json:"stats"`
	Achievements []UnlockedAchievement `json:"achievements"`
	SavedAt      time.Time             `json:"saved_at"`
}

// NewSnapshot returns the empty state of a new player
func NewSnapshot(ownerID string) Snapshot {
	return Snapshot{
		OwnerID:      ownerID,
		Habits:       []Habit{},
		DailyLogs:    map[string]DailyLog{},
		Stats:        NewPlayerStats(),
		Achievements: []UnlockedAchievement{},
	}
}

// Clone deep-copies the snapshot
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Habits = make([]Habit, len(s.Habits))
	for i, h := range s.Habits {
		out.Habits[i] = h.Clone()
	}
	out.DailyLogs = make(map[string]DailyLog, len(s.DailyLogs))
	for date, l := range s.DailyLogs {
		out.DailyLogs[date] = l.Clone()
	}
	out.Achievements = make([]UnlockedAchievement, len(s.Achievements))
	copy(out.Achievements, s.Achievements)
	return out
}

// HabitIndex returns the position of a habit or -1
func (s *Snapshot) HabitIndex(id string) int {
	for i := range s.Habits {
		if s.Habits[i].ID == id {
			return i
		}
	}
	return -1
}

// ActiveHabitCount counts habits with status Active
func (s *Snapshot) ActiveHabitCount() int {
	n := 0
	for i := range s.Habits {
		if s.Habits[i].IsActive() {
			n++
		}
	}
	return n
}

// UnlockedSet returns the ids of unlocked achievements
func (s *Snapshot) UnlockedSet() map[string]bool {
	set := make(map[string]bool, len(s.Achievements))
	for _, a := range s.Achievements {
		set[a.AchievementID] = true
	}
	return set
}

// Normalize fills nil collections so a decoded snapshot is safe to use
func (s *Snapshot) Normalize() {
	if s.Habits == nil {
		s.Habits = []Habit{}
	}
	if s.DailyLogs == nil {
		s.DailyLogs = map[string]DailyLog{}
	}
	if s.Achievements == nil {
		s.Achievements = []UnlockedAchievement{}
	}
	if s.Stats.Level < 1 {
		s.Stats.Level = 1
	}
}
