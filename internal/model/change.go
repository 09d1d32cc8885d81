package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// EntityKind names a persisted record type
type EntityKind string

const (
	EntityHabit       EntityKind = "habit"
	EntityDailyLog    EntityKind = "daily_log"
	EntityProfile     EntityKind = "profile"
	EntityAchievement EntityKind = "achievement"
)

// EntityKinds lists every kind carried by the change feed
var EntityKinds = []EntityKind{EntityHabit, EntityDailyLog, EntityProfile, EntityAchievement}

// ChangeAction is what happened to a record upstream
type ChangeAction string

const (
	ChangeInsert ChangeAction = "insert"
	ChangeUpdate ChangeAction = "update"
	ChangeDelete ChangeAction = "delete"
)

// ErrInvalidChange is returned when a feed payload does not match its schema
var ErrInvalidChange = errors.New("invalid change payload")

// Change is one inbound notification from the change feed. Exactly one of
// the record pointers is set for inserts and updates; deletes carry Key
// (habit id, log date or achievement id).
type Change struct {
	Entity      EntityKind           `json:"entity"`
	Action      ChangeAction         `json:"action"`
	OwnerID     string               `json:"owner_id"`
	Key         string               `json:"key"`
	Habit       *Habit               `json:"habit,omitempty"`
	DailyLog    *DailyLog            `json:"daily_log,omitempty"`
	Profile     *Profile             `json:"profile,omitempty"`
	Achievement *UnlockedAchievement `json:"achievement,omitempty"`
	ReceivedAt  time.Time            `json:"received_at"`
}

// DecodeChange converts a loosely-typed feed payload into a typed, validated
// change. The payload uses the same field names as the model's JSON form.
func DecodeChange(entity EntityKind, action ChangeAction, payload []byte) (Change, error) {
	change := Change{Entity: entity, Action: action, ReceivedAt: time.Now()}

	switch action {
	case ChangeInsert, ChangeUpdate, ChangeDelete:
	default:
		return change, fmt.Errorf("%w: unknown action %q", ErrInvalidChange, action)
	}

	var fields []FieldError
	switch entity {
	case EntityHabit:
		var h Habit
		if err := json.Unmarshal(payload, &h); err != nil {
			return change, fmt.Errorf("%w: %v", ErrInvalidChange, err)
		}
		change.OwnerID, change.Key = h.OwnerID, h.ID
		if action != ChangeDelete {
			fields = h.Validate()
			change.Habit = &h
		}
	case EntityDailyLog:
		var l DailyLog
		if err := json.Unmarshal(payload, &l); err != nil {
			return change, fmt.Errorf("%w: %v", ErrInvalidChange, err)
		}
		if l.HabitIDs == nil {
			l.HabitIDs = []string{}
		}
		change.OwnerID, change.Key = l.OwnerID, l.Date
		if action != ChangeDelete {
			fields = l.Validate()
			change.DailyLog = &l
		}
	case EntityProfile:
		var p Profile
		if err := json.Unmarshal(payload, &p); err != nil {
			return change, fmt.Errorf("%w: %v", ErrInvalidChange, err)
		}
		change.OwnerID, change.Key = p.OwnerID, p.OwnerID
		if action != ChangeDelete {
			fields = p.Validate()
			change.Profile = &p
		}
	case EntityAchievement:
		var a UnlockedAchievement
		if err := json.Unmarshal(payload, &a); err != nil {
			return change, fmt.Errorf("%w: %v", ErrInvalidChange, err)
		}
		change.OwnerID, change.Key = a.OwnerID, a.AchievementID
		if action != ChangeDelete {
			fields = a.Validate()
			change.Achievement = &a
		}
	default:
		return change, fmt.Errorf("%w: unknown entity %q", ErrInvalidChange, entity)
	}

	if change.OwnerID == "" {
		return change, fmt.Errorf("%w: owner_id is required", ErrInvalidChange)
	}
	if change.Key == "" {
		return change, fmt.Errorf("%w: record key is required", ErrInvalidChange)
	}
	if len(fields) > 0 {
		return change, fmt.Errorf("%w: %s: %s", ErrInvalidChange, fields[0].Field, fields[0].Message)
	}
	return change, nil
}
