package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/forgo/habitquest/internal/database"
	"github.com/forgo/habitquest/internal/model"
)

// HabitRepository handles habit data access
type HabitRepository struct {
	db database.Database
}

// NewHabitRepository creates a new habit repository
func NewHabitRepository(db database.Database) *HabitRepository {
	return &HabitRepository{db: db}
}

// Upsert creates or replaces a habit keyed by its id
func (r *HabitRepository) Upsert(ctx context.Context, habit *model.Habit) (*model.Habit, error) {
	query, vars := habitUpsert(habit)
	result, err := r.db.QueryOne(ctx, query+` RETURN AFTER`, vars)
	if err != nil {
		return nil, fmt.Errorf("upsert habit %s: %w", habit.ID, err)
	}
	return parseHabit(result)
}

// habitUpsert builds the UPSERT statement for a habit, without a RETURN
// clause so it can also run inside a batch
func habitUpsert(habit *model.Habit) (string, map[string]interface{}) {
	setClause := `owner_id = $owner_id, name = $name, category = $category, difficulty = $difficulty,
		xp_value = $xp_value, streak_count = $streak_count, best_streak = $best_streak,
		total_completions = $total_completions, status = $status, updated_on = time::now()`
	vars := map[string]interface{}{
		"id":                habit.ID,
		"owner_id":          habit.OwnerID,
		"name":              habit.Name,
		"category":          string(habit.Category),
		"difficulty":        string(habit.Difficulty),
		"xp_value":          habit.XPValue,
		"streak_count":      habit.StreakCount,
		"best_streak":       habit.BestStreak,
		"total_completions": habit.TotalCompletions,
		"status":            string(habit.Status),
	}

	// NONE clears the field; NULL would fail the option<string> type
	if habit.LastCompleted != nil {
		setClause += ", last_completed = $last_completed"
		vars["last_completed"] = *habit.LastCompleted
	} else {
		setClause += ", last_completed = NONE"
	}
	return `UPSERT type::thing("habit", $id) SET ` + setClause, vars
}

// GetByOwner returns an owner's habits, oldest first
func (r *HabitRepository) GetByOwner(ctx context.Context, ownerID string) ([]*model.Habit, error) {
	query := `SELECT * FROM habit WHERE owner_id = $owner_id ORDER BY created_on ASC`
	result, err := r.db.Query(ctx, query, map[string]interface{}{"owner_id": ownerID})
	if err != nil {
		return nil, err
	}

	records, _ := extractQueryResults(result)
	habits := make([]*model.Habit, 0, len(records))
	for _, rec := range records {
		h, err := parseHabit(rec)
		if err != nil {
			continue
		}
		habits = append(habits, h)
	}
	return habits, nil
}

// Delete removes a habit if it belongs to ownerID
func (r *HabitRepository) Delete(ctx context.Context, id, ownerID string) error {
	query := `DELETE type::thing("habit", $id) WHERE owner_id = $owner_id`
	err := r.db.Execute(ctx, query, map[string]interface{}{"id": id, "owner_id": ownerID})
	if errors.Is(err, database.ErrNotFound) {
		return nil
	}
	return err
}

func parseHabit(result interface{}) (*model.Habit, error) {
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected habit format")
	}

	h := &model.Habit{
		ID:               recordKey(data["id"]),
		OwnerID:          getString(data, "owner_id"),
		Name:             getString(data, "name"),
		Category:         model.Category(getString(data, "category")),
		Difficulty:       model.Difficulty(getString(data, "difficulty")),
		XPValue:          getInt(data, "xp_value"),
		StreakCount:      getInt(data, "streak_count"),
		BestStreak:       getInt(data, "best_streak"),
		TotalCompletions: getInt(data, "total_completions"),
		LastCompleted:    getStringPtr(data, "last_completed"),
		Status:           model.HabitStatus(getString(data, "status")),
		CreatedOn:        getTimeValue(data, "created_on"),
		UpdatedOn:        getTimeValue(data, "updated_on"),
	}
	if h.ID == "" {
		return nil, errors.New("habit record has no id")
	}
	return h, nil
}
