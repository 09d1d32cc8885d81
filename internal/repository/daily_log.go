package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/forgo/habitquest/internal/database"
	"github.com/forgo/habitquest/internal/model"
)

// DailyLogRepository handles daily log data access. A log's record id is
// the array [owner_id, date].
type DailyLogRepository struct {
	db database.Database
}

// NewDailyLogRepository creates a new daily log repository
func NewDailyLogRepository(db database.Database) *DailyLogRepository {
	return &DailyLogRepository{db: db}
}

// Upsert creates or replaces the log for (owner, date)
func (r *DailyLogRepository) Upsert(ctx context.Context, log *model.DailyLog) (*model.DailyLog, error) {
	query, vars := dailyLogUpsert(log)
	result, err := r.db.QueryOne(ctx, query+` RETURN AFTER`, vars)
	if err != nil {
		return nil, fmt.Errorf("upsert daily log %s: %w", log.Date, err)
	}
	return parseDailyLog(result)
}

func dailyLogUpsert(log *model.DailyLog) (string, map[string]interface{}) {
	query := `UPSERT type::thing("daily_log", [$owner_id, $date]) SET
		owner_id = $owner_id, date = $date, habit_ids = $habit_ids,
		total_xp = $total_xp, perfect_bonus_applied = $perfect_bonus_applied`
	habitIDs := log.HabitIDs
	if habitIDs == nil {
		habitIDs = []string{}
	}
	return query, map[string]interface{}{
		"owner_id":              log.OwnerID,
		"date":                  log.Date,
		"habit_ids":             habitIDs,
		"total_xp":              log.TotalXP,
		"perfect_bonus_applied": log.PerfectBonusApplied,
	}
}

// GetByOwner returns an owner's logs in date order
func (r *DailyLogRepository) GetByOwner(ctx context.Context, ownerID string) ([]*model.DailyLog, error) {
	query := `SELECT * FROM daily_log WHERE owner_id = $owner_id ORDER BY date ASC`
	result, err := r.db.Query(ctx, query, map[string]interface{}{"owner_id": ownerID})
	if err != nil {
		return nil, err
	}

	records, _ := extractQueryResults(result)
	logs := make([]*model.DailyLog, 0, len(records))
	for _, rec := range records {
		l, err := parseDailyLog(rec)
		if err != nil {
			continue
		}
		logs = append(logs, l)
	}
	return logs, nil
}

// WeeklyLeaderboard sums logged XP per owner over the week
func (r *DailyLogRepository) WeeklyLeaderboard(ctx context.Context, week model.Week, limit int) ([]model.LeaderboardEntry, error) {
	query := `SELECT owner_id, math::sum(total_xp) AS total_xp FROM daily_log
		WHERE date >= $start AND date <= $end
		GROUP BY owner_id ORDER BY total_xp DESC LIMIT $limit`
	vars := map[string]interface{}{"start": week.Start, "end": week.End, "limit": limit}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	records, _ := extractQueryResults(result)
	entries := make([]model.LeaderboardEntry, 0, len(records))
	for _, rec := range records {
		data, ok := rec.(map[string]interface{})
		if !ok {
			continue
		}
		entries = append(entries, model.LeaderboardEntry{
			OwnerID: getString(data, "owner_id"),
			TotalXP: getFloat(data, "total_xp"),
		})
	}
	return entries, nil
}

func parseDailyLog(result interface{}) (*model.DailyLog, error) {
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected daily log format")
	}

	l := &model.DailyLog{
		OwnerID:             getString(data, "owner_id"),
		Date:                getString(data, "date"),
		HabitIDs:            getStringSlice(data, "habit_ids"),
		TotalXP:             getFloat(data, "total_xp"),
		PerfectBonusApplied: getBool(data, "perfect_bonus_applied"),
	}
	if l.Date == "" {
		return nil, errors.New("daily log record has no date")
	}
	return l, nil
}
