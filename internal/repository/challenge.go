package repository

import (
	"context"
	"errors"

	"github.com/forgo/habitquest/internal/database"
	"github.com/forgo/habitquest/internal/model"
)

// ChallengeRepository handles weekly challenges and per-owner progress
type ChallengeRepository struct {
	db database.Database
}

// NewChallengeRepository creates a new challenge repository
func NewChallengeRepository(db database.Database) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

// GetActive returns challenges whose date range overlaps week
func (r *ChallengeRepository) GetActive(ctx context.Context, week model.Week) ([]*model.Challenge, error) {
	query := `SELECT * FROM weekly_challenge WHERE start_date <= $end AND end_date >= $start ORDER BY start_date ASC`
	result, err := r.db.Query(ctx, query, map[string]interface{}{"start": week.Start, "end": week.End})
	if err != nil {
		return nil, err
	}

	records, _ := extractQueryResults(result)
	out := make([]*model.Challenge, 0, len(records))
	for _, rec := range records {
		c, err := parseChallenge(rec)
		if err != nil {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// UpsertProgress records an owner's progress on a challenge
func (r *ChallengeRepository) UpsertProgress(ctx context.Context, p *model.ChallengeProgress) error {
	query := `UPSERT type::thing("challenge_progress", [$owner_id, $challenge_id]) SET
		owner_id = $owner_id, challenge_id = $challenge_id,
		progress = $progress, completed = $completed, updated_on = time::now()`
	vars := map[string]interface{}{
		"owner_id":     p.OwnerID,
		"challenge_id": p.ChallengeID,
		"progress":     p.Progress,
		"completed":    p.Completed,
	}
	return r.db.Execute(ctx, query, vars)
}

func parseChallenge(result interface{}) (*model.Challenge, error) {
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected challenge format")
	}

	c := &model.Challenge{
		ID:          recordKey(data["id"]),
		Title:       getString(data, "title"),
		Description: getString(data, "description"),
		StartDate:   getString(data, "start_date"),
		EndDate:     getString(data, "end_date"),
		TargetCount: getInt(data, "target_count"),
		RewardXP:    getInt(data, "reward_xp"),
	}
	if fields := c.Validate(); len(fields) > 0 {
		return nil, errors.New(fields[0].Message)
	}
	return c, nil
}
