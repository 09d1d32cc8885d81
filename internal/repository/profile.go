package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/forgo/habitquest/internal/database"
	"github.com/forgo/habitquest/internal/model"
)

// ProfileRepository handles player profile data access. One profile per
// owner, keyed by owner id.
type ProfileRepository struct {
	db database.Database
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db database.Database) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Upsert creates or replaces the owner's profile
func (r *ProfileRepository) Upsert(ctx context.Context, profile *model.Profile) (*model.Profile, error) {
	query, vars := profileUpsert(profile)
	result, err := r.db.QueryOne(ctx, query+` RETURN AFTER`, vars)
	if err != nil {
		return nil, fmt.Errorf("upsert profile %s: %w", profile.OwnerID, err)
	}
	return parseProfile(result)
}

func profileUpsert(profile *model.Profile) (string, map[string]interface{}) {
	query := `UPSERT type::thing("profile", $owner_id) SET
		owner_id = $owner_id, level = $level, total_xp = $total_xp,
		best_streak = $best_streak, updated_on = time::now()`
	level := profile.Level
	if level < 1 {
		level = 1
	}
	return query, map[string]interface{}{
		"owner_id":    profile.OwnerID,
		"level":       level,
		"total_xp":    profile.TotalXP,
		"best_streak": profile.BestStreak,
	}
}

// GetByOwner retrieves an owner's profile; (nil, nil) when there is none
func (r *ProfileRepository) GetByOwner(ctx context.Context, ownerID string) (*model.Profile, error) {
	query := `SELECT * FROM type::thing("profile", $owner_id)`
	result, err := r.db.QueryOne(ctx, query, map[string]interface{}{"owner_id": ownerID})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if result == nil {
		return nil, nil
	}
	return parseProfile(result)
}

func parseProfile(result interface{}) (*model.Profile, error) {
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected profile format")
	}

	p := &model.Profile{
		OwnerID:    getString(data, "owner_id"),
		Level:      getInt(data, "level"),
		TotalXP:    getFloat(data, "total_xp"),
		BestStreak: getInt(data, "best_streak"),
		UpdatedOn:  getTimeValue(data, "updated_on"),
	}
	if p.OwnerID == "" {
		p.OwnerID = recordKey(data["id"])
	}
	if p.Level < 1 {
		p.Level = 1
	}
	return p, nil
}
