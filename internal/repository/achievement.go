package repository

import (
	"context"
	"errors"

	"github.com/forgo/habitquest/internal/database"
	"github.com/forgo/habitquest/internal/model"
)

// AchievementRepository handles unlock records. An unlock is written once;
// later writes of the same (owner, achievement) are ignored.
type AchievementRepository struct {
	db database.Database
}

// NewAchievementRepository creates a new achievement repository
func NewAchievementRepository(db database.Database) *AchievementRepository {
	return &AchievementRepository{db: db}
}

// Create records an unlock; an existing unlock is left untouched
func (r *AchievementRepository) Create(ctx context.Context, a *model.UnlockedAchievement) error {
	query := `CREATE type::thing("achievement", [$owner_id, $achievement_id]) SET
		owner_id = $owner_id, achievement_id = $achievement_id,
		name = $name, xp = $xp, unlocked_at = time::now()`
	vars := map[string]interface{}{
		"owner_id":       a.OwnerID,
		"achievement_id": a.AchievementID,
		"name":           a.Name,
		"xp":             a.XP,
	}

	err := r.db.Execute(ctx, query, vars)
	if err != nil && isUniqueConstraintError(err) {
		return nil
	}
	return err
}

// achievementUpsert records an unlock without failing on an existing one.
// CREATE would abort a whole transaction on a duplicate, so batches use
// this form; the first unlocked_at is kept.
func achievementUpsert(a *model.UnlockedAchievement) (string, map[string]interface{}) {
	query := `UPSERT type::thing("achievement", [$owner_id, $achievement_id]) SET
		owner_id = $owner_id, achievement_id = $achievement_id,
		name = $name, xp = $xp, unlocked_at = unlocked_at ?? time::now()`
	return query, map[string]interface{}{
		"owner_id":       a.OwnerID,
		"achievement_id": a.AchievementID,
		"name":           a.Name,
		"xp":             a.XP,
	}
}

// GetByOwner returns an owner's unlocks, oldest first
func (r *AchievementRepository) GetByOwner(ctx context.Context, ownerID string) ([]*model.UnlockedAchievement, error) {
	query := `SELECT * FROM achievement WHERE owner_id = $owner_id ORDER BY unlocked_at ASC`
	result, err := r.db.Query(ctx, query, map[string]interface{}{"owner_id": ownerID})
	if err != nil {
		return nil, err
	}

	records, _ := extractQueryResults(result)
	out := make([]*model.UnlockedAchievement, 0, len(records))
	for _, rec := range records {
		a, err := parseAchievement(rec)
		if err != nil {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func parseAchievement(result interface{}) (*model.UnlockedAchievement, error) {
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected achievement format")
	}

	a := &model.UnlockedAchievement{
		OwnerID:       getString(data, "owner_id"),
		AchievementID: getString(data, "achievement_id"),
		Name:          getString(data, "name"),
		XP:            getInt(data, "xp"),
		UnlockedAt:    getTimeValue(data, "unlocked_at"),
	}
	if a.AchievementID == "" {
		return nil, errors.New("achievement record has no achievement_id")
	}
	return a, nil
}
