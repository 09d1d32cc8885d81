// Package fixtures provides test data factories for hosted-store tests.
//
// Each factory method writes through a service.Store with sensible
// defaults, allowing customization via option functions, and returns the
// record as the store echoed it back.
//
// Usage:
//
//	f := fixtures.New(store, "player-1")
//	habit := f.CreateHabit(t)
//	f.CompleteOn(t, "2024-03-04", habit)
package fixtures

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/forgo/habitquest/internal/model"
	"github.com/forgo/habitquest/internal/scoring"
	"github.com/forgo/habitquest/internal/service"
)

// Factory creates test records for one owner
type Factory struct {
	store   service.Store
	OwnerID string
	seq     atomic.Int64
}

// New creates a new fixture factory
func New(store service.Store, ownerID string) *Factory {
	return &Factory{store: store, OwnerID: ownerID}
}

func ctx(t *testing.T) context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return c
}

// ============================================================================
// Habit Fixtures
// ============================================================================

// HabitOpts customizes habit creation
type HabitOpts struct {
	Name       string
	Category   model.Category
	Difficulty model.Difficulty
	XPValue    int
	Status     model.HabitStatus
}

// WithXP sets the base XP value
func WithXP(xp int) func(*HabitOpts) {
	return func(o *HabitOpts) { o.XPValue = xp }
}

// WithStatus sets the lifecycle status
func WithStatus(status model.HabitStatus) func(*HabitOpts) {
	return func(o *HabitOpts) { o.Status = status }
}

// WithCategory sets the category
func WithCategory(c model.Category) func(*HabitOpts) {
	return func(o *HabitOpts) { o.Category = c }
}

// CreateHabit upserts a new habit with a fresh id
func (f *Factory) CreateHabit(t *testing.T, opts ...func(*HabitOpts)) *model.Habit {
	t.Helper()

	o := &HabitOpts{
		Name:       fmt.Sprintf("Habit %d", f.seq.Add(1)),
		Category:   model.CategoryHealth,
		Difficulty: model.DifficultyEasy,
		XPValue:    10,
		Status:     model.HabitStatusActive,
	}
	for _, opt := range opts {
		opt(o)
	}

	habit := &model.Habit{
		ID:         uuid.NewString(),
		OwnerID:    f.OwnerID,
		Name:       o.Name,
		Category:   o.Category,
		Difficulty: o.Difficulty,
		XPValue:    o.XPValue,
		Status:     o.Status,
	}
	out, err := f.store.UpsertHabit(ctx(t), habit)
	if err != nil {
		t.Fatalf("fixtures: create habit: %v", err)
	}
	return out
}

// ============================================================================
// Log / Profile Fixtures
// ============================================================================

// CompleteOn writes the daily log for date with the given habits completed.
// Each habit contributes its base XP; no multiplier or bonus is applied.
func (f *Factory) CompleteOn(t *testing.T, date string, habits ...*model.Habit) *model.DailyLog {
	t.Helper()

	log := model.NewDailyLog(f.OwnerID, date)
	for _, h := range habits {
		log.HabitIDs = append(log.HabitIDs, h.ID)
		log.TotalXP += float64(h.XPValue)
	}
	out, err := f.store.UpsertDailyLog(ctx(t), &log)
	if err != nil {
		t.Fatalf("fixtures: write log %s: %v", date, err)
	}
	return out
}

// SaveProfile writes the owner's profile with totalXP, deriving the level
func (f *Factory) SaveProfile(t *testing.T, totalXP float64, bestStreak int) *model.Profile {
	t.Helper()

	profile := &model.Profile{
		OwnerID:    f.OwnerID,
		Level:      scoring.LevelFor(totalXP).Level,
		TotalXP:    totalXP,
		BestStreak: bestStreak,
	}
	out, err := f.store.UpsertProfile(ctx(t), profile)
	if err != nil {
		t.Fatalf("fixtures: save profile: %v", err)
	}
	return out
}

// Unlock records an achievement from the catalog as unlocked
func (f *Factory) Unlock(t *testing.T, achievementID string) *model.UnlockedAchievement {
	t.Helper()

	def, ok := scoring.NewEvaluator(nil).Lookup(achievementID)
	if !ok {
		t.Fatalf("fixtures: unknown achievement %q", achievementID)
	}
	unlocked := &model.UnlockedAchievement{
		OwnerID:       f.OwnerID,
		AchievementID: def.ID,
		Name:          def.Name,
		XP:            def.XP,
		UnlockedAt:    time.Now().UTC(),
	}
	if err := f.store.UpsertAchievement(ctx(t), unlocked); err != nil {
		t.Fatalf("fixtures: unlock %s: %v", achievementID, err)
	}
	return unlocked
}

// Challenge builds a challenge spanning week; seeding is driver specific
func Challenge(week model.Week, target, reward int) model.Challenge {
	return model.Challenge{
		ID:          uuid.NewString(),
		Title:       fmt.Sprintf("Complete %d habits", target),
		StartDate:   week.Start,
		EndDate:     week.End,
		TargetCount: target,
		RewardXP:    reward,
	}
}
