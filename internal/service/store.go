package service

import (
	"context"

	"github.com/forgo/habitquest/internal/model"
)

// Store is the hosted persistence adapter. Every entity kind has an upsert,
// a fetch by owner and, where the product allows it, a delete. Fetches of a
// single record return (nil, nil) when the record does not exist.
type Store interface {
	UpsertHabit(ctx context.Context, habit *model.Habit) (*model.Habit, error)
	FetchHabits(ctx context.Context, ownerID string) ([]*model.Habit, error)
	DeleteHabit(ctx context.Context, id, ownerID string) error

	UpsertDailyLog(ctx context.Context, log *model.DailyLog) (*model.DailyLog, error)
	FetchDailyLogs(ctx context.Context, ownerID string) ([]*model.DailyLog, error)

	UpsertProfile(ctx context.Context, profile *model.Profile) (*model.Profile, error)
	FetchProfile(ctx context.Context, ownerID string) (*model.Profile, error)

	UpsertAchievement(ctx context.Context, achievement *model.UnlockedAchievement) error
	FetchAchievements(ctx context.Context, ownerID string) ([]*model.UnlockedAchievement, error)
}

// ChallengeStore serves the weekly challenge and leaderboard features
type ChallengeStore interface {
	FetchActiveChallenges(ctx context.Context, week model.Week) ([]*model.Challenge, error)
	UpsertChallengeProgress(ctx context.Context, progress *model.ChallengeProgress) error
	WeeklyLeaderboard(ctx context.Context, week model.Week, limit int) ([]model.LeaderboardEntry, error)
}

// ToggleSaver is implemented by stores that can write the result of one
// toggle atomically. The controller prefers it over separate upserts so a
// failed write never leaves the hosted copy half updated.
type ToggleSaver interface {
	SaveToggle(ctx context.Context, habit *model.Habit, log *model.DailyLog, profile *model.Profile, unlocks []*model.UnlockedAchievement) error
}

// SnapshotCache is the durable local copy of a player's whole state.
// Load returns (nil, nil) when nothing has been saved for the owner.
type SnapshotCache interface {
	Save(ctx context.Context, snapshot model.Snapshot) error
	Load(ctx context.Context, ownerID string) (*model.Snapshot, error)
}

// UnconfiguredStore is used when no hosted store is configured. Every call
// fails with ErrStoreNotConfigured so the controller runs local-only.
type UnconfiguredStore struct{}

func (UnconfiguredStore) UpsertHabit(context.Context, *model.Habit) (*model.Habit, error) {
	return nil, ErrStoreNotConfigured
}

func (UnconfiguredStore) FetchHabits(context.Context, string) ([]*model.Habit, error) {
	return nil, ErrStoreNotConfigured
}

func (UnconfiguredStore) DeleteHabit(context.Context, string, string) error {
	return ErrStoreNotConfigured
}

func (UnconfiguredStore) UpsertDailyLog(context.Context, *model.DailyLog) (*model.DailyLog, error) {
	return nil, ErrStoreNotConfigured
}

func (UnconfiguredStore) FetchDailyLogs(context.Context, string) ([]*model.DailyLog, error) {
	return nil, ErrStoreNotConfigured
}

func (UnconfiguredStore) UpsertProfile(context.Context, *model.Profile) (*model.Profile, error) {
	return nil, ErrStoreNotConfigured
}

func (UnconfiguredStore) FetchProfile(context.Context, string) (*model.Profile, error) {
	return nil, ErrStoreNotConfigured
}

func (UnconfiguredStore) UpsertAchievement(context.Context, *model.UnlockedAchievement) error {
	return ErrStoreNotConfigured
}

func (UnconfiguredStore) FetchAchievements(context.Context, string) ([]*model.UnlockedAchievement, error) {
	return nil, ErrStoreNotConfigured
}

func (UnconfiguredStore) SaveToggle(context.Context, *model.Habit, *model.DailyLog, *model.Profile, []*model.UnlockedAchievement) error {
	return ErrStoreNotConfigured
}

func (UnconfiguredStore) FetchActiveChallenges(context.Context, model.Week) ([]*model.Challenge, error) {
	return nil, ErrStoreNotConfigured
}

func (UnconfiguredStore) UpsertChallengeProgress(context.Context, *model.ChallengeProgress) error {
	return ErrStoreNotConfigured
}

func (UnconfiguredStore) WeeklyLeaderboard(context.Context, model.Week, int) ([]model.LeaderboardEntry, error) {
	return nil, ErrStoreNotConfigured
}
