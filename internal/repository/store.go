package repository

import (
	"context"
	"fmt"

	"github.com/forgo/habitquest/internal/database"
	"github.com/forgo/habitquest/internal/model"
)

// Store is the SurrealDB-backed hosted store. It satisfies both
// service.Store and service.ChallengeStore.
type Store struct {
	db           database.Database
	habits       *HabitRepository
	logs         *DailyLogRepository
	profiles     *ProfileRepository
	achievements *AchievementRepository
	challenges   *ChallengeRepository
}

// NewStore wires every repository to one connection
func NewStore(db database.Database) *Store {
	return &Store{
		db:           db,
		habits:       NewHabitRepository(db),
		logs:         NewDailyLogRepository(db),
		profiles:     NewProfileRepository(db),
		achievements: NewAchievementRepository(db),
		challenges:   NewChallengeRepository(db),
	}
}

func (s *Store) UpsertHabit(ctx context.Context, habit *model.Habit) (*model.Habit, error) {
	return s.habits.Upsert(ctx, habit)
}

func (s *Store) FetchHabits(ctx context.Context, ownerID string) ([]*model.Habit, error) {
	return s.habits.GetByOwner(ctx, ownerID)
}

func (s *Store) DeleteHabit(ctx context.Context, id, ownerID string) error {
	return s.habits.Delete(ctx, id, ownerID)
}

func (s *Store) UpsertDailyLog(ctx context.Context, log *model.DailyLog) (*model.DailyLog, error) {
	return s.logs.Upsert(ctx, log)
}

func (s *Store) FetchDailyLogs(ctx context.Context, ownerID string) ([]*model.DailyLog, error) {
	return s.logs.GetByOwner(ctx, ownerID)
}

func (s *Store) UpsertProfile(ctx context.Context, profile *model.Profile) (*model.Profile, error) {
	return s.profiles.Upsert(ctx, profile)
}

func (s *Store) FetchProfile(ctx context.Context, ownerID string) (*model.Profile, error) {
	return s.profiles.GetByOwner(ctx, ownerID)
}

func (s *Store) UpsertAchievement(ctx context.Context, achievement *model.UnlockedAchievement) error {
	return s.achievements.Create(ctx, achievement)
}

func (s *Store) FetchAchievements(ctx context.Context, ownerID string) ([]*model.UnlockedAchievement, error) {
	return s.achievements.GetByOwner(ctx, ownerID)
}

// SaveToggle writes everything one completion toggle changed in a single
// transaction: the habit, the day's log, the profile and any new unlocks.
// Either all of them land or none do.
func (s *Store) SaveToggle(ctx context.Context, habit *model.Habit, log *model.DailyLog, profile *model.Profile, unlocks []*model.UnlockedAchievement) error {
	batch := database.NewAtomicBatch()
	batch.Add(habitUpsert(habit))
	batch.Add(dailyLogUpsert(log))
	batch.Add(profileUpsert(profile))
	for _, a := range unlocks {
		batch.Add(achievementUpsert(a))
	}
	if err := batch.Execute(ctx, s.db); err != nil {
		return fmt.Errorf("save toggle %s/%s: %w", habit.ID, log.Date, err)
	}
	return nil
}

func (s *Store) FetchActiveChallenges(ctx context.Context, week model.Week) ([]*model.Challenge, error) {
	return s.challenges.GetActive(ctx, week)
}

func (s *Store) UpsertChallengeProgress(ctx context.Context, progress *model.ChallengeProgress) error {
	return s.challenges.UpsertProgress(ctx, progress)
}

func (s *Store) WeeklyLeaderboard(ctx context.Context, week model.Week, limit int) ([]model.LeaderboardEntry, error) {
	return s.logs.WeeklyLeaderboard(ctx, week, limit)
}
