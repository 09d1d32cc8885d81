package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/forgo/habitquest/internal/model"
)

// ============================================================================
// Mock Store
// ============================================================================

type mockStore struct {
	upsertHabitFunc           func(ctx context.Context, habit *model.Habit) (*model.Habit, error)
	fetchHabitsFunc           func(ctx context.Context, ownerID string) ([]*model.Habit, error)
	deleteHabitFunc           func(ctx context.Context, id, ownerID string) error
	upsertDailyLogFunc        func(ctx context.Context, log *model.DailyLog) (*model.DailyLog, error)
	fetchDailyLogsFunc        func(ctx context.Context, ownerID string) ([]*model.DailyLog, error)
	upsertProfileFunc         func(ctx context.Context, profile *model.Profile) (*model.Profile, error)
	fetchProfileFunc          func(ctx context.Context, ownerID string) (*model.Profile, error)
	upsertAchievementFunc     func(ctx context.Context, a *model.UnlockedAchievement) error
	fetchAchievementsFunc     func(ctx context.Context, ownerID string) ([]*model.UnlockedAchievement, error)
	fetchActiveChallengesFunc func(ctx context.Context, week model.Week) ([]*model.Challenge, error)
	upsertProgressFunc        func(ctx context.Context, p *model.ChallengeProgress) error
	leaderboardFunc           func(ctx context.Context, week model.Week, limit int) ([]model.LeaderboardEntry, error)
}

func (m *mockStore) UpsertHabit(ctx context.Context, habit *model.Habit) (*model.Habit, error) {
	if m.upsertHabitFunc != nil {
		return m.upsertHabitFunc(ctx, habit)
	}
	return habit, nil
}

func (m *mockStore) FetchHabits(ctx context.Context, ownerID string) ([]*model.Habit, error) {
	if m.fetchHabitsFunc != nil {
		return m.fetchHabitsFunc(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockStore) DeleteHabit(ctx context.Context, id, ownerID string) error {
	if m.deleteHabitFunc != nil {
		return m.deleteHabitFunc(ctx, id, ownerID)
	}
	return nil
}

func (m *mockStore) UpsertDailyLog(ctx context.Context, log *model.DailyLog) (*model.DailyLog, error) {
	if m.upsertDailyLogFunc != nil {
		return m.upsertDailyLogFunc(ctx, log)
	}
	return log, nil
}

func (m *mockStore) FetchDailyLogs(ctx context.Context, ownerID string) ([]*model.DailyLog, error) {
	if m.fetchDailyLogsFunc != nil {
		return m.fetchDailyLogsFunc(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockStore) UpsertProfile(ctx context.Context, profile *model.Profile) (*model.Profile, error) {
	if m.upsertProfileFunc != nil {
		return m.upsertProfileFunc(ctx, profile)
	}
	return profile, nil
}

func (m *mockStore) FetchProfile(ctx context.Context, ownerID string) (*model.Profile, error) {
	if m.fetchProfileFunc != nil {
		return m.fetchProfileFunc(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockStore) UpsertAchievement(ctx context.Context, a *model.UnlockedAchievement) error {
	if m.upsertAchievementFunc != nil {
		return m.upsertAchievementFunc(ctx, a)
	}
	return nil
}

func (m *mockStore) FetchAchievements(ctx context.Context, ownerID string) ([]*model.UnlockedAchievement, error) {
	if m.fetchAchievementsFunc != nil {
		return m.fetchAchievementsFunc(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockStore) FetchActiveChallenges(ctx context.Context, week model.Week) ([]*model.Challenge, error) {
	if m.fetchActiveChallengesFunc != nil {
		return m.fetchActiveChallengesFunc(ctx, week)
	}
	return nil, nil
}

func (m *mockStore) UpsertChallengeProgress(ctx context.Context, p *model.ChallengeProgress) error {
	if m.upsertProgressFunc != nil {
		return m.upsertProgressFunc(ctx, p)
	}
	return nil
}

func (m *mockStore) WeeklyLeaderboard(ctx context.Context, week model.Week, limit int) ([]model.LeaderboardEntry, error) {
	if m.leaderboardFunc != nil {
		return m.leaderboardFunc(ctx, week, limit)
	}
	return nil, nil
}

// atomicStore is a mockStore that also writes toggles in one call
type atomicStore struct {
	*mockStore
	saveToggleFunc func(ctx context.Context, h *model.Habit, l *model.DailyLog, p *model.Profile, unlocks []*model.UnlockedAchievement) error
}

func (m *atomicStore) SaveToggle(ctx context.Context, h *model.Habit, l *model.DailyLog, p *model.Profile, unlocks []*model.UnlockedAchievement) error {
	if m.saveToggleFunc != nil {
		return m.saveToggleFunc(ctx, h, l, p, unlocks)
	}
	return nil
}

// separateWritesFail builds a mockStore whose per-entity upserts fail the
// test, for stores that should only be reached through SaveToggle
func separateWritesFail(t *testing.T) *mockStore {
	fail := func(kind string) { t.Errorf("unexpected separate %s upsert", kind) }
	return &mockStore{
		upsertHabitFunc: func(_ context.Context, h *model.Habit) (*model.Habit, error) {
			fail("habit")
			return h, nil
		},
		upsertDailyLogFunc: func(_ context.Context, l *model.DailyLog) (*model.DailyLog, error) {
			fail("daily log")
			return l, nil
		},
		upsertProfileFunc: func(_ context.Context, p *model.Profile) (*model.Profile, error) {
			fail("profile")
			return p, nil
		},
		upsertAchievementFunc: func(context.Context, *model.UnlockedAchievement) error {
			fail("achievement")
			return nil
		},
	}
}

// ============================================================================
// Mock Cache
// ============================================================================

type memoryCache struct {
	mu        sync.Mutex
	snapshots map[string]model.Snapshot
	saves     int
	loadErr   error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{snapshots: make(map[string]model.Snapshot)}
}

func (m *memoryCache) Save(_ context.Context, snapshot model.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[snapshot.OwnerID] = snapshot.Clone()
	m.saves++
	return nil
}

func (m *memoryCache) Load(_ context.Context, ownerID string) (*model.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	snap, ok := m.snapshots[ownerID]
	if !ok {
		return nil, nil
	}
	out := snap.Clone()
	return &out, nil
}

func (m *memoryCache) saved(ownerID string) (model.Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.snapshots[ownerID]
	return snap.Clone(), ok
}

// ============================================================================
// Helpers
// ============================================================================

const testOwner = "player-1"

// testNow is Thursday 2026-03-05
var testNow = time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func testLogger() logrus.FieldLogger {
	logger, _ := test.NewNullLogger()
	return logger
}

func newTestController(t *testing.T, store Store, cache SnapshotCache, hub *NoticeHub) *Controller {
	t.Helper()
	return NewController(ControllerConfig{
		OwnerID:  testOwner,
		Store:    store,
		Cache:    cache,
		Notices:  hub,
		Now:      fixedClock,
		Location: time.UTC,
		Logger:   testLogger(),
	})
}

func activeHabit(id string, xp, streak int) model.Habit {
	return model.Habit{
		ID:          id,
		OwnerID:     testOwner,
		Name:        "Quest " + id,
		Category:    model.CategoryHealth,
		Difficulty:  model.DifficultyEasy,
		XPValue:     xp,
		StreakCount: streak,
		BestStreak:  streak,
		Status:      model.HabitStatusActive,
	}
}

// seed replaces the controller state directly
func seed(c *Controller, habits []model.Habit, logs map[string]model.DailyLog, stats model.PlayerStats, unlocked ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Habits = habits
	if logs == nil {
		logs = map[string]model.DailyLog{}
	}
	c.state.DailyLogs = logs
	c.state.Stats = stats
	for _, id := range unlocked {
		c.state.Achievements = append(c.state.Achievements, model.UnlockedAchievement{OwnerID: testOwner, AchievementID: id})
	}
}

func drain(sub *Subscriber) []Notice {
	var out []Notice
	for {
		select {
		case n := <-sub.Notices:
			out = append(out, *n)
		default:
			return out
		}
	}
}

func messages(notices []Notice) []string {
	out := make([]string, len(notices))
	for i, n := range notices {
		out[i] = n.Message
	}
	return out
}
