package repository_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/habitquest/internal/model"
	"github.com/forgo/habitquest/internal/repository"
	"github.com/forgo/habitquest/internal/testing/fixtures"
	"github.com/forgo/habitquest/internal/testing/testdb"
)

// These run against a real SurrealDB when TEST_DB_HOST is set.

func TestSurrealStore_HabitRoundTrip(t *testing.T) {
	tdb := testdb.NewSurreal(t)
	store := repository.NewStore(tdb.DB)
	f := fixtures.New(store, "player-1")

	run := f.CreateHabit(t, fixtures.WithXP(20))
	paused := f.CreateHabit(t, fixtures.WithStatus(model.HabitStatusPaused))
	fixtures.New(store, "player-2").CreateHabit(t)

	habits, err := store.FetchHabits(testdb.Ctx(t), "player-1")
	require.NoError(t, err)
	require.Len(t, habits, 2)

	byID := map[string]*model.Habit{}
	for _, h := range habits {
		byID[h.ID] = h
	}
	assert.Equal(t, 20, byID[run.ID].XPValue)
	assert.Equal(t, model.HabitStatusPaused, byID[paused.ID].Status)

	require.NoError(t, store.DeleteHabit(testdb.Ctx(t), run.ID, "player-1"))
	habits, err = store.FetchHabits(testdb.Ctx(t), "player-1")
	require.NoError(t, err)
	assert.Len(t, habits, 1)
}

func TestSurrealStore_LogsProfileAchievements(t *testing.T) {
	tdb := testdb.NewSurreal(t)
	store := repository.NewStore(tdb.DB)
	f := fixtures.New(store, "player-1")

	h := f.CreateHabit(t)
	f.CompleteOn(t, "2026-03-02", h)
	f.CompleteOn(t, "2026-03-03", h)
	// same date replaces the earlier log
	f.CompleteOn(t, "2026-03-03")

	logs, err := store.FetchDailyLogs(testdb.Ctx(t), "player-1")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	days := map[string]*model.DailyLog{}
	for _, l := range logs {
		days[l.Date] = l
	}
	assert.Equal(t, []string{h.ID}, days["2026-03-02"].HabitIDs)
	assert.Empty(t, days["2026-03-03"].HabitIDs)

	f.SaveProfile(t, 260, 4)
	profile, err := store.FetchProfile(testdb.Ctx(t), "player-1")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, 3, profile.Level)
	assert.Equal(t, 4, profile.BestStreak)

	f.Unlock(t, "first_step")
	f.Unlock(t, "first_step")
	unlocked, err := store.FetchAchievements(testdb.Ctx(t), "player-1")
	require.NoError(t, err)
	require.Len(t, unlocked, 1)
	assert.Equal(t, "first_step", unlocked[0].AchievementID)
}

func TestSurrealStore_ChallengesAndLeaderboard(t *testing.T) {
	tdb := testdb.NewSurreal(t)
	store := repository.NewStore(tdb.DB)
	week := model.Week{Start: "2026-03-02", End: "2026-03-08"}

	tdb.SeedChallenge(fixtures.Challenge(week, 5, 100))
	tdb.SeedChallenge(fixtures.Challenge(model.Week{Start: "2026-02-23", End: "2026-03-01"}, 3, 50))

	active, err := store.FetchActiveChallenges(testdb.Ctx(t), week)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, 5, active[0].TargetCount)

	require.NoError(t, store.UpsertChallengeProgress(testdb.Ctx(t), &model.ChallengeProgress{
		OwnerID: "player-1", ChallengeID: active[0].ID, Progress: 2,
	}))

	a := fixtures.New(store, "alice")
	b := fixtures.New(store, "bob")
	a.CompleteOn(t, "2026-03-03", a.CreateHabit(t, fixtures.WithXP(30)))
	b.CompleteOn(t, "2026-03-04", b.CreateHabit(t, fixtures.WithXP(10)))
	b.CompleteOn(t, "2026-03-01", b.CreateHabit(t, fixtures.WithXP(500)))

	board, err := store.WeeklyLeaderboard(testdb.Ctx(t), week, 10)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, "alice", board[0].OwnerID)
	assert.Equal(t, 30.0, board[0].TotalXP)
}

func TestSurrealStore_SaveToggle(t *testing.T) {
	tdb := testdb.NewSurreal(t)
	store := repository.NewStore(tdb.DB)
	f := fixtures.New(store, "player-1")

	h := f.CreateHabit(t)
	h.StreakCount, h.TotalCompletions = 1, 1
	log := &model.DailyLog{OwnerID: "player-1", Date: "2026-03-05", HabitIDs: []string{h.ID}, TotalXP: 10}
	profile := &model.Profile{OwnerID: "player-1", Level: 1, TotalXP: 35, BestStreak: 1}
	unlock := &model.UnlockedAchievement{OwnerID: "player-1", AchievementID: "first_step", Name: "First Step", XP: 25}

	require.NoError(t, store.SaveToggle(testdb.Ctx(t), h, log, profile, []*model.UnlockedAchievement{unlock}))
	// replaying an existing unlock must not abort the transaction
	require.NoError(t, store.SaveToggle(testdb.Ctx(t), h, log, profile, []*model.UnlockedAchievement{unlock}))

	habits, err := store.FetchHabits(testdb.Ctx(t), "player-1")
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, 1, habits[0].TotalCompletions)

	logs, err := store.FetchDailyLogs(testdb.Ctx(t), "player-1")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, []string{h.ID}, logs[0].HabitIDs)

	p, err := store.FetchProfile(testdb.Ctx(t), "player-1")
	require.NoError(t, err)
	assert.Equal(t, 35.0, p.TotalXP)

	unlocked, err := store.FetchAchievements(testdb.Ctx(t), "player-1")
	require.NoError(t, err)
	assert.Len(t, unlocked, 1)
}
