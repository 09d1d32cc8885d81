package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/habitquest/internal/model"
)

func TestChallengeService_CurrentWeek(t *testing.T) {
	t.Parallel()

	s := NewChallengeService(ChallengeServiceConfig{Now: fixedClock, Location: time.UTC})
	assert.Equal(t, model.Week{Start: "2026-03-02", End: "2026-03-08"}, s.CurrentWeek())
}

func TestChallengeService_Unconfigured(t *testing.T) {
	t.Parallel()

	s := NewChallengeService(ChallengeServiceConfig{Now: fixedClock, Location: time.UTC, Logger: testLogger()})

	_, err := s.ActiveChallenges(context.Background())
	assert.ErrorIs(t, err, ErrChallengesUnavailable)

	_, err = s.Leaderboard(context.Background(), 5)
	assert.ErrorIs(t, err, ErrChallengesUnavailable)
}

func TestChallengeService_Leaderboard(t *testing.T) {
	t.Parallel()

	var gotLimit int
	var gotWeek model.Week
	store := &mockStore{
		leaderboardFunc: func(_ context.Context, week model.Week, limit int) ([]model.LeaderboardEntry, error) {
			gotWeek, gotLimit = week, limit
			return []model.LeaderboardEntry{{OwnerID: "alice", TotalXP: 120}}, nil
		},
	}
	s := NewChallengeService(ChallengeServiceConfig{Store: store, Now: fixedClock, Location: time.UTC})

	entries, err := s.Leaderboard(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, DefaultLeaderboardLimit, gotLimit)
	assert.Equal(t, "2026-03-02", gotWeek.Start)
}

func TestChallengeService_RefreshProgress(t *testing.T) {
	t.Parallel()

	var saved []model.ChallengeProgress
	store := &mockStore{
		fetchDailyLogsFunc: func(context.Context, string) ([]*model.DailyLog, error) {
			return []*model.DailyLog{
				{OwnerID: testOwner, Date: "2026-03-01", HabitIDs: []string{"a", "b"}},
				{OwnerID: testOwner, Date: "2026-03-02", HabitIDs: []string{"a", "b"}},
				{OwnerID: testOwner, Date: "2026-03-04", HabitIDs: []string{"a"}},
			}, nil
		},
		fetchActiveChallengesFunc: func(context.Context, model.Week) ([]*model.Challenge, error) {
			return []*model.Challenge{
				{ID: "small", Title: "Three quests", StartDate: "2026-03-02", EndDate: "2026-03-08", TargetCount: 3, RewardXP: 20},
				{ID: "big", Title: "Twenty quests", StartDate: "2026-03-02", EndDate: "2026-03-08", TargetCount: 20, RewardXP: 100},
			}, nil
		},
		upsertProgressFunc: func(_ context.Context, p *model.ChallengeProgress) error {
			saved = append(saved, *p)
			return nil
		},
	}
	registry := NewRegistry(RegistryConfig{Store: store, Now: fixedClock, Location: time.UTC, Logger: testLogger()})
	s := NewChallengeService(ChallengeServiceConfig{Store: store, Registry: registry, Now: fixedClock, Location: time.UTC})

	progress, err := s.RefreshProgress(context.Background(), testOwner)
	require.NoError(t, err)
	require.Len(t, progress, 2)

	assert.Equal(t, 3, progress[0].Progress)
	assert.True(t, progress[0].Completed)
	assert.Equal(t, 3, progress[1].Progress)
	assert.False(t, progress[1].Completed)
	assert.Equal(t, progress, saved)
}

func TestChallengeService_RefreshAll(t *testing.T) {
	t.Parallel()

	store := &mockStore{
		fetchActiveChallengesFunc: func(context.Context, model.Week) ([]*model.Challenge, error) {
			return []*model.Challenge{{ID: "c", Title: "c", StartDate: "2026-03-02", EndDate: "2026-03-08", TargetCount: 1}}, nil
		},
		upsertProgressFunc: func(_ context.Context, p *model.ChallengeProgress) error {
			if p.OwnerID == "bob" {
				return errors.New("row locked")
			}
			return nil
		},
	}
	registry := NewRegistry(RegistryConfig{Store: store, Now: fixedClock, Location: time.UTC, Logger: testLogger()})
	for _, id := range []string{"alice", "bob"} {
		_, err := registry.Get(context.Background(), id)
		require.NoError(t, err)
	}
	s := NewChallengeService(ChallengeServiceConfig{Store: store, Registry: registry, Now: fixedClock, Location: time.UTC, Logger: testLogger()})

	n, err := s.RefreshAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCompletionsBetween(t *testing.T) {
	t.Parallel()

	logs := map[string]model.DailyLog{
		"2026-03-01": {HabitIDs: []string{"a"}},
		"2026-03-02": {HabitIDs: []string{"a", "b"}},
		"2026-03-08": {HabitIDs: []string{"c"}},
		"2026-03-09": {HabitIDs: []string{"d"}},
	}
	assert.Equal(t, 3, CompletionsBetween(logs, "2026-03-02", "2026-03-08"))
}
