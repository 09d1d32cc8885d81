package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/habitquest/internal/model"
)

func TestController_AddHabit(t *testing.T) {
	t.Parallel()

	hub := NewNoticeHub(0)
	defer hub.Close()
	sub := hub.Subscribe(testOwner, "sub-1")

	var upserted *model.Habit
	store := &mockStore{
		upsertHabitFunc: func(_ context.Context, h *model.Habit) (*model.Habit, error) {
			upserted = h
			return h, nil
		},
	}
	cache := newMemoryCache()
	c := newTestController(t, store, cache, hub)

	habit, err := c.AddHabit(context.Background(), &model.CreateHabitRequest{
		Name:       "Drink water",
		Category:   model.CategoryHealth,
		Difficulty: model.DifficultyEasy,
		XPValue:    3,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, habit.ID)
	assert.Equal(t, testOwner, habit.OwnerID)
	assert.Equal(t, model.HabitStatusActive, habit.Status)
	assert.Zero(t, habit.StreakCount)
	require.NotNil(t, upserted)
	assert.Equal(t, habit.ID, upserted.ID)

	snap, ok := cache.saved(testOwner)
	require.True(t, ok)
	assert.Len(t, snap.Habits, 1)

	assert.Equal(t, []string{"New quest added: Drink water!"}, messages(drain(sub)))
}

func TestController_AddHabit_Invalid(t *testing.T) {
	t.Parallel()

	c := newTestController(t, nil, nil, nil)
	_, err := c.AddHabit(context.Background(), &model.CreateHabitRequest{Name: "", XPValue: 0})

	assert.ErrorIs(t, err, ErrInvalidHabit)
	assert.Empty(t, c.Habits())
}

func TestController_Toggle_LocalOnly(t *testing.T) {
	t.Parallel()

	hub := NewNoticeHub(0)
	defer hub.Close()
	sub := hub.Subscribe(testOwner, "sub-1")

	c := newTestController(t, nil, newMemoryCache(), hub)
	seed(c, []model.Habit{activeHabit("a", 3, 0)}, nil, model.NewPlayerStats())

	out, err := c.Toggle(context.Background(), "a", "")
	require.NoError(t, err)

	require.True(t, out.Applied)
	assert.True(t, out.Completed)
	assert.True(t, out.PerfectDay)
	assert.Equal(t, 53.0, out.Delta) // 3 XP plus the perfect-day bonus
	assert.Equal(t, 1.0, out.Multiplier)
	require.Len(t, out.Unlocked, 1)
	assert.Equal(t, "first_step", out.Unlocked[0].ID)
	assert.Equal(t, 10, out.RewardXP)

	assert.Equal(t, 63.0, out.Stats.TotalXP)
	assert.Equal(t, 63.0, out.Stats.CurrentXP)
	assert.Equal(t, 1, out.Stats.CurrentStreak)
	assert.Equal(t, 1, out.Stats.Level)
	assert.True(t, c.LocalOnly())

	assert.Equal(t, []string{
		"+3 XP! (1x multiplier)",
		"+50 XP Perfect Day Bonus!",
		"Achievement Unlocked: First Step!",
	}, messages(drain(sub)))
}

func TestController_Toggle_UnknownHabitIsNoop(t *testing.T) {
	t.Parallel()

	cache := newMemoryCache()
	c := newTestController(t, nil, cache, nil)
	seed(c, []model.Habit{activeHabit("a", 3, 0)}, nil, model.NewPlayerStats())

	out, err := c.Toggle(context.Background(), "missing", "2026-03-05")
	require.NoError(t, err)
	assert.False(t, out.Applied)
	assert.Empty(t, c.State().DailyLogs)
	assert.Zero(t, cache.saves)
}

func TestController_Toggle_InvalidDate(t *testing.T) {
	t.Parallel()

	c := newTestController(t, nil, nil, nil)
	_, err := c.Toggle(context.Background(), "a", "03/05/2026")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestController_Toggle_RollbackOnStoreFailure(t *testing.T) {
	t.Parallel()

	hub := NewNoticeHub(0)
	defer hub.Close()
	sub := hub.Subscribe(testOwner, "sub-1")

	store := &mockStore{
		upsertDailyLogFunc: func(context.Context, *model.DailyLog) (*model.DailyLog, error) {
			return nil, errors.New("connection reset")
		},
	}
	cache := newMemoryCache()
	c := newTestController(t, store, cache, hub)
	seed(c, []model.Habit{activeHabit("a", 3, 0), activeHabit("b", 5, 0)}, nil, model.NewPlayerStats())
	before := c.State()

	out, err := c.Toggle(context.Background(), "a", "2026-03-05")
	require.Error(t, err)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, ErrStoreWrite)

	after := c.State()
	assert.Equal(t, before.Habits, after.Habits)
	assert.Equal(t, before.DailyLogs, after.DailyLogs)
	assert.Equal(t, before.Stats, after.Stats)
	assert.Empty(t, after.Achievements)
	assert.False(t, c.LocalOnly())

	// The cache keeps the optimistic write.
	snap, ok := cache.saved(testOwner)
	require.True(t, ok)
	assert.True(t, snap.DailyLogs["2026-03-05"].Contains("a"))

	notices := drain(sub)
	require.Len(t, notices, 1)
	assert.Equal(t, NoticeError, notices[0].Kind)
	assert.Equal(t, "Failed to update habit status", notices[0].Message)
}

func TestController_Toggle_AtomicWrite(t *testing.T) {
	t.Parallel()

	calls := 0
	var habit *model.Habit
	var log *model.DailyLog
	var profile *model.Profile
	var unlocks []*model.UnlockedAchievement
	store := &atomicStore{
		mockStore: separateWritesFail(t),
		saveToggleFunc: func(_ context.Context, h *model.Habit, l *model.DailyLog, p *model.Profile, u []*model.UnlockedAchievement) error {
			calls++
			habit, log, profile, unlocks = h, l, p, u
			return nil
		},
	}
	c := newTestController(t, store, nil, nil)
	seed(c, []model.Habit{activeHabit("a", 3, 0), activeHabit("b", 5, 0)}, nil, model.NewPlayerStats())

	out, err := c.Toggle(context.Background(), "a", "2026-03-05")
	require.NoError(t, err)

	require.Equal(t, 1, calls)
	assert.Equal(t, 1, habit.StreakCount)
	assert.Equal(t, []string{"a"}, log.HabitIDs)
	assert.Equal(t, out.Stats.TotalXP, profile.TotalXP)
	require.Len(t, unlocks, len(out.Unlocked))
	for i, d := range out.Unlocked {
		assert.Equal(t, d.ID, unlocks[i].AchievementID)
	}
}

func TestController_Toggle_AtomicWriteFailureRollsBack(t *testing.T) {
	t.Parallel()

	hub := NewNoticeHub(0)
	defer hub.Close()
	sub := hub.Subscribe(testOwner, "sub-1")

	store := &atomicStore{
		mockStore: separateWritesFail(t),
		saveToggleFunc: func(context.Context, *model.Habit, *model.DailyLog, *model.Profile, []*model.UnlockedAchievement) error {
			return errors.New("transaction aborted")
		},
	}
	c := newTestController(t, store, nil, hub)
	seed(c, []model.Habit{activeHabit("a", 3, 0)}, nil, model.NewPlayerStats())
	before := c.State()

	_, err := c.Toggle(context.Background(), "a", "2026-03-05")
	require.ErrorIs(t, err, ErrStoreWrite)
	assert.Contains(t, err.Error(), "transaction aborted")

	after := c.State()
	assert.Equal(t, before.Habits, after.Habits)
	assert.Equal(t, before.Stats, after.Stats)
	assert.Empty(t, after.DailyLogs)
	assert.Empty(t, after.Achievements)

	notices := drain(sub)
	require.Len(t, notices, 1)
	assert.Equal(t, NoticeError, notices[0].Kind)
}

func TestController_Toggle_UnconfiguredAtomicStoreGoesLocalOnly(t *testing.T) {
	t.Parallel()

	c := newTestController(t, UnconfiguredStore{}, nil, nil)
	seed(c, []model.Habit{activeHabit("a", 3, 0)}, nil, model.NewPlayerStats())

	out, err := c.Toggle(context.Background(), "a", "2026-03-05")
	require.NoError(t, err)
	assert.True(t, out.Applied)
	assert.True(t, c.LocalOnly())
	assert.True(t, c.State().DailyLogs["2026-03-05"].Contains("a"))
}

func TestController_RemoveHabit_RollbackOnStoreFailure(t *testing.T) {
	t.Parallel()

	hub := NewNoticeHub(0)
	defer hub.Close()
	sub := hub.Subscribe(testOwner, "sub-1")

	store := &mockStore{
		deleteHabitFunc: func(context.Context, string, string) error {
			return errors.New("permission denied")
		},
	}
	c := newTestController(t, store, nil, hub)
	seed(c, []model.Habit{activeHabit("a", 3, 0)}, nil, model.NewPlayerStats())

	found, err := c.RemoveHabit(context.Background(), "a")
	assert.True(t, found)
	assert.ErrorIs(t, err, ErrStoreWrite)

	_, ok := c.Habit("a")
	assert.True(t, ok)
	assert.Equal(t, []string{"Failed to delete habit"}, messages(drain(sub)))
}

func TestController_RemoveHabit_NotFound(t *testing.T) {
	t.Parallel()

	called := false
	store := &mockStore{
		deleteHabitFunc: func(context.Context, string, string) error {
			called = true
			return nil
		},
	}
	c := newTestController(t, store, nil, nil)

	found, err := c.RemoveHabit(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, found)
	assert.False(t, called)
}

func TestController_SetHabitStatus(t *testing.T) {
	t.Parallel()

	c := newTestController(t, &mockStore{}, nil, nil)
	seed(c, []model.Habit{activeHabit("a", 3, 0)}, nil, model.NewPlayerStats())

	habit, found, err := c.SetHabitStatus(context.Background(), "a", model.HabitStatusPaused)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, model.HabitStatusPaused, habit.Status)

	_, _, err = c.SetHabitStatus(context.Background(), "a", "Deleted")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestController_Toggle_DoubleUnlockAppliedOnce(t *testing.T) {
	t.Parallel()

	c := newTestController(t, &mockStore{}, nil, nil)
	logs := map[string]model.DailyLog{}
	for _, d := range []string{"2026-02-27", "2026-02-28", "2026-03-01", "2026-03-02", "2026-03-03", "2026-03-04"} {
		logs[d] = model.DailyLog{OwnerID: testOwner, Date: d, HabitIDs: []string{"a"}, TotalXP: 3}
	}
	seed(c,
		[]model.Habit{activeHabit("a", 3, 6), activeHabit("b", 5, 0)},
		logs,
		model.PlayerStats{Level: 1, TotalXP: 97, CurrentXP: 97, CurrentStreak: 6, BestStreak: 6},
		"first_step",
	)

	out, err := c.Toggle(context.Background(), "a", "2026-03-05")
	require.NoError(t, err)

	ids := make([]string, 0, len(out.Unlocked))
	for _, d := range out.Unlocked {
		ids = append(ids, d.ID)
	}
	assert.ElementsMatch(t, []string{"week_warrior", "century_club"}, ids)
	assert.Equal(t, 75, out.RewardXP)
	assert.Equal(t, 175.0, out.Stats.TotalXP) // 97 + 3 + 25 + 50
	assert.Equal(t, 7, out.Stats.CurrentStreak)
	assert.Equal(t, 2, out.Stats.Level)

	// Completing the second habit finishes the day but unlocks nothing new.
	out, err = c.Toggle(context.Background(), "b", "2026-03-05")
	require.NoError(t, err)
	assert.Empty(t, out.Unlocked)
	assert.True(t, out.PerfectDay)
	assert.Equal(t, 230.0, out.Stats.TotalXP)
	assert.Len(t, c.State().Achievements, 3)
}

func TestController_PerfectDayBonusGrantedOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := newTestController(t, nil, nil, nil)
	seed(c, []model.Habit{activeHabit("a", 1, 0), activeHabit("b", 1, 0), activeHabit("c", 1, 0)}, nil, model.NewPlayerStats())

	for _, id := range []string{"a", "b"} {
		out, err := c.Toggle(ctx, id, "2026-03-05")
		require.NoError(t, err)
		assert.False(t, out.PerfectDay)
	}
	out, err := c.Toggle(ctx, "c", "2026-03-05")
	require.NoError(t, err)
	assert.True(t, out.PerfectDay)
	assert.True(t, out.Log.PerfectBonusApplied)

	// Un-complete and re-complete: the bonus is kept but not granted again.
	out, err = c.Toggle(ctx, "c", "2026-03-05")
	require.NoError(t, err)
	assert.True(t, out.Log.PerfectBonusApplied)
	out, err = c.Toggle(ctx, "c", "2026-03-05")
	require.NoError(t, err)
	assert.False(t, out.PerfectDay)

	// A fourth habit added later in the day does not re-trigger it.
	added, err := c.AddHabit(ctx, &model.CreateHabitRequest{Name: "Stretch", Category: model.CategoryHealth, Difficulty: model.DifficultyEasy, XPValue: 1})
	require.NoError(t, err)
	out, err = c.Toggle(ctx, added.ID, "2026-03-05")
	require.NoError(t, err)
	assert.False(t, out.PerfectDay)
	assert.Len(t, out.Log.HabitIDs, 4)
}

func TestController_BestStreakNeverDecreases(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := newTestController(t, nil, nil, nil)
	seed(c, []model.Habit{activeHabit("a", 2, 0), activeHabit("b", 2, 0)}, nil, model.NewPlayerStats())

	steps := []struct{ habit, date string }{
		{"a", "2026-03-03"}, {"a", "2026-03-04"}, {"a", "2026-03-05"},
		{"a", "2026-03-04"}, {"b", "2026-03-05"}, {"a", "2026-03-05"},
		{"b", "2026-03-05"}, {"a", "2026-03-04"},
	}

	best := 0
	for _, s := range steps {
		out, err := c.Toggle(ctx, s.habit, s.date)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, out.Stats.BestStreak, best)
		assert.GreaterOrEqual(t, out.Stats.BestStreak, out.Stats.CurrentStreak)
		best = out.Stats.BestStreak
	}
	assert.Equal(t, 3, best)
}

func TestController_Load(t *testing.T) {
	t.Parallel()

	cache := newMemoryCache()
	cached := model.NewSnapshot(testOwner)
	cached.Habits = []model.Habit{activeHabit("stale", 1, 0)}
	cached.Stats = model.PlayerStats{Level: 1, TotalXP: 40, CurrentXP: 40, BestStreak: 9}
	require.NoError(t, cache.Save(context.Background(), cached))

	remote := activeHabit("fresh", 4, 2)
	var createdProfile *model.Profile
	store := &mockStore{
		fetchHabitsFunc: func(context.Context, string) ([]*model.Habit, error) {
			bad := activeHabit("", 0, 0)
			return []*model.Habit{&remote, &bad}, nil
		},
		fetchDailyLogsFunc: func(context.Context, string) ([]*model.DailyLog, error) {
			return []*model.DailyLog{{OwnerID: testOwner, Date: "2026-03-05", HabitIDs: []string{"fresh"}, TotalXP: 4}}, nil
		},
		upsertProfileFunc: func(_ context.Context, p *model.Profile) (*model.Profile, error) {
			createdProfile = p
			return p, nil
		},
	}

	c := newTestController(t, store, cache, nil)
	require.NoError(t, c.Load(context.Background()))

	state := c.State()
	require.Len(t, state.Habits, 1)
	assert.Equal(t, "fresh", state.Habits[0].ID)
	assert.Equal(t, 1, state.Stats.CurrentStreak)
	assert.Equal(t, 9, state.Stats.BestStreak)
	assert.Equal(t, 40.0, state.Stats.TotalXP)
	require.NotNil(t, createdProfile)
	assert.Equal(t, testOwner, createdProfile.OwnerID)
	assert.False(t, c.LocalOnly())
}

func TestController_Load_MergesRemoteProfile(t *testing.T) {
	t.Parallel()

	store := &mockStore{
		fetchProfileFunc: func(context.Context, string) (*model.Profile, error) {
			return &model.Profile{OwnerID: testOwner, Level: 2, TotalXP: 180, BestStreak: 4}, nil
		},
		upsertProfileFunc: func(context.Context, *model.Profile) (*model.Profile, error) {
			t.Error("existing profile must not be recreated")
			return nil, nil
		},
	}
	c := newTestController(t, store, nil, nil)
	require.NoError(t, c.Load(context.Background()))

	stats := c.State().Stats
	assert.Equal(t, 180.0, stats.TotalXP)
	assert.Equal(t, 2, stats.Level)
	assert.Equal(t, 4, stats.BestStreak)
}

func TestController_Load_RemoteProfileMovesCurrentXP(t *testing.T) {
	t.Parallel()

	remote := 180.0
	store := &mockStore{
		fetchProfileFunc: func(context.Context, string) (*model.Profile, error) {
			return &model.Profile{OwnerID: testOwner, Level: 2, TotalXP: remote, BestStreak: 1}, nil
		},
	}
	cache := newMemoryCache()
	require.NoError(t, cache.Save(context.Background(), model.Snapshot{
		OwnerID:   testOwner,
		Habits:    []model.Habit{},
		DailyLogs: map[string]model.DailyLog{},
		Stats:     model.PlayerStats{Level: 2, TotalXP: 150, CurrentXP: 40},
	}))
	c := newTestController(t, store, cache, nil)
	require.NoError(t, c.Load(context.Background()))

	stats := c.State().Stats
	assert.Equal(t, 180.0, stats.TotalXP)
	assert.Equal(t, 70.0, stats.CurrentXP)

	// A lower hosted total never drives CurrentXP negative
	remote = 20
	require.NoError(t, c.Load(context.Background()))
	stats = c.State().Stats
	assert.Equal(t, 20.0, stats.TotalXP)
	assert.Zero(t, stats.CurrentXP)
}

func TestController_Load_LocalOnly(t *testing.T) {
	t.Parallel()

	cache := newMemoryCache()
	cached := model.NewSnapshot(testOwner)
	cached.Habits = []model.Habit{activeHabit("a", 1, 0)}
	require.NoError(t, cache.Save(context.Background(), cached))

	c := newTestController(t, UnconfiguredStore{}, cache, nil)
	require.NoError(t, c.Load(context.Background()))

	assert.True(t, c.LocalOnly())
	assert.Len(t, c.Habits(), 1)
}

func TestController_Load_RemoteFailureKeepsCache(t *testing.T) {
	t.Parallel()

	cache := newMemoryCache()
	cached := model.NewSnapshot(testOwner)
	cached.Habits = []model.Habit{activeHabit("a", 1, 0)}
	require.NoError(t, cache.Save(context.Background(), cached))

	store := &mockStore{
		fetchHabitsFunc: func(context.Context, string) ([]*model.Habit, error) {
			return nil, errors.New("timeout")
		},
	}
	c := newTestController(t, store, cache, nil)

	err := c.Load(context.Background())
	assert.ErrorIs(t, err, ErrStoreRead)
	assert.Len(t, c.Habits(), 1)
	assert.False(t, c.LocalOnly())
}

func TestController_ApplyRemote(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := newMemoryCache()
	c := newTestController(t, nil, cache, nil)
	seed(c, []model.Habit{activeHabit("a", 3, 0)}, nil, model.PlayerStats{Level: 1, BestStreak: 5})

	t.Run("habit insert then update", func(t *testing.T) {
		h := activeHabit("b", 2, 0)
		applied, err := c.ApplyRemote(ctx, model.Change{Entity: model.EntityHabit, Action: model.ChangeInsert, OwnerID: testOwner, Key: "b", Habit: &h})
		require.NoError(t, err)
		assert.True(t, applied)

		h.Name = "Renamed"
		applied, err = c.ApplyRemote(ctx, model.Change{Entity: model.EntityHabit, Action: model.ChangeUpdate, OwnerID: testOwner, Key: "b", Habit: &h})
		require.NoError(t, err)
		assert.True(t, applied)

		got, ok := c.Habit("b")
		require.True(t, ok)
		assert.Equal(t, "Renamed", got.Name)
		assert.Len(t, c.Habits(), 2)
	})

	t.Run("daily log upsert rederives streak", func(t *testing.T) {
		l := model.DailyLog{OwnerID: testOwner, Date: "2026-03-05", HabitIDs: []string{"a"}, TotalXP: 3}
		applied, err := c.ApplyRemote(ctx, model.Change{Entity: model.EntityDailyLog, Action: model.ChangeInsert, OwnerID: testOwner, Key: l.Date, DailyLog: &l})
		require.NoError(t, err)
		assert.True(t, applied)
		assert.Equal(t, 1, c.State().Stats.CurrentStreak)
	})

	t.Run("profile merge keeps best streak", func(t *testing.T) {
		p := model.Profile{OwnerID: testOwner, Level: 1, TotalXP: 55, BestStreak: 2}
		applied, err := c.ApplyRemote(ctx, model.Change{Entity: model.EntityProfile, Action: model.ChangeUpdate, OwnerID: testOwner, Key: testOwner, Profile: &p})
		require.NoError(t, err)
		assert.True(t, applied)
		stats := c.State().Stats
		assert.Equal(t, 55.0, stats.TotalXP)
		assert.Equal(t, 5, stats.BestStreak)
	})

	t.Run("duplicate achievement ignored", func(t *testing.T) {
		a := model.UnlockedAchievement{OwnerID: testOwner, AchievementID: "first_step", XP: 10}
		applied, err := c.ApplyRemote(ctx, model.Change{Entity: model.EntityAchievement, Action: model.ChangeInsert, OwnerID: testOwner, Key: "first_step", Achievement: &a})
		require.NoError(t, err)
		assert.True(t, applied)

		applied, err = c.ApplyRemote(ctx, model.Change{Entity: model.EntityAchievement, Action: model.ChangeInsert, OwnerID: testOwner, Key: "first_step", Achievement: &a})
		require.NoError(t, err)
		assert.False(t, applied)
		assert.Len(t, c.State().Achievements, 1)
	})

	t.Run("delete of unknown habit is a noop", func(t *testing.T) {
		applied, err := c.ApplyRemote(ctx, model.Change{Entity: model.EntityHabit, Action: model.ChangeDelete, OwnerID: testOwner, Key: "zzz"})
		require.NoError(t, err)
		assert.False(t, applied)
	})

	t.Run("habit delete", func(t *testing.T) {
		applied, err := c.ApplyRemote(ctx, model.Change{Entity: model.EntityHabit, Action: model.ChangeDelete, OwnerID: testOwner, Key: "b"})
		require.NoError(t, err)
		assert.True(t, applied)
		_, ok := c.Habit("b")
		assert.False(t, ok)
	})

	t.Run("other owner rejected", func(t *testing.T) {
		_, err := c.ApplyRemote(ctx, model.Change{Entity: model.EntityHabit, Action: model.ChangeDelete, OwnerID: "someone-else", Key: "a"})
		assert.ErrorIs(t, err, ErrOwnerMismatch)
	})
}

func TestController_RefreshStreak(t *testing.T) {
	t.Parallel()

	c := newTestController(t, nil, nil, nil)
	logs := map[string]model.DailyLog{
		"2026-03-04": {OwnerID: testOwner, Date: "2026-03-04", HabitIDs: []string{"a"}},
	}
	seed(c, []model.Habit{activeHabit("a", 1, 1)}, logs, model.PlayerStats{Level: 1, CurrentStreak: 1, BestStreak: 1})

	stats := c.RefreshStreak(context.Background())
	assert.Equal(t, 0, stats.CurrentStreak)
	assert.Equal(t, 1, stats.BestStreak)
}

func TestController_SummaryAndAchievements(t *testing.T) {
	t.Parallel()

	c := newTestController(t, nil, nil, nil)
	logs := map[string]model.DailyLog{
		"2026-03-05": {OwnerID: testOwner, Date: "2026-03-05", HabitIDs: []string{"a"}, TotalXP: 3},
	}
	seed(c, []model.Habit{activeHabit("a", 3, 1), activeHabit("b", 3, 0)}, logs,
		model.PlayerStats{Level: 2, TotalXP: 150, CurrentXP: 150, CurrentStreak: 8, BestStreak: 8}, "first_step")

	summary := c.Summary()
	assert.Equal(t, "Apprentice", summary.Level.Name)
	assert.Equal(t, 101.0, summary.Level.XPToNextLevel)
	assert.Equal(t, 1.2, summary.Streak.Multiplier)
	assert.Equal(t, 20, summary.Streak.BonusPercent)
	assert.Equal(t, 1, summary.Today.Completed)
	assert.Equal(t, 2, summary.Today.Total)
	assert.Equal(t, 50.0, summary.Today.CompletionRate)

	views := c.Achievements()
	require.NotEmpty(t, views)
	assert.Equal(t, "first_step", views[0].ID)
	assert.True(t, views[0].Unlocked)
	assert.False(t, views[1].Unlocked)
}
