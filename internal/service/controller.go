package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/forgo/habitquest/internal/metrics"
	"github.com/forgo/habitquest/internal/model"
	"github.com/forgo/habitquest/internal/scoring"
)

// Failure notices shown when a remote write is reverted
const (
	msgToggleFailed = "Failed to update habit status"
	msgDeleteFailed = "Failed to delete habit"
	msgSaveFailed   = "Failed to save changes"
)

// DefaultStoreTimeout bounds a command's remote writes
const DefaultStoreTimeout = 10 * time.Second

// remoteWrite is one hosted store call made after a local commit
type remoteWrite func(ctx context.Context, store Store) error

// Controller owns the state of one player. Every command and every remote
// change is applied under one mutex, so scoring never interleaves for an
// owner.
type Controller struct {
	mu        sync.Mutex
	ownerID   string
	state     model.Snapshot
	localOnly bool

	store     Store
	cache     SnapshotCache
	notices   *NoticeHub
	evaluator *scoring.Evaluator
	now       func() time.Time
	location  *time.Location
	lookback  int
	timeout   time.Duration
	logger    logrus.FieldLogger
}

// ControllerConfig holds dependencies for Controller. Only OwnerID is
// required; a nil Store means local-only mode.
type ControllerConfig struct {
	OwnerID        string
	Store          Store
	Cache          SnapshotCache
	Notices        *NoticeHub
	Evaluator      *scoring.Evaluator
	Now            func() time.Time
	Location       *time.Location
	StreakLookback int
	StoreTimeout   time.Duration
	Logger         logrus.FieldLogger
}

// NewController creates a controller holding an empty snapshot. Call Load
// to restore the cached and remote state.
func NewController(cfg ControllerConfig) *Controller {
	c := &Controller{
		ownerID:   cfg.OwnerID,
		state:     model.NewSnapshot(cfg.OwnerID),
		store:     cfg.Store,
		cache:     cfg.Cache,
		notices:   cfg.Notices,
		evaluator: cfg.Evaluator,
		now:       cfg.Now,
		location:  cfg.Location,
		lookback:  cfg.StreakLookback,
		timeout:   cfg.StoreTimeout,
		logger:    cfg.Logger,
	}
	if c.store == nil {
		c.store = UnconfiguredStore{}
	}
	if c.evaluator == nil {
		c.evaluator = scoring.NewEvaluator(nil)
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.location == nil {
		c.location = time.Local
	}
	if c.lookback <= 0 {
		c.lookback = scoring.DefaultStreakLookback
	}
	if c.timeout <= 0 {
		c.timeout = DefaultStoreTimeout
	}
	if c.logger == nil {
		logger := logrus.New()
		logger.SetLevel(logrus.WarnLevel)
		c.logger = logger
	}
	c.logger = c.logger.WithField("owner_id", cfg.OwnerID)
	return c
}

// OwnerID returns the player this controller serves
func (c *Controller) OwnerID() string {
	return c.ownerID
}

// Today returns the current calendar date in the configured location
func (c *Controller) Today() string {
	return model.FormatDate(c.now().In(c.location))
}

// LocalOnly reports whether the hosted store turned out to be unconfigured
func (c *Controller) LocalOnly() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.localOnly
}

// ===== Loading =====

// Load restores the cached snapshot, then hydrates from the hosted store.
// A remote failure leaves the cached state in place and is returned
// wrapped in ErrStoreRead; it is never fatal.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadLocked(ctx)
}

func (c *Controller) loadLocked(ctx context.Context) error {
	if c.cache != nil {
		snap, err := c.cache.Load(ctx, c.ownerID)
		if err != nil {
			c.logger.WithError(err).Warn("failed to read cached snapshot")
		} else if snap != nil {
			snap.Normalize()
			snap.OwnerID = c.ownerID
			c.state = *snap
		}
	}

	err := c.hydrateLocked(ctx)
	c.refreshStreakLocked()
	c.state.Stats.Level = scoring.LevelFor(c.state.Stats.TotalXP).Level

	switch {
	case err == nil:
		c.saveCacheLocked(ctx)
		return nil
	case errors.Is(err, ErrStoreNotConfigured):
		return nil
	default:
		c.logger.WithError(err).Warn("failed to hydrate from hosted store, using cached state")
		return fmt.Errorf("%w: %v", ErrStoreRead, err)
	}
}

// hydrateLocked replaces local collections with the hosted copies. Records
// that fail validation are skipped.
func (c *Controller) hydrateLocked(ctx context.Context) error {
	rctx, cancel := c.remoteContext(ctx)
	defer cancel()

	habits, err := c.store.FetchHabits(rctx, c.ownerID)
	if err != nil {
		return c.noteStoreError(err)
	}
	logs, err := c.store.FetchDailyLogs(rctx, c.ownerID)
	if err != nil {
		return c.noteStoreError(err)
	}
	profile, err := c.store.FetchProfile(rctx, c.ownerID)
	if err != nil {
		return c.noteStoreError(err)
	}
	unlocked, err := c.store.FetchAchievements(rctx, c.ownerID)
	if err != nil {
		return c.noteStoreError(err)
	}
	c.setLocalOnly(false)

	c.state.Habits = make([]model.Habit, 0, len(habits))
	for _, h := range habits {
		if fields := h.Validate(); len(fields) > 0 {
			c.logger.WithField("habit_id", h.ID).WithField("field", fields[0].Field).Warn("skipping invalid habit from store")
			continue
		}
		c.state.Habits = append(c.state.Habits, h.Clone())
	}

	c.state.DailyLogs = make(map[string]model.DailyLog, len(logs))
	for _, l := range logs {
		if fields := l.Validate(); len(fields) > 0 {
			c.logger.WithField("date", l.Date).WithField("field", fields[0].Field).Warn("skipping invalid daily log from store")
			continue
		}
		c.state.DailyLogs[l.Date] = l.Clone()
	}

	c.state.Achievements = make([]model.UnlockedAchievement, 0, len(unlocked))
	for _, a := range unlocked {
		if fields := a.Validate(); len(fields) > 0 {
			continue
		}
		c.state.Achievements = append(c.state.Achievements, *a)
	}

	if profile == nil {
		if _, err := c.store.UpsertProfile(rctx, model.ProfileFromStats(c.ownerID, c.state.Stats)); err != nil {
			c.logger.WithError(err).Warn("failed to create profile")
		}
		return nil
	}
	c.mergeProfileLocked(profile)
	return nil
}

// mergeProfileLocked adopts the hosted TotalXP and moves CurrentXP by the
// same amount, floored at zero, so both counters keep moving together.
// BestStreak only grows.
func (c *Controller) mergeProfileLocked(p *model.Profile) {
	stats := &c.state.Stats
	stats.CurrentXP = max(0, roundXP(stats.CurrentXP+p.TotalXP-stats.TotalXP))
	stats.TotalXP = p.TotalXP
	stats.Level = scoring.LevelFor(stats.TotalXP).Level
	stats.BestStreak = max(stats.BestStreak, p.BestStreak)
}

// ===== Queries =====

// State returns a deep copy of the current snapshot
func (c *Controller) State() model.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Habits returns a copy of the player's habits
func (c *Controller) Habits() []model.Habit {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Habit, len(c.state.Habits))
	for i, h := range c.state.Habits {
		out[i] = h.Clone()
	}
	return out
}

// Habit returns one habit by id
func (c *Controller) Habit(id string) (model.Habit, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := c.state.HabitIndex(id)
	if idx < 0 {
		return model.Habit{}, false
	}
	return c.state.Habits[idx].Clone(), true
}

// Day summarises one date; a date with no log reports zero completions
func (c *Controller) Day(date string) model.DayStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dayLocked(date)
}

func (c *Controller) dayLocked(date string) model.DayStats {
	log, ok := c.state.DailyLogs[date]
	if !ok {
		log = model.NewDailyLog(c.ownerID, date)
	}
	return scoring.DayStats(c.state.Habits, log)
}

// Summary returns everything the dashboard shows at once
func (c *Controller) Summary() model.PlayerSummary {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.state.Stats
	band := scoring.LevelFor(stats.TotalXP)
	achievements := make([]model.UnlockedAchievement, len(c.state.Achievements))
	copy(achievements, c.state.Achievements)

	return model.PlayerSummary{
		Level: model.LevelView{
			Level:         band.Level,
			Name:          band.Name,
			TotalXP:       stats.TotalXP,
			CurrentXP:     stats.CurrentXP,
			XPToNextLevel: scoring.XPToNextLevel(stats.TotalXP),
			ProgressPct:   scoring.LevelProgress(stats.TotalXP),
		},
		Streak: model.StreakView{
			CurrentStreak: stats.CurrentStreak,
			BestStreak:    stats.BestStreak,
			Multiplier:    scoring.Multiplier(stats.CurrentStreak),
			BonusPercent:  scoring.BonusPercent(stats.CurrentStreak),
		},
		Today:        c.dayLocked(c.Today()),
		Achievements: achievements,
		LocalOnly:    c.localOnly,
	}
}

// Achievements lists every definition with the player's unlock state
func (c *Controller) Achievements() []model.AchievementView {
	c.mu.Lock()
	defer c.mu.Unlock()

	unlockedAt := make(map[string]time.Time, len(c.state.Achievements))
	for _, a := range c.state.Achievements {
		unlockedAt[a.AchievementID] = a.UnlockedAt
	}

	defs := c.evaluator.Definitions()
	out := make([]model.AchievementView, 0, len(defs))
	for _, d := range defs {
		view := model.AchievementView{AchievementDefinition: d}
		if at, ok := unlockedAt[d.ID]; ok {
			view.Unlocked = true
			view.UnlockedAt = &at
		}
		out = append(out, view)
	}
	return out
}

// ===== Habit commands =====

// AddHabit creates an Active habit with fresh progress counters
func (c *Controller) AddHabit(ctx context.Context, req *model.CreateHabitRequest) (*model.Habit, error) {
	if fields := req.Validate(); len(fields) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidHabit, fields[0].Message)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	prev := c.state.Clone()
	now := c.now()
	habit := model.Habit{
		ID:         uuid.New().String(),
		OwnerID:    c.ownerID,
		Name:       req.Name,
		Category:   req.Category,
		Difficulty: req.Difficulty,
		XPValue:    req.XPValue,
		Status:     model.HabitStatusActive,
		CreatedOn:  now,
		UpdatedOn:  now,
	}
	c.state.Habits = append(c.state.Habits, habit)
	c.saveCacheLocked(ctx)

	if err := c.syncLocked(ctx, "add_habit", msgSaveFailed, prev, c.upsertHabit(habit)); err != nil {
		return nil, err
	}

	c.publish(NoticeSuccess, fmt.Sprintf("New quest added: %s!", habit.Name))
	out := habit.Clone()
	return &out, nil
}

// UpdateHabit applies a partial edit. A missing habit is a no-op and
// reports false.
func (c *Controller) UpdateHabit(ctx context.Context, id string, req *model.UpdateHabitRequest) (*model.Habit, bool, error) {
	if fields := req.Validate(); len(fields) > 0 {
		return nil, false, fmt.Errorf("%w: %s", ErrInvalidHabit, fields[0].Message)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.state.HabitIndex(id)
	if idx < 0 {
		return nil, false, nil
	}

	prev := c.state.Clone()
	habit := c.state.Habits[idx].Clone()
	req.Apply(&habit)
	habit.UpdatedOn = c.now()
	c.state.Habits[idx] = habit
	c.saveCacheLocked(ctx)

	if err := c.syncLocked(ctx, "update_habit", msgSaveFailed, prev, c.upsertHabit(habit)); err != nil {
		return nil, true, err
	}

	out := habit.Clone()
	return &out, true, nil
}

// SetHabitStatus pauses, archives or re-activates a habit
func (c *Controller) SetHabitStatus(ctx context.Context, id string, status model.HabitStatus) (*model.Habit, bool, error) {
	if !status.IsValid() {
		return nil, false, ErrInvalidStatus
	}
	return c.UpdateHabit(ctx, id, &model.UpdateHabitRequest{Status: &status})
}

// RemoveHabit deletes a habit. Past logs keep its id; it no longer
// contributes to their totals.
func (c *Controller) RemoveHabit(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.state.HabitIndex(id)
	if idx < 0 {
		return false, nil
	}

	prev := c.state.Clone()
	c.removeHabitLocked(idx)
	c.saveCacheLocked(ctx)

	write := func(ctx context.Context, store Store) error {
		return store.DeleteHabit(ctx, id, c.ownerID)
	}
	if err := c.syncLocked(ctx, "remove_habit", msgDeleteFailed, prev, write); err != nil {
		return true, err
	}
	return true, nil
}

// ===== Scoring commands =====

// ToggleOutcome reports what one toggle did to the player
type ToggleOutcome struct {
	Applied    bool                          `json:"applied"`
	Completed  bool                          `json:"completed"`
	Habit      model.Habit                   `json:"habit"`
	Log        model.DailyLog                `json:"daily_log"`
	Delta      float64                       `json:"xp_delta"`
	Multiplier float64                       `json:"multiplier"`
	PerfectDay bool                          `json:"perfect_day"`
	Unlocked   []model.AchievementDefinition `json:"unlocked"`
	RewardXP   int                           `json:"reward_xp"`
	Stats      model.PlayerStats             `json:"stats"`
	Notices    []Notice                      `json:"notices"`
}

// Toggle completes or un-completes a habit on date (empty means today).
// Achievement rewards are applied once, in the same update. A missing
// habit is a no-op with Applied false.
func (c *Controller) Toggle(ctx context.Context, habitID, date string) (*ToggleOutcome, error) {
	if date == "" {
		date = c.Today()
	}
	if !model.IsISODate(date) {
		return nil, ErrInvalidDate
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	log, ok := c.state.DailyLogs[date]
	if !ok {
		log = model.NewDailyLog(c.ownerID, date)
	}
	res, found := scoring.ToggleCompletion(c.state.Habits, habitID, log, date)
	if !found {
		return &ToggleOutcome{Applied: false}, nil
	}

	prev := c.state.Clone()
	now := c.now()

	res.Habit.UpdatedOn = now
	c.state.Habits[c.state.HabitIndex(habitID)] = res.Habit
	c.state.DailyLogs[date] = res.Log
	c.addXPLocked(res.Delta)
	c.refreshStreakLocked()

	unlocked := c.evaluator.Evaluate(c.state.Stats, len(res.Log.HabitIDs), c.state.UnlockedSet())
	reward := scoring.TotalReward(unlocked)
	records := make([]model.UnlockedAchievement, 0, len(unlocked))
	for _, d := range unlocked {
		records = append(records, model.UnlockedAchievement{
			OwnerID:       c.ownerID,
			AchievementID: d.ID,
			Name:          d.Name,
			XP:            d.XP,
			UnlockedAt:    now,
		})
	}
	c.state.Achievements = append(c.state.Achievements, records...)
	c.addXPLocked(float64(reward))
	c.state.Stats.Level = scoring.LevelFor(c.state.Stats.TotalXP).Level
	c.saveCacheLocked(ctx)

	if err := c.syncLocked(ctx, "toggle", msgToggleFailed, prev, c.toggleWrites(res.Habit, res.Log, records)...); err != nil {
		return nil, err
	}

	outcome := &ToggleOutcome{
		Applied:    true,
		Completed:  res.Completed,
		Habit:      res.Habit.Clone(),
		Log:        res.Log.Clone(),
		Delta:      res.Delta,
		Multiplier: res.Multiplier,
		PerfectDay: res.PerfectDay,
		Unlocked:   unlocked,
		RewardXP:   reward,
		Stats:      c.state.Stats,
	}
	outcome.Notices = c.toggleNotices(res, unlocked)
	for _, n := range outcome.Notices {
		c.publish(n.Kind, n.Message)
	}
	recordToggle(res, unlocked, reward)
	return outcome, nil
}

func (c *Controller) toggleNotices(res scoring.ToggleResult, unlocked []model.AchievementDefinition) []Notice {
	var notices []Notice
	if res.Completed {
		gained := res.Delta
		if res.PerfectDay {
			gained -= scoring.PerfectDayBonus
		}
		notices = append(notices, Notice{
			Kind:    NoticeXP,
			Message: fmt.Sprintf("+%s XP! (%sx multiplier)", formatXP(gained), formatXP(res.Multiplier)),
		})
	}
	if res.PerfectDay {
		notices = append(notices, Notice{
			Kind:    NoticeXP,
			Message: fmt.Sprintf("+%d XP Perfect Day Bonus!", scoring.PerfectDayBonus),
		})
	}
	for _, d := range unlocked {
		notices = append(notices, Notice{
			Kind:    NoticeAchievement,
			Message: fmt.Sprintf("Achievement Unlocked: %s!", d.Name),
		})
	}
	return notices
}

func recordToggle(res scoring.ToggleResult, unlocked []model.AchievementDefinition, reward int) {
	direction := "uncomplete"
	if res.Completed {
		direction = "complete"
	}
	metrics.Toggles.WithLabelValues(direction).Inc()
	if gained := res.Delta + float64(reward); gained > 0 {
		metrics.XPAwarded.Add(gained)
	}
	if res.PerfectDay {
		metrics.PerfectDays.Inc()
	}
	for _, d := range unlocked {
		metrics.AchievementsUnlocked.WithLabelValues(d.ID).Inc()
	}
}

// RefreshStreak re-derives the current streak against today, e.g. after
// midnight. It touches only local state.
func (c *Controller) RefreshStreak(ctx context.Context) model.PlayerStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	before := c.state.Stats
	c.refreshStreakLocked()
	if c.state.Stats != before {
		c.saveCacheLocked(ctx)
	}
	return c.state.Stats
}

// Flush writes the current snapshot to the local cache
func (c *Controller) Flush(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cache == nil {
		return nil
	}
	c.state.SavedAt = c.now()
	return c.cache.Save(ctx, c.state.Clone())
}

// ===== Remote changes =====

// ApplyRemote merges one change feed notification using id-based upsert
// and remove. The last change applied wins. It reports whether local state
// changed; a delete of an unknown record is a no-op.
func (c *Controller) ApplyRemote(ctx context.Context, change model.Change) (bool, error) {
	if change.OwnerID != c.ownerID {
		return false, ErrOwnerMismatch
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	applied := false
	switch change.Entity {
	case model.EntityHabit:
		if change.Action == model.ChangeDelete {
			if idx := c.state.HabitIndex(change.Key); idx >= 0 {
				c.removeHabitLocked(idx)
				applied = true
			}
		} else if change.Habit != nil {
			c.upsertHabitLocked(change.Habit.Clone())
			applied = true
		}
	case model.EntityDailyLog:
		if change.Action == model.ChangeDelete {
			if _, ok := c.state.DailyLogs[change.Key]; ok {
				delete(c.state.DailyLogs, change.Key)
				applied = true
			}
		} else if change.DailyLog != nil {
			c.state.DailyLogs[change.DailyLog.Date] = change.DailyLog.Clone()
			applied = true
		}
	case model.EntityProfile:
		if change.Action != model.ChangeDelete && change.Profile != nil {
			c.mergeProfileLocked(change.Profile)
			applied = true
		}
	case model.EntityAchievement:
		if change.Action == model.ChangeDelete {
			applied = c.removeAchievementLocked(change.Key)
		} else if change.Achievement != nil && !c.state.UnlockedSet()[change.Achievement.AchievementID] {
			c.state.Achievements = append(c.state.Achievements, *change.Achievement)
			applied = true
		}
	default:
		return false, fmt.Errorf("%w: unknown entity %q", model.ErrInvalidChange, change.Entity)
	}

	if applied {
		c.refreshStreakLocked()
		c.saveCacheLocked(ctx)
	}
	return applied, nil
}

// ===== State primitives =====

func (c *Controller) upsertHabitLocked(h model.Habit) {
	if idx := c.state.HabitIndex(h.ID); idx >= 0 {
		c.state.Habits[idx] = h
		return
	}
	c.state.Habits = append(c.state.Habits, h)
}

func (c *Controller) removeHabitLocked(idx int) {
	habits := make([]model.Habit, 0, len(c.state.Habits)-1)
	habits = append(habits, c.state.Habits[:idx]...)
	habits = append(habits, c.state.Habits[idx+1:]...)
	c.state.Habits = habits
}

func (c *Controller) removeAchievementLocked(id string) bool {
	for i, a := range c.state.Achievements {
		if a.AchievementID == id {
			c.state.Achievements = append(c.state.Achievements[:i:i], c.state.Achievements[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Controller) addXPLocked(delta float64) {
	c.state.Stats.TotalXP = roundXP(c.state.Stats.TotalXP + delta)
	c.state.Stats.CurrentXP = roundXP(c.state.Stats.CurrentXP + delta)
}

// refreshStreakLocked re-derives CurrentStreak; BestStreak only grows
func (c *Controller) refreshStreakLocked() {
	streak := scoring.DeriveCurrentStreak(c.state.DailyLogs, c.now().In(c.location), c.lookback)
	c.state.Stats.CurrentStreak = streak
	c.state.Stats.BestStreak = max(c.state.Stats.BestStreak, streak)
}

// saveCacheLocked persists the snapshot as a unit. A cache failure is
// logged and never reverts the in-memory state.
func (c *Controller) saveCacheLocked(ctx context.Context) {
	if c.cache == nil {
		return
	}
	c.state.SavedAt = c.now()
	if err := c.cache.Save(ctx, c.state.Clone()); err != nil {
		c.logger.WithError(err).Warn("failed to write snapshot cache")
	}
}

// syncLocked runs a command's remote writes after the local commit. On
// failure the in-memory state is restored to prev, a failure notice is
// published and ErrStoreWrite is returned. ErrStoreNotConfigured switches
// the controller to local-only mode without any of that.
func (c *Controller) syncLocked(ctx context.Context, command, failure string, prev model.Snapshot, writes ...remoteWrite) error {
	rctx, cancel := c.remoteContext(ctx)
	defer cancel()

	for _, write := range writes {
		err := write(rctx, c.store)
		if err == nil {
			continue
		}
		if errors.Is(err, ErrStoreNotConfigured) {
			c.setLocalOnly(true)
			return nil
		}

		c.state = prev
		metrics.StoreWriteFailures.WithLabelValues(command).Inc()
		metrics.Rollbacks.Inc()
		c.logger.WithError(err).WithField("command", command).Warn("remote write failed, local change reverted")
		c.publish(NoticeError, failure)
		return fmt.Errorf("%w: %s: %v", ErrStoreWrite, command, err)
	}
	c.setLocalOnly(false)
	return nil
}

// remoteContext detaches remote calls from the caller's cancellation; only
// the store timeout bounds them.
func (c *Controller) remoteContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
}

func (c *Controller) noteStoreError(err error) error {
	if errors.Is(err, ErrStoreNotConfigured) {
		c.setLocalOnly(true)
	}
	return err
}

func (c *Controller) setLocalOnly(localOnly bool) {
	if c.localOnly == localOnly {
		return
	}
	c.localOnly = localOnly
	if localOnly {
		metrics.LocalOnlyOwners.Inc()
		c.logger.Info("no hosted store configured, running local-only")
	} else {
		metrics.LocalOnlyOwners.Dec()
	}
}

func (c *Controller) publish(kind NoticeKind, message string) {
	if c.notices == nil {
		return
	}
	c.notices.Publish(c.ownerID, Notice{Kind: kind, Message: message, At: c.now()})
}

func (c *Controller) upsertHabit(h model.Habit) remoteWrite {
	return func(ctx context.Context, store Store) error {
		_, err := store.UpsertHabit(ctx, &h)
		return err
	}
}

func (c *Controller) upsertDailyLog(l model.DailyLog) remoteWrite {
	return func(ctx context.Context, store Store) error {
		_, err := store.UpsertDailyLog(ctx, &l)
		return err
	}
}

func (c *Controller) upsertProfile() remoteWrite {
	profile := c.profileLocked()
	return func(ctx context.Context, store Store) error {
		_, err := store.UpsertProfile(ctx, profile)
		return err
	}
}

func (c *Controller) profileLocked() *model.Profile {
	profile := model.ProfileFromStats(c.ownerID, c.state.Stats)
	profile.UpdatedOn = c.now()
	return profile
}

// toggleWrites is one atomic write when the store supports it, otherwise
// the habit, log, profile and unlock upserts in that order
func (c *Controller) toggleWrites(h model.Habit, l model.DailyLog, records []model.UnlockedAchievement) []remoteWrite {
	if saver, ok := c.store.(ToggleSaver); ok {
		profile := c.profileLocked()
		unlocks := make([]*model.UnlockedAchievement, len(records))
		for i := range records {
			unlocks[i] = &records[i]
		}
		return []remoteWrite{func(ctx context.Context, _ Store) error {
			return saver.SaveToggle(ctx, &h, &l, profile, unlocks)
		}}
	}

	writes := []remoteWrite{c.upsertHabit(h), c.upsertDailyLog(l), c.upsertProfile()}
	for _, rec := range records {
		writes = append(writes, func(ctx context.Context, store Store) error {
			return store.UpsertAchievement(ctx, &rec)
		})
	}
	return writes
}

func roundXP(xp float64) float64 {
	return math.Round(xp*100) / 100
}

// formatXP prints 3 as "3" and 3.6 as "3.6"
func formatXP(xp float64) string {
	return fmt.Sprintf("%g", roundXP(xp))
}
