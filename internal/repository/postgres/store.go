package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/forgo/habitquest/internal/model"
)

// DB is the subset of *pgxpool.Pool the store uses
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Store is the PostgreSQL hosted store. It satisfies both service.Store
// and service.ChallengeStore.
type Store struct {
	db DB
}

// NewStore creates a PostgreSQL store
func NewStore(db DB) *Store {
	return &Store{db: db}
}

const habitColumns = `id, owner_id, name, category, difficulty, xp_value, streak_count,
	best_streak, total_completions, last_completed, status, created_on, updated_on`

func scanHabit(row pgx.Row) (*model.Habit, error) {
	var h model.Habit
	var category, difficulty, status string
	err := row.Scan(
		&h.ID, &h.OwnerID, &h.Name, &category, &difficulty, &h.XPValue, &h.StreakCount,
		&h.BestStreak, &h.TotalCompletions, &h.LastCompleted, &status, &h.CreatedOn, &h.UpdatedOn,
	)
	if err != nil {
		return nil, err
	}
	h.Category = model.Category(category)
	h.Difficulty = model.Difficulty(difficulty)
	h.Status = model.HabitStatus(status)
	return &h, nil
}

const upsertHabitSQL = `
	INSERT INTO habits (id, owner_id, name, category, difficulty, xp_value, streak_count,
	                    best_streak, total_completions, last_completed, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (id) DO UPDATE SET
	    name = EXCLUDED.name, category = EXCLUDED.category, difficulty = EXCLUDED.difficulty,
	    xp_value = EXCLUDED.xp_value, streak_count = EXCLUDED.streak_count,
	    best_streak = EXCLUDED.best_streak, total_completions = EXCLUDED.total_completions,
	    last_completed = EXCLUDED.last_completed, status = EXCLUDED.status, updated_on = NOW()
	WHERE habits.owner_id = EXCLUDED.owner_id`

func habitArgs(h *model.Habit) []any {
	return []any{
		h.ID, h.OwnerID, h.Name, string(h.Category), string(h.Difficulty), h.XPValue, h.StreakCount,
		h.BestStreak, h.TotalCompletions, h.LastCompleted, string(h.Status),
	}
}

// UpsertHabit inserts or replaces a habit by id
func (s *Store) UpsertHabit(ctx context.Context, h *model.Habit) (*model.Habit, error) {
	out, err := scanHabit(s.db.QueryRow(ctx, upsertHabitSQL+` RETURNING `+habitColumns, habitArgs(h)...))
	if err != nil {
		return nil, fmt.Errorf("upsert habit %s: %w", h.ID, err)
	}
	return out, nil
}

// FetchHabits returns an owner's habits, oldest first
func (s *Store) FetchHabits(ctx context.Context, ownerID string) ([]*model.Habit, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+habitColumns+` FROM habits WHERE owner_id = $1 ORDER BY created_on ASC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("fetch habits: %w", err)
	}
	defer rows.Close()

	habits := []*model.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan habit: %w", err)
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

// DeleteHabit removes a habit if it belongs to ownerID
func (s *Store) DeleteHabit(ctx context.Context, id, ownerID string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM habits WHERE id = $1 AND owner_id = $2`, id, ownerID); err != nil {
		return fmt.Errorf("delete habit %s: %w", id, err)
	}
	return nil
}

const dailyLogColumns = `owner_id, date, habit_ids, total_xp, perfect_bonus_applied`

func scanDailyLog(row pgx.Row) (*model.DailyLog, error) {
	var l model.DailyLog
	if err := row.Scan(&l.OwnerID, &l.Date, &l.HabitIDs, &l.TotalXP, &l.PerfectBonusApplied); err != nil {
		return nil, err
	}
	if l.HabitIDs == nil {
		l.HabitIDs = []string{}
	}
	return &l, nil
}

const upsertDailyLogSQL = `
	INSERT INTO daily_logs (` + dailyLogColumns + `)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (owner_id, date) DO UPDATE SET
	    habit_ids = EXCLUDED.habit_ids, total_xp = EXCLUDED.total_xp,
	    perfect_bonus_applied = EXCLUDED.perfect_bonus_applied`

func dailyLogArgs(l *model.DailyLog) []any {
	habitIDs := l.HabitIDs
	if habitIDs == nil {
		habitIDs = []string{}
	}
	return []any{l.OwnerID, l.Date, habitIDs, l.TotalXP, l.PerfectBonusApplied}
}

// UpsertDailyLog inserts or replaces the log for (owner, date)
func (s *Store) UpsertDailyLog(ctx context.Context, l *model.DailyLog) (*model.DailyLog, error) {
	out, err := scanDailyLog(s.db.QueryRow(ctx, upsertDailyLogSQL+` RETURNING `+dailyLogColumns, dailyLogArgs(l)...))
	if err != nil {
		return nil, fmt.Errorf("upsert daily log %s: %w", l.Date, err)
	}
	return out, nil
}

// FetchDailyLogs returns an owner's logs in date order
func (s *Store) FetchDailyLogs(ctx context.Context, ownerID string) ([]*model.DailyLog, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+dailyLogColumns+` FROM daily_logs WHERE owner_id = $1 ORDER BY date ASC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("fetch daily logs: %w", err)
	}
	defer rows.Close()

	logs := []*model.DailyLog{}
	for rows.Next() {
		l, err := scanDailyLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan daily log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

const profileColumns = `owner_id, level, total_xp, best_streak, updated_on`

func scanProfile(row pgx.Row) (*model.Profile, error) {
	var p model.Profile
	if err := row.Scan(&p.OwnerID, &p.Level, &p.TotalXP, &p.BestStreak, &p.UpdatedOn); err != nil {
		return nil, err
	}
	return &p, nil
}

const upsertProfileSQL = `
	INSERT INTO profiles (owner_id, level, total_xp, best_streak)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (owner_id) DO UPDATE SET
	    level = EXCLUDED.level, total_xp = EXCLUDED.total_xp,
	    best_streak = EXCLUDED.best_streak, updated_on = NOW()`

func profileArgs(p *model.Profile) []any {
	return []any{p.OwnerID, max(p.Level, 1), p.TotalXP, p.BestStreak}
}

// UpsertProfile inserts or replaces the owner's profile
func (s *Store) UpsertProfile(ctx context.Context, p *model.Profile) (*model.Profile, error) {
	out, err := scanProfile(s.db.QueryRow(ctx, upsertProfileSQL+` RETURNING `+profileColumns, profileArgs(p)...))
	if err != nil {
		return nil, fmt.Errorf("upsert profile %s: %w", p.OwnerID, err)
	}
	return out, nil
}

// FetchProfile returns the owner's profile or (nil, nil)
func (s *Store) FetchProfile(ctx context.Context, ownerID string) (*model.Profile, error) {
	p, err := scanProfile(s.db.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE owner_id = $1`, ownerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	return p, nil
}

const insertAchievementSQL = `
	INSERT INTO achievements (owner_id, achievement_id, name, xp)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (owner_id, achievement_id) DO NOTHING`

// UpsertAchievement records an unlock once; repeats are ignored
func (s *Store) UpsertAchievement(ctx context.Context, a *model.UnlockedAchievement) error {
	_, err := s.db.Exec(ctx, insertAchievementSQL, a.OwnerID, a.AchievementID, a.Name, a.XP)
	if err != nil {
		return fmt.Errorf("insert achievement %s: %w", a.AchievementID, err)
	}
	return nil
}

// SaveToggle writes everything one completion toggle changed in a single
// transaction: the habit, the day's log, the profile and any new unlocks.
func (s *Store) SaveToggle(ctx context.Context, h *model.Habit, l *model.DailyLog, p *model.Profile, unlocks []*model.UnlockedAchievement) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin toggle: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, upsertHabitSQL, habitArgs(h)...)
	if err != nil {
		return fmt.Errorf("upsert habit %s: %w", h.ID, err)
	}
	// The owner guard turns a foreign habit id into a no-op
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("upsert habit %s: %w", h.ID, pgx.ErrNoRows)
	}
	if _, err := tx.Exec(ctx, upsertDailyLogSQL, dailyLogArgs(l)...); err != nil {
		return fmt.Errorf("upsert daily log %s: %w", l.Date, err)
	}
	if _, err := tx.Exec(ctx, upsertProfileSQL, profileArgs(p)...); err != nil {
		return fmt.Errorf("upsert profile %s: %w", p.OwnerID, err)
	}
	for _, a := range unlocks {
		if _, err := tx.Exec(ctx, insertAchievementSQL, a.OwnerID, a.AchievementID, a.Name, a.XP); err != nil {
			return fmt.Errorf("insert achievement %s: %w", a.AchievementID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit toggle: %w", err)
	}
	return nil
}

// FetchAchievements returns an owner's unlocks, oldest first
func (s *Store) FetchAchievements(ctx context.Context, ownerID string) ([]*model.UnlockedAchievement, error) {
	rows, err := s.db.Query(ctx, `
		SELECT owner_id, achievement_id, name, xp, unlocked_at
		FROM achievements WHERE owner_id = $1 ORDER BY unlocked_at ASC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("fetch achievements: %w", err)
	}
	defer rows.Close()

	out := []*model.UnlockedAchievement{}
	for rows.Next() {
		var a model.UnlockedAchievement
		if err := rows.Scan(&a.OwnerID, &a.AchievementID, &a.Name, &a.XP, &a.UnlockedAt); err != nil {
			return nil, fmt.Errorf("scan achievement: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

// FetchActiveChallenges returns challenges overlapping the week
func (s *Store) FetchActiveChallenges(ctx context.Context, week model.Week) ([]*model.Challenge, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, title, description, start_date, end_date, target_count, reward_xp
		FROM weekly_challenges
		WHERE start_date <= $2 AND end_date >= $1
		ORDER BY start_date ASC`, week.Start, week.End)
	if err != nil {
		return nil, fmt.Errorf("fetch challenges: %w", err)
	}
	defer rows.Close()

	out := []*model.Challenge{}
	for rows.Next() {
		var c model.Challenge
		var description *string
		if err := rows.Scan(&c.ID, &c.Title, &description, &c.StartDate, &c.EndDate, &c.TargetCount, &c.RewardXP); err != nil {
			return nil, fmt.Errorf("scan challenge: %w", err)
		}
		if description != nil {
			c.Description = *description
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// UpsertChallengeProgress records an owner's progress on a challenge
func (s *Store) UpsertChallengeProgress(ctx context.Context, p *model.ChallengeProgress) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO challenge_progress (owner_id, challenge_id, progress, completed)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (owner_id, challenge_id) DO UPDATE SET
		    progress = EXCLUDED.progress, completed = EXCLUDED.completed, updated_on = NOW()`,
		p.OwnerID, p.ChallengeID, p.Progress, p.Completed)
	if err != nil {
		return fmt.Errorf("upsert challenge progress: %w", err)
	}
	return nil
}

// WeeklyLeaderboard sums logged XP per owner over the week
func (s *Store) WeeklyLeaderboard(ctx context.Context, week model.Week, limit int) ([]model.LeaderboardEntry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT owner_id, SUM(total_xp) AS total_xp
		FROM daily_logs
		WHERE date >= $1 AND date <= $2
		GROUP BY owner_id
		ORDER BY total_xp DESC, owner_id ASC
		LIMIT $3`, week.Start, week.End, limit)
	if err != nil {
		return nil, fmt.Errorf("weekly leaderboard: %w", err)
	}
	defer rows.Close()

	out := []model.LeaderboardEntry{}
	for rows.Next() {
		var e model.LeaderboardEntry
		if err := rows.Scan(&e.OwnerID, &e.TotalXP); err != nil {
			return nil, fmt.Errorf("scan leaderboard: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
