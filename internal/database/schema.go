package database

import "context"

// Tables holding player state; each carries owner_id for filtering
const (
	TableHabit             = "habit"
	TableDailyLog          = "daily_log"
	TableProfile           = "profile"
	TableAchievement       = "achievement"
	TableChallenge         = "weekly_challenge"
	TableChallengeProgress = "challenge_progress"
)

// schema is applied on every start; DEFINE ... IF NOT EXISTS is idempotent.
var schema = []string{
	`DEFINE TABLE IF NOT EXISTS habit SCHEMAFULL`,
	`DEFINE FIELD IF NOT EXISTS owner_id ON habit TYPE string`,
	`DEFINE FIELD IF NOT EXISTS name ON habit TYPE string`,
	`DEFINE FIELD IF NOT EXISTS category ON habit TYPE string`,
	`DEFINE FIELD IF NOT EXISTS difficulty ON habit TYPE string`,
	`DEFINE FIELD IF NOT EXISTS xp_value ON habit TYPE int ASSERT $value > 0`,
	`DEFINE FIELD IF NOT EXISTS streak_count ON habit TYPE int DEFAULT 0`,
	`DEFINE FIELD IF NOT EXISTS best_streak ON habit TYPE int DEFAULT 0`,
	`DEFINE FIELD IF NOT EXISTS total_completions ON habit TYPE int DEFAULT 0`,
	`DEFINE FIELD IF NOT EXISTS last_completed ON habit TYPE option<string>`,
	`DEFINE FIELD IF NOT EXISTS status ON habit TYPE string DEFAULT 'Active'`,
	`DEFINE FIELD IF NOT EXISTS created_on ON habit TYPE datetime DEFAULT time::now()`,
	`DEFINE FIELD IF NOT EXISTS updated_on ON habit TYPE datetime DEFAULT time::now()`,
	`DEFINE INDEX IF NOT EXISTS habit_owner ON habit FIELDS owner_id`,

	`DEFINE TABLE IF NOT EXISTS daily_log SCHEMAFULL`,
	`DEFINE FIELD IF NOT EXISTS owner_id ON daily_log TYPE string`,
	`DEFINE FIELD IF NOT EXISTS date ON daily_log TYPE string`,
	`DEFINE FIELD IF NOT EXISTS habit_ids ON daily_log TYPE array<string> DEFAULT []`,
	`DEFINE FIELD IF NOT EXISTS total_xp ON daily_log TYPE number DEFAULT 0`,
	`DEFINE FIELD IF NOT EXISTS perfect_bonus_applied ON daily_log TYPE bool DEFAULT false`,
	`DEFINE INDEX IF NOT EXISTS daily_log_owner_date ON daily_log FIELDS owner_id, date UNIQUE`,

	`DEFINE TABLE IF NOT EXISTS profile SCHEMAFULL`,
	`DEFINE FIELD IF NOT EXISTS owner_id ON profile TYPE string`,
	`DEFINE FIELD IF NOT EXISTS level ON profile TYPE int DEFAULT 1`,
	`DEFINE FIELD IF NOT EXISTS total_xp ON profile TYPE number DEFAULT 0`,
	`DEFINE FIELD IF NOT EXISTS best_streak ON profile TYPE int DEFAULT 0`,
	`DEFINE FIELD IF NOT EXISTS updated_on ON profile TYPE datetime DEFAULT time::now()`,
	`DEFINE INDEX IF NOT EXISTS profile_owner ON profile FIELDS owner_id UNIQUE`,

	`DEFINE TABLE IF NOT EXISTS achievement SCHEMAFULL`,
	`DEFINE FIELD IF NOT EXISTS owner_id ON achievement TYPE string`,
	`DEFINE FIELD IF NOT EXISTS achievement_id ON achievement TYPE string`,
	`DEFINE FIELD IF NOT EXISTS name ON achievement TYPE string`,
	`DEFINE FIELD IF NOT EXISTS xp ON achievement TYPE int`,
	`DEFINE FIELD IF NOT EXISTS unlocked_at ON achievement TYPE datetime DEFAULT time::now()`,
	`DEFINE INDEX IF NOT EXISTS achievement_owner_id ON achievement FIELDS owner_id, achievement_id UNIQUE`,

	`DEFINE TABLE IF NOT EXISTS weekly_challenge SCHEMAFULL`,
	`DEFINE FIELD IF NOT EXISTS title ON weekly_challenge TYPE string`,
	`DEFINE FIELD IF NOT EXISTS description ON weekly_challenge TYPE option<string>`,
	`DEFINE FIELD IF NOT EXISTS start_date ON weekly_challenge TYPE string`,
	`DEFINE FIELD IF NOT EXISTS end_date ON weekly_challenge TYPE string`,
	`DEFINE FIELD IF NOT EXISTS target_count ON weekly_challenge TYPE int`,
	`DEFINE FIELD IF NOT EXISTS reward_xp ON weekly_challenge TYPE int DEFAULT 0`,

	`DEFINE TABLE IF NOT EXISTS challenge_progress SCHEMAFULL`,
	`DEFINE FIELD IF NOT EXISTS owner_id ON challenge_progress TYPE string`,
	`DEFINE FIELD IF NOT EXISTS challenge_id ON challenge_progress TYPE string`,
	`DEFINE FIELD IF NOT EXISTS progress ON challenge_progress TYPE int DEFAULT 0`,
	`DEFINE FIELD IF NOT EXISTS completed ON challenge_progress TYPE bool DEFAULT false`,
	`DEFINE FIELD IF NOT EXISTS updated_on ON challenge_progress TYPE datetime DEFAULT time::now()`,
	`DEFINE INDEX IF NOT EXISTS challenge_progress_owner ON challenge_progress FIELDS owner_id, challenge_id UNIQUE`,
}

// Migrate defines every table, field and index in one transaction
func Migrate(ctx context.Context, db Database) error {
	batch := NewAtomicBatch()
	for _, stmt := range schema {
		batch.Add(stmt, nil)
	}
	return batch.Execute(ctx, db)
}
