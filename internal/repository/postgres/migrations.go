package postgres

// NotifyChannel is the LISTEN channel the change triggers publish on
const NotifyChannel = "habitquest_changes"

type migration struct {
	version int
	sql     string
}

var migrations = []migration{
	{1, migration001Tables},
	{2, migration002Challenges},
	{3, migration003Notify},
}

// Column names match the model's JSON names so row_to_json output decodes
// straight into model types.
var migration001Tables = `
CREATE TABLE IF NOT EXISTS habits (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    name TEXT NOT NULL,
    category TEXT NOT NULL,
    difficulty TEXT NOT NULL,
    xp_value INTEGER NOT NULL CHECK (xp_value > 0),
    streak_count INTEGER NOT NULL DEFAULT 0,
    best_streak INTEGER NOT NULL DEFAULT 0,
    total_completions INTEGER NOT NULL DEFAULT 0,
    last_completed TEXT,
    status TEXT NOT NULL DEFAULT 'Active',
    created_on TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_on TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_habits_owner ON habits(owner_id, created_on);

CREATE TABLE IF NOT EXISTS daily_logs (
    owner_id TEXT NOT NULL,
    date TEXT NOT NULL,
    habit_ids TEXT[] NOT NULL DEFAULT '{}',
    total_xp DOUBLE PRECISION NOT NULL DEFAULT 0,
    perfect_bonus_applied BOOLEAN NOT NULL DEFAULT FALSE,
    PRIMARY KEY (owner_id, date)
);
CREATE INDEX IF NOT EXISTS idx_daily_logs_date ON daily_logs(date);

CREATE TABLE IF NOT EXISTS profiles (
    owner_id TEXT PRIMARY KEY,
    level INTEGER NOT NULL DEFAULT 1,
    total_xp DOUBLE PRECISION NOT NULL DEFAULT 0,
    best_streak INTEGER NOT NULL DEFAULT 0,
    updated_on TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS achievements (
    owner_id TEXT NOT NULL,
    achievement_id TEXT NOT NULL,
    name TEXT NOT NULL,
    xp INTEGER NOT NULL DEFAULT 0,
    unlocked_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (owner_id, achievement_id)
);
`

var migration002Challenges = `
CREATE TABLE IF NOT EXISTS weekly_challenges (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT,
    start_date TEXT NOT NULL,
    end_date TEXT NOT NULL,
    target_count INTEGER NOT NULL CHECK (target_count > 0),
    reward_xp INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS challenge_progress (
    owner_id TEXT NOT NULL,
    challenge_id TEXT NOT NULL REFERENCES weekly_challenges(id) ON DELETE CASCADE,
    progress INTEGER NOT NULL DEFAULT 0,
    completed BOOLEAN NOT NULL DEFAULT FALSE,
    updated_on TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (owner_id, challenge_id)
);
`

// The trigger argument is the entity kind carried in the payload
var migration003Notify = `
CREATE OR REPLACE FUNCTION habitquest_notify() RETURNS trigger AS $$
DECLARE
    rec RECORD;
BEGIN
    IF TG_OP = 'DELETE' THEN
        rec := OLD;
    ELSE
        rec := NEW;
    END IF;
    PERFORM pg_notify('` + NotifyChannel + `', json_build_object(
        'entity', TG_ARGV[0],
        'action', lower(TG_OP),
        'record', row_to_json(rec)
    )::text);
    RETURN NULL;
END;
$$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS habits_notify ON habits;
CREATE TRIGGER habits_notify AFTER INSERT OR UPDATE OR DELETE ON habits
    FOR EACH ROW EXECUTE FUNCTION habitquest_notify('habit');

DROP TRIGGER IF EXISTS daily_logs_notify ON daily_logs;
CREATE TRIGGER daily_logs_notify AFTER INSERT OR UPDATE OR DELETE ON daily_logs
    FOR EACH ROW EXECUTE FUNCTION habitquest_notify('daily_log');

DROP TRIGGER IF EXISTS profiles_notify ON profiles;
CREATE TRIGGER profiles_notify AFTER INSERT OR UPDATE OR DELETE ON profiles
    FOR EACH ROW EXECUTE FUNCTION habitquest_notify('profile');

DROP TRIGGER IF EXISTS achievements_notify ON achievements;
CREATE TRIGGER achievements_notify AFTER INSERT OR UPDATE OR DELETE ON achievements
    FOR EACH ROW EXECUTE FUNCTION habitquest_notify('achievement');
`
