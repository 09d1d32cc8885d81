package testdb

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/forgo/habitquest/internal/database"
	"github.com/forgo/habitquest/internal/model"
	"github.com/forgo/habitquest/internal/repository/postgres"
)

// Environment variables that enable the integration tests
const (
	EnvSurrealHost = "TEST_DB_HOST"
	EnvPostgresDSN = "TEST_PG_DSN"
)

var (
	// counterMu protects the namespace counter
	counterMu sync.Mutex
	counter   int64
)

// uniqueName generates a unique namespace or schema name for test isolation
func uniqueName() string {
	counterMu.Lock()
	defer counterMu.Unlock()
	counter++
	return fmt.Sprintf("test_%d_%d", time.Now().UnixNano(), counter)
}

// Ctx returns a context with a reasonable timeout for test operations.
func Ctx(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func quietLogger() logrus.FieldLogger {
	logger, _ := logtest.NewNullLogger()
	return logger
}

// ============================================================================
// SurrealDB
// ============================================================================

// Surreal is an isolated SurrealDB namespace with the schema applied
type Surreal struct {
	DB        *database.SurrealDB
	Namespace string
	t         *testing.T
}

func surrealConfig() database.Config {
	get := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}
	return database.Config{
		Host:     os.Getenv(EnvSurrealHost),
		Port:     get("TEST_DB_PORT", "8000"),
		User:     get("TEST_DB_USER", "root"),
		Password: get("TEST_DB_PASSWORD", "root"),
	}
}

// NewSurreal connects to the SurrealDB named by TEST_DB_HOST, in a fresh
// namespace, and applies the schema. The test is skipped when TEST_DB_HOST
// is unset. The namespace is removed when the test ends.
func NewSurreal(t *testing.T) *Surreal {
	t.Helper()
	if os.Getenv(EnvSurrealHost) == "" {
		t.Skipf("set %s to run SurrealDB integration tests", EnvSurrealHost)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := surrealConfig()
	cfg.Namespace = uniqueName()
	cfg.Database = "test"

	db := database.NewSurrealDB(cfg)
	if err := db.Connect(ctx); err != nil {
		t.Fatalf("testdb: failed to connect: %v", err)
	}
	if err := database.Migrate(ctx, db); err != nil {
		_ = db.Close()
		t.Fatalf("testdb: schema failed: %v", err)
	}

	s := &Surreal{DB: db, Namespace: cfg.Namespace, t: t}
	t.Cleanup(s.close)
	return s
}

func (s *Surreal) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = s.DB.Execute(ctx, fmt.Sprintf("REMOVE NAMESPACE %s", s.Namespace), nil)
	_ = s.DB.Close()
}

// MustExec executes a query and fails the test on error.
func (s *Surreal) MustExec(query string, vars map[string]interface{}) {
	s.t.Helper()
	if err := s.DB.Execute(Ctx(s.t), query, vars); err != nil {
		s.t.Fatalf("testdb: exec failed: %v\nQuery: %s", err, query)
	}
}

// SeedChallenge inserts a weekly challenge. Challenges are authored
// outside the app, so the store has no write method for them.
func (s *Surreal) SeedChallenge(c model.Challenge) {
	s.t.Helper()
	s.MustExec(`CREATE type::thing("weekly_challenge", $id) SET
		title = $title, start_date = $start, end_date = $end,
		target_count = $target, reward_xp = $reward`, map[string]interface{}{
		"id":     c.ID,
		"title":  c.Title,
		"start":  c.StartDate,
		"end":    c.EndDate,
		"target": c.TargetCount,
		"reward": c.RewardXP,
	})
}

// ============================================================================
// PostgreSQL
// ============================================================================

// Postgres is an isolated PostgreSQL schema with migrations applied
type Postgres struct {
	Pool   *pgxpool.Pool
	Schema string
	dsn    string
	t      *testing.T
}

// NewPostgres creates a fresh schema in the database named by TEST_PG_DSN
// and migrates it. The test is skipped when TEST_PG_DSN is unset. The
// schema is dropped when the test ends.
func NewPostgres(t *testing.T) *Postgres {
	t.Helper()
	dsn := os.Getenv(EnvPostgresDSN)
	if dsn == "" {
		t.Skipf("set %s to run PostgreSQL integration tests", EnvPostgresDSN)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	schema := uniqueName()
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("testdb: failed to connect: %v", err)
	}
	_, err = conn.Exec(ctx, "CREATE SCHEMA "+pgx.Identifier{schema}.Sanitize())
	_ = conn.Close(ctx)
	if err != nil {
		t.Fatalf("testdb: create schema: %v", err)
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		t.Fatalf("testdb: parse dsn: %v", err)
	}
	cfg.ConnConfig.RuntimeParams["search_path"] = schema
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		t.Fatalf("testdb: create pool: %v", err)
	}

	p := &Postgres{Pool: pool, Schema: schema, dsn: dsn, t: t}
	t.Cleanup(p.close)

	if err := postgres.Migrate(ctx, pool, quietLogger()); err != nil {
		t.Fatalf("testdb: migrations failed: %v", err)
	}
	return p
}

func (p *Postgres) close() {
	p.Pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	conn, err := pgx.Connect(ctx, p.dsn)
	if err != nil {
		return
	}
	defer conn.Close(ctx)
	_, _ = conn.Exec(ctx, "DROP SCHEMA "+pgx.Identifier{p.Schema}.Sanitize()+" CASCADE")
}

// SeedChallenge inserts a weekly challenge
func (p *Postgres) SeedChallenge(c model.Challenge) {
	p.t.Helper()
	_, err := p.Pool.Exec(Ctx(p.t),
		`INSERT INTO weekly_challenges (id, title, description, start_date, end_date, target_count, reward_xp)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.Title, c.Description, c.StartDate, c.EndDate, c.TargetCount, c.RewardXP)
	if err != nil {
		p.t.Fatalf("testdb: seed challenge: %v", err)
	}
}
