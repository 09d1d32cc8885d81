package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/forgo/habitquest/internal/model"
)

// ===== Cache Errors =====
var (
	ErrClosed      = errors.New("snapshot cache is closed")
	ErrOwnerNeeded = errors.New("snapshot has no owner id")
)

// migrations are applied one statement at a time
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS snapshots (
		owner_id TEXT PRIMARY KEY,
		data     TEXT NOT NULL,
		saved_at TEXT NOT NULL
	)`,
}

// SQLite is the durable local snapshot cache. Each owner's whole state is
// one JSON row replaced on every save.
type SQLite struct {
	db  *sql.DB
	now func() time.Time

	mu     sync.RWMutex
	closed bool
}

// Open opens (creating if needed) the cache at path. ":memory:" gives a
// private in-memory cache.
func Open(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot cache: %w", err)
	}
	// One connection serializes writers and keeps :memory: on one database
	db.SetMaxOpenConns(1)

	pragmas := []string{"PRAGMA busy_timeout = 5000"}
	if path != ":memory:" {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	for _, stmt := range append(pragmas, migrations...) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("prepare snapshot cache: %w", err)
		}
	}

	return &SQLite{db: db, now: time.Now}, nil
}

// Save replaces the owner's snapshot
func (c *SQLite) Save(ctx context.Context, snapshot model.Snapshot) error {
	if snapshot.OwnerID == "" {
		return ErrOwnerNeeded
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}

	snapshot.SavedAt = c.now().UTC()
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO snapshots (owner_id, data, saved_at) VALUES (?, ?, ?)
		ON CONFLICT(owner_id) DO UPDATE SET data = excluded.data, saved_at = excluded.saved_at`,
		snapshot.OwnerID, string(data), snapshot.SavedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", snapshot.OwnerID, err)
	}
	return nil
}

// Load returns the owner's snapshot, or (nil, nil) if none was saved
func (c *SQLite) Load(ctx context.Context, ownerID string) (*model.Snapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, ErrClosed
	}

	var data string
	err := c.db.QueryRowContext(ctx, `SELECT data FROM snapshots WHERE owner_id = ?`, ownerID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", ownerID, err)
	}

	var snapshot model.Snapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", ownerID, err)
	}
	snapshot.Normalize()
	return &snapshot, nil
}

// Owners lists every owner with a saved snapshot
func (c *SQLite) Owners(ctx context.Context) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, ErrClosed
	}

	rows, err := c.db.QueryContext(ctx, `SELECT owner_id FROM snapshots ORDER BY owner_id`)
	if err != nil {
		return nil, fmt.Errorf("list snapshot owners: %w", err)
	}
	defer rows.Close()

	owners := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		owners = append(owners, id)
	}
	return owners, rows.Err()
}

// Delete drops the owner's snapshot
func (c *SQLite) Delete(ctx context.Context, ownerID string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}
	_, err := c.db.ExecContext(ctx, `DELETE FROM snapshots WHERE owner_id = ?`, ownerID)
	return err
}

// Close closes the underlying database; later calls fail with ErrClosed
func (c *SQLite) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.db.Close()
}
