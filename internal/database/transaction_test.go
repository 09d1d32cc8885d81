package database

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDB struct {
	query string
	vars  map[string]interface{}
}

func (r *recordingDB) Connect(context.Context) error { return nil }
func (r *recordingDB) Close() error                  { return nil }
func (r *recordingDB) Ping(context.Context) error    { return nil }

func (r *recordingDB) Query(_ context.Context, query string, vars map[string]interface{}) ([]interface{}, error) {
	r.query, r.vars = query, vars
	return nil, nil
}

func (r *recordingDB) QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error) {
	_, err := r.Query(ctx, query, vars)
	return nil, err
}

func (r *recordingDB) Execute(ctx context.Context, query string, vars map[string]interface{}) error {
	_, err := r.Query(ctx, query, vars)
	return err
}

func TestTxBuilder_NamespacesVariables(t *testing.T) {
	t.Parallel()

	tb := NewTxBuilder()
	m1 := tb.Add("UPSERT $id CONTENT $content", map[string]interface{}{"id": "habit:a", "content": 1})
	m2 := tb.Add("UPSERT $id CONTENT $content", map[string]interface{}{"id": "habit:b", "content": 2})

	query, vars := tb.Build()
	assert.True(t, strings.HasPrefix(query, "BEGIN TRANSACTION;\n"))
	assert.True(t, strings.HasSuffix(query, "COMMIT TRANSACTION;"))
	assert.NotEqual(t, m1["id"], m2["id"])
	assert.Equal(t, "habit:a", vars[m1["id"]])
	assert.Equal(t, "habit:b", vars[m2["id"]])
	assert.Contains(t, query, "$"+m1["content"])
}

func TestTxBuilder_PrefixNames(t *testing.T) {
	t.Parallel()

	tb := NewTxBuilder()
	m := tb.Add("SELECT * FROM habit WHERE id = $id AND id INSIDE $id_list", map[string]interface{}{
		"id":      "habit:a",
		"id_list": []string{"habit:a"},
	})

	query, _ := tb.Build()
	assert.Contains(t, query, "$"+m["id"]+" AND")
	assert.Contains(t, query, "$"+m["id_list"]+";")
}

func TestAtomicBatch_Execute(t *testing.T) {
	t.Parallel()

	db := &recordingDB{}
	batch := NewAtomicBatch().
		Add("DEFINE TABLE a", nil).
		Add("DEFINE TABLE b", nil)
	assert.Equal(t, 2, batch.Len())

	require.NoError(t, batch.Execute(context.Background(), db))
	assert.Equal(t, "BEGIN TRANSACTION;\nDEFINE TABLE a;\nDEFINE TABLE b;\nCOMMIT TRANSACTION;", db.query)
}

func TestMigrate(t *testing.T) {
	t.Parallel()

	db := &recordingDB{}
	require.NoError(t, Migrate(context.Background(), db))
	for _, table := range []string{TableHabit, TableDailyLog, TableProfile, TableAchievement, TableChallenge, TableChallengeProgress} {
		assert.Contains(t, db.query, "DEFINE TABLE IF NOT EXISTS "+table+" ")
	}
}

func TestFirstRecord(t *testing.T) {
	t.Parallel()

	_, err := FirstRecord(nil)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = FirstRecord([]interface{}{map[string]interface{}{"status": "OK", "result": []interface{}{}}})
	assert.ErrorIs(t, err, ErrNotFound)

	rec, err := FirstRecord([]interface{}{map[string]interface{}{"status": "OK", "result": []interface{}{"first", "second"}}})
	require.NoError(t, err)
	assert.Equal(t, "first", rec)
}
