// Package postgres is the PostgreSQL hosted store.
//
// Store runs plain parameterized SQL over a pgx pool with ON CONFLICT
// upserts. Migrate applies the embedded schema; migration 3 installs a
// trigger on every player table that publishes the changed row on
// NotifyChannel, which ListenSource feeds into the change feed.
package postgres
