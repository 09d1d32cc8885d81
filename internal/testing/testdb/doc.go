// Package testdb provides isolated hosted-store environments for
// integration tests.
//
// Each environment runs real queries against a real database and is torn
// down with t.Cleanup. Tests are skipped unless the matching variable is
// set:
//
//	TEST_DB_HOST (+ TEST_DB_PORT, TEST_DB_USER, TEST_DB_PASSWORD)  SurrealDB
//	TEST_PG_DSN                                                    PostgreSQL
//
// # SurrealDB
//
// Every test gets its own namespace with the schema applied:
//
//	tdb := testdb.NewSurreal(t)
//	store := repository.NewStore(tdb.DB)
//
// # PostgreSQL
//
// Every test gets its own schema, selected through search_path:
//
//	tdb := testdb.NewPostgres(t)
//	store := postgres.NewStore(tdb.Pool)
package testdb
