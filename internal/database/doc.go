// Package database provides SurrealDB connectivity for the hosted store.
//
// # Connection Management
//
//	db := database.NewSurrealDB(database.Config{
//	    Host:      "localhost",
//	    Port:      "8000",
//	    User:      "root",
//	    Password:  "secret",
//	    Namespace: "habitquest",
//	    Database:  "production",
//	})
//	if err := db.Connect(ctx); err != nil { ... }
//	if err := database.Migrate(ctx, db); err != nil { ... }
//
// # Live Queries
//
// Live subscribes to a table and yields a LiveEvent per CREATE, UPDATE or
// DELETE. The repository package turns these into typed changes for the
// feed loop.
//
// # Error Types
//
//   - ErrNotFound: Record does not exist
//   - ErrDuplicate: Unique constraint violation
//   - ErrConnection: Database connection failed
//   - ErrQuery: Query execution failed
package database
