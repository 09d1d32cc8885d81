// Package repository implements the hosted store on SurrealDB.
//
// Each repository struct handles one table. Store composes them into the
// single adapter the service layer talks to, and LiveSource turns live
// query notifications into change feed entries.
//
// # Repository Pattern
//
// All repositories follow a consistent pattern:
//
//   - Constructor function (NewXxxRepository) accepts a database connection
//   - Methods implement specific data operations (Upsert, GetByOwner, Delete)
//   - SurrealQL queries are used for all database interactions
//   - Results are parsed and mapped to model structs; records that fail to
//     parse are skipped
//
// # Record Ids
//
// Ids are derived from the natural key so upserts are idempotent:
//
//   - habit:⟨habit id⟩
//   - daily_log:[owner_id, date]
//   - profile:⟨owner_id⟩
//   - achievement:[owner_id, achievement_id]
//   - challenge_progress:[owner_id, challenge_id]
//
// # Example Usage
//
//	store := repository.NewStore(db)
//	habits, err := store.FetchHabits(ctx, "player-1")
//	if err != nil {
//	    return err
//	}
package repository
