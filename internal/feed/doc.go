// Package feed carries changes made on other devices into local state.
//
// Sources (the SurrealDB LIVE query and the PostgreSQL LISTEN channel)
// decode notifications into typed model.Change values and push them onto a
// bounded Queue. A single Loop goroutine drains the queue and hands each
// change to the owning controller's ApplyRemote, the same upsert and remove
// primitives local commands use. There is no merge: the last change applied
// wins.
package feed
