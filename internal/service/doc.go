// Package service owns the player state and applies every command to it.
//
// A Controller holds one player's Snapshot (habits, daily logs, stats and
// unlocked achievements). Commands run one at a time under the controller's
// mutex and follow the same shape:
//
//   - Take a copy of the snapshot
//   - Apply the scoring engine and achievement evaluator to local state
//   - Save the whole snapshot to the local cache
//   - Write the changed records to the hosted store
//
// If a hosted write fails the copy is restored, an error Notice is
// published and ErrStoreWrite is returned. The cache keeps what it saved.
// When no hosted store is configured every remote call returns
// ErrStoreNotConfigured and the controller carries on local-only without
// reporting anything.
//
// # Store Interfaces
//
// The package defines the interfaces it needs from persistence:
//
//   - Store: per-entity upsert, fetch and delete on the hosted store
//   - ChallengeStore: weekly challenges and leaderboard
//   - SnapshotCache: durable local copy of a whole Snapshot
//
// # Example Usage
//
//	registry := NewRegistry(RegistryConfig{
//	    Store:   store,
//	    Cache:   cache,
//	    Notices: NewNoticeHub(30 * time.Second),
//	})
//	c, err := registry.Get(ctx, ownerID)
//	outcome, err := c.Toggle(ctx, habitID, "")
package service
