// Package model defines the domain entities and wire shapes for HabitQuest.
//
// Every entity kind has an explicit schema with a Validate method. Records
// coming from the hosted store or the change feed are decoded into these
// types and validated before they reach the controller; loosely-typed
// payloads never travel further than the ingress boundary.
//
// # Domain Entities
//
//   - Habit: a recurring quest with base XP, streak counters and a status
//   - DailyLog: the set of habits completed on one date plus that day's XP
//   - PlayerStats: derived level, XP and streak aggregate
//   - Profile: the persisted subset of PlayerStats
//   - AchievementDefinition / UnlockedAchievement: one-time rewards
//   - Challenge / ChallengeProgress / LeaderboardEntry: weekly goals
//
// # Snapshots and Changes
//
// Snapshot is the whole state of one player, the unit of the local cache
// and of rollback. Change is an inbound change-feed message:
//
//	change, err := model.DecodeChange(model.EntityHabit, model.ChangeUpdate, payload)
//	if errors.Is(err, model.ErrInvalidChange) {
//	    // drop it
//	}
//
// # Error Types
//
// RFC 9457 Problem Details errors are defined in errors.go.
package model
