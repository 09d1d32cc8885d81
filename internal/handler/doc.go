// Package handler provides the HTTP API for HabitQuest.
//
// Each handler wraps the per-owner controllers from the service package and
// resolves the caller from the owner id the auth middleware put in the
// request context.
//
// # Response Format
//
//   - WriteData: {"data": ..., "_links": {...}}
//   - WriteError: RFC 9457 Problem Details via MapServiceError
//
// A toggle or edit that the hosted store rejects answers 502 after the
// local change has been reverted; the failure notice is also pushed on
// /v1/notices/stream.
//
// # Routes
//
//	GET    /v1/habits
//	POST   /v1/habits
//	PATCH  /v1/habits/{habitId}
//	PATCH  /v1/habits/{habitId}/status
//	DELETE /v1/habits/{habitId}
//	POST   /v1/habits/{habitId}/toggle
//	GET    /v1/player
//	GET    /v1/player/achievements
//	GET    /v1/player/day/{date}
//	GET    /v1/challenges
//	GET    /v1/leaderboard
//	GET    /v1/notices/stream
//	GET    /health
//	GET    /metrics
package handler
