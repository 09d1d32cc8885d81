// Package middleware provides HTTP middleware for the HabitQuest API.
//
// # Available Middleware
//
//   - RequestID: assigns or propagates X-Request-ID
//   - Logger, Recovery: logrus request logging and panic recovery
//   - CORS, Compress: browser access and gzip
//   - Auth: API key authentication resolving the owner
//   - RateLimit: token bucket per owner, or per client address
//   - Idempotency: replays responses to retried mutating requests
//   - Metrics: Prometheus latency by chi route pattern
//
// # Authentication
//
// Clients send "Authorization: Bearer <owner>.<secret>". The secret is
// checked against the bcrypt hash configured for the owner. When no keys are
// configured every request acts as the configured default owner, which is
// how a single-player local install runs.
//
//	r.Use(middleware.Auth(middleware.NewAPIKeys(cfg.Auth.Keys), cfg.Auth.DefaultOwner))
//
// Handlers read the owner with GetOwnerID(r.Context()).
package middleware
