// Package config manages application configuration for HabitQuest.
//
// All configuration is centralized here to provide a single source of truth.
//
// # Configuration Loading
//
// Values are layered, later layers winning:
//
//  1. Default() development values
//  2. an optional TOML file (--config flag or HABITQUEST_CONFIG)
//  3. HABITQUEST_* environment variables via envconfig
//
//	cfg, err := config.Load(path)
//	if err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//
// # Configuration Groups
//
//   - ServerConfig: HTTP server settings (port, timeouts, CORS)
//   - StoreConfig: hosted store driver (none, surrealdb, postgres)
//   - SurrealDBConfig, PostgresConfig: driver connection settings
//   - CacheConfig: local snapshot cache path
//   - FeedConfig: change feed queue and retry
//   - JobsConfig: cron schedules
//   - AuthConfig: API key hashes per owner
//   - ScoringConfig: timezone and streak lookback
//
// # Environment Variables
//
// Section and field names join with underscores. Only prefixed names are
// read, so PATH or USER never leak into a section:
//
//	HABITQUEST_SERVER_PORT        - HTTP server port (default: 8080)
//	HABITQUEST_STORE_DRIVER       - none, surrealdb or postgres
//	HABITQUEST_SURREALDB_HOST     - SurrealDB host
//	HABITQUEST_POSTGRES_DSN       - PostgreSQL connection string
//	HABITQUEST_CACHE_PATH         - SQLite snapshot cache file
//	HABITQUEST_AUTH_KEYS          - owner:bcrypt-hash pairs, comma separated
//	HABITQUEST_SCORING_TIMEZONE   - IANA zone used for "today"
//	HABITQUEST_LOG_LEVEL          - logrus level
package config
