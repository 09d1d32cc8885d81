package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/forgo/habitquest/internal/middleware"
	"github.com/forgo/habitquest/internal/service"
)

// RouterConfig holds everything the HTTP API serves
type RouterConfig struct {
	Controllers    ControllerSource
	Challenges     ChallengeSource
	Notices        *service.NoticeHub
	Health         *HealthHandler
	Keys           middleware.KeyVerifier
	DefaultOwner   string
	AllowedOrigins []string
	RateLimiter    *middleware.RateLimiter     // nil disables rate limiting
	Idempotency    *middleware.IdempotencyStore // nil disables replay
	RequestTimeout time.Duration
	Logger         logrus.FieldLogger
}

// NewRouter mounts the API on a chi router
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Health == nil {
		cfg.Health = NewHealthHandler(nil, "none")
	}

	habits := NewHabitHandler(cfg.Controllers, cfg.Logger)
	player := NewPlayerHandler(cfg.Controllers)
	challenges := NewChallengeHandler(cfg.Challenges)
	notices := NewNoticeHandler(cfg.Notices)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	r.Get("/health", cfg.Health.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.Keys, cfg.DefaultOwner))
		if cfg.RateLimiter != nil {
			r.Use(middleware.RateLimit(cfg.RateLimiter))
		}

		// The event stream must not be compressed, timed out or replayed
		r.Get("/notices/stream", notices.Stream)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Compress)
			if cfg.RequestTimeout > 0 {
				r.Use(chimw.Timeout(cfg.RequestTimeout))
			}
			if cfg.Idempotency != nil {
				r.Use(middleware.Idempotency(cfg.Idempotency))
			}

			r.Route("/habits", func(r chi.Router) {
				r.Get("/", habits.List)
				r.Post("/", habits.Create)
				r.Route("/{habitId}", func(r chi.Router) {
					r.Patch("/", habits.Update)
					r.Delete("/", habits.Delete)
					r.Patch("/status", habits.SetStatus)
					r.Post("/toggle", habits.Toggle)
				})
			})

			r.Route("/player", func(r chi.Router) {
				r.Get("/", player.Get)
				r.Get("/achievements", player.Achievements)
				r.Get("/day/{date}", player.Day)
			})

			r.Get("/challenges", challenges.List)
			r.Get("/leaderboard", challenges.Leaderboard)
		})
	})

	return r
}
