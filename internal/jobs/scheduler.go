package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/forgo/habitquest/internal/metrics"
)

// DefaultJobTimeout bounds a single job run
const DefaultJobTimeout = 2 * time.Minute

// Job is one scheduled task
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler runs jobs on cron schedules in the scoring timezone. A job
// still running when its next tick fires is skipped.
type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
	logger  logrus.FieldLogger
	running bool
	mu      sync.Mutex
}

// SchedulerConfig holds scheduler settings
type SchedulerConfig struct {
	Location *time.Location
	Timeout  time.Duration
	Logger   logrus.FieldLogger
}

// NewScheduler creates a stopped scheduler
func NewScheduler(cfg SchedulerConfig) *Scheduler {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultJobTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	logger := cfg.Logger.WithField("component", "jobs")
	cronLogger := cron.PrintfLogger(logger)

	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(cfg.Location),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

// Add registers job under a standard five-field cron spec
func (s *Scheduler) Add(spec string, job Job) error {
	if _, err := s.cron.AddFunc(spec, func() { s.RunNow(job) }); err != nil {
		return fmt.Errorf("schedule %s %q: %w", job.Name(), spec, err)
	}
	s.logger.WithFields(logrus.Fields{"job": job.Name(), "schedule": spec}).Info("job scheduled")
	return nil
}

// RunNow runs job once with the scheduler's timeout and records the result
func (s *Scheduler) RunNow(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	entry := s.logger.WithField("job", job.Name())
	if err := job.Run(ctx); err != nil {
		metrics.JobRuns.WithLabelValues(job.Name(), "error").Inc()
		entry.WithError(err).Error("job failed")
		return
	}
	metrics.JobRuns.WithLabelValues(job.Name(), "ok").Inc()
	entry.WithField("duration", time.Since(start)).Debug("job finished")
}

// Start begins running scheduled jobs
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.cron.Start()
	s.logger.Info("job scheduler started")
}

// Stop stops scheduling and waits for running jobs to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.logger.Info("job scheduler stopped")
}

// IsRunning returns whether the scheduler is running
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
