package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/forgo/habitquest/internal/service"
)

// ControllerSet iterates the loaded controllers
type ControllerSet interface {
	Each(fn func(*service.Controller))
}

// Rollover re-derives every loaded player's streak after midnight and
// flushes their snapshot to the local cache, so the dashboard reflects the
// new day without the player having to act first.
type Rollover struct {
	controllers ControllerSet
	logger      logrus.FieldLogger
}

// NewRollover creates the day rollover job
func NewRollover(controllers ControllerSet, logger logrus.FieldLogger) *Rollover {
	return &Rollover{controllers: controllers, logger: logger}
}

func (r *Rollover) Name() string { return "rollover" }

// Run implements Job. Flush failures are collected and returned together;
// one owner's failure does not stop the others.
func (r *Rollover) Run(ctx context.Context) error {
	var errs []error
	count := 0
	r.controllers.Each(func(c *service.Controller) {
		if ctx.Err() != nil {
			return
		}
		stats := c.RefreshStreak(ctx)
		if err := c.Flush(ctx); err != nil {
			errs = append(errs, fmt.Errorf("flush %s: %w", c.OwnerID(), err))
			return
		}
		count++
		r.logger.WithFields(logrus.Fields{
			"owner_id":       c.OwnerID(),
			"current_streak": stats.CurrentStreak,
		}).Debug("streak rolled over")
	})
	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}

	r.logger.WithField("owners", count).Info("day rollover complete")
	return errors.Join(errs...)
}
