package jobs

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/forgo/habitquest/internal/service"
)

// ProgressRefresher recomputes weekly challenge progress
type ProgressRefresher interface {
	RefreshAll(ctx context.Context) (int, error)
}

// ChallengeProgress periodically writes every loaded player's progress on
// the active weekly challenges
type ChallengeProgress struct {
	challenges ProgressRefresher
	logger     logrus.FieldLogger
}

// NewChallengeProgress creates the challenge progress job
func NewChallengeProgress(challenges ProgressRefresher, logger logrus.FieldLogger) *ChallengeProgress {
	return &ChallengeProgress{challenges: challenges, logger: logger}
}

func (j *ChallengeProgress) Name() string { return "challenge_progress" }

// Run implements Job. Local-only mode is not an error.
func (j *ChallengeProgress) Run(ctx context.Context) error {
	n, err := j.challenges.RefreshAll(ctx)
	if errors.Is(err, service.ErrChallengesUnavailable) {
		j.logger.Debug("no hosted store, skipping challenge progress")
		return nil
	}
	if err != nil {
		return err
	}
	j.logger.WithField("owners", n).Debug("challenge progress refreshed")
	return nil
}
