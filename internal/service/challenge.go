package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/forgo/habitquest/internal/model"
)

// DefaultLeaderboardLimit caps the weekly leaderboard
const DefaultLeaderboardLimit = 10

// ChallengeService serves weekly challenges and the weekly leaderboard.
// Both live only in the hosted store.
type ChallengeService struct {
	store    ChallengeStore
	registry *Registry
	now      func() time.Time
	location *time.Location
	logger   logrus.FieldLogger
}

// ChallengeServiceConfig holds dependencies for ChallengeService
type ChallengeServiceConfig struct {
	Store    ChallengeStore
	Registry *Registry
	Now      func() time.Time
	Location *time.Location
	Logger   logrus.FieldLogger
}

// NewChallengeService creates a new challenge service
func NewChallengeService(cfg ChallengeServiceConfig) *ChallengeService {
	s := &ChallengeService{
		store:    cfg.Store,
		registry: cfg.Registry,
		now:      cfg.Now,
		location: cfg.Location,
		logger:   cfg.Logger,
	}
	if s.store == nil {
		s.store = UnconfiguredStore{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.location == nil {
		s.location = time.Local
	}
	if s.logger == nil {
		s.logger = logrus.StandardLogger()
	}
	return s
}

// CurrentWeek returns this Monday..Sunday window
func (s *ChallengeService) CurrentWeek() model.Week {
	return model.WeekOf(s.now().In(s.location))
}

// ActiveChallenges lists the challenges overlapping the current week
func (s *ChallengeService) ActiveChallenges(ctx context.Context) ([]*model.Challenge, error) {
	challenges, err := s.store.FetchActiveChallenges(ctx, s.CurrentWeek())
	if err != nil {
		return nil, s.mapStoreError(err)
	}
	return challenges, nil
}

// Leaderboard returns the current week's top players by XP earned
func (s *ChallengeService) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = DefaultLeaderboardLimit
	}
	entries, err := s.store.WeeklyLeaderboard(ctx, s.CurrentWeek(), limit)
	if err != nil {
		return nil, s.mapStoreError(err)
	}
	return entries, nil
}

// RefreshProgress recomputes an owner's progress on every active challenge
// from the completions logged this week.
func (s *ChallengeService) RefreshProgress(ctx context.Context, ownerID string) ([]model.ChallengeProgress, error) {
	c, err := s.registry.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	challenges, err := s.ActiveChallenges(ctx)
	if err != nil {
		return nil, err
	}

	state := c.State()
	now := s.now()
	out := make([]model.ChallengeProgress, 0, len(challenges))
	for _, ch := range challenges {
		count := CompletionsBetween(state.DailyLogs, ch.StartDate, ch.EndDate)
		progress := model.ChallengeProgress{
			OwnerID:     ownerID,
			ChallengeID: ch.ID,
			Progress:    min(count, ch.TargetCount),
			Completed:   count >= ch.TargetCount,
			UpdatedOn:   now,
		}
		if err := s.store.UpsertChallengeProgress(ctx, &progress); err != nil {
			return out, s.mapStoreError(err)
		}
		out = append(out, progress)
	}
	return out, nil
}

// RefreshAll refreshes progress for every loaded owner and returns how
// many succeeded.
func (s *ChallengeService) RefreshAll(ctx context.Context) (int, error) {
	refreshed := 0
	for _, ownerID := range s.registry.Owners() {
		if err := ctx.Err(); err != nil {
			return refreshed, err
		}
		if _, err := s.RefreshProgress(ctx, ownerID); err != nil {
			if errors.Is(err, ErrChallengesUnavailable) {
				return refreshed, err
			}
			s.logger.WithError(err).WithField("owner_id", ownerID).Warn("failed to refresh challenge progress")
			continue
		}
		refreshed++
	}
	return refreshed, nil
}

func (s *ChallengeService) mapStoreError(err error) error {
	if errors.Is(err, ErrStoreNotConfigured) {
		return ErrChallengesUnavailable
	}
	return fmt.Errorf("%w: %v", ErrStoreRead, err)
}

// CompletionsBetween counts completions logged on dates in [start, end]
func CompletionsBetween(logs map[string]model.DailyLog, start, end string) int {
	total := 0
	for date, l := range logs {
		if date >= start && date <= end {
			total += len(l.HabitIDs)
		}
	}
	return total
}
