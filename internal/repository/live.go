package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/forgo/habitquest/internal/database"
	"github.com/forgo/habitquest/internal/feed"
	"github.com/forgo/habitquest/internal/metrics"
	"github.com/forgo/habitquest/internal/model"
)

// LiveDB is the part of *database.SurrealDB the live source needs
type LiveDB interface {
	Live(ctx context.Context, table string) (<-chan database.LiveEvent, error)
}

// LiveSource turns SurrealDB live query notifications on the player tables
// into feed changes. It implements feed.Source.
type LiveSource struct {
	db     LiveDB
	logger logrus.FieldLogger
}

// NewLiveSource creates a live query source
func NewLiveSource(db LiveDB, logger logrus.FieldLogger) *LiveSource {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LiveSource{db: db, logger: logger.WithField("source", "surrealdb")}
}

// Name implements feed.Source
func (s *LiveSource) Name() string { return "surrealdb-live" }

// Stream subscribes to every entity table and pushes decoded changes until
// ctx is done or a subscription ends.
func (s *LiveSource) Stream(ctx context.Context, q *feed.Queue) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	merged := make(chan database.LiveEvent)
	done := make(chan string, len(model.EntityKinds))
	for _, kind := range model.EntityKinds {
		events, err := s.db.Live(ctx, string(kind))
		if err != nil {
			return fmt.Errorf("subscribe %s: %w", kind, err)
		}
		go func(table string, events <-chan database.LiveEvent) {
			defer func() { done <- table }()
			for ev := range events {
				select {
				case merged <- ev:
				case <-ctx.Done():
					return
				}
			}
		}(string(kind), events)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case table := <-done:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("live query on %s ended", table)
		case ev := <-merged:
			change, err := ChangeFromLive(ev)
			if err != nil {
				metrics.FeedChanges.WithLabelValues(ev.Table, "invalid").Inc()
				s.logger.WithError(err).WithField("table", ev.Table).Warn("Dropping live notification")
				continue
			}
			if err := q.Push(ctx, change); err != nil {
				return err
			}
		}
	}
}

// ChangeFromLive validates a live notification against the model schema
func ChangeFromLive(ev database.LiveEvent) (model.Change, error) {
	if ev.Record == nil {
		return model.Change{}, errors.New("live notification has no record")
	}

	var action model.ChangeAction
	switch ev.Action {
	case database.LiveCreate:
		action = model.ChangeInsert
	case database.LiveDelete:
		action = model.ChangeDelete
	default:
		action = model.ChangeUpdate
	}

	var record interface{}
	var err error
	switch model.EntityKind(ev.Table) {
	case model.EntityHabit:
		record, err = parseHabit(ev.Record)
	case model.EntityDailyLog:
		record, err = parseDailyLog(ev.Record)
	case model.EntityProfile:
		record, err = parseProfile(ev.Record)
	case model.EntityAchievement:
		record, err = parseAchievement(ev.Record)
	default:
		return model.Change{}, fmt.Errorf("%w: unknown table %q", model.ErrInvalidChange, ev.Table)
	}
	if err != nil {
		return model.Change{}, fmt.Errorf("%w: %v", model.ErrInvalidChange, err)
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return model.Change{}, err
	}
	return model.DecodeChange(model.EntityKind(ev.Table), action, payload)
}
