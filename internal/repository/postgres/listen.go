package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/forgo/habitquest/internal/feed"
	"github.com/forgo/habitquest/internal/metrics"
	"github.com/forgo/habitquest/internal/model"
)

// ListenSource streams trigger notifications into the change feed. It
// holds one pooled connection for as long as Stream runs.
type ListenSource struct {
	pool    *pgxpool.Pool
	channel string
	logger  logrus.FieldLogger
}

// NewListenSource creates a LISTEN source on NotifyChannel
func NewListenSource(pool *pgxpool.Pool, logger logrus.FieldLogger) *ListenSource {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ListenSource{pool: pool, channel: NotifyChannel, logger: logger.WithField("source", "postgres")}
}

// Name implements feed.Source
func (s *ListenSource) Name() string { return "postgres-listen" }

// Stream implements feed.Source
func (s *ListenSource) Stream(ctx context.Context, q *feed.Queue) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{s.channel}.Sanitize()); err != nil {
		return fmt.Errorf("listen %s: %w", s.channel, err)
	}

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}
		change, err := DecodeNotification(n.Payload)
		if err != nil {
			metrics.FeedChanges.WithLabelValues("unknown", "invalid").Inc()
			s.logger.WithError(err).Warn("Dropping notification")
			continue
		}
		if err := q.Push(ctx, change); err != nil {
			return err
		}
	}
}

type notification struct {
	Entity model.EntityKind   `json:"entity"`
	Action model.ChangeAction `json:"action"`
	Record json.RawMessage    `json:"record"`
}

// DecodeNotification validates a trigger payload against the model schema
func DecodeNotification(payload string) (model.Change, error) {
	var n notification
	if err := json.Unmarshal([]byte(payload), &n); err != nil {
		return model.Change{}, fmt.Errorf("%w: %v", model.ErrInvalidChange, err)
	}
	if len(n.Record) == 0 {
		return model.Change{}, fmt.Errorf("%w: notification has no record", model.ErrInvalidChange)
	}
	return model.DecodeChange(n.Entity, n.Action, n.Record)
}
