package feed

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/forgo/habitquest/internal/metrics"
	"github.com/forgo/habitquest/internal/model"
	"github.com/forgo/habitquest/internal/service"
)

// Source streams changes from a hosted store into a queue until ctx is
// done or the connection fails.
type Source interface {
	Name() string
	Stream(ctx context.Context, q *Queue) error
}

// Target applies a change to local state
type Target interface {
	ApplyRemote(ctx context.Context, change model.Change) (bool, error)
}

// Resolver finds the Target for an owner
type Resolver interface {
	Resolve(ctx context.Context, ownerID string) (Target, error)
}

// RegistryResolver resolves owners through a service.Registry. With
// LoadedOnly set, changes for owners that are not loaded are ignored.
type RegistryResolver struct {
	Registry   *service.Registry
	LoadedOnly bool
}

// ErrOwnerNotLoaded is returned by RegistryResolver in LoadedOnly mode
var ErrOwnerNotLoaded = errors.New("owner not loaded")

// Resolve implements Resolver
func (r RegistryResolver) Resolve(ctx context.Context, ownerID string) (Target, error) {
	if r.LoadedOnly {
		c, ok := r.Registry.Peek(ownerID)
		if !ok {
			return nil, ErrOwnerNotLoaded
		}
		return c, nil
	}
	c, err := r.Registry.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Loop drains the queue on a single goroutine so changes for one owner are
// applied in arrival order, last applied wins. Sources run on their own
// goroutines and are restarted after RetryDelay when they fail.
type Loop struct {
	queue      *Queue
	resolver   Resolver
	sources    []Source
	retryDelay time.Duration
	logger     logrus.FieldLogger

	stopCh  chan struct{}
	wg      sync.WaitGroup
	running bool
	mu      sync.Mutex
}

// LoopConfig holds dependencies for Loop
type LoopConfig struct {
	Queue      *Queue
	Resolver   Resolver
	Sources    []Source
	RetryDelay time.Duration
	Logger     logrus.FieldLogger
}

// NewLoop creates a new apply loop
func NewLoop(cfg LoopConfig) *Loop {
	if cfg.Queue == nil {
		cfg.Queue = NewQueue(DefaultQueueSize)
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 5 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	return &Loop{
		queue:      cfg.Queue,
		resolver:   cfg.Resolver,
		sources:    cfg.Sources,
		retryDelay: cfg.RetryDelay,
		logger:     cfg.Logger.WithField("component", "feed"),
		stopCh:     make(chan struct{}),
	}
}

// Queue returns the inbound queue
func (l *Loop) Queue() *Queue {
	return l.queue
}

// Start launches the sources and the apply goroutine
func (l *Loop) Start() {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return
	}
	l.running = true
	l.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-l.stopCh
		cancel()
	}()

	for _, src := range l.sources {
		l.wg.Add(1)
		go l.runSource(ctx, src)
	}
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		l.Run(ctx)
	}()
	l.logger.WithField("sources", len(l.sources)).Info("change feed started")
}

// Stop cancels the sources and waits for the apply goroutine to finish
func (l *Loop) Stop() {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	l.running = false
	l.mu.Unlock()

	close(l.stopCh)
	l.wg.Wait()
	l.logger.Info("change feed stopped")
}

// IsRunning returns whether the loop is running
func (l *Loop) IsRunning() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// Run applies queued changes until ctx is done
func (l *Loop) Run(ctx context.Context) {
	for {
		change, ok := l.queue.pop(ctx)
		if !ok {
			return
		}
		l.apply(ctx, change)
	}
}

// Drain applies every change currently queued and returns how many were
// taken off the queue
func (l *Loop) Drain(ctx context.Context) int {
	n := 0
	for {
		change, ok := l.queue.tryPop()
		if !ok {
			return n
		}
		l.apply(ctx, change)
		n++
	}
}

func (l *Loop) apply(ctx context.Context, change model.Change) {
	entity := string(change.Entity)
	log := l.logger.WithFields(logrus.Fields{
		"entity":   entity,
		"action":   change.Action,
		"owner_id": change.OwnerID,
		"key":      change.Key,
	})

	target, err := l.resolver.Resolve(ctx, change.OwnerID)
	if errors.Is(err, ErrOwnerNotLoaded) {
		metrics.FeedChanges.WithLabelValues(entity, "ignored").Inc()
		return
	}
	if err != nil {
		metrics.FeedChanges.WithLabelValues(entity, "failed").Inc()
		log.WithError(err).Warn("failed to resolve owner for change")
		return
	}

	applied, err := target.ApplyRemote(ctx, change)
	switch {
	case errors.Is(err, model.ErrInvalidChange):
		metrics.FeedChanges.WithLabelValues(entity, "invalid").Inc()
		log.WithError(err).Warn("rejected change")
	case err != nil:
		metrics.FeedChanges.WithLabelValues(entity, "failed").Inc()
		log.WithError(err).Warn("failed to apply change")
	case applied:
		metrics.FeedChanges.WithLabelValues(entity, "applied").Inc()
		log.Debug("applied change")
	default:
		metrics.FeedChanges.WithLabelValues(entity, "ignored").Inc()
	}
}

func (l *Loop) runSource(ctx context.Context, src Source) {
	defer l.wg.Done()
	log := l.logger.WithField("source", src.Name())

	for {
		err := src.Stream(ctx, l.queue)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			log.WithError(err).Warn("change source disconnected, retrying")
		}

		select {
		case <-time.After(l.retryDelay):
		case <-ctx.Done():
			return
		}
	}
}
