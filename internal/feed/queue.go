package feed

import (
	"context"

	"github.com/forgo/habitquest/internal/metrics"
	"github.com/forgo/habitquest/internal/model"
)

// DefaultQueueSize is the inbound buffer used when none is configured
const DefaultQueueSize = 256

// Queue is the bounded inbound queue between change sources and the apply
// loop. Changes leave in the order they were pushed.
type Queue struct {
	ch chan model.Change
}

// NewQueue creates a queue holding up to size changes
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{ch: make(chan model.Change, size)}
}

// Push enqueues a change, waiting for room until ctx is done
func (q *Queue) Push(ctx context.Context, change model.Change) error {
	select {
	case q.ch <- change:
		metrics.FeedQueueDepth.Set(float64(len(q.ch)))
		return nil
	case <-ctx.Done():
		metrics.FeedChanges.WithLabelValues(string(change.Entity), "dropped").Inc()
		return ctx.Err()
	}
}

// TryPush enqueues without waiting and reports whether there was room
func (q *Queue) TryPush(change model.Change) bool {
	select {
	case q.ch <- change:
		metrics.FeedQueueDepth.Set(float64(len(q.ch)))
		return true
	default:
		metrics.FeedChanges.WithLabelValues(string(change.Entity), "dropped").Inc()
		return false
	}
}

// Len returns the number of queued changes
func (q *Queue) Len() int {
	return len(q.ch)
}

func (q *Queue) pop(ctx context.Context) (model.Change, bool) {
	select {
	case change := <-q.ch:
		metrics.FeedQueueDepth.Set(float64(len(q.ch)))
		return change, true
	case <-ctx.Done():
		return model.Change{}, false
	}
}

func (q *Queue) tryPop() (model.Change, bool) {
	select {
	case change := <-q.ch:
		metrics.FeedQueueDepth.Set(float64(len(q.ch)))
		return change, true
	default:
		return model.Change{}, false
	}
}
