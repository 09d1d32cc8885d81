package service

import (
	"encoding/json"
	"sync"
	"time"
)

// NoticeKind classifies a transient notice for styling
type NoticeKind string

const (
	NoticeSuccess     NoticeKind = "success"
	NoticeXP          NoticeKind = "xp"
	NoticeAchievement NoticeKind = "achievement"
	NoticeError       NoticeKind = "error"
	NoticeHeartbeat   NoticeKind = "heartbeat"
)

// Notice is a short-lived message for the player, e.g. "+3 XP!"
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
	At      time.Time  `json:"at"`
}

// Format returns the SSE formatted string
func (n *Notice) Format() string {
	data, _ := json.Marshal(n)
	return "event: " + string(n.Kind) + "\ndata: " + string(data) + "\n\n"
}

// Subscriber is a connected notice listener
type Subscriber struct {
	ID      string
	OwnerID string
	Notices chan *Notice
	Done    chan struct{}
}

// NoticeHub fans notices out to every listener of an owner
type NoticeHub struct {
	mu          sync.RWMutex
	subscribers map[string]map[string]*Subscriber // ownerID -> subscriberID -> subscriber
	heartbeat   *time.Ticker
	done        chan struct{}
	closeOnce   sync.Once
}

// NewNoticeHub creates a hub that sends a heartbeat every interval; zero
// disables heartbeats.
func NewNoticeHub(heartbeat time.Duration) *NoticeHub {
	hub := &NoticeHub{
		subscribers: make(map[string]map[string]*Subscriber),
		done:        make(chan struct{}),
	}
	if heartbeat > 0 {
		hub.heartbeat = time.NewTicker(heartbeat)
		go hub.sendHeartbeats()
	}
	return hub
}

// Subscribe adds a listener for an owner
func (h *NoticeHub) Subscribe(ownerID, subscriberID string) *Subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := &Subscriber{
		ID:      subscriberID,
		OwnerID: ownerID,
		Notices: make(chan *Notice, 32),
		Done:    make(chan struct{}),
	}
	if h.subscribers[ownerID] == nil {
		h.subscribers[ownerID] = make(map[string]*Subscriber)
	}
	h.subscribers[ownerID][subscriberID] = sub
	return sub
}

// Unsubscribe removes a listener
func (h *NoticeHub) Unsubscribe(ownerID, subscriberID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ownerSubs, ok := h.subscribers[ownerID]; ok {
		if sub, ok := ownerSubs[subscriberID]; ok {
			close(sub.Done)
			close(sub.Notices)
			delete(ownerSubs, subscriberID)
		}
		if len(ownerSubs) == 0 {
			delete(h.subscribers, ownerID)
		}
	}
}

// Publish delivers a notice to every listener of ownerID. Slow listeners
// miss notices rather than block the publisher.
func (h *NoticeHub) Publish(ownerID string, notice Notice) {
	if notice.At.IsZero() {
		notice.At = time.Now()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subscribers[ownerID] {
		n := notice
		select {
		case sub.Notices <- &n:
		default:
		}
	}
}

// SubscriberCount returns the number of listeners for an owner
func (h *NoticeHub) SubscriberCount(ownerID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[ownerID])
}

func (h *NoticeHub) sendHeartbeats() {
	for {
		select {
		case <-h.heartbeat.C:
			h.mu.RLock()
			for _, ownerSubs := range h.subscribers {
				for _, sub := range ownerSubs {
					select {
					case sub.Notices <- &Notice{Kind: NoticeHeartbeat, At: time.Now().UTC()}:
					default:
					}
				}
			}
			h.mu.RUnlock()
		case <-h.done:
			return
		}
	}
}

// Close stops the hub and disconnects every listener
func (h *NoticeHub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
		if h.heartbeat != nil {
			h.heartbeat.Stop()
		}

		h.mu.Lock()
		defer h.mu.Unlock()
		for ownerID, ownerSubs := range h.subscribers {
			for _, sub := range ownerSubs {
				close(sub.Done)
				close(sub.Notices)
			}
			delete(h.subscribers, ownerID)
		}
	})
}
