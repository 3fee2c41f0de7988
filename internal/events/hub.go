// Package events distributes lifecycle notifications to live subscribers.
package events

import (
	"sync"
	"sync/atomic"

	"github.com/vyrodovalexey/inventory-api/internal/lifecycle"
	"github.com/vyrodovalexey/inventory-api/internal/model"
)

// DefaultBufferSize is the per-subscriber channel capacity.
const DefaultBufferSize = 64

// Hub fans events out to subscribers. Sends never block: an event is
// dropped for a subscriber whose buffer is full.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[*Subscription]struct{}
	bufferSize  int
	dropped     atomic.Int64
}

var _ lifecycle.Observer = (*Hub)(nil)

// NewHub creates a Hub with the given per-subscriber buffer size.
func NewHub(bufferSize int) *Hub {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Hub{
		subscribers: make(map[*Subscription]struct{}),
		bufferSize:  bufferSize,
	}
}

// Subscription receives events until it is closed.
type Subscription struct {
	hub  *Hub
	ch   chan model.Event
	once sync.Once
}

// Events returns the channel events are delivered on.
// It is closed when the subscription or the hub is closed.
func (s *Subscription) Events() <-chan model.Event {
	return s.ch
}

// Close detaches the subscription from its hub.
func (s *Subscription) Close() {
	s.hub.unsubscribe(s)
}

// Subscribe registers a new subscriber.
func (h *Hub) Subscribe() *Subscription {
	sub := &Subscription{
		hub: h,
		ch:  make(chan model.Event, h.bufferSize),
	}

	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	h.mu.Unlock()

	return sub
}

func (h *Hub) unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.subscribers, sub)
	sub.once.Do(func() { close(sub.ch) })
}

// Publish delivers e to every subscriber with room in its buffer.
func (h *Hub) Publish(e model.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subscribers {
		select {
		case sub.ch <- e:
		default:
			h.dropped.Add(1)
		}
	}
}

// Subscribers returns the number of active subscribers.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subscribers)
}

// Dropped returns how many deliveries were skipped because a buffer was full.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

// Close closes every subscription.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subscribers {
		delete(h.subscribers, sub)
		sub.once.Do(func() { close(sub.ch) })
	}
}

// OnCreate publishes a created event.
func (h *Hub) OnCreate(kind string, id int) {
	h.Publish(model.NewEvent(model.EventCreated, kind, id))
}

// OnReplace publishes a replaced event.
func (h *Hub) OnReplace(kind string, id int) {
	h.Publish(model.NewEvent(model.EventReplaced, kind, id))
}

// OnDelete publishes a deleted event.
func (h *Hub) OnDelete(kind string, id int) {
	h.Publish(model.NewEvent(model.EventDeleted, kind, id))
}

// OnRead is a no-op; reads are not announced.
func (h *Hub) OnRead(string, string) {}

// OnError is a no-op; failed operations change nothing worth announcing.
func (h *Hub) OnError(string, string, lifecycle.Outcome) {}
