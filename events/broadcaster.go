// Package events fans product lifecycle events out to Server-Sent Events
// subscribers.
package events

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/teebay/teebay-api/products"
)

// DefaultBuffer is the number of events a subscriber may fall behind before
// further events are dropped for it.
const DefaultBuffer = 32

// Event is one product lifecycle notification as sent to subscribers.
type Event struct {
	Type      products.EventType `json:"type"`
	ProductID int                `json:"productId"`
	UserID    int                `json:"userId"`
	At        time.Time          `json:"at"`
}

type subscriber struct {
	ch      chan Event
	dropped int
}

// Broadcaster keeps the set of live subscribers. It implements
// products.Publisher.
type Broadcaster struct {
	mu     sync.RWMutex
	subs   map[string]*subscriber
	buffer int
	now    func() time.Time
}

// NewBroadcaster creates a Broadcaster whose subscribers buffer up to buffer
// events. A non-positive buffer means DefaultBuffer.
func NewBroadcaster(buffer int) *Broadcaster {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Broadcaster{
		subs:   make(map[string]*subscriber),
		buffer: buffer,
		now:    time.Now,
	}
}

// Subscribe registers a new subscriber and returns its id and event channel.
// The channel is closed by Unsubscribe.
func (b *Broadcaster) Subscribe() (string, <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.NewString()
	s := &subscriber{ch: make(chan Event, b.buffer)}
	b.subs[id] = s
	return id, s.ch
}

// Unsubscribe removes the subscriber and closes its channel. Unknown ids are
// ignored.
func (b *Broadcaster) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.subs[id]
	if !ok {
		return
	}
	close(s.ch)
	delete(b.subs, id)
	if s.dropped > 0 {
		log.Printf("events: subscriber %s left after dropping %d events", id, s.dropped)
	}
}

// Publish sends the event to every subscriber without blocking. A subscriber
// whose buffer is full misses the event.
func (b *Broadcaster) Publish(eventType products.EventType, productID, userID int) {
	ev := Event{Type: eventType, ProductID: productID, UserID: userID, At: b.now().UTC()}

	// The write lock keeps Unsubscribe from closing a channel mid-send and
	// guards the dropped counters.
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.subs {
		select {
		case s.ch <- ev:
		default:
			s.dropped++
		}
	}
}

// Subscribers returns the number of live subscribers.
func (b *Broadcaster) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
