package events

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// DefaultBufferSize is the default channel buffer size for subscribers.
const DefaultBufferSize = 100

type subscription struct {
	ch    chan Event
	types map[EventType]bool // nil: every type
}

func (s *subscription) wants(t EventType) bool {
	return s.types == nil || s.types[t]
}

// Router fans game events out to subscribers. Delivery never blocks the
// caller: a subscriber whose buffer is full misses the event.
type Router struct {
	mu         sync.RWMutex
	subs       []*subscription
	bufferSize int
	closed     bool
	dropped    atomic.Uint64
}

// NewRouter creates a router whose subscriber channels hold bufferSize
// events. If bufferSize is 0 or negative, DefaultBufferSize is used.
func NewRouter(bufferSize int) *Router {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Router{bufferSize: bufferSize}
}

// Emit delivers event to every subscriber interested in its type.
// It is safe for concurrent use and a no-op after Close.
func (r *Router) Emit(event Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return
	}

	for _, sub := range r.subs {
		if !sub.wants(event.Type()) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			r.dropped.Add(1)
			slog.Warn("event dropped: subscriber channel full",
				"event_type", event.Type(),
				"session_id", event.Session(),
			)
		}
	}
}

// Subscribe returns a channel of emitted events, limited to the given types
// if any are passed. The channel is closed by Close; subscribing to a closed
// router returns a closed channel.
func (r *Router) Subscribe(types ...EventType) <-chan Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}

	sub := &subscription{ch: make(chan Event, r.bufferSize)}
	if len(types) > 0 {
		sub.types = make(map[EventType]bool, len(types))
		for _, t := range types {
			sub.types[t] = true
		}
	}
	r.subs = append(r.subs, sub)
	return sub.ch
}

// Dropped returns the number of deliveries skipped because a subscriber
// was full.
func (r *Router) Dropped() uint64 {
	return r.dropped.Load()
}

// Close closes every subscriber channel. It may be called more than once.
func (r *Router) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	for _, sub := range r.subs {
		close(sub.ch)
	}
	r.subs = nil
}
