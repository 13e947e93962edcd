package goSession

import (
	"sync"

	"github.com/google/uuid"
)

// Subscription receives state snapshots from a [Gate].
//
// C holds at most the buffer size given to [Gate.Subscribe]. When a reader
// falls behind, the oldest queued snapshot is discarded so the newest one is
// always delivered. C is closed by [Subscription.Close] or [Gate.Close].
type Subscription struct {
	ID string
	C  <-chan State

	ch  chan State
	hub *stateHub
}

// Close detaches the subscription and closes C. It is safe to call more
// than once.
func (s *Subscription) Close() {
	if s == nil || s.hub == nil {
		return
	}
	s.hub.remove(s.ID)
}

// stateHub fans snapshots out to subscribers without ever blocking the
// publisher.
type stateHub struct {
	mu     sync.Mutex
	subs   map[string]*Subscription
	closed bool
	onDrop func()
}

func newStateHub(onDrop func()) *stateHub {
	if onDrop == nil {
		onDrop = func() {}
	}
	return &stateHub{
		subs:   make(map[string]*Subscription),
		onDrop: onDrop,
	}
}

// add registers a subscription and queues initial as its first snapshot.
func (h *stateHub) add(buffer int, initial State) *Subscription {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan State, buffer)
	sub := &Subscription{
		ID:  uuid.NewString(),
		C:   ch,
		ch:  ch,
		hub: h,
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		close(ch)
		return sub
	}
	ch <- initial
	h.subs[sub.ID] = sub
	return sub
}

func (h *stateHub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub, ok := h.subs[id]
	if !ok {
		return
	}
	delete(h.subs, id)
	close(sub.ch)
}

func (h *stateHub) publish(st State) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	for _, sub := range h.subs {
		h.offer(sub.ch, st)
	}
}

// offer must run with h.mu held; it is the only sender on ch.
func (h *stateHub) offer(ch chan State, st State) {
	for {
		select {
		case ch <- st:
			return
		default:
		}
		select {
		case <-ch:
			h.onDrop()
		default:
		}
	}
}

func (h *stateHub) len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *stateHub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for id, sub := range h.subs {
		delete(h.subs, id)
		close(sub.ch)
	}
}
