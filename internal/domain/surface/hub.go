package surface

import "sync"

// Hub fans out surface snapshots to subscribers. Each subscriber holds at most
// one pending snapshot; a newer one replaces it. Publish never blocks.
type Hub struct {
	mu     sync.Mutex
	subs   map[chan State]struct{}
	last   State
	hasAny bool
}

// NewHub creates a hub without subscribers
func NewHub() *Hub {
	return &Hub{subs: make(map[chan State]struct{})}
}

// Publish delivers st to every subscriber
func (h *Hub) Publish(st State) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.last = st
	h.hasAny = true
	for ch := range h.subs {
		offer(ch, st)
	}
}

// Subscribe returns a channel of snapshots and a cancel function.
// The latest snapshot, if any, is delivered immediately.
func (h *Hub) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	if h.hasAny {
		ch <- h.last
	}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			close(ch)
			h.mu.Unlock()
		})
	}
	return ch, cancel
}

// Last returns the most recent snapshot
func (h *Hub) Last() (State, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last, h.hasAny
}

// Subscribers returns the number of active subscribers
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// offer replaces a pending snapshot with st. Callers hold the hub lock, so
// this is the only sender on ch.
func offer(ch chan State, st State) {
	select {
	case ch <- st:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	ch <- st
}
