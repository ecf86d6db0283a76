package autopilot

import (
	"encoding/json"
	"sync"
)

// Event is the SSE payload wrapper for autopilot progress.
type Event struct {
	Event   string `json:"event"`
	TaskID  string `json:"task_id,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

type subscriber chan []byte

// Hub fans autopilot events out to SSE subscribers. There is one run at a
// time, so subscriptions are to the whole stream rather than per task.
type Hub struct {
	mu   sync.RWMutex
	subs map[subscriber]struct{}
}

func NewHub() *Hub { return &Hub{subs: map[subscriber]struct{}{}} }

// Subscribe registers a listener. The caller must call the returned
// unsubscribe func when done; the channel is closed there.
func (h *Hub) Subscribe() (<-chan []byte, func()) {
	ch := make(subscriber, 16)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	unsubscribe := func() {
		h.mu.Lock()
		delete(h.subs, ch)
		close(ch)
		h.mu.Unlock()
	}
	return ch, unsubscribe
}

// Publish broadcasts an event. Sends are non-blocking; a slow subscriber
// drops events rather than stalling the loop.
func (h *Hub) Publish(ev Event) {
	b, _ := json.Marshal(ev)
	h.mu.RLock()
	for ch := range h.subs {
		select {
		case ch <- b:
		default:
		}
	}
	h.mu.RUnlock()
}
