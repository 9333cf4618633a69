package taskdb

import (
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// hub wakes live readers after committed writes. Each subscriber owns a
// one-slot channel, so a burst of writes collapses into a single re-query.
type hub struct {
	mu   sync.Mutex
	subs map[string]chan struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[string]chan struct{})}
}

func (h *hub) subscribe() (string, <-chan struct{}) {
	id := gonanoid.Must()
	wake := make(chan struct{}, 1)

	h.mu.Lock()
	h.subs[id] = wake
	h.mu.Unlock()

	return id, wake
}

func (h *hub) unsubscribe(id string) {
	h.mu.Lock()
	delete(h.subs, id)
	h.mu.Unlock()
}

func (h *hub) notify() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, wake := range h.subs {
		select {
		case wake <- struct{}{}:
		default:
		}
	}
}

// shutdown closes every wake channel and drops the subscribers, ending
// their live reads.
func (h *hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, wake := range h.subs {
		close(wake)
		delete(h.subs, id)
	}
}

func (h *hub) len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
