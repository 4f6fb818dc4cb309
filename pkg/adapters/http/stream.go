package http

import (
	"log/slog"
	"sync"
)

// Message is one server-sent event.
type Message struct {
	Event string
	Data  string
}

// StreamManager handles active SSE connections per instance.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- Message]struct{} // instance id -> set of channels
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- Message]struct{}),
	}
}

// Subscribe registers a buffered channel for id. The returned func
// unsubscribes and closes the channel.
func (sm *StreamManager) Subscribe(id string) (<-chan Message, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan Message, 10)
	if _, ok := sm.subscribers[id]; !ok {
		sm.subscribers[id] = make(map[chan<- Message]struct{})
	}
	sm.subscribers[id][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[id]; ok {
			if _, ok := subs[ch]; !ok {
				return
			}
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, id)
			}
		}
	}
}

// Broadcast delivers msg to every subscriber of id. Slow clients drop messages.
func (sm *StreamManager) Broadcast(id string, msg Message) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[id] {
		select {
		case ch <- msg:
		default:
			slog.Warn("SSE: Client buffer full, dropping message", "instance", id)
		}
	}
}

// Subscribers returns the subscriber count of id.
func (sm *StreamManager) Subscribers(id string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[id])
}
