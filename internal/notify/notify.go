// Package notify fans application events out to live listeners: an
// in-process hub feeds the SSE stream, and an optional redis mirror
// republishes every event for other processes.
package notify

import (
	"fmt"
	"sync"
	"time"
)

type Event struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	At      string `json:"at"`
}

func LowStockEvent(productName string, stock int) Event {
	return Event{
		Type:    "ALERT",
		Title:   "Low stock",
		Message: fmt.Sprintf("Product %s is down to %d units", productName, stock),
		At:      time.Now().UTC().Format(time.RFC3339),
	}
}

func InfoEvent(title, message string) Event {
	return Event{Type: "INFO", Title: title, Message: message, At: time.Now().UTC().Format(time.RFC3339)}
}

// Mirror receives a copy of every published event.
type Mirror interface {
	Mirror(e Event)
}

// Hub is a non-blocking fan-out: slow subscribers drop events rather
// than stall the publisher.
type Hub struct {
	mu      sync.Mutex
	subs    map[chan Event]struct{}
	mirrors []Mirror
}

func NewHub(mirrors ...Mirror) *Hub {
	return &Hub{subs: make(map[chan Event]struct{}), mirrors: mirrors}
}

func (h *Hub) Subscribe() chan Event {
	ch := make(chan Event, 16)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) Unsubscribe(ch chan Event) {
	h.mu.Lock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
	h.mu.Unlock()
}

func (h *Hub) Publish(e Event) {
	h.mu.Lock()
	for ch := range h.subs {
		select {
		case ch <- e:
		default: // subscriber is behind, drop
		}
	}
	mirrors := h.mirrors
	h.mu.Unlock()

	for _, m := range mirrors {
		m.Mirror(e)
	}
}
