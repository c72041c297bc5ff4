package notify

import (
	"sync"
	"testing"
)

type recordingMirror struct {
	mu   sync.Mutex
	seen []Event
}

func (m *recordingMirror) Mirror(e Event) {
	m.mu.Lock()
	m.seen = append(m.seen, e)
	m.mu.Unlock()
}

func TestHubFanOut(t *testing.T) {
	h := NewHub()
	a := h.Subscribe()
	b := h.Subscribe()

	h.Publish(InfoEvent("hello", "world"))

	for _, ch := range []chan Event{a, b} {
		select {
		case ev := <-ch:
			if ev.Type != "INFO" || ev.Title != "hello" {
				t.Fatalf("unexpected event %+v", ev)
			}
		default:
			t.Fatal("subscriber got nothing")
		}
	}
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	h.Unsubscribe(ch)

	if _, open := <-ch; open {
		t.Fatal("channel still open after unsubscribe")
	}

	// publishing after unsubscribe must not panic on the closed channel
	h.Publish(InfoEvent("x", "y"))

	// a double unsubscribe is a no-op
	h.Unsubscribe(ch)
}

func TestHubDropsWhenSubscriberIsBehind(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()

	// fill the buffer and keep going; Publish must never block
	for i := 0; i < cap(ch)+5; i++ {
		h.Publish(InfoEvent("tick", ""))
	}
	if got := len(ch); got != cap(ch) {
		t.Fatalf("len = %d, want full buffer %d", got, cap(ch))
	}
}

func TestHubMirrors(t *testing.T) {
	m := &recordingMirror{}
	h := NewHub(m)

	h.Publish(LowStockEvent("Espresso", 3))

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.seen) != 1 {
		t.Fatalf("mirror saw %d events, want 1", len(m.seen))
	}
	if m.seen[0].Type != "ALERT" {
		t.Fatalf("type = %q", m.seen[0].Type)
	}
}
