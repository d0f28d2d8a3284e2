package ws

import (
	"sync"
	"testing"
)

func newTestClient(h *Hub, userID uint) *Client {
	c := &Client{UserID: userID, Send: make(chan []byte, 8)}
	h.Register(c)
	return c
}

func TestBroadcastReachesOnlyTargetUser(t *testing.T) {
	h := NewHub()
	a1 := newTestClient(h, 1)
	a2 := newTestClient(h, 1)
	b := newTestClient(h, 2)

	h.BroadcastToUser(1, map[string]string{"status": "READY"})

	for _, c := range []*Client{a1, a2} {
		select {
		case <-c.Send:
		default:
			t.Error("target user's client got no frame")
		}
	}
	select {
	case <-b.Send:
		t.Error("other user's client received a frame")
	default:
	}
}

func TestBroadcastAfterCloseDoesNotPanic(t *testing.T) {
	h := NewHub()
	c := newTestClient(h, 1)
	c.Close()
	// Closed clients are unregistered, so the frame goes nowhere.
	h.BroadcastToUser(1, map[string]string{"status": "READY"})
	if got := h.ClientCount(); got != 0 {
		t.Errorf("ClientCount() = %d, want 0", got)
	}
}

func TestConcurrentBroadcastAndClose(t *testing.T) {
	h := NewHub()
	clients := make([]*Client, 16)
	for i := range clients {
		clients[i] = newTestClient(h, 1)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			h.BroadcastToUser(1, map[string]int{"seq": i})
		}
	}()
	go func() {
		defer wg.Done()
		for _, c := range clients {
			c.Close()
		}
	}()
	wg.Wait()

	if got := h.ClientCount(); got != 0 {
		t.Errorf("ClientCount() = %d, want 0", got)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	h := NewHub()
	c := newTestClient(h, 3)
	c.Close()
	c.Close()
	if got := h.ClientCount(); got != 0 {
		t.Errorf("ClientCount() = %d, want 0", got)
	}
}

func TestSlowClientDoesNotBlockBroadcast(t *testing.T) {
	h := NewHub()
	slow := &Client{UserID: 1, Send: make(chan []byte)} // unbuffered, no reader
	h.Register(slow)
	fast := newTestClient(h, 1)

	h.BroadcastToUser(1, map[string]string{"status": "READY"})

	select {
	case <-fast.Send:
	default:
		t.Error("fast client got no frame while a slow peer was connected")
	}
}
