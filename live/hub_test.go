package live

import (
	"testing"

	"go.uber.org/zap"
)

func addViewer(h *Hub, roomID uint) *Client {
	client := &Client{send: make(chan []byte, 1), roomID: roomID}
	h.mu.Lock()
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Client]bool)
	}
	h.rooms[roomID][client] = true
	h.mu.Unlock()
	return client
}

func TestPublish(t *testing.T) {
	h := NewHub(zap.NewNop())
	viewer := addViewer(h, 1)
	other := addViewer(h, 2)

	h.Publish(1, map[string]string{"type": "allocation"})

	select {
	case payload := <-viewer.send:
		if string(payload) != `{"type":"allocation"}` {
			t.Errorf("Unexpected payload %s", payload)
		}
	default:
		t.Fatal("Viewer received nothing")
	}
	select {
	case payload := <-other.send:
		t.Fatalf("Viewer of another room received %s", payload)
	default:
	}
}

func TestPublishDropsSlowViewer(t *testing.T) {
	h := NewHub(zap.NewNop())
	slow := addViewer(h, 1)
	slow.send <- []byte("backlog")

	h.Publish(1, map[string]string{"type": "allocation"})

	if got := h.Viewers(1); got != 0 {
		t.Errorf("Expected slow viewer dropped, viewers=%d", got)
	}
	if payload, ok := <-slow.send; !ok || string(payload) != "backlog" {
		t.Fatalf("Expected buffered backlog first, got %q ok=%v", payload, ok)
	}
	if _, ok := <-slow.send; ok {
		t.Error("Dropped viewer's channel must be closed")
	}
}

func TestViewers(t *testing.T) {
	h := NewHub(zap.NewNop())
	if got := h.Viewers(1); got != 0 {
		t.Errorf("Empty hub viewers = %d", got)
	}
	addViewer(h, 1)
	addViewer(h, 1)
	if got := h.Viewers(1); got != 2 {
		t.Errorf("Viewers = %d, want 2", got)
	}
}
