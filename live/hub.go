package live

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is one websocket viewer of a room.
type Client struct {
	conn   *websocket.Conn
	send   chan []byte
	roomID uint
}

// Hub fans allocation events out to the live viewers of each room.
type Hub struct {
	logger *zap.Logger

	mu    sync.Mutex
	rooms map[uint]map[*Client]bool
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger: logger,
		rooms:  make(map[uint]map[*Client]bool),
	}
}

// Publish sends one event to every viewer of the room. Slow viewers are
// dropped rather than blocking the caller.
func (h *Hub) Publish(roomID uint, event interface{}) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to marshal event", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.rooms[roomID] {
		select {
		case client.send <- payload:
		default:
			h.drop(client)
		}
	}
}

// Viewers returns the number of connected viewers for a room.
func (h *Hub) Viewers(roomID uint) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[roomID])
}

// HandleConnection upgrades the request and serves the viewer until it
// disconnects.
func (h *Hub) HandleConnection(w http.ResponseWriter, r *http.Request, roomID uint) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("Error upgrading WebSocket", zap.Error(err))
		return
	}

	client := &Client{
		conn:   conn,
		send:   make(chan []byte, 16),
		roomID: roomID,
	}

	h.mu.Lock()
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Client]bool)
	}
	h.rooms[roomID][client] = true
	h.mu.Unlock()
	h.logger.Info("New viewer added", zap.Uint("RoomID", roomID))

	go client.writePump(h)
	client.readPump(h)
}

func (h *Hub) drop(client *Client) {
	if viewers, ok := h.rooms[client.roomID]; ok {
		if viewers[client] {
			delete(viewers, client)
			close(client.send)
		}
		if len(viewers) == 0 {
			delete(h.rooms, client.roomID)
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	h.drop(client)
	h.mu.Unlock()
	client.conn.Close()
	h.logger.Info("Viewer removed", zap.Uint("RoomID", client.roomID))
}
