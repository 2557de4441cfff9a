package services

import (
	"context"
	"log/slog"
	"sync"

	"alumni-chat/models"
)

type roomJoin struct {
	conn   *Connection
	roomID string
}

type roomMessage struct {
	roomID string
	data   []byte
}

// Hub fans new messages out to the connections joined to a room. It is a
// best-effort side channel: clients that cannot keep up are dropped.
type Hub struct {
	register   chan *Connection
	unregister chan *Connection
	join       chan roomJoin
	broadcast  chan roomMessage
	done       chan struct{}

	mu    sync.RWMutex
	conns map[*Connection]map[string]struct{} // connection -> joined rooms
	rooms map[string]map[*Connection]struct{} // room -> connections

	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		join:       make(chan roomJoin),
		broadcast:  make(chan roomMessage),
		done:       make(chan struct{}),
		conns:      make(map[*Connection]map[string]struct{}),
		rooms:      make(map[string]map[*Connection]struct{}),
		logger:     logger.With("component", "hub"),
	}
}

// Run processes hub events until ctx is cancelled, then closes every connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.conns {
				h.removeLocked(c)
			}
			h.mu.Unlock()
			h.logger.Info("hub stopped")
			return

		case c := <-h.register:
			h.mu.Lock()
			h.conns[c] = make(map[string]struct{})
			h.mu.Unlock()
			h.logger.Debug("client registered", "conn_id", c.ID, "user_id", c.UserID)

		case c := <-h.unregister:
			h.mu.Lock()
			h.removeLocked(c)
			h.mu.Unlock()
			h.logger.Debug("client unregistered", "conn_id", c.ID, "user_id", c.UserID)

		case j := <-h.join:
			h.mu.Lock()
			if joined, ok := h.conns[j.conn]; ok {
				joined[j.roomID] = struct{}{}
				if h.rooms[j.roomID] == nil {
					h.rooms[j.roomID] = make(map[*Connection]struct{})
				}
				h.rooms[j.roomID][j.conn] = struct{}{}
			}
			h.mu.Unlock()

		case m := <-h.broadcast:
			h.mu.Lock()
			for c := range h.rooms[m.roomID] {
				if !c.enqueue(m.data) {
					h.logger.Warn("dropping slow client", "conn_id", c.ID, "room_id", m.roomID)
					h.removeLocked(c)
				}
			}
			h.mu.Unlock()
		}
	}
}

// removeLocked detaches c from all rooms and closes its send queue. h.mu must be held.
func (h *Hub) removeLocked(c *Connection) {
	joined, ok := h.conns[c]
	if !ok {
		return
	}
	for roomID := range joined {
		delete(h.rooms[roomID], c)
		if len(h.rooms[roomID]) == 0 {
			delete(h.rooms, roomID)
		}
	}
	delete(h.conns, c)
	c.closeSend()
}

// PublishMessage pushes a stored message to everyone in its conversation room.
func (h *Hub) PublishMessage(msg models.Message) error {
	roomID := ConversationKey(msg.SenderID, msg.RecipientID)
	data, err := encodeEvent(EventNewMessage, NewMessagePayload{RoomID: roomID, Message: msg})
	if err != nil {
		return err
	}
	h.publish(roomID, data)
	return nil
}

func (h *Hub) publish(roomID string, data []byte) {
	select {
	case h.broadcast <- roomMessage{roomID: roomID, data: data}:
	case <-h.done:
	}
}

func (h *Hub) addConnection(c *Connection) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) removeConnection(c *Connection) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) joinRoom(c *Connection, roomID string) {
	select {
	case h.join <- roomJoin{conn: c, roomID: roomID}:
	case <-h.done:
	}
}

// RoomSize reports how many connections are joined to roomID.
func (h *Hub) RoomSize(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}
