package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"alumni-chat/apperrors"

	"github.com/gorilla/websocket"
)

const (
	sendBufferSize = 64
	writeWait      = 10 * time.Second
	maxFrameSize   = 64 * 1024
)

// Connection is one websocket client (one open chat view) of a single user.
type Connection struct {
	ID     string
	UserID int64

	conn   *websocket.Conn
	hub    *Hub
	store  *ConversationStore
	cfg    WSConfig
	logger *slog.Logger

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

// enqueue queues a frame for the writer without blocking. It reports false
// when the queue is full or already closed.
func (c *Connection) enqueue(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *Connection) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *Connection) sendEvent(event string, data any) {
	frame, err := encodeEvent(event, data)
	if err != nil {
		c.logger.Error("encoding event failed", "event", event, "error", err)
		return
	}
	if !c.enqueue(frame) {
		c.logger.Debug("send queue unavailable, event dropped", "event", event)
	}
}

func (c *Connection) sendError(err error) {
	msg := err.Error()
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}
	c.sendEvent(EventError, ErrorPayload{Message: msg})
}

func (c *Connection) readMessages(ctx context.Context) {
	defer func() {
		c.hub.removeConnection(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongTimeout))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("read failed", "error", err)
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.sendError(apperrors.InvalidArg("invalid message format"))
			continue
		}
		if err := c.handle(ctx, env); err != nil {
			c.sendError(err)
		}
	}
}

func (c *Connection) handle(ctx context.Context, env Envelope) error {
	switch env.Event {
	case EventJoinRoom:
		var p RoomPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return apperrors.InvalidArg("invalid join-room payload")
		}
		a, b, err := c.roomPeers(p.RoomID)
		if err != nil {
			return err
		}
		c.hub.joinRoom(c, p.RoomID)
		history, err := c.store.GetConversation(ctx, a, b)
		if err != nil {
			return err
		}
		c.sendEvent(EventMessageHistory, MessageHistoryPayload{RoomID: p.RoomID, Messages: history})
		return nil

	case EventSendMessage:
		var p SendMessagePayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return apperrors.InvalidArg("invalid send-message payload")
		}
		other, err := c.otherParticipant(p.RoomID)
		if err != nil {
			return err
		}
		msg, err := c.store.SendMessage(ctx, c.UserID, other, p.Text)
		if err != nil {
			return err
		}
		return c.hub.PublishMessage(msg)

	case EventMarkRead:
		var p RoomPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return apperrors.InvalidArg("invalid mark-read payload")
		}
		other, err := c.otherParticipant(p.RoomID)
		if err != nil {
			return err
		}
		_, err = c.store.MarkAsRead(ctx, c.UserID, other)
		return err

	default:
		return apperrors.InvalidArg("unknown event " + env.Event)
	}
}

// roomPeers validates roomID and checks the caller belongs to it.
func (c *Connection) roomPeers(roomID string) (int64, int64, error) {
	a, b, err := ParseConversationKey(roomID)
	if err != nil {
		return 0, 0, err
	}
	if c.UserID != a && c.UserID != b {
		return 0, 0, apperrors.ErrNotParticipant
	}
	return a, b, nil
}

func (c *Connection) otherParticipant(roomID string) (int64, error) {
	a, b, err := c.roomPeers(roomID)
	if err != nil {
		return 0, err
	}
	if c.UserID == a {
		return b, nil
	}
	return a, nil
}

func (c *Connection) writeMessages() {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.logger.Debug("write failed", "error", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug("ping failed, closing connection", "error", err)
				return
			}
		}
	}
}
