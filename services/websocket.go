package services

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// WSConfig holds websocket heartbeat timing.
type WSConfig struct {
	PingInterval time.Duration
	PongTimeout  time.Duration
}

// WSHandler upgrades authenticated requests into hub connections.
type WSHandler struct {
	hub      *Hub
	store    *ConversationStore
	cfg      WSConfig
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

func NewWSHandler(hub *Hub, store *ConversationStore, cfg WSConfig, logger *slog.Logger) *WSHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = 10 * time.Second
	}
	if cfg.PongTimeout <= cfg.PingInterval {
		cfg.PongTimeout = cfg.PingInterval + 5*time.Second
	}
	return &WSHandler{
		hub:   hub,
		store: store,
		cfg:   cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger.With("component", "websocket"),
	}
}

// Serve upgrades the request and starts the connection's reader and writer.
// The upgrader has already answered the client when an error is returned.
func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request, userID int64) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &Connection{
		ID:     uuid.New().String(),
		UserID: userID,
		conn:   conn,
		hub:    h.hub,
		store:  h.store,
		cfg:    h.cfg,
		send:   make(chan []byte, sendBufferSize),
	}
	c.logger = h.logger.With("conn_id", c.ID, "user_id", userID)

	if !h.hub.addConnection(c) {
		conn.Close()
		return nil
	}

	ctx := context.WithoutCancel(r.Context())
	go c.writeMessages()
	go c.readMessages(ctx)
	return nil
}
