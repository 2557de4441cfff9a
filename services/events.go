package services

import (
	"encoding/json"

	"alumni-chat/models"
)

// Realtime event names.
const (
	EventJoinRoom       = "join-room"
	EventSendMessage    = "send-message"
	EventMarkRead       = "mark-read"
	EventNewMessage     = "new-message"
	EventMessageHistory = "message-history"
	EventError          = "error"
)

// Envelope is the frame exchanged over the websocket in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type RoomPayload struct {
	RoomID string `json:"room_id"`
}

type SendMessagePayload struct {
	RoomID string `json:"room_id"`
	Text   string `json:"text"`
}

type NewMessagePayload struct {
	RoomID  string         `json:"room_id"`
	Message models.Message `json:"message"`
}

type MessageHistoryPayload struct {
	RoomID   string           `json:"room_id"`
	Messages []models.Message `json:"messages"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func encodeEvent(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}
