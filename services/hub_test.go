package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wsFixture struct {
	store  *ConversationStore
	hub    *Hub
	server *httptest.Server
}

func newWSFixture(t *testing.T) *wsFixture {
	t.Helper()
	store, _ := newTestStore(t)
	hub := NewHub(nil)

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)

	handler := NewWSHandler(hub, store, WSConfig{PingInterval: time.Second, PongTimeout: 5 * time.Second}, nil)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, err := strconv.ParseInt(r.URL.Query().Get("uid"), 10, 64)
		if err != nil {
			http.Error(w, "bad uid", http.StatusBadRequest)
			return
		}
		_ = handler.Serve(w, r, uid)
	}))
	t.Cleanup(server.Close)

	return &wsFixture{store: store, hub: hub, server: server}
}

func (f *wsFixture) dial(t *testing.T, uid int64) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/?uid=" + strconv.FormatInt(uid, 10)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func emit(t *testing.T, conn *websocket.Conn, event string, data any) {
	t.Helper()
	frame, err := encodeEvent(event, data)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, frame))
}

func expectEvent(t *testing.T, conn *websocket.Conn, event string, dst any) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	require.Equal(t, event, env.Event, "payload: %s", env.Data)
	if dst != nil {
		require.NoError(t, json.Unmarshal(env.Data, dst))
	}
}

func TestHub_JoinReceivesHistory(t *testing.T) {
	f := newWSFixture(t)
	_, err := f.store.SendMessage(context.Background(), 1, 2, "earlier")
	require.NoError(t, err)

	conn := f.dial(t, 2)
	emit(t, conn, EventJoinRoom, RoomPayload{RoomID: "1_2"})

	var history MessageHistoryPayload
	expectEvent(t, conn, EventMessageHistory, &history)
	assert.Equal(t, "1_2", history.RoomID)
	require.Len(t, history.Messages, 1)
	assert.Equal(t, "earlier", history.Messages[0].Content)
}

func TestHub_SendReachesRoomAndPersists(t *testing.T) {
	f := newWSFixture(t)

	alice := f.dial(t, 1)
	bob := f.dial(t, 2)
	emit(t, alice, EventJoinRoom, RoomPayload{RoomID: "1_2"})
	expectEvent(t, alice, EventMessageHistory, nil)
	emit(t, bob, EventJoinRoom, RoomPayload{RoomID: "1_2"})
	expectEvent(t, bob, EventMessageHistory, nil)

	emit(t, alice, EventSendMessage, SendMessagePayload{RoomID: "1_2", Text: "hi bob"})

	var got NewMessagePayload
	expectEvent(t, bob, EventNewMessage, &got)
	assert.Equal(t, "1_2", got.RoomID)
	assert.Equal(t, "hi bob", got.Message.Content)
	assert.Equal(t, int64(1), got.Message.SenderID)
	assert.Equal(t, int64(2), got.Message.RecipientID)

	var echo NewMessagePayload
	expectEvent(t, alice, EventNewMessage, &echo)
	assert.Equal(t, got.Message.ID, echo.Message.ID)

	msgs, err := f.store.GetConversation(context.Background(), 2, 1)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, got.Message.ID, msgs[0].ID)
}

func TestHub_MarkRead(t *testing.T) {
	f := newWSFixture(t)
	ctx := context.Background()
	_, err := f.store.SendMessage(ctx, 1, 2, "unread")
	require.NoError(t, err)

	bob := f.dial(t, 2)
	emit(t, bob, EventMarkRead, RoomPayload{RoomID: "1_2"})
	// History after the mark shows the flag flipped; frames are handled in order.
	emit(t, bob, EventJoinRoom, RoomPayload{RoomID: "1_2"})

	var history MessageHistoryPayload
	expectEvent(t, bob, EventMessageHistory, &history)
	require.Len(t, history.Messages, 1)
	assert.True(t, history.Messages[0].IsRead)
}

func TestHub_RejectsForeignRoom(t *testing.T) {
	f := newWSFixture(t)

	eve := f.dial(t, 3)
	emit(t, eve, EventJoinRoom, RoomPayload{RoomID: "1_2"})

	var e ErrorPayload
	expectEvent(t, eve, EventError, &e)
	assert.Contains(t, e.Message, "not part of this conversation")
	assert.Zero(t, f.hub.RoomSize("1_2"))
}

func TestHub_InvalidFrames(t *testing.T) {
	f := newWSFixture(t)
	conn := f.dial(t, 1)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	expectEvent(t, conn, EventError, nil)

	emit(t, conn, "dance", RoomPayload{})
	expectEvent(t, conn, EventError, nil)

	emit(t, conn, EventJoinRoom, RoomPayload{RoomID: "2_1"})
	expectEvent(t, conn, EventError, nil)

	emit(t, conn, EventSendMessage, SendMessagePayload{RoomID: "1_2", Text: "  "})
	var e ErrorPayload
	expectEvent(t, conn, EventError, &e)
	assert.Equal(t, "message content cannot be empty", e.Message)
}

func TestHub_DisconnectLeavesRoom(t *testing.T) {
	f := newWSFixture(t)
	conn := f.dial(t, 1)
	emit(t, conn, EventJoinRoom, RoomPayload{RoomID: "1_2"})
	expectEvent(t, conn, EventMessageHistory, nil)
	require.Equal(t, 1, f.hub.RoomSize("1_2"))

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return f.hub.RoomSize("1_2") == 0 }, 3*time.Second, 20*time.Millisecond)
}
