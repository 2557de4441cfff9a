package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"alumni-chat/apperrors"
	"alumni-chat/kvstore"
	"alumni-chat/models"

	"github.com/google/uuid"
)

const (
	conversationKeyPrefix = "conversation:"
	userIndexKeyPrefix    = "user_conversations:"
)

// ConversationKey returns the canonical key for a pair of users: both ids
// sorted ascending and joined with "_", so key(a, b) == key(b, a).
func ConversationKey(userID1, userID2 int64) string {
	ids := []int64{userID1, userID2}
	slices.Sort(ids)
	return fmt.Sprintf("%d_%d", ids[0], ids[1])
}

// ParseConversationKey splits a canonical key back into its two participants.
func ParseConversationKey(key string) (int64, int64, error) {
	low, high, ok := strings.Cut(key, "_")
	if !ok {
		return 0, 0, apperrors.ErrInvalidRoom
	}
	a, err := strconv.ParseInt(low, 10, 64)
	if err != nil {
		return 0, 0, apperrors.ErrInvalidRoom
	}
	b, err := strconv.ParseInt(high, 10, 64)
	if err != nil {
		return 0, 0, apperrors.ErrInvalidRoom
	}
	if a >= b || ConversationKey(a, b) != key {
		return 0, 0, apperrors.ErrInvalidRoom
	}
	return a, b, nil
}

// KeyedConversation is a stored conversation together with its key.
type KeyedConversation struct {
	Key          string
	Conversation models.Conversation
}

type StoreOption func(*ConversationStore)

// WithClock replaces time.Now as the source of message timestamps.
func WithClock(now func() time.Time) StoreOption {
	return func(s *ConversationStore) { s.now = now }
}

// WithIDGenerator replaces the UUID message id generator.
func WithIDGenerator(newID func() string) StoreOption {
	return func(s *ConversationStore) { s.newID = newID }
}

// ConversationStore owns conversation and message data. Every
// read-modify-write of a KV entry runs under that entry's lock, taken in
// the order conversation -> user index.
type ConversationStore struct {
	kv     kvstore.Store
	locks  *keyLocker
	now    func() time.Time
	newID  func() string
	logger *slog.Logger
}

func NewConversationStore(kv kvstore.Store, logger *slog.Logger, opts ...StoreOption) *ConversationStore {
	if logger == nil {
		logger = slog.Default()
	}
	s := &ConversationStore{
		kv:     kv,
		locks:  newKeyLocker(),
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
		logger: logger.With("component", "conversation_store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SendMessage appends a message to the conversation between sender and
// recipient, creating the conversation on first contact.
func (s *ConversationStore) SendMessage(ctx context.Context, senderID, recipientID int64, content string) (models.Message, error) {
	if senderID <= 0 || recipientID <= 0 {
		return models.Message{}, apperrors.ErrInvalidUserID
	}
	if senderID == recipientID {
		return models.Message{}, apperrors.ErrSelfMessage
	}
	if strings.TrimSpace(content) == "" {
		return models.Message{}, apperrors.ErrEmptyContent
	}

	key := ConversationKey(senderID, recipientID)
	unlock := s.locks.Lock(conversationKeyPrefix + key)
	defer unlock()

	conv, found, err := s.loadConversation(ctx, key)
	if err != nil {
		return models.Message{}, err
	}
	if !found {
		conv = models.Conversation{ParticipantIDs: [2]int64{senderID, recipientID}}
		// Index first: a dangling index entry is skipped on read, a missing one hides the thread.
		for _, uid := range conv.ParticipantIDs {
			if err := s.addToUserIndex(ctx, uid, key); err != nil {
				return models.Message{}, err
			}
		}
	}

	msg := models.Message{
		ID:          s.newID(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
		Timestamp:   s.now().UnixMilli(),
		IsRead:      false,
	}
	conv.Messages = append(conv.Messages, msg)
	conv.LastMessageTimestamp = msg.Timestamp

	if err := s.saveConversation(ctx, key, conv); err != nil {
		return models.Message{}, err
	}

	s.logger.Debug("message stored",
		"conversation_key", key,
		"message_id", msg.ID,
		"new_conversation", !found)
	return msg, nil
}

// GetConversation returns the full history between two users, oldest first.
// A pair that never talked yields an empty slice.
func (s *ConversationStore) GetConversation(ctx context.Context, userID1, userID2 int64) ([]models.Message, error) {
	conv, found, err := s.loadConversation(ctx, ConversationKey(userID1, userID2))
	if err != nil {
		return nil, err
	}
	if !found || conv.Messages == nil {
		return []models.Message{}, nil
	}
	return conv.Messages, nil
}

// MarkAsRead flags every unread message sent by otherUserID to
// currentUserID as read and returns how many changed.
func (s *ConversationStore) MarkAsRead(ctx context.Context, currentUserID, otherUserID int64) (int, error) {
	key := ConversationKey(currentUserID, otherUserID)
	unlock := s.locks.Lock(conversationKeyPrefix + key)
	defer unlock()

	conv, found, err := s.loadConversation(ctx, key)
	if err != nil || !found {
		return 0, err
	}

	changed := 0
	for i := range conv.Messages {
		m := &conv.Messages[i]
		if m.SenderID == otherUserID && !m.IsRead {
			m.IsRead = true
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}
	if err := s.saveConversation(ctx, key, conv); err != nil {
		return 0, err
	}

	s.logger.Debug("messages marked read",
		"conversation_key", key,
		"reader", currentUserID,
		"count", changed)
	return changed, nil
}

// GetUnreadCount counts unread messages addressed to userID across all of
// the user's conversations.
func (s *ConversationStore) GetUnreadCount(ctx context.Context, userID int64) (int, error) {
	convs, err := s.UserConversations(ctx, userID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, kc := range convs {
		total += kc.Conversation.UnreadFor(userID)
	}
	return total, nil
}

// UserConversations loads every conversation userID takes part in, ordered
// by conversation key.
func (s *ConversationStore) UserConversations(ctx context.Context, userID int64) ([]KeyedConversation, error) {
	keys, err := s.loadUserIndex(ctx, userID)
	if err != nil {
		return nil, err
	}
	slices.Sort(keys)

	result := make([]KeyedConversation, 0, len(keys))
	for _, key := range keys {
		conv, found, err := s.loadConversation(ctx, key)
		if err != nil {
			return nil, err
		}
		if !found || !conv.Includes(userID) {
			continue
		}
		result = append(result, KeyedConversation{Key: key, Conversation: conv})
	}
	return result, nil
}

// Reset wipes the backing store, conversations and profiles alike.
func (s *ConversationStore) Reset(ctx context.Context) error {
	if err := s.kv.Clear(ctx); err != nil {
		return apperrors.StoreUnavailable(err)
	}
	s.logger.Info("store cleared")
	return nil
}

func (s *ConversationStore) loadConversation(ctx context.Context, key string) (models.Conversation, bool, error) {
	var conv models.Conversation
	found, err := loadJSON(ctx, s.kv, conversationKeyPrefix+key, &conv)
	return conv, found, err
}

func (s *ConversationStore) saveConversation(ctx context.Context, key string, conv models.Conversation) error {
	return saveJSON(ctx, s.kv, conversationKeyPrefix+key, conv)
}

func (s *ConversationStore) loadUserIndex(ctx context.Context, userID int64) ([]string, error) {
	var keys []string
	if _, err := loadJSON(ctx, s.kv, userIndexKey(userID), &keys); err != nil {
		return nil, err
	}
	return keys, nil
}

func (s *ConversationStore) addToUserIndex(ctx context.Context, userID int64, key string) error {
	unlock := s.locks.Lock(userIndexKey(userID))
	defer unlock()

	keys, err := s.loadUserIndex(ctx, userID)
	if err != nil {
		return err
	}
	if slices.Contains(keys, key) {
		return nil
	}
	return saveJSON(ctx, s.kv, userIndexKey(userID), append(keys, key))
}

func userIndexKey(userID int64) string {
	return userIndexKeyPrefix + strconv.FormatInt(userID, 10)
}

// loadJSON decodes the value under key into dst. Store and decode failures
// both surface as StoreUnavailable.
func loadJSON(ctx context.Context, kv kvstore.Store, key string, dst any) (bool, error) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		return false, apperrors.StoreUnavailable(err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, apperrors.StoreUnavailable(fmt.Errorf("decoding %s: %w", key, err))
	}
	return true, nil
}

func saveJSON(ctx context.Context, kv kvstore.Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return apperrors.StoreUnavailable(fmt.Errorf("encoding %s: %w", key, err))
	}
	if err := kv.Set(ctx, key, string(raw)); err != nil {
		return apperrors.StoreUnavailable(err)
	}
	return nil
}
