package services

import (
	"context"
	"log/slog"
	"sort"

	"alumni-chat/models"
)

// ConversationIndexer builds per-user views over the ConversationStore.
type ConversationIndexer struct {
	store    *ConversationStore
	profiles ProfileDirectory
	logger   *slog.Logger
}

func NewConversationIndexer(store *ConversationStore, profiles ProfileDirectory, logger *slog.Logger) *ConversationIndexer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConversationIndexer{
		store:    store,
		profiles: profiles,
		logger:   logger.With("component", "conversation_indexer"),
	}
}

// GetUserConversations lists the user's conversations, most recently active
// first (ties by conversation key). Conversations whose other participant
// has no profile are left out.
func (ix *ConversationIndexer) GetUserConversations(ctx context.Context, userID int64) ([]models.ConversationSummary, error) {
	convs, err := ix.store.UserConversations(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(convs) == 0 {
		return []models.ConversationSummary{}, nil
	}

	otherIDs := make([]int64, 0, len(convs))
	for _, kc := range convs {
		otherIDs = append(otherIDs, kc.Conversation.OtherParticipant(userID))
	}
	profiles, err := ix.profiles.GetProfiles(ctx, otherIDs)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ConversationSummary, 0, len(convs))
	for i, kc := range convs {
		conv := kc.Conversation
		profile, ok := profiles[otherIDs[i]]
		if !ok {
			ix.logger.Debug("dropping conversation without participant profile",
				"conversation_key", kc.Key,
				"participant_id", otherIDs[i])
			continue
		}

		summaries = append(summaries, models.ConversationSummary{
			Conversation: conv,
			Participant:  profile,
			LastMessage:  conv.LastMessage(),
			UnreadCount:  conv.UnreadFor(userID),
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Conversation.LastMessageTimestamp > summaries[j].Conversation.LastMessageTimestamp
	})
	return summaries, nil
}

// GetUnreadCount is the header badge count for userID.
func (ix *ConversationIndexer) GetUnreadCount(ctx context.Context, userID int64) (int, error) {
	return ix.store.GetUnreadCount(ctx, userID)
}
