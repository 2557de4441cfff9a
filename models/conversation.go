package models

// Conversation is the thread between exactly two users.
type Conversation struct {
	ParticipantIDs       [2]int64  `json:"participant_ids"`
	Messages             []Message `json:"messages"`
	LastMessageTimestamp int64     `json:"last_message_timestamp"`
}

// Includes reports whether userID is one of the two participants.
func (c *Conversation) Includes(userID int64) bool {
	return c.ParticipantIDs[0] == userID || c.ParticipantIDs[1] == userID
}

// OtherParticipant returns the participant that is not userID.
func (c *Conversation) OtherParticipant(userID int64) int64 {
	if c.ParticipantIDs[0] == userID {
		return c.ParticipantIDs[1]
	}
	return c.ParticipantIDs[0]
}

// LastMessage returns the most recent message, or nil for an empty conversation.
func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return &c.Messages[len(c.Messages)-1]
}

// UnreadFor counts messages addressed to userID that have not been read.
func (c *Conversation) UnreadFor(userID int64) int {
	n := 0
	for _, m := range c.Messages {
		if m.RecipientID == userID && !m.IsRead {
			n++
		}
	}
	return n
}

// ConversationSummary is one row of a user's conversation list.
type ConversationSummary struct {
	Conversation Conversation `json:"conversation"`
	Participant  Profile      `json:"participant"`
	LastMessage  *Message     `json:"last_message,omitempty"`
	UnreadCount  int          `json:"unread_count"`
}
