package models

// Message is immutable once created except for IsRead.
type Message struct {
	ID          string `json:"id"`
	SenderID    int64  `json:"sender_id"`
	RecipientID int64  `json:"recipient_id"`
	Content     string `json:"content"`
	Timestamp   int64  `json:"timestamp"` // ms since epoch
	IsRead      bool   `json:"is_read"`
}
