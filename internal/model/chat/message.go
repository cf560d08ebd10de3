package chat

import "time"

// Message is one immutable chat line between the player and a persona.
type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Content    string    `json:"content"`
	EventID    string    `json:"eventId,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
