package chat

import (
	"time"

	"spchat/internal/app/user"
	"spchat/internal/pkg/randx"
)

// MaxContentBytes is the maximum allowed size (in bytes) for text message content.
const MaxContentBytes = 5000

// Message is a single chat message as stored in a room's history and
// broadcast to room members.
type Message struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"roomId"`
	Sender    user.User `json:"sender"`
	Content   string    `json:"content"`
	Timestamp int64     `json:"timestamp"`
}

// NewMessage constructs a Message with a fresh UUID and the current time in
// Unix milliseconds.
func NewMessage(roomID string, sender user.User, content string) Message {
	return Message{
		ID:        randx.MessageID(),
		RoomID:    roomID,
		Sender:    sender,
		Content:   content,
		Timestamp: time.Now().UnixMilli(),
	}
}
