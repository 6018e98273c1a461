package chat

import "spchat/internal/app/user"

// EventType labels the kind of event carried in a WebSocket frame.
type EventType string

const (
	// TypeInitData carries the initial room state to a freshly joined connection.
	TypeInitData EventType = "INIT_DATA"

	// TypeText carries a chat message.
	TypeText EventType = "TEXT"

	// TypeUserJoined announces a new user's presence in the room.
	TypeUserJoined EventType = "USER_JOINED"

	// TypeUserLeft announces a user's departure from the room.
	TypeUserLeft EventType = "USER_LEFT"

	// TypeConfirm acknowledges a client message with its authoritative id.
	TypeConfirm EventType = "CONFIRM"

	// TypeError carries a business error to the client.
	TypeError EventType = "ERROR"
)

// Event is the server-to-client WebSocket envelope.
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}

// InitDataPayload is the initial state sent to a connection right after it is
// routed into a room.
type InitDataPayload struct {
	Room        RoomSummary `json:"room"`
	CurrentUser user.User   `json:"currentUser"`
	OnlineUsers []user.User `json:"onlineUsers"`
	History     []Message   `json:"history"`
}

// TextPayload is the inbound payload of a TEXT frame.
type TextPayload struct {
	Content string `json:"content"`
}

// UserEventPayload accompanies USER_JOINED and USER_LEFT events.
type UserEventPayload struct {
	User user.User `json:"user"`
}

// ConfirmPayload acknowledges the sender's temporary message id with the
// authoritative one.
type ConfirmPayload struct {
	TempID    string `json:"tempId"`
	MessageID string `json:"id"`
	Timestamp int64  `json:"timestamp"`
}

// ErrorPayload carries a business error code and message to the client.
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
