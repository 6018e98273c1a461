package chat

import "spchat/internal/app/user"

// Conn is the transport layer's view of one live connection, as consumed by
// the membership manager. A user may hold several Conns concurrently
// (multiple tabs or devices).
//
// Join and Leave are the transport-level routing primitives: the manager calls
// them so that broadcast routing stays consistent with the room table. Rooms
// reports every room the connection is currently routed into, which for a
// read-only attachment may differ from the interactively joined room.
//
// Implementations are driven from a single connection goroutine; the manager
// never calls a Conn concurrently with itself.
type Conn interface {
	// ID returns the stable identifier of this connection.
	ID() string

	// Profile returns the user profile presented by this connection.
	Profile() user.User

	// ContextTags returns the page-context tags supplied at connect time.
	ContextTags() []string

	// JoinedRoom returns the room this connection interactively joined, if any.
	JoinedRoom() (roomID string, joined bool)

	// MarkJoined records interactive membership in the given room.
	MarkJoined(roomID string)

	// ClearJoined resets the joined flag and room pointer.
	ClearJoined()

	// Join routes this connection into the given room at the transport level.
	Join(roomID string)

	// Leave removes this connection from the given room at the transport level.
	Leave(roomID string)

	// Rooms lists every room this connection is routed into.
	Rooms() []string
}
