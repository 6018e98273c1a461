/*
Package chat contains the core logic for room membership, discovery, and bounded message history.

This file defines the Manager struct, which owns join/leave semantics: it keeps the
store's room table and the transport layer's routing in step, maintains the one
interactive room per connection rule, and triggers room garbage collection on the
way out.
*/
package chat

import (
	"github.com/rs/zerolog"

	"spchat/internal/pkg/logx"
)

// Manager applies join and leave semantics on top of the Store.
type Manager struct {
	store *Store

	// structured logger with Manager context.
	logger zerolog.Logger
}

// NewManager constructs a Manager over the given store.
func NewManager(store *Store) *Manager {
	managerLogger := logx.Logger().With().Str("component", "MembershipManager").Logger()

	return &Manager{
		store:  store,
		logger: managerLogger,
	}
}

// Join attaches a connection to the given room, creating the room on demand
// with the connection's context tags. A connection interactively joined to a
// different room is first made to leave it, so re-joining is always safe. A
// read-only join routes the connection for broadcast and history visibility
// without claiming interactive membership: the joined flag and room pointer
// stay untouched, and no presence should be assumed for it elsewhere.
//
// Returns whether a new user (not just a new connection) entered the room, so
// the caller can decide whether to announce presence.
func (m *Manager) Join(conn Conn, roomID string, readOnly bool) (addedNewUser bool) {
	if current, joined := conn.JoinedRoom(); joined && current != roomID {
		m.Leave(conn)
	}

	addedNewUser = m.store.AddConnection(conn, roomID)

	conn.Join(roomID)
	if !readOnly {
		conn.MarkJoined(roomID)
	}

	m.logger.Info().
		Str("room_id", roomID).
		Str("conn_id", conn.ID()).
		Str("user_id", conn.Profile().ID).
		Bool("read_only", readOnly).
		Bool("new_user", addedNewUser).
		Msg("Connection joined room.")

	return addedNewUser
}

// Leave detaches a connection from every room it is routed into, interactive
// or read-only, and clears its joined state. It is idempotent: calling it for
// a connection that already left, or that never fully joined, changes nothing.
//
// Returns whether the user (not just a connection) left the room the
// connection had interactively joined, so the caller can announce departure.
func (m *Manager) Leave(conn Conn) (removedUser bool) {
	joinedRoom, joined := conn.JoinedRoom()

	for _, roomID := range conn.Rooms() {
		removed := m.store.RemoveConnection(conn, roomID)
		if joined && roomID == joinedRoom {
			removedUser = removed
		}
		conn.Leave(roomID)
	}

	conn.ClearJoined()

	return removedUser
}

// CreateRoomFor allocates the next counter-based room id, joins the
// connection to it, and returns the created room. Used when the matcher finds
// no acceptable existing room.
func (m *Manager) CreateRoomFor(conn Conn) *Room {
	roomID := m.store.NextRoomID()
	m.Join(conn, roomID, false)
	return m.store.Get(roomID)
}
