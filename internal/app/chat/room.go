/*
Package chat contains the core logic for room membership, discovery, and bounded message history.

This file defines the Room struct and its per-user membership records. A Room is an
ephemeral, tag-labeled conversation context: it is created lazily on the first join
that reaches it, mutated by every join, leave, and message append, and destroyed the
moment it holds neither members nor history.
*/
package chat

import (
	"strings"
	"time"

	"spchat/internal/app/user"
)

// LobbyRoomID is the reserved well-known id of the default room. The lobby is
// created lazily like any other room; only its id is fixed.
const LobbyRoomID = "5"

// Room represents a single tag-labeled chat room.
// All fields are owned by the Store and must only be touched under its lock.
type Room struct {
	// ID is the opaque room identifier: either the reserved lobby id or a
	// monotonically increasing counter value for rooms created on demand.
	ID string

	// Tags describe the room's topic context. They are fixed at creation time
	// from the creating connection's page-context tags and never change.
	Tags []string

	// users maps a user id to that user's membership record. A user is present
	// here if and only if they hold at least one open connection in the room.
	users map[string]*membership

	// messages is the bounded FIFO history; oldest entries are evicted first.
	messages []Message

	// lastActive records the most recent join, leave, or message append,
	// used by the idle reaper.
	lastActive time.Time
}

// membership tracks one user's presence in one room: the latest profile that
// user presented and the set of connection ids currently open for them.
type membership struct {
	user  user.User
	conns map[string]struct{}
}

// RoomSummary is the read-only projection of a room used by discovery surfaces.
type RoomSummary struct {
	ID        string   `json:"id"`
	Tags      []string `json:"tags"`
	About     string   `json:"about"`
	UserCount int      `json:"userCount"`
}

// Member is a read-only snapshot of a single membership record.
type Member struct {
	User        user.User `json:"user"`
	Connections int       `json:"connections"`
}

// summary builds the RoomSummary projection. Caller must hold the store lock.
func (r *Room) summary() RoomSummary {
	return RoomSummary{
		ID:        r.ID,
		Tags:      r.Tags,
		About:     strings.Join(r.Tags, ", "),
		UserCount: len(r.users),
	}
}

// empty reports whether the room holds neither members nor history,
// i.e. whether it is eligible for immediate deletion.
func (r *Room) empty() bool {
	return len(r.users) == 0 && len(r.messages) == 0
}
