package chat

import "spchat/internal/app/user"

// Directory is the read-only discovery surface over the room table. It holds
// no state of its own; every answer is a fresh projection of Store queries.
type Directory struct {
	store *Store

	// memberLimit caps member listings so no caller can force an unbounded response.
	memberLimit int
}

// NewDirectory constructs a Directory over the given store.
func NewDirectory(store *Store, memberLimit int) *Directory {
	return &Directory{
		store:       store,
		memberLimit: memberLimit,
	}
}

// RoomInfo returns the summary of a room, or false if it does not exist.
func (d *Directory) RoomInfo(roomID string) (RoomSummary, bool) {
	return d.store.Summary(roomID)
}

// PopularRooms returns summaries of rooms with more than one member, most
// crowded first.
func (d *Directory) PopularRooms() []RoomSummary {
	return d.store.Popular()
}

// UsersInRoom returns the profiles of up to the configured limit of the
// room's members.
func (d *Directory) UsersInRoom(roomID string) []user.User {
	return d.store.Members(roomID, d.memberLimit)
}

// UserFromRoom returns one user's membership snapshot in a room, or false if
// either the room or the membership does not exist.
func (d *Directory) UserFromRoom(userID, roomID string) (Member, bool) {
	return d.store.MemberRecord(userID, roomID)
}
