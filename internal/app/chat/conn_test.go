package chat

import "spchat/internal/app/user"

// fakeConn is a minimal in-memory Conn implementation for exercising the
// store, matcher, and membership manager without a live WebSocket.
type fakeConn struct {
	id      string
	profile user.User
	tags    []string

	roomID string
	joined bool
	rooms  map[string]struct{}
}

func newFakeConn(connID, userID, nickname string, tags ...string) *fakeConn {
	return &fakeConn{
		id:      connID,
		profile: user.User{ID: userID, Nickname: nickname},
		tags:    tags,
		rooms:   make(map[string]struct{}),
	}
}

func (f *fakeConn) ID() string                 { return f.id }
func (f *fakeConn) Profile() user.User         { return f.profile }
func (f *fakeConn) ContextTags() []string      { return f.tags }
func (f *fakeConn) JoinedRoom() (string, bool) { return f.roomID, f.joined }

func (f *fakeConn) MarkJoined(roomID string) {
	f.roomID = roomID
	f.joined = true
}

func (f *fakeConn) ClearJoined() {
	f.roomID = ""
	f.joined = false
}

func (f *fakeConn) Join(roomID string)  { f.rooms[roomID] = struct{}{} }
func (f *fakeConn) Leave(roomID string) { delete(f.rooms, roomID) }

func (f *fakeConn) Rooms() []string {
	ids := make([]string, 0, len(f.rooms))
	for roomID := range f.rooms {
		ids = append(ids, roomID)
	}
	return ids
}
