package chat

import (
	"fmt"
	"strconv"
	"testing"
	"time"

	"spchat/internal/app/user"
)

// TestAppendMessageBoundedHistory verifies that history never exceeds the cap
// and that eviction is strictly FIFO: after appending more messages than fit,
// the stored history equals the last cap messages in arrival order.
func TestAppendMessageBoundedHistory(t *testing.T) {
	store := NewStore(3)
	conn := newFakeConn("c1", "u1", "Ann", "go")
	store.AddConnection(conn, "0")

	sender := user.User{ID: "u1", Nickname: "Ann"}
	for i := 0; i < 5; i++ {
		msg := NewMessage("0", sender, fmt.Sprintf("msg-%d", i))
		if !store.AppendMessage("0", msg) {
			t.Fatalf("AppendMessage(%d) unexpectedly reported a missing room", i)
		}
	}

	history := store.History("0")
	if len(history) != 3 {
		t.Fatalf("history length = %d, want 3", len(history))
	}
	for i, msg := range history {
		want := fmt.Sprintf("msg-%d", i+2)
		if msg.Content != want {
			t.Errorf("history[%d].Content = %q, want %q", i, msg.Content, want)
		}
	}
}

// TestAppendMessageMissingRoom verifies that appending to a room that does not
// exist is a no-op that does not fabricate the room.
func TestAppendMessageMissingRoom(t *testing.T) {
	store := NewStore(10)

	ok := store.AppendMessage("404", NewMessage("404", user.User{ID: "u1"}, "hello"))
	if ok {
		t.Error("AppendMessage on missing room reported success")
	}
	if store.RoomCount() != 0 {
		t.Errorf("RoomCount = %d after append to missing room, want 0", store.RoomCount())
	}
}

// TestPopularPartitionAndOrder verifies that Popular excludes rooms with
// exactly one member and returns the rest sorted by descending member count.
func TestPopularPartitionAndOrder(t *testing.T) {
	store := NewStore(10)

	// room "0": 3 users, room "1": 1 user, room "2": 2 users
	memberCounts := map[string]int{"0": 3, "1": 1, "2": 2}
	for roomID, count := range memberCounts {
		for i := 0; i < count; i++ {
			userID := fmt.Sprintf("u-%s-%d", roomID, i)
			conn := newFakeConn("c-"+userID, userID, "nick")
			store.AddConnection(conn, roomID)
		}
	}

	popular := store.Popular()
	if len(popular) != 2 {
		t.Fatalf("Popular returned %d rooms, want 2", len(popular))
	}
	for _, summary := range popular {
		if summary.UserCount <= 1 {
			t.Errorf("Popular included room %q with %d member(s)", summary.ID, summary.UserCount)
		}
	}
	for i := 1; i < len(popular); i++ {
		if popular[i].UserCount > popular[i-1].UserCount {
			t.Errorf("Popular not descending: %d before %d", popular[i-1].UserCount, popular[i].UserCount)
		}
	}
	if popular[0].ID != "0" || popular[1].ID != "2" {
		t.Errorf("Popular order = [%s %s], want [0 2]", popular[0].ID, popular[1].ID)
	}
}

// TestMembersEnforcesLimit verifies that Members never returns more profiles
// than the limit, regardless of actual room size.
func TestMembersEnforcesLimit(t *testing.T) {
	store := NewStore(10)

	for i := 0; i < 60; i++ {
		userID := strconv.Itoa(i)
		conn := newFakeConn("c"+userID, "u"+userID, "nick")
		store.AddConnection(conn, "0")
	}

	members := store.Members("0", 50)
	if len(members) != 50 {
		t.Errorf("Members returned %d profiles, want 50", len(members))
	}

	if got := store.Members("404", 50); len(got) != 0 {
		t.Errorf("Members on missing room returned %d profiles, want 0", len(got))
	}
}

// TestMemberRecord verifies the presence and absence cases of MemberRecord.
func TestMemberRecord(t *testing.T) {
	store := NewStore(10)
	conn := newFakeConn("c1", "u1", "Ann")
	store.AddConnection(conn, "0")

	record, ok := store.MemberRecord("u1", "0")
	if !ok {
		t.Fatal("MemberRecord for existing member reported absent")
	}
	if record.User.ID != "u1" || record.Connections != 1 {
		t.Errorf("MemberRecord = {%s %d}, want {u1 1}", record.User.ID, record.Connections)
	}

	if _, ok := store.MemberRecord("u2", "0"); ok {
		t.Error("MemberRecord for unknown user reported present")
	}
	if _, ok := store.MemberRecord("u1", "404"); ok {
		t.Error("MemberRecord for missing room reported present")
	}
}

// TestSummaryJoinsTags verifies the about field of the room summary.
func TestSummaryJoinsTags(t *testing.T) {
	store := NewStore(10)
	conn := newFakeConn("c1", "u1", "Ann", "nike", "shoes", "sale")
	store.AddConnection(conn, "0")

	summary, ok := store.Summary("0")
	if !ok {
		t.Fatal("Summary for existing room reported absent")
	}
	if summary.About != "nike, shoes, sale" {
		t.Errorf("About = %q, want %q", summary.About, "nike, shoes, sale")
	}
	if summary.UserCount != 1 {
		t.Errorf("UserCount = %d, want 1", summary.UserCount)
	}

	if _, ok := store.Summary("404"); ok {
		t.Error("Summary for missing room reported present")
	}
}

// TestNextRoomIDSkipsTakenIDs verifies that the allocator never hands out the
// lobby id or the id of a live room, and that the counter only increases.
func TestNextRoomIDSkipsTakenIDs(t *testing.T) {
	store := NewStore(10)

	// occupy "1" so the counter has to skip over it
	store.AddConnection(newFakeConn("c1", "u1", "Ann"), "1")

	seen := make(map[string]struct{})
	for i := 0; i < 8; i++ {
		id := store.NextRoomID()
		if id == LobbyRoomID {
			t.Errorf("NextRoomID returned the reserved lobby id %q", id)
		}
		if id == "1" {
			t.Error("NextRoomID returned the id of a live room")
		}
		if _, dup := seen[id]; dup {
			t.Errorf("NextRoomID returned %q twice", id)
		}
		seen[id] = struct{}{}
	}
}

// TestRemoveConnectionRoomSurvivesWithHistory verifies that a room with
// residual message history is not deleted when its last user departs, while a
// room with empty history is deleted within the same operation.
func TestRemoveConnectionRoomSurvivesWithHistory(t *testing.T) {
	store := NewStore(10)

	withHistory := newFakeConn("c1", "u1", "Ann")
	store.AddConnection(withHistory, "0")
	withHistory.Join("0")
	store.AppendMessage("0", NewMessage("0", withHistory.Profile(), "hello"))

	noHistory := newFakeConn("c2", "u2", "Bob")
	store.AddConnection(noHistory, "1")
	noHistory.Join("1")

	store.RemoveConnection(withHistory, "0")
	if store.Get("0") == nil {
		t.Error("room with history was deleted on last departure")
	}

	store.RemoveConnection(noHistory, "1")
	if store.Get("1") != nil {
		t.Error("empty room with no history survived last departure")
	}
}

// TestRemoveConnectionMissingRoom verifies that removal against a missing room
// or unknown member is a safe no-op.
func TestRemoveConnectionMissingRoom(t *testing.T) {
	store := NewStore(10)

	conn := newFakeConn("c1", "u1", "Ann")
	if removed := store.RemoveConnection(conn, "404"); removed {
		t.Error("RemoveConnection on missing room reported a removed user")
	}

	store.AddConnection(newFakeConn("c2", "u2", "Bob"), "0")
	if removed := store.RemoveConnection(conn, "0"); removed {
		t.Error("RemoveConnection for non-member reported a removed user")
	}
	if store.Get("0") == nil {
		t.Error("room vanished after no-op removal")
	}
}

// TestReapIdle verifies that the reap sweep removes only memberless rooms past
// the TTL and never touches the lobby or occupied rooms.
func TestReapIdle(t *testing.T) {
	store := NewStore(10)
	base := time.Now()
	store.now = func() time.Time { return base }

	// memberless room with history, stale
	stale := newFakeConn("c1", "u1", "Ann")
	store.AddConnection(stale, "0")
	stale.Join("0")
	store.AppendMessage("0", NewMessage("0", stale.Profile(), "orphan"))
	store.RemoveConnection(stale, "0")

	// memberless lobby with history, stale
	lobbyConn := newFakeConn("c2", "u2", "Bob")
	store.AddConnection(lobbyConn, LobbyRoomID)
	lobbyConn.Join(LobbyRoomID)
	store.AppendMessage(LobbyRoomID, NewMessage(LobbyRoomID, lobbyConn.Profile(), "hi"))
	store.RemoveConnection(lobbyConn, LobbyRoomID)

	// occupied room, stale activity
	occupied := newFakeConn("c3", "u3", "Cat")
	store.AddConnection(occupied, "2")

	store.now = func() time.Time { return base.Add(time.Hour) }

	reaped := store.ReapIdle(30 * time.Minute)
	if reaped != 1 {
		t.Errorf("ReapIdle removed %d rooms, want 1", reaped)
	}
	if store.Get("0") != nil {
		t.Error("stale memberless room survived the reap")
	}
	if store.Get(LobbyRoomID) == nil {
		t.Error("lobby was reaped")
	}
	if store.Get("2") == nil {
		t.Error("occupied room was reaped")
	}
}
