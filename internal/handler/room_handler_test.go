package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"spchat/internal/app/chat"
	"spchat/internal/app/user"
	"spchat/internal/configs"
)

// testConn is a minimal chat.Conn for seeding the store in handler tests.
type testConn struct {
	id      string
	profile user.User
	tags    []string
	roomID  string
	joined  bool
	rooms   map[string]struct{}
}

func newTestConn(connID, userID string, tags ...string) *testConn {
	return &testConn{
		id:      connID,
		profile: user.User{ID: userID, Nickname: "nick-" + userID},
		tags:    tags,
		rooms:   make(map[string]struct{}),
	}
}

func (c *testConn) ID() string                 { return c.id }
func (c *testConn) Profile() user.User         { return c.profile }
func (c *testConn) ContextTags() []string      { return c.tags }
func (c *testConn) JoinedRoom() (string, bool) { return c.roomID, c.joined }
func (c *testConn) MarkJoined(roomID string)   { c.roomID, c.joined = roomID, true }
func (c *testConn) ClearJoined()               { c.roomID, c.joined = "", false }
func (c *testConn) Join(roomID string)         { c.rooms[roomID] = struct{}{} }
func (c *testConn) Leave(roomID string)        { delete(c.rooms, roomID) }

func (c *testConn) Rooms() []string {
	ids := make([]string, 0, len(c.rooms))
	for roomID := range c.rooms {
		ids = append(ids, roomID)
	}
	return ids
}

func testService(t *testing.T) (*chat.Service, http.Handler) {
	t.Helper()

	cfg := &configs.AppConfig{
		Environment:      "development",
		Port:             8080,
		HistoryCap:       50,
		MatchThreshold:   0.1,
		MembersPageLimit: 50,
		RoomIdleTTL:      30 * time.Minute,
	}

	service := chat.NewService(cfg, chat.ScorerFunc(func(query, roomTags []string) float64 {
		// full score when the first tags agree, nothing otherwise
		if len(query) > 0 && len(roomTags) > 0 && query[0] == roomTags[0] {
			return 1
		}
		return 0
	}))
	t.Cleanup(service.Shutdown)

	router := Router(&AppDeps{Chat: service, Config: cfg})
	return service, router
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	return body
}

// TestGetRoomInfo verifies the summary endpoint for present and missing rooms.
func TestGetRoomInfo(t *testing.T) {
	service, router := testService(t)
	service.Members.Join(newTestConn("c1", "u1", "go", "gophers"), "0", false)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rooms/0", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeResponse(t, rec)
	data := body["data"].(map[string]any)
	if data["about"] != "go, gophers" {
		t.Errorf("about = %v, want %q", data["about"], "go, gophers")
	}
	if data["userCount"] != float64(1) {
		t.Errorf("userCount = %v, want 1", data["userCount"])
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rooms/404", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status for missing room = %d, want 404", rec.Code)
	}
}

// TestGetPopularRooms verifies that only multi-member rooms are listed.
func TestGetPopularRooms(t *testing.T) {
	service, router := testService(t)
	service.Members.Join(newTestConn("c1", "u1"), "0", false)
	service.Members.Join(newTestConn("c2", "u2"), "0", false)
	service.Members.Join(newTestConn("c3", "u3"), "1", false)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rooms/popular", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeResponse(t, rec)
	rooms := body["data"].(map[string]any)["rooms"].([]any)
	if len(rooms) != 1 {
		t.Fatalf("popular returned %d rooms, want 1", len(rooms))
	}
	if rooms[0].(map[string]any)["id"] != "0" {
		t.Errorf("popular[0].id = %v, want 0", rooms[0].(map[string]any)["id"])
	}
}

// TestGetRoomUsers verifies the member listing endpoint.
func TestGetRoomUsers(t *testing.T) {
	service, router := testService(t)
	service.Members.Join(newTestConn("c1", "u1"), "0", false)
	service.Members.Join(newTestConn("c2", "u2"), "0", false)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rooms/0/users", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeResponse(t, rec)
	users := body["data"].(map[string]any)["users"].([]any)
	if len(users) != 2 {
		t.Errorf("users length = %d, want 2", len(users))
	}
}

// TestGetRoomUser verifies the single-member endpoint including the miss case.
func TestGetRoomUser(t *testing.T) {
	service, router := testService(t)
	service.Members.Join(newTestConn("c1", "u1"), "0", false)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rooms/0/users/u1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeResponse(t, rec)
	member := body["data"].(map[string]any)
	if member["connections"] != float64(1) {
		t.Errorf("connections = %v, want 1", member["connections"])
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rooms/0/users/u2", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status for unknown member = %d, want 404", rec.Code)
	}
}

// TestMatchRoom verifies the match probe: a hit returns the room summary, a
// miss returns a null room, and neither mutates room state.
func TestMatchRoom(t *testing.T) {
	service, router := testService(t)
	service.Members.Join(newTestConn("c1", "u1", "nike", "shoes"), "0", false)

	post := func(payload string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/rooms/match", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := post(`{"tags":["nike","running"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	room := decodeResponse(t, rec)["data"].(map[string]any)["room"]
	if room == nil {
		t.Fatal("match returned null room, want room 0")
	}
	if room.(map[string]any)["id"] != "0" {
		t.Errorf("matched room id = %v, want 0", room.(map[string]any)["id"])
	}

	rec = post(`{"tags":["cooking"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if room := decodeResponse(t, rec)["data"].(map[string]any)["room"]; room != nil {
		t.Errorf("match for unrelated tags returned %v, want null", room)
	}

	if service.Store.RoomCount() != 1 {
		t.Errorf("RoomCount = %d after match probes, want 1", service.Store.RoomCount())
	}
}
