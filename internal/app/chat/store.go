/*
Package chat contains the core logic for room membership, discovery, and bounded message history.

This file defines the Store struct, the authoritative in-memory table of rooms.
The Store is the sole owner of room state: every other component reads and mutates
through it, and its single RWMutex is the exclusion boundary that keeps joins,
leaves, message appends, and room creation/deletion atomic with respect to each other.
*/
package chat

import (
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"spchat/internal/app/user"
	"spchat/internal/pkg/logx"
)

// Store is the authoritative table of live rooms.
// It is constructed once at service start and injected into the matcher,
// membership manager, and directory, so tests can run isolated instances.
type Store struct {
	// mu protects rooms and nextID. One coarse lock for the whole table;
	// room cardinality is small enough that per-room locking is not worth it.
	mu sync.RWMutex

	// rooms maps room id to room state.
	rooms map[string]*Room

	// nextID is the counter backing on-demand room ids. It only increases,
	// so an id is never handed out twice.
	nextID int64

	// historyCap bounds per-room message history.
	historyCap int

	// now is the clock source, replaceable in tests.
	now func() time.Time

	// structured logger with store context.
	logger zerolog.Logger
}

// Candidate is the minimal view of a room the matcher scores against.
type Candidate struct {
	ID   string
	Tags []string
}

// NewStore constructs an empty Store with the given history cap.
func NewStore(historyCap int) *Store {
	storeLogger := logx.Logger().With().Str("component", "RoomStore").Logger()

	return &Store{
		rooms:      make(map[string]*Room),
		historyCap: historyCap,
		now:        time.Now,
		logger:     storeLogger,
	}
}

// Get retrieves a room by id, or nil if it does not exist. The returned Room
// must be treated as read-only; all mutation goes through Store methods.
func (s *Store) Get(roomID string) *Room {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.rooms[roomID]
}

// RoomCount returns the number of live rooms.
func (s *Store) RoomCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.rooms)
}

// Summary returns the discovery projection of a room. The second return value
// reports whether the room exists.
func (s *Store) Summary(roomID string) (RoomSummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return RoomSummary{}, false
	}
	return room.summary(), true
}

// Popular returns summaries of rooms with more than one member, ordered by
// descending member count. Solo rooms are filtered out before sorting, which
// keeps the sort over the (much smaller) set of rooms actually worth listing.
func (s *Store) Popular() []RoomSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	popular := make([]*Room, 0)
	for _, room := range s.rooms {
		if len(room.users) > 1 {
			popular = append(popular, room)
		}
	}

	sort.Slice(popular, func(i, j int) bool {
		return len(popular[i].users) > len(popular[j].users)
	})

	summaries := make([]RoomSummary, 0, len(popular))
	for _, room := range popular {
		summaries = append(summaries, room.summary())
	}
	return summaries
}

// AppendMessage appends a message to the room's history, evicting the oldest
// entry once the cap is exceeded. A missing room is a logged no-op: the store
// never fabricates a room as a side effect of an append. Returns whether the
// message was stored.
func (s *Store) AppendMessage(roomID string, msg Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		s.logger.Warn().
			Str("room_id", roomID).
			Str("message_id", msg.ID).
			Msg("Append to missing room ignored; transport state has diverged.")
		return false
	}

	room.messages = append(room.messages, msg)
	if len(room.messages) > s.historyCap {
		room.messages = room.messages[1:]
	}
	room.lastActive = s.now()

	return true
}

// History returns a copy of the room's message history, oldest first.
// A missing room yields an empty slice.
func (s *Store) History(roomID string) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return nil
	}

	history := make([]Message, len(room.messages))
	copy(history, room.messages)
	return history
}

// Members returns up to limit member profiles, one per distinct user.
// Ordering is not deterministic; the cap keeps the response bounded no matter
// how large the room is.
func (s *Store) Members(roomID string, limit int) []user.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return []user.User{}
	}

	profiles := make([]user.User, 0, min(limit, len(room.users)))
	for _, m := range room.users {
		if len(profiles) >= limit {
			break
		}
		profiles = append(profiles, m.user)
	}
	return profiles
}

// MemberRecord returns a snapshot of one user's membership in a room.
// The second return value reports whether the record exists.
func (s *Store) MemberRecord(userID, roomID string) (Member, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return Member{}, false
	}

	m, ok := room.users[userID]
	if !ok {
		return Member{}, false
	}

	return Member{User: m.user, Connections: len(m.conns)}, true
}

// Candidates returns the id and tags of every live room, for the matcher to
// score outside the store lock.
func (s *Store) Candidates() []Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	candidates := make([]Candidate, 0, len(s.rooms))
	for _, room := range s.rooms {
		candidates = append(candidates, Candidate{ID: room.ID, Tags: room.Tags})
	}
	return candidates
}

// NextRoomID allocates the next counter-based room id. Ids already present in
// the table (including the reserved lobby id) are skipped, so a live room is
// never clobbered by the counter catching up to it.
func (s *Store) NextRoomID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		id := strconv.FormatInt(s.nextID, 10)
		s.nextID++
		if id == LobbyRoomID {
			continue
		}
		if _, exists := s.rooms[id]; !exists {
			return id
		}
	}
}

// AddConnection registers a connection under its user in the given room,
// creating the room if needed. The room's tags come from the connection's
// context tags at creation; the user's stored profile is always overwritten
// with the connection's latest profile (last write wins). Returns whether a
// new user, not merely a new connection, entered the room.
func (s *Store) AddConnection(conn Conn, roomID string) (newUser bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		room = &Room{
			ID:    roomID,
			Tags:  conn.ContextTags(),
			users: make(map[string]*membership),
		}
		s.rooms[roomID] = room
		s.logger.Info().
			Str("room_id", roomID).
			Strs("tags", room.Tags).
			Msg("Room created.")
	}

	profile := conn.Profile()

	m, ok := room.users[profile.ID]
	if !ok {
		m = &membership{conns: make(map[string]struct{})}
		room.users[profile.ID] = m
		newUser = true
	}

	m.user = profile
	m.conns[conn.ID()] = struct{}{}
	room.lastActive = s.now()

	return newUser
}

// RemoveConnection drops a connection id from its user's membership in the
// given room. When that was the user's last connection the membership record
// goes with it, and when the room is then left with no users and no history
// the room itself is deleted. Missing rooms or records are logged no-ops.
// Returns whether the user, not merely a connection, left the room.
func (s *Store) RemoveConnection(conn Conn, roomID string) (removedUser bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		s.logger.Warn().
			Str("room_id", roomID).
			Str("conn_id", conn.ID()).
			Msg("Remove from missing room ignored; transport state has diverged.")
		return false
	}

	userID := conn.Profile().ID

	m, ok := room.users[userID]
	if !ok {
		s.logger.Warn().
			Str("room_id", roomID).
			Str("user_id", userID).
			Msg("Remove for unknown member ignored.")
		return false
	}

	delete(m.conns, conn.ID())

	if len(m.conns) == 0 {
		delete(room.users, userID)
		removedUser = true
	}

	room.lastActive = s.now()

	// A room with residual history survives with zero users; the reaper
	// handles those later.
	if room.empty() {
		delete(s.rooms, roomID)
		s.logger.Info().Str("room_id", roomID).Msg("Empty room deleted.")
	}

	return removedUser
}

// ReapIdle deletes rooms that have had no members for at least ttl, keeping
// their history from lingering forever. The lobby is exempt. Returns the
// number of rooms removed.
func (s *Store) ReapIdle(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-ttl)
	reaped := 0

	for id, room := range s.rooms {
		if id == LobbyRoomID || len(room.users) > 0 {
			continue
		}
		if room.lastActive.Before(cutoff) {
			delete(s.rooms, id)
			reaped++
			s.logger.Info().
				Str("room_id", id).
				Int("orphaned_messages", len(room.messages)).
				Msg("Idle room reaped.")
		}
	}

	return reaped
}
