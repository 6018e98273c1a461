/*
Package chat contains the core logic for room membership, discovery, and bounded message history.

This file defines the Service struct, the composition root of the chat core. It owns the
Store and wires the Matcher, Membership Manager, Directory, Hub, and Reaper around it,
and it handles the connection-level events the transport layer delivers: connect,
inbound text, and disconnect.
*/
package chat

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"spchat/internal/configs"
	"spchat/internal/pkg/errs"
	"spchat/internal/pkg/logx"
)

// Service bundles the chat core's components around a single Store instance.
type Service struct {
	// Store is the authoritative room table.
	Store *Store

	// Matcher routes arriving connections to topically similar rooms.
	Matcher *Matcher

	// Members owns join/leave semantics.
	Members *Manager

	// Directory is the read-only discovery surface.
	Directory *Directory

	// hub routes broadcast frames to attached connections.
	hub *Hub

	// reaper sweeps idle memberless rooms.
	reaper *Reaper

	// structured logger with Service context.
	logger zerolog.Logger
}

// NewService constructs a fully wired chat Service and starts its background
// reaper. The scorer is the tag-similarity provider used for room matching.
func NewService(cfg *configs.AppConfig, scorer Scorer) *Service {
	serviceLogger := logx.Logger().With().Str("component", "ChatService").Logger()

	store := NewStore(cfg.HistoryCap)

	svc := &Service{
		Store:     store,
		Matcher:   NewMatcher(store, scorer, cfg.MatchThreshold),
		Members:   NewManager(store),
		Directory: NewDirectory(store, cfg.MembersPageLimit),
		hub:       NewHub(),
		reaper:    NewReaper(store, cfg.RoomIdleTTL),
		logger:    serviceLogger,
	}

	svc.reaper.Start()

	return svc
}

// Shutdown stops the service's background work.
func (s *Service) Shutdown() {
	s.reaper.Stop()
	s.logger.Info().Msg("Chat service shutdown complete.")
}

// Connect routes a freshly established connection into a room and sends it the
// initial room state. An explicit room id wins; otherwise the matcher picks
// the closest existing room by context tags, and failing that a new room is
// created for the connection. Read-only connections without an explicit room
// attach to the lobby.
func (s *Service) Connect(c *Client, explicitRoom string, readOnly bool) {
	var roomID string

	switch {
	case explicitRoom != "":
		roomID = explicitRoom
	case readOnly:
		roomID = LobbyRoomID
	default:
		if room := s.Matcher.FindRoom(c.ContextTags()); room != nil {
			roomID = room.ID
		}
	}

	var addedNewUser bool
	if roomID != "" {
		addedNewUser = s.Members.Join(c, roomID, readOnly)
	} else {
		room := s.Members.CreateRoomFor(c)
		roomID = room.ID
		addedNewUser = true
	}

	summary, ok := s.Store.Summary(roomID)
	if !ok {
		// Join just created or touched the room, so this cannot happen short
		// of an internal defect.
		s.logger.Error().Str("room_id", roomID).Msg("Room vanished between join and init data.")
		return
	}

	initErr := c.sendEvent(Event{
		Type: TypeInitData,
		Payload: InitDataPayload{
			Room:        summary,
			CurrentUser: c.Profile(),
			OnlineUsers: s.Directory.UsersInRoom(roomID),
			History:     s.Store.History(roomID),
		},
	})
	if initErr != nil {
		c.logger.Error().Err(initErr).Msg("Failed to send init data.")
	}

	if addedNewUser && !readOnly {
		s.broadcastEvent(roomID, c.ID(), Event{
			Type:    TypeUserJoined,
			Payload: UserEventPayload{User: c.Profile()},
		})
	}
}

// HandleText validates an inbound text message, appends it to the room's
// history, acknowledges it to the sender, and broadcasts it to the rest of
// the room.
func (s *Service) HandleText(c *Client, content string, tempID string) {
	roomID, joined := c.JoinedRoom()
	if !joined {
		// read-only attachments and stray frames after a leave
		c.SendError(errs.NewError(errs.ErrRoomNotFound))
		return
	}

	if len(content) > MaxContentBytes {
		c.SendError(errs.NewError(errs.ErrMessageContentTooLong))
		return
	}

	msg := NewMessage(roomID, c.Profile(), content)

	if !s.Store.AppendMessage(roomID, msg) {
		c.SendError(errs.NewError(errs.ErrRoomNotFound))
		return
	}

	c.sendConfirmation(tempID, msg)

	s.broadcastEvent(roomID, c.ID(), Event{Type: TypeText, Payload: msg})
}

// Disconnect runs the leave cycle for a closing connection and announces the
// user's departure when their last connection in the room is gone.
func (s *Service) Disconnect(c *Client) {
	roomID, joined := c.JoinedRoom()
	profile := c.Profile()

	removedUser := s.Members.Leave(c)

	if joined && removedUser {
		s.broadcastEvent(roomID, "", Event{
			Type:    TypeUserLeft,
			Payload: UserEventPayload{User: profile},
		})
	}

	c.closeSend()
}

// broadcastEvent marshals an event once and fans it out to the room.
func (s *Service) broadcastEvent(roomID string, exceptConnID string, evt Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		s.logger.Error().Err(err).
			Str("event_type", string(evt.Type)).
			Msg("Error marshaling event for broadcast.")
		return
	}

	s.hub.Broadcast(roomID, exceptConnID, data)
}
