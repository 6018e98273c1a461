/*
Package chat contains the core logic for room membership, discovery, and bounded message history.

This file defines the Hub, the transport-level routing table: which live connections
are attached to which room. Delivery of room events to connected clients goes through
it; the Store's membership table stays purely bookkeeping.
*/
package chat

import (
	"sync"

	"github.com/rs/zerolog"

	"spchat/internal/pkg/logx"
)

// Hub routes broadcast frames to the connections attached to a room.
type Hub struct {
	// mu protects the rooms map.
	mu sync.RWMutex

	// rooms maps room id to the clients attached to it, keyed by connection id.
	rooms map[string]map[string]*Client

	// structured logger with Hub context.
	logger zerolog.Logger
}

// NewHub constructs an empty Hub.
func NewHub() *Hub {
	hubLogger := logx.Logger().With().Str("component", "Hub").Logger()

	return &Hub{
		rooms:  make(map[string]map[string]*Client),
		logger: hubLogger,
	}
}

// add attaches a client to a room's routing set.
func (h *Hub) add(roomID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.rooms[roomID]
	if !ok {
		conns = make(map[string]*Client)
		h.rooms[roomID] = conns
	}
	conns[c.ID()] = c
}

// remove detaches a client from a room's routing set.
func (h *Hub) remove(roomID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.rooms[roomID]
	if !ok {
		return
	}

	delete(conns, c.ID())
	if len(conns) == 0 {
		delete(h.rooms, roomID)
	}
}

// Broadcast queues data to every connection attached to the room except the
// one identified by exceptConnID. A slow client whose send queue is full has
// the frame dropped rather than blocking the room.
func (h *Hub) Broadcast(roomID string, exceptConnID string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for connID, client := range h.rooms[roomID] {
		if connID == exceptConnID {
			continue
		}
		if !client.enqueue(data) {
			h.logger.Warn().
				Str("room_id", roomID).
				Str("conn_id", connID).
				Msg("Client send queue full, frame dropped.")
		}
	}
}
