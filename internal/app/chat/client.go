/*
Package chat contains the core logic for room membership, discovery, and bounded message history.

This file defines the Client struct, representing an active WebSocket connection. It manages the
client's lifecycle, the message communication loops (ReadPump and WritePump), and implements the
Conn interface the membership manager drives.
*/
package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"spchat/internal/app/user"
	"spchat/internal/pkg/errs"
	"spchat/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a message sent by the client.
	maxMessageSize = 8192

	// sendQueueSize is the buffer size of the per-client outbound queue.
	sendQueueSize = 256
)

// Client represents an active WebSocket connection and its associated user.
// It implements the Conn interface.
//
// The joined flag, room pointer, and attached-rooms set are only touched from
// the connection's own event flow (connect, ReadPump, disconnect), never
// concurrently, so they need no lock of their own.
type Client struct {
	// id is the stable identifier of this connection.
	id string

	// service handles connect, inbound message, and disconnect events.
	service *Service

	// underlying WebSocket connection object.
	conn *websocket.Conn

	// user is the profile presented by this connection.
	user user.User

	// pageTags are the context tags supplied at connect time.
	pageTags []string

	// roomID and joined track interactive membership.
	roomID string
	joined bool

	// rooms is the set of rooms this connection is routed into at the
	// transport level, including read-only attachments.
	rooms map[string]struct{}

	// send is a buffered channel used to queue frames waiting to be written.
	send chan []byte

	// closeOnce guards the closing of the send channel.
	closeOnce sync.Once

	// structured logger with client context.
	logger zerolog.Logger
}

// NewClient constructs a Client for an upgraded WebSocket connection.
func NewClient(service *Service, wsConn *websocket.Conn, connID string, profile user.User, pageTags []string) *Client {
	clientLogger := logx.Logger().With().
		Str("conn_id", connID).
		Str("user_id", profile.ID).
		Logger()

	return &Client{
		id:       connID,
		service:  service,
		conn:     wsConn,
		user:     profile,
		pageTags: pageTags,
		rooms:    make(map[string]struct{}),
		send:     make(chan []byte, sendQueueSize),
		logger:   clientLogger,
	}
}

// ID implements Conn.
func (c *Client) ID() string { return c.id }

// Profile implements Conn.
func (c *Client) Profile() user.User { return c.user }

// ContextTags implements Conn.
func (c *Client) ContextTags() []string { return c.pageTags }

// JoinedRoom implements Conn.
func (c *Client) JoinedRoom() (string, bool) { return c.roomID, c.joined }

// MarkJoined implements Conn.
func (c *Client) MarkJoined(roomID string) {
	c.roomID = roomID
	c.joined = true
}

// ClearJoined implements Conn.
func (c *Client) ClearJoined() {
	c.roomID = ""
	c.joined = false
}

// Join implements Conn: it routes the connection into the room's broadcast set.
func (c *Client) Join(roomID string) {
	c.rooms[roomID] = struct{}{}
	c.service.hub.add(roomID, c)
}

// Leave implements Conn: it removes the connection from the room's broadcast set.
func (c *Client) Leave(roomID string) {
	delete(c.rooms, roomID)
	c.service.hub.remove(roomID, c)
}

// Rooms implements Conn.
func (c *Client) Rooms() []string {
	ids := make([]string, 0, len(c.rooms))
	for roomID := range c.rooms {
		ids = append(ids, roomID)
	}
	return ids
}

// ReadPump handles reading messages from the WebSocket connection.
// It handles heartbeats (Pong), message parsing, and performs cleanup upon connection closure.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading message (Client close/going away)")
			}
			break
		}

		c.processInboundMessage(messageBytes)
	}
}

// cleanupOnDisconnect handles the necessary cleanup steps when the client's ReadPump terminates.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Client connection cleanup starting.")

	c.service.Disconnect(c)

	if err := c.conn.Close(); err != nil {
		c.logger.Error().Err(err).Msg("Client connection close error")
	}
}

// processInboundMessage handles raw byte messages received from the client.
func (c *Client) processInboundMessage(messageBytes []byte) {
	var inboundMsg struct {
		Type    EventType       `json:"type"`
		Payload json.RawMessage `json:"payload,omitempty"`
		TempID  string          `json:"tempID,omitempty"`
	}

	if err := json.Unmarshal(messageBytes, &inboundMsg); err != nil {
		c.logger.Warn().Err(err).
			Bytes("message_bytes", messageBytes).
			Msg("Client sent invalid JSON")
		return
	}

	switch inboundMsg.Type {
	case TypeText:
		c.handleText(inboundMsg.Payload, inboundMsg.TempID)

	default:
		c.logger.Warn().Str("msg_type", string(inboundMsg.Type)).Msg("Client sent unsupported message type")
	}
}

// handleText processes incoming text messages from the client.
func (c *Client) handleText(payloadBytes json.RawMessage, tempID string) {
	var textPayload TextPayload
	if err := json.Unmarshal(payloadBytes, &textPayload); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid TEXT payload")
		return
	}

	c.service.HandleText(c, textPayload.Content, tempID)
}

// WritePump handles writing frames from the Client.send channel to the WebSocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		// ensure the connection is closed on exit
		if err := c.conn.Close(); err != nil {
			c.logger.Error().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !c.writeQueuedMessage(message, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedMessage handles frames pulled from the send channel, writing them to the WebSocket.
// Returns true if the WritePump loop should continue, false if it should terminate.
func (c *Client) writeQueuedMessage(message []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Error().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		c.logger.Error().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

// writePingMessage sends a periodic WebSocket Ping message to maintain the connection heartbeat.
// Returns false if the WritePump loop should terminate due to write failure.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}

// enqueue queues a pre-marshaled frame without blocking. Returns false when
// the queue is full and the frame was dropped.
func (c *Client) enqueue(data []byte) bool {
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// sendEvent marshals the event and attempts to queue it for this client.
func (c *Client) sendEvent(evt Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		c.logger.Error().Err(err).Msg("Error marshaling event for client")
		return err
	}

	if !c.enqueue(data) {
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Client send channel full, dropping event")
		return fmt.Errorf("client send queue full")
	}
	return nil
}

// SendError constructs and sends a TypeError event to the client.
func (c *Client) SendError(err error) {
	var code int
	var message string

	var customErr *errs.CustomError
	if errors.As(err, &customErr) {
		code = customErr.Code
		message = customErr.Message
	} else {
		code = errs.ErrUnknown
		message = fmt.Sprintf("Internal server error: %v", err)
	}

	sendErr := c.sendEvent(Event{
		Type:    TypeError,
		Payload: ErrorPayload{Code: code, Message: message},
	})
	if sendErr != nil {
		c.logger.Error().Err(sendErr).Msg("Failed to queue error event")
	}
}

// sendConfirmation sends a TypeConfirm (ACK) event back to the sender,
// mapping its temporary message id to the authoritative one.
func (c *Client) sendConfirmation(originalTempID string, authoritativeMsg Message) {
	if originalTempID == "" {
		return
	}

	err := c.sendEvent(Event{
		Type: TypeConfirm,
		Payload: ConfirmPayload{
			TempID:    originalTempID,
			MessageID: authoritativeMsg.ID,
			Timestamp: authoritativeMsg.Timestamp,
		},
	})
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to queue ACK event")
	}
}

// closeSend closes the outbound queue, terminating the WritePump. Must only
// be called after the client has been removed from all hub routing sets.
func (c *Client) closeSend() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}
