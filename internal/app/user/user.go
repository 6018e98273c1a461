/*
Package user contains core data structures related to user identity.

It defines the basic representation of a chat participant (the User struct),
used for passing profile information both internally and to clients.
*/
package user

// User represents the basic identity information of a chat participant.
// Fields use JSON tags for serialization in WebSocket messages.
//
// A participant may hold several concurrent connections (multiple tabs or
// devices); the profile stored in a room is always the one carried by the
// latest connection.
type User struct {

	// ID is the unique identifier for the user, typically a client-generated Guest ID.
	ID string `json:"id"`

	// Nickname is the display name of the user in the chat room.
	Nickname string `json:"nickname"`

	// Avatar is the URL for the user's avatar.
	Avatar string `json:"avatar,omitempty"`
}
