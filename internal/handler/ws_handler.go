/*
Package handler provides the HTTP handler function for WebSocket connection upgrading and initialization.

This file contains the HandleWebSocket function, which is responsible for rate limiting,
validating connection parameters, upgrading the HTTP connection to WebSocket, and
handing the connection over to the chat service for room routing.
*/
package handler

import (
	"net"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"spchat/internal/app/chat"
	"spchat/internal/app/user"
	"spchat/internal/pkg/errs"
	"spchat/internal/pkg/limiter"
	"spchat/internal/pkg/logx"
	"spchat/internal/pkg/randx"
	"spchat/internal/pkg/resp"
)

// parseContextTags splits the tags query parameter into a clean tag list,
// preserving the client's significance order.
func parseContextTags(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection requests.
//
// Query parameters: uid (guest id, required), nn (nickname, random fallback),
// avatar (optional), tags (comma-separated context tags), room (explicit room
// id, e.g. the lobby), ro=1 for a read-only attachment.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if ip == "" {
			ip = "unknown_ip"
		}

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		query := r.URL.Query()
		userID := query.Get("uid")
		nickname := query.Get("nn")

		if !randx.IsValidGuestID(userID) {
			logx.Warn("WebSocket request rejected: Invalid uid", "uid", userID)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if nickname == "" {
			nickname, err = randx.UserNickname()
			if err != nil {
				logx.Error(err, "Failed to generate fallback nickname")
				resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
				return
			}
		}

		contextTags := parseContextTags(query.Get("tags"))
		if len(contextTags) > MaxContextTags {
			resp.RespondError(w, r, errs.NewError(errs.ErrTooManyTags, MaxContextTags))
			return
		}

		explicitRoom := query.Get("room")
		readOnly := query.Get("ro") == "1"

		currentUser := user.User{
			ID:       userID,
			Nickname: nickname,
			Avatar:   query.Get("avatar"),
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		connID := randx.ConnectionID()
		client := chat.NewClient(deps.Chat, conn, connID, currentUser, contextTags)

		go client.WritePump()

		deps.Chat.Connect(client, explicitRoom, readOnly)

		logx.Info("WebSocket connection established",
			"conn_id", connID,
			"user_id", userID,
			"read_only", readOnly,
		)

		go client.ReadPump()
	}
}
