/*
Package handler provides HTTP handler functions for the room discovery API.

These endpoints are consumed by the embeddable widget UI: room summaries, the
popularity ranking, member listings, and a read-only room match probe.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"spchat/internal/pkg/errs"
	"spchat/internal/pkg/req"
	"spchat/internal/pkg/resp"
)

// HandleGetRoomInfo returns the discovery summary of a single room.
func HandleGetRoomInfo(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := chi.URLParam(r, "id")
		if roomID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		summary, ok := deps.Chat.Directory.RoomInfo(roomID)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrRoomNotFound))
			return
		}

		resp.RespondSuccess(w, r, summary)
	}
}

// HandleGetPopularRooms returns rooms with more than one member, most crowded first.
func HandleGetPopularRooms(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]any{
			"rooms": deps.Chat.Directory.PopularRooms(),
		})
	}
}

// HandleGetRoomUsers returns the member profiles of a room, capped by the
// configured page limit. A missing room yields an empty list rather than an
// error, matching the read-semantics of the room store.
func HandleGetRoomUsers(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := chi.URLParam(r, "id")
		if roomID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"users": deps.Chat.Directory.UsersInRoom(roomID),
		})
	}
}

// HandleGetRoomUser returns one user's membership snapshot in a room.
func HandleGetRoomUser(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := chi.URLParam(r, "id")
		userID := chi.URLParam(r, "uid")
		if roomID == "" || userID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		member, ok := deps.Chat.Directory.UserFromRoom(userID, roomID)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrMemberNotFound))
			return
		}

		resp.RespondSuccess(w, r, member)
	}
}

// MatchRoomInput is the request body of the room match probe.
type MatchRoomInput struct {
	// Tags are the page-context tags to match against, most significant first.
	Tags []string `json:"tags"`
}

// MaxContextTags bounds how many context tags a single request may carry.
const MaxContextTags = 20

// HandleMatchRoom runs the room matcher against the supplied context tags and
// returns the summary of the best room, or a null room when nothing clears
// the similarity threshold. The probe never mutates room state.
func HandleMatchRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input MatchRoomInput

		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if len(input.Tags) > MaxContextTags {
			resp.RespondError(w, r, errs.NewError(errs.ErrTooManyTags, MaxContextTags))
			return
		}

		room := deps.Chat.Matcher.FindRoom(input.Tags)
		if room == nil {
			resp.RespondSuccess(w, r, map[string]any{"room": nil})
			return
		}

		summary, ok := deps.Chat.Directory.RoomInfo(room.ID)
		if !ok {
			resp.RespondSuccess(w, r, map[string]any{"room": nil})
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"room": summary})
	}
}
