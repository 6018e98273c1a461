/*
Package handler provides the HTTP handlers and routing setup for the spchat server.

This file defines the main Router, applying necessary middleware like logging, CORS,
and IP-based rate limiting before delegating requests to specific handlers (the
discovery API and the WebSocket endpoint).
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"spchat/internal/pkg/limiter"
	"spchat/internal/pkg/logx"
	"spchat/internal/pkg/resp"
)

const (
	// ConnectRate limits how often a single IP may open WebSocket connections.
	ConnectRate  = 0.5
	ConnectBurst = 5

	// MatchRate limits how often a single IP may run the room matcher via HTTP.
	MatchRate  = 0.2
	MatchBurst = 3
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
// It initializes IP-based rate limiters, configures CORS, and applies global and per-route middleware.
func Router(deps *AppDeps) http.Handler {
	connectLimiter := limiter.NewIPRateLimiter(rate.Limit(ConnectRate), ConnectBurst)
	matchLimiter := limiter.NewIPRateLimiter(rate.Limit(MatchRate), MatchBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	wsUpgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.Environment == "development" {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]string{
			"status":  "ok",
			"service": "spchat",
		}
		resp.RespondSuccess(w, r, data)
	})

	r.Route("/api/rooms", func(api chi.Router) {
		api.Get("/popular", HandleGetPopularRooms(deps))

		rateLimitedMatch := matchLimiter.Middleware(HandleMatchRoom(deps))
		api.Post("/match", rateLimitedMatch.ServeHTTP)

		api.Get("/{id}", HandleGetRoomInfo(deps))
		api.Get("/{id}/users", HandleGetRoomUsers(deps))
		api.Get("/{id}/users/{uid}", HandleGetRoomUser(deps))
	})

	r.Get("/ws", HandleWebSocket(wsUpgrader, connectLimiter, deps))

	return r
}
