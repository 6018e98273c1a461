package handler

import (
	"spchat/internal/app/chat"
	"spchat/internal/configs"
)

// AppDeps bundles the dependencies the HTTP and WebSocket handlers need.
type AppDeps struct {
	Chat   *chat.Service
	Config *configs.AppConfig
}
