package handler

import (
	"nickchat/internal/app/chat"
	"nickchat/internal/configs"
)

// AppDeps carries the collaborators the HTTP handlers need.
type AppDeps struct {
	Config *configs.AppConfig
	Chat   *chat.Service
}
