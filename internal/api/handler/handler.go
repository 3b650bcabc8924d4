package handler

import (
	"moodmingle/backend/internal/chathub"
	"moodmingle/backend/internal/social"
	"moodmingle/backend/internal/storage"

	"github.com/rs/zerolog"
)

// Handler містить посилання на ChatHub та сервіси, які обслуговують REST.
type Handler struct {
	Hub     *chathub.ManagerService
	Social  *social.Service
	Storage storage.Storage

	frontendURL string
	devMode     bool
	log         zerolog.Logger
}

func NewHandler(hub *chathub.ManagerService, soc *social.Service, store storage.Storage, frontendURL string, devMode bool, log zerolog.Logger) *Handler {
	return &Handler{
		Hub:         hub,
		Social:      soc,
		Storage:     store,
		frontendURL: frontendURL,
		devMode:     devMode,
		log:         log.With().Str("component", "http").Logger(),
	}
}
