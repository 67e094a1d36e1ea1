package handlers

import (
	"github.com/rs/zerolog"

	"github.com/janhq/vimeo-storage/internal/config"
	"github.com/janhq/vimeo-storage/internal/domain/library"
	"github.com/janhq/vimeo-storage/internal/domain/video"
	"github.com/janhq/vimeo-storage/internal/interfaces/render"
)

// Provider wires HTTP handlers.
type Provider struct {
	Videos *VideoHandler
	Remote *RemoteHandler
}

func NewProvider(cfg *config.Config, service *library.Service, store *video.Store, renderer *render.Renderer, log zerolog.Logger) *Provider {
	return &Provider{
		Videos: NewVideoHandler(cfg, service, log),
		Remote: NewRemoteHandler(store, renderer, log),
	}
}
