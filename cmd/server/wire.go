//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/janhq/vimeo-storage/internal/config"
	"github.com/janhq/vimeo-storage/internal/domain/library"
	"github.com/janhq/vimeo-storage/internal/infrastructure/auth"
	"github.com/janhq/vimeo-storage/internal/infrastructure/logger"
	"github.com/janhq/vimeo-storage/internal/interfaces/httpserver"
	"github.com/janhq/vimeo-storage/internal/interfaces/render"
)

var storeSet = wire.NewSet(
	provideResultCache,
	provideVimeoClient,
	provideStore,
	render.NewRenderer,
)

var librarySet = wire.NewSet(
	provideRepository,
	provideObjectSource,
	provideStorage,
	library.NewService,
)

// BuildApplication assembles the vimeo storage service with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		auth.NewValidator,
		storeSet,
		librarySet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}
