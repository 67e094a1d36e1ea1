package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/janhq/vimeo-storage/internal/config"
	"github.com/janhq/vimeo-storage/internal/domain/library"
	"github.com/janhq/vimeo-storage/internal/infrastructure/auth"
	"github.com/janhq/vimeo-storage/internal/infrastructure/logger"
	"github.com/janhq/vimeo-storage/internal/infrastructure/observability"
	"github.com/janhq/vimeo-storage/internal/interfaces/httpserver"
	"github.com/janhq/vimeo-storage/internal/interfaces/render"
)

// @title Vimeo Storage API
// @version 1.0
// @description Stores uploaded videos on Vimeo and serves their metadata and embed code
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	resultCache, err := provideResultCache(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize result cache")
	}

	store := provideStore(cfg, provideVimeoClient(cfg, log), resultCache, log)

	repository, err := provideRepository(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize video library")
	}

	source, err := provideObjectSource(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize import source")
	}

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth")
	}

	libraryService := library.NewService(repository, provideStorage(store), source, log)
	renderer := render.NewRenderer(store, log)

	httpServer := httpserver.New(cfg, log, libraryService, store, renderer, authValidator)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
