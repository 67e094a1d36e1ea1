package main

import (
	"context"

	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"github.com/janhq/vimeo-storage/internal/config"
	"github.com/janhq/vimeo-storage/internal/domain/library"
	"github.com/janhq/vimeo-storage/internal/domain/video"
	"github.com/janhq/vimeo-storage/internal/infrastructure/cache"
	"github.com/janhq/vimeo-storage/internal/infrastructure/database"
	repo "github.com/janhq/vimeo-storage/internal/infrastructure/repository/video"
	"github.com/janhq/vimeo-storage/internal/infrastructure/storage"
	"github.com/janhq/vimeo-storage/internal/infrastructure/vimeo"
)

func provideResultCache(cfg *config.Config, log zerolog.Logger) (*cache.ResultCache, error) {
	backend, err := cache.NewBackend(cache.BackendConfig{
		Type:       cfg.CacheBackend,
		RedisURL:   cfg.RedisURL,
		MaxEntries: cfg.CacheMaxEntries,
	}, log)
	if err != nil {
		return nil, err
	}
	return cache.NewResultCache(backend, cache.Options{
		TTL:       cfg.CacheExpires,
		KeyPrefix: cfg.CacheKeyPrefix,
	}, log), nil
}

func provideVimeoClient(cfg *config.Config, log zerolog.Logger) video.Client {
	return vimeo.NewClient(vimeo.ConfigFromEnv(cfg), log)
}

func provideStore(cfg *config.Config, client video.Client, resultCache *cache.ResultCache, log zerolog.Logger) *video.Store {
	return video.NewStore(client, resultCache, video.Options{
		OEmbedURL:       cfg.VimeoOEmbedURL,
		VideoURLPattern: cfg.VimeoVideoURLPattern,
		TempDir:         cfg.UploadTempDir,
	}, log)
}

// provideRepository selects the library repository based on configuration.
func provideRepository(ctx context.Context, cfg *config.Config, log zerolog.Logger) (library.Repository, error) {
	switch {
	case cfg.IsSQLiteLibrary():
		log.Info().Str("path", cfg.SQLitePath).Msg("video library stored in sqlite")
		return repo.NewSQLiteRepository(cfg.SQLitePath)
	case !cfg.IsPostgresLibrary():
		log.Info().Msg("video library kept in memory")
		return repo.NewMemoryRepository(), nil
	}

	db, err := database.Connect(database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return repo.NewRepository(db), nil
}

// provideObjectSource returns a nil source when S3 is not configured, which disables imports.
func provideObjectSource(ctx context.Context, cfg *config.Config, log zerolog.Logger) (library.ObjectSource, error) {
	source, err := storage.NewS3Source(ctx, cfg, log)
	if err != nil || source == nil {
		return nil, err
	}
	return source, nil
}

func provideStorage(store *video.Store) library.Storage {
	return store
}
