package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Backend is a key-value store with per-entry expiration.
// Get reports found=false on a miss; errors are reserved for backend failures.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// BackendConfig selects and configures a cache backend.
type BackendConfig struct {
	Type       string // "redis", "memory", "" or "none"
	RedisURL   string
	MaxEntries int
}

// NewBackend builds the configured backend. A nil Backend with a nil error means caching is
// disabled; an unknown type is not fatal and also disables caching.
func NewBackend(cfg BackendConfig, log zerolog.Logger) (Backend, error) {
	switch cfg.Type {
	case "redis":
		backend, err := NewRedisBackend(cfg.RedisURL, log)
		if err != nil {
			return nil, fmt.Errorf("initialize redis cache: %w", err)
		}
		return backend, nil
	case "memory":
		backend, err := NewMemoryBackend(cfg.MaxEntries)
		if err != nil {
			return nil, fmt.Errorf("initialize memory cache: %w", err)
		}
		return backend, nil
	case "", "none":
		log.Info().Msg("vimeo result cache disabled")
		return nil, nil
	default:
		log.Warn().Str("backend", cfg.Type).Msg("vimeo result cache disabled, reason: unknown cache backend")
		return nil, nil
	}
}
