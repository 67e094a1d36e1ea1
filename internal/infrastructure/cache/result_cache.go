package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"

	"github.com/janhq/vimeo-storage/internal/infrastructure/metrics"
)

const (
	DefaultTTL       = 300 * time.Second
	DefaultKeyPrefix = "vimeo_cache"
)

// ErrWriteVerificationFailed is returned when a freshly written value cannot be read back.
var ErrWriteVerificationFailed = errors.New("cache write verification failed: stored value could not be read back")

// Options configures a ResultCache.
type Options struct {
	TTL       time.Duration
	KeyPrefix string
}

// ResultCache memoizes results of side-effect free calls in a Backend.
// A ResultCache without a backend calls through on every invocation.
type ResultCache struct {
	backend Backend
	ttl     time.Duration
	prefix  string
	log     zerolog.Logger
}

func NewResultCache(backend Backend, opts Options, log zerolog.Logger) *ResultCache {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = DefaultKeyPrefix
	}
	return &ResultCache{
		backend: backend,
		ttl:     opts.TTL,
		prefix:  opts.KeyPrefix,
		log:     log.With().Str("component", "result-cache").Logger(),
	}
}

// Enabled reports whether a backend is configured.
func (c *ResultCache) Enabled() bool {
	return c != nil && c.backend != nil
}

// TTL returns the configured expiry.
func (c *ResultCache) TTL() time.Duration {
	return c.ttl
}

// Key hashes a seed into the fixed-size storage key.
func (c *ResultCache) Key(seed string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(c.prefix+":"+seed))
}

// Memoize returns the cached result for seed, computing and storing it on a miss.
// After a write the value is read back; if the backend dropped it, ErrWriteVerificationFailed
// is returned instead of the computed value.
func Memoize[T any](ctx context.Context, c *ResultCache, seed string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if !c.Enabled() {
		metrics.RecordCacheLookup("bypass")
		return fn(ctx)
	}

	key := c.Key(seed)
	raw, found, err := c.backend.Get(ctx, key)
	if err != nil {
		return zero, fmt.Errorf("read cached value: %w", err)
	}
	if found {
		metrics.RecordCacheLookup("hit")
		return decode[T](raw)
	}

	metrics.RecordCacheLookup("miss")
	value, err := fn(ctx)
	if err != nil {
		return zero, err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return zero, fmt.Errorf("encode cached value: %w", err)
	}
	if err := c.backend.Set(ctx, key, encoded, c.ttl); err != nil {
		return zero, fmt.Errorf("write cached value: %w", err)
	}

	raw, found, err = c.backend.Get(ctx, key)
	if err != nil {
		return zero, fmt.Errorf("read back cached value: %w", err)
	}
	if !found {
		metrics.RecordCacheLookup("verify_failed")
		c.log.Error().Str("key", key).Msg("cached value vanished right after write")
		return zero, ErrWriteVerificationFailed
	}
	return decode[T](raw)
}

func decode[T any](raw []byte) (T, error) {
	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		return value, fmt.Errorf("decode cached value: %w", err)
	}
	return value, nil
}

// Seed renders the default key seed for a call: the operation name, its positional arguments and
// its keyword arguments sorted by key, so argument order at the call site never matters.
// Every value is JSON encoded, so string contents can never imitate a separator.
func Seed(name string, args []any, kwargs map[string]any) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteString(":[")
	for i, arg := range args {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(seedValue(arg))
	}

	keys := make([]string, 0, len(kwargs))
	for k := range kwargs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b.WriteString("]:[")
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "(%q,%s)", k, seedValue(kwargs[k]))
	}
	b.WriteByte(']')
	return b.String()
}

func seedValue(v any) string {
	encoded, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%#v", v)
	}
	return string(encoded)
}
