package video

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/janhq/vimeo-storage/internal/infrastructure/cache"
)

// TimeLayout is the fixed UTC layout of created_time/modified_time.
const TimeLayout = "2006-01-02T15:04:05Z"

const bytesPerMB = 1048576

// Client is the remote video API as seen by the store.
type Client interface {
	Get(ctx context.Context, path string) (*APIResponse, error)
	Delete(ctx context.Context, path string) (*APIResponse, error)
	// Upload sends the file at filePath and returns the reference assigned to the new video.
	Upload(ctx context.Context, filePath string, name string) (string, error)
	// OEmbed issues a GET against an absolute oEmbed endpoint.
	OEmbed(ctx context.Context, endpoint string, params url.Values) (*APIResponse, error)
}

// StorageBackend is the storage contract offered to framework adapters.
type StorageBackend interface {
	Save(ctx context.Context, name string, content Content) (string, error)
	Delete(ctx context.Context, ref string) error
	Exists(ctx context.Context, ref string) (bool, error)
	Size(ctx context.Context, ref string) (int64, error)
	URL(ctx context.Context, ref string) (string, error)
	CreatedTime(ctx context.Context, ref string) (time.Time, error)
	ModifiedTime(ctx context.Context, ref string) (time.Time, error)
	AccessedTime(ctx context.Context, ref string) (time.Time, error)
	ValidName(name string) string
	AvailableName(name string) string
	Path(name string) string
}

// Options are resolved once when the store is built.
type Options struct {
	OEmbedURL       string
	VideoURLPattern string
	TempDir         string
}

// Store maps storage operations onto the remote video API.
type Store struct {
	client Client
	cache  *cache.ResultCache
	opts   Options
	log    zerolog.Logger
}

var _ StorageBackend = (*Store)(nil)

func NewStore(client Client, resultCache *cache.ResultCache, opts Options, log zerolog.Logger) *Store {
	if opts.OEmbedURL == "" {
		opts.OEmbedURL = "https://vimeo.com/api/oembed.json"
	}
	if opts.VideoURLPattern == "" {
		opts.VideoURLPattern = "https://vimeo.com/{}"
	}
	return &Store{
		client: client,
		cache:  resultCache,
		opts:   opts,
		log:    log.With().Str("component", "vimeo-store").Logger(),
	}
}

// Metadata returns the video object, served from the result cache when possible.
func (s *Store) Metadata(ctx context.Context, ref string) (*Metadata, error) {
	raw, err := cache.Memoize(ctx, s.cache, metadataSeed(ref), func(ctx context.Context) (json.RawMessage, error) {
		resp, err := s.get(ctx, ref)
		if err != nil {
			return nil, err
		}
		return json.RawMessage(resp.Body), nil
	})
	if err != nil {
		return nil, err
	}
	return decodeMetadata(raw)
}

// OEmbed queries the oEmbed endpoint for the public URL of ref. Caller options are sent as query
// parameters and override the defaults, "url" included.
func (s *Store) OEmbed(ctx context.Context, ref string, opts map[string]string) (OEmbed, error) {
	return cache.Memoize(ctx, s.cache, oembedSeed(ref, opts), func(ctx context.Context) (OEmbed, error) {
		params := url.Values{}
		params.Set("url", s.PublicURL(ref))
		for k, v := range opts {
			params.Set(k, v)
		}

		resp, err := s.client.OEmbed(ctx, s.opts.OEmbedURL, params)
		if err != nil {
			return nil, err
		}
		if err := checkStatus(resp); err != nil {
			return nil, err
		}
		var out OEmbed
		if err := json.Unmarshal(resp.Body, &out); err != nil {
			return nil, fmt.Errorf("decode oembed response: %w", err)
		}
		return out, nil
	})
}

// EmbedCode returns the "html" field of the oEmbed response.
func (s *Store) EmbedCode(ctx context.Context, ref string, opts map[string]string) (string, error) {
	oembed, err := s.OEmbed(ctx, ref, opts)
	if err != nil {
		return "", err
	}
	return oembed.HTML(), nil
}

// PublicURL renders the public page URL of ref from the configured pattern.
func (s *Store) PublicURL(ref string) string {
	id := ref[strings.LastIndex(ref, "/")+1:]
	return strings.Replace(s.opts.VideoURLPattern, "{}", id, 1)
}

// Exists reports whether a GET on ref succeeds.
func (s *Store) Exists(ctx context.Context, ref string) (bool, error) {
	resp, err := s.client.Get(ctx, ref)
	if err != nil {
		return false, err
	}
	return resp.OK(), nil
}

// Size returns the declared size of the largest file rendition, 0 when there is none.
func (s *Store) Size(ctx context.Context, ref string) (int64, error) {
	md, err := s.fetch(ctx, ref)
	if err != nil {
		return 0, err
	}
	if largest := largestFile(md.Files); largest != nil {
		return largest.Size, nil
	}
	return 0, nil
}

// URL returns the secure link of the largest file rendition, "" when there is none.
func (s *Store) URL(ctx context.Context, ref string) (string, error) {
	md, err := s.fetch(ctx, ref)
	if err != nil {
		return "", err
	}
	if largest := largestFile(md.Files); largest != nil {
		return largest.LinkSecure, nil
	}
	return "", nil
}

func (s *Store) CreatedTime(ctx context.Context, ref string) (time.Time, error) {
	md, err := s.fetch(ctx, ref)
	if err != nil {
		return time.Time{}, err
	}
	return parseTime(md.CreatedTime)
}

func (s *Store) ModifiedTime(ctx context.Context, ref string) (time.Time, error) {
	md, err := s.fetch(ctx, ref)
	if err != nil {
		return time.Time{}, err
	}
	return parseTime(md.ModifiedTime)
}

// AccessedTime is ModifiedTime; the API has no access time.
func (s *Store) AccessedTime(ctx context.Context, ref string) (time.Time, error) {
	return s.ModifiedTime(ctx, ref)
}

// Delete removes the remote video. A 404 counts as already deleted.
func (s *Store) Delete(ctx context.Context, ref string) error {
	resp, err := s.client.Delete(ctx, ref)
	if err != nil {
		return err
	}
	if err := checkStatus(resp); err != nil && !isNotFound(resp) {
		return err
	}
	s.log.Debug().Str("ref", ref).Msg("video deleted")
	return nil
}

// ValidName strips a single leading dot.
func (s *Store) ValidName(name string) string {
	return strings.TrimPrefix(name, ".")
}

// AvailableName is ValidName; the remote side assigns the final reference.
func (s *Store) AvailableName(name string) string {
	return s.ValidName(name)
}

func (s *Store) Path(name string) string {
	return name
}

// Save uploads content and returns the reference of the created video.
// The account quota is checked first so no bytes are sent when the upload cannot fit.
func (s *Store) Save(ctx context.Context, name string, content Content) (string, error) {
	size := content.Size()
	if err := s.checkQuota(ctx, size); err != nil {
		return "", err
	}
	name = s.ValidName(name)

	if tf, ok := content.(TemporaryFile); ok && tf.TemporaryFilePath() != "" {
		path := tf.TemporaryFilePath()
		s.log.Debug().Str("name", name).Str("path", path).Int64("bytes", size).Msg("uploading from existing file")
		return s.client.Upload(ctx, path, name)
	}
	return s.uploadViaTempFile(ctx, name, content)
}

func (s *Store) uploadViaTempFile(ctx context.Context, name string, content Content) (string, error) {
	tmp, err := os.CreateTemp(s.opts.TempDir, "vimeo-upload-*")
	if err != nil {
		return "", fmt.Errorf("create temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err := os.Remove(tmpPath); err != nil && !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("path", tmpPath).Msg("failed to remove temporary upload file")
		}
	}()

	var written int64
	err = content.Chunks(func(chunk []byte) error {
		if len(chunk) == 0 {
			return nil
		}
		n, err := tmp.Write(chunk)
		written += int64(n)
		return err
	})
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("buffer upload content: %w", err)
	}

	s.log.Debug().Str("name", name).Str("path", tmpPath).Int64("bytes", written).Msg("uploading from temporary file")
	return s.client.Upload(ctx, tmpPath, name)
}

func (s *Store) checkQuota(ctx context.Context, size int64) error {
	resp, err := s.get(ctx, "/me")
	if err != nil {
		return err
	}
	var account Account
	if err := json.Unmarshal(resp.Body, &account); err != nil {
		return fmt.Errorf("decode account: %w", err)
	}
	if account.UploadQuota == nil {
		return nil
	}
	space := account.UploadQuota.Space
	if space.Free < size {
		return &InsufficientSpaceError{
			SizeMB: float64(size) / bytesPerMB,
			FreeMB: float64(space.Free) / bytesPerMB,
			UsedMB: float64(space.Used) / bytesPerMB,
			MaxMB:  float64(space.Max) / bytesPerMB,
		}
	}
	return nil
}

// fetch issues an uncached GET and decodes the video object.
func (s *Store) fetch(ctx context.Context, ref string) (*Metadata, error) {
	resp, err := s.get(ctx, ref)
	if err != nil {
		return nil, err
	}
	return decodeMetadata(resp.Body)
}

func (s *Store) get(ctx context.Context, path string) (*APIResponse, error) {
	resp, err := s.client.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	if !json.Valid(resp.Body) {
		return nil, fmt.Errorf("vimeo API returned invalid JSON for %s", path)
	}
	return resp, nil
}

func decodeMetadata(raw []byte) (*Metadata, error) {
	var md Metadata
	if err := json.Unmarshal(raw, &md); err != nil {
		return nil, fmt.Errorf("decode video metadata: %w", err)
	}
	md.Raw = json.RawMessage(raw)
	return &md, nil
}

func largestFile(files []Variant) *Variant {
	if len(files) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(files); i++ {
		if files[i].Size > files[best].Size {
			best = i
		}
	}
	return &files[best]
}

func parseTime(value string) (time.Time, error) {
	if t, err := time.Parse(TimeLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", value, err)
	}
	return t.UTC(), nil
}

func isNotFound(resp *APIResponse) bool {
	return resp != nil && resp.StatusCode == 404
}

func metadataSeed(ref string) string {
	return cache.Seed("metadata", []any{ref}, nil)
}

func oembedSeed(ref string, opts map[string]string) string {
	kwargs := make(map[string]any, len(opts))
	for k, v := range opts {
		kwargs[k] = v
	}
	return cache.Seed("oembed", []any{ref}, kwargs)
}
