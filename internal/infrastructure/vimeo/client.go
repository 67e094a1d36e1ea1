package vimeo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/janhq/vimeo-storage/internal/config"
	"github.com/janhq/vimeo-storage/internal/domain/video"
	"github.com/janhq/vimeo-storage/internal/infrastructure/metrics"
)

const (
	acceptHeader     = "application/vnd.vimeo.*+json;version=3.4"
	tusVersion       = "1.0.0"
	defaultChunkSize = 128 * 1024 * 1024
)

// Config holds the connection settings of the API client.
type Config struct {
	APIURL       string
	AccessToken  string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
	ChunkSize    int64
}

// ConfigFromEnv maps the service configuration onto client settings.
func ConfigFromEnv(cfg *config.Config) Config {
	return Config{
		APIURL:       cfg.VimeoAPIURL,
		AccessToken:  cfg.VimeoAccessToken,
		ClientID:     cfg.VimeoClientID,
		ClientSecret: cfg.VimeoClientSecret,
		Timeout:      cfg.VimeoRequestTimeout,
		ChunkSize:    cfg.VimeoUploadChunk,
	}
}

// Client talks to the Vimeo REST API. The underlying HTTP client is built on first use.
type Client struct {
	cfg    Config
	log    zerolog.Logger
	tracer trace.Tracer

	once sync.Once
	http *resty.Client
}

var _ video.Client = (*Client)(nil)

func NewClient(cfg Config, log zerolog.Logger) *Client {
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if cfg.APIURL == "" {
		cfg.APIURL = "https://api.vimeo.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = defaultChunkSize
	}
	return &Client{
		cfg:    cfg,
		log:    log.With().Str("component", "vimeo-client").Logger(),
		tracer: otel.Tracer("github.com/janhq/vimeo-storage/internal/infrastructure/vimeo"),
	}
}

func (c *Client) client() *resty.Client {
	c.once.Do(func() {
		rc := resty.New().
			SetBaseURL(c.cfg.APIURL).
			SetHeader("Accept", acceptHeader).
			SetHeader("User-Agent", "vimeo-storage/1.0").
			SetTimeout(c.cfg.Timeout)
		if c.cfg.AccessToken != "" {
			rc.SetAuthScheme("bearer").SetAuthToken(c.cfg.AccessToken)
		} else if c.cfg.ClientID != "" {
			rc.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)
		}
		c.http = rc
	})
	return c.http
}

// Get issues an authenticated GET on an API path.
func (c *Client) Get(ctx context.Context, path string) (*video.APIResponse, error) {
	return c.do(ctx, "get", func(req *resty.Request) (*resty.Response, error) {
		return req.Get(apiPath(path))
	})
}

// Delete issues an authenticated DELETE on an API path.
func (c *Client) Delete(ctx context.Context, path string) (*video.APIResponse, error) {
	return c.do(ctx, "delete", func(req *resty.Request) (*resty.Response, error) {
		return req.Delete(apiPath(path))
	})
}

// OEmbed issues a GET against an absolute oEmbed endpoint.
func (c *Client) OEmbed(ctx context.Context, endpoint string, params url.Values) (*video.APIResponse, error) {
	return c.do(ctx, "oembed", func(req *resty.Request) (*resty.Response, error) {
		return req.SetQueryParamsFromValues(params).Get(endpoint)
	})
}

type createVideoRequest struct {
	Name   string       `json:"name,omitempty"`
	Upload uploadTicket `json:"upload"`
}

type uploadTicket struct {
	Approach   string `json:"approach"`
	Size       int64  `json:"size"`
	UploadLink string `json:"upload_link,omitempty"`
}

type createVideoResponse struct {
	URI    string       `json:"uri"`
	Upload uploadTicket `json:"upload"`
}

// Upload creates a video with a tus upload ticket and sends the file at filePath in chunks.
// It returns the URI of the created video.
func (c *Client) Upload(ctx context.Context, filePath string, name string) (string, error) {
	ctx, span := c.tracer.Start(ctx, "vimeo.upload", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	ref, err := c.upload(ctx, filePath, name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	span.SetAttributes(attribute.String("vimeo.uri", ref))
	return ref, nil
}

func (c *Client) upload(ctx context.Context, filePath, name string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("open upload file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat upload file: %w", err)
	}
	size := info.Size()
	if name == "" {
		name = filepath.Base(filePath)
	}

	var created createVideoResponse
	start := time.Now()
	resp, err := c.client().R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(createVideoRequest{Name: name, Upload: uploadTicket{Approach: "tus", Size: size}}).
		SetResult(&created).
		Post("/me/videos")
	if err != nil {
		metrics.RecordAPICall("upload_create", "error", time.Since(start).Seconds())
		return "", fmt.Errorf("vimeo create video request failed: %w", err)
	}
	metrics.RecordAPICall("upload_create", strconv.Itoa(resp.StatusCode()), time.Since(start).Seconds())
	if resp.IsError() {
		return "", &video.RemoteAPIError{StatusCode: resp.StatusCode(), Status: resp.Status(), Body: resp.String()}
	}
	if created.Upload.UploadLink == "" || created.URI == "" {
		return "", errors.New("vimeo create video response has no upload link")
	}

	if err := c.sendChunks(ctx, created.Upload.UploadLink, f, size); err != nil {
		return "", err
	}
	c.log.Info().Str("uri", created.URI).Int64("bytes", size).Msg("upload complete")
	return created.URI, nil
}

// sendChunks PATCHes the file to the tus endpoint, resuming from the offset the server reports
// until it has received every byte.
func (c *Client) sendChunks(ctx context.Context, link string, f *os.File, size int64) error {
	var offset int64
	buf := make([]byte, min(c.cfg.ChunkSize, size))
	for offset < size {
		n, err := f.ReadAt(buf, offset)
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read upload file: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("upload file shorter than %d bytes", size)
		}

		start := time.Now()
		resp, err := c.client().R().
			SetContext(ctx).
			SetHeader("Tus-Resumable", tusVersion).
			SetHeader("Upload-Offset", strconv.FormatInt(offset, 10)).
			SetHeader("Content-Type", "application/offset+octet-stream").
			SetBody(buf[:n]).
			Patch(link)
		if err != nil {
			metrics.RecordAPICall("upload_chunk", "error", time.Since(start).Seconds())
			return fmt.Errorf("vimeo upload chunk failed: %w", err)
		}
		metrics.RecordAPICall("upload_chunk", strconv.Itoa(resp.StatusCode()), time.Since(start).Seconds())
		if resp.IsError() {
			return &video.RemoteAPIError{StatusCode: resp.StatusCode(), Status: resp.Status(), Body: resp.String()}
		}

		next, err := strconv.ParseInt(resp.Header().Get("Upload-Offset"), 10, 64)
		if err != nil {
			return fmt.Errorf("vimeo upload response has no offset: %w", err)
		}
		if next <= offset {
			return fmt.Errorf("vimeo upload stalled at offset %d", offset)
		}
		c.log.Debug().Int64("offset", next).Int64("size", size).Msg("upload chunk accepted")
		offset = next
	}
	return nil
}

func (c *Client) do(ctx context.Context, operation string, send func(*resty.Request) (*resty.Response, error)) (*video.APIResponse, error) {
	ctx, span := c.tracer.Start(ctx, "vimeo."+operation, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	start := time.Now()
	resp, err := send(c.client().R().SetContext(ctx))
	elapsed := time.Since(start).Seconds()
	if err != nil {
		metrics.RecordAPICall(operation, "error", elapsed)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("vimeo %s request failed: %w", operation, err)
	}

	metrics.RecordAPICall(operation, strconv.Itoa(resp.StatusCode()), elapsed)
	span.SetAttributes(
		attribute.String("http.url", resp.Request.URL),
		attribute.Int("http.status_code", resp.StatusCode()),
	)
	if resp.StatusCode() >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, resp.Status())
	}

	return &video.APIResponse{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Body:       resp.Body(),
	}, nil
}

func apiPath(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") || strings.HasPrefix(path, "/") {
		return path
	}
	return "/" + path
}
