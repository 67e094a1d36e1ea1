package library

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/janhq/vimeo-storage/internal/domain/video"
	"github.com/janhq/vimeo-storage/utils/videoid"
)

// Repository defines persistence operations for saved references.
type Repository interface {
	Create(ctx context.Context, record *Record) error
	GetByID(ctx context.Context, id string) (*Record, error)
	List(ctx context.Context) ([]Record, error)
	Delete(ctx context.Context, id string) error
}

// Storage is the part of the video store the library needs.
type Storage interface {
	Save(ctx context.Context, name string, content video.Content) (string, error)
	Delete(ctx context.Context, ref string) error
}

// ObjectSource opens objects held outside the service, e.g. in a bucket.
type ObjectSource interface {
	Open(ctx context.Context, key string) (video.Content, io.Closer, error)
}

// Service uploads videos and keeps track of the references they were given.
type Service struct {
	repo    Repository
	storage Storage
	source  ObjectSource
	log     zerolog.Logger
}

// NewService builds the library service. source may be nil, which disables Import.
func NewService(repo Repository, storage Storage, source ObjectSource, log zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		storage: storage,
		source:  source,
		log:     log.With().Str("component", "library-service").Logger(),
	}
}

// Upload saves content remotely and records the assigned reference.
func (s *Service) Upload(ctx context.Context, title, filename string, content video.Content) (*Record, error) {
	if content.Size() <= 0 {
		return nil, errors.New("file is empty")
	}
	ref, err := s.storage.Save(ctx, filename, content)
	if err != nil {
		return nil, err
	}
	return s.record(ctx, title, filename, ref, content.Size())
}

// Import streams an object from the configured source into the remote store.
func (s *Service) Import(ctx context.Context, title, key string) (*Record, error) {
	if s.source == nil {
		return nil, ErrImportDisabled
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, errors.New("source key is required")
	}

	content, closer, err := s.source.Open(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("open source object %s: %w", key, err)
	}
	defer closer.Close()

	return s.Upload(ctx, title, key[strings.LastIndex(key, "/")+1:], content)
}

func (s *Service) List(ctx context.Context) ([]Record, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Record, error) {
	return s.repo.GetByID(ctx, id)
}

// Delete removes the remote video and then its record.
func (s *Service) Delete(ctx context.Context, id string) error {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, record.Reference); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) record(ctx context.Context, title, filename, ref string, size int64) (*Record, error) {
	if strings.TrimSpace(title) == "" {
		title = filename
	}
	now := time.Now().UTC()
	record := &Record{
		ID:        videoid.New(),
		Title:     title,
		Reference: ref,
		Bytes:     size,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		s.log.Error().Err(err).Str("reference", ref).Msg("video uploaded but record could not be stored")
		return nil, err
	}
	s.log.Info().Str("id", record.ID).Str("reference", ref).Int64("bytes", size).Msg("video saved")
	return record, nil
}
