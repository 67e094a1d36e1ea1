package library_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/vimeo-storage/internal/domain/library"
	"github.com/janhq/vimeo-storage/internal/domain/video"
	repo "github.com/janhq/vimeo-storage/internal/infrastructure/repository/video"
)

type fakeStorage struct {
	saved     []string
	deleted   []string
	saveErr   error
	deleteErr error
}

func (f *fakeStorage) Save(_ context.Context, name string, content video.Content) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	f.saved = append(f.saved, name)
	return "/videos/" + name, nil
}

func (f *fakeStorage) Delete(_ context.Context, ref string) error {
	f.deleted = append(f.deleted, ref)
	return f.deleteErr
}

type fakeSource struct {
	keys   []string
	closed bool
}

func (f *fakeSource) Open(_ context.Context, key string) (video.Content, io.Closer, error) {
	f.keys = append(f.keys, key)
	return video.NewReaderContent(strings.NewReader("abc"), 3), closerFunc(func() error {
		f.closed = true
		return nil
	}), nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestServiceUpload(t *testing.T) {
	storage := &fakeStorage{}
	svc := library.NewService(repo.NewMemoryRepository(), storage, nil, zerolog.Nop())
	ctx := context.Background()

	record, err := svc.Upload(ctx, "", "clip.mp4", video.NewReaderContent(strings.NewReader("data"), 4))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(record.ID, "vid_"))
	assert.Equal(t, "clip.mp4", record.Title)
	assert.Equal(t, "/videos/clip.mp4", record.Reference)
	assert.Equal(t, int64(4), record.Bytes)

	got, err := svc.Get(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.Reference, got.Reference)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestServiceUploadRejectsEmptyContent(t *testing.T) {
	storage := &fakeStorage{}
	svc := library.NewService(repo.NewMemoryRepository(), storage, nil, zerolog.Nop())

	_, err := svc.Upload(context.Background(), "t", "clip.mp4", video.NewReaderContent(strings.NewReader(""), 0))
	assert.Error(t, err)
	assert.Empty(t, storage.saved)
}

func TestServiceUploadStorageError(t *testing.T) {
	repository := repo.NewMemoryRepository()
	svc := library.NewService(repository, &fakeStorage{saveErr: &video.InsufficientSpaceError{SizeMB: 2}}, nil, zerolog.Nop())

	_, err := svc.Upload(context.Background(), "t", "clip.mp4", video.NewReaderContent(strings.NewReader("data"), 4))
	var spaceErr *video.InsufficientSpaceError
	assert.ErrorAs(t, err, &spaceErr)

	list, err := repository.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestServiceImport(t *testing.T) {
	source := &fakeSource{}
	storage := &fakeStorage{}
	svc := library.NewService(repo.NewMemoryRepository(), storage, source, zerolog.Nop())

	record, err := svc.Import(context.Background(), "Launch", "incoming/2024/launch.mp4")
	require.NoError(t, err)
	assert.Equal(t, "Launch", record.Title)
	assert.Equal(t, []string{"incoming/2024/launch.mp4"}, source.keys)
	assert.Equal(t, []string{"launch.mp4"}, storage.saved)
	assert.True(t, source.closed)
}

func TestServiceImportDisabled(t *testing.T) {
	svc := library.NewService(repo.NewMemoryRepository(), &fakeStorage{}, nil, zerolog.Nop())
	_, err := svc.Import(context.Background(), "", "a.mp4")
	assert.ErrorIs(t, err, library.ErrImportDisabled)
}

func TestServiceDelete(t *testing.T) {
	ctx := context.Background()
	storage := &fakeStorage{}
	svc := library.NewService(repo.NewMemoryRepository(), storage, nil, zerolog.Nop())

	record, err := svc.Upload(ctx, "t", "clip.mp4", video.NewReaderContent(strings.NewReader("data"), 4))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, record.ID))
	assert.Equal(t, []string{"/videos/clip.mp4"}, storage.deleted)

	_, err = svc.Get(ctx, record.ID)
	assert.ErrorIs(t, err, library.ErrRecordNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, record.ID), library.ErrRecordNotFound)
}

func TestServiceDeleteKeepsRecordWhenRemoteFails(t *testing.T) {
	ctx := context.Background()
	storage := &fakeStorage{}
	svc := library.NewService(repo.NewMemoryRepository(), storage, nil, zerolog.Nop())

	record, err := svc.Upload(ctx, "t", "clip.mp4", video.NewReaderContent(strings.NewReader("data"), 4))
	require.NoError(t, err)

	storage.deleteErr = errors.New("vimeo unavailable")
	assert.Error(t, svc.Delete(ctx, record.ID))

	_, err = svc.Get(ctx, record.ID)
	assert.NoError(t, err)
}
