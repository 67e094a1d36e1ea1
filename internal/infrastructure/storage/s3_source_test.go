package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/vimeo-storage/internal/config"
)

type fakeGetter struct {
	input  *s3.GetObjectInput
	output *s3.GetObjectOutput
	err    error
}

func (f *fakeGetter) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.input = params
	return f.output, f.err
}

type trackingBody struct {
	io.Reader
	closed bool
}

func (b *trackingBody) Close() error {
	b.closed = true
	return nil
}

func TestS3SourceOpen(t *testing.T) {
	body := &trackingBody{Reader: strings.NewReader("video-bytes")}
	getter := &fakeGetter{output: &s3.GetObjectOutput{Body: body, ContentLength: aws.Int64(11)}}
	source := newS3Source(" uploads ", getter, zerolog.Nop())

	content, closer, err := source.Open(context.Background(), "incoming/clip.mp4")
	require.NoError(t, err)
	assert.Equal(t, "uploads", aws.ToString(getter.input.Bucket))
	assert.Equal(t, "incoming/clip.mp4", aws.ToString(getter.input.Key))
	assert.Equal(t, int64(11), content.Size())

	var got []byte
	require.NoError(t, content.Chunks(func(chunk []byte) error {
		got = append(got, chunk...)
		return nil
	}))
	assert.Equal(t, "video-bytes", string(got))

	require.NoError(t, closer.Close())
	assert.True(t, body.closed)
}

func TestS3SourceOpenWithoutLength(t *testing.T) {
	body := &trackingBody{Reader: strings.NewReader("")}
	getter := &fakeGetter{output: &s3.GetObjectOutput{Body: body}}
	source := newS3Source("uploads", getter, zerolog.Nop())

	_, _, err := source.Open(context.Background(), "empty.mp4")
	assert.Error(t, err)
	assert.True(t, body.closed)
}

func TestS3SourceOpenError(t *testing.T) {
	source := newS3Source("uploads", &fakeGetter{err: errors.New("NoSuchKey")}, zerolog.Nop())
	_, _, err := source.Open(context.Background(), "missing.mp4")
	assert.EqualError(t, err, "NoSuchKey")
}

func TestNewS3SourceDisabled(t *testing.T) {
	source, err := NewS3Source(context.Background(), &config.Config{S3Bucket: "uploads"}, zerolog.Nop())
	require.NoError(t, err)
	assert.Nil(t, source)
}
