package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/janhq/vimeo-storage/internal/config"
	"github.com/janhq/vimeo-storage/internal/domain/library"
	"github.com/janhq/vimeo-storage/internal/domain/video"
)

type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source opens objects in an S3-compatible bucket as uploadable content.
type S3Source struct {
	bucket string
	client objectGetter
	log    zerolog.Logger
}

var _ library.ObjectSource = (*S3Source)(nil)

// NewS3Source returns nil when the bucket or credentials are missing.
func NewS3Source(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*S3Source, error) {
	logger := log.With().Str("component", "s3-source").Logger()
	if !cfg.S3Enabled() {
		logger.Warn().Msg("MEDIA_S3_BUCKET or credentials are not set; imports are disabled")
		return nil, nil
	}

	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if cfg.S3Endpoint != "" {
			return aws.Endpoint{
				URL:           cfg.S3Endpoint,
				PartitionID:   "aws",
				SigningRegion: cfg.S3Region,
			}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretKey, "")),
		awsconfig.WithEndpointResolverWithOptions(resolver),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.S3UsePathStyle
	})
	return newS3Source(cfg.S3Bucket, client, logger), nil
}

func newS3Source(bucket string, client objectGetter, log zerolog.Logger) *S3Source {
	return &S3Source{bucket: strings.TrimSpace(bucket), client: client, log: log}
}

// Open starts a GetObject and exposes its body as content of the declared length.
// The caller must close the returned closer.
func (s *S3Source) Open(ctx context.Context, key string) (video.Content, io.Closer, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, nil, err
	}
	size := aws.ToInt64(out.ContentLength)
	if size <= 0 {
		out.Body.Close()
		return nil, nil, fmt.Errorf("object %s has no declared length", key)
	}
	s.log.Debug().Str("bucket", s.bucket).Str("key", key).Int64("bytes", size).Msg("opened import object")
	return video.NewReaderContent(out.Body, size), out.Body, nil
}
