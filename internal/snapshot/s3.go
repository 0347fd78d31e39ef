package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// objectAPI is the subset of the S3 client used for snapshots.
type objectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// s3Backend implements Backend on top of an S3 bucket.
type s3Backend struct {
	client objectAPI
	bucket string
	prefix string
	logger zerolog.Logger
}

// NewS3Backend creates an S3-backed snapshot store using the default AWS
// credential chain.
func NewS3Backend(ctx context.Context, bucket, region, prefix string, logger zerolog.Logger) (Backend, error) {
	logger = logger.With().Str("component", "s3-snapshot").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Str("prefix", prefix).
		Msg("S3 snapshot backend initialised")

	return newS3Backend(s3.NewFromConfig(cfg), bucket, prefix, logger), nil
}

func newS3Backend(client objectAPI, bucket, prefix string, logger zerolog.Logger) *s3Backend {
	return &s3Backend{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}
}

// key returns the object key holding the named collection.
func (b *s3Backend) key(name string) string {
	return b.prefix + name + ".json"
}

// Load fetches the snapshot object for name.
func (b *s3Backend) Load(ctx context.Context, name string) ([]byte, error) {
	key := b.key(name)

	result, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object from S3 (bucket=%s, key=%s): %w", b.bucket, key, err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read S3 object %s: %w", key, err)
	}

	b.logger.Debug().
		Str("key", key).
		Int("bytes", len(data)).
		Msg("snapshot loaded from S3")

	return data, nil
}

// Save uploads data as the snapshot object for name.
func (b *s3Backend) Save(ctx context.Context, name string, data []byte) error {
	key := b.key(name)

	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to put object to S3 (bucket=%s, key=%s): %w", b.bucket, key, err)
	}

	b.logger.Debug().
		Str("key", key).
		Int("bytes", len(data)).
		Msg("snapshot saved to S3")

	return nil
}
