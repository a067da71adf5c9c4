package catalog

import (
	"context"
	"fmt"

	"pricebench/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// ObjectGetter is the subset of the S3 client used to fetch snapshots.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// s3Loader implements Loader for gzipped snapshots stored in S3.
type s3Loader struct {
	client ObjectGetter
	bucket string
	logger zerolog.Logger
}

// NewS3Loader creates an S3 loader using the default AWS credential chain.
func NewS3Loader(ctx context.Context, bucket, region string, logger zerolog.Logger) (Loader, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 snapshot loader initialised")

	return NewS3LoaderWithClient(s3.NewFromConfig(cfg), bucket, logger), nil
}

// NewS3LoaderWithClient creates an S3 loader around an existing client.
func NewS3LoaderWithClient(client ObjectGetter, bucket string, logger zerolog.Logger) Loader {
	return &s3Loader{
		client: client,
		bucket: bucket,
		logger: logger.With().Str("component", "catalog-s3-loader").Logger(),
	}
}

// Load fetches and decodes the object at key.
func (l *s3Loader) Load(ctx context.Context, key string) (*model.CatalogSnapshot, error) {
	l.logger.Info().
		Str("bucket", l.bucket).
		Str("key", key).
		Msg("loading catalog snapshot from S3")

	result, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		l.logger.Error().
			Err(err).
			Str("bucket", l.bucket).
			Str("key", key).
			Msg("failed to get object from S3")
		return nil, fmt.Errorf("failed to get object from S3 (bucket=%s, key=%s): %w", l.bucket, key, err)
	}
	defer result.Body.Close()

	snapshot, err := Decode(ctx, result.Body)
	if err != nil {
		l.logger.Error().
			Err(err).
			Str("bucket", l.bucket).
			Str("key", key).
			Msg("failed to decode snapshot from S3")
		return nil, fmt.Errorf("failed to decode S3 object %s: %w", key, err)
	}

	l.logger.Info().
		Str("bucket", l.bucket).
		Str("key", key).
		Int("customers", len(snapshot.Customers)).
		Int("products", len(snapshot.Products)).
		Msg("catalog snapshot loaded from S3")

	return snapshot, nil
}

// fallbackLoader tries S3 first, then the local file system.
type fallbackLoader struct {
	s3Loader   Loader
	fileLoader Loader
	s3Key      string
	logger     zerolog.Logger
}

// NewFallbackLoader creates a loader that reads s3Key through s3Loader and,
// on failure, the path passed to Load through fileLoader. A nil s3Loader
// means local only.
func NewFallbackLoader(s3Loader, fileLoader Loader, s3Key string, logger zerolog.Logger) Loader {
	return &fallbackLoader{
		s3Loader:   s3Loader,
		fileLoader: fileLoader,
		s3Key:      s3Key,
		logger:     logger.With().Str("component", "catalog-fallback-loader").Logger(),
	}
}

func (l *fallbackLoader) Load(ctx context.Context, filePath string) (*model.CatalogSnapshot, error) {
	if l.s3Loader != nil {
		snapshot, err := l.s3Loader.Load(ctx, l.s3Key)
		if err == nil {
			return snapshot, nil
		}

		l.logger.Warn().
			Err(err).
			Str("s3_key", l.s3Key).
			Str("local_fallback", filePath).
			Msg("failed to load from S3, falling back to local file system")
	}

	if filePath == "" {
		return nil, fmt.Errorf("no local snapshot path configured")
	}

	return l.fileLoader.Load(ctx, filePath)
}
