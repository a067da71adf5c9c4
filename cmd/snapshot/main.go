// Command snapshot writes the reference catalog as a gzipped snapshot file
// and optionally uploads it to S3.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pricebench/internal/catalog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

func main() {
	out := flag.String("out", "data/catalog.gz", "path of the snapshot file to write")
	customers := flag.Int("customers", 1000, "number of customers to generate")
	products := flag.Int("products", 100, "number of products to generate")
	bucket := flag.String("s3-bucket", "", "upload the snapshot to this bucket when set")
	key := flag.String("s3-key", "catalog/catalog.gz", "object key used for the upload")
	region := flag.String("s3-region", "us-east-1", "region of the bucket")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	if *customers < 0 || *products < 0 {
		logger.Fatal().Msg("customers and products must not be negative")
	}

	data, err := encode(*customers, *products)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to encode snapshot")
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		logger.Fatal().Err(err).Msg("failed to create output directory")
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		logger.Fatal().Err(err).Str("path", *out).Msg("failed to write snapshot")
	}

	logger.Info().
		Str("path", *out).
		Int("customers", *customers).
		Int("products", *products).
		Int("bytes", len(data)).
		Msg("snapshot written")

	if *bucket == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := upload(ctx, *bucket, *key, *region, data); err != nil {
		logger.Fatal().Err(err).Str("bucket", *bucket).Str("key", *key).Msg("failed to upload snapshot")
	}

	logger.Info().Str("bucket", *bucket).Str("key", *key).Msg("snapshot uploaded")
}

func encode(customers, products int) ([]byte, error) {
	var buf bytes.Buffer
	if err := catalog.Encode(&buf, catalog.Generate(customers, products)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func upload(ctx context.Context, bucket, key, region string, data []byte) error {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return fmt.Errorf("failed to load AWS config: %w", err)
	}

	_, err = s3.NewFromConfig(cfg).PutObject(ctx, &s3.PutObjectInput{
		Bucket:          aws.String(bucket),
		Key:             aws.String(key),
		Body:            bytes.NewReader(data),
		ContentType:     aws.String("application/gzip"),
	})
	if err != nil {
		return fmt.Errorf("failed to put object: %w", err)
	}
	return nil
}
