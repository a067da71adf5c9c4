package catalog

import (
	"context"
	"fmt"
	"os"

	"pricebench/internal/model"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for gzipped snapshots on the local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based snapshot loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "catalog-file-loader").Logger(),
	}
}

func (l *fileLoader) Load(ctx context.Context, filePath string) (*model.CatalogSnapshot, error) {
	l.logger.Info().Str("file", filePath).Msg("loading catalog snapshot")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open snapshot file")
		return nil, fmt.Errorf("failed to open snapshot file %s: %w", filePath, err)
	}
	defer file.Close()

	snapshot, err := Decode(ctx, file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to decode snapshot file")
		return nil, fmt.Errorf("failed to decode snapshot file %s: %w", filePath, err)
	}

	l.logger.Info().
		Str("file", filePath).
		Int("customers", len(snapshot.Customers)).
		Int("products", len(snapshot.Products)).
		Msg("catalog snapshot loaded")

	return snapshot, nil
}
