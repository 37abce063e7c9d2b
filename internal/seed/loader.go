package seed

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for seed documents on the local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based seed loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "seed-file-loader").Logger(),
	}
}

// Load reads a seed document from filePath.
func (l *fileLoader) Load(ctx context.Context, filePath string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.logger.Info().Str("file", filePath).Msg("loading seed file")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open seed file")
		return nil, fmt.Errorf("failed to open seed file %s: %w", filePath, err)
	}
	defer file.Close()

	doc, err := Decode(file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to read seed file")
		return nil, fmt.Errorf("seed file %s: %w", filePath, err)
	}

	l.logger.Info().
		Str("file", filePath).
		Int("categories", len(doc.Categories)).
		Int("products", len(doc.Products)).
		Msg("seed file loaded successfully")

	return doc, nil
}

// fallbackLoader tries a remote loader first, then the local file system.
type fallbackLoader struct {
	remote       Loader
	remoteSource string
	local        Loader
	logger       zerolog.Logger
}

// NewFallbackLoader creates a loader that asks remote for remoteSource and
// falls back to local with the path passed to Load. If remote is nil, only
// the local loader is used.
func NewFallbackLoader(remote Loader, remoteSource string, local Loader, logger zerolog.Logger) Loader {
	return &fallbackLoader{
		remote:       remote,
		remoteSource: remoteSource,
		local:        local,
		logger:       logger.With().Str("component", "seed-fallback-loader").Logger(),
	}
}

// Load attempts the remote source first, then filePath on the local file system.
func (l *fallbackLoader) Load(ctx context.Context, filePath string) (*Document, error) {
	if l.remote != nil {
		l.logger.Info().
			Str("remote_source", l.remoteSource).
			Str("local_fallback", filePath).
			Msg("attempting to load remote seed")

		doc, err := l.remote.Load(ctx, l.remoteSource)
		if err == nil {
			return doc, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		l.logger.Warn().
			Err(err).
			Str("remote_source", l.remoteSource).
			Msg("failed to load remote seed, falling back to local file system")
	}

	return l.local.Load(ctx, filePath)
}
