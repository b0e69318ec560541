// Package loader provides implementations of the export-loading collaborator:
// fetching raw export bytes by opaque key from a directory, an S3-compatible
// blob store, or a local cache, and decoding them into the domain's export
// type. Everything fetch-related (rate limits, caching, backoff) lives here,
// never in the core.
package loader

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"packtracer/internal/draft"
)

// ErrNotFound indicates the key has no export behind it.
var ErrNotFound = errors.New("export not found")

// Fetcher retrieves raw export bytes by opaque key.
type Fetcher interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}

// ExportLoader adapts a Fetcher to the analysis.Loader contract by decoding
// fetched bytes into a parsed export.
type ExportLoader struct {
	fetcher Fetcher
	logger  *zap.Logger
}

// NewExportLoader wraps a fetcher. A nil logger disables logging.
func NewExportLoader(f Fetcher, logger *zap.Logger) *ExportLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportLoader{fetcher: f, logger: logger}
}

// LoadExport fetches and decodes the export stored under key.
func (l *ExportLoader) LoadExport(ctx context.Context, key string) (*draft.RawExport, error) {
	data, err := l.fetcher.Fetch(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("fetch export %q: %w", key, err)
	}
	export, err := draft.DecodeExport(data)
	if err != nil {
		return nil, fmt.Errorf("export %q: %w", key, err)
	}
	l.logger.Debug("export loaded",
		zap.String("key", key),
		zap.String("session_id", export.SessionID),
		zap.Int("users", len(export.Users)))
	return export, nil
}
