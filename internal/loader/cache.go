package loader

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	_ "modernc.org/sqlite" // SQLite driver
)

// CachingFetcherConfig configures the local export cache.
type CachingFetcherConfig struct {
	// Path is the file path to the SQLite cache database.
	Path string

	// TTL is how long a cached export stays fresh. Zero means entries never
	// expire, which is the sensible default: completed exports are immutable.
	TTL time.Duration

	// FetchInterval is the minimum spacing between upstream fetches. Zero
	// disables rate limiting.
	FetchInterval time.Duration
}

// CachingFetcher wraps another Fetcher with a SQLite-backed byte cache and a
// rate limit on upstream fetches. Exports are small JSON blobs, so the whole
// payload is stored as-is.
type CachingFetcher struct {
	upstream Fetcher
	db       *sql.DB
	ttl      time.Duration
	limiter  *rate.Limiter
	logger   *zap.Logger
}

// NewCachingFetcher opens (and migrates) the cache database and wraps the
// upstream fetcher. A nil logger disables logging.
func NewCachingFetcher(upstream Fetcher, cfg CachingFetcherConfig, logger *zap.Logger) (*CachingFetcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Path == "" {
		return nil, errors.New("cache path is required")
	}

	if err := migrateCache(cfg.Path); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("%s?_busy_timeout=%d&_journal_mode=WAL&_synchronous=NORMAL", cfg.Path, (5 * time.Second).Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping cache database: %w", err)
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.FetchInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.FetchInterval), 1)
	}

	return &CachingFetcher{
		upstream: upstream,
		db:       db,
		ttl:      cfg.TTL,
		limiter:  limiter,
		logger:   logger,
	}, nil
}

// Fetch returns the cached payload when fresh, otherwise fetches upstream
// (honoring the rate limit) and stores the result.
func (c *CachingFetcher) Fetch(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	var fetchedAt int64
	err := c.db.QueryRowContext(ctx,
		`SELECT payload, fetched_at FROM exports WHERE key = ?`, key,
	).Scan(&payload, &fetchedAt)
	switch {
	case err == nil:
		if c.ttl == 0 || time.Since(time.Unix(fetchedAt, 0)) < c.ttl {
			c.logger.Debug("cache hit", zap.String("key", key))
			return payload, nil
		}
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("query cache: %w", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	data, err := c.upstream.Fetch(ctx, key)
	if err != nil {
		return nil, err
	}

	_, err = c.db.ExecContext(ctx,
		`INSERT INTO exports (key, payload, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`,
		key, data, time.Now().Unix(),
	)
	if err != nil {
		// A write failure costs a re-fetch later, not the result.
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	return data, nil
}

// Close releases the cache database.
func (c *CachingFetcher) Close() error {
	return c.db.Close()
}
