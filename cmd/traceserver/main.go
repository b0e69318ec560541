// Package main runs the draft provenance API server: a thin host around the
// analysis library that owns delivery over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"packtracer/internal/api"
	"packtracer/internal/config"
	"packtracer/internal/loader"
)

var configPath = flag.String("config", "", "Path to config file (default: ~/.packtracer/config.toml)")

func main() {
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid config", zap.Error(err))
	}

	fetcher, cleanup, err := buildFetcher(cfg, logger)
	if err != nil {
		logger.Fatal("configure export source", zap.Error(err))
	}
	defer cleanup()

	exportLoader := loader.NewExportLoader(fetcher, logger)
	server := api.NewServer(api.Config{Addr: cfg.Server.ListenAddr}, exportLoader, logger)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Warn("shutdown", zap.Error(err))
		}
	}()

	if err := server.Start(); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func loadConfig() (*config.Config, error) {
	if *configPath != "" {
		return config.LoadFrom(*configPath)
	}
	return config.Load()
}

// buildFetcher assembles the export source from config: S3 when enabled,
// otherwise a local export directory, optionally wrapped in the SQLite cache.
func buildFetcher(cfg *config.Config, logger *zap.Logger) (loader.Fetcher, func(), error) {
	var fetcher loader.Fetcher
	switch {
	case cfg.Loader.S3.Enabled:
		s3f, err := loader.NewS3Fetcher(context.Background(), loader.S3FetcherConfig{
			Endpoint:        cfg.Loader.S3.Endpoint,
			Region:          cfg.Loader.S3.Region,
			Bucket:          cfg.Loader.S3.Bucket,
			KeyPrefix:       cfg.Loader.S3.KeyPrefix,
			AccessKeyID:     cfg.Loader.S3.AccessKeyID,
			SecretAccessKey: cfg.Loader.S3.SecretAccessKey,
		})
		if err != nil {
			return nil, nil, err
		}
		fetcher = s3f
	case cfg.Loader.ExportDir != "":
		fetcher = loader.NewFileFetcher(cfg.Loader.ExportDir)
	default:
		return nil, nil, errors.New("no export source configured: set loader.export_dir or enable loader.s3")
	}

	cleanup := func() {}
	if cfg.Loader.Cache.Enabled {
		ttl, err := cfg.GetCacheTTL()
		if err != nil {
			return nil, nil, err
		}
		interval, err := cfg.GetFetchInterval()
		if err != nil {
			return nil, nil, err
		}
		cache, err := loader.NewCachingFetcher(fetcher, loader.CachingFetcherConfig{
			Path:          cfg.Loader.Cache.Path,
			TTL:           ttl,
			FetchInterval: interval,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		fetcher = cache
		cleanup = func() { cache.Close() }
	}
	return fetcher, cleanup, nil
}
