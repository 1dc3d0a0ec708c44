// Package app wires configuration into the stores and loader used by the CLI.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/p-n-ai/cbt-study/internal/blacklist"
	"github.com/p-n-ai/cbt-study/internal/exam"
	"github.com/p-n-ai/cbt-study/internal/platform/cache"
	"github.com/p-n-ai/cbt-study/internal/platform/config"
	"github.com/p-n-ai/cbt-study/internal/platform/database"
	"github.com/p-n-ai/cbt-study/internal/results"
	"github.com/p-n-ai/cbt-study/internal/storage"
)

// App holds the wired components of a study session.
type App struct {
	Loader    *exam.Loader
	Blacklist *blacklist.Store
	Results   *results.Store
	Logger    *slog.Logger

	closers []func()
}

// New connects the configured backends. Call Close when done.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	a := &App{Logger: logger}

	var redisCache *cache.Cache
	if cfg.Storage.Driver == config.DriverRedis || cfg.PartCacheEnabled() {
		c, err := cache.New(ctx, cfg.Cache.URL)
		if err != nil {
			return nil, fmt.Errorf("connect cache: %w", err)
		}
		redisCache = c
		a.closers = append(a.closers, func() { _ = c.Close() })
	}

	docs, err := a.openStorage(ctx, cfg, redisCache)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Blacklist = blacklist.NewStore(docs, blacklist.WithLogger(logger))
	a.Results = results.NewStore(docs, results.WithLogger(logger))

	var source exam.Source
	if cfg.Data.URL != "" {
		var opts []exam.HTTPOption
		if cfg.Data.Timeout > 0 {
			opts = append(opts, exam.WithTimeout(cfg.Data.Timeout))
		}
		source = exam.NewHTTPSource(cfg.Data.URL, opts...)
	} else {
		source = exam.NewDirSource(cfg.Data.Dir)
	}
	if cfg.PartCacheEnabled() {
		source = exam.NewCachedSource(source, redisCache, cfg.Cache.TTL, logger)
	}

	a.Loader = exam.NewLoader(source, a.Blacklist,
		exam.WithLogger(logger),
		exam.WithDefaultFolders(cfg.Data.Folders),
	)

	logger.Debug("app ready",
		"storage", cfg.Storage.Driver,
		"data_dir", cfg.Data.Dir,
		"data_url", cfg.Data.URL,
		"part_cache", cfg.PartCacheEnabled(),
	)
	return a, nil
}

func (a *App) openStorage(ctx context.Context, cfg *config.Config, redisCache *cache.Cache) (storage.Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		return storage.NewMemoryStore(), nil

	case config.DriverRedis:
		return storage.NewRedisStore(redisCache.Client, ""), nil

	case config.DriverPostgres:
		db, err := database.New(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		if err := db.Migrate(ctx); err != nil {
			return nil, err
		}
		return storage.NewPostgresStore(db.Pool)

	default:
		dir := cfg.Storage.Dir
		if dir == "" {
			dir = DefaultStorageDir()
		}
		return storage.NewFileStore(dir)
	}
}

// DefaultStorageDir is ~/.cbt-study, or ./.cbt-study when there is no home directory.
func DefaultStorageDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".cbt-study"
	}
	return filepath.Join(home, ".cbt-study")
}

// Close releases backend connections in reverse order of opening.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
