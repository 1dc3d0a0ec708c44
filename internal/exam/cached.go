package exam

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/p-n-ai/cbt-study/internal/platform/cache"
)

// Cache is the subset of cache.Cache used to keep fetched part files.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
}

// CachedSource keeps raw part files from a slower source in Redis. Missing parts are
// not cached, so a file added later shows up on the next fetch.
type CachedSource struct {
	inner  Source
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedSource wraps inner. Cache failures are logged and fall through to inner.
func NewCachedSource(inner Source, c Cache, ttl time.Duration, logger *slog.Logger) *CachedSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedSource{inner: inner, cache: c, ttl: ttl, logger: logger}
}

func cacheKey(folderName string, partNumber int) string {
	return fmt.Sprintf("cbt:part:%s:%d", folderName, partNumber)
}

func (s *CachedSource) Fetch(ctx context.Context, folderName string, partNumber int) (Resource, error) {
	key := cacheKey(folderName, partNumber)

	data, err := s.cache.Get(ctx, key)
	switch {
	case err == nil && len(data) > 0:
		return Resource{Format: Format(data[0]), Data: data[1:]}, nil
	case err != nil && !errors.Is(err, cache.ErrMiss):
		s.logger.Warn("part cache read failed", "key", key, "error", err)
	}

	res, err := s.inner.Fetch(ctx, folderName, partNumber)
	if err != nil {
		return Resource{}, err
	}

	entry := append([]byte{byte(res.Format)}, res.Data...)
	if err := s.cache.Set(ctx, key, entry, s.ttl); err != nil {
		s.logger.Warn("part cache write failed", "key", key, "error", err)
	}
	return res, nil
}

func (s *CachedSource) Folders(ctx context.Context) ([]string, error) {
	return s.inner.Folders(ctx)
}
