package sqlstore

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-ordersync/core"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
)

const scanCursorCacheKeyPrefix = "go-ordersync::scan_cursor::v1"

// CachedScanCursorStore layers a read-through cache over a durable
// cursor store. Writes invalidate the cached entry so the next read
// refetches from the base store.
type CachedScanCursorStore struct {
	base  core.ScanCursorStore
	cache repositorycache.CacheService
}

func NewCachedScanCursorStore(
	base core.ScanCursorStore,
	cacheService repositorycache.CacheService,
) (*CachedScanCursorStore, error) {
	if base == nil {
		return nil, fmt.Errorf("sqlstore: base scan cursor store is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("sqlstore: scan cursor cache service is required")
	}
	return &CachedScanCursorStore{base: base, cache: cacheService}, nil
}

// ScanCursorCacheKey returns the deterministic cache key contract for
// cursor reads: go-ordersync::scan_cursor::v1::<scope_key> with the
// scope key URL-path escaped.
func ScanCursorCacheKey(scopeKey string) (string, error) {
	scopeKey = strings.TrimSpace(scopeKey)
	if scopeKey == "" {
		return "", fmt.Errorf("sqlstore: cursor scope key is required")
	}
	return scanCursorCacheKeyPrefix + "::" + url.PathEscape(scopeKey), nil
}

func (s *CachedScanCursorStore) Get(ctx context.Context, scopeKey string) (int64, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return 0, fmt.Errorf("sqlstore: cached scan cursor store is not configured")
	}
	cacheKey, err := ScanCursorCacheKey(scopeKey)
	if err != nil {
		return 0, err
	}
	return repositorycache.GetOrFetch(ctx, s.cache, cacheKey, func(ctx context.Context) (int64, error) {
		return s.base.Get(ctx, strings.TrimSpace(scopeKey))
	})
}

func (s *CachedScanCursorStore) Set(ctx context.Context, scopeKey string, timestampMillis int64) error {
	if s == nil || s.base == nil || s.cache == nil {
		return fmt.Errorf("sqlstore: cached scan cursor store is not configured")
	}
	cacheKey, err := ScanCursorCacheKey(scopeKey)
	if err != nil {
		return err
	}
	if err := s.base.Set(ctx, strings.TrimSpace(scopeKey), timestampMillis); err != nil {
		return err
	}
	return s.cache.Delete(ctx, cacheKey)
}

func (s *CachedScanCursorStore) Clear(ctx context.Context, scopeKey string) error {
	if s == nil || s.base == nil || s.cache == nil {
		return fmt.Errorf("sqlstore: cached scan cursor store is not configured")
	}
	cacheKey, err := ScanCursorCacheKey(scopeKey)
	if err != nil {
		return err
	}
	if err := s.base.Clear(ctx, strings.TrimSpace(scopeKey)); err != nil {
		return err
	}
	return s.cache.Delete(ctx, cacheKey)
}

var _ core.ScanCursorStore = (*CachedScanCursorStore)(nil)
