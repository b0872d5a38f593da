package sqlstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	repositorycache "github.com/goliatone/go-repository-cache/cache"
)

type stubScanCursorStore struct {
	mu         sync.Mutex
	values     map[string]int64
	getCalls   int
	setCalls   int
	clearCalls int
	getErr     error
}

func newStubScanCursorStore() *stubScanCursorStore {
	return &stubScanCursorStore{values: map[string]int64{}}
}

func (s *stubScanCursorStore) Get(_ context.Context, scopeKey string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCalls++
	if s.getErr != nil {
		return 0, s.getErr
	}
	return s.values[scopeKey], nil
}

func (s *stubScanCursorStore) Set(_ context.Context, scopeKey string, timestampMillis int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setCalls++
	s.values[scopeKey] = timestampMillis
	return nil
}

func (s *stubScanCursorStore) Clear(_ context.Context, scopeKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearCalls++
	delete(s.values, scopeKey)
	return nil
}

func TestCachedScanCursorStore_Get_MissFetchThenHit(t *testing.T) {
	cacheService := newTestCursorCacheService(t)
	base := newStubScanCursorStore()
	base.values["ordersync::cursor::retailer::amazon::abcd1234"] = 1700

	store, err := NewCachedScanCursorStore(base, cacheService)
	if err != nil {
		t.Fatalf("new cached cursor store: %v", err)
	}

	const key = "ordersync::cursor::retailer::amazon::abcd1234"
	if _, err := store.Get(context.Background(), key); err != nil {
		t.Fatalf("first get: %v", err)
	}
	if base.getCalls != 1 {
		t.Fatalf("expected first get to fetch base store once, got %d", base.getCalls)
	}

	value, err := store.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if base.getCalls != 1 {
		t.Fatalf("expected second get to be cache hit, base get calls=%d", base.getCalls)
	}
	if value != 1700 {
		t.Fatalf("expected cached cursor 1700, got %d", value)
	}
}

func TestCachedScanCursorStore_Set_InvalidatesCachedKey(t *testing.T) {
	cacheService := newTestCursorCacheService(t)
	base := newStubScanCursorStore()
	base.values["scope"] = 100

	store, err := NewCachedScanCursorStore(base, cacheService)
	if err != nil {
		t.Fatalf("new cached cursor store: %v", err)
	}

	if _, err := store.Get(context.Background(), "scope"); err != nil {
		t.Fatalf("prime cache with get: %v", err)
	}
	if base.getCalls != 1 {
		t.Fatalf("expected one base read after cache prime, got %d", base.getCalls)
	}

	if err := store.Set(context.Background(), "scope", 200); err != nil {
		t.Fatalf("set through cached store: %v", err)
	}
	if base.setCalls != 1 {
		t.Fatalf("expected base set call count=1, got %d", base.setCalls)
	}

	value, err := store.Get(context.Background(), "scope")
	if err != nil {
		t.Fatalf("get after set invalidation: %v", err)
	}
	if base.getCalls != 2 {
		t.Fatalf("expected invalidated key to force second base read, got %d", base.getCalls)
	}
	if value != 200 {
		t.Fatalf("expected refreshed cursor 200, got %d", value)
	}
}

func TestCachedScanCursorStore_Clear_InvalidatesCachedKey(t *testing.T) {
	cacheService := newTestCursorCacheService(t)
	base := newStubScanCursorStore()
	base.values["scope"] = 100

	store, err := NewCachedScanCursorStore(base, cacheService)
	if err != nil {
		t.Fatalf("new cached cursor store: %v", err)
	}

	if _, err := store.Get(context.Background(), "scope"); err != nil {
		t.Fatalf("prime cache with get: %v", err)
	}
	if err := store.Clear(context.Background(), "scope"); err != nil {
		t.Fatalf("clear through cached store: %v", err)
	}
	if base.clearCalls != 1 {
		t.Fatalf("expected base clear call count=1, got %d", base.clearCalls)
	}

	value, err := store.Get(context.Background(), "scope")
	if err != nil {
		t.Fatalf("get after clear: %v", err)
	}
	if base.getCalls != 2 {
		t.Fatalf("expected cleared key to force second base read, got %d", base.getCalls)
	}
	if value != 0 {
		t.Fatalf("expected cleared cursor to read as zero, got %d", value)
	}
}

func TestScanCursorCacheKey_Contract(t *testing.T) {
	key, err := ScanCursorCacheKey(" ordersync::cursor::email::gmail::ffff0000 ")
	if err != nil {
		t.Fatalf("build cache key: %v", err)
	}

	const expected = "go-ordersync::scan_cursor::v1::ordersync::cursor::email::gmail::ffff0000"
	if key != expected {
		t.Fatalf("unexpected cache key contract: got %q want %q", key, expected)
	}

	if _, err := ScanCursorCacheKey("  "); err == nil {
		t.Fatalf("expected empty scope key rejection")
	}
}

func TestCachedScanCursorStore_PropagatesBaseErrors(t *testing.T) {
	cacheService := newTestCursorCacheService(t)
	base := newStubScanCursorStore()
	base.getErr = errors.New("store offline")

	store, err := NewCachedScanCursorStore(base, cacheService)
	if err != nil {
		t.Fatalf("new cached cursor store: %v", err)
	}

	if _, err := store.Get(context.Background(), "scope"); err == nil {
		t.Fatalf("expected base error propagation")
	}
}

func newTestCursorCacheService(t *testing.T) repositorycache.CacheService {
	t.Helper()
	config := repositorycache.DefaultConfig()
	config.TTL = time.Minute
	service, err := repositorycache.NewCacheService(config)
	if err != nil {
		t.Fatalf("new cache service: %v", err)
	}
	return service
}
