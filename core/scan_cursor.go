package core

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MemoryScanCursorStore keeps sync watermarks in process memory. It is
// the default store; durable deployments swap in the SQL store.
type MemoryScanCursorStore struct {
	mu      sync.RWMutex
	entries map[string]int64
}

func NewMemoryScanCursorStore() *MemoryScanCursorStore {
	return &MemoryScanCursorStore{entries: map[string]int64{}}
}

func (s *MemoryScanCursorStore) Get(_ context.Context, scopeKey string) (int64, error) {
	if s == nil {
		return 0, fmt.Errorf("core: scan cursor store is not configured")
	}
	scopeKey = strings.TrimSpace(scopeKey)
	if scopeKey == "" {
		return 0, fmt.Errorf("core: cursor scope key is required")
	}
	s.mu.RLock()
	value := s.entries[scopeKey]
	s.mu.RUnlock()
	return value, nil
}

func (s *MemoryScanCursorStore) Set(_ context.Context, scopeKey string, timestampMillis int64) error {
	if s == nil {
		return fmt.Errorf("core: scan cursor store is not configured")
	}
	scopeKey = strings.TrimSpace(scopeKey)
	if scopeKey == "" {
		return fmt.Errorf("core: cursor scope key is required")
	}
	s.mu.Lock()
	s.entries[scopeKey] = timestampMillis
	s.mu.Unlock()
	return nil
}

func (s *MemoryScanCursorStore) Clear(_ context.Context, scopeKey string) error {
	if s == nil {
		return fmt.Errorf("core: scan cursor store is not configured")
	}
	scopeKey = strings.TrimSpace(scopeKey)
	if scopeKey == "" {
		return fmt.Errorf("core: cursor scope key is required")
	}
	s.mu.Lock()
	delete(s.entries, scopeKey)
	s.mu.Unlock()
	return nil
}

var _ ScanCursorStore = (*MemoryScanCursorStore)(nil)
