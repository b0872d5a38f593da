package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type ScanCursorStore struct {
	db   *bun.DB
	repo repository.Repository[*scanCursorRecord]
}

func NewScanCursorStore(db *bun.DB) (*ScanCursorStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*scanCursorRecord](db, scanCursorHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid scan cursor repository wiring: %w", err)
		}
	}
	return &ScanCursorStore{
		db:   db,
		repo: repo,
	}, nil
}

// Get returns the stored cursor for the scope key, or zero when no scan
// has completed yet.
func (s *ScanCursorStore) Get(ctx context.Context, scopeKey string) (int64, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("sqlstore: scan cursor store is not configured")
	}
	scopeKey = strings.TrimSpace(scopeKey)
	if scopeKey == "" {
		return 0, fmt.Errorf("sqlstore: cursor scope key is required")
	}

	record := &scanCursorRecord{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.scope_key = ?", scopeKey).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, err
	}
	return record.TimestampMillis, nil
}

func (s *ScanCursorStore) Set(ctx context.Context, scopeKey string, timestampMillis int64) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: scan cursor store is not configured")
	}
	scopeKey = strings.TrimSpace(scopeKey)
	if scopeKey == "" {
		return fmt.Errorf("sqlstore: cursor scope key is required")
	}

	now := time.Now().UTC()
	record := &scanCursorRecord{
		ID:              uuid.NewString(),
		ScopeKey:        scopeKey,
		TimestampMillis: timestampMillis,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	_, err := s.db.NewInsert().
		Model(record).
		On("CONFLICT (scope_key) DO UPDATE").
		Set("timestamp_millis = EXCLUDED.timestamp_millis").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (s *ScanCursorStore) Clear(ctx context.Context, scopeKey string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: scan cursor store is not configured")
	}
	scopeKey = strings.TrimSpace(scopeKey)
	if scopeKey == "" {
		return fmt.Errorf("sqlstore: cursor scope key is required")
	}
	_, err := s.db.NewDelete().
		Model((*scanCursorRecord)(nil)).
		Where("scope_key = ?", scopeKey).
		Exec(ctx)
	return err
}
