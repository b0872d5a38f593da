package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-ordersync/core"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

type AccountStore struct {
	db   *bun.DB
	repo repository.Repository[*linkedAccountRecord]
}

func NewAccountStore(db *bun.DB) (*AccountStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*linkedAccountRecord](db, linkedAccountHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid linked account repository wiring: %w", err)
		}
	}
	return &AccountStore{
		db:   db,
		repo: repo,
	}, nil
}

func (s *AccountStore) Save(ctx context.Context, account core.Account) (core.Account, error) {
	if s == nil || s.db == nil {
		return core.Account{}, fmt.Errorf("sqlstore: account store is not configured")
	}
	account.ID = strings.TrimSpace(account.ID)
	if account.ID == "" {
		return core.Account{}, fmt.Errorf("sqlstore: account id is required")
	}

	record := newLinkedAccountRecord(account, time.Now().UTC())
	_, err := s.db.NewInsert().
		Model(record).
		On("CONFLICT (id) DO UPDATE").
		Set("kind = EXCLUDED.kind").
		Set("source_id = EXCLUDED.source_id").
		Set("username = EXCLUDED.username").
		Set("state = EXCLUDED.state").
		Set("last_error = EXCLUDED.last_error").
		Set("linked_at = EXCLUDED.linked_at").
		Set("verified_at = EXCLUDED.verified_at").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return core.Account{}, err
	}
	return record.toDomain(), nil
}

func (s *AccountStore) Delete(ctx context.Context, id string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: account store is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("sqlstore: account id is required")
	}
	_, err := s.db.NewDelete().
		Model((*linkedAccountRecord)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

func (s *AccountStore) List(ctx context.Context) ([]core.Account, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("sqlstore: account store is not configured")
	}
	var records []*linkedAccountRecord
	err := s.db.NewSelect().
		Model(&records).
		OrderExpr("?TableAlias.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	accounts := make([]core.Account, 0, len(records))
	for _, record := range records {
		accounts = append(accounts, record.toDomain())
	}
	return accounts, nil
}
