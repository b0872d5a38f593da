package query

import (
	"context"
	"strings"

	"github.com/goliatone/go-ordersync/core"
)

type AccountReader interface {
	Accounts(ctx context.Context) ([]core.Account, error)
}

type ScanCursorReader interface {
	Get(ctx context.Context, scopeKey string) (int64, error)
}

type ListAccountsQuery struct {
	reader AccountReader
}

func NewListAccountsQuery(reader AccountReader) *ListAccountsQuery {
	return &ListAccountsQuery{reader: reader}
}

func (q *ListAccountsQuery) Query(ctx context.Context, msg ListAccountsMessage) ([]core.Account, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: account reader is required")
	}
	accounts, err := q.reader.Accounts(ctx)
	if err != nil {
		return nil, err
	}
	source := strings.ToLower(strings.TrimSpace(msg.SourceID))
	if source == "" {
		return accounts, nil
	}
	filtered := make([]core.Account, 0, len(accounts))
	for _, account := range accounts {
		if account.SourceID == source {
			filtered = append(filtered, account)
		}
	}
	return filtered, nil
}

type GetAccountQuery struct {
	reader AccountReader
}

func NewGetAccountQuery(reader AccountReader) *GetAccountQuery {
	return &GetAccountQuery{reader: reader}
}

func (q *GetAccountQuery) Query(ctx context.Context, msg GetAccountMessage) (core.Account, error) {
	if q == nil || q.reader == nil {
		return core.Account{}, queryDependencyError("query: account reader is required")
	}
	accounts, err := q.reader.Accounts(ctx)
	if err != nil {
		return core.Account{}, err
	}
	for _, account := range accounts {
		if account.ID == msg.AccountID {
			return account, nil
		}
	}
	return core.Account{}, queryNotFoundError("query: account " + msg.AccountID + " not found")
}

type GetScanCursorQuery struct {
	reader ScanCursorReader
}

func NewGetScanCursorQuery(reader ScanCursorReader) *GetScanCursorQuery {
	return &GetScanCursorQuery{reader: reader}
}

func (q *GetScanCursorQuery) Query(ctx context.Context, msg GetScanCursorMessage) (core.ScanCursor, error) {
	if q == nil || q.reader == nil {
		return core.ScanCursor{}, queryDependencyError("query: scan cursor reader is required")
	}
	scopeKey := msg.ScopeKey()
	millis, err := q.reader.Get(ctx, scopeKey)
	if err != nil {
		return core.ScanCursor{}, err
	}
	return core.ScanCursor{ScopeKey: scopeKey, TimestampMillis: millis}, nil
}
