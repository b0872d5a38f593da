package sqlstore

import (
	"time"

	"github.com/goliatone/go-ordersync/core"
	"github.com/uptrace/bun"
)

type linkedAccountRecord struct {
	bun.BaseModel `bun:"table:ordersync_linked_accounts,alias:ola"`

	ID         string     `bun:"id,pk"`
	Kind       string     `bun:"kind,notnull"`
	SourceID   string     `bun:"source_id,notnull"`
	Username   string     `bun:"username,notnull"`
	State      string     `bun:"state,notnull"`
	LastError  string     `bun:"last_error"`
	LinkedAt   time.Time  `bun:"linked_at,nullzero,notnull"`
	VerifiedAt *time.Time `bun:"verified_at,nullzero"`
	CreatedAt  time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt  time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func newLinkedAccountRecord(account core.Account, now time.Time) *linkedAccountRecord {
	record := &linkedAccountRecord{
		ID:        account.ID,
		Kind:      string(account.Kind),
		SourceID:  account.SourceID,
		Username:  account.Username,
		State:     string(account.State),
		LastError: account.LastError,
		LinkedAt:  account.LinkedAt.UTC(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if account.VerifiedAt != nil {
		value := account.VerifiedAt.UTC()
		record.VerifiedAt = &value
	}
	if !account.UpdatedAt.IsZero() {
		record.UpdatedAt = account.UpdatedAt.UTC()
	}
	return record
}

func (r *linkedAccountRecord) toDomain() core.Account {
	if r == nil {
		return core.Account{}
	}
	account := core.Account{
		ID:        r.ID,
		Kind:      core.ProviderKind(r.Kind),
		SourceID:  r.SourceID,
		Username:  r.Username,
		State:     core.VerificationState(r.State),
		LastError: r.LastError,
		LinkedAt:  r.LinkedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.VerifiedAt != nil {
		value := *r.VerifiedAt
		account.VerifiedAt = &value
	}
	return account
}

type scanCursorRecord struct {
	bun.BaseModel `bun:"table:ordersync_scan_cursors,alias:osc"`

	ID              string    `bun:"id,pk"`
	ScopeKey        string    `bun:"scope_key,notnull,unique"`
	TimestampMillis int64     `bun:"timestamp_millis,notnull"`
	CreatedAt       time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt       time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func (r *scanCursorRecord) toDomain() core.ScanCursor {
	if r == nil {
		return core.ScanCursor{}
	}
	return core.ScanCursor{
		ScopeKey:        r.ScopeKey,
		TimestampMillis: r.TimestampMillis,
	}
}
