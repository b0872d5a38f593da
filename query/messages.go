package query

import (
	"strings"

	"github.com/goliatone/go-ordersync/core"
)

const (
	TypeListAccounts  = "ordersync.query.accounts.list"
	TypeGetAccount    = "ordersync.query.accounts.get"
	TypeGetScanCursor = "ordersync.query.scan_cursor.get"
)

type ListAccountsMessage struct {
	// SourceID optionally narrows the listing to one provider source.
	SourceID string
}

func (ListAccountsMessage) Type() string { return TypeListAccounts }

func (ListAccountsMessage) Validate() error { return nil }

type GetAccountMessage struct {
	AccountID string
}

func (GetAccountMessage) Type() string { return TypeGetAccount }

func (m GetAccountMessage) Validate() error {
	if strings.TrimSpace(m.AccountID) == "" {
		return queryValidationError("account_id", "account id is required")
	}
	return nil
}

type GetScanCursorMessage struct {
	Kind     core.ProviderKind
	SourceID string
	Username string
}

func (GetScanCursorMessage) Type() string { return TypeGetScanCursor }

func (m GetScanCursorMessage) Validate() error {
	if err := m.Kind.Validate(); err != nil {
		return queryWrapValidation(err, "query: validation failed")
	}
	if strings.TrimSpace(m.SourceID) == "" {
		return queryValidationError("source_id", "source id is required")
	}
	if strings.TrimSpace(m.Username) == "" {
		return queryValidationError("username", "username is required")
	}
	return nil
}

// ScopeKey is the cursor key the message addresses.
func (m GetScanCursorMessage) ScopeKey() string {
	return core.CursorScopeKey(m.Kind, m.SourceID, m.Username)
}
