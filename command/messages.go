package command

import (
	"strings"

	"github.com/goliatone/go-ordersync/core"
)

const (
	TypeLinkAccount      = "ordersync.command.account.link"
	TypeVerifyAccount    = "ordersync.command.account.verify"
	TypeResolveChallenge = "ordersync.command.challenge.resolve"
	TypeRemoveAccount    = "ordersync.command.account.remove"
	TypeFetchOrders      = "ordersync.command.orders.fetch"
	TypeFetchAllOrders   = "ordersync.command.orders.fetch_all"
	TypeScheduleSync     = "ordersync.command.sync.schedule"
	TypeScheduleSyncAll  = "ordersync.command.sync.schedule_all"
	TypeClearCursor      = "ordersync.command.cursor.clear"
)

type LinkAccountMessage struct {
	SourceID    string
	Credentials core.Credentials
}

func (LinkAccountMessage) Type() string { return TypeLinkAccount }

func (m LinkAccountMessage) Validate() error {
	if strings.TrimSpace(m.SourceID) == "" {
		return commandValidationError("source_id", "source id is required")
	}
	if strings.TrimSpace(m.Credentials.Username) == "" {
		return commandValidationError("username", "username is required")
	}
	if !m.Credentials.HasSecret() {
		return commandValidationError("credentials", "a password or oauth token is required")
	}
	return nil
}

type VerifyAccountMessage struct {
	AccountID string
}

func (VerifyAccountMessage) Type() string { return TypeVerifyAccount }

func (m VerifyAccountMessage) Validate() error {
	return validateAccountID(m.AccountID)
}

type ResolveChallengeMessage struct {
	AccountID string
}

func (ResolveChallengeMessage) Type() string { return TypeResolveChallenge }

func (m ResolveChallengeMessage) Validate() error {
	return validateAccountID(m.AccountID)
}

type RemoveAccountMessage struct {
	AccountID string
}

func (RemoveAccountMessage) Type() string { return TypeRemoveAccount }

func (m RemoveAccountMessage) Validate() error {
	return validateAccountID(m.AccountID)
}

type FetchOrdersMessage struct {
	AccountID string
}

func (FetchOrdersMessage) Type() string { return TypeFetchOrders }

func (m FetchOrdersMessage) Validate() error {
	return validateAccountID(m.AccountID)
}

// FetchAllOrdersMessage fans a scan out over verified accounts. An
// empty AccountIDs list targets all of them.
type FetchAllOrdersMessage struct {
	AccountIDs []string
}

func (FetchAllOrdersMessage) Type() string { return TypeFetchAllOrders }

func (m FetchAllOrdersMessage) Validate() error {
	for _, id := range m.AccountIDs {
		if err := validateAccountID(id); err != nil {
			return err
		}
	}
	return nil
}

type ScheduleSyncMessage struct {
	AccountID string
}

func (ScheduleSyncMessage) Type() string { return TypeScheduleSync }

func (m ScheduleSyncMessage) Validate() error {
	return validateAccountID(m.AccountID)
}

type ScheduleSyncAllMessage struct{}

func (ScheduleSyncAllMessage) Type() string { return TypeScheduleSyncAll }

func (ScheduleSyncAllMessage) Validate() error { return nil }

type ClearCursorMessage struct {
	Kind     core.ProviderKind
	SourceID string
	Username string
}

func (ClearCursorMessage) Type() string { return TypeClearCursor }

func (m ClearCursorMessage) Validate() error {
	if err := m.Kind.Validate(); err != nil {
		return commandValidationError("kind", err.Error())
	}
	if strings.TrimSpace(m.SourceID) == "" {
		return commandValidationError("source_id", "source id is required")
	}
	if strings.TrimSpace(m.Username) == "" {
		return commandValidationError("username", "username is required")
	}
	return nil
}

// ScopeKey derives the cursor scope the message addresses.
func (m ClearCursorMessage) ScopeKey() string {
	return core.CursorScopeKey(m.Kind, m.SourceID, m.Username)
}

func validateAccountID(id string) error {
	if strings.TrimSpace(id) == "" {
		return commandValidationError("account_id", "account id is required")
	}
	return nil
}
