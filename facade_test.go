package ordersync

import (
	"context"
	"testing"

	ordersynccommand "github.com/goliatone/go-ordersync/command"
	"github.com/goliatone/go-ordersync/core"
	ordersyncquery "github.com/goliatone/go-ordersync/query"
)

func TestNewFacade_WiresCommandsAndQueries(t *testing.T) {
	svc := &stubFacadeService{}

	facade, err := NewFacade(svc, WithScanCursorReader(core.NewMemoryScanCursorStore()))
	if err != nil {
		t.Fatalf("new facade: %v", err)
	}

	commands := facade.Commands()
	if commands.LinkAccount == nil || commands.FetchOrders == nil || commands.ScheduleSyncAll == nil {
		t.Fatalf("expected command handlers to be wired")
	}
	queries := facade.Queries()
	if queries.ListAccounts == nil || queries.GetAccount == nil || queries.GetScanCursor == nil {
		t.Fatalf("expected query handlers to be wired")
	}
}

func TestFacade_CommandAndQueryDelegation(t *testing.T) {
	svc := &stubFacadeService{}
	cursors := core.NewMemoryScanCursorStore()
	scopeKey := core.CursorScopeKey(core.ProviderKindRetailer, "amazon", "shopper")
	if err := cursors.Set(context.Background(), scopeKey, 1700); err != nil {
		t.Fatalf("seed cursor: %v", err)
	}

	facade, err := NewFacade(svc, WithScanCursorReader(cursors))
	if err != nil {
		t.Fatalf("new facade: %v", err)
	}

	if err := facade.Commands().RemoveAccount.Execute(context.Background(), ordersynccommand.RemoveAccountMessage{
		AccountID: "acct_1",
	}); err != nil {
		t.Fatalf("execute remove command: %v", err)
	}
	if svc.lastRemovedAccountID != "acct_1" {
		t.Fatalf("unexpected remove delegation payload")
	}

	accounts, err := facade.Queries().ListAccounts.Query(context.Background(), ordersyncquery.ListAccountsMessage{})
	if err != nil {
		t.Fatalf("query list accounts: %v", err)
	}
	if len(accounts) != 1 || accounts[0].SourceID != "amazon" {
		t.Fatalf("unexpected account list: %#v", accounts)
	}

	cursor, err := facade.Queries().GetScanCursor.Query(context.Background(), ordersyncquery.GetScanCursorMessage{
		Kind:     core.ProviderKindRetailer,
		SourceID: "amazon",
		Username: "shopper",
	})
	if err != nil {
		t.Fatalf("query scan cursor: %v", err)
	}
	if cursor.ScopeKey != scopeKey || cursor.TimestampMillis != 1700 {
		t.Fatalf("unexpected scan cursor result: %#v", cursor)
	}
}

func TestFacade_ResolvesCursorReaderFromDependencies(t *testing.T) {
	cursors := core.NewMemoryScanCursorStore()
	scopeKey := core.CursorScopeKey(core.ProviderKindEmail, "gmail", "a@example.com")
	if err := cursors.Set(context.Background(), scopeKey, 42); err != nil {
		t.Fatalf("seed cursor: %v", err)
	}
	svc := &stubFacadeServiceWithDeps{
		stubFacadeService: stubFacadeService{},
		deps:              core.ServiceDependencies{ScanCursorStore: cursors},
	}

	facade, err := NewFacade(svc)
	if err != nil {
		t.Fatalf("new facade: %v", err)
	}

	cursor, err := facade.Queries().GetScanCursor.Query(context.Background(), ordersyncquery.GetScanCursorMessage{
		Kind:     core.ProviderKindEmail,
		SourceID: "gmail",
		Username: "a@example.com",
	})
	if err != nil {
		t.Fatalf("query scan cursor: %v", err)
	}
	if cursor.TimestampMillis != 42 {
		t.Fatalf("unexpected scan cursor result: %#v", cursor)
	}
}

func TestNewFacade_RequiresService(t *testing.T) {
	facade, err := NewFacade(nil)
	if err == nil {
		t.Fatalf("expected nil service error")
	}
	if facade != nil {
		t.Fatalf("expected nil facade on error")
	}
}

type stubFacadeService struct {
	lastRemovedAccountID string
}

func (s *stubFacadeService) Link(context.Context, string, core.Credentials) (core.LinkResult, error) {
	return core.LinkResult{}, nil
}

func (s *stubFacadeService) Verify(context.Context, string) (core.VerifyResult, error) {
	return core.VerifyResult{}, nil
}

func (s *stubFacadeService) ResolveChallenge(context.Context, string) (core.VerifyResult, error) {
	return core.VerifyResult{}, nil
}

func (s *stubFacadeService) Remove(_ context.Context, accountID string) error {
	s.lastRemovedAccountID = accountID
	return nil
}

func (s *stubFacadeService) FetchOrders(context.Context, string) (core.OrderBatch, error) {
	return core.OrderBatch{}, nil
}

func (s *stubFacadeService) FetchAllOrders(context.Context, ...string) ([]core.OrderOutcome, error) {
	return nil, nil
}

func (s *stubFacadeService) ScheduleSync(context.Context, string) error {
	return nil
}

func (s *stubFacadeService) ScheduleSyncAll(context.Context) error {
	return nil
}

func (s *stubFacadeService) Accounts(context.Context) ([]core.Account, error) {
	return []core.Account{{
		ID:       "acct_1",
		Kind:     core.ProviderKindRetailer,
		SourceID: "amazon",
		Username: "shopper",
		State:    core.VerificationStateVerified,
	}}, nil
}

type stubFacadeServiceWithDeps struct {
	stubFacadeService
	deps core.ServiceDependencies
}

func (s *stubFacadeServiceWithDeps) Dependencies() core.ServiceDependencies {
	return s.deps
}

var _ CommandQueryService = (*stubFacadeService)(nil)
