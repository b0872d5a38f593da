package ordersync_test

import (
	"context"
	"sync"
	"testing"
	"time"

	gocmd "github.com/goliatone/go-command"
	ordersync "github.com/goliatone/go-ordersync"
	ordersynccommand "github.com/goliatone/go-ordersync/command"
	"github.com/goliatone/go-ordersync/core"
	"github.com/goliatone/go-ordersync/providers/devkit"
	"github.com/goliatone/go-ordersync/providers/retailer"
	ordersyncquery "github.com/goliatone/go-ordersync/query"
)

// Drives the full downstream composition: scripted provider, registry,
// service, facade commands and queries, plus the job enqueuer bridge.
func TestDownstreamComposition_LinkChallengeSyncLifecycle(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0).UTC()

	client := devkit.NewScriptedLinkingClient()
	client.VerifySteps = []devkit.VerifyStep{
		{Failure: &retailer.LinkFailure{
			Code:      retailer.CodeVerificationNeeded,
			Message:   "step-up required",
			Challenge: "captcha-artifact",
		}},
		{Verified: true, Token: "session-token"},
	}
	client.OrderSteps = []devkit.OrderStep{
		{Page: &core.OrderPage{Records: []core.OrderRecord{{ID: "o_1"}}}, Remaining: 1},
		{Page: &core.OrderPage{Records: []core.OrderRecord{{ID: "o_2"}}}, Remaining: 0},
	}

	cfg := ordersync.DefaultConfig()
	cfg.LicenseKey = "license"
	cfg.ProductKey = "product"
	cfg.Lookback.MaxDays = 30

	registry := core.NewAdapterRegistry()
	if err := ordersync.RegisterProviders(registry, cfg, client, nil); err != nil {
		t.Fatalf("register providers: %v", err)
	}

	cursors := core.NewMemoryScanCursorStore()
	enqueuer := &capturingEnqueuer{}

	svc, err := ordersync.Setup(cfg,
		ordersync.WithRegistry(registry),
		ordersync.WithScanCursorStore(cursors),
		ordersync.WithJobEnqueuer(enqueuer),
		ordersync.WithClock(func() time.Time { return now }),
	)
	if err != nil {
		t.Fatalf("setup service: %v", err)
	}

	facade, err := ordersync.NewFacade(svc)
	if err != nil {
		t.Fatalf("new facade: %v", err)
	}

	linkCollector := gocmd.NewResult[core.LinkResult]()
	linkCtx := gocmd.ContextWithResult(ctx, linkCollector)
	if err := facade.Commands().LinkAccount.Execute(linkCtx, ordersynccommand.LinkAccountMessage{
		SourceID:    "amazon",
		Credentials: core.Credentials{Username: "shopper@example.com", Password: "hunter2"},
	}); err != nil {
		t.Fatalf("execute link: %v", err)
	}
	linked, ok := linkCollector.Load()
	if !ok {
		t.Fatalf("expected stored link result")
	}
	if linked.Verified {
		t.Fatalf("expected challenge before verification")
	}
	if linked.Challenge == nil || linked.Challenge.Token != "captcha-artifact" {
		t.Fatalf("expected challenge artifact, got %#v", linked.Challenge)
	}
	if linked.Account.State != core.VerificationStatePendingChallenge {
		t.Fatalf("expected pending challenge state, got %q", linked.Account.State)
	}

	resolveCollector := gocmd.NewResult[core.VerifyResult]()
	resolveCtx := gocmd.ContextWithResult(ctx, resolveCollector)
	if err := facade.Commands().ResolveChallenge.Execute(resolveCtx, ordersynccommand.ResolveChallengeMessage{
		AccountID: linked.Account.ID,
	}); err != nil {
		t.Fatalf("execute resolve challenge: %v", err)
	}
	resolved, ok := resolveCollector.Load()
	if !ok || !resolved.Verified {
		t.Fatalf("expected verified account after challenge resolution")
	}

	ordersCollector := gocmd.NewResult[core.OrderBatch]()
	ordersCtx := gocmd.ContextWithResult(ctx, ordersCollector)
	if err := facade.Commands().FetchOrders.Execute(ordersCtx, ordersynccommand.FetchOrdersMessage{
		AccountID: linked.Account.ID,
	}); err != nil {
		t.Fatalf("execute fetch orders: %v", err)
	}
	batch, ok := ordersCollector.Load()
	if !ok {
		t.Fatalf("expected stored order batch")
	}
	if len(batch.Records) != 2 || batch.Records[0].ID != "o_1" || batch.Records[1].ID != "o_2" {
		t.Fatalf("unexpected order records: %#v", batch.Records)
	}

	cursor, err := facade.Queries().GetScanCursor.Query(ctx, ordersyncquery.GetScanCursorMessage{
		Kind:     core.ProviderKindRetailer,
		SourceID: "amazon",
		Username: "shopper@example.com",
	})
	if err != nil {
		t.Fatalf("query scan cursor: %v", err)
	}
	if cursor.TimestampMillis != now.UnixMilli() {
		t.Fatalf("expected cursor advanced to scan start, got %d", cursor.TimestampMillis)
	}

	if err := facade.Commands().ScheduleSync.Execute(ctx, ordersynccommand.ScheduleSyncMessage{
		AccountID: linked.Account.ID,
	}); err != nil {
		t.Fatalf("execute schedule sync: %v", err)
	}
	messages := enqueuer.Messages()
	if len(messages) != 1 || messages[0].JobID != core.JobIDSyncIncremental {
		t.Fatalf("expected incremental sync job, got %#v", messages)
	}

	accounts, err := facade.Queries().ListAccounts.Query(ctx, ordersyncquery.ListAccountsMessage{SourceID: "amazon"})
	if err != nil {
		t.Fatalf("query list accounts: %v", err)
	}
	if len(accounts) != 1 || accounts[0].State != core.VerificationStateVerified {
		t.Fatalf("unexpected account listing: %#v", accounts)
	}
}

type capturingEnqueuer struct {
	mu       sync.Mutex
	messages []*core.JobExecutionMessage
}

func (e *capturingEnqueuer) Enqueue(_ context.Context, msg *core.JobExecutionMessage) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.messages = append(e.messages, msg)
	return nil
}

func (e *capturingEnqueuer) Messages() []*core.JobExecutionMessage {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*core.JobExecutionMessage(nil), e.messages...)
}
