package adapters_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-command"
	job "github.com/goliatone/go-job"
	jobqueuecommand "github.com/goliatone/go-job/queue/command"
	glog "github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-ordersync/adapters/gocommand"
	"github.com/goliatone/go-ordersync/adapters/gojob"
	"github.com/goliatone/go-ordersync/adapters/gologger"
	ordersynccommand "github.com/goliatone/go-ordersync/command"
	"github.com/goliatone/go-ordersync/core"
)

func TestRuntimeCompatibility_GoJobGoCommandGoLogger(t *testing.T) {
	ctx := context.Background()

	logger := &compatLogger{}
	provider := &compatProvider{logger: logger}

	_, _, jobProvider, jobLogger := gologger.ResolveForJob("ordersync", provider, nil)
	if jobProvider == nil || jobLogger == nil {
		t.Fatalf("expected go-job logger bridges")
	}

	enqueueProbe := &compatEnqueuer{}
	enqueueAdapter := gojob.NewEnqueuerAdapter(enqueueProbe)
	if err := enqueueAdapter.Enqueue(ctx, &core.JobExecutionMessage{
		JobID:          gojob.JobIDSyncIncremental,
		Parameters:     map[string]any{"account_id": "acct_1"},
		IdempotencyKey: "idem_1",
		DedupPolicy:    "drop",
	}); err != nil {
		t.Fatalf("enqueue via gojob adapter: %v", err)
	}
	if enqueueProbe.last == nil || enqueueProbe.last.JobID != gojob.JobIDSyncIncremental {
		t.Fatalf("expected go-job message mapping through enqueuer adapter")
	}

	queueRegistry := jobqueuecommand.NewRegistry()
	commandAdapter := gocommand.NewRegistryAdapter(command.NewRegistry())
	if err := commandAdapter.AddQueueResolver("queue", queueRegistry); err != nil {
		t.Fatalf("add queue resolver: %v", err)
	}
	if err := commandAdapter.RegisterCommand(command.CommandFunc[compatMessage](func(context.Context, compatMessage) error {
		return nil
	})); err != nil {
		t.Fatalf("register command: %v", err)
	}
	if err := commandAdapter.Initialize(); err != nil {
		t.Fatalf("initialize command registry: %v", err)
	}
	if _, ok := queueRegistry.Get("ordersync.compat.command"); !ok {
		t.Fatalf("expected command resolver hook to mirror command into go-job queue registry")
	}
}

func TestRuntimeCompatibility_CommandDispatchThroughWrappers(t *testing.T) {
	svc := &compatMutatingService{}
	adapter := gocommand.NewRegistryAdapter(command.NewRegistry())

	removeSub, err := gocommand.RegisterAndSubscribe(adapter, ordersynccommand.NewRemoveAccountCommand(svc))
	if err != nil {
		t.Fatalf("register remove wrapper: %v", err)
	}
	defer removeSub.Unsubscribe()

	scheduleSub, err := gocommand.RegisterAndSubscribe(adapter, ordersynccommand.NewScheduleSyncCommand(svc))
	if err != nil {
		t.Fatalf("register schedule wrapper: %v", err)
	}
	defer scheduleSub.Unsubscribe()

	if err := adapter.Initialize(); err != nil {
		t.Fatalf("initialize adapter: %v", err)
	}

	if err := gocommand.Dispatch(context.Background(), ordersynccommand.RemoveAccountMessage{
		AccountID: "acct_1",
	}); err != nil {
		t.Fatalf("dispatch remove message: %v", err)
	}
	if svc.removeCalls != 1 || svc.lastRemoveAccountID != "acct_1" {
		t.Fatalf("expected remove wrapper invocation through dispatch")
	}

	if err := gocommand.Dispatch(context.Background(), ordersynccommand.ScheduleSyncMessage{
		AccountID: "acct_2",
	}); err != nil {
		t.Fatalf("dispatch schedule message: %v", err)
	}
	if svc.scheduleCalls != 1 || svc.lastScheduleAccountID != "acct_2" {
		t.Fatalf("expected schedule wrapper invocation through dispatch")
	}
}

type compatMessage struct{}

func (compatMessage) Type() string { return "ordersync.compat.command" }

type compatEnqueuer struct {
	last *job.ExecutionMessage
}

func (e *compatEnqueuer) Enqueue(_ context.Context, msg *job.ExecutionMessage) error {
	e.last = msg
	return nil
}

type compatProvider struct {
	logger glog.Logger
}

func (p *compatProvider) GetLogger(string) glog.Logger {
	if p == nil || p.logger == nil {
		return glog.Nop()
	}
	return p.logger
}

type compatLogger struct{}

func (compatLogger) Trace(string, ...any)                    {}
func (compatLogger) Debug(string, ...any)                    {}
func (compatLogger) Info(string, ...any)                     {}
func (compatLogger) Warn(string, ...any)                     {}
func (compatLogger) Error(string, ...any)                    {}
func (compatLogger) Fatal(string, ...any)                    {}
func (compatLogger) WithContext(context.Context) glog.Logger { return compatLogger{} }

type compatMutatingService struct {
	removeCalls           int
	lastRemoveAccountID   string
	scheduleCalls         int
	lastScheduleAccountID string
}

func (s *compatMutatingService) Link(context.Context, string, core.Credentials) (core.LinkResult, error) {
	return core.LinkResult{}, nil
}

func (s *compatMutatingService) Verify(context.Context, string) (core.VerifyResult, error) {
	return core.VerifyResult{}, nil
}

func (s *compatMutatingService) ResolveChallenge(context.Context, string) (core.VerifyResult, error) {
	return core.VerifyResult{}, nil
}

func (s *compatMutatingService) Remove(_ context.Context, accountID string) error {
	s.removeCalls++
	s.lastRemoveAccountID = accountID
	return nil
}

func (s *compatMutatingService) FetchOrders(context.Context, string) (core.OrderBatch, error) {
	return core.OrderBatch{}, nil
}

func (s *compatMutatingService) FetchAllOrders(context.Context, ...string) ([]core.OrderOutcome, error) {
	return nil, nil
}

func (s *compatMutatingService) ScheduleSync(_ context.Context, accountID string) error {
	s.scheduleCalls++
	s.lastScheduleAccountID = accountID
	return nil
}

func (s *compatMutatingService) ScheduleSyncAll(context.Context) error {
	return nil
}
