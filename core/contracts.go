package core

import (
	"context"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

// VerifyCallbacks is the callback pair provider SDKs invoke for a
// verification attempt. Implementations may call back more than once;
// core resolves only the first invocation.
type VerifyCallbacks struct {
	OnSuccess func(verified bool, token string)
	OnFailure func(reason FailureReason, message string, challenge *VerificationChallenge)
}

// OrderCallbacks streams paginated order results. remaining == 0 is the
// sole terminal signal; callbacks after it must be ignored by consumers.
type OrderCallbacks struct {
	OnPage    func(accountID string, page *OrderPage, remaining int)
	OnFailure func(reason FailureReason, message string)
}

// ProviderAdapter is the uniform async surface over one external
// provider kind (retail linking SDK, IMAP e-receipt client).
type ProviderAdapter interface {
	Kind() ProviderKind
	Sources() []string

	Link(ctx context.Context, sourceID string, creds Credentials) (bool, error)
	Verify(ctx context.Context, account Account, callbacks VerifyCallbacks)
	Orders(ctx context.Context, account Account, lookbackDays int, callbacks OrderCallbacks)
	Unlink(ctx context.Context, account Account) error
	Accounts(ctx context.Context) ([]RawAccount, error)
}

// ScanCursorStore is the per-scope last-sync watermark contract. Get on
// an unset key returns 0 and no error.
type ScanCursorStore interface {
	Get(ctx context.Context, scopeKey string) (int64, error)
	Set(ctx context.Context, scopeKey string, timestampMillis int64) error
	Clear(ctx context.Context, scopeKey string) error
}

// AccountStore is an optional durable mirror of the directory. Only
// verified accounts are persisted; removal follows unlink.
type AccountStore interface {
	Save(ctx context.Context, account Account) (Account, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Account, error)
}

// ChallengePresenter receives the opaque challenge artifact for
// rendering. A service without a presenter runs in background mode:
// challenge-required failures resolve unverified without interaction.
type ChallengePresenter interface {
	Present(ctx context.Context, challenge VerificationChallenge) error
}

// StoreProvider exposes the durable stores a persistence backend can
// supply. Either accessor may return nil when the backend does not
// implement that store.
type StoreProvider interface {
	ScanCursorStore() ScanCursorStore
	AccountStore() AccountStore
}

// RepositoryStoreFactory builds stores against an opaque persistence
// client, typically a *bun.DB or a wrapper exposing one.
type RepositoryStoreFactory interface {
	BuildStores(client any) (StoreProvider, error)
}

type Registry interface {
	Register(adapter ProviderAdapter) error
	Get(kind ProviderKind) (ProviderAdapter, bool)
	BySource(sourceID string) (ProviderAdapter, bool)
	List() []ProviderAdapter
}

// LinkingService is the full orchestration surface. Command and query
// layers depend on this interface rather than on *Service.
type LinkingService interface {
	Link(ctx context.Context, sourceID string, creds Credentials) (LinkResult, error)
	Verify(ctx context.Context, accountID string) (VerifyResult, error)
	ResolveChallenge(ctx context.Context, accountID string) (VerifyResult, error)
	Remove(ctx context.Context, accountID string) error
	Accounts(ctx context.Context) ([]Account, error)
	FetchOrders(ctx context.Context, accountID string) (OrderBatch, error)
	FetchAllOrders(ctx context.Context, accountIDs ...string) ([]OrderOutcome, error)
	ScheduleSync(ctx context.Context, accountID string) error
	ScheduleSyncAll(ctx context.Context) error
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

type JobExecutionMessage struct {
	JobID          string
	Parameters     map[string]any
	IdempotencyKey string
	DedupPolicy    string
}

type JobNackOptions struct {
	Delay      time.Duration
	Requeue    bool
	DeadLetter bool
	Reason     string
}

type JobEnqueuer interface {
	Enqueue(ctx context.Context, msg *JobExecutionMessage) error
}

type JobDelivery interface {
	Message() *JobExecutionMessage
	Ack(ctx context.Context) error
	Nack(ctx context.Context, opts JobNackOptions) error
}

type JobDequeuer interface {
	Dequeue(ctx context.Context) (JobDelivery, error)
}

type JobWorkerEvent struct {
	Message   *JobExecutionMessage
	Attempt   int
	Delay     time.Duration
	Err       error
	StartedAt time.Time
	Duration  time.Duration
}

type JobWorkerHook interface {
	OnStart(ctx context.Context, event JobWorkerEvent)
	OnSuccess(ctx context.Context, event JobWorkerEvent)
	OnFailure(ctx context.Context, event JobWorkerEvent)
	OnRetry(ctx context.Context, event JobWorkerEvent)
}
