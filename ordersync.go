package ordersync

import "github.com/goliatone/go-ordersync/core"

type Config = core.Config

type LookbackConfig = core.LookbackConfig

type SyncConfig = core.SyncConfig

type Option = core.Option

type Service = core.Service

type ServiceDependencies = core.ServiceDependencies
type Registry = core.Registry
type ProviderAdapter = core.ProviderAdapter
type ChallengePresenter = core.ChallengePresenter
type JobEnqueuer = core.JobEnqueuer
type ScanCursorStore = core.ScanCursorStore
type AccountStore = core.AccountStore

type Account = core.Account
type Credentials = core.Credentials

type LinkResult = core.LinkResult
type VerifyResult = core.VerifyResult
type OrderBatch = core.OrderBatch
type OrderOutcome = core.OrderOutcome

var (
	WithLogger             = core.WithLogger
	WithLoggerProvider     = core.WithLoggerProvider
	WithMetricsRecorder    = core.WithMetricsRecorder
	WithErrorFactory       = core.WithErrorFactory
	WithErrorMapper        = core.WithErrorMapper
	WithConfigProvider     = core.WithConfigProvider
	WithOptionsResolver    = core.WithOptionsResolver
	WithPersistenceClient  = core.WithPersistenceClient
	WithRepositoryFactory  = core.WithRepositoryFactory
	WithRegistry           = core.WithRegistry
	WithScanCursorStore    = core.WithScanCursorStore
	WithAccountStore       = core.WithAccountStore
	WithChallengePresenter = core.WithChallengePresenter
	WithJobEnqueuer        = core.WithJobEnqueuer
	WithClock              = core.WithClock
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

func NewService(cfg Config, opts ...Option) (*Service, error) {
	return core.NewService(cfg, opts...)
}

func Setup(cfg Config, opts ...Option) (*Service, error) {
	return core.Setup(cfg, opts...)
}
