package core

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
)

// Service is the account linking and order sync orchestrator. It owns
// the adapter registry, the linked-account directory, and the scan
// cursor watermarks; all provider interaction flows through it.
type Service struct {
	config             Config
	logger             Logger
	loggerProvider     LoggerProvider
	metricsRecorder    MetricsRecorder
	errorFactory       ErrorFactory
	errorMapper        ErrorMapper
	configProvider     ConfigProvider
	optionsResolver    OptionsResolver
	persistenceClient  any
	repositoryFactory  any
	registry           Registry
	directory          *AccountDirectory
	cursorStore        ScanCursorStore
	accountStore       AccountStore
	challengePresenter ChallengePresenter
	jobEnqueuer        JobEnqueuer
	now                func() time.Time
}

type ServiceDependencies struct {
	Logger             Logger
	LoggerProvider     LoggerProvider
	MetricsRecorder    MetricsRecorder
	ErrorFactory       ErrorFactory
	ErrorMapper        ErrorMapper
	ConfigProvider     ConfigProvider
	OptionsResolver    OptionsResolver
	PersistenceClient  any
	RepositoryFactory  any
	Registry           Registry
	ScanCursorStore    ScanCursorStore
	AccountStore       AccountStore
	ChallengePresenter ChallengePresenter
	JobEnqueuer        JobEnqueuer
}

func NewService(cfg Config, options ...Option) (*Service, error) {
	builder := defaultServiceBuilder(cfg)
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("ordersync", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("ordersync"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.errorFactory == nil {
		builder.errorFactory = goerrors.New
	}
	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.errorMapper == nil {
		builder.errorMapper = defaultErrorMapper
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}
	if builder.registry == nil {
		builder.registry = NewAdapterRegistry()
	}
	if builder.now == nil {
		builder.now = time.Now
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}

	if (builder.cursorStore == nil || builder.accountStore == nil) && builder.repositoryFactory != nil {
		if storeFactory, ok := builder.repositoryFactory.(RepositoryStoreFactory); ok {
			storeProvider, buildErr := storeFactory.BuildStores(builder.persistenceClient)
			if buildErr != nil {
				return nil, mapBuildError(builder.errorMapper, buildErr)
			}
			if storeProvider != nil {
				if builder.cursorStore == nil {
					builder.cursorStore = storeProvider.ScanCursorStore()
				}
				if builder.accountStore == nil {
					builder.accountStore = storeProvider.AccountStore()
				}
			}
		} else if storeProvider, ok := builder.repositoryFactory.(StoreProvider); ok {
			if builder.cursorStore == nil {
				builder.cursorStore = storeProvider.ScanCursorStore()
			}
			if builder.accountStore == nil {
				builder.accountStore = storeProvider.AccountStore()
			}
		}
	}
	if builder.cursorStore == nil {
		builder.cursorStore = NewMemoryScanCursorStore()
	}

	svc := &Service{
		config:             finalConfig,
		logger:             logger,
		loggerProvider:     provider,
		metricsRecorder:    builder.metricsRecorder,
		errorFactory:       builder.errorFactory,
		errorMapper:        builder.errorMapper,
		configProvider:     builder.configProvider,
		optionsResolver:    builder.optionsResolver,
		persistenceClient:  builder.persistenceClient,
		repositoryFactory:  builder.repositoryFactory,
		registry:           builder.registry,
		directory:          NewAccountDirectory(),
		cursorStore:        builder.cursorStore,
		accountStore:       builder.accountStore,
		challengePresenter: builder.challengePresenter,
		jobEnqueuer:        builder.jobEnqueuer,
		now:                builder.now,
	}

	if err := svc.restoreAccounts(context.Background()); err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	return svc, nil
}

func Setup(cfg Config, options ...Option) (*Service, error) {
	return NewService(cfg, options...)
}

func mapBuildError(mapper ErrorMapper, err error) error {
	if err == nil {
		return nil
	}
	if mapper == nil {
		return err
	}
	mapped := mapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}

// restoreAccounts rehydrates the directory from the durable store so a
// restarted process keeps serving previously verified accounts.
func (s *Service) restoreAccounts(ctx context.Context) error {
	if s.accountStore == nil {
		return nil
	}
	accounts, err := s.accountStore.List(ctx)
	if err != nil {
		return err
	}
	for _, account := range accounts {
		s.directory.Put(account)
	}
	return nil
}

func (s *Service) Config() Config {
	if s == nil {
		return Config{}
	}
	return s.config
}

func (s *Service) Dependencies() ServiceDependencies {
	if s == nil {
		return ServiceDependencies{}
	}
	return ServiceDependencies{
		Logger:             s.logger,
		LoggerProvider:     s.loggerProvider,
		MetricsRecorder:    s.metricsRecorder,
		ErrorFactory:       s.errorFactory,
		ErrorMapper:        s.errorMapper,
		ConfigProvider:     s.configProvider,
		OptionsResolver:    s.optionsResolver,
		PersistenceClient:  s.persistenceClient,
		RepositoryFactory:  s.repositoryFactory,
		Registry:           s.registry,
		ScanCursorStore:    s.cursorStore,
		AccountStore:       s.accountStore,
		ChallengePresenter: s.challengePresenter,
		JobEnqueuer:        s.jobEnqueuer,
	}
}

func (s *Service) Registry() Registry {
	if s == nil {
		return nil
	}
	return s.registry
}

func (s *Service) mapError(err error) error {
	if err == nil {
		return nil
	}
	if s == nil || s.errorMapper == nil {
		return err
	}
	mapped := s.errorMapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}

// interactive reports whether a presenter is wired. Without one the
// service runs in background mode and challenge interruptions resolve
// unverified instead of waiting on user input.
func (s *Service) interactive() bool {
	return s != nil && s.challengePresenter != nil
}

func (s *Service) adapterFor(account Account) (ProviderAdapter, error) {
	adapter, ok := s.registry.Get(account.Kind)
	if !ok {
		return nil, ErrProviderNotFound
	}
	return adapter, nil
}
