package ordersync

import (
	"fmt"
	"reflect"

	ordersynccommand "github.com/goliatone/go-ordersync/command"
	"github.com/goliatone/go-ordersync/core"
	ordersyncquery "github.com/goliatone/go-ordersync/query"
)

type CommandQueryService interface {
	ordersynccommand.MutatingService
	ordersyncquery.AccountReader
}

type Commands struct {
	LinkAccount      *ordersynccommand.LinkAccountCommand
	VerifyAccount    *ordersynccommand.VerifyAccountCommand
	ResolveChallenge *ordersynccommand.ResolveChallengeCommand
	RemoveAccount    *ordersynccommand.RemoveAccountCommand
	FetchOrders      *ordersynccommand.FetchOrdersCommand
	FetchAllOrders   *ordersynccommand.FetchAllOrdersCommand
	ScheduleSync     *ordersynccommand.ScheduleSyncCommand
	ScheduleSyncAll  *ordersynccommand.ScheduleSyncAllCommand
}

type Queries struct {
	ListAccounts  *ordersyncquery.ListAccountsQuery
	GetAccount    *ordersyncquery.GetAccountQuery
	GetScanCursor *ordersyncquery.GetScanCursorQuery
}

type Facade struct {
	service  CommandQueryService
	commands Commands
	queries  Queries
}

type FacadeOption func(*facadeOptions)

type facadeOptions struct {
	cursorReader ordersyncquery.ScanCursorReader
}

func WithScanCursorReader(reader ordersyncquery.ScanCursorReader) FacadeOption {
	return func(options *facadeOptions) {
		options.cursorReader = reader
	}
}

func NewFacade(service CommandQueryService, opts ...FacadeOption) (*Facade, error) {
	if service == nil {
		return nil, fmt.Errorf("ordersync: command/query service is required")
	}
	cfg := facadeOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	reader := cfg.cursorReader
	if reader == nil {
		reader = resolveScanCursorReader(service)
	}

	facade := &Facade{service: service}
	facade.commands = Commands{
		LinkAccount:      ordersynccommand.NewLinkAccountCommand(service),
		VerifyAccount:    ordersynccommand.NewVerifyAccountCommand(service),
		ResolveChallenge: ordersynccommand.NewResolveChallengeCommand(service),
		RemoveAccount:    ordersynccommand.NewRemoveAccountCommand(service),
		FetchOrders:      ordersynccommand.NewFetchOrdersCommand(service),
		FetchAllOrders:   ordersynccommand.NewFetchAllOrdersCommand(service),
		ScheduleSync:     ordersynccommand.NewScheduleSyncCommand(service),
		ScheduleSyncAll:  ordersynccommand.NewScheduleSyncAllCommand(service),
	}
	facade.queries = Queries{
		ListAccounts:  ordersyncquery.NewListAccountsQuery(service),
		GetAccount:    ordersyncquery.NewGetAccountQuery(service),
		GetScanCursor: ordersyncquery.NewGetScanCursorQuery(reader),
	}

	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Service() CommandQueryService {
	if f == nil {
		return nil
	}
	return f.service
}

func resolveScanCursorReader(service CommandQueryService) ordersyncquery.ScanCursorReader {
	if service == nil {
		return nil
	}
	if reader, ok := service.(ordersyncquery.ScanCursorReader); ok {
		return reader
	}
	provider, ok := service.(interface {
		Dependencies() core.ServiceDependencies
	})
	if !ok {
		return nil
	}
	deps := provider.Dependencies()
	if deps.ScanCursorStore != nil {
		return deps.ScanCursorStore
	}
	if deps.RepositoryFactory == nil {
		return nil
	}

	factoryValue := reflect.ValueOf(deps.RepositoryFactory)
	if !factoryValue.IsValid() {
		return nil
	}
	if factoryValue.Kind() == reflect.Ptr && factoryValue.IsNil() {
		return nil
	}
	method := factoryValue.MethodByName("ScanCursorStore")
	if !method.IsValid() || method.Type().NumIn() != 0 || method.Type().NumOut() != 1 {
		return nil
	}

	results, ok := safeReflectCall(method)
	if !ok {
		return nil
	}
	if len(results) != 1 {
		return nil
	}
	candidate := results[0]
	if !candidate.IsValid() {
		return nil
	}
	if candidate.Kind() == reflect.Ptr && candidate.IsNil() {
		return nil
	}
	reader, ok := candidate.Interface().(ordersyncquery.ScanCursorReader)
	if !ok {
		return nil
	}
	return reader
}

func safeReflectCall(method reflect.Value) (_ []reflect.Value, ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return method.Call(nil), true
}
