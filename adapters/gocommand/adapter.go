package gocommand

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-command"
	commanddispatcher "github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
	jobqueuecommand "github.com/goliatone/go-job/queue/command"

	ordersynccommand "github.com/goliatone/go-ordersync/command"
	ordersyncquery "github.com/goliatone/go-ordersync/query"
)

// ValidateMessageContract enforces Type() plus optional Validate() contract.
func ValidateMessageContract(msg any) error {
	if err := command.ValidateMessage(msg); err != nil {
		return err
	}
	m, ok := msg.(command.Message)
	if !ok {
		return fmt.Errorf("gocommand: message must implement Type() string")
	}
	if strings.TrimSpace(m.Type()) == "" {
		return fmt.Errorf("gocommand: message type is required")
	}
	return nil
}

type RegistryAdapter struct {
	registry *command.Registry
}

func NewRegistryAdapter(registry *command.Registry) *RegistryAdapter {
	if registry == nil {
		registry = command.NewRegistry()
	}
	return &RegistryAdapter{registry: registry}
}

func (a *RegistryAdapter) Registry() *command.Registry {
	if a == nil {
		return nil
	}
	return a.registry
}

func (a *RegistryAdapter) RegisterCommand(cmd any) error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.RegisterCommand(cmd)
}

func (a *RegistryAdapter) RegisterQuery(qry any) error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.RegisterCommand(qry)
}

func (a *RegistryAdapter) AddResolver(key string, resolver command.Resolver) error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.AddResolver(strings.TrimSpace(key), resolver)
}

func (a *RegistryAdapter) AddQueueResolver(key string, queueRegistry *jobqueuecommand.Registry) error {
	if queueRegistry == nil {
		return fmt.Errorf("gocommand: queue registry is required")
	}
	return a.AddResolver(key, jobqueuecommand.QueueResolver(queueRegistry))
}

func (a *RegistryAdapter) HasResolver(key string) bool {
	if a == nil || a.registry == nil {
		return false
	}
	return a.registry.HasResolver(strings.TrimSpace(key))
}

func (a *RegistryAdapter) Initialize() error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.Initialize()
}

func SubscribeCommand[T any](cmd command.Commander[T], runnerOpts ...runner.Option) commanddispatcher.Subscription {
	return commanddispatcher.SubscribeCommand(cmd, runnerOpts...)
}

func SubscribeCommandFunc[T any](handler command.CommandFunc[T], runnerOpts ...runner.Option) commanddispatcher.Subscription {
	return commanddispatcher.SubscribeCommand(handler, runnerOpts...)
}

func SubscribeQuery[T any, R any](qry command.Querier[T, R], runnerOpts ...runner.Option) commanddispatcher.Subscription {
	return commanddispatcher.SubscribeQuery(qry, runnerOpts...)
}

func SubscribeQueryFunc[T any, R any](qry command.QueryFunc[T, R], runnerOpts ...runner.Option) commanddispatcher.Subscription {
	return commanddispatcher.SubscribeQuery(qry, runnerOpts...)
}

func Dispatch[T any](ctx context.Context, msg T) error {
	return commanddispatcher.Dispatch(ctx, msg)
}

func Query[T any, R any](ctx context.Context, msg T) (R, error) {
	return commanddispatcher.Query[T, R](ctx, msg)
}

// CommandBundle holds the live dispatcher subscriptions for one
// registered linking service.
type CommandBundle struct {
	subscriptions []commanddispatcher.Subscription
}

func (b *CommandBundle) Unsubscribe() {
	if b == nil {
		return
	}
	for _, subscription := range b.subscriptions {
		if subscription != nil {
			subscription.Unsubscribe()
		}
	}
	b.subscriptions = nil
}

// RegisterService registers and subscribes the full ordersync command
// and query surface against the shared dispatcher. The cursor reader
// is optional; without it the scan cursor query is not exposed, and
// when it also satisfies the cursor mutator contract the clear-cursor
// command is registered as well.
func RegisterService(
	adapter *RegistryAdapter,
	service ordersynccommand.MutatingService,
	accounts ordersyncquery.AccountReader,
	cursors ordersyncquery.ScanCursorReader,
	runnerOpts ...runner.Option,
) (*CommandBundle, error) {
	if adapter == nil || adapter.registry == nil {
		return nil, fmt.Errorf("gocommand: registry is not configured")
	}
	if service == nil {
		return nil, fmt.Errorf("gocommand: mutating service is required")
	}

	bundle := &CommandBundle{}
	keep := func(subscription commanddispatcher.Subscription, err error) error {
		if err != nil {
			bundle.Unsubscribe()
			return err
		}
		bundle.subscriptions = append(bundle.subscriptions, subscription)
		return nil
	}

	if err := keep(RegisterAndSubscribe(adapter, ordersynccommand.NewLinkAccountCommand(service), runnerOpts...)); err != nil {
		return nil, err
	}
	if err := keep(RegisterAndSubscribe(adapter, ordersynccommand.NewVerifyAccountCommand(service), runnerOpts...)); err != nil {
		return nil, err
	}
	if err := keep(RegisterAndSubscribe(adapter, ordersynccommand.NewResolveChallengeCommand(service), runnerOpts...)); err != nil {
		return nil, err
	}
	if err := keep(RegisterAndSubscribe(adapter, ordersynccommand.NewRemoveAccountCommand(service), runnerOpts...)); err != nil {
		return nil, err
	}
	if err := keep(RegisterAndSubscribe(adapter, ordersynccommand.NewFetchOrdersCommand(service), runnerOpts...)); err != nil {
		return nil, err
	}
	if err := keep(RegisterAndSubscribe(adapter, ordersynccommand.NewFetchAllOrdersCommand(service), runnerOpts...)); err != nil {
		return nil, err
	}
	if err := keep(RegisterAndSubscribe(adapter, ordersynccommand.NewScheduleSyncCommand(service), runnerOpts...)); err != nil {
		return nil, err
	}
	if err := keep(RegisterAndSubscribe(adapter, ordersynccommand.NewScheduleSyncAllCommand(service), runnerOpts...)); err != nil {
		return nil, err
	}

	if accounts != nil {
		if err := keep(RegisterAndSubscribeQuery(adapter, ordersyncquery.NewListAccountsQuery(accounts), runnerOpts...)); err != nil {
			return nil, err
		}
		if err := keep(RegisterAndSubscribeQuery(adapter, ordersyncquery.NewGetAccountQuery(accounts), runnerOpts...)); err != nil {
			return nil, err
		}
	}
	if cursors != nil {
		if err := keep(RegisterAndSubscribeQuery(adapter, ordersyncquery.NewGetScanCursorQuery(cursors), runnerOpts...)); err != nil {
			return nil, err
		}
		if mutator, ok := cursors.(ordersynccommand.CursorMutator); ok {
			if err := keep(RegisterAndSubscribe(adapter, ordersynccommand.NewClearCursorCommand(mutator), runnerOpts...)); err != nil {
				return nil, err
			}
		}
	}

	return bundle, nil
}

func RegisterAndSubscribe[T any](
	adapter *RegistryAdapter,
	cmd command.Commander[T],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	if adapter == nil || adapter.registry == nil {
		return nil, fmt.Errorf("gocommand: registry is not configured")
	}
	if cmd == nil {
		return nil, fmt.Errorf("gocommand: command is required")
	}
	subscription := SubscribeCommand(cmd, runnerOpts...)
	if err := adapter.RegisterCommand(cmd); err != nil {
		if subscription != nil {
			subscription.Unsubscribe()
		}
		return nil, err
	}
	return subscription, nil
}

func RegisterAndSubscribeQuery[T any, R any](
	adapter *RegistryAdapter,
	qry command.Querier[T, R],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	if adapter == nil || adapter.registry == nil {
		return nil, fmt.Errorf("gocommand: registry is not configured")
	}
	if qry == nil {
		return nil, fmt.Errorf("gocommand: query is required")
	}
	subscription := SubscribeQuery(qry, runnerOpts...)
	if err := adapter.RegisterQuery(qry); err != nil {
		if subscription != nil {
			subscription.Unsubscribe()
		}
		return nil, err
	}
	return subscription, nil
}
