package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-ordersync/core"
)

// MutatingService is the slice of the linking service the command
// handlers drive. core.Service satisfies it.
type MutatingService interface {
	Link(ctx context.Context, sourceID string, creds core.Credentials) (core.LinkResult, error)
	Verify(ctx context.Context, accountID string) (core.VerifyResult, error)
	ResolveChallenge(ctx context.Context, accountID string) (core.VerifyResult, error)
	Remove(ctx context.Context, accountID string) error
	FetchOrders(ctx context.Context, accountID string) (core.OrderBatch, error)
	FetchAllOrders(ctx context.Context, accountIDs ...string) ([]core.OrderOutcome, error)
	ScheduleSync(ctx context.Context, accountID string) error
	ScheduleSyncAll(ctx context.Context) error
}

type LinkAccountCommand struct {
	service MutatingService
}

func NewLinkAccountCommand(service MutatingService) *LinkAccountCommand {
	return &LinkAccountCommand{service: service}
}

func (c *LinkAccountCommand) Execute(ctx context.Context, msg LinkAccountMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: link service is required")
	}
	out, err := c.service.Link(ctx, msg.SourceID, msg.Credentials)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type VerifyAccountCommand struct {
	service MutatingService
}

func NewVerifyAccountCommand(service MutatingService) *VerifyAccountCommand {
	return &VerifyAccountCommand{service: service}
}

func (c *VerifyAccountCommand) Execute(ctx context.Context, msg VerifyAccountMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: verify service is required")
	}
	out, err := c.service.Verify(ctx, msg.AccountID)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type ResolveChallengeCommand struct {
	service MutatingService
}

func NewResolveChallengeCommand(service MutatingService) *ResolveChallengeCommand {
	return &ResolveChallengeCommand{service: service}
}

func (c *ResolveChallengeCommand) Execute(ctx context.Context, msg ResolveChallengeMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: challenge service is required")
	}
	out, err := c.service.ResolveChallenge(ctx, msg.AccountID)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type RemoveAccountCommand struct {
	service MutatingService
}

func NewRemoveAccountCommand(service MutatingService) *RemoveAccountCommand {
	return &RemoveAccountCommand{service: service}
}

func (c *RemoveAccountCommand) Execute(ctx context.Context, msg RemoveAccountMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: remove service is required")
	}
	return c.service.Remove(ctx, msg.AccountID)
}

type FetchOrdersCommand struct {
	service MutatingService
}

func NewFetchOrdersCommand(service MutatingService) *FetchOrdersCommand {
	return &FetchOrdersCommand{service: service}
}

func (c *FetchOrdersCommand) Execute(ctx context.Context, msg FetchOrdersMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: order service is required")
	}
	out, err := c.service.FetchOrders(ctx, msg.AccountID)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type FetchAllOrdersCommand struct {
	service MutatingService
}

func NewFetchAllOrdersCommand(service MutatingService) *FetchAllOrdersCommand {
	return &FetchAllOrdersCommand{service: service}
}

func (c *FetchAllOrdersCommand) Execute(ctx context.Context, msg FetchAllOrdersMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: order service is required")
	}
	out, err := c.service.FetchAllOrders(ctx, msg.AccountIDs...)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type ScheduleSyncCommand struct {
	service MutatingService
}

func NewScheduleSyncCommand(service MutatingService) *ScheduleSyncCommand {
	return &ScheduleSyncCommand{service: service}
}

func (c *ScheduleSyncCommand) Execute(ctx context.Context, msg ScheduleSyncMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: schedule service is required")
	}
	return c.service.ScheduleSync(ctx, msg.AccountID)
}

type ScheduleSyncAllCommand struct {
	service MutatingService
}

func NewScheduleSyncAllCommand(service MutatingService) *ScheduleSyncAllCommand {
	return &ScheduleSyncAllCommand{service: service}
}

func (c *ScheduleSyncAllCommand) Execute(ctx context.Context, msg ScheduleSyncAllMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: schedule service is required")
	}
	return c.service.ScheduleSyncAll(ctx)
}

// CursorMutator is the store slice the cursor maintenance command
// needs. core.ScanCursorStore satisfies it.
type CursorMutator interface {
	Clear(ctx context.Context, scopeKey string) error
}

type ClearCursorCommand struct {
	cursors CursorMutator
}

func NewClearCursorCommand(cursors CursorMutator) *ClearCursorCommand {
	return &ClearCursorCommand{cursors: cursors}
}

func (c *ClearCursorCommand) Execute(ctx context.Context, msg ClearCursorMessage) error {
	if c == nil || c.cursors == nil {
		return commandDependencyError("command: cursor store is required")
	}
	return c.cursors.Clear(ctx, msg.ScopeKey())
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
