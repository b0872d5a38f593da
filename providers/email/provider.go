package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-ordersync/core"
	"github.com/goliatone/go-ordersync/providers"
)

const SourceGmail = "gmail"

// MaxLookbackDays caps e-receipt scans. IMAP providers throttle deep
// mailbox scans, so the window is much narrower than for retailers.
const MaxLookbackDays = 15

// IMAPClient is the surface of an e-receipt mailbox client. Methods
// may invoke their callbacks from another goroutine.
type IMAPClient interface {
	Login(ctx context.Context, sourceID string, creds core.Credentials) error
	Verify(ctx context.Context, sourceID string, username string,
		onSuccess func(verified bool),
		onChallenge func(consentURL string),
		onError func(message string))
	FetchReceipts(ctx context.Context, sourceID string, username string, lookbackDays int,
		onPage func(page *core.OrderPage, remaining int),
		onError func(message string))
	Logout(ctx context.Context, sourceID string, username string) error
	Accounts(ctx context.Context) ([]core.RawAccount, error)
}

// Adapter exposes an e-receipt mailbox client through the provider
// contract. E-receipt pages surface as order records.
type Adapter struct {
	client  IMAPClient
	cctx    providers.ClientContext
	sources []string
}

func New(client IMAPClient, cctx providers.ClientContext) (*Adapter, error) {
	if client == nil {
		return nil, fmt.Errorf("email: imap client is required")
	}
	if err := cctx.Validate(); err != nil {
		return nil, err
	}
	return &Adapter{
		client:  client,
		cctx:    cctx,
		sources: []string{SourceGmail},
	}, nil
}

func (a *Adapter) Kind() core.ProviderKind {
	return core.ProviderKindEmail
}

func (a *Adapter) Sources() []string {
	return append([]string(nil), a.sources...)
}

func (a *Adapter) Link(ctx context.Context, sourceID string, creds core.Credentials) (bool, error) {
	if err := a.client.Login(ctx, sourceID, creds); err != nil {
		return false, err
	}
	return true, nil
}

func (a *Adapter) Verify(ctx context.Context, account core.Account, callbacks core.VerifyCallbacks) {
	a.client.Verify(ctx, account.SourceID, account.Username,
		func(verified bool) {
			if callbacks.OnSuccess != nil {
				callbacks.OnSuccess(verified, "")
			}
		},
		func(consentURL string) {
			if callbacks.OnFailure != nil {
				callbacks.OnFailure(core.FailureReasonVerificationNeeded, "", &core.VerificationChallenge{
					AccountID: account.ID,
					Token:     consentURL,
				})
			}
		},
		func(message string) {
			if callbacks.OnFailure != nil {
				callbacks.OnFailure(classifyVerifyFailure(message), message, nil)
			}
		},
	)
}

// classifyVerifyFailure keeps invalid_credentials for auth-shaped IMAP
// errors; anything else is an internal provider fault.
func classifyVerifyFailure(message string) core.FailureReason {
	lowered := strings.ToLower(message)
	for _, marker := range []string{"password", "credential", "auth", "login", "denied"} {
		if strings.Contains(lowered, marker) {
			return core.FailureReasonInvalidCredentials
		}
	}
	return core.FailureReasonInternalError
}

func (a *Adapter) Orders(ctx context.Context, account core.Account, lookbackDays int, callbacks core.OrderCallbacks) {
	if lookbackDays <= 0 || lookbackDays > MaxLookbackDays {
		lookbackDays = MaxLookbackDays
	}
	a.client.FetchReceipts(ctx, account.SourceID, account.Username, lookbackDays,
		func(page *core.OrderPage, remaining int) {
			if callbacks.OnPage != nil {
				callbacks.OnPage(account.ID, page, remaining)
			}
		},
		func(message string) {
			if callbacks.OnFailure != nil {
				callbacks.OnFailure(core.FailureReasonInternalError, message)
			}
		},
	)
}

func (a *Adapter) Unlink(ctx context.Context, account core.Account) error {
	return a.client.Logout(ctx, account.SourceID, account.Username)
}

func (a *Adapter) Accounts(ctx context.Context) ([]core.RawAccount, error) {
	return a.client.Accounts(ctx)
}

var _ core.ProviderAdapter = (*Adapter)(nil)
