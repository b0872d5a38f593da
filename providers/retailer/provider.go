package retailer

import (
	"context"
	"fmt"

	"github.com/goliatone/go-ordersync/core"
	"github.com/goliatone/go-ordersync/providers"
)

// Client failure codes mirror the numeric codes retail linking SDKs
// report in their failure callbacks.
const (
	CodeVerificationNeeded = 1
	CodeInternalError      = 2
	CodeInvalidCredentials = 3
	CodeParsingFailure     = 4
	CodeUserInputCompleted = 5
	CodeCoreLoadFailure    = 6
	CodeInvalidData        = 7
	CodeMissingCredentials = 8
)

// knownSources are the retail portals the linking SDK can scrape.
var knownSources = []string{
	"acme_markets",
	"albertsons",
	"amazon",
	"amazon_ca",
	"amazon_uk",
	"bed_bath_and_beyond",
	"bestbuy",
	"bjs_wholesale",
	"chewy",
	"costco",
	"cvs",
	"dicks_sporting_goods",
	"dollar_general",
	"dollar_tree",
	"dominos_pizza",
	"door_dash",
	"drizly",
	"family_dollar",
	"food_4_less",
	"food_lion",
	"fred_meyer",
	"gap",
	"giant_eagle",
	"grubhub",
	"heb",
	"home_depot",
	"hyvee",
	"instacart",
	"jewel_osco",
	"kohls",
	"kroger",
	"lowes",
	"macys",
	"marshalls",
	"meijer",
	"nike",
	"publix",
	"ralphs",
	"rite_aid",
	"safeway",
	"sams_club",
	"seamless",
	"sephora",
	"shipt",
	"shoprite",
	"sprouts",
	"staples",
	"staples_ca",
	"starbucks",
	"taco_bell",
	"target",
	"tj_maxx",
	"uber_eats",
	"ulta",
	"vons",
	"walgreens",
	"walmart",
	"walmart_ca",
	"wegmans",
}

// KnownSources returns the retail source slugs this adapter claims.
func KnownSources() []string {
	return append([]string(nil), knownSources...)
}

// LinkFailure is the failure payload a linking client reports. A
// non-empty Challenge with CodeVerificationNeeded carries the opaque
// artifact the user must complete.
type LinkFailure struct {
	Code      int
	Message   string
	Challenge string
}

// LinkingClient is the surface of a retail account linking SDK. All
// methods may invoke their callbacks from another goroutine and may
// invoke them more than once.
type LinkingClient interface {
	Link(ctx context.Context, sourceID string, creds core.Credentials) error
	Verify(ctx context.Context, sourceID string, username string,
		onSuccess func(verified bool, token string),
		onFailure func(failure LinkFailure))
	Orders(ctx context.Context, sourceID string, username string, lookbackDays int,
		onPage func(page *core.OrderPage, remaining int),
		onFailure func(code int, message string))
	Unlink(ctx context.Context, sourceID string, username string) error
	Accounts(ctx context.Context) ([]core.RawAccount, error)
}

// Adapter drives a retail linking client through the provider contract.
type Adapter struct {
	client  LinkingClient
	cctx    providers.ClientContext
	sources []string
}

type Option func(*Adapter)

// WithSources restricts the adapter to a subset of the known slugs.
func WithSources(sources []string) Option {
	return func(a *Adapter) {
		if len(sources) > 0 {
			a.sources = append([]string(nil), sources...)
		}
	}
}

func New(client LinkingClient, cctx providers.ClientContext, options ...Option) (*Adapter, error) {
	if client == nil {
		return nil, fmt.Errorf("retailer: linking client is required")
	}
	if err := cctx.Validate(); err != nil {
		return nil, err
	}
	adapter := &Adapter{
		client:  client,
		cctx:    cctx,
		sources: KnownSources(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(adapter)
		}
	}
	return adapter, nil
}

func (a *Adapter) Kind() core.ProviderKind {
	return core.ProviderKindRetailer
}

func (a *Adapter) Sources() []string {
	return append([]string(nil), a.sources...)
}

func (a *Adapter) Link(ctx context.Context, sourceID string, creds core.Credentials) (bool, error) {
	if err := a.client.Link(ctx, sourceID, creds); err != nil {
		return false, err
	}
	return true, nil
}

func (a *Adapter) Verify(ctx context.Context, account core.Account, callbacks core.VerifyCallbacks) {
	a.client.Verify(ctx, account.SourceID, account.Username,
		func(verified bool, token string) {
			if callbacks.OnSuccess != nil {
				callbacks.OnSuccess(verified, token)
			}
		},
		func(failure LinkFailure) {
			if callbacks.OnFailure == nil {
				return
			}
			if failure.Code == CodeVerificationNeeded && failure.Challenge != "" {
				callbacks.OnFailure(core.FailureReasonVerificationNeeded, failure.Message, &core.VerificationChallenge{
					AccountID: account.ID,
					Token:     failure.Challenge,
				})
				return
			}
			callbacks.OnFailure(FailureReasonForCode(failure.Code), failure.Message, nil)
		},
	)
}

func (a *Adapter) Orders(ctx context.Context, account core.Account, lookbackDays int, callbacks core.OrderCallbacks) {
	if lookbackDays <= 0 || lookbackDays > a.cctx.DayCutoff {
		lookbackDays = a.cctx.DayCutoff
	}
	a.client.Orders(ctx, account.SourceID, account.Username, lookbackDays,
		func(page *core.OrderPage, remaining int) {
			if callbacks.OnPage != nil {
				callbacks.OnPage(account.ID, page, remaining)
			}
		},
		func(code int, message string) {
			if callbacks.OnFailure != nil {
				callbacks.OnFailure(FailureReasonForCode(code), message)
			}
		},
	)
}

func (a *Adapter) Unlink(ctx context.Context, account core.Account) error {
	return a.client.Unlink(ctx, account.SourceID, account.Username)
}

func (a *Adapter) Accounts(ctx context.Context) ([]core.RawAccount, error) {
	return a.client.Accounts(ctx)
}

// FailureReasonForCode maps a client failure code onto the shared
// failure taxonomy. Unrecognized codes map to unknown.
func FailureReasonForCode(code int) core.FailureReason {
	switch code {
	case CodeVerificationNeeded:
		return core.FailureReasonVerificationNeeded
	case CodeInternalError:
		return core.FailureReasonInternalError
	case CodeInvalidCredentials:
		return core.FailureReasonInvalidCredentials
	case CodeParsingFailure:
		return core.FailureReasonParsingFailure
	case CodeUserInputCompleted:
		return core.FailureReasonUserInputCompleted
	case CodeCoreLoadFailure:
		return core.FailureReasonCoreLoadFailure
	case CodeInvalidData:
		return core.FailureReasonInvalidData
	case CodeMissingCredentials:
		return core.FailureReasonMissingCredentials
	default:
		return core.FailureReasonUnknown
	}
}

var _ core.ProviderAdapter = (*Adapter)(nil)
