package retailer

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-ordersync/core"
	"github.com/goliatone/go-ordersync/providers"
)

type stubClient struct {
	linkErr       error
	verifyFn      func(onSuccess func(bool, string), onFailure func(LinkFailure))
	ordersFn      func(lookbackDays int, onPage func(*core.OrderPage, int), onFailure func(int, string))
	unlinkedCalls int
	raws          []core.RawAccount
}

func (s *stubClient) Link(context.Context, string, core.Credentials) error {
	return s.linkErr
}

func (s *stubClient) Verify(_ context.Context, _ string, _ string,
	onSuccess func(bool, string), onFailure func(LinkFailure)) {
	if s.verifyFn != nil {
		s.verifyFn(onSuccess, onFailure)
	}
}

func (s *stubClient) Orders(_ context.Context, _ string, _ string, lookbackDays int,
	onPage func(*core.OrderPage, int), onFailure func(int, string)) {
	if s.ordersFn != nil {
		s.ordersFn(lookbackDays, onPage, onFailure)
	}
}

func (s *stubClient) Unlink(context.Context, string, string) error {
	s.unlinkedCalls++
	return nil
}

func (s *stubClient) Accounts(context.Context) ([]core.RawAccount, error) {
	return s.raws, nil
}

func testClientContext() providers.ClientContext {
	return providers.ClientContext{
		LicenseKey:  "license",
		ProductKey:  "product",
		CountryCode: "US",
		DayCutoff:   providers.DefaultDayCutoff,
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(nil, testClientContext()); err == nil {
		t.Fatalf("expected nil client rejection")
	}
	if _, err := New(&stubClient{}, providers.ClientContext{}); err == nil {
		t.Fatalf("expected invalid context rejection")
	}
}

func TestAdapter_KindAndSources(t *testing.T) {
	adapter, err := New(&stubClient{}, testClientContext())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if adapter.Kind() != core.ProviderKindRetailer {
		t.Fatalf("unexpected kind: %v", adapter.Kind())
	}
	sources := adapter.Sources()
	if len(sources) != len(KnownSources()) {
		t.Fatalf("expected all known sources, got %d", len(sources))
	}

	restricted, err := New(&stubClient{}, testClientContext(), WithSources([]string{"amazon", "target"}))
	if err != nil {
		t.Fatalf("new restricted: %v", err)
	}
	if len(restricted.Sources()) != 2 {
		t.Fatalf("expected restricted sources, got %v", restricted.Sources())
	}
}

func TestAdapter_Link(t *testing.T) {
	adapter, _ := New(&stubClient{}, testClientContext())
	linked, err := adapter.Link(context.Background(), "amazon", core.Credentials{Username: "u", Password: "p"})
	if err != nil || !linked {
		t.Fatalf("expected link success, got %v %v", linked, err)
	}

	failure := errors.New("portal down")
	failing, _ := New(&stubClient{linkErr: failure}, testClientContext())
	if _, err := failing.Link(context.Background(), "amazon", core.Credentials{}); !errors.Is(err, failure) {
		t.Fatalf("expected client error surfaced, got: %v", err)
	}
}

func TestAdapter_VerifyMapsChallenge(t *testing.T) {
	client := &stubClient{
		verifyFn: func(_ func(bool, string), onFailure func(LinkFailure)) {
			onFailure(LinkFailure{Code: CodeVerificationNeeded, Challenge: "captcha-html"})
		},
	}
	adapter, _ := New(client, testClientContext())

	var gotReason core.FailureReason
	var gotChallenge *core.VerificationChallenge
	adapter.Verify(context.Background(), core.Account{ID: "acct", SourceID: "amazon"}, core.VerifyCallbacks{
		OnFailure: func(reason core.FailureReason, _ string, challenge *core.VerificationChallenge) {
			gotReason = reason
			gotChallenge = challenge
		},
	})
	if gotReason != core.FailureReasonVerificationNeeded {
		t.Fatalf("expected verification_needed, got %s", gotReason)
	}
	if gotChallenge == nil || gotChallenge.Token != "captcha-html" || gotChallenge.AccountID != "acct" {
		t.Fatalf("unexpected challenge: %+v", gotChallenge)
	}
}

func TestAdapter_VerifyMapsTerminalCodes(t *testing.T) {
	cases := []struct {
		code int
		want core.FailureReason
	}{
		{CodeInternalError, core.FailureReasonInternalError},
		{CodeInvalidCredentials, core.FailureReasonInvalidCredentials},
		{CodeParsingFailure, core.FailureReasonParsingFailure},
		{CodeUserInputCompleted, core.FailureReasonUserInputCompleted},
		{CodeCoreLoadFailure, core.FailureReasonCoreLoadFailure},
		{CodeInvalidData, core.FailureReasonInvalidData},
		{CodeMissingCredentials, core.FailureReasonMissingCredentials},
		{999, core.FailureReasonUnknown},
	}
	for _, tc := range cases {
		client := &stubClient{
			verifyFn: func(_ func(bool, string), onFailure func(LinkFailure)) {
				onFailure(LinkFailure{Code: tc.code})
			},
		}
		adapter, _ := New(client, testClientContext())

		var gotReason core.FailureReason
		var gotChallenge *core.VerificationChallenge
		adapter.Verify(context.Background(), core.Account{SourceID: "amazon"}, core.VerifyCallbacks{
			OnFailure: func(reason core.FailureReason, _ string, challenge *core.VerificationChallenge) {
				gotReason = reason
				gotChallenge = challenge
			},
		})
		if gotReason != tc.want {
			t.Fatalf("code %d: expected %s, got %s", tc.code, tc.want, gotReason)
		}
		if gotChallenge != nil {
			t.Fatalf("code %d: terminal failure must not carry a challenge", tc.code)
		}
	}
}

func TestAdapter_VerifyNeededWithoutChallengeIsTerminal(t *testing.T) {
	client := &stubClient{
		verifyFn: func(_ func(bool, string), onFailure func(LinkFailure)) {
			onFailure(LinkFailure{Code: CodeVerificationNeeded})
		},
	}
	adapter, _ := New(client, testClientContext())

	var gotChallenge *core.VerificationChallenge
	adapter.Verify(context.Background(), core.Account{SourceID: "amazon"}, core.VerifyCallbacks{
		OnFailure: func(_ core.FailureReason, _ string, challenge *core.VerificationChallenge) {
			gotChallenge = challenge
		},
	})
	if gotChallenge != nil {
		t.Fatalf("missing artifact must not produce a challenge")
	}
}

func TestAdapter_OrdersClampsLookback(t *testing.T) {
	var captured int
	client := &stubClient{
		ordersFn: func(lookbackDays int, onPage func(*core.OrderPage, int), _ func(int, string)) {
			captured = lookbackDays
			onPage(&core.OrderPage{}, 0)
		},
	}
	adapter, _ := New(client, testClientContext())

	adapter.Orders(context.Background(), core.Account{ID: "acct"}, 0, core.OrderCallbacks{
		OnPage: func(string, *core.OrderPage, int) {},
	})
	if captured != providers.DefaultDayCutoff {
		t.Fatalf("zero lookback must widen to the cutoff, got %d", captured)
	}

	adapter.Orders(context.Background(), core.Account{ID: "acct"}, 30, core.OrderCallbacks{
		OnPage: func(string, *core.OrderPage, int) {},
	})
	if captured != 30 {
		t.Fatalf("in-range lookback must pass through, got %d", captured)
	}

	adapter.Orders(context.Background(), core.Account{ID: "acct"}, providers.DefaultDayCutoff+1, core.OrderCallbacks{
		OnPage: func(string, *core.OrderPage, int) {},
	})
	if captured != providers.DefaultDayCutoff {
		t.Fatalf("oversized lookback must clamp to the cutoff, got %d", captured)
	}
}

func TestAdapter_OrdersMapsFailureCode(t *testing.T) {
	client := &stubClient{
		ordersFn: func(_ int, _ func(*core.OrderPage, int), onFailure func(int, string)) {
			onFailure(CodeParsingFailure, "bad receipt")
		},
	}
	adapter, _ := New(client, testClientContext())

	var gotReason core.FailureReason
	var gotMessage string
	adapter.Orders(context.Background(), core.Account{ID: "acct"}, 5, core.OrderCallbacks{
		OnFailure: func(reason core.FailureReason, message string) {
			gotReason = reason
			gotMessage = message
		},
	})
	if gotReason != core.FailureReasonParsingFailure || gotMessage != "bad receipt" {
		t.Fatalf("unexpected failure mapping: %s %q", gotReason, gotMessage)
	}
}

func TestAdapter_UnlinkAndAccounts(t *testing.T) {
	client := &stubClient{raws: []core.RawAccount{{SourceID: "amazon", Username: "u"}}}
	adapter, _ := New(client, testClientContext())

	if err := adapter.Unlink(context.Background(), core.Account{SourceID: "amazon", Username: "u"}); err != nil {
		t.Fatalf("unlink: %v", err)
	}
	if client.unlinkedCalls != 1 {
		t.Fatalf("expected one unlink call")
	}
	raws, err := adapter.Accounts(context.Background())
	if err != nil || len(raws) != 1 {
		t.Fatalf("accounts: %v %v", raws, err)
	}
}
