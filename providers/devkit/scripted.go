// Package devkit provides scripted provider clients for tests and
// local development. Scripts are declared per call site so tests can
// drive the full verification and sync state space without a real SDK.
package devkit

import (
	"context"
	"strings"
	"sync"

	"github.com/goliatone/go-ordersync/core"
	"github.com/goliatone/go-ordersync/providers/retailer"
)

// VerifyStep scripts one verification attempt for a scripted client.
type VerifyStep struct {
	Verified  bool
	Token     string
	Failure   *retailer.LinkFailure
	ErrorText string
}

// OrderStep scripts one result page. Remaining follows the provider
// pagination contract: zero marks the terminal page.
type OrderStep struct {
	Page      *core.OrderPage
	Remaining int
	FailCode  int
	FailText  string
}

// ScriptedLinkingClient is an in-memory retailer.LinkingClient. Verify
// pops one VerifyStep per call; Orders replays the whole order script.
type ScriptedLinkingClient struct {
	mu          sync.Mutex
	LinkErr     error
	VerifySteps []VerifyStep
	OrderSteps  []OrderStep
	linked      map[string]core.Credentials
	unlinked    []string
}

func NewScriptedLinkingClient() *ScriptedLinkingClient {
	return &ScriptedLinkingClient{linked: map[string]core.Credentials{}}
}

func (c *ScriptedLinkingClient) Link(_ context.Context, sourceID string, creds core.Credentials) error {
	if c.LinkErr != nil {
		return c.LinkErr
	}
	c.mu.Lock()
	c.linked[sourceID+"::"+creds.Username] = creds
	c.mu.Unlock()
	return nil
}

func (c *ScriptedLinkingClient) Verify(_ context.Context, sourceID string, username string,
	onSuccess func(verified bool, token string),
	onFailure func(failure retailer.LinkFailure),
) {
	step := c.popVerifyStep()
	if step.Failure != nil {
		onFailure(*step.Failure)
		return
	}
	onSuccess(step.Verified, step.Token)
}

func (c *ScriptedLinkingClient) Orders(_ context.Context, sourceID string, username string, lookbackDays int,
	onPage func(page *core.OrderPage, remaining int),
	onFailure func(code int, message string),
) {
	c.mu.Lock()
	steps := append([]OrderStep(nil), c.OrderSteps...)
	c.mu.Unlock()
	for _, step := range steps {
		if step.FailCode != 0 {
			onFailure(step.FailCode, step.FailText)
			return
		}
		onPage(step.Page, step.Remaining)
	}
}

func (c *ScriptedLinkingClient) Unlink(_ context.Context, sourceID string, username string) error {
	c.mu.Lock()
	key := sourceID + "::" + username
	delete(c.linked, key)
	c.unlinked = append(c.unlinked, key)
	c.mu.Unlock()
	return nil
}

func (c *ScriptedLinkingClient) Accounts(context.Context) ([]core.RawAccount, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	accounts := make([]core.RawAccount, 0, len(c.linked))
	for key := range c.linked {
		accounts = append(accounts, rawAccountFromKey(key))
	}
	return accounts, nil
}

// Unlinked reports the source::username keys unlinked so far.
func (c *ScriptedLinkingClient) Unlinked() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.unlinked...)
}

func (c *ScriptedLinkingClient) popVerifyStep() VerifyStep {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.VerifySteps) == 0 {
		return VerifyStep{Verified: true, Token: "devkit-token"}
	}
	step := c.VerifySteps[0]
	c.VerifySteps = c.VerifySteps[1:]
	return step
}

// ScriptedIMAPClient is an in-memory email.IMAPClient following the
// same scripting model as ScriptedLinkingClient.
type ScriptedIMAPClient struct {
	mu          sync.Mutex
	LoginErr    error
	VerifySteps []VerifyStep
	OrderSteps  []OrderStep
	linked      map[string]core.Credentials
	loggedOut   []string
}

func NewScriptedIMAPClient() *ScriptedIMAPClient {
	return &ScriptedIMAPClient{linked: map[string]core.Credentials{}}
}

func (c *ScriptedIMAPClient) Login(_ context.Context, sourceID string, creds core.Credentials) error {
	if c.LoginErr != nil {
		return c.LoginErr
	}
	c.mu.Lock()
	c.linked[sourceID+"::"+creds.Username] = creds
	c.mu.Unlock()
	return nil
}

func (c *ScriptedIMAPClient) Verify(_ context.Context, sourceID string, username string,
	onSuccess func(verified bool),
	onChallenge func(consentURL string),
	onError func(message string),
) {
	step := c.popVerifyStep()
	switch {
	case step.Failure != nil && step.Failure.Challenge != "":
		onChallenge(step.Failure.Challenge)
	case step.ErrorText != "":
		onError(step.ErrorText)
	default:
		onSuccess(step.Verified)
	}
}

func (c *ScriptedIMAPClient) FetchReceipts(_ context.Context, sourceID string, username string, lookbackDays int,
	onPage func(page *core.OrderPage, remaining int),
	onError func(message string),
) {
	c.mu.Lock()
	steps := append([]OrderStep(nil), c.OrderSteps...)
	c.mu.Unlock()
	for _, step := range steps {
		if step.FailText != "" {
			onError(step.FailText)
			return
		}
		onPage(step.Page, step.Remaining)
	}
}

func (c *ScriptedIMAPClient) Logout(_ context.Context, sourceID string, username string) error {
	c.mu.Lock()
	key := sourceID + "::" + username
	delete(c.linked, key)
	c.loggedOut = append(c.loggedOut, key)
	c.mu.Unlock()
	return nil
}

func (c *ScriptedIMAPClient) Accounts(context.Context) ([]core.RawAccount, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	accounts := make([]core.RawAccount, 0, len(c.linked))
	for key := range c.linked {
		accounts = append(accounts, rawAccountFromKey(key))
	}
	return accounts, nil
}

func (c *ScriptedIMAPClient) popVerifyStep() VerifyStep {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.VerifySteps) == 0 {
		return VerifyStep{Verified: true}
	}
	step := c.VerifySteps[0]
	c.VerifySteps = c.VerifySteps[1:]
	return step
}

func rawAccountFromKey(key string) core.RawAccount {
	sourceID, username, _ := strings.Cut(key, "::")
	return core.RawAccount{SourceID: sourceID, Username: username}
}
