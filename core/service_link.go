package core

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// LinkResult reports the outcome of a link attempt. Linked is true
// once the provider accepted the credentials; Challenge is set when
// verification was interrupted and needs user input to continue.
type LinkResult struct {
	Account   Account
	Linked    bool
	Verified  bool
	Challenge *VerificationChallenge
}

// Link registers credentials with the provider that owns sourceID and
// immediately runs verification. A terminal verification failure rolls
// the link back so no unverifiable account lingers.
func (s *Service) Link(ctx context.Context, sourceID string, creds Credentials) (result LinkResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"source_id": sourceID,
	}
	defer func() {
		s.observeOperation(ctx, startedAt, "link", err, fields)
	}()

	sourceID = strings.ToLower(strings.TrimSpace(sourceID))
	if sourceID == "" {
		err = s.mapError(fmt.Errorf("core: source id is required"))
		return LinkResult{}, err
	}
	if strings.TrimSpace(creds.Username) == "" {
		err = s.mapError(fmt.Errorf("core: username is required"))
		return LinkResult{}, err
	}
	if !creds.HasSecret() {
		err = s.mapError(fmt.Errorf("core: password or oauth token is required"))
		return LinkResult{}, err
	}

	adapter, ok := s.registry.BySource(sourceID)
	if !ok {
		err = s.mapError(fmt.Errorf("%w: no adapter claims source %s", ErrProviderNotFound, sourceID))
		return LinkResult{}, err
	}

	accountID := NewAccountID(adapter.Kind(), sourceID, creds.Username)
	fields["account_id"] = accountID
	fields["provider_kind"] = string(adapter.Kind())

	if guardErr := s.directory.BeginVerification(accountID); guardErr != nil {
		err = s.mapError(guardErr)
		return LinkResult{}, err
	}
	defer s.directory.EndVerification(accountID)

	accepted, linkErr := adapter.Link(ctx, sourceID, creds)
	if linkErr != nil {
		err = s.mapError(linkErr)
		return LinkResult{}, err
	}
	if !accepted {
		err = s.mapError(&LinkError{
			SourceID: sourceID,
			Username: creds.Username,
			Message:  "provider declined the credential submission",
		})
		return LinkResult{}, err
	}

	now := s.now().UTC()
	account := Account{
		ID:        accountID,
		Kind:      adapter.Kind(),
		SourceID:  sourceID,
		Username:  creds.Username,
		State:     VerificationStateUnverified,
		LinkedAt:  now,
		UpdatedAt: now,
	}
	s.directory.Put(account)

	verified, challenge, verifyErr := s.runVerification(ctx, account, adapter)
	if verifyErr != nil {
		err = s.mapError(verifyErr)
		return LinkResult{}, err
	}
	if challenge != nil {
		fields["reason"] = string(FailureReasonVerificationNeeded)
	}
	account, _ = s.directory.Get(accountID)
	return LinkResult{
		Account:   account,
		Linked:    true,
		Verified:  verified,
		Challenge: challenge,
	}, nil
}

// Remove unlinks the account from its provider and drops every trace
// of it: the directory entry, the durable mirror, and the scan cursor.
func (s *Service) Remove(ctx context.Context, accountID string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"account_id": accountID,
	}
	defer func() {
		s.observeOperation(ctx, startedAt, "remove", err, fields)
	}()

	account, ok := s.directory.Get(accountID)
	if !ok {
		err = s.mapError(fmt.Errorf("%w: %s", ErrAccountNotFound, accountID))
		return err
	}
	fields["provider_kind"] = string(account.Kind)
	fields["source_id"] = account.SourceID

	adapter, adapterErr := s.adapterFor(account)
	if adapterErr != nil {
		err = s.mapError(adapterErr)
		return err
	}
	if unlinkErr := adapter.Unlink(ctx, account); unlinkErr != nil {
		err = s.mapError(unlinkErr)
		return err
	}
	return s.forgetAccount(ctx, account)
}

// forgetAccount removes local state after the provider side is gone.
func (s *Service) forgetAccount(ctx context.Context, account Account) error {
	s.directory.Remove(account.ID)
	if s.accountStore != nil {
		if err := s.accountStore.Delete(ctx, account.ID); err != nil {
			return s.mapError(err)
		}
	}
	scopeKey := CursorScopeKey(account.Kind, account.SourceID, account.Username)
	if err := s.cursorStore.Clear(ctx, scopeKey); err != nil {
		return s.mapError(err)
	}
	return nil
}

// Accounts returns the directory view merged with what each provider
// reports. Provider-only entries surface as unverified accounts so a
// caller sees links made outside this process.
func (s *Service) Accounts(ctx context.Context) (accounts []Account, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() {
		s.observeOperation(ctx, startedAt, "accounts", err, fields)
	}()

	known := s.directory.List()
	seen := make(map[string]struct{}, len(known))
	for _, account := range known {
		seen[account.ID] = struct{}{}
	}

	now := s.now().UTC()
	for _, adapter := range s.registry.List() {
		raws, listErr := adapter.Accounts(ctx)
		if listErr != nil {
			err = s.mapError(listErr)
			return nil, err
		}
		for _, raw := range raws {
			id := NewAccountID(adapter.Kind(), raw.SourceID, raw.Username)
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			state := VerificationStateUnverified
			if raw.Verified {
				state = VerificationStateVerified
			}
			known = append(known, Account{
				ID:        id,
				Kind:      adapter.Kind(),
				SourceID:  strings.ToLower(strings.TrimSpace(raw.SourceID)),
				Username:  raw.Username,
				State:     state,
				LinkedAt:  now,
				UpdatedAt: now,
			})
		}
	}
	fields["count"] = len(known)
	return known, nil
}
