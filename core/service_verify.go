package core

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// VerifyResult reports one verification attempt. Exactly one of
// Verified or Challenge is meaningful: a set Challenge means the
// provider needs user input before verification can finish.
type VerifyResult struct {
	Account   Account
	Verified  bool
	Challenge *VerificationChallenge
}

type verifyOutcome struct {
	verified  bool
	token     string
	challenge *VerificationChallenge
}

// Verify runs a verification attempt against the account's provider.
// Only one attempt per account may be in flight at a time.
func (s *Service) Verify(ctx context.Context, accountID string) (result VerifyResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"account_id": accountID,
	}
	defer func() {
		s.observeOperation(ctx, startedAt, "verify", err, fields)
	}()

	account, ok := s.directory.Get(accountID)
	if !ok {
		err = s.mapError(fmt.Errorf("%w: %s", ErrAccountNotFound, accountID))
		return VerifyResult{}, err
	}
	fields["provider_kind"] = string(account.Kind)
	fields["source_id"] = account.SourceID

	adapter, adapterErr := s.adapterFor(account)
	if adapterErr != nil {
		err = s.mapError(adapterErr)
		return VerifyResult{}, err
	}

	if guardErr := s.directory.BeginVerification(account.ID); guardErr != nil {
		err = s.mapError(guardErr)
		return VerifyResult{}, err
	}
	defer s.directory.EndVerification(account.ID)

	verified, challenge, verifyErr := s.runVerification(ctx, account, adapter)
	if verifyErr != nil {
		err = s.mapError(verifyErr)
		return VerifyResult{}, err
	}
	if challenge != nil {
		fields["reason"] = string(FailureReasonVerificationNeeded)
	}
	account, _ = s.directory.Get(account.ID)
	return VerifyResult{Account: account, Verified: verified, Challenge: challenge}, nil
}

// ResolveChallenge re-runs verification after the user completed the
// provider's challenge. It fails unless a challenge is pending for the
// account.
func (s *Service) ResolveChallenge(ctx context.Context, accountID string) (result VerifyResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"account_id": accountID,
	}
	defer func() {
		s.observeOperation(ctx, startedAt, "resolve_challenge", err, fields)
	}()

	account, ok := s.directory.Get(accountID)
	if !ok {
		err = s.mapError(fmt.Errorf("%w: %s", ErrAccountNotFound, accountID))
		return VerifyResult{}, err
	}
	if _, pending := s.directory.Challenge(account.ID); !pending {
		err = s.mapError(fmt.Errorf("%w: %s", ErrChallengeUnresolved, accountID))
		return VerifyResult{}, err
	}
	fields["provider_kind"] = string(account.Kind)
	fields["source_id"] = account.SourceID

	adapter, adapterErr := s.adapterFor(account)
	if adapterErr != nil {
		err = s.mapError(adapterErr)
		return VerifyResult{}, err
	}

	if guardErr := s.directory.BeginVerification(account.ID); guardErr != nil {
		err = s.mapError(guardErr)
		return VerifyResult{}, err
	}
	defer s.directory.EndVerification(account.ID)

	s.directory.ClearChallenge(account.ID)
	verified, challenge, verifyErr := s.runVerification(ctx, account, adapter)
	if verifyErr != nil {
		err = s.mapError(verifyErr)
		return VerifyResult{}, err
	}
	account, _ = s.directory.Get(account.ID)
	return VerifyResult{Account: account, Verified: verified, Challenge: challenge}, nil
}

// runVerification drives one provider verification attempt to a single
// resolution. Provider callbacks may fire multiple times or from other
// goroutines; the completion keeps only the first signal.
//
// Outcomes follow the provider contract: success(true) verifies the
// account, success(false) and every terminal failure reason unlink it,
// and a challenge interruption parks the account pending user input
// without unlinking.
func (s *Service) runVerification(ctx context.Context, account Account, adapter ProviderAdapter) (bool, *VerificationChallenge, error) {
	comp := newCompletion[verifyOutcome]()

	adapter.Verify(ctx, account, VerifyCallbacks{
		OnSuccess: func(verified bool, token string) {
			comp.resolve(verifyOutcome{verified: verified, token: token})
		},
		OnFailure: func(reason FailureReason, message string, challenge *VerificationChallenge) {
			if reason.IsChallenge() && challenge != nil {
				comp.resolve(verifyOutcome{challenge: challenge})
				return
			}
			comp.fail(&VerificationError{
				AccountID: account.ID,
				Reason:    reason,
				Message:   message,
			})
		},
	})

	outcome, waitErr := comp.wait(ctx)
	now := s.now().UTC()

	if waitErr != nil {
		var verifyErr *VerificationError
		if !errors.As(waitErr, &verifyErr) {
			// context cancellation: leave the account as is
			return false, nil, waitErr
		}
		account.TransitionTo(VerificationStateFailed, string(verifyErr.Reason), now)
		s.directory.Put(account)
		if unlinkErr := adapter.Unlink(ctx, account); unlinkErr != nil {
			s.logError(ctx, "unlink after failed verification", map[string]any{
				"account_id": account.ID,
				"error":      unlinkErr.Error(),
			})
		}
		if forgetErr := s.forgetAccount(ctx, account); forgetErr != nil {
			s.logError(ctx, "cleanup after failed verification", map[string]any{
				"account_id": account.ID,
				"error":      forgetErr.Error(),
			})
		}
		return false, nil, verifyErr
	}

	if outcome.challenge != nil {
		challenge := *outcome.challenge
		challenge.AccountID = account.ID
		if challenge.IssuedAt.IsZero() {
			challenge.IssuedAt = now
		}
		if err := account.TransitionTo(VerificationStatePendingChallenge, string(FailureReasonVerificationNeeded), now); err != nil {
			return false, nil, err
		}
		s.directory.Put(account)
		s.directory.SetChallenge(challenge)
		if s.interactive() {
			if presentErr := s.challengePresenter.Present(ctx, challenge); presentErr != nil {
				s.logError(ctx, "challenge presentation", map[string]any{
					"account_id": account.ID,
					"error":      presentErr.Error(),
				})
			}
		}
		return false, &challenge, nil
	}

	if !outcome.verified {
		verifyErr := &VerificationError{
			AccountID: account.ID,
			Reason:    FailureReasonInvalidCredentials,
			Message:   "provider rejected account verification",
		}
		account.TransitionTo(VerificationStateFailed, string(verifyErr.Reason), now)
		s.directory.Put(account)
		if unlinkErr := adapter.Unlink(ctx, account); unlinkErr != nil {
			s.logError(ctx, "unlink after rejected verification", map[string]any{
				"account_id": account.ID,
				"error":      unlinkErr.Error(),
			})
		}
		if forgetErr := s.forgetAccount(ctx, account); forgetErr != nil {
			s.logError(ctx, "cleanup after rejected verification", map[string]any{
				"account_id": account.ID,
				"error":      forgetErr.Error(),
			})
		}
		return false, nil, verifyErr
	}

	if err := account.TransitionTo(VerificationStateVerified, "", now); err != nil {
		return false, nil, err
	}
	s.directory.Put(account)
	s.directory.ClearChallenge(account.ID)
	if s.accountStore != nil {
		if saved, saveErr := s.accountStore.Save(ctx, account); saveErr == nil {
			s.directory.Put(saved)
		} else {
			s.logError(ctx, "persist verified account", map[string]any{
				"account_id": account.ID,
				"error":      saveErr.Error(),
			})
		}
	}
	return true, nil, nil
}
