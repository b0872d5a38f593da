package core

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// OrderOutcome is the per-account result of a fan-out sync pass.
type OrderOutcome struct {
	AccountID string
	Batch     OrderBatch
	Err       error
}

// orderAccumulator collects pages for one account until the provider
// reports zero remaining. A nil page contributes no records: mid-pass
// it is skipped, and as the terminal signal it finalizes whatever was
// accumulated so far, possibly nothing. A failure poisons the whole
// pass: partial results are never returned.
type orderAccumulator struct {
	mu      sync.Mutex
	records []OrderRecord
	comp    *completion[[]OrderRecord]
}

func newOrderAccumulator() *orderAccumulator {
	return &orderAccumulator{comp: newCompletion[[]OrderRecord]()}
}

func (a *orderAccumulator) onPage(_ string, page *OrderPage, remaining int) {
	if a.comp.resolved() {
		return
	}
	a.mu.Lock()
	if page != nil {
		a.records = append(a.records, page.Records...)
	}
	snapshot := a.records
	a.mu.Unlock()
	if remaining <= 0 {
		a.comp.resolve(snapshot)
	}
}

func (a *orderAccumulator) onFailure(accountID string, reason FailureReason, message string) {
	a.comp.fail(&SyncError{AccountID: accountID, Reason: reason, Message: message})
}

// FetchOrders runs one incremental order scan for an account. A not
// yet verified account is verified first and the scan proceeds only
// when that attempt lands on verified; the provider is never asked for
// orders otherwise. The scan window shrinks to the days elapsed since
// the last successful pass, capped by the configured maximum. The
// cursor only advances when the pass completes, so a failed pass is
// retried over the same window.
func (s *Service) FetchOrders(ctx context.Context, accountID string) (batch OrderBatch, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"account_id": accountID,
	}
	defer func() {
		s.observeOperation(ctx, startedAt, "fetch_orders", err, fields)
	}()

	account, ok := s.directory.Get(accountID)
	if !ok {
		err = s.mapError(fmt.Errorf("%w: %s", ErrAccountNotFound, accountID))
		return OrderBatch{}, err
	}
	fields["provider_kind"] = string(account.Kind)
	fields["source_id"] = account.SourceID

	if account.State != VerificationStateVerified {
		if account.State == VerificationStateFailed {
			err = s.mapError(fmt.Errorf("%w: %s is %s", ErrNotVerified, accountID, account.State))
			return OrderBatch{}, err
		}
		verifyResult, verifyErr := s.Verify(ctx, accountID)
		if verifyErr != nil {
			err = verifyErr
			return OrderBatch{}, err
		}
		if !verifyResult.Verified {
			err = s.mapError(fmt.Errorf("%w: %s is %s", ErrNotVerified, accountID, verifyResult.Account.State))
			return OrderBatch{}, err
		}
		account = verifyResult.Account
	}

	adapter, adapterErr := s.adapterFor(account)
	if adapterErr != nil {
		err = s.mapError(adapterErr)
		return OrderBatch{}, err
	}

	scopeKey := CursorScopeKey(account.Kind, account.SourceID, account.Username)
	cursorMillis, cursorErr := s.cursorStore.Get(ctx, scopeKey)
	if cursorErr != nil {
		err = s.mapError(cursorErr)
		return OrderBatch{}, err
	}

	scanStart := s.now().UTC()
	lookback := LookbackDays(scanStart, cursorMillis, s.config.Lookback.MaxDays)
	fields["lookback_days"] = lookback

	acc := newOrderAccumulator()
	adapter.Orders(ctx, account, lookback, OrderCallbacks{
		OnPage: acc.onPage,
		OnFailure: func(reason FailureReason, message string) {
			acc.onFailure(account.ID, reason, message)
		},
	})

	records, waitErr := acc.comp.wait(ctx)
	if waitErr != nil {
		err = s.mapError(waitErr)
		return OrderBatch{}, err
	}

	// The pass already succeeded; a cursor write failure only means the
	// next pass rescans an already-covered window.
	if setErr := s.cursorStore.Set(ctx, scopeKey, scanStart.UnixMilli()); setErr != nil {
		s.logError(ctx, "advance scan cursor", map[string]any{
			"account_id": account.ID,
			"scope_key":  scopeKey,
			"error":      setErr.Error(),
		})
	}
	fields["record_count"] = len(records)
	return OrderBatch{AccountID: account.ID, Records: records}, nil
}

// FetchAllOrders fans a scan out across verified accounts, at most
// Sync.MaxConcurrent at a time. No account ids targets every verified
// account; an explicit list narrows the fan-out to those accounts,
// skipping the ones that are not verified. One account failing does
// not stop the others; each account gets its own outcome. An unknown
// requested id surfaces as a failed outcome rather than failing the
// batch.
func (s *Service) FetchAllOrders(ctx context.Context, accountIDs ...string) (outcomes []OrderOutcome, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() {
		s.observeOperation(ctx, startedAt, "fetch_all_orders", err, fields)
	}()

	var verified []Account
	results := map[string]OrderOutcome{}
	if len(accountIDs) == 0 {
		for _, account := range s.directory.List() {
			if account.State == VerificationStateVerified {
				verified = append(verified, account)
			}
		}
	} else {
		requested := map[string]struct{}{}
		for _, id := range accountIDs {
			if _, dup := requested[id]; dup {
				continue
			}
			requested[id] = struct{}{}
			account, ok := s.directory.Get(id)
			if !ok {
				results[id] = OrderOutcome{
					AccountID: id,
					Err:       s.mapError(fmt.Errorf("%w: %s", ErrAccountNotFound, id)),
				}
				continue
			}
			if account.State != VerificationStateVerified {
				continue
			}
			verified = append(verified, account)
		}
	}
	fields["account_count"] = len(verified)
	if len(verified) == 0 && len(results) == 0 {
		return nil, nil
	}

	maxConcurrent := s.config.Sync.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	semaphore := make(chan struct{}, maxConcurrent)

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for _, account := range verified {
		wg.Add(1)
		go func(account Account) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			batch, fetchErr := s.FetchOrders(ctx, account.ID)
			mu.Lock()
			results[account.ID] = OrderOutcome{
				AccountID: account.ID,
				Batch:     batch,
				Err:       fetchErr,
			}
			mu.Unlock()
		}(account)
	}
	wg.Wait()

	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	outcomes = make([]OrderOutcome, 0, len(ids))
	for _, id := range ids {
		outcomes = append(outcomes, results[id])
	}
	return outcomes, nil
}
