package core

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	OrderSyncErrorBadInput            = "ORDERSYNC_BAD_INPUT"
	OrderSyncErrorProviderNotFound    = "ORDERSYNC_PROVIDER_NOT_FOUND"
	OrderSyncErrorAccountNotFound     = "ORDERSYNC_ACCOUNT_NOT_FOUND"
	OrderSyncErrorNotVerified         = "ORDERSYNC_ACCOUNT_NOT_VERIFIED"
	OrderSyncErrorLinkFailed          = "ORDERSYNC_LINK_FAILED"
	OrderSyncErrorVerificationPending = "ORDERSYNC_VERIFICATION_PENDING"
	OrderSyncErrorVerificationFailed  = "ORDERSYNC_VERIFICATION_FAILED"
	OrderSyncErrorChallengeRequired   = "ORDERSYNC_CHALLENGE_REQUIRED"
	OrderSyncErrorSyncFailed          = "ORDERSYNC_SYNC_FAILED"
	OrderSyncErrorInternal            = "ORDERSYNC_INTERNAL_ERROR"
)

var (
	ErrAccountNotFound     = errors.New("core: account not found")
	ErrProviderNotFound    = errors.New("core: provider not registered")
	ErrNotVerified         = errors.New("core: account not verified")
	ErrVerificationPending = errors.New("core: verification already in flight")
	ErrChallengeUnresolved = errors.New("core: no pending challenge for account")
)

// LinkError reports a credential submission the provider declined
// without raising a transport or SDK error.
type LinkError struct {
	SourceID string
	Username string
	Message  string
}

func (e *LinkError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("core: link rejected for %s/%s", e.SourceID, e.Username)
	}
	return fmt.Sprintf("core: link rejected for %s/%s: %s", e.SourceID, e.Username, e.Message)
}

// VerificationError reports a terminal verification failure. It is not
// produced for challenge interruptions, which surface as a pending
// account plus a VerificationChallenge instead.
type VerificationError struct {
	AccountID string
	Reason    FailureReason
	Message   string
}

func (e *VerificationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("core: verification failed for %s: %s", e.AccountID, e.Reason)
	}
	return fmt.Sprintf("core: verification failed for %s: %s: %s", e.AccountID, e.Reason, e.Message)
}

// SyncError reports a failed order retrieval pass for one account.
type SyncError struct {
	AccountID string
	Reason    FailureReason
	Message   string
}

func (e *SyncError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("core: order sync failed for %s: %s", e.AccountID, e.Reason)
	}
	return fmt.Sprintf("core: order sync failed for %s: %s: %s", e.AccountID, e.Reason, e.Message)
}

func linkingErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureEnvelope(richErr)
	}

	var linkErr *LinkError
	if errors.As(err, &linkErr) {
		return newLinkingError(err.Error(), goerrors.CategoryAuth, OrderSyncErrorLinkFailed)
	}

	var verifyErr *VerificationError
	if errors.As(err, &verifyErr) {
		category := goerrors.CategoryAuth
		if verifyErr.Reason == FailureReasonInternalError || verifyErr.Reason == FailureReasonCoreLoadFailure {
			category = goerrors.CategoryInternal
		}
		return newLinkingError(err.Error(), category, OrderSyncErrorVerificationFailed)
	}

	var syncErr *SyncError
	if errors.As(err, &syncErr) {
		return newLinkingError(err.Error(), goerrors.CategoryExternal, OrderSyncErrorSyncFailed)
	}

	switch {
	case errors.Is(err, ErrProviderNotFound):
		return newLinkingError(err.Error(), goerrors.CategoryNotFound, OrderSyncErrorProviderNotFound)
	case errors.Is(err, ErrAccountNotFound):
		return newLinkingError(err.Error(), goerrors.CategoryNotFound, OrderSyncErrorAccountNotFound)
	case errors.Is(err, ErrNotVerified):
		return newLinkingError(err.Error(), goerrors.CategoryConflict, OrderSyncErrorNotVerified)
	case errors.Is(err, ErrVerificationPending):
		return newLinkingError(err.Error(), goerrors.CategoryConflict, OrderSyncErrorVerificationPending)
	case errors.Is(err, ErrChallengeUnresolved):
		return newLinkingError(err.Error(), goerrors.CategoryConflict, OrderSyncErrorChallengeRequired)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"), strings.Contains(msg, "missing"):
		return newLinkingError(err.Error(), goerrors.CategoryBadInput, OrderSyncErrorBadInput)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureEnvelope(mapped)
}

func newLinkingError(message string, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureEnvelope(
		goerrors.New(message, category).
			WithTextCode(textCode),
	)
}

func ensureEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = linkingHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultLinkingTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultLinkingTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return OrderSyncErrorBadInput
	case goerrors.CategoryNotFound:
		return OrderSyncErrorAccountNotFound
	case goerrors.CategoryAuth, goerrors.CategoryAuthz:
		return OrderSyncErrorVerificationFailed
	case goerrors.CategoryConflict:
		return OrderSyncErrorNotVerified
	case goerrors.CategoryExternal:
		return OrderSyncErrorSyncFailed
	default:
		return OrderSyncErrorInternal
	}
}

func linkingHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
