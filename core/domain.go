package core

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidProviderKind           = errors.New("core: invalid provider kind")
	ErrInvalidVerificationTransition = errors.New("core: invalid verification state transition")
)

type ProviderKind string

const (
	ProviderKindRetailer ProviderKind = "retailer"
	ProviderKindEmail    ProviderKind = "email"
)

func (k ProviderKind) Validate() error {
	switch k {
	case ProviderKindRetailer, ProviderKindEmail:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidProviderKind, string(k))
	}
}

type VerificationState string

const (
	VerificationStateUnverified       VerificationState = "unverified"
	VerificationStatePendingChallenge VerificationState = "pending_challenge"
	VerificationStateVerified         VerificationState = "verified"
	VerificationStateFailed           VerificationState = "failed"
)

// Account is a linked provider account tracked by the directory.
// Credentials are never stored on the account; they are passed to Link
// and discarded once the provider call returns.
type Account struct {
	ID         string
	Kind       ProviderKind
	SourceID   string
	Username   string
	State      VerificationState
	LastError  string
	LinkedAt   time.Time
	VerifiedAt *time.Time
	UpdatedAt  time.Time
}

// NewAccountID builds the deterministic account identifier used as the
// directory key: one logical account per (kind, source, username).
func NewAccountID(kind ProviderKind, sourceID string, username string) string {
	return strings.Join([]string{
		strings.TrimSpace(strings.ToLower(string(kind))),
		strings.TrimSpace(strings.ToLower(sourceID)),
		strings.TrimSpace(strings.ToLower(username)),
	}, "::")
}

func (a *Account) TransitionTo(state VerificationState, reason string, now time.Time) error {
	if a == nil {
		return nil
	}
	if a.State == state {
		a.UpdatedAt = now
		if strings.TrimSpace(reason) != "" {
			a.LastError = strings.TrimSpace(reason)
		}
		return nil
	}
	if !verificationTransitionAllowed(a.State, state) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidVerificationTransition, a.State, state)
	}
	a.State = state
	a.UpdatedAt = now
	if strings.TrimSpace(reason) != "" {
		a.LastError = strings.TrimSpace(reason)
	}
	if state == VerificationStateVerified {
		a.LastError = ""
		verifiedAt := now
		a.VerifiedAt = &verifiedAt
	}
	return nil
}

func verificationTransitionAllowed(current, next VerificationState) bool {
	allowed := map[VerificationState]map[VerificationState]struct{}{
		VerificationStateUnverified: {
			VerificationStatePendingChallenge: {},
			VerificationStateVerified:         {},
			VerificationStateFailed:           {},
		},
		VerificationStatePendingChallenge: {
			VerificationStateVerified: {},
			VerificationStateFailed:   {},
		},
		VerificationStateVerified: {
			VerificationStateFailed: {},
		},
		VerificationStateFailed: {},
	}
	_, ok := allowed[current][next]
	return ok
}

// Credentials carry the secret material for a single link or verify call.
type Credentials struct {
	Username   string
	Password   string
	OAuthToken string
}

func (c Credentials) HasSecret() bool {
	return strings.TrimSpace(c.Password) != "" || strings.TrimSpace(c.OAuthToken) != ""
}

// VerificationChallenge is the opaque step-up artifact a caller must
// render and resolve externally. The token is a capability handle; core
// attaches no expiry to it.
type VerificationChallenge struct {
	AccountID string
	Token     string
	IssuedAt  time.Time
}

type OrderItem struct {
	SKU         string
	Description string
	Quantity    int
	Price       string
}

type OrderRecord struct {
	ID            string
	SourceOrderID string
	PlacedAt      time.Time
	Total         string
	Currency      string
	Items         []OrderItem
	Raw           map[string]any
}

// OrderPage is one provider callback worth of records. A nil page with a
// nonzero remaining count is a transient-empty page, not an error.
type OrderPage struct {
	Records  []OrderRecord
	Metadata map[string]any
}

type OrderBatch struct {
	AccountID      string
	Records        []OrderRecord
	RemainingCount int
}

type ScanCursor struct {
	ScopeKey        string
	TimestampMillis int64
}

// RawAccount is the provider-side listing shape before directory merge.
type RawAccount struct {
	SourceID string
	Username string
	Verified bool
}

// FailureReason classifies provider verification and sync failures. The
// set mirrors the linking SDK error codes; verification_needed is the
// only recoverable one.
type FailureReason string

const (
	FailureReasonInternalError      FailureReason = "internal_error"
	FailureReasonInvalidCredentials FailureReason = "invalid_credentials"
	FailureReasonParsingFailure     FailureReason = "parsing_failure"
	FailureReasonUserInputCompleted FailureReason = "user_input_completed"
	FailureReasonCoreLoadFailure    FailureReason = "core_load_failure"
	FailureReasonInvalidData        FailureReason = "invalid_data"
	FailureReasonMissingCredentials FailureReason = "missing_credentials"
	FailureReasonVerificationNeeded FailureReason = "verification_needed"
	FailureReasonUnknown            FailureReason = "unknown"
)

func (r FailureReason) IsChallenge() bool {
	return r == FailureReasonVerificationNeeded
}

func (r FailureReason) String() string {
	if strings.TrimSpace(string(r)) == "" {
		return string(FailureReasonUnknown)
	}
	return string(r)
}

// CursorScopeKey derives the scan cursor key for one account scope. The
// username is hashed so cursor stores never hold raw identifiers.
func CursorScopeKey(kind ProviderKind, sourceID string, username string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(strings.ToLower(username))))
	return strings.Join([]string{
		"ordersync::cursor",
		strings.TrimSpace(strings.ToLower(string(kind))),
		strings.TrimSpace(strings.ToLower(sourceID)),
		hex.EncodeToString(sum[:8]),
	}, "::")
}

// LookbackDays derives the incremental sync window from a scan cursor.
// A zero cursor means no previous pass: use the full configured window.
func LookbackDays(now time.Time, cursorMillis int64, maxDays int) int {
	if maxDays < 0 {
		maxDays = 0
	}
	if cursorMillis <= 0 {
		return maxDays
	}
	last := time.UnixMilli(cursorMillis).UTC()
	if !last.Before(now) {
		return 0
	}
	elapsed := int(now.Sub(last).Hours() / 24)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > maxDays {
		return maxDays
	}
	return elapsed
}
