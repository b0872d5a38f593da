// Package core implements the account linking and incremental
// order-synchronization runtime: the provider adapter contracts, the
// in-memory account directory, the verification challenge workflow, and
// the paginated order sync engine.
//
// Provider SDKs are callback driven; core wraps every onSuccess/onFailure
// pair into a single-resolution completion so callers see plain
// (value, error) results regardless of how many times the underlying SDK
// calls back.
package core
