// Package providers contains the built-in provider adapters and the
// client context they share.
package providers
