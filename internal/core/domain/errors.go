package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Authorization flow errors.

	// ErrFlowAlreadyActive indicates an authorization flow is already in
	// progress. Only one flow may await a callback at a time.
	ErrFlowAlreadyActive = errors.New("authorization flow already active")

	// ErrAuthTimeout indicates no callback arrived before the deadline.
	ErrAuthTimeout = errors.New("authorization timed out")

	// ErrProviderDenied indicates the provider returned an error parameter
	// on the callback (e.g. the user denied access).
	ErrProviderDenied = errors.New("provider denied authorization")

	// ErrSecurityViolation indicates the callback state did not match the
	// state issued for this attempt. Surfaced distinctly from all other
	// failures because it indicates a possible CSRF attack.
	ErrSecurityViolation = errors.New("state mismatch, possible CSRF attack")

	// Token exchange errors.

	// ErrExchangeFailed indicates the authorization code exchange failed.
	ErrExchangeFailed = errors.New("token exchange failed")

	// ErrMissingRefreshToken indicates the provider issued no refresh token.
	// The accepted remedy is to revoke app access and re-consent.
	ErrMissingRefreshToken = errors.New("no refresh token received")

	// ErrIdentityLookupFailed indicates the userinfo lookup after a
	// successful exchange failed. The whole exchange fails with it.
	ErrIdentityLookupFailed = errors.New("identity lookup failed")

	// ErrRefreshFailed indicates an access token refresh failed. The stored
	// refresh token remains valid and is retained.
	ErrRefreshFailed = errors.New("token refresh failed")

	// ErrNotConnected indicates no calendar credentials are stored.
	ErrNotConnected = errors.New("calendar not connected")
)

// ExchangeError carries the HTTP status and body of a failed code exchange.
// errors.Is(err, ErrExchangeFailed) matches it.
type ExchangeError struct {
	Status int
	Body   string
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("token exchange failed with status %d: %s", e.Status, e.Body)
}

func (e *ExchangeError) Unwrap() error {
	return ErrExchangeFailed
}

// RefreshError carries the HTTP status and body of a failed token refresh.
// errors.Is(err, ErrRefreshFailed) matches it.
type RefreshError struct {
	Status int
	Body   string
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("token refresh failed with status %d: %s", e.Status, e.Body)
}

func (e *RefreshError) Unwrap() error {
	return ErrRefreshFailed
}
