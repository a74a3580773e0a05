package domain

import "time"

// CalendarCredentials is the Google identity bound to this installation.
// At most one record exists at any time; writing a new record fully
// replaces the previous one.
type CalendarCredentials struct {
	// Email is the account's address from the userinfo endpoint (display only).
	Email string `json:"email"`
	// AccessToken is the short-lived bearer token for API access.
	AccessToken string `json:"access_token"`
	// RefreshToken is the long-lived token used to obtain new access tokens.
	RefreshToken string `json:"refresh_token"`
	// TokenExpiry is when the access token expires (UTC).
	TokenExpiry time.Time `json:"token_expiry"`
}

// IsExpired returns true if the access token has expired.
func (c *CalendarCredentials) IsExpired() bool {
	if c.TokenExpiry.IsZero() {
		return false
	}
	return time.Now().After(c.TokenExpiry)
}

// NeedsRefresh returns true if the access token expires within the buffer.
func (c *CalendarCredentials) NeedsRefresh(buffer time.Duration) bool {
	if c.TokenExpiry.IsZero() {
		return false
	}
	return !time.Now().Add(buffer).Before(c.TokenExpiry)
}

// AuthSession is the transient state of one authorization attempt.
// It lives in memory only, is never reused across attempts, and is
// destroyed when the attempt terminates.
type AuthSession struct {
	// ExpectedState is the CSRF token issued for this attempt.
	ExpectedState string
	// Deadline is the absolute time after which the attempt is abandoned.
	Deadline time.Time
}

// CallbackResult is the parsed outcome of the single HTTP request the
// callback listener accepts. Exactly one of the two shapes is populated:
// Code+State for a completed redirect, ProviderError when the provider
// returned an error parameter.
type CallbackResult struct {
	// Code is the authorization code from the query string.
	Code string
	// State is the CSRF state echoed back by the provider.
	State string
	// ProviderError is the provider's error parameter, if any.
	ProviderError string
}
