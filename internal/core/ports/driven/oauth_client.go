package driven

import (
	"context"
	"time"

	"github.com/taskdeck/taskdeck/internal/core/domain"
)

// OAuthClient performs the provider-facing OAuth operations.
// The implementation encapsulates the provider's endpoints, client
// credentials, and quirks (e.g. Google's access_type=offline).
type OAuthClient interface {
	// BuildAuthURL constructs the authorization URL for the given CSRF
	// state and redirect URI. Pure string construction, no network activity.
	BuildAuthURL(state, redirectURI string) string

	// ExchangeCode trades an authorization code for credentials, including
	// the account email from the provider's identity endpoint. No retries;
	// failures surface as ExchangeError, ErrMissingRefreshToken, or
	// ErrIdentityLookupFailed.
	ExchangeCode(ctx context.Context, code, redirectURI string) (*domain.CalendarCredentials, error)

	// Refresh obtains a new access token using the refresh token.
	// The refresh token itself is never rotated here; the caller keeps it.
	// Failures surface as RefreshError.
	Refresh(ctx context.Context, refreshToken string) (accessToken string, expiry time.Time, err error)
}

// CallbackListener accepts exactly one OAuth redirect on the loopback
// address and translates it into a CallbackResult.
type CallbackListener interface {
	// Await binds the loopback listener, waits for the callback matching
	// the registered path, and releases the port on every exit path.
	// Returns domain.ErrAuthTimeout if nothing arrives before the
	// session deadline. Requests to other paths receive a 404 and do not
	// terminate the wait.
	Await(ctx context.Context, session domain.AuthSession) (*domain.CallbackResult, error)

	// RedirectURI returns the redirect URI this listener serves. It must
	// exactly match the URI registered with the provider.
	RedirectURI() string
}

// BrowserOpener opens a URL in the user's default browser.
// Fire-and-forget: the flow does not depend on its outcome.
type BrowserOpener interface {
	Open(url string) error
}
