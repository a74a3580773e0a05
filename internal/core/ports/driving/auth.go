package driving

import (
	"context"

	"github.com/taskdeck/taskdeck/internal/core/domain"
)

// CalendarAuthService manages the Google Calendar connection for this
// installation: the one-time authorization flow and the ongoing token
// lifecycle.
type CalendarAuthService interface {
	// StartAuthorization runs the full Authorization Code flow: opens the
	// browser, awaits the loopback callback, validates the CSRF state,
	// exchanges the code, and persists the resulting credentials.
	// Only one flow may be in progress per process; a second call fails
	// with domain.ErrFlowAlreadyActive.
	StartAuthorization(ctx context.Context) (*domain.CalendarCredentials, error)

	// GetValidAccessToken returns an access token usable right now,
	// refreshing and rewriting the stored record first when the token is
	// within the refresh buffer of expiry. Safe for concurrent callers.
	// Returns domain.ErrNotConnected when no credentials are stored.
	GetValidAccessToken(ctx context.Context) (string, error)

	// Disconnect clears the stored credentials. Idempotent.
	Disconnect(ctx context.Context) error

	// GetStatus returns the stored credentials, or nil when not connected.
	GetStatus(ctx context.Context) (*domain.CalendarCredentials, error)
}
