package oauth

import (
	"context"

	"golang.org/x/oauth2"

	"github.com/taskdeck/taskdeck/internal/core/ports/driving"
)

// TokenSourceAdapter adapts the auth service to oauth2.TokenSource.
// This lets Google API clients lean on our token refresh logic instead
// of managing credentials themselves.
type TokenSourceAdapter struct {
	auth driving.CalendarAuthService
	ctx  context.Context
}

// NewTokenSource creates an oauth2.TokenSource backed by the auth service.
// The returned TokenSource can be used with option.WithTokenSource() when
// creating Google API services.
func NewTokenSource(ctx context.Context, auth driving.CalendarAuthService) oauth2.TokenSource {
	return &TokenSourceAdapter{
		auth: auth,
		ctx:  ctx,
	}
}

// Token implements oauth2.TokenSource. Called by Google API clients when
// they need an access token; refresh happens inside the auth service.
func (t *TokenSourceAdapter) Token() (*oauth2.Token, error) {
	accessToken, err := t.auth.GetValidAccessToken(t.ctx)
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{AccessToken: accessToken}, nil
}
