// Package oauth implements the provider-facing OAuth client for Google.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	googleoauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/taskdeck/taskdeck/internal/core/domain"
	"github.com/taskdeck/taskdeck/internal/core/ports/driven"
	"github.com/taskdeck/taskdeck/internal/logger"
)

// Google OAuth endpoints and scopes.
const (
	defaultAuthURL = "https://accounts.google.com/o/oauth2/v2/auth"
	//nolint:gosec // G101: Not credentials, OAuth endpoint URL
	defaultTokenURL = "https://oauth2.googleapis.com/token"
)

// defaultScopes cover calendar event access plus the email used as the
// account identifier.
var defaultScopes = []string{
	"https://www.googleapis.com/auth/calendar.events",
	"https://www.googleapis.com/auth/userinfo.email",
}

// requestTimeout bounds every provider call so a hung provider cannot
// block the flow indefinitely.
const requestTimeout = 30 * time.Second

// Config holds the OAuth application credentials and optional endpoint
// overrides (used by tests and custom deployments).
type Config struct {
	ClientID     string
	ClientSecret string
	Scopes       []string
	AuthURL      string
	TokenURL     string
	// UserinfoEndpoint overrides the identity service base URL.
	UserinfoEndpoint string
}

// Ensure GoogleClient implements the port.
var _ driven.OAuthClient = (*GoogleClient)(nil)

// GoogleClient performs code exchange, token refresh, and identity lookup
// against Google's OAuth endpoints. No operation is retried; failures
// surface to the caller.
type GoogleClient struct {
	cfg        Config
	httpClient *http.Client
	limiter    *RateLimiter
}

// NewGoogleClient creates a client from the given config, filling in
// Google's default endpoints and scopes where unset.
func NewGoogleClient(cfg Config) *GoogleClient {
	if cfg.AuthURL == "" {
		cfg.AuthURL = defaultAuthURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = defaultTokenURL
	}
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = defaultScopes
	}
	return &GoogleClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: requestTimeout},
		limiter:    NewRateLimiter(DefaultRateLimit),
	}
}

// BuildAuthURL constructs the Google authorization URL. access_type=offline
// and prompt=consent guarantee a refresh token is issued even on repeat
// consent.
func (c *GoogleClient) BuildAuthURL(state, redirectURI string) string {
	params := url.Values{
		"client_id":     {c.cfg.ClientID},
		"redirect_uri":  {redirectURI},
		"response_type": {"code"},
		"scope":         {strings.Join(c.cfg.Scopes, " ")},
		"state":         {state},
		"access_type":   {"offline"},
		"prompt":        {"consent"},
	}
	return c.cfg.AuthURL + "?" + params.Encode()
}

// tokenResponse is the provider's token endpoint response shape.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// ExchangeCode trades an authorization code for credentials and looks up
// the account email. The credential is useless for display without the
// email, so an identity failure fails the whole exchange.
func (c *GoogleClient) ExchangeCode(ctx context.Context, code, redirectURI string) (*domain.CalendarCredentials, error) {
	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("client_id", c.cfg.ClientID)
	data.Set("client_secret", c.cfg.ClientSecret)
	data.Set("code", code)
	data.Set("redirect_uri", redirectURI)

	status, body, err := c.postForm(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExchangeFailed, err)
	}
	if status != http.StatusOK {
		return nil, &domain.ExchangeError{Status: status, Body: body}
	}

	var tokens tokenResponse
	if err := json.Unmarshal([]byte(body), &tokens); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", domain.ErrExchangeFailed, err)
	}
	if tokens.RefreshToken == "" {
		return nil, domain.ErrMissingRefreshToken
	}

	email, err := c.lookupEmail(ctx, tokens.AccessToken)
	if err != nil {
		return nil, err
	}

	return &domain.CalendarCredentials{
		Email:        email,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		TokenExpiry:  time.Now().Add(time.Duration(tokens.ExpiresIn) * time.Second).UTC(),
	}, nil
}

// Refresh obtains a new access token. Google may omit rotation, so the
// existing refresh token stays valid and is never returned from here.
func (c *GoogleClient) Refresh(ctx context.Context, refreshToken string) (string, time.Time, error) {
	logger.Debug("refreshing access token")

	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("client_id", c.cfg.ClientID)
	data.Set("client_secret", c.cfg.ClientSecret)
	data.Set("refresh_token", refreshToken)

	status, body, err := c.postForm(ctx, data)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %v", domain.ErrRefreshFailed, err)
	}
	if status != http.StatusOK {
		return "", time.Time{}, &domain.RefreshError{Status: status, Body: body}
	}

	var tokens tokenResponse
	if err := json.Unmarshal([]byte(body), &tokens); err != nil {
		return "", time.Time{}, fmt.Errorf("%w: decoding response: %v", domain.ErrRefreshFailed, err)
	}

	expiry := time.Now().Add(time.Duration(tokens.ExpiresIn) * time.Second).UTC()
	return tokens.AccessToken, expiry, nil
}

// postForm sends a form-encoded POST to the token endpoint and returns
// the status and body. 429 responses feed the rate limiter's backoff.
func (c *GoogleClient) postForm(ctx context.Context, data url.Values) (int, string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return 0, "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		c.limiter.RecordRateLimitError(retryAfter)
	}

	return resp.StatusCode, string(body), nil
}

// lookupEmail fetches the account email from Google's userinfo service
// using the freshly issued access token.
func (c *GoogleClient) lookupEmail(ctx context.Context, accessToken string) (string, error) {
	opts := []option.ClientOption{
		option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})),
	}
	if c.cfg.UserinfoEndpoint != "" {
		opts = append(opts, option.WithEndpoint(c.cfg.UserinfoEndpoint))
	}

	svc, err := googleoauth2.NewService(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrIdentityLookupFailed, err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrIdentityLookupFailed, err)
	}
	if info.Email == "" {
		return "", fmt.Errorf("%w: userinfo response has no email", domain.ErrIdentityLookupFailed)
	}
	return info.Email, nil
}
