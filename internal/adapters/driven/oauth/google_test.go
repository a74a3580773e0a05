package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/core/domain"
)

// newUserinfoServer returns a test server that answers any request with a
// userinfo payload containing the given email.
func newUserinfoServer(t *testing.T, email string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"email": email})
	}))
}

func TestBuildAuthURL(t *testing.T) {
	client := NewGoogleClient(Config{
		ClientID:     "client-123",
		ClientSecret: "secret",
	})

	raw := client.BuildAuthURL("state-abc", "http://127.0.0.1:3333/oauth/callback")

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(raw, defaultAuthURL+"?"))

	q := parsed.Query()
	assert.Equal(t, "client-123", q.Get("client_id"))
	assert.Equal(t, "http://127.0.0.1:3333/oauth/callback", q.Get("redirect_uri"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "state-abc", q.Get("state"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "consent", q.Get("prompt"))

	scopes := strings.Fields(q.Get("scope"))
	assert.Contains(t, scopes, "https://www.googleapis.com/auth/calendar.events")
	assert.Contains(t, scopes, "https://www.googleapis.com/auth/userinfo.email")
}

func TestBuildAuthURLCustomEndpointAndScopes(t *testing.T) {
	client := NewGoogleClient(Config{
		ClientID: "c",
		AuthURL:  "https://auth.example.com/authorize",
		Scopes:   []string{"scope.one"},
	})

	raw := client.BuildAuthURL("s", "http://127.0.0.1:3333/oauth/callback")

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "https://auth.example.com/authorize", parsed.Scheme+"://"+parsed.Host+parsed.Path)
	assert.Equal(t, "scope.one", parsed.Query().Get("scope"))
}

func TestExchangeCodeSuccess(t *testing.T) {
	userinfo := newUserinfoServer(t, "user@example.com")
	defer userinfo.Close()

	var gotForm url.Values
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "A1",
			"refresh_token": "R1",
			"token_type":    "Bearer",
			"expires_in":    3600,
		})
	}))
	defer tokenSrv.Close()

	client := NewGoogleClient(Config{
		ClientID:         "client-123",
		ClientSecret:     "secret-456",
		TokenURL:         tokenSrv.URL,
		UserinfoEndpoint: userinfo.URL,
	})

	before := time.Now()
	creds, err := client.ExchangeCode(context.Background(), "code-xyz", "http://127.0.0.1:3333/oauth/callback")
	require.NoError(t, err)

	assert.Equal(t, "authorization_code", gotForm.Get("grant_type"))
	assert.Equal(t, "client-123", gotForm.Get("client_id"))
	assert.Equal(t, "secret-456", gotForm.Get("client_secret"))
	assert.Equal(t, "code-xyz", gotForm.Get("code"))
	assert.Equal(t, "http://127.0.0.1:3333/oauth/callback", gotForm.Get("redirect_uri"))

	assert.Equal(t, "user@example.com", creds.Email)
	assert.Equal(t, "A1", creds.AccessToken)
	assert.Equal(t, "R1", creds.RefreshToken)
	assert.WithinRange(t, creds.TokenExpiry, before.Add(59*time.Minute), time.Now().Add(61*time.Minute))
}

func TestExchangeCodeProviderRejection(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer tokenSrv.Close()

	client := NewGoogleClient(Config{TokenURL: tokenSrv.URL})

	_, err := client.ExchangeCode(context.Background(), "bad-code", "http://127.0.0.1:3333/oauth/callback")
	require.Error(t, err)

	var exchErr *domain.ExchangeError
	require.ErrorAs(t, err, &exchErr)
	assert.Equal(t, http.StatusBadRequest, exchErr.Status)
	assert.Contains(t, exchErr.Body, "invalid_grant")
	assert.ErrorIs(t, err, domain.ErrExchangeFailed)
}

func TestExchangeCodeNetworkError(t *testing.T) {
	// Closed server to force a connection error.
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	tokenSrv.Close()

	client := NewGoogleClient(Config{TokenURL: tokenSrv.URL})

	_, err := client.ExchangeCode(context.Background(), "code", "http://127.0.0.1:3333/oauth/callback")
	assert.ErrorIs(t, err, domain.ErrExchangeFailed)
}

func TestExchangeCodeMissingRefreshToken(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "A1",
			"expires_in":   3600,
		})
	}))
	defer tokenSrv.Close()

	client := NewGoogleClient(Config{TokenURL: tokenSrv.URL})

	_, err := client.ExchangeCode(context.Background(), "code", "http://127.0.0.1:3333/oauth/callback")
	assert.ErrorIs(t, err, domain.ErrMissingRefreshToken)
}

func TestExchangeCodeIdentityLookupFailure(t *testing.T) {
	userinfo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer userinfo.Close()

	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "A1",
			"refresh_token": "R1",
			"expires_in":    3600,
		})
	}))
	defer tokenSrv.Close()

	client := NewGoogleClient(Config{
		TokenURL:         tokenSrv.URL,
		UserinfoEndpoint: userinfo.URL,
	})

	_, err := client.ExchangeCode(context.Background(), "code", "http://127.0.0.1:3333/oauth/callback")
	assert.ErrorIs(t, err, domain.ErrIdentityLookupFailed)
}

func TestRefreshSuccess(t *testing.T) {
	var gotForm url.Values
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "A2",
			"expires_in":   3600,
		})
	}))
	defer tokenSrv.Close()

	client := NewGoogleClient(Config{
		ClientID:     "client-123",
		ClientSecret: "secret-456",
		TokenURL:     tokenSrv.URL,
	})

	before := time.Now()
	accessToken, expiry, err := client.Refresh(context.Background(), "R1")
	require.NoError(t, err)

	assert.Equal(t, "refresh_token", gotForm.Get("grant_type"))
	assert.Equal(t, "R1", gotForm.Get("refresh_token"))
	assert.Equal(t, "A2", accessToken)
	assert.WithinRange(t, expiry, before.Add(59*time.Minute), time.Now().Add(61*time.Minute))
}

func TestRefreshProviderRejection(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer tokenSrv.Close()

	client := NewGoogleClient(Config{TokenURL: tokenSrv.URL})

	_, _, err := client.Refresh(context.Background(), "revoked")
	require.Error(t, err)

	var refreshErr *domain.RefreshError
	require.ErrorAs(t, err, &refreshErr)
	assert.Equal(t, http.StatusUnauthorized, refreshErr.Status)
	assert.ErrorIs(t, err, domain.ErrRefreshFailed)
}

func TestRefreshNetworkError(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	tokenSrv.Close()

	client := NewGoogleClient(Config{TokenURL: tokenSrv.URL})

	_, _, err := client.Refresh(context.Background(), "R1")
	assert.ErrorIs(t, err, domain.ErrRefreshFailed)
}

func TestRateLimiterBackoffOn429(t *testing.T) {
	calls := 0
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer tokenSrv.Close()

	client := NewGoogleClient(Config{TokenURL: tokenSrv.URL})

	_, _, err := client.Refresh(context.Background(), "R1")
	require.Error(t, err)
	assert.Equal(t, 1, calls)

	// Backoff is armed; the limiter refuses immediate requests.
	assert.False(t, client.limiter.Allow())

	// A second call honours the backoff and aborts on context cancel
	// without hitting the server again.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, _, err = client.Refresh(ctx, "R1")
	assert.ErrorIs(t, err, domain.ErrRefreshFailed)
	assert.Equal(t, 1, calls)
}

func TestRateLimiterWait(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{RequestsPerSecond: 100, BurstSize: 1})

	require.NoError(t, rl.Wait(context.Background()))
	require.NoError(t, rl.Wait(context.Background()))
}

func TestRateLimiterDefaultBackoff(t *testing.T) {
	rl := NewRateLimiter(DefaultRateLimit)
	rl.RecordRateLimitError(0)

	assert.False(t, rl.Allow())
}

func TestTokenSourceAdapter(t *testing.T) {
	auth := &stubAuthService{token: "A1"}
	ts := NewTokenSource(context.Background(), auth)

	tok, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "A1", tok.AccessToken)

	auth.err = domain.ErrNotConnected
	_, err = ts.Token()
	assert.ErrorIs(t, err, domain.ErrNotConnected)
}

type stubAuthService struct {
	token string
	err   error
}

func (s *stubAuthService) StartAuthorization(ctx context.Context) (*domain.CalendarCredentials, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuthService) GetValidAccessToken(ctx context.Context) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.token, nil
}

func (s *stubAuthService) Disconnect(ctx context.Context) error { return nil }

func (s *stubAuthService) GetStatus(ctx context.Context) (*domain.CalendarCredentials, error) {
	return nil, nil
}
