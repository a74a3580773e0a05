package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/taskdeck/taskdeck/internal/core/domain"
	"github.com/taskdeck/taskdeck/internal/core/ports/driven"
	"github.com/taskdeck/taskdeck/internal/core/ports/driving"
	"github.com/taskdeck/taskdeck/internal/logger"
)

// Flow and refresh timing. The callback wait has a hard deadline; the
// refresh buffer keeps us from handing out tokens about to expire.
const (
	defaultFlowTimeout   = 5 * time.Minute
	defaultRefreshBuffer = 5 * time.Minute
)

// Ensure CalendarAuthService implements the interface.
var _ driving.CalendarAuthService = (*CalendarAuthService)(nil)

// CalendarAuthService owns the authorization flow state machine and the
// on-demand token refresh path. The flow is single-flight: at most one
// attempt holds the callback listener at a time.
type CalendarAuthService struct {
	store    driven.CredentialStore
	oauth    driven.OAuthClient
	listener driven.CallbackListener
	browser  driven.BrowserOpener

	flowMu     sync.Mutex
	flowActive bool

	// credMu serialises the read-check-refresh-write cycle so two callers
	// observing an expiring token do not both issue a refresh.
	credMu sync.Mutex

	flowTimeout   time.Duration
	refreshBuffer time.Duration
}

// NewCalendarAuthService creates the auth coordinator.
func NewCalendarAuthService(
	store driven.CredentialStore,
	oauth driven.OAuthClient,
	listener driven.CallbackListener,
	browser driven.BrowserOpener,
) *CalendarAuthService {
	return &CalendarAuthService{
		store:         store,
		oauth:         oauth,
		listener:      listener,
		browser:       browser,
		flowTimeout:   defaultFlowTimeout,
		refreshBuffer: defaultRefreshBuffer,
	}
}

// StartAuthorization runs one full Authorization Code flow.
func (s *CalendarAuthService) StartAuthorization(ctx context.Context) (*domain.CalendarCredentials, error) {
	if !s.beginFlow() {
		return nil, domain.ErrFlowAlreadyActive
	}
	defer s.endFlow()

	// Fresh state per attempt; the session dies with this call.
	session := domain.AuthSession{
		ExpectedState: GenerateState(),
		Deadline:      time.Now().Add(s.flowTimeout),
	}

	authURL := s.oauth.BuildAuthURL(session.ExpectedState, s.listener.RedirectURI())
	if err := s.browser.Open(authURL); err != nil {
		// Fire-and-forget: the user can still paste the URL manually.
		logger.Warn("failed to open browser: %v", err)
	}
	logger.Info("awaiting authorization callback on %s", s.listener.RedirectURI())

	result, err := s.listener.Await(ctx, session)
	if err != nil {
		return nil, err
	}

	if result.ProviderError != "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrProviderDenied, result.ProviderError)
	}
	if result.State != session.ExpectedState {
		return nil, domain.ErrSecurityViolation
	}

	creds, err := s.oauth.ExchangeCode(ctx, result.Code, s.listener.RedirectURI())
	if err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, *creds); err != nil {
		return nil, fmt.Errorf("saving credentials: %w", err)
	}

	logger.Info("calendar connected as %s", creds.Email)
	return creds, nil
}

// GetValidAccessToken returns an access token valid for immediate use,
// refreshing the stored record first if it is within the refresh buffer
// of expiry. Refresh keeps the refresh token and email unchanged.
func (s *CalendarAuthService) GetValidAccessToken(ctx context.Context) (string, error) {
	s.credMu.Lock()
	defer s.credMu.Unlock()

	creds, err := s.store.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("loading credentials: %w", err)
	}
	if creds == nil {
		return "", domain.ErrNotConnected
	}

	// A concurrent caller may have refreshed while we waited on the lock;
	// the re-read above makes that visible and skips the redundant refresh.
	if !creds.NeedsRefresh(s.refreshBuffer) {
		return creds.AccessToken, nil
	}

	logger.Debug("access token expires at %s, refreshing", creds.TokenExpiry.Format(time.RFC3339))
	accessToken, expiry, err := s.oauth.Refresh(ctx, creds.RefreshToken)
	if err != nil {
		// The stored refresh token stays valid on a transient failure.
		return "", err
	}

	creds.AccessToken = accessToken
	creds.TokenExpiry = expiry
	if err := s.store.Save(ctx, *creds); err != nil {
		return "", fmt.Errorf("saving refreshed credentials: %w", err)
	}

	return accessToken, nil
}

// Disconnect clears the stored credentials. Idempotent.
func (s *CalendarAuthService) Disconnect(ctx context.Context) error {
	s.credMu.Lock()
	defer s.credMu.Unlock()
	return s.store.Clear(ctx)
}

// GetStatus returns the stored credentials, or nil when not connected.
func (s *CalendarAuthService) GetStatus(ctx context.Context) (*domain.CalendarCredentials, error) {
	return s.store.Load(ctx)
}

// beginFlow marks the flow active; returns false if one is in progress.
func (s *CalendarAuthService) beginFlow() bool {
	s.flowMu.Lock()
	defer s.flowMu.Unlock()
	if s.flowActive {
		return false
	}
	s.flowActive = true
	return true
}

func (s *CalendarAuthService) endFlow() {
	s.flowMu.Lock()
	defer s.flowMu.Unlock()
	s.flowActive = false
}
