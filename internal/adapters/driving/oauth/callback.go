// Package oauth provides the loopback OAuth callback server and browser
// launcher.
package oauth

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/taskdeck/taskdeck/internal/adapters/driving/oauth/pages"
	"github.com/taskdeck/taskdeck/internal/core/domain"
	"github.com/taskdeck/taskdeck/internal/core/ports/driven"
)

const (
	// DefaultPort is the loopback port registered in the provider's
	// redirect URI. Chosen away from common development-server defaults.
	DefaultPort = 3333

	// callbackPath is the redirect path registered with the provider.
	callbackPath = "/oauth/callback"
)

// Ensure CallbackServer implements the listener port.
var _ driven.CallbackListener = (*CallbackServer)(nil)

// CallbackServer accepts exactly one OAuth redirect per Await call.
// The port is bound when Await starts and released on every exit path,
// so a subsequent flow can bind it immediately.
type CallbackServer struct {
	port int
}

// NewCallbackServer creates a callback server for the given port.
// A zero port selects DefaultPort.
func NewCallbackServer(port int) *CallbackServer {
	if port == 0 {
		port = DefaultPort
	}
	return &CallbackServer{port: port}
}

// RedirectURI returns the redirect URI this server handles. It must match
// the URI registered with the provider exactly.
func (s *CallbackServer) RedirectURI() string {
	return fmt.Sprintf("http://127.0.0.1:%d%s", s.port, callbackPath)
}

// Await binds the loopback listener and blocks until the callback
// arrives, the session deadline passes, or the context is cancelled.
// Requests to paths other than the callback path receive a 404 and the
// wait continues.
func (s *CallbackServer) Await(ctx context.Context, session domain.AuthSession) (*domain.CallbackResult, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", s.port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen on 127.0.0.1:%d: %w", s.port, err)
	}

	resultChan := make(chan *domain.CallbackResult, 1)
	errChan := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		handleCallback(w, r, session.ExpectedState, resultChan, errChan)
	})

	server := &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		if serveErr := server.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			select {
			case errChan <- serveErr:
			default:
			}
		}
	}()

	// The bound port is released on every exit path.
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	select {
	case result := <-resultChan:
		return result, nil
	case err := <-errChan:
		return nil, err
	case <-time.After(time.Until(session.Deadline)):
		return nil, domain.ErrAuthTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// handleCallback parses the single accepted request and responds with the
// outcome page before the result reaches the coordinator. The page choice
// mirrors the outcome; the coordinator performs the authoritative state
// validation on the returned result.
func handleCallback(
	w http.ResponseWriter,
	r *http.Request,
	expectedState string,
	resultChan chan<- *domain.CallbackResult,
	errChan chan<- error,
) {
	query := r.URL.Query()

	if errParam := query.Get("error"); errParam != "" {
		servePage(w, pages.Error)
		deliver(resultChan, &domain.CallbackResult{ProviderError: errParam})
		return
	}

	code := query.Get("code")
	state := query.Get("state")

	if code == "" {
		servePage(w, pages.Error)
		select {
		case errChan <- fmt.Errorf("no authorization code in callback"):
		default:
		}
		return
	}

	if state != expectedState {
		servePage(w, pages.SecurityError)
	} else {
		servePage(w, pages.Success)
	}
	deliver(resultChan, &domain.CallbackResult{Code: code, State: state})
}

// deliver sends the first result; later requests are dropped.
func deliver(resultChan chan<- *domain.CallbackResult, result *domain.CallbackResult) {
	select {
	case resultChan <- result:
	default:
	}
}

func servePage(w http.ResponseWriter, page string) {
	w.Header().Set("Content-Type", "text/html")
	_, _ = fmt.Fprint(w, page)
}
