package memory

import (
	"context"
	"sync"

	"github.com/taskdeck/taskdeck/internal/core/domain"
	"github.com/taskdeck/taskdeck/internal/core/ports/driven"
)

// Ensure CredentialStore implements the interface.
var _ driven.CredentialStore = (*CredentialStore)(nil)

// CredentialStore is an in-memory implementation of driven.CredentialStore.
type CredentialStore struct {
	mu    sync.RWMutex
	creds *domain.CalendarCredentials
}

// NewCredentialStore creates a new in-memory credential store.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{}
}

// Save stores the record, replacing any existing one.
func (s *CredentialStore) Save(ctx context.Context, creds domain.CalendarCredentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := creds
	s.creds = &copied
	return nil
}

// Load retrieves the current record, or nil when absent.
func (s *CredentialStore) Load(ctx context.Context) (*domain.CalendarCredentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds == nil {
		return nil, nil
	}
	copied := *s.creds
	return &copied, nil
}

// Clear removes the record.
func (s *CredentialStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = nil
	return nil
}
