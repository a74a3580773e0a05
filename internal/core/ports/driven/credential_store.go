package driven

import (
	"context"

	"github.com/taskdeck/taskdeck/internal/core/domain"
)

// CredentialStore persists the single calendar credential record.
// The store holds zero or one record; Save fully replaces any existing
// record, never merges. Read and write are atomic at record granularity.
type CredentialStore interface {
	// Save stores the record, replacing any existing one.
	Save(ctx context.Context, creds domain.CalendarCredentials) error

	// Load retrieves the current record.
	// Returns nil, nil when no record is stored.
	Load(ctx context.Context) (*domain.CalendarCredentials, error)

	// Clear removes the record. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}
