// Package memory provides in-memory repository implementations.
package memory

import (
	"sync"

	"github.com/tejashwikalptaru/gospot/internal/domain"
	"github.com/tejashwikalptaru/gospot/internal/ports"
)

// CredentialsRepository implements ports.CredentialsRepository in memory.
// Nothing survives the process; it backs tests and sessions that must not
// touch the disk.
//
// Thread-safe: All operations protected by sync.RWMutex.
type CredentialsRepository struct {
	creds *domain.StoredCredentials
	mu    sync.RWMutex
}

// NewCredentialsRepository creates an empty credentials repository.
func NewCredentialsRepository() *CredentialsRepository {
	return &CredentialsRepository{}
}

// Save stores the credentials, replacing any previous ones.
func (r *CredentialsRepository) Save(creds domain.StoredCredentials) error {
	if creds.IsEmpty() {
		return domain.NewRepositoryError("Save", "credentials", "username and blob are required", domain.ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c := creds
	r.creds = &c
	return nil
}

// Load returns the stored credentials or domain.ErrCredentialsNotFound.
func (r *CredentialsRepository) Load() (domain.StoredCredentials, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.creds == nil {
		return domain.StoredCredentials{}, domain.ErrCredentialsNotFound
	}
	return *r.creds, nil
}

// Clear forgets the stored credentials.
func (r *CredentialsRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.creds = nil
	return nil
}

// Verify that CredentialsRepository implements the interface
var _ ports.CredentialsRepository = (*CredentialsRepository)(nil)
