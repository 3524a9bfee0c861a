// Package ports define repository interfaces for data persistence abstraction.
// These interfaces enable the repository pattern and allow swapping persistence mechanisms.
package ports

import (
	"github.com/tejashwikalptaru/gospot/internal/domain"
)

// CredentialsRepository handles the persistence of the credentials blob the native
// library hands out after a successful login.
// Implementations can use files or in-memory storage.
//
// Thread-safety: Implementations must be thread-safe.
type CredentialsRepository interface {
	// Save persists the credentials, replacing any previously stored ones.
	//
	// Returns an error if saving fails.
	Save(creds domain.StoredCredentials) error

	// Load retrieves the stored credentials.
	// If nothing was saved, returns domain.ErrCredentialsNotFound.
	//
	// Returns the credentials or an error if loading fails.
	Load() (domain.StoredCredentials, error)

	// Clear removes the stored credentials.
	// Clearing an empty repository is a no-op.
	//
	// Returns an error if clearing fails.
	Clear() error
}
