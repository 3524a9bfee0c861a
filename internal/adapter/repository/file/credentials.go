// Package file provides repository implementations backed by files on disk.
package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/tejashwikalptaru/gospot/internal/domain"
	"github.com/tejashwikalptaru/gospot/internal/ports"
)

// credentialsFile is the name of the file inside the settings directory.
const credentialsFile = "credentials.yaml"

// credentialsDocument is the on-disk layout. Version guards future format changes.
type credentialsDocument struct {
	Version     int                      `yaml:"version"`
	Credentials domain.StoredCredentials `yaml:"credentials"`
}

const documentVersion = 1

// CredentialsRepository implements ports.CredentialsRepository with a YAML file.
// The file is written with owner-only permissions and replaced atomically.
//
// Thread-safe: All operations protected by sync.Mutex.
type CredentialsRepository struct {
	path string
	mu   sync.Mutex
}

// NewCredentialsRepository stores credentials in dir, which is created on first save.
func NewCredentialsRepository(dir string) *CredentialsRepository {
	return &CredentialsRepository{path: filepath.Join(dir, credentialsFile)}
}

// Path returns the file the credentials are kept in.
func (r *CredentialsRepository) Path() string {
	return r.path
}

// Save writes the credentials, replacing the previous file.
func (r *CredentialsRepository) Save(creds domain.StoredCredentials) error {
	if creds.IsEmpty() {
		return domain.NewRepositoryError("Save", "credentials", "username and blob are required", domain.ErrInvalidArgument)
	}

	data, err := yaml.Marshal(credentialsDocument{Version: documentVersion, Credentials: creds})
	if err != nil {
		return domain.NewRepositoryError("Save", "credentials", "failed to marshal credentials", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(r.path), 0o700); err != nil {
		return domain.NewRepositoryError("Save", "credentials", "failed to create directory", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), credentialsFile+".*")
	if err != nil {
		return domain.NewRepositoryError("Save", "credentials", "failed to create temp file", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return domain.NewRepositoryError("Save", "credentials", "failed to write credentials", err)
	}
	if err := tmp.Close(); err != nil {
		return domain.NewRepositoryError("Save", "credentials", "failed to write credentials", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return domain.NewRepositoryError("Save", "credentials", "failed to replace credentials file", err)
	}
	return nil
}

// Load reads the credentials. A missing file yields domain.ErrCredentialsNotFound.
func (r *CredentialsRepository) Load() (domain.StoredCredentials, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.StoredCredentials{}, domain.ErrCredentialsNotFound
	}
	if err != nil {
		return domain.StoredCredentials{}, domain.NewRepositoryError("Load", "credentials", "failed to read credentials", err)
	}

	var doc credentialsDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return domain.StoredCredentials{}, domain.NewRepositoryError("Load", "credentials", "failed to unmarshal credentials", err)
	}
	if doc.Version != documentVersion {
		return domain.StoredCredentials{}, domain.NewRepositoryError("Load", "credentials",
			fmt.Sprintf("unsupported file version %d", doc.Version), nil)
	}
	if doc.Credentials.IsEmpty() {
		return domain.StoredCredentials{}, domain.ErrCredentialsNotFound
	}
	return doc.Credentials, nil
}

// Clear deletes the credentials file.
func (r *CredentialsRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(r.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return domain.NewRepositoryError("Clear", "credentials", "failed to remove credentials file", err)
	}
	return nil
}

// Verify that CredentialsRepository implements the interface
var _ ports.CredentialsRepository = (*CredentialsRepository)(nil)
