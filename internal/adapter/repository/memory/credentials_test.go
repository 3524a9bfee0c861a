package memory

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/gospot/internal/domain"
)

func TestCredentialsRepository_SaveAndLoad(t *testing.T) {
	repo := NewCredentialsRepository()

	creds := domain.StoredCredentials{Username: "alice", Blob: "b10b", SavedAt: time.Unix(1700000000, 0)}
	require.NoError(t, repo.Save(creds))

	loaded, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, creds, loaded)

	// Replace
	require.NoError(t, repo.Save(domain.StoredCredentials{Username: "bob", Blob: "other"}))
	loaded, err = repo.Load()
	require.NoError(t, err)
	assert.Equal(t, "bob", loaded.Username)
}

func TestCredentialsRepository_Load_Empty(t *testing.T) {
	repo := NewCredentialsRepository()

	_, err := repo.Load()
	assert.ErrorIs(t, err, domain.ErrCredentialsNotFound)
}

func TestCredentialsRepository_Save_Invalid(t *testing.T) {
	repo := NewCredentialsRepository()

	err := repo.Save(domain.StoredCredentials{Username: "alice"})
	var repoErr *domain.RepositoryError
	require.ErrorAs(t, err, &repoErr)
	assert.Equal(t, "Save", repoErr.Op)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestCredentialsRepository_Clear(t *testing.T) {
	repo := NewCredentialsRepository()

	require.NoError(t, repo.Clear(), "clearing an empty repository")
	require.NoError(t, repo.Save(domain.StoredCredentials{Username: "alice", Blob: "b"}))
	require.NoError(t, repo.Clear())

	_, err := repo.Load()
	assert.ErrorIs(t, err, domain.ErrCredentialsNotFound)
}

func TestCredentialsRepository_Concurrent(t *testing.T) {
	repo := NewCredentialsRepository()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				_ = repo.Save(domain.StoredCredentials{Username: "u", Blob: "b"})
			} else {
				_, _ = repo.Load()
			}
		}()
	}
	wg.Wait()

	loaded, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, "u", loaded.Username)
}
