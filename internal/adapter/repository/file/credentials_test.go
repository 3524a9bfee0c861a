package file

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/gospot/internal/domain"
)

func newTestRepository(t *testing.T) *CredentialsRepository {
	t.Helper()
	return NewCredentialsRepository(filepath.Join(t.TempDir(), "settings"))
}

func TestCredentialsRepository_SaveAndLoad(t *testing.T) {
	repo := newTestRepository(t)

	creds := domain.StoredCredentials{
		Username: "alice",
		Blob:     "QUJDREVG",
		SavedAt:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Save(creds))

	loaded, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, creds.Username, loaded.Username)
	assert.Equal(t, creds.Blob, loaded.Blob)
	assert.True(t, creds.SavedAt.Equal(loaded.SavedAt))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(repo.Path())
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
}

func TestCredentialsRepository_Load_Missing(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.Load()
	assert.ErrorIs(t, err, domain.ErrCredentialsNotFound)
}

func TestCredentialsRepository_Load_Corrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not yaml", "version: [unterminated"},
		{"wrong version", "version: 7\ncredentials:\n  username: a\n  blob: b\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newTestRepository(t)
			require.NoError(t, os.MkdirAll(filepath.Dir(repo.Path()), 0o700))
			require.NoError(t, os.WriteFile(repo.Path(), []byte(tt.content), 0o600))

			_, err := repo.Load()
			var repoErr *domain.RepositoryError
			require.ErrorAs(t, err, &repoErr)
			assert.Equal(t, "Load", repoErr.Op)
		})
	}
}

func TestCredentialsRepository_Save_Invalid(t *testing.T) {
	repo := newTestRepository(t)

	err := repo.Save(domain.StoredCredentials{Blob: "b"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = os.Stat(repo.Path())
	assert.ErrorIs(t, err, os.ErrNotExist, "nothing written")
}

func TestCredentialsRepository_Clear(t *testing.T) {
	repo := newTestRepository(t)

	require.NoError(t, repo.Clear(), "clearing without a file")
	require.NoError(t, repo.Save(domain.StoredCredentials{Username: "alice", Blob: "b"}))
	require.NoError(t, repo.Clear())

	_, err := repo.Load()
	assert.ErrorIs(t, err, domain.ErrCredentialsNotFound)
}

func TestCredentialsRepository_Overwrite(t *testing.T) {
	repo := newTestRepository(t)

	require.NoError(t, repo.Save(domain.StoredCredentials{Username: "alice", Blob: "one"}))
	require.NoError(t, repo.Save(domain.StoredCredentials{Username: "alice", Blob: "two"}))

	loaded, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, "two", loaded.Blob)

	entries, err := os.ReadDir(filepath.Dir(repo.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")
}
