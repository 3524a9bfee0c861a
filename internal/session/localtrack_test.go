package session_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/gospot/internal/domain"
)

// id3v1 builds a file of audio filler followed by an ID3v1 tag.
func id3v1(title, artist, album string) []byte {
	field := func(s string, n int) []byte {
		b := make([]byte, n)
		copy(b, s)
		return b
	}
	data := make([]byte, 512)
	data = append(data, "TAG"...)
	data = append(data, field(title, 30)...)
	data = append(data, field(artist, 30)...)
	data = append(data, field(album, 30)...)
	data = append(data, field("1997", 4)...)
	data = append(data, field("", 30)...)
	return append(data, 0)
}

func TestLocalTrack(t *testing.T) {
	f := newFixture(t, nil)
	f.expectNoLeaks(t)

	tr, err := f.s.LocalTrack("Portishead", "Roads", "Dummy", 5*time.Minute)
	require.NoError(t, err)
	defer tr.Close()

	require.True(t, tr.IsLoaded())
	assert.True(t, tr.IsLocal())
	assert.Equal(t, "Roads", tr.Name())
	assert.Equal(t, 5*time.Minute, tr.Duration())
	require.NotNil(t, tr.Album())
	assert.Equal(t, "Dummy", tr.Album().Name())
	require.Len(t, tr.Artists(), 1)
	assert.Equal(t, "Portishead", tr.Artists()[0].Name())

	var verr *domain.ValidationError
	_, err = f.s.LocalTrack("x", "", "y", 0)
	require.ErrorAs(t, err, &verr)
}

func TestLocalTrackFromFile(t *testing.T) {
	f := newFixture(t, nil)
	f.expectNoLeaks(t)
	dir := t.TempDir()

	t.Run("tagged", func(t *testing.T) {
		path := filepath.Join(dir, "01 - track.mp3")
		require.NoError(t, os.WriteFile(path, id3v1("Glory Box", "Portishead", "Dummy"), 0o600))

		tr, err := f.s.LocalTrackFromFile(path)
		require.NoError(t, err)
		defer tr.Close()

		assert.Equal(t, "Glory Box", tr.Name())
		require.NotNil(t, tr.Album())
		assert.Equal(t, "Dummy", tr.Album().Name())
		require.Len(t, tr.Artists(), 1)
		assert.Equal(t, "Portishead", tr.Artists()[0].Name())
	})

	t.Run("untagged uses file name", func(t *testing.T) {
		path := filepath.Join(dir, "Sour Times.wav")
		require.NoError(t, os.WriteFile(path, make([]byte, 512), 0o600))

		tr, err := f.s.LocalTrackFromFile(path)
		require.NoError(t, err)
		defer tr.Close()

		assert.Equal(t, "Sour Times", tr.Name())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := f.s.LocalTrackFromFile(filepath.Join(dir, "nope.mp3"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}
