package session

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"

	"github.com/tejashwikalptaru/gospot/internal/domain"
	"github.com/tejashwikalptaru/gospot/internal/gate"
	"github.com/tejashwikalptaru/gospot/internal/handle"
)

// LocalTrack creates a track for a file the user plays from disk. The library
// matches it against the catalogue where it can.
func (s *Session) LocalTrack(artist, title, album string, length time.Duration) (*Track, error) {
	if title == "" {
		return nil, domain.NewValidationError("title", title, "title is required")
	}
	if length < 0 {
		return nil, domain.NewValidationError("length", length, "length must not be negative")
	}
	return gate.Value(s.gate, func() (*Track, error) {
		if _, err := s.raw(); err != nil {
			return nil, err
		}
		raw := s.native.LocalTrackCreate(artist, title, album, length)
		h, err := handle.Adopt(s.gate, s.native, domain.KindTrack, raw)
		if err != nil {
			return nil, fmt.Errorf("local track %q: %w", title, err)
		}
		return newTrack(s, h), nil
	})
}

// LocalTrackFromFile reads the tags of an audio file and creates a local track for
// it. Files without a title tag use the file name.
//
// The tag formats carry no duration, so the length is left for the library to fill in.
func (s *Session) LocalTrackFromFile(path string) (*Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open local track: %w", err)
	}
	defer func() { _ = f.Close() }()

	base := filepath.Base(path)
	title := strings.TrimSuffix(base, filepath.Ext(base))
	var artist, album string

	m, err := tag.ReadFrom(f)
	switch {
	case err == nil:
		if t := strings.TrimSpace(m.Title()); t != "" {
			title = t
		}
		artist = strings.TrimSpace(m.Artist())
		if artist == "" {
			artist = strings.TrimSpace(m.AlbumArtist())
		}
		album = strings.TrimSpace(m.Album())
	case errors.Is(err, tag.ErrNoTagsFound):
		s.logger.Debug("no tags in local track", slog.String("path", path))
	default:
		return nil, fmt.Errorf("read tags of %s: %w", base, err)
	}

	return s.LocalTrack(artist, title, album, 0)
}
