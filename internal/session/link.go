package session

import (
	"fmt"
	"time"

	"github.com/tejashwikalptaru/gospot/internal/domain"
	"github.com/tejashwikalptaru/gospot/internal/gate"
	"github.com/tejashwikalptaru/gospot/internal/handle"
)

// Link is a parsed service uri. Entities resolved from a link are separate
// objects with their own reference; closing the link does not close them.
type Link struct {
	entity

	linkType domain.LinkType
	uri      string
}

func newLink(s *Session, h *handle.Strong) *Link {
	l := &Link{}
	l.init(s, h, l, l, false)
	return l
}

// Link parses uri. It fails with domain.ErrInvalidArgument when the library
// does not recognize it.
func (s *Session) Link(uri string) (*Link, error) {
	if uri == "" {
		return nil, domain.NewValidationError("uri", uri, "uri is required")
	}
	return gate.Value(s.gate, func() (*Link, error) {
		if _, err := s.raw(); err != nil {
			return nil, err
		}
		raw := s.native.LinkCreateFromString(uri)
		if raw == domain.InvalidHandle {
			return nil, fmt.Errorf("parse link %q: %w", uri, domain.ErrInvalidArgument)
		}
		h, err := handle.Adopt(s.gate, s.native, domain.KindLink, raw)
		if err != nil {
			return nil, err
		}
		return newLink(s, h), nil
	})
}

// linkFrom creates a link to e.
func (s *Session) linkFrom(e *entity, opts domain.LinkOptions) (*Link, error) {
	return gate.Value(s.gate, func() (*Link, error) {
		if e.isClosed() {
			return nil, domain.ErrEntityClosed
		}
		raw := s.native.LinkCreateFrom(e.h.Kind(), e.h.Raw(), opts)
		if raw == domain.InvalidHandle {
			return nil, fmt.Errorf("create link to %s: %w", e.h.Kind(), domain.ErrNotLoaded)
		}
		h, err := handle.Adopt(s.gate, s.native, domain.KindLink, raw)
		if err != nil {
			return nil, err
		}
		return newLink(s, h), nil
	})
}

func (l *Link) load(_ *harvest, raw domain.Handle) {
	typ := l.s.native.LinkType(raw)
	uri := l.s.native.LinkString(raw)
	l.commitLoaded(func() {
		l.linkType = typ
		l.uri = uri
	})
}

func (l *Link) clear() {
	l.commitCleared(func() {
		l.linkType = domain.LinkInvalid
		l.uri = ""
	})
}

func (l *Link) children() []Entity { return nil }

// Type returns the kind of object the link points to.
func (l *Link) Type() domain.LinkType {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.linkType
}

// String returns the uri.
func (l *Link) String() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.uri
}

// resolve checks the link type and returns the borrowed target read by fn.
// Runs inside the gate.
func (l *Link) resolve(want domain.LinkType, fn func(raw domain.Handle) domain.Handle) (domain.Handle, error) {
	if l.isClosed() {
		return domain.InvalidHandle, domain.ErrEntityClosed
	}
	if got := l.Type(); got != want {
		return domain.InvalidHandle, fmt.Errorf("link type %d, want %d: %w", got, want, domain.ErrLinkTypeMismatch)
	}
	target := fn(l.h.Raw())
	if target == domain.InvalidHandle {
		return domain.InvalidHandle, fmt.Errorf("resolve %q: %w", l.String(), domain.ErrNotLoaded)
	}
	return target, nil
}

// AsTrack resolves a track link and returns the playback offset it carries.
func (l *Link) AsTrack() (*Track, time.Duration, error) {
	var offset time.Duration
	t, err := gate.Value(l.s.gate, func() (*Track, error) {
		raw, err := l.resolve(domain.LinkTrack, func(raw domain.Handle) domain.Handle {
			var target domain.Handle
			target, offset = l.s.native.LinkAsTrack(raw)
			return target
		})
		if err != nil {
			return nil, err
		}
		h, err := handle.Acquire(l.s.gate, l.s.native, domain.KindTrack, raw)
		if err != nil {
			return nil, err
		}
		return newTrack(l.s, h), nil
	})
	if err != nil {
		return nil, 0, err
	}
	return t, offset, nil
}

// AsAlbum resolves an album link.
func (l *Link) AsAlbum() (*Album, error) {
	return resolveBorrowed(l, domain.LinkAlbum, domain.KindAlbum, l.s.native.LinkAsAlbum, newAlbum)
}

// AsArtist resolves an artist link.
func (l *Link) AsArtist() (*Artist, error) {
	return resolveBorrowed(l, domain.LinkArtist, domain.KindArtist, l.s.native.LinkAsArtist, newArtist)
}

// AsUser resolves a profile link.
func (l *Link) AsUser() (*User, error) {
	return resolveBorrowed(l, domain.LinkProfile, domain.KindUser, l.s.native.LinkAsUser, newUser)
}

// AsImage opens the image an image link points to.
func (l *Link) AsImage() (*Image, error) {
	return gate.Value(l.s.gate, func() (*Image, error) {
		sraw, err := l.s.raw()
		if err != nil {
			return nil, err
		}
		raw, err := l.resolve(domain.LinkImage, func(raw domain.Handle) domain.Handle {
			return l.s.native.ImageCreateFromLink(sraw, raw)
		})
		if err != nil {
			return nil, err
		}
		h, err := handle.Adopt(l.s.gate, l.s.native, domain.KindImage, raw)
		if err != nil {
			return nil, err
		}
		return newImage(l.s, h, domain.ImageID{}), nil
	})
}

// AsPlaylist opens the playlist a playlist link points to.
func (l *Link) AsPlaylist() (*Playlist, error) {
	return gate.Value(l.s.gate, func() (*Playlist, error) {
		sraw, err := l.s.raw()
		if err != nil {
			return nil, err
		}
		raw, err := l.resolve(domain.LinkPlaylist, func(raw domain.Handle) domain.Handle {
			return l.s.native.PlaylistCreate(sraw, raw)
		})
		if err != nil {
			return nil, err
		}
		h, err := handle.Adopt(l.s.gate, l.s.native, domain.KindPlaylist, raw)
		if err != nil {
			return nil, err
		}
		return newPlaylist(l.s, h), nil
	})
}

// resolveBorrowed resolves a link whose target the library keeps, adding a
// reference for the returned entity.
func resolveBorrowed[E Entity](l *Link, want domain.LinkType, kind domain.EntityKind, as func(domain.Handle) domain.Handle, ctor func(*Session, *handle.Strong) E) (E, error) {
	return gate.Value(l.s.gate, func() (E, error) {
		var zero E
		raw, err := l.resolve(want, as)
		if err != nil {
			return zero, err
		}
		h, err := handle.Acquire(l.s.gate, l.s.native, kind, raw)
		if err != nil {
			return zero, err
		}
		return ctor(l.s, h), nil
	})
}
