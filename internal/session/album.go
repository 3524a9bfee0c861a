package session

import (
	"slices"

	"github.com/tejashwikalptaru/gospot/internal/domain"
	"github.com/tejashwikalptaru/gospot/internal/handle"
	"github.com/tejashwikalptaru/gospot/internal/ports"
)

// Album is an album. Its basic metadata loads on its own; copyrights, review and
// track list require LoadExtendedMetadata.
type Album struct {
	entity

	name      string
	artist    *Artist
	cover     domain.ImageID
	available bool
	albumType domain.AlbumType
	year      int

	extended   bool
	copyrights []string
	review     string
	tracks     []*Track
}

func newAlbum(s *Session, h *handle.Strong) *Album {
	a := &Album{}
	a.init(s, h, a, a, true)
	return a
}

func (a *Album) load(hv *harvest, raw domain.Handle) {
	info := a.s.native.AlbumInfo(raw)

	a.mu.RLock()
	cur := a.artist
	a.mu.RUnlock()

	artist := child(hv, cur, domain.KindArtist, info.Artist, newArtist)
	if hv.err != nil {
		return
	}

	a.commitLoaded(func() {
		a.name = info.Name
		a.artist = artist
		a.cover = info.Cover
		a.available = info.Available
		a.albumType = info.Type
		a.year = info.Year
	})
}

func (a *Album) clear() {
	a.commitCleared(func() {
		a.name = ""
		a.artist = nil
		a.cover = domain.ImageID{}
		a.available = false
		a.albumType = domain.AlbumTypeUnknown
		a.year = 0
		a.extended = false
		a.copyrights = nil
		a.review = ""
		a.tracks = nil
	})
}

func (a *Album) children() []Entity {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append(optional(a.artist), entities(a.tracks)...)
}

// LoadExtendedMetadata starts an album browse. When it succeeds the copyrights,
// review and tracks are populated and OnLoaded callbacks run again.
func (a *Album) LoadExtendedMetadata() (*BrowseOperation, error) {
	op := newBrowseOperation(a.s, domain.KindAlbumBrowse, a, a.harvestBrowse)
	err := a.s.gate.Do(func() error {
		if a.isClosed() {
			return domain.ErrEntityClosed
		}
		_, err := op.begin(func(session domain.Handle, done ports.BrowseCallback) domain.Handle {
			return a.s.native.AlbumBrowseCreate(session, a.h.Raw(), done)
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return op, nil
}

func (a *Album) harvestBrowse(hv *harvest, raw domain.Handle) func() {
	res := a.s.native.AlbumBrowseResult(raw)

	a.mu.RLock()
	cur := a.tracks
	a.mu.RUnlock()

	tracks := children(hv, cur, domain.KindTrack, res.Tracks, newTrack)

	return func() {
		a.mu.Lock()
		old := a.tracks
		a.extended = true
		a.copyrights = slices.Clone(res.Copyrights)
		a.review = res.Review
		a.tracks = tracks
		a.mu.Unlock()

		closeStale(entities(old), entities(tracks))
	}
}

// Name returns the album name.
func (a *Album) Name() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.name
}

// Artist returns the album artist, or nil.
func (a *Album) Artist() *Artist {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.artist
}

// CoverID returns the id of the cover image. It is zero when there is no cover.
func (a *Album) CoverID() domain.ImageID {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cover
}

// IsAvailable reports whether the album can be played in the user's region.
func (a *Album) IsAvailable() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.available
}

// Type returns the album type.
func (a *Album) Type() domain.AlbumType {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.albumType
}

// Year returns the release year.
func (a *Album) Year() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.year
}

// HasExtendedMetadata reports whether an album browse has populated the album.
func (a *Album) HasExtendedMetadata() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.extended
}

// Copyrights returns the copyright notices. Requires extended metadata.
func (a *Album) Copyrights() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Clone(a.copyrights)
}

// Review returns the album review. Requires extended metadata.
func (a *Album) Review() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.review
}

// Tracks returns the album tracks. Requires extended metadata.
func (a *Album) Tracks() []*Track {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Clone(a.tracks)
}

// Link creates a link to the album.
func (a *Album) Link() (*Link, error) {
	return a.s.linkFrom(&a.entity, domain.LinkOptions{})
}

// CoverLink creates a link to the cover image in the given size.
func (a *Album) CoverLink(size domain.ImageSize) (*Link, error) {
	return a.s.linkFrom(&a.entity, domain.LinkOptions{Image: true, Size: size})
}

// CoverImage creates the cover image. It fails with domain.ErrNotLoaded until the
// album is loaded and when the album has no cover.
func (a *Album) CoverImage() (*Image, error) {
	return a.s.Image(a.CoverID())
}
