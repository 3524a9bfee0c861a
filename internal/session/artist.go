package session

import (
	"slices"

	"github.com/tejashwikalptaru/gospot/internal/domain"
	"github.com/tejashwikalptaru/gospot/internal/handle"
	"github.com/tejashwikalptaru/gospot/internal/ports"
)

// Artist is a performing artist. Biography, portraits, tracks, albums and similar
// artists require LoadExtendedMetadata.
type Artist struct {
	entity

	name     string
	portrait domain.ImageID

	extended     bool
	biography    string
	portraits    []domain.ImageID
	tracks       []*Track
	topHitTracks []*Track
	albums       []*Album
	similar      []*Artist
}

func newArtist(s *Session, h *handle.Strong) *Artist {
	a := &Artist{}
	a.init(s, h, a, a, true)
	return a
}

func (a *Artist) load(_ *harvest, raw domain.Handle) {
	info := a.s.native.ArtistInfo(raw)
	a.commitLoaded(func() {
		a.name = info.Name
		a.portrait = info.Portrait
	})
}

func (a *Artist) clear() {
	a.commitCleared(func() {
		a.name = ""
		a.portrait = domain.ImageID{}
		a.extended = false
		a.biography = ""
		a.portraits = nil
		a.tracks = nil
		a.topHitTracks = nil
		a.albums = nil
		a.similar = nil
	})
}

func (a *Artist) children() []Entity {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.extendedChildren()
}

// extendedChildren requires a.mu.
func (a *Artist) extendedChildren() []Entity {
	out := entities(a.tracks, a.topHitTracks)
	out = append(out, entities(a.albums)...)
	return append(out, entities(a.similar)...)
}

// LoadExtendedMetadata starts an artist browse of the given depth.
func (a *Artist) LoadExtendedMetadata(browseType domain.ArtistBrowseType) (*BrowseOperation, error) {
	op := newBrowseOperation(a.s, domain.KindArtistBrowse, a, a.harvestBrowse)
	err := a.s.gate.Do(func() error {
		if a.isClosed() {
			return domain.ErrEntityClosed
		}
		_, err := op.begin(func(session domain.Handle, done ports.BrowseCallback) domain.Handle {
			return a.s.native.ArtistBrowseCreate(session, a.h.Raw(), browseType, done)
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return op, nil
}

func (a *Artist) harvestBrowse(hv *harvest, raw domain.Handle) func() {
	res := a.s.native.ArtistBrowseResult(raw)

	a.mu.RLock()
	curTracks, curHits, curAlbums, curSimilar := a.tracks, a.topHitTracks, a.albums, a.similar
	a.mu.RUnlock()

	tracks := children(hv, curTracks, domain.KindTrack, res.Tracks, newTrack)
	hits := children(hv, curHits, domain.KindTrack, res.TopHitTracks, newTrack)
	albums := children(hv, curAlbums, domain.KindAlbum, res.Albums, newAlbum)
	similar := children(hv, curSimilar, domain.KindArtist, res.SimilarArtists, newArtist)

	return func() {
		a.mu.Lock()
		before := a.extendedChildren()
		a.extended = true
		a.biography = res.Biography
		a.portraits = slices.Clone(res.Portraits)
		a.tracks = tracks
		a.topHitTracks = hits
		a.albums = albums
		a.similar = similar
		after := a.extendedChildren()
		a.mu.Unlock()

		closeStale(before, after)
	}
}

// Name returns the artist name.
func (a *Artist) Name() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.name
}

// PortraitID returns the id of the main portrait. It is zero when there is none.
func (a *Artist) PortraitID() domain.ImageID {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.portrait
}

// HasExtendedMetadata reports whether an artist browse has populated the artist.
func (a *Artist) HasExtendedMetadata() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.extended
}

// Biography returns the artist biography. Requires extended metadata.
func (a *Artist) Biography() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.biography
}

// Portraits returns the ids of every portrait. Requires extended metadata.
func (a *Artist) Portraits() []domain.ImageID {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Clone(a.portraits)
}

// Tracks returns the artist's tracks. Requires extended metadata.
func (a *Artist) Tracks() []*Track {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Clone(a.tracks)
}

// TopHitTracks returns the most popular tracks. Requires extended metadata.
func (a *Artist) TopHitTracks() []*Track {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Clone(a.topHitTracks)
}

// Albums returns the artist's albums. Requires extended metadata.
func (a *Artist) Albums() []*Album {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Clone(a.albums)
}

// SimilarArtists returns related artists. Requires extended metadata.
func (a *Artist) SimilarArtists() []*Artist {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Clone(a.similar)
}

// Link creates a link to the artist.
func (a *Artist) Link() (*Link, error) {
	return a.s.linkFrom(&a.entity, domain.LinkOptions{})
}

// PortraitLink creates a link to the portrait in the given size.
func (a *Artist) PortraitLink(size domain.ImageSize) (*Link, error) {
	return a.s.linkFrom(&a.entity, domain.LinkOptions{Image: true, Size: size})
}

// PortraitImage creates the main portrait image.
func (a *Artist) PortraitImage() (*Image, error) {
	return a.s.Image(a.PortraitID())
}
