package session

import (
	"time"

	"github.com/tejashwikalptaru/gospot/internal/domain"
	"github.com/tejashwikalptaru/gospot/internal/handle"
)

// Track is a playable track. Its album and artists are owned by the track and
// closed with it.
type Track struct {
	entity

	name          string
	album         *Album
	artists       []*Artist
	durationMs    int
	popularity    int
	disc          int
	index         int
	local         bool
	starred       bool
	placeholder   bool
	availability  domain.TrackAvailability
	offlineStatus domain.TrackOfflineStatus
}

func newTrack(s *Session, h *handle.Strong) *Track {
	t := &Track{}
	t.init(s, h, t, t, true)
	return t
}

func (t *Track) load(hv *harvest, raw domain.Handle) {
	info := t.s.native.TrackInfo(raw)

	t.mu.RLock()
	curAlbum, curArtists := t.album, t.artists
	t.mu.RUnlock()

	album := child(hv, curAlbum, domain.KindAlbum, info.Album, newAlbum)
	artists := children(hv, curArtists, domain.KindArtist, info.Artists, newArtist)
	if hv.err != nil {
		return
	}

	t.commitLoaded(func() {
		t.name = info.Name
		t.album = album
		t.artists = artists
		t.durationMs = info.DurationMs
		t.popularity = info.Popularity
		t.disc = info.Disc
		t.index = info.Index
		t.local = info.IsLocal
		t.starred = info.IsStarred
		t.placeholder = info.IsPlaceholder
		t.availability = info.Availability
		t.offlineStatus = info.OfflineStatus
	})
}

func (t *Track) clear() {
	t.commitCleared(func() {
		t.name = ""
		t.album = nil
		t.artists = nil
		t.durationMs = 0
		t.popularity = 0
		t.disc = 0
		t.index = 0
		t.local = false
		t.starred = false
		t.placeholder = false
		t.availability = domain.TrackUnavailable
		t.offlineStatus = domain.TrackOfflineNo
	})
}

func (t *Track) children() []Entity {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append(optional(t.album), entities(t.artists)...)
}

// Name returns the track name.
func (t *Track) Name() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.name
}

// Album returns the album the track appears on, or nil.
func (t *Track) Album() *Album {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.album
}

// Artists returns the performing artists.
func (t *Track) Artists() []*Artist {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]*Artist(nil), t.artists...)
}

// Duration returns the track length.
func (t *Track) Duration() time.Duration {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return domain.TrackDuration(t.durationMs)
}

// Popularity returns the popularity in the range 0 to 100.
func (t *Track) Popularity() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.popularity
}

// Disc returns the disc number, starting at 1.
func (t *Track) Disc() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.disc
}

// Index returns the position on the disc, starting at 1.
func (t *Track) Index() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.index
}

// IsLocal reports whether the track is a local file.
func (t *Track) IsLocal() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.local
}

// IsStarred reports whether the logged in user starred the track.
func (t *Track) IsStarred() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.starred
}

// IsPlaceholder reports whether the track stands in for another object in a playlist.
func (t *Track) IsPlaceholder() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.placeholder
}

// Availability tells whether the track can be played.
func (t *Track) Availability() domain.TrackAvailability {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.availability
}

// OfflineStatus returns the offline synchronization state.
func (t *Track) OfflineStatus() domain.TrackOfflineStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.offlineStatus
}

// Link creates a link to the track.
func (t *Track) Link() (*Link, error) {
	return t.s.linkFrom(&t.entity, domain.LinkOptions{})
}

// LinkAt creates a link that starts playback at offset.
func (t *Track) LinkAt(offset time.Duration) (*Link, error) {
	return t.s.linkFrom(&t.entity, domain.LinkOptions{Offset: offset})
}
