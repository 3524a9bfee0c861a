package session

import (
	"slices"

	"github.com/tejashwikalptaru/gospot/internal/domain"
	"github.com/tejashwikalptaru/gospot/internal/handle"
	"github.com/tejashwikalptaru/gospot/internal/ports"
)

// Search holds the result of one search. It is empty until the BrowseOperation
// returned with it completes.
type Search struct {
	entity

	query          string
	didYouMean     string
	totalTracks    int
	totalAlbums    int
	totalArtists   int
	totalPlaylists int
	tracks         []*Track
	albums         []*Album
	artists        []*Artist
	playlists      []domain.PlaylistRef
}

// Search starts a search. The returned Search owns its own reference to the
// native search object; the operation releases the one it was created with.
func (s *Session) Search(query domain.SearchQuery) (*Search, *BrowseOperation, error) {
	if query.Query == "" {
		return nil, nil, domain.NewValidationError("query", query.Query, "query is required")
	}

	var search *Search
	op := newBrowseOperation(s, domain.KindSearch, nil, nil)
	err := s.gate.Do(func() error {
		raw, err := op.begin(func(session domain.Handle, done ports.BrowseCallback) domain.Handle {
			return s.native.SearchCreate(session, query, done)
		})
		if err != nil {
			return err
		}
		h, err := handle.Acquire(s.gate, s.native, domain.KindSearch, raw)
		if err != nil {
			op.abandon()
			s.untrack(op)
			return err
		}
		search = &Search{query: query.Query}
		op.target = search
		op.harvest = search.harvest
		search.init(s, h, search, search, false)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return search, op, nil
}

func (sr *Search) load(hv *harvest, raw domain.Handle) {
	if commit := sr.harvest(hv, raw); hv.err == nil {
		commit()
	}
}

func (sr *Search) harvest(hv *harvest, raw domain.Handle) func() {
	res := sr.s.native.SearchResult(raw)

	sr.mu.RLock()
	curTracks, curAlbums, curArtists := sr.tracks, sr.albums, sr.artists
	sr.mu.RUnlock()

	tracks := children(hv, curTracks, domain.KindTrack, res.Tracks, newTrack)
	albums := children(hv, curAlbums, domain.KindAlbum, res.Albums, newAlbum)
	artists := children(hv, curArtists, domain.KindArtist, res.Artists, newArtist)

	return func() {
		before := sr.children()
		sr.commitLoaded(func() {
			if res.Query != "" {
				sr.query = res.Query
			}
			sr.didYouMean = res.DidYouMean
			sr.totalTracks = res.TotalTracks
			sr.totalAlbums = res.TotalAlbums
			sr.totalArtists = res.TotalArtists
			sr.totalPlaylists = res.TotalPlaylists
			sr.tracks = tracks
			sr.albums = albums
			sr.artists = artists
			sr.playlists = slices.Clone(res.Playlists)
		})
		closeStale(before, sr.children())
	}
}

// clear keeps the query; it identifies the search.
func (sr *Search) clear() {
	sr.commitCleared(func() {
		sr.didYouMean = ""
		sr.totalTracks = 0
		sr.totalAlbums = 0
		sr.totalArtists = 0
		sr.totalPlaylists = 0
		sr.tracks = nil
		sr.albums = nil
		sr.artists = nil
		sr.playlists = nil
	})
}

func (sr *Search) children() []Entity {
	sr.mu.RLock()
	defer sr.mu.RUnlock()
	out := entities(sr.tracks)
	out = append(out, entities(sr.albums)...)
	return append(out, entities(sr.artists)...)
}

// Query returns the search query.
func (sr *Search) Query() string {
	sr.mu.RLock()
	defer sr.mu.RUnlock()
	return sr.query
}

// DidYouMean returns the suggested spelling, if any.
func (sr *Search) DidYouMean() string {
	sr.mu.RLock()
	defer sr.mu.RUnlock()
	return sr.didYouMean
}

// TotalTracks returns the number of matching tracks, including those not returned.
func (sr *Search) TotalTracks() int {
	sr.mu.RLock()
	defer sr.mu.RUnlock()
	return sr.totalTracks
}

// TotalAlbums returns the number of matching albums.
func (sr *Search) TotalAlbums() int {
	sr.mu.RLock()
	defer sr.mu.RUnlock()
	return sr.totalAlbums
}

// TotalArtists returns the number of matching artists.
func (sr *Search) TotalArtists() int {
	sr.mu.RLock()
	defer sr.mu.RUnlock()
	return sr.totalArtists
}

// TotalPlaylists returns the number of matching playlists.
func (sr *Search) TotalPlaylists() int {
	sr.mu.RLock()
	defer sr.mu.RUnlock()
	return sr.totalPlaylists
}

// Tracks returns the returned page of matching tracks.
func (sr *Search) Tracks() []*Track {
	sr.mu.RLock()
	defer sr.mu.RUnlock()
	return slices.Clone(sr.tracks)
}

// Albums returns the returned page of matching albums.
func (sr *Search) Albums() []*Album {
	sr.mu.RLock()
	defer sr.mu.RUnlock()
	return slices.Clone(sr.albums)
}

// Artists returns the returned page of matching artists.
func (sr *Search) Artists() []*Artist {
	sr.mu.RLock()
	defer sr.mu.RUnlock()
	return slices.Clone(sr.artists)
}

// Playlists returns the matching playlists by name and uri. Open one with
// Session.Link and Link.AsPlaylist.
func (sr *Search) Playlists() []domain.PlaylistRef {
	sr.mu.RLock()
	defer sr.mu.RUnlock()
	return slices.Clone(sr.playlists)
}

// Link creates a link to the search.
func (sr *Search) Link() (*Link, error) {
	return sr.s.linkFrom(&sr.entity, domain.LinkOptions{})
}
