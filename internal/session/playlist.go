package session

import (
	"slices"

	"github.com/tejashwikalptaru/gospot/internal/domain"
	"github.com/tejashwikalptaru/gospot/internal/handle"
)

// Playlist is a playlist opened from a link. Its owner and tracks are owned by
// the playlist.
type Playlist struct {
	entity

	name          string
	owner         *User
	description   string
	collaborative bool
	tracks        []*Track
}

func newPlaylist(s *Session, h *handle.Strong) *Playlist {
	p := &Playlist{}
	p.init(s, h, p, p, true)
	return p
}

func (p *Playlist) load(hv *harvest, raw domain.Handle) {
	info := p.s.native.PlaylistInfo(raw)

	p.mu.RLock()
	curOwner, curTracks := p.owner, p.tracks
	p.mu.RUnlock()

	owner := child(hv, curOwner, domain.KindUser, info.Owner, newUser)
	tracks := children(hv, curTracks, domain.KindTrack, info.Tracks, newTrack)
	if hv.err != nil {
		return
	}

	p.commitLoaded(func() {
		p.name = info.Name
		p.owner = owner
		p.description = info.Description
		p.collaborative = info.Collaborative
		p.tracks = tracks
	})
}

func (p *Playlist) clear() {
	p.commitCleared(func() {
		p.name = ""
		p.owner = nil
		p.description = ""
		p.collaborative = false
		p.tracks = nil
	})
}

func (p *Playlist) children() []Entity {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append(optional(p.owner), entities(p.tracks)...)
}

// Name returns the playlist name.
func (p *Playlist) Name() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.name
}

// Owner returns the user owning the playlist, or nil.
func (p *Playlist) Owner() *User {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.owner
}

// Description returns the playlist description.
func (p *Playlist) Description() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.description
}

// IsCollaborative reports whether other users may edit the playlist.
func (p *Playlist) IsCollaborative() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.collaborative
}

// Tracks returns the playlist tracks in order.
func (p *Playlist) Tracks() []*Track {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.tracks)
}

// Link creates a link to the playlist.
func (p *Playlist) Link() (*Link, error) {
	return p.s.linkFrom(&p.entity, domain.LinkOptions{})
}
