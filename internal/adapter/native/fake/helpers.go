package fake

import (
	"slices"
	"time"

	"github.com/tejashwikalptaru/gospot/internal/domain"
	"github.com/tejashwikalptaru/gospot/internal/ports"
)

// The methods in this file drive the fake from tests. None of them are part of
// the Native interface.

// NewObject registers an object owned by the library itself, like the children
// of a loaded object are in the real library. info must be the snapshot type
// matching kind (domain.TrackInfo for KindTrack, ...), or nil.
func (l *Library) NewObject(kind domain.EntityKind, info any, loaded bool) domain.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.alloc(kind, info, loaded)
}

// SetInfo replaces the snapshot of an object.
func (l *Library) SetInfo(h domain.Handle, info any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if obj, ok := l.objects[h]; ok {
		obj.info = info
	}
}

// SetLoaded changes the loaded flag of an object without notifying anyone.
func (l *Library) SetLoaded(h domain.Handle, loaded bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if obj, ok := l.objects[h]; ok {
		obj.loaded = loaded
	}
}

// MarkLoaded stores info, flags the object loaded and queues a metadata-updated callback.
func (l *Library) MarkLoaded(h domain.Handle, info any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if obj, ok := l.objects[h]; ok {
		obj.info = info
		obj.loaded = true
	}
	l.enqueue(func(cb ports.SessionCallbacks, s domain.Handle) { cb.MetadataUpdated(s) })
}

// FireMetadataUpdated queues a metadata-updated callback.
func (l *Library) FireMetadataUpdated() {
	l.Fire(func(cb ports.SessionCallbacks, s domain.Handle) { cb.MetadataUpdated(s) })
}

// Fire queues an arbitrary session callback for the next ProcessEvents.
func (l *Library) Fire(fn func(cb ports.SessionCallbacks, s domain.Handle)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enqueue(fn)
}

// Callbacks returns the callbacks registered by SessionCreate.
func (l *Library) Callbacks() ports.SessionCallbacks {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.callbacks
}

// Session returns the live session handle or InvalidHandle.
func (l *Library) Session() domain.Handle {
	return l.sessionHandle()
}

// PendingCallbacks returns the number of callbacks waiting for ProcessEvents.
func (l *Library) PendingCallbacks() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

// LoginCalls returns how many logins and relogins were accepted.
func (l *Library) LoginCalls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loginCalls
}

// Remember stores credentials as if a remember-me login had happened.
func (l *Library) Remember(username, blob string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.remembered = domain.StoredCredentials{Username: username, Blob: blob}
}

// SetConnectionState changes the connection state and queues the matching callback.
func (l *Library) SetConnectionState(state domain.ConnectionState) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.connection = state
	l.enqueue(func(cb ports.SessionCallbacks, s domain.Handle) { cb.ConnectionStateUpdated(s) })
}

// Bitrate returns the preferred bitrate last set.
func (l *Library) Bitrate() domain.Bitrate {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.bitrate
}

// StageAlbumBrowse makes every later browse of album complete with result and err.
func (l *Library) StageAlbumBrowse(album domain.Handle, result domain.AlbumBrowseResult, err domain.Result) {
	l.stage(stageKey{kind: domain.KindAlbumBrowse, target: album}, result, err)
}

// StageArtistBrowse makes every later browse of artist complete with result and err.
func (l *Library) StageArtistBrowse(artist domain.Handle, result domain.ArtistBrowseResult, err domain.Result) {
	l.stage(stageKey{kind: domain.KindArtistBrowse, target: artist}, result, err)
}

// StageSearch makes every later search for query complete with result and err.
func (l *Library) StageSearch(query string, result domain.SearchResult, err domain.Result) {
	l.stage(stageKey{kind: domain.KindSearch, query: query}, result, err)
}

func (l *Library) stage(key stageKey, result any, err domain.Result) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stagedBrowse[key] = stagedOutcome{result: result, err: err}
}

// CompleteBrowse queues the completion of a browse created without a staged outcome.
func (l *Library) CompleteBrowse(h domain.Handle, result any, err domain.Result) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if obj, ok := l.objects[h]; ok && obj.browse != nil {
		l.completeLocked(h, result, err)
	}
}

// Browses returns the handles of every browse and search created, oldest first.
func (l *Library) Browses() []domain.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.browses)
}

// RegisterLink makes uri resolvable by LinkCreateFromString.
func (l *Library) RegisterLink(uri string, typ domain.LinkType, target domain.Handle, offset time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.newLinkLocked(linkState{typ: typ, uri: uri, target: target, offset: offset})
}

// RegisterImageLink makes an image uri resolvable by LinkCreateFromString.
func (l *Library) RegisterImageLink(uri string, id domain.ImageID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.newLinkLocked(linkState{typ: domain.LinkImage, uri: uri, image: id})
}

// AddRefCount returns how many add-ref calls h received.
func (l *Library) AddRefCount(h domain.Handle) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.addRefs[h]
}

// ReleaseCount returns how many release calls h received.
func (l *Library) ReleaseCount(h domain.Handle) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.releases[h]
}

// CreatedCount returns how many owned references to h create calls handed out.
func (l *Library) CreatedCount(h domain.Handle) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.created[h]
}

// Outstanding returns the references to h the caller still owns.
func (l *Library) Outstanding(h domain.Handle) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.created[h] + l.addRefs[h] - l.releases[h]
}

// Leaked returns every handle the caller still owns references to.
func (l *Library) Leaked() []domain.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()

	var leaked []domain.Handle
	seen := make(map[domain.Handle]bool)
	for _, m := range []map[domain.Handle]int{l.created, l.addRefs, l.releases} {
		for h := range m {
			if seen[h] {
				continue
			}
			seen[h] = true
			if l.created[h]+l.addRefs[h]-l.releases[h] != 0 {
				leaked = append(leaked, h)
			}
		}
	}
	slices.Sort(leaked)
	return leaked
}

// Refs returns the current native reference count of h, 0 for unknown handles.
func (l *Library) Refs(h domain.Handle) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if obj, ok := l.objects[h]; ok {
		return obj.refs
	}
	return 0
}
