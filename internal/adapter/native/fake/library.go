// Package fake provides an in-memory implementation of the Native interface.
// It is used for testing the session layer without requiring libspotify, and for
// running the daemon in demo mode.
//
// The fake keeps per-handle add-ref and release counters so tests can check the
// ownership discipline, queues session callbacks until ProcessEvents, and never
// holds its own mutex while a callback runs.
package fake

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/tejashwikalptaru/gospot/internal/domain"
	"github.com/tejashwikalptaru/gospot/internal/ports"
)

// APIVersion is the version the fake reports unless overridden.
const APIVersion = 12

// DefaultTimeout is the next-call timeout ProcessEvents returns by default.
const DefaultTimeout = time.Second

// Library is a fake native library.
//
// Thread-safety: This implementation is thread-safe.
type Library struct {
	logger *slog.Logger

	mu sync.Mutex

	objects map[domain.Handle]*object
	next    domain.Handle

	// Ownership accounting
	created  map[domain.Handle]int // owned references handed out by create calls
	addRefs  map[domain.Handle]int
	releases map[domain.Handle]int

	// Session state
	session    domain.Handle
	callbacks  ports.SessionCallbacks
	pending    []func()
	connection domain.ConnectionState
	user       domain.Handle
	remembered domain.StoredCredentials
	private    bool
	bitrate    domain.Bitrate
	timeout    time.Duration
	syncStatus *domain.OfflineSyncStatus
	apiVersion int
	loginCalls int

	// Player state
	loadedTrack domain.Handle
	playing     bool
	position    time.Duration
	prefetched  domain.Handle

	// Staged browse outcomes keyed by target handle or query
	stagedBrowse map[stageKey]stagedOutcome
	browses      []domain.Handle
	links        map[string]domain.Handle

	// Behavior configuration (for testing error scenarios)
	failures    map[string]domain.Result
	loginResult domain.Result
}

type object struct {
	kind   domain.EntityKind
	refs   int
	loaded bool
	info   any
	browse *browseState
	link   *linkState
}

type browseState struct {
	done      ports.BrowseCallback
	completed bool
	err       domain.Result
	result    any
}

type linkState struct {
	typ    domain.LinkType
	uri    string
	target domain.Handle
	offset time.Duration
	image  domain.ImageID
}

type stageKey struct {
	kind   domain.EntityKind
	target domain.Handle
	query  string
}

type stagedOutcome struct {
	result any
	err    domain.Result
}

// New creates a new fake native library.
func New(logger *slog.Logger) *Library {
	if logger == nil {
		logger = slog.Default()
	}
	return &Library{
		logger:       logger.With(slog.String("component", "native.fake")),
		objects:      make(map[domain.Handle]*object),
		next:         0x1000,
		created:      make(map[domain.Handle]int),
		addRefs:      make(map[domain.Handle]int),
		releases:     make(map[domain.Handle]int),
		connection:   domain.ConnectionLoggedOut,
		timeout:      DefaultTimeout,
		apiVersion:   APIVersion,
		stagedBrowse: make(map[stageKey]stagedOutcome),
		links:        make(map[string]domain.Handle),
		failures:     make(map[string]domain.Result),
	}
}

// SetFail makes the named operation return r until cleared with ResultOk.
// Operation names are the snake_case method names, e.g. "session_create",
// "login", "process_events", "add_ref", "player_load".
func (l *Library) SetFail(op string, r domain.Result) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if r == domain.ResultOk {
		delete(l.failures, op)
		return
	}
	l.failures[op] = r
}

// SetLoginResult sets the result delivered with the logged-in callback.
func (l *Library) SetLoginResult(r domain.Result) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loginResult = r
}

// SetAPIVersion overrides the reported API version.
func (l *Library) SetAPIVersion(v int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.apiVersion = v
}

// SetProcessTimeout sets the timeout ProcessEvents returns.
func (l *Library) SetProcessTimeout(d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.timeout = d
}

// SetOfflineSyncStatus sets the status returned by OfflineSyncStatus; nil means not syncing.
func (l *Library) SetOfflineSyncStatus(status *domain.OfflineSyncStatus) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.syncStatus = status
}

func (l *Library) failure(op string) domain.Result {
	return l.failures[op]
}

// alloc registers a new object. Caller holds mu.
func (l *Library) alloc(kind domain.EntityKind, info any, loaded bool) domain.Handle {
	l.next += 0x10
	h := l.next
	l.objects[h] = &object{kind: kind, refs: 1, loaded: loaded, info: info}
	return h
}

// handOut records an owned reference given to the caller. Caller holds mu.
func (l *Library) handOut(h domain.Handle) domain.Handle {
	if h != domain.InvalidHandle {
		l.created[h]++
	}
	return h
}

// enqueue schedules fn for the next ProcessEvents. Caller holds mu.
func (l *Library) enqueue(fn func(cb ports.SessionCallbacks, s domain.Handle)) {
	cb, s := l.callbacks, l.session
	if cb == nil {
		return
	}
	l.pending = append(l.pending, func() { fn(cb, s) })
}

// Library

// APIVersion returns the API version.
func (l *Library) APIVersion() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.apiVersion
}

// ErrorMessage returns the text for a result code.
func (l *Library) ErrorMessage(r domain.Result) string {
	return r.String()
}

// Session

// SessionCreate creates the fake session. Only one session may exist at a time.
func (l *Library) SessionCreate(cfg domain.SessionConfig, callbacks ports.SessionCallbacks) (domain.Handle, domain.Result) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if r := l.failure("session_create"); r != domain.ResultOk {
		return domain.InvalidHandle, r
	}
	if l.session != domain.InvalidHandle {
		return domain.InvalidHandle, domain.ResultAPIInitializationFailed
	}
	if err := cfg.Validate(); err != nil {
		return domain.InvalidHandle, domain.ResultBadApplicationKey
	}

	l.session = l.alloc(domain.KindSession, cfg, true)
	l.callbacks = callbacks
	l.connection = domain.ConnectionLoggedOut
	l.logger.Debug("session created", slog.String("user_agent", cfg.UserAgent))
	return l.session, domain.ResultOk
}

// SessionRelease destroys the fake session and drops undelivered callbacks.
func (l *Library) SessionRelease(s domain.Handle) domain.Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	if s == domain.InvalidHandle || s != l.session {
		return domain.ResultInvalidIndata
	}
	delete(l.objects, s)
	l.session = domain.InvalidHandle
	l.callbacks = nil
	l.pending = nil
	l.user = domain.InvalidHandle
	l.connection = domain.ConnectionLoggedOut
	return domain.ResultOk
}

// Login logs in asynchronously: the logged-in callback is delivered by ProcessEvents.
// A notify-main-thread callback is delivered synchronously from inside the call.
func (l *Library) Login(s domain.Handle, username, password string, rememberMe bool, blob string) domain.Result {
	l.mu.Lock()
	if s != l.session || s == domain.InvalidHandle {
		l.mu.Unlock()
		return domain.ResultInvalidIndata
	}
	if r := l.failure("login"); r != domain.ResultOk {
		l.mu.Unlock()
		return r
	}
	if username == "" || (password == "" && blob == "") {
		l.mu.Unlock()
		return domain.ResultInvalidIndata
	}

	l.loginCalls++
	l.loginLocked(username, rememberMe)
	cb := l.callbacks
	l.mu.Unlock()

	if cb != nil {
		cb.NotifyMainThread(s)
	}
	return domain.ResultOk
}

// loginLocked performs the state changes of a login and queues its callbacks. Caller holds mu.
func (l *Library) loginLocked(username string, rememberMe bool) {
	r := l.loginResult
	if r != domain.ResultOk {
		l.enqueue(func(cb ports.SessionCallbacks, s domain.Handle) { cb.LoggedIn(s, r) })
		return
	}

	l.connection = domain.ConnectionLoggedIn
	l.user = l.userLocked(username)
	blob := "blob-" + username
	if rememberMe {
		l.remembered = domain.StoredCredentials{Username: username, Blob: blob}
	}

	l.enqueue(func(cb ports.SessionCallbacks, s domain.Handle) { cb.ConnectionStateUpdated(s) })
	l.enqueue(func(cb ports.SessionCallbacks, s domain.Handle) { cb.LoggedIn(s, domain.ResultOk) })
	l.enqueue(func(cb ports.SessionCallbacks, s domain.Handle) { cb.CredentialsBlobUpdated(s, blob) })
}

// userLocked returns the user object for username, creating it loaded. Caller holds mu.
func (l *Library) userLocked(username string) domain.Handle {
	for h, obj := range l.objects {
		if obj.kind == domain.KindUser {
			if info, ok := obj.info.(domain.UserInfo); ok && info.CanonicalName == username {
				return h
			}
		}
	}
	return l.alloc(domain.KindUser, domain.UserInfo{CanonicalName: username, DisplayName: username}, true)
}

// Relogin logs in with the remembered user.
func (l *Library) Relogin(s domain.Handle) domain.Result {
	l.mu.Lock()
	if s != l.session || s == domain.InvalidHandle {
		l.mu.Unlock()
		return domain.ResultInvalidIndata
	}
	if l.remembered.IsEmpty() {
		l.mu.Unlock()
		return domain.ResultNoCredentials
	}
	l.loginCalls++
	l.loginLocked(l.remembered.Username, true)
	cb := l.callbacks
	l.mu.Unlock()

	if cb != nil {
		cb.NotifyMainThread(s)
	}
	return domain.ResultOk
}

// RememberedUser returns the user stored by a remember-me login.
func (l *Library) RememberedUser(s domain.Handle) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if s != l.session || l.remembered.IsEmpty() {
		return "", false
	}
	return l.remembered.Username, true
}

// Logout logs out asynchronously.
func (l *Library) Logout(s domain.Handle) domain.Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	if s != l.session || s == domain.InvalidHandle {
		return domain.ResultInvalidIndata
	}
	if r := l.failure("logout"); r != domain.ResultOk {
		return r
	}
	l.connection = domain.ConnectionLoggedOut
	l.user = domain.InvalidHandle
	l.enqueue(func(cb ports.SessionCallbacks, s domain.Handle) { cb.ConnectionStateUpdated(s) })
	l.enqueue(func(cb ports.SessionCallbacks, s domain.Handle) { cb.LoggedOut(s) })
	return domain.ResultOk
}

// ForgetMe removes the remembered user.
func (l *Library) ForgetMe(s domain.Handle) domain.Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	if s != l.session || s == domain.InvalidHandle {
		return domain.ResultInvalidIndata
	}
	l.remembered = domain.StoredCredentials{}
	return domain.ResultOk
}

// FlushCaches is a no-op apart from failure injection.
func (l *Library) FlushCaches(s domain.Handle) domain.Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	if s != l.session || s == domain.InvalidHandle {
		return domain.ResultInvalidIndata
	}
	return l.failure("flush_caches")
}

// ProcessEvents delivers every queued callback on the calling goroutine.
// Callbacks queued by the delivered callbacks wait for the next call.
func (l *Library) ProcessEvents(s domain.Handle) (time.Duration, domain.Result) {
	l.mu.Lock()
	if s != l.session || s == domain.InvalidHandle {
		l.mu.Unlock()
		return 0, domain.ResultInvalidIndata
	}
	if r := l.failure("process_events"); r != domain.ResultOk {
		l.mu.Unlock()
		return 0, r
	}
	pending := l.pending
	l.pending = nil
	timeout := l.timeout
	l.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
	return timeout, domain.ResultOk
}

// ConnectionState returns the connection state.
func (l *Library) ConnectionState(s domain.Handle) domain.ConnectionState {
	l.mu.Lock()
	defer l.mu.Unlock()
	if s != l.session || s == domain.InvalidHandle {
		return domain.ConnectionUndefined
	}
	return l.connection
}

// SessionUser returns the logged in user, borrowed.
func (l *Library) SessionUser(s domain.Handle) domain.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	if s != l.session {
		return domain.InvalidHandle
	}
	return l.user
}

// OfflineSyncStatus returns the configured sync status.
func (l *Library) OfflineSyncStatus(s domain.Handle) (domain.OfflineSyncStatus, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if s != l.session || l.syncStatus == nil {
		return domain.OfflineSyncStatus{}, false
	}
	return *l.syncStatus, true
}

// SetPreferredBitrate records the bitrate.
func (l *Library) SetPreferredBitrate(s domain.Handle, bitrate domain.Bitrate) domain.Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	if s != l.session || s == domain.InvalidHandle {
		return domain.ResultInvalidIndata
	}
	if bitrate < domain.Bitrate160k || bitrate > domain.Bitrate96k {
		return domain.ResultInvalidArgument
	}
	l.bitrate = bitrate
	return domain.ResultOk
}

// SetPrivateSession switches private mode and queues the mode-changed callback.
func (l *Library) SetPrivateSession(s domain.Handle, enabled bool) domain.Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	if s != l.session || s == domain.InvalidHandle {
		return domain.ResultInvalidIndata
	}
	l.private = enabled
	l.enqueue(func(cb ports.SessionCallbacks, s domain.Handle) { cb.PrivateSessionModeChanged(s, enabled) })
	return domain.ResultOk
}

// IsPrivateSession reports the private mode.
func (l *Library) IsPrivateSession(s domain.Handle) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return s == l.session && l.private
}

// Reference counting

// AddRef adds a reference to a live object.
func (l *Library) AddRef(kind domain.EntityKind, h domain.Handle) domain.Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	if r := l.failure("add_ref"); r != domain.ResultOk {
		return r
	}
	obj, ok := l.objects[h]
	if !ok || obj.kind != kind || obj.refs <= 0 {
		return domain.ResultInvalidIndata
	}
	obj.refs++
	l.addRefs[h]++
	return domain.ResultOk
}

// Release drops a reference.
func (l *Library) Release(kind domain.EntityKind, h domain.Handle) domain.Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	obj, ok := l.objects[h]
	if !ok || obj.kind != kind || obj.refs <= 0 {
		l.logger.Warn("release of dead object", slog.String("kind", kind.String()), slog.Any("handle", h))
		return domain.ResultInvalidIndata
	}
	obj.refs--
	l.releases[h]++
	return domain.ResultOk
}

// IsLoaded reports whether the object's metadata is available.
func (l *Library) IsLoaded(kind domain.EntityKind, h domain.Handle) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	obj, ok := l.objects[h]
	if !ok || obj.kind != kind {
		return false
	}
	if obj.browse != nil {
		return obj.browse.completed
	}
	return obj.loaded
}

func infoOf[T any](l *Library, h domain.Handle) T {
	l.mu.Lock()
	defer l.mu.Unlock()

	var zero T
	obj, ok := l.objects[h]
	if !ok || !obj.loaded {
		return zero
	}
	info, _ := obj.info.(T)
	return info
}

// TrackInfo returns the staged track snapshot.
func (l *Library) TrackInfo(h domain.Handle) domain.TrackInfo { return infoOf[domain.TrackInfo](l, h) }

// AlbumInfo returns the staged album snapshot.
func (l *Library) AlbumInfo(h domain.Handle) domain.AlbumInfo { return infoOf[domain.AlbumInfo](l, h) }

// ArtistInfo returns the staged artist snapshot.
func (l *Library) ArtistInfo(h domain.Handle) domain.ArtistInfo {
	return infoOf[domain.ArtistInfo](l, h)
}

// UserInfo returns the staged user snapshot.
func (l *Library) UserInfo(h domain.Handle) domain.UserInfo { return infoOf[domain.UserInfo](l, h) }

// PlaylistInfo returns the staged playlist snapshot.
func (l *Library) PlaylistInfo(h domain.Handle) domain.PlaylistInfo {
	return infoOf[domain.PlaylistInfo](l, h)
}

// ImageInfo returns the staged image snapshot.
func (l *Library) ImageInfo(h domain.Handle) domain.ImageInfo { return infoOf[domain.ImageInfo](l, h) }

// Object creation

// LocalTrackCreate creates a loaded local track together with its artist and album.
func (l *Library) LocalTrackCreate(artist, title, album string, length time.Duration) domain.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()

	if title == "" {
		return domain.InvalidHandle
	}
	artistH := l.alloc(domain.KindArtist, domain.ArtistInfo{Name: artist}, true)
	albumH := l.alloc(domain.KindAlbum, domain.AlbumInfo{Name: album, Artist: artistH, Available: true, Type: domain.AlbumTypeUnknown}, true)
	h := l.alloc(domain.KindTrack, domain.TrackInfo{
		Name:         title,
		Album:        albumH,
		Artists:      []domain.Handle{artistH},
		DurationMs:   int(length / time.Millisecond),
		IsLocal:      true,
		Availability: domain.TrackAvailable,
	}, true)
	return l.handOut(h)
}

// ImageCreate returns an owned reference to the image with the given id.
func (l *Library) ImageCreate(s domain.Handle, id domain.ImageID) domain.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()

	if s != l.session || id.IsZero() {
		return domain.InvalidHandle
	}
	return l.handOut(l.imageLocked(id))
}

// imageLocked finds or creates the image object for id with one extra reference. Caller holds mu.
func (l *Library) imageLocked(id domain.ImageID) domain.Handle {
	for h, obj := range l.objects {
		if obj.kind == domain.KindImage && obj.refs > 0 {
			if info, ok := obj.info.(domain.ImageInfo); ok && info.ID == id {
				obj.refs++
				return h
			}
		}
	}
	h := l.alloc(domain.KindImage, domain.ImageInfo{ID: id, Format: domain.ImageFormatUnknown}, false)
	l.objects[h].refs++
	return h
}

// ImageCreateFromLink returns an owned image for an image link.
func (l *Library) ImageCreateFromLink(s, link domain.Handle) domain.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()

	ls := l.linkLocked(link)
	if s != l.session || ls == nil || ls.typ != domain.LinkImage {
		return domain.InvalidHandle
	}
	return l.handOut(l.imageLocked(ls.image))
}

// PlaylistCreate returns an owned playlist for a playlist link.
func (l *Library) PlaylistCreate(s, link domain.Handle) domain.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()

	ls := l.linkLocked(link)
	if s != l.session || ls == nil || ls.typ != domain.LinkPlaylist {
		return domain.InvalidHandle
	}
	obj, ok := l.objects[ls.target]
	if !ok || obj.refs <= 0 {
		return domain.InvalidHandle
	}
	obj.refs++
	return l.handOut(ls.target)
}

// Asynchronous browsing

func (l *Library) browseCreate(op string, kind domain.EntityKind, key stageKey, done ports.BrowseCallback) domain.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.session == domain.InvalidHandle || done == nil {
		return domain.InvalidHandle
	}
	if r := l.failure(op); r != domain.ResultOk {
		return domain.InvalidHandle
	}

	h := l.alloc(kind, nil, false)
	l.objects[h].browse = &browseState{done: done, err: domain.ResultIsLoading}
	l.browses = append(l.browses, h)
	if staged, ok := l.stagedBrowse[key]; ok {
		l.completeLocked(h, staged.result, staged.err)
	}
	return l.handOut(h)
}

// AlbumBrowseCreate starts an album browse.
func (l *Library) AlbumBrowseCreate(s, album domain.Handle, done ports.BrowseCallback) domain.Handle {
	if s != l.sessionHandle() {
		return domain.InvalidHandle
	}
	return l.browseCreate("album_browse_create", domain.KindAlbumBrowse,
		stageKey{kind: domain.KindAlbumBrowse, target: album}, done)
}

// ArtistBrowseCreate starts an artist browse.
func (l *Library) ArtistBrowseCreate(s, artist domain.Handle, _ domain.ArtistBrowseType, done ports.BrowseCallback) domain.Handle {
	if s != l.sessionHandle() {
		return domain.InvalidHandle
	}
	return l.browseCreate("artist_browse_create", domain.KindArtistBrowse,
		stageKey{kind: domain.KindArtistBrowse, target: artist}, done)
}

// SearchCreate starts a search.
func (l *Library) SearchCreate(s domain.Handle, query domain.SearchQuery, done ports.BrowseCallback) domain.Handle {
	if s != l.sessionHandle() {
		return domain.InvalidHandle
	}
	return l.browseCreate("search_create", domain.KindSearch,
		stageKey{kind: domain.KindSearch, query: query.Query}, done)
}

func (l *Library) sessionHandle() domain.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.session
}

// completeLocked queues the completion of a browse. Caller holds mu.
func (l *Library) completeLocked(h domain.Handle, result any, err domain.Result) {
	obj := l.objects[h]
	done := obj.browse.done
	l.pending = append(l.pending, func() {
		l.mu.Lock()
		obj.browse.completed = true
		obj.browse.err = err
		obj.browse.result = result
		l.mu.Unlock()
		done(h)
	})
}

// BrowseError returns the outcome of a finished browse.
func (l *Library) BrowseError(kind domain.EntityKind, h domain.Handle) domain.Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	obj, ok := l.objects[h]
	if !ok || obj.kind != kind || obj.browse == nil {
		return domain.ResultInvalidIndata
	}
	if !obj.browse.completed {
		return domain.ResultIsLoading
	}
	return obj.browse.err
}

func browseResultOf[T any](l *Library, h domain.Handle) T {
	l.mu.Lock()
	defer l.mu.Unlock()

	var zero T
	obj, ok := l.objects[h]
	if !ok || obj.browse == nil || !obj.browse.completed {
		return zero
	}
	result, _ := obj.browse.result.(T)
	return result
}

// AlbumBrowseResult returns the payload of a finished album browse.
func (l *Library) AlbumBrowseResult(h domain.Handle) domain.AlbumBrowseResult {
	return browseResultOf[domain.AlbumBrowseResult](l, h)
}

// ArtistBrowseResult returns the payload of a finished artist browse.
func (l *Library) ArtistBrowseResult(h domain.Handle) domain.ArtistBrowseResult {
	return browseResultOf[domain.ArtistBrowseResult](l, h)
}

// SearchResult returns the payload of a finished search.
func (l *Library) SearchResult(h domain.Handle) domain.SearchResult {
	return browseResultOf[domain.SearchResult](l, h)
}

// Links

// LinkCreateFromString parses a registered uri into an owned link.
func (l *Library) LinkCreateFromString(uri string) domain.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()

	target, ok := l.links[uri]
	if !ok {
		return domain.InvalidHandle
	}
	ls := l.objects[target].link
	return l.handOut(l.newLinkLocked(*ls))
}

// LinkCreateFrom creates an owned link to an entity.
func (l *Library) LinkCreateFrom(kind domain.EntityKind, h domain.Handle, opts domain.LinkOptions) domain.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()

	obj, ok := l.objects[h]
	if !ok || obj.kind != kind || obj.refs <= 0 {
		return domain.InvalidHandle
	}

	if opts.Image || kind == domain.KindImage {
		var id domain.ImageID
		switch info := obj.info.(type) {
		case domain.AlbumInfo:
			id = info.Cover
		case domain.ArtistInfo:
			id = info.Portrait
		case domain.ImageInfo:
			id = info.ID
		}
		if id.IsZero() {
			return domain.InvalidHandle
		}
		return l.handOut(l.newLinkLocked(linkState{
			typ:   domain.LinkImage,
			uri:   "spotify:image:" + id.String(),
			image: id,
		}))
	}

	typ := linkTypeOf(kind)
	if typ == domain.LinkInvalid {
		return domain.InvalidHandle
	}
	uri := fmt.Sprintf("spotify:%s:%x", strings.ToLower(kind.String()), uintptr(h))
	if opts.Offset > 0 {
		uri = fmt.Sprintf("%s#%d:%02d", uri, int(opts.Offset.Minutes()), int(opts.Offset.Seconds())%60)
	}
	return l.handOut(l.newLinkLocked(linkState{typ: typ, uri: uri, target: h, offset: opts.Offset}))
}

func linkTypeOf(kind domain.EntityKind) domain.LinkType {
	switch kind {
	case domain.KindTrack:
		return domain.LinkTrack
	case domain.KindAlbum:
		return domain.LinkAlbum
	case domain.KindArtist:
		return domain.LinkArtist
	case domain.KindUser:
		return domain.LinkProfile
	case domain.KindPlaylist:
		return domain.LinkPlaylist
	case domain.KindSearch:
		return domain.LinkSearch
	default:
		return domain.LinkInvalid
	}
}

// newLinkLocked allocates a link object and registers its uri. Caller holds mu.
func (l *Library) newLinkLocked(ls linkState) domain.Handle {
	h := l.alloc(domain.KindLink, nil, true)
	l.objects[h].link = &ls
	if _, ok := l.links[ls.uri]; !ok {
		l.links[ls.uri] = h
		// the registry keeps the link alive
		l.objects[h].refs++
	}
	return h
}

// linkLocked returns the link state of a live link. Caller holds mu.
func (l *Library) linkLocked(link domain.Handle) *linkState {
	obj, ok := l.objects[link]
	if !ok || obj.kind != domain.KindLink || obj.refs <= 0 {
		return nil
	}
	return obj.link
}

// LinkType returns the type of a link.
func (l *Library) LinkType(link domain.Handle) domain.LinkType {
	l.mu.Lock()
	defer l.mu.Unlock()
	if ls := l.linkLocked(link); ls != nil {
		return ls.typ
	}
	return domain.LinkInvalid
}

// LinkString returns the uri of a link.
func (l *Library) LinkString(link domain.Handle) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if ls := l.linkLocked(link); ls != nil {
		return ls.uri
	}
	return ""
}

func (l *Library) linkTarget(link domain.Handle, typ domain.LinkType) (domain.Handle, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ls := l.linkLocked(link)
	if ls == nil || ls.typ != typ {
		return domain.InvalidHandle, 0
	}
	return ls.target, ls.offset
}

// LinkAsTrack resolves a track link, borrowed.
func (l *Library) LinkAsTrack(link domain.Handle) (domain.Handle, time.Duration) {
	return l.linkTarget(link, domain.LinkTrack)
}

// LinkAsAlbum resolves an album link, borrowed.
func (l *Library) LinkAsAlbum(link domain.Handle) domain.Handle {
	h, _ := l.linkTarget(link, domain.LinkAlbum)
	return h
}

// LinkAsArtist resolves an artist link, borrowed.
func (l *Library) LinkAsArtist(link domain.Handle) domain.Handle {
	h, _ := l.linkTarget(link, domain.LinkArtist)
	return h
}

// LinkAsUser resolves a profile link, borrowed.
func (l *Library) LinkAsUser(link domain.Handle) domain.Handle {
	h, _ := l.linkTarget(link, domain.LinkProfile)
	return h
}

// Verify that Library implements the Native interface
var _ ports.Native = (*Library)(nil)
