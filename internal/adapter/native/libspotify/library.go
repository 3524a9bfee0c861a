//go:build libspotify && cgo

package libspotify

/*
#include "shim.h"
*/
import "C"
import (
	"log/slog"
	"sync"
	"time"
	"unsafe"

	pointer "github.com/mattn/go-pointer"

	"github.com/tejashwikalptaru/gospot/internal/domain"
	"github.com/tejashwikalptaru/gospot/internal/ports"
)

// Library implements ports.Native over libspotify.
//
// The library is not thread-safe; callers serialize every call (the session
// layer does so through its gate). mu only guards the fields read by the
// callback trampolines and is never held across a library call.
type Library struct {
	logger *slog.Logger

	mu        sync.RWMutex
	session   *C.sp_session
	callbacks ports.SessionCallbacks

	// token is the go-pointer userdata of the session and of image load callbacks
	token unsafe.Pointer

	// strings passed in sp_session_config, freed after release
	cstrings []*C.char

	// images counts the references per image that has a load callback installed
	images map[domain.Handle]int
}

// New returns the native library bindings.
func New(logger *slog.Logger) (ports.Native, error) {
	logger = logger.With(slog.String("component", "libspotify"))
	logger.Debug("native bindings loaded",
		slog.String("platform", platformName),
		slog.String("library", libraryName),
		slog.Int("api_version", APIVersion))

	return &Library{
		logger: logger,
		images: make(map[domain.Handle]int),
	}, nil
}

func handleOf[T any](p *T) domain.Handle {
	return domain.Handle(uintptr(unsafe.Pointer(p)))
}

func ptr[T any](h domain.Handle) *T {
	return (*T)(unsafe.Pointer(uintptr(h)))
}

func cbool(b bool) C.bool {
	return C.bool(b)
}

func imageID(p *C.byte) domain.ImageID {
	var id domain.ImageID
	if p != nil {
		copy(id[:], unsafe.Slice((*byte)(unsafe.Pointer(p)), len(id)))
	}
	return id
}

func (l *Library) sessionCallbacks() ports.SessionCallbacks {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.callbacks
}

func (l *Library) sessionHandle() domain.Handle {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return handleOf(l.session)
}

func (l *Library) cstring(s string) *C.char {
	if s == "" {
		return nil
	}
	cs := C.CString(s)
	l.cstrings = append(l.cstrings, cs)
	return cs
}

func (l *Library) freeStrings() {
	for _, cs := range l.cstrings {
		C.free(unsafe.Pointer(cs))
	}
	l.cstrings = nil
}

// Library

// APIVersion returns the version compiled in from api.h.
func (l *Library) APIVersion() int {
	return int(C.SPOTIFY_API_VERSION)
}

// ErrorMessage returns the library's text for r.
func (l *Library) ErrorMessage(r domain.Result) string {
	return C.GoString(C.sp_error_message(C.sp_error(r)))
}

// Session

// SessionCreate creates the session. The config strings stay allocated until SessionRelease.
func (l *Library) SessionCreate(cfg domain.SessionConfig, callbacks ports.SessionCallbacks) (domain.Handle, domain.Result) {
	if len(cfg.ApplicationKey) == 0 {
		return domain.InvalidHandle, domain.ResultBadApplicationKey
	}

	key := C.CBytes(cfg.ApplicationKey)
	defer C.free(key)

	l.mu.Lock()
	l.callbacks = callbacks
	l.token = pointer.Save(l)
	token := l.token
	l.mu.Unlock()

	var c C.sp_session_config
	c.api_version = C.SPOTIFY_API_VERSION
	c.cache_location = l.cstring(cfg.CacheLocation)
	c.settings_location = l.cstring(cfg.SettingsLocation)
	c.application_key = key
	c.application_key_size = C.size_t(len(cfg.ApplicationKey))
	c.user_agent = l.cstring(cfg.UserAgent)
	c.callbacks = &C.gospot_session_callbacks
	c.userdata = token
	c.compress_playlists = cbool(cfg.CompressPlaylists)
	c.dont_save_metadata_for_playlists = cbool(cfg.DontSaveMetadataForPlaylists)
	c.initially_unload_playlists = cbool(cfg.InitiallyUnloadPlaylists)
	c.device_id = l.cstring(cfg.DeviceID)
	c.proxy = l.cstring(cfg.Proxy.URL)
	c.proxy_username = l.cstring(cfg.Proxy.Username)
	c.proxy_password = l.cstring(cfg.Proxy.Password)
	c.tracefile = l.cstring(cfg.TraceFile)

	var s *C.sp_session
	if r := domain.Result(C.sp_session_create(&c, &s)); r != domain.ResultOk {
		l.reset()
		return domain.InvalidHandle, r
	}

	if cfg.CacheSize > 0 {
		C.sp_session_set_cache_size(s, C.size_t(cfg.CacheSize))
	}

	l.mu.Lock()
	l.session = s
	l.mu.Unlock()
	return handleOf(s), domain.ResultOk
}

// SessionRelease releases the session and the memory handed to it.
func (l *Library) SessionRelease(s domain.Handle) domain.Result {
	r := domain.Result(C.sp_session_release(ptr[C.sp_session](s)))
	l.reset()
	return r
}

func (l *Library) reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.session = nil
	l.callbacks = nil
	if l.token != nil {
		pointer.Unref(l.token)
		l.token = nil
	}
	l.freeStrings()
	clear(l.images)
}

// Login starts a login. blob is used instead of password when not empty.
func (l *Library) Login(s domain.Handle, username, password string, rememberMe bool, blob string) domain.Result {
	cuser := C.CString(username)
	defer C.free(unsafe.Pointer(cuser))

	var cpass, cblob *C.char
	if blob != "" {
		cblob = C.CString(blob)
		defer C.free(unsafe.Pointer(cblob))
	} else {
		cpass = C.CString(password)
		defer C.free(unsafe.Pointer(cpass))
	}
	return domain.Result(C.sp_session_login(ptr[C.sp_session](s), cuser, cpass, cbool(rememberMe), cblob))
}

// Relogin logs in with the remembered user.
func (l *Library) Relogin(s domain.Handle) domain.Result {
	return domain.Result(C.sp_session_relogin(ptr[C.sp_session](s)))
}

// RememberedUser returns the name stored for Relogin.
func (l *Library) RememberedUser(s domain.Handle) (string, bool) {
	buf := make([]byte, 256)
	n := int(C.sp_session_remembered_user(ptr[C.sp_session](s), (*C.char)(unsafe.Pointer(&buf[0])), C.size_t(len(buf))))
	if n < 0 {
		return "", false
	}
	if n >= len(buf) {
		buf = make([]byte, n+1)
		n = int(C.sp_session_remembered_user(ptr[C.sp_session](s), (*C.char)(unsafe.Pointer(&buf[0])), C.size_t(len(buf))))
	}
	return string(buf[:n]), true
}

func (l *Library) Logout(s domain.Handle) domain.Result {
	return domain.Result(C.sp_session_logout(ptr[C.sp_session](s)))
}

func (l *Library) ForgetMe(s domain.Handle) domain.Result {
	return domain.Result(C.sp_session_forget_me(ptr[C.sp_session](s)))
}

func (l *Library) FlushCaches(s domain.Handle) domain.Result {
	return domain.Result(C.sp_session_flush_caches(ptr[C.sp_session](s)))
}

// ProcessEvents runs the library; callbacks fire synchronously from inside.
func (l *Library) ProcessEvents(s domain.Handle) (time.Duration, domain.Result) {
	var next C.int
	r := domain.Result(C.sp_session_process_events(ptr[C.sp_session](s), &next))
	return time.Duration(next) * time.Millisecond, r
}

func (l *Library) ConnectionState(s domain.Handle) domain.ConnectionState {
	return domain.ConnectionState(C.sp_session_connectionstate(ptr[C.sp_session](s)))
}

// SessionUser returns the logged in user, borrowed.
func (l *Library) SessionUser(s domain.Handle) domain.Handle {
	return handleOf(C.sp_session_user(ptr[C.sp_session](s)))
}

func (l *Library) OfflineSyncStatus(s domain.Handle) (domain.OfflineSyncStatus, bool) {
	var st C.sp_offline_sync_status
	syncing := bool(C.sp_offline_sync_get_status(ptr[C.sp_session](s), &st))
	return domain.OfflineSyncStatus{
		QueuedTracks:      int(st.queued_tracks),
		QueuedBytes:       uint64(st.queued_bytes),
		DoneTracks:        int(st.done_tracks),
		DoneBytes:         uint64(st.done_bytes),
		CopiedTracks:      int(st.copied_tracks),
		CopiedBytes:       uint64(st.copied_bytes),
		WillNotCopyTracks: int(st.willnotcopy_tracks),
		ErrorTracks:       int(st.error_tracks),
		Syncing:           bool(st.syncing),
	}, syncing
}

func (l *Library) SetPreferredBitrate(s domain.Handle, bitrate domain.Bitrate) domain.Result {
	return domain.Result(C.sp_session_preferred_bitrate(ptr[C.sp_session](s), C.sp_bitrate(bitrate)))
}

func (l *Library) SetPrivateSession(s domain.Handle, enabled bool) domain.Result {
	return domain.Result(C.sp_session_set_private_session(ptr[C.sp_session](s), cbool(enabled)))
}

func (l *Library) IsPrivateSession(s domain.Handle) bool {
	return bool(C.sp_session_is_private_session(ptr[C.sp_session](s)))
}

// Player

func (l *Library) PlayerLoad(s, track domain.Handle) domain.Result {
	return domain.Result(C.sp_session_player_load(ptr[C.sp_session](s), ptr[C.sp_track](track)))
}

func (l *Library) PlayerPlay(s domain.Handle, play bool) domain.Result {
	return domain.Result(C.sp_session_player_play(ptr[C.sp_session](s), cbool(play)))
}

func (l *Library) PlayerSeek(s domain.Handle, offset time.Duration) domain.Result {
	return domain.Result(C.sp_session_player_seek(ptr[C.sp_session](s), C.int(offset.Milliseconds())))
}

func (l *Library) PlayerUnload(s domain.Handle) domain.Result {
	return domain.Result(C.sp_session_player_unload(ptr[C.sp_session](s)))
}

func (l *Library) PlayerPrefetch(s, track domain.Handle) domain.Result {
	return domain.Result(C.sp_session_player_prefetch(ptr[C.sp_session](s), ptr[C.sp_track](track)))
}
