package fake

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/gospot/internal/domain"
	"github.com/tejashwikalptaru/gospot/internal/logger"
	"github.com/tejashwikalptaru/gospot/internal/ports"
)

var _ ports.SessionCallbacks = (*recorder)(nil)

// recorder records the names of the callbacks it receives.
type recorder struct {
	mu    sync.Mutex
	calls []string
	blob  string
}

func (r *recorder) record(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, name)
}

func (r *recorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *recorder) LoggedIn(domain.Handle, domain.Result) { r.record("logged_in") }
func (r *recorder) LoggedOut(domain.Handle) { r.record("logged_out") }
func (r *recorder) MetadataUpdated(domain.Handle) { r.record("metadata_updated") }
func (r *recorder) ConnectionError(domain.Handle, domain.Result) { r.record("connection_error") }
func (r *recorder) MessageToUser(domain.Handle, string) { r.record("message_to_user") }
func (r *recorder) NotifyMainThread(domain.Handle) { r.record("notify_main_thread") }
func (r *recorder) MusicDelivery(_ domain.Handle, _ domain.AudioFormat, _ []byte, n int) int {
	r.record("music_delivery")
	return n
}
func (r *recorder) PlayTokenLost(domain.Handle) { r.record("play_token_lost") }
func (r *recorder) LogMessage(domain.Handle, string) { r.record("log_message") }
func (r *recorder) EndOfTrack(domain.Handle) { r.record("end_of_track") }
func (r *recorder) StreamingError(domain.Handle, domain.Result) { r.record("streaming_error") }
func (r *recorder) UserInfoUpdated(domain.Handle) { r.record("userinfo_updated") }
func (r *recorder) StartPlayback(domain.Handle) { r.record("start_playback") }
func (r *recorder) StopPlayback(domain.Handle) { r.record("stop_playback") }
func (r *recorder) GetAudioBufferStats(domain.Handle) domain.AudioBufferStats {
	r.record("get_audio_buffer_stats")
	return domain.AudioBufferStats{}
}
func (r *recorder) OfflineStatusUpdated(domain.Handle) { r.record("offline_status_updated") }
func (r *recorder) OfflineError(domain.Handle, domain.Result) { r.record("offline_error") }
func (r *recorder) CredentialsBlobUpdated(_ domain.Handle, blob string) {
	r.mu.Lock()
	r.blob = blob
	r.mu.Unlock()
	r.record("credentials_blob_updated")
}
func (r *recorder) ConnectionStateUpdated(domain.Handle) { r.record("connectionstate_updated") }
func (r *recorder) ScrobbleError(domain.Handle, domain.Result) { r.record("scrobble_error") }
func (r *recorder) PrivateSessionModeChanged(domain.Handle, bool) { r.record("private_session_mode_changed") }

func testConfig() domain.SessionConfig {
	return domain.SessionConfig{ApplicationKey: []byte{1, 2, 3}, UserAgent: "gospot-test"}
}

func newTestLibrary(t *testing.T) (*Library, domain.Handle, *recorder) {
	t.Helper()
	lib := New(logger.NewTestLogger())
	rec := &recorder{}
	s, r := lib.SessionCreate(testConfig(), rec)
	require.Equal(t, domain.ResultOk, r)
	require.NotEqual(t, domain.InvalidHandle, s)
	return lib, s, rec
}

func TestSessionCreate_OnlyOne(t *testing.T) {
	lib, s, _ := newTestLibrary(t)

	_, r := lib.SessionCreate(testConfig(), &recorder{})
	assert.Equal(t, domain.ResultAPIInitializationFailed, r)

	assert.Equal(t, domain.ResultOk, lib.SessionRelease(s))

	_, r = lib.SessionCreate(testConfig(), &recorder{})
	assert.Equal(t, domain.ResultOk, r)
}

func TestSessionCreate_Failures(t *testing.T) {
	lib := New(nil)

	_, r := lib.SessionCreate(domain.SessionConfig{UserAgent: "x"}, &recorder{})
	assert.Equal(t, domain.ResultBadApplicationKey, r)

	lib.SetFail("session_create", domain.ResultOtherPermanent)
	_, r = lib.SessionCreate(testConfig(), &recorder{})
	assert.Equal(t, domain.ResultOtherPermanent, r)
}

func TestLogin_QueuesCallbacksUntilProcessEvents(t *testing.T) {
	lib, s, rec := newTestLibrary(t)

	r := lib.Login(s, "alice", "secret", true, "")
	require.Equal(t, domain.ResultOk, r)

	// notify-main-thread is delivered from inside the call
	assert.Equal(t, []string{"notify_main_thread"}, rec.names())
	assert.Equal(t, 3, lib.PendingCallbacks())

	timeout, r := lib.ProcessEvents(s)
	require.Equal(t, domain.ResultOk, r)
	assert.Equal(t, DefaultTimeout, timeout)

	assert.Equal(t, []string{
		"notify_main_thread",
		"connectionstate_updated",
		"logged_in",
		"credentials_blob_updated",
	}, rec.names())
	assert.Equal(t, "blob-alice", rec.blob)
	assert.Equal(t, domain.ConnectionLoggedIn, lib.ConnectionState(s))

	user := lib.SessionUser(s)
	require.NotEqual(t, domain.InvalidHandle, user)
	assert.Equal(t, "alice", lib.UserInfo(user).CanonicalName)

	name, ok := lib.RememberedUser(s)
	assert.True(t, ok)
	assert.Equal(t, "alice", name)
}

func TestRelogin(t *testing.T) {
	lib, s, _ := newTestLibrary(t)

	assert.Equal(t, domain.ResultNoCredentials, lib.Relogin(s))

	lib.Remember("bob", "blob")
	assert.Equal(t, domain.ResultOk, lib.Relogin(s))
	assert.Equal(t, 1, lib.LoginCalls())

	assert.Equal(t, domain.ResultOk, lib.ForgetMe(s))
	_, ok := lib.RememberedUser(s)
	assert.False(t, ok)
}

func TestRefCounting(t *testing.T) {
	lib := New(nil)
	h := lib.NewObject(domain.KindAlbum, domain.AlbumInfo{Name: "A"}, true)

	assert.Equal(t, domain.ResultOk, lib.AddRef(domain.KindAlbum, h))
	assert.Equal(t, 2, lib.Refs(h))
	assert.Equal(t, 1, lib.Outstanding(h))

	// wrong kind is rejected
	assert.Equal(t, domain.ResultInvalidIndata, lib.AddRef(domain.KindTrack, h))

	assert.Equal(t, domain.ResultOk, lib.Release(domain.KindAlbum, h))
	assert.Equal(t, 0, lib.Outstanding(h))
	assert.Empty(t, lib.Leaked())

	assert.Equal(t, 1, lib.AddRefCount(h))
	assert.Equal(t, 1, lib.ReleaseCount(h))
}

func TestBrowse_StagedCompletion(t *testing.T) {
	lib, s, _ := newTestLibrary(t)
	album := lib.NewObject(domain.KindAlbum, domain.AlbumInfo{Name: "A"}, true)
	track := lib.NewObject(domain.KindTrack, domain.TrackInfo{Name: "T"}, true)

	lib.StageAlbumBrowse(album, domain.AlbumBrowseResult{Album: album, Tracks: []domain.Handle{track}}, domain.ResultOk)

	var completed domain.Handle
	h := lib.AlbumBrowseCreate(s, album, func(b domain.Handle) { completed = b })
	require.NotEqual(t, domain.InvalidHandle, h)
	assert.Equal(t, domain.InvalidHandle, completed)
	assert.Equal(t, domain.ResultIsLoading, lib.BrowseError(domain.KindAlbumBrowse, h))

	_, r := lib.ProcessEvents(s)
	require.Equal(t, domain.ResultOk, r)

	assert.Equal(t, h, completed)
	assert.True(t, lib.IsLoaded(domain.KindAlbumBrowse, h))
	assert.Equal(t, domain.ResultOk, lib.BrowseError(domain.KindAlbumBrowse, h))
	assert.Equal(t, []domain.Handle{track}, lib.AlbumBrowseResult(h).Tracks)
	assert.Equal(t, 1, lib.CreatedCount(h))
	assert.Equal(t, []domain.Handle{h}, lib.Browses())
}

func TestLinks(t *testing.T) {
	lib, s, _ := newTestLibrary(t)
	track := lib.NewObject(domain.KindTrack, domain.TrackInfo{Name: "T"}, true)

	link := lib.LinkCreateFrom(domain.KindTrack, track, domain.LinkOptions{Offset: 90 * time.Second})
	require.NotEqual(t, domain.InvalidHandle, link)
	assert.Equal(t, domain.LinkTrack, lib.LinkType(link))

	uri := lib.LinkString(link)
	assert.Contains(t, uri, "spotify:track:")
	assert.Contains(t, uri, "#1:30")

	parsed := lib.LinkCreateFromString(uri)
	require.NotEqual(t, domain.InvalidHandle, parsed)
	got, offset := lib.LinkAsTrack(parsed)
	assert.Equal(t, track, got)
	assert.Equal(t, 90*time.Second, offset)
	assert.Equal(t, domain.InvalidHandle, lib.LinkAsAlbum(parsed))

	assert.Equal(t, domain.InvalidHandle, lib.LinkCreateFromString("spotify:track:unknown"))
	assert.Equal(t, domain.InvalidHandle, lib.PlaylistCreate(s, parsed))
}

func TestImageCreate_SharesObjects(t *testing.T) {
	lib, s, _ := newTestLibrary(t)
	id := domain.ImageID{1, 2, 3}

	a := lib.ImageCreate(s, id)
	b := lib.ImageCreate(s, id)
	assert.Equal(t, a, b)
	assert.Equal(t, 2, lib.CreatedCount(a))
	assert.False(t, lib.IsLoaded(domain.KindImage, a))

	assert.Equal(t, domain.InvalidHandle, lib.ImageCreate(s, domain.ImageID{}))
}

func TestPlayer(t *testing.T) {
	lib, s, rec := newTestLibrary(t)
	track := lib.NewObject(domain.KindTrack, domain.TrackInfo{Name: "T", Availability: domain.TrackAvailable}, true)
	pending := lib.NewObject(domain.KindTrack, nil, false)

	assert.Equal(t, domain.ResultIsLoading, lib.PlayerLoad(s, pending))
	assert.Equal(t, domain.ResultInvalidIndata, lib.PlayerPlay(s, true))

	require.Equal(t, domain.ResultOk, lib.PlayerLoad(s, track))
	require.Equal(t, domain.ResultOk, lib.PlayerPlay(s, true))
	require.Equal(t, domain.ResultOk, lib.PlayerSeek(s, 3*time.Second))

	loaded, playing, pos := lib.PlayerState()
	assert.Equal(t, track, loaded)
	assert.True(t, playing)
	assert.Equal(t, 3*time.Second, pos)

	_, _ = lib.ProcessEvents(s)
	assert.Contains(t, rec.names(), "start_playback")

	require.Equal(t, domain.ResultOk, lib.PlayerUnload(s))
	loaded, playing, _ = lib.PlayerState()
	assert.Equal(t, domain.InvalidHandle, loaded)
	assert.False(t, playing)

	lib.SetFail("player_load", domain.ResultTrackNotPlayable)
	assert.Equal(t, domain.ResultTrackNotPlayable, lib.PlayerLoad(s, track))
}

func TestLocalTrackCreate(t *testing.T) {
	lib := New(nil)

	h := lib.LocalTrackCreate("Artist", "Title", "Album", 2*time.Minute)
	require.NotEqual(t, domain.InvalidHandle, h)
	assert.True(t, lib.IsLoaded(domain.KindTrack, h))

	info := lib.TrackInfo(h)
	assert.Equal(t, "Title", info.Name)
	assert.True(t, info.IsLocal)
	assert.Equal(t, 120000, info.DurationMs)
	assert.Equal(t, "Album", lib.AlbumInfo(info.Album).Name)
	require.Len(t, info.Artists, 1)
	assert.Equal(t, "Artist", lib.ArtistInfo(info.Artists[0]).Name)
}
