// Package ports define interfaces for dependency inversion.
// These interfaces keep the session layer independent of the cgo bindings.
package ports

import (
	"time"

	"github.com/tejashwikalptaru/gospot/internal/domain"
)

// BrowseCallback is invoked once when an asynchronous browse or search finishes.
// It receives the handle returned by the create call.
type BrowseCallback func(h domain.Handle)

// Native is the interface to the native media-service client library.
// It abstracts the libspotify bindings and allows for testing with a fake.
//
// Implementations are NOT required to be thread-safe: the session layer serializes
// every call through the process-wide gate. Callbacks may be delivered synchronously
// from inside any call, most notably ProcessEvents.
type Native interface {
	// Library

	// APIVersion returns the API version the library was built for.
	APIVersion() int

	// ErrorMessage returns the library's text for a result code.
	ErrorMessage(r domain.Result) string

	// Session

	// SessionCreate creates the one native session of the process.
	// The callbacks receive every session notification until SessionRelease.
	SessionCreate(cfg domain.SessionConfig, callbacks SessionCallbacks) (domain.Handle, domain.Result)
	SessionRelease(s domain.Handle) domain.Result

	Login(s domain.Handle, username, password string, rememberMe bool, blob string) domain.Result
	Relogin(s domain.Handle) domain.Result

	// RememberedUser returns the user stored for Relogin, if any.
	RememberedUser(s domain.Handle) (string, bool)
	Logout(s domain.Handle) domain.Result
	ForgetMe(s domain.Handle) domain.Result
	FlushCaches(s domain.Handle) domain.Result

	// ProcessEvents lets the library run and returns when it wants to be called next.
	ProcessEvents(s domain.Handle) (time.Duration, domain.Result)
	ConnectionState(s domain.Handle) domain.ConnectionState

	// SessionUser returns the logged in user (borrowed) or InvalidHandle.
	SessionUser(s domain.Handle) domain.Handle
	OfflineSyncStatus(s domain.Handle) (domain.OfflineSyncStatus, bool)
	SetPreferredBitrate(s domain.Handle, bitrate domain.Bitrate) domain.Result
	SetPrivateSession(s domain.Handle, enabled bool) domain.Result
	IsPrivateSession(s domain.Handle) bool

	// Player

	PlayerLoad(s, track domain.Handle) domain.Result
	PlayerPlay(s domain.Handle, play bool) domain.Result
	PlayerSeek(s domain.Handle, offset time.Duration) domain.Result
	PlayerUnload(s domain.Handle) domain.Result
	PlayerPrefetch(s, track domain.Handle) domain.Result

	// Reference counting

	// AddRef increases the native reference count of h.
	AddRef(kind domain.EntityKind, h domain.Handle) domain.Result

	// Release decreases the native reference count of h.
	Release(kind domain.EntityKind, h domain.Handle) domain.Result

	// IsLoaded reports whether the metadata of h is available.
	IsLoaded(kind domain.EntityKind, h domain.Handle) bool

	// Metadata snapshots. Only meaningful when IsLoaded returns true.

	TrackInfo(h domain.Handle) domain.TrackInfo
	AlbumInfo(h domain.Handle) domain.AlbumInfo
	ArtistInfo(h domain.Handle) domain.ArtistInfo
	UserInfo(h domain.Handle) domain.UserInfo
	PlaylistInfo(h domain.Handle) domain.PlaylistInfo
	ImageInfo(h domain.Handle) domain.ImageInfo

	// Object creation. Every returned handle is owned by the caller.

	LocalTrackCreate(artist, title, album string, length time.Duration) domain.Handle
	ImageCreate(s domain.Handle, id domain.ImageID) domain.Handle
	ImageCreateFromLink(s, link domain.Handle) domain.Handle
	PlaylistCreate(s, link domain.Handle) domain.Handle

	// Asynchronous browsing. The returned handle is owned by the caller and done
	// is invoked exactly once, never before the create call has returned.

	AlbumBrowseCreate(s, album domain.Handle, done BrowseCallback) domain.Handle
	ArtistBrowseCreate(s, artist domain.Handle, browseType domain.ArtistBrowseType, done BrowseCallback) domain.Handle
	SearchCreate(s domain.Handle, query domain.SearchQuery, done BrowseCallback) domain.Handle

	// BrowseError returns the outcome code of a finished browse or search.
	BrowseError(kind domain.EntityKind, h domain.Handle) domain.Result
	AlbumBrowseResult(h domain.Handle) domain.AlbumBrowseResult
	ArtistBrowseResult(h domain.Handle) domain.ArtistBrowseResult
	SearchResult(h domain.Handle) domain.SearchResult

	// Links. Created links are owned, resolved entities are borrowed.

	LinkCreateFromString(uri string) domain.Handle
	LinkCreateFrom(kind domain.EntityKind, h domain.Handle, opts domain.LinkOptions) domain.Handle
	LinkType(link domain.Handle) domain.LinkType
	LinkString(link domain.Handle) string
	LinkAsTrack(link domain.Handle) (domain.Handle, time.Duration)
	LinkAsAlbum(link domain.Handle) domain.Handle
	LinkAsArtist(link domain.Handle) domain.Handle
	LinkAsUser(link domain.Handle) domain.Handle
}

// SessionCallbacks receives the notifications of a native session.
// Native adapters call these methods from library threads or synchronously from
// inside a Native call; the caller already holds whatever it holds at that point.
type SessionCallbacks interface {
	LoggedIn(s domain.Handle, r domain.Result)
	LoggedOut(s domain.Handle)
	MetadataUpdated(s domain.Handle)
	ConnectionError(s domain.Handle, r domain.Result)
	MessageToUser(s domain.Handle, message string)
	NotifyMainThread(s domain.Handle)

	// MusicDelivery returns the number of frames consumed.
	MusicDelivery(s domain.Handle, format domain.AudioFormat, frames []byte, numFrames int) int
	PlayTokenLost(s domain.Handle)
	LogMessage(s domain.Handle, message string)
	EndOfTrack(s domain.Handle)
	StreamingError(s domain.Handle, r domain.Result)
	UserInfoUpdated(s domain.Handle)
	StartPlayback(s domain.Handle)
	StopPlayback(s domain.Handle)
	GetAudioBufferStats(s domain.Handle) domain.AudioBufferStats
	OfflineStatusUpdated(s domain.Handle)
	OfflineError(s domain.Handle, r domain.Result)
	CredentialsBlobUpdated(s domain.Handle, blob string)
	ConnectionStateUpdated(s domain.Handle)
	ScrobbleError(s domain.Handle, r domain.Result)
	PrivateSessionModeChanged(s domain.Handle, private bool)
}
