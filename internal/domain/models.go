// Package domain contains the value types shared by the session layer and the native adapters.
// It has no dependencies outside the standard library.
package domain

import (
	"encoding/hex"
	"fmt"
	"time"
)

// Handle is an opaque identifier of one native object instance.
// Handles are only meaningful to the native adapter that produced them.
type Handle uintptr

// InvalidHandle represents the absence of a native object.
const InvalidHandle Handle = 0

// EntityKind identifies the native object family a handle belongs to.
// The kind selects the add-ref, release and is-loaded functions used for a handle.
type EntityKind int

// Entity kinds known to the native boundary.
const (
	KindSession EntityKind = iota
	KindTrack
	KindAlbum
	KindArtist
	KindUser
	KindPlaylist
	KindSearch
	KindImage
	KindLink
	KindAlbumBrowse
	KindArtistBrowse
)

// String returns a human-readable representation of the kind.
func (k EntityKind) String() string {
	switch k {
	case KindSession:
		return "session"
	case KindTrack:
		return "track"
	case KindAlbum:
		return "album"
	case KindArtist:
		return "artist"
	case KindUser:
		return "user"
	case KindPlaylist:
		return "playlist"
	case KindSearch:
		return "search"
	case KindImage:
		return "image"
	case KindLink:
		return "link"
	case KindAlbumBrowse:
		return "albumbrowse"
	case KindArtistBrowse:
		return "artistbrowse"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ConnectionState represents the connection state of a session.
type ConnectionState int

// Connection states reported by the native library.
const (
	ConnectionLoggedOut    ConnectionState = 0
	ConnectionLoggedIn     ConnectionState = 1
	ConnectionDisconnected ConnectionState = 2
	ConnectionUndefined    ConnectionState = 3
	ConnectionOffline      ConnectionState = 4
)

// String returns a human-readable representation of the connection state.
func (s ConnectionState) String() string {
	switch s {
	case ConnectionLoggedOut:
		return "logged_out"
	case ConnectionLoggedIn:
		return "logged_in"
	case ConnectionDisconnected:
		return "disconnected"
	case ConnectionOffline:
		return "offline"
	default:
		return "undefined"
	}
}

// SampleType is the sample format of delivered audio.
type SampleType int

// SampleInt16Native is signed 16 bit samples in native byte order.
const SampleInt16Native SampleType = 0

// AudioFormat describes the audio delivered by the music delivery callback.
type AudioFormat struct {
	SampleType SampleType
	SampleRate int
	Channels   int
}

// BytesPerFrame returns the size of one frame (all channels) in bytes.
func (f AudioFormat) BytesPerFrame() int {
	return 2 * f.Channels
}

// AudioBufferStats is the host's answer to the buffer statistics request.
type AudioBufferStats struct {
	// Samples is the number of samples currently buffered by the host
	Samples int

	// Stutter is the number of stutters since the last request
	Stutter int
}

// OfflineSyncStatus is a snapshot of the offline synchronization progress.
type OfflineSyncStatus struct {
	QueuedTracks      int
	QueuedBytes       uint64
	DoneTracks        int
	DoneBytes         uint64
	CopiedTracks      int
	CopiedBytes       uint64
	WillNotCopyTracks int
	ErrorTracks       int
	Syncing           bool
}

// ImageSize selects one of the image sizes offered for covers and portraits.
type ImageSize int

// Image sizes.
const (
	ImageSizeNormal ImageSize = 0
	ImageSizeSmall  ImageSize = 1
	ImageSizeLarge  ImageSize = 2
)

// ImageFormat is the encoding of image data.
type ImageFormat int

// Image formats.
const (
	ImageFormatUnknown ImageFormat = -1
	ImageFormatJPEG    ImageFormat = 0
)

// ImageID is the 20 byte identifier of an image.
type ImageID [20]byte

// IsZero reports whether the id is unset.
func (id ImageID) IsZero() bool {
	return id == ImageID{}
}

// String returns the id in hex.
func (id ImageID) String() string {
	return hex.EncodeToString(id[:])
}

// AlbumType classifies an album.
type AlbumType int

// Album types.
const (
	AlbumTypeAlbum       AlbumType = 0
	AlbumTypeSingle      AlbumType = 1
	AlbumTypeCompilation AlbumType = 2
	AlbumTypeUnknown     AlbumType = 3
)

// LinkType is the kind of object a link points to.
type LinkType int

// Link types.
const (
	LinkInvalid    LinkType = 0
	LinkTrack      LinkType = 1
	LinkAlbum      LinkType = 2
	LinkArtist     LinkType = 3
	LinkSearch     LinkType = 4
	LinkPlaylist   LinkType = 5
	LinkProfile    LinkType = 6
	LinkStarred    LinkType = 7
	LinkLocalTrack LinkType = 8
	LinkImage      LinkType = 9
)

// TrackAvailability tells whether a track can be played.
type TrackAvailability int

// Track availability values.
const (
	TrackUnavailable    TrackAvailability = 0
	TrackAvailable      TrackAvailability = 1
	TrackNotStreamable  TrackAvailability = 2
	TrackBannedByArtist TrackAvailability = 3
)

// TrackOfflineStatus is the offline synchronization state of one track.
type TrackOfflineStatus int

// Track offline states.
const (
	TrackOfflineNo          TrackOfflineStatus = 0
	TrackOfflineWaiting     TrackOfflineStatus = 1
	TrackOfflineDownloading TrackOfflineStatus = 2
	TrackOfflineDone        TrackOfflineStatus = 3
	TrackOfflineError       TrackOfflineStatus = 4
	TrackOfflineDoneExpired TrackOfflineStatus = 5
	TrackOfflineLimit       TrackOfflineStatus = 6
	TrackOfflineDoneResync  TrackOfflineStatus = 7
)

// Bitrate is the preferred streaming bitrate.
type Bitrate int

// Bitrates.
const (
	Bitrate160k Bitrate = 0
	Bitrate320k Bitrate = 1
	Bitrate96k  Bitrate = 2
)

// ArtistBrowseType selects how much data an artist browse fetches.
type ArtistBrowseType int

// Artist browse types.
const (
	ArtistBrowseFull     ArtistBrowseType = 0
	ArtistBrowseNoTracks ArtistBrowseType = 1
	ArtistBrowseNoAlbums ArtistBrowseType = 2
)

// SearchType selects a standard or a suggest search.
type SearchType int

// Search types.
const (
	SearchStandard SearchType = 0
	SearchSuggest  SearchType = 1
)

// SearchQuery describes one search request.
type SearchQuery struct {
	Query          string
	TrackOffset    int
	TrackCount     int
	AlbumOffset    int
	AlbumCount     int
	ArtistOffset   int
	ArtistCount    int
	PlaylistOffset int
	PlaylistCount  int
	Type           SearchType
}

// DefaultSearchQuery returns a standard search for the first page of every result list.
func DefaultSearchQuery(query string) SearchQuery {
	return SearchQuery{
		Query:         query,
		TrackCount:    25,
		AlbumCount:    25,
		ArtistCount:   25,
		PlaylistCount: 25,
		Type:          SearchStandard,
	}
}

// ProxyConfig configures the proxy used by the native library.
type ProxyConfig struct {
	URL      string `toml:"url" yaml:"url"`
	Username string `toml:"username" yaml:"username"`
	Password string `toml:"password" yaml:"password"`
}

// SessionConfig holds the parameters the native session is created with.
type SessionConfig struct {
	// ApplicationKey is the binary application key issued for the client
	ApplicationKey []byte `toml:"-"`

	// CacheLocation is the directory for cached data
	CacheLocation string `toml:"cache_location"`

	// SettingsLocation is the directory for persistent settings
	SettingsLocation string `toml:"settings_location"`

	// UserAgent identifies the application (at most 255 characters)
	UserAgent string `toml:"user_agent"`

	// DeviceID uniquely identifies this device for offline sync
	DeviceID string `toml:"device_id"`

	// TraceFile is an optional path for native trace output
	TraceFile string `toml:"trace_file"`

	// CompressPlaylists compresses local copies of playlists
	CompressPlaylists bool `toml:"compress_playlists"`

	// DontSaveMetadataForPlaylists disables metadata caching for playlists
	DontSaveMetadataForPlaylists bool `toml:"dont_save_metadata_for_playlists"`

	// InitiallyUnloadPlaylists keeps playlists unloaded until requested
	InitiallyUnloadPlaylists bool `toml:"initially_unload_playlists"`

	// CacheSize is the maximum cache size in megabytes (0 = automatic)
	CacheSize int `toml:"cache_size"`

	// Proxy is the optional proxy configuration
	Proxy ProxyConfig `toml:"proxy"`
}

// Validate checks the configuration before it is handed to the native library.
func (c SessionConfig) Validate() error {
	if len(c.ApplicationKey) == 0 {
		return NewValidationError("ApplicationKey", len(c.ApplicationKey), "application key is required")
	}
	if c.UserAgent == "" {
		return NewValidationError("UserAgent", c.UserAgent, "user agent is required")
	}
	if len(c.UserAgent) > 255 {
		return NewValidationError("UserAgent", len(c.UserAgent), "user agent must be at most 255 characters")
	}
	if c.CacheSize < 0 {
		return NewValidationError("CacheSize", c.CacheSize, "cache size must not be negative")
	}
	return nil
}

// TrackDuration converts a native millisecond count into a duration.
func TrackDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// StoredCredentials is a remembered login: the user name and the opaque blob the
// native library issued for it.
type StoredCredentials struct {
	Username string    `yaml:"username"`
	Blob     string    `yaml:"blob"`
	SavedAt  time.Time `yaml:"saved_at"`
}

// IsEmpty reports whether there is nothing to log in with.
func (c StoredCredentials) IsEmpty() bool {
	return c.Username == "" || c.Blob == ""
}
