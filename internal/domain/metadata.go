package domain

import "time"

// The snapshots below are read from the native library in one call per entity.
// Handles inside a snapshot are borrowed: they stay valid only while the parent
// object is alive, so callers must add a reference before keeping them.

// TrackInfo is a snapshot of a loaded track.
type TrackInfo struct {
	Name          string
	Album         Handle
	Artists       []Handle
	DurationMs    int
	Popularity    int
	Disc          int
	Index         int
	IsLocal       bool
	IsStarred     bool
	IsPlaceholder bool
	Availability  TrackAvailability
	OfflineStatus TrackOfflineStatus
	Error         Result
}

// AlbumInfo is a snapshot of a loaded album.
type AlbumInfo struct {
	Name      string
	Artist    Handle
	Cover     ImageID
	Available bool
	Type      AlbumType
	Year      int
}

// ArtistInfo is a snapshot of a loaded artist.
type ArtistInfo struct {
	Name     string
	Portrait ImageID
}

// UserInfo is a snapshot of a loaded user.
type UserInfo struct {
	CanonicalName string
	DisplayName   string
}

// PlaylistInfo is a snapshot of a loaded playlist.
type PlaylistInfo struct {
	Name          string
	Owner         Handle
	Description   string
	Collaborative bool
	Tracks        []Handle
}

// ImageInfo is a snapshot of a loaded image.
type ImageInfo struct {
	ID     ImageID
	Format ImageFormat
	Data   []byte
	Error  Result
}

// AlbumBrowseResult is the payload of a completed album browse.
type AlbumBrowseResult struct {
	Album      Handle
	Artist     Handle
	Copyrights []string
	Review     string
	Tracks     []Handle
}

// ArtistBrowseResult is the payload of a completed artist browse.
type ArtistBrowseResult struct {
	Artist         Handle
	Biography      string
	Portraits      []ImageID
	Tracks         []Handle
	TopHitTracks   []Handle
	Albums         []Handle
	SimilarArtists []Handle
}

// PlaylistRef names a playlist found by a search without materializing it.
type PlaylistRef struct {
	Name string
	URI  string
}

// SearchResult is the payload of a completed search.
type SearchResult struct {
	Query          string
	DidYouMean     string
	TotalTracks    int
	TotalAlbums    int
	TotalArtists   int
	TotalPlaylists int
	Tracks         []Handle
	Albums         []Handle
	Artists        []Handle
	Playlists      []PlaylistRef
}

// LinkOptions parameterizes link creation from an entity.
type LinkOptions struct {
	// Offset is the playback offset encoded in track links
	Offset time.Duration

	// Size selects the image for album cover and artist portrait links
	Size ImageSize

	// Image requests a cover or portrait link instead of the entity link
	Image bool
}
