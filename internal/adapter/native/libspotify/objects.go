//go:build libspotify && cgo

package libspotify

/*
#include "shim.h"
*/
import "C"
import (
	"log/slog"
	"time"
	"unsafe"

	pointer "github.com/mattn/go-pointer"

	"github.com/tejashwikalptaru/gospot/internal/domain"
	"github.com/tejashwikalptaru/gospot/internal/ports"
)

// Reference counting

// AddRef adds a reference to h.
func (l *Library) AddRef(kind domain.EntityKind, h domain.Handle) domain.Result {
	if h == domain.InvalidHandle {
		return domain.ResultInvalidIndata
	}
	switch kind {
	case domain.KindTrack:
		return domain.Result(C.sp_track_add_ref(ptr[C.sp_track](h)))
	case domain.KindAlbum:
		return domain.Result(C.sp_album_add_ref(ptr[C.sp_album](h)))
	case domain.KindArtist:
		return domain.Result(C.sp_artist_add_ref(ptr[C.sp_artist](h)))
	case domain.KindUser:
		return domain.Result(C.sp_user_add_ref(ptr[C.sp_user](h)))
	case domain.KindPlaylist:
		return domain.Result(C.sp_playlist_add_ref(ptr[C.sp_playlist](h)))
	case domain.KindSearch:
		return domain.Result(C.sp_search_add_ref(ptr[C.sp_search](h)))
	case domain.KindImage:
		r := domain.Result(C.sp_image_add_ref(ptr[C.sp_image](h)))
		if r == domain.ResultOk {
			l.watchImage(h)
		}
		return r
	case domain.KindLink:
		return domain.Result(C.sp_link_add_ref(ptr[C.sp_link](h)))
	case domain.KindAlbumBrowse:
		return domain.Result(C.sp_albumbrowse_add_ref(ptr[C.sp_albumbrowse](h)))
	case domain.KindArtistBrowse:
		return domain.Result(C.sp_artistbrowse_add_ref(ptr[C.sp_artistbrowse](h)))
	default:
		return domain.ResultInvalidIndata
	}
}

// Release drops a reference to h.
func (l *Library) Release(kind domain.EntityKind, h domain.Handle) domain.Result {
	if h == domain.InvalidHandle {
		return domain.ResultInvalidIndata
	}
	switch kind {
	case domain.KindTrack:
		return domain.Result(C.sp_track_release(ptr[C.sp_track](h)))
	case domain.KindAlbum:
		return domain.Result(C.sp_album_release(ptr[C.sp_album](h)))
	case domain.KindArtist:
		return domain.Result(C.sp_artist_release(ptr[C.sp_artist](h)))
	case domain.KindUser:
		return domain.Result(C.sp_user_release(ptr[C.sp_user](h)))
	case domain.KindPlaylist:
		return domain.Result(C.sp_playlist_release(ptr[C.sp_playlist](h)))
	case domain.KindSearch:
		return domain.Result(C.sp_search_release(ptr[C.sp_search](h)))
	case domain.KindImage:
		l.unwatchImage(h)
		return domain.Result(C.sp_image_release(ptr[C.sp_image](h)))
	case domain.KindLink:
		return domain.Result(C.sp_link_release(ptr[C.sp_link](h)))
	case domain.KindAlbumBrowse:
		return domain.Result(C.sp_albumbrowse_release(ptr[C.sp_albumbrowse](h)))
	case domain.KindArtistBrowse:
		return domain.Result(C.sp_artistbrowse_release(ptr[C.sp_artistbrowse](h)))
	default:
		return domain.ResultInvalidIndata
	}
}

// IsLoaded reports whether the metadata of h is available.
func (l *Library) IsLoaded(kind domain.EntityKind, h domain.Handle) bool {
	if h == domain.InvalidHandle {
		return false
	}
	switch kind {
	case domain.KindTrack:
		return bool(C.sp_track_is_loaded(ptr[C.sp_track](h)))
	case domain.KindAlbum:
		return bool(C.sp_album_is_loaded(ptr[C.sp_album](h)))
	case domain.KindArtist:
		return bool(C.sp_artist_is_loaded(ptr[C.sp_artist](h)))
	case domain.KindUser:
		return bool(C.sp_user_is_loaded(ptr[C.sp_user](h)))
	case domain.KindPlaylist:
		return bool(C.sp_playlist_is_loaded(ptr[C.sp_playlist](h)))
	case domain.KindSearch:
		return bool(C.sp_search_is_loaded(ptr[C.sp_search](h)))
	case domain.KindImage:
		return bool(C.sp_image_is_loaded(ptr[C.sp_image](h)))
	case domain.KindAlbumBrowse:
		return bool(C.sp_albumbrowse_is_loaded(ptr[C.sp_albumbrowse](h)))
	case domain.KindArtistBrowse:
		return bool(C.sp_artistbrowse_is_loaded(ptr[C.sp_artistbrowse](h)))
	default:
		// sessions and links are usable once created
		return true
	}
}

// Image load callbacks. Images do not raise metadata_updated, so a load callback
// is installed while at least one reference is held.

func (l *Library) watchImage(h domain.Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.images[h] == 0 && l.token != nil {
		if r := domain.Result(C.gospot_image_watch(ptr[C.sp_image](h), l.token)); r != domain.ResultOk {
			l.logger.Warn("image load callback not installed", slog.Int("result", int(r)))
		}
	}
	l.images[h]++
}

func (l *Library) unwatchImage(h domain.Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()

	n, ok := l.images[h]
	if !ok {
		return
	}
	if n > 1 {
		l.images[h] = n - 1
		return
	}
	delete(l.images, h)
	if l.token != nil {
		C.gospot_image_unwatch(ptr[C.sp_image](h), l.token)
	}
}

// Metadata snapshots

func handles[T any](n C.int, at func(C.int) *T) []domain.Handle {
	if n <= 0 {
		return nil
	}
	out := make([]domain.Handle, 0, int(n))
	for i := C.int(0); i < n; i++ {
		if h := handleOf(at(i)); h != domain.InvalidHandle {
			out = append(out, h)
		}
	}
	return out
}

func (l *Library) TrackInfo(h domain.Handle) domain.TrackInfo {
	t := ptr[C.sp_track](h)
	s := ptr[C.sp_session](l.sessionHandle())
	return domain.TrackInfo{
		Name:  C.GoString(C.sp_track_name(t)),
		Album: handleOf(C.sp_track_album(t)),
		Artists: handles(C.sp_track_num_artists(t), func(i C.int) *C.sp_artist {
			return C.sp_track_artist(t, i)
		}),
		DurationMs:    int(C.sp_track_duration(t)),
		Popularity:    int(C.sp_track_popularity(t)),
		Disc:          int(C.sp_track_disc(t)),
		Index:         int(C.sp_track_index(t)),
		IsLocal:       bool(C.sp_track_is_local(s, t)),
		IsStarred:     bool(C.sp_track_is_starred(s, t)),
		IsPlaceholder: bool(C.sp_track_is_placeholder(t)),
		Availability:  domain.TrackAvailability(C.sp_track_get_availability(s, t)),
		OfflineStatus: domain.TrackOfflineStatus(C.sp_track_offline_get_status(t)),
		Error:         domain.Result(C.sp_track_error(t)),
	}
}

func (l *Library) AlbumInfo(h domain.Handle) domain.AlbumInfo {
	a := ptr[C.sp_album](h)
	return domain.AlbumInfo{
		Name:      C.GoString(C.sp_album_name(a)),
		Artist:    handleOf(C.sp_album_artist(a)),
		Cover:     imageID(C.sp_album_cover(a, C.SP_IMAGE_SIZE_NORMAL)),
		Available: bool(C.sp_album_is_available(a)),
		Type:      domain.AlbumType(C.sp_album_type(a)),
		Year:      int(C.sp_album_year(a)),
	}
}

func (l *Library) ArtistInfo(h domain.Handle) domain.ArtistInfo {
	a := ptr[C.sp_artist](h)
	return domain.ArtistInfo{
		Name:     C.GoString(C.sp_artist_name(a)),
		Portrait: imageID(C.sp_artist_portrait(a, C.SP_IMAGE_SIZE_NORMAL)),
	}
}

func (l *Library) UserInfo(h domain.Handle) domain.UserInfo {
	u := ptr[C.sp_user](h)
	return domain.UserInfo{
		CanonicalName: C.GoString(C.sp_user_canonical_name(u)),
		DisplayName:   C.GoString(C.sp_user_display_name(u)),
	}
}

func (l *Library) PlaylistInfo(h domain.Handle) domain.PlaylistInfo {
	p := ptr[C.sp_playlist](h)
	return domain.PlaylistInfo{
		Name:          C.GoString(C.sp_playlist_name(p)),
		Owner:         handleOf(C.sp_playlist_owner(p)),
		Description:   C.GoString(C.sp_playlist_get_description(p)),
		Collaborative: bool(C.sp_playlist_is_collaborative(p)),
		Tracks: handles(C.sp_playlist_num_tracks(p), func(i C.int) *C.sp_track {
			return C.sp_playlist_track(p, i)
		}),
	}
}

func (l *Library) ImageInfo(h domain.Handle) domain.ImageInfo {
	img := ptr[C.sp_image](h)
	info := domain.ImageInfo{
		ID:     imageID(C.sp_image_image_id(img)),
		Format: domain.ImageFormat(C.sp_image_format(img)),
		Error:  domain.Result(C.sp_image_error(img)),
	}
	var size C.size_t
	if data := C.sp_image_data(img, &size); data != nil && size > 0 {
		info.Data = C.GoBytes(data, C.int(size))
	}
	return info
}

// Object creation

func (l *Library) LocalTrackCreate(artist, title, album string, length time.Duration) domain.Handle {
	cartist, ctitle, calbum := C.CString(artist), C.CString(title), C.CString(album)
	defer C.free(unsafe.Pointer(cartist))
	defer C.free(unsafe.Pointer(ctitle))
	defer C.free(unsafe.Pointer(calbum))

	ms := C.int(-1)
	if length > 0 {
		ms = C.int(length.Milliseconds())
	}
	return handleOf(C.sp_localtrack_create(cartist, ctitle, calbum, ms))
}

func (l *Library) ImageCreate(s domain.Handle, id domain.ImageID) domain.Handle {
	h := handleOf(C.sp_image_create(ptr[C.sp_session](s), (*C.byte)(unsafe.Pointer(&id[0]))))
	if h != domain.InvalidHandle {
		l.watchImage(h)
	}
	return h
}

func (l *Library) ImageCreateFromLink(s, link domain.Handle) domain.Handle {
	h := handleOf(C.sp_image_create_from_link(ptr[C.sp_session](s), ptr[C.sp_link](link)))
	if h != domain.InvalidHandle {
		l.watchImage(h)
	}
	return h
}

func (l *Library) PlaylistCreate(s, link domain.Handle) domain.Handle {
	return handleOf(C.sp_playlist_create(ptr[C.sp_session](s), ptr[C.sp_link](link)))
}

// Asynchronous browsing. Each create hands a go-pointer token holding done to
// the library; goBrowseComplete releases it.

func (l *Library) AlbumBrowseCreate(s, album domain.Handle, done ports.BrowseCallback) domain.Handle {
	token := pointer.Save(done)
	h := handleOf(C.gospot_albumbrowse_create(ptr[C.sp_session](s), ptr[C.sp_album](album), token))
	if h == domain.InvalidHandle {
		pointer.Unref(token)
	}
	return h
}

func (l *Library) ArtistBrowseCreate(s, artist domain.Handle, browseType domain.ArtistBrowseType, done ports.BrowseCallback) domain.Handle {
	token := pointer.Save(done)
	h := handleOf(C.gospot_artistbrowse_create(ptr[C.sp_session](s), ptr[C.sp_artist](artist),
		C.sp_artistbrowse_type(browseType), token))
	if h == domain.InvalidHandle {
		pointer.Unref(token)
	}
	return h
}

func (l *Library) SearchCreate(s domain.Handle, q domain.SearchQuery, done ports.BrowseCallback) domain.Handle {
	query := C.CString(q.Query)
	defer C.free(unsafe.Pointer(query))

	token := pointer.Save(done)
	h := handleOf(C.gospot_search_create(ptr[C.sp_session](s), query,
		C.int(q.TrackOffset), C.int(q.TrackCount),
		C.int(q.AlbumOffset), C.int(q.AlbumCount),
		C.int(q.ArtistOffset), C.int(q.ArtistCount),
		C.int(q.PlaylistOffset), C.int(q.PlaylistCount),
		C.sp_search_type(q.Type), token))
	if h == domain.InvalidHandle {
		pointer.Unref(token)
	}
	return h
}

func (l *Library) BrowseError(kind domain.EntityKind, h domain.Handle) domain.Result {
	switch kind {
	case domain.KindAlbumBrowse:
		return domain.Result(C.sp_albumbrowse_error(ptr[C.sp_albumbrowse](h)))
	case domain.KindArtistBrowse:
		return domain.Result(C.sp_artistbrowse_error(ptr[C.sp_artistbrowse](h)))
	case domain.KindSearch:
		return domain.Result(C.sp_search_error(ptr[C.sp_search](h)))
	default:
		return domain.ResultInvalidIndata
	}
}

func (l *Library) AlbumBrowseResult(h domain.Handle) domain.AlbumBrowseResult {
	b := ptr[C.sp_albumbrowse](h)
	n := int(C.sp_albumbrowse_num_copyrights(b))
	copyrights := make([]string, 0, n)
	for i := range n {
		copyrights = append(copyrights, C.GoString(C.sp_albumbrowse_copyright(b, C.int(i))))
	}
	return domain.AlbumBrowseResult{
		Album:      handleOf(C.sp_albumbrowse_album(b)),
		Artist:     handleOf(C.sp_albumbrowse_artist(b)),
		Copyrights: copyrights,
		Review:     C.GoString(C.sp_albumbrowse_review(b)),
		Tracks: handles(C.sp_albumbrowse_num_tracks(b), func(i C.int) *C.sp_track {
			return C.sp_albumbrowse_track(b, i)
		}),
	}
}

func (l *Library) ArtistBrowseResult(h domain.Handle) domain.ArtistBrowseResult {
	b := ptr[C.sp_artistbrowse](h)
	n := int(C.sp_artistbrowse_num_portraits(b))
	portraits := make([]domain.ImageID, 0, n)
	for i := range n {
		portraits = append(portraits, imageID(C.sp_artistbrowse_portrait(b, C.int(i))))
	}
	return domain.ArtistBrowseResult{
		Artist:    handleOf(C.sp_artistbrowse_artist(b)),
		Biography: C.GoString(C.sp_artistbrowse_biography(b)),
		Portraits: portraits,
		Tracks: handles(C.sp_artistbrowse_num_tracks(b), func(i C.int) *C.sp_track {
			return C.sp_artistbrowse_track(b, i)
		}),
		TopHitTracks: handles(C.sp_artistbrowse_num_tophit_tracks(b), func(i C.int) *C.sp_track {
			return C.sp_artistbrowse_tophit_track(b, i)
		}),
		Albums: handles(C.sp_artistbrowse_num_albums(b), func(i C.int) *C.sp_album {
			return C.sp_artistbrowse_album(b, i)
		}),
		SimilarArtists: handles(C.sp_artistbrowse_num_similar_artists(b), func(i C.int) *C.sp_artist {
			return C.sp_artistbrowse_similar_artist(b, i)
		}),
	}
}

func (l *Library) SearchResult(h domain.Handle) domain.SearchResult {
	s := ptr[C.sp_search](h)
	n := int(C.sp_search_num_playlists(s))
	playlists := make([]domain.PlaylistRef, 0, n)
	for i := range n {
		playlists = append(playlists, domain.PlaylistRef{
			Name: C.GoString(C.sp_search_playlist_name(s, C.int(i))),
			URI:  C.GoString(C.sp_search_playlist_uri(s, C.int(i))),
		})
	}
	return domain.SearchResult{
		Query:          C.GoString(C.sp_search_query(s)),
		DidYouMean:     C.GoString(C.sp_search_did_you_mean(s)),
		TotalTracks:    int(C.sp_search_total_tracks(s)),
		TotalAlbums:    int(C.sp_search_total_albums(s)),
		TotalArtists:   int(C.sp_search_total_artists(s)),
		TotalPlaylists: int(C.sp_search_total_playlists(s)),
		Tracks: handles(C.sp_search_num_tracks(s), func(i C.int) *C.sp_track {
			return C.sp_search_track(s, i)
		}),
		Albums: handles(C.sp_search_num_albums(s), func(i C.int) *C.sp_album {
			return C.sp_search_album(s, i)
		}),
		Artists: handles(C.sp_search_num_artists(s), func(i C.int) *C.sp_artist {
			return C.sp_search_artist(s, i)
		}),
		Playlists: playlists,
	}
}

// Links

func (l *Library) LinkCreateFromString(uri string) domain.Handle {
	curi := C.CString(uri)
	defer C.free(unsafe.Pointer(curi))
	return handleOf(C.sp_link_create_from_string(curi))
}

func (l *Library) LinkCreateFrom(kind domain.EntityKind, h domain.Handle, opts domain.LinkOptions) domain.Handle {
	size := C.sp_image_size(opts.Size)
	var link *C.sp_link
	switch kind {
	case domain.KindTrack:
		link = C.sp_link_create_from_track(ptr[C.sp_track](h), C.int(opts.Offset.Milliseconds()))
	case domain.KindAlbum:
		if opts.Image {
			link = C.sp_link_create_from_album_cover(ptr[C.sp_album](h), size)
		} else {
			link = C.sp_link_create_from_album(ptr[C.sp_album](h))
		}
	case domain.KindArtist:
		if opts.Image {
			link = C.sp_link_create_from_artist_portrait(ptr[C.sp_artist](h), size)
		} else {
			link = C.sp_link_create_from_artist(ptr[C.sp_artist](h))
		}
	case domain.KindUser:
		link = C.sp_link_create_from_user(ptr[C.sp_user](h))
	case domain.KindPlaylist:
		link = C.sp_link_create_from_playlist(ptr[C.sp_playlist](h))
	case domain.KindSearch:
		link = C.sp_link_create_from_search(ptr[C.sp_search](h))
	case domain.KindImage:
		link = C.sp_link_create_from_image(ptr[C.sp_image](h))
	}
	return handleOf(link)
}

func (l *Library) LinkType(link domain.Handle) domain.LinkType {
	return domain.LinkType(C.sp_link_type(ptr[C.sp_link](link)))
}

func (l *Library) LinkString(link domain.Handle) string {
	buf := make([]byte, 256)
	n := int(C.sp_link_as_string(ptr[C.sp_link](link), (*C.char)(unsafe.Pointer(&buf[0])), C.int(len(buf))))
	if n >= len(buf) {
		buf = make([]byte, n+1)
		n = int(C.sp_link_as_string(ptr[C.sp_link](link), (*C.char)(unsafe.Pointer(&buf[0])), C.int(len(buf))))
	}
	if n <= 0 {
		return ""
	}
	return string(buf[:n])
}

func (l *Library) LinkAsTrack(link domain.Handle) (domain.Handle, time.Duration) {
	var offset C.int
	t := C.sp_link_as_track_and_offset(ptr[C.sp_link](link), &offset)
	return handleOf(t), time.Duration(offset) * time.Millisecond
}

func (l *Library) LinkAsAlbum(link domain.Handle) domain.Handle {
	return handleOf(C.sp_link_as_album(ptr[C.sp_link](link)))
}

func (l *Library) LinkAsArtist(link domain.Handle) domain.Handle {
	return handleOf(C.sp_link_as_artist(ptr[C.sp_link](link)))
}

func (l *Library) LinkAsUser(link domain.Handle) domain.Handle {
	return handleOf(C.sp_link_as_user(ptr[C.sp_link](link)))
}

// Verify that Library implements the Native interface
var _ ports.Native = (*Library)(nil)
