package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/gospot/internal/adapter/native/fake"
	"github.com/tejashwikalptaru/gospot/internal/domain"
	"github.com/tejashwikalptaru/gospot/internal/ports"
	"github.com/tejashwikalptaru/gospot/internal/session"
)

func TestAlbumBrowse_Failure(t *testing.T) {
	f := newFixture(t, nil)
	f.expectNoLeaks(t)

	raw := f.lib.NewObject(domain.KindAlbum, domain.AlbumInfo{Name: "Tago Mago"}, true)
	trackRaw := f.lib.NewObject(domain.KindTrack, playable("Mushroom"), true)
	f.lib.StageAlbumBrowse(raw, domain.AlbumBrowseResult{Album: raw, Tracks: []domain.Handle{trackRaw}}, domain.ResultOtherTransient)

	album := f.album(t, raw)
	completions := 0
	album.OnLoaded(func() { completions++ })

	var completed []*session.BrowseOperation
	f.bus.Subscribe(domain.EventBrowseCompleted, func(ev domain.Event) {
		completed = append(completed, ev.(session.BrowseCompletedEvent).Operation)
	})

	op, err := album.LoadExtendedMetadata()
	require.NoError(t, err)
	assert.Equal(t, session.OutcomePending, op.Outcome())
	assert.Equal(t, 1, f.s.PendingBrowses())

	f.process(t)

	assert.Equal(t, session.OutcomeError, op.Outcome())
	require.ErrorIs(t, op.Err(), domain.ErrOperationFailed)
	require.ErrorIs(t, op.Wait(context.Background()), domain.ErrOperationFailed)
	assert.Equal(t, []*session.BrowseOperation{op}, completed)
	assert.Zero(t, f.s.PendingBrowses())

	// The target is untouched and not signalled.
	assert.Zero(t, completions)
	assert.False(t, album.HasExtendedMetadata())
	assert.Empty(t, album.Tracks())
	assert.Equal(t, "Tago Mago", album.Name())

	browses := f.lib.Browses()
	require.Len(t, browses, 1)
	assert.Equal(t, 1, f.lib.ReleaseCount(browses[0]))
	assert.Zero(t, f.lib.Outstanding(browses[0]))
	assert.Zero(t, f.lib.AddRefCount(trackRaw))
}

func TestAlbumBrowse_Success(t *testing.T) {
	f := newFixture(t, nil)
	f.expectNoLeaks(t)

	raw := f.lib.NewObject(domain.KindAlbum, domain.AlbumInfo{Name: "Remain in Light", Year: 1980}, true)
	tracks := []domain.Handle{
		f.lib.NewObject(domain.KindTrack, playable("Born Under Punches"), true),
		f.lib.NewObject(domain.KindTrack, playable("Crosseyed and Painless"), true),
		f.lib.NewObject(domain.KindTrack, playable("The Great Curve"), true),
	}
	f.lib.StageAlbumBrowse(raw, domain.AlbumBrowseResult{
		Album:      raw,
		Copyrights: []string{"(P) 1980 Sire"},
		Review:     "Polyrhythmic.",
		Tracks:     tracks,
	}, domain.ResultOk)

	album := f.album(t, raw)
	completions := 0
	album.OnLoaded(func() { completions++ })

	var extended []bool
	f.bus.Subscribe(domain.EventEntityLoaded, func(ev domain.Event) {
		if e := ev.(session.EntityLoadedEvent); e.Entity == session.Entity(album) {
			extended = append(extended, e.Extended)
		}
	})

	op, err := album.LoadExtendedMetadata()
	require.NoError(t, err)
	assert.Same(t, album, op.Target())
	assert.Equal(t, domain.KindAlbumBrowse, op.Kind())
	assert.NotEmpty(t, op.ID())

	f.process(t)

	require.Equal(t, session.OutcomeOK, op.Outcome())
	require.NoError(t, op.Err())
	select {
	case <-op.Done():
	default:
		t.Fatal("done channel not closed")
	}

	assert.Equal(t, 1, completions)
	assert.Equal(t, []bool{true}, extended)
	assert.True(t, album.HasExtendedMetadata())
	assert.Equal(t, []string{"(P) 1980 Sire"}, album.Copyrights())
	assert.Equal(t, "Polyrhythmic.", album.Review())

	got := album.Tracks()
	require.Len(t, got, 3)
	assert.Equal(t, "Crosseyed and Painless", got[1].Name())
	for _, tr := range tracks {
		assert.Equal(t, 1, f.lib.AddRefCount(tr), "each child is acquired once")
	}

	browses := f.lib.Browses()
	require.Len(t, browses, 1)
	assert.Equal(t, 1, f.lib.ReleaseCount(browses[0]))
	assert.Zero(t, f.lib.Outstanding(browses[0]))

	// Browsing again keeps the harvested children.
	op, err = album.LoadExtendedMetadata()
	require.NoError(t, err)
	f.process(t)
	require.Equal(t, session.OutcomeOK, op.Outcome())
	assert.Same(t, got[0], album.Tracks()[0])
	for _, tr := range tracks {
		assert.Equal(t, 1, f.lib.AddRefCount(tr))
	}

	require.NoError(t, album.Close())
	for _, tr := range tracks {
		assert.Equal(t, 1, f.lib.ReleaseCount(tr), "closing the album releases its children")
	}
}

func TestAlbumBrowse_HarvestFailureReleasesChildren(t *testing.T) {
	f := newFixture(t, nil)
	f.expectNoLeaks(t)

	raw := f.lib.NewObject(domain.KindAlbum, domain.AlbumInfo{Name: "Marquee Moon"}, true)
	good1 := f.lib.NewObject(domain.KindTrack, playable("See No Evil"), true)
	good2 := f.lib.NewObject(domain.KindTrack, playable("Venus"), true)
	// An album where a track belongs makes the add-ref fail part-way.
	bad := f.lib.NewObject(domain.KindAlbum, nil, true)
	f.lib.StageAlbumBrowse(raw, domain.AlbumBrowseResult{Tracks: []domain.Handle{good1, good2, bad}}, domain.ResultOk)

	album := f.album(t, raw)
	completions := 0
	album.OnLoaded(func() { completions++ })

	op, err := album.LoadExtendedMetadata()
	require.NoError(t, err)
	f.process(t)

	assert.Equal(t, session.OutcomeError, op.Outcome())
	require.ErrorIs(t, op.Err(), domain.ErrOperationFailed)
	assert.Zero(t, completions)
	assert.Empty(t, album.Tracks())
	assert.False(t, album.HasExtendedMetadata())

	for _, tr := range []domain.Handle{good1, good2} {
		assert.Equal(t, 1, f.lib.AddRefCount(tr))
		assert.Equal(t, 1, f.lib.ReleaseCount(tr))
	}
	browses := f.lib.Browses()
	require.Len(t, browses, 1)
	assert.Equal(t, 1, f.lib.ReleaseCount(browses[0]))
}

// brokenTrackInfo panics when the metadata of one track is read.
type brokenTrackInfo struct {
	*fake.Library
	broken domain.Handle
}

func (b *brokenTrackInfo) TrackInfo(h domain.Handle) domain.TrackInfo {
	if h == b.broken {
		panic("track metadata unreadable")
	}
	return b.Library.TrackInfo(h)
}

func TestAlbumBrowse_ChildPanicReleasesChildren(t *testing.T) {
	native := &brokenTrackInfo{}
	f := newWrappedFixture(t, nil, func(lib *fake.Library) ports.Native {
		native.Library = lib
		return native
	})
	f.expectNoLeaks(t)

	raw := f.lib.NewObject(domain.KindAlbum, domain.AlbumInfo{Name: "Horses"}, true)
	tracks := []domain.Handle{
		f.lib.NewObject(domain.KindTrack, playable("Gloria"), true),
		f.lib.NewObject(domain.KindTrack, playable("Redondo Beach"), true),
		f.lib.NewObject(domain.KindTrack, playable("Birdland"), true),
	}
	native.broken = tracks[2]
	f.lib.StageAlbumBrowse(raw, domain.AlbumBrowseResult{Album: raw, Tracks: tracks}, domain.ResultOk)

	album := f.album(t, raw)
	subs := f.bus.SubscriberCountFor(domain.EventMetadataUpdated)

	op, err := album.LoadExtendedMetadata()
	require.NoError(t, err)
	f.process(t)

	assert.Equal(t, session.OutcomeError, op.Outcome())
	require.Error(t, op.Err())
	assert.Empty(t, album.Tracks())
	assert.Zero(t, f.s.PendingBrowses())

	for _, tr := range tracks {
		assert.Equal(t, 1, f.lib.AddRefCount(tr))
		assert.Equal(t, 1, f.lib.ReleaseCount(tr))
		assert.Zero(t, f.lib.Outstanding(tr))
	}
	assert.Equal(t, subs, f.bus.SubscriberCountFor(domain.EventMetadataUpdated), "no subscription survives the failed harvest")

	// Later updates do not reach the half-built track.
	f.lib.FireMetadataUpdated()
	f.process(t)
	assert.Equal(t, 1, f.lib.ReleaseCount(tracks[2]))
}

// immediateBrowse completes album browses before the create call returns.
type immediateBrowse struct {
	*fake.Library
}

func (b *immediateBrowse) AlbumBrowseCreate(s, album domain.Handle, done ports.BrowseCallback) domain.Handle {
	h := b.Library.AlbumBrowseCreate(s, album, done)
	if h != domain.InvalidHandle {
		_, _ = b.Library.ProcessEvents(s)
	}
	return h
}

func TestAlbumBrowse_CompletesInsideCreate(t *testing.T) {
	native := &immediateBrowse{}
	f := newWrappedFixture(t, nil, func(lib *fake.Library) ports.Native {
		native.Library = lib
		return native
	})
	f.expectNoLeaks(t)

	raw := f.lib.NewObject(domain.KindAlbum, domain.AlbumInfo{Name: "Unknown Pleasures"}, true)
	trackRaw := f.lib.NewObject(domain.KindTrack, playable("Disorder"), true)
	f.lib.StageAlbumBrowse(raw, domain.AlbumBrowseResult{Album: raw, Tracks: []domain.Handle{trackRaw}}, domain.ResultOk)

	album := f.album(t, raw)
	op, err := album.LoadExtendedMetadata()
	require.NoError(t, err)

	assert.Equal(t, session.OutcomeOK, op.Outcome())
	assert.Zero(t, f.s.PendingBrowses())
	require.Len(t, album.Tracks(), 1)

	browses := f.lib.Browses()
	require.Len(t, browses, 1)
	assert.Equal(t, 1, f.lib.ReleaseCount(browses[0]))
	assert.Zero(t, f.lib.Outstanding(browses[0]))
}

func TestArtistBrowse(t *testing.T) {
	f := newFixture(t, nil)
	f.expectNoLeaks(t)

	raw := f.lib.NewObject(domain.KindArtist, domain.ArtistInfo{Name: "Kraftwerk"}, true)
	albumRaw := f.lib.NewObject(domain.KindAlbum, domain.AlbumInfo{Name: "Computer World", Artist: raw}, true)
	hitRaw := f.lib.NewObject(domain.KindTrack, playable("Computer Love"), true)
	similarRaw := f.lib.NewObject(domain.KindArtist, domain.ArtistInfo{Name: "Cluster"}, true)
	portrait := domain.ImageID{0xaa}

	f.lib.StageArtistBrowse(raw, domain.ArtistBrowseResult{
		Artist:         raw,
		Biography:      "Düsseldorf.",
		Portraits:      []domain.ImageID{portrait},
		TopHitTracks:   []domain.Handle{hitRaw},
		Albums:         []domain.Handle{albumRaw},
		SimilarArtists: []domain.Handle{similarRaw},
	}, domain.ResultOk)

	artist := f.artist(t, raw)
	op, err := artist.LoadExtendedMetadata(domain.ArtistBrowseNoTracks)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	f.process(t)
	require.NoError(t, op.Wait(ctx))

	assert.True(t, artist.HasExtendedMetadata())
	assert.Equal(t, "Düsseldorf.", artist.Biography())
	assert.Equal(t, []domain.ImageID{portrait}, artist.Portraits())
	assert.Empty(t, artist.Tracks())
	require.Len(t, artist.TopHitTracks(), 1)
	assert.Equal(t, "Computer Love", artist.TopHitTracks()[0].Name())
	require.Len(t, artist.Albums(), 1)
	assert.True(t, artist.Albums()[0].Artist().Equal(artist))
	require.Len(t, artist.SimilarArtists(), 1)
	assert.Equal(t, "Cluster", artist.SimilarArtists()[0].Name())
}

func TestBrowse_WaitHonoursContext(t *testing.T) {
	f := newFixture(t, nil)
	f.expectNoLeaks(t)

	raw := f.lib.NewObject(domain.KindAlbum, domain.AlbumInfo{Name: "Unreleased"}, true)
	album := f.album(t, raw)

	op, err := album.LoadExtendedMetadata()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, op.Wait(ctx), context.Canceled)
	assert.Equal(t, session.OutcomePending, op.Outcome())

	browses := f.lib.Browses()
	require.Len(t, browses, 1)
	f.lib.CompleteBrowse(browses[0], domain.AlbumBrowseResult{Album: raw}, domain.ResultOk)
	f.process(t)
	assert.Equal(t, session.OutcomeOK, op.Outcome())
	assert.Equal(t, 1, f.lib.ReleaseCount(browses[0]))
}

func TestBrowse_SessionCloseAbandonsPending(t *testing.T) {
	f := newFixture(t, nil)

	raw := f.lib.NewObject(domain.KindAlbum, domain.AlbumInfo{Name: "Pending"}, true)
	album := f.album(t, raw)

	op, err := album.LoadExtendedMetadata()
	require.NoError(t, err)
	require.Equal(t, 1, f.s.PendingBrowses())

	require.NoError(t, f.s.Close())

	assert.Equal(t, session.OutcomeError, op.Outcome())
	require.ErrorIs(t, op.Err(), domain.ErrSessionClosed)
	assert.Zero(t, f.s.PendingBrowses())

	browses := f.lib.Browses()
	require.Len(t, browses, 1)
	assert.Equal(t, 1, f.lib.ReleaseCount(browses[0]))

	_, err = album.LoadExtendedMetadata()
	require.ErrorIs(t, err, domain.ErrSessionClosed)
}

func TestBrowse_ClosedTarget(t *testing.T) {
	f := newFixture(t, nil)

	raw := f.lib.NewObject(domain.KindAlbum, domain.AlbumInfo{Name: "Gone"}, true)
	album := f.album(t, raw)
	require.NoError(t, album.Close())

	_, err := album.LoadExtendedMetadata()
	require.ErrorIs(t, err, domain.ErrEntityClosed)
	assert.Empty(t, f.lib.Browses())
}

func TestSearch(t *testing.T) {
	f := newFixture(t, nil)
	f.expectNoLeaks(t)

	trackRaw := f.lib.NewObject(domain.KindTrack, playable("Dancing Queen"), true)
	artistRaw := f.lib.NewObject(domain.KindArtist, domain.ArtistInfo{Name: "ABBA"}, true)
	f.lib.StageSearch("abba", domain.SearchResult{
		Query:          "abba",
		DidYouMean:     "ABBA",
		TotalTracks:    120,
		TotalArtists:   1,
		TotalPlaylists: 1,
		Tracks:         []domain.Handle{trackRaw},
		Artists:        []domain.Handle{artistRaw},
		Playlists:      []domain.PlaylistRef{{Name: "Gold", URI: "spotify:user:x:playlist:gold"}},
	}, domain.ResultOk)

	search, op, err := f.s.Search(domain.DefaultSearchQuery("abba"))
	require.NoError(t, err)
	defer search.Close()

	assert.Equal(t, "abba", search.Query())
	assert.False(t, search.IsLoaded())
	assert.Same(t, search, op.Target())

	f.process(t)

	require.Equal(t, session.OutcomeOK, op.Outcome())
	assert.True(t, search.IsLoaded())
	assert.Equal(t, "ABBA", search.DidYouMean())
	assert.Equal(t, 120, search.TotalTracks())
	require.Len(t, search.Tracks(), 1)
	assert.Equal(t, "Dancing Queen", search.Tracks()[0].Name())
	require.Len(t, search.Artists(), 1)
	assert.Empty(t, search.Albums())
	assert.Equal(t, "Gold", search.Playlists()[0].Name)

	// The search keeps its own reference after the operation released the creation one.
	assert.Equal(t, 1, f.lib.Outstanding(search.Handle()))
}

func TestSearch_Validation(t *testing.T) {
	f := newFixture(t, nil)

	_, _, err := f.s.Search(domain.SearchQuery{})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)

	f.lib.SetFail("search_create", domain.ResultOtherTransient)
	_, _, err = f.s.Search(domain.DefaultSearchQuery("x"))
	require.ErrorIs(t, err, domain.ErrOperationFailed)
	assert.Zero(t, f.s.PendingBrowses())
}
