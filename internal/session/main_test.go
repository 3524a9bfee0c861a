package session_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/gospot/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/gospot/internal/adapter/native/fake"
	"github.com/tejashwikalptaru/gospot/internal/domain"
	"github.com/tejashwikalptaru/gospot/internal/gate"
	"github.com/tejashwikalptaru/gospot/internal/logger"
	"github.com/tejashwikalptaru/gospot/internal/ports"
	"github.com/tejashwikalptaru/gospot/internal/session"
	"github.com/tejashwikalptaru/gospot/internal/testutil"
)

func TestMain(m *testing.M) {
	testutil.VerifyMain(m)
}

// fixture is a live session over a fresh fake library.
type fixture struct {
	lib *fake.Library
	bus *eventbus.SyncEventBus
	g   *gate.Gate
	s   *session.Session
}

func testConfig() domain.SessionConfig {
	return domain.SessionConfig{
		ApplicationKey: []byte{0x01, 0x02, 0x03},
		UserAgent:      "gospot-test",
		CacheLocation:  "tmp",
	}
}

func newFixture(t *testing.T, handler session.CallbackHandler) *fixture {
	t.Helper()
	return newWrappedFixture(t, handler, func(lib *fake.Library) ports.Native { return lib })
}

// newWrappedFixture hands the session the native returned by wrap instead of the
// bare fake, for tests that need a misbehaving accessor.
func newWrappedFixture(t *testing.T, handler session.CallbackHandler, wrap func(*fake.Library) ports.Native) *fixture {
	t.Helper()

	log := logger.NewTestLogger()
	lib := fake.New(log)
	bus := eventbus.NewSyncEventBus(log)

	g := gate.New()
	s, err := session.New(log, wrap(lib), bus, testConfig(), handler, session.WithGate(g))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
		_ = bus.Close()
	})
	return &fixture{lib: lib, bus: bus, g: g, s: s}
}

// process runs one ProcessEvents round.
func (f *fixture) process(t *testing.T) {
	t.Helper()
	_, err := f.s.ProcessEvents()
	require.NoError(t, err)
}

func (f *fixture) login(t *testing.T, username string) {
	t.Helper()
	require.NoError(t, f.s.Login(username, "secret", false, ""))
	f.process(t)
	require.NotNil(t, f.s.User())
}

// link parses a uri registered with the fake and closes the link after the test.
func (f *fixture) link(t *testing.T, u string, typ domain.LinkType, target domain.Handle) *session.Link {
	t.Helper()
	f.lib.RegisterLink(u, typ, target, 0)
	l, err := f.s.Link(u)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func (f *fixture) track(t *testing.T, raw domain.Handle) *session.Track {
	t.Helper()
	tr, _, err := f.link(t, uri("track", raw), domain.LinkTrack, raw).AsTrack()
	require.NoError(t, err)
	t.Cleanup(func() { _ = tr.Close() })
	return tr
}

func (f *fixture) album(t *testing.T, raw domain.Handle) *session.Album {
	t.Helper()
	a, err := f.link(t, uri("album", raw), domain.LinkAlbum, raw).AsAlbum()
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func (f *fixture) artist(t *testing.T, raw domain.Handle) *session.Artist {
	t.Helper()
	a, err := f.link(t, uri("artist", raw), domain.LinkArtist, raw).AsArtist()
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

// expectNoLeaks checks, once every entity of the test is closed, that closing the
// session leaves no native reference behind. Call it right after newFixture.
func (f *fixture) expectNoLeaks(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		assert.NoError(t, f.s.Close())
		assert.Empty(t, f.lib.Leaked(), "leaked native references")
	})
}

func uri(kind string, raw domain.Handle) string {
	return fmt.Sprintf("spotify:%s:%x", kind, uintptr(raw))
}

func playable(name string) domain.TrackInfo {
	return domain.TrackInfo{Name: name, DurationMs: 180000, Availability: domain.TrackAvailable}
}
