// Package session is the managed façade over the native media-service client library.
//
// A Session owns the single native session of the process. Every native call made
// through it, or through the entities and the Player it hands out, runs under the
// process-wide gate. Native notifications arrive through the callback dispatcher,
// which calls the CallbackHandler, updates session state and publishes one event
// per notification on the event bus.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/tejashwikalptaru/gospot/internal/domain"
	"github.com/tejashwikalptaru/gospot/internal/gate"
	"github.com/tejashwikalptaru/gospot/internal/handle"
	"github.com/tejashwikalptaru/gospot/internal/ports"
)

// live is set while a Session exists; the native library supports one per process.
var live atomic.Bool

// Option configures a Session.
type Option func(*options)

type options struct {
	gate       *gate.Gate
	apiVersion int
}

// WithGate serializes native calls through g instead of the process-wide gate.
func WithGate(g *gate.Gate) Option {
	return func(o *options) { o.gate = g }
}

// WithAPIVersion makes New fail unless the native library reports version v.
func WithAPIVersion(v int) Option {
	return func(o *options) { o.apiVersion = v }
}

// Session is the one native session of the process.
//
// Thread-safety: Session is safe for concurrent use.
type Session struct {
	id         string
	logger     *slog.Logger
	native     ports.Native
	bus        ports.FilteringEventBus
	gate       *gate.Gate
	handler    CallbackHandler
	handle     *handle.Strong
	dispatcher *dispatcher
	player     *Player

	// mu protects the fields below
	mu         sync.RWMutex
	connection domain.ConnectionState
	user       *User
	private    bool
	blob       string
	closed     bool
	pending    map[string]*BrowseOperation

	needsProcessing atomic.Bool
}

// sessionRefs releases the session handle with the session destructor.
// Sessions are not reference counted.
type sessionRefs struct {
	native ports.Native
}

func (r sessionRefs) AddRef(domain.EntityKind, domain.Handle) domain.Result {
	return domain.ResultInvalidArgument
}

func (r sessionRefs) Release(_ domain.EntityKind, h domain.Handle) domain.Result {
	return r.native.SessionRelease(h)
}

// New creates the native session. Only one Session may be live per process; a
// second call fails with domain.ErrSessionExists until the first is closed.
// A nil handler is replaced by NullHandler.
//
// On failure nothing is left behind: no native session, no subscriptions.
func New(logger *slog.Logger, native ports.Native, bus ports.FilteringEventBus, cfg domain.SessionConfig, handler CallbackHandler, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !live.CompareAndSwap(false, true) {
		return nil, domain.ErrSessionExists
	}

	o := options{gate: gate.Process()}
	for _, opt := range opts {
		opt(&o)
	}
	if handler == nil {
		handler = NullHandler{}
	}

	id := uuid.NewString()
	s := &Session{
		id:         id,
		logger:     logger.With(slog.String("component", "session"), slog.String("session_id", id)),
		native:     native,
		bus:        bus,
		gate:       o.gate,
		handler:    handler,
		connection: domain.ConnectionLoggedOut,
		pending:    make(map[string]*BrowseOperation),
	}
	s.dispatcher = newDispatcher(s)
	s.player = newPlayer(s)

	err := s.gate.Do(func() error {
		if o.apiVersion != 0 {
			if v := native.APIVersion(); v != o.apiVersion {
				return fmt.Errorf("%w: library %d, expected %d", domain.ErrAPIVersionMismatch, v, o.apiVersion)
			}
		}

		raw, r := native.SessionCreate(cfg, s.dispatcher)
		if err := s.check("session_create", r); err != nil {
			return err
		}
		h, err := handle.Adopt(s.gate, sessionRefs{native: native}, domain.KindSession, raw)
		if err != nil {
			return err
		}
		s.handle = h
		s.dispatcher.bind(raw)
		s.connection = native.ConnectionState(raw)
		return nil
	})
	if err != nil {
		live.Store(false)
		return nil, err
	}

	s.logger.Info("session created", slog.String("user_agent", cfg.UserAgent))
	return s, nil
}

// check is the single translation point from native result codes to errors.
func (s *Session) check(op string, r domain.Result) error {
	if r.IsOk() {
		return nil
	}
	var msg string
	s.gate.Run(func() { msg = s.native.ErrorMessage(r) })
	return domain.NewNativeError(op, r, msg)
}

// raw returns the native session handle, or ErrSessionClosed.
func (s *Session) raw() (domain.Handle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return domain.InvalidHandle, domain.ErrSessionClosed
	}
	return s.handle.Raw(), nil
}

// call runs one native session call under the gate and translates its result.
func (s *Session) call(op string, fn func(raw domain.Handle) domain.Result) error {
	return s.gate.Do(func() error {
		raw, err := s.raw()
		if err != nil {
			return err
		}
		return s.check(op, fn(raw))
	})
}

// ownEvent accepts events raised for this session.
func (s *Session) ownEvent(ev domain.Event) bool {
	src, ok := ev.(interface{ Source() *Session })
	return ok && src.Source() == s
}

// ID returns the identifier used in logs and events.
func (s *Session) ID() string { return s.id }

// Handle returns the native session handle. It panics after Close.
func (s *Session) Handle() domain.Handle { return s.handle.Raw() }

// Bus returns the event bus the session publishes on.
func (s *Session) Bus() ports.FilteringEventBus { return s.bus }

// Player returns the playback controller.
func (s *Session) Player() *Player { return s.player }

// Login starts an asynchronous login; the outcome arrives as a LoggedInEvent.
// Either password or blob (from a CredentialsBlobUpdatedEvent) must be given.
func (s *Session) Login(username, password string, rememberMe bool, blob string) error {
	if username == "" {
		return domain.NewValidationError("username", username, "username is required")
	}
	if password == "" && blob == "" {
		return domain.NewValidationError("password", "", "password or credentials blob is required")
	}
	return s.call("login", func(raw domain.Handle) domain.Result {
		return s.native.Login(raw, username, password, rememberMe, blob)
	})
}

// Relogin logs in the remembered user. It fails with domain.ErrNoStoredCredentials
// when no user is remembered.
func (s *Session) Relogin() error {
	return s.gate.Do(func() error {
		raw, err := s.raw()
		if err != nil {
			return err
		}
		if _, ok := s.native.RememberedUser(raw); !ok {
			return domain.ErrNoStoredCredentials
		}
		return s.check("relogin", s.native.Relogin(raw))
	})
}

// TryRelogin is Relogin reporting only whether a login was started.
func (s *Session) TryRelogin() bool {
	return s.Relogin() == nil
}

// RememberedUser returns the user Relogin would log in.
func (s *Session) RememberedUser() (string, bool) {
	var name string
	var ok bool
	_ = s.gate.Do(func() error {
		raw, err := s.raw()
		if err != nil {
			return err
		}
		name, ok = s.native.RememberedUser(raw)
		return nil
	})
	return name, ok
}

// Logout starts an asynchronous logout; completion arrives as a LoggedOutEvent.
func (s *Session) Logout() error {
	return s.call("logout", s.native.Logout)
}

// ForgetMe removes the remembered user.
func (s *Session) ForgetMe() error {
	return s.call("forget_me", s.native.ForgetMe)
}

// FlushCaches writes cached data to disk.
func (s *Session) FlushCaches() error {
	return s.call("flush_caches", s.native.FlushCaches)
}

// ProcessEvents lets the native library do its work and deliver callbacks on the
// calling goroutine. It returns when the library wants to be called again.
func (s *Session) ProcessEvents() (time.Duration, error) {
	var next time.Duration
	err := s.gate.Do(func() error {
		raw, err := s.raw()
		if err != nil {
			return err
		}
		s.needsProcessing.Store(false)
		d, r := s.native.ProcessEvents(raw)
		next = d
		return s.check("process_events", r)
	})
	return next, err
}

// NeedsProcessing reports whether the library asked for ProcessEvents since the last call.
func (s *Session) NeedsProcessing() bool {
	return s.needsProcessing.Load()
}

// ConnectionState returns the last connection state reported by the library.
func (s *Session) ConnectionState() domain.ConnectionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connection
}

// User returns the logged in user, or nil. The user is owned by the session.
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// CredentialsBlob returns the last credentials blob the library issued.
func (s *Session) CredentialsBlob() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.blob
}

// SetPreferredBitrate selects the streaming bitrate.
func (s *Session) SetPreferredBitrate(bitrate domain.Bitrate) error {
	return s.call("set_preferred_bitrate", func(raw domain.Handle) domain.Result {
		return s.native.SetPreferredBitrate(raw, bitrate)
	})
}

// SetPrivateSession enables or disables private mode.
func (s *Session) SetPrivateSession(enabled bool) error {
	err := s.call("set_private_session", func(raw domain.Handle) domain.Result {
		return s.native.SetPrivateSession(raw, enabled)
	})
	if err == nil {
		s.mu.Lock()
		s.private = enabled
		s.mu.Unlock()
	}
	return err
}

// IsPrivateSession reports whether private mode is on.
func (s *Session) IsPrivateSession() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.private
}

// OfflineSyncStatus returns the offline synchronization status; ok is false when
// no synchronization is in progress.
func (s *Session) OfflineSyncStatus() (status domain.OfflineSyncStatus, ok bool) {
	_ = s.gate.Do(func() error {
		raw, err := s.raw()
		if err != nil {
			return err
		}
		status, ok = s.native.OfflineSyncStatus(raw)
		return nil
	})
	return status, ok
}

// PendingBrowses returns the number of browse operations still waiting for completion.
func (s *Session) PendingBrowses() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pending)
}

func (s *Session) track(op *BrowseOperation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[op.id] = op
}

func (s *Session) untrack(op *BrowseOperation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, op.id)
}

// refreshUser replaces the session user with the one the library reports.
// Runs inside the gate.
func (s *Session) refreshUser() *User {
	raw := s.native.SessionUser(s.handle.Raw())

	s.mu.RLock()
	current := s.user
	s.mu.RUnlock()

	if current != nil && !current.isClosed() && current.h.Raw() == raw {
		return current
	}

	var next *User
	if raw != domain.InvalidHandle {
		h, err := handle.Acquire(s.gate, s.native, domain.KindUser, raw)
		if err != nil {
			s.logger.Warn("failed to acquire session user", slog.Any("error", err))
		} else {
			next = newUser(s, h)
		}
	}

	s.mu.Lock()
	s.user = next
	s.mu.Unlock()

	if current != nil {
		_ = current.Close()
	}
	return next
}

// dropUser closes the session user. Runs inside the gate.
func (s *Session) dropUser() {
	s.mu.Lock()
	current := s.user
	s.user = nil
	s.mu.Unlock()

	if current != nil {
		_ = current.Close()
	}
}

// refreshConnection reads the connection state. Runs inside the gate.
func (s *Session) refreshConnection() domain.ConnectionState {
	state := s.native.ConnectionState(s.handle.Raw())

	s.mu.Lock()
	s.connection = state
	s.mu.Unlock()
	return state
}

// Close logs out when logged in, fails every pending browse operation, closes the
// session user and releases the native session. Closing twice is a no-op.
func (s *Session) Close() error {
	var errs []error

	s.gate.Run(func() {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		s.closed = true
		pending := slices.Collect(maps.Values(s.pending))
		clear(s.pending)
		state := s.connection
		s.mu.Unlock()

		raw := s.handle.Raw()

		if s.player.IsPlaying() || s.player.Track() != nil {
			if err := s.player.unload(raw); err != nil {
				errs = append(errs, err)
			}
		}
		if state == domain.ConnectionLoggedIn || state == domain.ConnectionOffline {
			if err := s.check("logout", s.native.Logout(raw)); err != nil {
				errs = append(errs, err)
			}
		}
		for _, op := range pending {
			op.abandon()
		}
		s.dropUser()

		s.dispatcher.unbind()
		if err := s.handle.Release(); err != nil {
			errs = append(errs, err)
		}
		live.Store(false)
		s.logger.Info("session closed")
	})

	return errors.Join(errs...)
}
