// Package app provides application-level orchestration and dependency injection.
// This package wires together all components and manages the application lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/tejashwikalptaru/gospot/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/gospot/internal/adapter/native/fake"
	"github.com/tejashwikalptaru/gospot/internal/adapter/native/libspotify"
	"github.com/tejashwikalptaru/gospot/internal/adapter/repository/file"
	"github.com/tejashwikalptaru/gospot/internal/adapter/repository/memory"
	"github.com/tejashwikalptaru/gospot/internal/domain"
	"github.com/tejashwikalptaru/gospot/internal/ports"
	"github.com/tejashwikalptaru/gospot/internal/session"
)

// Application is the root application structure that holds all dependencies.
// It follows the Dependency Injection pattern with constructor-based injection.
//
// The Application struct is responsible for:
// - Creating and wiring all dependencies
// - Driving the native event loop
// - Persisting the credentials blobs the library hands out
type Application struct {
	logger *slog.Logger
	config Config

	// Infrastructure
	eventBus *eventbus.SyncEventBus
	native   ports.Native

	// Repositories
	credentials ports.CredentialsRepository

	session *session.Session
	subs    []domain.SubscriptionID

	// wake is signaled when the library asks for ProcessEvents
	wake chan struct{}

	shutdownOnce sync.Once
}

// NewApplication creates a new application with all dependencies wired.
// This is the main dependency injection function.
func NewApplication(log *slog.Logger, config Config, opts ...session.Option) (*Application, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	bitrate, _ := ParseBitrate(config.Bitrate)

	app := &Application{
		logger: log.With(slog.String("component", "app")),
		config: config,
		wake:   make(chan struct{}, 1),
	}
	app.logger.Info("initializing application",
		slog.String("app_name", config.AppName),
		slog.String("native", config.Native),
		slog.String("version", GetBuildInfo().String()))

	// Step 1: Create the native library
	native, err := app.newNative(log)
	if err != nil {
		return nil, err
	}
	app.native = native

	// Step 2: Create an event bus
	app.eventBus = eventbus.NewSyncEventBus(log)

	// Step 3: Create repositories
	switch {
	case config.TestCredentials != nil:
		app.credentials = config.TestCredentials
	case config.CredentialsDir == "":
		app.credentials = memory.NewCredentialsRepository()
	default:
		app.credentials = file.NewCredentialsRepository(config.CredentialsDir)
	}

	// Step 4: Subscribe before the session exists so no early callback is missed
	app.subscribe()

	// Step 5: Create the session
	if err := config.resolveApplicationKey(); err != nil {
		app.unsubscribe()
		_ = app.eventBus.Close()
		return nil, err
	}
	sessionOpts := append([]session.Option{session.WithAPIVersion(native.APIVersion())}, opts...)
	s, err := session.New(log, native, app.eventBus, config.Session, nil, sessionOpts...)
	if err != nil {
		app.unsubscribe()
		_ = app.eventBus.Close()
		return nil, fmt.Errorf("create session: %w", err)
	}
	app.session = s

	if err := s.SetPreferredBitrate(bitrate); err != nil {
		app.logger.Warn("failed to set preferred bitrate", slog.Any("error", err))
	}

	return app, nil
}

func (a *Application) newNative(log *slog.Logger) (ports.Native, error) {
	if a.config.TestNative != nil {
		return a.config.TestNative, nil
	}
	switch a.config.Native {
	case NativeFake:
		return fake.New(log), nil
	default:
		native, err := libspotify.New(log)
		if err != nil {
			return nil, fmt.Errorf("load native library: %w", err)
		}
		return native, nil
	}
}

// subscribe wires the application reactions to session events.
func (a *Application) subscribe() {
	bus := a.eventBus
	a.subs = append(a.subs,
		bus.Subscribe(domain.EventNotifyMainThread, func(domain.Event) {
			select {
			case a.wake <- struct{}{}:
			default:
			}
		}),
		bus.Subscribe(domain.EventLogMessage, func(e domain.Event) {
			if ev, ok := e.(session.LogMessageEvent); ok {
				a.logger.Debug("native", slog.String("message", strings.TrimRight(ev.Message, "\r\n")))
			}
		}),
		bus.Subscribe(domain.EventMessageToUser, func(e domain.Event) {
			if ev, ok := e.(session.MessageToUserEvent); ok {
				a.logger.Info("message from service", slog.String("message", ev.Message))
			}
		}),
		bus.Subscribe(domain.EventConnectionError, func(e domain.Event) {
			if ev, ok := e.(session.ConnectionErrorEvent); ok {
				a.logger.Warn("connection error", slog.Any("error", ev.Err))
			}
		}),
		bus.Subscribe(domain.EventConnectionStateUpdated, func(e domain.Event) {
			if ev, ok := e.(session.ConnectionStateUpdatedEvent); ok {
				a.logger.Info("connection state changed", slog.String("state", ev.State.String()))
			}
		}),
		bus.Subscribe(domain.EventCredentialsBlobUpdated, func(e domain.Event) {
			if ev, ok := e.(session.CredentialsBlobUpdatedEvent); ok {
				a.saveCredentials(ev.Session, ev.Blob)
			}
		}),
		bus.Subscribe(domain.EventLoggedIn, func(e domain.Event) {
			if ev, ok := e.(session.LoggedInEvent); ok {
				a.onLoggedIn(ev)
			}
		}),
	)
}

func (a *Application) unsubscribe() {
	for _, id := range a.subs {
		a.eventBus.Unsubscribe(id)
	}
	a.subs = nil
}

// saveCredentials keeps the blob of the logged in user for the next start.
func (a *Application) saveCredentials(s *session.Session, blob string) {
	if !a.config.RememberMe || blob == "" {
		return
	}
	username := a.config.Username
	if s != nil {
		if u := s.User(); u != nil && u.CanonicalName() != "" {
			username = u.CanonicalName()
		}
	}
	if username == "" {
		a.logger.Debug("credentials blob without a known user ignored")
		return
	}

	creds := domain.StoredCredentials{Username: username, Blob: blob, SavedAt: time.Now()}
	if err := a.credentials.Save(creds); err != nil {
		a.logger.Warn("failed to save credentials", slog.Any("error", err))
		return
	}
	a.logger.Debug("credentials saved", slog.String("username", username))
}

func (a *Application) onLoggedIn(ev session.LoggedInEvent) {
	if ev.Err != nil {
		a.logger.Error("login failed", slog.Any("error", ev.Err))
		var nerr *domain.NativeError
		if errors.As(ev.Err, &nerr) && nerr.Code == domain.ResultBadUsernameOrPassword {
			if err := a.credentials.Clear(); err != nil {
				a.logger.Warn("failed to clear credentials", slog.Any("error", err))
			}
		}
		return
	}

	name := ""
	if ev.User != nil {
		name = ev.User.Name()
	}
	a.logger.Info("logged in", slog.String("user", name))

	if a.config.PrivateSession {
		if err := a.session.SetPrivateSession(true); err != nil {
			a.logger.Warn("failed to enable private session", slog.Any("error", err))
		}
	}
}

// Login logs in and waits for the answer while driving the event loop.
// Stored credentials are preferred, then the user the library remembers,
// then the configured username and password.
func (a *Application) Login(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.config.LoginTimeout)
	defer cancel()

	result := make(chan error, 1)
	id := a.eventBus.Subscribe(domain.EventLoggedIn, func(e domain.Event) {
		if ev, ok := e.(session.LoggedInEvent); ok {
			select {
			case result <- ev.Err:
			default:
			}
		}
	})
	defer a.eventBus.Unsubscribe(id)

	if err := a.startLogin(); err != nil {
		return err
	}
	return a.pump(ctx, result)
}

func (a *Application) startLogin() error {
	creds, err := a.credentials.Load()
	switch {
	case err == nil && (a.config.Username == "" || a.config.Username == creds.Username):
		a.logger.Info("logging in with stored credentials", slog.String("username", creds.Username))
		return a.session.Login(creds.Username, "", a.config.RememberMe, creds.Blob)
	case err != nil && !errors.Is(err, domain.ErrCredentialsNotFound):
		a.logger.Warn("failed to load stored credentials", slog.Any("error", err))
	}

	if user, ok := a.session.RememberedUser(); ok && (a.config.Username == "" || a.config.Username == user) {
		a.logger.Info("logging in remembered user", slog.String("username", user))
		return a.session.Relogin()
	}

	if a.config.Username == "" || a.config.Password == "" {
		return domain.ErrNoStoredCredentials
	}
	a.logger.Info("logging in", slog.String("username", a.config.Username))
	return a.session.Login(a.config.Username, a.config.Password, a.config.RememberMe, "")
}

// Run drives the native event loop until ctx is done.
func (a *Application) Run(ctx context.Context) error {
	a.logger.Info("event loop started")
	err := a.pump(ctx, nil)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	a.logger.Info("event loop stopped")
	return err
}

// pump calls ProcessEvents when the library's timeout expires or it asks for it,
// until ctx is done or a value arrives on stop.
func (a *Application) pump(ctx context.Context, stop <-chan error) error {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-stop:
			return err
		case <-a.wake:
		case <-timer.C:
		}

		next, err := a.session.ProcessEvents()
		if err != nil {
			return fmt.Errorf("process events: %w", err)
		}
		if next <= 0 || next > a.config.MaxProcessInterval {
			next = a.config.MaxProcessInterval
		}
		timer.Reset(next)
	}
}

// Session returns the native session.
func (a *Application) Session() *session.Session {
	return a.session
}

// EventBus returns the event bus the session publishes on.
func (a *Application) EventBus() ports.FilteringEventBus {
	return a.eventBus
}

// Credentials returns the credentials repository.
func (a *Application) Credentials() ports.CredentialsRepository {
	return a.credentials
}

// Shutdown flushes caches, closes the session and releases the event bus.
// Calling it more than once is a no-op.
func (a *Application) Shutdown() error {
	var err error
	a.shutdownOnce.Do(func() {
		a.logger.Info("shutting down application")

		if ferr := a.session.FlushCaches(); ferr != nil {
			a.logger.Warn("failed to flush caches", slog.Any("error", ferr))
		}
		err = a.session.Close()
		a.unsubscribe()
		if berr := a.eventBus.Close(); berr != nil && err == nil {
			err = berr
		}

		a.logger.Info("application shutdown complete")
	})
	return err
}
