// Package main is the entry point of gospotd, a headless client daemon.
//
// gospotd creates the native session, logs in (stored credentials first) and
// drives the native event loop until it receives SIGINT or SIGTERM.
//
// Build:
//
//	go build -tags libspotify -o build/gospotd ./cmd/gospotd
//
// Run:
//
//	GOSPOT_CONFIG=gospot.toml ./build/gospotd
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/tejashwikalptaru/gospot/internal/app"
	"github.com/tejashwikalptaru/gospot/internal/logger"
)

// configPath is set from the -config flag or GOSPOT_CONFIG.
var configPath = os.Getenv("GOSPOT_CONFIG")

// AppOptions is the dependency graph of the daemon.
var AppOptions = fx.Options(
	fx.Provide(
		newConfig,
		newLogger,
		newApplication,
	),
	fx.Invoke(registerHooks),
)

func main() {
	flag.StringVar(&configPath, "config", configPath, "path to a TOML configuration file")
	version := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *version {
		fmt.Println(app.GetBuildInfo().String())
		return
	}

	fxApp := fx.New(
		AppOptions,
		fx.WithLogger(func(log *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: log.With(slog.String("component", "fx"))}
		}),
	)

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	startCtx, startCancel := context.WithTimeout(ctx, fxApp.StartTimeout())
	defer startCancel()
	if err := fxApp.Start(startCtx); err != nil {
		fmt.Fprintf(os.Stderr, "gospotd: %v\n", err)
		os.Exit(1)
	}

	exitCode := 0
	select {
	case <-ctx.Done():
	case sig := <-fxApp.Wait():
		exitCode = sig.ExitCode
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), fxApp.StopTimeout())
	defer stopCancel()
	if err := fxApp.Stop(stopCtx); err != nil {
		fmt.Fprintf(os.Stderr, "gospotd: %v\n", err)
		exitCode = 1
	}
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

// newConfig loads the config file when one is given, the defaults otherwise.
func newConfig() (app.Config, error) {
	if configPath == "" {
		return app.DefaultConfig(), nil
	}
	return app.LoadConfig(configPath)
}

// newLogger creates the slog logger every component derives from.
func newLogger(config app.Config) *slog.Logger {
	return logger.NewLogger(config.Log.LoggerConfig())
}

func newApplication(log *slog.Logger, config app.Config) (*app.Application, error) {
	return app.NewApplication(log, config)
}

// registerHooks logs in and runs the event loop between start and stop.
// A failed login or a broken event loop shuts the daemon down with exit code 1.
func registerHooks(lc fx.Lifecycle, shutdowner fx.Shutdowner, a *app.Application, log *slog.Logger) {
	var (
		cancel context.CancelFunc
		done   chan struct{}
	)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			var ctx context.Context
			ctx, cancel = context.WithCancel(context.Background())
			done = make(chan struct{})

			go func() {
				defer close(done)
				if err := a.Login(ctx); err != nil {
					if !errors.Is(err, context.Canceled) {
						log.Error("login failed", slog.Any("error", err))
						_ = shutdowner.Shutdown(fx.ExitCode(1))
					}
					return
				}
				if err := a.Run(ctx); err != nil {
					log.Error("event loop failed", slog.Any("error", err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()

			log.Info("gospotd started", slog.String("version", app.GetBuildInfo().String()))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down")
			cancel()
			select {
			case <-done:
			case <-ctx.Done():
				log.Warn("event loop did not stop in time")
			case <-time.After(10 * time.Second):
				log.Warn("event loop did not stop in time")
			}
			return a.Shutdown()
		},
	})
}
