package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/tejashwikalptaru/gospot/internal/app"
)

// TestAppGraphValidity verifies that the dependency graph is resolvable.
func TestAppGraphValidity(t *testing.T) {
	err := fx.ValidateApp(AppOptions)
	require.NoError(t, err, "dependency graph is not valid")
}

func TestNewLogger(t *testing.T) {
	log := newLogger(app.DefaultConfig())
	require.NotNil(t, log)
	log.Info("test logger initialization")
}

func TestNewConfig_Defaults(t *testing.T) {
	old := configPath
	configPath = ""
	t.Cleanup(func() { configPath = old })

	config, err := newConfig()
	require.NoError(t, err)
	assert.Equal(t, app.DefaultConfig().AppName, config.AppName)
}

// TestEndToEndStartup starts and stops the daemon on the fake native library.
func TestEndToEndStartup(t *testing.T) {
	t.Setenv("GOSPOT_USERNAME", "alice")
	t.Setenv("GOSPOT_PASSWORD", "secret")

	fxApp := fx.New(
		AppOptions,
		fx.Decorate(func(config app.Config) app.Config {
			config.Native = app.NativeFake
			config.ApplicationKey = "0102"
			config.CredentialsDir = t.TempDir()
			config.Session.CacheLocation = t.TempDir()
			config.Session.SettingsLocation = t.TempDir()
			return config
		}),
		fx.NopLogger,
	)

	require.NoError(t, fxApp.Start(t.Context()), "app failed to start")
	require.NoError(t, fxApp.Stop(t.Context()), "app failed to stop")
}
