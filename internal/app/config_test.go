package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/gospot/internal/domain"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"GOSPOT_NATIVE", "GOSPOT_USERNAME", "GOSPOT_PASSWORD", "GOSPOT_APPKEY_FILE"} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	clearEnv(t)
	config := DefaultConfig()

	assert.Equal(t, "gospot", config.AppName)
	assert.Equal(t, NativeLibspotify, config.Native)
	assert.Equal(t, "160k", config.Bitrate)
	assert.Equal(t, time.Second, config.MaxProcessInterval)
	assert.True(t, config.RememberMe)
	assert.Equal(t, "gospot/"+Version, config.Session.UserAgent)
	assert.Empty(t, config.Password)
	require.NoError(t, config.Validate())
}

func TestDefaultConfig_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOSPOT_NATIVE", NativeFake)
	t.Setenv("GOSPOT_USERNAME", "alice")
	t.Setenv("GOSPOT_PASSWORD", "secret")
	t.Setenv("GOSPOT_APPKEY_FILE", "/etc/gospot/key")

	config := DefaultConfig()
	assert.Equal(t, NativeFake, config.Native)
	assert.Equal(t, "alice", config.Username)
	assert.Equal(t, "secret", config.Password)
	assert.Equal(t, "/etc/gospot/key", config.ApplicationKeyFile)
}

func TestLoadConfig(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.key"), []byte{0xde, 0xad, 0xbe, 0xef}, 0o600))

	path := filepath.Join(dir, "gospot.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
native = "fake"
application_key_file = "app.key"
username = "alice"
credentials_dir = "state"
bitrate = "320k"
private_session = true
max_process_interval = "250ms"

[session]
user_agent = "gospot-test"
cache_location = "/var/cache/gospot"
cache_size = 512

[session.proxy]
url = "socks5://localhost:1080"

[log]
level = "debug"
format = "json"
`), 0o600))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, NativeFake, config.Native)
	assert.Equal(t, "alice", config.Username)
	assert.Equal(t, filepath.Join(dir, "app.key"), config.ApplicationKeyFile)
	assert.Equal(t, filepath.Join(dir, "state"), config.CredentialsDir)
	assert.Equal(t, "320k", config.Bitrate)
	assert.True(t, config.PrivateSession)
	assert.Equal(t, 250*time.Millisecond, config.MaxProcessInterval)
	assert.Equal(t, "gospot-test", config.Session.UserAgent)
	assert.Equal(t, "/var/cache/gospot", config.Session.CacheLocation)
	assert.Equal(t, 512, config.Session.CacheSize)
	assert.Equal(t, "socks5://localhost:1080", config.Session.Proxy.URL)
	assert.Equal(t, "json", config.Log.LoggerConfig().Format)

	// unset keys keep their defaults
	assert.True(t, config.RememberMe)
	assert.Equal(t, 30*time.Second, config.LoginTimeout)

	require.NoError(t, config.resolveApplicationKey())
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, config.Session.ApplicationKey)
}

func TestLoadConfig_Errors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(dir, "nope.toml"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("unknown key", func(t *testing.T) {
		path := filepath.Join(dir, "typo.toml")
		require.NoError(t, os.WriteFile(path, []byte("usrname = \"alice\"\n"), 0o600))

		_, err := LoadConfig(path)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Value, "usrname")
	})

	t.Run("syntax", func(t *testing.T) {
		path := filepath.Join(dir, "broken.toml")
		require.NoError(t, os.WriteFile(path, []byte("native = \n"), 0o600))

		_, err := LoadConfig(path)
		require.Error(t, err)
	})
}

func TestResolveApplicationKey(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		want    []byte
		wantErr bool
	}{
		{
			name:   "hex with whitespace",
			config: Config{ApplicationKey: "01 02\n0a ff"},
			want:   []byte{0x01, 0x02, 0x0a, 0xff},
		},
		{
			name:   "hex wins over file",
			config: Config{ApplicationKey: "aa", ApplicationKeyFile: "/does/not/exist"},
			want:   []byte{0xaa},
		},
		{
			name:    "bad hex",
			config:  Config{ApplicationKey: "xyz"},
			wantErr: true,
		},
		{
			name:    "missing file",
			config:  Config{ApplicationKeyFile: "/does/not/exist"},
			wantErr: true,
		},
		{
			name:    "nothing",
			config:  Config{},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := tt.config
			err := config.resolveApplicationKey()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, config.Session.ApplicationKey)
		})
	}
}

func TestParseBitrate(t *testing.T) {
	tests := []struct {
		in      string
		want    domain.Bitrate
		wantErr bool
	}{
		{"96k", domain.Bitrate96k, false},
		{"160K", domain.Bitrate160k, false},
		{"", domain.Bitrate160k, false},
		{" 320k ", domain.Bitrate320k, false},
		{"128k", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseBitrate(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestConfig_Validate(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"native", func(c *Config) { c.Native = "winamp" }, "native"},
		{"bitrate", func(c *Config) { c.Bitrate = "1k" }, "bitrate"},
		{"interval", func(c *Config) { c.MaxProcessInterval = 0 }, "max_process_interval"},
		{"login timeout", func(c *Config) { c.LoginTimeout = -time.Second }, "login_timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(&config)

			var verr *domain.ValidationError
			require.ErrorAs(t, config.Validate(), &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}
