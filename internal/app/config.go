package app

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/tejashwikalptaru/gospot/internal/domain"
	"github.com/tejashwikalptaru/gospot/internal/logger"
	"github.com/tejashwikalptaru/gospot/internal/ports"
)

// Native library selections.
const (
	NativeLibspotify = "libspotify"
	NativeFake       = "fake"
)

// Config holds application configuration.
type Config struct {
	// AppName is the display name
	AppName string `toml:"app_name"`

	// Native selects the native library: "libspotify" or "fake"
	Native string `toml:"native"`

	// Session is handed to the native library
	Session domain.SessionConfig `toml:"session"`

	// ApplicationKey is the application key in hex. It takes precedence over ApplicationKeyFile.
	ApplicationKey string `toml:"application_key"`

	// ApplicationKeyFile is the path of the binary application key
	ApplicationKeyFile string `toml:"application_key_file"`

	// Username and Password are used when no stored credentials exist.
	// The password is only read from the environment.
	Username string `toml:"username"`
	Password string `toml:"-"`

	// RememberMe asks the library to remember the user and keeps credentials blobs
	RememberMe bool `toml:"remember_me"`

	// CredentialsDir holds the credentials file; empty keeps credentials in memory
	CredentialsDir string `toml:"credentials_dir"`

	// Bitrate is the preferred streaming bitrate: "96k", "160k" or "320k"
	Bitrate string `toml:"bitrate"`

	// PrivateSession enables private mode after login
	PrivateSession bool `toml:"private_session"`

	// MaxProcessInterval caps the wait between two ProcessEvents calls
	MaxProcessInterval time.Duration `toml:"max_process_interval"`

	// LoginTimeout bounds how long Login waits for the library's answer
	LoginTimeout time.Duration `toml:"login_timeout"`

	// Log configures the logger
	Log LogConfig `toml:"log"`

	// TestNative allows injecting a native library for testing (nil for production)
	TestNative ports.Native `toml:"-"`

	// TestCredentials allows injecting a credentials repository for testing
	TestCredentials ports.CredentialsRepository `toml:"-"`
}

// LogConfig holds the logger settings of the config file.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// LoggerConfig converts the settings into a logger.Config.
func (c LogConfig) LoggerConfig() logger.Config {
	format := "text"
	if strings.EqualFold(c.Format, "json") {
		format = "json"
	}
	return logger.Config{
		Level:  logger.ParseLevel(c.Level, slog.LevelInfo),
		Format: format,
	}
}

// DefaultConfig returns the default application configuration.
// GOSPOT_NATIVE, GOSPOT_USERNAME, GOSPOT_PASSWORD and GOSPOT_APPKEY_FILE override
// the matching fields; logging follows logger.DefaultConfig.
func DefaultConfig() Config {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	loggerCfg := logger.DefaultConfig()
	cfg := Config{
		AppName: "gospot",
		Native:  NativeLibspotify,
		Session: domain.SessionConfig{
			CacheLocation:    filepath.Join(cacheDir, "gospot"),
			SettingsLocation: filepath.Join(configDir, "gospot"),
			UserAgent:        "gospot/" + Version,
		},
		ApplicationKeyFile: "spotify_appkey.key",
		RememberMe:         true,
		CredentialsDir:     filepath.Join(configDir, "gospot"),
		Bitrate:            "160k",
		MaxProcessInterval: time.Second,
		LoginTimeout:       30 * time.Second,
		Log: LogConfig{
			Level:  loggerCfg.Level.String(),
			Format: loggerCfg.Format,
		},
	}

	if v := os.Getenv("GOSPOT_NATIVE"); v != "" {
		cfg.Native = v
	}
	if v := os.Getenv("GOSPOT_USERNAME"); v != "" {
		cfg.Username = v
	}
	cfg.Password = os.Getenv("GOSPOT_PASSWORD")
	if v := os.Getenv("GOSPOT_APPKEY_FILE"); v != "" {
		cfg.ApplicationKeyFile = v
	}
	return cfg
}

// LoadConfig reads a TOML file on top of DefaultConfig. Relative key and
// credentials paths are resolved against the file's directory. Unknown keys are
// rejected so typos do not go unnoticed.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return Config{}, domain.NewValidationError("config", strings.Join(keys, ","), "unknown configuration keys")
	}

	base := filepath.Dir(path)
	if md.IsDefined("application_key_file") && !filepath.IsAbs(cfg.ApplicationKeyFile) {
		cfg.ApplicationKeyFile = filepath.Join(base, cfg.ApplicationKeyFile)
	}
	if md.IsDefined("credentials_dir") && cfg.CredentialsDir != "" && !filepath.IsAbs(cfg.CredentialsDir) {
		cfg.CredentialsDir = filepath.Join(base, cfg.CredentialsDir)
	}
	return cfg, nil
}

// resolveApplicationKey fills Session.ApplicationKey from the hex key or the key file.
func (c *Config) resolveApplicationKey() error {
	if len(c.Session.ApplicationKey) > 0 {
		return nil
	}
	if c.ApplicationKey != "" {
		key, err := hex.DecodeString(strings.Join(strings.Fields(c.ApplicationKey), ""))
		if err != nil {
			return domain.NewValidationError("application_key", len(c.ApplicationKey), "application key is not valid hex")
		}
		c.Session.ApplicationKey = key
		return nil
	}
	if c.ApplicationKeyFile == "" {
		return domain.NewValidationError("application_key_file", "", "application key or key file is required")
	}
	key, err := os.ReadFile(c.ApplicationKeyFile)
	if err != nil {
		return fmt.Errorf("read application key: %w", err)
	}
	c.Session.ApplicationKey = key
	return nil
}

// ParseBitrate converts "96k", "160k" or "320k" into a domain.Bitrate.
func ParseBitrate(s string) (domain.Bitrate, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "96k", "96":
		return domain.Bitrate96k, nil
	case "", "160k", "160":
		return domain.Bitrate160k, nil
	case "320k", "320":
		return domain.Bitrate320k, nil
	default:
		return 0, domain.NewValidationError("bitrate", s, "bitrate must be 96k, 160k or 320k")
	}
}

// Validate checks the settings that are not validated by the session itself.
func (c Config) Validate() error {
	if c.Native != NativeLibspotify && c.Native != NativeFake {
		return domain.NewValidationError("native", c.Native, "native must be libspotify or fake")
	}
	if _, err := ParseBitrate(c.Bitrate); err != nil {
		return err
	}
	if c.MaxProcessInterval <= 0 {
		return domain.NewValidationError("max_process_interval", c.MaxProcessInterval, "interval must be positive")
	}
	if c.LoginTimeout <= 0 {
		return domain.NewValidationError("login_timeout", c.LoginTimeout, "timeout must be positive")
	}
	return nil
}
