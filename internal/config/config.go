package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

const (
	EnvPrefix  = "SHRED"
	EnvHomeDir = "SHRED_HOME"

	configName = "config"
	configType = "toml"
	defaultDir = ".spendshred"
)

const (
	KeyStoreDriver    = "store.driver"
	KeyStorePath      = "store.path"
	KeyStoreURL       = "store.url"
	KeyStoreTokenRef  = "store.token_ref"
	KeyStoreRetries   = "store.list_retries"
	KeyServerListen   = "server.listen"
	KeyServerTokenRef = "server.token_ref"
	KeySecretsDir     = "secrets.dir"
	KeySecretsBackend = "secrets.backend"
	KeyLogLevel       = "log.level"
	KeyLogFile        = "log.file"
	KeyUserEmail      = "user.email"
)

type StoreDriver string

const (
	DriverTOML   StoreDriver = "toml"
	DriverSQLite StoreDriver = "sqlite"
	DriverHTTP   StoreDriver = "http"
)

type StoreSettings struct {
	Driver      StoreDriver `mapstructure:"driver"`
	Path        string      `mapstructure:"path"`
	URL         string      `mapstructure:"url"`
	TokenRef    string      `mapstructure:"token_ref"`
	ListRetries uint64      `mapstructure:"list_retries"`
}

type ServerSettings struct {
	Listen   string `mapstructure:"listen"`
	TokenRef string `mapstructure:"token_ref"`
}

type SecretsBackend string

const (
	SecretsAuto SecretsBackend = "auto"
	SecretsFile SecretsBackend = "file"
	SecretsPass SecretsBackend = "pass"
)

type SecretsSettings struct {
	Dir     string         `mapstructure:"dir"`
	Backend SecretsBackend `mapstructure:"backend"`
}

type LogSettings struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type UserSettings struct {
	Email string `mapstructure:"email"`
}

type Settings struct {
	Store   StoreSettings   `mapstructure:"store"`
	Server  ServerSettings  `mapstructure:"server"`
	Secrets SecretsSettings `mapstructure:"secrets"`
	Log     LogSettings     `mapstructure:"log"`
	User    UserSettings    `mapstructure:"user"`
}

// Config is the resolved configuration. Viper stays reachable for adapters
// that read their own keys.
type Config struct {
	Settings
	Dir string
	v   *viper.Viper
}

// DefaultDir is $SHRED_HOME, or ~/.spendshred.
func DefaultDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(EnvHomeDir)); dir != "" {
		return expandHome(dir)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	return filepath.Join(homeDir, defaultDir), nil
}

// Load reads dir/config.toml if present and applies SHRED_* environment
// overrides, e.g. SHRED_STORE_DRIVER for store.driver.
func Load(dir string) (*Config, error) {
	dir, err := expandHome(dir)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(dir)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, dir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := settings.normalize(dir); err != nil {
		return nil, err
	}

	v.Set(KeyStorePath, settings.Store.Path)
	v.Set(KeySecretsDir, settings.Secrets.Dir)

	return &Config{Settings: settings, Dir: dir, v: v}, nil
}

func (c *Config) Viper() *viper.Viper {
	return c.v
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault(KeyStoreDriver, string(DriverTOML))
	v.SetDefault(KeyStorePath, "")
	v.SetDefault(KeyStoreURL, "")
	v.SetDefault(KeyStoreTokenRef, "")
	v.SetDefault(KeyStoreRetries, 3)
	v.SetDefault(KeyServerListen, "127.0.0.1:8741")
	v.SetDefault(KeyServerTokenRef, "")
	v.SetDefault(KeySecretsDir, filepath.Join(dir, "secrets"))
	v.SetDefault(KeySecretsBackend, string(SecretsAuto))
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyUserEmail, "")
}

func (s *Settings) normalize(dir string) error {
	s.Store.Driver = StoreDriver(strings.ToLower(strings.TrimSpace(string(s.Store.Driver))))

	switch s.Store.Driver {
	case DriverTOML, DriverSQLite:
		if strings.TrimSpace(s.Store.Path) == "" {
			s.Store.Path = filepath.Join(dir, defaultStoreFile(s.Store.Driver))
		}
	case DriverHTTP:
		if strings.TrimSpace(s.Store.URL) == "" {
			return fmt.Errorf("config %s is required when %s is %q", KeyStoreURL, KeyStoreDriver, DriverHTTP)
		}
	default:
		return fmt.Errorf("config %s: unsupported value %q (want toml|sqlite|http)", KeyStoreDriver, s.Store.Driver)
	}

	s.Secrets.Backend = SecretsBackend(strings.ToLower(strings.TrimSpace(string(s.Secrets.Backend))))
	switch s.Secrets.Backend {
	case SecretsAuto, SecretsFile, SecretsPass:
	default:
		return fmt.Errorf("config %s: unsupported value %q (want auto|file|pass)", KeySecretsBackend, s.Secrets.Backend)
	}

	if _, err := zapcore.ParseLevel(s.Log.Level); err != nil {
		return fmt.Errorf("config %s: %w", KeyLogLevel, err)
	}

	var err error
	for _, path := range []*string{&s.Store.Path, &s.Secrets.Dir, &s.Log.File} {
		if *path == "" {
			continue
		}
		if *path, err = expandHome(*path); err != nil {
			return err
		}
	}
	if s.Log.File != "" && !filepath.IsAbs(s.Log.File) {
		s.Log.File = filepath.Join(dir, s.Log.File)
	}

	return nil
}

func defaultStoreFile(driver StoreDriver) string {
	if driver == DriverSQLite {
		return "subscriptions.db"
	}
	return "subscriptions.toml"
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	return filepath.Join(homeDir, strings.TrimPrefix(path, "~")), nil
}
