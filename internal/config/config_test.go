package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(body), 0o600))
}

func TestLoadDefaultsWithoutConfigFile(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Dir)
	assert.Equal(t, DriverTOML, cfg.Store.Driver)
	assert.Equal(t, filepath.Join(dir, "subscriptions.toml"), cfg.Store.Path)
	assert.Equal(t, uint64(3), cfg.Store.ListRetries)
	assert.Equal(t, "127.0.0.1:8741", cfg.Server.Listen)
	assert.Equal(t, filepath.Join(dir, "secrets"), cfg.Secrets.Dir)
	assert.Equal(t, SecretsAuto, cfg.Secrets.Backend)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Empty(t, cfg.Log.File)
	assert.Equal(t, cfg.Store.Path, cfg.Viper().GetString(KeyStorePath))
}

func TestLoadReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
[store]
driver = "sqlite"

[server]
listen = ":9000"
token_ref = "server"

[log]
level = "debug"
file = "shred.log"

[user]
email = "ops@example.com"
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, filepath.Join(dir, "subscriptions.db"), cfg.Store.Path)
	assert.Equal(t, ":9000", cfg.Server.Listen)
	assert.Equal(t, "server", cfg.Server.TokenRef)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, filepath.Join(dir, "shred.log"), cfg.Log.File)
	assert.Equal(t, "ops@example.com", cfg.User.Email)
}

func TestLoadAppliesEnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
[store]
driver = "toml"
`)
	t.Setenv("SHRED_STORE_DRIVER", "http")
	t.Setenv("SHRED_STORE_URL", "https://spend.example.com")
	t.Setenv("SHRED_STORE_TOKEN_REF", "env:SPEND_TOKEN")
	t.Setenv("SHRED_STORE_LIST_RETRIES", "5")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, DriverHTTP, cfg.Store.Driver)
	assert.Equal(t, "https://spend.example.com", cfg.Store.URL)
	assert.Equal(t, "env:SPEND_TOKEN", cfg.Store.TokenRef)
	assert.Equal(t, uint64(5), cfg.Store.ListRetries)
}

func TestLoadExpandsHomeInPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := t.TempDir()
	writeConfig(t, dir, `
[store]
path = "~/books/subs.toml"
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "books", "subs.toml"), cfg.Store.Path)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "unknown driver", body: "[store]\ndriver = \"redis\"\n", wantErr: "unsupported value"},
		{name: "http without url", body: "[store]\ndriver = \"http\"\n", wantErr: "store.url is required"},
		{name: "unknown secrets backend", body: "[secrets]\nbackend = \"vault\"\n", wantErr: "secrets.backend"},
		{name: "bad log level", body: "[log]\nlevel = \"loud\"\n", wantErr: "log.level"},
		{name: "malformed file", body: "[store\n", wantErr: "read config"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tc.body)

			_, err := Load(dir)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestDefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvHomeDir, "")

	dir, err := DefaultDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".spendshred"), dir)

	t.Setenv(EnvHomeDir, "~/alt")
	dir, err = DefaultDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "alt"), dir)
}
