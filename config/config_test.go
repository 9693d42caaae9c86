package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/questx-lab/agora/config"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	err := os.WriteFile(path, []byte(`
Env = "test"

[Database]
Driver = "postgres"
Host = "db"
Port = "5432"

[Auth]
TokenSecret = "secret"

[Auth.AccessToken]
Expiration = 60000000000
`), 0o600)
	require.NoError(t, err)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "test", cfg.Env)
	require.Equal(t, "postgres", cfg.Database.Driver)
	require.Equal(t, "secret", cfg.Auth.TokenSecret)
	require.Equal(t, time.Minute, cfg.Auth.AccessToken.Expiration)

	// Fields absent from the file keep their defaults.
	require.Equal(t, "access_token", cfg.Auth.AccessToken.Name)
	require.Equal(t, 100, cfg.ApiServer.MaxLimit)
	require.Equal(t,
		"host=db port=5432 user=mysql password= dbname=agora sslmode=disable",
		cfg.Database.ConnectionString())
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}
