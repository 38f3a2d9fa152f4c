package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "trading_wallet", cfg.Database.DBName)
	assert.Equal(t, int32(20), cfg.Database.MaxConns)

	assert.Equal(t, "localhost", cfg.Redis.Host)
	assert.Equal(t, 6379, cfg.Redis.Port)

	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiry)
	assert.Equal(t, "trading-wallet-service", cfg.JWT.Issuer)

	assert.Equal(t, 15*time.Second, cfg.Venue.SubmitTimeout)
	assert.Equal(t, 24*time.Hour, cfg.Venue.ReceiptTTL)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.Pretty)
}

func TestLoad_FromYAMLFile(t *testing.T) {
	content := []byte(`
server:
  port: 9090
  mode: release
database:
  host: db.internal
  dbname: wallets
venue:
  url: https://venue.example.com/api/trade
  submit_timeout: 5s
vault:
  master_key: deadbeef
log:
  level: debug
  pretty: true
`)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "wallets", cfg.Database.DBName)
	assert.Equal(t, "https://venue.example.com/api/trade", cfg.Venue.URL)
	assert.Equal(t, 5*time.Second, cfg.Venue.SubmitTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("TWS_SERVER_PORT", "7070")
	t.Setenv("TWS_JWT_SECRET", "env-secret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
}

func TestDSN_Format(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "u",
		Password: "p",
		DBName:   "wallets",
		SSLMode:  "disable",
	}
	assert.Equal(t, "postgres://u:p@localhost:5432/wallets?sslmode=disable", cfg.DSN())
}

func TestRedisAddr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.internal", Port: 6380}
	assert.Equal(t, "cache.internal:6380", cfg.Addr())
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			JWT:   JWTConfig{Secret: "s"},
			Vault: VaultConfig{MasterKey: "abc123"},
			Venue: VenueConfig{URL: "https://venue.example.com", SubmitTimeout: time.Second},
		}
	}

	assert.NoError(t, base().Validate())

	c := base()
	c.JWT.Secret = ""
	assert.Error(t, c.Validate())

	c = base()
	c.Vault.MasterKey = ""
	assert.Error(t, c.Validate())

	c = base()
	c.Vault.MasterKey = ""
	c.Vault.Passphrase = "hunter2"
	assert.Error(t, c.Validate()) // salt missing
	c.Vault.Salt = "pepper"
	assert.NoError(t, c.Validate())

	c = base()
	c.Venue.URL = ""
	assert.Error(t, c.Validate())

	c = base()
	c.Venue.SubmitTimeout = 0
	assert.Error(t, c.Validate())
}
