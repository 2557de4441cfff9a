package config

import (
	"log/slog"
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

	assert.Equal(t, ":8082", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowOrigins)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "alumni-chat.db", cfg.Store.DSN)
	assert.Equal(t, 10*time.Second, cfg.WS.PingInterval)
	assert.Equal(t, 15*time.Second, cfg.WS.PongTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ALUMNI_CHAT_SERVER_ADDR", ":9000")
	t.Setenv("ALUMNI_CHAT_STORE_DRIVER", "memory")
	t.Setenv("ALUMNI_CHAT_AUTH_JWT_SECRET", "s3cret")
	t.Setenv("ALUMNI_CHAT_WS_PONG_TIMEOUT", "30s")
	t.Setenv("ALUMNI_CHAT_SERVER_ALLOW_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 30*time.Second, cfg.WS.PongTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowOrigins)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.yaml")
	content := `
server:
  addr: ":7000"
  mode: release
store:
  driver: mysql
  dsn: "chat:chat@tcp(db:3306)/chat?parseTime=true"
ws:
  ping_interval: 5s
  pong_timeout: 12s
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "mysql", cfg.Store.Driver)
	assert.Equal(t, 5*time.Second, cfg.WS.PingInterval)
	assert.Equal(t, 12*time.Second, cfg.WS.PongTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Store: StoreConfig{Driver: "sqlite", DSN: "x.db"},
			WS:    WSConfig{PingInterval: time.Second, PongTimeout: 2 * time.Second},
		}
	}

	c := base()
	assert.NoError(t, c.Validate())

	c = base()
	c.Store.Driver = "redis"
	assert.ErrorContains(t, c.Validate(), "unknown store.driver")

	c = base()
	c.Store.DSN = ""
	assert.ErrorContains(t, c.Validate(), "store.dsn is required")

	c = base()
	c.Store = StoreConfig{Driver: "memory"}
	assert.NoError(t, c.Validate())

	c = base()
	c.WS.PongTimeout = c.WS.PingInterval
	assert.Error(t, c.Validate())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARNING"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestSetupLogger_WritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.log")
	logger, cleanup := SetupLogger(LogConfig{Level: "info", File: path})
	logger.Info("hello", "user_id", 7)
	require.NoError(t, cleanup())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"user_id":7`)
}

func TestOpenKV_Memory(t *testing.T) {
	kv, err := OpenKV(StoreConfig{Driver: "memory"})
	require.NoError(t, err)
	defer kv.Close()
}

func TestOpenKV_SQLite(t *testing.T) {
	kv, err := OpenKV(StoreConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "chat.db")})
	require.NoError(t, err)
	defer kv.Close()
}
