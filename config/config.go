// Package config loads service configuration from defaults, an optional
// YAML file, a .env file and ALUMNI_CHAT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "ALUMNI_CHAT"

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Store  StoreConfig  `mapstructure:"store"`
	Auth   AuthConfig   `mapstructure:"auth"`
	WS     WSConfig     `mapstructure:"ws"`
	Log    LogConfig    `mapstructure:"log"`
}

type ServerConfig struct {
	Addr         string   `mapstructure:"addr"`
	Mode         string   `mapstructure:"mode"` // gin mode: debug, release, test
	AllowOrigins []string `mapstructure:"allow_origins"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver"` // memory, sqlite, mysql
	DSN    string `mapstructure:"dsn"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

type WSConfig struct {
	PingInterval time.Duration `mapstructure:"ping_interval"`
	PongTimeout  time.Duration `mapstructure:"pong_timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8082")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.allow_origins", []string{"*"})
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", "alumni-chat.db")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("ws.ping_interval", 10*time.Second)
	v.SetDefault("ws.pong_timeout", 15*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// Load builds the configuration. configFile may be empty; a missing .env is ignored.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	c.Server.AllowOrigins = splitList(strings.Join(c.Server.AllowOrigins, ","))
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks settings every command needs. The JWT secret is checked by serve.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "memory":
	case "sqlite", "mysql":
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for driver %q", c.Store.Driver)
		}
	default:
		return fmt.Errorf("unknown store.driver %q (want memory, sqlite or mysql)", c.Store.Driver)
	}
	if c.WS.PingInterval <= 0 || c.WS.PongTimeout <= c.WS.PingInterval {
		return errors.New("ws.pong_timeout must be greater than ws.ping_interval")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
