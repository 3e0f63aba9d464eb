// Package config loads server configuration from an optional YAML file with
// POSTERCAST_* environment variables taking precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines relay server configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Rooms  RoomsConfig  `yaml:"rooms"`
	State  StateConfig  `yaml:"state"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// MaxBodyBytes bounds write bodies; embedded file data makes these large.
	MaxBodyBytes int64 `yaml:"maxBodyBytes"`
}

type RoomsConfig struct {
	// TTL is the inactivity window after which a room is forgotten.
	TTL Duration `yaml:"ttl"`
}

// Duration parses yaml scalars like "90s" or "1h" via time.ParseDuration.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

type StateConfig struct {
	// DSN selects the snapshot backend: empty for in-memory only, a bare
	// path or file:// for JSON, sqlite://, postgres://.
	DSN string `yaml:"dsn"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Rooms: RoomsConfig{
			TTL: Duration(time.Hour),
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("POSTERCAST_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("POSTERCAST_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("POSTERCAST_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid POSTERCAST_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if ttlStr := os.Getenv("POSTERCAST_ROOM_TTL"); ttlStr != "" {
		ttl, err := time.ParseDuration(ttlStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid POSTERCAST_ROOM_TTL: %w", err)
		}
		cfg.Rooms.TTL = Duration(ttl)
	}
	if dsn := os.Getenv("POSTERCAST_STATE_DSN"); dsn != "" {
		cfg.State.DSN = dsn
	}
	if level := os.Getenv("POSTERCAST_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	return cfg, nil
}

// Addr is the listen address in host:port form.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
