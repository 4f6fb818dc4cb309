// Package config loads the CLI configuration file.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration of the dataflow CLI.
type Config struct {
	LogLevel string      `mapstructure:"log_level"`
	Server   ServerConf  `mapstructure:"server"`
	Store    StoreConf   `mapstructure:"store"`
	Redis    RedisConf   `mapstructure:"redis"`
	Metrics  MetricsConf `mapstructure:"metrics"`
}

type ServerConf struct {
	Addr string `mapstructure:"addr"`
}

// StoreConf selects where module state snapshots go.
type StoreConf struct {
	// Kind is one of "memory", "file" or "redis".
	Kind   string `mapstructure:"kind"`
	Dir    string `mapstructure:"dir"`
	Format string `mapstructure:"format"`
	// EncryptionKey is a hex encoded AES-256 key. Empty disables encryption.
	EncryptionKey string `mapstructure:"encryption_key"`
	// Mask lists regular expressions; matching state keys are masked before saving.
	Mask []string `mapstructure:"mask"`
}

// Key decodes EncryptionKey. It returns nil when encryption is disabled.
func (s StoreConf) Key() ([]byte, error) {
	if s.EncryptionKey == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(s.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("%w: store.encryption_key: %v", ErrInvalid, err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("%w: store.encryption_key must be 32 bytes, got %d", ErrInvalid, len(key))
	}
	return key, nil
}

type RedisConf struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
	// Lock enables the distributed module lock.
	Lock bool `mapstructure:"lock"`
}

type MetricsConf struct {
	Enabled bool `mapstructure:"enabled"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		LogLevel: "info",
		Server:   ServerConf{Addr: ":8080"},
		Store:    StoreConf{Kind: "memory", Dir: ".dataflow/state", Format: "yaml"},
		Redis:    RedisConf{Addr: "localhost:6379", Prefix: "dataflow:state:"},
		Metrics:  MetricsConf{Enabled: true},
	}
}

// ErrInvalid is returned for a configuration that parses but cannot be used.
var ErrInvalid = errors.New("invalid configuration")

// Load reads path on top of Default. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of Default.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if raw == nil {
		return cfg, nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return cfg, err
	}
	if err := dec.Decode(raw); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	switch c.Store.Kind {
	case "memory", "file", "redis":
	default:
		return fmt.Errorf("%w: store.kind %q", ErrInvalid, c.Store.Kind)
	}
	if _, err := c.Store.Key(); err != nil {
		return err
	}
	if c.Redis.Lock && c.Redis.Addr == "" {
		return fmt.Errorf("%w: redis.lock requires redis.addr", ErrInvalid)
	}
	return nil
}
