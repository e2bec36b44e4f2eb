// Package config loads vine's YAML configuration.
//
// Defaults are applied first, then the file, then the environment
// (VINE_ENCRYPTION_KEY, VINE_REDIS_PASSWORD), then command-line flags,
// which the caller applies to the returned value.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given. It may be absent.
const DefaultPath = "vine.yaml"

const (
	EnvEncryptionKey = "VINE_ENCRYPTION_KEY"
	EnvRedisPassword = "VINE_REDIS_PASSWORD"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Features lists the feature names the binary can host.
var Features = []string{"inventory", "counter", "counters"}

// Config is the full configuration.
type Config struct {
	LogLevel string        `yaml:"log_level"`
	Feature  string        `yaml:"feature"`
	Store    StoreConfig   `yaml:"store"`
	Runtime  RuntimeConfig `yaml:"runtime"`
	Fact     FactConfig    `yaml:"fact"`
	HTTP     HTTPConfig    `yaml:"http"`
	Metrics  MetricsConfig `yaml:"metrics"`
}

// StoreConfig selects and configures the snapshot store.
type StoreConfig struct {
	Backend string        `yaml:"backend"`
	Path    string        `yaml:"path"`
	Prefix  string        `yaml:"prefix"`
	TTL     time.Duration `yaml:"ttl"`
	LockTTL time.Duration `yaml:"lock_ttl"`

	// EncryptionKey enables AES-GCM snapshots (32 bytes, hex or base64).
	EncryptionKey string   `yaml:"encryption_key"`
	FallbackKeys  []string `yaml:"fallback_keys"`

	// MaskFields are regexps; matching string fields are stored as "***".
	MaskFields []string `yaml:"mask_fields"`

	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig addresses a Redis server.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// RuntimeConfig tunes the effect runner.
type RuntimeConfig struct {
	// TickInterval overrides every timer's interval when non-zero.
	TickInterval time.Duration `yaml:"tick_interval"`
	Timeout      time.Duration `yaml:"timeout"`
	// AllowEffects restricts run effects by name. Empty allows all.
	AllowEffects []string `yaml:"allow_effects"`
}

// FactConfig configures the fact lookup used by the counter features.
type FactConfig struct {
	BaseURL  string        `yaml:"base_url"`
	Timeout  time.Duration `yaml:"timeout"`
	Attempts int           `yaml:"attempts"`
	Backoff  time.Duration `yaml:"backoff"`
	Offline  bool          `yaml:"offline"`
}

// HTTPConfig configures `vine serve`.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// MetricsConfig exposes /metrics on its own listener for run and mcp.
// Empty disables it; serve always mounts /metrics on its own router.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		LogLevel: "info",
		Feature:  "inventory",
		Store: StoreConfig{
			Backend: BackendFile,
			Path:    ".vine/sessions",
			Prefix:  "vine:session:",
			LockTTL: 30 * time.Second,
			Redis: RedisConfig{
				Addr: "localhost:6379",
			},
		},
		Runtime: RuntimeConfig{
			Timeout: 30 * time.Second,
		},
		Fact: FactConfig{
			BaseURL:  "http://numbersapi.com",
			Timeout:  5 * time.Second,
			Attempts: 3,
			Backoff:  200 * time.Millisecond,
		},
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
	}
}

// Load reads path over the defaults. An empty path reads DefaultPath if
// it exists; an explicit path must exist.
func Load(path string) (Config, error) {
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = DefaultPath
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := Decode(bytes.NewReader(data), &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode overlays the YAML document in r onto cfg. Unknown keys are errors.
func Decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvEncryptionKey); v != "" {
		c.Store.EncryptionKey = v
	}
	if v := os.Getenv(EnvRedisPassword); v != "" {
		c.Store.Redis.Password = v
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if !isFeature(c.Feature) {
		errs = append(errs, fmt.Errorf("feature %q: must be one of %s", c.Feature, strings.Join(Features, ", ")))
	}
	switch c.Store.Backend {
	case BackendMemory, BackendFile, BackendRedis:
	default:
		errs = append(errs, fmt.Errorf("store.backend %q: must be memory, file or redis", c.Store.Backend))
	}
	if c.Store.Backend == BackendRedis && c.Store.Redis.Addr == "" {
		errs = append(errs, errors.New("store.redis.addr is required for the redis backend"))
	}
	if c.Store.TTL < 0 || c.Runtime.TickInterval < 0 || c.Runtime.Timeout < 0 || c.Fact.Timeout < 0 {
		errs = append(errs, errors.New("durations must not be negative"))
	}
	for _, p := range c.Store.MaskFields {
		if _, err := regexp.Compile(p); err != nil {
			errs = append(errs, fmt.Errorf("store.mask_fields %q: %w", p, err))
		}
	}
	if c.Fact.Attempts < 1 {
		errs = append(errs, fmt.Errorf("fact.attempts %d: must be at least 1", c.Fact.Attempts))
	}
	return errors.Join(errs...)
}

func isFeature(name string) bool {
	for _, f := range Features {
		if f == name {
			return true
		}
	}
	return false
}
