// Package config loads the BizPulse client configuration from YAML and
// applies defaults for anything unset.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from "2s" style YAML values.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the top-level client configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Polling PollingConfig `yaml:"polling"`
	Cache   CacheConfig   `yaml:"cache"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
}

// APIConfig configures the backend HTTP client.
type APIConfig struct {
	BaseURL         string   `yaml:"base_url"`
	AuthToken       string   `yaml:"auth_token"`
	RequestTimeout  Duration `yaml:"request_timeout"`
	RateLimitRPS    float64  `yaml:"rate_limit_rps"`
	RateLimitBurst  int      `yaml:"rate_limit_burst"`
	BreakerFailures uint32   `yaml:"breaker_failures"`
	BreakerTimeout  Duration `yaml:"breaker_timeout"`
}

// PollingConfig tunes the generation poll cycle.
type PollingConfig struct {
	Interval Duration `yaml:"interval"`
	Timeout  Duration `yaml:"timeout"`
}

// CacheConfig tunes the settings cache.
type CacheConfig struct {
	SettingsTTL Duration `yaml:"settings_ttl"`
}

// ServerConfig configures the local status server.
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// LogConfig configures logging output.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL:         "http://localhost:8000",
			RequestTimeout:  Duration(15 * time.Second),
			RateLimitRPS:    5.0,
			RateLimitBurst:  10,
			BreakerFailures: 5,
			BreakerTimeout:  Duration(30 * time.Second),
		},
		Polling: PollingConfig{
			Interval: Duration(2 * time.Second),
			Timeout:  Duration(60 * time.Second),
		},
		Cache: CacheConfig{
			SettingsTTL: Duration(5 * time.Minute),
		},
		Server: ServerConfig{
			ListenAddr: ":8090",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML config file over the defaults. An empty path returns
// the defaults unchanged; a missing file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults backfills zero values so a sparse file still yields a
// usable config.
func (c *Config) applyDefaults() {
	def := Default()
	if c.API.BaseURL == "" {
		c.API.BaseURL = def.API.BaseURL
	}
	if c.API.RequestTimeout <= 0 {
		c.API.RequestTimeout = def.API.RequestTimeout
	}
	if c.API.RateLimitRPS <= 0 {
		c.API.RateLimitRPS = def.API.RateLimitRPS
	}
	if c.API.RateLimitBurst <= 0 {
		c.API.RateLimitBurst = def.API.RateLimitBurst
	}
	if c.API.BreakerFailures == 0 {
		c.API.BreakerFailures = def.API.BreakerFailures
	}
	if c.API.BreakerTimeout <= 0 {
		c.API.BreakerTimeout = def.API.BreakerTimeout
	}
	if c.Polling.Interval <= 0 {
		c.Polling.Interval = def.Polling.Interval
	}
	if c.Polling.Timeout <= 0 {
		c.Polling.Timeout = def.Polling.Timeout
	}
	if c.Cache.SettingsTTL <= 0 {
		c.Cache.SettingsTTL = def.Cache.SettingsTTL
	}
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = def.Server.ListenAddr
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}
