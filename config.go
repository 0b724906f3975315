package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/golobby/cast"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so config files can spell durations as
// strings like "2s" or "150ms" in both YAML and TOML.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler (used by the TOML
// decoder and the env override path).
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", text, err)
	}
	*d = Duration(parsed)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("decoding duration node: %w", err)
	}
	return d.UnmarshalText([]byte(raw))
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the file-loadable harness configuration. Zero values mean
// "keep the runner default". It mirrors the options surface so a host can
// ship timing bounds, the only-filter, and the collector endpoint in a
// config file instead of code.
type Config struct {
	// WaitTime bounds element lookup and case execution.
	WaitTime Duration `yaml:"waitTime" toml:"waitTime"`
	// StartDelay is the initial suspend before the first case.
	StartDelay Duration `yaml:"startDelay" toml:"startDelay"`
	// PollInterval is the delay between registry polls during lookup.
	PollInterval Duration `yaml:"pollInterval" toml:"pollInterval"`
	// Only restricts execution to cases matching any of these filters.
	Only []string `yaml:"only" toml:"only"`
	// ClearPersistentStore clears the persistent store between cases.
	ClearPersistentStore bool `yaml:"clearPersistentStore" toml:"clearPersistentStore"`
	// Collector is the report collector endpoint. Empty keeps the
	// default sink and URL.
	Collector string `yaml:"collector" toml:"collector"`
}

// LoadConfig reads a harness config from a YAML or TOML file, selected by
// extension, then applies HARNESS_* environment overrides:
//
//	HARNESS_WAIT_TIME, HARNESS_START_DELAY, HARNESS_POLL_INTERVAL
//	(durations), HARNESS_ONLY (comma-separated filters),
//	HARNESS_CLEAR_PERSISTENT_STORE (bool), HARNESS_COLLECTOR (URL).
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing YAML config %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("parsing TOML config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedConfigFormat, filepath.Ext(path))
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays HARNESS_* environment variables onto the config.
func (c *Config) applyEnv() error {
	if v := os.Getenv("HARNESS_WAIT_TIME"); v != "" {
		if err := c.WaitTime.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("HARNESS_WAIT_TIME: %w", err)
		}
	}
	if v := os.Getenv("HARNESS_START_DELAY"); v != "" {
		if err := c.StartDelay.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("HARNESS_START_DELAY: %w", err)
		}
	}
	if v := os.Getenv("HARNESS_POLL_INTERVAL"); v != "" {
		if err := c.PollInterval.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("HARNESS_POLL_INTERVAL: %w", err)
		}
	}
	if v := os.Getenv("HARNESS_ONLY"); v != "" {
		c.Only = nil
		for _, filter := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(filter); trimmed != "" {
				c.Only = append(c.Only, trimmed)
			}
		}
	}
	if v := os.Getenv("HARNESS_CLEAR_PERSISTENT_STORE"); v != "" {
		converted, err := cast.FromType(v, reflect.TypeOf(false))
		if err != nil {
			return fmt.Errorf("HARNESS_CLEAR_PERSISTENT_STORE: %w", err)
		}
		c.ClearPersistentStore = converted.(bool)
	}
	if v := os.Getenv("HARNESS_COLLECTOR"); v != "" {
		c.Collector = v
	}
	return nil
}

// Options translates the config into runner options. The logger is used
// for the collector reporter when a collector endpoint is configured.
func (c *Config) Options(logger Logger) []Option {
	var opts []Option
	if c.WaitTime > 0 {
		opts = append(opts, WithWaitTime(c.WaitTime.Std()))
	}
	if c.StartDelay > 0 {
		opts = append(opts, WithStartDelay(c.StartDelay.Std()))
	}
	if c.PollInterval > 0 {
		opts = append(opts, WithPollInterval(c.PollInterval.Std()))
	}
	if len(c.Only) > 0 {
		opts = append(opts, WithOnly(c.Only...))
	}
	if c.ClearPersistentStore {
		opts = append(opts, WithClearPersistentStore())
	}
	if c.Collector != "" {
		opts = append(opts, WithReporter(NewCollectorReporter(c.Collector, logger)))
	}
	return opts
}
