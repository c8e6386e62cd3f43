// Package config loads vmremote settings from a YAML file and VMREMOTE_*
// environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/shaban/voicemeeter"
)

// Config is the complete vmremote configuration.
type Config struct {
	DLLPath            string        `yaml:"dll_path"`
	Kind               string        `yaml:"kind"`
	LaunchIfNotRunning bool          `yaml:"launch_if_not_running"`
	LaunchWait         time.Duration `yaml:"launch_wait"`
	PollInterval       time.Duration `yaml:"poll_interval"`
	Watch              []string      `yaml:"watch"`
	Log                LogConfig     `yaml:"log"`
	Metrics            MetricsConfig `yaml:"metrics"`
}

// LogConfig controls the base logger.
type LogConfig struct {
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
}

// MetricsConfig controls the Prometheus endpoint served by watch.
type MetricsConfig struct {
	Listen string `yaml:"listen"` // empty disables the endpoint
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Kind:         voicemeeter.Banana.String(),
		LaunchWait:   2 * time.Second,
		PollInterval: voicemeeter.DefaultMonitorInterval,
		Log:          LogConfig{Level: "info"},
	}
}

// Load merges defaults, the YAML file at path (skipped when path is empty)
// and the environment, then validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadFile decodes path over cfg. Unknown keys are rejected.
func loadFile(path string, cfg *Config) error {
	path = filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- the path comes from the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("strict config parse error: %w", err)
	}
	return nil
}

type lookupFunc func(string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) error {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}
	boolean := func(key string, dst *bool) {
		if v, ok := lookup(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}

	str("VMREMOTE_DLL_PATH", &cfg.DLLPath)
	str("VMREMOTE_KIND", &cfg.Kind)
	boolean("VMREMOTE_LAUNCH", &cfg.LaunchIfNotRunning)
	dur("VMREMOTE_LAUNCH_WAIT", &cfg.LaunchWait)
	dur("VMREMOTE_POLL_INTERVAL", &cfg.PollInterval)
	str("VMREMOTE_LOG_LEVEL", &cfg.Log.Level)
	boolean("VMREMOTE_LOG_CONSOLE", &cfg.Log.Console)
	str("VMREMOTE_METRICS_LISTEN", &cfg.Metrics.Listen)
	if v, ok := lookup("VMREMOTE_WATCH"); ok && v != "" {
		cfg.Watch = splitList(v)
	}
	return errors.Join(errs...)
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	if c.Kind != "" {
		if _, err := voicemeeter.ParseKind(c.Kind); err != nil {
			errs = append(errs, fmt.Errorf("kind: %w", err))
		}
	}
	if c.LaunchWait < 0 {
		errs = append(errs, fmt.Errorf("launch_wait: must not be negative, got %v", c.LaunchWait))
	}
	if c.PollInterval < voicemeeter.MinMonitorInterval {
		errs = append(errs, fmt.Errorf("poll_interval: must be at least %v, got %v",
			voicemeeter.MinMonitorInterval, c.PollInterval))
	}
	if c.Log.Level != "" {
		if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
			errs = append(errs, fmt.Errorf("log.level: %w", err))
		}
	}
	if c.Metrics.Listen != "" {
		if _, _, err := net.SplitHostPort(c.Metrics.Listen); err != nil {
			errs = append(errs, fmt.Errorf("metrics.listen: %w", err))
		}
	}
	for _, name := range c.Watch {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, errors.New("watch: empty parameter name"))
			break
		}
	}
	return errors.Join(errs...)
}

// ResolvedKind returns the configured product, defaulting to Banana.
func (c Config) ResolvedKind() voicemeeter.Kind {
	if k, err := voicemeeter.ParseKind(c.Kind); err == nil {
		return k
	}
	return voicemeeter.Banana
}
