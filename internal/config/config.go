package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds the settings of the keys tools.
type Config struct {
	// Bindings is the spec file defining the bindings (JSON, YAML or TOML).
	Bindings string `toml:"bindings" yaml:"bindings"`

	// Scripts are Lua files run after the bindings are loaded.
	Scripts []string `toml:"scripts" yaml:"scripts"`

	// Strict makes matching require exact combo equality.
	Strict bool `toml:"strict" yaml:"strict"`

	// Watch reloads the bindings file when it changes.
	Watch bool `toml:"watch" yaml:"watch"`

	// Debounce coalesces bursts of file events while watching.
	Debounce Duration `toml:"debounce" yaml:"debounce"`

	Log LogConfig `toml:"log" yaml:"log"`
}

// LogConfig configures the logger.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `toml:"level" yaml:"level"`

	// Format is text or json.
	Format string `toml:"format" yaml:"format"`
}

// Duration is a time.Duration written as a string such as "250ms".
type Duration time.Duration

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Bindings: "bindings.yaml",
		Debounce: Duration(200 * time.Millisecond),
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a config file over the defaults. Relative bindings and
// script paths are resolved against the file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg := Default()
	if err := cfg.decode(path, data); err != nil {
		return nil, err
	}
	cfg.resolve(filepath.Dir(path))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) decode(path string, data []byte) error {
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, c)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return fmt.Errorf("parse error in %s: %w", path, err)
	}
	return nil
}

func (c *Config) resolve(dir string) {
	if c.Bindings != "" && !filepath.IsAbs(c.Bindings) {
		c.Bindings = filepath.Join(dir, c.Bindings)
	}
	for i, s := range c.Scripts {
		if !filepath.IsAbs(s) {
			c.Scripts[i] = filepath.Join(dir, s)
		}
	}
}

// Validate checks the settings.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log format %q", ErrValidationFailed, c.Log.Format)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("%w: negative debounce", ErrValidationFailed)
	}
	if c.Watch && c.Bindings == "" {
		return fmt.Errorf("%w: watch requires a bindings file", ErrValidationFailed)
	}
	return nil
}
