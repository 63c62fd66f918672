package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "KEYS_"

// LookupFunc returns the value of an environment variable.
type LookupFunc func(name string) (string, bool)

// ApplyEnv overrides settings from KEYS_* variables:
//
//	KEYS_BINDINGS    bindings file
//	KEYS_SCRIPTS     comma separated Lua files
//	KEYS_STRICT      bool
//	KEYS_WATCH       bool
//	KEYS_DEBOUNCE    duration
//	KEYS_LOG_LEVEL   debug, info, warn, error
//	KEYS_LOG_FORMAT  text, json
//
// A nil lookup reads the process environment.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(name string) (string, bool) {
		return lookup(EnvPrefix + name)
	}

	if v, ok := get("BINDINGS"); ok {
		c.Bindings = v
	}
	if v, ok := get("SCRIPTS"); ok {
		c.Scripts = splitList(v)
	}
	if err := envBool(get, "STRICT", &c.Strict); err != nil {
		return err
	}
	if err := envBool(get, "WATCH", &c.Watch); err != nil {
		return err
	}
	if v, ok := get("DEBOUNCE"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %sDEBOUNCE: %w", ErrValidationFailed, EnvPrefix, err)
		}
		c.Debounce = Duration(d)
	}
	if v, ok := get("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := get("LOG_FORMAT"); ok {
		c.Log.Format = v
	}
	return c.Validate()
}

func envBool(get func(string) (string, bool), name string, dst *bool) error {
	v, ok := get(name)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%w: %s%s: %w", ErrValidationFailed, EnvPrefix, name, err)
	}
	*dst = b
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
