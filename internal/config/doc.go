// Package config loads the settings of the keys tools.
//
// Settings come from a TOML or YAML file, chosen by extension, then from
// KEYS_* environment variables. Command line flags are applied last by
// the caller. The package also builds the slog logger and watches the
// bindings file for changes.
package config
