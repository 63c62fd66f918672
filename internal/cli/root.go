// Package cli implements the keys command line tool.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dshills/keys/internal/config"
	"github.com/dshills/keys/internal/input/keymap"
)

// Version is the current version of keys.
const Version = "0.1.0"

// Options holds the global flags. Flags that are set override the config
// file and the environment.
type Options struct {
	ConfigPath string
	Bindings   string
	LogLevel   string
	Strict     bool
}

// runtime is the state shared by every command once flags are parsed.
type runtime struct {
	opts   Options
	lookup config.LookupFunc
	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	return newRootCommand(nil)
}

func newRootCommand(lookup config.LookupFunc) *cobra.Command {
	rt := &runtime{lookup: lookup}

	cmd := &cobra.Command{
		Use:   "keys",
		Short: "keys - keyboard shortcut bindings",
		Long: `keys manages keyboard shortcut bindings: named combos such as CTRL+S that
fire handlers when pressed. Bindings live in spec files (JSON, YAML or TOML)
or in serialized registry documents.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.init(cmd); err != nil {
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&rt.opts.ConfigPath, "config", "c", "", "Configuration file (TOML or YAML)")
	cmd.PersistentFlags().StringVarP(&rt.opts.Bindings, "bindings", "b", "", "Bindings file")
	cmd.PersistentFlags().StringVar(&rt.opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&rt.opts.Strict, "strict", false, "Require exact combo equality when matching")

	cmd.AddCommand(newValidateCommand(rt))
	cmd.AddCommand(newShowCommand(rt))
	cmd.AddCommand(newConvertCommand(rt))
	cmd.AddCommand(newRebindCommand(rt))
	cmd.AddCommand(newDemoCommand(rt))
	cmd.AddCommand(newReplayCommand(rt))

	return cmd
}

// init loads the config file, then the environment, then set flags.
func (rt *runtime) init(cmd *cobra.Command) error {
	cfg := config.Default()
	if rt.opts.ConfigPath != "" {
		loaded, err := config.Load(rt.opts.ConfigPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(rt.lookup); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("bindings") {
		cfg.Bindings = rt.opts.Bindings
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = rt.opts.LogLevel
	}
	if flags.Changed("strict") {
		cfg.Strict = rt.opts.Strict
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := cfg.Log.Logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	rt.cfg = cfg
	rt.logger = logger
	return nil
}

func (rt *runtime) newRegistry() *keymap.Registry {
	return keymap.NewRegistry(keymap.WithLogger(rt.logger), keymap.WithStrict(rt.cfg.Strict))
}

// bindingsPath returns the first argument, or the configured bindings file.
func (rt *runtime) bindingsPath(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if rt.cfg.Bindings == "" {
		return "", fmt.Errorf("no bindings file given")
	}
	return rt.cfg.Bindings, nil
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}
