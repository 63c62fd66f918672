package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/keys/internal/input/keymap"
)

func newValidateCommand(rt *runtime) *cobra.Command {
	var document bool

	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a bindings file",
		Long: `Validate a spec file or a serialized registry document.

This checks:
- File syntax
- Binding names and combos
- Event types and conditions (spec files)
- The document schema (documents)

Combos bound by more than one binding are reported but are not errors.

Examples:
  keys validate bindings.yaml
  keys validate --document registry.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := rt.bindingsPath(args)
			if err != nil {
				return err
			}

			reg, err := rt.loadRegistry(path, document)
			if err != nil {
				_, _ = fmt.Fprintf(cmd.OutOrStderr(), "✗ %s is invalid\n", path)
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %d bindings\n", path, reg.Len())

			for _, c := range sharedCombos(reg) {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "! %s is bound by %s\n", c.combo, strings.Join(c.names, ", "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&document, "document", false, "Treat the file as a serialized registry document")
	return cmd
}

type sharedCombo struct {
	combo string
	names []string
}

// sharedCombos lists combos that fire more than one binding, in binding order.
func sharedCombos(reg *keymap.Registry) []sharedCombo {
	var out []sharedCombo
	seen := make(map[string]bool)
	for _, b := range reg.Bindings() {
		for _, c := range b.Combos {
			text := c.String()
			if seen[text] {
				continue
			}
			seen[text] = true
			if names := reg.MatchingBindings(c); len(names) > 1 {
				out = append(out, sharedCombo{combo: text, names: names})
			}
		}
	}
	return out
}
