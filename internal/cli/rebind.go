package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/keys/internal/input/key"
	"github.com/dshills/keys/internal/input/keymap"
)

func newRebindCommand(rt *runtime) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "rebind <document> <binding> <combo>...",
		Short: "Change the combos of one binding in a registry document",
		Long: `Replace the combos of one binding inside a serialized registry document.
The rest of the document is left untouched.

Examples:
  keys rebind registry.json archive CTRL+E
  keys rebind --write registry.json search "/ ?" CTRL+F`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, name := args[0], args[1]

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading document: %w", err)
			}

			reg := rt.newRegistry()
			combos := make([]key.Combo, 0, len(args)-2)
			for _, text := range args[2:] {
				c, err := reg.Catalog().ParseCombo(text)
				if err != nil {
					return err
				}
				combos = append(combos, c)
			}

			doc, err := keymap.RebindDocument(string(data), name, combos...)
			if err != nil {
				return err
			}
			if _, err := reg.DecodeDocument(doc); err != nil {
				return err
			}

			out := ""
			if write {
				out = path
			}
			if err := writeOutput(out, []byte(doc), func(b []byte) error {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return err
			}); err != nil {
				return err
			}
			rt.logger.Info("[keymap] rebound", "binding", name, "combos", len(combos), "written", write)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write the result back to the document")
	return cmd
}
