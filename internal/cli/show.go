package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newShowCommand(rt *runtime) *cobra.Command {
	var (
		document bool
		search   string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "show [file]",
		Short: "List bindings",
		Long: `List the bindings in a spec file or registry document.

Examples:
  keys show bindings.yaml
  keys show --search archive
  keys show --json > registry.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := rt.bindingsPath(args)
			if err != nil {
				return err
			}
			reg, err := rt.loadRegistry(path, document)
			if err != nil {
				return err
			}

			if asJSON {
				doc, err := reg.Serialize()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), doc)
				return err
			}

			bindings := reg.Search(search)
			if len(bindings) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No bindings found")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "NAME\tCOMBOS\tENABLED\tDESCRIPTION")
			for _, b := range bindings {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", b.Name, strings.Join(b.ComboStrings(), ", "), b.Enabled, b.Description)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&document, "document", false, "Treat the file as a serialized registry document")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Fuzzy filter on name, description and combos")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the bindings as a registry document")
	return cmd
}
