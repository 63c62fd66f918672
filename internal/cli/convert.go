package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/keys/internal/input/keymap"
)

func newConvertCommand(rt *runtime) *cobra.Command {
	var (
		fromDocument bool
		toDocument   bool
		format       string
	)

	cmd := &cobra.Command{
		Use:   "convert <input> [output]",
		Short: "Convert bindings between formats",
		Long: `Convert a spec file to another format, or between spec files and
registry documents. The output format follows the output file extension
unless --format is given. Without an output file the result is printed.

Converting from a document drops nothing but handlers, which documents
never hold. Converting a spec file to a document drops actions, event
types and conditions.

Examples:
  keys convert bindings.yaml bindings.toml
  keys convert --to-document bindings.yaml registry.json
  keys convert --from-document registry.json --format yaml`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			output := ""
			if len(args) == 2 {
				output = args[1]
			}
			stdout := func(data []byte) error {
				_, err := cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}

			if toDocument {
				reg, err := rt.loadRegistry(input, fromDocument)
				if err != nil {
					return err
				}
				doc, err := reg.Serialize()
				if err != nil {
					return err
				}
				return writeOutput(output, []byte(doc), stdout)
			}

			outFormat, err := outputFormat(output, format)
			if err != nil {
				return err
			}
			spec, err := rt.readSpec(input, fromDocument)
			if err != nil {
				return err
			}
			data, err := spec.Encode(outFormat)
			if err != nil {
				return err
			}
			return writeOutput(output, data, stdout)
		},
	}

	cmd.Flags().BoolVar(&fromDocument, "from-document", false, "Input is a serialized registry document")
	cmd.Flags().BoolVar(&toDocument, "to-document", false, "Write a serialized registry document")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output spec format (json, yaml, toml)")
	return cmd
}

// readSpec returns input as a spec file after checking it loads.
func (rt *runtime) readSpec(input string, document bool) (*keymap.SpecFile, error) {
	if document {
		reg, err := rt.loadRegistry(input, true)
		if err != nil {
			return nil, err
		}
		return keymap.SpecFileFromBindings(reg.Bindings()), nil
	}

	f, err := keymap.ReadSpecFile(input)
	if err != nil {
		return nil, err
	}
	if err := loadSpecs(rt.newRegistry(), f); err != nil {
		return nil, fmt.Errorf("%s: %w", input, err)
	}
	return f, nil
}

func outputFormat(output, flag string) (keymap.Format, error) {
	switch {
	case flag != "":
		switch f := keymap.Format(flag); f {
		case keymap.FormatJSON, keymap.FormatYAML, keymap.FormatTOML:
			return f, nil
		default:
			return "", fmt.Errorf("%w: %q", keymap.ErrUnsupportedFormat, flag)
		}
	case output == "" || output == "-":
		return keymap.FormatYAML, nil
	default:
		return keymap.FormatFromPath(output)
	}
}
