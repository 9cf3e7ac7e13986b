package cli

import (
	"github.com/spf13/cobra"

	"github.com/dshills/standoc-mcp/internal/parser"
	"github.com/dshills/standoc-mcp/pkg/types"
)

func newParseCommand(opts *options) *cobra.Command {
	var typeOnly bool

	cmd := &cobra.Command{
		Use:   "parse <signature>",
		Short: "Parse a signature or type expression and print its canonical form",
		Example: `  standoc parse "real log1p_series(real x, int n)"
  standoc parse --type "array[ , ] vector"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			if typeOnly {
				t, err := parser.ParseType(args[0])
				if err != nil {
					return err
				}
				return encode(cmd.OutOrStdout(), cfg.Output.Format, map[string]string{"type": t.String()})
			}

			sig, err := parser.ParseSignature(args[0], 0)
			if err != nil {
				return err
			}
			return encode(cmd.OutOrStdout(), cfg.Output.Format, types.NewFunctionView(sig, nil))
		},
	}

	cmd.Flags().BoolVar(&typeOnly, "type", false, "Parse a type expression instead of a signature")
	return cmd
}
