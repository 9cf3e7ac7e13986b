package cli

import (
	"github.com/spf13/cobra"

	"github.com/dshills/standoc-mcp/internal/indexer"
	"github.com/dshills/standoc-mcp/internal/parser"
	"github.com/dshills/standoc-mcp/pkg/types"
)

// extractOutput is the document printed by the extract command
type extractOutput struct {
	File      string               `json:"file" yaml:"file"`
	Functions []types.FunctionView `json:"functions" yaml:"functions"`
}

func newExtractCommand(opts *options) *cobra.Command {
	var (
		members string
		strict  bool
	)

	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Document the function declarations of a source file",
		Long: `Extract reads a .stan or .stanfunctions file, parses every function
declaration, and normalizes its doc comment. Syntax errors, duplicate
definitions and documentation warnings are printed to stderr; the remaining
functions are still documented.`,
		Example: `  standoc extract lib/series.stanfunctions
  standoc extract lib/series.stanfunctions --members "log1p_series(real, int); softplus" -f json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			selection, err := parser.ParseMembers(members)
			if err != nil {
				return err
			}

			build, err := indexer.DocumentPath(args[0])
			if err != nil {
				return err
			}

			selected, selectWarnings := build.Index.Select(selection)
			out := extractOutput{File: build.File, Functions: make([]types.FunctionView, 0, len(selected))}
			for _, sig := range selected {
				out.Functions = append(out.Functions, types.NewFunctionView(sig, build.Index.Doc(sig)))
			}

			warnings := append(append([]error{}, build.Result.Warnings...), selectWarnings...)
			printDiagnostics(cmd.ErrOrStderr(), build.Result.Errors, warnings)

			if err := encode(cmd.OutOrStdout(), cfg.Output.Format, out); err != nil {
				return err
			}
			if strict && build.Result.HasErrors() {
				return errBuildFailed(len(build.Result.Errors))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&members, "members", "m", "", "Semicolon-separated member list (default: every function)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with an error when any declaration fails")
	return cmd
}
