package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/standoc-mcp/internal/config"
	"github.com/dshills/standoc-mcp/internal/index"
	"github.com/dshills/standoc-mcp/internal/indexer"
	"github.com/dshills/standoc-mcp/internal/resolver"
)

func newResolveCommand(opts *options) *cobra.Command {
	var files []string

	cmd := &cobra.Command{
		Use:   "resolve <target>",
		Short: "Resolve a cross-reference to its function overloads",
		Long: `Resolve looks up "name" or "name(type, ...)" and prints every matching
overload. Without --file the stored index of the project root is used.
Ambiguous references link to the earliest declared overload.`,
		Example: `  standoc resolve log1p_series --file lib/series.stanfunctions
  standoc resolve "log1p_series(real, int)"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			var idx *index.Index
			if len(files) > 0 {
				idx, err = buildFromFiles(cmd, files)
			} else {
				idx, err = loadStoredIndex(cmd.Context(), opts.root, cfg)
			}
			if err != nil {
				return err
			}

			r := resolver.New(idx, resolver.WithCacheSize(cfg.Resolver.CacheSize))
			res, err := r.ResolveTarget(args[0])
			if err != nil {
				return err
			}
			return encode(cmd.OutOrStdout(), cfg.Output.Format, res.View(idx.Doc))
		},
	}

	cmd.Flags().StringArrayVar(&files, "file", nil, "Source file to document (repeatable, merged in the order given)")
	return cmd
}

// buildFromFiles documents files in order and merges them into one index
func buildFromFiles(cmd *cobra.Command, files []string) (*index.Index, error) {
	builds := make([]*indexer.FileBuild, 0, len(files))
	for _, f := range files {
		build, err := indexer.DocumentPath(f)
		if err != nil {
			return nil, err
		}
		builds = append(builds, build)
	}

	merged, result := indexer.MergeBuilds(builds)
	printDiagnostics(cmd.ErrOrStderr(), result.Errors, result.Warnings)
	return merged, nil
}

// loadStoredIndex rebuilds the frozen index of root from the database
func loadStoredIndex(ctx context.Context, root string, cfg *config.Config) (*index.Index, error) {
	store, err := openStorage(cfg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	idx, err := indexer.LoadIndex(ctx, store, root)
	if err != nil {
		return nil, fmt.Errorf("failed to load index (run 'standoc index' first): %w", err)
	}
	return idx, nil
}
