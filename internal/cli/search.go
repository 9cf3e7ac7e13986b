package cli

import (
	"github.com/spf13/cobra"

	"github.com/dshills/standoc-mcp/internal/searcher"
	"github.com/dshills/standoc-mcp/internal/storage"
)

func newSearchCommand(opts *options) *cobra.Command {
	var (
		mode        string
		limit       int
		filePattern string
		names       []string
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search stored functions by reference or keywords",
		Long: `Search looks up functions in the indexed project. A query such as
"log1p_series" or "log1p_series(real, int)" matches by reference; other
words are matched against names, signatures and summaries. Hybrid mode
fuses both rankings.`,
		Example: `  standoc search "log1p_series(real, int)" --mode reference
  standoc search "series approximation" --file-pattern "lib/**"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			store, err := openStorage(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			project, err := projectFor(cmd.Context(), store, opts.root)
			if err != nil {
				return err
			}

			req := searcher.SearchRequest{
				Query:     args[0],
				Limit:     limit,
				Mode:      searcher.SearchMode(mode),
				ProjectID: project.ID,
			}
			if filePattern != "" || len(names) > 0 {
				req.Filters = &storage.SearchFilters{FilePattern: filePattern, Names: names}
			}

			resp, err := searcher.NewSearcher(store).Search(cmd.Context(), req)
			if err != nil {
				return err
			}
			return encode(cmd.OutOrStdout(), cfg.Output.Format, resp.Results)
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(searcher.SearchModeHybrid), "Search mode: hybrid, reference or keyword")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of results (1-100)")
	cmd.Flags().StringVar(&filePattern, "file-pattern", "", "Glob restricting result file paths")
	cmd.Flags().StringSliceVar(&names, "name", nil, "Restrict to these function names")
	return cmd
}
