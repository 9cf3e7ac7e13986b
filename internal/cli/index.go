package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/standoc-mcp/internal/config"
	"github.com/dshills/standoc-mcp/internal/indexer"
	"github.com/dshills/standoc-mcp/internal/storage"
)

func newIndexCommand(opts *options) *cobra.Command {
	var (
		quiet bool
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "index [dir]",
		Short: "Document every source file of a project and store the result",
		Long: `Index discovers .stan and .stanfunctions files under the project root,
documents them in parallel, merges the results in path order, and stores
every function with its documentation. Unchanged files are skipped on the
next run and files removed from disk are dropped from the store.

With --watch the project is re-indexed whenever a source file changes.`,
		Example: `  standoc index
  standoc index ./models --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			rootDir := opts.root
			if len(args) == 1 {
				rootDir = args[0]
			}
			rootDir, err = filepath.Abs(rootDir)
			if err != nil {
				return fmt.Errorf("failed to resolve project root: %w", err)
			}

			store, err := openStorage(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			// Handle interrupt signals gracefully
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			progress := newProgressReporter(cmd.ErrOrStderr(), quiet)
			run := &indexRun{
				indexer:  indexer.New(store),
				cfg:      cfg,
				rootDir:  rootDir,
				progress: progress,
				out:      cmd.OutOrStdout(),
				verbose:  opts.verbose,
			}

			if err := run.once(ctx); err != nil {
				return err
			}
			if !watch {
				return nil
			}
			return run.watch(ctx)
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Disable the progress bar")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Watch for file changes and re-index")
	return cmd
}

// indexRun indexes one project, once or on every change
type indexRun struct {
	indexer  *indexer.Indexer
	cfg      *config.Config
	rootDir  string
	progress *progressReporter
	out      io.Writer
	verbose  bool
}

func (r *indexRun) config() *indexer.Config {
	return &indexer.Config{
		Workers:    r.cfg.Indexer.Workers,
		BatchSize:  r.cfg.Indexer.BatchSize,
		Include:    r.cfg.Paths.Include,
		Ignore:     r.cfg.Paths.Ignore,
		OnProgress: r.progress.OnProgress,
	}
}

func (r *indexRun) once(ctx context.Context) error {
	r.progress.Reset()
	stats, err := r.indexer.IndexProject(ctx, r.rootDir, r.config())
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}
	printStatistics(r.out, stats, r.verbose)
	return nil
}

func (r *indexRun) watch(ctx context.Context) error {
	discovery, err := indexer.NewFileDiscovery(r.rootDir, r.cfg.Paths.Include, r.cfg.Paths.Ignore)
	if err != nil {
		return err
	}

	w, err := indexer.NewWatcher(r.rootDir, discovery, func(ctx context.Context, changed []string) {
		log.Printf("Changed: %v", changed)
		if err := r.once(ctx); err != nil {
			log.Printf("Warning: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	log.Printf("Watching %s for changes (Ctrl+C to stop)...", r.rootDir)
	w.Start(ctx)
	<-ctx.Done()
	w.Stop()
	return nil
}

// printStatistics writes a human-readable summary of an indexing run
func printStatistics(w io.Writer, stats *indexer.Statistics, verbose bool) {
	fmt.Fprintf(w, "Indexed %d file(s), skipped %d unchanged, removed %d, failed %d\n",
		stats.FilesIndexed, stats.FilesSkipped, stats.FilesRemoved, stats.FilesFailed)
	fmt.Fprintf(w, "Registered %d function(s) with %d error(s) and %d warning(s) in %s\n",
		stats.FunctionsRegistered, stats.Errors, stats.Warnings, stats.Duration.Round(time.Millisecond))

	for _, msg := range stats.ErrorMessages {
		fmt.Fprintf(w, "  error: %s\n", msg)
	}
	if verbose {
		for _, msg := range stats.WarningMessages {
			fmt.Fprintf(w, "  warning: %s\n", msg)
		}
	}
}

// projectFor returns the stored project for root
func projectFor(ctx context.Context, store storage.Storage, root string) (*storage.Project, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	project, err := store.GetProject(ctx, abs)
	if err != nil {
		return nil, fmt.Errorf("project %s (run 'standoc index' first): %w", abs, err)
	}
	return project, nil
}
