// Package cli provides the standoc command-line interface.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dshills/standoc-mcp/internal/config"
	"github.com/dshills/standoc-mcp/internal/storage"
)

// ErrBuildFailed is returned by --strict commands when declarations failed
var ErrBuildFailed = errors.New("documentation build failed")

func errBuildFailed(n int) error {
	return fmt.Errorf("%w: %d error(s)", ErrBuildFailed, n)
}

// options holds the global flags shared by every command
type options struct {
	root    string // project root, where .standoc/config.yml is looked up
	dbPath  string // overrides storage.db_path
	format  string // overrides output.format
	verbose bool
}

// Execute creates and runs the root command.
func Execute() error {
	return newRootCommand().Execute()
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "standoc",
		Short: "Document Stan function signatures",
		Long: `standoc extracts function declarations and their doc comments from Stan
sources, resolves overloaded cross-references, and serves the result to
MCP clients.`,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.root, "root", ".", "Project root containing .standoc/config.yml")
	flags.StringVar(&opts.dbPath, "db", "", "Database file (overrides storage.db_path)")
	flags.StringVarP(&opts.format, "format", "f", "", "Output format: yaml or json (overrides output.format)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(
		newParseCommand(opts),
		newExtractCommand(opts),
		newResolveCommand(opts),
		newIndexCommand(opts),
		newSearchCommand(opts),
		newStatusCommand(opts),
		newServeCommand(opts),
		newVersionCommand(),
	)

	return rootCmd
}

// loadConfig loads the project configuration and applies flag overrides
func (o *options) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigFromDir(o.root)
	if err != nil {
		return nil, err
	}
	if o.dbPath != "" {
		cfg.Storage.DBPath = o.dbPath
	}
	if o.format != "" {
		cfg.Output.Format = o.format
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openStorage opens the configured database, creating its directory
func openStorage(cfg *config.Config) (storage.Storage, error) {
	dbFile, err := cfg.DatabaseFile()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dbFile), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	return storage.NewSQLiteStorage(dbFile)
}

// encode writes v in the requested output format
func encode(w io.Writer, format string, v interface{}) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// printDiagnostics writes errors and warnings to w, one per line
func printDiagnostics(w io.Writer, errs, warnings []error) {
	for _, err := range errs {
		fmt.Fprintf(w, "error: %v\n", err)
	}
	for _, warn := range warnings {
		fmt.Fprintf(w, "warning: %v\n", warn)
	}
}
