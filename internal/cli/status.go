package cli

import (
	"time"

	"github.com/spf13/cobra"
)

// statusOutput is the document printed by the status command
type statusOutput struct {
	Root            string    `json:"root" yaml:"root"`
	Name            string    `json:"name" yaml:"name"`
	Files           int       `json:"files" yaml:"files"`
	Functions       int       `json:"functions" yaml:"functions"`
	Documented      int       `json:"documented" yaml:"documented"`
	FilesWithErrors int       `json:"files_with_errors" yaml:"files_with_errors"`
	IndexSizeMB     float64   `json:"index_size_mb" yaml:"index_size_mb"`
	SchemaVersion   string    `json:"schema_version" yaml:"schema_version"`
	LastIndexedAt   time.Time `json:"last_indexed_at" yaml:"last_indexed_at"`
}

func newStatusCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show indexing status and statistics of the project",
		Args:  cobra.NoArgs,
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
			status, err := store.GetStatus(cmd.Context(), project.ID)
			if err != nil {
				return err
			}

			return encode(cmd.OutOrStdout(), cfg.Output.Format, statusOutput{
				Root:            project.RootPath,
				Name:            project.Name,
				Files:           status.FilesCount,
				Functions:       status.FunctionsCount,
				Documented:      status.DocumentedCount,
				FilesWithErrors: status.FilesWithErrors,
				IndexSizeMB:     status.IndexSizeMB,
				SchemaVersion:   status.SchemaVersion,
				LastIndexedAt:   project.LastIndexedAt,
			})
		},
	}
}
