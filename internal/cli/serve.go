package cli

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/standoc-mcp/internal/mcp"
	"github.com/dshills/standoc-mcp/internal/storage"
)

func newServeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio",
		Long: `Serve starts the Model Context Protocol server on stdin/stdout. Logs go to
stderr since stdout is reserved for protocol messages.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Log startup info to stderr (stdout reserved for MCP protocol)
			log.SetOutput(os.Stderr)
			log.Printf("standoc MCP server %s starting...", Version)
			log.Printf("Build Mode: %s, Driver: %s", storage.BuildMode, storage.DriverName)

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			server, err := mcp.NewServer(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errChan := make(chan error, 1)
			go func() {
				errChan <- server.Serve(ctx)
			}()

			select {
			case <-ctx.Done():
				log.Println("Received shutdown signal, stopping...")
				return nil
			case err := <-errChan:
				if err != nil {
					return err
				}
			}

			log.Println("Server stopped")
			return nil
		},
	}
}
