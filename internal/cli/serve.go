package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/layoutwriter/internal/server"
	"github.com/matzehuels/layoutwriter/pkg/buildinfo"
	"github.com/matzehuels/layoutwriter/pkg/cache"
)

// serveKeyPrefix scopes server cache entries away from CLI runs.
const serveKeyPrefix = "serve:"

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		techPath string
		addr     string
		flags    cacheFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layout emission over HTTP",
		Long: `Serve layout emission over HTTP against one technology file.

  GET  /healthz   liveness
  GET  /v1/tech   technology tables
  POST /v1/emit   {"cell": ..., "view": ..., "layout": {...}}

The server shuts down gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), techPath, addr, flags)
		},
	}

	cmd.Flags().StringVar(&techPath, "tech", "", "technology file (.toml or .lyp)")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	flags.register(cmd)
	_ = cmd.MarkFlagRequired("tech")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, techPath, addr string, flags cacheFlags) error {
	t, err := c.loadTech(techPath)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, flags, cache.NewScopedKeyer(nil, serveKeyPrefix))
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	srv := server.New(server.Config{
		Tech:    t,
		Runner:  runner,
		Logger:  c.Logger,
		Version: buildinfo.Version,
	})
	return srv.ListenAndServe(ctx, addr)
}
