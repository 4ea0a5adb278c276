// Package cli implements the layoutwriter command-line interface.
//
// # Commands
//
//   - emit: encode a layout file against a technology and write the design
//   - tech: print the layer, purpose and via tables of a technology file
//   - hier: render the instance hierarchy of a layout
//   - serve: expose emission over HTTP
//   - cache: manage the local emission cache
//   - completion: generate shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// is attached to the command context and handed to the pipeline runner.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/layoutwriter/pkg/buildinfo"
	"github.com/matzehuels/layoutwriter/pkg/cache"
	"github.com/matzehuels/layoutwriter/pkg/pipeline"
	"github.com/matzehuels/layoutwriter/pkg/tech"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "layoutwriter"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "layoutwriter emits IC layouts into design databases",
		Long:         `layoutwriter encodes a technology-independent layout description (instances, rectangles, paths, vias, pins, polygons, blockages and boundaries) into grid units and technology layer numbers, and writes it into a design backend.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.emitCommand())
	root.AddCommand(c.techCommand())
	root.AddCommand(c.hierCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheFlags selects the cache behind a runner.
type cacheFlags struct {
	noCache   bool
	redisAddr string
	redisDB   int
}

func (f *cacheFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&f.redisAddr, "redis", "", "cache in Redis at host:port instead of the local cache directory")
	cmd.Flags().IntVar(&f.redisDB, "redis-db", 0, "Redis database number")
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, flags cacheFlags, keyer cache.Keyer) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, flags)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache.Instrument(cc, "design"), keyer, c.Logger), nil
}

// newCache opens the configured cache. An unusable local cache directory
// silently disables caching; an unreachable Redis is an error.
func (c *CLI) newCache(ctx context.Context, flags cacheFlags) (cache.Cache, error) {
	switch {
	case flags.noCache:
		return cache.NewNullCache(), nil
	case flags.redisAddr != "":
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:   flags.redisAddr,
			DB:     flags.redisDB,
			Prefix: appName + ":",
		})
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		c.Logger.Debug("using redis cache", "addr", flags.redisAddr)
		return rc, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Debug("cache disabled", "dir", dir, "err", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory (~/.cache/layoutwriter on Linux).
func cacheDir() (string, error) {
	return cache.DefaultDir()
}

// =============================================================================
// Technology
// =============================================================================

// loadTech reads the technology file at path.
func (c *CLI) loadTech(path string) (*tech.Tech, error) {
	if path == "" {
		return nil, fmt.Errorf("--tech is required")
	}
	t, err := tech.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load tech %s: %w", path, err)
	}
	c.Logger.Debug("loaded technology",
		"name", t.Name,
		"layers", len(t.Layers()),
		"purposes", len(t.Purposes()),
		"vias", len(t.ViaDefs()))
	return t, nil
}
