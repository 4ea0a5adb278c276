package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/layoutwriter/pkg/emit"
	"github.com/matzehuels/layoutwriter/pkg/emit/mongo"
	"github.com/matzehuels/layoutwriter/pkg/emit/record"
	pkgio "github.com/matzehuels/layoutwriter/pkg/io"
	"github.com/matzehuels/layoutwriter/pkg/pipeline"
)

// emitOpts holds the command-line flags for the emit command.
type emitOpts struct {
	techPath string
	cell     string
	view     string
	output   string // recorded design dump (.json or .msgpack)
	refresh  bool
	mongoURI string
	mongoDB  string
	cache    cacheFlags
}

// emitCommand creates the emit command.
func (c *CLI) emitCommand() *cobra.Command {
	var opts emitOpts

	cmd := &cobra.Command{
		Use:   "emit [layout.{json,yaml}]",
		Short: "Emit a layout file into a design",
		Long: `Emit a layout file into a design.

The layout is encoded against the technology file given with --tech: user
units become database units, layer and purpose names become numbers, and
arrays are expanded into one figure per copy.

Entities whose layer, purpose or via definition is unknown are skipped and
reported. Anything else (an invalid orientation, a backend failure) aborts.

The encoded design is always recorded in memory and can be written with -o.
With --mongo it is also stored in MongoDB.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEmit(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.techPath, "tech", "", "technology file (.toml or .lyp)")
	cmd.Flags().StringVar(&opts.cell, "cell", "", "cell name (default: layout file base name)")
	cmd.Flags().StringVar(&opts.view, "view", pipeline.DefaultView, "view name")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the recorded design to a .json or .msgpack file")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo", "", "also store the design in MongoDB at this URI")
	cmd.Flags().StringVar(&opts.mongoDB, "db", mongo.DefaultDatabase, "MongoDB database name")
	opts.cache.register(cmd)
	_ = cmd.MarkFlagRequired("tech")

	return cmd
}

// runEmit loads the inputs, emits the layout and writes the outputs.
func (c *CLI) runEmit(ctx context.Context, input string, opts emitOpts) error {
	out := printer{w: os.Stdout}
	logger := loggerFromContext(ctx)

	dump, err := dumpWriter(opts.output)
	if err != nil {
		return err
	}

	l, err := pkgio.Import(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}
	t, err := c.loadTech(opts.techPath)
	if err != nil {
		return err
	}
	if opts.cell == "" {
		opts.cell = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}

	runner, err := c.newRunner(ctx, opts.cache, nil)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	rec := record.New()
	var backend emit.Backend = rec
	if opts.mongoURI != "" {
		mb, err := mongo.Connect(ctx, mongo.Config{URI: opts.mongoURI, Database: opts.mongoDB})
		if err != nil {
			return fmt.Errorf("connect mongo: %w", err)
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = mb.Close(closeCtx)
		}()
		backend = emit.Tee(mb, rec)
	}

	prog := newProgress(logger)
	spin := newSpinner(ctx, os.Stderr, fmt.Sprintf("Emitting %s/%s...", opts.cell, opts.view))
	spin.start()

	res, err := runner.EmitCached(ctx, backend, t, pipeline.Options{
		Cell:    opts.cell,
		View:    opts.view,
		Refresh: opts.refresh,
		Logger:  logger,
	}, l)
	spin.stop()
	if err != nil {
		out.failure("Emission failed")
		if res != nil {
			out.emitStats(res)
			out.diagnostics(res.Diagnostics)
		}
		return fmt.Errorf("emit %s: %w", input, err)
	}
	prog.done("emission finished", "figures", res.Stats.Figures, "cached", res.CacheHit)

	out.success("Emitted %s/%s", res.Cell, res.View)
	if dump != nil {
		if err := dump(rec, opts.output); err != nil {
			return fmt.Errorf("write output %s: %w", opts.output, err)
		}
		out.file(opts.output)
	}
	out.emitStats(res)
	out.diagnostics(res.Diagnostics)
	out.newline()
	out.nextStep("Inspect the hierarchy", appName+" hier "+input)

	return nil
}

// dumpWriter picks the design dump encoding from the output extension.
// It returns nil when no output was requested.
func dumpWriter(path string) (func(*record.Backend, string) error, error) {
	if path == "" {
		return nil, nil
	}
	var write func(b *record.Backend, f *os.File) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		write = func(b *record.Backend, f *os.File) error { return b.WriteJSON(f) }
	case ".msgpack", ".mpk":
		write = func(b *record.Backend, f *os.File) error { return b.WriteMsgpack(f) }
	default:
		return nil, fmt.Errorf("unsupported output extension %q (want .json or .msgpack)", filepath.Ext(path))
	}
	return func(b *record.Backend, path string) error {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := write(b, f); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}, nil
}
