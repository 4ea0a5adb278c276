package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/layoutwriter/pkg/io"
	"github.com/matzehuels/layoutwriter/pkg/render/hier"
)

// hierCommand creates the hier command for rendering instance hierarchies.
func (c *CLI) hierCommand() *cobra.Command {
	var (
		output   string
		cell     string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "hier [layout.{json,yaml}]",
		Short: "Render the instance hierarchy of a layout",
		Long: `Render the instance hierarchy of a layout as a node-link diagram.

The top cell links to every instance master, labelled with the number of
placements. Without -o the Graphviz DOT source is printed. An .svg output
is rendered in-process; a .dot output is written as is.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runHier(cmd.Context(), args[0], cell, output, detailed)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.dot or .svg)")
	cmd.Flags().StringVar(&cell, "cell", "", "top cell name (default: layout file base name)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include figure counts and instance names")

	return cmd
}

func (c *CLI) runHier(ctx context.Context, input, cell, output string, detailed bool) error {
	l, err := pkgio.Import(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}
	if cell == "" {
		cell = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}

	dot := hier.ToDOT(l, cell, hier.Options{Detailed: detailed})
	if output == "" {
		fmt.Print(dot)
		return nil
	}

	var data []byte
	switch strings.ToLower(filepath.Ext(output)) {
	case ".dot", ".gv":
		data = []byte(dot)
	case ".svg":
		prog := newProgress(loggerFromContext(ctx))
		if data, err = hier.RenderSVG(dot); err != nil {
			return fmt.Errorf("render svg: %w", err)
		}
		prog.done("rendered hierarchy", "masters", len(l.Masters()))
	default:
		return fmt.Errorf("unsupported output extension %q (want .dot or .svg)", filepath.Ext(output))
	}

	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}
	out := printer{w: os.Stdout}
	out.success("Hierarchy of %s", cell)
	out.file(output)
	out.detail("%d masters · %d instances", len(l.Masters()), len(l.Insts))
	return nil
}
