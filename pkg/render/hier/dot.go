package hier

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/layoutwriter/pkg/layout"
)

// Options configures hierarchy rendering.
type Options struct {
	// Detailed adds figure counts to the root label and instance names to
	// master labels. When false, only cell names are shown.
	Detailed bool
}

// masterUse aggregates the placements of one master.
type masterUse struct {
	master layout.Master
	names  []string
	copies int
}

// ToDOT converts the instance hierarchy of l to Graphviz DOT format.
// Masters appear in first-use order.
func ToDOT(l *layout.Layout, cell string, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=lightblue];\n", cell, rootLabel(l, cell, opts.Detailed))

	uses := collect(l)
	for _, u := range uses {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", u.master.String(), masterLabel(u, opts.Detailed))
	}

	buf.WriteString("\n")
	for _, u := range uses {
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", cell, u.master.String(), "x"+strconv.Itoa(u.copies))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func collect(l *layout.Layout) []*masterUse {
	byMaster := make(map[layout.Master]*masterUse)
	var out []*masterUse
	for _, in := range l.Insts {
		u, ok := byMaster[in.Master]
		if !ok {
			u = &masterUse{master: in.Master}
			byMaster[in.Master] = u
			out = append(out, u)
		}
		u.names = append(u.names, in.Name)
		u.copies += max(in.Array.Rows, 1) * max(in.Array.Cols, 1)
	}
	return out
}

func rootLabel(l *layout.Layout, cell string, detailed bool) string {
	if !detailed {
		return cell
	}
	parts := []string{cell}
	for _, k := range layout.Kinds {
		if n := l.Count(k); n > 0 {
			parts = append(parts, fmt.Sprintf("%s: %d", k, n))
		}
	}
	return strings.Join(parts, "\n")
}

func masterLabel(u *masterUse, detailed bool) string {
	if !detailed {
		return u.master.Cell
	}
	return u.master.String() + "\n" + strings.Join(u.names, ", ")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element to a zero-origin viewBox with
// matching pixel size.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
