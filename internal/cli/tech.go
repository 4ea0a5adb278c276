package cli

import (
	"cmp"
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/layoutwriter/pkg/tech"
)

// techCommand creates the tech command for inspecting technology files.
func (c *CLI) techCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tech [file.{toml,lyp}]",
		Short: "Print the layer, purpose and via tables of a technology file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := c.loadTech(args[0])
			if err != nil {
				return err
			}
			printTech(printer{w: os.Stdout}, t)
			return nil
		},
	}
}

func printTech(out printer, t *tech.Tech) {
	u := t.Units()
	out.line(StyleTitle.Render(t.Name))
	out.keyValue("dbu/uu", strconv.Itoa(u.DBUPerUU))
	out.keyValue("grid", strconv.Itoa(u.GridRes))
	out.keyValue("digest", t.Digest()[:12])
	out.newline()

	out.line(renderTable([]string{"Layer", "Number"}, numberRows(t.Layers())))
	out.line(renderTable([]string{"Purpose", "Number"}, numberRows(t.Purposes())))

	vias := t.ViaDefs()
	if len(vias) == 0 {
		return
	}
	rows := make([][]string, len(vias))
	for i, v := range vias {
		rows[i] = []string{v.Name, v.Layer1, v.Cut, v.Layer2}
	}
	out.line(renderTable([]string{"Via", "Bottom", "Cut", "Top"}, rows))
}

// numberRows orders a name table by number, then name.
func numberRows(m map[string]uint32) [][]string {
	names := slices.SortedFunc(maps.Keys(m), func(a, b string) int {
		return cmp.Or(cmp.Compare(m[a], m[b]), cmp.Compare(a, b))
	})
	rows := make([][]string, len(names))
	for i, name := range names {
		rows[i] = []string{name, fmt.Sprint(m[name])}
	}
	return rows
}
