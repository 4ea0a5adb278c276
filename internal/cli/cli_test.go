package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/layoutwriter/pkg/emit/record"
)

const testTech = `
name = "demo"

[layers]
M1 = 8
M2 = 10

[purposes]
drawing = 0
pin = 2

[[vias]]
name = "M1_M2"
layer1 = "M1"
layer2 = "M2"
cut = "V1"
`

const testLayout = `{
  "insts": [
    {"lib": "std", "cell": "inv", "view": "layout", "name": "X0", "loc": {"x": 0, "y": 0}}
  ],
  "rects": [
    {"layer": "M1", "purpose": "drawing", "box": {"xl": 0, "yb": 0, "xr": 1, "yt": 1}, "array": {"nx": 3, "ny": 2, "spx": 2, "spy": 2}},
    {"layer": "M9", "purpose": "drawing", "box": {"xl": 0, "yb": 0, "xr": 1, "yt": 1}}
  ],
  "pins": [
    {"net": "A", "name": "A", "label": "A", "layer": "M1", "purpose": "pin", "box": {"xl": 0, "yb": 0, "xr": 1, "yt": 1}, "make_pin": true}
  ]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	for _, name := range []string{"emit", "tech", "hier", "serve", "cache", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestEmitCommand(t *testing.T) {
	dir := t.TempDir()
	techPath := writeFile(t, dir, "demo.toml", testTech)
	layoutPath := writeFile(t, dir, "top.json", testLayout)

	for _, ext := range []string{".json", ".msgpack"} {
		t.Run(ext, func(t *testing.T) {
			out := filepath.Join(dir, "design"+ext)
			if _, err := execute(t, "emit", layoutPath, "--tech", techPath, "-o", out); err != nil {
				t.Fatalf("emit: %v", err)
			}

			f, err := os.Open(out)
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()
			read := record.ReadJSON
			if ext == ".msgpack" {
				read = record.ReadMsgpack
			}
			designs, err := read(f)
			if err != nil {
				t.Fatalf("read dump: %v", err)
			}
			if len(designs) != 1 {
				t.Fatalf("got %d designs, want 1", len(designs))
			}
			d := designs[0]
			if d.Cell != "top" || d.View != "layout" {
				t.Errorf("design = %s/%s, want top/layout", d.Cell, d.View)
			}
			if got := len(d.Calls); got != 1+6+2 {
				t.Errorf("got %d calls, want 9", got)
			}
			if !d.Saved {
				t.Error("design not saved")
			}
		})
	}
}

func TestEmitCommandErrors(t *testing.T) {
	dir := t.TempDir()
	techPath := writeFile(t, dir, "demo.toml", testTech)
	layoutPath := writeFile(t, dir, "top.json", testLayout)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing tech flag", []string{"emit", layoutPath}, "tech"},
		{"bad output extension", []string{"emit", layoutPath, "--tech", techPath, "-o", "x.gds"}, "unsupported output extension"},
		{"missing layout", []string{"emit", filepath.Join(dir, "nope.json"), "--tech", techPath}, "load layout"},
		{"bad layout extension", []string{"emit", techPath, "--tech", techPath}, "load layout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestHierCommandWritesDOT(t *testing.T) {
	dir := t.TempDir()
	layoutPath := writeFile(t, dir, "top.json", testLayout)
	out := filepath.Join(dir, "top.dot")

	if _, err := execute(t, "hier", layoutPath, "-o", out); err != nil {
		t.Fatalf("hier: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"top" -> "std/inv/layout"`) {
		t.Errorf("unexpected DOT:\n%s", data)
	}
}

func TestCachePathCommand(t *testing.T) {
	out, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), appName) {
		t.Errorf("cache path = %q, want suffix %q", out, appName)
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out, "layoutwriter") {
		t.Error("bash completion should mention the program name")
	}
}

func TestNumberRows(t *testing.T) {
	rows := numberRows(map[string]uint32{"M2": 10, "M1": 8, "M1b": 8})
	want := [][]string{{"M1", "8"}, {"M1b", "8"}, {"M2", "10"}}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i := range want {
		if rows[i][0] != want[i][0] || rows[i][1] != want[i][1] {
			t.Errorf("row %d = %v, want %v", i, rows[i], want[i])
		}
	}
}
