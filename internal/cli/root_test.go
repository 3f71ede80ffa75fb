package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/dissect/pkg/check"
	"github.com/matzehuels/dissect/pkg/core/dyck"
	"github.com/matzehuels/dissect/pkg/errors"
)

// execute runs the root command with args and stdin, returning everything
// written to stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	old := stdout
	stdout = &out
	t.Cleanup(func() { stdout = old })

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	if !hasFlag(args, "--config") {
		args = append([]string{"--config", filepath.Join(t.TempDir(), "missing.toml")}, args...)
	}
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSamplePath(t *testing.T) {
	out, err := execute(t, "", "--seed", "7", "sample", "path", "--arity", "3", "--length", "31")
	if err != nil {
		t.Fatalf("sample path: %v", err)
	}
	p, err := dyck.Parse(strings.TrimSpace(out))
	if err != nil {
		t.Fatalf("output %q does not parse: %v", out, err)
	}
	if len(p) != 31 || !dyck.IsRAry(p, 3) {
		t.Errorf("got %s, want a 3-ary path of length 31", p)
	}
}

func TestSamplePath_BadLength(t *testing.T) {
	_, err := execute(t, "", "sample", "path", "--arity", "3", "--length", "30")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestSamplePoly_UsesConfig(t *testing.T) {
	cfg := writeFile(t, "config.toml", "[sample]\nsides = 7\n")
	out, err := execute(t, "", "--config", cfg, "sample", "poly")
	if err != nil {
		t.Fatalf("sample poly: %v", err)
	}
	if lines := strings.Split(strings.TrimSpace(out), "\n"); len(lines) != 4 {
		t.Errorf("got %d diagonals, want 4:\n%s", len(lines), out)
	}
}

func TestBadConfig(t *testing.T) {
	cfg := writeFile(t, "config.toml", "[sample\n")
	_, err := execute(t, "", "--config", cfg, "sample", "path")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want INVALID_FORMAT", err)
	}
}

func TestDyckDecode(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{"argument", "", []string{"dyck", "decode", "2 0 2 0 0"}},
		{"stdin", "2,0,2,0,0\n", []string{"dyck", "decode", "-"}},
		{"implicit stdin", "2 0 2 0 0", []string{"dyck", "decode"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.stdin, tt.args...)
			if err != nil {
				t.Fatalf("dyck decode: %v", err)
			}
			if first := strings.SplitN(out, "\n", 2)[0]; first != "(.(..))" {
				t.Errorf("first line = %q, want %q", first, "(.(..))")
			}
		})
	}
}

func TestDyckCheck(t *testing.T) {
	if _, err := execute(t, "", "dyck", "check", "3 0 0 0"); err != nil {
		t.Errorf("valid path rejected: %v", err)
	}
	if _, err := execute(t, "", "dyck", "check", "2 0"); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("error = %v, want INVALID_PATH", err)
	}
	for _, p := range []string{"9000000000000000000", "5 0 0"} {
		if _, err := execute(t, "", "dyck", "check", p); !errors.Is(err, errors.ErrCodeInvalidPath) {
			t.Errorf("check %q: error = %v, want INVALID_PATH", p, err)
		}
		if _, err := execute(t, "", "dyck", "decode", p); !errors.Is(err, errors.ErrCodeInvalidPath) {
			t.Errorf("decode %q: error = %v, want INVALID_PATH", p, err)
		}
	}
	if _, err := execute(t, "", "dyck", "check", "--arity", "3", "2 0 0"); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("error = %v, want INVALID_PATH for arity mismatch", err)
	}
	if _, err := execute(t, "", "dyck", "check", "2 a"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want INVALID_FORMAT", err)
	}
}

func TestPolyCheck(t *testing.T) {
	out, err := execute(t, "0,2\n0,3\n# comment\n0,4\n", "poly", "check", "--sides", "6")
	if err != nil {
		t.Fatalf("poly check: %v", err)
	}
	if !strings.Contains(out, "valid triangulation of a 6-gon") {
		t.Errorf("unexpected output %q", out)
	}

	_, err = execute(t, "0,2\n1,3\n0,4\n", "poly", "check", "--sides", "6")
	if !errors.Is(err, errors.ErrCodeInvalidDissection) {
		t.Errorf("error = %v, want INVALID_DISSECTION", err)
	}

	_, err = execute(t, "0,2\n", "poly", "check")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT without --sides", err)
	}
}

func TestPolyCheck_JSON(t *testing.T) {
	doc := `{"sides": 5, "diagonals": [[0,2],[2,4]]}`
	if _, err := execute(t, doc, "poly", "check"); err != nil {
		t.Errorf("JSON on stdin: %v", err)
	}
	path := writeFile(t, "poly.json", doc)
	if _, err := execute(t, "", "poly", "check", path); err != nil {
		t.Errorf("JSON file: %v", err)
	}
}

func TestPolyTree(t *testing.T) {
	out, err := execute(t, "0,2\n", "poly", "tree", "--sides", "4")
	if err != nil {
		t.Fatalf("poly tree: %v", err)
	}
	if first := strings.SplitN(out, "\n", 2)[0]; first != "((..).)" {
		t.Errorf("first line = %q, want %q", first, "((..).)")
	}
}

func TestFlip_Plain(t *testing.T) {
	dir := t.TempDir()
	edges := writeFile(t, "square.txt", "0,2\n")
	plot := filepath.Join(dir, "poly.txt")
	notify := filepath.Join(dir, "watchdog")

	out, err := execute(t, "1\n9\nx\n1\nq\n",
		"flip", "--plain", "--sides", "4", "--from", edges, "--plot", plot, "--notify", notify)
	if err != nil {
		t.Fatalf("flip: %v", err)
	}

	for _, want := range []string{"1: 0,2 -> 1,3", "1: 1,3 -> 0,2", "diagonal index must be in [1, 1], got 9", `"x" is not a diagonal index`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	got, err := os.ReadFile(notify)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "1\n0,2\n" {
		t.Errorf("notification = %q, want %q", got, "1\n0,2\n")
	}

	data, err := os.ReadFile(plot)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != "4" || lines[len(lines)-1] != "0,2" {
		t.Errorf("plot file = %q", data)
	}
}

func TestFlip_NotifyFailureEndsSession(t *testing.T) {
	edges := writeFile(t, "square.txt", "0,2\n")
	bad := filepath.Join(t.TempDir(), "missing", "watchdog")

	_, err := execute(t, "1\n1\n", "flip", "--plain", "--sides", "4", "--from", edges, "--plot", "", "--notify", bad)
	if !errors.Is(err, errors.ErrCodeIO) {
		t.Errorf("error = %v, want IO_ERROR", err)
	}
}

func TestCheckCommand(t *testing.T) {
	out, err := execute(t, "", "--seed", "3", "check", "dyck", "poly", "flip", "--trials", "40", "--workers", "2", "--max-sides", "12")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(out, "all checks passed") {
		t.Errorf("unexpected output:\n%s", out)
	}

	if _, err := execute(t, "", "check", "bogus"); err == nil {
		t.Error("unknown check should fail")
	}
}

func TestCheckCommand_HeightPerArity(t *testing.T) {
	cfg := writeFile(t, "config.toml", "[check]\nheight_internal = 500\nheight_samples = 200\ntolerance = 0.15\n")
	out, err := execute(t, "", "--config", cfg, "--seed", "5", "check", "height", "--height-max-arity", "5", "--workers", "2")
	if err != nil {
		t.Fatalf("check height: %v", err)
	}
	for r := 2; r <= 5; r++ {
		if !strings.Contains(out, fmt.Sprintf("height r=%d", r)) {
			t.Errorf("missing row for arity %d:\n%s", r, out)
		}
	}

	if _, err := execute(t, "", "check", "height", "--height-max-arity", "1"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestReportRows(t *testing.T) {
	rows := reportRows(check.Report{Name: check.Dyck, Trials: 10}, nil)
	if len(rows) != 1 || rows[0][0] != check.Dyck || rows[0][1] != "10" {
		t.Errorf("rows = %v", rows)
	}

	rep := check.Report{Name: check.Height, Heights: []check.HeightStat{
		{Arity: 2, Samples: 5, Mean: 10, Expected: 10},
		{Arity: 3, Samples: 5, Mean: 20, Expected: 10},
	}}
	rows = reportRows(rep, errors.New(errors.ErrCodeInternal, "arity 3 off"))
	if len(rows) != 2 {
		t.Fatalf("rows = %v", rows)
	}
	if rows[1][0] != "height r=3" || !strings.Contains(rows[1][3], "arity 3 off") {
		t.Errorf("failing row = %v", rows[1])
	}
	if !strings.Contains(rows[0][3], "mean 10.00") {
		t.Errorf("passing row = %v", rows[0])
	}
}

func TestCompletion(t *testing.T) {
	out, err := execute(t, "", "completion", "bash")
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out, "__start_dissect") {
		t.Errorf("bash completion does not register dissect:\n%.200s", out)
	}
	if _, err := execute(t, "", "completion", "tcsh"); err == nil {
		t.Error("unknown shell should fail")
	}
}

func TestCacheCommands(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	out, err := execute(t, "", "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if strings.TrimSpace(out) != filepath.Join(xdg, "dissect") {
		t.Errorf("cache path = %q", out)
	}

	out, err = execute(t, "", "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "removed 0 cached artifacts") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestDyckNext(t *testing.T) {
	out, err := execute(t, "", "dyck", "next", "2 0 2 0 2 0 0", "--count", "2")
	if err != nil {
		t.Fatalf("dyck next: %v", err)
	}
	if want := "2 0 2 2 0 0 0\n2 2 0 0 2 0 0\n"; out != want {
		t.Errorf("output = %q, want %q", out, want)
	}

	if _, err := execute(t, "", "dyck", "next", "2 2 0 0 0"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("error = %v, want NOT_FOUND after the last path", err)
	}
	if _, err := execute(t, "", "dyck", "next", "2 0"); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("error = %v, want INVALID_PATH", err)
	}
	if _, err := execute(t, "", "dyck", "next", "2 0 3 0 0 0"); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("error = %v, want INVALID_PATH for a mixed-arity path", err)
	}
}

func TestPolyNext(t *testing.T) {
	out, err := execute(t, "", "poly", "next", "--first", "--sides", "5")
	if err != nil {
		t.Fatalf("poly next --first: %v", err)
	}
	if out != "1,4\n2,4\n" {
		t.Errorf("first = %q", out)
	}

	out, err = execute(t, out, "poly", "next", "--sides", "5")
	if err != nil {
		t.Fatalf("poly next: %v", err)
	}
	if out != "1,4\n1,3\n" {
		t.Errorf("next = %q", out)
	}

	if _, err := execute(t, "0,2\n", "poly", "next", "--sides", "4"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}

func TestDyckPlot(t *testing.T) {
	out, err := execute(t, "", "dyck", "plot", "2 0 2 0 0")
	if err != nil {
		t.Fatalf("dyck plot: %v", err)
	}
	if want := "6\n0,0\n1,1\n2,0\n3,1\n4,0\n5,-1\n"; out != want {
		t.Errorf("output = %q, want %q", out, want)
	}

	dotPath := filepath.Join(t.TempDir(), "path.dot")
	if _, err := execute(t, "", "dyck", "plot", "3 0 0 0", "-o", dotPath); err != nil {
		t.Fatalf("dyck plot -o: %v", err)
	}
	data, err := os.ReadFile(dotPath)
	if err != nil || !strings.Contains(string(data), "graph Path") {
		t.Errorf("dot file = %q, %v", data, err)
	}

	if _, err := execute(t, "", "dyck", "plot", "9000000000000000000"); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("error = %v, want INVALID_PATH", err)
	}
}

func TestDyckPlot_All(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots")
	if _, err := execute(t, "", "dyck", "plot", "--all", "--arity", "2", "--internal", "3", "--dir", dir, "--format", "txt"); err != nil {
		t.Fatalf("dyck plot --all: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 5 {
		t.Fatalf("wrote %d files, want 5", len(entries))
	}
	data, err := os.ReadFile(filepath.Join(dir, "path-0001.txt"))
	if err != nil {
		t.Fatal(err)
	}
	first := pathFromPlot(t, string(data))
	if first.String() != dyck.First(2, 3).String() {
		t.Errorf("first plot is %s, want %s", first, dyck.First(2, 3))
	}
}

func TestDyckPlot_Random(t *testing.T) {
	dir := t.TempDir()
	if _, err := execute(t, "", "--seed", "3", "dyck", "plot", "--random", "4", "--arity", "3", "--internal", "6", "--dir", dir, "--format", "dot"); err != nil {
		t.Fatalf("dyck plot --random: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 4 {
		t.Errorf("wrote %d files, want 4", len(entries))
	}

	for _, args := range [][]string{
		{"dyck", "plot", "--random", "2"},
		{"dyck", "plot", "--all", "--random", "2", "--dir", dir},
		{"dyck", "plot", "--all", "--arity", "1", "--dir", dir},
	} {
		if _, err := execute(t, "", args...); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("%v: error = %v, want INVALID_INPUT", args, err)
		}
	}
	if _, err := execute(t, "", "dyck", "plot", "--random", "1", "--dir", dir, "--format", "bmp"); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("error = %v, want UNSUPPORTED", err)
	}
}

// pathFromPlot recovers the steps of an r-ary path from its plot data.
func pathFromPlot(t *testing.T, data string) dyck.Path {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(data), "\n")[1:]
	var p dyck.Path
	prev := 0
	for _, line := range lines[1:] {
		var x, y int
		if _, err := fmt.Sscanf(line, "%d,%d", &x, &y); err != nil {
			t.Fatalf("bad plot line %q: %v", line, err)
		}
		p = append(p, dyck.Step(y-prev+1))
		prev = y
	}
	return p
}

func TestDyckMountain(t *testing.T) {
	out, err := execute(t, "", "dyck", "mountain", "2 0 2 0 0")
	if err != nil {
		t.Fatalf("dyck mountain: %v", err)
	}
	if out != "1\n" {
		t.Errorf("positions = %q, want %q", out, "1\n")
	}

	out, err = execute(t, "", "dyck", "mountain", "2 0 2 0 0", "--at", "1")
	if err != nil {
		t.Fatalf("dyck mountain --at: %v", err)
	}
	if out != "2 2 0 0 0\n" {
		t.Errorf("flipped = %q", out)
	}

	if _, err := execute(t, "", "dyck", "mountain", "2 0 2 0 0", "--at", "0"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT for a peak on the axis", err)
	}
}
