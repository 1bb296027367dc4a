package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	merrors "github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/grid"
	"github.com/matzehuels/masonry/pkg/session"
)

const testManifest = `{
  "items": [
    {"id": "alpha", "height": 100},
    {"id": "beta", "label": "Beta", "height": 50},
    {"id": "gamma", "height": 80},
    {"id": "delta", "height": 40}
  ]
}`

// runCLI executes the root command with isolated cache and config dirs.
func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func writeManifest(t *testing.T) string {
	t.Helper()
	return writeFile(t, t.TempDir(), "photos.json", testManifest)
}

func TestLayoutCommand(t *testing.T) {
	input := writeManifest(t)

	if err := runCLI(t, "layout", input, "-c", "2", "-w", "200"); err != nil {
		t.Fatalf("layout error: %v", err)
	}

	out := strings.TrimSuffix(input, ".json") + layoutSuffix
	lf, err := readLayout(out)
	if err != nil {
		t.Fatalf("readLayout(%q) error: %v", out, err)
	}
	if got := lf.State.Len(); got != 4 {
		t.Errorf("Len() = %d, want 4", got)
	}
	if got := lf.State.ContentHeight(); got != 180 {
		t.Errorf("ContentHeight() = %v, want 180", got)
	}
	if diff := cmp.Diff([]string{"alpha", "Beta", "gamma", "delta"}, lf.Manifest.Labels()); diff != "" {
		t.Errorf("Labels() mismatch (-want +got):\n%s", diff)
	}

	p, _ := lf.State.Placement(3)
	want := grid.Rect{X: 100, Y: 50, Width: 100, Height: 40}
	if p.Frame != want {
		t.Errorf("Placement(3).Frame = %+v, want %+v", p.Frame, want)
	}
}

func TestLayoutCommandConfigDefaults(t *testing.T) {
	input := writeManifest(t)
	cfg := writeFile(t, t.TempDir(), "masonry.toml", "[layout]\ncolumns = 4\nwidth = 400\n")

	if err := runCLI(t, "--config", cfg, "layout", input); err != nil {
		t.Fatalf("layout error: %v", err)
	}

	lf, err := readLayout(strings.TrimSuffix(input, ".json") + layoutSuffix)
	if err != nil {
		t.Fatal(err)
	}
	if lf.State.Columns() != 4 || lf.State.Width() != 400 {
		t.Errorf("geometry = %d columns, width %v; want 4 columns, width 400", lf.State.Columns(), lf.State.Width())
	}

	// Explicit flags win over the config file.
	if err := runCLI(t, "--config", cfg, "layout", input, "-c", "2"); err != nil {
		t.Fatalf("layout error: %v", err)
	}
	lf, err = readLayout(strings.TrimSuffix(input, ".json") + layoutSuffix)
	if err != nil {
		t.Fatal(err)
	}
	if lf.State.Columns() != 2 {
		t.Errorf("Columns() = %d, want 2", lf.State.Columns())
	}
}

func TestLayoutCommandErrors(t *testing.T) {
	input := writeManifest(t)

	tests := []struct {
		name string
		args []string
		code merrors.Code
	}{
		{"zero columns", []string{"layout", input, "-c", "0"}, merrors.ErrCodeInvalidConfiguration},
		{"negative width", []string{"layout", input, "--width=-10"}, merrors.ErrCodeInvalidConfiguration},
		{"missing file", []string{"layout", filepath.Join(t.TempDir(), "none.json")}, merrors.ErrCodeFileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := runCLI(t, tt.args...); !merrors.Is(err, tt.code) {
				t.Errorf("%v error = %v, want %s", tt.args, err, tt.code)
			}
		})
	}
}

func TestRenderCommand(t *testing.T) {
	input := writeManifest(t)
	if err := runCLI(t, "layout", input, "-c", "2", "-w", "200"); err != nil {
		t.Fatalf("layout error: %v", err)
	}
	layoutPath := strings.TrimSuffix(input, ".json") + layoutSuffix
	base := filepath.Join(t.TempDir(), "out")

	if err := runCLI(t, "render", layoutPath, "-f", "svg,json", "-o", base, "--labels"); err != nil {
		t.Fatalf("render error: %v", err)
	}

	svg, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatalf("read svg: %v", err)
	}
	for _, want := range []string{`id="item-gamma"`, ">Beta<"} {
		if !strings.Contains(string(svg), want) {
			t.Errorf("svg missing %s", want)
		}
	}
	if _, err := os.Stat(base + ".render.json"); err != nil {
		t.Errorf("json artifact not written: %v", err)
	}
}

func TestRenderCommandInvalidFormat(t *testing.T) {
	input := writeManifest(t)
	if err := runCLI(t, "render", input, "-f", "gif"); !merrors.Is(err, merrors.ErrCodeInvalidFormat) {
		t.Errorf("render -f gif error = %v, want %s", err, merrors.ErrCodeInvalidFormat)
	}
}

func TestQueryCommand(t *testing.T) {
	input := writeManifest(t)

	if err := runCLI(t, "query", input, "-c", "2", "-w", "200", "--rect", "0,0,200,60"); err != nil {
		t.Errorf("query error: %v", err)
	}
	if err := runCLI(t, "query", input, "--rect", "0,0,200"); !merrors.Is(err, merrors.ErrCodeInvalidInput) {
		t.Errorf("query with short rect error = %v, want %s", err, merrors.ErrCodeInvalidInput)
	}
	if err := runCLI(t, "query", input); err == nil {
		t.Error("query without --rect should fail")
	}
}

func TestParseRect(t *testing.T) {
	tests := []struct {
		in      string
		want    grid.Rect
		wantErr bool
	}{
		{"0,0,800,600", grid.Rect{Width: 800, Height: 600}, false},
		{" 10, 20.5 ,30,40", grid.Rect{X: 10, Y: 20.5, Width: 30, Height: 40}, false},
		{"1,2,3", grid.Rect{}, true},
		{"a,b,c,d", grid.Rect{}, true},
		{"", grid.Rect{}, true},
	}

	for _, tt := range tests {
		got, err := parseRect(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseRect(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseRect(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestOutputBase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photos.json", "photos"},
		{"dir/photos.toml", "dir/photos"},
		{"photos.layout.json", "photos"},
		{"https://example.com/feeds/photos.json?page=2", "photos"},
		{"https://example.com/", "items"},
	}

	for _, tt := range tests {
		if got := outputBase(tt.in); got != tt.want {
			t.Errorf("outputBase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		input   string
		formats []string
		want    map[string]string
	}{
		{
			name: "single format explicit output", output: "top.svg", input: "photos.json",
			formats: []string{"svg"}, want: map[string]string{"svg": "top.svg"},
		},
		{
			name: "derived from input", input: "photos.layout.json",
			formats: []string{"svg", "png"}, want: map[string]string{"svg": "photos.svg", "png": "photos.png"},
		},
		{
			name: "json never collides with the manifest", input: "photos.json",
			formats: []string{"json"}, want: map[string]string{"json": "photos.render.json"},
		},
		{
			name: "base path for several formats", output: "out/grid", input: "photos.json",
			formats: []string{"svg", "pdf"}, want: map[string]string{"svg": "out/grid.svg", "pdf": "out/grid.pdf"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPaths(tt.output, tt.input, tt.formats)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("outputPaths() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReadLayoutRejectsManifest(t *testing.T) {
	path := writeFile(t, t.TempDir(), "photos.layout.json", testManifest)
	if _, err := readLayout(path); !merrors.Is(err, merrors.ErrCodeInvalidConfiguration) {
		t.Errorf("readLayout(manifest) error = %v, want %s", err, merrors.ErrCodeInvalidConfiguration)
	}
}

func TestHealthURL(t *testing.T) {
	if got := healthURL(":8080"); got != "http://localhost:8080/healthz" {
		t.Errorf("healthURL(:8080) = %q", got)
	}
	if got := healthURL("0.0.0.0:9000"); got != "http://0.0.0.0:9000/healthz" {
		t.Errorf("healthURL(0.0.0.0:9000) = %q", got)
	}
}

func TestServeBackends(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c := New(io.Discard, LogInfo)

	b, err := c.serveBackends(context.Background(), serveOpts{noCache: true})
	if err != nil {
		t.Fatalf("serveBackends() error: %v", err)
	}
	if _, ok := b.store.(*session.MemoryStore); !ok {
		t.Errorf("store = %T, want *session.MemoryStore", b.store)
	}
	if b.keyer != nil {
		t.Errorf("keyer = %T, want nil without Redis", b.keyer)
	}
	b.Close()

	dir := filepath.Join(t.TempDir(), "sessions")
	b, err = c.serveBackends(context.Background(), serveOpts{sessionDir: dir})
	if err != nil {
		t.Fatalf("serveBackends(session-dir) error: %v", err)
	}
	defer b.Close()
	if _, ok := b.store.(*session.FileStore); !ok {
		t.Errorf("store = %T, want *session.FileStore", b.store)
	}
	if !strings.HasPrefix(b.name, "files in ") {
		t.Errorf("name = %q", b.name)
	}
}

func TestRedisSessionPrefix(t *testing.T) {
	if got := redisSessionPrefix("masonry:prod:"); got != "masonry:prod:session:" {
		t.Errorf("redisSessionPrefix() = %q", got)
	}
	if got := redisSessionPrefix(""); got != "" {
		t.Errorf("redisSessionPrefix(\"\") = %q, want empty", got)
	}
}
