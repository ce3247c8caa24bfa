package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	errs "github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/observability"
)

// execute runs the root command with args and returns what it wrote to its
// output stream.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeContext(context.Background(), t, args...)
}

func executeContext(ctx context.Context, t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return out.String(), err
}

// writeSnapshot writes a small knowledge graph with one dangling link and
// returns its path and a config path that does not exist (defaults).
func writeSnapshot(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	s := graph.Snapshot{
		Nodes: []graph.Node{
			{ID: "Ada", Group: "person"},
			{ID: "Analytical Engine", Group: "machine"},
			{ID: "London", Group: "place"},
		},
		Links: []graph.Link{
			{Source: "Ada", Target: "Analytical Engine", Relationship: "programmed"},
			{Source: "Ada", Target: "London", Relationship: "lived in"},
			{Source: "Ada", Target: "Byron", Relationship: "daughter of"},
		},
	}
	path := filepath.Join(dir, "kg.json")
	if err := graph.WriteSnapshotFile(s, path); err != nil {
		t.Fatalf("WriteSnapshotFile: %v", err)
	}
	return path, filepath.Join(dir, "missing.toml")
}

func TestRootCommandSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := []string{"layout", "render", "view", "serve", "dot", "merge", "inspect", "cache", "config", "completion"}
	for _, name := range want {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	c.Logger.Debug("hidden")
	c.SetLogLevel(LogDebug)
	c.Logger.Debug("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("log output = %q", buf.String())
	}
}

func TestLayoutCommand(t *testing.T) {
	input, cfg := writeSnapshot(t)
	output := filepath.Join(filepath.Dir(input), "out.layout.json")

	if _, err := execute(t, "--config", cfg, "layout", "--no-cache", "-o", output, input); err != nil {
		t.Fatalf("layout: %v", err)
	}

	l, err := graph.ReadLayoutFile(output)
	if err != nil {
		t.Fatalf("ReadLayoutFile: %v", err)
	}
	if len(l.Nodes) != 3 || len(l.Links) != 2 {
		t.Errorf("layout has %d nodes, %d links; want 3, 2", len(l.Nodes), len(l.Links))
	}
	if !l.Settled {
		t.Errorf("layout not settled after %d steps", l.Steps)
	}
}

func TestLayoutCommandMaxSteps(t *testing.T) {
	input, cfg := writeSnapshot(t)

	if _, err := execute(t, "--config", cfg, "layout", "--no-cache", "--max-steps", "7", input); err != nil {
		t.Fatalf("layout: %v", err)
	}
	l, err := graph.ReadLayoutFile(strings.TrimSuffix(input, ".json") + ".layout.json")
	if err != nil {
		t.Fatalf("ReadLayoutFile: %v", err)
	}
	if l.Steps != 7 || l.Settled {
		t.Errorf("Steps = %d, Settled = %v; want 7, false", l.Steps, l.Settled)
	}
}

func TestLayoutCommandStrict(t *testing.T) {
	input, cfg := writeSnapshot(t)
	_, err := execute(t, "--config", cfg, "layout", "--no-cache", "--strict", input)
	if !errs.Is(err, errs.ErrCodeUnknownNode) {
		t.Errorf("strict layout error = %v, want UNKNOWN_NODE", err)
	}
}

func TestRenderCommand(t *testing.T) {
	input, cfg := writeSnapshot(t)
	base := strings.TrimSuffix(input, ".json")

	if _, err := execute(t, "--config", cfg, "render", "--no-cache", "-f", "json,scene,dot", input); err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, p := range []string{base + ".layout.json", base + ".scene.json", base + ".dot"} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing artifact %s", p)
		}
	}

	// Render the written layout without simulating again.
	if _, err := execute(t, "--config", cfg, "render", "--no-cache", "--layout", "-f", "svg", base+".layout.json"); err != nil {
		t.Fatalf("render --layout: %v", err)
	}
	svg, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Contains(svg, []byte("Analytical Engine")) || !bytes.Contains(svg, []byte("programmed")) {
		t.Error("SVG is missing labels")
	}
}

func TestRenderCommandRejectsFormat(t *testing.T) {
	input, cfg := writeSnapshot(t)
	_, err := execute(t, "--config", cfg, "render", "--no-cache", "-f", "gif", input)
	if !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("render -f gif error = %v, want INVALID_FORMAT", err)
	}
}

func TestMissingInput(t *testing.T) {
	_, cfg := writeSnapshot(t)
	if _, err := execute(t, "--config", cfg, "layout", "--no-cache", "does-not-exist.json"); err == nil {
		t.Error("layout of a missing file should fail")
	}
}

func TestMergeCommand(t *testing.T) {
	input, cfg := writeSnapshot(t)
	dir := filepath.Dir(input)
	extra := filepath.Join(dir, "extra.json")
	if err := graph.WriteSnapshotFile(graph.Snapshot{
		Nodes: []graph.Node{{ID: "Byron", Group: "person"}, {ID: "Ada"}},
		Links: []graph.Link{{Source: "Byron", Target: "London", Relationship: "lived in"}},
	}, extra); err != nil {
		t.Fatal(err)
	}

	output := filepath.Join(dir, "merged.json")
	if _, err := execute(t, "--config", cfg, "merge", "-o", output, input, extra); err != nil {
		t.Fatalf("merge: %v", err)
	}
	merged, err := graph.ReadSnapshotFile(output)
	if err != nil {
		t.Fatalf("ReadSnapshotFile: %v", err)
	}
	st := merged.Stats()
	if st.Entities != 4 || st.Relations != 4 || st.Dangling != 0 {
		t.Errorf("merged stats = %+v, want 4 nodes, 4 links, 0 dangling", st)
	}
}

func TestInspectCommandJSON(t *testing.T) {
	input, cfg := writeSnapshot(t)
	out, err := execute(t, "--config", cfg, "inspect", "--json", input)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}

	var got struct {
		Entities   int               `json:"entities"`
		Dangling   int               `json:"dangling"`
		Groups     []string          `json:"groups"`
		GroupSizes map[string]int    `json:"group_sizes"`
		Colors     map[string]string `json:"colors"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("inspect output is not JSON: %v\n%s", err, out)
	}
	if got.Entities != 3 || got.Dangling != 1 || len(got.Groups) != 3 {
		t.Errorf("inspect = %+v", got)
	}
	if got.GroupSizes["person"] != 1 || got.Colors["person"] == "" {
		t.Errorf("person group = %d nodes, color %q", got.GroupSizes["person"], got.Colors["person"])
	}
}

func TestInspectCommandTable(t *testing.T) {
	input, cfg := writeSnapshot(t)
	out, err := execute(t, "--config", cfg, "inspect", input)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, want := range []string{"machine", "Byron", "unknown nodes"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output missing %q:\n%s", want, out)
		}
	}
}

func TestDOTCommand(t *testing.T) {
	input, cfg := writeSnapshot(t)
	output := filepath.Join(filepath.Dir(input), "kg.dot")
	if _, err := execute(t, "--config", cfg, "dot", "-o", output, input); err != nil {
		t.Fatalf("dot: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.HasPrefix(string(data), "digraph") || !strings.Contains(string(data), "lived in") {
		t.Errorf("dot output = %q", data)
	}

	if _, err := execute(t, "--config", cfg, "dot", "-f", "bmp", input); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("dot -f bmp error = %v, want INVALID_FORMAT", err)
	}
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	out, err := execute(t, "--config", path, "config", "path")
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if strings.TrimSpace(out) != path {
		t.Errorf("config path = %q, want %q", strings.TrimSpace(out), path)
	}

	if _, err := execute(t, "--config", path, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config init did not write %s", path)
	}

	out, err = execute(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	for _, want := range []string{"[simulation]", "alpha_min", "[server]", "session_ttl"} {
		if !strings.Contains(out, want) {
			t.Errorf("config show missing %q", want)
		}
	}
}

func TestConfigRejectsUnknownKey(t *testing.T) {
	input, _ := writeSnapshot(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[simulation]\nwarp_speed = 9\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "--config", path, "inspect", input); !errs.Is(err, errs.ErrCodeInvalidConfig) {
		t.Errorf("unknown key error = %v, want INVALID_CONFIG", err)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	t.Cleanup(observability.Reset)
	_, cfg := writeSnapshot(t)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if _, err := executeContext(ctx, t, "--config", cfg, "serve", "--no-cache", "--addr", "127.0.0.1:0"); err != nil {
		t.Errorf("serve: %v", err)
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := execute(t, "completion", "fish")
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out, appName) {
		t.Error("fish completion does not mention the command")
	}
}
