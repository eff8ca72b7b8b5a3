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

	"github.com/matzehuels/structboard/pkg/diagram"
	"github.com/matzehuels/structboard/pkg/document"
	"github.com/matzehuels/structboard/pkg/errors"
)

// isolate points every XDG directory at a fresh temp dir and returns a
// work directory for diagram files.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, "data"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, "cache"))
	for _, k := range []string{"STRUCTBOARD_CONFIG", "STRUCTBOARD_STORE", "STRUCTBOARD_MONGO_URI", "STRUCTBOARD_REDIS_ADDR", "STRUCTBOARD_ADDR"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	return t.TempDir()
}

// execute runs the CLI with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.SetOutput(&out)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	if err != nil {
		t.Fatalf("structboard %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func readDoc(t *testing.T, path string) *diagram.Document {
	t.Helper()
	d, rep, err := document.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !rep.Clean() {
		t.Fatalf("report not clean: %+v", rep)
	}
	return d
}

func byName(t *testing.T, d *diagram.Document, name string) *diagram.Element {
	t.Helper()
	e, err := resolve(d, name)
	if err != nil {
		t.Fatalf("resolve %s: %v", name, err)
	}
	return e
}

func TestDemoAndInspect(t *testing.T) {
	path := filepath.Join(isolate(t), "demo.json")
	mustExecute(t, "demo", path)

	out := mustExecute(t, "inspect", path)
	for _, want := range []string{"node1", "node2", "head", iconArrow + " node1", "calls", "= main", "stack"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output missing %q:\n%s", want, out)
		}
	}

	if _, err := execute(t, "demo", path); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("demo over existing file err = %v", err)
	}
	mustExecute(t, "demo", path, "--force")
}

func TestEditWorkflow(t *testing.T) {
	path := filepath.Join(isolate(t), "board.yaml")
	mustExecute(t, "new", path)
	mustExecute(t, "edit", "add", "struct", path, "--name", "node", "--x", "100", "--y", "100")
	mustExecute(t, "edit", "add", "data", path, "--name", "val", "--value", "7", "--into", "node")
	mustExecute(t, "edit", "add", "pointer", path, "--name", "p", "--x", "400")
	out := mustExecute(t, "edit", "link", path, "p", "node")
	if !strings.Contains(out, "Linked p "+iconArrow+" node") {
		t.Errorf("link output = %q", out)
	}

	d := readDoc(t, path)
	node, val, p := byName(t, d, "node"), byName(t, d, "val"), byName(t, d, "p")
	if val.Parent() != node.ID() || p.Target() != node.ID() {
		t.Fatalf("parent = %q, target = %q", val.Parent(), p.Target())
	}

	mustExecute(t, "edit", "set-value", path, "val", "9")
	mustExecute(t, "edit", "rename", path, "p", "head")
	mustExecute(t, "edit", "copy", path, "node")
	d = readDoc(t, path)
	if d.Len() != 5 {
		t.Errorf("after copy Len = %d, want 5", d.Len())
	}
	if byName(t, d, "head").Target() != node.ID() {
		t.Error("rename lost the target")
	}
	if _, err := resolve(d, "val"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("copied name should be ambiguous, err = %v", err)
	}

	out = mustExecute(t, "edit", "delete", path, node.ID())
	if !strings.Contains(out, "(2 elements removed)") {
		t.Errorf("delete output = %q", out)
	}
	d = readDoc(t, path)
	if byName(t, d, "head").Target() != "" {
		t.Error("deleting the target should clear the pointer")
	}
	if d.Get(val.ID()) != nil {
		t.Error("child survived its container")
	}
}

func TestEditRefusals(t *testing.T) {
	path := filepath.Join(isolate(t), "board.json")
	mustExecute(t, "new", path)
	mustExecute(t, "edit", "add", "data", path, "--name", "a")
	mustExecute(t, "edit", "add", "pointer", path, "--name", "p")
	mustExecute(t, "edit", "add", "container", path, "--name", "box")
	mustExecute(t, "edit", "add", "struct", path, "--name", "s", "--x", "600")
	mustExecute(t, "edit", "add", "data", path, "--name", "slot", "--into", "s")

	tests := []struct {
		name string
		args []string
		want errors.Code
	}{
		{"unknown kind", []string{"edit", "add", "blob", path}, errors.ErrCodeInvalidFormat},
		{"unknown element", []string{"edit", "rename", path, "nope", "x"}, errors.ErrCodeNotFound},
		{"link from data cell", []string{"edit", "link", path, "a", "box"}, errors.ErrCodeStructural},
		{"put into data cell", []string{"edit", "put", path, "a", "p"}, errors.ErrCodeStructural},
		{"put into itself", []string{"edit", "put", path, "box", "box"}, errors.ErrCodeStructural},
		{"value on pointer", []string{"edit", "set-value", path, "p", "1"}, errors.ErrCodeStructural},
		{"pop container", []string{"edit", "pop", path, "box"}, errors.ErrCodeStructural},
		{"unlink empty pointer", []string{"edit", "unlink", path, "p"}, errors.ErrCodeStructural},
		{"move out free element", []string{"edit", "move-out", path, "a"}, errors.ErrCodeStructural},
		{"remove non-child", []string{"edit", "remove", path, "box", "a"}, errors.ErrCodeStructural},
		{"bad offset", []string{"edit", "move", path, "a", "x", "1"}, errors.ErrCodeInvalidInput},
		{"move struct slot", []string{"edit", "move", path, "slot", "10", "10"}, errors.ErrCodeStructural},
		{"missing file", []string{"edit", "clear", path + ".yaml"}, errors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want code %s", err, tt.want)
			}
		})
	}
	if d := readDoc(t, path); d.Len() != 5 {
		t.Errorf("refused edits changed the file: Len = %d", d.Len())
	}
}

func TestEditPartialFile(t *testing.T) {
	path := filepath.Join(isolate(t), "partial.json")
	body := `[
  {"type":"DataCell","id":"a","x":0,"y":0,"name":"a","width":120,"height":60,"value":"1"},
  {"type":"Container","id":"c","x":300,"y":0,"name":"box"}
]`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "edit", "rename", path, "a", "b"); !errors.Is(err, errors.ErrCodeInvalidDocument) {
		t.Fatalf("edit of partial file err = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != body {
		t.Errorf("refused edit rewrote the file:\n%s", data)
	}

	mustExecute(t, "edit", "rename", path, "a", "b", "--force")
	d := readDoc(t, path)
	if d.Len() != 1 || byName(t, d, "b").ID() != "a" {
		t.Errorf("forced edit: Len = %d", d.Len())
	}
}

func TestEditStackPop(t *testing.T) {
	path := filepath.Join(isolate(t), "stack.json")
	mustExecute(t, "new", path)
	mustExecute(t, "edit", "add", "queue", path, "--name", "q")
	for _, v := range []string{"first", "second"} {
		mustExecute(t, "edit", "add", "data", path, "--name", v, "--into", "q")
	}

	out := mustExecute(t, "edit", "pop", path, "q")
	if !strings.Contains(out, "Popped first from queue q") {
		t.Errorf("pop output = %q", out)
	}
	mustExecute(t, "edit", "pop", path, "q")
	if _, err := execute(t, "edit", "pop", path, "q"); !errors.Is(err, errors.ErrCodeStructural) {
		t.Errorf("pop on empty queue err = %v", err)
	}

	d := readDoc(t, path)
	if len(d.ChildrenOf(byName(t, d, "q").ID())) != 0 || len(d.TopLevel()) != 3 {
		t.Errorf("popped elements should be free-floating, top level = %d", len(d.TopLevel()))
	}
}

func TestEditDrag(t *testing.T) {
	path := filepath.Join(isolate(t), "drag.json")
	mustExecute(t, "new", path)
	mustExecute(t, "edit", "add", "container", path, "--name", "box", "--width", "300", "--height", "200")
	mustExecute(t, "edit", "add", "container", path, "--name", "box2", "--y", "300", "--width", "300", "--height", "200")
	mustExecute(t, "edit", "add", "data", path, "--name", "a", "--x", "500", "--y", "500")
	mustExecute(t, "edit", "add", "pointer", path, "--name", "p", "--x", "500", "--y", "100")

	d := readDoc(t, path)
	at := func(name string) []string {
		c := byName(t, d, name).Bounds().Center()
		return []string{fmt.Sprint(c.X), fmt.Sprint(c.Y)}
	}

	args := append(append([]string{"edit", "drag", path}, at("a")...), "100", "100")
	if out := mustExecute(t, args...); !strings.Contains(out, "added to container") {
		t.Errorf("move drag output = %q", out)
	}
	args = append(append([]string{"edit", "drag", path}, at("p")...), "150", "450")
	if out := mustExecute(t, args...); !strings.Contains(out, "Linked p "+iconArrow+" box2") {
		t.Errorf("link drag output = %q", out)
	}

	d = readDoc(t, path)
	if byName(t, d, "a").Parent() != byName(t, d, "box").ID() {
		t.Error("dropped element not in box")
	}
	if byName(t, d, "p").Target() != byName(t, d, "box2").ID() {
		t.Error("link drag did not retarget")
	}

	if _, err := execute(t, "edit", "drag", "--", path, "-1000", "-1000", "0", "0"); !errors.Is(err, errors.ErrCodeStructural) {
		t.Errorf("drag on empty canvas err = %v", err)
	}
}

func TestRender(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "demo.json")
	mustExecute(t, "demo", path)

	base := filepath.Join(dir, "out", "demo")
	out := mustExecute(t, "render", path, "-f", "svg,dot,json", "-o", base, "--grid")
	if !strings.Contains(out, "fresh") {
		t.Errorf("first render should not be cached:\n%s", out)
	}
	for _, ext := range []string{"svg", "dot", "json"} {
		if _, err := os.Stat(base + "." + ext); err != nil {
			t.Errorf("missing %s output: %v", ext, err)
		}
	}
	if out := mustExecute(t, "render", path, "-f", "svg,dot,json", "-o", base, "--grid"); !strings.Contains(out, "cached") {
		t.Errorf("second render should be cached:\n%s", out)
	}
	if out := mustExecute(t, "render", path, "-f", "svg,dot,json", "-o", base, "--grid", "--no-cache"); strings.Contains(out, "cached") {
		t.Errorf("--no-cache render reported a cache hit:\n%s", out)
	}

	out = mustExecute(t, "render", path, "-f", "dot", "-o", "-")
	if !strings.HasPrefix(out, "digraph G {") {
		t.Errorf("stdout render = %.40q", out)
	}

	mustExecute(t, "render", path, "-f", "png", "--scale", "2")
	if _, err := os.Stat(filepath.Join(dir, "demo.png")); err != nil {
		t.Errorf("default output path: %v", err)
	}
	mustExecute(t, "render", path, "-f", "svg", "-o", filepath.Join(dir, "exact.svg"))
	if _, err := os.Stat(filepath.Join(dir, "exact.svg")); err != nil {
		t.Errorf("exact output path: %v", err)
	}
}

func TestRenderErrors(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "demo.json")
	mustExecute(t, "demo", path)

	tests := []struct {
		name string
		args []string
		want errors.Code
	}{
		{"unknown format", []string{"render", path, "-f", "gif"}, errors.ErrCodeInvalidFormat},
		{"stdout with two formats", []string{"render", path, "-f", "svg,png", "-o", "-"}, errors.ErrCodeInvalidInput},
		{"missing file", []string{"render", filepath.Join(dir, "nope.json")}, errors.ErrCodeFileNotFound},
		{"unknown highlight", []string{"render", path, "--highlight", "ghost"}, errors.ErrCodeNotFound},
		{"bad scale", []string{"render", path, "-f", "png", "--scale", "-1"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want code %s", err, tt.want)
			}
		})
	}
}

func TestValidateAndConvert(t *testing.T) {
	dir := isolate(t)
	good := filepath.Join(dir, "good.json")
	mustExecute(t, "demo", good)

	bad := filepath.Join(dir, "bad.json")
	body := `[{"type":"PointerCell","id":"p","x":0,"y":0,"name":"p","width":60,"height":60,"targetId":"ghost"}]`
	if err := os.WriteFile(bad, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	if out := mustExecute(t, "validate", good); !strings.Contains(out, "good.json") {
		t.Errorf("validate output = %q", out)
	}
	out, err := execute(t, "validate", good, bad)
	if !errors.Is(err, errors.ErrCodeInvalidDocument) {
		t.Errorf("validate bad err = %v", err)
	}
	if !strings.Contains(out, "1 dangling") {
		t.Errorf("validate output lacks the report:\n%s", out)
	}

	yml := filepath.Join(dir, "good.yaml")
	mustExecute(t, "convert", good, yml)
	if a, b := readDoc(t, good), readDoc(t, yml); a.Len() != b.Len() {
		t.Errorf("convert changed element count: %d vs %d", a.Len(), b.Len())
	}

	fixed := filepath.Join(dir, "fixed.json")
	mustExecute(t, "convert", bad, fixed)
	if d := readDoc(t, fixed); d.Get("p").Target() != "" {
		t.Error("convert kept a dangling target")
	}
}

func TestStoreCommands(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "demo.json")
	mustExecute(t, "demo", path)

	if out := mustExecute(t, "store", "list"); !strings.Contains(out, "No stored diagrams") {
		t.Errorf("empty list output = %q", out)
	}
	mustExecute(t, "store", "put", "lists", path)
	if out := mustExecute(t, "store", "ls"); !strings.Contains(out, "lists") {
		t.Errorf("list output = %q", out)
	}
	if out := mustExecute(t, "store", "get", "lists", "--format", "yaml"); !strings.Contains(out, "type: Struct") {
		t.Errorf("get yaml output = %.200q", out)
	}
	copyPath := filepath.Join(dir, "copy.json")
	mustExecute(t, "store", "get", "lists", "-o", copyPath)
	if readDoc(t, copyPath).Len() != readDoc(t, path).Len() {
		t.Error("stored copy differs in size")
	}

	mustExecute(t, "render", "--stored", "lists", "-f", "json", "-o", filepath.Join(dir, "stored"))
	if _, err := os.Stat(filepath.Join(dir, "stored.json")); err != nil {
		t.Errorf("stored render output: %v", err)
	}

	mustExecute(t, "store", "rm", "lists")
	if _, err := execute(t, "store", "get", "lists"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("get after rm err = %v", err)
	}
	if _, err := execute(t, "store", "put", "../x", path); !errors.Is(err, errors.ErrCodeInvalidName) {
		t.Errorf("bad name err = %v", err)
	}
}

func TestClip(t *testing.T) {
	path := filepath.Join(isolate(t), "demo.json")
	mustExecute(t, "demo", path)

	var got string
	orig := clipboardWrite
	clipboardWrite = func(s string) error { got = s; return nil }
	t.Cleanup(func() { clipboardWrite = orig })

	mustExecute(t, "clip", path, "-f", "dot")
	if !strings.HasPrefix(got, "digraph G {") {
		t.Errorf("clipboard = %.40q", got)
	}
	if _, err := execute(t, "clip", path, "-f", "png"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("png clip err = %v", err)
	}
}

func TestConfigFile(t *testing.T) {
	dir := isolate(t)
	cfg := filepath.Join(dir, "config.toml")
	body := "[render]\nformats = [\"dot\"]\n\n[store]\nbackend = \"sqlite\"\ndsn = \"" + filepath.ToSlash(filepath.Join(dir, "db.sqlite")) + "\"\n"
	if err := os.WriteFile(cfg, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "demo.json")
	mustExecute(t, "demo", path)

	mustExecute(t, "--config", cfg, "render", path)
	if _, err := os.Stat(filepath.Join(dir, "demo.dot")); err != nil {
		t.Errorf("configured format not used: %v", err)
	}

	mustExecute(t, "--config", cfg, "store", "put", "demo", path)
	if _, err := os.Stat(filepath.Join(dir, "db.sqlite")); err != nil {
		t.Errorf("sqlite store not used: %v", err)
	}

	out := mustExecute(t, "--config", cfg, "config", "show")
	if !strings.Contains(out, `backend = "sqlite"`) {
		t.Errorf("config show = %s", out)
	}
	if out := mustExecute(t, "--config", cfg, "config", "path"); strings.TrimSpace(out) != cfg {
		t.Errorf("config path = %q", out)
	}

	if err := os.WriteFile(cfg, []byte("[render]\nformat = \"svg\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "--config", cfg, "config", "show"); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("unknown key err = %v", err)
	}
}

func TestCacheCommands(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "demo.json")
	mustExecute(t, "demo", path)

	if out := mustExecute(t, "cache", "path"); !strings.HasPrefix(strings.TrimSpace(out), os.Getenv("XDG_CACHE_HOME")) {
		t.Errorf("cache path = %q", out)
	}
	mustExecute(t, "render", path, "-f", "svg,dot")
	if out := mustExecute(t, "cache", "clear"); !strings.Contains(out, "Cleared 2 cached entries") {
		t.Errorf("clear output = %q", out)
	}
	if out := mustExecute(t, "cache", "clear"); !strings.Contains(out, "Cache is empty") {
		t.Errorf("second clear output = %q", out)
	}
}

func TestCompletion(t *testing.T) {
	isolate(t)
	if out := mustExecute(t, "completion", "bash"); !strings.Contains(out, "structboard") {
		t.Errorf("bash completion lacks program name")
	}
	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("unsupported shell accepted")
	}
}

func TestTrimExt(t *testing.T) {
	tests := map[string]string{
		"a/board.json": "a/board",
		"board.YAML":   "board",
		"board.yml":    "board",
		"board.txt":    "board.txt",
	}
	for in, want := range tests {
		if got := trimExt(in); got != want {
			t.Errorf("trimExt(%q) = %q, want %q", in, got, want)
		}
	}
}
