package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/drawerfit/internal/model"
	"github.com/piwi3910/drawerfit/internal/normalize"
	"github.com/piwi3910/drawerfit/internal/project"
)

// workspace points every file a session touches into a temp directory.
type workspace struct {
	dir string
}

func newWorkspace(t *testing.T) workspace {
	t.Helper()
	return workspace{dir: t.TempDir()}
}

func (w workspace) path(name string) string {
	return filepath.Join(w.dir, name)
}

// run executes one CLI invocation with a fresh session and returns what it
// printed.
func (w workspace) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := w.runLogged(t, args...)
	return out, err
}

// runLogged is like run but also returns the log output.
func (w workspace) runLogged(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, logs bytes.Buffer
	c := New(&out, &logs, LogInfo)
	args = append(args,
		"--config", w.path("config.json"),
		"--layout", w.path("layout.json"),
		"--catalog", w.path("catalog.toml"),
	)
	err := c.Execute(context.Background(), args)
	return out.String(), logs.String(), err
}

func (w workspace) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := w.run(t, args...)
	if err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out)
	}
	return out
}

func (w workspace) layout(t *testing.T) model.LayoutState {
	t.Helper()
	state, err := project.LoadLayout(w.path("layout.json"), model.DefaultCatalog(), model.DefaultLimits())
	if err != nil {
		t.Fatalf("LoadLayout: %v", err)
	}
	return state
}

func TestSetVersion(t *testing.T) {
	old := version
	defer func() { version = old }()

	SetVersion("1.2.0")
	if version != "1.2.0" {
		t.Errorf("version = %q, want %q", version, "1.2.0")
	}
	SetVersion("")
	if version != "1.2.0" {
		t.Errorf("empty version should be ignored, got %q", version)
	}
}

func TestAddSavesLayout(t *testing.T) {
	w := newWorkspace(t)

	out := w.mustRun(t, "add", "bin-2x2", "--x", "3", "--y", "1")
	if !strings.Contains(out, "add:") {
		t.Errorf("expected add confirmation, got %q", out)
	}

	state := w.layout(t)
	if len(state.Placements) != 1 {
		t.Fatalf("expected 1 placement, got %d", len(state.Placements))
	}
	p := state.Placements[0]
	if p.BinID != "bin-2x2" || p.X != 3 || p.Y != 1 {
		t.Errorf("unexpected placement %+v", p)
	}
	if state.DrawerWidth != 24 || state.DrawerLength != 18 {
		t.Errorf("expected default 24x18 drawer, got %gx%g", state.DrawerWidth, state.DrawerLength)
	}
}

func TestAddWithoutPositionUsesFirstFreeSpot(t *testing.T) {
	w := newWorkspace(t)

	w.mustRun(t, "add", "bin-2x2")
	w.mustRun(t, "add", "bin-2x2")

	state := w.layout(t)
	if len(state.Placements) != 2 {
		t.Fatalf("expected 2 placements, got %d", len(state.Placements))
	}
	if state.Placements[0].X != 0 || state.Placements[0].Y != 0 {
		t.Errorf("first bin should be at origin, got (%g, %g)", state.Placements[0].X, state.Placements[0].Y)
	}
	a, _ := model.DefaultCatalog().EffectiveRect(state.Placements[0])
	b, _ := model.DefaultCatalog().EffectiveRect(state.Placements[1])
	if a.Overlaps(b) {
		t.Error("auto-placed bins should not overlap")
	}
}

func TestAddUnknownBinIsBlocked(t *testing.T) {
	w := newWorkspace(t)

	_, err := w.run(t, "add", "bin-99x99")
	var blocked *BlockedError
	if !errors.As(err, &blocked) {
		t.Fatalf("expected BlockedError, got %v", err)
	}
	if blocked.Op != "add" {
		t.Errorf("Op = %q, want add", blocked.Op)
	}
	if _, err := os.Stat(w.path("layout.json")); !os.IsNotExist(err) {
		t.Error("blocked edit should not write the layout")
	}
}

func TestEditCommands(t *testing.T) {
	w := newWorkspace(t)
	w.mustRun(t, "add", "bin-2x2", "--x", "0", "--y", "0")
	id := w.layout(t).Placements[0].ID

	w.mustRun(t, "move", id, "--x", "5", "--y", "4")
	w.mustRun(t, "resize", id, "--width", "3.5", "--length", "2.5")
	w.mustRun(t, "color", id, "#f0a")
	w.mustRun(t, "label", id, "M3", "screws")
	w.mustRun(t, "title", "Tool", "drawer")
	w.mustRun(t, "drawer", "--width", "20", "--length", "10")

	state := w.layout(t)
	if state.LayoutTitle != "Tool drawer" {
		t.Errorf("title = %q", state.LayoutTitle)
	}
	if state.DrawerWidth != 20 || state.DrawerLength != 10 {
		t.Errorf("drawer = %gx%g, want 20x10", state.DrawerWidth, state.DrawerLength)
	}
	p := state.Placements[0]
	if p.X != 5 || p.Y != 4 {
		t.Errorf("position = (%g, %g), want (5, 4)", p.X, p.Y)
	}
	if p.Width == nil || *p.Width != 3.5 || p.Length == nil || *p.Length != 2.5 {
		t.Errorf("size overrides not saved: %+v", p)
	}
	if p.Color != "#f0a" || p.Label != "M3 screws" {
		t.Errorf("color/label = %q/%q", p.Color, p.Label)
	}

	w.mustRun(t, "remove", id)
	if n := len(w.layout(t).Placements); n != 0 {
		t.Errorf("expected empty layout after remove, got %d", n)
	}
}

func TestShowPrintsLayout(t *testing.T) {
	w := newWorkspace(t)
	w.mustRun(t, "add", "bin-2x2", "--x", "0", "--y", "0")
	w.mustRun(t, "title", "Bench")

	out := w.mustRun(t, "show")
	for _, want := range []string{"Bench", "24 x 18 in", "bin-2x2", "Floor used"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}
}

func TestSuggest(t *testing.T) {
	w := newWorkspace(t)
	w.mustRun(t, "add", "bin-2x2", "--x", "6", "--y", "6")

	out := w.mustRun(t, "suggest")
	if !strings.Contains(out, "moved 1 bin") {
		t.Errorf("unexpected output %q", out)
	}
	p := w.layout(t).Placements[0]
	if p.X != 0 || p.Y != 0 {
		t.Errorf("packed bin at (%g, %g), want (0, 0)", p.X, p.Y)
	}

	out = w.mustRun(t, "suggest")
	if !strings.Contains(out, "already packed") {
		t.Errorf("second suggest should change nothing, got %q", out)
	}
}

func TestSuggestRejectsUnknownMode(t *testing.T) {
	w := newWorkspace(t)
	if _, err := w.run(t, "suggest", "--mode", "spiral"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestRunScript(t *testing.T) {
	w := newWorkspace(t)
	script := w.path("plan.txt")
	content := `# two bins, then take one back
add bin-1x1 --x 0 --y 0
add bin-1x1 --x 5 --y 5

undo
title "Tool drawer"
`
	if err := os.WriteFile(script, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	out := w.mustRun(t, "run", script)
	if !strings.Contains(out, "ran 4 commands") {
		t.Errorf("unexpected output %q", out)
	}

	state := w.layout(t)
	if len(state.Placements) != 1 {
		t.Fatalf("expected 1 placement after undo, got %d", len(state.Placements))
	}
	if state.LayoutTitle != "Tool drawer" {
		t.Errorf("title = %q", state.LayoutTitle)
	}
}

func TestRunScriptStopsAtFirstFailure(t *testing.T) {
	w := newWorkspace(t)
	script := w.path("bad.txt")
	if err := os.WriteFile(script, []byte("add bin-1x1\nadd no-such-bin\nadd bin-1x1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := w.run(t, "run", script)
	if err == nil {
		t.Fatal("expected script error")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error should name the failing line, got %v", err)
	}
	var blocked *BlockedError
	if !errors.As(err, &blocked) {
		t.Errorf("expected wrapped BlockedError, got %v", err)
	}
	if _, err := os.Stat(w.path("layout.json")); !os.IsNotExist(err) {
		t.Error("failed script should not save")
	}
}

func TestRunScriptMissingFile(t *testing.T) {
	w := newWorkspace(t)
	if _, err := w.run(t, "run", w.path("nope.txt")); err == nil {
		t.Error("expected error for missing script")
	}
}

func TestShareAndOpen(t *testing.T) {
	src := newWorkspace(t)
	src.mustRun(t, "add", "bin-3x2", "--x", "1", "--y", "1")
	src.mustRun(t, "title", "Shared")

	out := src.mustRun(t, "share", "--base", "https://example.com/plan")
	if !strings.Contains(out, "https://example.com/plan?layout=") {
		t.Errorf("share output missing link: %q", out)
	}

	link, err := project.ShareURL("https://example.com/plan", src.layout(t))
	if err != nil {
		t.Fatal(err)
	}

	dst := newWorkspace(t)
	dst.mustRun(t, "open", link)
	state := dst.layout(t)
	if state.LayoutTitle != "Shared" || len(state.Placements) != 1 {
		t.Fatalf("opened layout = %+v", state)
	}
	if state.Placements[0].BinID != "bin-3x2" {
		t.Errorf("bin = %q", state.Placements[0].BinID)
	}
}

func TestOpenRejectsGarbage(t *testing.T) {
	w := newWorkspace(t)
	_, err := w.run(t, "open", "https://example.com/?layout=%%%")
	if !normalize.IsRejection(err) {
		t.Errorf("expected rejection, got %v", err)
	}
}

func TestShareWritesQR(t *testing.T) {
	w := newWorkspace(t)
	qr := w.path("share.png")
	w.mustRun(t, "share", "--qr", qr, "--qr-size", "128")

	info, err := os.Stat(qr)
	if err != nil {
		t.Fatalf("QR code not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("QR code is empty")
	}
}

func TestExportAndImport(t *testing.T) {
	w := newWorkspace(t)
	w.mustRun(t, "add", "bin-2x4", "--x", "0", "--y", "0")
	w.mustRun(t, "label", w.layout(t).Placements[0].ID, "Drill bits")

	for _, format := range []string{"json", "pdf", "labels", "dxf"} {
		path := w.path("out." + format)
		w.mustRun(t, "export", format, path)
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("%s export not written: %v", format, err)
		}
		if info.Size() == 0 {
			t.Errorf("%s export is empty", format)
		}
	}

	other := newWorkspace(t)
	other.mustRun(t, "import", w.path("out.json"))
	state := other.layout(t)
	if len(state.Placements) != 1 || state.Placements[0].Label != "Drill bits" {
		t.Errorf("imported layout = %+v", state)
	}
}

func TestExportUnknownFormat(t *testing.T) {
	w := newWorkspace(t)
	if _, err := w.run(t, "export", "svg", w.path("out.svg")); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestImportRejectsInvalidFile(t *testing.T) {
	w := newWorkspace(t)
	bad := w.path("bad.json")
	if err := os.WriteFile(bad, []byte(`{"drawerWidth": 0}`), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := w.run(t, "import", bad)
	if !normalize.IsRejection(err) {
		t.Errorf("expected rejection, got %v", err)
	}
}

func TestCatalogImportAndList(t *testing.T) {
	w := newWorkspace(t)
	csvPath := w.path("bins.csv")
	if err := os.WriteFile(csvPath, []byte("name,width,length\nTiny,0.5,0.5\nLong,1,8\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out := w.mustRun(t, "catalog", "import", csvPath)
	if !strings.Contains(out, "added 2 bins") {
		t.Errorf("unexpected output %q", out)
	}

	out = w.mustRun(t, "catalog", "list")
	for _, want := range []string{"bin-1x1", "tiny", "long"} {
		if !strings.Contains(out, want) {
			t.Errorf("catalog list missing %q", want)
		}
	}

	w.mustRun(t, "add", "tiny", "--x", "0", "--y", "0")

	out = w.mustRun(t, "catalog", "import", csvPath)
	if !strings.Contains(out, "already in the catalog") {
		t.Errorf("re-import should add nothing, got %q", out)
	}
}

func TestCatalogImportEmptyFile(t *testing.T) {
	w := newWorkspace(t)
	csvPath := w.path("empty.csv")
	if err := os.WriteFile(csvPath, []byte(""), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := w.run(t, "catalog", "import", csvPath); err == nil {
		t.Error("expected error for empty import")
	}
}

// saveTitledWithLink saves a layout titled "Saved" and returns a share
// link to a different layout.
func saveTitledWithLink(t *testing.T, w workspace) string {
	t.Helper()
	w.mustRun(t, "title", "Saved")

	shared := model.NewLayoutState(12, 8)
	shared.LayoutTitle = "From link"
	shared.Placements = []model.Placement{{ID: "s1", BinID: "bin-2x2", X: 1, Y: 1}}
	link, err := project.ShareURL("https://example.com/", shared)
	if err != nil {
		t.Fatal(err)
	}
	return link
}

func TestShareFlagWinsOverSavedLayout(t *testing.T) {
	w := newWorkspace(t)
	link := saveTitledWithLink(t, w)

	out := w.mustRun(t, "show", "--no-preview", "--share", link)
	if !strings.Contains(out, "From link") || strings.Contains(out, "Saved") {
		t.Errorf("expected the shared layout, got:\n%s", out)
	}

	out = w.mustRun(t, "show", "--no-preview")
	if !strings.Contains(out, "Saved") {
		t.Errorf("show without --share should load the saved layout, got:\n%s", out)
	}
}

func TestShareFlagAcceptsBareParam(t *testing.T) {
	w := newWorkspace(t)
	link := saveTitledWithLink(t, w)

	out := w.mustRun(t, "show", "--no-preview", "--share", project.ShareParamFromURL(link))
	if !strings.Contains(out, "From link") {
		t.Errorf("expected the shared layout, got:\n%s", out)
	}
}

func TestShareEnvWinsOverSavedLayout(t *testing.T) {
	w := newWorkspace(t)
	link := saveTitledWithLink(t, w)
	t.Setenv(ShareEnv, link)

	out := w.mustRun(t, "show", "--no-preview")
	if !strings.Contains(out, "From link") {
		t.Errorf("expected the shared layout from %s, got:\n%s", ShareEnv, out)
	}
}

func TestInvalidShareFallsBackToSavedLayout(t *testing.T) {
	w := newWorkspace(t)
	saveTitledWithLink(t, w)

	out, logs, err := w.runLogged(t, "show", "--no-preview", "--share", "https://example.com/?layout=bm90IGpzb24")
	if err != nil {
		t.Fatalf("invalid share link should not fail the command: %v", err)
	}
	if !strings.Contains(out, "Saved") {
		t.Errorf("expected the saved layout, got:\n%s", out)
	}
	if !strings.Contains(logs, "ignoring shared layout") {
		t.Errorf("expected a warning about the share link, got logs:\n%s", logs)
	}
}
