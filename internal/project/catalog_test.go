package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/drawerfit/internal/model"
)

func TestSaveAndLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "catalog.toml")

	cat := model.MustCatalog([]model.BinSpec{
		{ID: "deep-2x4", Name: "Deep 2x4", Width: 2, Length: 4, Height: 3},
		{ID: "tray", Name: "Tray", Width: 5.5, Length: 1.25, Height: 0.75},
	})
	if err := SaveCatalog(path, cat); err != nil {
		t.Fatalf("SaveCatalog failed: %v", err)
	}

	loaded, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	if loaded.Len() != 2 {
		t.Fatalf("expected 2 bins, got %d", loaded.Len())
	}
	tray, ok := loaded.Lookup("tray")
	if !ok {
		t.Fatal("expected tray in loaded catalog")
	}
	if tray.Width != 5.5 || tray.Length != 1.25 || tray.Name != "Tray" {
		t.Errorf("unexpected tray spec %+v", tray)
	}
	if loaded.Specs()[0].ID != "deep-2x4" {
		t.Errorf("catalog order not preserved: %+v", loaded.Specs())
	}
}

func TestLoadCatalogMissingFile(t *testing.T) {
	cat, err := LoadCatalog(filepath.Join(t.TempDir(), "catalog.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.Len() != model.DefaultCatalog().Len() {
		t.Errorf("expected built-in catalog, got %d bins", cat.Len())
	}
}

func TestLoadCatalogHandWritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.toml")
	data := `
[[bin]]
id = "a"
name = "A"
width = 1
length = 2

[[bin]]
id = "b"
width = 3.5
length = 3.5
height = 1
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	cat, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	if b, ok := cat.Lookup("b"); !ok || b.Width != 3.5 {
		t.Errorf("unexpected bin b: %+v", b)
	}
}

func TestLoadCatalogInvalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("[[bin]\nid ="), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCatalog(bad); err == nil {
		t.Error("expected error for malformed TOML")
	}

	empty := filepath.Join(dir, "empty.toml")
	if err := os.WriteFile(empty, []byte("# nothing here\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCatalog(empty); err == nil {
		t.Error("expected error for a catalog with no bins")
	}

	dup := filepath.Join(dir, "dup.toml")
	data := "[[bin]]\nid = \"x\"\nwidth = 1\nlength = 1\n[[bin]]\nid = \"x\"\nwidth = 2\nlength = 2\n"
	if err := os.WriteFile(dup, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCatalog(dup); err == nil {
		t.Error("expected error for duplicate bin ids")
	}

	for name, dims := range map[string]string{
		"nan.toml":    "width = nan\nlength = 1\n",
		"inf.toml":    "width = 1\nlength = inf\n",
		"neginf.toml": "width = -inf\nlength = 1\n",
	} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("[[bin]]\nid = \"odd\"\n"+dims), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadCatalog(path); err == nil {
			t.Errorf("%s: expected error for non-finite bin size", name)
		}
	}
}

func TestMergeCatalog(t *testing.T) {
	existing := model.MustCatalog([]model.BinSpec{{ID: "a", Width: 1, Length: 1}})

	merged, added, err := MergeCatalog(existing, []model.BinSpec{
		{ID: "a", Width: 9, Length: 9},
		{ID: "b", Width: 2, Length: 2},
		{ID: "b", Width: 3, Length: 3},
	})
	if err != nil {
		t.Fatalf("MergeCatalog failed: %v", err)
	}
	if added != 1 {
		t.Errorf("expected 1 bin added, got %d", added)
	}
	if a, _ := merged.Lookup("a"); a.Width != 1 {
		t.Errorf("existing bin should win, got width %v", a.Width)
	}
	if b, _ := merged.Lookup("b"); b.Width != 2 {
		t.Errorf("first imported duplicate should win, got width %v", b.Width)
	}

	if _, _, err := MergeCatalog(existing, []model.BinSpec{{ID: "z", Width: 0, Length: 1}}); err == nil {
		t.Error("expected error for an invalid imported bin")
	}
}
