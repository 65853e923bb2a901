package project

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/piwi3910/drawerfit/internal/model"
)

// catalogFile is the on-disk TOML shape:
//
//	[[bin]]
//	id = "bin-2x3"
//	name = "2\" x 3\" bin"
//	width = 2.0
//	length = 3.0
//	height = 2.0
type catalogFile struct {
	Bins []model.BinSpec `toml:"bin"`
}

// SaveCatalog writes the catalog to the specified TOML file.
// It creates parent directories if they do not exist.
func SaveCatalog(path string, catalog *model.Catalog) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(catalogFile{Bins: catalog.Specs()}); err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// LoadCatalog reads the catalog from the specified TOML file.
// If the file does not exist, it returns the built-in catalog.
func LoadCatalog(path string) (*model.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultCatalog(), nil
		}
		return nil, err
	}
	var file catalogFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	catalog, err := model.NewCatalog(file.Bins)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return catalog, nil
}

// MergeCatalog appends imported bins to an existing catalog. Bins whose ID
// is already present are skipped. It returns the merged catalog and the
// number of bins added.
func MergeCatalog(existing *model.Catalog, imported []model.BinSpec) (*model.Catalog, int, error) {
	specs := existing.Specs()
	ids := make(map[string]bool, len(specs))
	for _, s := range specs {
		ids[s.ID] = true
	}

	added := 0
	for _, s := range imported {
		if ids[s.ID] {
			continue
		}
		specs = append(specs, s)
		ids[s.ID] = true
		added++
	}

	merged, err := model.NewCatalog(specs)
	if err != nil {
		return existing, 0, err
	}
	return merged, added, nil
}
