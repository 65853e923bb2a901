package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/drawerfit/internal/model"
	"github.com/piwi3910/drawerfit/internal/normalize"
)

// ExportLayout writes a layout to a user-chosen file in the snapshot format.
// The output is indented for hand editing and reads back with ImportLayout.
func ExportLayout(exportPath string, state model.LayoutState) error {
	data, err := json.MarshalIndent(state.Clone(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal layout: %w", err)
	}

	dir := filepath.Dir(exportPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	if err := os.WriteFile(exportPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write layout file: %w", err)
	}
	return nil
}

// ImportLayout reads a layout file through the normalizer. The caller is
// responsible for pushing the result into history.
func ImportLayout(importPath string, catalog *model.Catalog, limits model.Limits) (model.LayoutState, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return model.LayoutState{}, fmt.Errorf("failed to read layout file: %w", err)
	}
	return normalize.FromText(string(data), normalize.SourceFile, catalog, limits)
}
