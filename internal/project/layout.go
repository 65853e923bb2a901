package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/drawerfit/internal/model"
	"github.com/piwi3910/drawerfit/internal/normalize"
)

// ErrNoLayout is returned by LoadLayout when nothing has been saved yet.
var ErrNoLayout = errors.New("no saved layout")

// SaveLayout writes the present layout to the storage channel file.
func SaveLayout(path string, state model.LayoutState) error {
	data, err := json.Marshal(state.Clone())
	if err != nil {
		return fmt.Errorf("failed to marshal layout: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create layout directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write layout: %w", err)
	}
	return nil
}

// LoadLayout reads the storage channel file and normalizes it. A missing
// file yields ErrNoLayout; invalid content yields a *normalize.Rejection.
func LoadLayout(path string, catalog *model.Catalog, limits model.Limits) (model.LayoutState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.LayoutState{}, ErrNoLayout
		}
		return model.LayoutState{}, fmt.Errorf("failed to read layout: %w", err)
	}
	return normalize.FromText(string(data), normalize.SourceStorage, catalog, limits)
}
