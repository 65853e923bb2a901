package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/drawerfit/internal/model"
)

// DefaultConfigDir returns the default directory for application data.
// On all platforms this is ~/.drawerfit/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".drawerfit")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// DefaultLayoutPath returns the storage channel file holding the present layout.
func DefaultLayoutPath() string {
	return filepath.Join(DefaultConfigDir(), "layout.json")
}

// DefaultCatalogPath returns the default bin catalog file.
func DefaultCatalogPath() string {
	return filepath.Join(DefaultConfigDir(), "catalog.toml")
}

// LayoutPath returns the configured layout path or the default one.
func LayoutPath(config model.AppConfig) string {
	if config.LayoutPath != "" {
		return config.LayoutPath
	}
	return DefaultLayoutPath()
}

// CatalogPath returns the configured catalog path or the default one.
func CatalogPath(config model.AppConfig) string {
	if config.CatalogPath != "" {
		return config.CatalogPath
	}
	return DefaultCatalogPath()
}

// SaveAppConfig persists an AppConfig to the given path as JSON.
// It creates any missing parent directories automatically.
func SaveAppConfig(path string, config model.AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadAppConfig reads an AppConfig from the given path.
// If the file does not exist, it returns DefaultAppConfig with no error.
// Keys missing from the file keep their default values.
func LoadAppConfig(path string) (model.AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultAppConfig(), nil
		}
		return model.AppConfig{}, err
	}
	config := model.DefaultAppConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return model.AppConfig{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	if config.ShareBaseURL == "" {
		config.ShareBaseURL = model.DefaultAppConfig().ShareBaseURL
	}
	return config, nil
}
