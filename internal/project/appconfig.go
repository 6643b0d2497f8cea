package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/piwi3910/cabinetquote/internal/model"
)

// DefaultConfigDir returns the default directory for application data.
// On all platforms this is ~/.cabinetquote/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".cabinetquote")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// writeJSON marshals v with indentation and writes it to path,
// creating any missing parent directories.
func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SaveAppConfig persists an AppConfig to the given path as JSON.
func SaveAppConfig(path string, config model.AppConfig) error {
	return writeJSON(path, config)
}

// LoadAppConfig reads an AppConfig from the given path.
// If the file does not exist, it returns DefaultAppConfig with no error.
// Fields missing from the file keep their default values.
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
		return model.AppConfig{}, err
	}
	if config.RecentRequests == nil {
		config.RecentRequests = []string{}
	}
	return config, nil
}

// LoadRequest reads a calculation request from a JSON file. Sections missing from
// the file take the defaults of cfg; sections present in it are kept as written.
func LoadRequest(path string, cfg model.AppConfig) (model.CalculationRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.CalculationRequest{}, err
	}
	return cfg.DecodeRequest(data)
}

// SaveResult writes a calculation result as indented JSON.
func SaveResult(path string, res model.CalculationResult) error {
	return writeJSON(path, res)
}
