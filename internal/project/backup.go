package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/cabinetquote/internal/model"
)

// BackupVersion is written to every backup file and checked on import.
const BackupVersion = "1"

// ErrUnsupportedBackup is returned for backups written by an incompatible version.
var ErrUnsupportedBackup = errors.New("unsupported backup file")

// BackupData bundles everything needed to reproduce a workstation's quotes:
// pricing defaults, the price catalog and saved cabinet templates.
type BackupData struct {
	Version   string              `json:"version"`
	CreatedAt string              `json:"created_at"`
	Config    model.AppConfig     `json:"config"`
	Catalog   model.Catalog       `json:"catalog"`
	Templates model.TemplateStore `json:"templates"`
}

// ExportAllData writes config, catalog and templates to a single JSON file.
func ExportAllData(exportPath string, config model.AppConfig, cat model.Catalog, templates model.TemplateStore) error {
	backup := BackupData{
		Version:   BackupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
		Catalog:   cat,
		Templates: templates,
	}
	if err := writeJSON(exportPath, backup); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup file. The caller decides which parts to apply.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	switch backup.Version {
	case BackupVersion:
	case "":
		return BackupData{}, fmt.Errorf("%w: missing version field", ErrUnsupportedBackup)
	default:
		return BackupData{}, fmt.Errorf("%w: version %s", ErrUnsupportedBackup, backup.Version)
	}
	if backup.Config.RecentRequests == nil {
		backup.Config.RecentRequests = []string{}
	}
	if backup.Templates.Templates == nil {
		backup.Templates = model.NewTemplateStore()
	}
	return backup, nil
}

// DataPaths locates the files a backup is restored into.
type DataPaths struct {
	Config    string
	Catalog   string
	Templates string
}

// DataPathsIn returns the standard file names under dir.
func DataPathsIn(dir string) DataPaths {
	return DataPaths{
		Config:    filepath.Join(dir, "config.json"),
		Catalog:   filepath.Join(dir, "catalog.json"),
		Templates: filepath.Join(dir, "templates.json"),
	}
}

// RestoreAllData writes the parts of a backup to the given files.
func RestoreAllData(paths DataPaths, backup BackupData) error {
	if err := SaveAppConfig(paths.Config, backup.Config); err != nil {
		return err
	}
	if err := SaveCatalog(paths.Catalog, backup.Catalog); err != nil {
		return err
	}
	return SaveTemplates(paths.Templates, backup.Templates)
}
