package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/cabinetquote/internal/model"
)

// DefaultTemplatePath returns the default file path for the templates store.
// This is located at ~/.cabinetquote/templates.json.
func DefaultTemplatePath() string {
	return filepath.Join(DefaultConfigDir(), "templates.json")
}

// SaveTemplates writes the template store to a JSON file.
func SaveTemplates(path string, store model.TemplateStore) error {
	return writeJSON(path, store)
}

// LoadTemplates reads a template store from a JSON file.
// If the file does not exist, returns an empty store.
func LoadTemplates(path string) (model.TemplateStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewTemplateStore(), nil
		}
		return model.TemplateStore{}, err
	}
	var store model.TemplateStore
	if err := json.Unmarshal(data, &store); err != nil {
		return model.TemplateStore{}, err
	}
	if store.Templates == nil {
		store.Templates = []model.CabinetTemplate{}
	}
	return store, nil
}

// ErrTemplateNotFound is returned when no template matches a reference.
var ErrTemplateNotFound = errors.New("template not found")

// ResolveTemplate loads the store at path and returns the template whose ID or
// name equals ref. IDs take precedence over names.
func ResolveTemplate(path, ref string) (model.CabinetTemplate, error) {
	store, err := LoadTemplates(path)
	if err != nil {
		return model.CabinetTemplate{}, err
	}
	if t := store.FindByID(ref); t != nil {
		return *t, nil
	}
	if t := store.FindByName(ref); t != nil {
		return *t, nil
	}
	return model.CabinetTemplate{}, fmt.Errorf("%w: %q", ErrTemplateNotFound, ref)
}
