package model

import (
	"time"

	"github.com/google/uuid"
)

// CabinetTemplate is a named cabinet preset: geometry, material choices and
// optionally a hand-edited part list. It never carries prices or results.
type CabinetTemplate struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	CreatedAt   string            `json:"created_at"`
	UpdatedAt   string            `json:"updated_at"`
	Cabinet     CabinetParameters `json:"cabinet"`
	Materials   MaterialSelection `json:"materials"`
	Parts       []PartSpec        `json:"parts,omitempty"`
}

// NewCabinetTemplate creates a template from the given request data.
func NewCabinetTemplate(name, description string, cabinet CabinetParameters, materials MaterialSelection, parts []PartSpec) CabinetTemplate {
	now := time.Now().UTC().Format(time.RFC3339)
	return CabinetTemplate{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Cabinet:     cabinet,
		Materials:   materials,
		Parts:       copyParts(parts),
	}
}

// ApplyTo copies the template geometry, materials and parts into a request.
// Pricing fields of the request are left untouched.
func (t CabinetTemplate) ApplyTo(r *CalculationRequest) {
	r.Cabinet = t.Cabinet
	r.Materials = t.Materials
	r.Parts = copyParts(t.Parts)
	if r.Title == "" {
		r.Title = t.Name
	}
}

// TemplateStore holds a collection of cabinet templates.
type TemplateStore struct {
	Templates []CabinetTemplate `json:"templates"`
}

// NewTemplateStore creates an empty template store.
func NewTemplateStore() TemplateStore {
	return TemplateStore{
		Templates: []CabinetTemplate{},
	}
}

// Add adds a template to the store.
func (ts *TemplateStore) Add(t CabinetTemplate) {
	ts.Templates = append(ts.Templates, t)
}

// Remove removes a template by ID. Returns true if found and removed.
func (ts *TemplateStore) Remove(id string) bool {
	for i, t := range ts.Templates {
		if t.ID == id {
			ts.Templates = append(ts.Templates[:i], ts.Templates[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the template with the given ID, or nil.
func (ts *TemplateStore) FindByID(id string) *CabinetTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].ID == id {
			return &ts.Templates[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first template with the given name, or nil.
func (ts *TemplateStore) FindByName(name string) *CabinetTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].Name == name {
			return &ts.Templates[i]
		}
	}
	return nil
}

// Names returns the template names in store order.
func (ts *TemplateStore) Names() []string {
	names := make([]string, len(ts.Templates))
	for i, t := range ts.Templates {
		names[i] = t.Name
	}
	return names
}

func copyParts(parts []PartSpec) []PartSpec {
	if parts == nil {
		return nil
	}
	cp := make([]PartSpec, len(parts))
	copy(cp, parts)
	return cp
}
