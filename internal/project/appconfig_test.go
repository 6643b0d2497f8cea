package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/cabinetquote/internal/model"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultWaste.Percent = 12
	cfg.DefaultMarkup = model.MarkupSetting{Enabled: true, Percent: 20}
	cfg.CompanyName = "Joinery Ltd"
	cfg.RecentRequests = []string{"/tmp/kitchen.json", "/tmp/wardrobe.json"}

	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}

	if loaded.DefaultWaste.Percent != 12 {
		t.Errorf("expected waste 12, got %f", loaded.DefaultWaste.Percent)
	}
	if !loaded.DefaultMarkup.Enabled || loaded.DefaultMarkup.Percent != 20 {
		t.Errorf("unexpected markup %+v", loaded.DefaultMarkup)
	}
	if loaded.CompanyName != "Joinery Ltd" {
		t.Errorf("expected company name, got %s", loaded.CompanyName)
	}
	if len(loaded.RecentRequests) != 2 {
		t.Errorf("expected 2 recent requests, got %d", len(loaded.RecentRequests))
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}

	defaults := model.DefaultAppConfig()
	if cfg.DefaultLabor != defaults.DefaultLabor {
		t.Errorf("expected default labor %+v, got %+v", defaults.DefaultLabor, cfg.DefaultLabor)
	}
	if cfg.Currency != "EUR" {
		t.Errorf("expected currency EUR, got %s", cfg.Currency)
	}
}

func TestLoadAppConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := []byte(`{"company_name":"Shop","recent_requests":null}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.CompanyName != "Shop" {
		t.Errorf("expected company name Shop, got %s", cfg.CompanyName)
	}
	if cfg.DefaultDeliveryDays != 30 {
		t.Errorf("expected default delivery days, got %d", cfg.DefaultDeliveryDays)
	}
	if cfg.RecentRequests == nil {
		t.Error("RecentRequests should not be nil after loading")
	}
}

func TestLoadAppConfigInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("not valid json{{{"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadAppConfig(path); err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestSaveAppConfigCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "dir", "config.json")

	if err := SaveAppConfig(path, model.DefaultAppConfig()); err != nil {
		t.Fatalf("SaveAppConfig should create parent dirs: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}
}

func TestLoadRequest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.json")
	data := []byte(`{
		"title": "Base unit",
		"cabinet": {"width": 600, "height": 720, "depth": 560, "thickness": 18, "shelves": 1},
		"parts": [{"name": "Plinth", "category": "custom", "a": 564, "b": 100, "quantity": 1, "edges": {"long": 1, "short": 0}}],
		"hardware": [{"kind": "fittings", "article_number": "OK-1001", "quantity": 2}]
	}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	req, err := LoadRequest(path, model.DefaultAppConfig())
	if err != nil {
		t.Fatalf("LoadRequest failed: %v", err)
	}
	if req.Title != "Base unit" || req.Cabinet.Depth != 560 {
		t.Errorf("unexpected request %+v", req)
	}
	if len(req.Parts) != 1 || req.Parts[0].Category != model.CategoryCustom {
		t.Fatalf("unexpected parts %+v", req.Parts)
	}
	if long, short, ok := req.Parts[0].Edges.Manual(); !ok || long != 1 || short != 0 {
		t.Errorf("unexpected edge mode %v", req.Parts[0].Edges)
	}
}

func TestLoadRequestKeepsDisabledWaste(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.json")
	data := []byte(`{"cabinet": {"width": 600, "height": 720, "depth": 560, "thickness": 18}, "waste": {"enabled": false}}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg := model.DefaultAppConfig()
	req, err := LoadRequest(path, cfg)
	if err != nil {
		t.Fatalf("LoadRequest failed: %v", err)
	}
	if req.Waste.Enabled {
		t.Errorf("waste should stay disabled, got %+v", req.Waste)
	}
	if req.Labor != cfg.DefaultLabor {
		t.Errorf("absent labor should take the default, got %+v", req.Labor)
	}
}
