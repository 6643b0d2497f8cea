package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/piwi3910/cabinetquote/internal/importer"
	"github.com/piwi3910/cabinetquote/internal/model"
)

// DefaultCatalogPath returns the default file path for the price catalog.
// This is located at ~/.cabinetquote/catalog.json.
func DefaultCatalogPath() string {
	return filepath.Join(DefaultConfigDir(), "catalog.json")
}

// articleKeys are the column names accepted for a hardware article number.
var articleKeys = []string{"article_number", "art_nr", "artnr", "article", "art", "sku", "code"}

// SaveCatalog writes the catalog to the specified JSON file.
func SaveCatalog(path string, cat model.Catalog) error {
	return writeJSON(path, cat)
}

// LoadCatalog reads the catalog from the specified JSON file.
// If the file does not exist, it returns the default catalog and saves it.
func LoadCatalog(path string) (model.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cat := model.DefaultCatalog()
			if saveErr := SaveCatalog(path, cat); saveErr != nil {
				return cat, saveErr
			}
			return cat, nil
		}
		return model.Catalog{}, err
	}
	return ParseCatalog(data)
}

// ImportCatalog reads a catalog file and merges it into existing.
// JSON documents and Excel workbooks carry every table; a CSV file holds the
// single table named by its base name (e.g. edge_bands.csv).
// Entries whose code already exists are skipped.
func ImportCatalog(path string, existing model.Catalog) (model.Catalog, int, error) {
	imported, err := readCatalogFile(path)
	if err != nil {
		return existing, 0, err
	}
	added := existing.Merge(imported)
	return existing, added, nil
}

func readCatalogFile(path string) (model.Catalog, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".xlsx", ".xlsm":
		return fromImportResult(importer.ImportCatalogExcel(path))
	case ".csv", ".txt":
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		table, ok := importer.ParseCatalogTable(base)
		if !ok {
			return model.Catalog{}, fmt.Errorf("cannot tell which price table %s holds", filepath.Base(path))
		}
		return fromImportResult(importer.ImportCatalogCSV(path, table))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Catalog{}, err
	}
	return ParseCatalog(data)
}

func fromImportResult(res importer.CatalogImportResult) (model.Catalog, error) {
	if len(res.Errors) > 0 {
		return model.Catalog{}, fmt.Errorf("failed to import catalog: %s", strings.Join(res.Errors, "; "))
	}
	return res.Catalog, nil
}

// ParseCatalog decodes a catalog document. Table names and column names are
// normalised (case, spaces, dashes, dots) and common aliases are accepted. When
// several keys name the same table their rows are concatenated, canonical key
// first, so duplicate codes resolve the same way on every load.
// A malformed entry never fails the document: a price that is not a number reads
// as zero and a row without a code is skipped.
func ParseCatalog(data []byte) (model.Catalog, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.Catalog{}, fmt.Errorf("failed to parse catalog: %w", err)
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		ca, cb := isCanonicalTable(a), isCanonicalTable(b)
		if ca != cb {
			if ca {
				return -1
			}
			return 1
		}
		return strings.Compare(a, b)
	})

	tables := make(map[string][]map[string]any, len(raw))
	for _, k := range keys {
		table, ok := importer.ParseCatalogTable(normalizeKey(k))
		if !ok {
			continue
		}
		rows, err := decodeRows(raw[k])
		if err != nil {
			return model.Catalog{}, fmt.Errorf("failed to parse catalog table %s: %w", k, err)
		}
		tables[string(table)] = append(tables[string(table)], rows...)
	}

	cat := model.Catalog{
		Materials:      panelsFromRows(tables["materials"]),
		FrontMaterials: panelsFromRows(tables["front_materials"]),
		EdgeBands:      bandsFromRows(tables["edge_bands"]),
		FrontEdgeBands: bandsFromRows(tables["front_edge_bands"]),
		Fittings:       hardwareFromRows(tables["fittings"]),
		Equipment:      hardwareFromRows(tables["equipment"]),
	}
	for _, b := range bandsFromRows(tables["services"]) {
		cat.Services = append(cat.Services, model.Service{Code: b.Code, Name: b.Name, PricePerM: b.PricePerM})
	}
	for _, row := range tables["misc_items"] {
		code := stringField(row, "code")
		if code == "" {
			continue
		}
		mode, err := model.ParseAccountingMode(stringField(row, "mode"))
		if err != nil {
			mode = model.PerPiece
		}
		cat.MiscItems = append(cat.MiscItems, model.MiscItem{
			Code:  code,
			Name:  stringField(row, "name"),
			Unit:  stringField(row, "unit"),
			Price: numberField(row, "price"),
			Mode:  mode,
		})
	}
	return cat, nil
}

// isCanonicalTable reports whether k is spelled exactly like a catalog JSON field.
func isCanonicalTable(k string) bool {
	t, ok := importer.ParseCatalogTable(k)
	return ok && string(t) == k
}

// decodeRows reads a table as a list of objects with normalised keys.
// Elements that are not objects are dropped.
func decodeRows(v json.RawMessage) ([]map[string]any, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(v, &elems); err != nil {
		return nil, err
	}
	rows := make([]map[string]any, 0, len(elems))
	for _, e := range elems {
		var row map[string]any
		if err := json.Unmarshal(e, &row); err != nil || row == nil {
			continue
		}
		norm := make(map[string]any, len(row))
		for k, val := range row {
			norm[normalizeKey(k)] = val
		}
		rows = append(rows, norm)
	}
	return rows, nil
}

func panelsFromRows(rows []map[string]any) []model.PanelMaterial {
	var out []model.PanelMaterial
	for _, row := range rows {
		code := stringField(row, "code")
		if code == "" {
			continue
		}
		out = append(out, model.PanelMaterial{
			Code:       code,
			Name:       stringField(row, "name"),
			PricePerM2: priceField(row, "price_per_m2"),
		})
	}
	return out
}

func bandsFromRows(rows []map[string]any) []model.EdgeBand {
	var out []model.EdgeBand
	for _, row := range rows {
		code := stringField(row, "code")
		if code == "" {
			continue
		}
		out = append(out, model.EdgeBand{
			Code:      code,
			Name:      stringField(row, "name"),
			PricePerM: priceField(row, "price_per_m"),
		})
	}
	return out
}

// priceField reads the table specific price column, falling back to plain "price".
func priceField(row map[string]any, key string) float64 {
	if _, ok := row[key]; ok {
		return numberField(row, key)
	}
	return numberField(row, "price")
}

// normalizeKey lower-cases a key and maps spaces and dashes to underscores, dropping dots.
func normalizeKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	k = strings.NewReplacer(" ", "_", "-", "_", ".", "").Replace(k)
	return k
}

func hardwareFromRows(rows []map[string]any) []model.HardwareItem {
	var items []model.HardwareItem
	for _, row := range rows {
		item := model.HardwareItem{
			Name:     stringField(row, "name"),
			Supplier: stringField(row, "supplier"),
			Unit:     stringField(row, "unit"),
			Price:    numberField(row, "price"),
		}
		for _, key := range articleKeys {
			if art := stringField(row, key); art != "" {
				item.ArticleNumber = art
				break
			}
		}
		if item.ArticleNumber == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}

func stringField(row map[string]any, key string) string {
	switch v := row[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// numberField reads a numeric column; strings with a decimal comma are accepted.
// Anything unparseable reads as zero.
func numberField(row map[string]any, key string) float64 {
	switch v := row[key].(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(v), ",", "."), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
