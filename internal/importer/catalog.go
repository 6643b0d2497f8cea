package importer

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/cabinetquote/internal/model"
)

// CatalogTable names one price table of the catalog.
type CatalogTable string

const (
	TableMaterials      CatalogTable = "materials"
	TableFrontMaterials CatalogTable = "front_materials"
	TableEdgeBands      CatalogTable = "edge_bands"
	TableFrontEdgeBands CatalogTable = "front_edge_bands"
	TableServices       CatalogTable = "services"
	TableFittings       CatalogTable = "fittings"
	TableEquipment      CatalogTable = "equipment"
	TableMiscItems      CatalogTable = "misc_items"
)

var tableAliases = map[string]CatalogTable{
	"materials":        TableMaterials,
	"boards":           TableMaterials,
	"panel_materials":  TableMaterials,
	"front_materials":  TableFrontMaterials,
	"front_boards":     TableFrontMaterials,
	"edge_bands":       TableEdgeBands,
	"edgebands":        TableEdgeBands,
	"front_edge_bands": TableFrontEdgeBands,
	"front_edgebands":  TableFrontEdgeBands,
	"services":         TableServices,
	"fittings":         TableFittings,
	"fittings_list":    TableFittings,
	"equipment":        TableEquipment,
	"equipments":       TableEquipment,
	"misc":             TableMiscItems,
	"misc_items":       TableMiscItems,
	"extras":           TableMiscItems,
}

// ParseCatalogTable maps a sheet or table name ("Front Edge Bands", "fittings-list")
// to a CatalogTable.
func ParseCatalogTable(name string) (CatalogTable, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	t, ok := tableAliases[key]
	return t, ok
}

// CatalogImportResult holds the entries read from one or more price tables.
type CatalogImportResult struct {
	Catalog  model.Catalog
	Rows     int
	Errors   []string
	Warnings []string
}

type catalogColumns struct {
	code, name, supplier, unit, price, mode int
}

var catalogAliases = map[string][]string{
	"code":     {"code", "article_number", "article number", "art.nr", "art nr", "artnr", "article", "art", "sku"},
	"name":     {"name", "description", "desc", "naziv"},
	"supplier": {"supplier", "vendor", "manufacturer"},
	"unit":     {"unit", "uom"},
	"price":    {"price", "unit price", "price_per_m2", "price per m2", "price_per_m", "price per m", "cost"},
	"mode":     {"mode", "accounting", "billing", "per"},
}

func detectCatalogColumns(row []string) (catalogColumns, bool) {
	cols := catalogColumns{-1, -1, -1, -1, -1, -1}
	slots := map[string]*int{
		"code": &cols.code, "name": &cols.name, "supplier": &cols.supplier,
		"unit": &cols.unit, "price": &cols.price, "mode": &cols.mode,
	}
	found := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range catalogAliases {
			for _, alias := range aliases {
				if normalized == alias && *slots[role] == -1 {
					*slots[role] = i
					found = true
				}
			}
		}
	}
	return cols, found
}

// ImportCatalogCSV reads one price table from a CSV file. The first row must be a header
// naming at least a code and a price column.
func ImportCatalogCSV(path string, table CatalogTable) CatalogImportResult {
	records, warnings, errMsg := readDelimited(path)
	if errMsg != "" {
		return CatalogImportResult{Errors: []string{errMsg}, Warnings: warnings}
	}
	result := CatalogImportResult{Warnings: warnings}
	importTable(&result, table, records, "Line")
	return result
}

// ImportCatalogExcel reads a workbook with one sheet per price table. Sheets whose
// names are not recognised are skipped with a warning.
func ImportCatalogExcel(path string) CatalogImportResult {
	result := CatalogImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		table, ok := ParseCatalogTable(sheet)
		if !ok {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Skipping sheet '%s': unknown price table", sheet))
			continue
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Cannot read sheet '%s': %v", sheet, err))
			continue
		}
		importTable(&result, table, rows, sheet+" row")
	}
	if result.Rows == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No price tables found")
	}
	return result
}

func importTable(result *CatalogImportResult, table CatalogTable, rows [][]string, rowPrefix string) {
	if len(rows) == 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Table %s is empty", table))
		return
	}
	cols, ok := detectCatalogColumns(rows[0])
	if !ok || cols.code == -1 || cols.price == -1 {
		result.Errors = append(result.Errors, fmt.Sprintf("Table %s: header must name a code and a price column", table))
		return
	}

	cat := &result.Catalog
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}
		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)

		code := getCell(row, cols.code)
		if code == "" {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: Missing code, skipping", rowLabel))
			continue
		}
		price := 0.0
		if raw := getCell(row, cols.price); raw != "" {
			v, err := ParseNumber(raw)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: Invalid price '%s'", rowLabel, raw))
				continue
			}
			price = v
		}
		name := getCell(row, cols.name)

		switch table {
		case TableMaterials:
			cat.Materials = append(cat.Materials, model.PanelMaterial{Code: code, Name: name, PricePerM2: price})
		case TableFrontMaterials:
			cat.FrontMaterials = append(cat.FrontMaterials, model.PanelMaterial{Code: code, Name: name, PricePerM2: price})
		case TableEdgeBands:
			cat.EdgeBands = append(cat.EdgeBands, model.EdgeBand{Code: code, Name: name, PricePerM: price})
		case TableFrontEdgeBands:
			cat.FrontEdgeBands = append(cat.FrontEdgeBands, model.EdgeBand{Code: code, Name: name, PricePerM: price})
		case TableServices:
			cat.Services = append(cat.Services, model.Service{Code: code, Name: name, PricePerM: price})
		case TableFittings, TableEquipment:
			item := model.HardwareItem{
				ArticleNumber: code,
				Name:          name,
				Supplier:      getCell(row, cols.supplier),
				Unit:          getCell(row, cols.unit),
				Price:         price,
			}
			if table == TableFittings {
				cat.Fittings = append(cat.Fittings, item)
			} else {
				cat.Equipment = append(cat.Equipment, item)
			}
		case TableMiscItems:
			mode := model.PerPiece
			if raw := getCell(row, cols.mode); raw != "" {
				m, err := model.ParseAccountingMode(raw)
				if err != nil {
					result.Warnings = append(result.Warnings, fmt.Sprintf("%s: Unknown mode '%s', using per piece", rowLabel, raw))
				} else {
					mode = m
				}
			}
			cat.MiscItems = append(cat.MiscItems, model.MiscItem{
				Code: code, Name: name, Unit: getCell(row, cols.unit), Price: price, Mode: mode,
			})
		}
		result.Rows++
	}
}
