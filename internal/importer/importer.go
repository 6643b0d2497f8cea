// Package importer reads part lists and price tables from CSV and Excel files.
// It supports automatic delimiter detection, flexible column mapping,
// case-insensitive header recognition and decimal commas.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/cabinetquote/internal/model"
)

// ImportResult holds the results of a part list import.
type ImportResult struct {
	Parts    []model.PartSpec
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Name       int
	Category   int
	Material   int
	EdgeBand   int
	A          int
	B          int
	Quantity   int
	Edges      int
	LongEdges  int
	ShortEdges int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"name":        {"name", "label", "part", "part name", "description", "desc", "element"},
	"category":    {"category", "type", "kind", "cat"},
	"material":    {"material", "board", "material code", "board code"},
	"edge_band":   {"edge band", "edge_band", "edgeband", "band", "edge band code"},
	"a":           {"a", "a [mm]", "length", "len", "width", "w"},
	"b":           {"b", "b [mm]", "height", "h", "depth"},
	"quantity":    {"quantity", "qty", "count", "num", "amount", "pcs", "pieces"},
	"edges":       {"edges", "edge mode", "banding", "marking"},
	"long_edges":  {"long edges", "long_edges", "edges long", "long"},
	"short_edges": {"short edges", "short_edges", "edges short", "short"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		records, err := readCSV(bytes.NewReader(data), delim)
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

func readCSV(r io.Reader, delimiter rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or the positional
// mapping (name, category, material, edge band, A, B, quantity, edges) and false.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{-1, -1, -1, -1, -1, -1, -1, -1, -1, -1}
	slots := map[string]*int{
		"name":        &mapping.Name,
		"category":    &mapping.Category,
		"material":    &mapping.Material,
		"edge_band":   &mapping.EdgeBand,
		"a":           &mapping.A,
		"b":           &mapping.B,
		"quantity":    &mapping.Quantity,
		"edges":       &mapping.Edges,
		"long_edges":  &mapping.LongEdges,
		"short_edges": &mapping.ShortEdges,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias && *slots[role] == -1 {
					*slots[role] = i
					isHeader = true
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{
			Name: 0, Category: 1, Material: 2, EdgeBand: 3,
			A: 4, B: 5, Quantity: 6, Edges: 7,
			LongEdges: -1, ShortEdges: -1,
		}, false
	}
	return mapping, true
}

// ParseNumber parses a decimal number, accepting a decimal comma.
func ParseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
}

// parseCategory accepts category keys, display names and spaced keys ("top connector").
func parseCategory(s string) (model.Category, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.CategoryCustom, true
	}
	key := strings.ReplaceAll(strings.ToLower(s), " ", "_")
	if c, err := model.ParseCategory(key); err == nil {
		return c, true
	}
	if c, err := model.ParseCategory(s); err == nil {
		return c, true
	}
	return model.CategoryCustom, false
}

var (
	markingPattern = regexp.MustCompile(`^(\d)\s*[kK]\s+(\d)\s*[dD]$`)
	pairPattern    = regexp.MustCompile(`^(\d)\s*[/x,;]\s*(\d)$`)
)

// ParseEdges reads an edge mode cell. Accepted forms are "auto" (or empty),
// "L/S" pairs such as "1/2", and cut-list markings such as "2K 1D"
// where K counts short edges and D long edges.
func ParseEdges(s string) (model.EdgeMode, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "auto") {
		return model.AutoEdges(), nil
	}
	if m := markingPattern.FindStringSubmatch(s); m != nil {
		short, _ := strconv.Atoi(m[1])
		long, _ := strconv.Atoi(m[2])
		return model.ManualEdges(long, short), nil
	}
	if m := pairPattern.FindStringSubmatch(s); m != nil {
		long, _ := strconv.Atoi(m[1])
		short, _ := strconv.Atoi(m[2])
		return model.ManualEdges(long, short), nil
	}
	return model.AutoEdges(), fmt.Errorf("invalid edge mode %q", s)
}

// getCell safely retrieves a cell value from a row by column index.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts a PartSpec from a row using the given column mapping.
// Returns the part, any error message, and any warning messages.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, partCount int) (model.PartSpec, string, []string) {
	var warnings []string

	catStr := getCell(row, mapping.Category)
	cat, ok := parseCategory(catStr)
	if !ok {
		warnings = append(warnings, fmt.Sprintf("%s: Unknown category '%s', using Custom", rowLabel, catStr))
	}

	dims := [2]float64{}
	for i, col := range []struct {
		idx  int
		name string
	}{{mapping.A, "A"}, {mapping.B, "B"}} {
		raw := getCell(row, col.idx)
		if raw == "" {
			return model.PartSpec{}, fmt.Sprintf("%s: Missing %s value", rowLabel, col.name), nil
		}
		v, err := ParseNumber(raw)
		if err != nil {
			return model.PartSpec{}, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, col.name, raw), nil
		}
		dims[i] = v
	}

	qty := 1
	if qtyStr := getCell(row, mapping.Quantity); qtyStr != "" {
		q, err := strconv.Atoi(qtyStr)
		if err != nil {
			return model.PartSpec{}, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr), nil
		}
		qty = q
	}

	if dims[0] <= 0 || dims[1] <= 0 || qty <= 0 {
		return model.PartSpec{}, fmt.Sprintf("%s: A, B and quantity must be positive", rowLabel), nil
	}

	edges, err := rowEdges(row, mapping)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("%s: %v, using auto", rowLabel, err))
	}

	part := model.NewPartSpec(cat, getCell(row, mapping.Material), getCell(row, mapping.EdgeBand),
		dims[0], dims[1], qty, edges)
	if name := getCell(row, mapping.Name); name != "" {
		part.Name = name
	} else if cat == model.CategoryCustom {
		part.Name = fmt.Sprintf("Part %d", partCount+1)
	}
	return part, "", warnings
}

// rowEdges prefers separate long/short count columns over a combined edges column.
func rowEdges(row []string, mapping ColumnMapping) (model.EdgeMode, error) {
	longStr, shortStr := getCell(row, mapping.LongEdges), getCell(row, mapping.ShortEdges)
	if longStr == "" && shortStr == "" {
		return ParseEdges(getCell(row, mapping.Edges))
	}
	counts := [2]int{}
	for i, s := range []string{longStr, shortStr} {
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return model.AutoEdges(), fmt.Errorf("invalid edge count %q", s)
		}
		counts[i] = n
	}
	return model.ManualEdges(counts[0], counts[1]), nil
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// readDelimited loads a CSV file and detects its delimiter. It returns the records,
// any warnings, and an error message when the file cannot be used.
func readDelimited(path string) ([][]string, []string, string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Sprintf("Cannot open file: %v", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil, "File is empty"
	}

	var warnings []string
	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	records, err := readCSV(bytes.NewReader(data), delimiter)
	if err != nil {
		return nil, warnings, fmt.Sprintf("Cannot read CSV: %v", err)
	}
	if len(records) == 0 {
		return nil, warnings, "File is empty"
	}
	return records, warnings, ""
}

// ImportPartsCSV imports parts from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
func ImportPartsCSV(path string) ImportResult {
	records, warnings, errMsg := readDelimited(path)
	if errMsg != "" {
		return ImportResult{Errors: []string{errMsg}, Warnings: warnings}
	}
	return importFromRows(records, "Line", warnings)
}

// ImportPartsFromReader imports parts from a CSV reader with a specific delimiter.
func ImportPartsFromReader(reader io.Reader, delimiter rune) ImportResult {
	records, err := readCSV(reader, delimiter)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}}
	}
	if len(records) == 0 {
		return ImportResult{Errors: []string{"File is empty"}}
	}
	return importFromRows(records, "Line", nil)
}

// ImportPartsExcel imports parts from the first sheet of an Excel workbook.
func ImportPartsExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}
	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.A == -1 {
			missing = append(missing, "A")
		}
		if mapping.B == -1 {
			missing = append(missing, "B")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) > mapping.A {
		if _, err := ParseNumber(rows[0][mapping.A]); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		part, errMsg, warnings := parseRow(row, mapping, rowLabel, len(result.Parts))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Warnings = append(result.Warnings, warnings...)
		result.Parts = append(result.Parts, part)
	}

	return result
}
