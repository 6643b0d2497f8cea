package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/cabinetquote/internal/model"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter(t *testing.T) {
	tests := map[string]struct {
		data string
		want rune
	}{
		"comma":     {"Name,A,B,Qty\nShelf,564,300,2\nSide,720,560,2\n", ','},
		"semicolon": {"Name;A;B;Qty\nShelf;564,5;300;2\nSide;720;560;2\n", ';'},
		"tab":       {"Name\tA\tB\tQty\nShelf\t564\t300\t2\nSide\t720\t560\t2\n", '\t'},
		"pipe":      {"Name|A|B|Qty\nShelf|564|300|2\nSide|720|560|2\n", '|'},
	}
	for name, tc := range tests {
		if got := DetectCSVDelimiter([]byte(tc.data)); got != tc.want {
			t.Errorf("%s: expected %q, got %q", name, tc.want, got)
		}
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	row := []string{"Name", "Category", "Material", "Edge band", "A", "B", "Quantity", "Edges"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	want := ColumnMapping{Name: 0, Category: 1, Material: 2, EdgeBand: 3, A: 4, B: 5, Quantity: 6, Edges: 7, LongEdges: -1, ShortEdges: -1}
	if mapping != want {
		t.Errorf("expected %+v, got %+v", want, mapping)
	}
}

func TestDetectColumns_AlternativeNames(t *testing.T) {
	row := []string{"QTY", "Length", "Depth", "Description", "Long edges", "Short edges"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if mapping.Quantity != 0 || mapping.A != 1 || mapping.B != 2 || mapping.Name != 3 {
		t.Errorf("unexpected mapping %+v", mapping)
	}
	if mapping.LongEdges != 4 || mapping.ShortEdges != 5 {
		t.Errorf("expected edge count columns at 4 and 5, got %+v", mapping)
	}
	if mapping.Category != -1 {
		t.Errorf("expected no category column, got %d", mapping.Category)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Shelf", "shelf", "IVR-18-W", "ABS-22-W", "564", "300", "2", "auto"})
	if isHeader {
		t.Error("expected no header for a data row")
	}
	if mapping.A != 4 || mapping.B != 5 || mapping.Edges != 7 {
		t.Errorf("unexpected positional mapping %+v", mapping)
	}
}

// ─── ParseEdges Tests ──────────────────────────────────────

func TestParseEdges(t *testing.T) {
	tests := []struct {
		in          string
		auto        bool
		long, short int
	}{
		{"", true, 0, 0},
		{"AUTO", true, 0, 0},
		{"1/2", false, 1, 2},
		{"2x0", false, 2, 0},
		{"2K 1D", false, 1, 2},
		{"0k 2d", false, 2, 0},
		{"3/1", false, 2, 1},
	}
	for _, tc := range tests {
		got, err := ParseEdges(tc.in)
		if err != nil {
			t.Errorf("ParseEdges(%q): unexpected error %v", tc.in, err)
			continue
		}
		if got.IsAuto() != tc.auto {
			t.Errorf("ParseEdges(%q): auto=%v, want %v", tc.in, got.IsAuto(), tc.auto)
			continue
		}
		if long, short, ok := got.Manual(); ok && (long != tc.long || short != tc.short) {
			t.Errorf("ParseEdges(%q) = (%d,%d), want (%d,%d)", tc.in, long, short, tc.long, tc.short)
		}
	}

	if _, err := ParseEdges("all"); err == nil {
		t.Error("expected error for unknown edge mode")
	}
}

// ─── ImportPartsFromReader Tests ───────────────────────────

func TestImportPartsFromReader_WithHeaders(t *testing.T) {
	input := "Name,Category,Material,Edge band,A,B,Qty,Edges\n" +
		"Left side,side,IVR-18-W,ABS-22-W,720,560,1,auto\n" +
		"Plinth,custom,IVR-18-W,ABS-22-W,564,100,1,1/0\n"
	result := ImportPartsFromReader(strings.NewReader(input), ',')

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(result.Parts))
	}

	side := result.Parts[0]
	if side.Name != "Left side" || side.Category != model.CategorySide {
		t.Errorf("unexpected first part %+v", side)
	}
	if side.MaterialCode != "IVR-18-W" || side.EdgeBandCode != "ABS-22-W" {
		t.Errorf("unexpected codes %s/%s", side.MaterialCode, side.EdgeBandCode)
	}
	if !side.Edges.IsAuto() {
		t.Errorf("expected auto edges, got %v", side.Edges)
	}

	plinth := result.Parts[1]
	if long, short, ok := plinth.Edges.Manual(); !ok || long != 1 || short != 0 {
		t.Errorf("expected manual(1,0), got %v", plinth.Edges)
	}
}

func TestImportPartsFromReader_WithoutHeaders(t *testing.T) {
	input := "Shelf,shelf,IVR-18-W,ABS-22-W,564,300,2,auto\n"
	result := ImportPartsFromReader(strings.NewReader(input), ',')

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Parts) != 1 || result.Parts[0].Quantity != 2 || result.Parts[0].Category != model.CategoryShelf {
		t.Errorf("unexpected parts %+v", result.Parts)
	}
}

func TestImportPartsFromReader_DecimalComma(t *testing.T) {
	input := "Name;A;B;Qty\nPanel;564,5;299,5;1\n"
	result := ImportPartsFromReader(strings.NewReader(input), ';')

	if len(result.Parts) != 1 {
		t.Fatalf("expected 1 part, got %d (errors %v)", len(result.Parts), result.Errors)
	}
	if result.Parts[0].A != 564.5 || result.Parts[0].B != 299.5 {
		t.Errorf("expected 564.5 x 299.5, got %v x %v", result.Parts[0].A, result.Parts[0].B)
	}
	if result.Parts[0].Category != model.CategoryCustom {
		t.Errorf("expected Custom category, got %v", result.Parts[0].Category)
	}
}

func TestImportPartsFromReader_SeparateEdgeColumns(t *testing.T) {
	input := "Name,A,B,Long edges,Short edges\nPanel,500,300,2,\n"
	result := ImportPartsFromReader(strings.NewReader(input), ',')

	if len(result.Parts) != 1 {
		t.Fatalf("expected 1 part, got %d (errors %v)", len(result.Parts), result.Errors)
	}
	if long, short, ok := result.Parts[0].Edges.Manual(); !ok || long != 2 || short != 0 {
		t.Errorf("expected manual(2,0), got %v", result.Parts[0].Edges)
	}
}

func TestImportPartsFromReader_QuantityDefaultsToOne(t *testing.T) {
	result := ImportPartsFromReader(strings.NewReader("Name,A,B\nPanel,500,300\n"), ',')
	if len(result.Parts) != 1 || result.Parts[0].Quantity != 1 {
		t.Errorf("expected one part with quantity 1, got %+v", result.Parts)
	}
}

func TestImportPartsFromReader_InvalidRows(t *testing.T) {
	input := "Name,A,B,Qty\n" +
		"Good,500,300,1\n" +
		"BadA,abc,300,1\n" +
		"BadQty,500,300,x\n" +
		"Negative,-5,300,1\n" +
		"\n" +
		"Zero,500,300,0\n"
	result := ImportPartsFromReader(strings.NewReader(input), ',')

	if len(result.Parts) != 1 {
		t.Errorf("expected 1 valid part, got %d", len(result.Parts))
	}
	if len(result.Errors) != 4 {
		t.Errorf("expected 4 errors, got %d: %v", len(result.Errors), result.Errors)
	}
}

func TestImportPartsFromReader_UnknownCategoryAndEdges(t *testing.T) {
	input := "Name,Category,A,B,Edges\nWidget,drawer,500,300,everything\n"
	result := ImportPartsFromReader(strings.NewReader(input), ',')

	if len(result.Parts) != 1 {
		t.Fatalf("expected 1 part, got %d", len(result.Parts))
	}
	if result.Parts[0].Category != model.CategoryCustom || !result.Parts[0].Edges.IsAuto() {
		t.Errorf("expected custom/auto fallback, got %+v", result.Parts[0])
	}
	warnings := strings.Join(result.Warnings, "\n")
	if !strings.Contains(warnings, "Unknown category 'drawer'") || !strings.Contains(warnings, "invalid edge mode") {
		t.Errorf("expected warnings for category and edges, got %v", result.Warnings)
	}
}

func TestImportPartsFromReader_CategoryByDisplayName(t *testing.T) {
	input := "Name,Category,A,B\nConnector,Top connector,564,100\nLeaf,front left,716,298\n"
	result := ImportPartsFromReader(strings.NewReader(input), ',')

	if len(result.Parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(result.Parts))
	}
	if result.Parts[0].Category != model.CategoryTopConnector {
		t.Errorf("expected TopConnector, got %v", result.Parts[0].Category)
	}
	if result.Parts[1].Category != model.CategoryFrontLeft {
		t.Errorf("expected FrontLeft, got %v", result.Parts[1].Category)
	}
}

func TestImportPartsFromReader_MissingRequiredColumn(t *testing.T) {
	result := ImportPartsFromReader(strings.NewReader("Name,A,Qty\nPanel,500,1\n"), ',')
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "B") {
		t.Errorf("expected missing column B error, got %v", result.Errors)
	}
}

func TestImportPartsFromReader_EmptyInput(t *testing.T) {
	result := ImportPartsFromReader(strings.NewReader(""), ',')
	if len(result.Errors) == 0 {
		t.Error("expected error for empty input")
	}
}

// ─── File Import Tests ─────────────────────────────────────

func TestImportPartsCSV_SemicolonFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parts.csv")
	content := "Name;A;B;Qty\nShelf;564;300;2\nDoor;716;597;1\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	result := ImportPartsCSV(path)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Parts) != 2 {
		t.Errorf("expected 2 parts, got %d", len(result.Parts))
	}
	if !strings.Contains(strings.Join(result.Warnings, "\n"), "semicolon") {
		t.Errorf("expected semicolon warning, got %v", result.Warnings)
	}
}

func TestImportPartsCSV_FileErrors(t *testing.T) {
	dir := t.TempDir()
	if result := ImportPartsCSV(filepath.Join(dir, "missing.csv")); len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}

	empty := filepath.Join(dir, "empty.csv")
	if err := os.WriteFile(empty, []byte("  \n"), 0644); err != nil {
		t.Fatal(err)
	}
	if result := ImportPartsCSV(empty); len(result.Errors) != 1 || result.Errors[0] != "File is empty" {
		t.Errorf("expected 'File is empty', got %v", result.Errors)
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, sheets map[string][][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book.xlsx")

	f := excelize.NewFile()
	first := f.GetSheetName(0)
	used := false
	for name, rows := range sheets {
		if !used {
			if err := f.SetSheetName(first, name); err != nil {
				t.Fatalf("failed to rename sheet: %v", err)
			}
			used = true
		} else if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("failed to add sheet: %v", err)
		}
		for i, row := range rows {
			for j, cell := range row {
				cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
				if err != nil {
					t.Fatalf("failed to create cell reference: %v", err)
				}
				if err := f.SetCellValue(name, cellRef, cell); err != nil {
					t.Fatalf("failed to set cell value: %v", err)
				}
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportPartsExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, map[string][][]interface{}{
		"Parts": {
			{"Name", "Category", "A", "B", "Quantity", "Edges"},
			{"Shelf", "shelf", 564, 300, 2, "2K 2D"},
			{"Back", "back", 716, 596, 1, "auto"},
		},
	})

	result := ImportPartsExcel(path)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(result.Parts))
	}
	if result.Parts[0].A != 564 || result.Parts[0].Quantity != 2 {
		t.Errorf("unexpected first part %+v", result.Parts[0])
	}
	if long, short, ok := result.Parts[0].Edges.Manual(); !ok || long != 2 || short != 2 {
		t.Errorf("expected manual(2,2), got %v", result.Parts[0].Edges)
	}
	if result.Parts[1].Category != model.CategoryBack {
		t.Errorf("expected Back, got %v", result.Parts[1].Category)
	}
}

func TestImportPartsExcel_FileNotFound(t *testing.T) {
	result := ImportPartsExcel(filepath.Join(t.TempDir(), "missing.xlsx"))
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}
