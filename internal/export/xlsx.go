package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/cabinetquote/internal/model"
)

// Workbook sheet names.
const (
	SheetElements = "Elements"
	SheetSummary  = "Summary"
	SheetOrder    = "Order"
	SheetExtras   = "Extras"
)

var elementColumns = []string{
	"Name", "Code", "Material", "Edge band", "A (mm)", "B (mm)", "Qty",
	"Short edges (K)", "Long edges (D)", "Edge marking", "Edge m", "Area m²", "Cutting m",
}

var orderColumns = []string{"Code", "Name", "Material", "Edge band", "A (mm)", "B (mm)", "Qty", "Edge marking"}

var extrasColumns = []string{
	"Category", "Article / code", "Name", "Supplier", "Unit", "Mode",
	"A (mm)", "B (mm)", "Count", "Quantity", "Unit price", "Amount",
}

// ExportXLSX writes the workbook to path.
func ExportXLSX(path string, result model.CalculationResult) error {
	f, err := buildWorkbook(result)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

// WriteXLSX writes the workbook to w.
func WriteXLSX(w io.Writer, result model.CalculationResult) error {
	f, err := buildWorkbook(result)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

type workbookStyles struct {
	header, subtotal, total, qty int
}

func newWorkbookStyles(f *excelize.File) (workbookStyles, error) {
	var s workbookStyles
	var err error
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#F3F4F6"}},
		Border:    []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err != nil {
		return s, err
	}
	if s.subtotal, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#F3F4F6"}},
	}); err != nil {
		return s, err
	}
	if s.total, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#EEF7EE"}},
	}); err != nil {
		return s, err
	}
	numFmt := "0.000"
	s.qty, err = f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	return s, err
}

func buildWorkbook(result model.CalculationResult) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetElements); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range []string{SheetSummary, SheetOrder, SheetExtras} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, err
		}
	}

	styles, err := newWorkbookStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	steps := []func(*excelize.File, workbookStyles, model.CalculationResult) error{
		writeElementsSheet, writeSummarySheet, writeOrderSheet, writeExtrasSheet,
	}
	for _, step := range steps {
		if err := step(f, styles, result); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to build workbook: %w", err)
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func writeHeader(f *excelize.File, sheet string, columns []string, style int) error {
	if err := f.SetSheetRow(sheet, "A1", &columns); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", cellName(len(columns), 1), style); err != nil {
		return err
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      1,
		YSplit:      1,
		TopLeftCell: "B2",
		ActivePane:  "bottomRight",
	})
}

// writeElementsSheet lists the line items grouped by board, first-seen order, with a
// subtotal row after each group and a grand total row at the end.
func writeElementsSheet(f *excelize.File, st workbookStyles, result model.CalculationResult) error {
	sheet := SheetElements
	if err := writeHeader(f, sheet, elementColumns, st.header); err != nil {
		return err
	}

	row := 2
	for _, sub := range result.Summary.ByMaterial {
		for _, it := range result.Lines {
			if it.Part.MaterialCode != sub.MaterialCode {
				continue
			}
			long, short := model.EdgeCounts(it.Part)
			values := []interface{}{
				it.Part.Name, it.ShortCode, it.Part.MaterialCode, it.Part.EdgeBandCode,
				it.Part.A, it.Part.B, it.Part.Quantity,
				short, long, it.EdgeMarking,
				model.RoundQuantity(it.EdgeM), model.RoundQuantity(it.AreaM2), model.RoundQuantity(it.CuttingM),
			}
			if err := f.SetSheetRow(sheet, cellName(1, row), &values); err != nil {
				return err
			}
			row++
		}
		subtotal := []interface{}{
			"TOTAL – " + sub.MaterialCode, "", sub.MaterialCode, "", "", "", sub.Pieces, "", "", "",
			model.RoundQuantity(sub.EdgeM), model.RoundQuantity(sub.AreaM2), model.RoundQuantity(sub.CuttingM),
		}
		if err := f.SetSheetRow(sheet, cellName(1, row), &subtotal); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cellName(1, row), cellName(len(elementColumns), row), st.subtotal); err != nil {
			return err
		}
		row++
	}

	s := result.Summary
	total := []interface{}{
		"TOTAL – ALL MATERIALS", "", "", "", "", "", "", "", "", "",
		model.RoundQuantity(s.EdgeM), model.RoundQuantity(s.AreaM2), model.RoundQuantity(s.CuttingM),
	}
	if err := f.SetSheetRow(sheet, cellName(1, row), &total); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, cellName(1, row), cellName(len(elementColumns), row), st.total); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "K2", cellName(13, row-1), st.qty); err != nil {
		return err
	}
	if err := f.AutoFilter(sheet, "A1:"+cellName(len(elementColumns), row-1), nil); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", "A", 28); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", "M", 14)
}

// writeSummarySheet totals the banding per edge band, then area by surface.
func writeSummarySheet(f *excelize.File, st workbookStyles, result model.CalculationResult) error {
	sheet := SheetSummary
	header := []string{"Edge band", "Edge m total"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "B1", st.header); err != nil {
		return err
	}

	row := 2
	for _, eb := range result.Summary.EdgeBands {
		values := []interface{}{eb.EdgeBandCode, model.RoundQuantity(eb.TotalM)}
		if err := f.SetSheetRow(sheet, cellName(1, row), &values); err != nil {
			return err
		}
		row++
	}

	row++
	s := result.Summary
	surfaces := []struct {
		label string
		value float64
	}{
		{"Carcass boards m²", s.Surfaces.CarcassM2},
		{"Front boards m²", s.Surfaces.FrontM2},
		{"Back panels m²", s.Surfaces.BackM2},
		{"Cutting m total", s.CuttingM},
		{"Board area m² total", s.AreaM2},
	}
	for _, item := range surfaces {
		values := []interface{}{item.label, model.RoundQuantity(item.value)}
		if err := f.SetSheetRow(sheet, cellName(1, row), &values); err != nil {
			return err
		}
		row++
	}
	if err := f.SetCellStyle(sheet, cellName(1, row-1), cellName(2, row-1), st.total); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", "B", 26)
}

// writeOrderSheet is the cut list sent to the panel supplier.
func writeOrderSheet(f *excelize.File, st workbookStyles, result model.CalculationResult) error {
	sheet := SheetOrder
	if err := writeHeader(f, sheet, orderColumns, st.header); err != nil {
		return err
	}
	for i, it := range result.Lines {
		values := []interface{}{
			it.ShortCode, it.Part.Name, it.Part.MaterialCode, it.Part.EdgeBandCode,
			it.Part.A, it.Part.B, it.Part.Quantity, it.EdgeMarking,
		}
		if err := f.SetSheetRow(sheet, cellName(1, i+2), &values); err != nil {
			return err
		}
	}
	if len(result.Lines) > 0 {
		if err := f.AutoFilter(sheet, "A1:"+cellName(len(orderColumns), len(result.Lines)+1), nil); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "B", "B", 28)
}

// writeExtrasSheet lists hardware followed by misc items.
func writeExtrasSheet(f *excelize.File, st workbookStyles, result model.CalculationResult) error {
	sheet := SheetExtras
	if err := writeHeader(f, sheet, extrasColumns, st.header); err != nil {
		return err
	}

	row := 2
	for _, h := range result.Extras.Hardware {
		values := []interface{}{
			string(h.Kind), h.ArticleNumber, h.Name, h.Supplier, h.Unit, "",
			"", "", "", h.Quantity, h.UnitPrice, model.RoundCurrency(h.Amount),
		}
		if err := f.SetSheetRow(sheet, cellName(1, row), &values); err != nil {
			return err
		}
		row++
	}
	for _, m := range result.Extras.Misc {
		values := []interface{}{
			"misc", m.Code, m.Name, "", m.Unit, string(m.Mode),
			m.A, m.B, m.Count, model.RoundQuantity(m.Quantity), m.UnitPrice, model.RoundCurrency(m.Amount),
		}
		if err := f.SetSheetRow(sheet, cellName(1, row), &values); err != nil {
			return err
		}
		row++
	}
	return f.SetColWidth(sheet, "C", "C", 34)
}
