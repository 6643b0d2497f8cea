package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/cabinetquote/internal/model"
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 14.0
	marginRight  = 14.0
	marginTop    = 18.0
	marginBottom = 18.0
	rowHeight    = 5.0
)

var lineColWidths = []float64{34, 12, 20, 20, 13, 13, 9, 14, 15, 15, 15, 17, 15, 17, 15, 18}

// quotePDF wraps the document with the cp1252 translator needed for ×, — and ².
type quotePDF struct {
	*fpdf.Fpdf
	tr func(string) string
	y  float64
}

// ExportPDF renders the quote to a PDF file.
func ExportPDF(path string, doc QuoteDocument) error {
	pdf := renderQuote(doc)
	return pdf.OutputFileAndClose(path)
}

// WritePDF renders the quote to w.
func WritePDF(w io.Writer, doc QuoteDocument) error {
	pdf := renderQuote(doc)
	return pdf.Output(w)
}

func renderQuote(doc QuoteDocument) *fpdf.Fpdf {
	f := fpdf.New("L", "mm", "A4", "")
	f.SetMargins(marginLeft, marginTop, marginRight)
	f.SetAutoPageBreak(false, marginBottom)
	pdf := &quotePDF{Fpdf: f, tr: f.UnicodeTranslatorFromDescriptor("")}
	pdf.AddPage()
	pdf.y = marginTop

	res := doc.Result
	pdf.SetFont("Helvetica", "B", 16)
	pdf.text(pageWidth-marginLeft-marginRight, 8, QuoteTitle(res.Cabinet), "L")
	pdf.SetFont("Helvetica", "", 10)
	date := doc.Date.Format("02.01.2006.")
	if doc.CompanyName != "" {
		date = doc.CompanyName + "  |  " + date
	}
	if res.Title != "" {
		date = res.Title + "  |  " + date
	}
	pdf.text(pageWidth-marginLeft-marginRight, 6, date, "L")
	pdf.y += 2

	pdf.section("Parameters")
	pdf.keyValueTable(parameterRows(res), 70, 80)

	if len(res.Lines) > 0 {
		pdf.section("Elements and costs")
		pdf.lineTable(res.Lines)
	}

	currency := doc.Currency
	if currency == "" {
		currency = "EUR"
	}

	pdf.section("Materials and services")
	pdf.amountTable([]string{"Item", "Quantity", "Amount (" + currency + ")"}, materialRows(res.Summary))

	if len(res.Extras.Hardware)+len(res.Extras.Misc) > 0 {
		pdf.section("Hardware and extras")
		pdf.amountTable([]string{"Item", "Quantity", "Amount (" + currency + ")"}, extrasRows(res.Extras))
	}

	pdf.section("Labor")
	pdf.amountTable([]string{"Operation", "Hours × rate", "Amount (" + currency + ")"}, laborRows(res.Labor))

	pdf.section("Totals")
	pdf.totalsTable(res.Quote.Rounded())

	if warnings := res.Warnings(); len(warnings) > 0 {
		pdf.section("Notes")
		pdf.SetFont("Helvetica", "", 8)
		for _, w := range warnings {
			pdf.ensureSpace(rowHeight)
			pdf.text(200, 4, "- "+w, "L")
		}
	}
	return f
}

// text writes one cell at the current y and advances it.
func (p *quotePDF) text(w, h float64, s, align string) {
	p.SetXY(marginLeft, p.y)
	p.CellFormat(w, h, p.tr(s), "", 0, align, false, 0, "")
	p.y += h
}

func (p *quotePDF) ensureSpace(h float64) bool {
	if p.y+h <= pageHeight-marginBottom {
		return false
	}
	p.AddPage()
	p.y = marginTop
	return true
}

func (p *quotePDF) section(title string) {
	p.ensureSpace(20)
	p.y += 3
	p.SetFont("Helvetica", "B", 12)
	p.SetTextColor(0, 0, 0)
	p.text(150, 7, title, "L")
}

func (p *quotePDF) row(widths []float64, cells []string, fill bool, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	p.SetFontStyle(style)
	x := marginLeft
	for i, c := range cells {
		align := "C"
		if i == 0 {
			align = "L"
		}
		p.SetXY(x, p.y)
		p.CellFormat(widths[i], rowHeight, p.tr(c), "1", 0, align, fill, 0, "")
		x += widths[i]
	}
	p.y += rowHeight
}

func (p *quotePDF) keyValueTable(rows [][2]string, keyW, valueW float64) {
	widths := []float64{keyW, valueW}
	p.SetDrawColor(229, 231, 235)
	p.SetFillColor(243, 244, 246)
	p.SetFontSize(9)
	p.row(widths, []string{"Item", "Value"}, true, true)
	for _, r := range rows {
		p.ensureSpace(rowHeight)
		p.row(widths, []string{r[0], r[1]}, false, false)
	}
}

func (p *quotePDF) lineTable(lines []model.ComputedLineItem) {
	p.SetDrawColor(229, 231, 235)
	p.SetFillColor(243, 244, 246)
	p.SetFontSize(7)
	p.row(lineColWidths, lineColumns, true, true)
	for _, it := range lines {
		if p.ensureSpace(rowHeight) {
			p.SetFillColor(243, 244, 246)
			p.row(lineColWidths, lineColumns, true, true)
		}
		p.row(lineColWidths, lineRow(it), false, false)
	}
}

func (p *quotePDF) amountTable(header []string, rows [][]string) {
	widths := []float64{80, 35, 45}
	p.SetDrawColor(229, 231, 235)
	p.SetFillColor(243, 244, 246)
	p.SetFontSize(9)
	p.ensureSpace(rowHeight * 2)
	p.row(widths, header, true, true)
	for _, r := range rows {
		p.ensureSpace(rowHeight)
		p.row(widths, r, false, false)
	}
}

func (p *quotePDF) totalsTable(q model.Quote) {
	widths := []float64{100, 60}
	markup := "Markup (0%)"
	if q.MarkupPercent > 0 {
		markup = fmt.Sprintf("Markup (%.1f%%)", q.MarkupPercent)
	}
	rows := [][]string{
		{"Materials and services", formatMoney(q.MaterialsSubtotal)},
		{"Hardware and extras", formatMoney(q.ExtrasSubtotal)},
		{"Labor (hours × rate)", formatMoney(q.LaborSubtotal)},
		{"Total before markup", formatMoney(q.PreMarkup)},
		{markup, formatMoney(q.MarkupAmount)},
	}
	p.SetDrawColor(229, 231, 235)
	p.SetFontSize(10)
	p.ensureSpace(rowHeight * 7)
	for _, r := range rows {
		p.row(widths, r, false, false)
	}
	p.SetFillColor(239, 251, 241)
	p.row(widths, []string{"TOTAL", formatMoney(q.GrandTotal)}, true, true)
	if q.DeliveryDays > 0 {
		p.SetFontSize(9)
		p.y += 2
		p.text(160, 5, fmt.Sprintf("Planned delivery: %d days", q.DeliveryDays), "L")
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func parameterRows(res model.CalculationResult) [][2]string {
	c := res.Cabinet
	rows := [][2]string{
		{"Width (W)", fmt.Sprintf("%d mm", int(c.Width))},
		{"Height (H)", fmt.Sprintf("%d mm", int(c.Height))},
		{"Depth (D)", fmt.Sprintf("%d mm", int(c.Depth))},
		{"Board thickness", fmt.Sprintf("%g mm", c.Thickness)},
		{"Shelves", fmt.Sprintf("%d", c.Shelves)},
		{"Back panel (HDF)", yesNo(c.BackPanel)},
		{"Bottom outer", yesNo(c.BottomMount == model.MountOuter)},
		{"Top outer", yesNo(c.TopMount == model.MountOuter)},
		{"Top connector", yesNo(c.TopConnector.Enabled)},
		{"Reinforcement", reinforcementLabel(c.Reinforcement)},
	}
	if !res.Derived {
		rows = append(rows, [2]string{"Parts", "entered manually"})
	}
	if res.Quote.DeliveryDays > 0 {
		rows = append(rows, [2]string{"Planned delivery", fmt.Sprintf("%d days", res.Quote.DeliveryDays)})
	}
	return rows
}

func reinforcementLabel(r model.ReinforcementOptions) string {
	switch {
	case r.Horizontal && r.Vertical:
		return fmt.Sprintf("horizontal + vertical, %g mm", r.WidthMM)
	case r.Horizontal:
		return fmt.Sprintf("horizontal, %g mm", r.WidthMM)
	case r.Vertical:
		return fmt.Sprintf("vertical, %g mm", r.WidthMM)
	}
	return "no"
}

func materialRows(s model.CostSummary) [][]string {
	waste := "Waste"
	if s.Waste.Enabled {
		waste = fmt.Sprintf("Waste (%g%%)", s.Waste.Percent)
	}
	return [][]string{
		{"Boards m²", formatQty(s.Panels.AreaM2), formatMoney(s.Panels.Cost)},
		{"Back panels m²", formatQty(s.Backing.AreaM2), formatMoney(s.Backing.Cost)},
		{"Total m²", formatQty(s.AreaM2), formatMoney(s.MaterialCost)},
		{"Cutting (m)", formatQty(s.CuttingM), formatMoney(s.CuttingCost)},
		{"Edge banding (m)", formatQty(s.EdgeM), formatMoney(s.EdgeBandCost)},
		{"Edge banding service", "", formatMoney(s.EdgeServiceCost)},
		{waste, "", formatMoney(s.WasteAmount)},
		{"Materials + services + waste", "", formatMoney(s.MaterialsSubtotal)},
	}
}

func extrasRows(l model.ExtrasLedger) [][]string {
	var rows [][]string
	for _, h := range l.Hardware {
		label := h.ArticleNumber
		if h.Name != "" {
			label += " " + h.Name
		}
		rows = append(rows, []string{label, fmt.Sprintf("%d %s", h.Quantity, h.Unit), formatMoney(h.Amount)})
	}
	for _, m := range l.Misc {
		label := m.Code
		if m.Name != "" {
			label += " " + m.Name
		}
		rows = append(rows, []string{label, fmt.Sprintf("%s %s", formatQty(m.Quantity), m.Unit), formatMoney(m.Amount)})
	}
	return append(rows, []string{"Extras total", "", formatMoney(l.Subtotal)})
}

func laborRows(l model.Labor) [][]string {
	var rows [][]string
	for _, it := range l.Items() {
		rows = append(rows, []string{
			it.Name,
			fmt.Sprintf("%g h × %g", it.Hours, it.Rate),
			formatMoney(it.Cost()),
		})
	}
	return append(rows, []string{"Labor total", "", formatMoney(l.Subtotal())})
}
