// Package export writes calculation results to files: CSV line items, an XLSX
// workbook, a PDF quote, QR-coded part labels and a DXF outline sheet.
package export

import (
	"fmt"
	"time"

	"github.com/piwi3910/cabinetquote/internal/model"
)

// QuoteDocument is everything printed on a PDF quote.
type QuoteDocument struct {
	Result      model.CalculationResult
	CompanyName string
	Currency    string
	Date        time.Time
}

// NewQuoteDocument prepares a quote for printing with the company details from cfg.
func NewQuoteDocument(result model.CalculationResult, cfg model.AppConfig) QuoteDocument {
	return QuoteDocument{
		Result:      result,
		CompanyName: cfg.CompanyName,
		Currency:    cfg.Currency,
		Date:        time.Now(),
	}
}

// QuoteTitle describes the carcass, e.g. "Cabinet H=720mm × W=800mm × D=320mm — 2F (inner)".
func QuoteTitle(c model.CabinetParameters) string {
	dims := fmt.Sprintf("Cabinet H=%dmm × W=%dmm × D=%dmm", int(c.Height), int(c.Width), int(c.Depth))
	if !c.Front.Enabled {
		return dims + " — no front"
	}
	leaves := "1F"
	if c.Front.Leaves == model.LeavesDouble {
		leaves = "2F"
	}
	return fmt.Sprintf("%s — %s (%s)", dims, leaves, c.Front.Mount)
}

// lineColumns are the headers shared by the CSV export and the PDF line table.
var lineColumns = []string{
	"Name", "Code", "Material", "Edge band", "A (mm)", "B (mm)", "Qty", "Edges",
	"Edge m", "Cutting m", "Area m²", "Material", "Edge band", "Edge service", "Cutting", "Total",
}

// lineRow formats one line item for tabular output.
func lineRow(it model.ComputedLineItem) []string {
	p := it.Part
	return []string{
		p.Name,
		it.ShortCode,
		p.MaterialCode,
		p.EdgeBandCode,
		formatMM(p.A),
		formatMM(p.B),
		fmt.Sprintf("%d", p.Quantity),
		it.EdgeMarking,
		formatQty(it.EdgeM),
		formatQty(it.CuttingM),
		formatQty(it.AreaM2),
		formatMoney(it.MaterialCost),
		formatMoney(it.EdgeBandCost),
		formatMoney(it.EdgeServiceCost),
		formatMoney(it.CuttingCost),
		formatMoney(it.Total),
	}
}

func formatMM(v float64) string {
	return fmt.Sprintf("%.0f", v)
}

func formatQty(v float64) string {
	return fmt.Sprintf("%.3f", model.RoundQuantity(v))
}

func formatMoney(v float64) string {
	return fmt.Sprintf("%.2f", model.RoundCurrency(v))
}
