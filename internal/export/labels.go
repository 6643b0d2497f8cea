package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/cabinetquote/internal/model"
)

// LabelInfo holds the data encoded into each piece label's QR code.
type LabelInfo struct {
	Name        string  `json:"name"`
	Code        string  `json:"code"`
	Material    string  `json:"material"`
	EdgeBand    string  `json:"edge_band"`
	A           float64 `json:"a_mm"`
	B           float64 `json:"b_mm"`
	EdgeMarking string  `json:"edges"`
	LongEdges   int     `json:"long_edges"`
	ShortEdges  int     `json:"short_edges"`
	Piece       int     `json:"piece"`
	Of          int     `json:"of"`
	Job         string  `json:"job,omitempty"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// CollectLabelInfos expands every line item into one label per piece.
func CollectLabelInfos(result model.CalculationResult) []LabelInfo {
	var labels []LabelInfo
	for _, it := range result.Lines {
		p := it.Part
		long, short := model.EdgeCounts(p)
		for n := 1; n <= p.Quantity; n++ {
			labels = append(labels, LabelInfo{
				Name:        p.Name,
				Code:        it.ShortCode,
				Material:    p.MaterialCode,
				EdgeBand:    p.EdgeBandCode,
				A:           p.A,
				B:           p.B,
				EdgeMarking: it.EdgeMarking,
				LongEdges:   long,
				ShortEdges:  short,
				Piece:       n,
				Of:          p.Quantity,
				Job:         result.Title,
			})
		}
	}
	return labels
}

// ExportLabels generates a PDF of QR-coded labels, one per piece. Each label shows the
// part name, dimensions, material and edge marking, and a QR code with the same data
// as JSON. Labels are laid out on a standard label sheet (Avery 5160 / 3 x 10 on US Letter).
func ExportLabels(path string, result model.CalculationResult) error {
	labels := CollectLabelInfos(result)
	if len(labels) == 0 {
		return fmt.Errorf("no pieces to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, tr, x, y, i, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.Name, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, tr func(string) string, x, y float64, index int, info LabelInfo) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%d", index)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding
	ty := y + labelPadding
	for _, ln := range labelLines(info) {
		pdf.SetFont("Helvetica", ln.style, ln.size)
		if ln.muted {
			pdf.SetTextColor(100, 100, 100)
		} else {
			pdf.SetTextColor(0, 0, 0)
		}
		pdf.SetXY(textX, ty)
		pdf.CellFormat(textW, ln.height, tr(fitText(pdf, ln.text, textW)), "", 0, "L", false, 0, "")
		ty += ln.height + 0.5
	}

	drawEdgeGlyph(pdf, textX, ty+0.5, info.LongEdges, info.ShortEdges)
	pdf.SetFont("Helvetica", "B", 7)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX+glyphWidth+2, ty+0.5)
	pdf.CellFormat(textW-glyphWidth-2, glyphHeight, info.EdgeMarking, "", 0, "L", false, 0, "")
	return nil
}

// labelLine is one row of text printed left of the QR code.
type labelLine struct {
	style  string
	size   float64
	height float64
	muted  bool
	text   string
}

func labelLines(info LabelInfo) []labelLine {
	return []labelLine{
		{style: "B", size: 9, height: 4.5, text: info.Name},
		{size: 7, height: 3.5, text: fmt.Sprintf("%.0f × %.0f mm", info.A, info.B)},
		{size: 6, height: 3, muted: true, text: info.Material + " / " + info.EdgeBand},
		{size: 6, height: 3, muted: true, text: fmt.Sprintf("%s %d/%d", info.Code, info.Piece, info.Of)},
	}
}

// fitText shortens s with an ellipsis until it fits in w.
func fitText(pdf *fpdf.Fpdf, s string, w float64) string {
	if pdf.GetStringWidth(s) <= w {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > w {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

// Edge glyph size in mm. The long side is drawn horizontally.
const (
	glyphWidth  = 12.0
	glyphHeight = 4.0
)

// drawEdgeGlyph sketches the piece as a small rectangle with the banded edges drawn
// heavy: long edges bottom then top, short edges left then right.
func drawEdgeGlyph(pdf *fpdf.Fpdf, x, y float64, long, short int) {
	pdf.SetDrawColor(150, 150, 150)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, glyphWidth, glyphHeight, "D")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.6)
	edges := [][4]float64{
		{x, y + glyphHeight, x + glyphWidth, y + glyphHeight}, // long, bottom
		{x, y, x + glyphWidth, y},                             // long, top
		{x, y, x, y + glyphHeight},                            // short, left
		{x + glyphWidth, y, x + glyphWidth, y + glyphHeight},  // short, right
	}
	for i := 0; i < long && i < 2; i++ {
		e := edges[i]
		pdf.Line(e[0], e[1], e[2], e[3])
	}
	for i := 0; i < short && i < 2; i++ {
		e := edges[2+i]
		pdf.Line(e[0], e[1], e[2], e[3])
	}
	pdf.SetLineWidth(0.1)
}
