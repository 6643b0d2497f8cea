package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/cabinetquote/internal/model"
)

// DXF sheet layout in mm. Pieces are laid out left to right and wrap into a new
// row once a row grows past dxfRowWidth. This is a drawing aid, not a nesting.
const (
	dxfSpacing   = 50.0
	dxfRowWidth  = 5000.0
	dxfTextSize  = 20.0
	dxfNoLayer   = "UNASSIGNED"
	dxfTextLayer = "LABELS"
)

// ExportDXF draws every piece as an A × B rectangle on a layer named after its
// material, with the part name and size written inside it.
func ExportDXF(path string, result model.CalculationResult) error {
	if len(result.Lines) == 0 {
		return fmt.Errorf("no parts to draw")
	}

	d := dxf.NewDrawing()
	layers := map[string]bool{}
	if _, err := d.AddLayer(dxfTextLayer, dxf.DefaultColor, dxf.DefaultLineType, false); err != nil {
		return fmt.Errorf("failed to add layer %s: %w", dxfTextLayer, err)
	}

	x, y, rowHeight := 0.0, 0.0, 0.0
	for _, it := range result.Lines {
		p := it.Part
		layer := p.MaterialCode
		if layer == "" {
			layer = dxfNoLayer
		}
		if !layers[layer] {
			if _, err := d.AddLayer(layer, dxf.DefaultColor, dxf.DefaultLineType, false); err != nil {
				return fmt.Errorf("failed to add layer %s: %w", layer, err)
			}
			layers[layer] = true
		}

		for n := 0; n < p.Quantity; n++ {
			if x > 0 && x+p.A > dxfRowWidth {
				x = 0
				y -= rowHeight + dxfSpacing
				rowHeight = 0
			}
			if err := d.ChangeLayer(layer); err != nil {
				return err
			}
			if err := drawRect(d, x, y, p.A, p.B); err != nil {
				return err
			}
			if err := d.ChangeLayer(dxfTextLayer); err != nil {
				return err
			}
			label := fmt.Sprintf("%s %.0fx%.0f %s", p.Name, p.A, p.B, it.EdgeMarking)
			if _, err := d.Text(label, x+dxfTextSize/2, y+p.B/2, 0, dxfTextSize); err != nil {
				return err
			}

			x += p.A + dxfSpacing
			if p.B > rowHeight {
				rowHeight = p.B
			}
		}
	}

	return d.SaveAs(path)
}

// drawRect draws the outline of a rectangle with its lower-left corner at (x, y).
func drawRect(d *drawing.Drawing, x, y, w, h float64) error {
	corners := [][2]float64{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
	for i := range corners {
		a, b := corners[i], corners[(i+1)%len(corners)]
		if _, err := d.Line(a[0], a[1], 0, b[0], b[1], 0); err != nil {
			return err
		}
	}
	return nil
}
