package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/piwi3910/cabinetquote/internal/model"
)

// WriteCSV writes one row per line item, preceded by a header row.
func WriteCSV(w io.Writer, result model.CalculationResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(lineColumns); err != nil {
		return err
	}
	for _, it := range result.Lines {
		if err := cw.Write(lineRow(it)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV writes the line items to a CSV file.
func ExportCSV(path string, result model.CalculationResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	if err := WriteCSV(f, result); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
