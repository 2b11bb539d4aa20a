package report

import (
	"encoding/csv"
	"math"
	"os"
	"strconv"

	"missingmech/domain/table"
)

// WriteCSV writes a table's masked view to path. Masked cells become
// empty strings, the conventional CSV absent marker.
func WriteCSV(path string, tbl *table.Table) error {
	fields := tbl.Fields()
	columns := make([][]float64, len(fields))
	for i, f := range fields {
		col, err := tbl.MaskedColumn(f)
		if err != nil {
			return err
		}
		columns[i] = col
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(fields); err != nil {
		return err
	}
	record := make([]string, len(fields))
	for row := 0; row < tbl.Rows(); row++ {
		for i := range fields {
			v := columns[i][row]
			if math.IsNaN(v) {
				record[i] = ""
			} else {
				record[i] = strconv.FormatFloat(v, 'f', -1, 64)
			}
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
