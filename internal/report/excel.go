package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/xuri/excelize/v2"

	"missingmech/app"
)

// WriteWorkbook writes a study result as an xlsx workbook: the true
// data, one masked sheet per mechanism with highlighted absent cells, a
// missingness indicator matrix, and a summary sheet with a mean
// comparison chart.
func WriteWorkbook(path string, result *app.StudyResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "data"); err != nil {
		return err
	}
	if err := writeDataSheet(f, result); err != nil {
		return err
	}
	maskStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFC7CE"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	for _, inj := range result.Injections {
		if err := writeMaskedSheet(f, inj, maskStyle); err != nil {
			return err
		}
	}
	if err := writeMissingnessSheet(f, result, maskStyle); err != nil {
		return err
	}
	if err := writeSummarySheet(f, result); err != nil {
		return err
	}
	return f.SaveAs(path)
}

func writeDataSheet(f *excelize.File, result *app.StudyResult) error {
	tbl := result.Table
	for c, field := range tbl.Fields() {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue("data", cell, field); err != nil {
			return err
		}
		col, err := tbl.Column(field)
		if err != nil {
			return err
		}
		for r, v := range col {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue("data", cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeMaskedSheet(f *excelize.File, inj app.Injection, maskStyle int) error {
	sheet := string(inj.Request.Kind)
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	tbl := inj.Derived
	for c, field := range tbl.Fields() {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, field); err != nil {
			return err
		}
		col, err := tbl.MaskedColumn(field)
		if err != nil {
			return err
		}
		for r, v := range col {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if math.IsNaN(v) {
				// Absent cells stay blank and get flagged by fill.
				if err := f.SetCellStyle(sheet, cell, cell, maskStyle); err != nil {
					return err
				}
				continue
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeMissingnessSheet(f *excelize.File, result *app.StudyResult, maskStyle int) error {
	const sheet = "missingness"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, "A1", "row"); err != nil {
		return err
	}
	for c, inj := range result.Injections {
		cell, err := excelize.CoordinatesToCellName(c+2, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, string(inj.Request.Kind)); err != nil {
			return err
		}
		for r, v := range inj.Indicator {
			cell, err := excelize.CoordinatesToCellName(c+2, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
			if v == 1 {
				if err := f.SetCellStyle(sheet, cell, cell, maskStyle); err != nil {
					return err
				}
			}
		}
	}
	for r := 0; r < result.Table.Rows(); r++ {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, r); err != nil {
			return err
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, result *app.StudyResult) error {
	const sheet = "summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	headers := []string{"mechanism", "true mean", "observed mean", "imputed mean", "missing"}
	for c, h := range headers {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for r, inj := range result.Injections {
		c := inj.Comparison
		values := []interface{}{
			strings.ToUpper(string(c.Mechanism)), c.True.Mean, c.Observed.Mean, c.Imputed.Mean, c.MissingCount,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	last := len(result.Injections) + 1
	series := make([]excelize.ChartSeries, 0, 3)
	for _, name := range []string{"B", "C", "D"} {
		series = append(series, excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!$%s$1", sheet, name),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", sheet, last),
			Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", sheet, name, name, last),
		})
	}
	return f.AddChart(sheet, "G2", &excelize.Chart{
		Type:   excelize.Col,
		Series: series,
		Title:  []excelize.RichTextRun{{Text: fmt.Sprintf("Mean of %s by mechanism", result.Manifest.Target)}},
		Legend: excelize.ChartLegend{Position: "bottom"},
	})
}
