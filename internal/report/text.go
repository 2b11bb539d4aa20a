package report

import (
	"fmt"
	"sort"
	"strings"

	"missingmech/domain/table"
	"missingmech/internal/summary"
)

// newColumnHistogram bins a column with the report's default bin count.
func newColumnHistogram(values []float64) (summary.Histogram, error) {
	return summary.NewHistogram(values, histogramBins)
}

// MissingnessMatrix renders a present/absent cell matrix for every
// indicator-bearing field of a derived table. '#' marks an observed
// cell, '.' a masked one. At most maxRows rows are drawn.
func MissingnessMatrix(tbl *table.Table, maxRows int) string {
	fields := tbl.IndicatorFields()
	if len(fields) == 0 {
		return "(no indicators attached)\n"
	}
	rows := tbl.Rows()
	if maxRows > 0 && rows > maxRows {
		rows = maxRows
	}

	var b strings.Builder
	b.WriteString("row  ")
	b.WriteString(strings.Join(fields, "  "))
	b.WriteString("\n")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&b, "%-4d ", i)
		for j, f := range fields {
			ind, _ := tbl.Indicator(f)
			cell := "#"
			if ind.Missing(i) {
				cell = "."
			}
			pad := len(f) - 1
			if j < len(fields)-1 {
				pad += 2
			}
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", pad))
		}
		b.WriteString("\n")
	}
	if rows < tbl.Rows() {
		fmt.Fprintf(&b, "... (%d more rows)\n", tbl.Rows()-rows)
	}
	return b.String()
}

// RenderHistogram draws a horizontal bar chart of the histogram, with
// named mean markers annotated on the bins containing them.
func RenderHistogram(h summary.Histogram, width int, markers map[string]float64) string {
	if width < 1 {
		width = 40
	}
	maxCount := h.MaxCount()

	markerNames := make([]string, 0, len(markers))
	for name := range markers {
		markerNames = append(markerNames, name)
	}
	sort.Strings(markerNames)

	var b strings.Builder
	for i := 0; i < h.Bins(); i++ {
		barLen := 0
		if maxCount > 0 {
			barLen = int(h.Counts[i] / maxCount * float64(width))
		}
		fmt.Fprintf(&b, "%12.1f | %-*s %4.0f", h.Dividers[i], width, strings.Repeat("#", barLen), h.Counts[i])

		var hits []string
		for _, name := range markerNames {
			if h.BinOf(markers[name]) == i {
				hits = append(hits, fmt.Sprintf("%s=%.1f", name, markers[name]))
			}
		}
		if len(hits) > 0 {
			fmt.Fprintf(&b, "  <- %s", strings.Join(hits, ", "))
		}
		b.WriteString("\n")
	}
	return b.String()
}
