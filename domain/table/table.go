package table

import (
	"math"

	"missingmech/domain/core"
)

// Table is an ordered collection of named numeric columns. Row order is
// stable and defines row identity for the lifetime of the table. Once
// built the columns are immutable; indicators are the only additions,
// and derived views (masked, imputed) are fresh copies.
type Table struct {
	fields     []string
	columns    map[string][]float64
	indicators map[string]Indicator
	rows       int
}

// New creates an empty table with a fixed row count.
func New(rows int) *Table {
	return &Table{
		columns:    make(map[string][]float64),
		indicators: make(map[string]Indicator),
		rows:       rows,
	}
}

// Rows returns the row count.
func (t *Table) Rows() int { return t.rows }

// Fields returns the field names in insertion order.
func (t *Table) Fields() []string {
	out := make([]string, len(t.fields))
	copy(out, t.fields)
	return out
}

// HasField reports whether the named field exists.
func (t *Table) HasField(name string) bool {
	_, ok := t.columns[name]
	return ok
}

// AddColumn appends a named column. The column length must match the
// table's row count and the name must be new.
func (t *Table) AddColumn(name string, values []float64) error {
	if t.HasField(name) {
		return core.NewInvalidParameterErrorf("duplicate field %q", name)
	}
	if len(values) != t.rows {
		return core.NewInvalidParameterErrorf("column %q has %d values, table has %d rows", name, len(values), t.rows)
	}
	col := make([]float64, len(values))
	copy(col, values)
	t.fields = append(t.fields, name)
	t.columns[name] = col
	return nil
}

// Column returns a copy of the named column's values.
func (t *Table) Column(name string) ([]float64, error) {
	col, ok := t.columns[name]
	if !ok {
		return nil, core.NewMissingFieldError(name)
	}
	out := make([]float64, len(col))
	copy(out, col)
	return out, nil
}

// Indicator returns the indicator attached to the named field, if any.
func (t *Table) Indicator(field string) (Indicator, bool) {
	ind, ok := t.indicators[field]
	return ind, ok
}

// IndicatorFields returns the fields carrying an indicator, in field order.
func (t *Table) IndicatorFields() []string {
	out := make([]string, 0, len(t.indicators))
	for _, f := range t.fields {
		if _, ok := t.indicators[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// WithIndicator returns a copy of the table with the indicator attached
// to the named field. The receiver is left untouched, so indicators
// computed from the same base table never interfere.
func (t *Table) WithIndicator(field string, ind Indicator) (*Table, error) {
	if !t.HasField(field) {
		return nil, core.NewMissingFieldError(field)
	}
	if len(ind) != t.rows {
		return nil, core.NewInvalidParameterErrorf("indicator has %d entries, table has %d rows", len(ind), t.rows)
	}
	out := t.clone()
	attached := make(Indicator, len(ind))
	copy(attached, ind)
	out.indicators[field] = attached
	return out, nil
}

// MaskedColumn returns the named column with indicator-marked cells
// replaced by NaN, the explicit absent marker. Fields without an
// indicator come back unchanged.
func (t *Table) MaskedColumn(field string) ([]float64, error) {
	col, err := t.Column(field)
	if err != nil {
		return nil, err
	}
	ind, ok := t.indicators[field]
	if !ok {
		return col, nil
	}
	for i := range col {
		if ind.Missing(i) {
			col[i] = math.NaN()
		}
	}
	return col, nil
}

// Masked builds the derived table: every indicator-bearing field has its
// marked cells replaced by NaN. Original values stay available on the
// receiver.
func (t *Table) Masked() (*Table, error) {
	out := New(t.rows)
	for _, f := range t.fields {
		col, err := t.MaskedColumn(f)
		if err != nil {
			return nil, err
		}
		if err := out.AddColumn(f, col); err != nil {
			return nil, err
		}
	}
	for f, ind := range t.indicators {
		attached := make(Indicator, len(ind))
		copy(attached, ind)
		out.indicators[f] = attached
	}
	return out, nil
}

// ObservedColumn returns only the unmasked values of the named field,
// in row order. Without an indicator the full column is returned.
func (t *Table) ObservedColumn(field string) ([]float64, error) {
	col, ok := t.columns[field]
	if !ok {
		return nil, core.NewMissingFieldError(field)
	}
	ind, hasInd := t.indicators[field]
	if !hasInd {
		out := make([]float64, len(col))
		copy(out, col)
		return out, nil
	}
	out := make([]float64, 0, len(col)-ind.MissingCount())
	for i, v := range col {
		if !ind.Missing(i) {
			out = append(out, v)
		}
	}
	return out, nil
}

// ImputedColumn returns the named column with masked cells replaced by
// the mean of the observed values. It fails when every row is masked,
// since no observed mean exists.
func (t *Table) ImputedColumn(field string) ([]float64, error) {
	col, err := t.Column(field)
	if err != nil {
		return nil, err
	}
	ind, ok := t.indicators[field]
	if !ok {
		return col, nil
	}
	observed, err := t.ObservedColumn(field)
	if err != nil {
		return nil, err
	}
	if len(observed) == 0 {
		return nil, core.NewInvalidParameterErrorf("field %q has no observed values to impute from", field)
	}
	sum := 0.0
	for _, v := range observed {
		sum += v
	}
	mean := sum / float64(len(observed))
	for i := range col {
		if ind.Missing(i) {
			col[i] = mean
		}
	}
	return col, nil
}

func (t *Table) clone() *Table {
	out := New(t.rows)
	out.fields = make([]string, len(t.fields))
	copy(out.fields, t.fields)
	for f, col := range t.columns {
		c := make([]float64, len(col))
		copy(c, col)
		out.columns[f] = c
	}
	for f, ind := range t.indicators {
		c := make(Indicator, len(ind))
		copy(c, ind)
		out.indicators[f] = c
	}
	return out
}
