package table

import (
	"math"
	"testing"

	"missingmech/domain/core"
)

func newTestTable(t *testing.T) *Table {
	t.Helper()
	tbl := New(4)
	if err := tbl.AddColumn("age", []float64{20, 30, 40, 50}); err != nil {
		t.Fatalf("add age: %v", err)
	}
	if err := tbl.AddColumn("income", []float64{1000, 2000, 3000, 4000}); err != nil {
		t.Fatalf("add income: %v", err)
	}
	return tbl
}

func TestTable_AddColumn(t *testing.T) {
	tbl := newTestTable(t)

	t.Run("duplicate field", func(t *testing.T) {
		err := tbl.AddColumn("age", []float64{1, 2, 3, 4})
		if !core.IsInvalidParameter(err) {
			t.Errorf("expected invalid parameter, got %v", err)
		}
	})

	t.Run("length mismatch", func(t *testing.T) {
		err := tbl.AddColumn("children", []float64{1, 2})
		if !core.IsInvalidParameter(err) {
			t.Errorf("expected invalid parameter, got %v", err)
		}
	})

	t.Run("field order is stable", func(t *testing.T) {
		fields := tbl.Fields()
		if len(fields) != 2 || fields[0] != "age" || fields[1] != "income" {
			t.Errorf("unexpected field order: %v", fields)
		}
	})
}

func TestTable_ColumnReturnsCopy(t *testing.T) {
	tbl := newTestTable(t)

	col, err := tbl.Column("age")
	if err != nil {
		t.Fatalf("column: %v", err)
	}
	col[0] = -999

	again, _ := tbl.Column("age")
	if again[0] != 20 {
		t.Errorf("mutating a returned column leaked into the table: %v", again)
	}

	if _, err := tbl.Column("salary"); !core.IsMissingField(err) {
		t.Errorf("expected missing field error, got %v", err)
	}
}

func TestTable_WithIndicatorIsNonDestructive(t *testing.T) {
	tbl := newTestTable(t)
	ind := NewIndicator(4, []int{1, 3})

	derived, err := tbl.WithIndicator("income", ind)
	if err != nil {
		t.Fatalf("with indicator: %v", err)
	}

	if len(tbl.IndicatorFields()) != 0 {
		t.Error("indicator leaked into the base table")
	}
	if got := derived.IndicatorFields(); len(got) != 1 || got[0] != "income" {
		t.Errorf("derived indicator fields: %v", got)
	}

	// Attaching an indicator never touches the stored values.
	col, _ := derived.Column("income")
	for i, want := range []float64{1000, 2000, 3000, 4000} {
		if col[i] != want {
			t.Errorf("row %d changed: got %v want %v", i, col[i], want)
		}
	}
}

func TestTable_MaskedColumn(t *testing.T) {
	tbl := newTestTable(t)
	derived, err := tbl.WithIndicator("income", NewIndicator(4, []int{0, 2}))
	if err != nil {
		t.Fatalf("with indicator: %v", err)
	}

	masked, err := derived.MaskedColumn("income")
	if err != nil {
		t.Fatalf("masked column: %v", err)
	}
	if !math.IsNaN(masked[0]) || !math.IsNaN(masked[2]) {
		t.Errorf("masked cells should be NaN: %v", masked)
	}
	if masked[1] != 2000 || masked[3] != 4000 {
		t.Errorf("observed cells changed: %v", masked)
	}

	// Fields without an indicator come back untouched.
	age, err := derived.MaskedColumn("age")
	if err != nil {
		t.Fatalf("masked age: %v", err)
	}
	for _, v := range age {
		if math.IsNaN(v) {
			t.Errorf("age should not be masked: %v", age)
		}
	}
}

func TestTable_Masked(t *testing.T) {
	tbl := newTestTable(t)
	derived, _ := tbl.WithIndicator("income", NewIndicator(4, []int{3}))

	masked, err := derived.Masked()
	if err != nil {
		t.Fatalf("masked: %v", err)
	}
	col, _ := masked.Column("income")
	if !math.IsNaN(col[3]) {
		t.Errorf("expected NaN at row 3: %v", col)
	}

	// Originals stay available on the source table.
	orig, _ := derived.Column("income")
	if orig[3] != 4000 {
		t.Errorf("original value lost: %v", orig)
	}
}

func TestTable_ObservedAndImputedColumns(t *testing.T) {
	tbl := newTestTable(t)
	derived, _ := tbl.WithIndicator("income", NewIndicator(4, []int{1, 2}))

	observed, err := derived.ObservedColumn("income")
	if err != nil {
		t.Fatalf("observed: %v", err)
	}
	if len(observed) != 2 || observed[0] != 1000 || observed[1] != 4000 {
		t.Errorf("observed values: %v", observed)
	}

	imputed, err := derived.ImputedColumn("income")
	if err != nil {
		t.Fatalf("imputed: %v", err)
	}
	// Observed mean is (1000 + 4000) / 2 = 2500.
	want := []float64{1000, 2500, 2500, 4000}
	for i := range want {
		if imputed[i] != want[i] {
			t.Errorf("imputed[%d] = %v, want %v", i, imputed[i], want[i])
		}
	}
}

func TestTable_ImputedColumnAllMissing(t *testing.T) {
	tbl := newTestTable(t)
	derived, _ := tbl.WithIndicator("income", NewIndicator(4, []int{0, 1, 2, 3}))

	if _, err := derived.ImputedColumn("income"); !core.IsInvalidParameter(err) {
		t.Errorf("expected invalid parameter when nothing is observed, got %v", err)
	}
}

func TestIndicator_Helpers(t *testing.T) {
	ind := NewIndicator(5, []int{4, 0})

	if got := ind.MissingCount(); got != 2 {
		t.Errorf("missing count = %d", got)
	}
	rows := ind.MissingRows()
	if len(rows) != 2 || rows[0] != 0 || rows[1] != 4 {
		t.Errorf("missing rows = %v", rows)
	}
	if !ind.Missing(0) || ind.Missing(2) {
		t.Error("Missing() misreports")
	}
	if !ind.Equal(NewIndicator(5, []int{0, 4})) {
		t.Error("order of construction should not matter for equality")
	}
	if ind.Equal(NewIndicator(4, []int{0})) {
		t.Error("different lengths must not compare equal")
	}
}
