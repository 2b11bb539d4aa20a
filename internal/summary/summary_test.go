package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"missingmech/domain/core"
	"missingmech/domain/missing"
	"missingmech/domain/table"
)

func TestDescribe(t *testing.T) {
	s, err := Describe([]float64{2, 4, 6, 8})
	require.NoError(t, err)
	assert.Equal(t, 4, s.N)
	assert.InDelta(t, 5.0, s.Mean, 1e-9)
	assert.InDelta(t, 5.0, s.Median, 1e-9)
	assert.InDelta(t, 2.0, s.Min, 1e-9)
	assert.InDelta(t, 8.0, s.Max, 1e-9)

	_, err = Describe(nil)
	assert.True(t, core.IsInvalidParameter(err))
}

func TestCompare(t *testing.T) {
	tbl := table.New(5)
	require.NoError(t, tbl.AddColumn("income", []float64{10, 20, 30, 40, 100}))
	derived, err := tbl.WithIndicator("income", table.NewIndicator(5, []int{4}))
	require.NoError(t, err)

	cmp, err := Compare(derived, "income", missing.KindNMAR, missing.FormLinear)
	require.NoError(t, err)

	assert.Equal(t, "income", cmp.Field)
	assert.Equal(t, missing.KindNMAR, cmp.Mechanism)
	assert.Equal(t, 1, cmp.MissingCount)
	assert.InDelta(t, 0.2, cmp.MissingRate, 1e-9)

	// Masking the largest value drags the observed mean below the truth;
	// mean imputation cannot recover it.
	assert.InDelta(t, 40.0, cmp.True.Mean, 1e-9)
	assert.InDelta(t, 25.0, cmp.Observed.Mean, 1e-9)
	assert.InDelta(t, 25.0, cmp.Imputed.Mean, 1e-9)
	assert.Equal(t, 5, cmp.Imputed.N)
	assert.Less(t, cmp.Imputed.StdDev, cmp.True.StdDev,
		"mean imputation shrinks the spread")
}

func TestCompare_FieldWithoutIndicator(t *testing.T) {
	tbl := table.New(3)
	require.NoError(t, tbl.AddColumn("age", []float64{20, 30, 40}))

	cmp, err := Compare(tbl, "age", missing.KindMCAR, "")
	require.NoError(t, err)
	assert.Equal(t, 0, cmp.MissingCount)
	assert.Equal(t, cmp.True, cmp.Observed)
}

func TestNewHistogram(t *testing.T) {
	h, err := NewHistogram([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 10}, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, h.Bins())

	total := 0.0
	for _, c := range h.Counts {
		total += c
	}
	assert.InDelta(t, 10.0, total, 1e-9, "every value must land in a bin")
	assert.InDelta(t, 0.0, h.Dividers[0], 1e-9)

	// Maximum value belongs to the last bin despite right-exclusive edges.
	assert.Equal(t, h.Bins()-1, h.BinOf(10))
	assert.Equal(t, 0, h.BinOf(0))
	assert.Equal(t, -1, h.BinOf(-3))
}

func TestNewHistogram_Degenerate(t *testing.T) {
	h, err := NewHistogram([]float64{7, 7, 7}, 4)
	require.NoError(t, err)
	total := 0.0
	for _, c := range h.Counts {
		total += c
	}
	assert.InDelta(t, 3.0, total, 1e-9)

	_, err = NewHistogram(nil, 4)
	assert.True(t, core.IsInvalidParameter(err))
	_, err = NewHistogram([]float64{1}, 0)
	assert.True(t, core.IsInvalidParameter(err))
}
