package table

// Indicator marks which rows of one field are treated as missing.
// It is parallel to the table's row order: Indicator[i] == 1 means row i
// is masked, 0 means row i is observed. The indicator is the single
// source of truth for masking; the underlying column is never mutated.
type Indicator []int

// MissingCount returns the number of rows marked missing.
func (ind Indicator) MissingCount() int {
	n := 0
	for _, v := range ind {
		if v == 1 {
			n++
		}
	}
	return n
}

// MissingRows returns the row indices marked missing, in row order.
func (ind Indicator) MissingRows() []int {
	rows := make([]int, 0, ind.MissingCount())
	for i, v := range ind {
		if v == 1 {
			rows = append(rows, i)
		}
	}
	return rows
}

// Missing reports whether row i is marked missing.
func (ind Indicator) Missing(i int) bool {
	return i >= 0 && i < len(ind) && ind[i] == 1
}

// Equal reports whether two indicators mark the identical row set.
func (ind Indicator) Equal(other Indicator) bool {
	if len(ind) != len(other) {
		return false
	}
	for i := range ind {
		if ind[i] != other[i] {
			return false
		}
	}
	return true
}

// NewIndicator builds an all-zero indicator for rows rows with the given
// row indices set to 1.
func NewIndicator(rows int, missing []int) Indicator {
	ind := make(Indicator, rows)
	for _, i := range missing {
		if i >= 0 && i < rows {
			ind[i] = 1
		}
	}
	return ind
}
