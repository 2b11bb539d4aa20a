package summary

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"missingmech/domain/core"
	"missingmech/domain/missing"
	"missingmech/domain/table"
)

// Stats holds descriptive statistics for one series.
type Stats struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Describe computes descriptive statistics for a series.
func Describe(values []float64) (Stats, error) {
	if len(values) == 0 {
		return Stats{}, core.NewInvalidParameterError("cannot describe an empty series")
	}

	mean, err := stats.Mean(values)
	if err != nil {
		return Stats{}, err
	}
	median, err := stats.Median(values)
	if err != nil {
		return Stats{}, err
	}
	stdDev, err := stats.StandardDeviation(values)
	if err != nil {
		return Stats{}, err
	}
	min, err := stats.Min(values)
	if err != nil {
		return Stats{}, err
	}
	max, err := stats.Max(values)
	if err != nil {
		return Stats{}, err
	}

	return Stats{
		N:      len(values),
		Mean:   mean,
		Median: median,
		StdDev: stdDev,
		Min:    min,
		Max:    max,
	}, nil
}

// Comparison contrasts the true distribution of a field against what
// survives masking and what mean-imputation reconstructs.
type Comparison struct {
	Field        string       `json:"field"`
	Mechanism    missing.Kind `json:"mechanism"`
	Form         missing.Form `json:"form,omitempty"`
	MissingCount int          `json:"missing_count"`
	MissingRate  float64      `json:"missing_rate"`
	True         Stats        `json:"true"`
	Observed     Stats        `json:"observed"`
	Imputed      Stats        `json:"imputed"`
}

// Compare builds the true/observed/imputed comparison for a field of a
// derived table (one that carries an indicator for the field).
func Compare(derived *table.Table, field string, kind missing.Kind, form missing.Form) (Comparison, error) {
	truth, err := derived.Column(field)
	if err != nil {
		return Comparison{}, err
	}
	observed, err := derived.ObservedColumn(field)
	if err != nil {
		return Comparison{}, err
	}
	imputed, err := derived.ImputedColumn(field)
	if err != nil {
		return Comparison{}, err
	}

	trueStats, err := Describe(truth)
	if err != nil {
		return Comparison{}, err
	}
	observedStats, err := Describe(observed)
	if err != nil {
		return Comparison{}, err
	}
	imputedStats, err := Describe(imputed)
	if err != nil {
		return Comparison{}, err
	}

	missingCount := len(truth) - len(observed)
	return Comparison{
		Field:        field,
		Mechanism:    kind,
		Form:         form,
		MissingCount: missingCount,
		MissingRate:  float64(missingCount) / float64(len(truth)),
		True:         trueStats,
		Observed:     observedStats,
		Imputed:      imputedStats,
	}, nil
}

// Histogram is a fixed-bin count of a series, used by the rendering
// layer to draw comparative distributions.
type Histogram struct {
	Dividers []float64 `json:"dividers"` // bin edges, len = bins + 1
	Counts   []float64 `json:"counts"`   // len = bins
}

// NewHistogram bins a series into the given number of equal-width bins
// spanning [min, max].
func NewHistogram(values []float64, bins int) (Histogram, error) {
	if bins < 1 {
		return Histogram{}, core.NewInvalidParameterErrorf("bins must be >= 1, got %d", bins)
	}
	if len(values) == 0 {
		return Histogram{}, core.NewInvalidParameterError("cannot bin an empty series")
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		// Degenerate series: widen so every value lands in one real bin.
		lo -= 0.5
		hi += 0.5
	}

	dividers := make([]float64, bins+1)
	floats.Span(dividers, lo, hi)
	// stat.Histogram bins are right-exclusive; nudge the top edge so the
	// maximum value is counted.
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, sorted, nil)
	return Histogram{Dividers: dividers, Counts: counts}, nil
}

// Bins returns the number of bins.
func (h Histogram) Bins() int { return len(h.Counts) }

// MaxCount returns the largest bin count.
func (h Histogram) MaxCount() float64 {
	max := 0.0
	for _, c := range h.Counts {
		if c > max {
			max = c
		}
	}
	return max
}

// BinOf returns the bin index containing v, or -1 when v is out of range.
func (h Histogram) BinOf(v float64) int {
	for i := 0; i < h.Bins(); i++ {
		if v >= h.Dividers[i] && v < h.Dividers[i+1] {
			return i
		}
	}
	if h.Bins() > 0 && v == h.Dividers[h.Bins()] {
		return h.Bins() - 1
	}
	return -1
}
