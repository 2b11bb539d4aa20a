package mechanism

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/sampleuv"

	"missingmech/domain/core"
	"missingmech/domain/missing"
	"missingmech/domain/table"
)

// Generate produces a missingness indicator for the request's target
// field. The indicator carries exactly round(Fraction * rows) ones,
// selected without replacement under the request's mechanism, and is
// bit-for-bit reproducible for an identical table, request and seed.
// The table is never mutated.
func Generate(tbl *table.Table, req missing.Request) (table.Indicator, error) {
	switch req.Kind {
	case missing.KindMCAR:
		return MCAR(tbl, req.Target, req.Fraction, req.Seed)
	case missing.KindMAR:
		return MAR(tbl, req.Target, req.WeightBy, req.Form, req.Fraction, req.Seed)
	case missing.KindNMAR:
		return NMAR(tbl, req.Target, req.Form, req.Fraction, req.Seed)
	default:
		return nil, core.NewUnknownMechanismError(string(req.Kind))
	}
}

// MCAR selects rows uniformly without replacement: every row has the
// same chance of going missing regardless of any field's value.
func MCAR(tbl *table.Table, target string, fraction float64, seed int64) (table.Indicator, error) {
	k, err := missingCount(tbl, target, fraction)
	if err != nil {
		return nil, err
	}
	if k == 0 {
		return table.NewIndicator(tbl.Rows(), nil), nil
	}
	picked := make([]int, k)
	sampleuv.WithoutReplacement(picked, tbl.Rows(), newSource(seed))
	return table.NewIndicator(tbl.Rows(), picked), nil
}

// MAR selects rows with probability proportional to a transform of a
// different, fully-observed field's value: nonresponse explainable by
// another observed variable.
func MAR(tbl *table.Table, target, weightBy string, form missing.Form, fraction float64, seed int64) (table.Indicator, error) {
	if weightBy == "" {
		return nil, core.NewInvalidParameterError("MAR requires a weighting field")
	}
	if weightBy == target {
		return nil, core.NewInvalidParameterErrorf("MAR weighting field %q must differ from the target", weightBy)
	}
	k, err := missingCount(tbl, target, fraction)
	if err != nil {
		return nil, err
	}
	values, err := tbl.Column(weightBy)
	if err != nil {
		return nil, err
	}
	return weightedIndicator(tbl.Rows(), values, form, k, seed)
}

// NMAR selects rows with probability proportional to a transform of the
// target field's own, would-be-missing value: the mechanism that is not
// recoverable from observed data alone.
func NMAR(tbl *table.Table, target string, form missing.Form, fraction float64, seed int64) (table.Indicator, error) {
	k, err := missingCount(tbl, target, fraction)
	if err != nil {
		return nil, err
	}
	values, err := tbl.Column(target)
	if err != nil {
		return nil, err
	}
	return weightedIndicator(tbl.Rows(), values, form, k, seed)
}

// missingCount validates the shared inputs and resolves the exact
// number of rows to mark missing.
func missingCount(tbl *table.Table, target string, fraction float64) (int, error) {
	if tbl == nil || tbl.Rows() < 1 {
		return 0, core.ErrEmptyTable
	}
	if !tbl.HasField(target) {
		return 0, core.NewMissingFieldError(target)
	}
	if math.IsNaN(fraction) || fraction < 0 || fraction > 1 {
		return 0, core.NewInvalidParameterErrorf("missing fraction %g outside [0, 1]", fraction)
	}
	k := int(math.Round(fraction * float64(tbl.Rows())))
	if k > tbl.Rows() {
		return 0, core.NewInvalidParameterErrorf("requested %d missing rows, table has %d", k, tbl.Rows())
	}
	return k, nil
}

// weightedIndicator draws k distinct rows by weighted sampling without
// replacement. Drawn rows drop out of the pool, so the requested count
// is reached in exactly k draws instead of a rejection loop.
func weightedIndicator(rows int, values []float64, form missing.Form, k int, seed int64) (table.Indicator, error) {
	if k == 0 {
		return table.NewIndicator(rows, nil), nil
	}
	weights, err := transformWeights(values, form)
	if err != nil {
		return nil, err
	}
	positive := 0
	for _, w := range weights {
		if w > 0 {
			positive++
		}
	}
	if positive < k {
		return nil, core.NewInvalidParameterErrorf("only %d rows carry positive weight, %d required", positive, k)
	}

	sampler := sampleuv.NewWeighted(weights, newSource(seed))
	picked := make([]int, 0, k)
	for len(picked) < k {
		idx, ok := sampler.Take()
		if !ok {
			return nil, core.NewInvalidParameterError("weights exhausted before reaching the requested count")
		}
		picked = append(picked, idx)
	}
	return table.NewIndicator(rows, picked), nil
}

// transformWeights applies the functional form. Negative and NaN values
// make a weighted sample undefined and are rejected rather than clamped.
func transformWeights(values []float64, form missing.Form) ([]float64, error) {
	switch form {
	case missing.FormLinear, missing.FormQuadratic:
	default:
		return nil, core.NewUnknownMechanismError(string(form))
	}
	weights := make([]float64, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			return nil, core.NewInvalidParameterErrorf("weight value at row %d is NaN", i)
		}
		if v < 0 {
			return nil, core.NewInvalidParameterErrorf("negative weight value %g at row %d", v, i)
		}
		if form == missing.FormQuadratic {
			weights[i] = v * v
		} else {
			weights[i] = v
		}
	}
	return weights, nil
}

// newSource builds a locally-scoped deterministic source. Each
// invocation owns its generator, so concurrent calls never interfere.
func newSource(seed int64) rand.Source {
	return rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)
}
