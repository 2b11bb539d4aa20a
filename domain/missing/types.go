package missing

// Kind tags one of the three nonresponse mechanisms.
type Kind string

const (
	// KindMCAR selects rows uniformly, independent of any field's value.
	KindMCAR Kind = "mcar"
	// KindMAR weights selection by a different, fully-observed field.
	KindMAR Kind = "mar"
	// KindNMAR weights selection by the target field's own value.
	KindNMAR Kind = "nmar"
)

// Form is the functional form applied to weighting values.
type Form string

const (
	// FormLinear makes selection probability proportional to the value.
	FormLinear Form = "linear"
	// FormQuadratic makes selection probability proportional to the
	// squared value, concentrating selection on large values.
	FormQuadratic Form = "quadratic"
)

// Request configures a single indicator generation. Requests are
// transient call parameters, consumed once and never persisted.
type Request struct {
	// Target is the field whose values will be treated as missing.
	Target string `json:"target"`
	// Kind selects the mechanism.
	Kind Kind `json:"kind"`
	// WeightBy names the weighting field. Required for MAR, ignored
	// otherwise (NMAR always weights by Target).
	WeightBy string `json:"weight_by,omitempty"`
	// Form is the weighting transform. Required for MAR and NMAR.
	Form Form `json:"form,omitempty"`
	// Fraction is the missing fraction p in [0, 1]. The indicator gets
	// exactly round(p * rows) ones.
	Fraction float64 `json:"fraction"`
	// Seed drives the locally-scoped generator; identical seed, table
	// and request reproduce the indicator bit for bit.
	Seed int64 `json:"seed"`
}

// WeightField returns the field whose values weight the selection, or
// "" when the mechanism is unweighted.
func (r Request) WeightField() string {
	switch r.Kind {
	case KindMAR:
		return r.WeightBy
	case KindNMAR:
		return r.Target
	default:
		return ""
	}
}
