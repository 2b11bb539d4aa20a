package synth

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"missingmech/domain/core"
	"missingmech/domain/table"
)

// Field names of the synthetic survey table.
const (
	FieldAge       = "age"
	FieldPartnered = "partnered"
	FieldChildren  = "children"
	FieldIncome    = "income"
)

// Config parameterizes the synthetic survey population. Age, partnered
// and children are drawn independently; income is a linear combination
// of the three plus Gaussian noise, floored at zero.
type Config struct {
	Rows int   `json:"rows"`
	Seed int64 `json:"seed"`

	AgeMin float64 `json:"age_min"`
	AgeMax float64 `json:"age_max"`

	PartneredRate float64 `json:"partnered_rate"`
	ChildrenMean  float64 `json:"children_mean"`

	IncomeBase      float64 `json:"income_base"`
	IncomePerAge    float64 `json:"income_per_age"`
	IncomePartnered float64 `json:"income_partnered"`
	IncomePerChild  float64 `json:"income_per_child"`
	IncomeNoise     float64 `json:"income_noise"`
}

// DefaultConfig returns sensible defaults for the survey population
func DefaultConfig() Config {
	return Config{
		Rows:            1000,
		Seed:            42,
		AgeMin:          18,
		AgeMax:          65,
		PartneredRate:   0.6,
		ChildrenMean:    1.2,
		IncomeBase:      8000,
		IncomePerAge:    650,
		IncomePartnered: 6000,
		IncomePerChild:  -1500,
		IncomeNoise:     4000,
	}
}

// Generate builds the fully-observed observation table. The same config
// always yields the same table.
func Generate(cfg Config) (*table.Table, error) {
	if cfg.Rows < 1 {
		return nil, core.NewInvalidParameterErrorf("rows must be >= 1, got %d", cfg.Rows)
	}
	if cfg.AgeMax <= cfg.AgeMin {
		return nil, core.NewInvalidParameterErrorf("age range [%g, %g] is empty", cfg.AgeMin, cfg.AgeMax)
	}
	if cfg.PartneredRate < 0 || cfg.PartneredRate > 1 {
		return nil, core.NewInvalidParameterErrorf("partnered rate %g outside [0, 1]", cfg.PartneredRate)
	}
	if cfg.ChildrenMean < 0 {
		return nil, core.NewInvalidParameterErrorf("children mean %g is negative", cfg.ChildrenMean)
	}
	if cfg.IncomeNoise < 0 {
		return nil, core.NewInvalidParameterErrorf("income noise %g is negative", cfg.IncomeNoise)
	}

	src := rand.NewPCG(uint64(cfg.Seed), uint64(cfg.Seed)^0x6a09e667f3bcc908)
	ageDist := distuv.Uniform{Min: cfg.AgeMin, Max: cfg.AgeMax, Src: src}
	partneredDist := distuv.Bernoulli{P: cfg.PartneredRate, Src: src}
	childrenDist := distuv.Poisson{Lambda: cfg.ChildrenMean, Src: src}
	noiseDist := distuv.Normal{Mu: 0, Sigma: cfg.IncomeNoise, Src: src}

	age := make([]float64, cfg.Rows)
	partnered := make([]float64, cfg.Rows)
	children := make([]float64, cfg.Rows)
	income := make([]float64, cfg.Rows)

	for i := 0; i < cfg.Rows; i++ {
		age[i] = math.Round(ageDist.Rand())
		partnered[i] = partneredDist.Rand()
		children[i] = childrenDist.Rand()

		raw := cfg.IncomeBase +
			cfg.IncomePerAge*age[i] +
			cfg.IncomePartnered*partnered[i] +
			cfg.IncomePerChild*children[i] +
			noiseDist.Rand()
		income[i] = math.Max(0, math.Round(raw))
	}

	tbl := table.New(cfg.Rows)
	if err := tbl.AddColumn(FieldAge, age); err != nil {
		return nil, err
	}
	if err := tbl.AddColumn(FieldPartnered, partnered); err != nil {
		return nil, err
	}
	if err := tbl.AddColumn(FieldChildren, children); err != nil {
		return nil, err
	}
	if err := tbl.AddColumn(FieldIncome, income); err != nil {
		return nil, err
	}
	return tbl, nil
}
