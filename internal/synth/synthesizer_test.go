package synth

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"missingmech/domain/core"
)

func TestGenerate_Shape(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rows = 250

	tbl, err := Generate(cfg)
	require.NoError(t, err)
	assert.Equal(t, 250, tbl.Rows())
	assert.Equal(t, []string{FieldAge, FieldPartnered, FieldChildren, FieldIncome}, tbl.Fields())
}

func TestGenerate_ValueRanges(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rows = 500

	tbl, err := Generate(cfg)
	require.NoError(t, err)

	age, _ := tbl.Column(FieldAge)
	for _, v := range age {
		assert.GreaterOrEqual(t, v, cfg.AgeMin-0.5)
		assert.LessOrEqual(t, v, cfg.AgeMax+0.5)
	}

	partnered, _ := tbl.Column(FieldPartnered)
	for _, v := range partnered {
		if v != 0 && v != 1 {
			t.Fatalf("partnered must be 0 or 1, got %v", v)
		}
	}

	children, _ := tbl.Column(FieldChildren)
	for _, v := range children {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Equal(t, math.Trunc(v), v, "children counts must be whole numbers")
	}

	income, _ := tbl.Column(FieldIncome)
	for _, v := range income {
		assert.GreaterOrEqual(t, v, 0.0, "income is floored at zero")
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rows = 100

	a, err := Generate(cfg)
	require.NoError(t, err)
	b, err := Generate(cfg)
	require.NoError(t, err)

	for _, field := range a.Fields() {
		colA, _ := a.Column(field)
		colB, _ := b.Column(field)
		assert.Equal(t, colA, colB, "field %s must be reproducible", field)
	}

	cfg.Seed = 43
	c, err := Generate(cfg)
	require.NoError(t, err)
	incomeA, _ := a.Column(FieldIncome)
	incomeC, _ := c.Column(FieldIncome)
	assert.NotEqual(t, incomeA, incomeC, "a new seed should draw a new population")
}

func TestGenerate_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero rows", func(c *Config) { c.Rows = 0 }},
		{"empty age range", func(c *Config) { c.AgeMin, c.AgeMax = 40, 40 }},
		{"partnered rate above one", func(c *Config) { c.PartneredRate = 1.2 }},
		{"negative children mean", func(c *Config) { c.ChildrenMean = -1 }},
		{"negative noise", func(c *Config) { c.IncomeNoise = -10 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := Generate(cfg)
			assert.True(t, core.IsInvalidParameter(err), "got %v", err)
		})
	}
}
