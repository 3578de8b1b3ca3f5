package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elysia/ecocycle/internal/domain"
)

func TestLookupsResolveKnownKeys(t *testing.T) {
	cat := NewDefault()

	factor, err := cat.CarbonFactor("FR")
	require.NoError(t, err)
	assert.InDelta(t, 0.052, factor, 1e-9)

	price, err := cat.ElectricityPrice("FR")
	require.NoError(t, err)
	assert.InDelta(t, 0.22, price, 1e-9)

	persona, err := cat.Persona("admin-high")
	require.NoError(t, err)
	assert.InDelta(t, 2.5, persona.LagSensitivity, 1e-9)

	available, err := cat.RefurbAvailable("laptop")
	require.NoError(t, err)
	assert.True(t, available)

	available, err = cat.RefurbAvailable("meeting-room-screen")
	require.NoError(t, err)
	assert.False(t, available)
}

func TestLookupsFailExplicitly(t *testing.T) {
	cat := NewDefault()

	tests := []struct {
		name   string
		lookup func() error
	}{
		{"unknown geography factor", func() error { _, err := cat.CarbonFactor("XX"); return err }},
		{"unknown geography price", func() error { _, err := cat.ElectricityPrice("XX"); return err }},
		{"unknown persona", func() error { _, err := cat.Persona("astronaut"); return err }},
		{"unknown device class", func() error { _, err := cat.DeviceClass("mainframe"); return err }},
		{"unknown class availability", func() error { _, err := cat.RefurbAvailable("mainframe"); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.lookup()
			require.Error(t, err)
			assert.True(t, domain.IsReferenceNotFound(err), "expected ReferenceNotFoundError, got %v", err)
		})
	}
}

func TestDepreciationRate(t *testing.T) {
	cat := NewDefault()

	tests := []struct {
		age  float64
		want float64
	}{
		{0, 1.00},
		{0.5, 1.00},
		{1, 0.70},
		{3.9, 0.35},
		{4, 0.20},
		{8, 0.01},
		{12, 0.01}, // clamped past the curve
	}

	for _, tt := range tests {
		got := cat.DepreciationRate(tt.age)
		assert.InDelta(t, tt.want, got, 1e-9, "age %.1f", tt.age)
	}
}

func TestAverages(t *testing.T) {
	cat := NewDefault()
	avg := cat.Averages()

	assert.Greater(t, avg.PriceEUR, 0.0)
	assert.Greater(t, avg.EmbodiedCO2Kg, 0.0)
	assert.Greater(t, avg.PowerKW, 0.0)
	assert.Greater(t, avg.LifespanYears, 0.0)
}

func TestLoaderOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reference.toml")
	content := `
[[geographies]]
id = "TEST"
name = "Test Grid"
grid_factor_kg_per_kwh = 0.123
price_kwh_eur = 0.30

[refurb]
co2_reduction_rate = 0.80
price_discount_rate = 0.40
energy_penalty_rate = 0.05
warranty_years = 3.0
residual_at_end_of_use = 0.25
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	loader := NewLoader(zerolog.Nop())
	cat, err := loader.Load(path)
	require.NoError(t, err)

	factor, err := cat.CarbonFactor("TEST")
	require.NoError(t, err)
	assert.InDelta(t, 0.123, factor, 1e-9)

	// Defaults survive alongside overrides
	_, err = cat.CarbonFactor("FR")
	require.NoError(t, err)

	assert.InDelta(t, 0.80, cat.RefurbCO2Rate(), 1e-9)
	assert.InDelta(t, 3.0, cat.Refurb().WarrantyYears, 1e-9)
}

func TestLoaderMissingFile(t *testing.T) {
	loader := NewLoader(zerolog.Nop())
	_, err := loader.Load("/nonexistent/reference.toml")
	assert.Error(t, err)
}
