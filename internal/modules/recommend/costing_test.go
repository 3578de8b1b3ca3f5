package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elysia/ecocycle/internal/catalog"
	"github.com/elysia/ecocycle/internal/domain"
)

func frLaptop(age float64) domain.Device {
	return domain.Device{
		Class:     "laptop",
		AgeYears:  age,
		PersonaID: "admin-normal",
		Geography: "FR",
	}
}

func TestResolveFailsOnUnknownIdentifiers(t *testing.T) {
	c := &coster{catalog: catalog.NewDefault()}

	tests := []struct {
		name   string
		mutate func(*domain.Device)
	}{
		{"unknown class", func(d *domain.Device) { d.Class = "abacus" }},
		{"unknown persona", func(d *domain.Device) { d.PersonaID = "pilot" }},
		{"unknown geography", func(d *domain.Device) { d.Geography = "MOON" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device := frLaptop(3)
			tt.mutate(&device)
			_, err := c.resolve(device)
			require.Error(t, err)
			assert.True(t, domain.IsReferenceNotFound(err))
		})
	}
}

func TestResolveRejectsNegativeAge(t *testing.T) {
	c := &coster{catalog: catalog.NewDefault()}
	device := frLaptop(-1)
	_, err := c.resolve(device)
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))
}

func TestEnergyCostHandChecked(t *testing.T) {
	c := &coster{catalog: catalog.NewDefault()}
	p, err := c.resolve(frLaptop(3))
	require.NoError(t, err)

	// 0.030 kW x (8h x 220 days) x 0.22 EUR/kWh = 11.616
	assert.InDelta(t, 11.616, c.energyCost(p), 1e-9)
}

func TestProductivityLossCurve(t *testing.T) {
	c := &coster{catalog: catalog.NewDefault()}
	p, err := c.resolve(frLaptop(0))
	require.NoError(t, err)

	tests := []struct {
		age      float64
		wantPct  float64
		wantCost float64
	}{
		{2.0, 0, 0},        // under optimal age
		{3.0, 0, 0},        // at optimal age exactly
		{3.5, 0.015, 825},  // 55000 x 0.015 x 1.0
		{4.0, 0.030, 1650},
		{10.0, 0.150, 8250}, // capped at max degradation
	}

	for _, tt := range tests {
		pct, cost := c.productivityLoss(p, tt.age)
		assert.InDelta(t, tt.wantPct, pct, 1e-9, "pct at age %.1f", tt.age)
		assert.InDelta(t, tt.wantCost, cost, 1e-6, "cost at age %.1f", tt.age)
	}
}

func TestTCOHandChecked(t *testing.T) {
	c := &coster{catalog: catalog.NewDefault()}
	p, err := c.resolve(frLaptop(3.5))
	require.NoError(t, err)

	// Keep: energy 11.616 + lag 825 + residual shed 1000*(0.35-0.20)=150
	assert.InDelta(t, 986.616, c.tcoKeep(p), 1e-6)

	// New: 1000/4 + 11.616 + 14/4 - 700/4 = 90.116
	assert.InDelta(t, 90.116, c.tcoNew(p), 1e-6)

	// Refurb: 550/2 + 11.616*1.1 + 0 + 14/2 - 110/2 = 239.7776
	assert.InDelta(t, 239.7776, c.tcoRefurb(p), 1e-6)
}

func TestCO2HandChecked(t *testing.T) {
	c := &coster{catalog: catalog.NewDefault()}
	p, err := c.resolve(frLaptop(3.5))
	require.NoError(t, err)

	// Usage: 0.030 x 1760h x 0.052 = 2.7456 kg/yr
	assert.InDelta(t, 2.7456, c.co2Keep(p), 1e-9)

	// New: 250/4 + usage
	assert.InDelta(t, 65.2456, c.co2New(p), 1e-9)

	// Refurb: 250*0.15/2 + usage*1.1
	assert.InDelta(t, 21.77016, c.co2Refurb(p), 1e-6)
}

func TestPriceOverridesApply(t *testing.T) {
	c := &coster{catalog: catalog.NewDefault()}

	priceNew := 2000.0
	priceRefurb := 600.0
	power := 0.050
	device := frLaptop(2)
	device.PriceNewEUR = &priceNew
	device.PriceRefurbEUR = &priceRefurb
	device.PowerKW = &power

	p, err := c.resolve(device)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, p.priceNew)
	assert.Equal(t, 600.0, p.priceRefurb)
	assert.Equal(t, 0.050, p.powerKW)
}

func TestRefurbPriceDefaultsToDiscountedNew(t *testing.T) {
	c := &coster{catalog: catalog.NewDefault()}
	p, err := c.resolve(frLaptop(2))
	require.NoError(t, err)

	// 1000 x (1 - 0.45)
	assert.InDelta(t, 550.0, p.priceRefurb, 1e-9)
}
