package shock

import (
	"github.com/rs/zerolog"

	"github.com/elysia/ecocycle/internal/catalog"
	"github.com/elysia/ecocycle/internal/domain"
	"github.com/elysia/ecocycle/pkg/formulas"
)

// Calculator quantifies the cost of doing nothing: the residual value
// locked in the aging tail of the fleet, and the CO2 that the target
// refurbishment share would avoid each year.
type Calculator struct {
	catalog *catalog.Catalog
	log     zerolog.Logger
}

// NewCalculator creates a shock calculator
func NewCalculator(cat *catalog.Catalog, log zerolog.Logger) *Calculator {
	return &Calculator{
		catalog: cat,
		log:     log.With().Str("service", "shock").Logger(),
	}
}

// Compute derives the shock figures from a calibrated baseline.
// Pure: same baseline and catalog always yield the same result.
//
// StrandedValue: the fraction of the fleet past its useful life still
// carries book value on the depreciation curve. A fleet renewing at
// rate r turns over r × usefulLife years of its stock inside one
// lifespan; the remainder is the aged tail.
//
// AvoidableCO2: units replaced per year times the share the target
// composition routes to the refurbished channel, each avoiding the
// refurbishment CO2-savings rate of its embodied carbon.
func (c *Calculator) Compute(baseline domain.FleetBaseline) (domain.ShockResult, error) {
	// Geography resolved at calibration; re-resolve so a baseline built
	// by hand still fails loudly rather than computing garbage.
	if _, err := c.catalog.CarbonFactor(baseline.Geography); err != nil {
		return domain.ShockResult{}, err
	}

	usefulLife := c.catalog.Averages().LifespanYears

	agedFraction := formulas.Clamp(1.0-baseline.RenewalRate*usefulLife, 0, 1)
	residualPerUnit := baseline.AvgDevicePrice * c.catalog.DepreciationRate(baseline.AvgAgeYears)
	strandedValue := formulas.NonNegative(float64(baseline.FleetSize) * agedFraction * residualPerUnit)

	refurbShare := baseline.TargetComposition.Refurbished
	unitsPerYear := float64(baseline.FleetSize) * baseline.RenewalRate
	avoidableCO2 := formulas.NonNegative(
		unitsPerYear * refurbShare * baseline.AvgEmbodiedCO2Kg * c.catalog.RefurbCO2Rate(),
	)

	result := domain.ShockResult{
		StrandedValueEUR: formulas.Round2(strandedValue),
		AvoidableCO2Kg:   formulas.Round2(avoidableCO2),
	}

	c.log.Debug().
		Float64("stranded_value_eur", result.StrandedValueEUR).
		Float64("avoidable_co2_kg", result.AvoidableCO2Kg).
		Msg("Shock computed")

	return result, nil
}
