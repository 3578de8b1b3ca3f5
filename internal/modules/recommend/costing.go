package recommend

import (
	"github.com/elysia/ecocycle/internal/catalog"
	"github.com/elysia/ecocycle/internal/domain"
	"github.com/elysia/ecocycle/pkg/formulas"
)

// deviceProfile is a Device with every reference lookup resolved.
// Building it up front keeps the cost formulas free of error paths.
type deviceProfile struct {
	class      catalog.DeviceClass
	persona    catalog.PersonaProfile
	gridFactor float64
	elecPrice  float64
	ageYears   float64

	priceNew    float64
	priceRefurb float64 // discounted new price unless the caller quoted one
	powerKW     float64
}

// coster computes the raw annual financial and carbon cost of each
// renewal scenario for one device.
type coster struct {
	catalog *catalog.Catalog
}

// resolve turns caller input into a fully-resolved profile, failing on
// the first unresolvable identifier.
func (c *coster) resolve(device domain.Device) (deviceProfile, error) {
	if device.AgeYears < 0 {
		return deviceProfile{}, domain.NewValidationError("age_years", "must be non-negative")
	}

	class, err := c.catalog.DeviceClass(device.Class)
	if err != nil {
		return deviceProfile{}, err
	}
	persona, err := c.catalog.Persona(device.PersonaID)
	if err != nil {
		return deviceProfile{}, err
	}
	gridFactor, err := c.catalog.CarbonFactor(device.Geography)
	if err != nil {
		return deviceProfile{}, err
	}
	elecPrice, err := c.catalog.ElectricityPrice(device.Geography)
	if err != nil {
		return deviceProfile{}, err
	}

	p := deviceProfile{
		class:      class,
		persona:    persona,
		gridFactor: gridFactor,
		elecPrice:  elecPrice,
		ageYears:   device.AgeYears,
		priceNew:   class.PriceNewEUR,
		powerKW:    class.PowerKW,
	}
	if device.PriceNewEUR != nil {
		p.priceNew = *device.PriceNewEUR
	}
	if device.PowerKW != nil {
		p.powerKW = *device.PowerKW
	}
	p.priceRefurb = p.priceNew * (1 - c.catalog.Refurb().PriceDiscountRate)
	if device.PriceRefurbEUR != nil {
		p.priceRefurb = *device.PriceRefurbEUR
	}
	return p, nil
}

// annualHours is the device's powered-on time per year
func (c *coster) annualHours(p deviceProfile) float64 {
	return p.persona.DailyHours * c.catalog.Productivity().WorkingDaysPerYear
}

// energyCost = power × hours × electricity price
func (c *coster) energyCost(p deviceProfile) float64 {
	return p.powerKW * c.annualHours(p) * p.elecPrice
}

// usageCO2 = power × hours × grid carbon factor
func (c *coster) usageCO2(p deviceProfile) float64 {
	return p.powerKW * c.annualHours(p) * p.gridFactor
}

// productivityLoss returns the degradation fraction and its annual cost
// for a device of the given age. Zero at or under the optimal age.
func (c *coster) productivityLoss(p deviceProfile, ageYears float64) (lossPct, cost float64) {
	prod := c.catalog.Productivity()
	if ageYears <= prod.OptimalYears {
		return 0, 0
	}
	lossPct = formulas.Clamp((ageYears-prod.OptimalYears)*prod.DegradationPerYear, 0, prod.MaxDegradation)
	cost = p.persona.SalaryEUR * lossPct * p.persona.LagSensitivity
	return lossPct, cost
}

// residual is the depreciated book value at a given age
func (c *coster) residual(p deviceProfile, ageYears float64) float64 {
	return p.priceNew * c.catalog.DepreciationRate(ageYears)
}

// tcoKeep: one more year on the current device. Energy, productivity
// drag, and the residual value the device sheds over the year.
func (c *coster) tcoKeep(p deviceProfile) float64 {
	_, lagCost := c.productivityLoss(p, p.ageYears)
	residualLoss := c.residual(p, p.ageYears) - c.residual(p, p.ageYears+1)
	return c.energyCost(p) + lagCost + residualLoss
}

// tcoNew: purchase amortized straight-line over the class lifespan,
// plus energy and end-of-life handling, net of first-year residual.
func (c *coster) tcoNew(p deviceProfile) float64 {
	life := p.class.LifespanYears()
	purchase := formulas.StraightLine(p.priceNew, life)
	disposal := formulas.StraightLine(c.catalog.DisposalCost(p.class), life)
	residualBenefit := formulas.StraightLine(c.residual(p, 1), life)
	return purchase + c.energyCost(p) + disposal - residualBenefit
}

// tcoRefurb: discounted purchase over the warranty period, an energy
// penalty for older silicon, and the mild productivity drag of hardware
// that behaves like a 1.5-year-old device.
func (c *coster) tcoRefurb(p deviceProfile) float64 {
	refurb := c.catalog.Refurb()
	purchase := formulas.StraightLine(p.priceRefurb, refurb.WarrantyYears)
	energy := c.energyCost(p) * (1 + refurb.EnergyPenaltyRate)
	_, lagCost := c.productivityLoss(p, 1.5)
	disposal := formulas.StraightLine(c.catalog.DisposalCost(p.class), refurb.WarrantyYears)
	residualBenefit := formulas.StraightLine(p.priceRefurb*refurb.ResidualAtEndOfUse, refurb.WarrantyYears)
	return purchase + energy + lagCost + disposal - residualBenefit
}

// co2Keep: manufacturing already emitted, only operation counts
func (c *coster) co2Keep(p deviceProfile) float64 {
	return c.usageCO2(p)
}

// co2New: embodied carbon amortized over the lifespan, plus operation
func (c *coster) co2New(p deviceProfile) float64 {
	return formulas.StraightLine(p.class.EmbodiedCO2Kg, p.class.LifespanYears()) + c.usageCO2(p)
}

// co2Refurb: the residual embodied share over the warranty period,
// plus penalized operation
func (c *coster) co2Refurb(p deviceProfile) float64 {
	refurb := c.catalog.Refurb()
	embodied := p.class.EmbodiedCO2Kg * (1 - refurb.CO2ReductionRate)
	return formulas.StraightLine(embodied, refurb.WarrantyYears) + c.usageCO2(p)*(1+refurb.EnergyPenaltyRate)
}
